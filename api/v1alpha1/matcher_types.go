/*
Copyright 2025 Konflux CI.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="Available",type=string,JSONPath=`.status.conditions[?(@.type=="Available")].status`

// Matcher is the Schema for the matchers API.
type Matcher struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   ServiceSpec   `json:"spec,omitempty"`
	Status ServiceStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// MatcherList contains a list of Matcher.
type MatcherList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []Matcher `json:"items"`
}

// GetConditions returns the conditions from the Matcher status.
func (m *Matcher) GetConditions() []metav1.Condition {
	return m.Status.Conditions
}

// SetConditions sets the conditions on the Matcher status.
func (m *Matcher) SetConditions(conditions []metav1.Condition) {
	m.Status.Conditions = conditions
}

// GetServiceSpec returns the Matcher's spec as the shared ServiceSpec shape.
func (m *Matcher) GetServiceSpec() *ServiceSpec {
	return &m.Spec
}

// GetServiceStatus returns the Matcher's status as the shared ServiceStatus shape.
func (m *Matcher) GetServiceStatus() *ServiceStatus {
	return &m.Status
}

func init() {
	SchemeBuilder.Register(&Matcher{}, &MatcherList{})
}
