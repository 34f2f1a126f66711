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

// Indexer is the Schema for the indexers API.
type Indexer struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   ServiceSpec   `json:"spec,omitempty"`
	Status ServiceStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// IndexerList contains a list of Indexer.
type IndexerList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []Indexer `json:"items"`
}

// GetConditions returns the conditions from the Indexer status.
func (i *Indexer) GetConditions() []metav1.Condition {
	return i.Status.Conditions
}

// SetConditions sets the conditions on the Indexer status.
func (i *Indexer) SetConditions(conditions []metav1.Condition) {
	i.Status.Conditions = conditions
}

// GetServiceSpec returns the Indexer's spec as the shared ServiceSpec shape.
func (i *Indexer) GetServiceSpec() *ServiceSpec {
	return &i.Spec
}

// GetServiceStatus returns the Indexer's status as the shared ServiceStatus shape.
func (i *Indexer) GetServiceStatus() *ServiceStatus {
	return &i.Status
}

func init() {
	SchemeBuilder.Register(&Indexer{}, &IndexerList{})
}
