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

// UpdaterSpec defines the desired state of the Updater service, the one
// role rendered as a CronJob instead of a Deployment.
type UpdaterSpec struct {
	// Config references the root config object and its dropins.
	// +optional
	Config *ConfigReference `json:"config,omitempty"`

	// Image is the container image for the updater. The owning Clair sets
	// it to its resolved image on the Updater it creates; rendering fails
	// when it is empty.
	// +optional
	Image string `json:"image,omitempty"`

	// Schedule is a standard cron expression controlling how often the
	// updater runs.
	// +optional
	Schedule string `json:"schedule,omitempty"`

	// Suspend pauses scheduling of new runs without deleting the CronJob.
	// +optional
	Suspend bool `json:"suspend,omitempty"`

	// Container customizes the rendered CronJob's single container
	// (resource requirements, extra environment variables).
	// +optional
	Container *ContainerSpec `json:"container,omitempty"`
}

// UpdaterStatus defines the observed state of the Updater service.
type UpdaterStatus struct {
	// Conditions represent the latest available observations of state.
	// +optional
	Conditions []metav1.Condition `json:"conditions,omitempty"`

	// Refs lists the owned child objects, one entry per kind.
	// +optional
	Refs []TypedLocalReference `json:"refs,omitempty"`

	// CronJobRef names the scheduled-job object driving updater runs.
	// +optional
	CronJobRef string `json:"cronJobRef,omitempty"`

	// ConfigVersion is the resourceVersion of the config object last
	// observed by the reconciler, used to detect drift.
	// +optional
	ConfigVersion string `json:"configVersion,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="Available",type=string,JSONPath=`.status.conditions[?(@.type=="Available")].status`
// +kubebuilder:printcolumn:name="Schedule",type=string,JSONPath=`.spec.schedule`

// Updater is the Schema for the updaters API.
type Updater struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   UpdaterSpec   `json:"spec,omitempty"`
	Status UpdaterStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// UpdaterList contains a list of Updater.
type UpdaterList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []Updater `json:"items"`
}

// GetConditions returns the conditions from the Updater status.
func (u *Updater) GetConditions() []metav1.Condition {
	return u.Status.Conditions
}

// SetConditions sets the conditions on the Updater status.
func (u *Updater) SetConditions(conditions []metav1.Condition) {
	u.Status.Conditions = conditions
}

func init() {
	SchemeBuilder.Register(&Updater{}, &UpdaterList{})
}
