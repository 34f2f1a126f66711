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

// DatabaseSecretRef references a Secret in the same namespace holding libpq
// environment-style connection data (PGHOST, PGDATABASE, PGUSER, ...) for one
// service's database.
type DatabaseSecretRef struct {
	// Name of the Secret.
	Name string `json:"name"`
}

// DatabaseRefs holds the per-service database secret references. The
// operator never provisions a database engine: every populated reference
// must name a Secret that already exists.
type DatabaseRefs struct {
	// Indexer references the indexer service's database secret.
	// +optional
	Indexer *DatabaseSecretRef `json:"indexer,omitempty"`

	// Matcher references the matcher service's database secret.
	// +optional
	Matcher *DatabaseSecretRef `json:"matcher,omitempty"`

	// Notifier references the notifier service's database secret.
	// Required when spec.notifier is true.
	// +optional
	Notifier *DatabaseSecretRef `json:"notifier,omitempty"`
}

// GatewaySpec configures the optional ingress/gateway fronting the Clair
// services.
type GatewaySpec struct {
	// Hostname the gateway should serve.
	Hostname string `json:"hostname"`

	// TLSSecretName names the Secret holding the serving certificate.
	// +optional
	TLSSecretName string `json:"tlsSecretName,omitempty"`

	// GatewayClassName hints which GatewayClass to bind to when the Gateway
	// API is available. Ignored when falling back to an OpenShift Route.
	// +optional
	GatewayClassName string `json:"gatewayClassName,omitempty"`
}

// ClairSpec defines the desired state of a Clair deployment.
// +kubebuilder:validation:XValidation:rule="!self.notifier || has(self.databases) && has(self.databases.notifier)",message="notifier database configuration must be provided"
type ClairSpec struct {
	// Image overrides the default Clair container image for every child
	// service. Falls back to the RELATED_IMAGE_CLAIR environment default
	// when empty.
	// +optional
	Image string `json:"image,omitempty"`

	// Databases names the per-service database secrets. Mandatory: the
	// operator does not provision databases.
	Databases DatabaseRefs `json:"databases,omitempty"`

	// Dropins lists supplemental config-patch fragments layered onto the
	// generated root configuration.
	// +optional
	Dropins []DropinSource `json:"dropins,omitempty"`

	// Gateway configures the optional ingress/gateway object. When nil, no
	// routing object is created.
	// +optional
	Gateway *GatewaySpec `json:"gateway,omitempty"`

	// Notifier toggles whether the notifier service is deployed.
	// +optional
	Notifier bool `json:"notifier,omitempty"`
}

// ConfigObjectReference names the materialized root config object (a
// ConfigMap or a Secret) generated by the root reconciler.
type ConfigObjectReference struct {
	// Kind is either ConfigMap or Secret.
	Kind ConfigKind `json:"kind"`
	// Name of the config object.
	Name string `json:"name"`
}

// ClairStatus defines the observed state of a Clair deployment.
type ClairStatus struct {
	// Conditions represent the latest available observations of state.
	// +optional
	Conditions []metav1.Condition `json:"conditions,omitempty"`

	// Refs lists the owned child objects, one entry per kind.
	// +optional
	Refs []TypedLocalReference `json:"refs,omitempty"`

	// ConfigRef points at the materialized root config object.
	// +optional
	ConfigRef *ConfigObjectReference `json:"configRef,omitempty"`

	// Indexer names the child Indexer resource.
	// +optional
	Indexer string `json:"indexer,omitempty"`

	// Matcher names the child Matcher resource.
	// +optional
	Matcher string `json:"matcher,omitempty"`

	// Notifier names the child Notifier resource, when enabled.
	// +optional
	Notifier string `json:"notifier,omitempty"`

	// CurrentVersion is the image tag currently rolled out.
	// +optional
	CurrentVersion string `json:"currentVersion,omitempty"`

	// PreviousVersion is the image tag that preceded CurrentVersion, kept
	// across an in-progress upgrade.
	// +optional
	PreviousVersion string `json:"previousVersion,omitempty"`

	// Endpoint is the externally reachable address of the gateway/route,
	// when one was created.
	// +optional
	Endpoint string `json:"endpoint,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="Available",type=string,JSONPath=`.status.conditions[?(@.type=="Available")].status`
// +kubebuilder:printcolumn:name="Version",type=string,JSONPath=`.status.currentVersion`

// Clair is the Schema for the clairs API. It is the parent resource that
// owns the Indexer, Matcher, and (optionally) Notifier child resources.
type Clair struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   ClairSpec   `json:"spec,omitempty"`
	Status ClairStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// ClairList contains a list of Clair.
type ClairList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []Clair `json:"items"`
}

// GetConditions returns the conditions from the Clair status.
func (c *Clair) GetConditions() []metav1.Condition {
	return c.Status.Conditions
}

// SetConditions sets the conditions on the Clair status.
func (c *Clair) SetConditions(conditions []metav1.Condition) {
	c.Status.Conditions = conditions
}

func init() {
	SchemeBuilder.Register(&Clair{}, &ClairList{})
}
