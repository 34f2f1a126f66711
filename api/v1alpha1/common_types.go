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
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ContainerSpec defines customizations for a specific container.
// This type is reused across all deployment specs.
type ContainerSpec struct {
	// Resources specifies the resource requirements for the container.
	// +optional
	Resources *corev1.ResourceRequirements `json:"resources,omitempty"`

	// Env specifies environment variables for the container.
	// +optional
	Env []corev1.EnvVar `json:"env,omitempty"`
}

// ConfigKind identifies whether a referenced object is a ConfigMap or a Secret.
// +kubebuilder:validation:Enum=ConfigMap;Secret
type ConfigKind string

const (
	// ConfigKindConfigMap references a ConfigMap.
	ConfigKindConfigMap ConfigKind = "ConfigMap"
	// ConfigKindSecret references a Secret.
	ConfigKindSecret ConfigKind = "Secret"
)

// ConfigReference points at the root Clair configuration object and its
// dropin fragments. The referenced object lives in the same namespace as the
// resource that carries this reference.
type ConfigReference struct {
	// Kind is either ConfigMap or Secret.
	Kind ConfigKind `json:"kind"`

	// Name is the name of the referenced ConfigMap or Secret.
	Name string `json:"name"`

	// Key is the data key inside the referenced object holding the rendered
	// configuration. Defaults to "config.json" when empty.
	// +optional
	Key string `json:"key,omitempty"`

	// Dropins lists supplemental config-patch fragments applied on top of the
	// base configuration at Clair startup.
	// +optional
	Dropins []DropinSource `json:"dropins,omitempty"`
}

// DropinSource references exactly one key inside a ConfigMap or a Secret.
// Exactly one of ConfigMapKeyRef or SecretKeyRef must be set.
// +kubebuilder:validation:XValidation:rule="(has(self.configMapKeyRef) ? 1 : 0) + (has(self.secretKeyRef) ? 1 : 0) == 1",message="exactly one of configMapKeyRef or secretKeyRef must be set"
type DropinSource struct {
	// ConfigMapKeyRef selects a key inside a ConfigMap.
	// +optional
	ConfigMapKeyRef *corev1.ConfigMapKeySelector `json:"configMapKeyRef,omitempty"`

	// SecretKeyRef selects a key inside a Secret.
	// +optional
	SecretKeyRef *corev1.SecretKeySelector `json:"secretKeyRef,omitempty"`
}

// HasExactlyOneSource reports whether the dropin references exactly one of
// ConfigMapKeyRef or SecretKeyRef, per the XOR invariant.
func (d DropinSource) HasExactlyOneSource() bool {
	return (d.ConfigMapKeyRef != nil) != (d.SecretKeyRef != nil)
}

// TypedLocalReference names a single owned child object by kind. status.refs
// is a set keyed by Kind: at most one entry per kind.
type TypedLocalReference struct {
	// Kind is the child object's kind, e.g. "Deployment", "Service".
	Kind string `json:"kind"`

	// Name is the child object's name.
	Name string `json:"name"`
}

// ServiceStatus is the common status shape shared by Indexer, Matcher, and
// Notifier: conditions, owned refs, observed config version, and the image
// actually in use.
type ServiceStatus struct {
	// Conditions represent the latest available observations of state.
	// +optional
	Conditions []metav1.Condition `json:"conditions,omitempty"`

	// Refs lists the owned child objects, one entry per kind.
	// +optional
	Refs []TypedLocalReference `json:"refs,omitempty"`

	// ConfigVersion is the resourceVersion of the referenced config object at
	// the moment of the last successful materialization.
	// +optional
	ConfigVersion string `json:"configVersion,omitempty"`

	// ResolvedImage is the container image actually applied to the owned
	// workload.
	// +optional
	ResolvedImage string `json:"resolvedImage,omitempty"`
}

// ServiceSpec is the common spec shape shared by Indexer, Matcher, and
// Notifier.
type ServiceSpec struct {
	// Config references the root config object and its dropins. A nil Config
	// is rejected by the reconciler with Reason=InvalidSpec.
	// +optional
	Config *ConfigReference `json:"config,omitempty"`

	// Image is the container image for this service. The owning Clair sets
	// it to its resolved image on the children it creates; rendering fails
	// when it is empty.
	// +optional
	Image string `json:"image,omitempty"`

	// Container customizes the rendered workload's single container
	// (resource requirements, extra environment variables).
	// +optional
	Container *ContainerSpec `json:"container,omitempty"`
}

// ConditionAccessor is implemented by every CR kind in this API group so
// that shared condition-management helpers can read and write its
// status.conditions without a type switch per kind.
type ConditionAccessor interface {
	GetConditions() []metav1.Condition
	SetConditions([]metav1.Condition)
}
