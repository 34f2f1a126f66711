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

// Package renderer implements a pure function
// that takes a role's template bundle from pkg/templatestore and produces
// concrete, owned, parent-named objects. Rendering performs no I/O and is
// byte-stable for a fixed input.
package renderer

import (
	"errors"
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	autoscalingv2 "k8s.io/api/autoscaling/v2"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"

	clairv1alpha1 "github.com/quay/clair-operator/api/v1alpha1"
	"github.com/quay/clair-operator/pkg/customization"
	"github.com/quay/clair-operator/pkg/templatestore"
)

// ErrInvalidInput is returned when the renderer is asked to render with an
// empty target image.
var ErrInvalidInput = errors.New("renderer: invalid input")

const (
	defaultConfigKey  = "config.json"
	rootConfigVolume  = "root-config"
	dropinVolumeName  = "dropin-config"
	clairContainer    = "clair"
)

// Render produces the concrete child objects for role, owned by parent, with
// the root config volume, dropin projections, and container image wired in.
// container, when non-nil, overlays extra resource requirements and
// environment variables onto the role's single "clair" container. scheme
// must know parent's GroupVersionKind so the owner reference can be set on
// every returned object, typed or unstructured.
func Render(scheme *runtime.Scheme, store *templatestore.Store, role templatestore.Role, parent client.Object, config *clairv1alpha1.ConfigReference, image string, container *clairv1alpha1.ContainerSpec) ([]client.Object, error) {
	if image == "" {
		return nil, fmt.Errorf("%w: image must not be empty", ErrInvalidInput)
	}
	if config == nil {
		return nil, fmt.Errorf("%w: config reference must not be nil", ErrInvalidInput)
	}

	objects, err := store.Get(role)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("%s-%s", parent.GetName(), role)
	for _, obj := range objects {
		obj.SetNamespace(parent.GetNamespace())
		obj.SetName(name)

		switch typed := obj.(type) {
		case *appsv1.Deployment:
			if err := wirePodSpec(&typed.Spec.Template.Spec, image, config, container); err != nil {
				return nil, err
			}
		case *batchv1.CronJob:
			if err := wirePodSpec(&typed.Spec.JobTemplate.Spec.Template.Spec, image, config, container); err != nil {
				return nil, err
			}
		case *autoscalingv2.HorizontalPodAutoscaler:
			typed.Spec.ScaleTargetRef.Name = name
		case *unstructured.Unstructured:
			if typed.GetKind() == "HorizontalPodAutoscaler" {
				if err := unstructured.SetNestedField(typed.Object, name, "spec", "scaleTargetRef", "name"); err != nil {
					return nil, fmt.Errorf("rendering %s: %w", role, err)
				}
			}
		}

		if err := controllerutil.SetControllerReference(parent, obj, scheme); err != nil {
			return nil, fmt.Errorf("rendering %s: setting owner reference: %w", role, err)
		}
	}

	return objects, nil
}

// wirePodSpec sets the "clair" container's image and, through a PodOverlay,
// strategic-merges any user-supplied resource/env customization onto it
// before wiring the config volumes.
func wirePodSpec(spec *corev1.PodSpec, image string, config *clairv1alpha1.ConfigReference, container *clairv1alpha1.ContainerSpec) error {
	opts := []customization.ContainerOption{customization.WithImage(image)}
	if container != nil {
		opts = append(opts, customization.FromContainerSpec(container))
	}
	overlay := customization.BuildPodOverlay(customization.DeploymentContext{},
		customization.WithContainerBuilder(clairContainer, opts...))

	template := &corev1.PodTemplateSpec{Spec: *spec}
	if err := overlay.ApplyToPodTemplateSpec(template); err != nil {
		return fmt.Errorf("applying container overlay: %w", err)
	}
	*spec = template.Spec

	key := config.Key
	if key == "" {
		key = defaultConfigKey
	}

	for i := range spec.Volumes {
		vol := &spec.Volumes[i]
		switch vol.Name {
		case rootConfigVolume:
			setRootConfigSource(vol, config, key)
		case dropinVolumeName:
			projections, err := dropinProjections(config.Dropins)
			if err != nil {
				return err
			}
			vol.Projected.Sources = projections
		}
	}

	return nil
}

func setRootConfigSource(vol *corev1.Volume, config *clairv1alpha1.ConfigReference, key string) {
	switch config.Kind {
	case clairv1alpha1.ConfigKindSecret:
		vol.ConfigMap = nil
		vol.Secret = &corev1.SecretVolumeSource{
			SecretName: config.Name,
			Items: []corev1.KeyToPath{
				{Key: key, Path: "config.json"},
			},
		}
	default:
		vol.Secret = nil
		vol.ConfigMap = &corev1.ConfigMapVolumeSource{
			LocalObjectReference: corev1.LocalObjectReference{Name: config.Name},
			Items: []corev1.KeyToPath{
				{Key: key, Path: "config.json"},
			},
		}
	}
}

// RenderGateway renders the Gateway-API routing object from the "clair" role
// bundle, setting its gatewayClassName and first listener's hostname from
// gateway. A bundle with no Gateway template is a programmer error and
// panics.
func RenderGateway(scheme *runtime.Scheme, store *templatestore.Store, parent client.Object, gateway *clairv1alpha1.GatewaySpec) (*unstructured.Unstructured, error) {
	obj, err := extractFromClairBundle(store, "Gateway")
	if err != nil {
		return nil, err
	}

	obj.SetNamespace(parent.GetNamespace())
	obj.SetName(parent.GetName())
	if err := unstructured.SetNestedField(obj.Object, gateway.GatewayClassName, "spec", "gatewayClassName"); err != nil {
		return nil, fmt.Errorf("rendering gateway: %w", err)
	}
	if err := setListenerHostname(obj, gateway.Hostname); err != nil {
		return nil, fmt.Errorf("rendering gateway: %w", err)
	}
	if err := controllerutil.SetControllerReference(parent, obj, scheme); err != nil {
		return nil, fmt.Errorf("rendering gateway: setting owner reference: %w", err)
	}
	return obj, nil
}

// setListenerHostname sets the hostname on the Gateway's first listener.
// listeners is a list, not a map, so it must be read out, mutated, and
// written back rather than addressed by SetNestedField's map-only path.
func setListenerHostname(obj *unstructured.Unstructured, hostname string) error {
	listeners, found, err := unstructured.NestedSlice(obj.Object, "spec", "listeners")
	if err != nil {
		return err
	}
	if !found || len(listeners) == 0 {
		return fmt.Errorf("gateway template has no listeners")
	}
	listener, ok := listeners[0].(map[string]interface{})
	if !ok {
		return fmt.Errorf("gateway template's first listener has unexpected shape %T", listeners[0])
	}
	listener["hostname"] = hostname
	listeners[0] = listener
	return unstructured.SetNestedSlice(obj.Object, listeners, "spec", "listeners")
}

// RenderRoute renders the OpenShift Route fronting serviceName, from the
// "clair" role bundle.
func RenderRoute(scheme *runtime.Scheme, store *templatestore.Store, parent client.Object, serviceName string) (*unstructured.Unstructured, error) {
	obj, err := extractFromClairBundle(store, "Route")
	if err != nil {
		return nil, err
	}

	obj.SetNamespace(parent.GetNamespace())
	obj.SetName(parent.GetName())
	if err := unstructured.SetNestedField(obj.Object, serviceName, "spec", "to", "name"); err != nil {
		return nil, fmt.Errorf("rendering route: %w", err)
	}
	if err := controllerutil.SetControllerReference(parent, obj, scheme); err != nil {
		return nil, fmt.Errorf("rendering route: setting owner reference: %w", err)
	}
	return obj, nil
}

// RenderAdminPostJob renders the one-shot "clairctl admin post" Job
// named "<parent>-admin-post-<version>", pointed at the current config
// object, using the new target version's image.
func RenderAdminPostJob(scheme *runtime.Scheme, store *templatestore.Store, parent client.Object, config *clairv1alpha1.ConfigReference, image, version string) (*batchv1.Job, error) {
	if image == "" {
		return nil, fmt.Errorf("%w: image must not be empty", ErrInvalidInput)
	}
	if config == nil {
		return nil, fmt.Errorf("%w: config reference must not be nil", ErrInvalidInput)
	}

	objects, err := store.Get(templatestore.Clair)
	if err != nil {
		return nil, err
	}

	var job *batchv1.Job
	for _, obj := range objects {
		if typed, ok := obj.(*batchv1.Job); ok {
			job = typed
			break
		}
	}
	if job == nil {
		panic("renderer: \"clair\" template bundle has no Job template")
	}

	job.SetNamespace(parent.GetNamespace())
	job.SetName(fmt.Sprintf("%s-admin-post-%s", parent.GetName(), version))

	// wirePodSpec only rewrites the volumes (the admin-post container is
	// named "clairctl", not "clair", so its image is set directly).
	if err := wirePodSpec(&job.Spec.Template.Spec, image, config, nil); err != nil {
		return nil, err
	}
	container := &job.Spec.Template.Spec.Containers[0]
	container.Image = image
	container.Command = []string{"clairctl", "admin", "post", version}

	if err := controllerutil.SetControllerReference(parent, job, scheme); err != nil {
		return nil, fmt.Errorf("rendering admin-post job: setting owner reference: %w", err)
	}
	return job, nil
}

func extractFromClairBundle(store *templatestore.Store, kind string) (*unstructured.Unstructured, error) {
	objects, err := store.Get(templatestore.Clair)
	if err != nil {
		return nil, err
	}
	for _, obj := range objects {
		if u, ok := obj.(*unstructured.Unstructured); ok && u.GetKind() == kind {
			return u, nil
		}
	}
	panic(fmt.Sprintf("renderer: %q template bundle has no %s template", templatestore.Clair, kind))
}

func dropinProjections(dropins []clairv1alpha1.DropinSource) ([]corev1.VolumeProjection, error) {
	projections := make([]corev1.VolumeProjection, 0, len(dropins))
	for _, d := range dropins {
		if !d.HasExactlyOneSource() {
			return nil, fmt.Errorf("%w: dropin must set exactly one of configMapKeyRef or secretKeyRef", ErrInvalidInput)
		}
		switch {
		case d.ConfigMapKeyRef != nil:
			projections = append(projections, corev1.VolumeProjection{
				ConfigMap: &corev1.ConfigMapProjection{
					LocalObjectReference: corev1.LocalObjectReference{Name: d.ConfigMapKeyRef.Name},
					Items: []corev1.KeyToPath{
						{Key: d.ConfigMapKeyRef.Key, Path: d.ConfigMapKeyRef.Key},
					},
				},
			})
		case d.SecretKeyRef != nil:
			projections = append(projections, corev1.VolumeProjection{
				Secret: &corev1.SecretProjection{
					LocalObjectReference: corev1.LocalObjectReference{Name: d.SecretKeyRef.Name},
					Items: []corev1.KeyToPath{
						{Key: d.SecretKeyRef.Key, Path: d.SecretKeyRef.Key},
					},
				},
			})
		}
	}
	return projections, nil
}
