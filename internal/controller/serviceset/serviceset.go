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

// Package serviceset implements the per-role reconciler shared by Indexer,
// Matcher, and Notifier. Indexer, Matcher, and Notifier are distinct
// Go types with identical spec/status shapes; rather than three near-copies
// of the same reconcile loop, one generic Reconciler is parameterized by a
// RoleConfig describing the differences between roles.
package serviceset

import (
	"context"
	"fmt"
	"reflect"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/builder"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	"sigs.k8s.io/controller-runtime/pkg/handler"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	clairv1alpha1 "github.com/quay/clair-operator/api/v1alpha1"
	"github.com/quay/clair-operator/internal/capability"
	"github.com/quay/clair-operator/internal/condition"
	"github.com/quay/clair-operator/internal/constant"
	"github.com/quay/clair-operator/internal/predicate"
	"github.com/quay/clair-operator/internal/refs"
	"github.com/quay/clair-operator/pkg/renderer"
	"github.com/quay/clair-operator/pkg/templatestore"
	"github.com/quay/clair-operator/pkg/tracking"
)

// ServiceObject is implemented by Indexer, Matcher, and Notifier: the three
// concrete CR kinds that share a ServiceSpec/ServiceStatus shape, reconciled
// by one generic reconciler rather than three near-identical copies.
type ServiceObject interface {
	client.Object
	clairv1alpha1.ConditionAccessor
	GetServiceSpec() *clairv1alpha1.ServiceSpec
	GetServiceStatus() *clairv1alpha1.ServiceStatus
}

// RoleConfig captures the differences between the Indexer, Matcher, and
// Notifier reconcilers: the CR kind, its template bundle, and the
// annotation keys the Config Resolver (pkg/resolver) reads back.
type RoleConfig struct {
	// Kind is the CR's kind string, used in log messages and error handling.
	Kind string
	// Role selects the template bundle this reconciler inflates.
	Role templatestore.Role
	// ServiceAnnotation is the annotation key written onto the config object
	// recording this role's rendered Service as "namespace/name", consumed
	// by the indexer:/matcher:/notifier: resolver scheme.
	ServiceAnnotation string
	// DeploymentAnnotation is the annotation key written onto the config
	// object recording this role's rendered Deployment as "namespace/name".
	DeploymentAnnotation string
	// NewObject returns a fresh, empty instance of the CR kind.
	NewObject func() ServiceObject
	// FieldManager identifies this controller for server-side apply.
	FieldManager string
}

// Reconciler is the shared reconcile loop for Indexer, Matcher, and
// Notifier, parameterized by RoleConfig.
type Reconciler struct {
	client.Client
	Scheme       *runtime.Scheme
	Store        *templatestore.Store
	Capabilities capability.Set
	RoleConfig   RoleConfig
}

// Reconcile fetches the CR, dereferences its config object, creates or
// repairs children, and updates status/readiness.
//
// +kubebuilder:rbac:groups=clairproject.org,resources=indexers;matchers;notifiers,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=clairproject.org,resources=indexers/status;matchers/status;notifiers/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=apps,resources=deployments,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=core,resources=services;configmaps;secrets,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=autoscaling,resources=horizontalpodautoscalers,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=monitoring.coreos.com,resources=servicemonitors,verbs=get;list;watch;create;update;patch;delete
func (r *Reconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	log := logf.FromContext(ctx)

	obj := r.RoleConfig.NewObject()
	if err := r.Get(ctx, req.NamespacedName, obj); err != nil {
		return ctrl.Result{}, client.IgnoreNotFound(err)
	}

	errHandler := condition.NewReconcileErrorHandler(log, r.Status(), obj, r.RoleConfig.Kind)

	spec := obj.GetServiceSpec()
	if spec.Config == nil {
		condition.SetFailedCondition(obj, condition.TypeAvailable, condition.ReasonInvalidSpec,
			fmt.Errorf("spec.config must reference a ConfigMap or Secret"))
		if err := r.Status().Update(ctx, obj); err != nil {
			log.Error(err, "failed to update status after rejecting nil spec.config")
			return ctrl.Result{}, err
		}
		return ctrl.Result{}, nil
	}

	configObj, err := r.dereferenceConfig(ctx, obj.GetNamespace(), spec.Config)
	if err != nil {
		return errHandler.HandleWithReason(ctx, err, condition.ReasonInvalidSpec, "dereference config object")
	}

	status := obj.GetServiceStatus()
	owned := refs.NewSet(status.Refs)
	configChanged := configObj.GetResourceVersion() != status.ConfigVersion
	emptyRefs := owned.Empty()

	switch {
	case emptyRefs:
		if err := r.create(ctx, obj, configObj, owned); err != nil {
			return errHandler.HandleApplyError(ctx, err)
		}
	case configChanged:
		if err := r.reconcileAnnotations(ctx, obj, configObj, owned); err != nil {
			return errHandler.HandleWithReason(ctx, err, condition.ReasonConfigurationChanged, "reconcile config annotations")
		}
	default:
		log.V(1).Info("spurious notification: config unchanged and refs already populated", "name", obj.GetName())
		return ctrl.Result{}, nil
	}

	status.Refs = owned.List()
	status.ConfigVersion = configObj.GetResourceVersion()

	if err := r.updateReadiness(ctx, obj); err != nil {
		return errHandler.HandleStatusUpdateError(ctx, err)
	}

	if err := r.Status().Update(ctx, obj); err != nil {
		log.Error(err, "failed to update status")
		return ctrl.Result{}, err
	}

	return ctrl.Result{}, nil
}

// dereferenceConfig fetches the ConfigMap or Secret named by ref, verifying
// its kind matches what ref declares.
func (r *Reconciler) dereferenceConfig(ctx context.Context, namespace string, ref *clairv1alpha1.ConfigReference) (client.Object, error) {
	key := types.NamespacedName{Namespace: namespace, Name: ref.Name}

	switch ref.Kind {
	case clairv1alpha1.ConfigKindSecret:
		secret := &corev1.Secret{}
		if err := r.Get(ctx, key, secret); err != nil {
			return nil, fmt.Errorf("dereferencing config secret %s: %w", ref.Name, err)
		}
		return secret, nil
	case clairv1alpha1.ConfigKindConfigMap:
		cm := &corev1.ConfigMap{}
		if err := r.Get(ctx, key, cm); err != nil {
			return nil, fmt.Errorf("dereferencing config configmap %s: %w", ref.Name, err)
		}
		return cm, nil
	default:
		return nil, fmt.Errorf("spec.config.kind %q must be ConfigMap or Secret", ref.Kind)
	}
}

// create inflates the role's templates, applies each child in order
// (deployment, service, optional HPA, optional monitor), records refs, and
// publishes the role's cross-service annotations onto the config object.
func (r *Reconciler) create(ctx context.Context, obj ServiceObject, configObj client.Object, owned *refs.Set) error {
	tc := tracking.NewClientWithOwnership(r.Client, tracking.OwnershipConfig{
		Owner:             obj,
		OwnerLabelKey:     constant.LabelInstance,
		ComponentLabelKey: constant.LabelComponent,
		Component:         string(r.RoleConfig.Role),
		FieldManager:      r.RoleConfig.FieldManager,
	})

	spec := obj.GetServiceSpec()
	objects, err := renderer.Render(r.Scheme, r.Store, r.RoleConfig.Role, obj, spec.Config, spec.Image, spec.Container)
	if err != nil {
		return fmt.Errorf("rendering %s templates: %w", r.RoleConfig.Role, err)
	}

	var serviceName, deploymentName string
	for _, child := range orderedChildren(objects, r.Capabilities) {
		kind := tracking.GetKind(child)
		if err := tc.ApplyOwned(ctx, child); err != nil {
			return fmt.Errorf("applying %s %s/%s: %w", kind, child.GetNamespace(), child.GetName(), err)
		}
		owned.Upsert(kind, child.GetName())

		switch kind {
		case "Service":
			serviceName = child.GetName()
		case "Deployment":
			deploymentName = child.GetName()
		}
	}

	return r.publishAnnotations(ctx, obj, configObj, serviceName, deploymentName)
}

// reconcileAnnotations reverifies the annotations on the config object match
// the recorded refs, repairing drift when the config changed but children
// already exist.
func (r *Reconciler) reconcileAnnotations(ctx context.Context, obj ServiceObject, configObj client.Object, owned *refs.Set) error {
	serviceName, _ := owned.Get("Service")
	deploymentName, _ := owned.Get("Deployment")
	return r.publishAnnotations(ctx, obj, configObj, serviceName, deploymentName)
}

// publishAnnotations writes the role's cross-service annotations onto the
// config object and adds obj as a non-controlling owner, so that a webhook
// rewriting the config object's data still generates a watch event here
// even though it never bumps the CR's own generation.
func (r *Reconciler) publishAnnotations(ctx context.Context, obj ServiceObject, configObj client.Object, serviceName, deploymentName string) error {
	namespace := obj.GetNamespace()
	want := map[string]string{}
	if serviceName != "" {
		want[r.RoleConfig.ServiceAnnotation] = fmt.Sprintf("%s/%s", namespace, serviceName)
	}
	if deploymentName != "" {
		want[r.RoleConfig.DeploymentAnnotation] = fmt.Sprintf("%s/%s", namespace, deploymentName)
	}

	annotations := configObj.GetAnnotations()
	if annotations == nil {
		annotations = map[string]string{}
	}
	changed := false
	for k, v := range want {
		if annotations[k] != v {
			annotations[k] = v
			changed = true
		}
	}

	refsBefore := configObj.GetOwnerReferences()
	if err := controllerutil.SetOwnerReference(obj, configObj, r.Scheme); err != nil {
		return fmt.Errorf("setting owner reference on config object: %w", err)
	}
	if !reflect.DeepEqual(refsBefore, configObj.GetOwnerReferences()) {
		changed = true
	}

	if !changed {
		return nil
	}
	configObj.SetAnnotations(annotations)
	if err := r.Update(ctx, configObj); err != nil {
		return fmt.Errorf("patching config object: %w", err)
	}
	return nil
}

// updateReadiness reads back the owned Deployment and sets the Available
// condition from its status.
func (r *Reconciler) updateReadiness(ctx context.Context, obj ServiceObject) error {
	status := obj.GetServiceStatus()
	name, ok := refs.NewSet(status.Refs).Get("Deployment")
	if !ok {
		return nil
	}

	dep := &appsv1.Deployment{}
	err := r.Get(ctx, types.NamespacedName{Namespace: obj.GetNamespace(), Name: name}, dep)
	switch {
	case err == nil:
		cond := condition.DeploymentCondition(dep)
		condition.SetCondition(obj, metav1.Condition{
			Type:    condition.TypeAvailable,
			Status:  cond.Status,
			Reason:  cond.Reason,
			Message: cond.Message,
		})
	case apierrors.IsNotFound(err):
		condition.SetFailedCondition(obj, condition.TypeAvailable, condition.ReasonDeploymentUnavailable,
			fmt.Errorf("deployment %s not found", name))
	default:
		return fmt.Errorf("reading deployment %s: %w", name, err)
	}
	return nil
}

// orderedChildren filters objects down to the kinds this cluster supports
// and orders them deployment, service, HPA, monitor.
func orderedChildren(objects []client.Object, caps capability.Set) []client.Object {
	rank := func(obj client.Object) int {
		switch tracking.GetKind(obj) {
		case "Deployment":
			return 0
		case "Service":
			return 1
		case "HorizontalPodAutoscaler":
			return 2
		case "ServiceMonitor":
			return 3
		default:
			return 4
		}
	}

	out := make([]client.Object, 0, len(objects))
	for _, obj := range objects {
		switch tracking.GetKind(obj) {
		case "HorizontalPodAutoscaler":
			if !caps.HorizontalPodAutoscaler {
				continue
			}
		case "ServiceMonitor":
			if !caps.ServiceMonitor {
				continue
			}
		}
		out = append(out, obj)
	}

	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && rank(out[j-1]) > rank(out[j]); j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// SetupWithManager wires the Reconciler into mgr. Owns watches cover the
// rendered children; non-owning Watches cover the config object, since the
// webhook pipeline can rewrite a ConfigMap or Secret's data without bumping
// the owning CR's generation.
func (r *Reconciler) SetupWithManager(mgr ctrl.Manager, forObj client.Object) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(forObj).
		Named(fmt.Sprintf("%s-serviceset", r.RoleConfig.Role)).
		Owns(&appsv1.Deployment{}, builder.WithPredicates(predicate.DeploymentReadinessPredicate)).
		Owns(&corev1.Service{}, builder.WithPredicates(predicate.GenerationChangedPredicate)).
		Watches(&corev1.ConfigMap{}, handler.EnqueueRequestsFromMapFunc(r.mapConfigObjectToRequests), builder.WithPredicates(predicate.LabelsOrAnnotationsChangedPredicate)).
		Watches(&corev1.Secret{}, handler.EnqueueRequestsFromMapFunc(r.mapConfigObjectToRequests), builder.WithPredicates(predicate.LabelsOrAnnotationsChangedPredicate)).
		Complete(r)
}

// mapConfigObjectToRequests finds the CR(s) that reference the changed
// ConfigMap/Secret by scanning its owner references for this reconciler's
// kind, which publishAnnotations adds to the config object.
func (r *Reconciler) mapConfigObjectToRequests(ctx context.Context, obj client.Object) []ctrl.Request {
	var requests []ctrl.Request
	gvk := schema.GroupVersionKind{Group: clairv1alpha1.GroupVersion.Group, Version: clairv1alpha1.GroupVersion.Version, Kind: r.RoleConfig.Kind}
	for _, ref := range obj.GetOwnerReferences() {
		if ref.APIVersion == gvk.GroupVersion().String() && ref.Kind == gvk.Kind {
			requests = append(requests, ctrl.Request{NamespacedName: types.NamespacedName{Namespace: obj.GetNamespace(), Name: ref.Name}})
		}
	}
	return requests
}
