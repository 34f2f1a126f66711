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

// Package updater reconciles the Updater CR: the one role
// rendered as a CronJob instead of a long-running Deployment. It shares
// the shape of internal/controller/serviceset's reconcile loop but cannot
// reuse it directly: UpdaterSpec/UpdaterStatus carry Schedule/Suspend/
// CronJobRef fields no other role has, and the updater is never the target
// of an indexer:/matcher:/notifier: resolver forward, so it publishes no
// cross-service annotations.
package updater

import (
	"context"
	"fmt"
	"reflect"

	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
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

const (
	// FieldManager identifies this controller for server-side apply.
	FieldManager = "clair-updater-controller"
	crKind       = "Updater"
)

// Reconciler reconciles the Updater CR.
type Reconciler struct {
	client.Client
	Scheme       *runtime.Scheme
	Store        *templatestore.Store
	Capabilities capability.Set
}

// Reconcile follows the same five-step shape as serviceset.Reconciler,
// minus config-object annotation publishing.
//
// +kubebuilder:rbac:groups=clairproject.org,resources=updaters,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=clairproject.org,resources=updaters/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=batch,resources=cronjobs,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=core,resources=services;configmaps;secrets,verbs=get;list;watch;create;update;patch;delete
func (r *Reconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	log := logf.FromContext(ctx)

	obj := &clairv1alpha1.Updater{}
	if err := r.Get(ctx, req.NamespacedName, obj); err != nil {
		return ctrl.Result{}, client.IgnoreNotFound(err)
	}

	errHandler := condition.NewReconcileErrorHandler(log, r.Status(), obj, crKind)

	if obj.Spec.Config == nil {
		condition.SetFailedCondition(obj, condition.TypeAvailable, condition.ReasonInvalidSpec,
			fmt.Errorf("spec.config must reference a ConfigMap or Secret"))
		if err := r.Status().Update(ctx, obj); err != nil {
			log.Error(err, "failed to update status after rejecting nil spec.config")
			return ctrl.Result{}, err
		}
		return ctrl.Result{}, nil
	}

	configObj, err := r.dereferenceConfig(ctx, obj.Namespace, obj.Spec.Config)
	if err != nil {
		return errHandler.HandleWithReason(ctx, err, condition.ReasonInvalidSpec, "dereference config object")
	}

	if err := r.ensureConfigOwnerRef(ctx, obj, configObj); err != nil {
		return errHandler.HandleApplyError(ctx, err)
	}

	owned := refs.NewSet(obj.Status.Refs)
	emptyRefs := owned.Empty()
	configChanged := configObj.GetResourceVersion() != obj.Status.ConfigVersion

	switch {
	case emptyRefs:
		if err := r.create(ctx, obj, owned); err != nil {
			return errHandler.HandleApplyError(ctx, err)
		}
	case configChanged:
		log.Info("config object changed; CronJob remounts it on next scheduled run without a restart")
	default:
		log.V(1).Info("spurious notification: config unchanged and refs already populated", "name", obj.Name)
		return ctrl.Result{}, nil
	}

	obj.Status.Refs = owned.List()
	obj.Status.ConfigVersion = configObj.GetResourceVersion()
	r.updateReadiness(obj)

	if err := r.Status().Update(ctx, obj); err != nil {
		log.Error(err, "failed to update status")
		return ctrl.Result{}, err
	}

	return ctrl.Result{}, nil
}

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

// ensureConfigOwnerRef adds obj as a non-controlling owner of configObj, so
// that the Watches registered in SetupWithManager enqueue a request here
// when a webhook rewrites the config object's data without bumping obj's
// own generation.
func (r *Reconciler) ensureConfigOwnerRef(ctx context.Context, obj *clairv1alpha1.Updater, configObj client.Object) error {
	before := configObj.GetOwnerReferences()
	if err := controllerutil.SetOwnerReference(obj, configObj, r.Scheme); err != nil {
		return fmt.Errorf("setting owner reference on config object: %w", err)
	}
	if reflect.DeepEqual(before, configObj.GetOwnerReferences()) {
		return nil
	}
	if err := r.Update(ctx, configObj); err != nil {
		return fmt.Errorf("patching config object owner references: %w", err)
	}
	return nil
}

// create inflates the updater template bundle, overlays Schedule/Suspend
// onto the rendered CronJob, and applies each child in order.
func (r *Reconciler) create(ctx context.Context, obj *clairv1alpha1.Updater, owned *refs.Set) error {
	tc := tracking.NewClientWithOwnership(r.Client, tracking.OwnershipConfig{
		Owner:             obj,
		OwnerLabelKey:     constant.LabelInstance,
		ComponentLabelKey: constant.LabelComponent,
		Component:         string(templatestore.Updater),
		FieldManager:      FieldManager,
	})

	objects, err := renderer.Render(r.Scheme, r.Store, templatestore.Updater, obj, obj.Spec.Config, obj.Spec.Image, obj.Spec.Container)
	if err != nil {
		return fmt.Errorf("rendering updater templates: %w", err)
	}

	for _, child := range objects {
		kind := tracking.GetKind(child)
		if kind == "ServiceMonitor" && !r.Capabilities.ServiceMonitor {
			continue
		}
		if cronJob, ok := child.(*batchv1.CronJob); ok {
			if obj.Spec.Schedule != "" {
				cronJob.Spec.Schedule = obj.Spec.Schedule
			}
			cronJob.Spec.Suspend = &obj.Spec.Suspend
		}
		if err := tc.ApplyOwned(ctx, child); err != nil {
			return fmt.Errorf("applying %s %s/%s: %w", kind, child.GetNamespace(), child.GetName(), err)
		}
		owned.Upsert(kind, child.GetName())
		if kind == "CronJob" {
			obj.Status.CronJobRef = child.GetName()
		}
	}
	return nil
}

// updateReadiness marks Available=True once the CronJob has been applied.
// A CronJob has no "ready replica" concept; readiness here only means the
// scheduled object exists, not that any run has succeeded.
func (r *Reconciler) updateReadiness(obj *clairv1alpha1.Updater) {
	if obj.Status.CronJobRef == "" {
		condition.SetFailedCondition(obj, condition.TypeAvailable, condition.ReasonDeploymentUnavailable,
			fmt.Errorf("no CronJob applied yet"))
		return
	}
	condition.SetCondition(obj, metav1.Condition{
		Type:    condition.TypeAvailable,
		Status:  metav1.ConditionTrue,
		Reason:  condition.ReasonRefsAvailable,
		Message: fmt.Sprintf("CronJob %s applied", obj.Status.CronJobRef),
	})
}

// SetupWithManager wires the Reconciler into mgr.
func (r *Reconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&clairv1alpha1.Updater{}).
		Named("updater").
		Owns(&batchv1.CronJob{}, builder.WithPredicates(predicate.GenerationChangedPredicate)).
		Owns(&corev1.Service{}, builder.WithPredicates(predicate.GenerationChangedPredicate)).
		Watches(&corev1.ConfigMap{}, handler.EnqueueRequestsFromMapFunc(r.mapConfigObjectToRequests), builder.WithPredicates(predicate.LabelsOrAnnotationsChangedPredicate)).
		Watches(&corev1.Secret{}, handler.EnqueueRequestsFromMapFunc(r.mapConfigObjectToRequests), builder.WithPredicates(predicate.LabelsOrAnnotationsChangedPredicate)).
		Complete(r)
}

func (r *Reconciler) mapConfigObjectToRequests(ctx context.Context, obj client.Object) []ctrl.Request {
	var requests []ctrl.Request
	for _, ref := range obj.GetOwnerReferences() {
		if ref.Kind == crKind {
			requests = append(requests, ctrl.Request{NamespacedName: types.NamespacedName{Namespace: obj.GetNamespace(), Name: ref.Name}})
		}
	}
	return requests
}
