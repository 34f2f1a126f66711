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

// Package clair implements the root Clair reconciler: it owns
// orchestration of the whole tree. On first reconcile it materializes a root
// config artifact, then creates the child Indexer/Matcher/Notifier/Updater
// custom resources pointed at it. It drives version upgrades through an
// admin-post Job before letting children advance to a new image, and
// optionally creates a Gateway or Route fronting the services.
package clair

import (
	"context"
	"fmt"

	"github.com/cenkalti/backoff/v5"
	"github.com/go-logr/logr"
	"github.com/google/go-containerregistry/pkg/name"
	"gopkg.in/yaml.v3"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	clairv1alpha1 "github.com/quay/clair-operator/api/v1alpha1"
	"github.com/quay/clair-operator/internal/capability"
	"github.com/quay/clair-operator/internal/condition"
	"github.com/quay/clair-operator/internal/constant"
	"github.com/quay/clair-operator/internal/refs"
	"github.com/quay/clair-operator/pkg/renderer"
	"github.com/quay/clair-operator/pkg/templatestore"
	"github.com/quay/clair-operator/pkg/tracking"
)

const (
	// FieldManager identifies this controller for server-side apply.
	FieldManager = "clair-controller"
	crKind       = "Clair"

	rootConfigKey = "config.json"
)

// notifierCleanupGVKs lists the sub-CR kind that is conditionally created
// (spec.notifier) and therefore needs orphan cleanup when toggled off.
var notifierCleanupGVKs = []schema.GroupVersionKind{
	{Group: clairv1alpha1.GroupVersion.Group, Version: clairv1alpha1.GroupVersion.Version, Kind: "Notifier"},
}

// Reconciler reconciles the Clair CR.
type Reconciler struct {
	client.Client
	Scheme       *runtime.Scheme
	Store        *templatestore.Store
	Capabilities capability.Set
	// DefaultImage is the RELATED_IMAGE_CLAIR fallback used when
	// spec.image is empty.
	DefaultImage string
}

// +kubebuilder:rbac:groups=clairproject.org,resources=clairs,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=clairproject.org,resources=clairs/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=clairproject.org,resources=indexers;matchers;notifiers;updaters,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=core,resources=configmaps;secrets,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=batch,resources=jobs,verbs=get;list;watch;create;delete
// +kubebuilder:rbac:groups=gateway.networking.k8s.io,resources=gateways,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=route.openshift.io,resources=routes,verbs=get;list;watch;create;update;patch;delete
func (r *Reconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	log := logf.FromContext(ctx)

	clair := &clairv1alpha1.Clair{}
	if err := r.Get(ctx, req.NamespacedName, clair); err != nil {
		return ctrl.Result{}, client.IgnoreNotFound(err)
	}

	errHandler := condition.NewReconcileErrorHandler(log, r.Status(), clair, crKind)

	if missing := r.missingDatabaseSecret(ctx, clair); missing != "" {
		condition.SetFailedCondition(clair, condition.TypeAvailable, condition.ReasonMissingDatabase,
			fmt.Errorf("database secret %q referenced in spec.databases does not exist", missing))
		if err := r.Status().Update(ctx, clair); err != nil {
			return ctrl.Result{}, err
		}
		return ctrl.Result{}, nil
	}

	image := resolvedImage(clair, r.DefaultImage)

	tc := tracking.NewClientWithOwnership(r.Client, tracking.OwnershipConfig{
		Owner:             clair,
		OwnerLabelKey:     constant.LabelInstance,
		ComponentLabelKey: constant.LabelComponent,
		Component:         string(templatestore.Clair),
		FieldManager:      FieldManager,
	})

	if clair.Status.ConfigRef == nil {
		if err := r.createRootConfig(ctx, tc, clair); err != nil {
			return errHandler.HandleApplyError(ctx, err)
		}
	}

	configRef := &clairv1alpha1.ConfigReference{
		Kind: clair.Status.ConfigRef.Kind,
		Name: clair.Status.ConfigRef.Name,
		Key:  rootConfigKey,
	}

	if err := r.reconcileVersion(ctx, tc, clair, image); err != nil {
		return errHandler.HandleWithReason(ctx, err, condition.ReasonUpgradeFailed, "version upgrade")
	}

	owned := refs.NewSet(clair.Status.Refs)
	if err := r.applyChildren(ctx, tc, clair, configRef, owned); err != nil {
		return errHandler.HandleApplyError(ctx, err)
	}
	clair.Status.Refs = owned.List()

	if err := tc.CleanupOrphans(ctx, constant.LabelInstance, clair.Name, notifierCleanupGVKs); err != nil {
		return errHandler.HandleCleanupError(ctx, err)
	}

	if err := r.reconcileGateway(ctx, tc, clair); err != nil {
		return errHandler.HandleApplyError(ctx, err)
	}

	r.aggregateStatus(ctx, clair, log)

	if err := r.Status().Update(ctx, clair); err != nil {
		log.Error(err, "failed to update status")
		return ctrl.Result{}, err
	}

	return ctrl.Result{}, nil
}

func resolvedImage(clair *clairv1alpha1.Clair, defaultImage string) string {
	if clair.Spec.Image != "" {
		return clair.Spec.Image
	}
	return defaultImage
}

// missingDatabaseSecret returns the name of the first referenced database
// secret that does not exist, or "" when every populated reference
// dereferences cleanly.
func (r *Reconciler) missingDatabaseSecret(ctx context.Context, clair *clairv1alpha1.Clair) string {
	for _, ref := range []*clairv1alpha1.DatabaseSecretRef{
		clair.Spec.Databases.Indexer,
		clair.Spec.Databases.Matcher,
		clair.Spec.Databases.Notifier,
	} {
		if ref == nil {
			continue
		}
		secret := &corev1.Secret{}
		key := types.NamespacedName{Namespace: clair.Namespace, Name: ref.Name}
		if err := r.Get(ctx, key, secret); err != nil {
			return ref.Name
		}
	}
	return ""
}

// createRootConfig materializes the root config object: a ConfigMap, unless
// any database secret is referenced, in which case it must be a Secret
// because the rendered content embeds database+postgresql:secret: URIs and
// the resolver forbids a secret: URI inside a ConfigMap.
func (r *Reconciler) createRootConfig(ctx context.Context, tc *tracking.Client, clair *clairv1alpha1.Clair) error {
	content, err := renderRootConfigContent(clair)
	if err != nil {
		return fmt.Errorf("rendering root config: %w", err)
	}

	name := fmt.Sprintf("%s-config", clair.Name)
	annotations := map[string]string{
		constant.AnnotationConfigTemplateKey: rootConfigKey,
		constant.AnnotationConfigKey:         rootConfigKey,
	}
	labels := map[string]string{constant.ConfigLabelKey: constant.ConfigLabelValue}

	kind := clairv1alpha1.ConfigKindConfigMap
	var obj client.Object
	if needsSecretConfig(clair) {
		kind = clairv1alpha1.ConfigKindSecret
		obj = &corev1.Secret{
			ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: clair.Namespace, Labels: labels, Annotations: annotations},
			StringData: map[string]string{rootConfigKey: content},
		}
	} else {
		obj = &corev1.ConfigMap{
			ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: clair.Namespace, Labels: labels, Annotations: annotations},
			Data:       map[string]string{rootConfigKey: content},
		}
	}

	if err := tc.ApplyOwned(ctx, obj); err != nil {
		return fmt.Errorf("applying root config object: %w", err)
	}

	clair.Status.ConfigRef = &clairv1alpha1.ConfigObjectReference{Kind: kind, Name: name}
	return nil
}

func needsSecretConfig(clair *clairv1alpha1.Clair) bool {
	d := clair.Spec.Databases
	return d.Indexer != nil || d.Matcher != nil || d.Notifier != nil
}

// renderRootConfigContent builds the minimal Clair config document, with a
// database+postgresql:secret: URI per populated database reference left for
// the mutating webhook to resolve.
func renderRootConfigContent(clair *clairv1alpha1.Clair) (string, error) {
	doc := map[string]any{
		"http_listen_addr":   ":6060",
		"introspection_addr": ":8089",
		"log_level":          "info",
	}

	ns := clair.Namespace
	for key, ref := range map[string]*clairv1alpha1.DatabaseSecretRef{
		"indexer":  clair.Spec.Databases.Indexer,
		"matcher":  clair.Spec.Databases.Matcher,
		"notifier": clair.Spec.Databases.Notifier,
	} {
		if ref == nil {
			continue
		}
		doc[key] = map[string]any{
			"connstring": fmt.Sprintf("database+postgresql:secret:%s/%s", ns, ref.Name),
		}
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// reconcileVersion runs the version-upgrade algorithm: record the previous
// version, render and apply an admin-post Job at the new version against
// the current config, wait for it to succeed, then
// advance status.currentVersion so child reconcilers pick up the new image.
func (r *Reconciler) reconcileVersion(ctx context.Context, tc *tracking.Client, clair *clairv1alpha1.Clair, image string) error {
	log := logf.FromContext(ctx)

	ref, err := name.ParseReference(image, name.WeakValidation)
	if err != nil {
		return fmt.Errorf("parsing image reference %q: %w", image, err)
	}
	version := ref.Identifier()

	if clair.Status.CurrentVersion == "" {
		clair.Status.CurrentVersion = version
		return nil
	}
	if clair.Status.CurrentVersion == version {
		return nil
	}

	log.Info("version changed, running admin-post job before advancing children",
		"from", clair.Status.CurrentVersion, "to", version)

	configRef := &clairv1alpha1.ConfigReference{
		Kind: clair.Status.ConfigRef.Kind,
		Name: clair.Status.ConfigRef.Name,
		Key:  rootConfigKey,
	}
	job, err := renderer.RenderAdminPostJob(r.Scheme, r.Store, clair, configRef, image, version)
	if err != nil {
		return fmt.Errorf("rendering admin-post job: %w", err)
	}
	if err := tc.ApplyOwned(ctx, job); err != nil {
		return fmt.Errorf("applying admin-post job: %w", err)
	}

	if err := r.waitForJob(ctx, client.ObjectKeyFromObject(job)); err != nil {
		return fmt.Errorf("admin-post job %s: %w", job.Name, err)
	}

	clair.Status.PreviousVersion = clair.Status.CurrentVersion
	clair.Status.CurrentVersion = version
	return nil
}

// waitForJob polls the named Job with bounded exponential backoff until it
// reports success or permanent failure.
func (r *Reconciler) waitForJob(ctx context.Context, key client.ObjectKey) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		job := &batchv1.Job{}
		if err := r.Get(ctx, key, job); err != nil {
			return struct{}{}, err
		}
		for _, cond := range job.Status.Conditions {
			if cond.Type == batchv1.JobComplete && cond.Status == corev1.ConditionTrue {
				return struct{}{}, nil
			}
			if cond.Type == batchv1.JobFailed && cond.Status == corev1.ConditionTrue {
				return struct{}{}, backoff.Permanent(fmt.Errorf("job failed: %s", cond.Message))
			}
		}
		return struct{}{}, fmt.Errorf("job %s has not completed yet", key.Name)
	}, backoff.WithMaxTries(30), backoff.WithBackOff(backoff.NewExponentialBackOff()))
	return err
}

// applyChildren creates/updates the Indexer, Matcher, Updater, and
// (when enabled) Notifier child CRs, pointed at the root config object.
func (r *Reconciler) applyChildren(ctx context.Context, tc *tracking.Client, clair *clairv1alpha1.Clair, configRef *clairv1alpha1.ConfigReference, owned *refs.Set) error {
	image := resolvedImage(clair, r.DefaultImage)

	indexer := &clairv1alpha1.Indexer{
		TypeMeta:   metav1.TypeMeta{APIVersion: clairv1alpha1.GroupVersion.String(), Kind: "Indexer"},
		ObjectMeta: metav1.ObjectMeta{Name: childName(clair, "indexer"), Namespace: clair.Namespace},
		Spec:       clairv1alpha1.ServiceSpec{Config: configRef, Image: image},
	}
	if err := tc.ApplyOwned(ctx, indexer); err != nil {
		return fmt.Errorf("applying Indexer: %w", err)
	}
	owned.Upsert("Indexer", indexer.Name)
	clair.Status.Indexer = indexer.Name

	matcher := &clairv1alpha1.Matcher{
		TypeMeta:   metav1.TypeMeta{APIVersion: clairv1alpha1.GroupVersion.String(), Kind: "Matcher"},
		ObjectMeta: metav1.ObjectMeta{Name: childName(clair, "matcher"), Namespace: clair.Namespace},
		Spec:       clairv1alpha1.ServiceSpec{Config: configRef, Image: image},
	}
	if err := tc.ApplyOwned(ctx, matcher); err != nil {
		return fmt.Errorf("applying Matcher: %w", err)
	}
	owned.Upsert("Matcher", matcher.Name)
	clair.Status.Matcher = matcher.Name

	updater := &clairv1alpha1.Updater{
		TypeMeta:   metav1.TypeMeta{APIVersion: clairv1alpha1.GroupVersion.String(), Kind: "Updater"},
		ObjectMeta: metav1.ObjectMeta{Name: childName(clair, "updater"), Namespace: clair.Namespace},
		Spec:       clairv1alpha1.UpdaterSpec{Config: configRef, Image: image, Schedule: "0 0 * * *"},
	}
	if err := tc.ApplyOwned(ctx, updater); err != nil {
		return fmt.Errorf("applying Updater: %w", err)
	}
	owned.Upsert("Updater", updater.Name)

	if clair.Spec.Notifier {
		notifier := &clairv1alpha1.Notifier{
			TypeMeta:   metav1.TypeMeta{APIVersion: clairv1alpha1.GroupVersion.String(), Kind: "Notifier"},
			ObjectMeta: metav1.ObjectMeta{Name: childName(clair, "notifier"), Namespace: clair.Namespace},
			Spec:       clairv1alpha1.ServiceSpec{Config: configRef, Image: image},
		}
		if err := tc.ApplyOwned(ctx, notifier); err != nil {
			return fmt.Errorf("applying Notifier: %w", err)
		}
		owned.Upsert("Notifier", notifier.Name)
		clair.Status.Notifier = notifier.Name
	} else {
		owned.Drop("Notifier")
		clair.Status.Notifier = ""
	}

	return nil
}

func childName(clair *clairv1alpha1.Clair, role string) string {
	return fmt.Sprintf("%s-%s", clair.Name, role)
}

// reconcileGateway creates the routing object fronting the services when
// spec.gateway is set and a supported kind is available. Gateway API is
// preferred over Route when both are present.
func (r *Reconciler) reconcileGateway(ctx context.Context, tc *tracking.Client, clair *clairv1alpha1.Clair) error {
	log := logf.FromContext(ctx)

	if clair.Spec.Gateway == nil {
		return nil
	}

	switch {
	case r.Capabilities.Gateway:
		obj, err := renderer.RenderGateway(r.Scheme, r.Store, clair, clair.Spec.Gateway)
		if err != nil {
			return fmt.Errorf("rendering gateway: %w", err)
		}
		if err := tc.ApplyOwned(ctx, obj); err != nil {
			return fmt.Errorf("applying gateway: %w", err)
		}
		clair.Status.Endpoint = clair.Spec.Gateway.Hostname
	case r.Capabilities.Route:
		obj, err := renderer.RenderRoute(r.Scheme, r.Store, clair, childName(clair, "matcher"))
		if err != nil {
			return fmt.Errorf("rendering route: %w", err)
		}
		if err := tc.ApplyOwned(ctx, obj); err != nil {
			return fmt.Errorf("applying route: %w", err)
		}
		clair.Status.Endpoint = clair.Spec.Gateway.Hostname
	default:
		condition.SetCondition(clair, metav1.Condition{
			Type:    constant.ConditionTypeGatewayAvailable,
			Status:  metav1.ConditionFalse,
			Reason:  condition.ReasonCapabilityMissing,
			Message: "spec.gateway is set but no supported routing kind (Gateway API or Route) is installed",
		})
		log.Info("no routing capability available, leaving ingress to the user", "clair", clair.Name)
	}

	return nil
}

// aggregateStatus copies the Indexer's, Matcher's and (when enabled) the
// Notifier's Available condition onto the Clair CR and derives the overall
// Available from them. Reconcile returns before calling it when the database
// check or the version upgrade fails, so those conditions are not overwritten.
func (r *Reconciler) aggregateStatus(ctx context.Context, clair *clairv1alpha1.Clair, log logr.Logger) {
	var subCRStatuses []condition.SubCRStatus

	indexer := &clairv1alpha1.Indexer{}
	if err := r.Get(ctx, client.ObjectKey{Namespace: clair.Namespace, Name: clair.Status.Indexer}, indexer); err == nil {
		subCRStatuses = append(subCRStatuses, condition.CopySubCRStatus(clair, indexer, "indexer"))
	} else {
		log.V(1).Info("indexer not found yet", "error", err)
	}

	matcher := &clairv1alpha1.Matcher{}
	if err := r.Get(ctx, client.ObjectKey{Namespace: clair.Namespace, Name: clair.Status.Matcher}, matcher); err == nil {
		subCRStatuses = append(subCRStatuses, condition.CopySubCRStatus(clair, matcher, "matcher"))
	} else {
		log.V(1).Info("matcher not found yet", "error", err)
	}

	if clair.Spec.Notifier {
		notifier := &clairv1alpha1.Notifier{}
		if err := r.Get(ctx, client.ObjectKey{Namespace: clair.Namespace, Name: clair.Status.Notifier}, notifier); err == nil {
			subCRStatuses = append(subCRStatuses, condition.CopySubCRStatus(clair, notifier, "notifier"))
		} else {
			log.V(1).Info("notifier not found yet", "error", err)
		}
	}

	condition.SetAggregatedReadyCondition(clair, subCRStatuses)
}

// SetupWithManager wires the Reconciler into mgr.
func (r *Reconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&clairv1alpha1.Clair{}).
		Named("clair").
		Owns(&clairv1alpha1.Indexer{}).
		Owns(&clairv1alpha1.Matcher{}).
		Owns(&clairv1alpha1.Notifier{}).
		Owns(&clairv1alpha1.Updater{}).
		Owns(&corev1.ConfigMap{}).
		Owns(&corev1.Secret{}).
		Owns(&batchv1.Job{}).
		Complete(r)
}
