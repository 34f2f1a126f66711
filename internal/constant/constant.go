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

// Package constant holds label, annotation, and condition-type strings
// shared across reconcilers and the webhook pipeline.
package constant

// Standard labels applied to every object the operator materializes.
const (
	// LabelName is the fixed app.kubernetes.io/name value for all Clair objects.
	LabelName = "app.kubernetes.io/name"
	// LabelNameValue is the value written under LabelName.
	LabelNameValue = "clair"
	// LabelManagedBy identifies the controller that owns an object.
	LabelManagedBy = "app.kubernetes.io/managed-by"
	// LabelManagedByValue is the value written under LabelManagedBy.
	LabelManagedByValue = "clair-operator"
	// LabelComponent carries the service role (indexer, matcher, notifier, updater, clair).
	LabelComponent = "app.kubernetes.io/component"
	// LabelInstance carries the owning CR's name, used as the orphan-cleanup
	// selector key for per-instance reconcilers (Indexer, Matcher, Notifier, Clair).
	LabelInstance = "app.kubernetes.io/instance"
)

// Config opt-in label. Presence on a ConfigMap or Secret opts the object
// into the mutating/validating webhook pipeline.
const (
	// ConfigLabelKey is the reserved-namespace label key.
	ConfigLabelKey = "clair.projectquay.io/config"
	// ConfigLabelValue is the only recognized label value ("reserved versioned namespace").
	ConfigLabelValue = "v1"
)

// Annotations written and read across the reconcile/webhook boundary.
const (
	// AnnotationConfigKey names the data key holding the rendered configuration.
	AnnotationConfigKey = "clair.projectquay.io/config-key"
	// AnnotationConfigTemplateKey names the data key holding the user-supplied template.
	AnnotationConfigTemplateKey = "clair.projectquay.io/config-template-key"
	// AnnotationIndexerService is written by the Indexer reconciler, read by the resolver.
	AnnotationIndexerService = "clair.projectquay.io/template-indexer-service"
	// AnnotationMatcherService is written by the Matcher reconciler, read by the resolver.
	AnnotationMatcherService = "clair.projectquay.io/template-matcher-service"
	// AnnotationNotifierService is written by the Notifier reconciler, read by the resolver.
	AnnotationNotifierService = "clair.projectquay.io/template-notifier-service"
	// AnnotationIndexerDeployment is written by the Indexer reconciler.
	AnnotationIndexerDeployment = "clair.projectquay.io/template-indexer-deployment"
	// AnnotationMatcherDeployment is written by the Matcher reconciler.
	AnnotationMatcherDeployment = "clair.projectquay.io/template-matcher-deployment"
	// AnnotationNotifierDeployment is written by the Notifier reconciler.
	AnnotationNotifierDeployment = "clair.projectquay.io/template-notifier-deployment"
	// AnnotationModifiedAt records an RFC3339 timestamp used to force pod
	// redeploys when the referenced config changes without a generation bump.
	AnnotationModifiedAt = "clair.projectquay.io/modifiedAt"
)

// ConditionTypeGatewayAvailable records whether a requested gateway/route
// kind was actually available to satisfy spec.gateway.
const ConditionTypeGatewayAvailable = "GatewayAvailable"
