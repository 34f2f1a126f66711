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

package condition

// Condition type constants.
// These are the standard condition types used across all Clair CRs.
const (
	// TypeAvailable indicates whether a resource's owned workloads are up
	// and its configuration has been successfully materialized.
	TypeAvailable = "Available"
)

// Condition reason constants.
// These reasons provide standardized explanations for condition states.
const (
	// ReasonInitialCreation indicates the resource was just created and has
	// not completed its first reconcile.
	ReasonInitialCreation = "InitialCreation"

	// ReasonRefsAvailable indicates all owned child objects were applied
	// and their workloads report ready.
	ReasonRefsAvailable = "RefsAvailable"

	// ReasonDeploymentUnavailable indicates an owned Deployment has not
	// reached the desired number of ready replicas.
	ReasonDeploymentUnavailable = "DeploymentUnavailable"

	// ReasonInvalidSpec indicates the resource spec failed validation and
	// was rejected, or failed a post-admission consistency check.
	ReasonInvalidSpec = "InvalidSpec"

	// ReasonConfigurationChanged indicates a referenced config object
	// changed and dependent workloads are being rolled to pick it up.
	ReasonConfigurationChanged = "ConfigurationChanged"

	// ReasonUpgradeFailed indicates the version-upgrade job did not
	// complete successfully.
	ReasonUpgradeFailed = "UpgradeFailed"

	// ReasonMissingDatabase indicates a required database secret reference
	// is absent from the spec.
	ReasonMissingDatabase = "MissingDatabase"

	// ReasonAllComponentsReady indicates all components are ready.
	ReasonAllComponentsReady = "AllComponentsReady"

	// ReasonComponentsNotReady indicates one or more components are not ready.
	ReasonComponentsNotReady = "ComponentsNotReady"

	// ReasonDeploymentReady indicates a deployment is ready.
	ReasonDeploymentReady = "DeploymentReady"

	// ReasonDeploymentNotReady indicates a deployment is not ready.
	ReasonDeploymentNotReady = "DeploymentNotReady"

	// ReasonApplyFailed indicates that applying resources failed.
	ReasonApplyFailed = "ApplyFailed"

	// ReasonCleanupFailed indicates that cleanup of orphaned resources failed.
	ReasonCleanupFailed = "CleanupFailed"

	// ReasonStatusUpdateFailed indicates that fetching deployment status failed.
	ReasonStatusUpdateFailed = "StatusUpdateFailed"

	// ReasonCapabilityMissing indicates an optional cluster capability
	// (HorizontalPodAutoscaler, ServiceMonitor, Gateway, Route) is absent,
	// so the corresponding kind was silently skipped.
	ReasonCapabilityMissing = "CapabilityMissing"
)
