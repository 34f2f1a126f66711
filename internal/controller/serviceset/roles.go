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

package serviceset

import (
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	clairv1alpha1 "github.com/quay/clair-operator/api/v1alpha1"
	"github.com/quay/clair-operator/internal/capability"
	"github.com/quay/clair-operator/internal/constant"
	"github.com/quay/clair-operator/pkg/templatestore"
)

// NewIndexerReconciler builds the Reconciler instance for the Indexer CR.
func NewIndexerReconciler(c client.Client, scheme *runtime.Scheme, store *templatestore.Store, caps capability.Set) *Reconciler {
	return &Reconciler{
		Client:       c,
		Scheme:       scheme,
		Store:        store,
		Capabilities: caps,
		RoleConfig: RoleConfig{
			Kind:                 "Indexer",
			Role:                 templatestore.Indexer,
			ServiceAnnotation:    constant.AnnotationIndexerService,
			DeploymentAnnotation: constant.AnnotationIndexerDeployment,
			NewObject:            func() ServiceObject { return &clairv1alpha1.Indexer{} },
			FieldManager:         "clair-indexer-controller",
		},
	}
}

// NewMatcherReconciler builds the Reconciler instance for the Matcher CR.
func NewMatcherReconciler(c client.Client, scheme *runtime.Scheme, store *templatestore.Store, caps capability.Set) *Reconciler {
	return &Reconciler{
		Client:       c,
		Scheme:       scheme,
		Store:        store,
		Capabilities: caps,
		RoleConfig: RoleConfig{
			Kind:                 "Matcher",
			Role:                 templatestore.Matcher,
			ServiceAnnotation:    constant.AnnotationMatcherService,
			DeploymentAnnotation: constant.AnnotationMatcherDeployment,
			NewObject:            func() ServiceObject { return &clairv1alpha1.Matcher{} },
			FieldManager:         "clair-matcher-controller",
		},
	}
}

// NewNotifierReconciler builds the Reconciler instance for the Notifier CR.
func NewNotifierReconciler(c client.Client, scheme *runtime.Scheme, store *templatestore.Store, caps capability.Set) *Reconciler {
	return &Reconciler{
		Client:       c,
		Scheme:       scheme,
		Store:        store,
		Capabilities: caps,
		RoleConfig: RoleConfig{
			Kind:                 "Notifier",
			Role:                 templatestore.Notifier,
			ServiceAnnotation:    constant.AnnotationNotifierService,
			DeploymentAnnotation: constant.AnnotationNotifierDeployment,
			NewObject:            func() ServiceObject { return &clairv1alpha1.Notifier{} },
			FieldManager:         "clair-notifier-controller",
		},
	}
}
