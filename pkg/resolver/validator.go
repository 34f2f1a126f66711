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

package resolver

import (
	"context"
	"fmt"
	"net/http"

	"gopkg.in/yaml.v3"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/webhook/admission"

	"github.com/quay/clair-operator/internal/constant"
)

// Mode names one of the three sequential validation passes run over a
// resolved config blob.
type Mode string

const (
	ModeIndexer  Mode = "indexer"
	ModeMatcher  Mode = "matcher"
	ModeNotifier Mode = "notifier"
)

// modes is the fixed validation order: any mode failure denies the
// admission outright.
var modes = []Mode{ModeIndexer, ModeMatcher, ModeNotifier}

// ClairValidator abstracts Clair's own configuration validator, which this
// module does not vendor. A real implementation round-trips through
// clairctl/libclair; tests supply a fake.
type ClairValidator interface {
	Validate(mode Mode, config []byte) (warnings []string, err error)
}

// Validate runs the three validation passes over reqObj, which must carry
// the opt-in label and template-key annotation the Resolver also requires.
// It returns an admission.Response shaped as Allowed, Denied, or Errored; it
// never returns a Go error, matching the shape the Admission Server expects
// to hand straight back to the API server.
func Validate(ctx context.Context, c ClairValidator, reqObj client.Object) admission.Response {
	labels := reqObj.GetLabels()
	if labels[constant.ConfigLabelKey] != constant.ConfigLabelValue {
		return admission.Errored(http.StatusBadRequest, fmt.Errorf("missing %s=%s label", constant.ConfigLabelKey, constant.ConfigLabelValue))
	}

	annotations := reqObj.GetAnnotations()
	key := annotations[constant.AnnotationConfigKey]
	if key == "" {
		return admission.Errored(http.StatusBadRequest, fmt.Errorf("missing %s annotation", constant.AnnotationConfigKey))
	}

	raw, err := dataValue(reqObj, key)
	if err != nil {
		return admission.Errored(http.StatusBadRequest, fmt.Errorf("reading data key %q: %w", key, err))
	}

	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return admission.Errored(http.StatusBadRequest, fmt.Errorf("data key %q does not parse as YAML: %w", key, err))
	}

	var warnings []string
	for _, mode := range modes {
		modeWarnings, err := c.Validate(mode, raw)
		warnings = append(warnings, modeWarnings...)
		if err != nil {
			resp := admission.Denied(fmt.Sprintf("%s validation failed: %v", mode, err))
			resp.Warnings = warnings
			return resp
		}
	}

	resp := admission.Allowed("")
	resp.Warnings = warnings
	return resp
}
