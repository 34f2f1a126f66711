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

// Package webhook implements the admission server: it decodes the
// admission request's embedded object into a ConfigMap or Secret and
// dispatches it to the Config Resolver (mutating) or Config Validator
// (validating). Requests carrying any other kind are rejected outright.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/manager"
	"sigs.k8s.io/controller-runtime/pkg/webhook/admission"

	"github.com/quay/clair-operator/pkg/resolver"
)

// MutatePath and ValidatePath are the registered webhook server routes.
const (
	MutatePath   = "/mutate/v1alpha1"
	ValidatePath = "/validate/v1alpha1"
)

// decodeConfigObject unmarshals the admission request's raw object into a
// ConfigMap or Secret, the only two kinds the Resolver/Validator understand.
func decodeConfigObject(raw []byte, kind string) (client.Object, error) {
	switch kind {
	case "ConfigMap":
		obj := &corev1.ConfigMap{}
		if err := json.Unmarshal(raw, obj); err != nil {
			return nil, fmt.Errorf("decoding ConfigMap: %w", err)
		}
		return obj, nil
	case "Secret":
		obj := &corev1.Secret{}
		if err := json.Unmarshal(raw, obj); err != nil {
			return nil, fmt.Errorf("decoding Secret: %w", err)
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported kind %q: only ConfigMap and Secret are recognized", kind)
	}
}

// mutator wraps pkg/resolver.Resolve as an admission.Handler.
type mutator struct {
	client.Client
}

var _ admission.Handler = &mutator{}

func (m *mutator) Handle(ctx context.Context, req admission.Request) admission.Response {
	obj, err := decodeConfigObject(req.Object.Raw, req.Kind.Kind)
	if err != nil {
		return admission.Errored(http.StatusBadRequest, err)
	}

	result, err := resolver.Resolve(ctx, m.Client, obj)
	switch {
	case errors.Is(err, resolver.ErrNotOptedIn):
		return admission.Allowed("object is not opted into the config pipeline")
	case err != nil:
		return admission.Errored(http.StatusBadRequest, err)
	}

	resp := admission.Allowed("")
	resp.Patches = result.Patches
	resp.Warnings = result.Warnings
	return resp
}

// validator wraps pkg/resolver.Validate as an admission.Handler.
type validator struct {
	client.Client
	ClairValidator resolver.ClairValidator
}

var _ admission.Handler = &validator{}

func (v *validator) Handle(ctx context.Context, req admission.Request) admission.Response {
	obj, err := decodeConfigObject(req.Object.Raw, req.Kind.Kind)
	if err != nil {
		return admission.Errored(http.StatusBadRequest, err)
	}

	return resolver.Validate(ctx, v.ClairValidator, obj)
}

// RegisterWebhooks registers the mutating and validating handlers with the
// manager's webhook server at the routes the admission webhook
// configurations point to.
func RegisterWebhooks(mgr manager.Manager, clairValidator resolver.ClairValidator) {
	mgr.GetWebhookServer().Register(MutatePath, &admission.Webhook{
		Handler: &mutator{Client: mgr.GetClient()},
	})
	mgr.GetWebhookServer().Register(ValidatePath, &admission.Webhook{
		Handler: &validator{Client: mgr.GetClient(), ClairValidator: clairValidator},
	})
}
