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

// Package templatestore holds the static overlay bundles the renderer
// starts from, one per role. Each bundle is a partial-object template
// parameterized only by well-known sentinel placeholders that the renderer
// overwrites; the store itself performs no substitution and no I/O beyond the
// one-time embed.
package templatestore

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"io"
	"path/filepath"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/serializer"
	"k8s.io/apimachinery/pkg/util/yaml"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

//go:embed all:indexer all:matcher all:notifier all:updater all:clair
var embeddedFS embed.FS

// Role identifies one of the closed set of template bundles.
type Role string

const (
	Indexer  Role = "indexer"
	Matcher  Role = "matcher"
	Notifier Role = "notifier"
	Updater  Role = "updater"
	Clair    Role = "clair"
)

// Roles returns all known roles, in a fixed order.
func Roles() []Role {
	return []Role{Indexer, Matcher, Notifier, Updater, Clair}
}

func (r Role) valid() bool {
	for _, known := range Roles() {
		if r == known {
			return true
		}
	}
	return false
}

// GetBundle returns the raw YAML content for a role's template bundle. An
// unknown role is a programmer error; a missing embedded file is a fatal
// startup error.
func GetBundle(role Role) ([]byte, error) {
	if !role.valid() {
		panic(fmt.Sprintf("templatestore: unknown role %q", role))
	}
	return embeddedFS.ReadFile(filepath.Join(string(role), "manifests.yaml"))
}

// Store holds the parsed, immutable template objects for every role.
type Store struct {
	objects map[Role][]client.Object
}

// NewStore parses every role's embedded bundle using scheme, falling back to
// unstructured.Unstructured for kinds the scheme does not recognize (used for
// ServiceMonitor, Gateway, and Route, none of which this module vendors as Go
// types).
func NewStore(scheme *runtime.Scheme) (*Store, error) {
	decoder := serializer.NewCodecFactory(scheme).UniversalDeserializer()
	objects := make(map[Role][]client.Object)

	for _, role := range Roles() {
		content, err := GetBundle(role)
		if err != nil {
			return nil, fmt.Errorf("templatestore: reading bundle for role %s: %w", role, err)
		}
		parsed, err := parseBundle(decoder, content)
		if err != nil {
			return nil, fmt.Errorf("templatestore: parsing bundle for role %s: %w", role, err)
		}
		objects[role] = parsed
	}

	return &Store{objects: objects}, nil
}

func parseBundle(decoder runtime.Decoder, content []byte) ([]client.Object, error) {
	var objects []client.Object

	reader := yaml.NewYAMLReader(bufio.NewReader(bytes.NewReader(content)))
	for {
		doc, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("reading YAML document: %w", err)
		}

		doc = bytes.TrimSpace(doc)
		if len(doc) == 0 {
			continue
		}

		obj, _, err := decoder.Decode(doc, nil, nil)
		if err != nil {
			if runtime.IsNotRegisteredError(err) {
				u := &unstructured.Unstructured{}
				if err := yaml.Unmarshal(doc, &u.Object); err != nil {
					return nil, fmt.Errorf("decoding unstructured template: %w", err)
				}
				if len(u.Object) == 0 {
					continue
				}
				objects = append(objects, u)
				continue
			}
			return nil, fmt.Errorf("decoding template: %w", err)
		}

		clientObj, ok := obj.(client.Object)
		if !ok {
			return nil, fmt.Errorf("decoded template does not implement client.Object: %T", obj)
		}
		objects = append(objects, clientObj)
	}

	return objects, nil
}

func deepCopyObjects(objects []client.Object) []client.Object {
	copies := make([]client.Object, len(objects))
	for i, obj := range objects {
		copies[i] = obj.DeepCopyObject().(client.Object)
	}
	return copies
}

// Get returns deep copies of the template objects for role, so callers may
// freely mutate the result without affecting the store.
func (s *Store) Get(role Role) ([]client.Object, error) {
	if !role.valid() {
		panic(fmt.Sprintf("templatestore: unknown role %q", role))
	}
	objects, ok := s.objects[role]
	if !ok {
		return nil, fmt.Errorf("templatestore: no bundle loaded for role %s", role)
	}
	return deepCopyObjects(objects), nil
}
