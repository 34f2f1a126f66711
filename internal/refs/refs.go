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

// Package refs maintains the owned-child-object bookkeeping backing a CR's
// status.refs field: at most one entry per kind, carried forward across
// reconciles unless explicitly dropped.
package refs

import (
	clairv1alpha1 "github.com/quay/clair-operator/api/v1alpha1"
)

// Set is an owned-object reference list keyed by kind.
type Set struct {
	entries []clairv1alpha1.TypedLocalReference
}

// NewSet builds a Set from an existing status.refs slice, e.g. when
// resuming bookkeeping across reconciles.
func NewSet(existing []clairv1alpha1.TypedLocalReference) *Set {
	s := &Set{entries: make([]clairv1alpha1.TypedLocalReference, len(existing))}
	copy(s.entries, existing)
	return s
}

// Upsert records that the owned object of the given kind is now named name,
// replacing any prior entry for that kind.
func (s *Set) Upsert(kind, name string) {
	for i := range s.entries {
		if s.entries[i].Kind == kind {
			s.entries[i].Name = name
			return
		}
	}
	s.entries = append(s.entries, clairv1alpha1.TypedLocalReference{Kind: kind, Name: name})
}

// Get returns the name recorded for kind, and whether an entry exists.
func (s *Set) Get(kind string) (string, bool) {
	for _, e := range s.entries {
		if e.Kind == kind {
			return e.Name, true
		}
	}
	return "", false
}

// Drop removes the entry for kind, if present.
func (s *Set) Drop(kind string) {
	for i := range s.entries {
		if s.entries[i].Kind == kind {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

// Empty returns true if the set carries no entries: initial creation,
// nothing applied yet.
func (s *Set) Empty() bool {
	return len(s.entries) == 0
}

// List returns the current refs, suitable for direct assignment to
// status.refs. The returned slice is a copy; mutating it does not affect s.
func (s *Set) List() []clairv1alpha1.TypedLocalReference {
	out := make([]clairv1alpha1.TypedLocalReference, len(s.entries))
	copy(out, s.entries)
	return out
}
