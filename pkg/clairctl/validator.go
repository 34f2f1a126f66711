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

// Package clairctl invokes the clairctl binary to implement
// resolver.ClairValidator. clairctl is not a Go library, only a CLI shipped
// in the Clair images; the webhook server container mounts the same binary
// admin-post Jobs run, so validating by exec'ing it is the only integration
// point available without vendoring Clair's internal config package.
package clairctl

import (
	"bytes"
	"fmt"
	"os/exec"

	"github.com/quay/clair-operator/pkg/resolver"
)

// Exec runs "clairctl config validate" as a subprocess per validation mode.
type Exec struct {
	// Path is the clairctl binary to invoke. Defaults to "clairctl" on PATH.
	Path string
}

var _ resolver.ClairValidator = &Exec{}

// Validate feeds config on stdin to "clairctl config validate --mode <mode>"
// and reports failure from a non-zero exit, carrying stderr as the error
// detail. Lines written to stdout are treated as warnings.
func (e *Exec) Validate(mode resolver.Mode, config []byte) ([]string, error) {
	path := e.Path
	if path == "" {
		path = "clairctl"
	}

	cmd := exec.Command(path, "config", "validate", "--mode", string(mode))
	cmd.Stdin = bytes.NewReader(config)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("clairctl config validate --mode %s: %w: %s", mode, err, stderr.String())
	}

	var warnings []string
	for line := range bytes.Lines(stdout.Bytes()) {
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) > 0 {
			warnings = append(warnings, string(trimmed))
		}
	}
	return warnings, nil
}
