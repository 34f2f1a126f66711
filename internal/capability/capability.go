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

// Package capability probes the cluster once at startup for the optional
// kinds reconcilers gate their output on, and freezes the result. Discovery
// is never repeated: picking up a newly-installed kind requires an operator
// restart.
package capability

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Discoverer is the subset of pkg/clusterinfo.Info the prober needs.
type Discoverer interface {
	HasAllResources(groupVersion string, kinds []string) (bool, error)
}

const (
	autoscalingGroupVersion = "autoscaling/v2"
	monitoringGroupVersion  = "monitoring.coreos.com/v1"
	gatewayGroupVersion     = "gateway.networking.k8s.io/v1"
	routeGroupVersion       = "route.openshift.io/v1"
	horizontalPodAutoscaler = "HorizontalPodAutoscaler"
	serviceMonitor          = "ServiceMonitor"
	gatewayKind             = "Gateway"
	routeKind               = "Route"
)

// Set is the frozen result of probing the cluster for optional kinds.
type Set struct {
	HorizontalPodAutoscaler bool
	ServiceMonitor          bool
	Gateway                 bool
	Route                   bool
}

// Prober runs one-time discovery of the optional cluster capabilities.
type Prober struct {
	discoverer Discoverer
}

// NewProber builds a Prober over the given discovery source.
func NewProber(d Discoverer) *Prober {
	return &Prober{discoverer: d}
}

// Probe queries the four optional kinds concurrently and returns the frozen
// result. It is intended to run exactly once, at manager startup, before any
// reconciler begins processing.
func (p *Prober) Probe() (Set, error) {
	var set Set
	var g errgroup.Group

	g.Go(func() error {
		has, err := p.discoverer.HasAllResources(autoscalingGroupVersion, []string{horizontalPodAutoscaler})
		if err != nil {
			return fmt.Errorf("probing %s: %w", horizontalPodAutoscaler, err)
		}
		set.HorizontalPodAutoscaler = has
		return nil
	})
	g.Go(func() error {
		has, err := p.discoverer.HasAllResources(monitoringGroupVersion, []string{serviceMonitor})
		if err != nil {
			return fmt.Errorf("probing %s: %w", serviceMonitor, err)
		}
		set.ServiceMonitor = has
		return nil
	})
	g.Go(func() error {
		has, err := p.discoverer.HasAllResources(gatewayGroupVersion, []string{gatewayKind})
		if err != nil {
			return fmt.Errorf("probing %s: %w", gatewayKind, err)
		}
		set.Gateway = has
		return nil
	})
	g.Go(func() error {
		has, err := p.discoverer.HasAllResources(routeGroupVersion, []string{routeKind})
		if err != nil {
			return fmt.Errorf("probing %s: %w", routeKind, err)
		}
		set.Route = has
		return nil
	})

	if err := g.Wait(); err != nil {
		return Set{}, err
	}
	return set, nil
}
