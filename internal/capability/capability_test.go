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

package capability

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/onsi/gomega"
)

type fakeDiscoverer struct {
	mu      sync.Mutex
	results map[string]bool
	errs    map[string]error
}

func (f *fakeDiscoverer) HasAllResources(groupVersion string, kinds []string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := fmt.Sprintf("%s/%v", groupVersion, kinds)
	if err, ok := f.errs[key]; ok {
		return false, err
	}
	return f.results[key], nil
}

func key(groupVersion, kind string) string {
	return fmt.Sprintf("%s/%v", groupVersion, []string{kind})
}

func TestProbe_AllPresent(t *testing.T) {
	g := gomega.NewWithT(t)
	d := &fakeDiscoverer{results: map[string]bool{
		key(autoscalingGroupVersion, horizontalPodAutoscaler): true,
		key(monitoringGroupVersion, serviceMonitor):           true,
		key(gatewayGroupVersion, gatewayKind):                 true,
		key(routeGroupVersion, routeKind):                     true,
	}}

	set, err := NewProber(d).Probe()
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(set).To(gomega.Equal(Set{
		HorizontalPodAutoscaler: true,
		ServiceMonitor:          true,
		Gateway:                 true,
		Route:                   true,
	}))
}

func TestProbe_NonePresent(t *testing.T) {
	g := gomega.NewWithT(t)
	d := &fakeDiscoverer{results: map[string]bool{}}

	set, err := NewProber(d).Probe()
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(set).To(gomega.Equal(Set{}))
}

func TestProbe_MixedAvailability(t *testing.T) {
	g := gomega.NewWithT(t)
	d := &fakeDiscoverer{results: map[string]bool{
		key(gatewayGroupVersion, gatewayKind): true,
	}}

	set, err := NewProber(d).Probe()
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(set.Gateway).To(gomega.BeTrue())
	g.Expect(set.HorizontalPodAutoscaler).To(gomega.BeFalse())
	g.Expect(set.ServiceMonitor).To(gomega.BeFalse())
	g.Expect(set.Route).To(gomega.BeFalse())
}

func TestProbe_PropagatesDiscoveryError(t *testing.T) {
	g := gomega.NewWithT(t)
	d := &fakeDiscoverer{
		results: map[string]bool{},
		errs: map[string]error{
			key(routeGroupVersion, routeKind): errors.New("rbac denied"),
		},
	}

	_, err := NewProber(d).Probe()
	g.Expect(err).To(gomega.HaveOccurred())
	g.Expect(err.Error()).To(gomega.ContainSubstring("Route"))
}
