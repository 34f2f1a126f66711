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

package main

import (
	"context"
	"crypto/tls"
	"flag"
	"os"
	"path/filepath"

	// Import all Kubernetes client auth plugins (e.g. Azure, GCP, OIDC, etc.)
	// to ensure that exec-entrypoint and run can make use of them.
	_ "k8s.io/client-go/plugin/pkg/client/auth"

	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/certwatcher"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	"sigs.k8s.io/controller-runtime/pkg/metrics/filters"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"
	ctrlwebhook "sigs.k8s.io/controller-runtime/pkg/webhook"

	clairv1alpha1 "github.com/quay/clair-operator/api/v1alpha1"
	"github.com/quay/clair-operator/internal/capability"
	clairctrl "github.com/quay/clair-operator/internal/controller/clair"
	"github.com/quay/clair-operator/internal/controller/serviceset"
	"github.com/quay/clair-operator/internal/controller/updater"
	clairwebhook "github.com/quay/clair-operator/internal/webhook"
	"github.com/quay/clair-operator/pkg/clairctl"
	"github.com/quay/clair-operator/pkg/clusterinfo"
	"github.com/quay/clair-operator/pkg/templatestore"
	// +kubebuilder:scaffold:imports
)

var (
	scheme   = runtime.NewScheme()
	setupLog = ctrl.Log.WithName("setup")
)

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(clairv1alpha1.AddToScheme(scheme))
	// +kubebuilder:scaffold:scheme
}

// nolint:gocyclo
func main() {
	var metricsAddr string
	var metricsCertPath, metricsCertName, metricsCertKey string
	var webhookCertPath, webhookCertName, webhookCertKey string
	var enableLeaderElection bool
	var probeAddr string
	var secureMetrics bool
	var enableHTTP2 bool
	var clairctlPath string
	var tlsOpts []func(*tls.Config)
	flag.StringVar(&metricsAddr, "metrics-bind-address", "0", "The address the metrics endpoint binds to. "+
		"Use :8443 for HTTPS or :8080 for HTTP, or leave as 0 to disable the metrics service.")
	flag.StringVar(&probeAddr, "health-probe-bind-address", ":8081", "The address the probe endpoint binds to.")
	flag.BoolVar(&enableLeaderElection, "leader-elect", false,
		"Enable leader election for controller manager. "+
			"Enabling this will ensure there is only one active controller manager.")
	flag.BoolVar(&secureMetrics, "metrics-secure", true,
		"If set, the metrics endpoint is served securely via HTTPS. Use --metrics-secure=false to use HTTP instead.")
	flag.StringVar(&webhookCertPath, "webhook-cert-path", "", "The directory that contains the webhook certificate.")
	flag.StringVar(&webhookCertName, "webhook-cert-name", "tls.crt", "The name of the webhook certificate file.")
	flag.StringVar(&webhookCertKey, "webhook-cert-key", "tls.key", "The name of the webhook key file.")
	flag.StringVar(&metricsCertPath, "metrics-cert-path", "",
		"The directory that contains the metrics server certificate.")
	flag.StringVar(&metricsCertName, "metrics-cert-name", "tls.crt", "The name of the metrics server certificate file.")
	flag.StringVar(&metricsCertKey, "metrics-cert-key", "tls.key", "The name of the metrics server key file.")
	flag.BoolVar(&enableHTTP2, "enable-http2", false,
		"If set, HTTP/2 will be enabled for the metrics and webhook servers")
	flag.StringVar(&clairctlPath, "clairctl-path", "clairctl", "Path to the clairctl binary used to validate config webhook submissions.")
	opts := zap.Options{
		Development: true,
	}
	opts.BindFlags(flag.CommandLine)
	flag.Parse()

	ctrl.SetLogger(zap.New(zap.UseFlagOptions(&opts)))

	setupLog.Info("Clair Operator")

	// if the enable-http2 flag is false (the default), http/2 should be disabled
	// due to its vulnerabilities. More specifically, disabling http/2 will
	// prevent from being vulnerable to the HTTP/2 Stream Cancellation and
	// Rapid Reset CVEs. For more information see:
	// - https://github.com/advisories/GHSA-qppj-fm5r-hxr3
	// - https://github.com/advisories/GHSA-4374-p667-p6c8
	disableHTTP2 := func(c *tls.Config) {
		setupLog.Info("disabling http/2")
		c.NextProtos = []string{"http/1.1"}
	}

	if !enableHTTP2 {
		tlsOpts = append(tlsOpts, disableHTTP2)
	}

	// Create watchers for metrics and webhooks certificates
	var metricsCertWatcher, webhookCertWatcher *certwatcher.CertWatcher

	// Initial webhook TLS options
	webhookTLSOpts := tlsOpts

	if len(webhookCertPath) > 0 {
		setupLog.Info("Initializing webhook certificate watcher using provided certificates",
			"webhook-cert-path", webhookCertPath, "webhook-cert-name", webhookCertName, "webhook-cert-key", webhookCertKey)

		var err error
		webhookCertWatcher, err = certwatcher.New(
			filepath.Join(webhookCertPath, webhookCertName),
			filepath.Join(webhookCertPath, webhookCertKey),
		)
		if err != nil {
			setupLog.Error(err, "Failed to initialize webhook certificate watcher")
			os.Exit(1)
		}

		webhookTLSOpts = append(webhookTLSOpts, func(config *tls.Config) {
			config.GetCertificate = webhookCertWatcher.GetCertificate
		})
	}

	webhookServer := ctrlwebhook.NewServer(ctrlwebhook.Options{
		TLSOpts: webhookTLSOpts,
	})

	// Metrics endpoint is enabled in 'config/default/kustomization.yaml'. The Metrics options configure the server.
	// More info:
	// - https://pkg.go.dev/sigs.k8s.io/controller-runtime@v0.21.0/pkg/metrics/server
	// - https://book.kubebuilder.io/reference/metrics.html
	metricsServerOptions := metricsserver.Options{
		BindAddress:   metricsAddr,
		SecureServing: secureMetrics,
		TLSOpts:       tlsOpts,
	}

	if secureMetrics {
		// FilterProvider is used to protect the metrics endpoint with authn/authz.
		// These configurations ensure that only authorized users and service accounts
		// can access the metrics endpoint. The RBAC are configured in 'config/rbac/kustomization.yaml'. More info:
		// https://pkg.go.dev/sigs.k8s.io/controller-runtime@v0.21.0/pkg/metrics/filters#WithAuthenticationAndAuthorization
		metricsServerOptions.FilterProvider = filters.WithAuthenticationAndAuthorization
	}

	// If the certificate is not specified, controller-runtime will automatically
	// generate self-signed certificates for the metrics server. While convenient for development and testing,
	// this setup is not recommended for production.
	if len(metricsCertPath) > 0 {
		setupLog.Info("Initializing metrics certificate watcher using provided certificates",
			"metrics-cert-path", metricsCertPath, "metrics-cert-name", metricsCertName, "metrics-cert-key", metricsCertKey)

		var err error
		metricsCertWatcher, err = certwatcher.New(
			filepath.Join(metricsCertPath, metricsCertName),
			filepath.Join(metricsCertPath, metricsCertKey),
		)
		if err != nil {
			setupLog.Error(err, "to initialize metrics certificate watcher", "error", err)
			os.Exit(1)
		}

		metricsServerOptions.TLSOpts = append(metricsServerOptions.TLSOpts, func(config *tls.Config) {
			config.GetCertificate = metricsCertWatcher.GetCertificate
		})
	}

	cfg := ctrl.GetConfigOrDie()

	mgr, err := ctrl.NewManager(cfg, ctrl.Options{
		Scheme:                 scheme,
		Metrics:                metricsServerOptions,
		WebhookServer:          webhookServer,
		HealthProbeBindAddress: probeAddr,
		LeaderElection:         enableLeaderElection,
		LeaderElectionID:       "ab36bc00.projectquay.io",
	})
	if err != nil {
		setupLog.Error(err, "unable to start manager")
		os.Exit(1)
	}

	// Detect cluster information (platform, version, optional-resource availability).
	clusterInfo, err := clusterinfo.Detect(cfg)
	if err != nil {
		setupLog.Error(err, "unable to detect cluster info")
		os.Exit(1)
	}
	k8sVer := clusterinfo.UnknownVersion
	if v, err := clusterInfo.K8sVersion(); err == nil && v != nil {
		k8sVer = v.GitVersion
	}
	logFields := []any{
		"platform", clusterInfo.Platform(),
		"k8sVersion", k8sVer,
	}
	if clusterInfo.IsOpenShift() {
		osVersion, err := clusterinfo.GetOpenShiftVersion(context.Background(), mgr.GetClient())
		if err != nil {
			setupLog.V(1).Info("Could not retrieve OpenShift version", "error", err.Error())
		}
		logFields = append(logFields, "openShiftVersion", osVersion)
	}
	setupLog.Info("Detected cluster info", logFields...)

	if hasCertManager, err := clusterInfo.HasCertManager(); err != nil {
		setupLog.V(1).Info("Could not determine cert-manager availability", "error", err.Error())
	} else {
		setupLog.Info("cert-manager availability", "present", hasCertManager,
			"note", "Gateway TLSSecretName is user-managed regardless; this only informs operator-level diagnostics")
	}

	// Capabilities are probed once at startup: the four optional kinds
	// (HPA, ServiceMonitor, Gateway, Route) don't change without a
	// restart, so re-probing mid-run would be observing a stale answer
	// anyway.
	caps, err := capability.NewProber(clusterInfo).Probe()
	if err != nil {
		setupLog.Error(err, "unable to probe optional capabilities")
		os.Exit(1)
	}
	setupLog.Info("Probed capabilities",
		"horizontalPodAutoscaler", caps.HorizontalPodAutoscaler,
		"serviceMonitor", caps.ServiceMonitor,
		"gateway", caps.Gateway,
		"route", caps.Route,
	)

	store, err := templatestore.NewStore(scheme)
	if err != nil {
		setupLog.Error(err, "unable to build template store")
		os.Exit(1)
	}

	defaultImage := os.Getenv("RELATED_IMAGE_CLAIR")
	if defaultImage == "" {
		defaultImage = "quay.io/projectquay/clair:latest"
	}

	if err := (&clairctrl.Reconciler{
		Client:       mgr.GetClient(),
		Scheme:       mgr.GetScheme(),
		Store:        store,
		Capabilities: caps,
		DefaultImage: defaultImage,
	}).SetupWithManager(mgr); err != nil {
		setupLog.Error(err, "unable to create controller", "controller", "Clair")
		os.Exit(1)
	}
	if err := serviceset.NewIndexerReconciler(mgr.GetClient(), mgr.GetScheme(), store, caps).
		SetupWithManager(mgr, &clairv1alpha1.Indexer{}); err != nil {
		setupLog.Error(err, "unable to create controller", "controller", "Indexer")
		os.Exit(1)
	}
	if err := serviceset.NewMatcherReconciler(mgr.GetClient(), mgr.GetScheme(), store, caps).
		SetupWithManager(mgr, &clairv1alpha1.Matcher{}); err != nil {
		setupLog.Error(err, "unable to create controller", "controller", "Matcher")
		os.Exit(1)
	}
	if err := serviceset.NewNotifierReconciler(mgr.GetClient(), mgr.GetScheme(), store, caps).
		SetupWithManager(mgr, &clairv1alpha1.Notifier{}); err != nil {
		setupLog.Error(err, "unable to create controller", "controller", "Notifier")
		os.Exit(1)
	}
	if err := (&updater.Reconciler{
		Client:       mgr.GetClient(),
		Scheme:       mgr.GetScheme(),
		Store:        store,
		Capabilities: caps,
	}).SetupWithManager(mgr); err != nil {
		setupLog.Error(err, "unable to create controller", "controller", "Updater")
		os.Exit(1)
	}
	// +kubebuilder:scaffold:builder

	clairwebhook.RegisterWebhooks(mgr, &clairctl.Exec{Path: clairctlPath})

	if metricsCertWatcher != nil {
		setupLog.Info("Adding metrics certificate watcher to manager")
		if err := mgr.Add(metricsCertWatcher); err != nil {
			setupLog.Error(err, "unable to add metrics certificate watcher to manager")
			os.Exit(1)
		}
	}

	if webhookCertWatcher != nil {
		setupLog.Info("Adding webhook certificate watcher to manager")
		if err := mgr.Add(webhookCertWatcher); err != nil {
			setupLog.Error(err, "unable to add webhook certificate watcher to manager")
			os.Exit(1)
		}
	}

	if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up health check")
		os.Exit(1)
	}
	if err := mgr.AddReadyzCheck("readyz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up ready check")
		os.Exit(1)
	}

	setupLog.Info("starting manager")
	if err := mgr.Start(ctrl.SetupSignalHandler()); err != nil {
		setupLog.Error(err, "problem running manager")
		os.Exit(1)
	}
}
