// Package metrics provides Prometheus metrics for PorkbunDDNS.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const Namespace = "porkbun_ddns"

var (
	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "build_info",
		Help:      "Build information, value is always 1.",
	}, []string{"version", "go_version"})

	// APICallsTotal counts provider API calls by back end, operation and reported status.
	APICallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "api_calls_total",
		Help:      "Provider API calls.",
	}, []string{"backend", "operation", "status"})

	// HostnamesTotal counts terminal hostname states.
	HostnamesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "hostnames_total",
		Help:      "Hostname reconciliation outcomes.",
	}, []string{"service", "state"})

	// AccountRunsTotal counts account executions by result (success, failure, skipped).
	AccountRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "account_runs_total",
		Help:      "Account executions.",
	}, []string{"service", "result"})

	LastSuccess = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix time of the last fully successful run per account.",
	}, []string{"account"})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "run_duration_seconds",
		Help:      "Duration of a scheduled run over all accounts.",
		Buckets:   prometheus.DefBuckets,
	})
)

func SetBuildInfo(version, goVersion string) {
	BuildInfo.Reset()
	BuildInfo.WithLabelValues(version, goVersion).Set(1)
}
