// Package metrics writes the current run's state as a node_exporter textfile.
//
// Only the latest sample is exported; each run overwrites the file.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"maxuptime/internal/escalation"
)

// Snapshot is the state exported after a run.
type Snapshot struct {
	Uptime      int64
	Condition   escalation.Condition
	Thresholds  escalation.Thresholds
	Accelerated bool
	// LastRun is a unix timestamp in seconds.
	LastRun int64
}

// Registry builds a prometheus registry holding s.
func Registry(s Snapshot) *prometheus.Registry {
	reg := prometheus.NewRegistry()

	up := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "maxuptime_uptime_seconds",
		Help: "Machine uptime sampled by the last run.",
	})
	up.Set(float64(s.Uptime))

	cond := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "maxuptime_condition",
		Help: "Escalation condition of the last run (1 for the active condition).",
	}, []string{"condition"})
	for _, c := range escalation.Conditions() {
		v := 0.0
		if c == s.Condition {
			v = 1
		}
		cond.WithLabelValues(c.String()).Set(v)
	}

	th := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "maxuptime_threshold_seconds",
		Help: "Configured escalation thresholds.",
	}, []string{"threshold"})
	th.WithLabelValues("initial_notification").Set(float64(s.Thresholds.InitialNotification))
	th.WithLabelValues("urgent").Set(float64(s.Thresholds.UrgentThreshold()))
	th.WithLabelValues("max_uptime").Set(float64(s.Thresholds.MaxUptime))

	acc := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "maxuptime_accelerated_registration",
		Help: "Whether the accelerated check registration is installed.",
	})
	if s.Accelerated {
		acc.Set(1)
	}

	last := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "maxuptime_last_run_timestamp_seconds",
		Help: "Unix time of the last run.",
	})
	last.Set(float64(s.LastRun))

	reg.MustRegister(up, cond, th, acc, last)
	return reg
}

// WriteTextfile atomically writes s to path in the text exposition format.
func WriteTextfile(path string, s Snapshot) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, Registry(s)); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
