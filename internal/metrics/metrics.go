// Package metrics exports classification results as Prometheus gauges, for
// node-exporter's textfile collector or a push to a gateway from CI.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/yourusername/planrisk/internal/models"
)

const namespace = "planrisk"

// Finding kinds used as the "kind" label
const (
	KindDestructive = "destructive"
	KindSecurity    = "security"
)

var riskLevels = []models.RiskLevel{models.RiskLow, models.RiskMedium, models.RiskHigh}

// Recorder holds the gauges of a single classification run on its own registry
type Recorder struct {
	registry *prometheus.Registry

	resourceChanges  *prometheus.GaugeVec
	riskLevel        *prometheus.GaugeVec
	requiresApproval prometheus.Gauge
	findings         *prometheus.GaugeVec
	skipped          prometheus.Gauge
}

// NewRecorder creates a recorder with a fresh registry
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		resourceChanges: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "resource_changes",
			Help:      "Actionable resource changes in the plan by category",
		}, []string{"category"}),
		riskLevel: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "risk_level",
			Help:      "Plan risk verdict; 1 for the assigned level, 0 otherwise",
		}, []string{"level"}),
		requiresApproval: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "requires_approval",
			Help:      "1 when the plan needs manual approval",
		}),
		findings: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "findings",
			Help:      "Destructive and security findings in the plan",
		}, []string{"kind"}),
		skipped: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "skipped_resources",
			Help:      "Data sources and no-op or read records ignored by the classifier",
		}),
	}
}

// Registry returns the registry the gauges are registered on
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Observe sets every gauge from a report
func (r *Recorder) Observe(report *models.RiskReport, skipped int) {
	if report == nil {
		return
	}

	counts := report.Counts()
	r.resourceChanges.WithLabelValues(string(models.CategoryAdd)).Set(float64(counts.Add))
	r.resourceChanges.WithLabelValues(string(models.CategoryChange)).Set(float64(counts.Change))
	r.resourceChanges.WithLabelValues(string(models.CategoryDestroy)).Set(float64(counts.Destroy))
	r.resourceChanges.WithLabelValues(string(models.CategoryReplace)).Set(float64(counts.Replace))

	for _, level := range riskLevels {
		v := 0.0
		if level == report.RiskLevel {
			v = 1
		}
		r.riskLevel.WithLabelValues(string(level)).Set(v)
	}

	if report.RequiresApproval {
		r.requiresApproval.Set(1)
	} else {
		r.requiresApproval.Set(0)
	}

	r.findings.WithLabelValues(KindDestructive).Set(float64(len(report.DestructiveOperations)))
	r.findings.WithLabelValues(KindSecurity).Set(float64(len(report.SecurityChanges)))
	r.skipped.Set(float64(skipped))
}

// WriteTextfile writes the gauges in the text exposition format. The file
// is written atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics file %s: %w", path, err)
	}
	return nil
}
