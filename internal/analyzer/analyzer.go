// Package analyzer runs the classification pipeline over a decoded plan:
// classify each record, aggregate, evaluate risk and build the report.
package analyzer

import (
	"github.com/yourusername/planrisk/internal/aggregator"
	"github.com/yourusername/planrisk/internal/catalog"
	"github.com/yourusername/planrisk/internal/classifier"
	"github.com/yourusername/planrisk/internal/models"
	"github.com/yourusername/planrisk/internal/report"
	"github.com/yourusername/planrisk/internal/risk"
)

// Result carries the report together with pipeline diagnostics
type Result struct {
	Report *models.RiskReport
	// Skipped is the number of records ignored as data sources, no-ops or reads
	Skipped int
	// Rule names the risk rule that decided the level; empty for LOW
	Rule string
}

// Analyzer holds read-only catalogs and can be shared between goroutines
type Analyzer struct {
	aggregator *aggregator.Aggregator
	catalogs   *catalog.Catalogs
}

// New creates an analyzer. A nil catalogs value selects the built-ins.
func New(catalogs *catalog.Catalogs) *Analyzer {
	c := classifier.New(catalogs)
	return &Analyzer{
		aggregator: aggregator.New(c),
		catalogs:   c.Catalogs(),
	}
}

// Catalogs returns the catalogs in use
func (a *Analyzer) Catalogs() *catalog.Catalogs {
	return a.catalogs
}

// Analyze classifies a plan and returns its risk report. A nil plan is
// treated as a plan without resource changes.
func (a *Analyzer) Analyze(plan *models.Plan) *models.RiskReport {
	return a.Run(plan).Report
}

// Run is Analyze with diagnostics
func (a *Analyzer) Run(plan *models.Plan) Result {
	var records []models.ResourceChangeRecord
	if plan != nil {
		records = plan.ResourceChanges
	}

	agg := a.aggregator.Aggregate(records)
	level, rule := risk.Explain(agg)
	return Result{
		Report:  report.Build(agg, level),
		Skipped: agg.Skipped,
		Rule:    rule,
	}
}
