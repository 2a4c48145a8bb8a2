package report

import (
	"fmt"
	"strings"

	"github.com/yourusername/planrisk/internal/models"
	"github.com/yourusername/planrisk/internal/risk"
)

// NoChangesSummary is the summary of a plan without actionable changes
const NoChangesSummary = "No changes"

// Build assembles the final report from an aggregate and its risk level
func Build(agg *models.PlanAggregate, level models.RiskLevel) *models.RiskReport {
	if agg == nil {
		agg = models.NewPlanAggregate()
	}

	return &models.RiskReport{
		RiskLevel:             level,
		RequiresApproval:      risk.RequiresApproval(level),
		Add:                   agg.Add,
		Change:                agg.Change,
		Destroy:               agg.Destroy,
		Replace:               agg.Replace,
		Summary:               Summary(agg.Counts),
		DestructiveOperations: agg.DestructiveOperations,
		SecurityChanges:       agg.SecurityChanges,
		Details:               agg.Details,
	}
}

// Summary joins the non-zero counters, e.g. "2 to add, 1 to destroy"
func Summary(c models.Counts) string {
	clauses := make([]string, 0, 4)
	for _, part := range []struct {
		n    int
		verb models.Category
	}{
		{c.Add, models.CategoryAdd},
		{c.Change, models.CategoryChange},
		{c.Destroy, models.CategoryDestroy},
		{c.Replace, models.CategoryReplace},
	} {
		if part.n > 0 {
			clauses = append(clauses, fmt.Sprintf("%d to %s", part.n, part.verb))
		}
	}

	if len(clauses) == 0 {
		return NoChangesSummary
	}
	return strings.Join(clauses, ", ")
}
