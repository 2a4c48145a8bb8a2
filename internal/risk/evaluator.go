// Package risk reduces a plan aggregate to a single risk level.
package risk

import "github.com/yourusername/planrisk/internal/models"

type rule struct {
	name    string
	applies func(*models.PlanAggregate) bool
	level   models.RiskLevel
}

// rules are ordered by precedence, first match wins
var rules = []rule{
	{
		name:    "destroy or replace",
		applies: func(a *models.PlanAggregate) bool { return a.Destroy > 0 || a.Replace > 0 },
		level:   models.RiskHigh,
	},
	{
		// Independent of the counters: a destructive finding always escalates.
		name:    "destructive findings",
		applies: func(a *models.PlanAggregate) bool { return len(a.DestructiveOperations) > 0 },
		level:   models.RiskHigh,
	},
	{
		name:    "in-place change",
		applies: func(a *models.PlanAggregate) bool { return a.Change > 0 },
		level:   models.RiskMedium,
	},
	{
		name:    "security findings",
		applies: func(a *models.PlanAggregate) bool { return len(a.SecurityChanges) > 0 },
		level:   models.RiskMedium,
	},
}

// Evaluate returns the risk level of an aggregate. A nil aggregate is LOW.
func Evaluate(agg *models.PlanAggregate) models.RiskLevel {
	level, _ := Explain(agg)
	return level
}

// Explain returns the risk level together with the name of the rule that
// decided it. The rule name is empty when no rule matched.
func Explain(agg *models.PlanAggregate) (models.RiskLevel, string) {
	if agg == nil {
		return models.RiskLow, ""
	}
	for _, r := range rules {
		if r.applies(agg) {
			return r.level, r.name
		}
	}
	return models.RiskLow, ""
}

// RequiresApproval reports whether a plan at level needs manual approval
func RequiresApproval(level models.RiskLevel) bool {
	return level != models.RiskLow
}
