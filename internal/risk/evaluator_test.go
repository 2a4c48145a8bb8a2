package risk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yourusername/planrisk/internal/models"
	"github.com/yourusername/planrisk/internal/risk"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		agg      func() *models.PlanAggregate
		expected models.RiskLevel
		rule     string
	}{
		{
			name:     "nil aggregate",
			agg:      func() *models.PlanAggregate { return nil },
			expected: models.RiskLow,
		},
		{
			name:     "no changes",
			agg:      models.NewPlanAggregate,
			expected: models.RiskLow,
		},
		{
			name: "additions only",
			agg: func() *models.PlanAggregate {
				a := models.NewPlanAggregate()
				a.Add = 5
				return a
			},
			expected: models.RiskLow,
		},
		{
			name: "security finding on additions",
			agg: func() *models.PlanAggregate {
				a := models.NewPlanAggregate()
				a.Add = 1
				a.SecurityChanges = append(a.SecurityChanges, models.SecurityChange{Address: "azurerm_public_ip.pip"})
				return a
			},
			expected: models.RiskMedium,
			rule:     "security findings",
		},
		{
			name: "change",
			agg: func() *models.PlanAggregate {
				a := models.NewPlanAggregate()
				a.Change = 1
				return a
			},
			expected: models.RiskMedium,
			rule:     "in-place change",
		},
		{
			name: "destructive finding without counters",
			agg: func() *models.PlanAggregate {
				a := models.NewPlanAggregate()
				a.Change = 1
				a.DestructiveOperations = append(a.DestructiveOperations, models.DestructiveOperation{Address: "x"})
				return a
			},
			expected: models.RiskHigh,
			rule:     "destructive findings",
		},
		{
			name: "replace",
			agg: func() *models.PlanAggregate {
				a := models.NewPlanAggregate()
				a.Replace = 1
				return a
			},
			expected: models.RiskHigh,
			rule:     "destroy or replace",
		},
		{
			name: "destroy outranks everything",
			agg: func() *models.PlanAggregate {
				a := models.NewPlanAggregate()
				a.Add, a.Change, a.Destroy = 10, 10, 1
				a.SecurityChanges = append(a.SecurityChanges, models.SecurityChange{Address: "x"})
				return a
			},
			expected: models.RiskHigh,
			rule:     "destroy or replace",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, rule := risk.Explain(tt.agg())
			assert.Equal(t, tt.expected, level)
			assert.Equal(t, tt.rule, rule)
			assert.Equal(t, tt.expected, risk.Evaluate(tt.agg()))
			assert.Equal(t, tt.expected != models.RiskLow, risk.RequiresApproval(level))
		})
	}
}

func TestRiskLevel_Ordering(t *testing.T) {
	assert.True(t, models.RiskHigh.AtLeast(models.RiskMedium))
	assert.True(t, models.RiskMedium.AtLeast(models.RiskMedium))
	assert.False(t, models.RiskLow.AtLeast(models.RiskMedium))
	assert.False(t, models.RiskHigh.AtLeast(models.RiskLevel("CRITICAL")))

	level, ok := models.ParseRiskLevel("MEDIUM")
	assert.True(t, ok)
	assert.Equal(t, models.RiskMedium, level)

	_, ok = models.ParseRiskLevel("medium")
	assert.False(t, ok)
}
