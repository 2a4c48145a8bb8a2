package metrics_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/planrisk/internal/metrics"
	"github.com/yourusername/planrisk/internal/models"
)

func sampleReport() *models.RiskReport {
	return &models.RiskReport{
		RiskLevel:        models.RiskHigh,
		RequiresApproval: true,
		Add:              2,
		Destroy:          1,
		DestructiveOperations: []models.DestructiveOperation{
			{Address: "azurerm_subnet.a", Type: "azurerm_subnet", Reason: "Network change may break connectivity"},
		},
		SecurityChanges: []models.SecurityChange{},
	}
}

func TestRecorder_Observe(t *testing.T) {
	r := metrics.NewRecorder()
	r.Observe(sampleReport(), 3)

	count, err := testutil.GatherAndCount(r.Registry())
	require.NoError(t, err)
	// 4 categories + 3 levels + approval + 2 finding kinds + skipped
	assert.Equal(t, 11, count)

	families, err := r.Registry().Gather()
	require.NoError(t, err)

	values := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, lp := range m.GetLabel() {
				key += "/" + lp.GetValue()
			}
			values[key] = m.GetGauge().GetValue()
		}
	}

	assert.Equal(t, 2.0, values["planrisk_resource_changes/add"])
	assert.Equal(t, 0.0, values["planrisk_resource_changes/change"])
	assert.Equal(t, 1.0, values["planrisk_resource_changes/destroy"])
	assert.Equal(t, 1.0, values["planrisk_risk_level/HIGH"])
	assert.Equal(t, 0.0, values["planrisk_risk_level/LOW"])
	assert.Equal(t, 1.0, values["planrisk_requires_approval"])
	assert.Equal(t, 1.0, values["planrisk_findings/destructive"])
	assert.Equal(t, 0.0, values["planrisk_findings/security"])
	assert.Equal(t, 3.0, values["planrisk_skipped_resources"])
}

func TestRecorder_ObserveNil(t *testing.T) {
	r := metrics.NewRecorder()
	r.Observe(nil, 0)

	count, err := testutil.GatherAndCount(r.Registry())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := metrics.NewRecorder()
	r.Observe(sampleReport(), 0)

	path := filepath.Join(t.TempDir(), "planrisk.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "# TYPE planrisk_risk_level gauge")
	assert.Contains(t, content, `planrisk_risk_level{level="HIGH"} 1`)
	assert.Contains(t, content, `planrisk_resource_changes{category="add"} 2`)
	assert.Contains(t, content, "planrisk_requires_approval 1")

	err = r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "planrisk.prom"))
	assert.Error(t, err)
}
