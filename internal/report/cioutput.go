package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/yourusername/planrisk/internal/models"
)

// CIOutput is one key=value pair for the CI step output file
type CIOutput struct {
	Key   string
	Value string
}

// CIOutputs returns the step outputs of a report in their fixed order
func CIOutputs(report *models.RiskReport) ([]CIOutput, error) {
	if report == nil {
		return nil, fmt.Errorf("cannot build CI outputs for nil report")
	}

	result, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report to JSON: %w", err)
	}

	return []CIOutput{
		{Key: "risk_level", Value: string(report.RiskLevel)},
		{Key: "requires_approval", Value: strconv.FormatBool(report.RequiresApproval)},
		{Key: "add", Value: strconv.Itoa(report.Add)},
		{Key: "change", Value: strconv.Itoa(report.Change)},
		{Key: "destroy", Value: strconv.Itoa(report.Destroy)},
		{Key: "replace", Value: strconv.Itoa(report.Replace)},
		{Key: "summary", Value: report.Summary},
		{Key: "result", Value: string(result)},
	}, nil
}

// WriteCIOutputs writes the report's step outputs as key=value lines
func WriteCIOutputs(w io.Writer, report *models.RiskReport) error {
	outputs, err := CIOutputs(report)
	if err != nil {
		return err
	}

	var sb strings.Builder
	for _, o := range outputs {
		sb.WriteString(fmt.Sprintf("%s=%s\n", o.Key, o.Value))
	}
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write CI outputs: %w", err)
	}
	return nil
}

// AppendCIOutputs appends the report's step outputs to the file at path,
// creating it when missing.
func AppendCIOutputs(path string, report *models.RiskReport) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open CI output file %s: %w", path, err)
	}

	if err := WriteCIOutputs(f, report); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
