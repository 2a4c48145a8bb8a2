package terraform

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	tfjson "github.com/hashicorp/terraform-json"
	"github.com/yourusername/planrisk/internal/models"
)

// ErrEmptyPlan is returned when the plan input contains no data
var ErrEmptyPlan = errors.New("plan input is empty")

// Parser is an interface for decoding Terraform plan JSON
// (the output of `terraform show -json`)
type Parser interface {
	Parse(r io.Reader) (*models.Plan, error)
	ParseBytes(data []byte) (*models.Plan, error)
	ParseFile(filePath string) (*models.Plan, error)
}

type planParser struct{}

// NewParser creates a new plan parser
func NewParser() Parser {
	return &planParser{}
}

// planHeader is decoded first to pick a decoder
type planHeader struct {
	FormatVersion *string `json:"format_version"`
}

// lenientPlan types only the consumed fields. It decodes documents without
// format_version, such as hand-written fixtures or trimmed plans, and the
// records of versioned plans.
type lenientPlan struct {
	TerraformVersion string                   `json:"terraform_version"`
	ResourceChanges  []*lenientResourceChange `json:"resource_changes"`
}

type lenientResourceChange struct {
	Address *string             `json:"address"`
	Mode    tfjson.ResourceMode `json:"mode"`
	Type    *string             `json:"type"`
	Change  *struct {
		Actions tfjson.Actions `json:"actions"`
	} `json:"change"`
}

// ParseFile reads and decodes the plan at filePath
func (p *planParser) ParseFile(filePath string) (*models.Plan, error) {
	if filePath == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}
	return p.ParseBytes(data)
}

// Parse decodes a plan from r
func (p *planParser) Parse(r io.Reader) (*models.Plan, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}
	return p.ParseBytes(data)
}

// ParseBytes decodes a plan document. Documents carrying format_version go
// through tfjson.Plan, which also validates the version.
func (p *planParser) ParseBytes(data []byte) (*models.Plan, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrEmptyPlan
	}
	if data[0] != '{' {
		return nil, fmt.Errorf("failed to parse plan: expected a JSON object")
	}

	var header planHeader
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("failed to parse plan: %w", err)
	}

	if header.FormatVersion != nil {
		return parseVersionedPlan(data)
	}
	return parseLenientPlan(data)
}

// parseVersionedPlan validates the document through tfjson.Plan. Records
// are still read by the lenient decoder so that an absent address or type
// can be told apart from an empty one.
func parseVersionedPlan(data []byte) (*models.Plan, error) {
	var plan tfjson.Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse plan: %w", err)
	}

	result, err := parseLenientPlan(data)
	if err != nil {
		return nil, err
	}
	result.FormatVersion = plan.FormatVersion
	result.TerraformVersion = plan.TerraformVersion
	return result, nil
}

func parseLenientPlan(data []byte) (*models.Plan, error) {
	var plan lenientPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse plan: %w", err)
	}

	result := &models.Plan{
		TerraformVersion: plan.TerraformVersion,
		ResourceChanges:  make([]models.ResourceChangeRecord, 0, len(plan.ResourceChanges)),
	}
	for _, rc := range plan.ResourceChanges {
		if rc == nil {
			continue
		}
		var actions tfjson.Actions
		if rc.Change != nil {
			actions = rc.Change.Actions
		}
		result.ResourceChanges = append(result.ResourceChanges,
			models.DecodeResourceChangeRecord(rc.Address, rc.Type, rc.Mode, actions))
	}
	return result, nil
}
