package models

import tfjson "github.com/hashicorp/terraform-json"

// Category is the action category a classified resource falls into
type Category string

const (
	// CategoryAdd is a pure creation
	CategoryAdd Category = "add"
	// CategoryChange is an in-place update, or any action set not otherwise recognised
	CategoryChange Category = "change"
	// CategoryDestroy is a deletion
	CategoryDestroy Category = "destroy"
	// CategoryReplace is a delete/create pair in either order
	CategoryReplace Category = "replace"
)

// Categories lists every category in report order
var Categories = []Category{CategoryAdd, CategoryChange, CategoryDestroy, CategoryReplace}

// IsDestructive reports whether resources in the category are removed or recreated
func (c Category) IsDestructive() bool {
	return c == CategoryDestroy || c == CategoryReplace
}

// RiskLevel is the plan-level verdict
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Severity orders risk levels: LOW < MEDIUM < HIGH. Unknown levels return -1.
func (l RiskLevel) Severity() int {
	switch l {
	case RiskLow:
		return 0
	case RiskMedium:
		return 1
	case RiskHigh:
		return 2
	default:
		return -1
	}
}

// AtLeast reports whether l is as severe as threshold or more
func (l RiskLevel) AtLeast(threshold RiskLevel) bool {
	return l.Severity() >= threshold.Severity() && threshold.Severity() >= 0
}

// ParseRiskLevel converts a string into a RiskLevel
func ParseRiskLevel(s string) (RiskLevel, bool) {
	l := RiskLevel(s)
	return l, l.Severity() >= 0
}

// ClassifiedResource is the classifier's verdict for a single record
type ClassifiedResource struct {
	Address            string
	Type               string
	Actions            tfjson.Actions
	Category           Category
	IsDestructive      bool
	DestructiveReason  string
	IsSecurityChange   bool
	IsPublicIPAddition bool
}

// ResourceDetail is a detail list entry
type ResourceDetail struct {
	Address string         `json:"address" yaml:"address"`
	Type    string         `json:"type" yaml:"type"`
	Actions tfjson.Actions `json:"actions" yaml:"actions"`
}

// DestructiveOperation is a finding for a resource that is destroyed or replaced
type DestructiveOperation struct {
	Address string         `json:"address" yaml:"address"`
	Type    string         `json:"type" yaml:"type"`
	Actions tfjson.Actions `json:"actions" yaml:"actions"`
	Reason  string         `json:"reason" yaml:"reason"`
}

// SecurityChange is a finding for a security-notable resource
type SecurityChange struct {
	Address string         `json:"address" yaml:"address"`
	Type    string         `json:"type" yaml:"type"`
	Actions tfjson.Actions `json:"actions" yaml:"actions"`
}

// Counts holds the per-category counters
type Counts struct {
	Add     int `json:"add" yaml:"add"`
	Change  int `json:"change" yaml:"change"`
	Destroy int `json:"destroy" yaml:"destroy"`
	Replace int `json:"replace" yaml:"replace"`
}

// Total returns the number of actionable changes
func (c Counts) Total() int {
	return c.Add + c.Change + c.Destroy + c.Replace
}

// Details holds one detail list per category
type Details struct {
	Add     []ResourceDetail `json:"add" yaml:"add"`
	Change  []ResourceDetail `json:"change" yaml:"change"`
	Destroy []ResourceDetail `json:"destroy" yaml:"destroy"`
	Replace []ResourceDetail `json:"replace" yaml:"replace"`
}

// NewDetails returns Details with empty, non-nil lists
func NewDetails() Details {
	return Details{
		Add:     make([]ResourceDetail, 0),
		Change:  make([]ResourceDetail, 0),
		Destroy: make([]ResourceDetail, 0),
		Replace: make([]ResourceDetail, 0),
	}
}

// For returns the detail list of a category
func (d Details) For(c Category) []ResourceDetail {
	switch c {
	case CategoryAdd:
		return d.Add
	case CategoryChange:
		return d.Change
	case CategoryDestroy:
		return d.Destroy
	case CategoryReplace:
		return d.Replace
	default:
		return nil
	}
}

// PlanAggregate accumulates classified resources for one plan.
// Each counter equals the length of its detail list.
type PlanAggregate struct {
	Counts
	Details               Details
	DestructiveOperations []DestructiveOperation
	SecurityChanges       []SecurityChange
	// Skipped counts data sources and no-op/read records
	Skipped int
}

// NewPlanAggregate returns an empty aggregate
func NewPlanAggregate() *PlanAggregate {
	return &PlanAggregate{
		Details:               NewDetails(),
		DestructiveOperations: make([]DestructiveOperation, 0),
		SecurityChanges:       make([]SecurityChange, 0),
	}
}

// RiskReport is the final classification of a plan
type RiskReport struct {
	RiskLevel             RiskLevel              `json:"risk_level" yaml:"risk_level"`
	RequiresApproval      bool                   `json:"requires_approval" yaml:"requires_approval"`
	Add                   int                    `json:"add" yaml:"add"`
	Change                int                    `json:"change" yaml:"change"`
	Destroy               int                    `json:"destroy" yaml:"destroy"`
	Replace               int                    `json:"replace" yaml:"replace"`
	Summary               string                 `json:"summary" yaml:"summary"`
	DestructiveOperations []DestructiveOperation `json:"destructive_operations" yaml:"destructive_operations"`
	SecurityChanges       []SecurityChange       `json:"security_changes" yaml:"security_changes"`
	Details               Details                `json:"details" yaml:"details"`
}

// Counts returns the report's counters
func (r *RiskReport) Counts() Counts {
	return Counts{Add: r.Add, Change: r.Change, Destroy: r.Destroy, Replace: r.Replace}
}
