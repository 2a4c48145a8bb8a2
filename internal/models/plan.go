package models

import tfjson "github.com/hashicorp/terraform-json"

// UnknownValue is used for record fields the plan did not provide
const UnknownValue = "unknown"

// ResourceChangeRecord is one entry of a plan's resource_changes list,
// reduced to the fields the classifier consumes.
type ResourceChangeRecord struct {
	Address string              `json:"address" yaml:"address"`
	Type    string              `json:"type" yaml:"type"`
	Mode    tfjson.ResourceMode `json:"mode,omitempty" yaml:"mode,omitempty"`
	Actions tfjson.Actions      `json:"actions" yaml:"actions"`
}

// NewResourceChangeRecord builds a record. A nil action list becomes empty.
func NewResourceChangeRecord(address, resourceType string, mode tfjson.ResourceMode, actions tfjson.Actions) ResourceChangeRecord {
	if actions == nil {
		actions = tfjson.Actions{}
	}
	return ResourceChangeRecord{
		Address: address,
		Type:    resourceType,
		Mode:    mode,
		Actions: actions,
	}
}

// DecodeResourceChangeRecord builds a record from optional plan fields.
// An absent address or type becomes UnknownValue; an empty string is kept.
func DecodeResourceChangeRecord(address, resourceType *string, mode tfjson.ResourceMode, actions tfjson.Actions) ResourceChangeRecord {
	return NewResourceChangeRecord(valueOrUnknown(address), valueOrUnknown(resourceType), mode, actions)
}

func valueOrUnknown(s *string) string {
	if s == nil {
		return UnknownValue
	}
	return *s
}

// IsDataSource reports whether the record is a read-only data source lookup
func (r ResourceChangeRecord) IsDataSource() bool {
	return r.Mode == tfjson.DataResourceMode
}

// Plan is the decoded plan document
type Plan struct {
	FormatVersion    string                 `json:"format_version,omitempty"`
	TerraformVersion string                 `json:"terraform_version,omitempty"`
	ResourceChanges  []ResourceChangeRecord `json:"resource_changes"`
}
