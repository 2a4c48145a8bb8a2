// Package classifier decides the category and risk flags of a single
// resource change record.
package classifier

import (
	tfjson "github.com/hashicorp/terraform-json"
	"github.com/yourusername/planrisk/internal/catalog"
	"github.com/yourusername/planrisk/internal/models"
)

// Reasons attached to destructive operations
const (
	ReasonVM       = "VM replacement/deletion causes downtime"
	ReasonNetwork  = "Network change may break connectivity"
	ReasonPublicIP = "Public IP change affects external access"
	ReasonGeneric  = "Resource deletion or replacement"
)

// FallbackCategory is assigned when no category rule matches the action set
const FallbackCategory = models.CategoryChange

type categoryRule struct {
	name     string
	matches  func(tfjson.Actions) bool
	category models.Category
}

// categoryRules are evaluated in order, first match wins
var categoryRules = []categoryRule{
	{name: "create", matches: tfjson.Actions.Create, category: models.CategoryAdd},
	{name: "update", matches: tfjson.Actions.Update, category: models.CategoryChange},
	{name: "delete", matches: tfjson.Actions.Delete, category: models.CategoryDestroy},
	{name: "replace", matches: tfjson.Actions.Replace, category: models.CategoryReplace},
	{name: "contains delete", matches: containsAny(tfjson.ActionDelete), category: models.CategoryDestroy},
	{name: "contains update or create", matches: containsAny(tfjson.ActionUpdate, tfjson.ActionCreate), category: models.CategoryChange},
}

type reasonRule struct {
	inCatalog func(*catalog.Catalogs, string) bool
	reason    string
}

var reasonRules = []reasonRule{
	{inCatalog: (*catalog.Catalogs).IsVM, reason: ReasonVM},
	{inCatalog: (*catalog.Catalogs).IsNetwork, reason: ReasonNetwork},
	{inCatalog: (*catalog.Catalogs).IsPublicIP, reason: ReasonPublicIP},
}

func containsAny(wanted ...tfjson.Action) func(tfjson.Actions) bool {
	return func(actions tfjson.Actions) bool {
		for _, a := range actions {
			for _, w := range wanted {
				if a == w {
					return true
				}
			}
		}
		return false
	}
}

// Categorize maps an action set to its category
func Categorize(actions tfjson.Actions) models.Category {
	for _, rule := range categoryRules {
		if rule.matches(actions) {
			return rule.category
		}
	}
	return FallbackCategory
}

// Skip reports whether a record is not an actionable change: data sources
// and records whose actions are exactly no-op or exactly read.
func Skip(record models.ResourceChangeRecord) bool {
	return record.IsDataSource() || record.Actions.NoOp() || record.Actions.Read()
}

// Classifier classifies records against a fixed set of catalogs.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	catalogs *catalog.Catalogs
}

// New creates a classifier. A nil catalogs value selects the built-ins.
func New(catalogs *catalog.Catalogs) *Classifier {
	if catalogs == nil {
		catalogs = catalog.Default()
	}
	return &Classifier{catalogs: catalogs}
}

// Catalogs returns the catalogs the classifier was built with
func (c *Classifier) Catalogs() *catalog.Catalogs {
	return c.catalogs
}

// Classify returns the verdict for one record. The second result is false
// when the record is skipped.
func (c *Classifier) Classify(record models.ResourceChangeRecord) (models.ClassifiedResource, bool) {
	if Skip(record) {
		return models.ClassifiedResource{}, false
	}

	category := Categorize(record.Actions)
	result := models.ClassifiedResource{
		Address:            record.Address,
		Type:               record.Type,
		Actions:            append(tfjson.Actions{}, record.Actions...),
		Category:           category,
		IsDestructive:      category.IsDestructive(),
		IsSecurityChange:   c.catalogs.IsSecurity(record.Type) && category != models.CategoryAdd,
		IsPublicIPAddition: c.catalogs.IsPublicIP(record.Type) && category == models.CategoryAdd,
	}
	if result.IsDestructive {
		result.DestructiveReason = c.destructiveReason(record.Type)
	}
	return result, true
}

func (c *Classifier) destructiveReason(resourceType string) string {
	for _, rule := range reasonRules {
		if rule.inCatalog(c.catalogs, resourceType) {
			return rule.reason
		}
	}
	return ReasonGeneric
}
