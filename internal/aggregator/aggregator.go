package aggregator

import (
	"github.com/yourusername/planrisk/internal/classifier"
	"github.com/yourusername/planrisk/internal/models"
)

// DefaultDestructiveReason is recorded when a destructive resource carries no reason
const DefaultDestructiveReason = "Destructive operation"

// Aggregator folds classified records into a PlanAggregate
type Aggregator struct {
	classifier *classifier.Classifier
}

// New creates an aggregator. A nil classifier uses the built-in catalogs.
func New(c *classifier.Classifier) *Aggregator {
	if c == nil {
		c = classifier.New(nil)
	}
	return &Aggregator{classifier: c}
}

// Aggregate classifies every record in order and accumulates the result.
// List order always follows record order.
func (a *Aggregator) Aggregate(records []models.ResourceChangeRecord) *models.PlanAggregate {
	agg := models.NewPlanAggregate()
	for _, record := range records {
		resource, ok := a.classifier.Classify(record)
		if !ok {
			agg.Skipped++
			continue
		}
		Add(agg, resource)
	}
	return agg
}

// Add records a single classified resource in agg
func Add(agg *models.PlanAggregate, resource models.ClassifiedResource) {
	detail := models.ResourceDetail{
		Address: resource.Address,
		Type:    resource.Type,
		Actions: resource.Actions,
	}

	switch resource.Category {
	case models.CategoryAdd:
		agg.Add++
		agg.Details.Add = append(agg.Details.Add, detail)
	case models.CategoryDestroy:
		agg.Destroy++
		agg.Details.Destroy = append(agg.Details.Destroy, detail)
	case models.CategoryReplace:
		agg.Replace++
		agg.Details.Replace = append(agg.Details.Replace, detail)
	default:
		agg.Change++
		agg.Details.Change = append(agg.Details.Change, detail)
	}

	if resource.IsDestructive {
		reason := resource.DestructiveReason
		if reason == "" {
			reason = DefaultDestructiveReason
		}
		agg.DestructiveOperations = append(agg.DestructiveOperations, models.DestructiveOperation{
			Address: resource.Address,
			Type:    resource.Type,
			Actions: resource.Actions,
			Reason:  reason,
		})
	}

	// Two independent checks. The classifier never sets both flags on one
	// resource, so a resource is listed at most once.
	if resource.IsSecurityChange {
		agg.SecurityChanges = append(agg.SecurityChanges, securityChange(resource))
	}
	if resource.IsPublicIPAddition {
		agg.SecurityChanges = append(agg.SecurityChanges, securityChange(resource))
	}
}

func securityChange(resource models.ClassifiedResource) models.SecurityChange {
	return models.SecurityChange{
		Address: resource.Address,
		Type:    resource.Type,
		Actions: resource.Actions,
	}
}
