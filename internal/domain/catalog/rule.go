package catalog

import (
	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/shared"
)

// RuleRequirement declares how a property participates in products of a type
type RuleRequirement string

const (
	RequirementRequired               RuleRequirement = "REQUIRED"
	RequirementOptional               RuleRequirement = "OPTIONAL"
	RequirementRequiredInConfigurator RuleRequirement = "REQUIRED_IN_CONFIGURATOR"
	RequirementOptionalInConfigurator RuleRequirement = "OPTIONAL_IN_CONFIGURATOR"
)

// IsValid returns true for a known requirement level
func (r RuleRequirement) IsValid() bool {
	switch r {
	case RequirementRequired, RequirementOptional,
		RequirementRequiredInConfigurator, RequirementOptionalInConfigurator:
		return true
	default:
		return false
	}
}

// DrivesConfigurator returns true when the requirement makes the property a
// variation axis of a configurable product
func (r RuleRequirement) DrivesConfigurator() bool {
	return r == RequirementRequiredInConfigurator
}

// ProductPropertiesRule binds a product-type select value to the set of
// properties products of that type carry. It is the schema the importer and
// the sync factories consult before treating any property as required.
type ProductPropertiesRule struct {
	shared.TenantAggregateRoot
	ProductTypeValueID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_rule_tenant_type,priority:2"`
	Items              []RuleItem `gorm:"foreignKey:RuleID"`
}

// TableName returns the table name for GORM
func (ProductPropertiesRule) TableName() string {
	return "product_properties_rules"
}

// NewProductPropertiesRule creates a rule anchored at a product-type value
func NewProductPropertiesRule(tenantID, productTypeValueID uuid.UUID) (*ProductPropertiesRule, error) {
	if productTypeValueID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RULE_ANCHOR", "Rule requires a product type select value")
	}
	return &ProductPropertiesRule{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProductTypeValueID:  productTypeValueID,
		Items:               make([]RuleItem, 0),
	}, nil
}

// AddItem declares a property on this rule. Re-adding an existing property
// updates its requirement level.
func (r *ProductPropertiesRule) AddItem(propertyID uuid.UUID, requirement RuleRequirement, sortOrder int) error {
	if propertyID == uuid.Nil {
		return shared.NewDomainError("INVALID_RULE_ITEM", "Rule item requires a property")
	}
	if !requirement.IsValid() {
		return shared.NewDomainError("INVALID_RULE_ITEM", "Unknown requirement level: "+string(requirement))
	}
	for i := range r.Items {
		if r.Items[i].PropertyID == propertyID {
			r.Items[i].Requirement = requirement
			r.Items[i].SortOrder = sortOrder
			r.IncrementVersion()
			return nil
		}
	}
	r.Items = append(r.Items, RuleItem{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    r.TenantID,
		RuleID:      r.ID,
		PropertyID:  propertyID,
		Requirement: requirement,
		SortOrder:   sortOrder,
	})
	r.IncrementVersion()
	return nil
}

// ItemFor returns the rule item declaring the given property, if any
func (r *ProductPropertiesRule) ItemFor(propertyID uuid.UUID) (*RuleItem, bool) {
	for i := range r.Items {
		if r.Items[i].PropertyID == propertyID {
			return &r.Items[i], true
		}
	}
	return nil, false
}

// ConfiguratorProperties returns the property IDs that drive the configurator
func (r *ProductPropertiesRule) ConfiguratorProperties() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.Items))
	for _, item := range r.Items {
		if item.Requirement.DrivesConfigurator() {
			ids = append(ids, item.PropertyID)
		}
	}
	return ids
}

// RequiredProperties returns the property IDs a product of this type must carry
func (r *ProductPropertiesRule) RequiredProperties() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.Items))
	for _, item := range r.Items {
		if item.Requirement == RequirementRequired || item.Requirement == RequirementRequiredInConfigurator {
			ids = append(ids, item.PropertyID)
		}
	}
	return ids
}

// RuleItem declares one property on a rule
type RuleItem struct {
	shared.BaseEntity
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	RuleID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_rule_item,priority:1"`
	PropertyID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_rule_item,priority:2"`
	Requirement RuleRequirement `gorm:"type:varchar(30);not null"`
	SortOrder   int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (RuleItem) TableName() string {
	return "product_properties_rule_items"
}
