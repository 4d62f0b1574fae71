package catalog

import (
	"context"

	"github.com/google/uuid"
)

// PropertyRepository defines persistence for properties and their select values
type PropertyRepository interface {
	// FindByID finds a property within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Property, error)

	// FindByName finds a property by display name within a tenant
	FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*Property, error)

	// FindProductTypeProperty returns the reserved rule-anchor property
	FindProductTypeProperty(ctx context.Context, tenantID uuid.UUID) (*Property, error)

	// Save creates or updates a property
	Save(ctx context.Context, property *Property) error

	// FindSelectValue finds one enumerated value of a property
	FindSelectValue(ctx context.Context, tenantID, propertyID uuid.UUID, value string) (*PropertySelectValue, error)

	// FindSelectValueByID finds one enumerated value by ID
	FindSelectValueByID(ctx context.Context, tenantID, id uuid.UUID) (*PropertySelectValue, error)

	// SaveSelectValue creates or updates a select value
	SaveSelectValue(ctx context.Context, value *PropertySelectValue) error
}

// ProductPropertyRepository defines persistence for value assignments
type ProductPropertyRepository interface {
	// FindByProduct returns all value assignments of one product
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]ProductProperty, error)

	// FindByProductAndProperty returns one assignment, if present
	FindByProductAndProperty(ctx context.Context, tenantID, productID, propertyID uuid.UUID) (*ProductProperty, error)

	// Save creates or updates an assignment
	Save(ctx context.Context, assignment *ProductProperty) error

	// Delete removes an assignment
	Delete(ctx context.Context, id uuid.UUID) error
}

// RuleRepository defines persistence for product properties rules
type RuleRepository interface {
	// FindByID finds a rule within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*ProductPropertiesRule, error)

	// FindByProductType finds the rule anchored at a product-type select value
	FindByProductType(ctx context.Context, tenantID, productTypeValueID uuid.UUID) (*ProductPropertiesRule, error)

	// Save creates or updates a rule with its items
	Save(ctx context.Context, rule *ProductPropertiesRule) error
}
