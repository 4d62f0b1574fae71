package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/catalog"
	"github.com/pim/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPropertyRepository implements catalog.PropertyRepository using GORM
type GormPropertyRepository struct {
	db *gorm.DB
}

// NewGormPropertyRepository creates a new GormPropertyRepository
func NewGormPropertyRepository(db *gorm.DB) *GormPropertyRepository {
	return &GormPropertyRepository{db: db}
}

// FindByID finds a property within a tenant
func (r *GormPropertyRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Property, error) {
	var property catalog.Property
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&property).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &property, nil
}

// FindByName finds a property by display name within a tenant
func (r *GormPropertyRepository) FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*catalog.Property, error) {
	var property catalog.Property
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND internal_name = ?", tenantID, catalog.InternalPropertyName(name)).
		First(&property).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &property, nil
}

// FindProductTypeProperty returns the reserved rule-anchor property
func (r *GormPropertyRepository) FindProductTypeProperty(ctx context.Context, tenantID uuid.UUID) (*catalog.Property, error) {
	var property catalog.Property
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_product_type = ?", tenantID, true).
		First(&property).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &property, nil
}

// Save creates or updates a property
func (r *GormPropertyRepository) Save(ctx context.Context, property *catalog.Property) error {
	return r.db.WithContext(ctx).Save(property).Error
}

// FindSelectValue finds one enumerated value of a property
func (r *GormPropertyRepository) FindSelectValue(ctx context.Context, tenantID, propertyID uuid.UUID, value string) (*catalog.PropertySelectValue, error) {
	var sv catalog.PropertySelectValue
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND property_id = ? AND value = ?", tenantID, propertyID, value).
		First(&sv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sv, nil
}

// FindSelectValueByID finds one enumerated value by ID
func (r *GormPropertyRepository) FindSelectValueByID(ctx context.Context, tenantID, id uuid.UUID) (*catalog.PropertySelectValue, error) {
	var sv catalog.PropertySelectValue
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&sv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sv, nil
}

// SaveSelectValue creates or updates a select value
func (r *GormPropertyRepository) SaveSelectValue(ctx context.Context, value *catalog.PropertySelectValue) error {
	return r.db.WithContext(ctx).Save(value).Error
}

// GormProductPropertyRepository implements catalog.ProductPropertyRepository
type GormProductPropertyRepository struct {
	db *gorm.DB
}

// NewGormProductPropertyRepository creates a new GormProductPropertyRepository
func NewGormProductPropertyRepository(db *gorm.DB) *GormProductPropertyRepository {
	return &GormProductPropertyRepository{db: db}
}

// FindByProduct returns all value assignments of one product
func (r *GormProductPropertyRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]catalog.ProductProperty, error) {
	var assignments []catalog.ProductProperty
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// FindByProductAndProperty returns one assignment, if present
func (r *GormProductPropertyRepository) FindByProductAndProperty(ctx context.Context, tenantID, productID, propertyID uuid.UUID) (*catalog.ProductProperty, error) {
	var assignment catalog.ProductProperty
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ? AND property_id = ?", tenantID, productID, propertyID).
		First(&assignment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

// Save creates or updates an assignment
func (r *GormProductPropertyRepository) Save(ctx context.Context, assignment *catalog.ProductProperty) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

// Delete removes an assignment
func (r *GormProductPropertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.ProductProperty{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormRuleRepository implements catalog.RuleRepository using GORM
type GormRuleRepository struct {
	db *gorm.DB
}

// NewGormRuleRepository creates a new GormRuleRepository
func NewGormRuleRepository(db *gorm.DB) *GormRuleRepository {
	return &GormRuleRepository{db: db}
}

// FindByID finds a rule within a tenant
func (r *GormRuleRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*catalog.ProductPropertiesRule, error) {
	var rule catalog.ProductPropertiesRule
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&rule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rule, nil
}

// FindByProductType finds the rule anchored at a product-type select value
func (r *GormRuleRepository) FindByProductType(ctx context.Context, tenantID, productTypeValueID uuid.UUID) (*catalog.ProductPropertiesRule, error) {
	var rule catalog.ProductPropertiesRule
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND product_type_value_id = ?", tenantID, productTypeValueID).
		First(&rule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rule, nil
}

// Save creates or updates a rule with its items
func (r *GormRuleRepository) Save(ctx context.Context, rule *catalog.ProductPropertiesRule) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(rule).Error
}
