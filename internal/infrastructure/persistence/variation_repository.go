package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/catalog"
	"github.com/pim/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormVariationRepository implements catalog.VariationRepository using GORM
type GormVariationRepository struct {
	db *gorm.DB
}

// NewGormVariationRepository creates a new GormVariationRepository
func NewGormVariationRepository(db *gorm.DB) *GormVariationRepository {
	return &GormVariationRepository{db: db}
}

// FindConfigurable returns the edge for a (parent, variation) pair, if any
func (r *GormVariationRepository) FindConfigurable(ctx context.Context, tenantID, parentID, variationID uuid.UUID) (*catalog.ConfigurableVariation, error) {
	var edge catalog.ConfigurableVariation
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND parent_id = ? AND variation_id = ?", tenantID, parentID, variationID).
		First(&edge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &edge, nil
}

// FindVariationsOf returns all variation edges under a configurable parent
func (r *GormVariationRepository) FindVariationsOf(ctx context.Context, tenantID, parentID uuid.UUID) ([]catalog.ConfigurableVariation, error) {
	var edges []catalog.ConfigurableVariation
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND parent_id = ?", tenantID, parentID).
		Find(&edges).Error; err != nil {
		return nil, err
	}
	return edges, nil
}

// SaveConfigurable persists a configurable edge
func (r *GormVariationRepository) SaveConfigurable(ctx context.Context, edge *catalog.ConfigurableVariation) error {
	return r.db.WithContext(ctx).Save(edge).Error
}

// DeleteConfigurable removes a configurable edge
func (r *GormVariationRepository) DeleteConfigurable(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.ConfigurableVariation{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindBundle returns the edge for a (parent, child) pair, if any
func (r *GormVariationRepository) FindBundle(ctx context.Context, tenantID, parentID, childID uuid.UUID) (*catalog.BundleVariation, error) {
	var edge catalog.BundleVariation
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND parent_id = ? AND child_id = ?", tenantID, parentID, childID).
		First(&edge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &edge, nil
}

// FindChildrenOf returns all bundle edges under a bundle parent
func (r *GormVariationRepository) FindChildrenOf(ctx context.Context, tenantID, parentID uuid.UUID) ([]catalog.BundleVariation, error) {
	var edges []catalog.BundleVariation
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND parent_id = ?", tenantID, parentID).
		Find(&edges).Error; err != nil {
		return nil, err
	}
	return edges, nil
}

// SaveBundle persists a bundle edge
func (r *GormVariationRepository) SaveBundle(ctx context.Context, edge *catalog.BundleVariation) error {
	return r.db.WithContext(ctx).Save(edge).Error
}

// GormEanCodeRepository implements catalog.EanCodeRepository using GORM
type GormEanCodeRepository struct {
	db *gorm.DB
}

// NewGormEanCodeRepository creates a new GormEanCodeRepository
func NewGormEanCodeRepository(db *gorm.DB) *GormEanCodeRepository {
	return &GormEanCodeRepository{db: db}
}

// FindByProduct returns the code attached to a product, if any
func (r *GormEanCodeRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID) (*catalog.EanCode, error) {
	var ean catalog.EanCode
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		First(&ean).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ean, nil
}

// FindByCode looks a code up by its value
func (r *GormEanCodeRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*catalog.EanCode, error) {
	var ean catalog.EanCode
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, strings.TrimSpace(code)).
		First(&ean).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ean, nil
}

// Save creates or updates a code row
func (r *GormEanCodeRepository) Save(ctx context.Context, ean *catalog.EanCode) error {
	return r.db.WithContext(ctx).Save(ean).Error
}
