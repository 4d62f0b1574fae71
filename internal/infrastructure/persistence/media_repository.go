package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/catalog"
	"github.com/pim/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormMediaRepository implements catalog.MediaRepository using GORM
type GormMediaRepository struct {
	db *gorm.DB
}

// NewGormMediaRepository creates a new GormMediaRepository
func NewGormMediaRepository(db *gorm.DB) *GormMediaRepository {
	return &GormMediaRepository{db: db}
}

// FindByID finds a media row within a tenant
func (r *GormMediaRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Media, error) {
	var media catalog.Media
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&media).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &media, nil
}

// FindBySourceURL finds a media row by its external URL
func (r *GormMediaRepository) FindBySourceURL(ctx context.Context, tenantID uuid.UUID, sourceURL string) (*catalog.Media, error) {
	var media catalog.Media
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND source_url = ?", tenantID, sourceURL).
		First(&media).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &media, nil
}

// Save creates or updates a media row
func (r *GormMediaRepository) Save(ctx context.Context, media *catalog.Media) error {
	return r.db.WithContext(ctx).Save(media).Error
}

// FindAssignment returns the (media, product, channel) binding, if any
func (r *GormMediaRepository) FindAssignment(ctx context.Context, tenantID, mediaID, productID uuid.UUID, channelID *uuid.UUID) (*catalog.MediaProductThrough, error) {
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND media_id = ? AND product_id = ?", tenantID, mediaID, productID)
	if channelID == nil {
		query = query.Where("sales_channel_id IS NULL")
	} else {
		query = query.Where("sales_channel_id = ?", *channelID)
	}

	var through catalog.MediaProductThrough
	if err := query.First(&through).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &through, nil
}

// FindAssignmentsByProduct returns all assignments of one product, main
// image first, then by sort order
func (r *GormMediaRepository) FindAssignmentsByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]catalog.MediaProductThrough, error) {
	var assignments []catalog.MediaProductThrough
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		Order("is_main_image DESC, sort_order ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// SaveAssignment creates or updates a binding
func (r *GormMediaRepository) SaveAssignment(ctx context.Context, through *catalog.MediaProductThrough) error {
	return r.db.WithContext(ctx).Save(through).Error
}

// DeleteAssignment removes a binding
func (r *GormMediaRepository) DeleteAssignment(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.MediaProductThrough{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
