package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pim/backend/internal/domain/catalog"
	"github.com/pim/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormTranslationRepository implements catalog.TranslationRepository using GORM
type GormTranslationRepository struct {
	db *gorm.DB
}

// NewGormTranslationRepository creates a new GormTranslationRepository
func NewGormTranslationRepository(db *gorm.DB) *GormTranslationRepository {
	return &GormTranslationRepository{db: db}
}

// FindByProduct returns all translations of one product
func (r *GormTranslationRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]catalog.ProductTranslation, error) {
	var translations []catalog.ProductTranslation
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		Order("language ASC").
		Find(&translations).Error; err != nil {
		return nil, err
	}
	return translations, nil
}

// FindByProductAndLanguage returns the translation for one language
func (r *GormTranslationRepository) FindByProductAndLanguage(ctx context.Context, tenantID, productID uuid.UUID, lang string) (*catalog.ProductTranslation, error) {
	var translation catalog.ProductTranslation
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ? AND language = ?", tenantID, productID, lang).
		First(&translation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &translation, nil
}

// Save creates or updates a translation. A unique violation on the url_key
// index is surfaced as catalog.ErrURLKeyConflict so callers can retry with
// a cleared key.
func (r *GormTranslationRepository) Save(ctx context.Context, translation *catalog.ProductTranslation) error {
	if err := r.db.WithContext(ctx).Save(translation).Error; err != nil {
		return translateURLKeyError(err)
	}
	return nil
}

// SaveBatch creates translations in bulk
func (r *GormTranslationRepository) SaveBatch(ctx context.Context, translations []*catalog.ProductTranslation) error {
	if len(translations) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Save(translations).Error; err != nil {
		return translateURLKeyError(err)
	}
	return nil
}

// Delete removes a translation
func (r *GormTranslationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.ProductTranslation{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func translateURLKeyError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" && strings.Contains(pqErr.Constraint, "url_key") {
		return catalog.ErrURLKeyConflict
	}
	return err
}
