package catalog

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/shared"
	"golang.org/x/text/language"
)

// ErrURLKeyConflict is returned by translation repositories when a save hits
// the partial unique index on url_key. The importer reacts by clearing the
// slug and retrying once; a colliding SEO slug must never block an import.
var ErrURLKeyConflict = shared.NewDomainError("URL_KEY_CONFLICT", "Translation url_key already taken")

// ProductTranslation holds the language-scoped text bundle of one product.
// Keyed by (product, language); the url_key may collide across tenants and
// is nulled out on a uniqueness violation rather than failing the import.
type ProductTranslation struct {
	shared.BaseEntity
	TenantID         uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_translation_product_lang,priority:1"`
	Language         string    `gorm:"type:varchar(8);not null;uniqueIndex:idx_translation_product_lang,priority:2"`
	Name             string    `gorm:"type:varchar(200);not null"`
	ShortDescription string    `gorm:"type:text"`
	Description      string    `gorm:"type:text"`
	URLKey           *string   `gorm:"type:varchar(255);uniqueIndex:idx_translation_url_key,where:url_key IS NOT NULL"`
}

// TableName returns the table name for GORM
func (ProductTranslation) TableName() string {
	return "product_translations"
}

// NewProductTranslation creates a translation for a product in one language
func NewProductTranslation(tenantID, productID uuid.UUID, lang, name string) (*ProductTranslation, error) {
	normalized, err := NormalizeLanguage(lang)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Translation name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Translation name cannot exceed 200 characters")
	}

	return &ProductTranslation{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		ProductID:  productID,
		Language:   normalized,
		Name:       name,
	}, nil
}

// SetContent updates the descriptive texts
func (t *ProductTranslation) SetContent(shortDescription, description string) {
	t.ShortDescription = shortDescription
	t.Description = description
	t.Touch()
}

// SetName updates the translated name
func (t *ProductTranslation) SetName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Translation name cannot be empty")
	}
	t.Name = name
	t.Touch()
	return nil
}

// SetURLKey sets the SEO slug. An empty string clears it.
func (t *ProductTranslation) SetURLKey(urlKey string) {
	if urlKey == "" {
		t.URLKey = nil
	} else {
		slug := Slugify(urlKey)
		t.URLKey = &slug
	}
	t.Touch()
}

// ClearURLKey drops the SEO slug, used by the collision retry
func (t *ProductTranslation) ClearURLKey() {
	t.URLKey = nil
	t.UpdatedAt = time.Now()
}

// GenerateURLKey derives a slug from the translated name
func (t *ProductTranslation) GenerateURLKey() {
	slug := Slugify(t.Name)
	if slug == "" {
		t.URLKey = nil
		return
	}
	t.URLKey = &slug
	t.Touch()
}

// NormalizeLanguage validates a locale code and returns its canonical form
// (e.g. "en-US" -> "en-US", "DE" -> "de")
func NormalizeLanguage(lang string) (string, error) {
	if lang == "" {
		return "", shared.NewDomainError("INVALID_LANGUAGE", "Language cannot be empty")
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return "", shared.NewDomainError("INVALID_LANGUAGE", "Unknown language code: "+lang)
	}
	return tag.String(), nil
}

var slugStripPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts free text to a lowercase hyphenated url key
func Slugify(text string) string {
	slug := slugStripPattern.ReplaceAllString(strings.ToLower(text), "-")
	return strings.Trim(slug, "-")
}
