package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/shared"
)

// MediaKind distinguishes what a media row holds
type MediaKind string

const (
	MediaKindImage MediaKind = "IMAGE"
	MediaKindFile  MediaKind = "FILE"
	MediaKindVideo MediaKind = "VIDEO"
)

// Media is an image or file owned independently of products. Assignment to
// products goes through MediaProductThrough.
type Media struct {
	shared.TenantAggregateRoot
	Kind        MediaKind `gorm:"type:varchar(10);not null;default:'IMAGE'"`
	SourceURL   string    `gorm:"type:varchar(2048)"`
	ContentHash string    `gorm:"type:varchar(64);index"`
	Title       string    `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (Media) TableName() string {
	return "media"
}

// NewMediaFromURL creates an image/file row referencing an external URL
func NewMediaFromURL(tenantID uuid.UUID, kind MediaKind, sourceURL string) (*Media, error) {
	if sourceURL == "" {
		return nil, shared.NewDomainError("INVALID_MEDIA", "Media source URL cannot be empty")
	}
	if !strings.HasPrefix(sourceURL, "http://") && !strings.HasPrefix(sourceURL, "https://") {
		return nil, shared.NewDomainError("INVALID_MEDIA", "Media source URL must be http(s)")
	}
	if kind == "" {
		kind = MediaKindImage
	}
	return &Media{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Kind:                kind,
		SourceURL:           sourceURL,
	}, nil
}

// SetTitle sets a human readable title
func (m *Media) SetTitle(title string) {
	m.Title = title
	m.Touch()
}

// MediaProductThrough assigns one media row to one product with ordering.
// A NULL sales channel means the default/shared assignment used as fallback
// for every channel.
type MediaProductThrough struct {
	shared.BaseEntity
	TenantID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	MediaID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_media_product,priority:1"`
	ProductID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_media_product,priority:2"`
	SalesChannelID *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_media_product,priority:3"`
	SortOrder      int        `gorm:"not null;default:0"`
	IsMainImage    bool       `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (MediaProductThrough) TableName() string {
	return "media_product_throughs"
}

// NewMediaProductThrough assigns media to a product
func NewMediaProductThrough(tenantID, mediaID, productID uuid.UUID) *MediaProductThrough {
	return &MediaProductThrough{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		MediaID:    mediaID,
		ProductID:  productID,
	}
}

// ScopeToChannel restricts the assignment to one sales channel
func (t *MediaProductThrough) ScopeToChannel(channelID uuid.UUID) {
	t.SalesChannelID = &channelID
	t.Touch()
}

// SetOrdering updates position and main-image flag
func (t *MediaProductThrough) SetOrdering(sortOrder int, isMain bool) {
	t.SortOrder = sortOrder
	t.IsMainImage = isMain
	t.Touch()
}
