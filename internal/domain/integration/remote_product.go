package integration

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/shared"
)

// RemoteProduct mirrors one local product (or one variation of it) into one
// sales channel. A row is persisted even when the remote create fails, so a
// later update attempt can detect the failure and re-run the create.
//
// IsVariation must stay consistent with RemoteParentID: a variation mirror
// always has a parent mirror and vice versa.
type RemoteProduct struct {
	shared.BaseEntity
	TenantID            uuid.UUID  `gorm:"type:uuid;not null;index"`
	SalesChannelID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_remote_product,priority:1"`
	LocalProductID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_remote_product,priority:2"`
	RemoteID            string     `gorm:"type:varchar(128);index"`
	RemoteSKU           string     `gorm:"type:varchar(64)"`
	IsVariation         bool       `gorm:"not null;default:false"`
	RemoteParentID      *uuid.UUID `gorm:"type:uuid;index"`
	SuccessfullyCreated bool       `gorm:"not null;default:false"`
	Outdated            bool       `gorm:"not null;default:false"`
	OutdatedSince       *time.Time `gorm:""`
	LastSyncAt          *time.Time `gorm:""`
}

// TableName returns the table name for GORM
func (RemoteProduct) TableName() string {
	return "remote_products"
}

// NewRemoteProduct creates a mirror row for a local product on one channel
func NewRemoteProduct(tenantID, channelID, localProductID uuid.UUID) *RemoteProduct {
	return &RemoteProduct{
		BaseEntity:     shared.NewBaseEntity(),
		TenantID:       tenantID,
		SalesChannelID: channelID,
		LocalProductID: localProductID,
	}
}

// NewRemoteVariation creates a mirror row for a variation under a parent mirror
func NewRemoteVariation(tenantID, channelID, localProductID, remoteParentID uuid.UUID) *RemoteProduct {
	rp := NewRemoteProduct(tenantID, channelID, localProductID)
	rp.IsVariation = true
	rp.RemoteParentID = &remoteParentID
	return rp
}

// CheckVariationConsistency enforces the IsVariation <-> RemoteParentID invariant
func (rp *RemoteProduct) CheckVariationConsistency() error {
	hasParent := rp.RemoteParentID != nil && *rp.RemoteParentID != uuid.Nil
	if rp.IsVariation != hasParent {
		return ErrVariationParentMissing
	}
	return nil
}

// MarkCreated records a successful remote create
func (rp *RemoteProduct) MarkCreated(remoteID string) {
	rp.RemoteID = remoteID
	rp.SuccessfullyCreated = true
	now := time.Now()
	rp.LastSyncAt = &now
	rp.Touch()
}

// MarkCreateFailed records a failed remote create. The row is kept so the
// update path can self-heal by re-running the create later.
func (rp *RemoteProduct) MarkCreateFailed() {
	rp.SuccessfullyCreated = false
	rp.Touch()
}

// MarkSynced records a successful update round trip
func (rp *RemoteProduct) MarkSynced() {
	now := time.Now()
	rp.LastSyncAt = &now
	rp.Touch()
}

// NeedsCreate reports whether the mirror still has to be created remotely
func (rp *RemoteProduct) NeedsCreate() bool {
	return !rp.SuccessfullyCreated || rp.RemoteID == ""
}

// SetOutdated flips the tenant-visible broken flag. The flag is derived from
// the unresolved-error state of the log stream, never set directly by
// business logic.
func (rp *RemoteProduct) SetOutdated(outdated bool) {
	if rp.Outdated == outdated {
		return
	}
	rp.Outdated = outdated
	if outdated {
		now := time.Now()
		rp.OutdatedSince = &now
	} else {
		rp.OutdatedSince = nil
	}
	rp.Touch()
}

// RemoteProperty mirrors one product property assignment on one channel
type RemoteProperty struct {
	shared.BaseEntity
	TenantID        uuid.UUID `gorm:"type:uuid;not null;index"`
	RemoteProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_remote_property,priority:1"`
	LocalPropertyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_remote_property,priority:2"`
	RemoteID        string    `gorm:"type:varchar(128)"`
	RemoteValue     string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (RemoteProperty) TableName() string {
	return "remote_properties"
}

// NewRemoteProperty creates a property mirror row
func NewRemoteProperty(tenantID, remoteProductID, localPropertyID uuid.UUID) *RemoteProperty {
	return &RemoteProperty{
		BaseEntity:      shared.NewBaseEntity(),
		TenantID:        tenantID,
		RemoteProductID: remoteProductID,
		LocalPropertyID: localPropertyID,
	}
}

// RemoteImageAssociation mirrors one media assignment on one channel
type RemoteImageAssociation struct {
	shared.BaseEntity
	TenantID        uuid.UUID `gorm:"type:uuid;not null;index"`
	RemoteProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_remote_image,priority:1"`
	LocalMediaID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_remote_image,priority:2"`
	RemoteID        string    `gorm:"type:varchar(128)"`
	SortOrder       int       `gorm:"not null;default:0"`
	IsMainImage     bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (RemoteImageAssociation) TableName() string {
	return "remote_image_associations"
}

// NewRemoteImageAssociation creates an image mirror row
func NewRemoteImageAssociation(tenantID, remoteProductID, localMediaID uuid.UUID) *RemoteImageAssociation {
	return &RemoteImageAssociation{
		BaseEntity:      shared.NewBaseEntity(),
		TenantID:        tenantID,
		RemoteProductID: remoteProductID,
		LocalMediaID:    localMediaID,
	}
}

// RemoteProductRepository defines persistence for product mirrors
type RemoteProductRepository interface {
	// FindByID finds a mirror row
	FindByID(ctx context.Context, id uuid.UUID) (*RemoteProduct, error)

	// FindByLocalProduct finds the mirror of a local product on one channel
	FindByLocalProduct(ctx context.Context, tenantID, channelID, localProductID uuid.UUID) (*RemoteProduct, error)

	// FindByRemoteID finds a mirror by the channel-side identifier
	FindByRemoteID(ctx context.Context, tenantID, channelID uuid.UUID, remoteID string) (*RemoteProduct, error)

	// FindVariations returns all variation mirrors under a parent mirror
	FindVariations(ctx context.Context, tenantID, remoteParentID uuid.UUID) ([]RemoteProduct, error)

	// Save creates or updates a mirror row
	Save(ctx context.Context, rp *RemoteProduct) error

	// Delete removes a mirror row
	Delete(ctx context.Context, id uuid.UUID) error
}

// RemoteMirrorRepository defines persistence for the child mirrors
// (properties and images) reconciled by the sync factories
type RemoteMirrorRepository interface {
	// FindPropertiesByRemoteProduct returns all property mirrors of one product mirror
	FindPropertiesByRemoteProduct(ctx context.Context, tenantID, remoteProductID uuid.UUID) ([]RemoteProperty, error)

	// SaveProperty creates or updates a property mirror
	SaveProperty(ctx context.Context, rp *RemoteProperty) error

	// DeleteProperty removes a property mirror
	DeleteProperty(ctx context.Context, id uuid.UUID) error

	// FindImagesByRemoteProduct returns all image mirrors of one product mirror
	FindImagesByRemoteProduct(ctx context.Context, tenantID, remoteProductID uuid.UUID) ([]RemoteImageAssociation, error)

	// SaveImage creates or updates an image mirror
	SaveImage(ctx context.Context, ria *RemoteImageAssociation) error

	// DeleteImage removes an image mirror
	DeleteImage(ctx context.Context, id uuid.UUID) error
}
