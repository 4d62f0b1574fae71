package catalog

import (
	"context"

	"github.com/google/uuid"
)

// MediaRepository defines persistence for media and product assignments
type MediaRepository interface {
	// FindByID finds a media row within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Media, error)

	// FindBySourceURL finds a media row by its external URL, used to
	// deduplicate repeated imports of the same image
	FindBySourceURL(ctx context.Context, tenantID uuid.UUID, sourceURL string) (*Media, error)

	// Save creates or updates a media row
	Save(ctx context.Context, media *Media) error

	// FindAssignment returns the (media, product, channel) binding, if any
	FindAssignment(ctx context.Context, tenantID, mediaID, productID uuid.UUID, channelID *uuid.UUID) (*MediaProductThrough, error)

	// FindAssignmentsByProduct returns all assignments of one product,
	// ordered by sort order
	FindAssignmentsByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]MediaProductThrough, error)

	// SaveAssignment creates or updates a binding
	SaveAssignment(ctx context.Context, through *MediaProductThrough) error

	// DeleteAssignment removes a binding
	DeleteAssignment(ctx context.Context, id uuid.UUID) error
}
