package importer

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/catalog"
	"github.com/pim/backend/internal/domain/shared"
)

// ImageImport assigns one image to one product. Media rows are deduplicated
// by source URL so re-importing the same payload never re-uploads; the
// assignment is scoped to the ambient sales channel when one is set.
type ImageImport struct {
	imp       *Importer
	scope     Scope
	productID uuid.UUID
	data      ImageData

	Media    *catalog.Media
	Instance *catalog.MediaProductThrough
	Created  bool
}

// Process runs the image import
func (i *ImageImport) Process(ctx context.Context) error {
	if i.data.ImageURL == "" {
		return shared.NewValidationError("image_url", "Image URL is required")
	}

	media, err := i.ensureMedia(ctx)
	if err != nil {
		return err
	}
	i.Media = media

	assignment, err := i.imp.repos.Media.FindAssignment(ctx, i.scope.TenantID, media.ID, i.productID, i.scope.SalesChannelID)
	if errors.Is(err, shared.ErrNotFound) {
		assignment = catalog.NewMediaProductThrough(i.scope.TenantID, media.ID, i.productID)
		if i.scope.SalesChannelID != nil {
			assignment.ScopeToChannel(*i.scope.SalesChannelID)
		}
		i.Created = true
	} else if err != nil {
		return err
	}

	if i.data.SortOrder.Present() || i.data.IsMainImage.Present() {
		assignment.SetOrdering(i.data.SortOrder.Or(assignment.SortOrder), i.data.IsMainImage.Or(assignment.IsMainImage))
	}

	if err := i.imp.repos.Media.SaveAssignment(ctx, assignment); err != nil {
		return err
	}
	i.Instance = assignment
	return nil
}

func (i *ImageImport) ensureMedia(ctx context.Context) (*catalog.Media, error) {
	existing, err := i.imp.repos.Media.FindBySourceURL(ctx, i.scope.TenantID, i.data.ImageURL)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	kind := catalog.MediaKind(i.data.Kind.Or(string(catalog.MediaKindImage)))
	media, err := catalog.NewMediaFromURL(i.scope.TenantID, kind, i.data.ImageURL)
	if err != nil {
		return nil, err
	}
	if title, ok := i.data.Title.Get(); ok {
		media.SetTitle(title)
	}
	if err := i.imp.repos.Media.Save(ctx, media); err != nil {
		return nil, err
	}
	return media, nil
}
