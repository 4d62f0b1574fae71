package channels

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/application/importer"
	"github.com/pim/backend/internal/domain/catalog"
	"github.com/pim/backend/internal/domain/integration"
	"github.com/pim/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Processor drives a channel pull import end to end: it runs the generic
// product import over a parsed payload, links the product to its mirror row
// through the import's mirror hook, and then writes the remote identifiers
// the parser collected onto the property, image and variation mirrors.
type Processor struct {
	importer       *importer.Importer
	remoteProducts integration.RemoteProductRepository
	mirrors        integration.RemoteMirrorRepository
	products       catalog.ProductRepository
	properties     catalog.PropertyRepository
	media          catalog.MediaRepository
	log            *zap.Logger
}

// NewProcessor creates a channel import processor
func NewProcessor(
	imp *importer.Importer,
	remoteProducts integration.RemoteProductRepository,
	mirrors integration.RemoteMirrorRepository,
	products catalog.ProductRepository,
	properties catalog.PropertyRepository,
	media catalog.MediaRepository,
	log *zap.Logger,
) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{
		importer:       imp,
		remoteProducts: remoteProducts,
		mirrors:        mirrors,
		products:       products,
		properties:     properties,
		media:          media,
		log:            log,
	}
}

// ImportResult is the outcome of one channel product import
type ImportResult struct {
	Product *catalog.Product
	Mirror  *integration.RemoteProduct
	Created bool
}

// ImportProduct imports one parsed channel payload. remoteID is the
// channel-side identifier of the product the payload came from; the mirror
// row is created or updated to point at it, so a later push sync runs as an
// update instead of re-creating the listing.
func (p *Processor) ImportProduct(ctx context.Context, scope importer.Scope, channel *integration.SalesChannel, remoteID string, data *importer.ProductData) (*ImportResult, error) {
	scope.SalesChannelID = &channel.ID
	meta := MetadataFrom(data)

	var mirror *integration.RemoteProduct
	run := p.importer.Product(scope, *data)
	run.PrepareMirror(func(ctx context.Context, product *catalog.Product, created bool) error {
		linked, err := p.ensureMirror(ctx, scope.TenantID, channel.ID, product, remoteID, nil)
		if err != nil {
			return err
		}
		mirror = linked
		return nil
	})
	if err := run.Process(ctx); err != nil {
		return nil, err
	}

	if err := p.handleAttributes(ctx, scope, mirror, meta); err != nil {
		return nil, err
	}
	if err := p.handleImages(ctx, scope, mirror, data, meta); err != nil {
		return nil, err
	}
	if err := p.handleVariations(ctx, scope, channel, mirror, meta); err != nil {
		return nil, err
	}

	return &ImportResult{Product: run.Instance, Mirror: mirror, Created: run.Created}, nil
}

// ensureMirror loads or creates the mirror row for a product on one channel
// and records the remote id. A non-empty remote id marks the mirror created:
// the product demonstrably exists on the channel.
func (p *Processor) ensureMirror(ctx context.Context, tenantID, channelID uuid.UUID, product *catalog.Product, remoteID string, parentMirrorID *uuid.UUID) (*integration.RemoteProduct, error) {
	mirror, err := p.remoteProducts.FindByLocalProduct(ctx, tenantID, channelID, product.ID)
	if errors.Is(err, shared.ErrNotFound) {
		if parentMirrorID != nil {
			mirror = integration.NewRemoteVariation(tenantID, channelID, product.ID, *parentMirrorID)
		} else {
			mirror = integration.NewRemoteProduct(tenantID, channelID, product.ID)
		}
	} else if err != nil {
		return nil, err
	}

	mirror.RemoteSKU = product.SKU
	if remoteID != "" {
		mirror.MarkCreated(remoteID)
	}
	if err := p.remoteProducts.Save(ctx, mirror); err != nil {
		return nil, err
	}
	return mirror, nil
}

// handleAttributes writes the remote attribute ids the parser collected onto
// property mirrors. Properties the import did not materialize are skipped.
func (p *Processor) handleAttributes(ctx context.Context, scope importer.Scope, mirror *integration.RemoteProduct, meta *MirrorMetadata) error {
	if mirror == nil || len(meta.PropertyToRemoteID) == 0 {
		return nil
	}

	existing, err := p.mirrors.FindPropertiesByRemoteProduct(ctx, scope.TenantID, mirror.ID)
	if err != nil {
		return err
	}
	byProperty := make(map[uuid.UUID]*integration.RemoteProperty, len(existing))
	for i := range existing {
		byProperty[existing[i].LocalPropertyID] = &existing[i]
	}

	for name, remoteID := range meta.PropertyToRemoteID {
		property, err := p.properties.FindByName(ctx, scope.TenantID, name)
		if errors.Is(err, shared.ErrNotFound) {
			p.log.Debug("skipping remote id for unknown property", zap.String("property", name))
			continue
		}
		if err != nil {
			return err
		}

		remoteProp, ok := byProperty[property.ID]
		if !ok {
			remoteProp = integration.NewRemoteProperty(scope.TenantID, mirror.ID, property.ID)
		}
		if remoteProp.RemoteID == remoteID && ok {
			continue
		}
		remoteProp.RemoteID = remoteID
		if err := p.mirrors.SaveProperty(ctx, remoteProp); err != nil {
			return err
		}
	}
	return nil
}

// handleImages writes the remote image ids the parser collected, keyed by
// image position in the payload, onto image mirrors
func (p *Processor) handleImages(ctx context.Context, scope importer.Scope, mirror *integration.RemoteProduct, data *importer.ProductData, meta *MirrorMetadata) error {
	if mirror == nil || len(meta.ImageIndexToRemoteID) == 0 {
		return nil
	}

	existing, err := p.mirrors.FindImagesByRemoteProduct(ctx, scope.TenantID, mirror.ID)
	if err != nil {
		return err
	}
	byMedia := make(map[uuid.UUID]*integration.RemoteImageAssociation, len(existing))
	for i := range existing {
		byMedia[existing[i].LocalMediaID] = &existing[i]
	}

	for index, remoteID := range meta.ImageIndexToRemoteID {
		if index < 0 || index >= len(data.Images) {
			continue
		}
		image := data.Images[index]

		media, err := p.media.FindBySourceURL(ctx, scope.TenantID, image.ImageURL)
		if errors.Is(err, shared.ErrNotFound) {
			p.log.Debug("skipping remote id for unknown media", zap.String("url", image.ImageURL))
			continue
		}
		if err != nil {
			return err
		}

		association, ok := byMedia[media.ID]
		if !ok {
			association = integration.NewRemoteImageAssociation(scope.TenantID, mirror.ID, media.ID)
		}
		association.RemoteID = remoteID
		association.SortOrder = image.SortOrder.Or(index)
		if err := p.mirrors.SaveImage(ctx, association); err != nil {
			return err
		}
	}
	return nil
}

// handleVariations creates variation mirrors under the parent mirror for
// every variation SKU the parser mapped to a remote id. The variation
// products themselves were created by the import run.
func (p *Processor) handleVariations(ctx context.Context, scope importer.Scope, channel *integration.SalesChannel, mirror *integration.RemoteProduct, meta *MirrorMetadata) error {
	if mirror == nil || len(meta.VariationSKUToID) == 0 {
		return nil
	}

	for sku, remoteID := range meta.VariationSKUToID {
		child, err := p.products.FindBySKU(ctx, scope.TenantID, strings.ToUpper(sku))
		if errors.Is(err, shared.ErrNotFound) {
			p.log.Debug("skipping remote id for unknown variation", zap.String("sku", sku))
			continue
		}
		if err != nil {
			return err
		}
		if _, err := p.ensureMirror(ctx, scope.TenantID, channel.ID, child, remoteID, &mirror.ID); err != nil {
			return err
		}
	}
	return nil
}
