package sync

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/catalog"
	"github.com/pim/backend/internal/domain/integration"
	"github.com/pim/backend/internal/domain/shared"
)

// ProductSyncFactory runs the full outbound pipeline for one product on one
// channel: resolve the mirror row, resolve the properties rule, build the
// payload, reconcile properties, perform the remote call, reconcile images,
// then recurse into variations. Within one product the steps are strictly
// sequential; across products there is no ordering.
type ProductSyncFactory struct {
	s         *Syncer
	channel   *integration.SalesChannel
	adapter   integration.ChannelAdapter
	productID uuid.UUID

	// parentMirror is set when this factory syncs a variation of an
	// already mirrored configurable product
	parentMirror *integration.RemoteProduct

	// Remote is populated by Run
	Remote *integration.RemoteProduct
}

// Run executes the pipeline. It returns an error on unrecoverable failure;
// a pre-existing mirror whose create never succeeded is re-created and the
// rest of the run is skipped, the next round completes it.
func (f *ProductSyncFactory) Run(ctx context.Context) error {
	product, err := f.s.repos.Products.FindByIDForTenant(ctx, f.channel.TenantID, f.productID)
	if err != nil {
		return err
	}

	mirror, fresh, err := f.resolveMirror(ctx)
	if err != nil {
		return err
	}
	f.Remote = mirror

	rule, err := f.resolveRule(ctx, product)
	if err != nil {
		return err
	}

	payload, err := f.buildPayload(ctx, product, rule)
	if err != nil {
		return err
	}

	if err := f.reconcileProperties(ctx, mirror, payload.Properties); err != nil {
		return err
	}

	if mirror.NeedsCreate() {
		create := &CreateFactory{s: f.s, channel: f.channel, adapter: f.adapter, mirror: mirror, payload: payload}
		if err := create.Run(ctx); err != nil {
			return err
		}
		// A healed mirror stops here; only a genuinely new one continues
		if !fresh {
			return nil
		}
	} else {
		update := &UpdateFactory{s: f.s, channel: f.channel, adapter: f.adapter, mirror: mirror, payload: payload}
		if err := update.Run(ctx); err != nil {
			return err
		}
	}

	if err := f.reconcileImages(ctx, mirror); err != nil {
		return err
	}

	if product.IsConfigurable() {
		if err := f.syncVariations(ctx, mirror); err != nil {
			return err
		}
	}
	return nil
}

// resolveMirror gets or creates the mirror row. The row exists before the
// first remote call so a failed create leaves evidence behind.
func (f *ProductSyncFactory) resolveMirror(ctx context.Context) (*integration.RemoteProduct, bool, error) {
	mirror, err := f.s.repos.Mirrors.FindByLocalProduct(ctx, f.channel.TenantID, f.channel.ID, f.productID)
	if err == nil {
		return mirror, false, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, false, err
	}

	if f.parentMirror != nil {
		mirror = integration.NewRemoteVariation(f.channel.TenantID, f.channel.ID, f.productID, f.parentMirror.ID)
	} else {
		mirror = integration.NewRemoteProduct(f.channel.TenantID, f.channel.ID, f.productID)
	}
	if err := mirror.CheckVariationConsistency(); err != nil {
		return nil, false, err
	}
	if err := f.s.repos.Mirrors.Save(ctx, mirror); err != nil {
		return nil, false, err
	}
	return mirror, true, nil
}

// resolveRule loads the properties rule governing this product. A product
// without one cannot be synced; the rule decides which attributes exist
// remotely.
func (f *ProductSyncFactory) resolveRule(ctx context.Context, product *catalog.Product) (*catalog.ProductPropertiesRule, error) {
	anchor, err := f.s.repos.Properties.FindProductTypeProperty(ctx, f.channel.TenantID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, integration.ErrRuleMissing
	}
	if err != nil {
		return nil, err
	}
	assignment, err := f.s.repos.Assignments.FindByProductAndProperty(ctx, f.channel.TenantID, product.ID, anchor.ID)
	if errors.Is(err, shared.ErrNotFound) || (err == nil && assignment.ValueSelectID == nil) {
		return nil, integration.ErrRuleMissing
	}
	if err != nil {
		return nil, err
	}
	rule, err := f.s.repos.Rules.FindByProductType(ctx, f.channel.TenantID, *assignment.ValueSelectID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, integration.ErrRuleMissing
	}
	return rule, err
}

// leadContentLanguage decides which translation fills the flat name and
// description fields consumed by single-language platforms
const leadContentLanguage = "en"

// buildPayload assembles the channel-neutral payload field by field
func (f *ProductSyncFactory) buildPayload(ctx context.Context, product *catalog.Product, rule *catalog.ProductPropertiesRule) (integration.ProductPayload, error) {
	payload := integration.ProductPayload{
		SKU:    product.SKU,
		Active: product.Active,
	}
	if err := f.setContent(ctx, product, &payload); err != nil {
		return payload, err
	}
	if err := f.setEan(ctx, product, &payload); err != nil {
		return payload, err
	}
	if err := f.setPrice(ctx, product, &payload); err != nil {
		return payload, err
	}
	if err := f.setProperties(ctx, product, rule, &payload); err != nil {
		return payload, err
	}
	if err := f.setImages(ctx, product, &payload); err != nil {
		return payload, err
	}
	if product.IsConfigurable() {
		if err := f.setVariations(ctx, product, &payload); err != nil {
			return payload, err
		}
	}
	return payload, nil
}

func (f *ProductSyncFactory) setContent(ctx context.Context, product *catalog.Product, payload *integration.ProductPayload) error {
	translations, err := f.s.repos.Translations.FindByProduct(ctx, f.channel.TenantID, product.ID)
	if err != nil {
		return err
	}
	if len(translations) == 0 {
		payload.Name = product.SKU
		return nil
	}
	sort.Slice(translations, func(i, j int) bool {
		return translations[i].Language < translations[j].Language
	})
	lead := translations[0]
	for _, tr := range translations {
		payload.Contents = append(payload.Contents, integration.ContentPayload{
			Language:    tr.Language,
			Name:        tr.Name,
			Description: tr.Description,
		})
		if tr.Language == leadContentLanguage {
			lead = tr
		}
	}
	payload.Name = lead.Name
	payload.Description = lead.Description
	return nil
}

func (f *ProductSyncFactory) setEan(ctx context.Context, product *catalog.Product, payload *integration.ProductPayload) error {
	ean, err := f.s.repos.EanCodes.FindByProduct(ctx, f.channel.TenantID, product.ID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	payload.EAN = ean.Code
	return nil
}

// setVariations embeds a shallow payload per variation so platforms that
// carry variants inside the product document receive them on create. The
// deep per-variation sync still runs afterwards and owns the mirrors.
func (f *ProductSyncFactory) setVariations(ctx context.Context, product *catalog.Product, payload *integration.ProductPayload) error {
	edges, err := f.s.repos.Variations.FindVariationsOf(ctx, f.channel.TenantID, product.ID)
	if err != nil {
		return err
	}
	for _, edge := range edges {
		stub, err := f.variationPayload(ctx, edge.VariationID)
		if err != nil {
			return err
		}
		payload.Variations = append(payload.Variations, stub)
	}
	return nil
}

func (f *ProductSyncFactory) variationPayload(ctx context.Context, variationID uuid.UUID) (integration.ProductPayload, error) {
	child, err := f.s.repos.Products.FindByIDForTenant(ctx, f.channel.TenantID, variationID)
	if err != nil {
		return integration.ProductPayload{}, err
	}
	stub := integration.ProductPayload{
		SKU:    child.SKU,
		Active: child.Active,
	}
	if err := f.setContent(ctx, child, &stub); err != nil {
		return stub, err
	}
	if err := f.setEan(ctx, child, &stub); err != nil {
		return stub, err
	}
	if err := f.setPrice(ctx, child, &stub); err != nil {
		return stub, err
	}
	return stub, nil
}

func (f *ProductSyncFactory) setPrice(ctx context.Context, product *catalog.Product, payload *integration.ProductPayload) error {
	prices, err := f.s.repos.Prices.FindByProduct(ctx, f.channel.TenantID, product.ID)
	if err != nil {
		return err
	}
	if len(prices) == 0 {
		return nil
	}
	price := prices[0]
	payload.Price = price.Amount.String()
	payload.Currency = price.CurrencyCode
	if price.RRP != nil {
		payload.Discount = price.RRP.String()
	}
	return nil
}

// setProperties collects the rule-governed attribute values. Attributes
// outside the rule never reach the channel.
func (f *ProductSyncFactory) setProperties(ctx context.Context, product *catalog.Product, rule *catalog.ProductPropertiesRule, payload *integration.ProductPayload) error {
	for _, item := range rule.Items {
		property, err := f.s.repos.Properties.FindByID(ctx, f.channel.TenantID, item.PropertyID)
		if err != nil {
			return err
		}
		assignment, err := f.s.repos.Assignments.FindByProductAndProperty(ctx, f.channel.TenantID, product.ID, property.ID)
		if errors.Is(err, shared.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		entry, err := f.renderProperty(ctx, property, assignment)
		if err != nil {
			return err
		}
		payload.Properties = append(payload.Properties, entry)
	}
	return nil
}

func (f *ProductSyncFactory) renderProperty(ctx context.Context, property *catalog.Property, assignment *catalog.ProductProperty) (integration.PropertyPayload, error) {
	entry := integration.PropertyPayload{
		Code: property.InternalName,
		Name: property.Name,
	}
	switch {
	case assignment.ValueSelectID != nil:
		sv, err := f.s.repos.Properties.FindSelectValueByID(ctx, f.channel.TenantID, *assignment.ValueSelectID)
		if err != nil {
			return entry, err
		}
		entry.Value = sv.Value
	case len(assignment.ValueMultiSelect) > 0:
		for _, id := range assignment.ValueMultiSelect {
			sv, err := f.s.repos.Properties.FindSelectValueByID(ctx, f.channel.TenantID, id)
			if err != nil {
				return entry, err
			}
			entry.Values = append(entry.Values, sv.Value)
		}
	case assignment.ValueText != nil:
		entry.Value = *assignment.ValueText
	case assignment.ValueInt != nil:
		entry.Value = strconv.FormatInt(*assignment.ValueInt, 10)
	case assignment.ValueFloat != nil:
		entry.Value = strconv.FormatFloat(*assignment.ValueFloat, 'f', -1, 64)
	case assignment.ValueBool != nil:
		entry.Value = strconv.FormatBool(*assignment.ValueBool)
	case assignment.ValueDate != nil:
		entry.Value = assignment.ValueDate.Format("2006-01-02")
	case assignment.ValueDatetime != nil:
		entry.Value = assignment.ValueDatetime.Format(time.RFC3339)
	}
	return entry, nil
}

func (f *ProductSyncFactory) setImages(ctx context.Context, product *catalog.Product, payload *integration.ProductPayload) error {
	assignments, err := f.imageAssignments(ctx, product.ID)
	if err != nil {
		return err
	}
	for _, a := range assignments {
		media, err := f.s.repos.Media.FindByID(ctx, f.channel.TenantID, a.MediaID)
		if err != nil {
			return err
		}
		payload.Images = append(payload.Images, integration.ImagePayload{
			SourceURL:   media.SourceURL,
			SortOrder:   a.SortOrder,
			IsMainImage: a.IsMainImage,
		})
	}
	return nil
}

// imageAssignments returns the product's media assignments visible on this
// channel, main image first then by sort order
func (f *ProductSyncFactory) imageAssignments(ctx context.Context, productID uuid.UUID) ([]catalog.MediaProductThrough, error) {
	all, err := f.s.repos.Media.FindAssignmentsByProduct(ctx, f.channel.TenantID, productID)
	if err != nil {
		return nil, err
	}
	var visible []catalog.MediaProductThrough
	for _, a := range all {
		if a.SalesChannelID == nil || *a.SalesChannelID == f.channel.ID {
			visible = append(visible, a)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		if visible[i].IsMainImage != visible[j].IsMainImage {
			return visible[i].IsMainImage
		}
		return visible[i].SortOrder < visible[j].SortOrder
	})
	return visible, nil
}

// reconcileProperties converges the remote attribute definitions to the
// rule-governed payload set
func (f *ProductSyncFactory) reconcileProperties(ctx context.Context, mirror *integration.RemoteProduct, entries []integration.PropertyPayload) error {
	existing, err := f.s.repos.Children.FindPropertiesByRemoteProduct(ctx, f.channel.TenantID, mirror.ID)
	if err != nil {
		return err
	}
	byLocal := make(map[uuid.UUID]*integration.RemoteProperty, len(existing))
	keys := make([]uuid.UUID, 0, len(existing))
	for i := range existing {
		byLocal[existing[i].LocalPropertyID] = &existing[i]
		keys = append(keys, existing[i].ID)
	}

	r := Reconciler[integration.PropertyPayload, uuid.UUID]{
		Apply: func(ctx context.Context, entry integration.PropertyPayload) (uuid.UUID, error) {
			property, err := f.s.repos.Properties.FindByName(ctx, f.channel.TenantID, entry.Name)
			if err != nil {
				return uuid.Nil, err
			}
			remoteID, err := f.adapter.EnsureProperty(ctx, f.channel, entry)
			if err != nil {
				identifier := propertyIdentifier(f.channel.ID, mirror.LocalProductID, property.ID)
				f.s.logAttempt(ctx, f.channel, mirror, integration.LogActionUpdate, identifier, "", err)
				return uuid.Nil, err
			}
			child, ok := byLocal[property.ID]
			if !ok {
				child = integration.NewRemoteProperty(f.channel.TenantID, mirror.ID, property.ID)
			}
			child.RemoteID = remoteID
			child.RemoteValue = renderedValue(entry)
			if err := f.s.repos.Children.SaveProperty(ctx, child); err != nil {
				return uuid.Nil, err
			}
			return child.ID, nil
		},
		Delete: func(ctx context.Context, key uuid.UUID) error {
			return f.s.repos.Children.DeleteProperty(ctx, key)
		},
	}
	return r.Run(ctx, entries, keys)
}

// reconcileImages converges the remote image set to the local assignments
func (f *ProductSyncFactory) reconcileImages(ctx context.Context, mirror *integration.RemoteProduct) error {
	assignments, err := f.imageAssignments(ctx, mirror.LocalProductID)
	if err != nil {
		return err
	}
	existing, err := f.s.repos.Children.FindImagesByRemoteProduct(ctx, f.channel.TenantID, mirror.ID)
	if err != nil {
		return err
	}
	byMedia := make(map[uuid.UUID]*integration.RemoteImageAssociation, len(existing))
	byID := make(map[uuid.UUID]*integration.RemoteImageAssociation, len(existing))
	keys := make([]uuid.UUID, 0, len(existing))
	for i := range existing {
		byMedia[existing[i].LocalMediaID] = &existing[i]
		byID[existing[i].ID] = &existing[i]
		keys = append(keys, existing[i].ID)
	}

	r := Reconciler[catalog.MediaProductThrough, uuid.UUID]{
		Apply: func(ctx context.Context, assignment catalog.MediaProductThrough) (uuid.UUID, error) {
			media, err := f.s.repos.Media.FindByID(ctx, f.channel.TenantID, assignment.MediaID)
			if err != nil {
				return uuid.Nil, err
			}
			payload := integration.ImagePayload{
				SourceURL:   media.SourceURL,
				SortOrder:   assignment.SortOrder,
				IsMainImage: assignment.IsMainImage,
			}
			child, linked := byMedia[assignment.MediaID]
			if linked && child.SortOrder == assignment.SortOrder && child.IsMainImage == assignment.IsMainImage {
				return child.ID, nil
			}
			remoteImageID, err := f.adapter.AssignImage(ctx, f.channel, mirror.RemoteID, payload)
			if err != nil {
				identifier := imageIdentifier(f.channel.ID, mirror.LocalProductID, assignment.MediaID)
				f.s.logAttempt(ctx, f.channel, mirror, integration.LogActionUpdate, identifier, "", err)
				return uuid.Nil, err
			}
			if !linked {
				child = integration.NewRemoteImageAssociation(f.channel.TenantID, mirror.ID, assignment.MediaID)
			}
			child.RemoteID = remoteImageID
			child.SortOrder = assignment.SortOrder
			child.IsMainImage = assignment.IsMainImage
			if err := f.s.repos.Children.SaveImage(ctx, child); err != nil {
				return uuid.Nil, err
			}
			return child.ID, nil
		},
		Delete: func(ctx context.Context, key uuid.UUID) error {
			child := byID[key]
			if child.RemoteID != "" {
				if err := f.adapter.RemoveImage(ctx, f.channel, mirror.RemoteID, child.RemoteID); err != nil {
					identifier := imageIdentifier(f.channel.ID, mirror.LocalProductID, child.LocalMediaID)
					f.s.logAttempt(ctx, f.channel, mirror, integration.LogActionDelete, identifier, "", err)
					return err
				}
			}
			return f.s.repos.Children.DeleteImage(ctx, key)
		},
	}
	return r.Run(ctx, assignments, keys)
}

// syncVariations recursively mirrors every current variation and deletes
// remote variations whose local edge is gone
func (f *ProductSyncFactory) syncVariations(ctx context.Context, mirror *integration.RemoteProduct) error {
	edges, err := f.s.repos.Variations.FindVariationsOf(ctx, f.channel.TenantID, mirror.LocalProductID)
	if err != nil {
		return err
	}
	existing, err := f.s.repos.Mirrors.FindVariations(ctx, f.channel.TenantID, mirror.ID)
	if err != nil {
		return err
	}
	byID := make(map[uuid.UUID]*integration.RemoteProduct, len(existing))
	keys := make([]uuid.UUID, 0, len(existing))
	for i := range existing {
		byID[existing[i].ID] = &existing[i]
		keys = append(keys, existing[i].ID)
	}

	r := Reconciler[catalog.ConfigurableVariation, uuid.UUID]{
		Apply: func(ctx context.Context, edge catalog.ConfigurableVariation) (uuid.UUID, error) {
			child := &ProductSyncFactory{
				s:            f.s,
				channel:      f.channel,
				adapter:      f.adapter,
				productID:    edge.VariationID,
				parentMirror: mirror,
			}
			if err := child.Run(ctx); err != nil {
				return uuid.Nil, err
			}
			return child.Remote.ID, nil
		},
		Delete: func(ctx context.Context, key uuid.UUID) error {
			orphan := byID[key]
			if !orphan.NeedsCreate() {
				identifier := productIdentifier(f.channel.ID, orphan.LocalProductID)
				err := f.adapter.DeleteProduct(ctx, f.channel, orphan.RemoteID)
				f.s.logAttempt(ctx, f.channel, mirror, integration.LogActionDelete, identifier, "", err)
				if err != nil {
					return err
				}
			}
			return f.s.dropMirror(ctx, orphan)
		},
	}
	return r.Run(ctx, edges, keys)
}

func renderedValue(entry integration.PropertyPayload) string {
	if entry.Value != "" {
		return entry.Value
	}
	var joined string
	for i, v := range entry.Values {
		if i > 0 {
			joined += ","
		}
		joined += v
	}
	return joined
}
