package sync

import (
	"context"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/catalog"
	"github.com/pim/backend/internal/domain/integration"
	"github.com/pim/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// memStore is the shared backing state of the in-memory repository fakes
type memStore struct {
	products     []*catalog.Product
	translations []*catalog.ProductTranslation
	eans         []*catalog.EanCode
	properties   []*catalog.Property
	selectValues []*catalog.PropertySelectValue
	assignments  []*catalog.ProductProperty
	rules        []*catalog.ProductPropertiesRule
	prices       []*catalog.SalesPrice
	media        []*catalog.Media
	mediaAssign  []*catalog.MediaProductThrough
	confEdges    []*catalog.ConfigurableVariation
	bundleEdges  []*catalog.BundleVariation

	mirrors     []*integration.RemoteProduct
	remoteProps []*integration.RemoteProperty
	remoteImgs  []*integration.RemoteImageAssociation
	logs        []*integration.RemoteLog
}

func newTestSyncer(adapter integration.ChannelAdapter) (*Syncer, *memStore) {
	store := &memStore{}
	registry := integration.NewAdapterRegistry()
	registry.Register(adapter)
	repos := Repositories{
		Products:     &fakeProducts{store},
		Translations: &fakeTranslations{store},
		EanCodes:     &fakeEans{store},
		Variations:   &fakeVariations{store},
		Properties:   &fakeProperties{store},
		Assignments:  &fakeAssignments{store},
		Rules:        &fakeRules{store},
		Prices:       &fakePrices{store},
		Media:        &fakeMedia{store},
		Mirrors:      &fakeMirrors{store},
		Children:     &fakeChildren{store},
		Logs:         &fakeLogs{store},
	}
	return NewSyncer(repos, registry, zap.NewNop()), store
}

type fakeProducts struct{ s *memStore }

func (f *fakeProducts) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	for _, p := range f.s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeProducts) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	for _, p := range f.s.products {
		if p.TenantID == tenantID && p.ID == id {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeProducts) FindBySKU(_ context.Context, tenantID uuid.UUID, sku string) (*catalog.Product, error) {
	for _, p := range f.s.products {
		if p.TenantID == tenantID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeProducts) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range f.s.products {
		if p.TenantID == tenantID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProducts) FindByIDs(_ context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range f.s.products {
		for _, id := range ids {
			if p.TenantID == tenantID && p.ID == id {
				out = append(out, *p)
			}
		}
	}
	return out, nil
}

func (f *fakeProducts) ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error) {
	_, err := f.FindBySKU(ctx, tenantID, sku)
	return err == nil, nil
}

func (f *fakeProducts) Save(_ context.Context, product *catalog.Product) error {
	for i, p := range f.s.products {
		if p.ID == product.ID {
			f.s.products[i] = product
			return nil
		}
	}
	f.s.products = append(f.s.products, product)
	return nil
}

func (f *fakeProducts) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	for i, p := range f.s.products {
		if p.TenantID == tenantID && p.ID == id {
			f.s.products = append(f.s.products[:i], f.s.products[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

func (f *fakeProducts) CountForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	var n int64
	for _, p := range f.s.products {
		if p.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

type fakeTranslations struct{ s *memStore }

func (f *fakeTranslations) FindByProduct(_ context.Context, tenantID, productID uuid.UUID) ([]catalog.ProductTranslation, error) {
	var out []catalog.ProductTranslation
	for _, t := range f.s.translations {
		if t.TenantID == tenantID && t.ProductID == productID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTranslations) FindByProductAndLanguage(_ context.Context, tenantID, productID uuid.UUID, lang string) (*catalog.ProductTranslation, error) {
	for _, t := range f.s.translations {
		if t.TenantID == tenantID && t.ProductID == productID && t.Language == lang {
			return t, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeTranslations) Save(_ context.Context, translation *catalog.ProductTranslation) error {
	for i, t := range f.s.translations {
		if t.ID == translation.ID {
			f.s.translations[i] = translation
			return nil
		}
	}
	f.s.translations = append(f.s.translations, translation)
	return nil
}

func (f *fakeTranslations) SaveBatch(ctx context.Context, translations []*catalog.ProductTranslation) error {
	for _, t := range translations {
		if err := f.Save(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeTranslations) Delete(_ context.Context, id uuid.UUID) error {
	for i, t := range f.s.translations {
		if t.ID == id {
			f.s.translations = append(f.s.translations[:i], f.s.translations[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

type fakeEans struct{ s *memStore }

func (f *fakeEans) FindByProduct(_ context.Context, tenantID, productID uuid.UUID) (*catalog.EanCode, error) {
	for _, e := range f.s.eans {
		if e.TenantID == tenantID && e.ProductID != nil && *e.ProductID == productID {
			return e, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeEans) FindByCode(_ context.Context, tenantID uuid.UUID, code string) (*catalog.EanCode, error) {
	for _, e := range f.s.eans {
		if e.TenantID == tenantID && e.Code == code {
			return e, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeEans) Save(_ context.Context, ean *catalog.EanCode) error {
	f.s.eans = append(f.s.eans, ean)
	return nil
}

type fakeVariations struct{ s *memStore }

func (f *fakeVariations) FindConfigurable(_ context.Context, tenantID, parentID, variationID uuid.UUID) (*catalog.ConfigurableVariation, error) {
	for _, e := range f.s.confEdges {
		if e.TenantID == tenantID && e.ParentID == parentID && e.VariationID == variationID {
			return e, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeVariations) FindVariationsOf(_ context.Context, tenantID, parentID uuid.UUID) ([]catalog.ConfigurableVariation, error) {
	var out []catalog.ConfigurableVariation
	for _, e := range f.s.confEdges {
		if e.TenantID == tenantID && e.ParentID == parentID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeVariations) SaveConfigurable(_ context.Context, edge *catalog.ConfigurableVariation) error {
	f.s.confEdges = append(f.s.confEdges, edge)
	return nil
}

func (f *fakeVariations) DeleteConfigurable(_ context.Context, id uuid.UUID) error {
	for i, e := range f.s.confEdges {
		if e.ID == id {
			f.s.confEdges = append(f.s.confEdges[:i], f.s.confEdges[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

func (f *fakeVariations) FindBundle(_ context.Context, tenantID, parentID, childID uuid.UUID) (*catalog.BundleVariation, error) {
	for _, e := range f.s.bundleEdges {
		if e.TenantID == tenantID && e.ParentID == parentID && e.ChildID == childID {
			return e, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeVariations) FindChildrenOf(_ context.Context, tenantID, parentID uuid.UUID) ([]catalog.BundleVariation, error) {
	var out []catalog.BundleVariation
	for _, e := range f.s.bundleEdges {
		if e.TenantID == tenantID && e.ParentID == parentID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeVariations) SaveBundle(_ context.Context, edge *catalog.BundleVariation) error {
	f.s.bundleEdges = append(f.s.bundleEdges, edge)
	return nil
}

type fakeProperties struct{ s *memStore }

func (f *fakeProperties) FindByID(_ context.Context, tenantID, id uuid.UUID) (*catalog.Property, error) {
	for _, p := range f.s.properties {
		if p.TenantID == tenantID && p.ID == id {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeProperties) FindByName(_ context.Context, tenantID uuid.UUID, name string) (*catalog.Property, error) {
	for _, p := range f.s.properties {
		if p.TenantID == tenantID && p.Name == name {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeProperties) FindProductTypeProperty(_ context.Context, tenantID uuid.UUID) (*catalog.Property, error) {
	for _, p := range f.s.properties {
		if p.TenantID == tenantID && p.IsProductType {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeProperties) Save(_ context.Context, property *catalog.Property) error {
	f.s.properties = append(f.s.properties, property)
	return nil
}

func (f *fakeProperties) FindSelectValue(_ context.Context, tenantID, propertyID uuid.UUID, value string) (*catalog.PropertySelectValue, error) {
	for _, sv := range f.s.selectValues {
		if sv.TenantID == tenantID && sv.PropertyID == propertyID && sv.Value == value {
			return sv, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeProperties) FindSelectValueByID(_ context.Context, tenantID, id uuid.UUID) (*catalog.PropertySelectValue, error) {
	for _, sv := range f.s.selectValues {
		if sv.TenantID == tenantID && sv.ID == id {
			return sv, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeProperties) SaveSelectValue(_ context.Context, value *catalog.PropertySelectValue) error {
	f.s.selectValues = append(f.s.selectValues, value)
	return nil
}

type fakeAssignments struct{ s *memStore }

func (f *fakeAssignments) FindByProduct(_ context.Context, tenantID, productID uuid.UUID) ([]catalog.ProductProperty, error) {
	var out []catalog.ProductProperty
	for _, a := range f.s.assignments {
		if a.TenantID == tenantID && a.ProductID == productID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAssignments) FindByProductAndProperty(_ context.Context, tenantID, productID, propertyID uuid.UUID) (*catalog.ProductProperty, error) {
	for _, a := range f.s.assignments {
		if a.TenantID == tenantID && a.ProductID == productID && a.PropertyID == propertyID {
			return a, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeAssignments) Save(_ context.Context, assignment *catalog.ProductProperty) error {
	for i, a := range f.s.assignments {
		if a.ID == assignment.ID {
			f.s.assignments[i] = assignment
			return nil
		}
	}
	f.s.assignments = append(f.s.assignments, assignment)
	return nil
}

func (f *fakeAssignments) Delete(_ context.Context, id uuid.UUID) error {
	for i, a := range f.s.assignments {
		if a.ID == id {
			f.s.assignments = append(f.s.assignments[:i], f.s.assignments[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

type fakeRules struct{ s *memStore }

func (f *fakeRules) FindByID(_ context.Context, tenantID, id uuid.UUID) (*catalog.ProductPropertiesRule, error) {
	for _, r := range f.s.rules {
		if r.TenantID == tenantID && r.ID == id {
			return r, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeRules) FindByProductType(_ context.Context, tenantID, productTypeValueID uuid.UUID) (*catalog.ProductPropertiesRule, error) {
	for _, r := range f.s.rules {
		if r.TenantID == tenantID && r.ProductTypeValueID == productTypeValueID {
			return r, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeRules) Save(_ context.Context, rule *catalog.ProductPropertiesRule) error {
	f.s.rules = append(f.s.rules, rule)
	return nil
}

type fakePrices struct{ s *memStore }

func (f *fakePrices) FindByProductAndCurrency(_ context.Context, tenantID, productID uuid.UUID, currencyCode string) (*catalog.SalesPrice, error) {
	for _, p := range f.s.prices {
		if p.TenantID == tenantID && p.ProductID == productID && p.CurrencyCode == currencyCode {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakePrices) FindByProduct(_ context.Context, tenantID, productID uuid.UUID) ([]catalog.SalesPrice, error) {
	var out []catalog.SalesPrice
	for _, p := range f.s.prices {
		if p.TenantID == tenantID && p.ProductID == productID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePrices) Save(_ context.Context, price *catalog.SalesPrice) error {
	f.s.prices = append(f.s.prices, price)
	return nil
}

type fakeMedia struct{ s *memStore }

func (f *fakeMedia) FindByID(_ context.Context, tenantID, id uuid.UUID) (*catalog.Media, error) {
	for _, m := range f.s.media {
		if m.TenantID == tenantID && m.ID == id {
			return m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeMedia) FindBySourceURL(_ context.Context, tenantID uuid.UUID, sourceURL string) (*catalog.Media, error) {
	for _, m := range f.s.media {
		if m.TenantID == tenantID && m.SourceURL == sourceURL {
			return m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeMedia) Save(_ context.Context, media *catalog.Media) error {
	f.s.media = append(f.s.media, media)
	return nil
}

func (f *fakeMedia) FindAssignment(_ context.Context, tenantID, mediaID, productID uuid.UUID, channelID *uuid.UUID) (*catalog.MediaProductThrough, error) {
	for _, a := range f.s.mediaAssign {
		if a.TenantID == tenantID && a.MediaID == mediaID && a.ProductID == productID {
			return a, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeMedia) FindAssignmentsByProduct(_ context.Context, tenantID, productID uuid.UUID) ([]catalog.MediaProductThrough, error) {
	var out []catalog.MediaProductThrough
	for _, a := range f.s.mediaAssign {
		if a.TenantID == tenantID && a.ProductID == productID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeMedia) SaveAssignment(_ context.Context, through *catalog.MediaProductThrough) error {
	f.s.mediaAssign = append(f.s.mediaAssign, through)
	return nil
}

func (f *fakeMedia) DeleteAssignment(_ context.Context, id uuid.UUID) error {
	for i, a := range f.s.mediaAssign {
		if a.ID == id {
			f.s.mediaAssign = append(f.s.mediaAssign[:i], f.s.mediaAssign[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

type fakeMirrors struct{ s *memStore }

func (f *fakeMirrors) FindByID(_ context.Context, id uuid.UUID) (*integration.RemoteProduct, error) {
	for _, m := range f.s.mirrors {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeMirrors) FindByLocalProduct(_ context.Context, tenantID, channelID, localProductID uuid.UUID) (*integration.RemoteProduct, error) {
	for _, m := range f.s.mirrors {
		if m.TenantID == tenantID && m.SalesChannelID == channelID && m.LocalProductID == localProductID {
			return m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeMirrors) FindByRemoteID(_ context.Context, tenantID, channelID uuid.UUID, remoteID string) (*integration.RemoteProduct, error) {
	for _, m := range f.s.mirrors {
		if m.TenantID == tenantID && m.SalesChannelID == channelID && m.RemoteID == remoteID {
			return m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeMirrors) FindVariations(_ context.Context, tenantID, remoteParentID uuid.UUID) ([]integration.RemoteProduct, error) {
	var out []integration.RemoteProduct
	for _, m := range f.s.mirrors {
		if m.TenantID == tenantID && m.RemoteParentID != nil && *m.RemoteParentID == remoteParentID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMirrors) Save(_ context.Context, rp *integration.RemoteProduct) error {
	for i, m := range f.s.mirrors {
		if m.ID == rp.ID {
			f.s.mirrors[i] = rp
			return nil
		}
	}
	f.s.mirrors = append(f.s.mirrors, rp)
	return nil
}

func (f *fakeMirrors) Delete(_ context.Context, id uuid.UUID) error {
	for i, m := range f.s.mirrors {
		if m.ID == id {
			f.s.mirrors = append(f.s.mirrors[:i], f.s.mirrors[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

type fakeChildren struct{ s *memStore }

func (f *fakeChildren) FindPropertiesByRemoteProduct(_ context.Context, tenantID, remoteProductID uuid.UUID) ([]integration.RemoteProperty, error) {
	var out []integration.RemoteProperty
	for _, p := range f.s.remoteProps {
		if p.TenantID == tenantID && p.RemoteProductID == remoteProductID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeChildren) SaveProperty(_ context.Context, rp *integration.RemoteProperty) error {
	for i, p := range f.s.remoteProps {
		if p.ID == rp.ID {
			f.s.remoteProps[i] = rp
			return nil
		}
	}
	f.s.remoteProps = append(f.s.remoteProps, rp)
	return nil
}

func (f *fakeChildren) DeleteProperty(_ context.Context, id uuid.UUID) error {
	for i, p := range f.s.remoteProps {
		if p.ID == id {
			f.s.remoteProps = append(f.s.remoteProps[:i], f.s.remoteProps[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

func (f *fakeChildren) FindImagesByRemoteProduct(_ context.Context, tenantID, remoteProductID uuid.UUID) ([]integration.RemoteImageAssociation, error) {
	var out []integration.RemoteImageAssociation
	for _, img := range f.s.remoteImgs {
		if img.TenantID == tenantID && img.RemoteProductID == remoteProductID {
			out = append(out, *img)
		}
	}
	return out, nil
}

func (f *fakeChildren) SaveImage(_ context.Context, ria *integration.RemoteImageAssociation) error {
	for i, img := range f.s.remoteImgs {
		if img.ID == ria.ID {
			f.s.remoteImgs[i] = ria
			return nil
		}
	}
	f.s.remoteImgs = append(f.s.remoteImgs, ria)
	return nil
}

func (f *fakeChildren) DeleteImage(_ context.Context, id uuid.UUID) error {
	for i, img := range f.s.remoteImgs {
		if img.ID == id {
			f.s.remoteImgs = append(f.s.remoteImgs[:i], f.s.remoteImgs[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

type fakeLogs struct{ s *memStore }

func (f *fakeLogs) Append(_ context.Context, log *integration.RemoteLog) error {
	f.s.logs = append(f.s.logs, log)
	return nil
}

func (f *fakeLogs) FindByRemoteProduct(_ context.Context, tenantID, remoteProductID uuid.UUID) ([]integration.RemoteLog, error) {
	var out []integration.RemoteLog
	for _, l := range f.s.logs {
		if l.TenantID == tenantID && l.RemoteProductID != nil && *l.RemoteProductID == remoteProductID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeLogs) FindByChannel(_ context.Context, tenantID, channelID uuid.UUID, limit int) ([]integration.RemoteLog, error) {
	var out []integration.RemoteLog
	for _, l := range f.s.logs {
		if l.TenantID == tenantID && l.SalesChannelID == channelID {
			out = append(out, *l)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}
