package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/catalog"
	"github.com/pim/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// viewStore is the shared backing state of the in-memory repository fakes
type viewStore struct {
	products     []*catalog.Product
	translations []*catalog.ProductTranslation
	eans         []*catalog.EanCode
	prices       []catalog.SalesPrice
	media        []*catalog.Media
	mediaAssign  []catalog.MediaProductThrough
	properties   []*catalog.Property
	selectValues []*catalog.PropertySelectValue
	assignments  []catalog.ProductProperty
	confEdges    []catalog.ConfigurableVariation
}

func newTestProductService() (*ProductService, *viewStore) {
	store := &viewStore{}
	svc := NewProductService(
		&viewProducts{store},
		&viewTranslations{store},
		&viewEans{store},
		&viewVariations{store},
		&viewProperties{store},
		&viewAssignments{store},
		&viewPrices{store},
		&viewMedia{store},
		zap.NewNop(),
	)
	return svc, store
}

type viewProducts struct{ s *viewStore }

func (f *viewProducts) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	for _, p := range f.s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *viewProducts) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	for _, p := range f.s.products {
		if p.TenantID == tenantID && p.ID == id {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *viewProducts) FindBySKU(_ context.Context, tenantID uuid.UUID, sku string) (*catalog.Product, error) {
	for _, p := range f.s.products {
		if p.TenantID == tenantID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *viewProducts) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range f.s.products {
		if p.TenantID == tenantID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *viewProducts) FindByIDs(_ context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
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

func (f *viewProducts) ExistsBySKU(_ context.Context, tenantID uuid.UUID, sku string) (bool, error) {
	for _, p := range f.s.products {
		if p.TenantID == tenantID && p.SKU == sku {
			return true, nil
		}
	}
	return false, nil
}

func (f *viewProducts) Save(_ context.Context, product *catalog.Product) error {
	for i, p := range f.s.products {
		if p.ID == product.ID {
			f.s.products[i] = product
			return nil
		}
	}
	f.s.products = append(f.s.products, product)
	return nil
}

func (f *viewProducts) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	for i, p := range f.s.products {
		if p.TenantID == tenantID && p.ID == id {
			f.s.products = append(f.s.products[:i], f.s.products[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

func (f *viewProducts) CountForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	var n int64
	for _, p := range f.s.products {
		if p.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

type viewTranslations struct{ s *viewStore }

func (f *viewTranslations) FindByProduct(_ context.Context, tenantID, productID uuid.UUID) ([]catalog.ProductTranslation, error) {
	var out []catalog.ProductTranslation
	for _, tr := range f.s.translations {
		if tr.TenantID == tenantID && tr.ProductID == productID {
			out = append(out, *tr)
		}
	}
	return out, nil
}

func (f *viewTranslations) FindByProductAndLanguage(_ context.Context, tenantID, productID uuid.UUID, lang string) (*catalog.ProductTranslation, error) {
	for _, tr := range f.s.translations {
		if tr.TenantID == tenantID && tr.ProductID == productID && tr.Language == lang {
			return tr, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *viewTranslations) Save(_ context.Context, translation *catalog.ProductTranslation) error {
	f.s.translations = append(f.s.translations, translation)
	return nil
}

func (f *viewTranslations) SaveBatch(ctx context.Context, translations []*catalog.ProductTranslation) error {
	for _, tr := range translations {
		if err := f.Save(ctx, tr); err != nil {
			return err
		}
	}
	return nil
}

func (f *viewTranslations) Delete(_ context.Context, _ uuid.UUID) error { return nil }

type viewEans struct{ s *viewStore }

func (f *viewEans) FindByProduct(_ context.Context, tenantID, productID uuid.UUID) (*catalog.EanCode, error) {
	for _, e := range f.s.eans {
		if e.TenantID == tenantID && e.ProductID != nil && *e.ProductID == productID {
			return e, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *viewEans) FindByCode(_ context.Context, tenantID uuid.UUID, code string) (*catalog.EanCode, error) {
	for _, e := range f.s.eans {
		if e.TenantID == tenantID && e.Code == code {
			return e, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *viewEans) Save(_ context.Context, ean *catalog.EanCode) error {
	f.s.eans = append(f.s.eans, ean)
	return nil
}

type viewVariations struct{ s *viewStore }

func (f *viewVariations) FindConfigurable(_ context.Context, tenantID, parentID, variationID uuid.UUID) (*catalog.ConfigurableVariation, error) {
	for i := range f.s.confEdges {
		e := &f.s.confEdges[i]
		if e.TenantID == tenantID && e.ParentID == parentID && e.VariationID == variationID {
			return e, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *viewVariations) FindVariationsOf(_ context.Context, tenantID, parentID uuid.UUID) ([]catalog.ConfigurableVariation, error) {
	var out []catalog.ConfigurableVariation
	for _, e := range f.s.confEdges {
		if e.TenantID == tenantID && e.ParentID == parentID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *viewVariations) SaveConfigurable(_ context.Context, edge *catalog.ConfigurableVariation) error {
	f.s.confEdges = append(f.s.confEdges, *edge)
	return nil
}

func (f *viewVariations) DeleteConfigurable(_ context.Context, _ uuid.UUID) error { return nil }

func (f *viewVariations) FindBundle(_ context.Context, _, _, _ uuid.UUID) (*catalog.BundleVariation, error) {
	return nil, shared.ErrNotFound
}

func (f *viewVariations) FindChildrenOf(_ context.Context, _, _ uuid.UUID) ([]catalog.BundleVariation, error) {
	return nil, nil
}

func (f *viewVariations) SaveBundle(_ context.Context, _ *catalog.BundleVariation) error { return nil }

type viewProperties struct{ s *viewStore }

func (f *viewProperties) FindByID(_ context.Context, tenantID, id uuid.UUID) (*catalog.Property, error) {
	for _, p := range f.s.properties {
		if p.TenantID == tenantID && p.ID == id {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *viewProperties) FindByName(_ context.Context, tenantID uuid.UUID, name string) (*catalog.Property, error) {
	for _, p := range f.s.properties {
		if p.TenantID == tenantID && p.Name == name {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *viewProperties) FindProductTypeProperty(_ context.Context, _ uuid.UUID) (*catalog.Property, error) {
	return nil, shared.ErrNotFound
}

func (f *viewProperties) Save(_ context.Context, property *catalog.Property) error {
	f.s.properties = append(f.s.properties, property)
	return nil
}

func (f *viewProperties) FindSelectValue(_ context.Context, tenantID, propertyID uuid.UUID, value string) (*catalog.PropertySelectValue, error) {
	for _, sv := range f.s.selectValues {
		if sv.TenantID == tenantID && sv.PropertyID == propertyID && sv.Value == value {
			return sv, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *viewProperties) FindSelectValueByID(_ context.Context, tenantID, id uuid.UUID) (*catalog.PropertySelectValue, error) {
	for _, sv := range f.s.selectValues {
		if sv.TenantID == tenantID && sv.ID == id {
			return sv, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *viewProperties) SaveSelectValue(_ context.Context, value *catalog.PropertySelectValue) error {
	f.s.selectValues = append(f.s.selectValues, value)
	return nil
}

type viewAssignments struct{ s *viewStore }

func (f *viewAssignments) FindByProduct(_ context.Context, tenantID, productID uuid.UUID) ([]catalog.ProductProperty, error) {
	var out []catalog.ProductProperty
	for _, a := range f.s.assignments {
		if a.TenantID == tenantID && a.ProductID == productID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *viewAssignments) FindByProductAndProperty(_ context.Context, tenantID, productID, propertyID uuid.UUID) (*catalog.ProductProperty, error) {
	for i := range f.s.assignments {
		a := &f.s.assignments[i]
		if a.TenantID == tenantID && a.ProductID == productID && a.PropertyID == propertyID {
			return a, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *viewAssignments) Save(_ context.Context, assignment *catalog.ProductProperty) error {
	f.s.assignments = append(f.s.assignments, *assignment)
	return nil
}

func (f *viewAssignments) Delete(_ context.Context, _ uuid.UUID) error { return nil }

type viewPrices struct{ s *viewStore }

func (f *viewPrices) FindByProductAndCurrency(_ context.Context, tenantID, productID uuid.UUID, currencyCode string) (*catalog.SalesPrice, error) {
	for i := range f.s.prices {
		p := &f.s.prices[i]
		if p.TenantID == tenantID && p.ProductID == productID && p.CurrencyCode == currencyCode {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *viewPrices) FindByProduct(_ context.Context, tenantID, productID uuid.UUID) ([]catalog.SalesPrice, error) {
	var out []catalog.SalesPrice
	for _, p := range f.s.prices {
		if p.TenantID == tenantID && p.ProductID == productID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *viewPrices) Save(_ context.Context, price *catalog.SalesPrice) error {
	f.s.prices = append(f.s.prices, *price)
	return nil
}

type viewMedia struct{ s *viewStore }

func (f *viewMedia) FindByID(_ context.Context, tenantID, id uuid.UUID) (*catalog.Media, error) {
	for _, m := range f.s.media {
		if m.TenantID == tenantID && m.ID == id {
			return m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *viewMedia) FindBySourceURL(_ context.Context, tenantID uuid.UUID, sourceURL string) (*catalog.Media, error) {
	for _, m := range f.s.media {
		if m.TenantID == tenantID && m.SourceURL == sourceURL {
			return m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *viewMedia) Save(_ context.Context, media *catalog.Media) error {
	f.s.media = append(f.s.media, media)
	return nil
}

func (f *viewMedia) FindAssignment(_ context.Context, _, _, _ uuid.UUID, _ *uuid.UUID) (*catalog.MediaProductThrough, error) {
	return nil, shared.ErrNotFound
}

func (f *viewMedia) FindAssignmentsByProduct(_ context.Context, tenantID, productID uuid.UUID) ([]catalog.MediaProductThrough, error) {
	var out []catalog.MediaProductThrough
	for _, a := range f.s.mediaAssign {
		if a.TenantID == tenantID && a.ProductID == productID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *viewMedia) SaveAssignment(_ context.Context, through *catalog.MediaProductThrough) error {
	f.s.mediaAssign = append(f.s.mediaAssign, *through)
	return nil
}

func (f *viewMedia) DeleteAssignment(_ context.Context, _ uuid.UUID) error { return nil }
