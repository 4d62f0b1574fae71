package importer

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/catalog"
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
	priceLists   []*catalog.SalesPriceList
	listItems    []*catalog.SalesPriceListItem
	currencies   []*catalog.Currency
	public       map[string]*catalog.PublicCurrency
	vatRates     []*catalog.VatRate
	media        []*catalog.Media
	mediaAssign  []*catalog.MediaProductThrough
	confEdges    []*catalog.ConfigurableVariation
	bundleEdges  []*catalog.BundleVariation
}

func newMemStore() *memStore {
	return &memStore{
		public: map[string]*catalog.PublicCurrency{
			"EUR": {ISOCode: "EUR", Name: "Euro", Symbol: "€"},
			"USD": {ISOCode: "USD", Name: "US Dollar", Symbol: "$"},
			"GBP": {ISOCode: "GBP", Name: "Pound Sterling", Symbol: "£"},
		},
	}
}

func newTestImporter() (*Importer, *memStore) {
	store := newMemStore()
	repos := Repositories{
		Products:     &fakeProducts{store},
		Translations: &fakeTranslations{store},
		EanCodes:     &fakeEans{store},
		Variations:   &fakeVariations{store},
		Properties:   &fakeProperties{store},
		Assignments:  &fakeAssignments{store},
		Rules:        &fakeRules{store},
		Prices:       &fakePrices{store},
		PriceLists:   &fakePriceLists{store},
		Currencies:   &fakeCurrencies{store},
		VatRates:     &fakeVatRates{store},
		Media:        &fakeMedia{store},
	}
	return NewImporter(repos, nil, zap.NewNop()), store
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
		if p.TenantID == tenantID && strings.EqualFold(p.SKU, sku) {
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
	if err != nil {
		return false, nil
	}
	return true, nil
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

// Save enforces the partial unique index on url_key the way the SQL schema
// does, returning catalog.ErrURLKeyConflict on a collision
func (f *fakeTranslations) Save(_ context.Context, translation *catalog.ProductTranslation) error {
	if translation.URLKey != nil {
		for _, t := range f.s.translations {
			if t.ID != translation.ID && t.URLKey != nil && *t.URLKey == *translation.URLKey {
				return catalog.ErrURLKeyConflict
			}
		}
	}
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
	for i, e := range f.s.eans {
		if e.ID == ean.ID {
			f.s.eans[i] = ean
			return nil
		}
	}
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
	for i, e := range f.s.confEdges {
		if e.ID == edge.ID {
			f.s.confEdges[i] = edge
			return nil
		}
	}
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
	for i, e := range f.s.bundleEdges {
		if e.ID == edge.ID {
			f.s.bundleEdges[i] = edge
			return nil
		}
	}
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
	for i, p := range f.s.properties {
		if p.ID == property.ID {
			f.s.properties[i] = property
			return nil
		}
	}
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
	for i, sv := range f.s.selectValues {
		if sv.ID == value.ID {
			f.s.selectValues[i] = value
			return nil
		}
	}
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
	for i, r := range f.s.rules {
		if r.ID == rule.ID {
			f.s.rules[i] = rule
			return nil
		}
	}
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
	for i, p := range f.s.prices {
		if p.ID == price.ID {
			f.s.prices[i] = price
			return nil
		}
	}
	f.s.prices = append(f.s.prices, price)
	return nil
}

type fakePriceLists struct{ s *memStore }

func (f *fakePriceLists) FindByID(_ context.Context, tenantID, id uuid.UUID) (*catalog.SalesPriceList, error) {
	for _, l := range f.s.priceLists {
		if l.TenantID == tenantID && l.ID == id {
			return l, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakePriceLists) FindByIdentity(_ context.Context, tenantID uuid.UUID, name, currencyCode string, startDate, endDate *time.Time) (*catalog.SalesPriceList, error) {
	for _, l := range f.s.priceLists {
		if l.TenantID == tenantID && l.Name == name && l.CurrencyCode == currencyCode &&
			sameDate(l.StartDate, startDate) && sameDate(l.EndDate, endDate) {
			return l, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakePriceLists) FindByCurrency(_ context.Context, tenantID uuid.UUID, currencyCode string) ([]catalog.SalesPriceList, error) {
	var out []catalog.SalesPriceList
	for _, l := range f.s.priceLists {
		if l.TenantID == tenantID && l.CurrencyCode == currencyCode {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakePriceLists) Save(_ context.Context, list *catalog.SalesPriceList) error {
	for i, l := range f.s.priceLists {
		if l.ID == list.ID {
			f.s.priceLists[i] = list
			return nil
		}
	}
	f.s.priceLists = append(f.s.priceLists, list)
	return nil
}

func (f *fakePriceLists) FindItem(_ context.Context, tenantID, listID, productID uuid.UUID) (*catalog.SalesPriceListItem, error) {
	for _, i := range f.s.listItems {
		if i.TenantID == tenantID && i.PriceListID == listID && i.ProductID == productID {
			return i, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakePriceLists) SaveItem(_ context.Context, item *catalog.SalesPriceListItem) error {
	for i, it := range f.s.listItems {
		if it.ID == item.ID {
			f.s.listItems[i] = item
			return nil
		}
	}
	f.s.listItems = append(f.s.listItems, item)
	return nil
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

type fakeCurrencies struct{ s *memStore }

func (f *fakeCurrencies) FindByISOCode(_ context.Context, tenantID uuid.UUID, isoCode string) (*catalog.Currency, error) {
	for _, c := range f.s.currencies {
		if c.TenantID == tenantID && c.ISOCode == isoCode {
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeCurrencies) FindDefault(_ context.Context, tenantID uuid.UUID) (*catalog.Currency, error) {
	for _, c := range f.s.currencies {
		if c.TenantID == tenantID && c.IsDefault {
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeCurrencies) FindPublic(_ context.Context, isoCode string) (*catalog.PublicCurrency, error) {
	if c, ok := f.s.public[isoCode]; ok {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeCurrencies) Save(_ context.Context, currency *catalog.Currency) error {
	for i, c := range f.s.currencies {
		if c.ID == currency.ID {
			f.s.currencies[i] = currency
			return nil
		}
	}
	f.s.currencies = append(f.s.currencies, currency)
	return nil
}

type fakeVatRates struct{ s *memStore }

func (f *fakeVatRates) FindByRate(_ context.Context, tenantID uuid.UUID, rate int) (*catalog.VatRate, error) {
	for _, v := range f.s.vatRates {
		if v.TenantID == tenantID && v.Rate == rate {
			return v, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeVatRates) Save(_ context.Context, rate *catalog.VatRate) error {
	for i, v := range f.s.vatRates {
		if v.ID == rate.ID {
			f.s.vatRates[i] = rate
			return nil
		}
	}
	f.s.vatRates = append(f.s.vatRates, rate)
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
	for i, m := range f.s.media {
		if m.ID == media.ID {
			f.s.media[i] = media
			return nil
		}
	}
	f.s.media = append(f.s.media, media)
	return nil
}

func (f *fakeMedia) FindAssignment(_ context.Context, tenantID, mediaID, productID uuid.UUID, channelID *uuid.UUID) (*catalog.MediaProductThrough, error) {
	for _, a := range f.s.mediaAssign {
		if a.TenantID == tenantID && a.MediaID == mediaID && a.ProductID == productID && sameChannel(a.SalesChannelID, channelID) {
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
	for i, a := range f.s.mediaAssign {
		if a.ID == through.ID {
			f.s.mediaAssign[i] = through
			return nil
		}
	}
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

func sameChannel(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
