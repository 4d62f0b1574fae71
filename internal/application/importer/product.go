package importer

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/catalog"
	"github.com/pim/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// MirrorHook links the imported product to a remote mirror row. Channel
// processors install one through PrepareMirror; local-only imports never
// set it.
type MirrorHook func(ctx context.Context, product *catalog.Product, created bool) error

// ProductImport is the import instance for one product payload. It composes
// nearly every other import instance during post-processing.
type ProductImport struct {
	imp   *Importer
	scope Scope
	data  ProductData

	// Instance and Created are populated by Process
	Instance *catalog.Product
	Created  bool

	sku          string
	productType  catalog.ProductType
	vatRateID    *uuid.UUID
	rule         *catalog.ProductPropertiesRule
	translations []TranslationData
	mirrorHook   MirrorHook
}

// WithInstance puts the import into update-only mode: creation is skipped
// and the payload is applied onto the given product.
func (i *ProductImport) WithInstance(product *catalog.Product) *ProductImport {
	i.Instance = product
	return i
}

// PrepareMirror installs the mirror linkage hook, called between the main
// product write and post-processing
func (i *ProductImport) PrepareMirror(hook MirrorHook) {
	i.mirrorHook = hook
}

// Rule returns the properties rule resolved for this import, if any
func (i *ProductImport) Rule() *catalog.ProductPropertiesRule {
	return i.rule
}

// Process runs the full import lifecycle. Calling it twice with the same
// payload yields the same product and creates no duplicate rows.
func (i *ProductImport) Process(ctx context.Context) error {
	if err := i.validate(); err != nil {
		return err
	}
	if err := i.preProcess(ctx); err != nil {
		return err
	}
	if err := i.processLogic(ctx); err != nil {
		return err
	}
	if i.mirrorHook != nil {
		if err := i.mirrorHook(ctx, i.Instance, i.Created); err != nil {
			return err
		}
	}
	if err := i.postProcess(ctx); err != nil {
		return err
	}
	i.imp.publish(ctx, i.Instance)
	return nil
}

func (i *ProductImport) validate() error {
	if i.data.Name == "" {
		return shared.NewValidationError("name", "Product name is required")
	}
	i.productType = catalog.ProductTypeSimple
	if raw, ok := i.data.Type.Get(); ok {
		t := catalog.ProductType(raw)
		// BUNDLE and ALIAS carry extra mandatory linkage and are reached
		// through their dedicated import instances only.
		if t != catalog.ProductTypeSimple && t != catalog.ProductTypeConfigurable {
			return shared.NewValidationError("type", "Product type must be SIMPLE or CONFIGURABLE, got "+raw)
		}
		i.productType = t
	}
	return nil
}

func (i *ProductImport) preProcess(ctx context.Context) error {
	switch {
	case i.data.SKU.HasValue():
		i.sku = i.data.SKU.MustGet()
	case i.Instance != nil:
		i.sku = i.Instance.SKU
	default:
		i.sku = catalog.GenerateSKU()
	}

	if rate, ok := i.data.VatRate.Get(); ok {
		vatRate, err := i.resolveVatRate(ctx, int(rate))
		if err != nil {
			return err
		}
		i.vatRateID = &vatRate.ID
	}

	if err := i.resolveRule(ctx); err != nil {
		return err
	}

	i.translations = i.data.Translations
	if len(i.translations) == 0 {
		i.translations = []TranslationData{{Name: i.data.Name, Language: shared.Some(i.scope.Language)}}
	}
	return nil
}

func (i *ProductImport) resolveVatRate(ctx context.Context, rate int) (*catalog.VatRate, error) {
	existing, err := i.imp.repos.VatRates.FindByRate(ctx, i.scope.TenantID, rate)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	vatRate, err := catalog.NewVatRate(i.scope.TenantID, rate)
	if err != nil {
		return nil, err
	}
	if err := i.imp.repos.VatRates.Save(ctx, vatRate); err != nil {
		return nil, err
	}
	return vatRate, nil
}

// resolveRule either loads the rule passed by id, or builds one on the fly
// from the product_type anchor plus the attribute list. Without a
// product_type key the import runs rule-less.
func (i *ProductImport) resolveRule(ctx context.Context) error {
	if ruleID, ok := i.data.RuleID.Get(); ok {
		rule, err := i.imp.repos.Rules.FindByID(ctx, i.scope.TenantID, ruleID)
		if err != nil {
			return err
		}
		i.rule = rule
		return nil
	}

	productType, ok := i.data.ProductType.Get()
	if !ok || productType == "" {
		return nil
	}

	anchor, err := i.ensureProductTypeProperty(ctx)
	if err != nil {
		return err
	}
	typeValue, err := i.ensureSelectValue(ctx, anchor.ID, productType)
	if err != nil {
		return err
	}

	rule, err := i.imp.repos.Rules.FindByProductType(ctx, i.scope.TenantID, typeValue.ID)
	if errors.Is(err, shared.ErrNotFound) {
		rule, err = catalog.NewProductPropertiesRule(i.scope.TenantID, typeValue.ID)
	}
	if err != nil {
		return err
	}

	// Attributes named among the configurator select values become the
	// variation axes; everything else is optional.
	axes := make(map[string]bool, len(i.data.ConfiguratorSelectValues))
	for _, cv := range i.data.ConfiguratorSelectValues {
		axes[catalog.InternalPropertyName(cv.Property.Name)] = true
	}
	for order, attr := range i.data.Attributes {
		name := attributePropertyName(attr)
		if name == "" {
			continue
		}
		property, err := i.imp.ensureProperty(ctx, i.scope, name, attributePropertyType(attr))
		if err != nil {
			return err
		}
		requirement := catalog.RequirementOptional
		if axes[property.InternalName] {
			requirement = catalog.RequirementRequiredInConfigurator
		}
		if err := rule.AddItem(property.ID, requirement, order); err != nil {
			return err
		}
	}
	if err := i.imp.repos.Rules.Save(ctx, rule); err != nil {
		return err
	}
	i.rule = rule
	return nil
}

func (i *ProductImport) ensureProductTypeProperty(ctx context.Context) (*catalog.Property, error) {
	anchor, err := i.imp.repos.Properties.FindProductTypeProperty(ctx, i.scope.TenantID)
	if err == nil {
		return anchor, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	anchor = catalog.NewProductTypeProperty(i.scope.TenantID)
	if err := i.imp.repos.Properties.Save(ctx, anchor); err != nil {
		return nil, err
	}
	return anchor, nil
}

func (i *ProductImport) ensureSelectValue(ctx context.Context, propertyID uuid.UUID, value string) (*catalog.PropertySelectValue, error) {
	existing, err := i.imp.repos.Properties.FindSelectValue(ctx, i.scope.TenantID, propertyID, value)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	sv, err := catalog.NewPropertySelectValue(i.scope.TenantID, propertyID, value)
	if err != nil {
		return nil, err
	}
	if err := i.imp.repos.Properties.SaveSelectValue(ctx, sv); err != nil {
		return nil, err
	}
	return sv, nil
}

func (i *ProductImport) processLogic(ctx context.Context) error {
	// An injected instance short-circuits creation entirely
	if i.Instance != nil {
		changed, err := i.applyUpdatableFields(i.Instance)
		if err != nil {
			return err
		}
		if changed {
			return i.imp.repos.Products.Save(ctx, i.Instance)
		}
		return nil
	}

	op := Operation[catalog.Product]{
		AllowEdit: true,
		Lookup: func(ctx context.Context) (*catalog.Product, error) {
			return i.imp.repos.Products.FindBySKU(ctx, i.scope.TenantID, i.sku)
		},
		Create: func(ctx context.Context) (*catalog.Product, error) {
			product, err := catalog.NewProduct(i.scope.TenantID, i.sku, i.productType)
			if err != nil {
				return nil, err
			}
			if v, ok := i.data.Active.Get(); ok {
				product.SetActive(v)
			}
			if v, ok := i.data.AllowBackorder.Get(); ok {
				product.SetAllowBackorder(v)
			}
			if i.vatRateID != nil {
				product.SetVatRate(i.vatRateID)
			}
			if err := i.imp.repos.Products.Save(ctx, product); err != nil {
				return nil, err
			}
			return product, nil
		},
		Apply: i.applyUpdatableFields,
		Save: func(ctx context.Context, product *catalog.Product) error {
			return i.imp.repos.Products.Save(ctx, product)
		},
	}

	instance, created, err := op.Run(ctx)
	if err != nil {
		return err
	}
	i.Instance = instance
	i.Created = created
	return nil
}

// applyUpdatableFields diffs the payload onto an existing product. Only
// active, allow_backorder and vat_rate are mutable through this path; name,
// sku and type are fixed once created.
func (i *ProductImport) applyUpdatableFields(product *catalog.Product) (bool, error) {
	changed := false
	if v, ok := i.data.Active.Get(); ok && product.Active != v {
		product.SetActive(v)
		changed = true
	}
	if v, ok := i.data.AllowBackorder.Get(); ok && product.AllowBackorder != v {
		product.SetAllowBackorder(v)
		changed = true
	}
	if i.vatRateID != nil && (product.VatRateID == nil || *product.VatRateID != *i.vatRateID) {
		product.SetVatRate(i.vatRateID)
		changed = true
	}
	return changed, nil
}

func (i *ProductImport) postProcess(ctx context.Context) error {
	if i.Instance.IsSimple() && i.data.EanCode.HasValue() {
		if err := i.reconcileEanCode(ctx); err != nil {
			return err
		}
	}

	if i.Created {
		if err := i.createTranslations(ctx); err != nil {
			return err
		}
	} else {
		if err := i.updateTranslations(ctx); err != nil {
			return err
		}
	}

	if i.rule != nil {
		if err := i.assignProductTypeProperty(ctx); err != nil {
			return err
		}
	}
	if i.Instance.IsSimple() {
		for _, attr := range i.data.Attributes {
			if err := i.imp.Attribute(i.scope, i.Instance.ID, attr).Process(ctx); err != nil {
				return err
			}
		}
	}

	for _, img := range i.data.Images {
		if err := i.imp.Image(i.scope, i.Instance.ID, img).Process(ctx); err != nil {
			return err
		}
	}

	for _, price := range i.data.Prices {
		priceImport := i.imp.SalesPrice(i.scope, i.Instance.ID, price)
		if err := priceImport.Process(ctx); err != nil {
			return err
		}
		if priceImport.Skipped {
			i.imp.log.Debug("skipped zero price", zap.String("sku", i.Instance.SKU))
		}
	}

	if i.Instance.IsConfigurable() {
		if err := i.processVariations(ctx); err != nil {
			return err
		}
	}
	return nil
}

// reconcileEanCode creates the product's EAN row or repoints it when the
// supplied code differs. Repointed codes are marked used and external.
func (i *ProductImport) reconcileEanCode(ctx context.Context) error {
	code := i.data.EanCode.MustGet()
	existing, err := i.imp.repos.EanCodes.FindByProduct(ctx, i.scope.TenantID, i.Instance.ID)
	if errors.Is(err, shared.ErrNotFound) {
		ean, err := catalog.NewEanCode(i.scope.TenantID, code, i.Instance.ID)
		if err != nil {
			return err
		}
		return i.imp.repos.EanCodes.Save(ctx, ean)
	}
	if err != nil {
		return err
	}
	if existing.Code == code {
		return nil
	}
	if err := existing.Reassign(code, i.Instance.ID); err != nil {
		return err
	}
	return i.imp.repos.EanCodes.Save(ctx, existing)
}

func (i *ProductImport) createTranslations(ctx context.Context) error {
	for _, tr := range i.translations {
		translation, err := i.buildTranslation(tr)
		if err != nil {
			return err
		}
		if err := i.saveTranslationWithRetry(ctx, translation); err != nil {
			return err
		}
	}
	return nil
}

func (i *ProductImport) updateTranslations(ctx context.Context) error {
	for _, tr := range i.translations {
		lang, err := catalog.NormalizeLanguage(tr.Language.Or(i.scope.Language))
		if err != nil {
			return err
		}
		existing, err := i.imp.repos.Translations.FindByProductAndLanguage(ctx, i.scope.TenantID, i.Instance.ID, lang)
		if errors.Is(err, shared.ErrNotFound) {
			translation, err := i.buildTranslation(tr)
			if err != nil {
				return err
			}
			if err := i.saveTranslationWithRetry(ctx, translation); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}

		if tr.Name != "" {
			if err := existing.SetName(tr.Name); err != nil {
				return err
			}
		}
		if tr.ShortDescription.Present() || tr.Description.Present() {
			existing.SetContent(tr.ShortDescription.Or(existing.ShortDescription), tr.Description.Or(existing.Description))
		}
		if tr.URLKey.Present() {
			existing.SetURLKey(tr.URLKey.Or(""))
		}
		if err := i.saveTranslationWithRetry(ctx, existing); err != nil {
			return err
		}
	}
	return nil
}

func (i *ProductImport) buildTranslation(tr TranslationData) (*catalog.ProductTranslation, error) {
	name := tr.Name
	if name == "" {
		name = i.data.Name
	}
	translation, err := catalog.NewProductTranslation(i.scope.TenantID, i.Instance.ID, tr.Language.Or(i.scope.Language), name)
	if err != nil {
		return nil, err
	}
	if tr.ShortDescription.Present() || tr.Description.Present() {
		translation.SetContent(tr.ShortDescription.Or(""), tr.Description.Or(""))
	}
	if urlKey, ok := tr.URLKey.Get(); ok {
		translation.SetURLKey(urlKey)
	} else {
		translation.GenerateURLKey()
	}
	return translation, nil
}

// saveTranslationWithRetry retries a url_key collision exactly once with the
// slug cleared. Any other error propagates.
func (i *ProductImport) saveTranslationWithRetry(ctx context.Context, translation *catalog.ProductTranslation) error {
	err := i.imp.repos.Translations.Save(ctx, translation)
	if err == nil || !errors.Is(err, catalog.ErrURLKeyConflict) {
		return err
	}
	i.imp.log.Info("url_key collision, retrying without slug",
		zap.String("language", translation.Language),
		zap.String("product_id", translation.ProductID.String()))
	translation.ClearURLKey()
	return i.imp.repos.Translations.Save(ctx, translation)
}

func (i *ProductImport) assignProductTypeProperty(ctx context.Context) error {
	anchor, err := i.ensureProductTypeProperty(ctx)
	if err != nil {
		return err
	}
	assignment, err := i.imp.repos.Assignments.FindByProductAndProperty(ctx, i.scope.TenantID, i.Instance.ID, anchor.ID)
	if errors.Is(err, shared.ErrNotFound) {
		assignment = catalog.NewProductProperty(i.scope.TenantID, i.Instance.ID, anchor.ID)
	} else if err != nil {
		return err
	}
	assignment.SetSelectValue(i.rule.ProductTypeValueID)
	return i.imp.repos.Assignments.Save(ctx, assignment)
}

func (i *ProductImport) processVariations(ctx context.Context) error {
	if len(i.data.ConfiguratorSelectValues) > 0 {
		if i.rule == nil {
			return shared.NewDomainError("RULE_MISSING", "Configurator variations require a properties rule")
		}
		gen := i.imp.ConfiguratorVariations(i.scope, i.Instance, i.rule, i.data.ConfiguratorSelectValues)
		if err := gen.Process(ctx); err != nil {
			return err
		}
	}

	for _, ref := range i.data.Variations {
		var variationID uuid.UUID
		switch {
		case ref.Data != nil:
			child := i.imp.Product(i.scope, *ref.Data)
			if err := child.Process(ctx); err != nil {
				return err
			}
			variationID = child.Instance.ID
		case ref.SKU.HasValue():
			product, err := i.imp.repos.Products.FindBySKU(ctx, i.scope.TenantID, ref.SKU.MustGet())
			if err != nil {
				return err
			}
			variationID = product.ID
		default:
			return shared.NewValidationError("variations", "Variation entry needs variation_data or sku")
		}
		if err := i.imp.ConfigurableVariation(i.scope, i.Instance.ID, variationID).Process(ctx); err != nil {
			return err
		}
	}
	return nil
}

func attributePropertyName(attr AttributeData) string {
	if pd, ok := attr.Property.Get(); ok {
		return pd.Name
	}
	return attr.PropertyName.Or("")
}

func attributePropertyType(attr AttributeData) catalog.PropertyType {
	if pd, ok := attr.Property.Get(); ok && pd.Type != "" {
		return pd.Type
	}
	return catalog.PropertyTypeText
}
