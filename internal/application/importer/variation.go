package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/catalog"
	"github.com/pim/backend/internal/domain/shared"
)

// ConfigurableVariationImport binds one SIMPLE/BUNDLE product as a variation
// of one CONFIGURABLE parent. The edge is immutable once linked; re-importing
// the same pair is a no-op.
type ConfigurableVariationImport struct {
	imp         *Importer
	scope       Scope
	parentID    uuid.UUID
	variationID uuid.UUID

	Instance *catalog.ConfigurableVariation
	Created  bool
}

// Process runs the edge import
func (v *ConfigurableVariationImport) Process(ctx context.Context) error {
	op := Operation[catalog.ConfigurableVariation]{
		// The edge is final once created
		AllowEdit: false,
		Lookup: func(ctx context.Context) (*catalog.ConfigurableVariation, error) {
			return v.imp.repos.Variations.FindConfigurable(ctx, v.scope.TenantID, v.parentID, v.variationID)
		},
		Create: func(ctx context.Context) (*catalog.ConfigurableVariation, error) {
			parent, err := v.imp.repos.Products.FindByIDForTenant(ctx, v.scope.TenantID, v.parentID)
			if err != nil {
				return nil, err
			}
			variation, err := v.imp.repos.Products.FindByIDForTenant(ctx, v.scope.TenantID, v.variationID)
			if err != nil {
				return nil, err
			}
			edge, err := catalog.NewConfigurableVariation(v.scope.TenantID, parent, variation)
			if err != nil {
				return nil, err
			}
			if err := v.imp.repos.Variations.SaveConfigurable(ctx, edge); err != nil {
				return nil, err
			}
			return edge, nil
		},
	}

	instance, created, err := op.Run(ctx)
	if err != nil {
		return err
	}
	v.Instance = instance
	v.Created = created

	// A freshly linked variation must carry the parent's product type so an
	// independently imported variation stays consistent with the parent's rule
	if created {
		return v.alignProductType(ctx)
	}
	return nil
}

func (v *ConfigurableVariationImport) alignProductType(ctx context.Context) error {
	anchor, err := v.imp.repos.Properties.FindProductTypeProperty(ctx, v.scope.TenantID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	parentAssignment, err := v.imp.repos.Assignments.FindByProductAndProperty(ctx, v.scope.TenantID, v.parentID, anchor.ID)
	if errors.Is(err, shared.ErrNotFound) || (err == nil && parentAssignment.ValueSelectID == nil) {
		return nil
	}
	if err != nil {
		return err
	}

	assignment, err := v.imp.repos.Assignments.FindByProductAndProperty(ctx, v.scope.TenantID, v.variationID, anchor.ID)
	if errors.Is(err, shared.ErrNotFound) {
		assignment = catalog.NewProductProperty(v.scope.TenantID, v.variationID, anchor.ID)
	} else if err != nil {
		return err
	}
	assignment.SetSelectValue(*parentAssignment.ValueSelectID)
	return v.imp.repos.Assignments.Save(ctx, assignment)
}

// BundleVariationImport binds a child product into a BUNDLE parent. Unlike
// the configurable edge the quantity stays editable on re-import.
type BundleVariationImport struct {
	imp      *Importer
	scope    Scope
	parentID uuid.UUID
	entry    BundleEntryData

	Instance *catalog.BundleVariation
	Created  bool
}

// Process runs the bundle edge import
func (b *BundleVariationImport) Process(ctx context.Context) error {
	child, err := b.imp.repos.Products.FindBySKU(ctx, b.scope.TenantID, b.entry.SKU)
	if err != nil {
		return err
	}

	op := Operation[catalog.BundleVariation]{
		AllowEdit: true,
		Lookup: func(ctx context.Context) (*catalog.BundleVariation, error) {
			return b.imp.repos.Variations.FindBundle(ctx, b.scope.TenantID, b.parentID, child.ID)
		},
		Create: func(ctx context.Context) (*catalog.BundleVariation, error) {
			parent, err := b.imp.repos.Products.FindByIDForTenant(ctx, b.scope.TenantID, b.parentID)
			if err != nil {
				return nil, err
			}
			edge, err := catalog.NewBundleVariation(b.scope.TenantID, parent, child, b.entry.Quantity)
			if err != nil {
				return nil, err
			}
			if err := b.imp.repos.Variations.SaveBundle(ctx, edge); err != nil {
				return nil, err
			}
			return edge, nil
		},
		Apply: func(existing *catalog.BundleVariation) (bool, error) {
			if existing.Quantity.Equal(b.entry.Quantity) {
				return false, nil
			}
			if err := existing.SetQuantity(b.entry.Quantity); err != nil {
				return false, err
			}
			return true, nil
		},
		Save: func(ctx context.Context, edge *catalog.BundleVariation) error {
			return b.imp.repos.Variations.SaveBundle(ctx, edge)
		},
	}

	instance, created, err := op.Run(ctx)
	if err != nil {
		return err
	}
	b.Instance = instance
	b.Created = created
	return nil
}

// AliasData is the structured import schema for one alias product
type AliasData struct {
	Name                  string                  `json:"name"`
	SKU                   shared.Optional[string] `json:"sku"`
	CopyImages            bool                    `json:"alias_copy_images,omitempty"`
	CopyProductProperties bool                    `json:"alias_copy_product_properties,omitempty"`
	CopyContent           bool                    `json:"alias_copy_content,omitempty"`
}

// AliasVariationImport creates an ALIAS product pointing at a parent. Parent
// data is deep-copied only on first creation, gated by three independent
// flags; re-importing an existing alias never copies again.
type AliasVariationImport struct {
	imp      *Importer
	scope    Scope
	parentID uuid.UUID
	data     AliasData

	Instance *catalog.Product
	Created  bool
}

// Process runs the alias import
func (a *AliasVariationImport) Process(ctx context.Context) error {
	if a.data.Name == "" {
		return shared.NewValidationError("name", "Alias name is required")
	}
	sku := a.data.SKU.Or("")
	if sku == "" {
		sku = catalog.GenerateSKU()
	}

	op := Operation[catalog.Product]{
		AllowEdit: false,
		Lookup: func(ctx context.Context) (*catalog.Product, error) {
			return a.imp.repos.Products.FindBySKU(ctx, a.scope.TenantID, sku)
		},
		Create: func(ctx context.Context) (*catalog.Product, error) {
			alias, err := catalog.NewAliasProduct(a.scope.TenantID, sku, a.parentID)
			if err != nil {
				return nil, err
			}
			if err := a.imp.repos.Products.Save(ctx, alias); err != nil {
				return nil, err
			}
			return alias, nil
		},
	}

	instance, created, err := op.Run(ctx)
	if err != nil {
		return err
	}
	a.Instance = instance
	a.Created = created

	if !created {
		return nil
	}
	if a.data.CopyImages {
		if err := a.copyImages(ctx); err != nil {
			return err
		}
	}
	if a.data.CopyProductProperties {
		if err := a.copyProperties(ctx); err != nil {
			return err
		}
	}
	if a.data.CopyContent {
		if err := a.copyContent(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (a *AliasVariationImport) copyImages(ctx context.Context) error {
	assignments, err := a.imp.repos.Media.FindAssignmentsByProduct(ctx, a.scope.TenantID, a.parentID)
	if err != nil {
		return err
	}
	for _, src := range assignments {
		copied := catalog.NewMediaProductThrough(a.scope.TenantID, src.MediaID, a.Instance.ID)
		if src.SalesChannelID != nil {
			copied.ScopeToChannel(*src.SalesChannelID)
		}
		copied.SetOrdering(src.SortOrder, src.IsMainImage)
		if err := a.imp.repos.Media.SaveAssignment(ctx, copied); err != nil {
			return err
		}
	}
	return nil
}

func (a *AliasVariationImport) copyProperties(ctx context.Context) error {
	assignments, err := a.imp.repos.Assignments.FindByProduct(ctx, a.scope.TenantID, a.parentID)
	if err != nil {
		return err
	}
	for _, src := range assignments {
		copied := catalog.NewProductProperty(a.scope.TenantID, a.Instance.ID, src.PropertyID)
		copied.ValueText = src.ValueText
		copied.ValueInt = src.ValueInt
		copied.ValueFloat = src.ValueFloat
		copied.ValueBool = src.ValueBool
		copied.ValueDate = src.ValueDate
		copied.ValueDatetime = src.ValueDatetime
		copied.ValueSelectID = src.ValueSelectID
		copied.ValueMultiSelect = src.ValueMultiSelect
		if err := a.imp.repos.Assignments.Save(ctx, copied); err != nil {
			return err
		}
	}
	return nil
}

func (a *AliasVariationImport) copyContent(ctx context.Context) error {
	translations, err := a.imp.repos.Translations.FindByProduct(ctx, a.scope.TenantID, a.parentID)
	if err != nil {
		return err
	}
	for _, src := range translations {
		copied, err := catalog.NewProductTranslation(a.scope.TenantID, a.Instance.ID, src.Language, src.Name)
		if err != nil {
			return err
		}
		copied.SetContent(src.ShortDescription, src.Description)
		// The slug stays with the parent; the alias gets none
		if err := a.imp.repos.Translations.Save(ctx, copied); err != nil {
			return err
		}
	}
	return nil
}

// ConfiguratorVariationsImport generates the Cartesian set of variation
// products for a configurable parent from its configurator axis values. This
// is an irreversible generate step, distinct from binding an existing product.
type ConfiguratorVariationsImport struct {
	imp    *Importer
	scope  Scope
	parent *catalog.Product
	rule   *catalog.ProductPropertiesRule
	values []ConfiguratorValue

	// Variations holds the created or re-linked products after Process
	Variations []*catalog.Product
}

// Process generates and links the variation products
func (g *ConfiguratorVariationsImport) Process(ctx context.Context) error {
	if !g.parent.IsConfigurable() {
		return shared.NewValidationError("type", "Variations can only be generated for CONFIGURABLE products")
	}
	if len(g.values) == 0 {
		return nil
	}

	// Group the axis points per property, preserving payload order
	var axes []*configuratorAxis
	byName := make(map[string]*configuratorAxis)
	for _, cv := range g.values {
		key := catalog.InternalPropertyName(cv.Property.Name)
		ax, ok := byName[key]
		if !ok {
			property, err := g.imp.ensureProperty(ctx, g.scope, cv.Property.Name, cv.Property.Type)
			if err != nil {
				return err
			}
			ax = &configuratorAxis{property: property}
			byName[key] = ax
			axes = append(axes, ax)
		}
		sv, err := g.ensureSelectValue(ctx, ax.property.ID, cv.Value)
		if err != nil {
			return err
		}
		ax.valueIDs = append(ax.valueIDs, sv.ID)
		ax.values = append(ax.values, cv.Value)
	}

	// Walk the Cartesian product of all axes
	combo := make([]int, len(axes))
	for {
		if err := g.generateOne(ctx, axes, combo); err != nil {
			return err
		}
		idx := len(axes) - 1
		for idx >= 0 {
			combo[idx]++
			if combo[idx] < len(axes[idx].valueIDs) {
				break
			}
			combo[idx] = 0
			idx--
		}
		if idx < 0 {
			return nil
		}
	}
}

type configuratorAxis struct {
	property *catalog.Property
	valueIDs []uuid.UUID
	values   []string
}

func (g *ConfiguratorVariationsImport) generateOne(ctx context.Context, axes []*configuratorAxis, combo []int) error {
	sku := g.parent.SKU
	for i, ax := range axes {
		sku = fmt.Sprintf("%s-%s", sku, catalog.Slugify(ax.values[combo[i]]))
	}

	op := Operation[catalog.Product]{
		AllowEdit: false,
		Lookup: func(ctx context.Context) (*catalog.Product, error) {
			return g.imp.repos.Products.FindBySKU(ctx, g.scope.TenantID, sku)
		},
		Create: func(ctx context.Context) (*catalog.Product, error) {
			product, err := catalog.NewProduct(g.scope.TenantID, sku, catalog.ProductTypeSimple)
			if err != nil {
				return nil, err
			}
			if err := g.imp.repos.Products.Save(ctx, product); err != nil {
				return nil, err
			}
			return product, nil
		},
	}
	variation, _, err := op.Run(ctx)
	if err != nil {
		return err
	}

	for i, ax := range axes {
		assignment, err := g.imp.repos.Assignments.FindByProductAndProperty(ctx, g.scope.TenantID, variation.ID, ax.property.ID)
		if errors.Is(err, shared.ErrNotFound) {
			assignment = catalog.NewProductProperty(g.scope.TenantID, variation.ID, ax.property.ID)
		} else if err != nil {
			return err
		}
		assignment.SetSelectValue(ax.valueIDs[combo[i]])
		if err := g.imp.repos.Assignments.Save(ctx, assignment); err != nil {
			return err
		}
	}

	if err := g.imp.ConfigurableVariation(g.scope, g.parent.ID, variation.ID).Process(ctx); err != nil {
		return err
	}
	g.Variations = append(g.Variations, variation)
	return nil
}

func (g *ConfiguratorVariationsImport) ensureSelectValue(ctx context.Context, propertyID uuid.UUID, value string) (*catalog.PropertySelectValue, error) {
	existing, err := g.imp.repos.Properties.FindSelectValue(ctx, g.scope.TenantID, propertyID, value)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	sv, err := catalog.NewPropertySelectValue(g.scope.TenantID, propertyID, value)
	if err != nil {
		return nil, err
	}
	if err := g.imp.repos.Properties.SaveSelectValue(ctx, sv); err != nil {
		return nil, err
	}
	return sv, nil
}
