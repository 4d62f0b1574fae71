package importer

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/catalog"
	"github.com/pim/backend/internal/domain/shared"
)

// ensureProperty gets or creates a property by display name. The value type
// is only used on creation; an existing property keeps its type since the
// storage column choice is irreversible.
func (imp *Importer) ensureProperty(ctx context.Context, scope Scope, name string, propertyType catalog.PropertyType) (*catalog.Property, error) {
	existing, err := imp.repos.Properties.FindByName(ctx, scope.TenantID, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	property, err := catalog.NewProperty(scope.TenantID, name, propertyType)
	if err != nil {
		return nil, err
	}
	if err := imp.repos.Properties.Save(ctx, property); err != nil {
		return nil, err
	}
	return property, nil
}

// AttributeImport assigns one property value to one product. Select values
// are resolved by display value unless the payload marks them as ids.
type AttributeImport struct {
	imp       *Importer
	scope     Scope
	productID uuid.UUID
	data      AttributeData

	Instance *catalog.ProductProperty
	Created  bool
	Property *catalog.Property
}

// Process runs the attribute import
func (a *AttributeImport) Process(ctx context.Context) error {
	name := attributePropertyName(a.data)
	if name == "" {
		return shared.NewValidationError("property", "Attribute needs property_data or a property name")
	}

	property, err := a.imp.ensureProperty(ctx, a.scope, name, attributePropertyType(a.data))
	if err != nil {
		return err
	}
	a.Property = property

	assignment, err := a.imp.repos.Assignments.FindByProductAndProperty(ctx, a.scope.TenantID, a.productID, property.ID)
	if errors.Is(err, shared.ErrNotFound) {
		assignment = catalog.NewProductProperty(a.scope.TenantID, a.productID, property.ID)
		a.Created = true
	} else if err != nil {
		return err
	}

	if property.Type.IsSelectLike() {
		if err := a.assignSelectValue(ctx, property, assignment); err != nil {
			return err
		}
	} else {
		if err := assignment.SetValue(property, a.data.Value); err != nil {
			return err
		}
	}

	if err := a.imp.repos.Assignments.Save(ctx, assignment); err != nil {
		return err
	}
	a.Instance = assignment
	return nil
}

func (a *AttributeImport) assignSelectValue(ctx context.Context, property *catalog.Property, assignment *catalog.ProductProperty) error {
	values, err := a.resolveSelectValues(ctx, property)
	if err != nil {
		return err
	}
	if property.Type == catalog.PropertyTypeMultiSelect {
		assignment.SetMultiSelectValues(values)
		return nil
	}
	if len(values) != 1 {
		return shared.NewValidationError("value", "SELECT property takes exactly one value")
	}
	assignment.SetSelectValue(values[0])
	return nil
}

func (a *AttributeImport) resolveSelectValues(ctx context.Context, property *catalog.Property) ([]uuid.UUID, error) {
	var rawValues []interface{}
	switch v := a.data.Value.(type) {
	case []interface{}:
		rawValues = v
	default:
		rawValues = []interface{}{v}
	}

	ids := make([]uuid.UUID, 0, len(rawValues))
	for _, raw := range rawValues {
		text, ok := raw.(string)
		if !ok {
			return nil, shared.NewValidationError("value", "Select value must be a string")
		}
		if a.data.ValueIsID {
			id, err := uuid.Parse(text)
			if err != nil {
				return nil, shared.NewValidationError("value", "Select value is not a valid id: "+text)
			}
			if _, err := a.imp.repos.Properties.FindSelectValueByID(ctx, a.scope.TenantID, id); err != nil {
				return nil, err
			}
			ids = append(ids, id)
			continue
		}
		sv, err := a.ensureSelectValue(ctx, property.ID, text)
		if err != nil {
			return nil, err
		}
		ids = append(ids, sv.ID)
	}
	return ids, nil
}

func (a *AttributeImport) ensureSelectValue(ctx context.Context, propertyID uuid.UUID, value string) (*catalog.PropertySelectValue, error) {
	existing, err := a.imp.repos.Properties.FindSelectValue(ctx, a.scope.TenantID, propertyID, value)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	sv, err := catalog.NewPropertySelectValue(a.scope.TenantID, propertyID, value)
	if err != nil {
		return nil, err
	}
	if err := a.imp.repos.Properties.SaveSelectValue(ctx, sv); err != nil {
		return nil, err
	}
	return sv, nil
}
