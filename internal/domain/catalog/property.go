package catalog

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/shared"
)

// PropertyType determines which storage column a value assignment lands in.
// The choice is irreversible once values exist, so importers infer it with
// care (see the channel attribute parsers).
type PropertyType string

const (
	PropertyTypeText        PropertyType = "TEXT"
	PropertyTypeDescription PropertyType = "DESCRIPTION"
	PropertyTypeInt         PropertyType = "INT"
	PropertyTypeFloat       PropertyType = "FLOAT"
	PropertyTypeBoolean     PropertyType = "BOOLEAN"
	PropertyTypeDate        PropertyType = "DATE"
	PropertyTypeDatetime    PropertyType = "DATETIME"
	PropertyTypeSelect      PropertyType = "SELECT"
	PropertyTypeMultiSelect PropertyType = "MULTISELECT"
)

// IsValid returns true if the property type is known
func (t PropertyType) IsValid() bool {
	switch t {
	case PropertyTypeText, PropertyTypeDescription, PropertyTypeInt, PropertyTypeFloat,
		PropertyTypeBoolean, PropertyTypeDate, PropertyTypeDatetime,
		PropertyTypeSelect, PropertyTypeMultiSelect:
		return true
	default:
		return false
	}
}

// IsSelectLike returns true for types whose values live in select value rows
func (t PropertyType) IsSelectLike() bool {
	return t == PropertyTypeSelect || t == PropertyTypeMultiSelect
}

// ProductTypePropertyName is the reserved property anchoring which rule
// applies to a product. Its assignment must exist before any rule-governed
// property is considered required or optional.
const ProductTypePropertyName = "Product Type"

// Property defines a typed attribute within a tenant
type Property struct {
	shared.TenantAggregateRoot
	Name          string       `gorm:"type:varchar(100);not null;uniqueIndex:idx_property_tenant_name,priority:2"`
	InternalName  string       `gorm:"type:varchar(100);not null;index"`
	Type          PropertyType `gorm:"type:varchar(20);not null"`
	IsProductType bool         `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Property) TableName() string {
	return "properties"
}

// NewProperty creates a property with the given value type
func NewProperty(tenantID uuid.UUID, name string, propertyType PropertyType) (*Property, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PROPERTY_NAME", "Property name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_PROPERTY_NAME", "Property name cannot exceed 100 characters")
	}
	if !propertyType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PROPERTY_TYPE", "Unknown property type: "+string(propertyType))
	}

	return &Property{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		InternalName:        InternalPropertyName(name),
		Type:                propertyType,
	}, nil
}

// NewProductTypeProperty creates the reserved rule-anchor property
func NewProductTypeProperty(tenantID uuid.UUID) *Property {
	p, _ := NewProperty(tenantID, ProductTypePropertyName, PropertyTypeSelect)
	p.IsProductType = true
	return p
}

// InternalPropertyName converts a display name to a stable machine name
func InternalPropertyName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// PropertySelectValue is one enumerated value of a SELECT/MULTISELECT property
type PropertySelectValue struct {
	shared.BaseEntity
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index"`
	PropertyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_select_value_property,priority:1"`
	Value      string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_select_value_property,priority:2"`
}

// TableName returns the table name for GORM
func (PropertySelectValue) TableName() string {
	return "property_select_values"
}

// NewPropertySelectValue creates a select value for a property
func NewPropertySelectValue(tenantID, propertyID uuid.UUID, value string) (*PropertySelectValue, error) {
	if value == "" {
		return nil, shared.NewDomainError("INVALID_SELECT_VALUE", "Select value cannot be empty")
	}
	return &PropertySelectValue{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		PropertyID: propertyID,
		Value:      value,
	}, nil
}

// ProductProperty is the value assignment of one property to one product.
// The value lives in the type-appropriate column.
type ProductProperty struct {
	shared.BaseEntity
	TenantID         uuid.UUID   `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_product_property,priority:1"`
	PropertyID       uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_product_property,priority:2"`
	ValueText        *string     `gorm:"type:text"`
	ValueInt         *int64      `gorm:""`
	ValueFloat       *float64    `gorm:""`
	ValueBool        *bool       `gorm:""`
	ValueDate        *time.Time  `gorm:""`
	ValueDatetime    *time.Time  `gorm:""`
	ValueSelectID    *uuid.UUID  `gorm:"type:uuid;index"`
	ValueMultiSelect []uuid.UUID `gorm:"serializer:json;type:jsonb"`
}

// TableName returns the table name for GORM
func (ProductProperty) TableName() string {
	return "product_properties"
}

// NewProductProperty creates an empty value assignment; callers fill the
// type-appropriate column through SetValue.
func NewProductProperty(tenantID, productID, propertyID uuid.UUID) *ProductProperty {
	return &ProductProperty{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		ProductID:  productID,
		PropertyID: propertyID,
	}
}

// SetValue coerces raw into the column matching the property type.
// String representations of numbers and booleans are accepted since channel
// payloads rarely carry native types.
func (pp *ProductProperty) SetValue(property *Property, raw interface{}) error {
	pp.clear()
	switch property.Type {
	case PropertyTypeText, PropertyTypeDescription:
		s, err := coerceString(raw)
		if err != nil {
			return err
		}
		pp.ValueText = &s
	case PropertyTypeInt:
		n, err := coerceInt(raw)
		if err != nil {
			return err
		}
		pp.ValueInt = &n
	case PropertyTypeFloat:
		f, err := coerceFloat(raw)
		if err != nil {
			return err
		}
		pp.ValueFloat = &f
	case PropertyTypeBoolean:
		b, err := coerceBool(raw)
		if err != nil {
			return err
		}
		pp.ValueBool = &b
	case PropertyTypeDate:
		ts, err := coerceTime(raw, "2006-01-02")
		if err != nil {
			return err
		}
		pp.ValueDate = &ts
	case PropertyTypeDatetime:
		ts, err := coerceTime(raw, time.RFC3339)
		if err != nil {
			return err
		}
		pp.ValueDatetime = &ts
	default:
		return shared.NewDomainError("INVALID_PROPERTY_TYPE",
			"Select values are assigned through SetSelectValue, not SetValue")
	}
	pp.Touch()
	return nil
}

// SetSelectValue assigns one select value row
func (pp *ProductProperty) SetSelectValue(valueID uuid.UUID) {
	pp.clear()
	pp.ValueSelectID = &valueID
	pp.Touch()
}

// SetMultiSelectValues assigns the multi select value rows
func (pp *ProductProperty) SetMultiSelectValues(valueIDs []uuid.UUID) {
	pp.clear()
	pp.ValueMultiSelect = valueIDs
	pp.Touch()
}

func (pp *ProductProperty) clear() {
	pp.ValueText = nil
	pp.ValueInt = nil
	pp.ValueFloat = nil
	pp.ValueBool = nil
	pp.ValueDate = nil
	pp.ValueDatetime = nil
	pp.ValueSelectID = nil
	pp.ValueMultiSelect = nil
}

func coerceString(raw interface{}) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", shared.NewDomainError("INVALID_VALUE", "Value cannot be represented as text")
	}
}

func coerceInt(raw interface{}) (int64, error) {
	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, shared.NewDomainError("INVALID_VALUE", "Value is not an integer: "+v)
		}
		return n, nil
	default:
		return 0, shared.NewDomainError("INVALID_VALUE", "Value is not an integer")
	}
}

func coerceFloat(raw interface{}) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, shared.NewDomainError("INVALID_VALUE", "Value is not a number: "+v)
		}
		return f, nil
	default:
		return 0, shared.NewDomainError("INVALID_VALUE", "Value is not a number")
	}
}

func coerceBool(raw interface{}) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(strings.ToLower(v)))
		if err != nil {
			return false, shared.NewDomainError("INVALID_VALUE", "Value is not a boolean: "+v)
		}
		return b, nil
	default:
		return false, shared.NewDomainError("INVALID_VALUE", "Value is not a boolean")
	}
}

func coerceTime(raw interface{}, layout string) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		for _, l := range []string{layout, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if ts, err := time.Parse(l, v); err == nil {
				return ts, nil
			}
		}
		return time.Time{}, shared.NewDomainError("INVALID_VALUE", "Value is not a date: "+v)
	default:
		return time.Time{}, shared.NewDomainError("INVALID_VALUE", "Value is not a date")
	}
}
