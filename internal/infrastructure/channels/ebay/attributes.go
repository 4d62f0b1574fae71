package ebay

import (
	"strings"

	"github.com/pim/backend/internal/domain/catalog"
)

// descriptionLengthThreshold splits free-text aspects between TEXT and
// DESCRIPTION storage. Values longer than this land in the description
// column.
const descriptionLengthThreshold = 800

// InferPropertyType maps an aspect's constraint metadata onto the internal
// property type. The decision is irreversible once values are stored, so the
// table is fixed:
//
//	enumerated values          -> SELECT, or MULTISELECT when the aspect
//	                              takes multiple values per item
//	NUMBER                     -> INT when the format names an integer,
//	                              FLOAT otherwise
//	DATE                       -> DATETIME when the format carries time
//	                              tokens, DATE otherwise
//	free text                  -> DESCRIPTION past the length threshold,
//	                              TEXT otherwise
func InferPropertyType(aspect Aspect) catalog.PropertyType {
	if len(aspect.AllowedValues) > 0 || aspect.Mode == aspectModeSelectionOnly {
		if aspect.Cardinality == aspectCardinalityMulti {
			return catalog.PropertyTypeMultiSelect
		}
		return catalog.PropertyTypeSelect
	}

	switch aspect.DataType {
	case aspectDataTypeNumber:
		if isIntegerFormat(aspect.Format) {
			return catalog.PropertyTypeInt
		}
		return catalog.PropertyTypeFloat
	case aspectDataTypeDate:
		if hasTimeTokens(aspect.Format) {
			return catalog.PropertyTypeDatetime
		}
		return catalog.PropertyTypeDate
	default:
		if aspect.MaxLength > descriptionLengthThreshold {
			return catalog.PropertyTypeDescription
		}
		return catalog.PropertyTypeText
	}
}

// isIntegerFormat reports whether a NUMBER format string names an integer
// type rather than a decimal one
func isIntegerFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "int", "int32", "int64", "integer":
		return true
	default:
		return false
	}
}

// hasTimeTokens reports whether a DATE format string carries a time-of-day
// component, e.g. "YYYY-MM-DDTHH:mm:ss"
func hasTimeTokens(format string) bool {
	for _, token := range []string{"HH", "hh", "mm:ss", "MM:SS"} {
		if strings.Contains(format, token) {
			return true
		}
	}
	return false
}
