package catalog

import (
	"github.com/google/uuid"
	"github.com/pim/backend/internal/domain/shared"
)

// EanCode binds a barcode either to a product directly or to an inherit_to
// product for alias inheritance. Exactly one of {ProductID, InheritToID} must
// be set while a code is present; the database enforces the same invariant
// with a check constraint.
//
// A released code (product detached) stays AlreadyUsed so it is never handed
// out again.
type EanCode struct {
	shared.BaseEntity
	TenantID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_ean_tenant_code,priority:1"`
	Code        string     `gorm:"type:varchar(14);uniqueIndex:idx_ean_tenant_code,priority:2,where:code IS NOT NULL"`
	ProductID   *uuid.UUID `gorm:"type:uuid;index"`
	InheritToID *uuid.UUID `gorm:"type:uuid;index"`
	AlreadyUsed bool       `gorm:"not null;default:false"`
	Internal    bool       `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (EanCode) TableName() string {
	return "ean_codes"
}

// NewEanCode creates an EAN code attached to a product
func NewEanCode(tenantID uuid.UUID, code string, productID uuid.UUID) (*EanCode, error) {
	if err := validateEan(code); err != nil {
		return nil, err
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EAN_TARGET", "EAN code requires a product")
	}
	ean := &EanCode{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    tenantID,
		Code:        code,
		ProductID:   &productID,
		AlreadyUsed: true,
		Internal:    true,
	}
	if err := ean.CheckExclusivity(); err != nil {
		return nil, err
	}
	return ean, nil
}

// NewInheritedEanCode creates an EAN code inherited by an alias product
func NewInheritedEanCode(tenantID uuid.UUID, code string, inheritToID uuid.UUID) (*EanCode, error) {
	if err := validateEan(code); err != nil {
		return nil, err
	}
	if inheritToID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EAN_TARGET", "Inherited EAN code requires a target product")
	}
	ean := &EanCode{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    tenantID,
		Code:        code,
		InheritToID: &inheritToID,
		AlreadyUsed: true,
		Internal:    true,
	}
	if err := ean.CheckExclusivity(); err != nil {
		return nil, err
	}
	return ean, nil
}

// CheckExclusivity enforces the exactly-one-of {product, inherit_to} invariant
// for rows that carry a code
func (e *EanCode) CheckExclusivity() error {
	if e.Code == "" {
		return nil
	}
	hasProduct := e.ProductID != nil && *e.ProductID != uuid.Nil
	hasInherit := e.InheritToID != nil && *e.InheritToID != uuid.Nil
	if hasProduct == hasInherit {
		return shared.NewDomainError("EAN_TARGET_CONFLICT",
			"EAN code must reference exactly one of product or inherit_to")
	}
	return nil
}

// Reassign points the code at a different product. Codes imported from an
// external source are marked external (Internal=false) and used.
func (e *EanCode) Reassign(code string, productID uuid.UUID) error {
	if err := validateEan(code); err != nil {
		return err
	}
	e.Code = code
	e.ProductID = &productID
	e.InheritToID = nil
	e.AlreadyUsed = true
	e.Internal = false
	e.Touch()
	return e.CheckExclusivity()
}

// Release detaches the code from its product. The code stays AlreadyUsed;
// callers emit EanCodeReleasedEvent so the product is rechecked for a
// missing EAN.
func (e *EanCode) Release() *uuid.UUID {
	released := e.ProductID
	e.ProductID = nil
	e.InheritToID = nil
	e.Touch()
	return released
}

// IsAssigned returns true while the code is attached to any product
func (e *EanCode) IsAssigned() bool {
	return e.ProductID != nil || e.InheritToID != nil
}

func validateEan(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_EAN", "EAN code cannot be empty")
	}
	if len(code) > 14 {
		return shared.NewDomainError("INVALID_EAN", "EAN code cannot exceed 14 digits")
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return shared.NewDomainError("INVALID_EAN", "EAN code can only contain digits")
		}
	}
	return nil
}
