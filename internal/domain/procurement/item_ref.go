package procurement

import (
	"github.com/google/uuid"
	"github.com/temple-erp/backend/internal/domain/shared"
)

// ItemKind distinguishes goods from services on document lines
type ItemKind string

const (
	ItemKindProduct ItemKind = "PRODUCT"
	ItemKindService ItemKind = "SERVICE"
)

// IsValid checks if the kind is a valid ItemKind
func (k ItemKind) IsValid() bool {
	return k == ItemKindProduct || k == ItemKindService
}

// String returns the string representation of ItemKind
func (k ItemKind) String() string {
	return string(k)
}

// ItemRef is a tagged reference to either a product or a service.
// Quantity and unit of measure are meaningful only for products;
// services carry a nominal quantity of 1 and no unit.
type ItemRef struct {
	Kind ItemKind  `gorm:"type:varchar(10);not null" json:"kind"`
	ID   uuid.UUID `gorm:"type:uuid;not null;index" json:"id"`
	Name string    `gorm:"type:varchar(200);not null" json:"name"`
	Code string    `gorm:"type:varchar(50)" json:"code"`
	Unit string    `gorm:"type:varchar(20)" json:"unit"`
}

// NewProductRef creates an ItemRef for a product
func NewProductRef(id uuid.UUID, name, code, unit string) (ItemRef, error) {
	if id == uuid.Nil {
		return ItemRef{}, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if name == "" {
		return ItemRef{}, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	return ItemRef{Kind: ItemKindProduct, ID: id, Name: name, Code: code, Unit: unit}, nil
}

// NewServiceRef creates an ItemRef for a service
func NewServiceRef(id uuid.UUID, name, code string) (ItemRef, error) {
	if id == uuid.Nil {
		return ItemRef{}, shared.NewDomainError("INVALID_SERVICE", "Service ID cannot be empty")
	}
	if name == "" {
		return ItemRef{}, shared.NewDomainError("INVALID_SERVICE_NAME", "Service name cannot be empty")
	}
	return ItemRef{Kind: ItemKindService, ID: id, Name: name, Code: code}, nil
}

// IsProduct returns true if the reference points to a product
func (r ItemRef) IsProduct() bool {
	return r.Kind == ItemKindProduct
}

// IsService returns true if the reference points to a service
func (r ItemRef) IsService() bool {
	return r.Kind == ItemKindService
}

// SupplierKind declares what a supplier can be ordered from
type SupplierKind string

const (
	SupplierKindProduct SupplierKind = "PRODUCT"
	SupplierKindService SupplierKind = "SERVICE"
	SupplierKindBoth    SupplierKind = "BOTH"
)

// IsValid checks if the kind is a valid SupplierKind
func (k SupplierKind) IsValid() bool {
	switch k {
	case SupplierKindProduct, SupplierKindService, SupplierKindBoth:
		return true
	}
	return false
}

// String returns the string representation of SupplierKind
func (k SupplierKind) String() string {
	return string(k)
}

// Accepts returns true if a supplier of this kind can supply the given item kind
func (k SupplierKind) Accepts(item ItemKind) bool {
	switch k {
	case SupplierKindBoth:
		return true
	case SupplierKindProduct:
		return item == ItemKindProduct
	case SupplierKindService:
		return item == ItemKindService
	}
	return false
}

// SupplierRef identifies a supplier together with its declared kind.
// Master data for suppliers lives outside this engine; documents carry
// only the reference.
type SupplierRef struct {
	ID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"id"`
	Name string       `gorm:"type:varchar(200);not null" json:"name"`
	Kind SupplierKind `gorm:"type:varchar(10);not null;default:'BOTH'" json:"kind"`
}

// NewSupplierRef creates a supplier reference
func NewSupplierRef(id uuid.UUID, name string, kind SupplierKind) (SupplierRef, error) {
	if id == uuid.Nil {
		return SupplierRef{}, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if name == "" {
		return SupplierRef{}, shared.NewDomainError("INVALID_SUPPLIER_NAME", "Supplier name cannot be empty")
	}
	if kind == "" {
		kind = SupplierKindBoth
	}
	if !kind.IsValid() {
		return SupplierRef{}, shared.NewDomainError("INVALID_SUPPLIER_KIND", "Supplier kind must be PRODUCT, SERVICE or BOTH")
	}
	return SupplierRef{ID: id, Name: name, Kind: kind}, nil
}
