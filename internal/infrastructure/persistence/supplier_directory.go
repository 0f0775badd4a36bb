package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/temple-erp/backend/internal/domain/procurement"
	"github.com/temple-erp/backend/internal/domain/shared"
)

// supplierRecord is the read model for the supplier master table.
// Supplier CRUD is owned by the master-data subsystem; the procurement
// engine only resolves references from it.
type supplierRecord struct {
	ID   uuid.UUID `gorm:"column:id"`
	Name string    `gorm:"column:name"`
	Kind string    `gorm:"column:kind"`
}

func (supplierRecord) TableName() string {
	return "suppliers"
}

// GormSupplierDirectory resolves supplier references from the suppliers table
type GormSupplierDirectory struct {
	db *gorm.DB
}

// NewGormSupplierDirectory creates a new GormSupplierDirectory
func NewGormSupplierDirectory(db *gorm.DB) *GormSupplierDirectory {
	return &GormSupplierDirectory{db: db}
}

// GetSupplier resolves a supplier by ID
func (d *GormSupplierDirectory) GetSupplier(ctx context.Context, supplierID uuid.UUID) (procurement.SupplierRef, error) {
	var record supplierRecord
	err := d.db.WithContext(ctx).Where("id = ?", supplierID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return procurement.SupplierRef{}, shared.ErrNotFound
		}
		return procurement.SupplierRef{}, err
	}

	return procurement.NewSupplierRef(record.ID, record.Name, procurement.SupplierKind(record.Kind))
}
