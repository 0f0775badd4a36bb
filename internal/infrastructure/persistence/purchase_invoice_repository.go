package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/temple-erp/backend/internal/domain/procurement"
	"github.com/temple-erp/backend/internal/domain/shared"
)

// GormPurchaseInvoiceRepository implements PurchaseInvoiceRepository using GORM
type GormPurchaseInvoiceRepository struct {
	db *gorm.DB
}

// NewGormPurchaseInvoiceRepository creates a new GormPurchaseInvoiceRepository
func NewGormPurchaseInvoiceRepository(db *gorm.DB) *GormPurchaseInvoiceRepository {
	return &GormPurchaseInvoiceRepository{db: db}
}

// FindByID finds a purchase invoice by its ID, items included
func (r *GormPurchaseInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.PurchaseInvoice, error) {
	var invoice procurement.PurchaseInvoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&invoice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByInvoiceNumber finds a purchase invoice by invoice number
func (r *GormPurchaseInvoiceRepository) FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*procurement.PurchaseInvoice, error) {
	var invoice procurement.PurchaseInvoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("invoice_number = ?", invoiceNumber).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindAll finds purchase invoices with filtering
func (r *GormPurchaseInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]procurement.PurchaseInvoice, error) {
	var invoices []procurement.PurchaseInvoice

	query := r.db.WithContext(ctx).Model(&procurement.PurchaseInvoice{})
	query = r.applyFilter(query, filter)

	if err := query.Preload("Items").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindByPurchaseOrder finds invoices billed against an order
func (r *GormPurchaseInvoiceRepository) FindByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) ([]procurement.PurchaseInvoice, error) {
	var invoices []procurement.PurchaseInvoice

	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("purchase_order_id = ?", purchaseOrderID).
		Order("invoice_date ASC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindBySupplier finds invoices for a supplier
func (r *GormPurchaseInvoiceRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]procurement.PurchaseInvoice, error) {
	var invoices []procurement.PurchaseInvoice

	query := r.db.WithContext(ctx).Model(&procurement.PurchaseInvoice{}).
		Where("supplier_id = ?", supplierID)
	query = r.applyFilter(query, filter)

	if err := query.Preload("Items").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Count counts purchase invoices matching the filter
func (r *GormPurchaseInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&procurement.PurchaseInvoice{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a purchase invoice
func (r *GormPurchaseInvoiceRepository) Save(ctx context.Context, invoice *procurement.PurchaseInvoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(invoice).Error; err != nil {
			return err
		}

		if invoice.ID != uuid.Nil {
			if err := r.saveItems(tx, invoice); err != nil {
				return err
			}
		}

		return nil
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormPurchaseInvoiceRepository) SaveWithLock(ctx context.Context, invoice *procurement.PurchaseInvoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Scan reports a missing row through RowsAffected, not ErrRecordNotFound
		var currentVersion int
		lookup := tx.Model(&procurement.PurchaseInvoice{}).
			Where("id = ?", invoice.ID).
			Select("version").
			Scan(&currentVersion)
		if lookup.Error != nil {
			return lookup.Error
		}
		if lookup.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		if currentVersion != invoice.Version {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The invoice has been modified by another user")
		}

		invoice.Version++
		invoice.UpdatedAt = time.Now()

		result := tx.Model(&procurement.PurchaseInvoice{}).
			Where("id = ? AND version = ?", invoice.ID, currentVersion).
			Updates(map[string]interface{}{
				"supplier_invoice": invoice.SupplierInvoice,
				"status":           invoice.Status,
				"payment_status":   invoice.PaymentStatus,
				"supplier_id":      invoice.SupplierID,
				"supplier_name":    invoice.SupplierName,
				"subtotal":         invoice.Subtotal,
				"discount_amount":  invoice.DiscountAmount,
				"tax_amount":       invoice.TaxAmount,
				"shipping_charges": invoice.ShippingCharges,
				"other_charges":    invoice.OtherCharges,
				"grand_total":      invoice.GrandTotal,
				"paid_amount":      invoice.PaidAmount,
				"balance_amount":   invoice.BalanceAmount,
				"invoice_date":     invoice.InvoiceDate,
				"due_date":         invoice.DueDate,
				"posted_at":        invoice.PostedAt,
				"remark":           invoice.Remark,
				"version":          invoice.Version,
				"updated_at":       invoice.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The invoice has been modified by another user")
		}

		return r.saveItems(tx, invoice)
	})
}

// saveItems reconciles the invoice's lines with the aggregate's current state
func (r *GormPurchaseInvoiceRepository) saveItems(tx *gorm.DB, invoice *procurement.PurchaseInvoice) error {
	currentItemIDs := make([]uuid.UUID, len(invoice.Items))
	for i, item := range invoice.Items {
		currentItemIDs[i] = item.ID
	}

	if len(currentItemIDs) > 0 {
		if err := tx.Where("invoice_id = ? AND id NOT IN ?", invoice.ID, currentItemIDs).
			Delete(&procurement.PurchaseInvoiceItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("invoice_id = ?", invoice.ID).
			Delete(&procurement.PurchaseInvoiceItem{}).Error; err != nil {
			return err
		}
	}

	for i := range invoice.Items {
		invoice.Items[i].InvoiceID = invoice.ID
		if err := tx.Save(&invoice.Items[i]).Error; err != nil {
			return err
		}
	}

	return nil
}

// ExistsByInvoiceNumber checks if an invoice number exists
func (r *GormPurchaseInvoiceRepository) ExistsByInvoiceNumber(ctx context.Context, invoiceNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&procurement.PurchaseInvoice{}).
		Where("invoice_number = ?", invoiceNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GenerateInvoiceNumber generates a unique invoice number.
// Format: PINV-YYYY-NNNNN (e.g., PINV-2026-00001)
func (r *GormPurchaseInvoiceRepository) GenerateInvoiceNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("PINV-%d-", year)

	var lastInvoice procurement.PurchaseInvoice
	err := r.db.WithContext(ctx).
		Model(&procurement.PurchaseInvoice{}).
		Where("invoice_number LIKE ?", prefix+"%").
		Order("invoice_number DESC").
		First(&lastInvoice).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastInvoice.InvoiceNumber != "" {
		parts := strings.Split(lastInvoice.InvoiceNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	invoiceNumber := fmt.Sprintf("%s%05d", prefix, nextNum)

	exists, err := r.ExistsByInvoiceNumber(ctx, invoiceNumber)
	if err != nil {
		return "", err
	}
	if exists {
		for i := 0; i < 100; i++ {
			nextNum++
			invoiceNumber = fmt.Sprintf("%s%05d", prefix, nextNum)
			exists, err = r.ExistsByInvoiceNumber(ctx, invoiceNumber)
			if err != nil {
				return "", err
			}
			if !exists {
				break
			}
		}
	}

	return invoiceNumber, nil
}

// applyFilter applies filter options to the query
func (r *GormPurchaseInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, PurchaseInvoiceSortFields, "")
		if sortField != "" {
			query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))
		} else {
			query = query.Order("created_at DESC")
		}
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPurchaseInvoiceRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("invoice_number ILIKE ? OR supplier_invoice ILIKE ? OR supplier_name ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "purchase_order_id":
			query = query.Where("purchase_order_id = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "payment_status":
			query = query.Where("payment_status = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("invoice_date >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("invoice_date <= ?", t)
			}
		case "min_amount":
			if d, ok := value.(decimal.Decimal); ok {
				query = query.Where("grand_total >= ?", d)
			}
		case "max_amount":
			if d, ok := value.(decimal.Decimal); ok {
				query = query.Where("grand_total <= ?", d)
			}
		case "overdue":
			if overdue, ok := value.(bool); ok && overdue {
				query = query.Where("due_date < ? AND balance_amount > 0", time.Now())
			}
		}
	}

	return query
}

// Ensure GormPurchaseInvoiceRepository implements PurchaseInvoiceRepository
var _ procurement.PurchaseInvoiceRepository = (*GormPurchaseInvoiceRepository)(nil)
