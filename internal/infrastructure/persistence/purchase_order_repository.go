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

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds a purchase order by its ID, items included
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	var order procurement.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByOrderNumber finds a purchase order by order number
func (r *GormPurchaseOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*procurement.PurchaseOrder, error) {
	var order procurement.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_number = ?", orderNumber).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds purchase orders with filtering
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	var orders []procurement.PurchaseOrder

	query := r.db.WithContext(ctx).Model(&procurement.PurchaseOrder{})
	query = r.applyFilter(query, filter)

	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindBySupplier finds purchase orders for a supplier
func (r *GormPurchaseOrderRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	var orders []procurement.PurchaseOrder

	query := r.db.WithContext(ctx).Model(&procurement.PurchaseOrder{}).
		Where("supplier_id = ?", supplierID)
	query = r.applyFilter(query, filter)

	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByStatus finds purchase orders by status
func (r *GormPurchaseOrderRepository) FindByStatus(ctx context.Context, status procurement.PurchaseOrderStatus, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	var orders []procurement.PurchaseOrder

	query := r.db.WithContext(ctx).Model(&procurement.PurchaseOrder{}).
		Where("status = ?", status)
	query = r.applyFilter(query, filter)

	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindBySourceRequest finds purchase orders converted from a request
func (r *GormPurchaseOrderRepository) FindBySourceRequest(ctx context.Context, requestID uuid.UUID) ([]procurement.PurchaseOrder, error) {
	var orders []procurement.PurchaseOrder

	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("source_request_id = ?", requestID).
		Order("created_at ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Count counts purchase orders matching the filter
func (r *GormPurchaseOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&procurement.PurchaseOrder{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a purchase order
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *procurement.PurchaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(order).Error; err != nil {
			return err
		}

		if order.ID != uuid.Nil {
			if err := r.saveItems(tx, order); err != nil {
				return err
			}
		}

		return nil
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormPurchaseOrderRepository) SaveWithLock(ctx context.Context, order *procurement.PurchaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Scan reports a missing row through RowsAffected, not ErrRecordNotFound
		var currentVersion int
		lookup := tx.Model(&procurement.PurchaseOrder{}).
			Where("id = ?", order.ID).
			Select("version").
			Scan(&currentVersion)
		if lookup.Error != nil {
			return lookup.Error
		}
		if lookup.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		if currentVersion != order.Version {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The order has been modified by another user")
		}

		order.Version++
		order.UpdatedAt = time.Now()

		result := tx.Model(&procurement.PurchaseOrder{}).
			Where("id = ? AND version = ?", order.ID, currentVersion).
			Updates(map[string]interface{}{
				"supplier_id":      order.Supplier.ID,
				"supplier_name":    order.Supplier.Name,
				"supplier_kind":    order.Supplier.Kind,
				"subtotal":         order.Subtotal,
				"discount_amount":  order.DiscountAmount,
				"tax_amount":       order.TaxAmount,
				"shipping_charges": order.ShippingCharges,
				"other_charges":    order.OtherCharges,
				"grand_total":      order.GrandTotal,
				"status":           order.Status,
				"invoice_status":   order.InvoiceStatus,
				"remark":           order.Remark,
				"submitted_at":     order.SubmittedAt,
				"approved_at":      order.ApprovedAt,
				"approved_by":      order.ApprovedBy,
				"rejected_at":      order.RejectedAt,
				"reject_reason":    order.RejectReason,
				"cancelled_at":     order.CancelledAt,
				"cancel_reason":    order.CancelReason,
				"closed_at":        order.ClosedAt,
				"version":          order.Version,
				"updated_at":       order.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The order has been modified by another user")
		}

		return r.saveItems(tx, order)
	})
}

// saveItems reconciles the order's lines with the aggregate's current state
func (r *GormPurchaseOrderRepository) saveItems(tx *gorm.DB, order *procurement.PurchaseOrder) error {
	currentItemIDs := make([]uuid.UUID, len(order.Items))
	for i, item := range order.Items {
		currentItemIDs[i] = item.ID
	}

	if len(currentItemIDs) > 0 {
		if err := tx.Where("order_id = ? AND id NOT IN ?", order.ID, currentItemIDs).
			Delete(&procurement.PurchaseOrderItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("order_id = ?", order.ID).
			Delete(&procurement.PurchaseOrderItem{}).Error; err != nil {
			return err
		}
	}

	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		if err := tx.Save(&order.Items[i]).Error; err != nil {
			return err
		}
	}

	return nil
}

// Delete deletes a purchase order together with its items
func (r *GormPurchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&procurement.PurchaseOrderItem{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&procurement.PurchaseOrder{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// ExistsByOrderNumber checks if an order number exists
func (r *GormPurchaseOrderRepository) ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&procurement.PurchaseOrder{}).
		Where("order_number = ?", orderNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GenerateOrderNumber generates a unique order number.
// Format: PO-YYYY-NNNNN (e.g., PO-2026-00001)
func (r *GormPurchaseOrderRepository) GenerateOrderNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("PO-%d-", year)

	var lastOrder procurement.PurchaseOrder
	err := r.db.WithContext(ctx).
		Model(&procurement.PurchaseOrder{}).
		Where("order_number LIKE ?", prefix+"%").
		Order("order_number DESC").
		First(&lastOrder).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastOrder.OrderNumber != "" {
		parts := strings.Split(lastOrder.OrderNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	orderNumber := fmt.Sprintf("%s%05d", prefix, nextNum)

	exists, err := r.ExistsByOrderNumber(ctx, orderNumber)
	if err != nil {
		return "", err
	}
	if exists {
		for i := 0; i < 100; i++ {
			nextNum++
			orderNumber = fmt.Sprintf("%s%05d", prefix, nextNum)
			exists, err = r.ExistsByOrderNumber(ctx, orderNumber)
			if err != nil {
				return "", err
			}
			if !exists {
				break
			}
		}
	}

	return orderNumber, nil
}

// applyFilter applies filter options to the query
func (r *GormPurchaseOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, PurchaseOrderSortFields, "")
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
func (r *GormPurchaseOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("order_number ILIKE ? OR supplier_name ILIKE ?",
			searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "statuses":
			if statuses, ok := value.([]string); ok && len(statuses) > 0 {
				query = query.Where("status IN ?", statuses)
			}
		case "invoice_status":
			query = query.Where("invoice_status = ?", value)
		case "source_request_id":
			query = query.Where("source_request_id = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at <= ?", t)
			}
		case "min_amount":
			if d, ok := value.(decimal.Decimal); ok {
				query = query.Where("grand_total >= ?", d)
			}
		case "max_amount":
			if d, ok := value.(decimal.Decimal); ok {
				query = query.Where("grand_total <= ?", d)
			}
		}
	}

	return query
}

// Ensure GormPurchaseOrderRepository implements PurchaseOrderRepository
var _ procurement.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
