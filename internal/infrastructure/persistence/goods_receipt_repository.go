package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/temple-erp/backend/internal/domain/procurement"
	"github.com/temple-erp/backend/internal/domain/shared"
)

// GormGoodsReceiptRepository implements GoodsReceiptRepository using GORM
type GormGoodsReceiptRepository struct {
	db *gorm.DB
}

// NewGormGoodsReceiptRepository creates a new GormGoodsReceiptRepository
func NewGormGoodsReceiptRepository(db *gorm.DB) *GormGoodsReceiptRepository {
	return &GormGoodsReceiptRepository{db: db}
}

// FindByID finds a goods receipt by its ID, items included
func (r *GormGoodsReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.GoodsReceipt, error) {
	var receipt procurement.GoodsReceipt
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&receipt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &receipt, nil
}

// FindByReceiptNumber finds a goods receipt by receipt number
func (r *GormGoodsReceiptRepository) FindByReceiptNumber(ctx context.Context, receiptNumber string) (*procurement.GoodsReceipt, error) {
	var receipt procurement.GoodsReceipt
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("receipt_number = ?", receiptNumber).
		First(&receipt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &receipt, nil
}

// FindAll finds goods receipts with filtering
func (r *GormGoodsReceiptRepository) FindAll(ctx context.Context, filter shared.Filter) ([]procurement.GoodsReceipt, error) {
	var receipts []procurement.GoodsReceipt

	query := r.db.WithContext(ctx).Model(&procurement.GoodsReceipt{})
	query = r.applyFilter(query, filter)

	if err := query.Preload("Items").Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// FindByPurchaseOrder finds goods receipts recorded against an order
func (r *GormGoodsReceiptRepository) FindByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) ([]procurement.GoodsReceipt, error) {
	var receipts []procurement.GoodsReceipt

	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("purchase_order_id = ?", purchaseOrderID).
		Order("received_at ASC").
		Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// Count counts goods receipts matching the filter
func (r *GormGoodsReceiptRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&procurement.GoodsReceipt{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a goods receipt
func (r *GormGoodsReceiptRepository) Save(ctx context.Context, receipt *procurement.GoodsReceipt) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(receipt).Error; err != nil {
			return err
		}

		if receipt.ID != uuid.Nil {
			if err := r.saveItems(tx, receipt); err != nil {
				return err
			}
		}

		return nil
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormGoodsReceiptRepository) SaveWithLock(ctx context.Context, receipt *procurement.GoodsReceipt) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Scan reports a missing row through RowsAffected, not ErrRecordNotFound
		var currentVersion int
		lookup := tx.Model(&procurement.GoodsReceipt{}).
			Where("id = ?", receipt.ID).
			Select("version").
			Scan(&currentVersion)
		if lookup.Error != nil {
			return lookup.Error
		}
		if lookup.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		if currentVersion != receipt.Version {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The receipt has been modified by another user")
		}

		receipt.Version++
		receipt.UpdatedAt = time.Now()

		result := tx.Model(&procurement.GoodsReceipt{}).
			Where("id = ? AND version = ?", receipt.ID, currentVersion).
			Updates(map[string]interface{}{
				"status":        receipt.Status,
				"supplier_id":   receipt.SupplierID,
				"supplier_name": receipt.SupplierName,
				"received_at":   receipt.ReceivedAt,
				"completed_at":  receipt.CompletedAt,
				"remark":        receipt.Remark,
				"version":       receipt.Version,
				"updated_at":    receipt.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The receipt has been modified by another user")
		}

		return r.saveItems(tx, receipt)
	})
}

// saveItems reconciles the receipt's lines with the aggregate's current state
func (r *GormGoodsReceiptRepository) saveItems(tx *gorm.DB, receipt *procurement.GoodsReceipt) error {
	currentItemIDs := make([]uuid.UUID, len(receipt.Items))
	for i, item := range receipt.Items {
		currentItemIDs[i] = item.ID
	}

	if len(currentItemIDs) > 0 {
		if err := tx.Where("receipt_id = ? AND id NOT IN ?", receipt.ID, currentItemIDs).
			Delete(&procurement.GoodsReceiptItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("receipt_id = ?", receipt.ID).
			Delete(&procurement.GoodsReceiptItem{}).Error; err != nil {
			return err
		}
	}

	for i := range receipt.Items {
		receipt.Items[i].ReceiptID = receipt.ID
		if err := tx.Save(&receipt.Items[i]).Error; err != nil {
			return err
		}
	}

	return nil
}

// ExistsByReceiptNumber checks if a receipt number exists
func (r *GormGoodsReceiptRepository) ExistsByReceiptNumber(ctx context.Context, receiptNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&procurement.GoodsReceipt{}).
		Where("receipt_number = ?", receiptNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GenerateReceiptNumber generates a unique receipt number.
// Format: GRN-YYYY-NNNNN (e.g., GRN-2026-00001)
func (r *GormGoodsReceiptRepository) GenerateReceiptNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("GRN-%d-", year)

	var lastReceipt procurement.GoodsReceipt
	err := r.db.WithContext(ctx).
		Model(&procurement.GoodsReceipt{}).
		Where("receipt_number LIKE ?", prefix+"%").
		Order("receipt_number DESC").
		First(&lastReceipt).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastReceipt.ReceiptNumber != "" {
		parts := strings.Split(lastReceipt.ReceiptNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	receiptNumber := fmt.Sprintf("%s%05d", prefix, nextNum)

	exists, err := r.ExistsByReceiptNumber(ctx, receiptNumber)
	if err != nil {
		return "", err
	}
	if exists {
		for i := 0; i < 100; i++ {
			nextNum++
			receiptNumber = fmt.Sprintf("%s%05d", prefix, nextNum)
			exists, err = r.ExistsByReceiptNumber(ctx, receiptNumber)
			if err != nil {
				return "", err
			}
			if !exists {
				break
			}
		}
	}

	return receiptNumber, nil
}

// applyFilter applies filter options to the query
func (r *GormGoodsReceiptRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, GoodsReceiptSortFields, "")
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
func (r *GormGoodsReceiptRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("receipt_number ILIKE ? OR supplier_name ILIKE ?",
			searchPattern, searchPattern)
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
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("received_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("received_at <= ?", t)
			}
		}
	}

	return query
}

// Ensure GormGoodsReceiptRepository implements GoodsReceiptRepository
var _ procurement.GoodsReceiptRepository = (*GormGoodsReceiptRepository)(nil)
