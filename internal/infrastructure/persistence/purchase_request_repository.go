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

// GormPurchaseRequestRepository implements PurchaseRequestRepository using GORM
type GormPurchaseRequestRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRequestRepository creates a new GormPurchaseRequestRepository
func NewGormPurchaseRequestRepository(db *gorm.DB) *GormPurchaseRequestRepository {
	return &GormPurchaseRequestRepository{db: db}
}

// FindByID finds a purchase request by its ID, items and conversion ledgers included
func (r *GormPurchaseRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.PurchaseRequest, error) {
	var request procurement.PurchaseRequest
	if err := r.db.WithContext(ctx).
		Preload("Items.Conversions").
		Preload("Items").
		First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindByRequestNumber finds a purchase request by request number
func (r *GormPurchaseRequestRepository) FindByRequestNumber(ctx context.Context, requestNumber string) (*procurement.PurchaseRequest, error) {
	var request procurement.PurchaseRequest
	if err := r.db.WithContext(ctx).
		Preload("Items.Conversions").
		Preload("Items").
		Where("request_number = ?", requestNumber).
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindAll finds purchase requests with filtering
func (r *GormPurchaseRequestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]procurement.PurchaseRequest, error) {
	var requests []procurement.PurchaseRequest

	query := r.db.WithContext(ctx).Model(&procurement.PurchaseRequest{})
	query = r.applyFilter(query, filter)

	if err := query.Preload("Items.Conversions").Preload("Items").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// Count counts purchase requests matching the filter
func (r *GormPurchaseRequestRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&procurement.PurchaseRequest{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a purchase request
func (r *GormPurchaseRequestRepository) Save(ctx context.Context, request *procurement.PurchaseRequest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(request).Error; err != nil {
			return err
		}

		if request.ID != uuid.Nil {
			if err := r.saveItems(tx, request); err != nil {
				return err
			}
		}

		return nil
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormPurchaseRequestRepository) SaveWithLock(ctx context.Context, request *procurement.PurchaseRequest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Scan reports a missing row through RowsAffected, not ErrRecordNotFound
		var currentVersion int
		lookup := tx.Model(&procurement.PurchaseRequest{}).
			Where("id = ?", request.ID).
			Select("version").
			Scan(&currentVersion)
		if lookup.Error != nil {
			return lookup.Error
		}
		if lookup.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		if currentVersion != request.Version {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The request has been modified by another user")
		}

		request.Version++
		request.UpdatedAt = time.Now()

		result := tx.Model(&procurement.PurchaseRequest{}).
			Where("id = ? AND version = ?", request.ID, currentVersion).
			Updates(map[string]interface{}{
				"request_date":  request.RequestDate,
				"priority":      request.Priority,
				"purpose":       request.Purpose,
				"status":        request.Status,
				"cancelled_at":  request.CancelledAt,
				"cancel_reason": request.CancelReason,
				"version":       request.Version,
				"updated_at":    request.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The request has been modified by another user")
		}

		return r.saveItems(tx, request)
	})
}

// saveItems reconciles request items and their conversion ledgers with the
// aggregate's current state
func (r *GormPurchaseRequestRepository) saveItems(tx *gorm.DB, request *procurement.PurchaseRequest) error {
	currentItemIDs := make([]uuid.UUID, len(request.Items))
	for i, item := range request.Items {
		currentItemIDs[i] = item.ID
	}

	if len(currentItemIDs) > 0 {
		if err := tx.Where("request_item_id IN (?)",
			tx.Session(&gorm.Session{NewDB: true}).
				Model(&procurement.PurchaseRequestItem{}).
				Select("id").
				Where("request_id = ? AND id NOT IN ?", request.ID, currentItemIDs)).
			Delete(&procurement.ConversionRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("request_id = ? AND id NOT IN ?", request.ID, currentItemIDs).
			Delete(&procurement.PurchaseRequestItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("request_item_id IN (?)",
			tx.Session(&gorm.Session{NewDB: true}).
				Model(&procurement.PurchaseRequestItem{}).
				Select("id").
				Where("request_id = ?", request.ID)).
			Delete(&procurement.ConversionRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("request_id = ?", request.ID).
			Delete(&procurement.PurchaseRequestItem{}).Error; err != nil {
			return err
		}
	}

	for i := range request.Items {
		request.Items[i].RequestID = request.ID
		if err := tx.Omit("Conversions").Save(&request.Items[i]).Error; err != nil {
			return err
		}
		// The conversion ledger is append-only; Save covers both new and
		// already-persisted entries
		for j := range request.Items[i].Conversions {
			request.Items[i].Conversions[j].RequestItemID = request.Items[i].ID
			if err := tx.Save(&request.Items[i].Conversions[j]).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// Delete deletes a purchase request together with its items and ledgers
func (r *GormPurchaseRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("request_item_id IN (?)",
			tx.Session(&gorm.Session{NewDB: true}).
				Model(&procurement.PurchaseRequestItem{}).
				Select("id").
				Where("request_id = ?", id)).
			Delete(&procurement.ConversionRecord{}).Error; err != nil {
			return err
		}

		if err := tx.Where("request_id = ?", id).Delete(&procurement.PurchaseRequestItem{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&procurement.PurchaseRequest{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// ExistsByRequestNumber checks if a request number exists
func (r *GormPurchaseRequestRepository) ExistsByRequestNumber(ctx context.Context, requestNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&procurement.PurchaseRequest{}).
		Where("request_number = ?", requestNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GenerateRequestNumber generates a unique request number.
// Format: PR-YYYY-NNNNN (e.g., PR-2026-00001)
func (r *GormPurchaseRequestRepository) GenerateRequestNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("PR-%d-", year)

	var lastRequest procurement.PurchaseRequest
	err := r.db.WithContext(ctx).
		Model(&procurement.PurchaseRequest{}).
		Where("request_number LIKE ?", prefix+"%").
		Order("request_number DESC").
		First(&lastRequest).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastRequest.RequestNumber != "" {
		parts := strings.Split(lastRequest.RequestNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	requestNumber := fmt.Sprintf("%s%05d", prefix, nextNum)

	exists, err := r.ExistsByRequestNumber(ctx, requestNumber)
	if err != nil {
		return "", err
	}
	if exists {
		for i := 0; i < 100; i++ {
			nextNum++
			requestNumber = fmt.Sprintf("%s%05d", prefix, nextNum)
			exists, err = r.ExistsByRequestNumber(ctx, requestNumber)
			if err != nil {
				return "", err
			}
			if !exists {
				break
			}
		}
	}

	return requestNumber, nil
}

// applyFilter applies filter options to the query
func (r *GormPurchaseRequestRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, PurchaseRequestSortFields, "")
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
func (r *GormPurchaseRequestRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("request_number ILIKE ? OR purpose ILIKE ?",
			searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "statuses":
			if statuses, ok := value.([]string); ok && len(statuses) > 0 {
				query = query.Where("status IN ?", statuses)
			}
		case "priority":
			query = query.Where("priority = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("request_date >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("request_date <= ?", t)
			}
		}
	}

	return query
}

// Ensure GormPurchaseRequestRepository implements PurchaseRequestRepository
var _ procurement.PurchaseRequestRepository = (*GormPurchaseRequestRepository)(nil)
