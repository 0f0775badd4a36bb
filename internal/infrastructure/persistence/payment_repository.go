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

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by its ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.Payment, error) {
	var payment procurement.Payment
	if err := r.db.WithContext(ctx).
		First(&payment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindByPaymentNumber finds a payment by payment number
func (r *GormPaymentRepository) FindByPaymentNumber(ctx context.Context, paymentNumber string) (*procurement.Payment, error) {
	var payment procurement.Payment
	if err := r.db.WithContext(ctx).
		Where("payment_number = ?", paymentNumber).
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindAll finds payments with filtering
func (r *GormPaymentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]procurement.Payment, error) {
	var payments []procurement.Payment

	query := r.db.WithContext(ctx).Model(&procurement.Payment{})
	query = r.applyFilter(query, filter)

	if err := query.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// FindByInvoice finds payments applied against an invoice
func (r *GormPaymentRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]procurement.Payment, error) {
	var payments []procurement.Payment

	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("payment_date ASC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// Count counts payments matching the filter
func (r *GormPaymentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&procurement.Payment{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByReference reports whether a non-cancelled payment with the given
// reference number exists for the supplier
func (r *GormPaymentRepository) ExistsByReference(ctx context.Context, supplierID uuid.UUID, referenceNumber string) (bool, error) {
	if referenceNumber == "" {
		return false, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&procurement.Payment{}).
		Where("supplier_id = ? AND reference_number = ? AND status <> ?",
			supplierID, referenceNumber, procurement.PaymentStatusCancelled).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a payment
func (r *GormPaymentRepository) Save(ctx context.Context, payment *procurement.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormPaymentRepository) SaveWithLock(ctx context.Context, payment *procurement.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Scan reports a missing row through RowsAffected, not ErrRecordNotFound
		var currentVersion int
		lookup := tx.Model(&procurement.Payment{}).
			Where("id = ?", payment.ID).
			Select("version").
			Scan(&currentVersion)
		if lookup.Error != nil {
			return lookup.Error
		}
		if lookup.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		if currentVersion != payment.Version {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The payment has been modified by another user")
		}

		payment.Version++
		payment.UpdatedAt = time.Now()

		result := tx.Model(&procurement.Payment{}).
			Where("id = ? AND version = ?", payment.ID, currentVersion).
			Updates(map[string]interface{}{
				"amount":           payment.Amount,
				"mode":             payment.Mode,
				"reference_number": payment.ReferenceNumber,
				"bank_name":        payment.BankName,
				"cheque_date":      payment.ChequeDate,
				"payment_date":     payment.PaymentDate,
				"status":           payment.Status,
				"completed_at":     payment.CompletedAt,
				"failed_at":        payment.FailedAt,
				"fail_reason":      payment.FailReason,
				"cancelled_at":     payment.CancelledAt,
				"cancel_reason":    payment.CancelReason,
				"remark":           payment.Remark,
				"version":          payment.Version,
				"updated_at":       payment.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The payment has been modified by another user")
		}

		return nil
	})
}

// ExistsByPaymentNumber checks if a payment number exists
func (r *GormPaymentRepository) ExistsByPaymentNumber(ctx context.Context, paymentNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&procurement.Payment{}).
		Where("payment_number = ?", paymentNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GeneratePaymentNumber generates a unique payment number.
// Format: PAY-YYYY-NNNNN (e.g., PAY-2026-00001)
func (r *GormPaymentRepository) GeneratePaymentNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("PAY-%d-", year)

	var lastPayment procurement.Payment
	err := r.db.WithContext(ctx).
		Model(&procurement.Payment{}).
		Where("payment_number LIKE ?", prefix+"%").
		Order("payment_number DESC").
		First(&lastPayment).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastPayment.PaymentNumber != "" {
		parts := strings.Split(lastPayment.PaymentNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	paymentNumber := fmt.Sprintf("%s%05d", prefix, nextNum)

	exists, err := r.ExistsByPaymentNumber(ctx, paymentNumber)
	if err != nil {
		return "", err
	}
	if exists {
		for i := 0; i < 100; i++ {
			nextNum++
			paymentNumber = fmt.Sprintf("%s%05d", prefix, nextNum)
			exists, err = r.ExistsByPaymentNumber(ctx, paymentNumber)
			if err != nil {
				return "", err
			}
			if !exists {
				break
			}
		}
	}

	return paymentNumber, nil
}

// applyFilter applies filter options to the query
func (r *GormPaymentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		sortField := ValidateSortField(filter.OrderBy, PaymentSortFields, "")
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
func (r *GormPaymentRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("payment_number ILIKE ? OR reference_number ILIKE ?",
			searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "invoice_id":
			query = query.Where("invoice_id = ?", value)
		case "mode":
			query = query.Where("mode = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("payment_date >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("payment_date <= ?", t)
			}
		}
	}

	return query
}

// Ensure GormPaymentRepository implements PaymentRepository
var _ procurement.PaymentRepository = (*GormPaymentRepository)(nil)
