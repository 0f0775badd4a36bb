package procurement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/temple-erp/backend/internal/domain/shared"
)

// PaymentMode represents how a payment is made
type PaymentMode string

const (
	PaymentModeCash         PaymentMode = "CASH"
	PaymentModeCheque       PaymentMode = "CHEQUE"
	PaymentModeBankTransfer PaymentMode = "BANK_TRANSFER"
	PaymentModeUPI          PaymentMode = "UPI"
	PaymentModeCard         PaymentMode = "CARD"
)

// IsValid checks if the mode is a valid PaymentMode
func (m PaymentMode) IsValid() bool {
	switch m {
	case PaymentModeCash, PaymentModeCheque, PaymentModeBankTransfer, PaymentModeUPI, PaymentModeCard:
		return true
	}
	return false
}

// String returns the string representation of PaymentMode
func (m PaymentMode) String() string {
	return string(m)
}

// RequiresBankDetails returns true for modes that need bank metadata
func (m PaymentMode) RequiresBankDetails() bool {
	return m == PaymentModeCheque
}

// PaymentStatus represents the status of a payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	switch s {
	case PaymentStatusPending:
		return target == PaymentStatusCompleted || target == PaymentStatusFailed ||
			target == PaymentStatusCancelled
	case PaymentStatusCompleted:
		return target == PaymentStatusCancelled
	case PaymentStatusFailed, PaymentStatusCancelled:
		return false // Terminal states
	}
	return false
}

// DefaultChequeValidityMonths is the window within which a cheque date
// must fall relative to the payment date
const DefaultChequeValidityMonths = 6

// Payment represents a supplier payment aggregate root applied against a
// posted purchase invoice
type Payment struct {
	shared.BaseAggregateRoot
	PaymentNumber   string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	InvoiceID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	SupplierID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Mode            PaymentMode     `gorm:"type:varchar(20);not null"`
	ReferenceNumber string          `gorm:"type:varchar(100);index"`
	BankName        string          `gorm:"type:varchar(200)"`
	ChequeDate      *time.Time
	PaymentDate     time.Time     `gorm:"not null"`
	Status          PaymentStatus `gorm:"type:varchar(10);not null;default:'PENDING'"`
	CompletedAt     *time.Time
	FailedAt        *time.Time
	FailReason      string `gorm:"type:varchar(500)"`
	CancelledAt     *time.Time
	CancelReason    string `gorm:"type:varchar(500)"`
	Remark          string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPaymentInput carries the caller-supplied values for a payment
type NewPaymentInput struct {
	PaymentNumber   string
	InvoiceID       uuid.UUID
	SupplierID      uuid.UUID
	Amount          decimal.Decimal
	Mode            PaymentMode
	ReferenceNumber string
	BankName        string
	ChequeDate      *time.Time
	PaymentDate     time.Time
	Remark          string
	// ChequeValidityMonths overrides the default cheque window when > 0
	ChequeValidityMonths int
}

// NewPayment creates a new payment in PENDING status, validating
// mode-specific requirements. The balance ceiling is enforced by the
// invoice aggregate when the payment is applied.
func NewPayment(input NewPaymentInput) (*Payment, error) {
	if input.PaymentNumber == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_NUMBER", "Payment number cannot be empty")
	}
	if input.InvoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}
	if input.SupplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !input.Mode.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_MODE", "Payment mode is not recognized")
	}
	if input.PaymentDate.IsZero() {
		input.PaymentDate = time.Now()
	}

	if input.Mode == PaymentModeCheque {
		if input.BankName == "" {
			return nil, shared.NewDomainError("INVALID_BANK_NAME", "Cheque payments require a bank name")
		}
		if input.ChequeDate == nil {
			return nil, shared.NewDomainError("INVALID_CHEQUE_DATE", "Cheque payments require a cheque date")
		}
		months := input.ChequeValidityMonths
		if months <= 0 {
			months = DefaultChequeValidityMonths
		}
		earliest := input.PaymentDate.AddDate(0, -months, 0)
		latest := input.PaymentDate.AddDate(0, months, 0)
		if input.ChequeDate.Before(earliest) || input.ChequeDate.After(latest) {
			return nil, shared.NewDomainError("INVALID_CHEQUE_DATE",
				fmt.Sprintf("Cheque date must be within %d months of the payment date", months))
		}
	}

	payment := &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PaymentNumber:     input.PaymentNumber,
		InvoiceID:         input.InvoiceID,
		SupplierID:        input.SupplierID,
		Amount:            input.Amount,
		Mode:              input.Mode,
		ReferenceNumber:   input.ReferenceNumber,
		BankName:          input.BankName,
		ChequeDate:        input.ChequeDate,
		PaymentDate:       input.PaymentDate,
		Status:            PaymentStatusPending,
		Remark:            input.Remark,
	}

	payment.AddDomainEvent(NewPaymentCreatedEvent(payment))

	return payment, nil
}

// Complete marks the payment COMPLETED
func (p *Payment) Complete() error {
	if !p.Status.CanTransitionTo(PaymentStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete payment in %s status", p.Status))
	}

	now := time.Now()
	p.Status = PaymentStatusCompleted
	p.CompletedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentCompletedEvent(p))

	return nil
}

// Fail marks the payment FAILED
func (p *Payment) Fail(reason string) error {
	if !p.Status.CanTransitionTo(PaymentStatusFailed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot fail payment in %s status", p.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Fail reason is required")
	}

	now := time.Now()
	p.Status = PaymentStatusFailed
	p.FailedAt = &now
	p.FailReason = reason
	p.UpdatedAt = now
	p.IncrementVersion()

	return nil
}

// Cancel cancels the payment. Cancelling a completed payment requires the
// caller to restore the invoice balance in the same transaction.
func (p *Payment) Cancel(reason string) error {
	if !p.Status.CanTransitionTo(PaymentStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel payment in %s status", p.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	p.Status = PaymentStatusCancelled
	p.CancelledAt = &now
	p.CancelReason = reason
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentCancelledEvent(p))

	return nil
}

// IsCompleted returns true if the payment has been completed
func (p *Payment) IsCompleted() bool {
	return p.Status == PaymentStatusCompleted
}

// IsCancelled returns true if the payment has been cancelled
func (p *Payment) IsCancelled() bool {
	return p.Status == PaymentStatusCancelled
}
