package procurement

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/temple-erp/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypePayment = "Payment"

// Event type constants
const (
	EventTypePaymentCreated   = "PaymentCreated"
	EventTypePaymentCompleted = "PaymentCompleted"
	EventTypePaymentCancelled = "PaymentCancelled"
)

// PaymentCreatedEvent is raised when a new payment is recorded
type PaymentCreatedEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID       `json:"payment_id"`
	PaymentNumber string          `json:"payment_number"`
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	SupplierID    uuid.UUID       `json:"supplier_id"`
	Amount        decimal.Decimal `json:"amount"`
	Mode          PaymentMode     `json:"mode"`
}

// NewPaymentCreatedEvent creates a new PaymentCreatedEvent
func NewPaymentCreatedEvent(payment *Payment) *PaymentCreatedEvent {
	return &PaymentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentCreated, AggregateTypePayment, payment.ID),
		PaymentID:       payment.ID,
		PaymentNumber:   payment.PaymentNumber,
		InvoiceID:       payment.InvoiceID,
		SupplierID:      payment.SupplierID,
		Amount:          payment.Amount,
		Mode:            payment.Mode,
	}
}

// EventType returns the event type name
func (e *PaymentCreatedEvent) EventType() string {
	return EventTypePaymentCreated
}

// PaymentCompletedEvent is raised when a payment completes and the
// invoice balance has been decremented
type PaymentCompletedEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID       `json:"payment_id"`
	PaymentNumber string          `json:"payment_number"`
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	SupplierID    uuid.UUID       `json:"supplier_id"`
	Amount        decimal.Decimal `json:"amount"`
	Mode          PaymentMode     `json:"mode"`
}

// NewPaymentCompletedEvent creates a new PaymentCompletedEvent
func NewPaymentCompletedEvent(payment *Payment) *PaymentCompletedEvent {
	return &PaymentCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentCompleted, AggregateTypePayment, payment.ID),
		PaymentID:       payment.ID,
		PaymentNumber:   payment.PaymentNumber,
		InvoiceID:       payment.InvoiceID,
		SupplierID:      payment.SupplierID,
		Amount:          payment.Amount,
		Mode:            payment.Mode,
	}
}

// EventType returns the event type name
func (e *PaymentCompletedEvent) EventType() string {
	return EventTypePaymentCompleted
}

// PaymentCancelledEvent is raised when a payment is cancelled
type PaymentCancelledEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID       `json:"payment_id"`
	PaymentNumber string          `json:"payment_number"`
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	Amount        decimal.Decimal `json:"amount"`
	CancelReason  string          `json:"cancel_reason"`
}

// NewPaymentCancelledEvent creates a new PaymentCancelledEvent
func NewPaymentCancelledEvent(payment *Payment) *PaymentCancelledEvent {
	return &PaymentCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentCancelled, AggregateTypePayment, payment.ID),
		PaymentID:       payment.ID,
		PaymentNumber:   payment.PaymentNumber,
		InvoiceID:       payment.InvoiceID,
		Amount:          payment.Amount,
		CancelReason:    payment.CancelReason,
	}
}

// EventType returns the event type name
func (e *PaymentCancelledEvent) EventType() string {
	return EventTypePaymentCancelled
}
