package procurement

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/temple-erp/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypePurchaseInvoice = "PurchaseInvoice"

// Event type constants
const (
	EventTypePurchaseInvoiceCreated        = "PurchaseInvoiceCreated"
	EventTypePurchaseInvoicePosted         = "PurchaseInvoicePosted"
	EventTypePurchaseInvoicePaymentApplied = "PurchaseInvoicePaymentApplied"
)

// PurchaseInvoiceCreatedEvent is raised when a new purchase invoice is created
type PurchaseInvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID       uuid.UUID           `json:"invoice_id"`
	InvoiceNumber   string              `json:"invoice_number"`
	Type            PurchaseInvoiceType `json:"type"`
	SupplierID      uuid.UUID           `json:"supplier_id"`
	PurchaseOrderID *uuid.UUID          `json:"purchase_order_id,omitempty"`
}

// NewPurchaseInvoiceCreatedEvent creates a new PurchaseInvoiceCreatedEvent
func NewPurchaseInvoiceCreatedEvent(invoice *PurchaseInvoice) *PurchaseInvoiceCreatedEvent {
	return &PurchaseInvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseInvoiceCreated, AggregateTypePurchaseInvoice, invoice.ID),
		InvoiceID:       invoice.ID,
		InvoiceNumber:   invoice.InvoiceNumber,
		Type:            invoice.Type,
		SupplierID:      invoice.SupplierID,
		PurchaseOrderID: invoice.PurchaseOrderID,
	}
}

// EventType returns the event type name
func (e *PurchaseInvoiceCreatedEvent) EventType() string {
	return EventTypePurchaseInvoiceCreated
}

// PurchaseInvoicePostedEvent is raised when an invoice is posted.
// Downstream this drives the payable-side financial entry.
type PurchaseInvoicePostedEvent struct {
	shared.BaseDomainEvent
	InvoiceID       uuid.UUID           `json:"invoice_id"`
	InvoiceNumber   string              `json:"invoice_number"`
	Type            PurchaseInvoiceType `json:"type"`
	SupplierID      uuid.UUID           `json:"supplier_id"`
	SupplierName    string              `json:"supplier_name"`
	PurchaseOrderID *uuid.UUID          `json:"purchase_order_id,omitempty"`
	GrandTotal      decimal.Decimal     `json:"grand_total"`
}

// NewPurchaseInvoicePostedEvent creates a new PurchaseInvoicePostedEvent
func NewPurchaseInvoicePostedEvent(invoice *PurchaseInvoice) *PurchaseInvoicePostedEvent {
	return &PurchaseInvoicePostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseInvoicePosted, AggregateTypePurchaseInvoice, invoice.ID),
		InvoiceID:       invoice.ID,
		InvoiceNumber:   invoice.InvoiceNumber,
		Type:            invoice.Type,
		SupplierID:      invoice.SupplierID,
		SupplierName:    invoice.SupplierName,
		PurchaseOrderID: invoice.PurchaseOrderID,
		GrandTotal:      invoice.GrandTotal,
	}
}

// EventType returns the event type name
func (e *PurchaseInvoicePostedEvent) EventType() string {
	return EventTypePurchaseInvoicePosted
}

// PurchaseInvoicePaymentAppliedEvent is raised when a payment decrements
// the invoice balance
type PurchaseInvoicePaymentAppliedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID            `json:"invoice_id"`
	InvoiceNumber string               `json:"invoice_number"`
	Amount        decimal.Decimal      `json:"amount"`
	BalanceAmount decimal.Decimal      `json:"balance_amount"`
	PaymentStatus InvoicePaymentStatus `json:"payment_status"`
}

// NewPurchaseInvoicePaymentAppliedEvent creates a new PurchaseInvoicePaymentAppliedEvent
func NewPurchaseInvoicePaymentAppliedEvent(invoice *PurchaseInvoice, amount decimal.Decimal) *PurchaseInvoicePaymentAppliedEvent {
	return &PurchaseInvoicePaymentAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseInvoicePaymentApplied, AggregateTypePurchaseInvoice, invoice.ID),
		InvoiceID:       invoice.ID,
		InvoiceNumber:   invoice.InvoiceNumber,
		Amount:          amount,
		BalanceAmount:   invoice.BalanceAmount,
		PaymentStatus:   invoice.PaymentStatus,
	}
}

// EventType returns the event type name
func (e *PurchaseInvoicePaymentAppliedEvent) EventType() string {
	return EventTypePurchaseInvoicePaymentApplied
}
