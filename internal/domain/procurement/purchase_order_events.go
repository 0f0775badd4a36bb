package procurement

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/temple-erp/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypePurchaseOrder = "PurchaseOrder"

// Event type constants
const (
	EventTypePurchaseOrderCreated        = "PurchaseOrderCreated"
	EventTypePurchaseOrderSubmitted      = "PurchaseOrderSubmitted"
	EventTypePurchaseOrderApproved       = "PurchaseOrderApproved"
	EventTypePurchaseOrderRejected       = "PurchaseOrderRejected"
	EventTypePurchaseOrderReceiptApplied = "PurchaseOrderReceiptApplied"
	EventTypePurchaseOrderInvoiceApplied = "PurchaseOrderInvoiceApplied"
	EventTypePurchaseOrderCancelled      = "PurchaseOrderCancelled"
	EventTypePurchaseOrderClosed         = "PurchaseOrderClosed"
)

// PurchaseOrderCreatedEvent is raised when a new purchase order is created
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID `json:"order_id"`
	OrderNumber  string    `json:"order_number"`
	SupplierID   uuid.UUID `json:"supplier_id"`
	SupplierName string    `json:"supplier_name"`
}

// NewPurchaseOrderCreatedEvent creates a new PurchaseOrderCreatedEvent
func NewPurchaseOrderCreatedEvent(order *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCreated, AggregateTypePurchaseOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.Supplier.ID,
		SupplierName:    order.Supplier.Name,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderCreatedEvent) EventType() string {
	return EventTypePurchaseOrderCreated
}

// PurchaseOrderSubmittedEvent is raised when an order is submitted for approval
type PurchaseOrderSubmittedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	SupplierID  uuid.UUID       `json:"supplier_id"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
}

// NewPurchaseOrderSubmittedEvent creates a new PurchaseOrderSubmittedEvent
func NewPurchaseOrderSubmittedEvent(order *PurchaseOrder) *PurchaseOrderSubmittedEvent {
	return &PurchaseOrderSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderSubmitted, AggregateTypePurchaseOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.Supplier.ID,
		GrandTotal:      order.GrandTotal,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderSubmittedEvent) EventType() string {
	return EventTypePurchaseOrderSubmitted
}

// PurchaseOrderApprovedEvent is raised when an order is approved
type PurchaseOrderApprovedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	ApprovedBy  uuid.UUID       `json:"approved_by"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
}

// NewPurchaseOrderApprovedEvent creates a new PurchaseOrderApprovedEvent
func NewPurchaseOrderApprovedEvent(order *PurchaseOrder, approverID uuid.UUID) *PurchaseOrderApprovedEvent {
	return &PurchaseOrderApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderApproved, AggregateTypePurchaseOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		ApprovedBy:      approverID,
		GrandTotal:      order.GrandTotal,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderApprovedEvent) EventType() string {
	return EventTypePurchaseOrderApproved
}

// PurchaseOrderRejectedEvent is raised when an order is rejected
type PurchaseOrderRejectedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID `json:"order_id"`
	OrderNumber  string    `json:"order_number"`
	RejectedBy   uuid.UUID `json:"rejected_by"`
	RejectReason string    `json:"reject_reason"`
}

// NewPurchaseOrderRejectedEvent creates a new PurchaseOrderRejectedEvent
func NewPurchaseOrderRejectedEvent(order *PurchaseOrder, approverID uuid.UUID) *PurchaseOrderRejectedEvent {
	return &PurchaseOrderRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderRejected, AggregateTypePurchaseOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		RejectedBy:      approverID,
		RejectReason:    order.RejectReason,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderRejectedEvent) EventType() string {
	return EventTypePurchaseOrderRejected
}

// PurchaseOrderReceiptAppliedEvent is raised when a completed goods receipt
// updates the order's received counters
type PurchaseOrderReceiptAppliedEvent struct {
	shared.BaseDomainEvent
	OrderID         uuid.UUID           `json:"order_id"`
	OrderNumber     string              `json:"order_number"`
	Status          PurchaseOrderStatus `json:"status"`
	IsFullyReceived bool                `json:"is_fully_received"`
}

// NewPurchaseOrderReceiptAppliedEvent creates a new PurchaseOrderReceiptAppliedEvent
func NewPurchaseOrderReceiptAppliedEvent(order *PurchaseOrder) *PurchaseOrderReceiptAppliedEvent {
	return &PurchaseOrderReceiptAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderReceiptApplied, AggregateTypePurchaseOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		Status:          order.Status,
		IsFullyReceived: order.IsFullyReceived(),
	}
}

// EventType returns the event type name
func (e *PurchaseOrderReceiptAppliedEvent) EventType() string {
	return EventTypePurchaseOrderReceiptApplied
}

// PurchaseOrderInvoiceAppliedEvent is raised when a posted invoice updates
// the order's invoiced counters
type PurchaseOrderInvoiceAppliedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID                  `json:"order_id"`
	OrderNumber   string                     `json:"order_number"`
	InvoiceStatus PurchaseOrderInvoiceStatus `json:"invoice_status"`
}

// NewPurchaseOrderInvoiceAppliedEvent creates a new PurchaseOrderInvoiceAppliedEvent
func NewPurchaseOrderInvoiceAppliedEvent(order *PurchaseOrder) *PurchaseOrderInvoiceAppliedEvent {
	return &PurchaseOrderInvoiceAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderInvoiceApplied, AggregateTypePurchaseOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		InvoiceStatus:   order.InvoiceStatus,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderInvoiceAppliedEvent) EventType() string {
	return EventTypePurchaseOrderInvoiceApplied
}

// PurchaseOrderCancelledEvent is raised when an order is cancelled
type PurchaseOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID `json:"order_id"`
	OrderNumber  string    `json:"order_number"`
	SupplierID   uuid.UUID `json:"supplier_id"`
	CancelReason string    `json:"cancel_reason"`
}

// NewPurchaseOrderCancelledEvent creates a new PurchaseOrderCancelledEvent
func NewPurchaseOrderCancelledEvent(order *PurchaseOrder) *PurchaseOrderCancelledEvent {
	return &PurchaseOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCancelled, AggregateTypePurchaseOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.Supplier.ID,
		CancelReason:    order.CancelReason,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderCancelledEvent) EventType() string {
	return EventTypePurchaseOrderCancelled
}

// PurchaseOrderClosedEvent is raised when a fully received order is closed
type PurchaseOrderClosedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
}

// NewPurchaseOrderClosedEvent creates a new PurchaseOrderClosedEvent
func NewPurchaseOrderClosedEvent(order *PurchaseOrder) *PurchaseOrderClosedEvent {
	return &PurchaseOrderClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderClosed, AggregateTypePurchaseOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderClosedEvent) EventType() string {
	return EventTypePurchaseOrderClosed
}
