package procurement

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/temple-erp/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeGoodsReceipt = "GoodsReceipt"

// Event type constants
const (
	EventTypeGoodsReceiptCreated   = "GoodsReceiptCreated"
	EventTypeGoodsReceiptCompleted = "GoodsReceiptCompleted"
)

// GoodsReceiptCreatedEvent is raised when a new goods receipt is created
type GoodsReceiptCreatedEvent struct {
	shared.BaseDomainEvent
	ReceiptID       uuid.UUID        `json:"receipt_id"`
	ReceiptNumber   string           `json:"receipt_number"`
	Type            GoodsReceiptType `json:"type"`
	SupplierID      uuid.UUID        `json:"supplier_id"`
	PurchaseOrderID *uuid.UUID       `json:"purchase_order_id,omitempty"`
}

// NewGoodsReceiptCreatedEvent creates a new GoodsReceiptCreatedEvent
func NewGoodsReceiptCreatedEvent(receipt *GoodsReceipt) *GoodsReceiptCreatedEvent {
	return &GoodsReceiptCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGoodsReceiptCreated, AggregateTypeGoodsReceipt, receipt.ID),
		ReceiptID:       receipt.ID,
		ReceiptNumber:   receipt.ReceiptNumber,
		Type:            receipt.Type,
		SupplierID:      receipt.SupplierID,
		PurchaseOrderID: receipt.PurchaseOrderID,
	}
}

// EventType returns the event type name
func (e *GoodsReceiptCreatedEvent) EventType() string {
	return EventTypeGoodsReceiptCreated
}

// GoodsReceiptCompletedEvent is raised when a goods receipt is completed.
// For PO-based receipts this marks the moment the accepted quantities are
// committed to the purchase order.
type GoodsReceiptCompletedEvent struct {
	shared.BaseDomainEvent
	ReceiptID       uuid.UUID        `json:"receipt_id"`
	ReceiptNumber   string           `json:"receipt_number"`
	Type            GoodsReceiptType `json:"type"`
	SupplierID      uuid.UUID        `json:"supplier_id"`
	PurchaseOrderID *uuid.UUID       `json:"purchase_order_id,omitempty"`
	TotalAccepted   decimal.Decimal  `json:"total_accepted"`
	TotalRejected   decimal.Decimal  `json:"total_rejected"`
}

// NewGoodsReceiptCompletedEvent creates a new GoodsReceiptCompletedEvent
func NewGoodsReceiptCompletedEvent(receipt *GoodsReceipt) *GoodsReceiptCompletedEvent {
	return &GoodsReceiptCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGoodsReceiptCompleted, AggregateTypeGoodsReceipt, receipt.ID),
		ReceiptID:       receipt.ID,
		ReceiptNumber:   receipt.ReceiptNumber,
		Type:            receipt.Type,
		SupplierID:      receipt.SupplierID,
		PurchaseOrderID: receipt.PurchaseOrderID,
		TotalAccepted:   receipt.TotalAcceptedQuantity(),
		TotalRejected:   receipt.TotalRejectedQuantity(),
	}
}

// EventType returns the event type name
func (e *GoodsReceiptCompletedEvent) EventType() string {
	return EventTypeGoodsReceiptCompleted
}
