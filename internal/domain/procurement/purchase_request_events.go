package procurement

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/temple-erp/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypePurchaseRequest = "PurchaseRequest"

// Event type constants
const (
	EventTypePurchaseRequestCreated   = "PurchaseRequestCreated"
	EventTypePurchaseRequestConverted = "PurchaseRequestConverted"
	EventTypePurchaseRequestCancelled = "PurchaseRequestCancelled"
)

// PurchaseRequestCreatedEvent is raised when a new purchase request is created
type PurchaseRequestCreatedEvent struct {
	shared.BaseDomainEvent
	RequestID     uuid.UUID               `json:"request_id"`
	RequestNumber string                  `json:"request_number"`
	Priority      PurchaseRequestPriority `json:"priority"`
}

// NewPurchaseRequestCreatedEvent creates a new PurchaseRequestCreatedEvent
func NewPurchaseRequestCreatedEvent(request *PurchaseRequest) *PurchaseRequestCreatedEvent {
	return &PurchaseRequestCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseRequestCreated, AggregateTypePurchaseRequest, request.ID),
		RequestID:       request.ID,
		RequestNumber:   request.RequestNumber,
		Priority:        request.Priority,
	}
}

// EventType returns the event type name
func (e *PurchaseRequestCreatedEvent) EventType() string {
	return EventTypePurchaseRequestCreated
}

// PurchaseRequestConvertedEvent is raised when quantity from a request item
// is committed to a purchase order line
type PurchaseRequestConvertedEvent struct {
	shared.BaseDomainEvent
	RequestID       uuid.UUID             `json:"request_id"`
	RequestNumber   string                `json:"request_number"`
	RequestItemID   uuid.UUID             `json:"request_item_id"`
	SupplierID      uuid.UUID             `json:"supplier_id"`
	PurchaseOrderID uuid.UUID             `json:"purchase_order_id"`
	Quantity        decimal.Decimal       `json:"quantity"`
	RequestStatus   PurchaseRequestStatus `json:"request_status"`
}

// NewPurchaseRequestConvertedEvent creates a new PurchaseRequestConvertedEvent
func NewPurchaseRequestConvertedEvent(request *PurchaseRequest, itemID, supplierID, poID uuid.UUID, quantity decimal.Decimal) *PurchaseRequestConvertedEvent {
	return &PurchaseRequestConvertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseRequestConverted, AggregateTypePurchaseRequest, request.ID),
		RequestID:       request.ID,
		RequestNumber:   request.RequestNumber,
		RequestItemID:   itemID,
		SupplierID:      supplierID,
		PurchaseOrderID: poID,
		Quantity:        quantity,
		RequestStatus:   request.Status,
	}
}

// EventType returns the event type name
func (e *PurchaseRequestConvertedEvent) EventType() string {
	return EventTypePurchaseRequestConverted
}

// PurchaseRequestCancelledEvent is raised when a purchase request is cancelled
type PurchaseRequestCancelledEvent struct {
	shared.BaseDomainEvent
	RequestID     uuid.UUID `json:"request_id"`
	RequestNumber string    `json:"request_number"`
	CancelReason  string    `json:"cancel_reason"`
}

// NewPurchaseRequestCancelledEvent creates a new PurchaseRequestCancelledEvent
func NewPurchaseRequestCancelledEvent(request *PurchaseRequest) *PurchaseRequestCancelledEvent {
	return &PurchaseRequestCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseRequestCancelled, AggregateTypePurchaseRequest, request.ID),
		RequestID:       request.ID,
		RequestNumber:   request.RequestNumber,
		CancelReason:    request.CancelReason,
	}
}

// EventType returns the event type name
func (e *PurchaseRequestCancelledEvent) EventType() string {
	return EventTypePurchaseRequestCancelled
}
