package procurement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/temple-erp/backend/internal/domain/shared"
)

// PurchaseRequestPriority represents the urgency of a purchase request
type PurchaseRequestPriority string

const (
	PurchaseRequestPriorityLow    PurchaseRequestPriority = "LOW"
	PurchaseRequestPriorityNormal PurchaseRequestPriority = "NORMAL"
	PurchaseRequestPriorityHigh   PurchaseRequestPriority = "HIGH"
	PurchaseRequestPriorityUrgent PurchaseRequestPriority = "URGENT"
)

// IsValid checks if the priority is a valid PurchaseRequestPriority
func (p PurchaseRequestPriority) IsValid() bool {
	switch p {
	case PurchaseRequestPriorityLow, PurchaseRequestPriorityNormal,
		PurchaseRequestPriorityHigh, PurchaseRequestPriorityUrgent:
		return true
	}
	return false
}

// String returns the string representation of PurchaseRequestPriority
func (p PurchaseRequestPriority) String() string {
	return string(p)
}

// PurchaseRequestStatus represents the conversion progress of a request.
// Apart from CANCELLED it is derived from the items' conversion ledgers,
// never set directly.
type PurchaseRequestStatus string

const (
	PurchaseRequestStatusPending          PurchaseRequestStatus = "PENDING"
	PurchaseRequestStatusPartialConverted PurchaseRequestStatus = "PARTIAL_CONVERTED"
	PurchaseRequestStatusConverted        PurchaseRequestStatus = "CONVERTED"
	PurchaseRequestStatusCancelled        PurchaseRequestStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PurchaseRequestStatus
func (s PurchaseRequestStatus) IsValid() bool {
	switch s {
	case PurchaseRequestStatusPending, PurchaseRequestStatusPartialConverted,
		PurchaseRequestStatusConverted, PurchaseRequestStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseRequestStatus
func (s PurchaseRequestStatus) String() string {
	return string(s)
}

// ConversionRecord is one entry in a request item's conversion ledger:
// a quantity committed to a specific supplier's purchase order line
type ConversionRecord struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	RequestItemID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	SupplierID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	POItemID        uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ConvertedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ConversionRecord) TableName() string {
	return "pr_item_conversions"
}

// PurchaseRequestItem represents a line item in a purchase request
type PurchaseRequestItem struct {
	ID                  uuid.UUID          `gorm:"type:uuid;primary_key"`
	RequestID           uuid.UUID          `gorm:"type:uuid;not null;index"`
	Item                ItemRef            `gorm:"embedded;embeddedPrefix:item_"`
	RequestedQuantity   decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	PreferredSupplierID *uuid.UUID         `gorm:"type:uuid"` // advisory only
	Remark              string             `gorm:"type:varchar(500)"`
	Conversions         []ConversionRecord `gorm:"foreignKey:RequestItemID;references:ID"`
	CreatedAt           time.Time          `gorm:"not null"`
	UpdatedAt           time.Time          `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseRequestItem) TableName() string {
	return "purchase_request_items"
}

// NewPurchaseRequestItem creates a new purchase request item.
// Service items carry a nominal quantity of 1 regardless of the input.
func NewPurchaseRequestItem(requestID uuid.UUID, item ItemRef, quantity decimal.Decimal, preferredSupplierID *uuid.UUID) (*PurchaseRequestItem, error) {
	if !item.Kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_ITEM_KIND", "Item kind must be PRODUCT or SERVICE")
	}
	if item.ID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item reference cannot be empty")
	}
	if item.IsService() {
		quantity = decimal.NewFromInt(1)
		item.Unit = ""
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	}

	now := time.Now()
	return &PurchaseRequestItem{
		ID:                  uuid.New(),
		RequestID:           requestID,
		Item:                item,
		RequestedQuantity:   quantity,
		PreferredSupplierID: preferredSupplierID,
		Conversions:         make([]ConversionRecord, 0),
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}

// ConvertedQuantity returns the sum of all ledger entries for this item
func (i *PurchaseRequestItem) ConvertedQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, c := range i.Conversions {
		total = total.Add(c.Quantity)
	}
	return total
}

// RemainingQuantity returns the quantity still available for conversion
func (i *PurchaseRequestItem) RemainingQuantity() decimal.Decimal {
	return RemainingToConvert(i.RequestedQuantity, i.ConvertedQuantity())
}

// IsFullyConverted returns true when no quantity remains to convert
func (i *PurchaseRequestItem) IsFullyConverted() bool {
	return i.RemainingQuantity().IsZero()
}

// HasConversions returns true if any quantity has been converted
func (i *PurchaseRequestItem) HasConversions() bool {
	return len(i.Conversions) > 0
}

// ConvertedQuantityForSupplier returns the quantity already committed to
// the given supplier
func (i *PurchaseRequestItem) ConvertedQuantityForSupplier(supplierID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for _, c := range i.Conversions {
		if c.SupplierID == supplierID {
			total = total.Add(c.Quantity)
		}
	}
	return total
}

// PurchaseRequest represents a purchase request aggregate root.
// It tracks a sourcing need from creation through conversion into one or
// more purchase orders, possibly split across suppliers.
type PurchaseRequest struct {
	shared.BaseAggregateRoot
	RequestNumber string                  `gorm:"type:varchar(50);not null;uniqueIndex"`
	RequestDate   time.Time               `gorm:"not null"`
	Priority      PurchaseRequestPriority `gorm:"type:varchar(10);not null;default:'NORMAL'"`
	Purpose       string                  `gorm:"type:varchar(500)"`
	Status        PurchaseRequestStatus   `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Items         []PurchaseRequestItem   `gorm:"foreignKey:RequestID;references:ID"`
	CancelledAt   *time.Time
	CancelReason  string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PurchaseRequest) TableName() string {
	return "purchase_requests"
}

// NewPurchaseRequest creates a new purchase request
func NewPurchaseRequest(requestNumber string, requestDate time.Time, priority PurchaseRequestPriority, purpose string) (*PurchaseRequest, error) {
	if requestNumber == "" {
		return nil, shared.NewDomainError("INVALID_REQUEST_NUMBER", "Request number cannot be empty")
	}
	if len(requestNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_REQUEST_NUMBER", "Request number cannot exceed 50 characters")
	}
	if priority == "" {
		priority = PurchaseRequestPriorityNormal
	}
	if !priority.IsValid() {
		return nil, shared.NewDomainError("INVALID_PRIORITY", "Priority must be LOW, NORMAL, HIGH or URGENT")
	}
	if requestDate.IsZero() {
		requestDate = time.Now()
	}

	request := &PurchaseRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RequestNumber:     requestNumber,
		RequestDate:       requestDate,
		Priority:          priority,
		Purpose:           purpose,
		Status:            PurchaseRequestStatusPending,
		Items:             make([]PurchaseRequestItem, 0),
	}

	request.AddDomainEvent(NewPurchaseRequestCreatedEvent(request))

	return request, nil
}

// AddItem adds a new item to the request.
// Rejected once any item carries a conversion.
func (r *PurchaseRequest) AddItem(item ItemRef, quantity decimal.Decimal, preferredSupplierID *uuid.UUID) (*PurchaseRequestItem, error) {
	if err := r.ensureModifiable(); err != nil {
		return nil, err
	}

	prItem, err := NewPurchaseRequestItem(r.ID, item, quantity, preferredSupplierID)
	if err != nil {
		return nil, err
	}

	r.Items = append(r.Items, *prItem)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return prItem, nil
}

// UpdateItemQuantity updates an item's requested quantity.
// Rejected once any item carries a conversion.
func (r *PurchaseRequest) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if err := r.ensureModifiable(); err != nil {
		return err
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	}

	for idx := range r.Items {
		if r.Items[idx].ID == itemID {
			if r.Items[idx].Item.IsService() {
				return shared.NewDomainError("INVALID_QUANTITY", "Service items have a fixed quantity of 1")
			}
			r.Items[idx].RequestedQuantity = quantity
			r.Items[idx].UpdatedAt = time.Now()
			r.UpdatedAt = time.Now()
			r.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Request item not found")
}

// RemoveItem removes an item from the request.
// Rejected once any item carries a conversion.
func (r *PurchaseRequest) RemoveItem(itemID uuid.UUID) error {
	if err := r.ensureModifiable(); err != nil {
		return err
	}

	for idx, item := range r.Items {
		if item.ID == itemID {
			r.Items = append(r.Items[:idx], r.Items[idx+1:]...)
			r.UpdatedAt = time.Now()
			r.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Request item not found")
}

// UpdateDetails updates the request header fields.
// Rejected once any item carries a conversion.
func (r *PurchaseRequest) UpdateDetails(priority PurchaseRequestPriority, purpose string) error {
	if err := r.ensureModifiable(); err != nil {
		return err
	}
	if !priority.IsValid() {
		return shared.NewDomainError("INVALID_PRIORITY", "Priority must be LOW, NORMAL, HIGH or URGENT")
	}

	r.Priority = priority
	r.Purpose = purpose
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// RecordConversion appends a ledger entry committing quantity from a
// request item to a purchase order line. The caller is expected to have
// created the PO line already; this method enforces the remaining-quantity
// ceiling and derives the aggregate status.
func (r *PurchaseRequest) RecordConversion(itemID, supplierID, poID, poItemID uuid.UUID, quantity decimal.Decimal) error {
	if r.Status == PurchaseRequestStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot convert a cancelled request")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Conversion quantity must be positive")
	}

	for idx := range r.Items {
		if r.Items[idx].ID != itemID {
			continue
		}
		remaining := r.Items[idx].RemainingQuantity()
		if quantity.GreaterThan(remaining) {
			return &OverConversionError{
				PRItemID:  itemID,
				Requested: quantity,
				Remaining: remaining,
			}
		}

		r.Items[idx].Conversions = append(r.Items[idx].Conversions, ConversionRecord{
			ID:              uuid.New(),
			RequestItemID:   itemID,
			SupplierID:      supplierID,
			PurchaseOrderID: poID,
			POItemID:        poItemID,
			Quantity:        quantity,
			ConvertedAt:     time.Now(),
		})
		r.Items[idx].UpdatedAt = time.Now()
		r.recalculateStatus()
		r.UpdatedAt = time.Now()
		r.IncrementVersion()

		r.AddDomainEvent(NewPurchaseRequestConvertedEvent(r, itemID, supplierID, poID, quantity))

		return nil
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Request item not found")
}

// Cancel cancels the request.
// Rejected once any item carries a conversion.
func (r *PurchaseRequest) Cancel(reason string) error {
	if r.Status == PurchaseRequestStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Request is already cancelled")
	}
	if r.hasAnyConversion() {
		return shared.NewDomainError("INVALID_STATE", "Cannot cancel a request after conversion has started")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	r.Status = PurchaseRequestStatusCancelled
	r.CancelledAt = &now
	r.CancelReason = reason
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewPurchaseRequestCancelledEvent(r))

	return nil
}

// IsFullyConverted returns true when every item is fully converted
func (r *PurchaseRequest) IsFullyConverted() bool {
	if len(r.Items) == 0 {
		return false
	}
	for idx := range r.Items {
		if !r.Items[idx].IsFullyConverted() {
			return false
		}
	}
	return true
}

// GetItem returns an item by its ID
func (r *PurchaseRequest) GetItem(itemID uuid.UUID) *PurchaseRequestItem {
	for idx := range r.Items {
		if r.Items[idx].ID == itemID {
			return &r.Items[idx]
		}
	}
	return nil
}

// ConvertibleItems returns items that still have remaining quantity
func (r *PurchaseRequest) ConvertibleItems() []PurchaseRequestItem {
	items := make([]PurchaseRequestItem, 0)
	for idx := range r.Items {
		if !r.Items[idx].IsFullyConverted() {
			items = append(items, r.Items[idx])
		}
	}
	return items
}

func (r *PurchaseRequest) ensureModifiable() error {
	if r.Status == PurchaseRequestStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a cancelled request")
	}
	if r.hasAnyConversion() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot modify request %s after conversion has started", r.RequestNumber))
	}
	return nil
}

func (r *PurchaseRequest) hasAnyConversion() bool {
	for idx := range r.Items {
		if r.Items[idx].HasConversions() {
			return true
		}
	}
	return false
}

// recalculateStatus re-derives the request status from the item ledgers
func (r *PurchaseRequest) recalculateStatus() {
	if r.Status == PurchaseRequestStatusCancelled {
		return
	}
	states := make([]FulfillmentState, 0, len(r.Items))
	for idx := range r.Items {
		states = append(states, DeriveFulfillment(r.Items[idx].RequestedQuantity, r.Items[idx].ConvertedQuantity()))
	}
	switch AggregateFulfillment(states) {
	case FulfillmentComplete:
		r.Status = PurchaseRequestStatusConverted
	case FulfillmentPartial:
		r.Status = PurchaseRequestStatusPartialConverted
	default:
		r.Status = PurchaseRequestStatusPending
	}
}
