package procurement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/temple-erp/backend/internal/domain/shared"
)

// GoodsReceiptType distinguishes receipts recorded against a purchase
// order from direct receipts
type GoodsReceiptType string

const (
	GoodsReceiptTypeDirect  GoodsReceiptType = "DIRECT"
	GoodsReceiptTypePOBased GoodsReceiptType = "PO_BASED"
)

// IsValid checks if the type is a valid GoodsReceiptType
func (t GoodsReceiptType) IsValid() bool {
	return t == GoodsReceiptTypeDirect || t == GoodsReceiptTypePOBased
}

// String returns the string representation of GoodsReceiptType
func (t GoodsReceiptType) String() string {
	return string(t)
}

// GoodsReceiptStatus represents the status of a goods receipt
type GoodsReceiptStatus string

const (
	GoodsReceiptStatusDraft     GoodsReceiptStatus = "DRAFT"
	GoodsReceiptStatusCompleted GoodsReceiptStatus = "COMPLETED"
)

// IsValid checks if the status is a valid GoodsReceiptStatus
func (s GoodsReceiptStatus) IsValid() bool {
	return s == GoodsReceiptStatusDraft || s == GoodsReceiptStatusCompleted
}

// String returns the string representation of GoodsReceiptStatus
func (s GoodsReceiptStatus) String() string {
	return string(s)
}

// GoodsReceiptItem represents a line item in a goods receipt.
// received = accepted + rejected always holds; rejected is derived from
// the other two when not supplied.
type GoodsReceiptItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	ReceiptID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	POItemID         *uuid.UUID      `gorm:"type:uuid;index"` // back-reference, PO_BASED receipts only
	Item             ItemRef         `gorm:"embedded;embeddedPrefix:item_"`
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AcceptedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RejectedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SerialNumbers    []string        `gorm:"serializer:json;type:text"`
	BatchNumber      string          `gorm:"type:varchar(100)"`
	ManufactureDate  *time.Time
	ExpiryDate       *time.Time
	Remark           string    `gorm:"type:varchar(500)"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (GoodsReceiptItem) TableName() string {
	return "goods_receipt_items"
}

// GoodsReceiptItemInput carries the caller-supplied values for one receipt line
type GoodsReceiptItemInput struct {
	POItemID         *uuid.UUID
	Item             ItemRef
	ReceivedQuantity decimal.Decimal
	AcceptedQuantity decimal.Decimal
	RejectedQuantity *decimal.Decimal // derived as received - accepted when nil
	SerialNumbers    []string
	BatchNumber      string
	ManufactureDate  *time.Time
	ExpiryDate       *time.Time
	Remark           string
}

// NewGoodsReceiptItem creates a new goods receipt line, enforcing the
// accepted/rejected split, serial reconciliation and batch date ordering
func NewGoodsReceiptItem(receiptID uuid.UUID, input GoodsReceiptItemInput) (*GoodsReceiptItem, error) {
	if !input.Item.Kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_ITEM_KIND", "Item kind must be PRODUCT or SERVICE")
	}
	if input.Item.ID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item reference cannot be empty")
	}
	if input.ReceivedQuantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Received quantity must be positive")
	}
	if input.AcceptedQuantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Accepted quantity cannot be negative")
	}

	rejected := input.ReceivedQuantity.Sub(input.AcceptedQuantity)
	if input.RejectedQuantity != nil {
		rejected = *input.RejectedQuantity
	}
	if input.AcceptedQuantity.GreaterThan(input.ReceivedQuantity) ||
		!input.AcceptedQuantity.Add(rejected).Equal(input.ReceivedQuantity) {
		return nil, &QuantityInconsistentError{
			Received: input.ReceivedQuantity,
			Accepted: input.AcceptedQuantity,
			Rejected: rejected,
		}
	}

	if len(input.SerialNumbers) > 0 {
		if !decimal.NewFromInt(int64(len(input.SerialNumbers))).Equal(input.AcceptedQuantity) {
			return nil, &SerialCountMismatchError{
				Accepted: input.AcceptedQuantity,
				Serials:  len(input.SerialNumbers),
			}
		}
		seen := make(map[string]struct{}, len(input.SerialNumbers))
		for _, sn := range input.SerialNumbers {
			if sn == "" {
				return nil, shared.NewDomainError("INVALID_SERIAL", "Serial number cannot be empty")
			}
			if _, dup := seen[sn]; dup {
				return nil, &DuplicateSerialError{Serial: sn}
			}
			seen[sn] = struct{}{}
		}
	}

	if input.ManufactureDate != nil && input.ExpiryDate != nil &&
		!input.ExpiryDate.After(*input.ManufactureDate) {
		return nil, shared.NewDomainError("INVALID_EXPIRY", "Expiry date must be after manufacture date")
	}

	now := time.Now()
	return &GoodsReceiptItem{
		ID:               uuid.New(),
		ReceiptID:        receiptID,
		POItemID:         input.POItemID,
		Item:             input.Item,
		ReceivedQuantity: input.ReceivedQuantity,
		AcceptedQuantity: input.AcceptedQuantity,
		RejectedQuantity: rejected,
		SerialNumbers:    input.SerialNumbers,
		BatchNumber:      input.BatchNumber,
		ManufactureDate:  input.ManufactureDate,
		ExpiryDate:       input.ExpiryDate,
		Remark:           input.Remark,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// GoodsReceipt represents a goods receipt note aggregate root.
// DRAFT receipts make no mutation to the referenced purchase order;
// only completion commits the accepted quantities.
type GoodsReceipt struct {
	shared.BaseAggregateRoot
	ReceiptNumber   string             `gorm:"type:varchar(50);not null;uniqueIndex"`
	Type            GoodsReceiptType   `gorm:"type:varchar(10);not null"`
	Status          GoodsReceiptStatus `gorm:"type:varchar(10);not null;default:'DRAFT'"`
	SupplierID      uuid.UUID          `gorm:"type:uuid;not null;index"`
	SupplierName    string             `gorm:"type:varchar(200);not null"`
	PurchaseOrderID *uuid.UUID         `gorm:"type:uuid;index"` // back-reference, PO_BASED receipts only
	Items           []GoodsReceiptItem `gorm:"foreignKey:ReceiptID;references:ID"`
	ReceivedAt      time.Time          `gorm:"not null"`
	CompletedAt     *time.Time
	Remark          string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (GoodsReceipt) TableName() string {
	return "goods_receipts"
}

// NewGoodsReceipt creates a new goods receipt in DRAFT status
func NewGoodsReceipt(receiptNumber string, receiptType GoodsReceiptType, supplierID uuid.UUID, supplierName string, purchaseOrderID *uuid.UUID, receivedAt time.Time) (*GoodsReceipt, error) {
	if receiptNumber == "" {
		return nil, shared.NewDomainError("INVALID_RECEIPT_NUMBER", "Receipt number cannot be empty")
	}
	if !receiptType.IsValid() {
		return nil, shared.NewDomainError("INVALID_RECEIPT_TYPE", "Receipt type must be DIRECT or PO_BASED")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if receiptType == GoodsReceiptTypePOBased && purchaseOrderID == nil {
		return nil, shared.NewDomainError("INVALID_ORDER_REFERENCE", "PO-based receipt requires a purchase order reference")
	}
	if receiptType == GoodsReceiptTypeDirect && purchaseOrderID != nil {
		return nil, shared.NewDomainError("INVALID_ORDER_REFERENCE", "Direct receipt cannot reference a purchase order")
	}
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}

	receipt := &GoodsReceipt{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ReceiptNumber:     receiptNumber,
		Type:              receiptType,
		Status:            GoodsReceiptStatusDraft,
		SupplierID:        supplierID,
		SupplierName:      supplierName,
		PurchaseOrderID:   purchaseOrderID,
		Items:             make([]GoodsReceiptItem, 0),
		ReceivedAt:        receivedAt,
	}

	receipt.AddDomainEvent(NewGoodsReceiptCreatedEvent(receipt))

	return receipt, nil
}

// AddItem adds a line to the receipt.
// Only allowed in DRAFT status. PO-based receipts require a PO item
// reference on every line.
func (g *GoodsReceipt) AddItem(input GoodsReceiptItemInput) (*GoodsReceiptItem, error) {
	if g.Status != GoodsReceiptStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a completed receipt")
	}
	if g.Type == GoodsReceiptTypePOBased && input.POItemID == nil {
		return nil, shared.NewDomainError("INVALID_ORDER_REFERENCE", "PO-based receipt lines must reference an order item")
	}

	item, err := NewGoodsReceiptItem(g.ID, input)
	if err != nil {
		return nil, err
	}

	g.Items = append(g.Items, *item)
	g.UpdatedAt = time.Now()
	g.IncrementVersion()

	return item, nil
}

// RemoveItem removes a line from the receipt.
// Only allowed in DRAFT status.
func (g *GoodsReceipt) RemoveItem(itemID uuid.UUID) error {
	if g.Status != GoodsReceiptStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a completed receipt")
	}

	for idx, item := range g.Items {
		if item.ID == itemID {
			g.Items = append(g.Items[:idx], g.Items[idx+1:]...)
			g.UpdatedAt = time.Now()
			g.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Receipt item not found")
}

// Complete marks the receipt COMPLETED. Re-completing is rejected, never
// re-applied; the caller commits the accepted quantities to the purchase
// order in the same transaction.
func (g *GoodsReceipt) Complete() error {
	if g.Status == GoodsReceiptStatusCompleted {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Receipt %s is already completed", g.ReceiptNumber))
	}
	if len(g.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot complete receipt without items")
	}

	now := time.Now()
	g.Status = GoodsReceiptStatusCompleted
	g.CompletedAt = &now
	g.UpdatedAt = now
	g.IncrementVersion()

	g.AddDomainEvent(NewGoodsReceiptCompletedEvent(g))

	return nil
}

// ReceiptDeltas returns the accepted-quantity increments to apply to the
// referenced purchase order. Empty for direct receipts.
func (g *GoodsReceipt) ReceiptDeltas() []ReceiptDelta {
	if g.Type != GoodsReceiptTypePOBased {
		return nil
	}
	deltas := make([]ReceiptDelta, 0, len(g.Items))
	for idx := range g.Items {
		if g.Items[idx].POItemID == nil || !g.Items[idx].AcceptedQuantity.IsPositive() {
			continue
		}
		deltas = append(deltas, ReceiptDelta{
			POItemID: *g.Items[idx].POItemID,
			Quantity: g.Items[idx].AcceptedQuantity,
		})
	}
	return deltas
}

// TotalAcceptedQuantity returns the sum of accepted quantities
func (g *GoodsReceipt) TotalAcceptedQuantity() decimal.Decimal {
	total := decimal.Zero
	for idx := range g.Items {
		total = total.Add(g.Items[idx].AcceptedQuantity)
	}
	return total
}

// TotalRejectedQuantity returns the sum of rejected quantities
func (g *GoodsReceipt) TotalRejectedQuantity() decimal.Decimal {
	total := decimal.Zero
	for idx := range g.Items {
		total = total.Add(g.Items[idx].RejectedQuantity)
	}
	return total
}

// IsCompleted returns true if the receipt has been completed
func (g *GoodsReceipt) IsCompleted() bool {
	return g.Status == GoodsReceiptStatusCompleted
}

// GetItem returns a line by its ID
func (g *GoodsReceipt) GetItem(itemID uuid.UUID) *GoodsReceiptItem {
	for idx := range g.Items {
		if g.Items[idx].ID == itemID {
			return &g.Items[idx]
		}
	}
	return nil
}
