package procurement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/temple-erp/backend/internal/domain/shared"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft           PurchaseOrderStatus = "DRAFT"
	PurchaseOrderStatusPendingApproval PurchaseOrderStatus = "PENDING_APPROVAL"
	PurchaseOrderStatusApproved        PurchaseOrderStatus = "APPROVED"
	PurchaseOrderStatusRejected        PurchaseOrderStatus = "REJECTED"
	PurchaseOrderStatusPartialReceived PurchaseOrderStatus = "PARTIAL_RECEIVED"
	PurchaseOrderStatusReceived        PurchaseOrderStatus = "RECEIVED"
	PurchaseOrderStatusCancelled       PurchaseOrderStatus = "CANCELLED"
	PurchaseOrderStatusClosed          PurchaseOrderStatus = "CLOSED"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusPendingApproval, PurchaseOrderStatusApproved,
		PurchaseOrderStatusRejected, PurchaseOrderStatusPartialReceived, PurchaseOrderStatusReceived,
		PurchaseOrderStatusCancelled, PurchaseOrderStatusClosed:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusDraft:
		return target == PurchaseOrderStatusPendingApproval || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusPendingApproval:
		return target == PurchaseOrderStatusApproved || target == PurchaseOrderStatusRejected ||
			target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusApproved:
		return target == PurchaseOrderStatusPartialReceived || target == PurchaseOrderStatusReceived ||
			target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusPartialReceived:
		return target == PurchaseOrderStatusPartialReceived || target == PurchaseOrderStatusReceived
	case PurchaseOrderStatusReceived:
		return target == PurchaseOrderStatusClosed
	case PurchaseOrderStatusRejected, PurchaseOrderStatusCancelled, PurchaseOrderStatusClosed:
		return false // Terminal states
	}
	return false
}

// CanReceive returns true if receiving goods is allowed in this status
func (s PurchaseOrderStatus) CanReceive() bool {
	return s == PurchaseOrderStatusApproved || s == PurchaseOrderStatusPartialReceived
}

// CanInvoice returns true if invoicing is allowed in this status
func (s PurchaseOrderStatus) CanInvoice() bool {
	switch s {
	case PurchaseOrderStatusApproved, PurchaseOrderStatusPartialReceived, PurchaseOrderStatusReceived:
		return true
	}
	return false
}

// PurchaseOrderInvoiceStatus tracks how much of the order has been invoiced.
// Derived from the items' invoiced counters, never set directly.
type PurchaseOrderInvoiceStatus string

const (
	PurchaseOrderNotInvoiced     PurchaseOrderInvoiceStatus = "NOT_INVOICED"
	PurchaseOrderPartialInvoiced PurchaseOrderInvoiceStatus = "PARTIAL_INVOICED"
	PurchaseOrderInvoiced        PurchaseOrderInvoiceStatus = "INVOICED"
)

// String returns the string representation of PurchaseOrderInvoiceStatus
func (s PurchaseOrderInvoiceStatus) String() string {
	return string(s)
}

// POItemStatus is the derived per-line status of an order item
type POItemStatus string

const (
	POItemStatusPending         POItemStatus = "PENDING"
	POItemStatusPartialReceived POItemStatus = "PARTIAL_RECEIVED"
	POItemStatusReceived        POItemStatus = "RECEIVED"
	POItemStatusCancelled       POItemStatus = "CANCELLED"
)

// DiscountMode determines how a line discount value is interpreted
type DiscountMode string

const (
	DiscountModePercent DiscountMode = "PERCENT"
	DiscountModeAmount  DiscountMode = "AMOUNT"
)

// IsValid checks if the mode is a valid DiscountMode
func (m DiscountMode) IsValid() bool {
	return m == DiscountModePercent || m == DiscountModeAmount
}

// PurchaseOrderItem represents a line item in a purchase order.
// It is the reconciliation hub for fulfillment: receipts and invoices
// reference it and mutate its counters through the parent aggregate only.
type PurchaseOrderItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Item             ItemRef         `gorm:"embedded;embeddedPrefix:item_"`
	OrderedQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountMode     DiscountMode    `gorm:"type:varchar(10);not null;default:'PERCENT'"`
	DiscountValue    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxRatePercent   decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	TolerancePercent decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"` // over-delivery policy, fixed at order time
	LineSubtotal     decimal.Decimal `gorm:"type:decimal(18,4);not null"`          // qty * price
	LineTotal        decimal.Decimal `gorm:"type:decimal(18,4);not null"`          // subtotal - discount + tax
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	InvoicedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SourcePRItemID   *uuid.UUID      `gorm:"type:uuid;index"` // back-reference, never ownership
	Remark           string          `gorm:"type:varchar(500)"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// NewPurchaseOrderItem creates a new purchase order item
func NewPurchaseOrderItem(orderID uuid.UUID, item ItemRef, quantity, unitPrice decimal.Decimal, discountMode DiscountMode, discountValue, taxRatePercent, tolerancePercent decimal.Decimal, sourcePRItemID *uuid.UUID) (*PurchaseOrderItem, error) {
	if !item.Kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_ITEM_KIND", "Item kind must be PRODUCT or SERVICE")
	}
	if item.ID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item reference cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if discountMode == "" {
		discountMode = DiscountModePercent
	}
	if !discountMode.IsValid() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT_MODE", "Discount mode must be PERCENT or AMOUNT")
	}
	if discountValue.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if taxRatePercent.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}
	if tolerancePercent.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TOLERANCE", "Tolerance cannot be negative")
	}

	now := time.Now()
	poItem := &PurchaseOrderItem{
		ID:               uuid.New(),
		OrderID:          orderID,
		Item:             item,
		OrderedQuantity:  quantity,
		UnitPrice:        unitPrice,
		DiscountMode:     discountMode,
		DiscountValue:    discountValue,
		TaxRatePercent:   taxRatePercent,
		TolerancePercent: tolerancePercent,
		ReceivedQuantity: decimal.Zero,
		InvoicedQuantity: decimal.Zero,
		SourcePRItemID:   sourcePRItemID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	poItem.recalculate()

	return poItem, nil
}

// recalculate re-derives the line amounts from quantity, price and terms
func (i *PurchaseOrderItem) recalculate() {
	i.LineSubtotal = i.OrderedQuantity.Mul(i.UnitPrice)
	discount := i.DiscountAmount()
	taxable := i.LineSubtotal.Sub(discount)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	tax := taxable.Mul(i.TaxRatePercent).Div(oneHundred)
	i.LineTotal = taxable.Add(tax)
}

// DiscountAmount returns the line discount in currency terms
func (i *PurchaseOrderItem) DiscountAmount() decimal.Decimal {
	if i.DiscountMode == DiscountModePercent {
		return i.LineSubtotal.Mul(i.DiscountValue).Div(oneHundred)
	}
	return i.DiscountValue
}

// TaxAmount returns the line tax in currency terms
func (i *PurchaseOrderItem) TaxAmount() decimal.Decimal {
	taxable := i.LineSubtotal.Sub(i.DiscountAmount())
	if taxable.IsNegative() {
		return decimal.Zero
	}
	return taxable.Mul(i.TaxRatePercent).Div(oneHundred)
}

// Validate checks the line terms for submission
func (i *PurchaseOrderItem) Validate() error {
	if i.OrderedQuantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY",
			fmt.Sprintf("Quantity for %s must be positive", i.Item.Name))
	}
	if i.UnitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE",
			fmt.Sprintf("Unit price for %s cannot be negative", i.Item.Name))
	}
	switch i.DiscountMode {
	case DiscountModePercent:
		if i.DiscountValue.GreaterThan(oneHundred) {
			return shared.NewDomainError("INVALID_DISCOUNT",
				fmt.Sprintf("Percent discount for %s cannot exceed 100", i.Item.Name))
		}
	case DiscountModeAmount:
		if i.DiscountValue.GreaterThan(i.LineSubtotal) {
			return shared.NewDomainError("INVALID_DISCOUNT",
				fmt.Sprintf("Discount for %s cannot exceed the line subtotal", i.Item.Name))
		}
	}
	return nil
}

// MaxReceivable returns the maximum quantity admissible on the next receipt
func (i *PurchaseOrderItem) MaxReceivable() decimal.Decimal {
	return MaxReceivable(i.OrderedQuantity, i.ReceivedQuantity, i.TolerancePercent)
}

// MaxInvoiceable returns the maximum quantity admissible on the next invoice
func (i *PurchaseOrderItem) MaxInvoiceable() decimal.Decimal {
	return MaxInvoiceable(i.OrderedQuantity, i.InvoicedQuantity)
}

// IsFullyReceived returns true if the received counter has reached the order
func (i *PurchaseOrderItem) IsFullyReceived() bool {
	return i.ReceivedQuantity.GreaterThanOrEqual(i.OrderedQuantity)
}

// IsFullyInvoiced returns true if the invoiced counter has reached the order
func (i *PurchaseOrderItem) IsFullyInvoiced() bool {
	return i.InvoicedQuantity.GreaterThanOrEqual(i.OrderedQuantity)
}

// DerivedStatus returns the per-line status as a function of the counters
func (i *PurchaseOrderItem) DerivedStatus() POItemStatus {
	switch DeriveFulfillment(i.OrderedQuantity, i.ReceivedQuantity) {
	case FulfillmentComplete:
		return POItemStatusReceived
	case FulfillmentPartial:
		return POItemStatusPartialReceived
	default:
		return POItemStatusPending
	}
}

// addReceived applies a receipt delta, enforcing the tolerance ceiling
func (i *PurchaseOrderItem) addReceived(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Receipt quantity must be positive")
	}
	maxAllowed := i.MaxReceivable()
	if quantity.GreaterThan(maxAllowed) {
		return &OverDeliveryError{POItemID: i.ID, Received: quantity, MaxAllowed: maxAllowed}
	}
	i.ReceivedQuantity = i.ReceivedQuantity.Add(quantity)
	i.UpdatedAt = time.Now()
	return nil
}

// addInvoiced applies an invoice delta, enforcing the ordered ceiling
func (i *PurchaseOrderItem) addInvoiced(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Invoice quantity must be positive")
	}
	maxAllowed := i.MaxInvoiceable()
	if quantity.GreaterThan(maxAllowed) {
		return &OverInvoicingError{POItemID: i.ID, Requested: quantity, MaxAllowed: maxAllowed}
	}
	i.InvoicedQuantity = i.InvoicedQuantity.Add(quantity)
	i.UpdatedAt = time.Now()
	return nil
}

// ReceiptDelta is one accepted-quantity increment applied to an order item
// by a completed goods receipt
type ReceiptDelta struct {
	POItemID uuid.UUID
	Quantity decimal.Decimal
}

// InvoiceDelta is one invoiced-quantity increment applied to an order item
// by a posted invoice
type InvoiceDelta struct {
	POItemID uuid.UUID
	Quantity decimal.Decimal
}

// PurchaseOrder represents a purchase order aggregate root.
// It owns the counters all fulfillment documents reconcile against.
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	OrderNumber     string                     `gorm:"type:varchar(50);not null;uniqueIndex"`
	Supplier        SupplierRef                `gorm:"embedded;embeddedPrefix:supplier_"`
	SourceRequestID *uuid.UUID                 `gorm:"type:uuid;index"` // back-reference to the originating PR
	Items           []PurchaseOrderItem        `gorm:"foreignKey:OrderID;references:ID"`
	Subtotal        decimal.Decimal            `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountAmount  decimal.Decimal            `gorm:"type:decimal(18,4);not null;default:0"` // order-level discount
	TaxAmount       decimal.Decimal            `gorm:"type:decimal(18,4);not null;default:0"`
	ShippingCharges decimal.Decimal            `gorm:"type:decimal(18,4);not null;default:0"`
	OtherCharges    decimal.Decimal            `gorm:"type:decimal(18,4);not null;default:0"`
	GrandTotal      decimal.Decimal            `gorm:"type:decimal(18,4);not null;default:0"`
	Status          PurchaseOrderStatus        `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	InvoiceStatus   PurchaseOrderInvoiceStatus `gorm:"type:varchar(20);not null;default:'NOT_INVOICED'"`
	Remark          string                     `gorm:"type:text"`
	SubmittedAt     *time.Time
	ApprovedAt      *time.Time
	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	RejectedAt      *time.Time
	RejectReason    string `gorm:"type:varchar(500)"`
	CancelledAt     *time.Time
	CancelReason    string `gorm:"type:varchar(500)"`
	ClosedAt        *time.Time
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new purchase order in DRAFT status
func NewPurchaseOrder(orderNumber string, supplier SupplierRef, sourceRequestID *uuid.UUID) (*PurchaseOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if supplier.ID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if supplier.Kind == "" {
		supplier.Kind = SupplierKindBoth
	}

	order := &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		Supplier:          supplier,
		SourceRequestID:   sourceRequestID,
		Items:             make([]PurchaseOrderItem, 0),
		Subtotal:          decimal.Zero,
		DiscountAmount:    decimal.Zero,
		TaxAmount:         decimal.Zero,
		ShippingCharges:   decimal.Zero,
		OtherCharges:      decimal.Zero,
		GrandTotal:        decimal.Zero,
		Status:            PurchaseOrderStatusDraft,
		InvoiceStatus:     PurchaseOrderNotInvoiced,
	}

	order.AddDomainEvent(NewPurchaseOrderCreatedEvent(order))

	return order, nil
}

// AddItem adds a new line to the order.
// Only allowed in DRAFT status; the item kind must be compatible with the
// supplier's declared kind.
func (o *PurchaseOrder) AddItem(item ItemRef, quantity, unitPrice decimal.Decimal, discountMode DiscountMode, discountValue, taxRatePercent, tolerancePercent decimal.Decimal, sourcePRItemID *uuid.UUID) (*PurchaseOrderItem, error) {
	if o.Status != PurchaseOrderStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-draft order")
	}
	if !o.Supplier.Kind.Accepts(item.Kind) {
		return nil, &TypeMismatchError{SupplierID: o.Supplier.ID, SupplierKind: o.Supplier.Kind, ItemKind: item.Kind}
	}

	poItem, err := NewPurchaseOrderItem(o.ID, item, quantity, unitPrice, discountMode, discountValue, taxRatePercent, tolerancePercent, sourcePRItemID)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *poItem)
	o.recalculateTotals()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return poItem, nil
}

// MergeItemQuantity increases an existing line's ordered quantity.
// Used by split conversion when the same PR item is selected twice for
// the same supplier; only allowed in DRAFT status.
func (o *PurchaseOrder) MergeItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	if o.Status != PurchaseOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items in a non-draft order")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			o.Items[idx].OrderedQuantity = o.Items[idx].OrderedQuantity.Add(quantity)
			o.Items[idx].recalculate()
			o.Items[idx].UpdatedAt = time.Now()
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// UpdateItem updates a line's quantity, price and terms.
// Only allowed in DRAFT status.
func (o *PurchaseOrder) UpdateItem(itemID uuid.UUID, quantity, unitPrice decimal.Decimal, discountMode DiscountMode, discountValue, taxRatePercent decimal.Decimal) error {
	if o.Status != PurchaseOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items in a non-draft order")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if !discountMode.IsValid() {
		return shared.NewDomainError("INVALID_DISCOUNT_MODE", "Discount mode must be PERCENT or AMOUNT")
	}
	if discountValue.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if taxRatePercent.IsNegative() {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}

	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			o.Items[idx].OrderedQuantity = quantity
			o.Items[idx].UnitPrice = unitPrice
			o.Items[idx].DiscountMode = discountMode
			o.Items[idx].DiscountValue = discountValue
			o.Items[idx].TaxRatePercent = taxRatePercent
			o.Items[idx].recalculate()
			o.Items[idx].UpdatedAt = time.Now()
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// RemoveItem removes a line from the order.
// Only allowed in DRAFT status.
func (o *PurchaseOrder) RemoveItem(itemID uuid.UUID) error {
	if o.Status != PurchaseOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a non-draft order")
	}

	for idx, item := range o.Items {
		if item.ID == itemID {
			o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// SetCharges sets the order-level discount, shipping and other charges.
// Only allowed in DRAFT status.
func (o *PurchaseOrder) SetCharges(discount, shipping, other decimal.Decimal) error {
	if o.Status != PurchaseOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot change charges on a non-draft order")
	}
	if discount.IsNegative() || shipping.IsNegative() || other.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Charges cannot be negative")
	}

	o.DiscountAmount = discount
	o.ShippingCharges = shipping
	o.OtherCharges = other
	o.recalculateTotals()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// SetRemark sets the order remark
func (o *PurchaseOrder) SetRemark(remark string) {
	o.Remark = remark
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// Submit moves the order from DRAFT to PENDING_APPROVAL after validating
// every line's terms
func (o *PurchaseOrder) Submit() error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusPendingApproval) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot submit order in %s status", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot submit order without items")
	}
	for idx := range o.Items {
		if err := o.Items[idx].Validate(); err != nil {
			return err
		}
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusPendingApproval
	o.SubmittedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderSubmittedEvent(o))

	return nil
}

// Approve approves a pending order. The approver must be distinct from
// the creator; routing policy beyond that lives in the caller.
func (o *PurchaseOrder) Approve(approverID uuid.UUID) error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusApproved) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve order in %s status", o.Status))
	}
	if approverID == uuid.Nil {
		return shared.NewDomainError("INVALID_APPROVER", "Approver ID cannot be empty")
	}
	if creator := o.GetCreatedBy(); creator != nil && *creator == approverID {
		return shared.NewDomainError(ErrCodeSelfApprovalForbidden, "Order cannot be approved by its creator")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusApproved
	o.ApprovedAt = &now
	o.ApprovedBy = &approverID
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderApprovedEvent(o, approverID))

	return nil
}

// Reject rejects a pending order
func (o *PurchaseOrder) Reject(approverID uuid.UUID, reason string) error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusRejected) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reject order in %s status", o.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Reject reason is required")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusRejected
	o.RejectedAt = &now
	o.RejectReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderRejectedEvent(o, approverID))

	return nil
}

// Cancel cancels the order.
// Allowed from DRAFT, PENDING_APPROVAL or APPROVED with no receipts.
func (o *PurchaseOrder) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}
	if o.hasReceivedAnyGoods() {
		return shared.NewDomainError("ALREADY_RECEIVED", "Cannot cancel order after goods have been received")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderCancelledEvent(o))

	return nil
}

// Close closes a fully received order
func (o *PurchaseOrder) Close() error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusClosed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot close order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusClosed
	o.ClosedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderClosedEvent(o))

	return nil
}

// CheckReceivable verifies a prospective received quantity against the
// item's tolerance ceiling without mutating the order. Receipt lines are
// admitted on what arrived at the gate, not on what was accepted.
func (o *PurchaseOrder) CheckReceivable(itemID uuid.UUID, quantity decimal.Decimal) error {
	item := o.GetItem(itemID)
	if item == nil {
		return shared.NewDomainError("ITEM_NOT_FOUND", fmt.Sprintf("Order item %s not found", itemID))
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Receipt quantity must be positive")
	}
	if maxAllowed := item.MaxReceivable(); quantity.GreaterThan(maxAllowed) {
		return &OverDeliveryError{POItemID: itemID, Received: quantity, MaxAllowed: maxAllowed}
	}
	return nil
}

// ApplyReceipt applies accepted-quantity deltas from a completed goods
// receipt and re-derives the item and aggregate statuses. Any ceiling
// violation aborts with no partial application.
func (o *PurchaseOrder) ApplyReceipt(deltas []ReceiptDelta) error {
	// A fully received order still routes through the per-item ceiling so
	// the caller learns the admissible quantity is zero
	if !o.Status.CanReceive() && o.Status != PurchaseOrderStatusReceived {
		return &POApprovalRequiredError{POID: o.ID, Status: o.Status}
	}
	if len(deltas) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Receipt deltas cannot be empty")
	}

	// Validate all ceilings before mutating anything
	pending := make(map[uuid.UUID]decimal.Decimal, len(deltas))
	for _, d := range deltas {
		pending[d.POItemID] = pending[d.POItemID].Add(d.Quantity)
	}
	for itemID, qty := range pending {
		item := o.GetItem(itemID)
		if item == nil {
			return shared.NewDomainError("ITEM_NOT_FOUND", fmt.Sprintf("Order item %s not found", itemID))
		}
		if qty.LessThanOrEqual(decimal.Zero) {
			return shared.NewDomainError("INVALID_QUANTITY", "Receipt quantity must be positive")
		}
		if maxAllowed := item.MaxReceivable(); qty.GreaterThan(maxAllowed) {
			return &OverDeliveryError{POItemID: itemID, Received: qty, MaxAllowed: maxAllowed}
		}
	}

	for itemID, qty := range pending {
		if err := o.GetItem(itemID).addReceived(qty); err != nil {
			return err
		}
	}

	o.recalculateReceiptStatus()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderReceiptAppliedEvent(o))

	return nil
}

// ApplyInvoice applies invoiced-quantity deltas from a posted invoice and
// re-derives the invoice status. Any ceiling violation aborts with no
// partial application.
func (o *PurchaseOrder) ApplyInvoice(deltas []InvoiceDelta) error {
	if !o.Status.CanInvoice() {
		return &POApprovalRequiredError{POID: o.ID, Status: o.Status}
	}
	if len(deltas) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Invoice deltas cannot be empty")
	}
	if o.InvoiceStatus == PurchaseOrderInvoiced {
		return shared.NewDomainError(ErrCodeFullyInvoiced, "Order is already fully invoiced")
	}

	pending := make(map[uuid.UUID]decimal.Decimal, len(deltas))
	for _, d := range deltas {
		pending[d.POItemID] = pending[d.POItemID].Add(d.Quantity)
	}
	for itemID, qty := range pending {
		item := o.GetItem(itemID)
		if item == nil {
			return shared.NewDomainError("ITEM_NOT_FOUND", fmt.Sprintf("Order item %s not found", itemID))
		}
		if qty.LessThanOrEqual(decimal.Zero) {
			return shared.NewDomainError("INVALID_QUANTITY", "Invoice quantity must be positive")
		}
		if maxAllowed := item.MaxInvoiceable(); qty.GreaterThan(maxAllowed) {
			return &OverInvoicingError{POItemID: itemID, Requested: qty, MaxAllowed: maxAllowed}
		}
	}

	for itemID, qty := range pending {
		if err := o.GetItem(itemID).addInvoiced(qty); err != nil {
			return err
		}
	}

	o.recalculateInvoiceStatus()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderInvoiceAppliedEvent(o))

	return nil
}

// recalculateTotals re-derives all monetary totals from the items.
// Totals are never accumulated incrementally.
func (o *PurchaseOrder) recalculateTotals() {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for idx := range o.Items {
		subtotal = subtotal.Add(o.Items[idx].LineSubtotal).Sub(o.Items[idx].DiscountAmount())
		tax = tax.Add(o.Items[idx].TaxAmount())
	}
	if subtotal.IsNegative() {
		subtotal = decimal.Zero
	}
	o.Subtotal = subtotal
	o.TaxAmount = tax
	o.GrandTotal = o.Subtotal.Sub(o.DiscountAmount).Add(o.TaxAmount).Add(o.ShippingCharges).Add(o.OtherCharges)
	if o.GrandTotal.IsNegative() {
		o.GrandTotal = decimal.Zero
	}
}

// recalculateReceiptStatus re-derives the aggregate status from the items'
// received counters
func (o *PurchaseOrder) recalculateReceiptStatus() {
	states := make([]FulfillmentState, 0, len(o.Items))
	for idx := range o.Items {
		states = append(states, DeriveFulfillment(o.Items[idx].OrderedQuantity, o.Items[idx].ReceivedQuantity))
	}
	switch AggregateFulfillment(states) {
	case FulfillmentComplete:
		o.Status = PurchaseOrderStatusReceived
	case FulfillmentPartial:
		o.Status = PurchaseOrderStatusPartialReceived
	default:
		// No receipts applied; keep the approval-side status
	}
}

// recalculateInvoiceStatus re-derives the invoice status from the items'
// invoiced counters
func (o *PurchaseOrder) recalculateInvoiceStatus() {
	states := make([]FulfillmentState, 0, len(o.Items))
	for idx := range o.Items {
		states = append(states, DeriveFulfillment(o.Items[idx].OrderedQuantity, o.Items[idx].InvoicedQuantity))
	}
	switch AggregateFulfillment(states) {
	case FulfillmentComplete:
		o.InvoiceStatus = PurchaseOrderInvoiced
	case FulfillmentPartial:
		o.InvoiceStatus = PurchaseOrderPartialInvoiced
	default:
		o.InvoiceStatus = PurchaseOrderNotInvoiced
	}
}

func (o *PurchaseOrder) hasReceivedAnyGoods() bool {
	for idx := range o.Items {
		if o.Items[idx].ReceivedQuantity.GreaterThan(decimal.Zero) {
			return true
		}
	}
	return false
}

// GetItem returns a line by its ID
func (o *PurchaseOrder) GetItem(itemID uuid.UUID) *PurchaseOrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// GetItemBySource returns the line converted from the given PR item, if any
func (o *PurchaseOrder) GetItemBySource(prItemID uuid.UUID) *PurchaseOrderItem {
	for idx := range o.Items {
		if o.Items[idx].SourcePRItemID != nil && *o.Items[idx].SourcePRItemID == prItemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// ItemCount returns the number of lines in the order
func (o *PurchaseOrder) ItemCount() int {
	return len(o.Items)
}

// IsDraft returns true if the order is in draft status
func (o *PurchaseOrder) IsDraft() bool {
	return o.Status == PurchaseOrderStatusDraft
}

// IsApproved returns true if the order has been approved
func (o *PurchaseOrder) IsApproved() bool {
	return o.Status == PurchaseOrderStatusApproved
}

// IsFullyReceived returns true when every line is fully received
func (o *PurchaseOrder) IsFullyReceived() bool {
	if len(o.Items) == 0 {
		return false
	}
	for idx := range o.Items {
		if !o.Items[idx].IsFullyReceived() {
			return false
		}
	}
	return true
}

// IsFullyInvoiced returns true when every line is fully invoiced
func (o *PurchaseOrder) IsFullyInvoiced() bool {
	return o.InvoiceStatus == PurchaseOrderInvoiced
}

// CanModify returns true if the order can be modified
func (o *PurchaseOrder) CanModify() bool {
	return o.IsDraft()
}
