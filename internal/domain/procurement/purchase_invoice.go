package procurement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/temple-erp/backend/internal/domain/shared"
)

// PurchaseInvoiceType distinguishes invoices billed against a purchase
// order from standalone direct invoices
type PurchaseInvoiceType string

const (
	PurchaseInvoiceTypeDirect  PurchaseInvoiceType = "DIRECT"
	PurchaseInvoiceTypePOBased PurchaseInvoiceType = "PO_BASED"
)

// IsValid checks if the type is a valid PurchaseInvoiceType
func (t PurchaseInvoiceType) IsValid() bool {
	return t == PurchaseInvoiceTypeDirect || t == PurchaseInvoiceTypePOBased
}

// String returns the string representation of PurchaseInvoiceType
func (t PurchaseInvoiceType) String() string {
	return string(t)
}

// PurchaseInvoiceStatus represents the posting status of an invoice.
// POSTED is one-way: a posted invoice admits no further item edits.
type PurchaseInvoiceStatus string

const (
	PurchaseInvoiceStatusDraft  PurchaseInvoiceStatus = "DRAFT"
	PurchaseInvoiceStatusPosted PurchaseInvoiceStatus = "POSTED"
)

// IsValid checks if the status is a valid PurchaseInvoiceStatus
func (s PurchaseInvoiceStatus) IsValid() bool {
	return s == PurchaseInvoiceStatusDraft || s == PurchaseInvoiceStatusPosted
}

// String returns the string representation of PurchaseInvoiceStatus
func (s PurchaseInvoiceStatus) String() string {
	return string(s)
}

// InvoicePaymentStatus tracks how much of the invoice has been paid.
// Derived from the balance, never set directly.
type InvoicePaymentStatus string

const (
	InvoicePaymentStatusPending InvoicePaymentStatus = "PENDING"
	InvoicePaymentStatusPartial InvoicePaymentStatus = "PARTIAL"
	InvoicePaymentStatusPaid    InvoicePaymentStatus = "PAID"
)

// String returns the string representation of InvoicePaymentStatus
func (s InvoicePaymentStatus) String() string {
	return string(s)
}

// PurchaseInvoiceItem represents a line item in a purchase invoice
type PurchaseInvoiceItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	POItemID       *uuid.UUID      `gorm:"type:uuid;index"` // back-reference, PO_BASED invoices only
	Item           ItemRef         `gorm:"embedded;embeddedPrefix:item_"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountMode   DiscountMode    `gorm:"type:varchar(10);not null;default:'PERCENT'"`
	DiscountValue  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxRatePercent decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	LineSubtotal   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTotal      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseInvoiceItem) TableName() string {
	return "purchase_invoice_items"
}

// NewPurchaseInvoiceItem creates a new purchase invoice line
func NewPurchaseInvoiceItem(invoiceID uuid.UUID, poItemID *uuid.UUID, item ItemRef, quantity, unitPrice decimal.Decimal, discountMode DiscountMode, discountValue, taxRatePercent decimal.Decimal) (*PurchaseInvoiceItem, error) {
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

	now := time.Now()
	invItem := &PurchaseInvoiceItem{
		ID:             uuid.New(),
		InvoiceID:      invoiceID,
		POItemID:       poItemID,
		Item:           item,
		Quantity:       quantity,
		UnitPrice:      unitPrice,
		DiscountMode:   discountMode,
		DiscountValue:  discountValue,
		TaxRatePercent: taxRatePercent,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	invItem.recalculate()

	return invItem, nil
}

func (i *PurchaseInvoiceItem) recalculate() {
	i.LineSubtotal = i.Quantity.Mul(i.UnitPrice)
	taxable := i.LineSubtotal.Sub(i.DiscountAmount())
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	i.LineTotal = taxable.Add(taxable.Mul(i.TaxRatePercent).Div(oneHundred))
}

// DiscountAmount returns the line discount in currency terms
func (i *PurchaseInvoiceItem) DiscountAmount() decimal.Decimal {
	if i.DiscountMode == DiscountModePercent {
		return i.LineSubtotal.Mul(i.DiscountValue).Div(oneHundred)
	}
	return i.DiscountValue
}

// TaxAmount returns the line tax in currency terms
func (i *PurchaseInvoiceItem) TaxAmount() decimal.Decimal {
	taxable := i.LineSubtotal.Sub(i.DiscountAmount())
	if taxable.IsNegative() {
		return decimal.Zero
	}
	return taxable.Mul(i.TaxRatePercent).Div(oneHundred)
}

// PurchaseInvoice represents a purchase invoice aggregate root.
// The balance is the single source of truth the payment manager
// reconciles against.
type PurchaseInvoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber   string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	SupplierInvoice string                `gorm:"type:varchar(100)"` // supplier's own invoice number
	Type            PurchaseInvoiceType   `gorm:"type:varchar(10);not null"`
	Status          PurchaseInvoiceStatus `gorm:"type:varchar(10);not null;default:'DRAFT'"`
	PaymentStatus   InvoicePaymentStatus  `gorm:"type:varchar(10);not null;default:'PENDING'"`
	SupplierID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	SupplierName    string                `gorm:"type:varchar(200);not null"`
	PurchaseOrderID *uuid.UUID            `gorm:"type:uuid;index"` // back-reference, PO_BASED invoices only
	Items           []PurchaseInvoiceItem `gorm:"foreignKey:InvoiceID;references:ID"`
	Subtotal        decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountAmount  decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	TaxAmount       decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	ShippingCharges decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	OtherCharges    decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	GrandTotal      decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	PaidAmount      decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	BalanceAmount   decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	InvoiceDate     time.Time             `gorm:"not null"`
	DueDate         *time.Time
	PostedAt        *time.Time
	Remark          string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PurchaseInvoice) TableName() string {
	return "purchase_invoices"
}

// NewPurchaseInvoice creates a new purchase invoice in DRAFT status
func NewPurchaseInvoice(invoiceNumber string, invoiceType PurchaseInvoiceType, supplierID uuid.UUID, supplierName string, purchaseOrderID *uuid.UUID, invoiceDate time.Time) (*PurchaseInvoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if !invoiceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INVOICE_TYPE", "Invoice type must be DIRECT or PO_BASED")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if invoiceType == PurchaseInvoiceTypePOBased && purchaseOrderID == nil {
		return nil, shared.NewDomainError("INVALID_ORDER_REFERENCE", "PO-based invoice requires a purchase order reference")
	}
	if invoiceType == PurchaseInvoiceTypeDirect && purchaseOrderID != nil {
		return nil, shared.NewDomainError("INVALID_ORDER_REFERENCE", "Direct invoice cannot reference a purchase order")
	}
	if invoiceDate.IsZero() {
		invoiceDate = time.Now()
	}

	invoice := &PurchaseInvoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		Type:              invoiceType,
		Status:            PurchaseInvoiceStatusDraft,
		PaymentStatus:     InvoicePaymentStatusPending,
		SupplierID:        supplierID,
		SupplierName:      supplierName,
		PurchaseOrderID:   purchaseOrderID,
		Items:             make([]PurchaseInvoiceItem, 0),
		Subtotal:          decimal.Zero,
		DiscountAmount:    decimal.Zero,
		TaxAmount:         decimal.Zero,
		ShippingCharges:   decimal.Zero,
		OtherCharges:      decimal.Zero,
		GrandTotal:        decimal.Zero,
		PaidAmount:        decimal.Zero,
		BalanceAmount:     decimal.Zero,
		InvoiceDate:       invoiceDate,
	}

	invoice.AddDomainEvent(NewPurchaseInvoiceCreatedEvent(invoice))

	return invoice, nil
}

// AddItem adds a line to the invoice.
// Only allowed in DRAFT status. PO-based invoices require a PO item
// reference on every line.
func (v *PurchaseInvoice) AddItem(poItemID *uuid.UUID, item ItemRef, quantity, unitPrice decimal.Decimal, discountMode DiscountMode, discountValue, taxRatePercent decimal.Decimal) (*PurchaseInvoiceItem, error) {
	if v.Status != PurchaseInvoiceStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a posted invoice")
	}
	if v.Type == PurchaseInvoiceTypePOBased && poItemID == nil {
		return nil, shared.NewDomainError("INVALID_ORDER_REFERENCE", "PO-based invoice lines must reference an order item")
	}

	invItem, err := NewPurchaseInvoiceItem(v.ID, poItemID, item, quantity, unitPrice, discountMode, discountValue, taxRatePercent)
	if err != nil {
		return nil, err
	}

	v.Items = append(v.Items, *invItem)
	v.recalculateTotals()
	v.UpdatedAt = time.Now()
	v.IncrementVersion()

	return invItem, nil
}

// RemoveItem removes a line from the invoice.
// Only allowed in DRAFT status.
func (v *PurchaseInvoice) RemoveItem(itemID uuid.UUID) error {
	if v.Status != PurchaseInvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a posted invoice")
	}

	for idx, item := range v.Items {
		if item.ID == itemID {
			v.Items = append(v.Items[:idx], v.Items[idx+1:]...)
			v.recalculateTotals()
			v.UpdatedAt = time.Now()
			v.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Invoice item not found")
}

// SetCharges sets the invoice-level discount, shipping and other charges.
// Only allowed in DRAFT status.
func (v *PurchaseInvoice) SetCharges(discount, shipping, other decimal.Decimal) error {
	if v.Status != PurchaseInvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot change charges on a posted invoice")
	}
	if discount.IsNegative() || shipping.IsNegative() || other.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Charges cannot be negative")
	}

	v.DiscountAmount = discount
	v.ShippingCharges = shipping
	v.OtherCharges = other
	v.recalculateTotals()
	v.UpdatedAt = time.Now()
	v.IncrementVersion()

	return nil
}

// SetDueDate sets the payment due date
func (v *PurchaseInvoice) SetDueDate(dueDate time.Time) error {
	if dueDate.Before(v.InvoiceDate) {
		return shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot be before the invoice date")
	}
	v.DueDate = &dueDate
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
	return nil
}

// Post posts the invoice. Posting is one-way: re-posting a posted invoice
// is rejected, never re-applied. The caller commits the invoiced
// quantities to the purchase order in the same transaction.
func (v *PurchaseInvoice) Post() error {
	if v.Status == PurchaseInvoiceStatusPosted {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Invoice %s is already posted", v.InvoiceNumber))
	}
	if len(v.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot post invoice without items")
	}
	if v.GrandTotal.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Invoice grand total must be positive")
	}

	now := time.Now()
	v.Status = PurchaseInvoiceStatusPosted
	v.PostedAt = &now
	v.UpdatedAt = now
	v.IncrementVersion()

	v.AddDomainEvent(NewPurchaseInvoicePostedEvent(v))

	return nil
}

// ApplyPayment decrements the outstanding balance.
// The invoice must be posted and not fully paid, and the amount must not
// exceed the balance.
func (v *PurchaseInvoice) ApplyPayment(amount decimal.Decimal) error {
	if v.Status != PurchaseInvoiceStatusPosted {
		return &InvoiceNotPostedError{InvoiceID: v.ID}
	}
	if v.PaymentStatus == InvoicePaymentStatusPaid {
		return &AlreadyPaidError{InvoiceID: v.ID}
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.GreaterThan(v.BalanceAmount) {
		return &AmountExceedsBalanceError{InvoiceID: v.ID, Amount: amount, Balance: v.BalanceAmount}
	}

	v.PaidAmount = v.PaidAmount.Add(amount)
	v.BalanceAmount = OutstandingBalance(v.GrandTotal, v.PaidAmount)
	v.recalculatePaymentStatus()
	v.UpdatedAt = time.Now()
	v.IncrementVersion()

	v.AddDomainEvent(NewPurchaseInvoicePaymentAppliedEvent(v, amount))

	return nil
}

// ReversePayment restores the balance when a completed payment is
// cancelled
func (v *PurchaseInvoice) ReversePayment(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Reversal amount must be positive")
	}
	if amount.GreaterThan(v.PaidAmount) {
		return shared.NewDomainError("INVALID_AMOUNT", "Reversal amount exceeds the paid amount")
	}

	v.PaidAmount = v.PaidAmount.Sub(amount)
	v.BalanceAmount = OutstandingBalance(v.GrandTotal, v.PaidAmount)
	v.recalculatePaymentStatus()
	v.UpdatedAt = time.Now()
	v.IncrementVersion()

	return nil
}

// InvoiceDeltas returns the invoiced-quantity increments to apply to the
// referenced purchase order. Empty for direct invoices.
func (v *PurchaseInvoice) InvoiceDeltas() []InvoiceDelta {
	if v.Type != PurchaseInvoiceTypePOBased {
		return nil
	}
	deltas := make([]InvoiceDelta, 0, len(v.Items))
	for idx := range v.Items {
		if v.Items[idx].POItemID == nil {
			continue
		}
		deltas = append(deltas, InvoiceDelta{
			POItemID: *v.Items[idx].POItemID,
			Quantity: v.Items[idx].Quantity,
		})
	}
	return deltas
}

// recalculateTotals re-derives all monetary totals from the items, and the
// balance from the grand total and payments applied so far
func (v *PurchaseInvoice) recalculateTotals() {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for idx := range v.Items {
		subtotal = subtotal.Add(v.Items[idx].LineSubtotal).Sub(v.Items[idx].DiscountAmount())
		tax = tax.Add(v.Items[idx].TaxAmount())
	}
	if subtotal.IsNegative() {
		subtotal = decimal.Zero
	}
	v.Subtotal = subtotal
	v.TaxAmount = tax
	v.GrandTotal = v.Subtotal.Sub(v.DiscountAmount).Add(v.TaxAmount).Add(v.ShippingCharges).Add(v.OtherCharges)
	if v.GrandTotal.IsNegative() {
		v.GrandTotal = decimal.Zero
	}
	v.BalanceAmount = OutstandingBalance(v.GrandTotal, v.PaidAmount)
}

// recalculatePaymentStatus re-derives the payment status from the balance
func (v *PurchaseInvoice) recalculatePaymentStatus() {
	switch {
	case v.PaidAmount.IsZero():
		v.PaymentStatus = InvoicePaymentStatusPending
	case v.BalanceAmount.IsZero():
		v.PaymentStatus = InvoicePaymentStatusPaid
	default:
		v.PaymentStatus = InvoicePaymentStatusPartial
	}
}

// IsPosted returns true if the invoice has been posted
func (v *PurchaseInvoice) IsPosted() bool {
	return v.Status == PurchaseInvoiceStatusPosted
}

// IsFullyPaid returns true if the invoice balance is settled
func (v *PurchaseInvoice) IsFullyPaid() bool {
	return v.PaymentStatus == InvoicePaymentStatusPaid
}

// GetItem returns a line by its ID
func (v *PurchaseInvoice) GetItem(itemID uuid.UUID) *PurchaseInvoiceItem {
	for idx := range v.Items {
		if v.Items[idx].ID == itemID {
			return &v.Items[idx]
		}
	}
	return nil
}
