package procurement

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Error codes for procurement admission, consistency, and state rules.
// Admission errors report the offending quantity/amount together with
// the ceiling so the caller can show what was available.
const (
	ErrCodeOverConversion        = "OVER_CONVERSION"
	ErrCodeOverDelivery          = "OVER_DELIVERY"
	ErrCodeOverInvoicing         = "OVER_INVOICING"
	ErrCodeAmountExceedsBalance  = "AMOUNT_EXCEEDS_BALANCE"
	ErrCodeQuantityInconsistent  = "QUANTITY_INCONSISTENT"
	ErrCodeSerialCountMismatch   = "SERIAL_COUNT_MISMATCH"
	ErrCodeDuplicateSerial       = "DUPLICATE_SERIAL"
	ErrCodeInvoiceNotPosted      = "INVOICE_NOT_POSTED"
	ErrCodeAlreadyPaid           = "ALREADY_PAID"
	ErrCodeTypeMismatch          = "TYPE_MISMATCH"
	ErrCodePOApprovalRequired    = "PO_APPROVAL_REQUIRED"
	ErrCodeDuplicateReference    = "DUPLICATE_REFERENCE"
	ErrCodeFullyInvoiced         = "FULLY_INVOICED"
	ErrCodeSelfApprovalForbidden = "SELF_APPROVAL_FORBIDDEN"
)

// OverConversionError is returned when a PR item conversion requests more
// quantity than remains unconverted on the item
type OverConversionError struct {
	PRItemID  uuid.UUID
	Requested decimal.Decimal
	Remaining decimal.Decimal
}

func (e *OverConversionError) Error() string {
	return fmt.Sprintf("cannot convert %s for request item %s, only %s remaining",
		e.Requested.String(), e.PRItemID, e.Remaining.String())
}

// ErrorCode returns the machine-readable error code
func (e *OverConversionError) ErrorCode() string { return ErrCodeOverConversion }

// OverDeliveryError is returned when a receipt exceeds the tolerance-adjusted
// remaining quantity of an order item
type OverDeliveryError struct {
	POItemID   uuid.UUID
	Received   decimal.Decimal
	MaxAllowed decimal.Decimal
}

func (e *OverDeliveryError) Error() string {
	return fmt.Sprintf("cannot receive %s against order item %s, at most %s admissible",
		e.Received.String(), e.POItemID, e.MaxAllowed.String())
}

// ErrorCode returns the machine-readable error code
func (e *OverDeliveryError) ErrorCode() string { return ErrCodeOverDelivery }

// OverInvoicingError is returned when an invoice line exceeds the
// uninvoiced quantity of an order item
type OverInvoicingError struct {
	POItemID   uuid.UUID
	Requested  decimal.Decimal
	MaxAllowed decimal.Decimal
}

func (e *OverInvoicingError) Error() string {
	return fmt.Sprintf("cannot invoice %s against order item %s, only %s uninvoiced",
		e.Requested.String(), e.POItemID, e.MaxAllowed.String())
}

// ErrorCode returns the machine-readable error code
func (e *OverInvoicingError) ErrorCode() string { return ErrCodeOverInvoicing }

// AmountExceedsBalanceError is returned when a payment exceeds the
// outstanding balance of an invoice
type AmountExceedsBalanceError struct {
	InvoiceID uuid.UUID
	Amount    decimal.Decimal
	Balance   decimal.Decimal
}

func (e *AmountExceedsBalanceError) Error() string {
	return fmt.Sprintf("payment of %s exceeds outstanding balance %s on invoice %s",
		e.Amount.String(), e.Balance.String(), e.InvoiceID)
}

// ErrorCode returns the machine-readable error code
func (e *AmountExceedsBalanceError) ErrorCode() string { return ErrCodeAmountExceedsBalance }

// QuantityInconsistentError is returned when a receipt line's accepted
// quantity exceeds its received quantity, or the accepted/rejected split
// does not add up
type QuantityInconsistentError struct {
	Received decimal.Decimal
	Accepted decimal.Decimal
	Rejected decimal.Decimal
}

func (e *QuantityInconsistentError) Error() string {
	return fmt.Sprintf("received %s must equal accepted %s plus rejected %s",
		e.Received.String(), e.Accepted.String(), e.Rejected.String())
}

// ErrorCode returns the machine-readable error code
func (e *QuantityInconsistentError) ErrorCode() string { return ErrCodeQuantityInconsistent }

// SerialCountMismatchError is returned when the number of serial numbers
// supplied does not match the accepted quantity
type SerialCountMismatchError struct {
	Accepted decimal.Decimal
	Serials  int
}

func (e *SerialCountMismatchError) Error() string {
	return fmt.Sprintf("%d serial numbers supplied for accepted quantity %s",
		e.Serials, e.Accepted.String())
}

// ErrorCode returns the machine-readable error code
func (e *SerialCountMismatchError) ErrorCode() string { return ErrCodeSerialCountMismatch }

// DuplicateSerialError is returned when the same serial number appears
// more than once on a receipt line
type DuplicateSerialError struct {
	Serial string
}

func (e *DuplicateSerialError) Error() string {
	return fmt.Sprintf("duplicate serial number %q", e.Serial)
}

// ErrorCode returns the machine-readable error code
func (e *DuplicateSerialError) ErrorCode() string { return ErrCodeDuplicateSerial }

// InvoiceNotPostedError is returned when a payment targets an invoice
// still in draft
type InvoiceNotPostedError struct {
	InvoiceID uuid.UUID
}

func (e *InvoiceNotPostedError) Error() string {
	return fmt.Sprintf("invoice %s is not posted", e.InvoiceID)
}

// ErrorCode returns the machine-readable error code
func (e *InvoiceNotPostedError) ErrorCode() string { return ErrCodeInvoiceNotPosted }

// AlreadyPaidError is returned when a payment targets a fully paid invoice
type AlreadyPaidError struct {
	InvoiceID uuid.UUID
}

func (e *AlreadyPaidError) Error() string {
	return fmt.Sprintf("invoice %s is already fully paid", e.InvoiceID)
}

// ErrorCode returns the machine-readable error code
func (e *AlreadyPaidError) ErrorCode() string { return ErrCodeAlreadyPaid }

// TypeMismatchError is returned when an item's kind is incompatible with
// the target supplier's declared kind
type TypeMismatchError struct {
	SupplierID   uuid.UUID
	SupplierKind SupplierKind
	ItemKind     ItemKind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("supplier %s accepts %s items only, got %s",
		e.SupplierID, e.SupplierKind, e.ItemKind)
}

// ErrorCode returns the machine-readable error code
func (e *TypeMismatchError) ErrorCode() string { return ErrCodeTypeMismatch }

// POApprovalRequiredError is returned when a fulfillment document targets
// an order that has not been approved
type POApprovalRequiredError struct {
	POID   uuid.UUID
	Status PurchaseOrderStatus
}

func (e *POApprovalRequiredError) Error() string {
	return fmt.Sprintf("purchase order %s must be approved before fulfillment, current status %s",
		e.POID, e.Status)
}

// ErrorCode returns the machine-readable error code
func (e *POApprovalRequiredError) ErrorCode() string { return ErrCodePOApprovalRequired }

// DuplicateReferenceError is returned when a payment reference number is
// already used by a non-cancelled payment for the same supplier
type DuplicateReferenceError struct {
	SupplierID uuid.UUID
	Reference  string
}

func (e *DuplicateReferenceError) Error() string {
	return fmt.Sprintf("payment reference %q already used for supplier %s",
		e.Reference, e.SupplierID)
}

// ErrorCode returns the machine-readable error code
func (e *DuplicateReferenceError) ErrorCode() string { return ErrCodeDuplicateReference }
