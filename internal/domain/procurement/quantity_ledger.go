package procurement

import (
	"github.com/shopspring/decimal"
)

// The quantity ledger is the single source of derivation rules shared by
// every document manager. All remaining/available quantities and derived
// statuses are computed here from source counters, never accumulated
// incrementally, so that no two call sites can drift apart.

var oneHundred = decimal.NewFromInt(100)

// RemainingToConvert returns the quantity of a request item still
// available for conversion to purchase orders
func RemainingToConvert(requested, converted decimal.Decimal) decimal.Decimal {
	remaining := requested.Sub(converted)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// MaxReceivable returns the maximum quantity admissible on a receipt
// against an order item: the unreceived remainder widened by the
// over-delivery tolerance percentage. Tolerance applies to the remainder,
// so repeated partial receipts cannot stack tolerance allowances.
func MaxReceivable(ordered, received, tolerancePercent decimal.Decimal) decimal.Decimal {
	remaining := ordered.Sub(received)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	factor := decimal.NewFromInt(1).Add(tolerancePercent.Div(oneHundred))
	return remaining.Mul(factor)
}

// MaxInvoiceable returns the maximum quantity admissible on an invoice
// line against an order item. Invoicing never admits a tolerance: the
// ceiling is the ordered quantity itself.
func MaxInvoiceable(ordered, invoiced decimal.Decimal) decimal.Decimal {
	remaining := ordered.Sub(invoiced)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// OutstandingBalance returns the invoice amount still unpaid
func OutstandingBalance(total, paid decimal.Decimal) decimal.Decimal {
	balance := total.Sub(paid)
	if balance.IsNegative() {
		return decimal.Zero
	}
	return balance
}

// FulfillmentState classifies the progress of a counter against its target
type FulfillmentState string

const (
	FulfillmentNone     FulfillmentState = "NONE"
	FulfillmentPartial  FulfillmentState = "PARTIAL"
	FulfillmentComplete FulfillmentState = "COMPLETE"
)

// DeriveFulfillment classifies counter progress: NONE when nothing has
// been applied, COMPLETE when the counter has reached (or with tolerance,
// exceeded) the target, PARTIAL otherwise
func DeriveFulfillment(target, counter decimal.Decimal) FulfillmentState {
	if counter.LessThanOrEqual(decimal.Zero) {
		return FulfillmentNone
	}
	if counter.GreaterThanOrEqual(target) {
		return FulfillmentComplete
	}
	return FulfillmentPartial
}

// AggregateFulfillment folds per-item states into a document-level state:
// COMPLETE only when every item is complete, NONE only when every item is
// untouched, PARTIAL otherwise. An empty item set derives NONE.
func AggregateFulfillment(states []FulfillmentState) FulfillmentState {
	if len(states) == 0 {
		return FulfillmentNone
	}
	allComplete := true
	allNone := true
	for _, s := range states {
		if s != FulfillmentComplete {
			allComplete = false
		}
		if s != FulfillmentNone {
			allNone = false
		}
	}
	if allComplete {
		return FulfillmentComplete
	}
	if allNone {
		return FulfillmentNone
	}
	return FulfillmentPartial
}
