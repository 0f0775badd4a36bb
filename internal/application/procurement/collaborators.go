package procurement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/temple-erp/backend/internal/domain/procurement"
)

// SupplierDirectory resolves supplier references from master data.
// Supplier CRUD lives outside the engine; documents only carry the
// reference and declared kind.
type SupplierDirectory interface {
	// GetSupplier resolves a supplier by ID
	GetSupplier(ctx context.Context, supplierID uuid.UUID) (procurement.SupplierRef, error)
}

// ApprovalPolicy decides whether a user may approve a purchase order.
// The engine itself only enforces that the approver differs from the
// creator; routing rules (amount thresholds, roles) live behind this
// interface.
type ApprovalPolicy interface {
	// CanApprove reports whether the approver may approve the given order
	CanApprove(ctx context.Context, approverID uuid.UUID, order *procurement.PurchaseOrder) error
}

// FinancialEntry is the ledger posting emitted when an invoice is posted
// or a payment completes
type FinancialEntry struct {
	SourceType  string          // "PURCHASE_INVOICE" or "PAYMENT"
	SourceID    uuid.UUID
	SupplierID  uuid.UUID
	Amount      decimal.Decimal
	EntryDate   time.Time
	Description string
}

// EntryPoster posts financial entries to the accounting subsystem.
// General-ledger behavior is consumed as a capability, not specified here.
type EntryPoster interface {
	// PostEntry posts a financial entry
	PostEntry(ctx context.Context, entry FinancialEntry) error
}

// AllowAllApprovalPolicy permits any approver. Used when no routing policy
// is configured; the creator/approver distinction is still enforced by the
// order aggregate.
type AllowAllApprovalPolicy struct{}

// CanApprove always permits the approval
func (AllowAllApprovalPolicy) CanApprove(_ context.Context, _ uuid.UUID, _ *procurement.PurchaseOrder) error {
	return nil
}

// NoOpEntryPoster discards financial entries. Used in tests and when the
// accounting subsystem is not wired.
type NoOpEntryPoster struct{}

// PostEntry discards the entry
func (NoOpEntryPoster) PostEntry(_ context.Context, _ FinancialEntry) error {
	return nil
}

var _ ApprovalPolicy = AllowAllApprovalPolicy{}
var _ EntryPoster = NoOpEntryPoster{}
