package procurement

import (
	"context"

	"github.com/temple-erp/backend/internal/domain/procurement"
)

// TransactionScope provides transactional access to procurement repositories.
// When a function is executed within a transaction scope, all repository
// operations will be part of the same database transaction and will be
// committed or rolled back atomically.
//
// Every cross-aggregate commit (receipt -> order, invoice -> order,
// payment -> invoice) runs inside one scope so that counter updates and
// document saves are all-or-nothing.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all procurement repositories
// within a transaction. All repositories returned share the same underlying
// database transaction.
//
// DDD Aggregate Boundary Notes:
//   - The PurchaseOrder aggregate is the single source of truth for
//     received/invoiced counters. Receipts and invoices mutate it only via
//     ApplyReceipt/ApplyInvoice and save it under optimistic lock here.
//   - Document items are child entities persisted through their aggregate
//     root via GORM association handling; they have no repositories of
//     their own.
type TransactionalRepositories interface {
	// RequestRepo returns the purchase request repository scoped to the current transaction
	RequestRepo() procurement.PurchaseRequestRepository
	// OrderRepo returns the purchase order repository scoped to the current transaction
	OrderRepo() procurement.PurchaseOrderRepository
	// ReceiptRepo returns the goods receipt repository scoped to the current transaction
	ReceiptRepo() procurement.GoodsReceiptRepository
	// InvoiceRepo returns the purchase invoice repository scoped to the current transaction
	InvoiceRepo() procurement.PurchaseInvoiceRepository
	// PaymentRepo returns the payment repository scoped to the current transaction
	PaymentRepo() procurement.PaymentRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support is
// not required.
type NoOpTransactionScope struct {
	requestRepo procurement.PurchaseRequestRepository
	orderRepo   procurement.PurchaseOrderRepository
	receiptRepo procurement.GoodsReceiptRepository
	invoiceRepo procurement.PurchaseInvoiceRepository
	paymentRepo procurement.PaymentRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	requestRepo procurement.PurchaseRequestRepository,
	orderRepo procurement.PurchaseOrderRepository,
	receiptRepo procurement.GoodsReceiptRepository,
	invoiceRepo procurement.PurchaseInvoiceRepository,
	paymentRepo procurement.PaymentRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		requestRepo: requestRepo,
		orderRepo:   orderRepo,
		receiptRepo: receiptRepo,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// RequestRepo returns the purchase request repository.
func (s *NoOpTransactionScope) RequestRepo() procurement.PurchaseRequestRepository {
	return s.requestRepo
}

// OrderRepo returns the purchase order repository.
func (s *NoOpTransactionScope) OrderRepo() procurement.PurchaseOrderRepository {
	return s.orderRepo
}

// ReceiptRepo returns the goods receipt repository.
func (s *NoOpTransactionScope) ReceiptRepo() procurement.GoodsReceiptRepository {
	return s.receiptRepo
}

// InvoiceRepo returns the purchase invoice repository.
func (s *NoOpTransactionScope) InvoiceRepo() procurement.PurchaseInvoiceRepository {
	return s.invoiceRepo
}

// PaymentRepo returns the payment repository.
func (s *NoOpTransactionScope) PaymentRepo() procurement.PaymentRepository {
	return s.paymentRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
