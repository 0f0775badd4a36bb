package persistence

import (
	"context"

	"gorm.io/gorm"

	appproc "github.com/temple-erp/backend/internal/application/procurement"
	"github.com/temple-erp/backend/internal/domain/procurement"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations, so a
// receipt completion, invoice posting or payment can update both documents
// all-or-nothing.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appproc.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// RequestRepo returns the purchase request repository scoped to the current transaction.
func (r *gormTransactionalRepositories) RequestRepo() procurement.PurchaseRequestRepository {
	return NewGormPurchaseRequestRepository(r.tx)
}

// OrderRepo returns the purchase order repository scoped to the current transaction.
func (r *gormTransactionalRepositories) OrderRepo() procurement.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(r.tx)
}

// ReceiptRepo returns the goods receipt repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ReceiptRepo() procurement.GoodsReceiptRepository {
	return NewGormGoodsReceiptRepository(r.tx)
}

// InvoiceRepo returns the purchase invoice repository scoped to the current transaction.
func (r *gormTransactionalRepositories) InvoiceRepo() procurement.PurchaseInvoiceRepository {
	return NewGormPurchaseInvoiceRepository(r.tx)
}

// PaymentRepo returns the payment repository scoped to the current transaction.
func (r *gormTransactionalRepositories) PaymentRepo() procurement.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appproc.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appproc.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
