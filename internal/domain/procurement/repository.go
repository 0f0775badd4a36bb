package procurement

import (
	"context"

	"github.com/google/uuid"
	"github.com/temple-erp/backend/internal/domain/shared"
)

// PurchaseRequestRepository defines the interface for purchase request persistence
type PurchaseRequestRepository interface {
	// FindByID finds a purchase request by ID, items and conversions included
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseRequest, error)

	// FindByRequestNumber finds a purchase request by request number
	FindByRequestNumber(ctx context.Context, requestNumber string) (*PurchaseRequest, error)

	// FindAll finds purchase requests with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseRequest, error)

	// Count counts purchase requests matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates a purchase request
	Save(ctx context.Context, request *PurchaseRequest) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, request *PurchaseRequest) error

	// Delete deletes a purchase request
	Delete(ctx context.Context, id uuid.UUID) error

	// GenerateRequestNumber generates a unique request number
	GenerateRequestNumber(ctx context.Context) (string, error)
}

// PurchaseOrderRepository defines the interface for purchase order persistence
type PurchaseOrderRepository interface {
	// FindByID finds a purchase order by ID, items included
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByOrderNumber finds a purchase order by order number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*PurchaseOrder, error)

	// FindAll finds purchase orders with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseOrder, error)

	// FindBySupplier finds purchase orders for a supplier
	FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)

	// FindByStatus finds purchase orders by status
	FindByStatus(ctx context.Context, status PurchaseOrderStatus, filter shared.Filter) ([]PurchaseOrder, error)

	// FindBySourceRequest finds purchase orders converted from a request
	FindBySourceRequest(ctx context.Context, requestID uuid.UUID) ([]PurchaseOrder, error)

	// Count counts purchase orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates a purchase order
	Save(ctx context.Context, order *PurchaseOrder) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, order *PurchaseOrder) error

	// Delete deletes a purchase order
	Delete(ctx context.Context, id uuid.UUID) error

	// GenerateOrderNumber generates a unique order number
	GenerateOrderNumber(ctx context.Context) (string, error)
}

// GoodsReceiptRepository defines the interface for goods receipt persistence
type GoodsReceiptRepository interface {
	// FindByID finds a goods receipt by ID, items included
	FindByID(ctx context.Context, id uuid.UUID) (*GoodsReceipt, error)

	// FindByReceiptNumber finds a goods receipt by receipt number
	FindByReceiptNumber(ctx context.Context, receiptNumber string) (*GoodsReceipt, error)

	// FindAll finds goods receipts with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]GoodsReceipt, error)

	// FindByPurchaseOrder finds goods receipts recorded against an order
	FindByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) ([]GoodsReceipt, error)

	// Count counts goods receipts matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates a goods receipt
	Save(ctx context.Context, receipt *GoodsReceipt) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, receipt *GoodsReceipt) error

	// GenerateReceiptNumber generates a unique receipt number
	GenerateReceiptNumber(ctx context.Context) (string, error)
}

// PurchaseInvoiceRepository defines the interface for purchase invoice persistence
type PurchaseInvoiceRepository interface {
	// FindByID finds a purchase invoice by ID, items included
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseInvoice, error)

	// FindByInvoiceNumber finds a purchase invoice by invoice number
	FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*PurchaseInvoice, error)

	// FindAll finds purchase invoices with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseInvoice, error)

	// FindByPurchaseOrder finds invoices billed against an order
	FindByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) ([]PurchaseInvoice, error)

	// FindBySupplier finds invoices for a supplier
	FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]PurchaseInvoice, error)

	// Count counts purchase invoices matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates a purchase invoice
	Save(ctx context.Context, invoice *PurchaseInvoice) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, invoice *PurchaseInvoice) error

	// GenerateInvoiceNumber generates a unique invoice number
	GenerateInvoiceNumber(ctx context.Context) (string, error)
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// FindByID finds a payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByPaymentNumber finds a payment by payment number
	FindByPaymentNumber(ctx context.Context, paymentNumber string) (*Payment, error)

	// FindAll finds payments with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Payment, error)

	// FindByInvoice finds payments applied against an invoice
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]Payment, error)

	// Count counts payments matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByReference reports whether a non-cancelled payment with the
	// given reference number exists for the supplier
	ExistsByReference(ctx context.Context, supplierID uuid.UUID, referenceNumber string) (bool, error)

	// Save creates or updates a payment
	Save(ctx context.Context, payment *Payment) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, payment *Payment) error

	// GeneratePaymentNumber generates a unique payment number
	GeneratePaymentNumber(ctx context.Context) (string, error)
}
