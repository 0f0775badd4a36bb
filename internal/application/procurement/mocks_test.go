package procurement

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/temple-erp/backend/internal/domain/procurement"
	"github.com/temple-erp/backend/internal/domain/shared"
)

// ============================================================
// Mock repositories
// ============================================================

// MockPurchaseRequestRepository is a mock implementation of PurchaseRequestRepository
type MockPurchaseRequestRepository struct {
	mock.Mock
}

func (m *MockPurchaseRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.PurchaseRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.PurchaseRequest), args.Error(1)
}

func (m *MockPurchaseRequestRepository) FindByRequestNumber(ctx context.Context, requestNumber string) (*procurement.PurchaseRequest, error) {
	args := m.Called(ctx, requestNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.PurchaseRequest), args.Error(1)
}

func (m *MockPurchaseRequestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]procurement.PurchaseRequest, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.PurchaseRequest), args.Error(1)
}

func (m *MockPurchaseRequestRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPurchaseRequestRepository) Save(ctx context.Context, request *procurement.PurchaseRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockPurchaseRequestRepository) SaveWithLock(ctx context.Context, request *procurement.PurchaseRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockPurchaseRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPurchaseRequestRepository) GenerateRequestNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockPurchaseOrderRepository is a mock implementation of PurchaseOrderRepository
type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*procurement.PurchaseOrder, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	args := m.Called(ctx, supplierID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByStatus(ctx context.Context, status procurement.PurchaseOrderStatus, filter shared.Filter) ([]procurement.PurchaseOrder, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindBySourceRequest(ctx context.Context, requestID uuid.UUID) ([]procurement.PurchaseOrder, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPurchaseOrderRepository) Save(ctx context.Context, order *procurement.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) SaveWithLock(ctx context.Context, order *procurement.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) GenerateOrderNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockGoodsReceiptRepository is a mock implementation of GoodsReceiptRepository
type MockGoodsReceiptRepository struct {
	mock.Mock
}

func (m *MockGoodsReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.GoodsReceipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.GoodsReceipt), args.Error(1)
}

func (m *MockGoodsReceiptRepository) FindByReceiptNumber(ctx context.Context, receiptNumber string) (*procurement.GoodsReceipt, error) {
	args := m.Called(ctx, receiptNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.GoodsReceipt), args.Error(1)
}

func (m *MockGoodsReceiptRepository) FindAll(ctx context.Context, filter shared.Filter) ([]procurement.GoodsReceipt, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.GoodsReceipt), args.Error(1)
}

func (m *MockGoodsReceiptRepository) FindByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) ([]procurement.GoodsReceipt, error) {
	args := m.Called(ctx, purchaseOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.GoodsReceipt), args.Error(1)
}

func (m *MockGoodsReceiptRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGoodsReceiptRepository) Save(ctx context.Context, receipt *procurement.GoodsReceipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockGoodsReceiptRepository) SaveWithLock(ctx context.Context, receipt *procurement.GoodsReceipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockGoodsReceiptRepository) GenerateReceiptNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockPurchaseInvoiceRepository is a mock implementation of PurchaseInvoiceRepository
type MockPurchaseInvoiceRepository struct {
	mock.Mock
}

func (m *MockPurchaseInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.PurchaseInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.PurchaseInvoice), args.Error(1)
}

func (m *MockPurchaseInvoiceRepository) FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*procurement.PurchaseInvoice, error) {
	args := m.Called(ctx, invoiceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.PurchaseInvoice), args.Error(1)
}

func (m *MockPurchaseInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]procurement.PurchaseInvoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.PurchaseInvoice), args.Error(1)
}

func (m *MockPurchaseInvoiceRepository) FindByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) ([]procurement.PurchaseInvoice, error) {
	args := m.Called(ctx, purchaseOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.PurchaseInvoice), args.Error(1)
}

func (m *MockPurchaseInvoiceRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]procurement.PurchaseInvoice, error) {
	args := m.Called(ctx, supplierID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.PurchaseInvoice), args.Error(1)
}

func (m *MockPurchaseInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPurchaseInvoiceRepository) Save(ctx context.Context, invoice *procurement.PurchaseInvoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockPurchaseInvoiceRepository) SaveWithLock(ctx context.Context, invoice *procurement.PurchaseInvoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockPurchaseInvoiceRepository) GenerateInvoiceNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByPaymentNumber(ctx context.Context, paymentNumber string) (*procurement.Payment, error) {
	args := m.Called(ctx, paymentNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]procurement.Payment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]procurement.Payment, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]procurement.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentRepository) ExistsByReference(ctx context.Context, supplierID uuid.UUID, referenceNumber string) (bool, error) {
	args := m.Called(ctx, supplierID, referenceNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) Save(ctx context.Context, payment *procurement.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) SaveWithLock(ctx context.Context, payment *procurement.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GeneratePaymentNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// ============================================================
// Mock collaborators
// ============================================================

// MockSupplierDirectory is a mock implementation of SupplierDirectory
type MockSupplierDirectory struct {
	mock.Mock
}

func (m *MockSupplierDirectory) GetSupplier(ctx context.Context, supplierID uuid.UUID) (procurement.SupplierRef, error) {
	args := m.Called(ctx, supplierID)
	return args.Get(0).(procurement.SupplierRef), args.Error(1)
}

// MockEntryPoster is a mock implementation of EntryPoster
type MockEntryPoster struct {
	mock.Mock
}

func (m *MockEntryPoster) PostEntry(ctx context.Context, entry FinancialEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// newTestScope wires a NoOpTransactionScope over the given mocks
func newTestScope(
	requestRepo *MockPurchaseRequestRepository,
	orderRepo *MockPurchaseOrderRepository,
	receiptRepo *MockGoodsReceiptRepository,
	invoiceRepo *MockPurchaseInvoiceRepository,
	paymentRepo *MockPaymentRepository,
) *NoOpTransactionScope {
	return NewNoOpTransactionScope(requestRepo, orderRepo, receiptRepo, invoiceRepo, paymentRepo)
}

// ============================================================
// Shared test fixtures
// ============================================================

var (
	testSupplierID   = uuid.New()
	testApproverID   = uuid.New()
	testProductID    = uuid.New()
	testServiceID    = uuid.New()
	testSupplierName = "Sri Ganapathi Traders"
)

func testSupplier(kind procurement.SupplierKind) procurement.SupplierRef {
	return procurement.SupplierRef{ID: testSupplierID, Name: testSupplierName, Kind: kind}
}

func testProductRef() procurement.ItemRef {
	ref, _ := procurement.NewProductRef(testProductID, "Cow Ghee 1L", "GHEE-1L", "LTR")
	return ref
}

func testServiceItemRef() procurement.ItemRef {
	ref, _ := procurement.NewServiceRef(testServiceID, "Mandap Decoration", "SVC-DECOR")
	return ref
}
