package procurement

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/temple-erp/backend/internal/domain/procurement"
)

var testInvoiceNumber = "PINV-2026-00001"

func createDraftInvoice(t *testing.T, order *procurement.PurchaseOrder, quantity decimal.Decimal) *procurement.PurchaseInvoice {
	t.Helper()
	invoice, err := procurement.NewPurchaseInvoice(testInvoiceNumber, procurement.PurchaseInvoiceTypePOBased,
		order.Supplier.ID, order.Supplier.Name, &order.ID, timeOrZero(nil))
	require.NoError(t, err)
	poItemID := order.Items[0].ID
	_, err = invoice.AddItem(&poItemID, testProductRef(), quantity, decimal.NewFromInt(450),
		procurement.DiscountModePercent, decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	return invoice
}

func newInvoiceServiceFixture() (*MockPurchaseInvoiceRepository, *MockPurchaseOrderRepository, *PurchaseInvoiceService) {
	invoiceRepo := new(MockPurchaseInvoiceRepository)
	orderRepo := new(MockPurchaseOrderRepository)
	scope := newTestScope(new(MockPurchaseRequestRepository), orderRepo, new(MockGoodsReceiptRepository), invoiceRepo, new(MockPaymentRepository))
	service := NewPurchaseInvoiceService(invoiceRepo, orderRepo, scope)
	return invoiceRepo, orderRepo, service
}

func TestPurchaseInvoiceService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("create PO-based invoice resolves supplier from the order", func(t *testing.T) {
		invoiceRepo, orderRepo, service := newInvoiceServiceFixture()
		order := createApprovedOrder(t, decimal.NewFromInt(10))
		poItemID := order.Items[0].ID
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		invoiceRepo.On("GenerateInvoiceNumber", mock.Anything).Return(testInvoiceNumber, nil)
		invoiceRepo.On("Save", mock.Anything, mock.AnythingOfType("*procurement.PurchaseInvoice")).Return(nil)

		response, err := service.Create(ctx, CreatePurchaseInvoiceRequest{
			Type:            "PO_BASED",
			PurchaseOrderID: &order.ID,
			SupplierInvoice: "SUP/2026/481",
			Items: []CreatePurchaseInvoiceItemInput{
				{
					POItemID:  &poItemID,
					ItemKind:  "PRODUCT",
					ItemID:    testProductID,
					ItemName:  "Cow Ghee 1L",
					Unit:      "LTR",
					Quantity:  decimal.NewFromInt(10),
					UnitPrice: decimal.NewFromInt(450),
				},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, testInvoiceNumber, response.InvoiceNumber)
		assert.Equal(t, "SUP/2026/481", response.SupplierInvoice)
		assert.Equal(t, "DRAFT", response.Status)
		assert.Equal(t, "PENDING", response.PaymentStatus)
		assert.Equal(t, order.Supplier.ID, response.SupplierID)
		assert.True(t, response.GrandTotal.Equal(decimal.NewFromInt(4500)))
		invoiceRepo.AssertExpectations(t)
	})

	t.Run("order pending approval cannot be invoiced", func(t *testing.T) {
		invoiceRepo, orderRepo, service := newInvoiceServiceFixture()
		order := createDraftOrder(t, decimal.NewFromInt(10))
		require.NoError(t, order.Submit())
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		_, err := service.Create(ctx, CreatePurchaseInvoiceRequest{
			Type:            "PO_BASED",
			PurchaseOrderID: &order.ID,
		})

		var approvalRequired *procurement.POApprovalRequiredError
		require.ErrorAs(t, err, &approvalRequired)
		invoiceRepo.AssertNotCalled(t, "GenerateInvoiceNumber", mock.Anything)
	})

	t.Run("fully invoiced order admits no further invoices", func(t *testing.T) {
		invoiceRepo, orderRepo, service := newInvoiceServiceFixture()
		order := createApprovedOrder(t, decimal.NewFromInt(10))
		require.NoError(t, order.ApplyInvoice([]procurement.InvoiceDelta{
			{POItemID: order.Items[0].ID, Quantity: decimal.NewFromInt(10)},
		}))
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		_, err := service.Create(ctx, CreatePurchaseInvoiceRequest{
			Type:            "PO_BASED",
			PurchaseOrderID: &order.ID,
		})

		assert.Error(t, err)
		invoiceRepo.AssertNotCalled(t, "GenerateInvoiceNumber", mock.Anything)
	})
}

func TestPurchaseInvoiceService_Post(t *testing.T) {
	ctx := context.Background()

	t.Run("post applies invoiced quantities and emits a financial entry", func(t *testing.T) {
		invoiceRepo, orderRepo, service := newInvoiceServiceFixture()
		entryPoster := new(MockEntryPoster)
		service.SetEntryPoster(entryPoster)

		order := createApprovedOrder(t, decimal.NewFromInt(10))
		invoice := createDraftInvoice(t, order, decimal.NewFromInt(10))
		invoiceRepo.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		orderRepo.On("SaveWithLock", mock.Anything, order).Return(nil)
		invoiceRepo.On("SaveWithLock", mock.Anything, invoice).Return(nil)
		entryPoster.On("PostEntry", mock.Anything, mock.MatchedBy(func(entry FinancialEntry) bool {
			return entry.SourceType == "PURCHASE_INVOICE" &&
				entry.SourceID == invoice.ID &&
				entry.Amount.Equal(decimal.NewFromInt(4500))
		})).Return(nil)

		result, err := service.Post(ctx, invoice.ID)

		require.NoError(t, err)
		assert.Equal(t, "POSTED", result.Invoice.Status)
		assert.NotNil(t, result.Invoice.PostedAt)
		assert.True(t, result.Invoice.BalanceAmount.Equal(decimal.NewFromInt(4500)))
		require.NotNil(t, result.Order)
		assert.Equal(t, "INVOICED", result.Order.InvoiceStatus)
		assert.True(t, result.Order.Items[0].InvoicedQuantity.Equal(decimal.NewFromInt(10)))
		entryPoster.AssertExpectations(t)
		orderRepo.AssertExpectations(t)
		invoiceRepo.AssertExpectations(t)
	})

	t.Run("invoicing beyond the ordered quantity rolls back", func(t *testing.T) {
		invoiceRepo, orderRepo, service := newInvoiceServiceFixture()
		entryPoster := new(MockEntryPoster)
		service.SetEntryPoster(entryPoster)

		order := createApprovedOrder(t, decimal.NewFromInt(10))
		invoice := createDraftInvoice(t, order, decimal.NewFromInt(15))
		invoiceRepo.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		_, err := service.Post(ctx, invoice.ID)

		var over *procurement.OverInvoicingError
		require.ErrorAs(t, err, &over)
		assert.True(t, order.Items[0].InvoicedQuantity.IsZero())
		orderRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
		invoiceRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
		entryPoster.AssertNotCalled(t, "PostEntry", mock.Anything, mock.Anything)
	})

	t.Run("re-posting a posted invoice is rejected", func(t *testing.T) {
		invoiceRepo, orderRepo, service := newInvoiceServiceFixture()
		order := createApprovedOrder(t, decimal.NewFromInt(10))
		invoice := createDraftInvoice(t, order, decimal.NewFromInt(10))
		require.NoError(t, invoice.Post())
		invoiceRepo.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)

		_, err := service.Post(ctx, invoice.ID)

		assert.Error(t, err)
		orderRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("direct invoice posts without touching any order", func(t *testing.T) {
		invoiceRepo, orderRepo, service := newInvoiceServiceFixture()
		invoice, err := procurement.NewPurchaseInvoice(testInvoiceNumber, procurement.PurchaseInvoiceTypeDirect,
			testSupplierID, testSupplierName, nil, timeOrZero(nil))
		require.NoError(t, err)
		_, err = invoice.AddItem(nil, testProductRef(), decimal.NewFromInt(2), decimal.NewFromInt(500),
			procurement.DiscountModePercent, decimal.Zero, decimal.Zero)
		require.NoError(t, err)
		invoiceRepo.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)
		invoiceRepo.On("SaveWithLock", mock.Anything, invoice).Return(nil)

		result, err := service.Post(ctx, invoice.ID)

		require.NoError(t, err)
		assert.Equal(t, "POSTED", result.Invoice.Status)
		assert.Nil(t, result.Order)
		orderRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}
