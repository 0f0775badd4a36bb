package procurement

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/temple-erp/backend/internal/domain/procurement"
)

var testReceiptNumber = "GRN-2026-00001"

func createDraftReceipt(t *testing.T, order *procurement.PurchaseOrder, accepted decimal.Decimal) *procurement.GoodsReceipt {
	t.Helper()
	receipt, err := procurement.NewGoodsReceipt(testReceiptNumber, procurement.GoodsReceiptTypePOBased,
		order.Supplier.ID, order.Supplier.Name, &order.ID, timeOrZero(nil))
	require.NoError(t, err)
	poItemID := order.Items[0].ID
	_, err = receipt.AddItem(procurement.GoodsReceiptItemInput{
		POItemID:         &poItemID,
		Item:             testProductRef(),
		ReceivedQuantity: accepted,
		AcceptedQuantity: accepted,
	})
	require.NoError(t, err)
	return receipt
}

func newReceiptServiceFixture() (*MockGoodsReceiptRepository, *MockPurchaseOrderRepository, *GoodsReceiptService) {
	receiptRepo := new(MockGoodsReceiptRepository)
	orderRepo := new(MockPurchaseOrderRepository)
	scope := newTestScope(new(MockPurchaseRequestRepository), orderRepo, receiptRepo, new(MockPurchaseInvoiceRepository), new(MockPaymentRepository))
	service := NewGoodsReceiptService(receiptRepo, orderRepo, scope)
	return receiptRepo, orderRepo, service
}

func TestGoodsReceiptService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("create PO-based receipt resolves supplier from the order", func(t *testing.T) {
		receiptRepo, orderRepo, service := newReceiptServiceFixture()
		order := createApprovedOrder(t, decimal.NewFromInt(10))
		poItemID := order.Items[0].ID
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		receiptRepo.On("GenerateReceiptNumber", mock.Anything).Return(testReceiptNumber, nil)
		receiptRepo.On("Save", mock.Anything, mock.AnythingOfType("*procurement.GoodsReceipt")).Return(nil)

		response, err := service.Create(ctx, CreateGoodsReceiptRequest{
			Type:            "PO_BASED",
			PurchaseOrderID: &order.ID,
			Items: []CreateGoodsReceiptItemInput{
				{
					POItemID:         &poItemID,
					ItemKind:         "PRODUCT",
					ItemID:           testProductID,
					ItemName:         "Cow Ghee 1L",
					Unit:             "LTR",
					ReceivedQuantity: decimal.NewFromInt(6),
					AcceptedQuantity: decimal.NewFromInt(6),
				},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, testReceiptNumber, response.ReceiptNumber)
		assert.Equal(t, "DRAFT", response.Status)
		assert.Equal(t, order.Supplier.ID, response.SupplierID)
		assert.Equal(t, order.Supplier.Name, response.SupplierName)
		require.Len(t, response.Items, 1)
		receiptRepo.AssertExpectations(t)
	})

	t.Run("line referencing an unknown order item is rejected", func(t *testing.T) {
		receiptRepo, orderRepo, service := newReceiptServiceFixture()
		order := createApprovedOrder(t, decimal.NewFromInt(10))
		strayID := uuid.New()
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		receiptRepo.On("GenerateReceiptNumber", mock.Anything).Return(testReceiptNumber, nil)

		_, err := service.Create(ctx, CreateGoodsReceiptRequest{
			Type:            "PO_BASED",
			PurchaseOrderID: &order.ID,
			Items: []CreateGoodsReceiptItemInput{
				{
					POItemID:         &strayID,
					ItemKind:         "PRODUCT",
					ItemID:           testProductID,
					ItemName:         "Cow Ghee 1L",
					ReceivedQuantity: decimal.NewFromInt(6),
					AcceptedQuantity: decimal.NewFromInt(6),
				},
			},
		})

		assert.Error(t, err)
		receiptRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("received quantity beyond the tolerance ceiling is rejected at creation", func(t *testing.T) {
		receiptRepo, orderRepo, service := newReceiptServiceFixture()
		order, err := procurement.NewPurchaseOrder(testOrderNumber, testSupplier(procurement.SupplierKindBoth), nil)
		require.NoError(t, err)
		_, err = order.AddItem(testProductRef(), decimal.NewFromInt(10), decimal.NewFromInt(450),
			procurement.DiscountModePercent, decimal.Zero, decimal.Zero, decimal.NewFromInt(10), nil)
		require.NoError(t, err)
		require.NoError(t, order.Submit())
		require.NoError(t, order.Approve(testApproverID))
		poItemID := order.Items[0].ID
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		receiptRepo.On("GenerateReceiptNumber", mock.Anything).Return(testReceiptNumber, nil)

		// Accepting only 5 does not excuse receiving 100 against a max of 11
		_, err = service.Create(ctx, CreateGoodsReceiptRequest{
			Type:            "PO_BASED",
			PurchaseOrderID: &order.ID,
			Items: []CreateGoodsReceiptItemInput{
				{
					POItemID:         &poItemID,
					ItemKind:         "PRODUCT",
					ItemID:           testProductID,
					ItemName:         "Cow Ghee 1L",
					ReceivedQuantity: decimal.NewFromInt(100),
					AcceptedQuantity: decimal.NewFromInt(5),
				},
			},
		})

		var over *procurement.OverDeliveryError
		require.ErrorAs(t, err, &over)
		assert.True(t, over.Received.Equal(decimal.NewFromInt(100)))
		assert.True(t, over.MaxAllowed.Equal(decimal.NewFromInt(11)))
		receiptRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("lines against the same order line share the creation ceiling", func(t *testing.T) {
		receiptRepo, orderRepo, service := newReceiptServiceFixture()
		order := createApprovedOrder(t, decimal.NewFromInt(10))
		poItemID := order.Items[0].ID
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		receiptRepo.On("GenerateReceiptNumber", mock.Anything).Return(testReceiptNumber, nil)

		line := CreateGoodsReceiptItemInput{
			POItemID:         &poItemID,
			ItemKind:         "PRODUCT",
			ItemID:           testProductID,
			ItemName:         "Cow Ghee 1L",
			ReceivedQuantity: decimal.NewFromInt(6),
			AcceptedQuantity: decimal.NewFromInt(6),
		}
		_, err := service.Create(ctx, CreateGoodsReceiptRequest{
			Type:            "PO_BASED",
			PurchaseOrderID: &order.ID,
			Items:           []CreateGoodsReceiptItemInput{line, line},
		})

		var over *procurement.OverDeliveryError
		require.ErrorAs(t, err, &over)
		assert.True(t, over.Received.Equal(decimal.NewFromInt(12)))
		receiptRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("inconsistent accepted and rejected split is rejected", func(t *testing.T) {
		receiptRepo, orderRepo, service := newReceiptServiceFixture()
		order := createApprovedOrder(t, decimal.NewFromInt(10))
		poItemID := order.Items[0].ID
		rejected := decimal.NewFromInt(3)
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		receiptRepo.On("GenerateReceiptNumber", mock.Anything).Return(testReceiptNumber, nil)

		_, err := service.Create(ctx, CreateGoodsReceiptRequest{
			Type:            "PO_BASED",
			PurchaseOrderID: &order.ID,
			Items: []CreateGoodsReceiptItemInput{
				{
					POItemID:         &poItemID,
					ItemKind:         "PRODUCT",
					ItemID:           testProductID,
					ItemName:         "Cow Ghee 1L",
					ReceivedQuantity: decimal.NewFromInt(6),
					AcceptedQuantity: decimal.NewFromInt(5),
					RejectedQuantity: &rejected, // 5 + 3 != 6
				},
			},
		})

		var inconsistent *procurement.QuantityInconsistentError
		require.ErrorAs(t, err, &inconsistent)
	})
}

func TestGoodsReceiptService_Complete(t *testing.T) {
	ctx := context.Background()

	t.Run("complete applies accepted quantities to the order", func(t *testing.T) {
		receiptRepo, orderRepo, service := newReceiptServiceFixture()
		order := createApprovedOrder(t, decimal.NewFromInt(10))
		receipt := createDraftReceipt(t, order, decimal.NewFromInt(6))
		receiptRepo.On("FindByID", mock.Anything, receipt.ID).Return(receipt, nil)
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		orderRepo.On("SaveWithLock", mock.Anything, order).Return(nil)
		receiptRepo.On("SaveWithLock", mock.Anything, receipt).Return(nil)

		result, err := service.Complete(ctx, receipt.ID)

		require.NoError(t, err)
		assert.Equal(t, "COMPLETED", result.Receipt.Status)
		assert.NotNil(t, result.Receipt.CompletedAt)
		require.NotNil(t, result.Order)
		assert.Equal(t, "PARTIAL_RECEIVED", result.Order.Status)
		assert.True(t, result.Order.Items[0].ReceivedQuantity.Equal(decimal.NewFromInt(6)))
		orderRepo.AssertExpectations(t)
		receiptRepo.AssertExpectations(t)
	})

	t.Run("delivery beyond the tolerance ceiling rolls back", func(t *testing.T) {
		receiptRepo, orderRepo, service := newReceiptServiceFixture()
		order := createApprovedOrder(t, decimal.NewFromInt(10))
		receipt := createDraftReceipt(t, order, decimal.NewFromInt(15))
		receiptRepo.On("FindByID", mock.Anything, receipt.ID).Return(receipt, nil)
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		_, err := service.Complete(ctx, receipt.ID)

		var over *procurement.OverDeliveryError
		require.ErrorAs(t, err, &over)
		assert.True(t, order.Items[0].ReceivedQuantity.IsZero())
		orderRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
		receiptRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("tolerance admits a bounded overage", func(t *testing.T) {
		receiptRepo, orderRepo, service := newReceiptServiceFixture()
		order, err := procurement.NewPurchaseOrder(testOrderNumber, testSupplier(procurement.SupplierKindBoth), nil)
		require.NoError(t, err)
		_, err = order.AddItem(testProductRef(), decimal.NewFromInt(10), decimal.NewFromInt(450),
			procurement.DiscountModePercent, decimal.Zero, decimal.Zero, decimal.NewFromInt(10), nil)
		require.NoError(t, err)
		require.NoError(t, order.Submit())
		require.NoError(t, order.Approve(testApproverID))

		receipt := createDraftReceipt(t, order, decimal.NewFromInt(11))
		receiptRepo.On("FindByID", mock.Anything, receipt.ID).Return(receipt, nil)
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		orderRepo.On("SaveWithLock", mock.Anything, order).Return(nil)
		receiptRepo.On("SaveWithLock", mock.Anything, receipt).Return(nil)

		result, err := service.Complete(ctx, receipt.ID)

		require.NoError(t, err)
		assert.True(t, result.Order.Items[0].ReceivedQuantity.Equal(decimal.NewFromInt(11)))
		assert.Equal(t, "RECEIVED", result.Order.Status)
	})

	t.Run("direct receipt completes without touching any order", func(t *testing.T) {
		receiptRepo, orderRepo, service := newReceiptServiceFixture()
		receipt, err := procurement.NewGoodsReceipt(testReceiptNumber, procurement.GoodsReceiptTypeDirect,
			testSupplierID, testSupplierName, nil, timeOrZero(nil))
		require.NoError(t, err)
		_, err = receipt.AddItem(procurement.GoodsReceiptItemInput{
			Item:             testProductRef(),
			ReceivedQuantity: decimal.NewFromInt(5),
			AcceptedQuantity: decimal.NewFromInt(5),
		})
		require.NoError(t, err)
		receiptRepo.On("FindByID", mock.Anything, receipt.ID).Return(receipt, nil)
		receiptRepo.On("SaveWithLock", mock.Anything, receipt).Return(nil)

		result, err := service.Complete(ctx, receipt.ID)

		require.NoError(t, err)
		assert.Equal(t, "COMPLETED", result.Receipt.Status)
		assert.Nil(t, result.Order)
		orderRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("re-completing a receipt is rejected", func(t *testing.T) {
		receiptRepo, _, service := newReceiptServiceFixture()
		receipt, err := procurement.NewGoodsReceipt(testReceiptNumber, procurement.GoodsReceiptTypeDirect,
			testSupplierID, testSupplierName, nil, timeOrZero(nil))
		require.NoError(t, err)
		_, err = receipt.AddItem(procurement.GoodsReceiptItemInput{
			Item:             testProductRef(),
			ReceivedQuantity: decimal.NewFromInt(5),
			AcceptedQuantity: decimal.NewFromInt(5),
		})
		require.NoError(t, err)
		require.NoError(t, receipt.Complete())
		receiptRepo.On("FindByID", mock.Anything, receipt.ID).Return(receipt, nil)

		_, err = service.Complete(ctx, receipt.ID)

		assert.Error(t, err)
		receiptRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("serial numbers must match the accepted quantity", func(t *testing.T) {
		receiptRepo, orderRepo, service := newReceiptServiceFixture()
		order := createApprovedOrder(t, decimal.NewFromInt(10))
		poItemID := order.Items[0].ID
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		receiptRepo.On("GenerateReceiptNumber", mock.Anything).Return(testReceiptNumber, nil)

		_, err := service.Create(ctx, CreateGoodsReceiptRequest{
			Type:            "PO_BASED",
			PurchaseOrderID: &order.ID,
			Items: []CreateGoodsReceiptItemInput{
				{
					POItemID:         &poItemID,
					ItemKind:         "PRODUCT",
					ItemID:           testProductID,
					ItemName:         "Cow Ghee 1L",
					ReceivedQuantity: decimal.NewFromInt(3),
					AcceptedQuantity: decimal.NewFromInt(3),
					SerialNumbers:    []string{"SN-1", "SN-2"},
				},
			},
		})

		var mismatch *procurement.SerialCountMismatchError
		require.ErrorAs(t, err, &mismatch)
	})
}

func TestGoodsReceiptService_AddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("adds a line within the remaining ceiling", func(t *testing.T) {
		receiptRepo, orderRepo, service := newReceiptServiceFixture()
		order := createApprovedOrder(t, decimal.NewFromInt(10))
		poItemID := order.Items[0].ID
		receipt := createDraftReceipt(t, order, decimal.NewFromInt(6))
		receiptRepo.On("FindByID", mock.Anything, receipt.ID).Return(receipt, nil)
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		receiptRepo.On("SaveWithLock", mock.Anything, receipt).Return(nil)

		response, err := service.AddItem(ctx, receipt.ID, CreateGoodsReceiptItemInput{
			POItemID:         &poItemID,
			ItemKind:         "PRODUCT",
			ItemID:           testProductID,
			ItemName:         "Cow Ghee 1L",
			Unit:             "LTR",
			ReceivedQuantity: decimal.NewFromInt(4),
			AcceptedQuantity: decimal.NewFromInt(4),
		})

		require.NoError(t, err)
		require.Len(t, response.Items, 2)
		receiptRepo.AssertExpectations(t)
	})

	t.Run("draft lines count against the added line's ceiling", func(t *testing.T) {
		receiptRepo, orderRepo, service := newReceiptServiceFixture()
		order := createApprovedOrder(t, decimal.NewFromInt(10))
		poItemID := order.Items[0].ID
		receipt := createDraftReceipt(t, order, decimal.NewFromInt(6))
		receiptRepo.On("FindByID", mock.Anything, receipt.ID).Return(receipt, nil)
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		_, err := service.AddItem(ctx, receipt.ID, CreateGoodsReceiptItemInput{
			POItemID:         &poItemID,
			ItemKind:         "PRODUCT",
			ItemID:           testProductID,
			ItemName:         "Cow Ghee 1L",
			ReceivedQuantity: decimal.NewFromInt(5),
			AcceptedQuantity: decimal.NewFromInt(5),
		})

		var over *procurement.OverDeliveryError
		require.ErrorAs(t, err, &over)
		assert.True(t, over.Received.Equal(decimal.NewFromInt(11)))
		assert.True(t, over.MaxAllowed.Equal(decimal.NewFromInt(10)))
		receiptRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}
