package procurement

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/temple-erp/backend/internal/domain/procurement"
)

var (
	testRequestNumber = "PR-2026-00001"
	testOrderNumber   = "PO-2026-00001"
)

func createTestRequest(t *testing.T, quantity decimal.Decimal) *procurement.PurchaseRequest {
	t.Helper()
	request, err := procurement.NewPurchaseRequest(testRequestNumber, timeOrZero(nil), procurement.PurchaseRequestPriorityNormal, "Festival provisions")
	require.NoError(t, err)
	_, err = request.AddItem(testProductRef(), quantity, nil)
	require.NoError(t, err)
	return request
}

func newRequestServiceFixture() (*MockPurchaseRequestRepository, *MockPurchaseOrderRepository, *MockSupplierDirectory, *PurchaseRequestService) {
	requestRepo := new(MockPurchaseRequestRepository)
	orderRepo := new(MockPurchaseOrderRepository)
	suppliers := new(MockSupplierDirectory)
	scope := newTestScope(requestRepo, orderRepo, new(MockGoodsReceiptRepository), new(MockPurchaseInvoiceRepository), new(MockPaymentRepository))
	service := NewPurchaseRequestService(requestRepo, orderRepo, suppliers, scope)
	return requestRepo, orderRepo, suppliers, service
}

func TestPurchaseRequestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("create request successfully", func(t *testing.T) {
		requestRepo, _, _, service := newRequestServiceFixture()
		requestRepo.On("GenerateRequestNumber", mock.Anything).Return(testRequestNumber, nil)
		requestRepo.On("Save", mock.Anything, mock.AnythingOfType("*procurement.PurchaseRequest")).Return(nil)

		response, err := service.Create(ctx, CreatePurchaseRequestRequest{
			Priority: "HIGH",
			Purpose:  "Festival provisions",
			Items: []CreatePurchaseRequestItemInput{
				{
					ItemKind: "PRODUCT",
					ItemID:   testProductID,
					ItemName: "Cow Ghee 1L",
					Unit:     "LTR",
					Quantity: decimal.NewFromInt(10),
					Remark:   "prefer organic",
				},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, testRequestNumber, response.RequestNumber)
		assert.Equal(t, "HIGH", response.Priority)
		assert.Equal(t, "PENDING", response.Status)
		require.Len(t, response.Items, 1)
		assert.True(t, response.Items[0].RequestedQuantity.Equal(decimal.NewFromInt(10)))
		assert.Equal(t, "prefer organic", response.Items[0].Remark)
		requestRepo.AssertExpectations(t)
	})

	t.Run("service items carry nominal quantity", func(t *testing.T) {
		requestRepo, _, _, service := newRequestServiceFixture()
		requestRepo.On("GenerateRequestNumber", mock.Anything).Return(testRequestNumber, nil)
		requestRepo.On("Save", mock.Anything, mock.AnythingOfType("*procurement.PurchaseRequest")).Return(nil)

		response, err := service.Create(ctx, CreatePurchaseRequestRequest{
			Items: []CreatePurchaseRequestItemInput{
				{
					ItemKind: "SERVICE",
					ItemID:   testServiceID,
					ItemName: "Mandap Decoration",
					Quantity: decimal.NewFromInt(25),
				},
			},
		})

		require.NoError(t, err)
		require.Len(t, response.Items, 1)
		assert.True(t, response.Items[0].RequestedQuantity.Equal(decimal.NewFromInt(1)))
		assert.Empty(t, response.Items[0].Unit)
	})

	t.Run("save error is returned", func(t *testing.T) {
		requestRepo, _, _, service := newRequestServiceFixture()
		requestRepo.On("GenerateRequestNumber", mock.Anything).Return(testRequestNumber, nil)
		requestRepo.On("Save", mock.Anything, mock.Anything).Return(errors.New("db down"))

		_, err := service.Create(ctx, CreatePurchaseRequestRequest{
			Items: []CreatePurchaseRequestItemInput{
				{ItemKind: "PRODUCT", ItemID: testProductID, ItemName: "Cow Ghee 1L", Quantity: decimal.NewFromInt(1)},
			},
		})

		assert.Error(t, err)
	})
}

func TestPurchaseRequestService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("cancel pending request", func(t *testing.T) {
		requestRepo, _, _, service := newRequestServiceFixture()
		request := createTestRequest(t, decimal.NewFromInt(10))
		requestRepo.On("FindByID", mock.Anything, request.ID).Return(request, nil)
		requestRepo.On("SaveWithLock", mock.Anything, request).Return(nil)

		response, err := service.Cancel(ctx, request.ID, CancelPurchaseRequestRequest{Reason: "budget withdrawn"})

		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", response.Status)
		assert.Equal(t, "budget withdrawn", response.CancelReason)
		assert.NotNil(t, response.CancelledAt)
	})

	t.Run("cancel after conversion is rejected", func(t *testing.T) {
		requestRepo, _, _, service := newRequestServiceFixture()
		request := createTestRequest(t, decimal.NewFromInt(10))
		require.NoError(t, request.RecordConversion(request.Items[0].ID, testSupplierID, uuid.New(), uuid.New(), decimal.NewFromInt(4)))
		requestRepo.On("FindByID", mock.Anything, request.ID).Return(request, nil)

		_, err := service.Cancel(ctx, request.ID, CancelPurchaseRequestRequest{Reason: "budget withdrawn"})

		assert.Error(t, err)
		requestRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestPurchaseRequestService_SplitConvert(t *testing.T) {
	ctx := context.Background()

	t.Run("convert selected quantity into one supplier order", func(t *testing.T) {
		requestRepo, orderRepo, suppliers, service := newRequestServiceFixture()
		request := createTestRequest(t, decimal.NewFromInt(10))
		itemID := request.Items[0].ID

		suppliers.On("GetSupplier", mock.Anything, testSupplierID).Return(testSupplier(procurement.SupplierKindBoth), nil)
		requestRepo.On("FindByID", mock.Anything, request.ID).Return(request, nil)
		orderRepo.On("GenerateOrderNumber", mock.Anything).Return(testOrderNumber, nil)
		orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*procurement.PurchaseOrder")).Return(nil)
		requestRepo.On("SaveWithLock", mock.Anything, request).Return(nil)

		result, err := service.SplitConvert(ctx, request.ID, SplitConvertRequest{
			SupplierID: testSupplierID,
			Selections: []SplitConvertSelection{
				{RequestItemID: itemID, Quantity: decimal.NewFromInt(6), UnitPrice: decimal.NewFromInt(450)},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, testOrderNumber, result.Order.OrderNumber)
		assert.Equal(t, "DRAFT", result.Order.Status)
		require.Len(t, result.Order.Items, 1)
		assert.True(t, result.Order.Items[0].OrderedQuantity.Equal(decimal.NewFromInt(6)))
		require.NotNil(t, result.Order.Items[0].SourcePRItemID)
		assert.Equal(t, itemID, *result.Order.Items[0].SourcePRItemID)

		assert.Equal(t, "PARTIAL_CONVERTED", result.Request.Status)
		assert.True(t, result.Request.Items[0].ConvertedQuantity.Equal(decimal.NewFromInt(6)))
		assert.True(t, result.Request.Items[0].RemainingQuantity.Equal(decimal.NewFromInt(4)))
		orderRepo.AssertExpectations(t)
		requestRepo.AssertExpectations(t)
	})

	t.Run("full conversion marks the request converted", func(t *testing.T) {
		requestRepo, orderRepo, suppliers, service := newRequestServiceFixture()
		request := createTestRequest(t, decimal.NewFromInt(10))
		itemID := request.Items[0].ID

		suppliers.On("GetSupplier", mock.Anything, testSupplierID).Return(testSupplier(procurement.SupplierKindProduct), nil)
		requestRepo.On("FindByID", mock.Anything, request.ID).Return(request, nil)
		orderRepo.On("GenerateOrderNumber", mock.Anything).Return(testOrderNumber, nil)
		orderRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		requestRepo.On("SaveWithLock", mock.Anything, request).Return(nil)

		result, err := service.SplitConvert(ctx, request.ID, SplitConvertRequest{
			SupplierID: testSupplierID,
			Selections: []SplitConvertSelection{
				{RequestItemID: itemID, Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(450)},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "CONVERTED", result.Request.Status)
		assert.True(t, result.Request.Items[0].RemainingQuantity.IsZero())
	})

	t.Run("duplicate selections merge into one order line", func(t *testing.T) {
		requestRepo, orderRepo, suppliers, service := newRequestServiceFixture()
		request := createTestRequest(t, decimal.NewFromInt(10))
		itemID := request.Items[0].ID

		suppliers.On("GetSupplier", mock.Anything, testSupplierID).Return(testSupplier(procurement.SupplierKindBoth), nil)
		requestRepo.On("FindByID", mock.Anything, request.ID).Return(request, nil)
		orderRepo.On("GenerateOrderNumber", mock.Anything).Return(testOrderNumber, nil)
		orderRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		requestRepo.On("SaveWithLock", mock.Anything, request).Return(nil)

		result, err := service.SplitConvert(ctx, request.ID, SplitConvertRequest{
			SupplierID: testSupplierID,
			Selections: []SplitConvertSelection{
				{RequestItemID: itemID, Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(450)},
				{RequestItemID: itemID, Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(450)},
			},
		})

		require.NoError(t, err)
		require.Len(t, result.Order.Items, 1)
		assert.True(t, result.Order.Items[0].OrderedQuantity.Equal(decimal.NewFromInt(7)))
		// the conversion ledger keeps both entries
		require.Len(t, result.Request.Items[0].Conversions, 2)
		assert.True(t, result.Request.Items[0].ConvertedQuantity.Equal(decimal.NewFromInt(7)))
	})

	t.Run("supplier kind mismatch is rejected", func(t *testing.T) {
		requestRepo, orderRepo, suppliers, service := newRequestServiceFixture()
		request := createTestRequest(t, decimal.NewFromInt(10))

		suppliers.On("GetSupplier", mock.Anything, testSupplierID).Return(testSupplier(procurement.SupplierKindService), nil)
		requestRepo.On("FindByID", mock.Anything, request.ID).Return(request, nil)
		orderRepo.On("GenerateOrderNumber", mock.Anything).Return(testOrderNumber, nil)

		_, err := service.SplitConvert(ctx, request.ID, SplitConvertRequest{
			SupplierID: testSupplierID,
			Selections: []SplitConvertSelection{
				{RequestItemID: request.Items[0].ID, Quantity: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(450)},
			},
		})

		var mismatch *procurement.TypeMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, procurement.SupplierKindService, mismatch.SupplierKind)
		orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		requestRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("conversion beyond the remaining quantity is rejected", func(t *testing.T) {
		requestRepo, orderRepo, suppliers, service := newRequestServiceFixture()
		request := createTestRequest(t, decimal.NewFromInt(10))
		require.NoError(t, request.RecordConversion(request.Items[0].ID, uuid.New(), uuid.New(), uuid.New(), decimal.NewFromInt(7)))

		suppliers.On("GetSupplier", mock.Anything, testSupplierID).Return(testSupplier(procurement.SupplierKindBoth), nil)
		requestRepo.On("FindByID", mock.Anything, request.ID).Return(request, nil)
		orderRepo.On("GenerateOrderNumber", mock.Anything).Return(testOrderNumber, nil)

		_, err := service.SplitConvert(ctx, request.ID, SplitConvertRequest{
			SupplierID: testSupplierID,
			Selections: []SplitConvertSelection{
				{RequestItemID: request.Items[0].ID, Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(450)},
			},
		})

		var over *procurement.OverConversionError
		require.ErrorAs(t, err, &over)
		orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		requestRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("unknown request item is rejected", func(t *testing.T) {
		requestRepo, orderRepo, suppliers, service := newRequestServiceFixture()
		request := createTestRequest(t, decimal.NewFromInt(10))

		suppliers.On("GetSupplier", mock.Anything, testSupplierID).Return(testSupplier(procurement.SupplierKindBoth), nil)
		requestRepo.On("FindByID", mock.Anything, request.ID).Return(request, nil)
		orderRepo.On("GenerateOrderNumber", mock.Anything).Return(testOrderNumber, nil)

		_, err := service.SplitConvert(ctx, request.ID, SplitConvertRequest{
			SupplierID: testSupplierID,
			Selections: []SplitConvertSelection{
				{RequestItemID: uuid.New(), Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(450)},
			},
		})

		assert.Error(t, err)
		orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
