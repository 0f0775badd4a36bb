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
	"github.com/temple-erp/backend/internal/domain/shared"
)

// denyApprovalPolicy rejects every approval, used to exercise the policy hook
type denyApprovalPolicy struct{}

func (denyApprovalPolicy) CanApprove(_ context.Context, _ uuid.UUID, _ *procurement.PurchaseOrder) error {
	return shared.NewDomainError("APPROVAL_DENIED", "Approver lacks the required role")
}

func createDraftOrder(t *testing.T, quantity decimal.Decimal) *procurement.PurchaseOrder {
	t.Helper()
	order, err := procurement.NewPurchaseOrder(testOrderNumber, testSupplier(procurement.SupplierKindBoth), nil)
	require.NoError(t, err)
	_, err = order.AddItem(testProductRef(), quantity, decimal.NewFromInt(450),
		procurement.DiscountModePercent, decimal.Zero, decimal.Zero, decimal.Zero, nil)
	require.NoError(t, err)
	return order
}

func createApprovedOrder(t *testing.T, quantity decimal.Decimal) *procurement.PurchaseOrder {
	t.Helper()
	order := createDraftOrder(t, quantity)
	require.NoError(t, order.Submit())
	require.NoError(t, order.Approve(testApproverID))
	return order
}

func newOrderServiceFixture() (*MockPurchaseOrderRepository, *MockSupplierDirectory, *PurchaseOrderService) {
	orderRepo := new(MockPurchaseOrderRepository)
	suppliers := new(MockSupplierDirectory)
	service := NewPurchaseOrderService(orderRepo, suppliers)
	return orderRepo, suppliers, service
}

func TestPurchaseOrderService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("create order successfully", func(t *testing.T) {
		orderRepo, suppliers, service := newOrderServiceFixture()
		suppliers.On("GetSupplier", mock.Anything, testSupplierID).Return(testSupplier(procurement.SupplierKindBoth), nil)
		orderRepo.On("GenerateOrderNumber", mock.Anything).Return(testOrderNumber, nil)
		orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*procurement.PurchaseOrder")).Return(nil)

		response, err := service.Create(ctx, CreatePurchaseOrderRequest{
			SupplierID: testSupplierID,
			Items: []CreatePurchaseOrderItemInput{
				{
					ItemKind:       "PRODUCT",
					ItemID:         testProductID,
					ItemName:       "Cow Ghee 1L",
					Unit:           "LTR",
					Quantity:       decimal.NewFromInt(10),
					UnitPrice:      decimal.NewFromInt(450),
					TaxRatePercent: decimal.NewFromInt(5),
				},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, testOrderNumber, response.OrderNumber)
		assert.Equal(t, "DRAFT", response.Status)
		assert.Equal(t, "NOT_INVOICED", response.InvoiceStatus)
		require.Len(t, response.Items, 1)
		assert.True(t, response.Subtotal.Equal(decimal.NewFromInt(4500)))
		assert.True(t, response.TaxAmount.Equal(decimal.NewFromInt(225)))
		assert.True(t, response.GrandTotal.Equal(decimal.NewFromInt(4725)))
		orderRepo.AssertExpectations(t)
	})

	t.Run("supplier kind rejects incompatible items", func(t *testing.T) {
		orderRepo, suppliers, service := newOrderServiceFixture()
		suppliers.On("GetSupplier", mock.Anything, testSupplierID).Return(testSupplier(procurement.SupplierKindService), nil)
		orderRepo.On("GenerateOrderNumber", mock.Anything).Return(testOrderNumber, nil)

		_, err := service.Create(ctx, CreatePurchaseOrderRequest{
			SupplierID: testSupplierID,
			Items: []CreatePurchaseOrderItemInput{
				{
					ItemKind:  "PRODUCT",
					ItemID:    testProductID,
					ItemName:  "Cow Ghee 1L",
					Quantity:  decimal.NewFromInt(10),
					UnitPrice: decimal.NewFromInt(450),
				},
			},
		})

		var mismatch *procurement.TypeMismatchError
		require.ErrorAs(t, err, &mismatch)
		orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("supplier lookup failure aborts creation", func(t *testing.T) {
		orderRepo, suppliers, service := newOrderServiceFixture()
		suppliers.On("GetSupplier", mock.Anything, testSupplierID).
			Return(procurement.SupplierRef{}, errors.New("supplier not found"))

		_, err := service.Create(ctx, CreatePurchaseOrderRequest{SupplierID: testSupplierID})

		assert.Error(t, err)
		orderRepo.AssertNotCalled(t, "GenerateOrderNumber", mock.Anything)
	})
}

func TestPurchaseOrderService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("submit draft order", func(t *testing.T) {
		orderRepo, _, service := newOrderServiceFixture()
		order := createDraftOrder(t, decimal.NewFromInt(10))
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		orderRepo.On("SaveWithLock", mock.Anything, order).Return(nil)

		response, err := service.Submit(ctx, order.ID)

		require.NoError(t, err)
		assert.Equal(t, "PENDING_APPROVAL", response.Status)
		assert.NotNil(t, response.SubmittedAt)
	})

	t.Run("submit without items is rejected", func(t *testing.T) {
		orderRepo, _, service := newOrderServiceFixture()
		order, err := procurement.NewPurchaseOrder(testOrderNumber, testSupplier(procurement.SupplierKindBoth), nil)
		require.NoError(t, err)
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		_, err = service.Submit(ctx, order.ID)

		assert.Error(t, err)
		orderRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestPurchaseOrderService_Approve(t *testing.T) {
	ctx := context.Background()

	t.Run("approve pending order", func(t *testing.T) {
		orderRepo, _, service := newOrderServiceFixture()
		order := createDraftOrder(t, decimal.NewFromInt(10))
		require.NoError(t, order.Submit())
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		orderRepo.On("SaveWithLock", mock.Anything, order).Return(nil)

		response, err := service.Approve(ctx, order.ID, ApprovePurchaseOrderRequest{ApproverID: testApproverID})

		require.NoError(t, err)
		assert.Equal(t, "APPROVED", response.Status)
		require.NotNil(t, response.ApprovedBy)
		assert.Equal(t, testApproverID, *response.ApprovedBy)
	})

	t.Run("creator cannot approve own order", func(t *testing.T) {
		orderRepo, _, service := newOrderServiceFixture()
		creatorID := uuid.New()
		order := createDraftOrder(t, decimal.NewFromInt(10))
		order.SetCreatedBy(creatorID)
		require.NoError(t, order.Submit())
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		_, err := service.Approve(ctx, order.ID, ApprovePurchaseOrderRequest{ApproverID: creatorID})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, procurement.ErrCodeSelfApprovalForbidden, domainErr.Code)
		orderRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("approval policy denial blocks approval", func(t *testing.T) {
		orderRepo, _, service := newOrderServiceFixture()
		service.SetApprovalPolicy(denyApprovalPolicy{})
		order := createDraftOrder(t, decimal.NewFromInt(10))
		require.NoError(t, order.Submit())
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		_, err := service.Approve(ctx, order.ID, ApprovePurchaseOrderRequest{ApproverID: testApproverID})

		assert.Error(t, err)
		assert.Equal(t, procurement.PurchaseOrderStatusPendingApproval, order.Status)
		orderRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("approving a draft order is rejected", func(t *testing.T) {
		orderRepo, _, service := newOrderServiceFixture()
		order := createDraftOrder(t, decimal.NewFromInt(10))
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		_, err := service.Approve(ctx, order.ID, ApprovePurchaseOrderRequest{ApproverID: testApproverID})

		assert.Error(t, err)
	})
}

func TestPurchaseOrderService_Reject(t *testing.T) {
	ctx := context.Background()

	t.Run("reject pending order with reason", func(t *testing.T) {
		orderRepo, _, service := newOrderServiceFixture()
		order := createDraftOrder(t, decimal.NewFromInt(10))
		require.NoError(t, order.Submit())
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		orderRepo.On("SaveWithLock", mock.Anything, order).Return(nil)

		response, err := service.Reject(ctx, order.ID, RejectPurchaseOrderRequest{
			ApproverID: testApproverID,
			Reason:     "quote outdated",
		})

		require.NoError(t, err)
		assert.Equal(t, "REJECTED", response.Status)
		assert.Equal(t, "quote outdated", response.RejectReason)
	})
}

func TestPurchaseOrderService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("cancel approved order before any receipt", func(t *testing.T) {
		orderRepo, _, service := newOrderServiceFixture()
		order := createApprovedOrder(t, decimal.NewFromInt(10))
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		orderRepo.On("SaveWithLock", mock.Anything, order).Return(nil)

		response, err := service.Cancel(ctx, order.ID, CancelPurchaseOrderRequest{Reason: "supplier defaulted"})

		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", response.Status)
	})

	t.Run("cancel after goods received is rejected", func(t *testing.T) {
		orderRepo, _, service := newOrderServiceFixture()
		order := createApprovedOrder(t, decimal.NewFromInt(10))
		require.NoError(t, order.ApplyReceipt([]procurement.ReceiptDelta{
			{POItemID: order.Items[0].ID, Quantity: decimal.NewFromInt(3)},
		}))
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		_, err := service.Cancel(ctx, order.ID, CancelPurchaseOrderRequest{Reason: "supplier defaulted"})

		assert.Error(t, err)
		orderRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestPurchaseOrderService_Close(t *testing.T) {
	ctx := context.Background()

	t.Run("close fully received order", func(t *testing.T) {
		orderRepo, _, service := newOrderServiceFixture()
		order := createApprovedOrder(t, decimal.NewFromInt(10))
		require.NoError(t, order.ApplyReceipt([]procurement.ReceiptDelta{
			{POItemID: order.Items[0].ID, Quantity: decimal.NewFromInt(10)},
		}))
		orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		orderRepo.On("SaveWithLock", mock.Anything, order).Return(nil)

		response, err := service.Close(ctx, order.ID)

		require.NoError(t, err)
		assert.Equal(t, "CLOSED", response.Status)
		assert.NotNil(t, response.ClosedAt)
	})
}
