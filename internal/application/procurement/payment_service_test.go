package procurement

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/temple-erp/backend/internal/domain/procurement"
)

var testPaymentNumber = "PAY-2026-00001"

// createPostedInvoice builds a posted direct invoice with a grand total of 1000
func createPostedInvoice(t *testing.T) *procurement.PurchaseInvoice {
	t.Helper()
	invoice, err := procurement.NewPurchaseInvoice(testInvoiceNumber, procurement.PurchaseInvoiceTypeDirect,
		testSupplierID, testSupplierName, nil, timeOrZero(nil))
	require.NoError(t, err)
	_, err = invoice.AddItem(nil, testProductRef(), decimal.NewFromInt(2), decimal.NewFromInt(500),
		procurement.DiscountModePercent, decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, invoice.Post())
	return invoice
}

func createCompletedPayment(t *testing.T, invoice *procurement.PurchaseInvoice, amount decimal.Decimal) *procurement.Payment {
	t.Helper()
	payment, err := procurement.NewPayment(procurement.NewPaymentInput{
		PaymentNumber: testPaymentNumber,
		InvoiceID:     invoice.ID,
		SupplierID:    invoice.SupplierID,
		Amount:        amount,
		Mode:          procurement.PaymentModeCash,
	})
	require.NoError(t, err)
	require.NoError(t, payment.Complete())
	return payment
}

func newPaymentServiceFixture() (*MockPaymentRepository, *MockPurchaseInvoiceRepository, *PaymentService) {
	paymentRepo := new(MockPaymentRepository)
	invoiceRepo := new(MockPurchaseInvoiceRepository)
	scope := newTestScope(new(MockPurchaseRequestRepository), new(MockPurchaseOrderRepository), new(MockGoodsReceiptRepository), invoiceRepo, paymentRepo)
	service := NewPaymentService(paymentRepo, invoiceRepo, scope)
	return paymentRepo, invoiceRepo, service
}

func TestPaymentService_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("full payment settles the invoice", func(t *testing.T) {
		paymentRepo, invoiceRepo, service := newPaymentServiceFixture()
		invoice := createPostedInvoice(t)
		invoiceRepo.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)
		paymentRepo.On("GeneratePaymentNumber", mock.Anything).Return(testPaymentNumber, nil)
		paymentRepo.On("Save", mock.Anything, mock.AnythingOfType("*procurement.Payment")).Return(nil)
		invoiceRepo.On("SaveWithLock", mock.Anything, invoice).Return(nil)

		result, err := service.Record(ctx, RecordPaymentRequest{
			InvoiceID: invoice.ID,
			Amount:    decimal.NewFromInt(1000),
			Mode:      "CASH",
		})

		require.NoError(t, err)
		assert.Equal(t, testPaymentNumber, result.Payment.PaymentNumber)
		assert.Equal(t, "COMPLETED", result.Payment.Status)
		assert.Equal(t, "PAID", result.Invoice.PaymentStatus)
		assert.True(t, result.Invoice.BalanceAmount.IsZero())
		paymentRepo.AssertExpectations(t)
		invoiceRepo.AssertExpectations(t)
	})

	t.Run("partial payment leaves the invoice partially paid", func(t *testing.T) {
		paymentRepo, invoiceRepo, service := newPaymentServiceFixture()
		invoice := createPostedInvoice(t)
		invoiceRepo.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)
		paymentRepo.On("GeneratePaymentNumber", mock.Anything).Return(testPaymentNumber, nil)
		paymentRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		invoiceRepo.On("SaveWithLock", mock.Anything, invoice).Return(nil)

		result, err := service.Record(ctx, RecordPaymentRequest{
			InvoiceID: invoice.ID,
			Amount:    decimal.NewFromInt(400),
			Mode:      "UPI",
		})

		require.NoError(t, err)
		assert.Equal(t, "PARTIAL", result.Invoice.PaymentStatus)
		assert.True(t, result.Invoice.PaidAmount.Equal(decimal.NewFromInt(400)))
		assert.True(t, result.Invoice.BalanceAmount.Equal(decimal.NewFromInt(600)))
	})

	t.Run("draft invoice cannot be paid", func(t *testing.T) {
		paymentRepo, invoiceRepo, service := newPaymentServiceFixture()
		invoice, err := procurement.NewPurchaseInvoice(testInvoiceNumber, procurement.PurchaseInvoiceTypeDirect,
			testSupplierID, testSupplierName, nil, timeOrZero(nil))
		require.NoError(t, err)
		invoiceRepo.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)

		_, err = service.Record(ctx, RecordPaymentRequest{
			InvoiceID: invoice.ID,
			Amount:    decimal.NewFromInt(100),
			Mode:      "CASH",
		})

		var notPosted *procurement.InvoiceNotPostedError
		require.ErrorAs(t, err, &notPosted)
		paymentRepo.AssertNotCalled(t, "GeneratePaymentNumber", mock.Anything)
	})

	t.Run("settled invoice rejects further payments", func(t *testing.T) {
		paymentRepo, invoiceRepo, service := newPaymentServiceFixture()
		invoice := createPostedInvoice(t)
		require.NoError(t, invoice.ApplyPayment(decimal.NewFromInt(1000)))
		invoiceRepo.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)

		_, err := service.Record(ctx, RecordPaymentRequest{
			InvoiceID: invoice.ID,
			Amount:    decimal.NewFromInt(1),
			Mode:      "CASH",
		})

		var alreadyPaid *procurement.AlreadyPaidError
		require.ErrorAs(t, err, &alreadyPaid)
		paymentRepo.AssertNotCalled(t, "GeneratePaymentNumber", mock.Anything)
	})

	t.Run("payment exceeding the balance is rejected", func(t *testing.T) {
		paymentRepo, invoiceRepo, service := newPaymentServiceFixture()
		invoice := createPostedInvoice(t)
		require.NoError(t, invoice.ApplyPayment(decimal.NewFromInt(700)))
		invoiceRepo.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)

		_, err := service.Record(ctx, RecordPaymentRequest{
			InvoiceID: invoice.ID,
			Amount:    decimal.NewFromInt(500),
			Mode:      "CASH",
		})

		var exceeds *procurement.AmountExceedsBalanceError
		require.ErrorAs(t, err, &exceeds)
		assert.True(t, exceeds.Balance.Equal(decimal.NewFromInt(300)))
		paymentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("duplicate reference number for the supplier is rejected", func(t *testing.T) {
		paymentRepo, invoiceRepo, service := newPaymentServiceFixture()
		invoice := createPostedInvoice(t)
		invoiceRepo.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)
		paymentRepo.On("ExistsByReference", mock.Anything, invoice.SupplierID, "UTR-2026-7781").Return(true, nil)

		_, err := service.Record(ctx, RecordPaymentRequest{
			InvoiceID:       invoice.ID,
			Amount:          decimal.NewFromInt(500),
			Mode:            "BANK_TRANSFER",
			ReferenceNumber: "UTR-2026-7781",
		})

		var dup *procurement.DuplicateReferenceError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "UTR-2026-7781", dup.Reference)
		paymentRepo.AssertNotCalled(t, "GeneratePaymentNumber", mock.Anything)
	})

	t.Run("cheque date outside the validity window is rejected", func(t *testing.T) {
		paymentRepo, invoiceRepo, service := newPaymentServiceFixture()
		invoice := createPostedInvoice(t)
		staleDate := time.Now().AddDate(0, -8, 0)
		invoiceRepo.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)
		paymentRepo.On("ExistsByReference", mock.Anything, invoice.SupplierID, "CHQ-004512").Return(false, nil)
		paymentRepo.On("GeneratePaymentNumber", mock.Anything).Return(testPaymentNumber, nil)

		_, err := service.Record(ctx, RecordPaymentRequest{
			InvoiceID:       invoice.ID,
			Amount:          decimal.NewFromInt(500),
			Mode:            "CHEQUE",
			ReferenceNumber: "CHQ-004512",
			BankName:        "Canara Bank",
			ChequeDate:      &staleDate,
		})

		assert.Error(t, err)
		paymentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		invoiceRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("widened cheque window admits the same date", func(t *testing.T) {
		paymentRepo, invoiceRepo, service := newPaymentServiceFixture()
		service.SetChequeValidityMonths(12)
		invoice := createPostedInvoice(t)
		chequeDate := time.Now().AddDate(0, -8, 0)
		invoiceRepo.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)
		paymentRepo.On("GeneratePaymentNumber", mock.Anything).Return(testPaymentNumber, nil)
		paymentRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		invoiceRepo.On("SaveWithLock", mock.Anything, invoice).Return(nil)

		result, err := service.Record(ctx, RecordPaymentRequest{
			InvoiceID:  invoice.ID,
			Amount:     decimal.NewFromInt(500),
			Mode:       "CHEQUE",
			BankName:   "Canara Bank",
			ChequeDate: &chequeDate,
		})

		require.NoError(t, err)
		assert.Equal(t, "COMPLETED", result.Payment.Status)
	})
}

func TestPaymentService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("cancelling a completed payment restores the balance", func(t *testing.T) {
		paymentRepo, invoiceRepo, service := newPaymentServiceFixture()
		invoice := createPostedInvoice(t)
		require.NoError(t, invoice.ApplyPayment(decimal.NewFromInt(400)))
		payment := createCompletedPayment(t, invoice, decimal.NewFromInt(400))
		paymentRepo.On("FindByID", mock.Anything, payment.ID).Return(payment, nil)
		invoiceRepo.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)
		invoiceRepo.On("SaveWithLock", mock.Anything, invoice).Return(nil)
		paymentRepo.On("SaveWithLock", mock.Anything, payment).Return(nil)

		response, err := service.Cancel(ctx, payment.ID, CancelPaymentRequest{Reason: "cheque bounced"})

		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", response.Status)
		assert.Equal(t, "cheque bounced", response.CancelReason)
		assert.True(t, invoice.PaidAmount.IsZero())
		assert.True(t, invoice.BalanceAmount.Equal(decimal.NewFromInt(1000)))
		assert.Equal(t, procurement.InvoicePaymentStatusPending, invoice.PaymentStatus)
		invoiceRepo.AssertExpectations(t)
	})

	t.Run("cancelling a pending payment leaves the invoice untouched", func(t *testing.T) {
		paymentRepo, invoiceRepo, service := newPaymentServiceFixture()
		invoice := createPostedInvoice(t)
		payment, err := procurement.NewPayment(procurement.NewPaymentInput{
			PaymentNumber: testPaymentNumber,
			InvoiceID:     invoice.ID,
			SupplierID:    invoice.SupplierID,
			Amount:        decimal.NewFromInt(400),
			Mode:          procurement.PaymentModeCash,
		})
		require.NoError(t, err)
		paymentRepo.On("FindByID", mock.Anything, payment.ID).Return(payment, nil)
		paymentRepo.On("SaveWithLock", mock.Anything, payment).Return(nil)

		response, err := service.Cancel(ctx, payment.ID, CancelPaymentRequest{Reason: "entered in error"})

		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", response.Status)
		invoiceRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("cancelled payment cannot be cancelled again", func(t *testing.T) {
		paymentRepo, invoiceRepo, service := newPaymentServiceFixture()
		invoice := createPostedInvoice(t)
		payment := createCompletedPayment(t, invoice, decimal.NewFromInt(400))
		require.NoError(t, payment.Cancel("first cancellation"))
		paymentRepo.On("FindByID", mock.Anything, payment.ID).Return(payment, nil)

		_, err := service.Cancel(ctx, payment.ID, CancelPaymentRequest{Reason: "again"})

		assert.Error(t, err)
		invoiceRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		paymentRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}
