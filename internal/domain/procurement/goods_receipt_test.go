package procurement

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers for GoodsReceipt
func createTestReceipt(t *testing.T) *GoodsReceipt {
	poID := uuid.New()
	receipt, err := NewGoodsReceipt("GRN-2026-00001", GoodsReceiptTypePOBased, uuid.New(), "Sri Lakshmi Traders", &poID, time.Now())
	require.NoError(t, err)
	return receipt
}

func testReceiptItemInput(received, accepted float64) GoodsReceiptItemInput {
	poItemID := uuid.New()
	ref, _ := NewProductRef(uuid.New(), "Brass bell", "BELL-S", "pcs")
	return GoodsReceiptItemInput{
		POItemID:         &poItemID,
		Item:             ref,
		ReceivedQuantity: decimal.NewFromFloat(received),
		AcceptedQuantity: decimal.NewFromFloat(accepted),
	}
}

// ============================================
// Construction tests
// ============================================

func TestNewGoodsReceipt(t *testing.T) {
	t.Run("po-based requires order reference", func(t *testing.T) {
		_, err := NewGoodsReceipt("GRN-1", GoodsReceiptTypePOBased, uuid.New(), "S", nil, time.Now())
		assert.Error(t, err)
	})

	t.Run("direct cannot reference an order", func(t *testing.T) {
		poID := uuid.New()
		_, err := NewGoodsReceipt("GRN-2", GoodsReceiptTypeDirect, uuid.New(), "S", &poID, time.Now())
		assert.Error(t, err)
	})

	t.Run("valid direct receipt", func(t *testing.T) {
		receipt, err := NewGoodsReceipt("GRN-3", GoodsReceiptTypeDirect, uuid.New(), "S", nil, time.Now())
		require.NoError(t, err)
		assert.Equal(t, GoodsReceiptStatusDraft, receipt.Status)
	})
}

// ============================================
// Quantity split tests
// ============================================

func TestGoodsReceiptItem_QuantitySplit(t *testing.T) {
	receipt := createTestReceipt(t)

	t.Run("rejected derived from received minus accepted", func(t *testing.T) {
		item, err := receipt.AddItem(testReceiptItemInput(10, 7))
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(3).Equal(item.RejectedQuantity))
	})

	t.Run("explicit rejected must add up", func(t *testing.T) {
		input := testReceiptItemInput(10, 7)
		wrong := decimal.NewFromInt(2)
		input.RejectedQuantity = &wrong
		_, err := receipt.AddItem(input)
		require.Error(t, err)
		var qErr *QuantityInconsistentError
		assert.ErrorAs(t, err, &qErr)
	})

	t.Run("accepted above received rejected", func(t *testing.T) {
		_, err := receipt.AddItem(testReceiptItemInput(5, 6))
		require.Error(t, err)
		var qErr *QuantityInconsistentError
		assert.ErrorAs(t, err, &qErr)
	})

	t.Run("zero received rejected", func(t *testing.T) {
		_, err := receipt.AddItem(testReceiptItemInput(0, 0))
		assert.Error(t, err)
	})
}

// ============================================
// Serial number tests
// ============================================

func TestGoodsReceiptItem_SerialNumbers(t *testing.T) {
	receipt := createTestReceipt(t)

	t.Run("serial count must match accepted quantity", func(t *testing.T) {
		input := testReceiptItemInput(5, 5)
		input.SerialNumbers = []string{"SN-1", "SN-2", "SN-3", "SN-4"}
		_, err := receipt.AddItem(input)
		require.Error(t, err)
		var snErr *SerialCountMismatchError
		require.ErrorAs(t, err, &snErr)
		assert.Equal(t, 4, snErr.Serials)
		assert.True(t, decimal.NewFromInt(5).Equal(snErr.Accepted))
	})

	t.Run("duplicate serials rejected", func(t *testing.T) {
		input := testReceiptItemInput(3, 3)
		input.SerialNumbers = []string{"SN-1", "SN-2", "SN-1"}
		_, err := receipt.AddItem(input)
		require.Error(t, err)
		var dupErr *DuplicateSerialError
		require.ErrorAs(t, err, &dupErr)
		assert.Equal(t, "SN-1", dupErr.Serial)
	})

	t.Run("matching serials accepted", func(t *testing.T) {
		input := testReceiptItemInput(3, 3)
		input.SerialNumbers = []string{"SN-1", "SN-2", "SN-3"}
		item, err := receipt.AddItem(input)
		require.NoError(t, err)
		assert.Len(t, item.SerialNumbers, 3)
	})

	t.Run("empty serial rejected", func(t *testing.T) {
		input := testReceiptItemInput(2, 2)
		input.SerialNumbers = []string{"SN-1", ""}
		_, err := receipt.AddItem(input)
		assert.Error(t, err)
	})
}

// ============================================
// Batch metadata tests
// ============================================

func TestGoodsReceiptItem_BatchDates(t *testing.T) {
	receipt := createTestReceipt(t)

	t.Run("expiry must be after manufacture", func(t *testing.T) {
		input := testReceiptItemInput(5, 5)
		mfg := time.Now()
		exp := mfg.AddDate(0, -1, 0)
		input.ManufactureDate = &mfg
		input.ExpiryDate = &exp
		_, err := receipt.AddItem(input)
		assert.Error(t, err)
	})

	t.Run("valid batch window", func(t *testing.T) {
		input := testReceiptItemInput(5, 5)
		mfg := time.Now()
		exp := mfg.AddDate(1, 0, 0)
		input.ManufactureDate = &mfg
		input.ExpiryDate = &exp
		input.BatchNumber = "BATCH-42"
		item, err := receipt.AddItem(input)
		require.NoError(t, err)
		assert.Equal(t, "BATCH-42", item.BatchNumber)
	})
}

// ============================================
// Completion tests
// ============================================

func TestGoodsReceipt_Complete(t *testing.T) {
	t.Run("complete with items", func(t *testing.T) {
		receipt := createTestReceipt(t)
		_, err := receipt.AddItem(testReceiptItemInput(10, 8))
		require.NoError(t, err)

		require.NoError(t, receipt.Complete())
		assert.Equal(t, GoodsReceiptStatusCompleted, receipt.Status)
		assert.NotNil(t, receipt.CompletedAt)
	})

	t.Run("complete without items rejected", func(t *testing.T) {
		receipt := createTestReceipt(t)
		assert.Error(t, receipt.Complete())
	})

	t.Run("re-completing rejected, not re-applied", func(t *testing.T) {
		receipt := createTestReceipt(t)
		_, err := receipt.AddItem(testReceiptItemInput(10, 8))
		require.NoError(t, err)
		require.NoError(t, receipt.Complete())
		assert.Error(t, receipt.Complete())
	})

	t.Run("no edits after completion", func(t *testing.T) {
		receipt := createTestReceipt(t)
		item, err := receipt.AddItem(testReceiptItemInput(10, 8))
		require.NoError(t, err)
		require.NoError(t, receipt.Complete())

		_, err = receipt.AddItem(testReceiptItemInput(1, 1))
		assert.Error(t, err)
		assert.Error(t, receipt.RemoveItem(item.ID))
	})
}

// ============================================
// Delta derivation tests
// ============================================

func TestGoodsReceipt_ReceiptDeltas(t *testing.T) {
	t.Run("accepted quantities become deltas", func(t *testing.T) {
		receipt := createTestReceipt(t)
		itemA, err := receipt.AddItem(testReceiptItemInput(10, 8))
		require.NoError(t, err)
		_, err = receipt.AddItem(testReceiptItemInput(5, 0)) // fully rejected line
		require.NoError(t, err)

		deltas := receipt.ReceiptDeltas()
		require.Len(t, deltas, 1)
		assert.Equal(t, *itemA.POItemID, deltas[0].POItemID)
		assert.True(t, decimal.NewFromInt(8).Equal(deltas[0].Quantity))
	})

	t.Run("direct receipts yield no deltas", func(t *testing.T) {
		receipt, err := NewGoodsReceipt("GRN-D1", GoodsReceiptTypeDirect, uuid.New(), "S", nil, time.Now())
		require.NoError(t, err)
		input := testReceiptItemInput(5, 5)
		input.POItemID = nil
		_, err = receipt.AddItem(input)
		require.NoError(t, err)
		assert.Empty(t, receipt.ReceiptDeltas())
	})
}

func TestGoodsReceipt_Totals(t *testing.T) {
	receipt := createTestReceipt(t)
	_, err := receipt.AddItem(testReceiptItemInput(10, 8))
	require.NoError(t, err)
	_, err = receipt.AddItem(testReceiptItemInput(4, 1))
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(9).Equal(receipt.TotalAcceptedQuantity()))
	assert.True(t, decimal.NewFromInt(5).Equal(receipt.TotalRejectedQuantity()))
}
