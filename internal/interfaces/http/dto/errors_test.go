package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/temple-erp/backend/internal/domain/procurement"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected int
	}{
		{"not found maps to 404", "NOT_FOUND", http.StatusNotFound},
		{"item not found maps to 404", "ITEM_NOT_FOUND", http.StatusNotFound},
		{"concurrent modification maps to 409", "CONCURRENT_MODIFICATION", http.StatusConflict},
		{"duplicate reference maps to 409", procurement.ErrCodeDuplicateReference, http.StatusConflict},
		{"already exists maps to 409", "ALREADY_EXISTS", http.StatusConflict},
		{"over conversion maps to 422", procurement.ErrCodeOverConversion, http.StatusUnprocessableEntity},
		{"over delivery maps to 422", procurement.ErrCodeOverDelivery, http.StatusUnprocessableEntity},
		{"over invoicing maps to 422", procurement.ErrCodeOverInvoicing, http.StatusUnprocessableEntity},
		{"amount exceeds balance maps to 422", procurement.ErrCodeAmountExceedsBalance, http.StatusUnprocessableEntity},
		{"quantity inconsistent maps to 422", procurement.ErrCodeQuantityInconsistent, http.StatusUnprocessableEntity},
		{"serial count mismatch maps to 422", procurement.ErrCodeSerialCountMismatch, http.StatusUnprocessableEntity},
		{"duplicate serial maps to 422", procurement.ErrCodeDuplicateSerial, http.StatusUnprocessableEntity},
		{"type mismatch maps to 422", procurement.ErrCodeTypeMismatch, http.StatusUnprocessableEntity},
		{"invoice not posted maps to 422", procurement.ErrCodeInvoiceNotPosted, http.StatusUnprocessableEntity},
		{"already paid maps to 422", procurement.ErrCodeAlreadyPaid, http.StatusUnprocessableEntity},
		{"approval required maps to 422", procurement.ErrCodePOApprovalRequired, http.StatusUnprocessableEntity},
		{"fully invoiced maps to 422", procurement.ErrCodeFullyInvoiced, http.StatusUnprocessableEntity},
		{"self approval maps to 422", procurement.ErrCodeSelfApprovalForbidden, http.StatusUnprocessableEntity},
		{"invalid state maps to 422", "INVALID_STATE", http.StatusUnprocessableEntity},
		{"no items maps to 422", "NO_ITEMS", http.StatusUnprocessableEntity},
		{"unmapped validation code maps to 400", "INVALID_QUANTITY", http.StatusBadRequest},
		{"unmapped invalid code maps to 400", "INVALID_CHEQUE_DATE", http.StatusBadRequest},
		{"bad request maps to 400", ErrCodeBadRequest, http.StatusBadRequest},
		{"internal maps to 500", ErrCodeInternal, http.StatusInternalServerError},
		{"unknown code maps to 500", "SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	t.Run("rounds total pages up", func(t *testing.T) {
		resp := NewSuccessResponseWithMeta([]string{}, 41, 1, 20)

		assert.True(t, resp.Success)
		assert.Equal(t, int64(41), resp.Meta.Total)
		assert.Equal(t, 3, resp.Meta.TotalPages)
	})

	t.Run("exact division", func(t *testing.T) {
		resp := NewSuccessResponseWithMeta([]string{}, 40, 2, 20)

		assert.Equal(t, 2, resp.Meta.TotalPages)
	})
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID("NOT_FOUND", "Purchase order not found", "req-123")

	assert.False(t, resp.Success)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	assert.Equal(t, "Purchase order not found", resp.Error.Message)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}
