package dto

import (
	"net/http"
	"strings"

	"github.com/temple-erp/backend/internal/domain/procurement"
)

// General error codes used by the transport layer itself
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "CONFLICT"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Admission, consistency and state rules reject otherwise well-formed
// requests, so they map to 422; concurrency and duplicates map to 409.
var ErrorCodeHTTPStatus = map[string]int{
	// Transport errors
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,

	// Lookup errors -> 404 Not Found
	ErrCodeNotFound:  http.StatusNotFound,
	"ITEM_NOT_FOUND": http.StatusNotFound,

	// Conflicts -> 409
	ErrCodeConflict:           http.StatusConflict,
	"ALREADY_EXISTS":          http.StatusConflict,
	"CONCURRENT_MODIFICATION": http.StatusConflict,
	procurement.ErrCodeDuplicateReference: http.StatusConflict,

	// Admission ceilings -> 422 Unprocessable Entity
	procurement.ErrCodeOverConversion:       http.StatusUnprocessableEntity,
	procurement.ErrCodeOverDelivery:         http.StatusUnprocessableEntity,
	procurement.ErrCodeOverInvoicing:        http.StatusUnprocessableEntity,
	procurement.ErrCodeAmountExceedsBalance: http.StatusUnprocessableEntity,

	// Consistency rules -> 422
	procurement.ErrCodeQuantityInconsistent: http.StatusUnprocessableEntity,
	procurement.ErrCodeSerialCountMismatch:  http.StatusUnprocessableEntity,
	procurement.ErrCodeDuplicateSerial:      http.StatusUnprocessableEntity,
	procurement.ErrCodeTypeMismatch:         http.StatusUnprocessableEntity,

	// State rules -> 422
	procurement.ErrCodeInvoiceNotPosted:      http.StatusUnprocessableEntity,
	procurement.ErrCodeAlreadyPaid:           http.StatusUnprocessableEntity,
	procurement.ErrCodePOApprovalRequired:    http.StatusUnprocessableEntity,
	procurement.ErrCodeFullyInvoiced:         http.StatusUnprocessableEntity,
	procurement.ErrCodeSelfApprovalForbidden: http.StatusUnprocessableEntity,
	"APPROVAL_DENIED":                        http.StatusUnprocessableEntity,
	"ALREADY_RECEIVED":                       http.StatusUnprocessableEntity,
	"INVALID_STATE":                          http.StatusUnprocessableEntity,
	"NO_ITEMS":                               http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unmapped INVALID_* codes are field validation failures and map to 400;
// anything else unknown is treated as an internal error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
