package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// PurchaseRequestSortFields contains allowed sort fields for purchase requests
var PurchaseRequestSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"request_number": true,
	"request_date":   true,
	"priority":       true,
	"status":         true,
}

// PurchaseOrderSortFields contains allowed sort fields for purchase orders
var PurchaseOrderSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"order_number":   true,
	"supplier_id":    true,
	"supplier_name":  true,
	"status":         true,
	"invoice_status": true,
	"subtotal":       true,
	"grand_total":    true,
	"submitted_at":   true,
	"approved_at":    true,
	"closed_at":      true,
}

// GoodsReceiptSortFields contains allowed sort fields for goods receipts
var GoodsReceiptSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"receipt_number": true,
	"type":           true,
	"status":         true,
	"supplier_id":    true,
	"supplier_name":  true,
	"received_at":    true,
	"completed_at":   true,
}

// PurchaseInvoiceSortFields contains allowed sort fields for purchase invoices
var PurchaseInvoiceSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"invoice_number": true,
	"type":           true,
	"status":         true,
	"payment_status": true,
	"supplier_id":    true,
	"supplier_name":  true,
	"grand_total":    true,
	"balance_amount": true,
	"invoice_date":   true,
	"due_date":       true,
	"posted_at":      true,
}

// PaymentSortFields contains allowed sort fields for payments
var PaymentSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"payment_number": true,
	"invoice_id":     true,
	"supplier_id":    true,
	"amount":         true,
	"mode":           true,
	"status":         true,
	"payment_date":   true,
	"completed_at":   true,
}
