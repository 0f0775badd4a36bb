package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/temple-erp/backend/internal/domain/procurement"
)

// ==================== Purchase Request DTOs ====================

// CreatePurchaseRequestRequest represents a request to create a purchase request
type CreatePurchaseRequestRequest struct {
	RequestDate *time.Time                       `json:"request_date"`
	Priority    string                           `json:"priority"`
	Purpose     string                           `json:"purpose" binding:"max=500"`
	Items       []CreatePurchaseRequestItemInput `json:"items"`
	CreatedBy   *uuid.UUID                       `json:"-"`
}

// CreatePurchaseRequestItemInput represents an item in the create request
type CreatePurchaseRequestItemInput struct {
	ItemKind            string          `json:"item_kind" binding:"required,oneof=PRODUCT SERVICE"`
	ItemID              uuid.UUID       `json:"item_id" binding:"required"`
	ItemName            string          `json:"item_name" binding:"required,min=1,max=200"`
	ItemCode            string          `json:"item_code" binding:"max=50"`
	Unit                string          `json:"unit" binding:"max=20"`
	Quantity            decimal.Decimal `json:"quantity" binding:"required"`
	PreferredSupplierID *uuid.UUID      `json:"preferred_supplier_id"`
	Remark              string          `json:"remark" binding:"max=500"`
}

// UpdatePurchaseRequestRequest represents a request to update request details
// (rejected once conversion has started)
type UpdatePurchaseRequestRequest struct {
	Priority *string `json:"priority"`
	Purpose  *string `json:"purpose"`
}

// AddPurchaseRequestItemRequest represents a request to add an item
type AddPurchaseRequestItemRequest struct {
	ItemKind            string          `json:"item_kind" binding:"required,oneof=PRODUCT SERVICE"`
	ItemID              uuid.UUID       `json:"item_id" binding:"required"`
	ItemName            string          `json:"item_name" binding:"required,min=1,max=200"`
	ItemCode            string          `json:"item_code" binding:"max=50"`
	Unit                string          `json:"unit" binding:"max=20"`
	Quantity            decimal.Decimal `json:"quantity" binding:"required"`
	PreferredSupplierID *uuid.UUID      `json:"preferred_supplier_id"`
	Remark              string          `json:"remark" binding:"max=500"`
}

// UpdatePurchaseRequestItemRequest represents a request to change an item's quantity
type UpdatePurchaseRequestItemRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// CancelPurchaseRequestRequest represents a request to cancel a purchase request
type CancelPurchaseRequestRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// SplitConvertSelection selects one request item and a quantity to convert
type SplitConvertSelection struct {
	RequestItemID uuid.UUID       `json:"request_item_id" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	// Pricing for the purchase order line created by the conversion
	UnitPrice        decimal.Decimal  `json:"unit_price"`
	DiscountMode     string           `json:"discount_mode" binding:"omitempty,oneof=PERCENT AMOUNT"`
	DiscountValue    decimal.Decimal  `json:"discount_value"`
	TaxRatePercent   decimal.Decimal  `json:"tax_rate_percent"`
	TolerancePercent *decimal.Decimal `json:"tolerance_percent"` // falls back to the configured default when nil
}

// SplitConvertRequest converts part of a purchase request into one draft
// purchase order for a single supplier
type SplitConvertRequest struct {
	SupplierID uuid.UUID               `json:"supplier_id" binding:"required"`
	Selections []SplitConvertSelection `json:"selections" binding:"required,min=1"`
	Remark     string                  `json:"remark"`
	CreatedBy  *uuid.UUID              `json:"-"`
}

// PurchaseRequestListFilter represents filter options for purchase request list
type PurchaseRequestListFilter struct {
	Search    string     `form:"search"`
	Status    string     `form:"status"`
	Priority  string     `form:"priority"`
	StartDate *time.Time `form:"start_date"`
	EndDate   *time.Time `form:"end_date"`
	Page      int        `form:"page" binding:"min=0"`
	PageSize  int        `form:"page_size" binding:"min=0,max=100"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ConversionRecordResponse represents one conversion ledger entry
type ConversionRecordResponse struct {
	ID              uuid.UUID       `json:"id"`
	SupplierID      uuid.UUID       `json:"supplier_id"`
	PurchaseOrderID uuid.UUID       `json:"purchase_order_id"`
	POItemID        uuid.UUID       `json:"po_item_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	ConvertedAt     time.Time       `json:"converted_at"`
}

// PurchaseRequestItemResponse represents a request item in API responses
type PurchaseRequestItemResponse struct {
	ID                  uuid.UUID                  `json:"id"`
	ItemKind            string                     `json:"item_kind"`
	ItemID              uuid.UUID                  `json:"item_id"`
	ItemName            string                     `json:"item_name"`
	ItemCode            string                     `json:"item_code,omitempty"`
	Unit                string                     `json:"unit,omitempty"`
	RequestedQuantity   decimal.Decimal            `json:"requested_quantity"`
	ConvertedQuantity   decimal.Decimal            `json:"converted_quantity"`
	RemainingQuantity   decimal.Decimal            `json:"remaining_quantity"`
	PreferredSupplierID *uuid.UUID                 `json:"preferred_supplier_id,omitempty"`
	Conversions         []ConversionRecordResponse `json:"conversions"`
	Remark              string                     `json:"remark,omitempty"`
	CreatedAt           time.Time                  `json:"created_at"`
	UpdatedAt           time.Time                  `json:"updated_at"`
}

// PurchaseRequestResponse represents a purchase request in API responses
type PurchaseRequestResponse struct {
	ID            uuid.UUID                     `json:"id"`
	RequestNumber string                        `json:"request_number"`
	RequestDate   time.Time                     `json:"request_date"`
	Priority      string                        `json:"priority"`
	Purpose       string                        `json:"purpose,omitempty"`
	Status        string                        `json:"status"`
	Items         []PurchaseRequestItemResponse `json:"items"`
	CancelledAt   *time.Time                    `json:"cancelled_at,omitempty"`
	CancelReason  string                        `json:"cancel_reason,omitempty"`
	CreatedAt     time.Time                     `json:"created_at"`
	UpdatedAt     time.Time                     `json:"updated_at"`
	Version       int                           `json:"version"`
}

// PurchaseRequestListItemResponse represents a purchase request in list responses
type PurchaseRequestListItemResponse struct {
	ID            uuid.UUID  `json:"id"`
	RequestNumber string     `json:"request_number"`
	RequestDate   time.Time  `json:"request_date"`
	Priority      string     `json:"priority"`
	Purpose       string     `json:"purpose,omitempty"`
	Status        string     `json:"status"`
	ItemCount     int        `json:"item_count"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// SplitConvertResponse carries the updated request and the created order
type SplitConvertResponse struct {
	Request PurchaseRequestResponse `json:"request"`
	Order   PurchaseOrderResponse   `json:"order"`
}

// ToPurchaseRequestResponse converts domain PurchaseRequest to response DTO
func ToPurchaseRequestResponse(request *procurement.PurchaseRequest) PurchaseRequestResponse {
	items := make([]PurchaseRequestItemResponse, len(request.Items))
	for i := range request.Items {
		items[i] = ToPurchaseRequestItemResponse(&request.Items[i])
	}

	return PurchaseRequestResponse{
		ID:            request.ID,
		RequestNumber: request.RequestNumber,
		RequestDate:   request.RequestDate,
		Priority:      string(request.Priority),
		Purpose:       request.Purpose,
		Status:        string(request.Status),
		Items:         items,
		CancelledAt:   request.CancelledAt,
		CancelReason:  request.CancelReason,
		CreatedAt:     request.CreatedAt,
		UpdatedAt:     request.UpdatedAt,
		Version:       request.Version,
	}
}

// ToPurchaseRequestItemResponse converts domain PurchaseRequestItem to response DTO
func ToPurchaseRequestItemResponse(item *procurement.PurchaseRequestItem) PurchaseRequestItemResponse {
	conversions := make([]ConversionRecordResponse, len(item.Conversions))
	for i, c := range item.Conversions {
		conversions[i] = ConversionRecordResponse{
			ID:              c.ID,
			SupplierID:      c.SupplierID,
			PurchaseOrderID: c.PurchaseOrderID,
			POItemID:        c.POItemID,
			Quantity:        c.Quantity,
			ConvertedAt:     c.ConvertedAt,
		}
	}

	return PurchaseRequestItemResponse{
		ID:                  item.ID,
		ItemKind:            string(item.Item.Kind),
		ItemID:              item.Item.ID,
		ItemName:            item.Item.Name,
		ItemCode:            item.Item.Code,
		Unit:                item.Item.Unit,
		RequestedQuantity:   item.RequestedQuantity,
		ConvertedQuantity:   item.ConvertedQuantity(),
		RemainingQuantity:   item.RemainingQuantity(),
		PreferredSupplierID: item.PreferredSupplierID,
		Conversions:         conversions,
		Remark:              item.Remark,
		CreatedAt:           item.CreatedAt,
		UpdatedAt:           item.UpdatedAt,
	}
}

// ToPurchaseRequestListItemResponse converts domain PurchaseRequest to list response DTO
func ToPurchaseRequestListItemResponse(request *procurement.PurchaseRequest) PurchaseRequestListItemResponse {
	return PurchaseRequestListItemResponse{
		ID:            request.ID,
		RequestNumber: request.RequestNumber,
		RequestDate:   request.RequestDate,
		Priority:      string(request.Priority),
		Purpose:       request.Purpose,
		Status:        string(request.Status),
		ItemCount:     len(request.Items),
		CancelledAt:   request.CancelledAt,
		CreatedAt:     request.CreatedAt,
		UpdatedAt:     request.UpdatedAt,
	}
}

// ToPurchaseRequestListItemResponses converts a slice of domain requests to list responses
func ToPurchaseRequestListItemResponses(requests []procurement.PurchaseRequest) []PurchaseRequestListItemResponse {
	responses := make([]PurchaseRequestListItemResponse, len(requests))
	for i := range requests {
		responses[i] = ToPurchaseRequestListItemResponse(&requests[i])
	}
	return responses
}

// ==================== Purchase Order DTOs ====================

// CreatePurchaseOrderRequest represents a request to create a direct purchase order
type CreatePurchaseOrderRequest struct {
	SupplierID      uuid.UUID                      `json:"supplier_id" binding:"required"`
	Items           []CreatePurchaseOrderItemInput `json:"items"`
	DiscountAmount  decimal.Decimal                `json:"discount_amount"`
	ShippingCharges decimal.Decimal                `json:"shipping_charges"`
	OtherCharges    decimal.Decimal                `json:"other_charges"`
	Remark          string                         `json:"remark"`
	CreatedBy       *uuid.UUID                     `json:"-"`
}

// CreatePurchaseOrderItemInput represents an item in the create order request
type CreatePurchaseOrderItemInput struct {
	ItemKind         string           `json:"item_kind" binding:"required,oneof=PRODUCT SERVICE"`
	ItemID           uuid.UUID        `json:"item_id" binding:"required"`
	ItemName         string           `json:"item_name" binding:"required,min=1,max=200"`
	ItemCode         string           `json:"item_code" binding:"max=50"`
	Unit             string           `json:"unit" binding:"max=20"`
	Quantity         decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice        decimal.Decimal  `json:"unit_price" binding:"required"`
	DiscountMode     string           `json:"discount_mode" binding:"omitempty,oneof=PERCENT AMOUNT"`
	DiscountValue    decimal.Decimal  `json:"discount_value"`
	TaxRatePercent   decimal.Decimal  `json:"tax_rate_percent"`
	TolerancePercent *decimal.Decimal `json:"tolerance_percent"` // falls back to the configured default when nil
}

// AddPurchaseOrderItemRequest represents a request to add a line to a draft order
type AddPurchaseOrderItemRequest struct {
	ItemKind         string           `json:"item_kind" binding:"required,oneof=PRODUCT SERVICE"`
	ItemID           uuid.UUID        `json:"item_id" binding:"required"`
	ItemName         string           `json:"item_name" binding:"required,min=1,max=200"`
	ItemCode         string           `json:"item_code" binding:"max=50"`
	Unit             string           `json:"unit" binding:"max=20"`
	Quantity         decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice        decimal.Decimal  `json:"unit_price" binding:"required"`
	DiscountMode     string           `json:"discount_mode" binding:"omitempty,oneof=PERCENT AMOUNT"`
	DiscountValue    decimal.Decimal  `json:"discount_value"`
	TaxRatePercent   decimal.Decimal  `json:"tax_rate_percent"`
	TolerancePercent *decimal.Decimal `json:"tolerance_percent"`
}

// UpdatePurchaseOrderItemRequest represents a request to update a draft order line
type UpdatePurchaseOrderItemRequest struct {
	Quantity       decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice      decimal.Decimal `json:"unit_price" binding:"required"`
	DiscountMode   string          `json:"discount_mode" binding:"required,oneof=PERCENT AMOUNT"`
	DiscountValue  decimal.Decimal `json:"discount_value"`
	TaxRatePercent decimal.Decimal `json:"tax_rate_percent"`
}

// SetPurchaseOrderChargesRequest represents a request to set order-level charges
type SetPurchaseOrderChargesRequest struct {
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	ShippingCharges decimal.Decimal `json:"shipping_charges"`
	OtherCharges    decimal.Decimal `json:"other_charges"`
}

// ApprovePurchaseOrderRequest represents a request to approve an order
type ApprovePurchaseOrderRequest struct {
	ApproverID uuid.UUID `json:"approver_id" binding:"required"`
}

// RejectPurchaseOrderRequest represents a request to reject an order
type RejectPurchaseOrderRequest struct {
	ApproverID uuid.UUID `json:"approver_id" binding:"required"`
	Reason     string    `json:"reason" binding:"required,min=1,max=500"`
}

// CancelPurchaseOrderRequest represents a request to cancel an order
type CancelPurchaseOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// PurchaseOrderListFilter represents filter options for purchase order list
type PurchaseOrderListFilter struct {
	Search     string     `form:"search"`
	SupplierID *uuid.UUID `form:"supplier_id"`
	Status     string     `form:"status"`
	StartDate  *time.Time `form:"start_date"`
	EndDate    *time.Time `form:"end_date"`
	Page       int        `form:"page" binding:"min=0"`
	PageSize   int        `form:"page_size" binding:"min=0,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PurchaseOrderItemResponse represents an order line in API responses
type PurchaseOrderItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	ItemKind         string          `json:"item_kind"`
	ItemID           uuid.UUID       `json:"item_id"`
	ItemName         string          `json:"item_name"`
	ItemCode         string          `json:"item_code,omitempty"`
	Unit             string          `json:"unit,omitempty"`
	OrderedQuantity  decimal.Decimal `json:"ordered_quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	DiscountMode     string          `json:"discount_mode"`
	DiscountValue    decimal.Decimal `json:"discount_value"`
	TaxRatePercent   decimal.Decimal `json:"tax_rate_percent"`
	TolerancePercent decimal.Decimal `json:"tolerance_percent"`
	LineSubtotal     decimal.Decimal `json:"line_subtotal"`
	LineTotal        decimal.Decimal `json:"line_total"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	InvoicedQuantity decimal.Decimal `json:"invoiced_quantity"`
	MaxReceivable    decimal.Decimal `json:"max_receivable"`
	MaxInvoiceable   decimal.Decimal `json:"max_invoiceable"`
	Status           string          `json:"status"`
	SourcePRItemID   *uuid.UUID      `json:"source_pr_item_id,omitempty"`
	Remark           string          `json:"remark,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID              uuid.UUID                   `json:"id"`
	OrderNumber     string                      `json:"order_number"`
	SupplierID      uuid.UUID                   `json:"supplier_id"`
	SupplierName    string                      `json:"supplier_name"`
	SupplierKind    string                      `json:"supplier_kind"`
	SourceRequestID *uuid.UUID                  `json:"source_request_id,omitempty"`
	Items           []PurchaseOrderItemResponse `json:"items"`
	ItemCount       int                         `json:"item_count"`
	Subtotal        decimal.Decimal             `json:"subtotal"`
	DiscountAmount  decimal.Decimal             `json:"discount_amount"`
	TaxAmount       decimal.Decimal             `json:"tax_amount"`
	ShippingCharges decimal.Decimal             `json:"shipping_charges"`
	OtherCharges    decimal.Decimal             `json:"other_charges"`
	GrandTotal      decimal.Decimal             `json:"grand_total"`
	Status          string                      `json:"status"`
	InvoiceStatus   string                      `json:"invoice_status"`
	Remark          string                      `json:"remark,omitempty"`
	SubmittedAt     *time.Time                  `json:"submitted_at,omitempty"`
	ApprovedAt      *time.Time                  `json:"approved_at,omitempty"`
	ApprovedBy      *uuid.UUID                  `json:"approved_by,omitempty"`
	RejectedAt      *time.Time                  `json:"rejected_at,omitempty"`
	RejectReason    string                      `json:"reject_reason,omitempty"`
	CancelledAt     *time.Time                  `json:"cancelled_at,omitempty"`
	CancelReason    string                      `json:"cancel_reason,omitempty"`
	ClosedAt        *time.Time                  `json:"closed_at,omitempty"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
	Version         int                         `json:"version"`
}

// PurchaseOrderListItemResponse represents a purchase order in list responses
type PurchaseOrderListItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	OrderNumber   string          `json:"order_number"`
	SupplierID    uuid.UUID       `json:"supplier_id"`
	SupplierName  string          `json:"supplier_name"`
	ItemCount     int             `json:"item_count"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	Status        string          `json:"status"`
	InvoiceStatus string          `json:"invoice_status"`
	SubmittedAt   *time.Time      `json:"submitted_at,omitempty"`
	ApprovedAt    *time.Time      `json:"approved_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToPurchaseOrderResponse converts domain PurchaseOrder to response DTO
func ToPurchaseOrderResponse(order *procurement.PurchaseOrder) PurchaseOrderResponse {
	items := make([]PurchaseOrderItemResponse, len(order.Items))
	for i := range order.Items {
		items[i] = ToPurchaseOrderItemResponse(&order.Items[i])
	}

	return PurchaseOrderResponse{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.Supplier.ID,
		SupplierName:    order.Supplier.Name,
		SupplierKind:    string(order.Supplier.Kind),
		SourceRequestID: order.SourceRequestID,
		Items:           items,
		ItemCount:       order.ItemCount(),
		Subtotal:        order.Subtotal,
		DiscountAmount:  order.DiscountAmount,
		TaxAmount:       order.TaxAmount,
		ShippingCharges: order.ShippingCharges,
		OtherCharges:    order.OtherCharges,
		GrandTotal:      order.GrandTotal,
		Status:          string(order.Status),
		InvoiceStatus:   string(order.InvoiceStatus),
		Remark:          order.Remark,
		SubmittedAt:     order.SubmittedAt,
		ApprovedAt:      order.ApprovedAt,
		ApprovedBy:      order.ApprovedBy,
		RejectedAt:      order.RejectedAt,
		RejectReason:    order.RejectReason,
		CancelledAt:     order.CancelledAt,
		CancelReason:    order.CancelReason,
		ClosedAt:        order.ClosedAt,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
		Version:         order.Version,
	}
}

// ToPurchaseOrderItemResponse converts domain PurchaseOrderItem to response DTO
func ToPurchaseOrderItemResponse(item *procurement.PurchaseOrderItem) PurchaseOrderItemResponse {
	return PurchaseOrderItemResponse{
		ID:               item.ID,
		ItemKind:         string(item.Item.Kind),
		ItemID:           item.Item.ID,
		ItemName:         item.Item.Name,
		ItemCode:         item.Item.Code,
		Unit:             item.Item.Unit,
		OrderedQuantity:  item.OrderedQuantity,
		UnitPrice:        item.UnitPrice,
		DiscountMode:     string(item.DiscountMode),
		DiscountValue:    item.DiscountValue,
		TaxRatePercent:   item.TaxRatePercent,
		TolerancePercent: item.TolerancePercent,
		LineSubtotal:     item.LineSubtotal,
		LineTotal:        item.LineTotal,
		ReceivedQuantity: item.ReceivedQuantity,
		InvoicedQuantity: item.InvoicedQuantity,
		MaxReceivable:    item.MaxReceivable(),
		MaxInvoiceable:   item.MaxInvoiceable(),
		Status:           string(item.DerivedStatus()),
		SourcePRItemID:   item.SourcePRItemID,
		Remark:           item.Remark,
		CreatedAt:        item.CreatedAt,
		UpdatedAt:        item.UpdatedAt,
	}
}

// ToPurchaseOrderListItemResponse converts domain PurchaseOrder to list response DTO
func ToPurchaseOrderListItemResponse(order *procurement.PurchaseOrder) PurchaseOrderListItemResponse {
	return PurchaseOrderListItemResponse{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		SupplierID:    order.Supplier.ID,
		SupplierName:  order.Supplier.Name,
		ItemCount:     order.ItemCount(),
		GrandTotal:    order.GrandTotal,
		Status:        string(order.Status),
		InvoiceStatus: string(order.InvoiceStatus),
		SubmittedAt:   order.SubmittedAt,
		ApprovedAt:    order.ApprovedAt,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

// ToPurchaseOrderListItemResponses converts a slice of domain orders to list responses
func ToPurchaseOrderListItemResponses(orders []procurement.PurchaseOrder) []PurchaseOrderListItemResponse {
	responses := make([]PurchaseOrderListItemResponse, len(orders))
	for i := range orders {
		responses[i] = ToPurchaseOrderListItemResponse(&orders[i])
	}
	return responses
}

// ==================== Goods Receipt DTOs ====================

// CreateGoodsReceiptRequest represents a request to create a goods receipt
type CreateGoodsReceiptRequest struct {
	Type            string                        `json:"type" binding:"required,oneof=DIRECT PO_BASED"`
	SupplierID      *uuid.UUID                    `json:"supplier_id"` // required for DIRECT, derived from the order for PO_BASED
	SupplierName    string                        `json:"supplier_name"`
	PurchaseOrderID *uuid.UUID                    `json:"purchase_order_id"`
	ReceivedAt      *time.Time                    `json:"received_at"`
	Items           []CreateGoodsReceiptItemInput `json:"items"`
	Remark          string                        `json:"remark"`
	CreatedBy       *uuid.UUID                    `json:"-"`
}

// CreateGoodsReceiptItemInput represents one receipt line
type CreateGoodsReceiptItemInput struct {
	POItemID         *uuid.UUID       `json:"po_item_id"`
	ItemKind         string           `json:"item_kind" binding:"required,oneof=PRODUCT SERVICE"`
	ItemID           uuid.UUID        `json:"item_id" binding:"required"`
	ItemName         string           `json:"item_name" binding:"required,min=1,max=200"`
	ItemCode         string           `json:"item_code" binding:"max=50"`
	Unit             string           `json:"unit" binding:"max=20"`
	ReceivedQuantity decimal.Decimal  `json:"received_quantity" binding:"required"`
	AcceptedQuantity decimal.Decimal  `json:"accepted_quantity"`
	RejectedQuantity *decimal.Decimal `json:"rejected_quantity"` // derived as received - accepted when nil
	SerialNumbers    []string         `json:"serial_numbers"`
	BatchNumber      string           `json:"batch_number" binding:"max=100"`
	ManufactureDate  *time.Time       `json:"manufacture_date"`
	ExpiryDate       *time.Time       `json:"expiry_date"`
	Remark           string           `json:"remark" binding:"max=500"`
}

// GoodsReceiptListFilter represents filter options for goods receipt list
type GoodsReceiptListFilter struct {
	Search          string     `form:"search"`
	SupplierID      *uuid.UUID `form:"supplier_id"`
	PurchaseOrderID *uuid.UUID `form:"purchase_order_id"`
	Status          string     `form:"status"`
	Type            string     `form:"type"`
	StartDate       *time.Time `form:"start_date"`
	EndDate         *time.Time `form:"end_date"`
	Page            int        `form:"page" binding:"min=0"`
	PageSize        int        `form:"page_size" binding:"min=0,max=100"`
	OrderBy         string     `form:"order_by"`
	OrderDir        string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// GoodsReceiptItemResponse represents a receipt line in API responses
type GoodsReceiptItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	POItemID         *uuid.UUID      `json:"po_item_id,omitempty"`
	ItemKind         string          `json:"item_kind"`
	ItemID           uuid.UUID       `json:"item_id"`
	ItemName         string          `json:"item_name"`
	ItemCode         string          `json:"item_code,omitempty"`
	Unit             string          `json:"unit,omitempty"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	AcceptedQuantity decimal.Decimal `json:"accepted_quantity"`
	RejectedQuantity decimal.Decimal `json:"rejected_quantity"`
	SerialNumbers    []string        `json:"serial_numbers,omitempty"`
	BatchNumber      string          `json:"batch_number,omitempty"`
	ManufactureDate  *time.Time      `json:"manufacture_date,omitempty"`
	ExpiryDate       *time.Time      `json:"expiry_date,omitempty"`
	Remark           string          `json:"remark,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// GoodsReceiptResponse represents a goods receipt in API responses
type GoodsReceiptResponse struct {
	ID              uuid.UUID                  `json:"id"`
	ReceiptNumber   string                     `json:"receipt_number"`
	Type            string                     `json:"type"`
	Status          string                     `json:"status"`
	SupplierID      uuid.UUID                  `json:"supplier_id"`
	SupplierName    string                     `json:"supplier_name"`
	PurchaseOrderID *uuid.UUID                 `json:"purchase_order_id,omitempty"`
	Items           []GoodsReceiptItemResponse `json:"items"`
	TotalAccepted   decimal.Decimal            `json:"total_accepted"`
	TotalRejected   decimal.Decimal            `json:"total_rejected"`
	ReceivedAt      time.Time                  `json:"received_at"`
	CompletedAt     *time.Time                 `json:"completed_at,omitempty"`
	Remark          string                     `json:"remark,omitempty"`
	CreatedAt       time.Time                  `json:"created_at"`
	UpdatedAt       time.Time                  `json:"updated_at"`
	Version         int                        `json:"version"`
}

// GoodsReceiptListItemResponse represents a goods receipt in list responses
type GoodsReceiptListItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	ReceiptNumber   string          `json:"receipt_number"`
	Type            string          `json:"type"`
	Status          string          `json:"status"`
	SupplierID      uuid.UUID       `json:"supplier_id"`
	SupplierName    string          `json:"supplier_name"`
	PurchaseOrderID *uuid.UUID      `json:"purchase_order_id,omitempty"`
	ItemCount       int             `json:"item_count"`
	TotalAccepted   decimal.Decimal `json:"total_accepted"`
	TotalRejected   decimal.Decimal `json:"total_rejected"`
	ReceivedAt      time.Time       `json:"received_at"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// CompleteGoodsReceiptResponse carries the completed receipt and the updated order
type CompleteGoodsReceiptResponse struct {
	Receipt GoodsReceiptResponse   `json:"receipt"`
	Order   *PurchaseOrderResponse `json:"order,omitempty"` // nil for direct receipts
}

// ToGoodsReceiptResponse converts domain GoodsReceipt to response DTO
func ToGoodsReceiptResponse(receipt *procurement.GoodsReceipt) GoodsReceiptResponse {
	items := make([]GoodsReceiptItemResponse, len(receipt.Items))
	for i := range receipt.Items {
		items[i] = ToGoodsReceiptItemResponse(&receipt.Items[i])
	}

	return GoodsReceiptResponse{
		ID:              receipt.ID,
		ReceiptNumber:   receipt.ReceiptNumber,
		Type:            string(receipt.Type),
		Status:          string(receipt.Status),
		SupplierID:      receipt.SupplierID,
		SupplierName:    receipt.SupplierName,
		PurchaseOrderID: receipt.PurchaseOrderID,
		Items:           items,
		TotalAccepted:   receipt.TotalAcceptedQuantity(),
		TotalRejected:   receipt.TotalRejectedQuantity(),
		ReceivedAt:      receipt.ReceivedAt,
		CompletedAt:     receipt.CompletedAt,
		Remark:          receipt.Remark,
		CreatedAt:       receipt.CreatedAt,
		UpdatedAt:       receipt.UpdatedAt,
		Version:         receipt.Version,
	}
}

// ToGoodsReceiptItemResponse converts domain GoodsReceiptItem to response DTO
func ToGoodsReceiptItemResponse(item *procurement.GoodsReceiptItem) GoodsReceiptItemResponse {
	return GoodsReceiptItemResponse{
		ID:               item.ID,
		POItemID:         item.POItemID,
		ItemKind:         string(item.Item.Kind),
		ItemID:           item.Item.ID,
		ItemName:         item.Item.Name,
		ItemCode:         item.Item.Code,
		Unit:             item.Item.Unit,
		ReceivedQuantity: item.ReceivedQuantity,
		AcceptedQuantity: item.AcceptedQuantity,
		RejectedQuantity: item.RejectedQuantity,
		SerialNumbers:    item.SerialNumbers,
		BatchNumber:      item.BatchNumber,
		ManufactureDate:  item.ManufactureDate,
		ExpiryDate:       item.ExpiryDate,
		Remark:           item.Remark,
		CreatedAt:        item.CreatedAt,
		UpdatedAt:        item.UpdatedAt,
	}
}

// ToGoodsReceiptListItemResponse converts domain GoodsReceipt to list response DTO
func ToGoodsReceiptListItemResponse(receipt *procurement.GoodsReceipt) GoodsReceiptListItemResponse {
	return GoodsReceiptListItemResponse{
		ID:              receipt.ID,
		ReceiptNumber:   receipt.ReceiptNumber,
		Type:            string(receipt.Type),
		Status:          string(receipt.Status),
		SupplierID:      receipt.SupplierID,
		SupplierName:    receipt.SupplierName,
		PurchaseOrderID: receipt.PurchaseOrderID,
		ItemCount:       len(receipt.Items),
		TotalAccepted:   receipt.TotalAcceptedQuantity(),
		TotalRejected:   receipt.TotalRejectedQuantity(),
		ReceivedAt:      receipt.ReceivedAt,
		CompletedAt:     receipt.CompletedAt,
		CreatedAt:       receipt.CreatedAt,
	}
}

// ToGoodsReceiptListItemResponses converts a slice of domain receipts to list responses
func ToGoodsReceiptListItemResponses(receipts []procurement.GoodsReceipt) []GoodsReceiptListItemResponse {
	responses := make([]GoodsReceiptListItemResponse, len(receipts))
	for i := range receipts {
		responses[i] = ToGoodsReceiptListItemResponse(&receipts[i])
	}
	return responses
}

// ==================== Purchase Invoice DTOs ====================

// CreatePurchaseInvoiceRequest represents a request to create a purchase invoice
type CreatePurchaseInvoiceRequest struct {
	Type            string                           `json:"type" binding:"required,oneof=DIRECT PO_BASED"`
	SupplierID      *uuid.UUID                       `json:"supplier_id"` // required for DIRECT, derived from the order for PO_BASED
	SupplierName    string                           `json:"supplier_name"`
	SupplierInvoice string                           `json:"supplier_invoice" binding:"max=100"`
	PurchaseOrderID *uuid.UUID                       `json:"purchase_order_id"`
	InvoiceDate     *time.Time                       `json:"invoice_date"`
	DueDate         *time.Time                       `json:"due_date"`
	Items           []CreatePurchaseInvoiceItemInput `json:"items"`
	DiscountAmount  decimal.Decimal                  `json:"discount_amount"`
	ShippingCharges decimal.Decimal                  `json:"shipping_charges"`
	OtherCharges    decimal.Decimal                  `json:"other_charges"`
	Remark          string                           `json:"remark"`
	CreatedBy       *uuid.UUID                       `json:"-"`
}

// CreatePurchaseInvoiceItemInput represents one invoice line
type CreatePurchaseInvoiceItemInput struct {
	POItemID       *uuid.UUID      `json:"po_item_id"`
	ItemKind       string          `json:"item_kind" binding:"required,oneof=PRODUCT SERVICE"`
	ItemID         uuid.UUID       `json:"item_id" binding:"required"`
	ItemName       string          `json:"item_name" binding:"required,min=1,max=200"`
	ItemCode       string          `json:"item_code" binding:"max=50"`
	Unit           string          `json:"unit" binding:"max=20"`
	Quantity       decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice      decimal.Decimal `json:"unit_price" binding:"required"`
	DiscountMode   string          `json:"discount_mode" binding:"omitempty,oneof=PERCENT AMOUNT"`
	DiscountValue  decimal.Decimal `json:"discount_value"`
	TaxRatePercent decimal.Decimal `json:"tax_rate_percent"`
}

// PurchaseInvoiceListFilter represents filter options for purchase invoice list
type PurchaseInvoiceListFilter struct {
	Search          string     `form:"search"`
	SupplierID      *uuid.UUID `form:"supplier_id"`
	PurchaseOrderID *uuid.UUID `form:"purchase_order_id"`
	Status          string     `form:"status"`
	PaymentStatus   string     `form:"payment_status"`
	StartDate       *time.Time `form:"start_date"`
	EndDate         *time.Time `form:"end_date"`
	Page            int        `form:"page" binding:"min=0"`
	PageSize        int        `form:"page_size" binding:"min=0,max=100"`
	OrderBy         string     `form:"order_by"`
	OrderDir        string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PurchaseInvoiceItemResponse represents an invoice line in API responses
type PurchaseInvoiceItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	POItemID       *uuid.UUID      `json:"po_item_id,omitempty"`
	ItemKind       string          `json:"item_kind"`
	ItemID         uuid.UUID       `json:"item_id"`
	ItemName       string          `json:"item_name"`
	ItemCode       string          `json:"item_code,omitempty"`
	Unit           string          `json:"unit,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountMode   string          `json:"discount_mode"`
	DiscountValue  decimal.Decimal `json:"discount_value"`
	TaxRatePercent decimal.Decimal `json:"tax_rate_percent"`
	LineSubtotal   decimal.Decimal `json:"line_subtotal"`
	LineTotal      decimal.Decimal `json:"line_total"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// PurchaseInvoiceResponse represents a purchase invoice in API responses
type PurchaseInvoiceResponse struct {
	ID              uuid.UUID                     `json:"id"`
	InvoiceNumber   string                        `json:"invoice_number"`
	SupplierInvoice string                        `json:"supplier_invoice,omitempty"`
	Type            string                        `json:"type"`
	Status          string                        `json:"status"`
	PaymentStatus   string                        `json:"payment_status"`
	SupplierID      uuid.UUID                     `json:"supplier_id"`
	SupplierName    string                        `json:"supplier_name"`
	PurchaseOrderID *uuid.UUID                    `json:"purchase_order_id,omitempty"`
	Items           []PurchaseInvoiceItemResponse `json:"items"`
	Subtotal        decimal.Decimal               `json:"subtotal"`
	DiscountAmount  decimal.Decimal               `json:"discount_amount"`
	TaxAmount       decimal.Decimal               `json:"tax_amount"`
	ShippingCharges decimal.Decimal               `json:"shipping_charges"`
	OtherCharges    decimal.Decimal               `json:"other_charges"`
	GrandTotal      decimal.Decimal               `json:"grand_total"`
	PaidAmount      decimal.Decimal               `json:"paid_amount"`
	BalanceAmount   decimal.Decimal               `json:"balance_amount"`
	InvoiceDate     time.Time                     `json:"invoice_date"`
	DueDate         *time.Time                    `json:"due_date,omitempty"`
	PostedAt        *time.Time                    `json:"posted_at,omitempty"`
	Remark          string                        `json:"remark,omitempty"`
	CreatedAt       time.Time                     `json:"created_at"`
	UpdatedAt       time.Time                     `json:"updated_at"`
	Version         int                           `json:"version"`
}

// PurchaseInvoiceListItemResponse represents a purchase invoice in list responses
type PurchaseInvoiceListItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	InvoiceNumber   string          `json:"invoice_number"`
	SupplierInvoice string          `json:"supplier_invoice,omitempty"`
	Type            string          `json:"type"`
	Status          string          `json:"status"`
	PaymentStatus   string          `json:"payment_status"`
	SupplierID      uuid.UUID       `json:"supplier_id"`
	SupplierName    string          `json:"supplier_name"`
	PurchaseOrderID *uuid.UUID      `json:"purchase_order_id,omitempty"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	BalanceAmount   decimal.Decimal `json:"balance_amount"`
	InvoiceDate     time.Time       `json:"invoice_date"`
	DueDate         *time.Time      `json:"due_date,omitempty"`
	PostedAt        *time.Time      `json:"posted_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// PostInvoiceResponse carries the posted invoice and the updated order
type PostInvoiceResponse struct {
	Invoice PurchaseInvoiceResponse `json:"invoice"`
	Order   *PurchaseOrderResponse  `json:"order,omitempty"` // nil for direct invoices
}

// ToPurchaseInvoiceResponse converts domain PurchaseInvoice to response DTO
func ToPurchaseInvoiceResponse(invoice *procurement.PurchaseInvoice) PurchaseInvoiceResponse {
	items := make([]PurchaseInvoiceItemResponse, len(invoice.Items))
	for i := range invoice.Items {
		items[i] = ToPurchaseInvoiceItemResponse(&invoice.Items[i])
	}

	return PurchaseInvoiceResponse{
		ID:              invoice.ID,
		InvoiceNumber:   invoice.InvoiceNumber,
		SupplierInvoice: invoice.SupplierInvoice,
		Type:            string(invoice.Type),
		Status:          string(invoice.Status),
		PaymentStatus:   string(invoice.PaymentStatus),
		SupplierID:      invoice.SupplierID,
		SupplierName:    invoice.SupplierName,
		PurchaseOrderID: invoice.PurchaseOrderID,
		Items:           items,
		Subtotal:        invoice.Subtotal,
		DiscountAmount:  invoice.DiscountAmount,
		TaxAmount:       invoice.TaxAmount,
		ShippingCharges: invoice.ShippingCharges,
		OtherCharges:    invoice.OtherCharges,
		GrandTotal:      invoice.GrandTotal,
		PaidAmount:      invoice.PaidAmount,
		BalanceAmount:   invoice.BalanceAmount,
		InvoiceDate:     invoice.InvoiceDate,
		DueDate:         invoice.DueDate,
		PostedAt:        invoice.PostedAt,
		Remark:          invoice.Remark,
		CreatedAt:       invoice.CreatedAt,
		UpdatedAt:       invoice.UpdatedAt,
		Version:         invoice.Version,
	}
}

// ToPurchaseInvoiceItemResponse converts domain PurchaseInvoiceItem to response DTO
func ToPurchaseInvoiceItemResponse(item *procurement.PurchaseInvoiceItem) PurchaseInvoiceItemResponse {
	return PurchaseInvoiceItemResponse{
		ID:             item.ID,
		POItemID:       item.POItemID,
		ItemKind:       string(item.Item.Kind),
		ItemID:         item.Item.ID,
		ItemName:       item.Item.Name,
		ItemCode:       item.Item.Code,
		Unit:           item.Item.Unit,
		Quantity:       item.Quantity,
		UnitPrice:      item.UnitPrice,
		DiscountMode:   string(item.DiscountMode),
		DiscountValue:  item.DiscountValue,
		TaxRatePercent: item.TaxRatePercent,
		LineSubtotal:   item.LineSubtotal,
		LineTotal:      item.LineTotal,
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
	}
}

// ToPurchaseInvoiceListItemResponse converts domain PurchaseInvoice to list response DTO
func ToPurchaseInvoiceListItemResponse(invoice *procurement.PurchaseInvoice) PurchaseInvoiceListItemResponse {
	return PurchaseInvoiceListItemResponse{
		ID:              invoice.ID,
		InvoiceNumber:   invoice.InvoiceNumber,
		SupplierInvoice: invoice.SupplierInvoice,
		Type:            string(invoice.Type),
		Status:          string(invoice.Status),
		PaymentStatus:   string(invoice.PaymentStatus),
		SupplierID:      invoice.SupplierID,
		SupplierName:    invoice.SupplierName,
		PurchaseOrderID: invoice.PurchaseOrderID,
		GrandTotal:      invoice.GrandTotal,
		PaidAmount:      invoice.PaidAmount,
		BalanceAmount:   invoice.BalanceAmount,
		InvoiceDate:     invoice.InvoiceDate,
		DueDate:         invoice.DueDate,
		PostedAt:        invoice.PostedAt,
		CreatedAt:       invoice.CreatedAt,
	}
}

// ToPurchaseInvoiceListItemResponses converts a slice of domain invoices to list responses
func ToPurchaseInvoiceListItemResponses(invoices []procurement.PurchaseInvoice) []PurchaseInvoiceListItemResponse {
	responses := make([]PurchaseInvoiceListItemResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToPurchaseInvoiceListItemResponse(&invoices[i])
	}
	return responses
}

// ==================== Payment DTOs ====================

// RecordPaymentRequest represents a request to record a payment against an invoice
type RecordPaymentRequest struct {
	InvoiceID       uuid.UUID       `json:"invoice_id" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Mode            string          `json:"mode" binding:"required,oneof=CASH CHEQUE BANK_TRANSFER UPI CARD"`
	ReferenceNumber string          `json:"reference_number" binding:"max=100"`
	BankName        string          `json:"bank_name" binding:"max=200"`
	ChequeDate      *time.Time      `json:"cheque_date"`
	PaymentDate     *time.Time      `json:"payment_date"`
	Remark          string          `json:"remark" binding:"max=500"`
	CreatedBy       *uuid.UUID      `json:"-"`
}

// CancelPaymentRequest represents a request to cancel a payment
type CancelPaymentRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// PaymentListFilter represents filter options for payment list
type PaymentListFilter struct {
	Search     string     `form:"search"`
	InvoiceID  *uuid.UUID `form:"invoice_id"`
	SupplierID *uuid.UUID `form:"supplier_id"`
	Status     string     `form:"status"`
	Mode       string     `form:"mode"`
	StartDate  *time.Time `form:"start_date"`
	EndDate    *time.Time `form:"end_date"`
	Page       int        `form:"page" binding:"min=0"`
	PageSize   int        `form:"page_size" binding:"min=0,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID              uuid.UUID       `json:"id"`
	PaymentNumber   string          `json:"payment_number"`
	InvoiceID       uuid.UUID       `json:"invoice_id"`
	SupplierID      uuid.UUID       `json:"supplier_id"`
	Amount          decimal.Decimal `json:"amount"`
	Mode            string          `json:"mode"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	BankName        string          `json:"bank_name,omitempty"`
	ChequeDate      *time.Time      `json:"cheque_date,omitempty"`
	PaymentDate     time.Time       `json:"payment_date"`
	Status          string          `json:"status"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	FailedAt        *time.Time      `json:"failed_at,omitempty"`
	FailReason      string          `json:"fail_reason,omitempty"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
	CancelReason    string          `json:"cancel_reason,omitempty"`
	Remark          string          `json:"remark,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

// RecordPaymentResponse carries the recorded payment and the updated invoice
type RecordPaymentResponse struct {
	Payment PaymentResponse         `json:"payment"`
	Invoice PurchaseInvoiceResponse `json:"invoice"`
}

// ToPaymentResponse converts domain Payment to response DTO
func ToPaymentResponse(payment *procurement.Payment) PaymentResponse {
	return PaymentResponse{
		ID:              payment.ID,
		PaymentNumber:   payment.PaymentNumber,
		InvoiceID:       payment.InvoiceID,
		SupplierID:      payment.SupplierID,
		Amount:          payment.Amount,
		Mode:            string(payment.Mode),
		ReferenceNumber: payment.ReferenceNumber,
		BankName:        payment.BankName,
		ChequeDate:      payment.ChequeDate,
		PaymentDate:     payment.PaymentDate,
		Status:          string(payment.Status),
		CompletedAt:     payment.CompletedAt,
		FailedAt:        payment.FailedAt,
		FailReason:      payment.FailReason,
		CancelledAt:     payment.CancelledAt,
		CancelReason:    payment.CancelReason,
		Remark:          payment.Remark,
		CreatedAt:       payment.CreatedAt,
		UpdatedAt:       payment.UpdatedAt,
		Version:         payment.Version,
	}
}

// ToPaymentResponses converts a slice of domain payments to responses
func ToPaymentResponses(payments []procurement.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i])
	}
	return responses
}
