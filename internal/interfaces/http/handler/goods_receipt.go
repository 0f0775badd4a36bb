package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	procapp "github.com/temple-erp/backend/internal/application/procurement"
)

// GoodsReceiptHandler handles goods receipt API endpoints
type GoodsReceiptHandler struct {
	BaseHandler
	receiptService *procapp.GoodsReceiptService
}

// NewGoodsReceiptHandler creates a new GoodsReceiptHandler
func NewGoodsReceiptHandler(receiptService *procapp.GoodsReceiptService) *GoodsReceiptHandler {
	return &GoodsReceiptHandler{receiptService: receiptService}
}

// Create handles POST /goods-receipts
func (h *GoodsReceiptHandler) Create(c *gin.Context) {
	var req procapp.CreateGoodsReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}
	if userID != uuid.Nil {
		req.CreatedBy = &userID
	}

	receipt, err := h.receiptService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, receipt)
}

// Receive handles POST /goods-receipts/receive.
// It creates and completes a receipt in one step, applying the accepted
// quantities to the source purchase order.
func (h *GoodsReceiptHandler) Receive(c *gin.Context) {
	var req procapp.CreateGoodsReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}
	if userID != uuid.Nil {
		req.CreatedBy = &userID
	}

	result, err := h.receiptService.Receive(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// GetByID handles GET /goods-receipts/:id
func (h *GoodsReceiptHandler) GetByID(c *gin.Context) {
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID format")
		return
	}

	receipt, err := h.receiptService.GetByID(c.Request.Context(), receiptID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receipt)
}

// List handles GET /goods-receipts
func (h *GoodsReceiptHandler) List(c *gin.Context) {
	var filter procapp.GoodsReceiptListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	receipts, total, err := h.receiptService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, receipts, total, filter.Page, filter.PageSize)
}

// ListByPurchaseOrder handles GET /purchase-orders/:id/goods-receipts
func (h *GoodsReceiptHandler) ListByPurchaseOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	receipts, err := h.receiptService.ListByPurchaseOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receipts)
}

// Complete handles POST /goods-receipts/:id/complete
func (h *GoodsReceiptHandler) Complete(c *gin.Context) {
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID format")
		return
	}

	result, err := h.receiptService.Complete(c.Request.Context(), receiptID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// AddItem handles POST /goods-receipts/:id/items
func (h *GoodsReceiptHandler) AddItem(c *gin.Context) {
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID format")
		return
	}

	var req procapp.CreateGoodsReceiptItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	receipt, err := h.receiptService.AddItem(c.Request.Context(), receiptID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receipt)
}

// RemoveItem handles DELETE /goods-receipts/:id/items/:item_id
func (h *GoodsReceiptHandler) RemoveItem(c *gin.Context) {
	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID format")
		return
	}

	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	receipt, err := h.receiptService.RemoveItem(c.Request.Context(), receiptID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receipt)
}
