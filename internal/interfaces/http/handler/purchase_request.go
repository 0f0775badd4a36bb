package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	procapp "github.com/temple-erp/backend/internal/application/procurement"
)

// PurchaseRequestHandler handles purchase request API endpoints
type PurchaseRequestHandler struct {
	BaseHandler
	requestService *procapp.PurchaseRequestService
}

// NewPurchaseRequestHandler creates a new PurchaseRequestHandler
func NewPurchaseRequestHandler(requestService *procapp.PurchaseRequestService) *PurchaseRequestHandler {
	return &PurchaseRequestHandler{requestService: requestService}
}

// Create handles POST /purchase-requests
func (h *PurchaseRequestHandler) Create(c *gin.Context) {
	var req procapp.CreatePurchaseRequestRequest
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

	request, err := h.requestService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, request)
}

// GetByID handles GET /purchase-requests/:id
func (h *PurchaseRequestHandler) GetByID(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	request, err := h.requestService.GetByID(c.Request.Context(), requestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}

// GetByRequestNumber handles GET /purchase-requests/number/:request_number
func (h *PurchaseRequestHandler) GetByRequestNumber(c *gin.Context) {
	requestNumber := c.Param("request_number")
	if requestNumber == "" {
		h.BadRequest(c, "Request number is required")
		return
	}

	request, err := h.requestService.GetByRequestNumber(c.Request.Context(), requestNumber)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}

// List handles GET /purchase-requests
func (h *PurchaseRequestHandler) List(c *gin.Context) {
	var filter procapp.PurchaseRequestListFilter
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

	requests, total, err := h.requestService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, requests, total, filter.Page, filter.PageSize)
}

// Update handles PUT /purchase-requests/:id
func (h *PurchaseRequestHandler) Update(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	var req procapp.UpdatePurchaseRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	request, err := h.requestService.Update(c.Request.Context(), requestID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}

// AddItem handles POST /purchase-requests/:id/items
func (h *PurchaseRequestHandler) AddItem(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	var req procapp.AddPurchaseRequestItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	request, err := h.requestService.AddItem(c.Request.Context(), requestID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}

// UpdateItem handles PUT /purchase-requests/:id/items/:item_id
func (h *PurchaseRequestHandler) UpdateItem(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	var req procapp.UpdatePurchaseRequestItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	request, err := h.requestService.UpdateItem(c.Request.Context(), requestID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}

// RemoveItem handles DELETE /purchase-requests/:id/items/:item_id
func (h *PurchaseRequestHandler) RemoveItem(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	request, err := h.requestService.RemoveItem(c.Request.Context(), requestID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}

// Cancel handles POST /purchase-requests/:id/cancel
func (h *PurchaseRequestHandler) Cancel(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	var req procapp.CancelPurchaseRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	request, err := h.requestService.Cancel(c.Request.Context(), requestID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}

// SplitConvert handles POST /purchase-requests/:id/convert
func (h *PurchaseRequestHandler) SplitConvert(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	var req procapp.SplitConvertRequest
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

	result, err := h.requestService.SplitConvert(c.Request.Context(), requestID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}
