package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	procapp "github.com/temple-erp/backend/internal/application/procurement"
)

// PurchaseInvoiceHandler handles purchase invoice API endpoints
type PurchaseInvoiceHandler struct {
	BaseHandler
	invoiceService *procapp.PurchaseInvoiceService
}

// NewPurchaseInvoiceHandler creates a new PurchaseInvoiceHandler
func NewPurchaseInvoiceHandler(invoiceService *procapp.PurchaseInvoiceService) *PurchaseInvoiceHandler {
	return &PurchaseInvoiceHandler{invoiceService: invoiceService}
}

// Create handles POST /purchase-invoices
func (h *PurchaseInvoiceHandler) Create(c *gin.Context) {
	var req procapp.CreatePurchaseInvoiceRequest
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

	invoice, err := h.invoiceService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, invoice)
}

// GetByID handles GET /purchase-invoices/:id
func (h *PurchaseInvoiceHandler) GetByID(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// List handles GET /purchase-invoices
func (h *PurchaseInvoiceHandler) List(c *gin.Context) {
	var filter procapp.PurchaseInvoiceListFilter
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

	invoices, total, err := h.invoiceService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.PageSize)
}

// ListByPurchaseOrder handles GET /purchase-orders/:id/invoices
func (h *PurchaseInvoiceHandler) ListByPurchaseOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	invoices, err := h.invoiceService.ListByPurchaseOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoices)
}

// Post handles POST /purchase-invoices/:id/post
func (h *PurchaseInvoiceHandler) Post(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	result, err := h.invoiceService.Post(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
