package handlers

import (
	"github.com/gin-gonic/gin"

	"stockbook/internal/domain/documents/invoice"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// InvoiceHandler serves invoice documents.
type InvoiceHandler struct {
	*BaseHandler
	service *invoice.Service
}

// NewInvoiceHandler creates the invoices handler.
func NewInvoiceHandler(base *BaseHandler, service *invoice.Service) *InvoiceHandler {
	return &InvoiceHandler{BaseHandler: base, service: service}
}

// RegisterRoutes mounts invoice endpoints.
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.POST("/:id/cancel", h.Cancel)
}

// Create handles POST /. Posting an invoice writes the debit ledger entry
// and refreshes the customer's receivable; drafts skip both.
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inv := req.ToEntity()
	inv.CreatedBy = h.GetUserID(c)

	if err := h.service.Create(c.Request.Context(), inv); err != nil {
		h.Error(c, err)
		return
	}

	h.CreatedNumbered(c, inv.ID.String(), inv.Number)
}

// List handles GET /.
func (h *InvoiceHandler) List(c *gin.Context) {
	var q dto.InvoiceQuery
	if !h.BindQuery(c, &q) {
		return
	}

	result, err := h.service.List(c.Request.Context(), q.ToInvoiceFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(result, result.Items))
}

// GetByID handles GET /:id, lines included.
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	invoiceID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	inv, err := h.service.GetByID(c.Request.Context(), invoiceID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, inv)
}

// Cancel handles POST /:id/cancel. Fails when payments are allocated
// against the invoice.
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	invoiceID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Cancel(c.Request.Context(), invoiceID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
