package handlers

import (
	"github.com/gin-gonic/gin"

	"stockbook/internal/domain/documents/payment"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// PaymentHandler serves payment documents.
type PaymentHandler struct {
	*BaseHandler
	service *payment.Service
}

// NewPaymentHandler creates the payments handler.
func NewPaymentHandler(base *BaseHandler, service *payment.Service) *PaymentHandler {
	return &PaymentHandler{BaseHandler: base, service: service}
}

// RegisterRoutes mounts payment endpoints.
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.DELETE("/:id", h.Delete)
}

// Create handles POST /. Applies every allocation, updates the touched
// invoices and appends the credit ledger entry in one transaction.
func (h *PaymentHandler) Create(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p := req.ToEntity()
	p.CreatedBy = h.GetUserID(c)

	if err := h.service.Create(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}

	h.CreatedNumbered(c, p.ID.String(), p.Number)
}

// List handles GET /.
func (h *PaymentHandler) List(c *gin.Context) {
	var q dto.PaymentQuery
	if !h.BindQuery(c, &q) {
		return
	}

	result, err := h.service.List(c.Request.Context(), q.ToPaymentFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(result, result.Items))
}

// GetByID handles GET /:id, allocations included.
func (h *PaymentHandler) GetByID(c *gin.Context) {
	paymentID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), paymentID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, p)
}

// Delete handles DELETE /:id. Reverses the allocations on the touched
// invoices and appends a compensating ledger entry before detaching the
// header.
func (h *PaymentHandler) Delete(c *gin.Context) {
	paymentID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), paymentID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
