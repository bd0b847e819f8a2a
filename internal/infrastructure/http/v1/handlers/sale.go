package handlers

import (
	"github.com/gin-gonic/gin"

	"stockbook/internal/domain/documents/sale"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// SaleHandler serves sale documents.
type SaleHandler struct {
	*BaseHandler
	service *sale.Service
}

// NewSaleHandler creates the sales handler.
func NewSaleHandler(base *BaseHandler, service *sale.Service) *SaleHandler {
	return &SaleHandler{BaseHandler: base, service: service}
}

// RegisterRoutes mounts sale endpoints.
func (h *SaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.DELETE("/:id", h.Delete)
}

// Create handles POST /. Fails with insufficient_stock when the warehouse
// balance cannot cover the quantity.
func (h *SaleHandler) Create(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc := req.ToEntity()
	doc.CreatedBy = h.GetUserID(c)

	if err := h.service.Create(c.Request.Context(), doc); err != nil {
		h.Error(c, err)
		return
	}

	h.CreatedNumbered(c, doc.ID.String(), doc.Number)
}

// List handles GET /.
func (h *SaleHandler) List(c *gin.Context) {
	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	result, err := h.service.List(c.Request.Context(), q.ToDocumentFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(result, result.Items))
}

// GetByID handles GET /:id.
func (h *SaleHandler) GetByID(c *gin.Context) {
	saleID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, doc)
}

// Delete handles DELETE /:id. The posted movement stays in the ledger.
func (h *SaleHandler) Delete(c *gin.Context) {
	saleID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), saleID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
