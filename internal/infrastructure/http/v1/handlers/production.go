package handlers

import (
	"github.com/gin-gonic/gin"

	"stockbook/internal/domain/documents/production"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// ProductionHandler serves production run documents.
type ProductionHandler struct {
	*BaseHandler
	service *production.Service
}

// NewProductionHandler creates the productions handler.
func NewProductionHandler(base *BaseHandler, service *production.Service) *ProductionHandler {
	return &ProductionHandler{BaseHandler: base, service: service}
}

// RegisterRoutes mounts production endpoints.
func (h *ProductionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Record)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.DELETE("/:id", h.Delete)
}

// Record handles POST /. Consumes every input and produces the output in
// one transaction; any insufficient input aborts the whole run.
func (h *ProductionHandler) Record(c *gin.Context) {
	var req dto.CreateProductionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p := req.ToEntity()
	p.CreatedBy = h.GetUserID(c)

	if err := h.service.Record(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}

	h.CreatedNumbered(c, p.ID.String(), p.Number)
}

// List handles GET /.
func (h *ProductionHandler) List(c *gin.Context) {
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

// GetByID handles GET /:id, inputs included.
func (h *ProductionHandler) GetByID(c *gin.Context) {
	productionID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), productionID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, p)
}

// Delete handles DELETE /:id. Posted movements stay in the ledger.
func (h *ProductionHandler) Delete(c *gin.Context) {
	productionID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), productionID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
