package handlers

import (
	"github.com/gin-gonic/gin"

	"stockbook/internal/domain/documents/bom"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// BOMHandler serves bills of materials.
type BOMHandler struct {
	*BaseHandler
	service *bom.Service
}

// NewBOMHandler creates the BOM handler.
func NewBOMHandler(base *BaseHandler, service *bom.Service) *BOMHandler {
	return &BOMHandler{BaseHandler: base, service: service}
}

// RegisterRoutes mounts BOM endpoints.
func (h *BOMHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/for-item/:id", h.ActiveByItem)
	rg.GET("/:id", h.GetByID)
	rg.GET("/:id/scale", h.Scale)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// Create handles POST /.
func (h *BOMHandler) Create(c *gin.Context) {
	var req dto.CreateBOMRequest
	if !h.BindJSON(c, &req) {
		return
	}

	b := req.ToEntity()
	b.CreatedBy = h.GetUserID(c)

	if err := h.service.Create(c.Request.Context(), b); err != nil {
		h.Error(c, err)
		return
	}

	h.CreatedNumbered(c, b.ID.String(), b.Number)
}

// List handles GET /.
func (h *BOMHandler) List(c *gin.Context) {
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

// GetByID handles GET /:id, lines included.
func (h *BOMHandler) GetByID(c *gin.Context) {
	bomID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), bomID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, b)
}

// ActiveByItem handles GET /for-item/:id. Returns active recipes producing
// the given item, for picking one when recording a production run.
func (h *BOMHandler) ActiveByItem(c *gin.Context) {
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	boms, err := h.service.ListActiveByItem(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": boms})
}

// Scale handles GET /:id/scale?quantity=N. Returns per-material
// requirements for the requested output quantity.
func (h *BOMHandler) Scale(c *gin.Context) {
	bomID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var q dto.ScaleQuery
	if !h.BindQuery(c, &q) {
		return
	}

	requirements, err := h.service.Scale(c.Request.Context(), bomID, q.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"requirements": requirements})
}

// Update handles PUT /:id. The request's lines replace the stored set.
func (h *BOMHandler) Update(c *gin.Context) {
	bomID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateBOMRequest
	if !h.BindJSON(c, &req) {
		return
	}

	existing, err := h.service.GetByID(c.Request.Context(), bomID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(existing)
	if err := h.service.Update(c.Request.Context(), existing); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, existing)
}

// Delete handles DELETE /:id (soft delete).
func (h *BOMHandler) Delete(c *gin.Context) {
	bomID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), bomID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
