package handlers

import (
	"github.com/gin-gonic/gin"

	"stockbook/internal/core/entity"
	"stockbook/internal/domain"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// CatalogHandlerConfig wires a catalog service to its request DTOs.
type CatalogHandlerConfig[T entity.Validatable, C any, U any] struct {
	Service    *domain.CatalogService[T]
	EntityName string

	// MapCreateDTO converts the create request into a new entity
	MapCreateDTO func(req C) T

	// MapUpdateDTO applies the update request to the loaded entity
	MapUpdateDTO func(req U, existing T) T

	// ExtractID returns the entity's ID for the create response
	ExtractID func(entity T) string
}

// CatalogHandler serves CRUD endpoints for one catalog type.
type CatalogHandler[T entity.Validatable, C any, U any] struct {
	*BaseHandler
	cfg CatalogHandlerConfig[T, C, U]
}

// NewCatalogHandler creates a catalog handler from configuration.
func NewCatalogHandler[T entity.Validatable, C any, U any](
	base *BaseHandler,
	cfg CatalogHandlerConfig[T, C, U],
) *CatalogHandler[T, C, U] {
	return &CatalogHandler[T, C, U]{BaseHandler: base, cfg: cfg}
}

// RegisterRoutes mounts the standard catalog endpoints.
func (h *CatalogHandler[T, C, U]) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.GET("/code/:code", h.GetByCode)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/restore", h.Restore)
}

// Create handles POST /.
func (h *CatalogHandler[T, C, U]) Create(c *gin.Context) {
	var req C
	if !h.BindJSON(c, &req) {
		return
	}

	ent := h.cfg.MapCreateDTO(req)
	if err := h.cfg.Service.Create(c.Request.Context(), ent); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, h.cfg.ExtractID(ent))
}

// List handles GET /.
func (h *CatalogHandler[T, C, U]) List(c *gin.Context) {
	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	result, err := h.cfg.Service.List(c.Request.Context(), q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(result, result.Items))
}

// GetByID handles GET /:id.
func (h *CatalogHandler[T, C, U]) GetByID(c *gin.Context) {
	entityID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	ent, err := h.cfg.Service.GetByID(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, ent)
}

// GetByCode handles GET /code/:code.
func (h *CatalogHandler[T, C, U]) GetByCode(c *gin.Context) {
	ent, err := h.cfg.Service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, ent)
}

// Update handles PUT /:id. Loads the entity, applies the request and saves
// with optimistic locking.
func (h *CatalogHandler[T, C, U]) Update(c *gin.Context) {
	entityID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req U
	if !h.BindJSON(c, &req) {
		return
	}

	existing, err := h.cfg.Service.GetByID(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	updated := h.cfg.MapUpdateDTO(req, existing)
	if err := h.cfg.Service.Update(c.Request.Context(), updated); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, updated)
}

// Delete handles DELETE /:id (soft delete).
func (h *CatalogHandler[T, C, U]) Delete(c *gin.Context) {
	entityID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.cfg.Service.Delete(c.Request.Context(), entityID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// Restore handles POST /:id/restore (clears the deletion mark).
func (h *CatalogHandler[T, C, U]) Restore(c *gin.Context) {
	entityID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.cfg.Service.SetDeletionMark(c.Request.Context(), entityID, false); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
