package handlers

import (
	"github.com/gin-gonic/gin"

	"stockbook/internal/domain/catalogs/item"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// ItemHTTPHandler serves the items catalog.
type ItemHTTPHandler struct {
	*CatalogHandler[*item.Item, dto.CreateItemRequest, dto.UpdateItemRequest]
	service *item.Service
}

// NewItemHandler creates the items handler.
func NewItemHandler(base *BaseHandler, service *item.Service) *ItemHTTPHandler {
	cfg := CatalogHandlerConfig[*item.Item, dto.CreateItemRequest, dto.UpdateItemRequest]{
		Service:    service.CatalogService,
		EntityName: "item",
		MapCreateDTO: func(req dto.CreateItemRequest) *item.Item {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateItemRequest, existing *item.Item) *item.Item {
			req.ApplyTo(existing)
			return existing
		},
		ExtractID: func(it *item.Item) string {
			return it.ID.String()
		},
	}
	return &ItemHTTPHandler{
		CatalogHandler: NewCatalogHandler(base, cfg),
		service:        service,
	}
}

// RegisterRoutes mounts catalog endpoints plus the low-stock report.
func (h *ItemHTTPHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/low-stock", h.LowStock)
	h.CatalogHandler.RegisterRoutes(rg)
}

// LowStock handles GET /low-stock.
func (h *ItemHTTPHandler) LowStock(c *gin.Context) {
	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	result, err := h.service.FindLowStock(c.Request.Context(), q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(result, result.Items))
}
