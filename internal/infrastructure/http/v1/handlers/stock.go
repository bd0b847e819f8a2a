package handlers

import (
	"github.com/gin-gonic/gin"

	"stockbook/internal/domain/registers/stock"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// StockHandler serves the stock register: manual movements, history,
// balances and the summary report.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewStockHandler creates the stock register handler.
func NewStockHandler(base *BaseHandler, service *stock.Service) *StockHandler {
	return &StockHandler{BaseHandler: base, service: service}
}

// RegisterRoutes mounts stock endpoints.
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/movements", h.RecordMovement)
	rg.GET("/movements", h.ListMovements)
	rg.GET("/items/:id/ledger", h.ItemLedger)
	rg.GET("/items/:id/balances", h.ItemBalances)
	rg.GET("/warehouses/:id", h.WarehouseStock)
	rg.GET("/summary", h.Summary)
}

// RecordMovement handles POST /movements.
func (h *StockHandler) RecordMovement(c *gin.Context) {
	var req dto.RecordMovementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	mv := req.ToMovement()
	mv.CreatedBy = h.GetUserID(c)

	number, err := h.service.RecordMovement(c.Request.Context(), mv)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.CreatedNumbered(c, mv.ID.String(), number)
}

// ListMovements handles GET /movements.
func (h *StockHandler) ListMovements(c *gin.Context) {
	var q dto.MovementQuery
	if !h.BindQuery(c, &q) {
		return
	}

	movements, err := h.service.ListMovements(c.Request.Context(), q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": movements})
}

// ItemLedger handles GET /items/:id/ledger. Rows carry the running balance
// computed over the item's full history, so filtered pages show true totals.
func (h *StockHandler) ItemLedger(c *gin.Context) {
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var q dto.MovementQuery
	if !h.BindQuery(c, &q) {
		return
	}

	rows, err := h.service.GetItemLedger(c.Request.Context(), itemID, q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": rows})
}

// ItemBalances handles GET /items/:id/balances.
func (h *StockHandler) ItemBalances(c *gin.Context) {
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	balances, err := h.service.GetBalancesByItem(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := make([]dto.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		resp = append(resp, dto.FromBalance(b))
	}

	h.OK(c, gin.H{"items": resp})
}

// WarehouseStock handles GET /warehouses/:id. Zero balances are omitted.
func (h *StockHandler) WarehouseStock(c *gin.Context) {
	warehouseID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	balances, err := h.service.GetWarehouseStock(c.Request.Context(), warehouseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := make([]dto.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		resp = append(resp, dto.FromBalance(b))
	}

	h.OK(c, gin.H{"items": resp})
}

// Summary handles GET /summary.
func (h *StockHandler) Summary(c *gin.Context) {
	var q dto.SummaryQuery
	if !h.BindQuery(c, &q) {
		return
	}

	rows, err := h.service.GetSummary(c.Request.Context(), q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": rows})
}
