package handlers

import (
	"github.com/gin-gonic/gin"

	"stockbook/internal/domain/catalogs/customer"
	"stockbook/internal/domain/registers/ledger"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// CustomerHTTPHandler serves the customers catalog and the per-customer
// ledger view.
type CustomerHTTPHandler struct {
	*CatalogHandler[*customer.Customer, dto.CreateCustomerRequest, dto.UpdateCustomerRequest]
	ledgerSvc *ledger.Service
}

// NewCustomerHandler creates the customers handler.
func NewCustomerHandler(
	base *BaseHandler,
	service *customer.Service,
	ledgerSvc *ledger.Service,
) *CustomerHTTPHandler {
	cfg := CatalogHandlerConfig[*customer.Customer, dto.CreateCustomerRequest, dto.UpdateCustomerRequest]{
		Service:    service.CatalogService,
		EntityName: "customer",
		MapCreateDTO: func(req dto.CreateCustomerRequest) *customer.Customer {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateCustomerRequest, existing *customer.Customer) *customer.Customer {
			req.ApplyTo(existing)
			return existing
		},
		ExtractID: func(c *customer.Customer) string {
			return c.ID.String()
		},
	}
	return &CustomerHTTPHandler{
		CatalogHandler: NewCatalogHandler(base, cfg),
		ledgerSvc:      ledgerSvc,
	}
}

// RegisterRoutes mounts catalog endpoints plus the ledger view.
func (h *CustomerHTTPHandler) RegisterRoutes(rg *gin.RouterGroup) {
	h.CatalogHandler.RegisterRoutes(rg)
	rg.GET("/:id/ledger", h.Ledger)
}

// Ledger handles GET /:id/ledger.
func (h *CustomerHTTPHandler) Ledger(c *gin.Context) {
	customerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var q dto.LedgerQuery
	if !h.BindQuery(c, &q) {
		return
	}

	entries, err := h.ledgerSvc.ListByCustomer(c.Request.Context(), customerID, q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": entries})
}
