package handler

import (
	"github.com/gin-gonic/gin"

	application "github.com/johnkamauwamunga/energy-erp-sub007/internal/application/payables"
	"github.com/johnkamauwamunga/energy-erp-sub007/internal/interfaces/http/dto"
)

// SupplierAccountHandler serves the payables view of supplier accounts
type SupplierAccountHandler struct {
	BaseHandler
	service *application.PaymentSessionService
}

// NewSupplierAccountHandler creates a new SupplierAccountHandler
func NewSupplierAccountHandler(service *application.PaymentSessionService) *SupplierAccountHandler {
	return &SupplierAccountHandler{service: service}
}

// RegisterRoutes registers all supplier account routes
func (h *SupplierAccountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	suppliers := rg.Group("/suppliers")
	{
		suppliers.GET("/:id/payables", h.GetPayables)
	}
}

// GetPayables handles GET /suppliers/:id/payables
func (h *SupplierAccountHandler) GetPayables(c *gin.Context) {
	supplierAccountID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid supplier account ID")
		return
	}

	account, err := h.service.SupplierAccount(c.Request.Context(), supplierAccountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewSupplierAccountResponse(account))
}
