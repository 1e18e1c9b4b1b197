package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	application "github.com/johnkamauwamunga/energy-erp-sub007/internal/application/payables"
	"github.com/johnkamauwamunga/energy-erp-sub007/internal/domain/payables"
	"github.com/johnkamauwamunga/energy-erp-sub007/internal/interfaces/http/dto"
	"github.com/johnkamauwamunga/energy-erp-sub007/internal/interfaces/http/middleware"
)

// PaymentSessionHandler handles payment session endpoints
type PaymentSessionHandler struct {
	BaseHandler
	service *application.PaymentSessionService
}

// NewPaymentSessionHandler creates a new PaymentSessionHandler
func NewPaymentSessionHandler(service *application.PaymentSessionService) *PaymentSessionHandler {
	return &PaymentSessionHandler{service: service}
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// RegisterRoutes registers all payment session routes
func (h *PaymentSessionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sessions := rg.Group("/payment-sessions")
	{
		sessions.POST("", h.Open)
		sessions.GET("/:id", h.Get)
		sessions.PUT("/:id/details", h.UpdateDetails)
		sessions.POST("/:id/auto-allocate", h.AutoAllocate)
		sessions.PUT("/:id/allocations/:invoiceId", h.SetAllocation)
		sessions.DELETE("/:id/allocations/:invoiceId", h.RemoveAllocation)
		sessions.POST("/:id/review", h.Review)
		sessions.POST("/:id/back", h.Back)
		sessions.POST("/:id/submit", h.Submit)
		sessions.POST("/:id/retry", h.Retry)
		sessions.POST("/:id/cancel", h.Cancel)
	}
}

// Open handles POST /payment-sessions
func (h *PaymentSessionHandler) Open(c *gin.Context) {
	var req dto.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	session, err := h.service.Open(c.Request.Context(), req.SupplierAccountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.NewSessionResponse(session))
}

// Get handles GET /payment-sessions/:id
func (h *PaymentSessionHandler) Get(c *gin.Context) {
	sessionID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	session, err := h.service.Get(sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewSessionResponse(session))
}

// UpdateDetails handles PUT /payment-sessions/:id/details
func (h *PaymentSessionHandler) UpdateDetails(c *gin.Context) {
	sessionID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	var req dto.UpdateDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	session, err := h.service.UpdateDetails(sessionID, application.UpdateDetailsInput{
		PaymentAmount: req.PaymentAmount,
		PaymentMethod: payables.PaymentMethod(req.PaymentMethod),
		MethodDetail: payables.MethodDetail{
			StationID:     req.StationID,
			BankAccountID: req.BankAccountID,
		},
		Description: req.Description,
		Reference:   req.Reference,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewSessionResponse(session))
}

// AutoAllocate handles POST /payment-sessions/:id/auto-allocate
func (h *PaymentSessionHandler) AutoAllocate(c *gin.Context) {
	sessionID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	session, leftover, err := h.service.AutoAllocate(sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.AutoAllocateResponse{
		Session:  dto.NewSessionResponse(session),
		Leftover: leftover,
	})
}

// SetAllocation handles PUT /payment-sessions/:id/allocations/:invoiceId
func (h *PaymentSessionHandler) SetAllocation(c *gin.Context) {
	sessionID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid session ID")
		return
	}
	invoiceID, ok := parseUUIDParam(c, "invoiceId")
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req dto.SetAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	// The stored amount may be clamped below the requested one, so the
	// response carries the whole session rather than echoing the input.
	if _, err := h.service.SetAllocation(sessionID, invoiceID, req.Amount); err != nil {
		h.HandleError(c, err)
		return
	}
	session, err := h.service.Get(sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewSessionResponse(session))
}

// RemoveAllocation handles DELETE /payment-sessions/:id/allocations/:invoiceId
func (h *PaymentSessionHandler) RemoveAllocation(c *gin.Context) {
	sessionID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid session ID")
		return
	}
	invoiceID, ok := parseUUIDParam(c, "invoiceId")
	if !ok {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	if err := h.service.RemoveAllocation(sessionID, invoiceID); err != nil {
		h.HandleError(c, err)
		return
	}
	session, err := h.service.Get(sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewSessionResponse(session))
}

// Review handles POST /payment-sessions/:id/review
func (h *PaymentSessionHandler) Review(c *gin.Context) {
	sessionID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	session, err := h.service.Review(sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewSessionResponse(session))
}

// Back handles POST /payment-sessions/:id/back
func (h *PaymentSessionHandler) Back(c *gin.Context) {
	sessionID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	session, err := h.service.Back(sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewSessionResponse(session))
}

// Submit handles POST /payment-sessions/:id/submit. On failure the session
// lands in FAILED and the error response carries the underlying cause;
// clients re-fetch the session to show the failed state.
func (h *PaymentSessionHandler) Submit(c *gin.Context) {
	sessionID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	session, err := h.service.Submit(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewSessionResponse(session))
}

// Retry handles POST /payment-sessions/:id/retry
func (h *PaymentSessionHandler) Retry(c *gin.Context) {
	sessionID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	session, err := h.service.Retry(sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewSessionResponse(session))
}

// Cancel handles POST /payment-sessions/:id/cancel
func (h *PaymentSessionHandler) Cancel(c *gin.Context) {
	sessionID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	session, err := h.service.Cancel(sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewSessionResponse(session))
}
