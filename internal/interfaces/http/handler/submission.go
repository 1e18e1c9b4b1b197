package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/johnkamauwamunga/energy-erp-sub007/internal/domain/payables"
	"github.com/johnkamauwamunga/energy-erp-sub007/internal/interfaces/http/dto"
)

// SubmissionReader lists persisted submission attempts for auditing
type SubmissionReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*payables.SubmissionRecord, error)
	FindBySession(ctx context.Context, sessionID uuid.UUID) ([]payables.SubmissionRecord, error)
	FindBySupplier(ctx context.Context, supplierAccountID uuid.UUID, limit int) ([]payables.SubmissionRecord, error)
}

const defaultSubmissionLimit = 50

// SubmissionHandler serves the submission audit trail
type SubmissionHandler struct {
	BaseHandler
	reader SubmissionReader
}

// NewSubmissionHandler creates a new SubmissionHandler
func NewSubmissionHandler(reader SubmissionReader) *SubmissionHandler {
	return &SubmissionHandler{reader: reader}
}

// RegisterRoutes registers all submission audit routes
func (h *SubmissionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/submissions/:id", h.Get)
	rg.GET("/payment-sessions/:id/submissions", h.ListBySession)
	rg.GET("/suppliers/:id/submissions", h.ListBySupplier)
}

// Get handles GET /submissions/:id
func (h *SubmissionHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid submission ID")
		return
	}

	record, err := h.reader.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if record == nil {
		h.NotFound(c, "Submission record not found")
		return
	}
	h.Success(c, dto.NewSubmissionRecordResponse(record))
}

// ListBySession handles GET /payment-sessions/:id/submissions
func (h *SubmissionHandler) ListBySession(c *gin.Context) {
	sessionID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	records, err := h.reader.FindBySession(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, submissionResponses(records))
}

// ListBySupplier handles GET /suppliers/:id/submissions
func (h *SubmissionHandler) ListBySupplier(c *gin.Context) {
	supplierAccountID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid supplier account ID")
		return
	}

	limit := defaultSubmissionLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			h.BadRequest(c, "limit must be an integer between 1 and 500")
			return
		}
		limit = parsed
	}

	records, err := h.reader.FindBySupplier(c.Request.Context(), supplierAccountID, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, submissionResponses(records))
}

func submissionResponses(records []payables.SubmissionRecord) []dto.SubmissionRecordResponse {
	out := make([]dto.SubmissionRecordResponse, 0, len(records))
	for i := range records {
		out = append(out, dto.NewSubmissionRecordResponse(&records[i]))
	}
	return out
}
