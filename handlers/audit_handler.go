package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/upb/orderops/models"
	"github.com/upb/orderops/utils"
	"go.uber.org/zap"
)

const defaultAuditLimit = 50

// AuditReader lists recorded audit events
type AuditReader interface {
	Recent(ctx context.Context, email string, limit int) ([]*models.AuditEvent, error)
}

// AuditHandler exposes the session and account audit trail to administrators
type AuditHandler struct {
	events AuditReader
	logger *zap.Logger
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(events AuditReader, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		events: events,
		logger: logger,
	}
}

type auditQuery struct {
	Email string `json:"email" validate:"omitempty,email"`
	Limit int    `json:"limit" validate:"min=1,max=500"`
}

// HandleList handles GET /api/audit/events?email=&limit=
func (h *AuditHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	query := auditQuery{
		Email: r.URL.Query().Get("email"),
		Limit: defaultAuditLimit,
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			_ = utils.WriteBadRequest(w, "limit must be a number", nil)
			return
		}
		query.Limit = limit
	}
	if err := utils.ValidateStruct(&query); err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}

	events, err := h.events.Recent(r.Context(), query.Email, query.Limit)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, events)
}
