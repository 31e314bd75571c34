package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/upb/orderops/auth"
	"github.com/upb/orderops/middleware"
	"github.com/upb/orderops/models"
	"github.com/upb/orderops/services"
	"github.com/upb/orderops/utils"
	"go.uber.org/zap"
)

// UserCreator provisions operator accounts
type UserCreator interface {
	Create(ctx context.Context, input services.CreateUserInput) (*models.User, error)
}

// UserHandler handles operator account administration
type UserHandler struct {
	users  UserCreator
	audit  auth.EventRecorder
	logger *zap.Logger
}

// NewUserHandler creates a new UserHandler. audit may be nil.
func NewUserHandler(users UserCreator, audit auth.EventRecorder, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		audit:  audit,
		logger: logger,
	}
}

// HandleCreate handles POST /api/users
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input services.CreateUserInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	user, err := h.users.Create(r.Context(), input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	if h.audit != nil {
		details := map[string]string{"role": string(user.Role)}
		if actor := middleware.PrincipalFromContext(r.Context()); actor != nil {
			details["created_by"] = actor.Email
		}
		event := models.NewAuditEvent(models.AuditActionUserCreated, "api").
			WithPrincipal(user.Principal()).
			WithDetails(details).
			WithRequest(chimw.GetReqID(r.Context()), r.RemoteAddr, r.UserAgent())
		_ = h.audit.Record(event)
	}

	_ = utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse{Data: user.Principal()})
}
