package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/upb/orderops/models"
	"github.com/upb/orderops/services"
	"github.com/upb/orderops/utils"
	"go.uber.org/zap"
)

// maxLoginBody caps the login request body
const maxLoginBody = 1 << 16

// LoginRequest is the body accepted by both login endpoints
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserResponse wraps the principal returned by login and session queries
type UserResponse struct {
	User *models.Principal `json:"user"`
}

// EventRecorder receives audit events. Record must not block.
type EventRecorder interface {
	Record(event *models.AuditEvent) error
}

// Handler serves the login, session and logout endpoints
type Handler struct {
	issuer   *Issuer
	resolver *Resolver
	audit    EventRecorder
	logger   *zap.Logger
}

// NewHandler creates a new auth handler. audit may be nil.
func NewHandler(issuer *Issuer, resolver *Resolver, audit EventRecorder, logger *zap.Logger) *Handler {
	return &Handler{
		issuer:   issuer,
		resolver: resolver,
		audit:    audit,
		logger:   logger,
	}
}

// HandleLogin returns the login handler for one issuance path.
// It sets only that path's cookie and never touches the other one.
func (h *Handler) HandleLogin(path IssuancePath) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLoginBody)).Decode(&req); err != nil {
			h.issuer.RejectMalformed(path)
			_ = utils.WriteErrorMessage(w, http.StatusBadRequest, services.ErrMissingFields.Message)
			return
		}
		req.Email = strings.TrimSpace(req.Email)
		if err := utils.ValidateStruct(&req); err != nil {
			h.issuer.RejectMalformed(path)
			_ = utils.WriteErrorMessage(w, http.StatusBadRequest, services.ErrMissingFields.Message)
			return
		}

		cookie, principal, err := h.issuer.Issue(r.Context(), path, req.Email, req.Password)
		if err != nil {
			switch {
			case services.IsMissingFieldsError(err):
				_ = utils.WriteErrorMessage(w, http.StatusBadRequest, services.ErrMissingFields.Message)
			case services.IsInvalidCredentialsError(err):
				h.logger.Info("login rejected", zap.String("source", string(path.Source)))
				h.record(r, models.NewAuditEvent(models.AuditActionLoginRejected, string(path.Source)).
					WithEmail(req.Email).
					WithDetails(map[string]string{"reason": string(services.ErrorTypeInvalidCredentials)}))
				_ = utils.WriteErrorMessage(w, http.StatusUnauthorized, services.ErrInvalidCredentials.Message)
			default:
				// Internal failures are logged but answered like a rejected login
				h.logger.Error("login failed", zap.String("source", string(path.Source)), zap.Error(err))
				h.record(r, models.NewAuditEvent(models.AuditActionLoginRejected, string(path.Source)).
					WithEmail(req.Email).
					WithDetails(map[string]string{"reason": string(services.ErrorTypeInternal)}))
				_ = utils.WriteErrorMessage(w, http.StatusUnauthorized, services.ErrInvalidCredentials.Message)
			}
			return
		}

		h.record(r, models.NewAuditEvent(models.AuditActionLoginSucceeded, string(path.Source)).
			WithPrincipal(principal).
			WithDetails(map[string]string{"role": string(principal.Role)}))
		http.SetCookie(w, cookie)
		_ = utils.WriteJSON(w, http.StatusOK, UserResponse{User: &principal})
	}
}

// HandleSession reports the current session. It always answers 200; an
// absent or invalid session is {"user": null}.
func (h *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	identity := h.resolver.Resolve(r)
	_ = utils.WriteJSON(w, http.StatusOK, UserResponse{User: identity.Principal})
}

// HandleLogout deletes both session cookies unconditionally
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if identity := h.resolver.Resolve(r); identity.Authenticated() {
		h.record(r, models.NewAuditEvent(models.AuditActionLogout, string(identity.Source)).
			WithPrincipal(*identity.Principal))
	}
	for _, c := range h.issuer.ClearCookies() {
		http.SetCookie(w, c)
	}
	_ = utils.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) record(r *http.Request, event *models.AuditEvent) {
	if h.audit == nil {
		return
	}
	event.WithRequest(chimw.GetReqID(r.Context()), r.RemoteAddr, r.UserAgent())
	// Drops are logged by the recorder
	_ = h.audit.Record(event)
}
