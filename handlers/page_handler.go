package handlers

import (
	"net/http"

	"github.com/upb/orderops/auth"
	"github.com/upb/orderops/internal/gateway"
	"github.com/upb/orderops/middleware"
	"github.com/upb/orderops/models"
	"github.com/upb/orderops/utils"
)

// PageResponse describes a page request that made it through the gateway.
// Page rendering belongs to the frontend; this is what it is handed.
type PageResponse struct {
	Path           string            `json:"path"`
	Classification string            `json:"classification"`
	User           *models.Principal `json:"user"`
	Role           models.Role       `json:"role"`
	Source         auth.Source       `json:"source"`
}

// PageHandler answers non-API paths after the gateway has let them through
type PageHandler struct {
	classifier *gateway.Classifier
}

// NewPageHandler creates a page stub handler
func NewPageHandler(classifier *gateway.Classifier) *PageHandler {
	return &PageHandler{classifier: classifier}
}

// HandlePage handles GET on any page path
func (h *PageHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	_ = utils.WriteOK(w, PageResponse{
		Path:           r.URL.Path,
		Classification: h.classifier.Classify(r.URL.Path).String(),
		User:           identity.Principal,
		Role:           identity.Role,
		Source:         identity.Source,
	})
}
