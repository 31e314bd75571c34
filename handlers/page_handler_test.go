package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/orderops/internal/gateway"
	"github.com/upb/orderops/models"
)

func TestHandlePage(t *testing.T) {
	handler := NewPageHandler(gateway.NewClassifier(gateway.DefaultRules))

	tests := []struct {
		name               string
		path               string
		role               models.Role
		wantClassification string
		wantUser           bool
	}{
		{"protected page with session", "/orders/42", models.RoleAdmin, "ProtectedPath", true},
		{"public page as guest", "/login", models.RoleGuest, "PublicPath", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.HandlePage(w, requestAs(http.MethodGet, tt.path, tt.role))

			assert.Equal(t, http.StatusOK, w.Code)
			var response struct {
				Data PageResponse `json:"data"`
			}
			require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
			assert.Equal(t, tt.path, response.Data.Path)
			assert.Equal(t, tt.wantClassification, response.Data.Classification)
			assert.Equal(t, tt.role, response.Data.Role)
			assert.Equal(t, tt.wantUser, response.Data.User != nil)
		})
	}
}
