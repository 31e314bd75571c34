package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/orderops/models"
	"github.com/upb/orderops/services"
	"go.uber.org/zap"
)

// MockAuditReader is a mock implementation of AuditReader
type MockAuditReader struct {
	mock.Mock
}

func (m *MockAuditReader) Recent(ctx context.Context, email string, limit int) ([]*models.AuditEvent, error) {
	args := m.Called(ctx, email, limit)
	if events := args.Get(0); events != nil {
		return events.([]*models.AuditEvent), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestAuditHandler_HandleList(t *testing.T) {
	event := models.NewAuditEvent(models.AuditActionLoginRejected, "custom").WithEmail("ana@example.com")

	tests := []struct {
		name       string
		query      string
		setup      func(m *MockAuditReader)
		wantStatus int
		wantCount  int
	}{
		{
			name:  "default limit",
			query: "",
			setup: func(m *MockAuditReader) {
				m.On("Recent", mock.Anything, "", defaultAuditLimit).Return([]*models.AuditEvent{event}, nil)
			},
			wantStatus: http.StatusOK,
			wantCount:  1,
		},
		{
			name:  "filtered by email",
			query: "?email=ana@example.com&limit=10",
			setup: func(m *MockAuditReader) {
				m.On("Recent", mock.Anything, "ana@example.com", 10).Return([]*models.AuditEvent{event}, nil)
			},
			wantStatus: http.StatusOK,
			wantCount:  1,
		},
		{
			name:  "no events",
			query: "?limit=5",
			setup: func(m *MockAuditReader) {
				m.On("Recent", mock.Anything, "", 5).Return([]*models.AuditEvent{}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "non numeric limit",
			query:      "?limit=many",
			setup:      func(m *MockAuditReader) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "limit over the page cap",
			query:      "?limit=501",
			setup:      func(m *MockAuditReader) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid email",
			query:      "?email=not-an-email",
			setup:      func(m *MockAuditReader) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:  "store failure",
			query: "",
			setup: func(m *MockAuditReader) {
				m.On("Recent", mock.Anything, "", defaultAuditLimit).
					Return(nil, services.WrapInternal("failed to list audit events", errors.New("timeout")))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := new(MockAuditReader)
			tt.setup(reader)

			w := httptest.NewRecorder()
			NewAuditHandler(reader, zap.NewNop()).HandleList(w, httptest.NewRequest(http.MethodGet, "/api/audit/events"+tt.query, nil))

			require.Equal(t, tt.wantStatus, w.Code)
			reader.AssertExpectations(t)

			if tt.wantStatus == http.StatusOK {
				var response struct {
					Data []models.AuditEvent `json:"data"`
				}
				require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
				assert.Len(t, response.Data, tt.wantCount)
			}
		})
	}
}

func TestAuditHandler_ValidationNamesQueryKeys(t *testing.T) {
	w := httptest.NewRecorder()
	NewAuditHandler(new(MockAuditReader), zap.NewNop()).
		HandleList(w, httptest.NewRequest(http.MethodGet, "/api/audit/events?limit=0", nil))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"limit"`)
}
