package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/orderops/models"
	"github.com/upb/orderops/services"
	"go.uber.org/zap"
)

// MockUserCreator is a mock implementation of UserCreator
type MockUserCreator struct {
	mock.Mock
}

// MockEventRecorder is a mock implementation of auth.EventRecorder
type MockEventRecorder struct {
	mock.Mock
}

func (m *MockEventRecorder) Record(event *models.AuditEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockUserCreator) Create(ctx context.Context, input services.CreateUserInput) (*models.User, error) {
	args := m.Called(ctx, input)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestUserHandler_HandleCreate(t *testing.T) {
	body := `{"email":"ana@example.com","name":"Ana","password":"s3cretpass","role":"SHIPPING_STAFF"}`
	input := services.CreateUserInput{Email: "ana@example.com", Name: "Ana", Password: "s3cretpass", Role: "SHIPPING_STAFF"}

	tests := []struct {
		name       string
		body       string
		setup      func(m *MockUserCreator)
		wantStatus int
	}{
		{
			name: "created",
			body: body,
			setup: func(m *MockUserCreator) {
				m.On("Create", mock.Anything, input).
					Return(models.NewUser("ana@example.com", "Ana", "hash", models.RoleShippingStaff), nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "duplicate email",
			body: body,
			setup: func(m *MockUserCreator) {
				m.On("Create", mock.Anything, input).Return(nil, services.ErrDuplicateUser)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "invalid role",
			body: body,
			setup: func(m *MockUserCreator) {
				m.On("Create", mock.Anything, input).Return(nil, services.ErrInvalidRole)
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			body:       `{"email":`,
			setup:      func(m *MockUserCreator) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creator := new(MockUserCreator)
			tt.setup(creator)
			handler := NewUserHandler(creator, nil, zap.NewNop())

			w := httptest.NewRecorder()
			handler.HandleCreate(w, httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, w.Code)
			creator.AssertExpectations(t)
		})
	}
}

func TestUserHandler_HandleCreate_NeverReturnsHash(t *testing.T) {
	creator := new(MockUserCreator)
	creator.On("Create", mock.Anything, mock.Anything).
		Return(models.NewUser("ana@example.com", "Ana", "$2a$10$secrethash", models.RoleAdmin), nil)

	w := httptest.NewRecorder()
	NewUserHandler(creator, nil, zap.NewNop()).HandleCreate(w, httptest.NewRequest(http.MethodPost, "/api/users",
		strings.NewReader(`{"email":"ana@example.com","name":"Ana","password":"s3cretpass","role":"ADMIN"}`)))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "secrethash")

	var response struct {
		Data models.Principal `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "ana@example.com", response.Data.Email)
	assert.Equal(t, models.RoleAdmin, response.Data.Role)
}

func TestUserHandler_HandleCreate_RecordsAuditEvent(t *testing.T) {
	created := models.NewUser("luis@example.com", "Luis", "hash", models.RoleProductionStaff)

	creator := new(MockUserCreator)
	creator.On("Create", mock.Anything, mock.Anything).Return(created, nil)

	recorder := new(MockEventRecorder)
	recorder.On("Record", mock.MatchedBy(func(e *models.AuditEvent) bool {
		return e.Action == models.AuditActionUserCreated &&
			e.Source == "api" &&
			e.UserID == created.ID.String() &&
			e.Email == "luis@example.com"
	})).Return(nil)

	req := requestAs(http.MethodPost, "/api/users", models.RoleSuperAdmin)
	req.Body = io.NopCloser(strings.NewReader(`{"email":"luis@example.com","name":"Luis","password":"s3cretpass","role":"PRODUCTION_STAFF"}`))
	w := httptest.NewRecorder()
	NewUserHandler(creator, recorder, zap.NewNop()).HandleCreate(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	recorder.AssertExpectations(t)

	var details map[string]string
	require.NoError(t, json.Unmarshal(recorder.Calls[0].Arguments.Get(0).(*models.AuditEvent).Details, &details))
	assert.Equal(t, "PRODUCTION_STAFF", details["role"])
	assert.Equal(t, "olga@example.com", details["created_by"])
	assert.NotContains(t, string(recorder.Calls[0].Arguments.Get(0).(*models.AuditEvent).Details), "s3cretpass")
}

func TestUserHandler_HandleCreate_FailureIsNotAudited(t *testing.T) {
	creator := new(MockUserCreator)
	creator.On("Create", mock.Anything, mock.Anything).Return(nil, services.ErrDuplicateUser)
	recorder := new(MockEventRecorder)

	w := httptest.NewRecorder()
	NewUserHandler(creator, recorder, zap.NewNop()).HandleCreate(w, httptest.NewRequest(http.MethodPost, "/api/users",
		strings.NewReader(`{"email":"ana@example.com","name":"Ana","password":"s3cretpass","role":"ADMIN"}`)))

	assert.Equal(t, http.StatusConflict, w.Code)
	recorder.AssertNotCalled(t, "Record", mock.Anything)
}
