package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of account or session action being audited
type AuditAction string

const (
	AuditActionLoginSucceeded  AuditAction = "login_succeeded"
	AuditActionLoginRejected   AuditAction = "login_rejected"
	AuditActionLogout          AuditAction = "logout"
	AuditActionUserCreated     AuditAction = "user_created"
	AuditActionPasswordChanged AuditAction = "password_changed"
	AuditActionAccountToggled  AuditAction = "account_toggled"
)

// AuditEvent is one entry of the session and account audit trail.
// Passwords, hashes and tokens never appear in it.
type AuditEvent struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	Action    AuditAction     `json:"action" db:"action"`
	Source    string          `json:"source" db:"source"` // framework, custom, api or cli
	Email     string          `json:"email" db:"email"`
	UserID    string          `json:"user_id,omitempty" db:"user_id"`
	Details   json.RawMessage `json:"details,omitempty" db:"details"`
	IPAddress string          `json:"ip_address" db:"ip_address"`
	UserAgent string          `json:"user_agent" db:"user_agent"`
	RequestID string          `json:"request_id" db:"request_id"`
	Timestamp time.Time       `json:"timestamp" db:"timestamp"`
}

// TableName returns the table name for the AuditEvent model
func (AuditEvent) TableName() string {
	return "audit_events"
}

// NewAuditEvent creates a new AuditEvent instance
func NewAuditEvent(action AuditAction, source string) *AuditEvent {
	return &AuditEvent{
		ID:        uuid.New(),
		Action:    action,
		Source:    source,
		Details:   json.RawMessage(`{}`),
		Timestamp: time.Now().UTC(),
	}
}

// WithPrincipal sets the acting or affected account
func (e *AuditEvent) WithPrincipal(p Principal) *AuditEvent {
	e.UserID = p.ID
	e.Email = p.Email
	return e
}

// WithEmail sets the email an unauthenticated attempt was made for
func (e *AuditEvent) WithEmail(email string) *AuditEvent {
	e.Email = NormalizeEmail(email)
	return e
}

// WithDetails sets the details
func (e *AuditEvent) WithDetails(details interface{}) *AuditEvent {
	if data, err := json.Marshal(details); err == nil {
		e.Details = data
	}
	return e
}

// WithRequest sets request metadata
func (e *AuditEvent) WithRequest(requestID, ipAddress, userAgent string) *AuditEvent {
	e.RequestID = requestID
	e.IPAddress = ipAddress
	e.UserAgent = userAgent
	return e
}
