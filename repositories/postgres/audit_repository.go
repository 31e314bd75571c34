package postgres

import (
	"context"
	"fmt"

	"github.com/upb/orderops/models"
	"github.com/upb/orderops/repositories"
	"go.uber.org/zap"
)

const auditColumns = `id, action, source, email, user_id, details, ip_address, user_agent, request_id, timestamp`

// MaxAuditPage caps ListRecent
const MaxAuditPage = 500

// AuditRepository implements the repositories.AuditRepository interface
type AuditRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *DB, logger *zap.Logger) repositories.AuditRepository {
	return &AuditRepository{
		db:     db,
		logger: logger,
	}
}

// Insert appends an audit event
func (r *AuditRepository) Insert(ctx context.Context, event *models.AuditEvent) error {
	query := `
		INSERT INTO audit_events (` + auditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	details := event.Details
	if len(details) == 0 {
		details = []byte(`{}`)
	}

	_, err := executorFor(ctx, r.db, nil).ExecContext(ctx, query,
		event.ID,
		event.Action,
		event.Source,
		event.Email,
		event.UserID,
		[]byte(details),
		event.IPAddress,
		event.UserAgent,
		event.RequestID,
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit event: %w", err)
	}

	r.logger.Debug("audit event inserted", zap.String("id", event.ID.String()), zap.String("action", string(event.Action)))
	return nil
}

// ListRecent returns up to limit events, newest first. An empty email lists all accounts.
func (r *AuditRepository) ListRecent(ctx context.Context, email string, limit int) ([]*models.AuditEvent, error) {
	if limit <= 0 || limit > MaxAuditPage {
		limit = MaxAuditPage
	}

	query := `SELECT ` + auditColumns + ` FROM audit_events`
	args := []interface{}{}
	if email != "" {
		query += ` WHERE email = $1`
		args = append(args, models.NormalizeEmail(email))
	}
	query += fmt.Sprintf(` ORDER BY timestamp DESC LIMIT %d`, limit)

	rows, err := executorFor(ctx, r.db, nil).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events: %w", err)
	}
	defer rows.Close()

	events := []*models.AuditEvent{}
	for rows.Next() {
		event := &models.AuditEvent{}
		var details []byte
		err := rows.Scan(
			&event.ID,
			&event.Action,
			&event.Source,
			&event.Email,
			&event.UserID,
			&details,
			&event.IPAddress,
			&event.UserAgent,
			&event.RequestID,
			&event.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		event.Details = details
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit event rows: %w", err)
	}

	return events, nil
}
