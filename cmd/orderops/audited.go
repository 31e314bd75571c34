package main

import (
	"context"
	"os"

	"github.com/upb/orderops/auth"
	"github.com/upb/orderops/models"
	"github.com/upb/orderops/services"
)

const cliSource = "cli"

// auditedAccounts records every successful account change made from the command line
type auditedAccounts struct {
	admin accountAdmin
	audit auth.EventRecorder
}

func (a *auditedAccounts) Create(ctx context.Context, input services.CreateUserInput) (*models.User, error) {
	user, err := a.admin.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	a.record(models.NewAuditEvent(models.AuditActionUserCreated, cliSource).
		WithPrincipal(user.Principal()).
		WithDetails(map[string]string{"role": string(user.Role)}))
	return user, nil
}

func (a *auditedAccounts) SetPassword(ctx context.Context, email, password string) error {
	if err := a.admin.SetPassword(ctx, email, password); err != nil {
		return err
	}
	a.record(models.NewAuditEvent(models.AuditActionPasswordChanged, cliSource).WithEmail(email))
	return nil
}

func (a *auditedAccounts) SetActive(ctx context.Context, email string, active bool) error {
	if err := a.admin.SetActive(ctx, email, active); err != nil {
		return err
	}
	a.record(models.NewAuditEvent(models.AuditActionAccountToggled, cliSource).
		WithEmail(email).
		WithDetails(map[string]bool{"active": active}))
	return nil
}

func (a *auditedAccounts) record(event *models.AuditEvent) {
	host, _ := os.Hostname()
	event.WithRequest("", host, "orderops-cli")
	_ = a.audit.Record(event)
}
