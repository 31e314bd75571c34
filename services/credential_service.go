package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/upb/orderops/models"
	"github.com/upb/orderops/repositories"
	"go.uber.org/zap"
)

// CredentialService verifies email/password pairs against the credential store
type CredentialService struct {
	users  repositories.UserRepository
	hasher PasswordHasher
	logger *zap.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewCredentialService creates a new credential verifier
func NewCredentialService(users repositories.UserRepository, hasher PasswordHasher, logger *zap.Logger) *CredentialService {
	return &CredentialService{
		users:  users,
		hasher: hasher,
		logger: logger,
	}
}

// Verify returns the principal for a matching email/password pair.
// Unknown email, wrong password and inactive account all return ErrInvalidCredentials.
func (s *CredentialService) Verify(ctx context.Context, email, password string) (models.Principal, error) {
	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		return models.Principal{}, ErrMissingFields
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			// Burn a comparison so response time does not reveal whether the account exists
			_ = s.hasher.Compare(s.timingHash(), password)
			return models.Principal{}, ErrInvalidCredentials
		}
		s.logger.Error("credential lookup failed", zap.Error(err))
		return models.Principal{}, WrapInternal("credential lookup failed", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return models.Principal{}, ErrInvalidCredentials
	}

	if !user.Active || !user.Role.IsPersisted() {
		s.logger.Info("login rejected for disabled account", zap.String("user_id", user.ID.String()))
		return models.Principal{}, ErrInvalidCredentials
	}

	return user.Principal(), nil
}

func (s *CredentialService) timingHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(strings.Repeat("x", 16))
		if err == nil {
			s.dummyHash = hash
		}
	})
	return s.dummyHash
}
