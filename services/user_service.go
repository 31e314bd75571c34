package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/upb/orderops/models"
	"github.com/upb/orderops/repositories"
	"github.com/upb/orderops/utils"
	"go.uber.org/zap"
)

// CreateUserInput is the input for provisioning an operator account
type CreateUserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required,role"`
	Image    string `json:"image" validate:"omitempty,url"`
}

// UserService provisions and maintains operator accounts
type UserService struct {
	users  repositories.UserRepository
	txMgr  repositories.TransactionManager
	hasher PasswordHasher
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(users repositories.UserRepository, txMgr repositories.TransactionManager, hasher PasswordHasher, logger *zap.Logger) *UserService {
	return &UserService{
		users:  users,
		txMgr:  txMgr,
		hasher: hasher,
		logger: logger,
	}
}

// Create validates the input, hashes the password and stores a new active account
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*models.User, error) {
	input.Email = models.NormalizeEmail(input.Email)
	input.Name = strings.TrimSpace(input.Name)

	if err := utils.ValidateStruct(&input); err != nil {
		domainErr := NewDomainError(ErrorTypeValidation, "invalid user input", err)
		for field, msg := range utils.GetValidationFields(err) {
			domainErr.Details[field] = msg
		}
		return nil, domainErr
	}

	role, _ := models.ParseRole(input.Role)

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, WrapInternal("failed to hash password", err)
	}

	user := models.NewUser(input.Email, input.Name, hash, role)
	user.Image = input.Image

	created, err := WithTransactionResult(ctx, s.txMgr, func(ctx context.Context, tx repositories.Transaction) (*models.User, error) {
		users := s.users.WithTx(tx)

		if _, err := users.GetByEmail(ctx, user.Email); err == nil {
			return nil, ErrDuplicateUser
		} else if !errors.Is(err, repositories.ErrUserNotFound) {
			return nil, WrapInternal("failed to check existing user", err)
		}

		if err := users.Create(ctx, user); err != nil {
			if errors.Is(err, repositories.ErrDuplicateEmail) {
				return nil, ErrDuplicateUser
			}
			return nil, WrapInternal("failed to create user", err)
		}
		return user, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		zap.String("user_id", created.ID.String()),
		zap.String("role", string(created.Role)),
	)
	return created, nil
}

// SetPassword replaces the password hash of the account registered under email
func (s *UserService) SetPassword(ctx context.Context, email, password string) error {
	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		return ErrMissingFields
	}
	if len(password) < 8 {
		return ErrInvalidInput.WithDetail("password", "password must be at least 8")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return WrapInternal("failed to hash password", err)
	}

	return WithTransaction(ctx, s.txMgr, func(ctx context.Context, tx repositories.Transaction) error {
		users := s.users.WithTx(tx)

		user, err := users.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return ErrUserNotFound
			}
			return WrapInternal("failed to load user", err)
		}

		user.PasswordHash = hash
		user.UpdatedAt = time.Now().UTC()
		if err := users.Update(ctx, user); err != nil {
			return WrapInternal("failed to update user", err)
		}
		return nil
	})
}

// SetActive enables or disables login for the account registered under email
func (s *UserService) SetActive(ctx context.Context, email string, active bool) error {
	email = models.NormalizeEmail(email)
	if email == "" {
		return ErrMissingFields
	}

	return WithTransaction(ctx, s.txMgr, func(ctx context.Context, tx repositories.Transaction) error {
		users := s.users.WithTx(tx)

		user, err := users.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return ErrUserNotFound
			}
			return WrapInternal("failed to load user", err)
		}

		user.Active = active
		user.UpdatedAt = time.Now().UTC()
		if err := users.Update(ctx, user); err != nil {
			return WrapInternal("failed to update user", err)
		}
		return nil
	})
}
