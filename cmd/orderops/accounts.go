package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/upb/orderops/app"
	"github.com/upb/orderops/config"
	"github.com/upb/orderops/internal/observability"
	"github.com/upb/orderops/models"
	"github.com/upb/orderops/services"
	"golang.org/x/crypto/bcrypt"
)

// accountAdmin is the slice of UserService the account commands need
type accountAdmin interface {
	Create(ctx context.Context, input services.CreateUserInput) (*models.User, error)
	SetPassword(ctx context.Context, email, password string) error
	SetActive(ctx context.Context, email string, active bool) error
}

// openAccountAdmin connects to the credential store. Tests replace it.
var openAccountAdmin = func(ctx context.Context) (accountAdmin, func(), error) {
	cfg, err := config.New(ctx)
	if err != nil {
		return nil, nil, err
	}
	logger, err := observability.NewLogger(cfg.Observability)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	deps, err := app.NewDependencies(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	admin := &auditedAccounts{admin: deps.UserService, audit: deps.Audit}
	return admin, func() { _ = deps.Close(context.Background()) }, nil
}

// hashPasswordConfig holds configuration for the hash-password command.
type hashPasswordConfig struct {
	password string
	cost     int
}

func newHashPasswordCmd() *cobra.Command {
	cfg := &hashPasswordConfig{}

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print a bcrypt hash for a password",
		Long: `Print a bcrypt hash suitable for the users.password_hash column.
The password is read from --password or, when omitted, from the first line of stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := passwordFrom(cfg.password, cmd.InOrStdin())
			if err != nil {
				return err
			}
			hash, err := services.NewBcryptHasher(cfg.cost).Hash(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.password, "password", "", "password to hash (read from stdin when empty)")
	cmd.Flags().IntVar(&cfg.cost, "cost", bcrypt.DefaultCost, "bcrypt cost")

	return cmd
}

// createUserConfig holds configuration for the create-user command.
type createUserConfig struct {
	email    string
	name     string
	password string
	role     string
	image    string
}

func newCreateUserCmd() *cobra.Command {
	cfg := &createUserConfig{}

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Provision an operator account",
		Long: fmt.Sprintf(`Provision an active operator account in the credential store.
Roles: %s.`, roleList()),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := passwordFrom(cfg.password, cmd.InOrStdin())
			if err != nil {
				return err
			}

			admin, closeFn, err := openAccountAdmin(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			user, err := admin.Create(cmd.Context(), services.CreateUserInput{
				Email:    cfg.email,
				Name:     cfg.name,
				Password: password,
				Role:     strings.ToUpper(cfg.role),
				Image:    cfg.image,
			})
			if err != nil {
				return describeAccountError(err)
			}

			cmd.Printf("created %s (%s) id=%s\n", user.Email, user.Role, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.email, "email", "", "account email")
	cmd.Flags().StringVar(&cfg.name, "name", "", "display name")
	cmd.Flags().StringVar(&cfg.password, "password", "", "password (read from stdin when empty)")
	cmd.Flags().StringVar(&cfg.role, "role", string(models.RoleReadOnly), "account role")
	cmd.Flags().StringVar(&cfg.image, "image", "", "avatar URL")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newSetPasswordCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "set-password",
		Short: "Replace the password of an operator account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pw, err := passwordFrom(password, cmd.InOrStdin())
			if err != nil {
				return err
			}

			admin, closeFn, err := openAccountAdmin(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			if err := admin.SetPassword(cmd.Context(), email, pw); err != nil {
				return describeAccountError(err)
			}
			cmd.Printf("password updated for %s\n", models.NormalizeEmail(email))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "new password (read from stdin when empty)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newSetActiveCmd() *cobra.Command {
	var email string
	var active bool

	cmd := &cobra.Command{
		Use:   "set-active",
		Short: "Enable or disable an operator account",
		Long:  `Enable or disable an operator account. Disabled accounts cannot log in on either path.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			admin, closeFn, err := openAccountAdmin(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			if err := admin.SetActive(cmd.Context(), email, active); err != nil {
				return describeAccountError(err)
			}
			cmd.Printf("%s active=%t\n", models.NormalizeEmail(email), active)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().BoolVar(&active, "active", true, "whether the account may log in")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// passwordFrom returns flag when set, otherwise the first line of in
func passwordFrom(flag string, in io.Reader) (string, error) {
	if flag != "" {
		return flag, nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password is required")
	}
	return password, nil
}

// describeAccountError turns service errors into a message fit for a terminal
func describeAccountError(err error) error {
	details := services.GetErrorDetails(err)
	if len(details) == 0 {
		return err
	}
	parts := make([]string, 0, len(details))
	for field, msg := range details {
		parts = append(parts, fmt.Sprintf("%s: %v", field, msg))
	}
	return fmt.Errorf("%w [%s]", err, strings.Join(parts, "; "))
}

func roleList() string {
	names := make([]string, len(models.PersistedRoles))
	for i, r := range models.PersistedRoles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}
