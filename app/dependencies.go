package app

import (
	"context"
	"fmt"
	"time"

	"github.com/upb/orderops/auth"
	"github.com/upb/orderops/config"
	"github.com/upb/orderops/handlers"
	"github.com/upb/orderops/internal/gateway"
	"github.com/upb/orderops/internal/observability"
	"github.com/upb/orderops/middleware"
	"github.com/upb/orderops/repositories"
	"github.com/upb/orderops/repositories/postgres"
	"github.com/upb/orderops/services"
	"github.com/upb/orderops/services/audit"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config  *config.Config
	DB      *postgres.DB
	Logger  *zap.Logger
	Metrics *observability.Metrics

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Users       repositories.UserRepository
	AuditEvents repositories.AuditRepository
	TxManager   repositories.TransactionManager

	// Services
	Hasher      services.PasswordHasher
	Credentials *services.CredentialService
	UserService *services.UserService
	Audit       *audit.Service

	// Session
	Secrets    *auth.SecretProvider
	Codec      *auth.Codec
	Issuer     *auth.Issuer
	Resolver   *auth.Resolver
	Classifier *gateway.Classifier

	// HTTP
	Gateway       *middleware.Gateway
	APIAuth       *middleware.APIAuth
	AuthHandler   *auth.Handler
	AuditHandler  *handlers.AuditHandler
	HealthHandler *handlers.HealthHandler
	PageHandler   *handlers.PageHandler
	UserHandler   *handlers.UserHandler
}

// NewDependencies opens the credential store and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	factory, err := postgres.NewRepositoryFactory(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps, err := NewDependenciesWithFactory(ctx, cfg, factory, logger)
	if err != nil {
		_ = factory.Close()
		return nil, err
	}
	return deps, nil
}

// NewDependenciesWithFactory wires dependencies over an already opened repository factory
func NewDependenciesWithFactory(ctx context.Context, cfg *config.Config, factory *postgres.RepositoryFactory, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:      cfg,
		Logger:      logger,
		Metrics:     observability.NewMetrics(),
		RepoFactory: factory,
		DB:          factory.GetDB(),
	}

	if err := factory.InitSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps.initRepositories()
	if err := deps.initServices(cfg); err != nil {
		return nil, err
	}
	deps.initSession(cfg)
	deps.initHTTP(cfg)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() {
	repos := d.RepoFactory.NewRepositories()

	d.Users = repos.Users
	d.AuditEvents = repos.AuditEvents
	d.TxManager = d.RepoFactory.GetTransactionManager()

	d.Logger.Info("repositories initialized")
}

func (d *Dependencies) initServices(cfg *config.Config) error {
	d.Hasher = services.NewBcryptHasher(cfg.Auth.BcryptCost)
	d.Credentials = services.NewCredentialService(d.Users, d.Hasher, d.Logger)
	d.UserService = services.NewUserService(d.Users, d.TxManager, d.Hasher, d.Logger)

	// A stopped audit service rejects events, so it stays safe to hand out when disabled
	d.Audit = audit.NewService(d.AuditEvents, d.Logger, audit.Config{
		BufferSize:  cfg.Audit.BufferSize,
		WorkerCount: cfg.Audit.Workers,
	})
	if cfg.Audit.Enabled {
		if err := d.Audit.Start(); err != nil {
			return fmt.Errorf("failed to start audit service: %w", err)
		}
	}
	return nil
}

// initSession builds the secret, codec, both issuance paths and the resolver.
// The framework path is consulted first when both cookies are present.
func (d *Dependencies) initSession(cfg *config.Config) {
	d.Secrets = auth.NewSecretProvider(cfg.Auth.Secret, d.Logger)
	if d.Secrets.IsFallback() {
		// Surface the fallback at startup rather than on the first request
		_ = d.Secrets.Secret()
	}

	d.Codec = auth.NewCodec(d.Secrets)
	d.Issuer = auth.NewIssuer(d.Credentials, d.Codec, cfg.Auth, cfg.IsProduction(), d.Metrics, d.Logger)
	d.Resolver = auth.NewResolver(d.Codec, auth.FrameworkPath(cfg.Auth), auth.CustomPath(cfg.Auth), d.Metrics, d.Logger)
	d.Classifier = gateway.NewClassifier(gateway.DefaultRules)

	d.Logger.Info("session issuance initialized",
		zap.Duration("session_ttl", d.Issuer.TTL()),
		zap.Bool("fallback_secret", d.Secrets.IsFallback()),
	)
}

func (d *Dependencies) initHTTP(cfg *config.Config) {
	d.Gateway = middleware.NewGateway(d.Classifier, d.Resolver, cfg.Auth, d.Metrics, d.Logger)
	d.APIAuth = middleware.NewAPIAuth(d.Resolver, d.Logger)
	d.AuthHandler = auth.NewHandler(d.Issuer, d.Resolver, d.Audit, d.Logger)
	d.AuditHandler = handlers.NewAuditHandler(d.Audit, d.Logger)
	d.HealthHandler = handlers.NewHealthHandler(d.DB, func() bool { return !d.Secrets.IsFallback() }, d.Logger)
	d.PageHandler = handlers.NewPageHandler(d.Classifier)
	d.UserHandler = handlers.NewUserHandler(d.UserService, d.Audit, d.Logger)
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	// Pending audit events are flushed while the database is still open
	if d.Audit != nil && d.Audit.GetStats().Running {
		if err := d.Audit.Stop(shutdownTimeout(ctx)); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop audit service: %w", err))
		}
	}

	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
		d.RepoFactory = nil
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}

func shutdownTimeout(ctx context.Context) time.Duration {
	const fallback = 5 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining > 0 {
			return remaining
		}
		return 0
	}
	return fallback
}
