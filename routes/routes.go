package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/upb/orderops/app"
	"github.com/upb/orderops/auth"
	"github.com/upb/orderops/handlers"
	"github.com/upb/orderops/middleware"
	"github.com/upb/orderops/utils"
)

// SetupRoutes configures all application routes and middleware.
// The gateway runs on every route; it skips /api and assets itself.
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()
	authCfg := deps.Config.Auth

	// Core middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimw.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(deps.Gateway.Handler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", deps.HealthHandler.HandleHealth)
		r.Get("/health/ready", deps.HealthHandler.HandleReadiness)

		// Session issuance, one endpoint per path
		r.Post("/auth/login", deps.AuthHandler.HandleLogin(auth.FrameworkPath(authCfg)))
		r.Post("/custom-auth/login", deps.AuthHandler.HandleLogin(auth.CustomPath(authCfg)))
		r.Get("/auth/session", deps.AuthHandler.HandleSession)
		r.Post("/auth/logout", deps.AuthHandler.HandleLogout)

		// Authenticated API
		r.Group(func(r chi.Router) {
			r.Use(deps.APIAuth.RequireAuth)
			r.Get("/me", handlers.GetCurrentUser)
			r.Get("/me/permissions", handlers.GetCurrentPermissions)

			r.With(deps.APIAuth.RequirePermission(auth.PermUsersManage)).
				Post("/users", deps.UserHandler.HandleCreate)
			r.With(deps.APIAuth.RequirePermission(auth.PermUsersManage)).
				Get("/audit/events", deps.AuditHandler.HandleList)
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			_ = utils.WriteNotFound(w, "Endpoint not found")
		})
	})

	// Pages are rendered by the frontend; anything the gateway lets through gets the stub
	r.Get("/*", deps.PageHandler.HandlePage)

	return r
}
