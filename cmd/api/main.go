// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/dangerclosesec/socioplus/internal/audit"
	"github.com/dangerclosesec/socioplus/internal/auth"
	"github.com/dangerclosesec/socioplus/internal/config"
	"github.com/dangerclosesec/socioplus/internal/database"
	"github.com/dangerclosesec/socioplus/internal/email"
	"github.com/dangerclosesec/socioplus/internal/handler"
	"github.com/dangerclosesec/socioplus/internal/metrics"
	"github.com/dangerclosesec/socioplus/internal/middleware"
	"github.com/dangerclosesec/socioplus/internal/model"
	"github.com/dangerclosesec/socioplus/internal/repository"
	"github.com/dangerclosesec/socioplus/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "startup error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   a.Key,
					Value: slog.StringValue(a.Value.Time().Format(time.RFC3339)),
				}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	cfg := config.Load()

	db, err := database.Open(context.Background(), cfg, gormLogLevel())
	if err != nil {
		return fmt.Errorf("setting up database: %w", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	opportunityRepo := repository.NewOpportunityRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)

	// Initialize auth services
	authService := auth.NewAuthService(
		auth.NewPasswordHasher(),
		auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpiryPeriod),
	)

	authorizer, err := setupAuthorizer(cfg)
	if err != nil {
		return fmt.Errorf("setting up authorizer: %w", err)
	}

	notifier, err := setupNotifier(cfg)
	if err != nil {
		return fmt.Errorf("setting up email: %w", err)
	}

	auditLogService := service.NewAuditLogService(auditLogRepo)
	var auditLogger audit.Logger = auditLogService

	// Initialize domain services
	userService := service.NewUserService(userRepo, authService, notifier)
	opportunityService := service.NewOpportunityService(opportunityRepo, userRepo, applicationRepo, authorizer, auditLogger)
	applicationService := service.NewApplicationService(applicationRepo, opportunityRepo, userRepo, authorizer, auditLogger, notifier)
	dashboardService := service.NewDashboardService(userRepo, opportunityRepo, applicationRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userService, cfg.JWT.ExpiryPeriod)
	opportunityHandler := handler.NewOpportunityHandler(opportunityService)
	applicationHandler := handler.NewApplicationHandler(applicationService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	auditLogHandler := handler.NewAuditLogHandler(auditLogService)

	// Create router
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestMeta)
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoveryMiddleware(logger))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})
	r.Handle("/metrics", metrics.Handler())

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Get("/stats", dashboardHandler.Stats)
		r.Get("/opportunities", opportunityHandler.ListOpen)
		r.Get("/opportunities/recent", opportunityHandler.ListRecent)
		r.With(middleware.OptionalAuth(authService)).Get("/opportunities/{id}", opportunityHandler.Get)

		r.Route("/auth", func(r chi.Router) {
			r.Use(chimw.AllowContentType("application/json"))

			r.Post("/register", authHandler.RegisterHandler)
			r.Post("/login", authHandler.LoginHandler)
			r.Post("/logout", authHandler.LogoutHandler)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(chimw.AllowContentType("application/json"))
			r.Use(middleware.AuthMiddleware(authService))

			r.Get("/me", authHandler.MeHandler)
			r.Delete("/me", authHandler.DeleteMeHandler)

			// Apply reports a missing opportunity before the caller's role,
			// so the service makes the role check.
			r.Post("/opportunities/{id}/applications", applicationHandler.Apply)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(model.RoleOrganization))

				r.Post("/opportunities", opportunityHandler.Create)
				r.Post("/applications/{id}/decision", applicationHandler.Decide)

				r.Route("/organization", func(r chi.Router) {
					r.Get("/opportunities", opportunityHandler.ListMine)
					r.Get("/applications", applicationHandler.ListForOwner)
					r.Get("/dashboard", dashboardHandler.Organization)
					r.Get("/audit-logs", auditLogHandler.GetAuditLogs)
				})
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(model.RoleVolunteer))

				r.Route("/volunteer", func(r chi.Router) {
					r.Get("/applications", applicationHandler.ListMine)
					r.Get("/dashboard", dashboardHandler.Volunteer)
				})
			})
		})
	})

	// Create server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Server error channel
	serverErrors := make(chan error, 1)

	// Start server
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Shutdown channel
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Wait for shutdown or error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info("shutdown started", "signal", sig)

		// Give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			srv.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// setupAuthorizer uses Permify when PERMIFY_HOST is set and the stored
// ownership rule otherwise.
func setupAuthorizer(cfg *config.Config) (auth.Authorizer, error) {
	if cfg.Permify.Host == "" {
		return auth.NewRuleAuthorizer(), nil
	}

	authorizer, err := auth.NewPermifyAuthorizer(
		cfg.Permify.Host,
		auth.WithTenant(cfg.Permify.Tenant),
		auth.WithSchemaVersion(cfg.Permify.SchemaVersion),
	)
	if err != nil {
		return nil, err
	}
	slog.Info("using permify authorizer", "host", cfg.Permify.Host, "tenant", cfg.Permify.Tenant)
	return authorizer, nil
}

func setupNotifier(cfg *config.Config) (service.Notifier, error) {
	if cfg.Email.Provider == "" {
		slog.Info("email disabled, EMAIL_PROVIDER not set")
		return service.NoopNotifier{}, nil
	}

	emailService, err := email.NewEmailService(cfg, email.Provider(cfg.Email.Provider))
	if err != nil {
		return nil, err
	}
	return email.NewNotifier(emailService, cfg.BaseURL), nil
}

func gormLogLevel() gormlogger.LogLevel {
	if os.Getenv("DB_DEBUG") != "" {
		return gormlogger.Info
	}
	return gormlogger.Warn
}

func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("request completed",
					"method", r.Method,
					"path", r.URL.Path,
					"duration", time.Since(start),
					"status", ww.Status(),
					"size", ww.BytesWritten(),
					"requestID", chimw.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

func recoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logger.Error("panic recovered",
						"error", errors.New("panic recovered"),
						"panic", rvr,
						"stack", string(debug.Stack()),
						"requestID", chimw.GetReqID(r.Context()),
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte(`{"ok":false,"error":"Internal server error"}`))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
