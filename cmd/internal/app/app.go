package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"notesapi/cmd/internal/auth"
	"notesapi/cmd/internal/config"
	"notesapi/cmd/internal/domain/policy"
	"notesapi/cmd/internal/domain/sqlite"
	"notesapi/cmd/internal/domain/sqlite/repository"
	"notesapi/cmd/internal/http/handler"
	"notesapi/cmd/internal/http/middleware"
	"notesapi/cmd/internal/metrics"
	"notesapi/cmd/internal/service"
	"notesapi/cmd/internal/utils/validators"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// App holds the wired dependencies of the API. The CLI commands reuse the
// same services the HTTP handlers call.
type App struct {
	Config   *config.Config
	DB       *gorm.DB
	Echo     *echo.Echo
	Notes    *service.DefaultNoteService
	Users    *service.UserService
	UserRepo *repository.DefaultUserRepository
	Registry *prometheus.Registry
}

func New(cfg *config.Config) (*App, error) {
	log.SetLevel(cfg.GommonLevel())

	db, err := sqlite.Init(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	var (
		verifier auth.Verifier
		issuer   *auth.HMACIssuer
	)

	switch cfg.AuthMode {
	case config.AuthModeJWKS:
		jwks, err := auth.NewJWKSVerifier(cfg.JWKSURL)
		if err != nil {
			if cerr := closeDB(db); cerr != nil {
				log.Warnf("failed to close database: %v", cerr)
			}
			return nil, err
		}
		verifier = jwks
	default:
		issuer = auth.NewHMACIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
		verifier = issuer
	}

	validate := validators.New()
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	noteRepo := repository.NewNoteRepository(db)
	userRepo := repository.NewUserRepository(db)

	a := &App{
		Config:   cfg,
		DB:       db,
		Notes:    service.NewNoteService(noteRepo, policy.NewNotePolicy(), validate, collector),
		UserRepo: userRepo,
		Registry: registry,
	}

	// The register/login routes only exist when this service issues tokens.
	var tokens service.TokenIssuer
	if issuer != nil {
		tokens = issuer
	}
	a.Users = service.NewUserService(userRepo, validate, tokens)

	a.Echo = a.newRouter(verifier, collector, issuer != nil)
	return a, nil
}

func (a *App) newRouter(verifier auth.Verifier, collector *metrics.Collector, localAuth bool) *echo.Echo {
	cfg := a.Config

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.ErrorHandler

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomw.RequestLoggerValues) error {
			log.Infof("%s %s %d %s request_id=%s", v.Method, v.URI, v.Status, v.Latency, v.RequestID)
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(collector.Middleware())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: cfg.CORSOrigins}))
	e.Use(echomw.BodyLimit(cfg.BodyLimit))
	if cfg.RateLimitRPS > 0 {
		store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
			Rate:  rate.Limit(cfg.RateLimitRPS),
			Burst: cfg.RateLimitBurst,
		})
		e.Use(echomw.RateLimiter(store))
	}

	requireAuth := middleware.NewAuthMiddleware(&middleware.AuthMiddlewareConfig{
		Verifier: verifier,
		UserRepo: a.UserRepo,
	})

	noteRoutes := handler.NewNoteDefault(a.Notes)
	userRoutes := handler.NewUserDefault(a.Users)

	api := e.Group("/api")

	// Notes
	api.GET("/notes", noteRoutes.GetNotes, requireAuth)
	api.POST("/notes", noteRoutes.CreateNote, requireAuth)
	api.GET("/notes/:id", noteRoutes.GetNote, requireAuth)
	api.PUT("/notes/:id", noteRoutes.UpdateNote, requireAuth)
	api.DELETE("/notes/:id", noteRoutes.DeleteNote, requireAuth)

	// Users
	api.GET("/users/@me", userRoutes.GetMe, requireAuth)
	if localAuth {
		api.POST("/users", userRoutes.CreateUser)
		api.POST("/users/login", userRoutes.CreateLogin)
	}

	// Docker Compose healthcheck
	e.GET("/health", healthCheckRoute)
	e.GET("/metrics", metrics.Handler(a.Registry))

	return e
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", a.Config.HTTPAddr)
		errCh <- a.Echo.Start(a.Config.HTTPAddr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
	defer cancel()
	return a.Echo.Shutdown(shutdownCtx)
}

func (a *App) Close() error {
	return closeDB(a.DB)
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func healthCheckRoute(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}
