package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/careportal/careportal/internal/config"
	"github.com/careportal/careportal/internal/domain/account"
	"github.com/careportal/careportal/internal/domain/appointment"
	"github.com/careportal/careportal/internal/domain/payment"
	"github.com/careportal/careportal/internal/domain/prescription"
	"github.com/careportal/careportal/internal/domain/record"
	"github.com/careportal/careportal/internal/platform/auth"
	"github.com/careportal/careportal/internal/platform/db"
	"github.com/careportal/careportal/internal/platform/docstore"
	"github.com/careportal/careportal/internal/platform/middleware"
	"github.com/careportal/careportal/internal/platform/payments"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "portal-server",
		Short: "Patient portal API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the portal API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations (postgres driver only)",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required to run migrations")
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, db.PoolConfig{URL: cfg.DatabaseURL, MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool, dir).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required to show migration status")
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, db.PoolConfig{URL: cfg.DatabaseURL, MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, dir).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

// repos bundles one repository per domain, whichever backend produced them.
type repos struct {
	accounts      account.Repository
	appointments  appointment.Repository
	records       record.Repository
	prescriptions prescription.Repository
	payments      payment.Repository
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()

	var (
		r     repos
		store *docstore.Store
		pool  *pgxpool.Pool
	)
	switch cfg.StoreDriver {
	case "postgres":
		pool, err = db.NewPool(ctx, db.PoolConfig{URL: cfg.DatabaseURL, MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		logger.Info().Msg("connected to database")

		r = repos{
			accounts:      account.NewPGRepo(pool),
			appointments:  appointment.NewPGRepo(pool),
			records:       record.NewPGRepo(pool),
			prescriptions: prescription.NewPGRepo(pool),
			payments:      payment.NewPGRepo(pool),
		}
	default:
		path := docstore.DefaultPath(cfg.DataDir)
		store, err = docstore.Open(path)
		if err != nil {
			logger.Fatal().Err(err).Str("path", path).Msg("failed to open document store")
		}
		defer store.Close()
		logger.Info().Str("path", path).Msg("document store ready")

		r = repos{
			accounts:      account.NewDocRepo(store),
			appointments:  appointment.NewDocRepo(store),
			records:       record.NewDocRepo(store),
			prescriptions: prescription.NewDocRepo(store),
			payments:      payment.NewDocRepo(store),
		}
	}

	var gateway payments.Gateway
	if cfg.GatewayConfigured() {
		gateway = payments.NewHTTPGateway(cfg.PaymentGatewayURL, cfg.PaymentGatewayKey)
		logger.Info().Str("url", cfg.PaymentGatewayURL).Msg("payment gateway configured")
	} else {
		gateway = payments.NewMockGateway()
		logger.Info().Msg("no payment gateway configured, using mock")
	}

	tokenTTL := time.Duration(cfg.TokenTTLHours) * time.Hour

	accountHandler := account.NewHandler(account.NewService(r.accounts, cfg.JWTSecret, tokenTTL))
	appointmentHandler := appointment.NewHandler(appointment.NewService(r.appointments))
	recordHandler := record.NewHandler(record.NewService(r.records))
	prescriptionHandler := prescription.NewHandler(prescription.NewService(r.prescriptions))
	paymentHandler := payment.NewHandler(payment.NewService(r.payments, gateway))

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.RequestTimeout(time.Duration(cfg.RequestTimeoutSec) * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	e.GET("/health", healthHandler(cfg.StoreDriver, pool))

	// Credential endpoints stay public but rate limited; everything else
	// under /api requires a bearer token.
	rl := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	public := e.Group("/api", middleware.RateLimit(rl))
	protected := e.Group("/api", auth.Middleware(cfg.JWTSecret))

	accountHandler.RegisterRoutes(public, protected)
	appointmentHandler.RegisterRoutes(protected)
	recordHandler.RegisterRoutes(protected)
	prescriptionHandler.RegisterRoutes(protected)
	paymentHandler.RegisterRoutes(protected)

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	if store != nil {
		if err := store.Close(); err != nil {
			logger.Error().Err(err).Msg("final store flush failed")
		}
	}
	logger.Info().Msg("server stopped")
	return nil
}

// errorHandler renders every error as {"error": "<msg>"}. Anything that is
// not an echo.HTTPError becomes a generic 500 so internals never leak.
func errorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := "internal server error"
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if s, ok := he.Message.(string); ok {
				msg = s
			}
		}
		if code >= http.StatusInternalServerError {
			logger.Error().Err(err).Str("path", c.Request().URL.Path).Msg("request failed")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, map[string]string{"error": msg})
	}
}

func healthHandler(driver string, pool *pgxpool.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		body := map[string]interface{}{
			"status": "ok",
			"store":  driver,
		}
		if pool != nil {
			stat := pool.Stat()
			body["pool"] = map[string]interface{}{
				"total_conns":    stat.TotalConns(),
				"idle_conns":     stat.IdleConns(),
				"acquired_conns": stat.AcquiredConns(),
				"max_conns":      stat.MaxConns(),
			}
		}
		return c.JSON(http.StatusOK, body)
	}
}
