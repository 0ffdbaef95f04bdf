package commands

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/o-vuong/doggo-hotel/config"
	"github.com/o-vuong/doggo-hotel/controllers"
	"github.com/o-vuong/doggo-hotel/jobs"
	"github.com/o-vuong/doggo-hotel/middleware"
	"github.com/o-vuong/doggo-hotel/routes"
	"github.com/o-vuong/doggo-hotel/validator"
)

var serveNoCron bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the background jobs",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveNoCron, "no-cron", false, "do not schedule background jobs on this instance")
	rootCmd.AddCommand(serveCmd)
	rootCmd.RunE = runServe
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required to serve the API")
	}
	if err := validator.Register(); err != nil {
		return err
	}

	router, m := config.InitApp(cfg)
	app, err := newApp(ctx, cfg, m)
	if err != nil {
		return err
	}
	defer app.Close()
	log := app.Logger

	health := map[string]controllers.Pinger{}
	if app.DB != nil {
		health["database"] = func(ctx context.Context) error {
			sqlDB, err := app.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	if app.Redis != nil {
		health["redis"] = func(ctx context.Context) error {
			return app.Redis.Ping(ctx).Err()
		}
	}

	routes.SetupRoutes(router, routes.Deps{
		Verifier:     app.Verifier,
		Logger:       log,
		RateLimiter:  middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
		Melody:       m,
		Repo:         app.Repo,
		Notifier:     app.Notifier,
		Operator:     app.Operator,
		Reservations: app.Reservations,
		Payments:     app.Payments,
		Availability: app.Availability,
		Kennels:      app.Kennels,
		Pets:         app.Pets,
		Facilities:   app.Facilities,
		Overstay:     app.Overstay,
		Dashboard:    app.Dashboard,
		Reminders:    app.Reminders,
		Health:       health,
	})

	if !serveNoCron {
		c := jobs.NewCron(log.Entry())
		runner := &jobs.Runner{
			Overstay:    app.Overstay,
			Payments:    app.Payments,
			Reminders:   app.Reminders,
			Broadcaster: app.Operator,
			Logger:      log,
			Timeout:     30 * time.Minute,
		}
		if err := jobs.InitCronJobs(c, runner, jobs.Schedule{
			OverstaySweep:   cfg.OverstayCron,
			PaymentRetry:    cfg.PaymentRetryCron,
			PaymentReminder: cfg.PaymentReminderCron,
		}); err != nil {
			return fmt.Errorf("failed to initialize cron jobs: %w", err)
		}
		defer func() {
			<-c.Stop().Done()
		}()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting on port %s...", cfg.HTTPPort)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !stderrors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := m.Close(); err != nil {
		log.Warn("close websocket hub: %v", err)
	}
	return srv.Shutdown(shutdownCtx)
}
