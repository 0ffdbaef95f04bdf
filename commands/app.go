package commands

import (
	"context"
	"fmt"
	"net/http"

	"github.com/olahol/melody"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/o-vuong/doggo-hotel/config"
	"github.com/o-vuong/doggo-hotel/repository"
	"github.com/o-vuong/doggo-hotel/services"
	"github.com/o-vuong/doggo-hotel/services/logger"
	"github.com/o-vuong/doggo-hotel/services/media"
	"github.com/o-vuong/doggo-hotel/services/notification"
	"github.com/o-vuong/doggo-hotel/services/processor"
)

// App gom mọi thành phần đã nối dây, dùng chung cho serve, sweep và seed
type App struct {
	Config *config.Config
	Logger *logger.LogrusLogger
	DB     *gorm.DB
	Redis  *redis.Client
	Repo   repository.Repository

	Notifier notification.Notifier
	Operator notification.Service
	Verifier *services.TokenVerifier

	Audit        *services.AuditService
	Payments     *services.PaymentService
	Reservations *services.ReservationService
	Availability *services.AvailabilityService
	Kennels      *services.KennelService
	Pets         *services.PetService
	Facilities   *services.FacilityService
	Overstay     *services.OverstayService
	Dashboard    *services.DashboardService
	Reminders    *services.ReminderService
}

// newApp nối dây theo cấu hình; m nil nghĩa là cảnh báo vận hành chỉ ghi log
func newApp(ctx context.Context, cfg *config.Config, m *melody.Melody) (*App, error) {
	log, err := config.InitLogger(cfg)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Logger: log}

	switch cfg.Storage {
	case "memory":
		log.Warn("using in-memory storage, data is lost on exit")
		app.Repo = repository.NewMemoryRepository()
	default:
		db, err := config.ConnectDB(cfg)
		if err != nil {
			return nil, err
		}
		app.DB = db
		app.Repo = repository.NewGormRepository(db)
	}

	if app.Redis, err = config.ConnectRedis(ctx, cfg); err != nil {
		app.Close()
		return nil, err
	}
	var cache services.Cache
	var locker services.Locker
	if app.Redis != nil {
		cache = services.NewRedisCache(app.Redis)
		locker = services.NewRedisLocker(app.Redis)
	} else {
		log.Info("REDIS_ADDR not set, dashboard cache and sweep lease disabled")
	}

	app.Notifier = newNotifier(cfg, log)
	if m != nil {
		app.Operator = notification.NewMelodyService(m)
	} else {
		app.Operator = &notification.LogService{Logger: log}
	}

	proc, err := newProcessor(cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Verifier = services.NewTokenVerifier(cfg.JWTSecret)
	app.Audit = services.NewAuditService(app.Repo, log, nil)
	app.Payments = services.NewPaymentService(services.PaymentServiceOptions{
		Repo:       app.Repo,
		Processor:  proc,
		Operator:   app.Operator,
		Audit:      app.Audit,
		Logger:     log.WithFields(map[string]interface{}{"component": "payments"}),
		Timeout:    cfg.ExternalTimeout,
		MaxRetries: cfg.MaxRetries,
		Currency:   cfg.Currency,
	})
	app.Reservations = services.NewReservationService(app.Repo, app.Payments, app.Audit,
		log.WithFields(map[string]interface{}{"component": "reservations"}), nil)
	app.Availability = services.NewAvailabilityService(app.Repo)
	app.Kennels = services.NewKennelService(app.Repo, log)
	app.Facilities = services.NewFacilityService(app.Repo, log)

	cld, err := config.ConnectCloudinary(cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	var photos media.Uploader
	if cld != nil {
		photos = media.NewCloudinaryUploader(cld)
	} else {
		log.Info("CLOUDINARY_URL not set, pet photo uploads disabled")
	}
	app.Pets = services.NewPetService(services.PetServiceOptions{
		Repo:     app.Repo,
		Uploader: photos,
		Logger:   log.WithFields(map[string]interface{}{"component": "pets"}),
		Timeout:  cfg.ExternalTimeout,
	})
	app.Overstay = services.NewOverstayService(services.OverstayServiceOptions{
		Repo:     app.Repo,
		Payments: app.Payments,
		Notifier: app.Notifier,
		Operator: app.Operator,
		Locker:   locker,
		Audit:    app.Audit,
		Logger:   log.WithFields(map[string]interface{}{"component": "overstay"}),
		Timeout:  cfg.ExternalTimeout,
	})
	app.Dashboard = services.NewDashboardService(app.Repo, cache, log, nil)
	app.Reminders = services.NewReminderService(app.Repo, app.Notifier, log, nil, cfg.ExternalTimeout)
	return app, nil
}

func newProcessor(cfg *config.Config) (processor.Processor, error) {
	switch cfg.ProcessorMode {
	case "sandbox":
		return processor.NewSandbox(), nil
	case "http":
		return processor.NewHTTPGateway(cfg.ProcessorURL, cfg.ProcessorAPIKey, &http.Client{Timeout: cfg.ExternalTimeout}), nil
	default:
		return nil, fmt.Errorf("unknown PAYMENT_PROCESSOR %q", cfg.ProcessorMode)
	}
}

// newNotifier chọn kênh theo cấu hình; thiếu kênh nào thì kênh đó chỉ ghi log
func newNotifier(cfg *config.Config, log logger.Logger) notification.Notifier {
	fallback := &notification.LogNotifier{Logger: log}
	router := &notification.Router{Email: fallback, SMS: fallback}
	if cfg.SMTPHost != "" {
		router.Email = notification.NewSMTPNotifier(notification.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	}
	if cfg.SMSGatewayURL != "" {
		router.SMS = notification.NewSMSGateway(cfg.SMSGatewayURL, cfg.SMSGatewayToken, &http.Client{Timeout: cfg.ExternalTimeout})
	}
	return router
}

func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
