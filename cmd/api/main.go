package main

import (
	"context"
	"fmt"
	"log"

	common_api "go-propdesk/internal/common/api"
	"go-propdesk/internal/config"
	"go-propdesk/internal/database"
	"go-propdesk/internal/features/audit"
	"go-propdesk/internal/features/notification"
	"go-propdesk/internal/features/report"
	"go-propdesk/internal/features/system"
	"go-propdesk/internal/logger"
	"go-propdesk/internal/metrics"
	"go-propdesk/internal/middleware"
	"go-propdesk/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             16 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	// Archived exports on the local driver are served straight from disk
	if cfg.StorageDriver == "" || cfg.StorageDriver == "local" {
		app.Static(cfg.StorageURL, cfg.StoragePath, fiber.Static{Download: true})
	}

	return app
}

// AsRoute tags the constructor so Fx adds it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes calls Setup() on every member of the "routes" group.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route, logger *zap.Logger) {
	logger.Info("Registering routes", zap.Int("count", len(routes)))
	for _, route := range routes {
		logger.Debug("Setting up route", zap.String("route", fmt.Sprintf("%T", route)))
		route.Setup(app)
	}
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`, ``),
)

// StartServer listens in a goroutine and shuts Fiber down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				logger.Info("Server listening", zap.String("addr", port))
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}

func NewMetrics(reg *prometheus.Registry) *metrics.Metrics {
	return metrics.NewMetrics(reg)
}

func NewSessionStore(svc report.ReportService, cfg *config.Config, m *metrics.Metrics) *report.SessionStore {
	return report.NewSessionStore(svc, cfg.SessionTTL, m.ActiveSessions)
}

func NewScheduler(svc report.ReportService, sessions *report.SessionStore, cfg *config.Config, logger *zap.Logger) *report.Scheduler {
	return report.NewScheduler(svc, sessions, logger, cfg.EnableScheduler)
}

// StartScheduler ties the report scheduler to the application lifecycle
func StartScheduler(lc fx.Lifecycle, scheduler *report.Scheduler) {
	lc.Append(fx.Hook{
		OnStart: scheduler.Start,
		OnStop:  scheduler.Stop,
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
			metrics.NewRegistry,
			NewMetrics,
			storage.NewStorage,
			NewFiberServer,

			// Audit
			audit.NewAuditRepository,
			audit.NewAuditService,
			audit.NewAuditController,

			// Notifications
			notification.NewNotificationRepository,
			notification.NewNotificationService,
			notification.NewNotificationController,

			// Reports
			report.NewRegistry,
			report.NewReportRepository,
			report.NewReportService,
			NewSessionStore,
			NewScheduler,
			report.NewReportController,

			// System
			system.NewHealthController,

			AsRoute(report.NewReportApi),
			AsRoute(notification.NewNotificationApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewMetricsApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			RegisterAllRoutesWithAnnotation,
			StartServer,
			StartScheduler,
		),
	)

	app.Run()
}
