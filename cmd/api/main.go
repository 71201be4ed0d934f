package main

// @title LeadCRM API
// @version 1.0
// @description Lead capture, assignment and call tracking for telemarketing teams.

// @host localhost:4000
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/jordanlanch/leadcrm/config"
	_ "github.com/jordanlanch/leadcrm/docs"
	"github.com/jordanlanch/leadcrm/pkg/analytics"
	apierrors "github.com/jordanlanch/leadcrm/pkg/api/errors"
	"github.com/jordanlanch/leadcrm/pkg/api/handlers"
	custommw "github.com/jordanlanch/leadcrm/pkg/api/middleware"
	"github.com/jordanlanch/leadcrm/pkg/audit"
	"github.com/jordanlanch/leadcrm/pkg/auth"
	"github.com/jordanlanch/leadcrm/pkg/backup"
	"github.com/jordanlanch/leadcrm/pkg/cache"
	"github.com/jordanlanch/leadcrm/pkg/database"
	"github.com/jordanlanch/leadcrm/pkg/email"
	"github.com/jordanlanch/leadcrm/pkg/events"
	"github.com/jordanlanch/leadcrm/pkg/export"
	"github.com/jordanlanch/leadcrm/pkg/jobs"
	"github.com/jordanlanch/leadcrm/pkg/leadassignment"
	"github.com/jordanlanch/leadcrm/pkg/leads"
	"github.com/jordanlanch/leadcrm/pkg/logger"
	"github.com/jordanlanch/leadcrm/pkg/metrics"
	custommiddleware "github.com/jordanlanch/leadcrm/pkg/middleware"
	"github.com/jordanlanch/leadcrm/pkg/phone"
	"github.com/jordanlanch/leadcrm/pkg/users"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogBackend, cfg.LogLevel)
	apierrors.SetLogger(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log.Info("configuration loaded", "environment", cfg.APIEnvironment)

	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.SentryEnvironment,
			TracesSampleRate: 0.2,
			AttachStacktrace: true,
		})
		if err != nil {
			log.Warn("failed to initialize sentry", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewClient(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return err
	}
	defer db.Close(context.Background())

	redisClient, err := cache.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redisClient.Close()

	prometheusMetrics := metrics.New()
	blacklist := auth.NewTokenBlacklist(redisClient)

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.AMQPURL != "" {
		p, err := events.NewAMQPPublisher(cfg.AMQPURL)
		if err != nil {
			return err
		}
		publisher = p
		log.Info("publishing lead events", "exchange", events.ExchangeName)
	}
	defer publisher.Close()

	// Stores
	userRepo := users.NewMongoRepository(db.DB)
	leadRepo := leads.NewMongoRepository(db.DB)
	historyStore := leadassignment.NewMongoHistoryStore(db.DB)
	emailStore := email.NewMongoStore(db.DB)
	auditStore := audit.NewMongoStore(db.DB)
	if err := database.EnsureIndexes(ctx, userRepo, leadRepo, historyStore, emailStore, auditStore); err != nil {
		return err
	}

	// Services
	dashboard := analytics.NewService(leadRepo, userRepo, emailStore,
		analytics.WithCache(redisClient, time.Duration(cfg.DashboardCacheTTLSeconds)*time.Second),
		analytics.WithMetrics(prometheusMetrics),
		analytics.WithLogger(log.With("component", "analytics")),
	)
	userService := users.NewService(userRepo,
		users.TokenConfig{Secret: cfg.JWTSecret, ExpirationHours: cfg.JWTExpirationHours},
		users.WithBlacklist(blacklist),
		users.WithInvalidator(dashboard),
		users.WithMetrics(prometheusMetrics),
		users.WithLogger(log.With("component", "users")),
	)
	leadService := leads.NewService(leadRepo,
		leadassignment.NewService(userRepo, historyStore),
		leads.WithPhoneNormalizer(phone.NewNormalizer(cfg.DefaultPhoneRegion)),
		leads.WithInvalidator(dashboard),
		leads.WithPublisher(publisher),
		leads.WithMetrics(prometheusMetrics),
		leads.WithLogger(log.With("component", "leads")),
	)
	sender := email.NewSender(email.SenderConfig{
		SendGridAPIKey: cfg.SendGridAPIKey,
		SMTPHost:       cfg.SMTPHost,
		SMTPPort:       cfg.SMTPPort,
		SMTPUser:       cfg.SMTPUser,
		SMTPPassword:   cfg.SMTPPassword,
	}, log)
	emailService := email.NewService(sender, emailStore,
		email.WithLeadFinder(leadRepo),
		email.WithSystemSender(cfg.EmailFrom, cfg.EmailFromName),
		email.WithPublisher(publisher),
		email.WithInvalidator(dashboard),
		email.WithMetrics(prometheusMetrics),
		email.WithLogger(log.With("component", "email")),
	)

	exportOpts := []export.Option{export.WithMetrics(prometheusMetrics), export.WithLogger(log.With("component", "export"))}
	if cfg.ReportArchiveBucket != "" {
		archive, err := backup.NewService(ctx, backup.Config{
			Bucket:             cfg.ReportArchiveBucket,
			Region:             cfg.AWSRegion,
			AWSAccessKeyID:     cfg.AWSAccessKeyID,
			AWSSecretAccessKey: cfg.AWSSecretAccessKey,
			RetentionDays:      cfg.ReportArchiveRetentionDays,
		}, log.With("component", "backup"))
		if err != nil {
			return err
		}
		exportOpts = append(exportOpts, export.WithArchiver(archive))
		log.Info("daily reports archived to s3", "bucket", cfg.ReportArchiveBucket)
	}
	reports := export.NewService(dashboard, cfg.RecentBookingsLimit, exportOpts...)
	auditService := audit.NewService(auditStore, log.With("component", "audit"))

	if admin, created, err := userService.Bootstrap(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("failed to bootstrap team leader: %w", err)
	} else if created {
		log.Info("bootstrapped team leader", "user_id", admin.ID.Hex(), "email", admin.Email)
	}

	// Jobs
	digest := jobs.NewDailyDigest(reports, emailService, userService, log.With("component", "digest"))
	cronManager := jobs.NewCronManager(digest, dashboard, log.With("component", "cron"))
	if cfg.CronEnabled {
		if err := cronManager.SetupJobs(); err != nil {
			return err
		}
		cronManager.Start()
	}

	// HTTP
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	globalLimiter := custommiddleware.NewRateLimiter(cfg.RateLimitRequestsPerMinute, cfg.RateLimitBurst)
	loginLimiter := custommiddleware.NewRateLimiter(cfg.LoginRateLimitPerMinute, 2)
	go globalLimiter.RunCleanup(ctx, 5*time.Minute)
	go loginLimiter.RunCleanup(ctx, 5*time.Minute)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			args := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency, "request_id", v.RequestID}
			if v.Error != nil {
				log.Error("request failed", append(args, "error", v.Error)...)
				return nil
			}
			log.Debug("request", args...)
			return nil
		},
	}))
	if cfg.SentryDSN != "" {
		e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	}
	e.Use(prometheusMetrics.Middleware())
	e.Use(middleware.CORSWithConfig(custommiddleware.CORSConfig(cfg.CORSAllowedOrigins)))
	e.Use(middleware.Gzip())
	e.Use(custommiddleware.SecurityHeaders(custommiddleware.DefaultSecurityHeadersConfig()))
	e.Use(globalLimiter.RateLimitMiddleware())

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	handlers.Router{
		Leads:     handlers.NewLeadHandler(leadService, auditService),
		Users:     handlers.NewUserHandler(userService, auditService, log.With("component", "http")),
		Emails:    handlers.NewEmailHandler(emailService, auditService),
		Dashboard: handlers.NewDashboardHandler(dashboard, reports, cfg.RecentBookingsLimit),
		Jobs:      handlers.NewJobsHandler(cronManager),
		Health: handlers.NewHealthHandler(map[string]handlers.Pinger{
			"mongodb": db,
			"redis":   redisClient,
		}),
		Auth: custommw.JWTMiddleware(custommw.JWTConfig{
			Secret:    cfg.JWTSecret,
			Blacklist: blacklist,
			Resolver:  userService,
			Logger:    log,
		}),
		LoginLimiter: loginLimiter.RateLimitMiddleware(),
	}.Register(e)

	address := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	errCh := make(chan error, 1)
	go func() {
		log.Info("leadcrm API starting", "address", address, "cron", cfg.CronEnabled, "jobs", cronManager.Entries())
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cronManager.Stop(shutdownCtx)
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
