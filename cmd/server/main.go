// Package main starts the activity signup web front end.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"activitysignup/config"
	"activitysignup/internal/adapters/activities"
	"activitysignup/internal/adapters/confirm"
	"activitysignup/internal/adapters/email"
	"activitysignup/internal/adapters/notice"
	deliveryhttp "activitysignup/internal/delivery/http"
	"activitysignup/internal/delivery/http/controllers"
	"activitysignup/internal/delivery/http/web"
	"activitysignup/internal/domain"
	"activitysignup/internal/services"
	"activitysignup/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.NewLogger().Error("failed to load config", "err", err)
		os.Exit(1)
	}
	logger := cfg.Logger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	shutdownTracing, err := telemetry.SetupTracing(ctx, cfg.OTLPEndpoint, cfg.ServiceName)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracing shutdown", "err", err)
		}
	}()
	metrics := telemetry.NewMetrics("activitysignup")

	client, err := activities.NewClient(cfg.ActivitiesAPIURL,
		activities.WithTimeout(cfg.UpstreamTimeout),
		activities.WithMetrics(metrics),
	)
	if err != nil {
		return fmt.Errorf("activities client: %w", err)
	}

	notices, ledger, closeStores, err := newStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Mail.Provider,
		FromAddress: cfg.Mail.FromAddress,
		FromName:    cfg.Mail.FromName,
		SES: email.SESConfig{
			Region:             cfg.Mail.Region,
			AccessKeyID:        cfg.Mail.AccessKeyID,
			SecretAccessKey:    cfg.Mail.SecretAccessKey,
			InsecureSkipVerify: cfg.Mail.InsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("mailer: %w", err)
	}
	receipts := services.NewReceiptService(logger, mailer, email.NewTemplateRenderer())

	svc := services.NewActivityViewService(logger, client, confirm.NewJWTIssuer(cfg.ConfirmSecret, cfg.ConfirmTTL, ledger), receipts, metrics)

	renderer, err := web.NewRenderer()
	if err != nil {
		return err
	}
	mux := deliveryhttp.NewRouter(
		controllers.NewPageController(logger, svc, notices, renderer),
		controllers.NewAPIController(logger, svc),
		metrics.Handler(),
	)

	handler := deliveryhttp.NewHandler(mux, deliveryhttp.HandlerOptions{
		Logger:         logger,
		Tracer:         telemetry.Tracer(),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		SecureCookies:  cfg.IsProduction(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", "addr", srv.Addr, "activities_api", cfg.ActivitiesAPIURL, "notice_store", cfg.NoticeStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		logger.Info("server stopped")
		return nil
	})
	return g.Wait()
}

// newStores builds the notification slot and the spent-confirmation ledger.
// Both live in Redis when NOTICE_STORE is redis, so every instance shares them.
func newStores(ctx context.Context, cfg *config.Config) (domain.NoticeStore, confirm.Ledger, func(), error) {
	if cfg.NoticeStore != "redis" {
		return notice.NewMemoryStore(cfg.NoticeTTL), confirm.NewMemoryLedger(), func() {}, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	return notice.NewRedisStore(rdb, cfg.NoticeTTL), confirm.NewRedisLedger(rdb), func() { _ = rdb.Close() }, nil
}
