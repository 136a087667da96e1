package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/webmonhq/webmon/internal/audit"
	"github.com/webmonhq/webmon/internal/config"
	"github.com/webmonhq/webmon/internal/httpapi"
	"github.com/webmonhq/webmon/internal/httpapi/middleware"
	"github.com/webmonhq/webmon/internal/logging"
	"github.com/webmonhq/webmon/internal/monitor"
	"github.com/webmonhq/webmon/internal/notify"
	"github.com/webmonhq/webmon/internal/probe"
	"github.com/webmonhq/webmon/internal/repo"
	"github.com/webmonhq/webmon/internal/repo/memory"
	"github.com/webmonhq/webmon/internal/repo/postgres"
	"github.com/webmonhq/webmon/internal/targets"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir, cfg.Debug)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var ignores repo.IgnoreStore
	if cfg.DatabaseURL != "" {
		pg, err := postgres.New(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			log.Fatal(err)
		}
		defer pg.Close()
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatal(err)
		}
		ignores = pg
	} else {
		ignores = memory.New()
	}

	var source targets.Source
	if cfg.TargetsURL != "" {
		source = targets.NewHTTPSource(cfg.TargetsURL, cfg.Timeout)
	} else {
		source = targets.StaticSource(cfg.Targets)
	}

	auditLog, err := audit.NewFile(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}

	var sinks notify.Multi
	if s := notify.NewSlack(cfg.SlackWebhook); s != nil {
		sinks = append(sinks, s)
	}
	if t := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID); t != nil {
		sinks = append(sinks, t)
	}
	if len(sinks) == 0 {
		logger.Warn("no_notifiers_configured")
	}

	checker := probe.NewSiteChecker(cfg.Timeout, cfg.VerifyTLS, cfg.HealthAPIKey)
	metrics := monitor.NewMetrics(prometheus.DefaultRegisterer)
	mon := monitor.New(logger, source, ignores, checker, sinks, auditLog, metrics, monitor.Config{
		Interval:    cfg.CheckCycle,
		MaxFailures: cfg.MaxFailures,
		RetryDelay:  cfg.RetryDelay,
		Concurrency: cfg.Concurrency,
	})
	go mon.Run(ctx)

	api := httpapi.NewServer(logger, mon, ignores,
		middleware.Keys{Public: cfg.PublicAPIKeys, Admin: cfg.AdminAPIKeys},
		httpapi.Limits{
			PublicRPM:   cfg.PublicRPM,
			PublicBurst: cfg.PublicBurst,
			AdminRPM:    cfg.AdminRPM,
			AdminBurst:  cfg.AdminBurst,
		})

	srv := &http.Server{Addr: cfg.Addr, Handler: api.Router()}
	go func() {
		<-ctx.Done()
		shctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shctx)
	}()

	logger.Info("api_listen",
		zap.String("addr", cfg.Addr),
		zap.Duration("check_cycle", cfg.CheckCycle),
		zap.Int("max_failures", cfg.MaxFailures),
	)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
