package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cathysarisky/api-with-activitypub/internal/clients/admin"
	"github.com/cathysarisky/api-with-activitypub/internal/clients/analytics"
	"github.com/cathysarisky/api-with-activitypub/internal/clients/feed"
	"github.com/cathysarisky/api-with-activitypub/internal/clients/transport"
	"github.com/cathysarisky/api-with-activitypub/internal/config"
	"github.com/cathysarisky/api-with-activitypub/internal/credentials"
	"github.com/cathysarisky/api-with-activitypub/internal/metrics"
	"github.com/cathysarisky/api-with-activitypub/internal/pkg/redact"
	"github.com/cathysarisky/api-with-activitypub/internal/service"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// app - собранные зависимости одного процесса.
type app struct {
	cfg     *config.Config
	log     *slog.Logger
	metrics *metrics.Metrics
	svc     *service.Service
}

// bootstrap загружает конфиг и собирает пайплайн. Ошибки конфигурации
// и ключа возвращаются до любых сетевых вызовов.
func bootstrap(configPath string, logOut io.Writer, reg prometheus.Registerer) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log := setupLogger(cfg.Env, logOut)
	slog.SetDefault(log)

	signer, err := credentials.New(cfg.Ghost.AdminAPIKey)
	if err != nil {
		return nil, fmt.Errorf("admin key %s: %w", redact.AdminKey(cfg.Ghost.AdminAPIKey), err)
	}

	m := metrics.New(reg)

	httpClient := transport.NewClient(transport.Options{
		Logger:    log,
		Metrics:   m,
		UserAgent: "social-stats/" + Version,
		Timeout:   cfg.Timeouts.Request,
	})

	adminClient := admin.New(cfg.Ghost.AdminURL, cfg.Ghost.AcceptVersion, signer, httpClient)
	feedClient := feed.New(cfg.Ghost.ActivityPubURL(), httpClient)

	var fw service.Forwarder
	if cfg.Analytics.Enabled() {
		f, err := analytics.New(cfg.Analytics, httpClient, m)
		if err != nil {
			return nil, fmt.Errorf("analytics: %w", err)
		}
		fw = f
	}

	svc := service.New(adminClient, feedClient, fw, cfg.Ghost.UserHandle)
	svc.SetMetrics(m)

	log.Info("pipeline_initialized",
		slog.String("env", cfg.Env),
		slog.String("admin_url", cfg.Ghost.AdminURL),
		slog.String("activitypub_url", cfg.Ghost.ActivityPubURL()),
		slog.String("admin_key", redact.AdminKey(cfg.Ghost.AdminAPIKey)),
		slog.Bool("analytics", fw != nil),
	)

	return &app{cfg: cfg, log: log, metrics: m, svc: svc}, nil
}

func setupLogger(env string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}

	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
