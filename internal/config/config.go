// config - источник загрузки конфигурации social-stats.
//
// Источники (по убыванию приоритета):
//  1. явный путь --config;
//  2. CONFIG_PATH;
//  3. ./local.yaml;
//  4. только ENV (cleanenv).
//
// Значения передаются в конструкторы явно; пакеты ниже по стеку
// переменные окружения не читают.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// ErrInvalid - обязательное значение отсутствует или некорректно.
// Фатально: проверяется до любых сетевых вызовов.
var ErrInvalid = errors.New("invalid config")

// activityPubPath - путь ActivityPub API относительно сайта Ghost.
const activityPubPath = "/.ghost/activitypub/v1"

type Config struct {
	Env       string          `yaml:"env" env:"ENV" env-default:"local"`
	HTTP      HTTPConfig      `yaml:"http"`
	Ghost     GhostConfig     `yaml:"ghost"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Timeouts  TimeoutConfig   `yaml:"timeouts"`
	Tracing   TracingConfig   `yaml:"tracing"`
}

// TimeoutConfig - таймауты.
// Service - дедлайн HTTP-запроса к сервису целиком, Request - одного исходящего вызова.
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"60s"`
	Request time.Duration `yaml:"request" env:"REQUEST_TIMEOUT" env-default:"15s"`
}

// HTTPConfig - публичный HTTP-сервер.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8888"`
}

func (h HTTPConfig) Addr() string { return net.JoinHostPort(h.Host, h.Port) }

// GhostConfig - admin API и ActivityPub API сайта Ghost.
type GhostConfig struct {
	AdminURL      string `yaml:"admin_url"      env:"GHOST_ADMIN_API_URL"`
	AdminAPIKey   string `yaml:"admin_api_key"  env:"GHOST_ADMIN_API_KEY"`
	AcceptVersion string `yaml:"accept_version" env:"GHOST_ACCEPT_VERSION" env-default:"v5.0"`
	// FeedURL - база ActivityPub API; пусто - выводится из AdminURL.
	FeedURL    string `yaml:"feed_url"    env:"ACTIVITYPUB_URL"`
	UserHandle string `yaml:"user_handle" env:"ACTIVITYPUB_HANDLE"`
}

// ActivityPubURL возвращает базу ActivityPub API без завершающего '/'.
func (g GhostConfig) ActivityPubURL() string {
	if g.FeedURL != "" {
		return strings.TrimRight(g.FeedURL, "/")
	}

	return strings.TrimRight(g.AdminURL, "/") + activityPubPath
}

// AnalyticsConfig - приёмник событий аналитики (PostHog capture).
type AnalyticsConfig struct {
	URL        string `yaml:"url"         env:"POSTHOG_URL"`
	Token      string `yaml:"token"       env:"POSTHOG_TOKEN"`
	Event      string `yaml:"event"       env:"ANALYTICS_EVENT"       env-default:"social_stats_snapshot"`
	DistinctID string `yaml:"distinct_id" env:"ANALYTICS_DISTINCT_ID" env-default:"social_sync_bot"`
	Source     string `yaml:"source"      env:"ANALYTICS_SOURCE"      env-default:"social_sync_bot"`
}

// Enabled - заданы ли URL и токен приёмника.
func (a AnalyticsConfig) Enabled() bool {
	return a.URL != "" && a.Token != ""
}

// TracingConfig - экспорт трейсов по OTLP/gRPC. Пустой Endpoint - экспорт выключен.
type TracingConfig struct {
	Endpoint    string `yaml:"otlp_endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName string `yaml:"service_name"  env:"OTEL_SERVICE_NAME" env-default:"social-stats"`
	Insecure    bool   `yaml:"insecure"      env:"OTEL_EXPORTER_OTLP_INSECURE" env-default:"true"`
}

// Enabled - задан ли OTLP endpoint.
func (t TracingConfig) Enabled() bool {
	return t.Endpoint != ""
}

func Load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}

		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		return &cfg, nil
	}

	var (
		out *Config
		err error
	)

	switch envPath := os.Getenv("CONFIG_PATH"); {
	// 1) --config
	case path != "":
		out, err = tryRead(path)
	// 2) CONFIG_PATH
	case envPath != "":
		out, err = tryRead(envPath)
	default:
		// 3) ./local.yaml
		if _, statErr := os.Stat("local.yaml"); statErr == nil {
			if err := cleanenv.ReadConfig("local.yaml", &cfg); err != nil {
				return nil, fmt.Errorf("failed to read local.yaml: %w", err)
			}
			out = &cfg
			break
		}

		// 4) только ENV
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
		}
		out = &cfg
	}

	if err != nil {
		return nil, err
	}

	if err := out.Validate(); err != nil {
		return nil, err
	}

	return out, nil
}

// Validate - обязательные значения для любого прогона пайплайна.
// Формат admin-ключа (id:secret) проверяет пакет credentials.
func (c *Config) Validate() error {
	if c.Ghost.AdminURL == "" {
		return fmt.Errorf("%w: ghost.admin_url (GHOST_ADMIN_API_URL) is required", ErrInvalid)
	}

	u, err := url.Parse(c.Ghost.AdminURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: ghost.admin_url must be an absolute http(s) URL", ErrInvalid)
	}

	if c.Ghost.AdminAPIKey == "" {
		return fmt.Errorf("%w: ghost.admin_api_key (GHOST_ADMIN_API_KEY) is required", ErrInvalid)
	}

	if c.Ghost.UserHandle == "" {
		return fmt.Errorf("%w: ghost.user_handle (ACTIVITYPUB_HANDLE) is required", ErrInvalid)
	}

	if c.Timeouts.Request <= 0 {
		return fmt.Errorf("%w: timeouts.request must be > 0", ErrInvalid)
	}

	return nil
}
