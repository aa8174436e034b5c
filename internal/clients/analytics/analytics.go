// analytics отправляет снимки статистики статей в приёмник событий
// (PostHog capture API): одно событие на статью.
//
// Ошибка доставки отдельного события не фатальна: она логируется,
// и отправка продолжается со следующего элемента.
package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/cathysarisky/api-with-activitypub/internal/clients/transport"
	"github.com/cathysarisky/api-with-activitypub/internal/config"
	"github.com/cathysarisky/api-with-activitypub/internal/metrics"
	"github.com/cathysarisky/api-with-activitypub/internal/models"
	"github.com/cathysarisky/api-with-activitypub/internal/pkg/log"
)

// ErrNotConfigured - не задан URL или токен приёмника.
var ErrNotConfigured = errors.New("analytics url and token are required")

// Event - тело capture-запроса.
type Event struct {
	APIKey     string         `json:"api_key"`
	Event      string         `json:"event"`
	DistinctID string         `json:"distinct_id"`
	Properties map[string]any `json:"properties"`
	Timestamp  string         `json:"timestamp"`
	UUID       string         `json:"uuid"`
}

// Forwarder - отправитель событий.
type Forwarder struct {
	cfg     config.AnalyticsConfig
	http    *http.Client
	metrics *metrics.Metrics
	now     func() time.Time
	newID   func() string
}

// New проверяет конфигурацию до любых сетевых вызовов.
func New(cfg config.AnalyticsConfig, client *http.Client, m *metrics.Metrics) (*Forwarder, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	return &Forwarder{
		cfg:     cfg,
		http:    client,
		metrics: m,
		now:     time.Now,
		newID:   uuid.NewString,
	}, nil
}

// Forward отправляет по событию на каждую статью и возвращает число попыток.
// Все события одного вызова получают общий timestamp.
func (f *Forwarder) Forward(ctx context.Context, posts []models.PostSummary) int {
	const op = "analytics.Forward"

	lg := log.From(ctx).With(slog.String("op", op))
	ts := f.now().UTC().Format(models.TimestampLayout)

	var failed int
	for _, p := range posts {
		if err := f.send(ctx, f.event(p, ts)); err != nil {
			failed++
			f.metrics.AnalyticsEvent(false)
			lg.Warn("analytics_capture_failed",
				slog.String("url", p.URL),
				slog.String("err", err.Error()),
			)
			continue
		}

		f.metrics.AnalyticsEvent(true)
	}

	lg.Info("analytics_forwarded",
		slog.String("event", f.cfg.Event),
		slog.Int("attempted", len(posts)),
		slog.Int("failed", failed),
	)

	return len(posts)
}

func (f *Forwarder) event(p models.PostSummary, ts string) Event {
	return Event{
		APIKey:     f.cfg.Token,
		Event:      f.cfg.Event,
		DistinctID: f.cfg.DistinctID,
		Properties: map[string]any{
			"$process_person_profile": false,
			"$current_url":            p.URL,
			"social_like_count":       p.LikeCount,
			"repost_count":            p.RepostCount,
			"source":                  f.cfg.Source,
		},
		Timestamp: ts,
		UUID:      f.newID(),
	}
}

func (f *Forwarder) send(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new_request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.http.Do(req)
	if err != nil {
		return fmt.Errorf("do: %w", err)
	}
	defer resp.Body.Close()

	if !transport.IsSuccess(resp.StatusCode) {
		return transport.NewAPIError("analytics", resp)
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
