// service содержит пайплайн отчёта: токен → лента → классификация → сводка,
// а также выгрузку статей в аналитику.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/cathysarisky/api-with-activitypub/internal/metrics"
	"github.com/cathysarisky/api-with-activitypub/internal/models"
)

//go:generate mockgen -source=service.go -destination=../../mocks/mock_service.go -package=mocks

var (
	// ErrInvalidArgument - некорректные входные аргументы.
	// Транспорт: 400.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrAnalyticsNotConfigured - выгрузка запрошена, но приёмник не настроен.
	// Транспорт: 500.
	ErrAnalyticsNotConfigured = errors.New("analytics is not configured")
)

// TokenSource выдаёт bearer-токен ActivityPub API.
type TokenSource interface {
	BearerToken(ctx context.Context) (string, error)
}

// FeedSource - ActivityPub API.
type FeedSource interface {
	FetchAll(ctx context.Context, bearer string) ([]models.FeedItem, error)
	Replies(ctx context.Context, bearer, noteURL string) (json.RawMessage, error)
}

// Forwarder отправляет проекции статей в аналитику и возвращает число попыток.
type Forwarder interface {
	Forward(ctx context.Context, posts []models.PostSummary) int
}

// Service - описывает пайплайн одного прогона.
type Service struct {
	tokens    TokenSource
	feed      FeedSource
	forwarder Forwarder
	handle    string
	metrics   *metrics.Metrics
	now       func() time.Time
}

// New создает новый экземпляр Service. forwarder может быть nil -
// тогда SyncAnalytics возвращает ErrAnalyticsNotConfigured.
func New(tokens TokenSource, feed FeedSource, forwarder Forwarder, handle string) *Service {
	return &Service{
		tokens:    tokens,
		feed:      feed,
		forwarder: forwarder,
		handle:    handle,
		now:       time.Now,
	}
}

// SetMetrics подключает метрики пайплайна.
func (s *Service) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}
