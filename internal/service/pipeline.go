package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cathysarisky/api-with-activitypub/internal/models"
	"github.com/cathysarisky/api-with-activitypub/internal/pkg/log"
)

// BuildReport выполняет полный прогон и возвращает отчёт по заметкам.
//
// Первая же ошибка (токен или любая страница ленты) прерывает прогон:
// частичный отчёт не возвращается.
func (s *Service) BuildReport(ctx context.Context) (*models.Report, error) {
	const op = "service.BuildReport"

	lg := log.From(ctx).With(slog.String("op", op))

	items, err := s.fetch(ctx)
	if err != nil {
		lg.Error("build_report_failed", failAttrs(ctx, err)...)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	notes := ClassifyNotes(items, s.handle)
	summary := Summarize(len(items), notes)
	s.metrics.SetNotes(len(notes))

	lg.Info("build_report_ok",
		slog.Int("items", len(items)),
		slog.Int("notes", summary.TotalNotes),
		slog.Int("likes", summary.TotalLikes),
	)

	return &models.Report{
		GeneratedAt: s.now().UTC(),
		Summary:     summary,
		Notes:       notes,
	}, nil
}

// SyncAnalytics выгружает статьи пользователя в аналитику.
// Возвращает число отправленных (попытанных) событий.
func (s *Service) SyncAnalytics(ctx context.Context) (int, error) {
	const op = "service.SyncAnalytics"

	if s.forwarder == nil {
		return 0, fmt.Errorf("%s: %w", op, ErrAnalyticsNotConfigured)
	}

	lg := log.From(ctx).With(slog.String("op", op))

	items, err := s.fetch(ctx)
	if err != nil {
		lg.Error("sync_analytics_failed", failAttrs(ctx, err)...)
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	posts := ClassifyPosts(items, s.handle)
	sent := s.forwarder.Forward(ctx, posts)

	lg.Info("sync_analytics_ok",
		slog.Int("items", len(items)),
		slog.Int("posts", len(posts)),
		slog.Int("sent", sent),
	)

	return sent, nil
}

// Replies возвращает ответы на заметку noteURL в виде, отданном API.
func (s *Service) Replies(ctx context.Context, noteURL string) (json.RawMessage, error) {
	const op = "service.Replies"

	noteURL = strings.TrimSpace(noteURL)
	if noteURL == "" {
		return nil, fmt.Errorf("%s: note url is required: %w", op, ErrInvalidArgument)
	}

	token, err := s.tokens.BearerToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: bearer_token: %w", op, err)
	}

	raw, err := s.feed.Replies(ctx, token, noteURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return raw, nil
}

// fetch получает токен и всю ленту.
func (s *Service) fetch(ctx context.Context) ([]models.FeedItem, error) {
	token, err := s.tokens.BearerToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("bearer_token: %w", err)
	}

	items, err := s.feed.FetchAll(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("fetch_feed: %w", err)
	}

	s.metrics.AddFeedItems(len(items))
	return items, nil
}

// failAttrs добавляет к ошибке причину отмены контекста (например, исчерпан
// бюджет прогона), если она есть.
func failAttrs(ctx context.Context, err error) []any {
	attrs := []any{slog.String("err", err.Error())}
	if cause := context.Cause(ctx); cause != nil {
		attrs = append(attrs, slog.String("cause", cause.Error()))
	}
	return attrs
}
