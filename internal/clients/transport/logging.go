package transport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cathysarisky/api-with-activitypub/internal/metrics"
	"github.com/cathysarisky/api-with-activitypub/internal/pkg/log"
)

// WithLogging - одна запись на исходящий вызов: msg="http_client",
// method/host/path/status/dur (+err при транспортной ошибке) и метрики.
//
// Логгер берётся из контекста запроса (pkg/log), base - запасной вариант.
// Заголовки и тело не логируются: в них токены.
func WithLogging(base *slog.Logger, m *metrics.Metrics) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()

			resp, err := next.RoundTrip(r)
			dur := time.Since(start)

			l := log.From(r.Context())
			if base != nil && l == slog.Default() {
				l = base
			}

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("host", r.URL.Host),
				slog.String("path", r.URL.Path),
				slog.String("request_id", r.Header.Get("X-Request-Id")),
				slog.Duration("dur", dur),
			}

			code := 0
			if err != nil {
				attrs = append(attrs, slog.String("err", err.Error()))
			} else {
				code = resp.StatusCode
				attrs = append(attrs, slog.Int("status", code))
			}

			m.ObserveUpstream(r.URL.Host, code, dur)
			l.LogAttrs(r.Context(), slog.LevelInfo, "http_client", attrs...)

			return resp, err
		})
	}
}
