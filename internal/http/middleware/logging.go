package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cathysarisky/api-with-activitypub/internal/pkg/log"
)

// Logging кладёт request-scoped логгер в контекст и пишет одну запись на запрос.
// Уровень зависит от статуса: 5xx - Error, 4xx - Warn, прочее - Info.
func Logging(l *slog.Logger) Middleware {
	if l == nil {
		l = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLogger := l
			if rid := r.Header.Get(headerRequestID); rid != "" {
				reqLogger = reqLogger.With(slog.String("request_id", rid))
			}

			ctx := log.Into(r.Context(), reqLogger)
			r = r.WithContext(ctx)

			rec := &recorder{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(rec, r)

			status := rec.statusOrOK()

			log.From(ctx).LogAttrs(ctx, levelFor(status), "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Duration("dur", time.Since(start)),
				slog.Int("bytes", rec.bytes),
			)
		})
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// recorder запоминает фактически отправленный статус и число байт тела.
type recorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rw *recorder) WriteHeader(code int) {
	if rw.status == 0 {
		rw.status = code
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recorder) Write(p []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(p)
	rw.bytes += n
	return n, err
}

// statusOrOK - хендлер, не вызвавший WriteHeader, ответил 200.
func (rw *recorder) statusOrOK() int {
	if rw.status == 0 {
		return http.StatusOK
	}
	return rw.status
}

// Unwrap нужен http.ResponseController.
func (rw *recorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
