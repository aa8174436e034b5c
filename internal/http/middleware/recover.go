package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	apierrors "github.com/cathysarisky/api-with-activitypub/internal/errors"
	"github.com/cathysarisky/api-with-activitypub/internal/pkg/log"
)

// Recover превращает панику хендлера в 500 {error, message}.
// Причина и стек идут только в лог.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}

				log.From(r.Context()).Error("handler_panic",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Any("reason", rec),
					slog.String("stack", string(debug.Stack())),
				)
				apierrors.WriteError(w, r, nil)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
