package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// ErrRunBudget - причина отмены, когда прогон пайплайна не уложился в бюджет.
var ErrRunBudget = errors.New("pipeline run budget exceeded")

// Timeout ограничивает весь прогон пайплайна (все страницы ленты) бюджетом d.
// Уже заданный deadline не трогает; d <= 0 отключает мидлвар.
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if _, has := ctx.Deadline(); !has {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeoutCause(ctx, d, ErrRunBudget)
				defer cancel()
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
