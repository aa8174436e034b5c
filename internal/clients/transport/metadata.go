package transport

import (
	"net/http"

	"github.com/google/uuid"
)

type CtxKey string

const (
	CtxRequestID CtxKey = "request_id"
)

// WithMetadata - добавляет в исходящий запрос заголовки:
//   - X-Request-Id (из контекста; если нет - новый UUID),
//   - User-Agent (если передан параметром и не задан вызывающим).
//
// Исходный *http.Request не модифицируется.
func WithMetadata(userAgent string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			out := r.Clone(r.Context())

			if out.Header.Get("X-Request-Id") == "" {
				rid, _ := r.Context().Value(CtxRequestID).(string)
				if rid == "" {
					rid = uuid.NewString()
				}
				out.Header.Set("X-Request-Id", rid)
			}

			if userAgent != "" && out.Header.Get("User-Agent") == "" {
				out.Header.Set("User-Agent", userAgent)
			}

			return next.RoundTrip(out)
		})
	}
}
