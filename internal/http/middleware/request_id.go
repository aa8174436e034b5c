package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/cathysarisky/api-with-activitypub/internal/clients/transport"
)

const headerRequestID = "X-Request-Id"

// RequestID обеспечивает наличие X-Request-Id:
//  1. берёт входящий заголовок, если он есть;
//  2. иначе генерирует UUID;
//  3. кладёт id в заголовки ответа и запроса и в контекст по ключу
//     transport.CtxRequestID (оттуда его берут исходящие вызовы к Ghost).
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(headerRequestID)
			if id == "" {
				id = uuid.NewString()
				r.Header.Set(headerRequestID, id)
			}
			w.Header().Set(headerRequestID, id)

			ctx := context.WithValue(r.Context(), transport.CtxRequestID, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
