// middleware - net/http мидлвары HTTP-ответчика: request id, логирование,
// восстановление после паники и бюджет времени на прогон пайплайна.
package middleware

import "net/http"

// Middleware - мидлвар уровня net/http, совместим с chi.Router.Use.
type Middleware func(http.Handler) http.Handler

// Chain оборачивает h так, что первый мидлвар в списке выполняется первым.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
