// transport собирает *http.Client для исходящих вызовов к Ghost и аналитике:
// цепочка RoundTripper-мидлваров metadata -> logging поверх otelhttp.
package transport

import (
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/cathysarisky/api-with-activitypub/internal/metrics"
)

// Options - параметры исходящего клиента.
type Options struct {
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	UserAgent string
	// Timeout - таймаут одного запроса; <=0 - без таймаута.
	Timeout time.Duration
}

// Middleware - мидлвар над http.RoundTripper.
type Middleware func(http.RoundTripper) http.RoundTripper

// RoundTripperFunc - адаптер функции к http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// Chain применяет мидлвары в порядке перечисления (первый - внешний).
func Chain(rt http.RoundTripper, mws ...Middleware) http.RoundTripper {
	for i := len(mws) - 1; i >= 0; i-- {
		rt = mws[i](rt)
	}
	return rt
}

// NewClient создаёт клиент с трассировкой, метаданными и логированием.
func NewClient(opts Options) *http.Client {
	base := otelhttp.NewTransport(http.DefaultTransport.(*http.Transport).Clone())

	return &http.Client{
		Timeout: opts.Timeout,
		Transport: Chain(base,
			WithMetadata(opts.UserAgent),
			WithLogging(opts.Logger, opts.Metrics),
		),
	}
}
