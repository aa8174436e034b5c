package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/cathysarisky/api-with-activitypub/internal/http/handlers"
	"github.com/cathysarisky/api-with-activitypub/internal/http/middleware"
)

// Options - параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/.netlify/functions"; если пустой - роуты на корне.
}

// NewRouter собирает http.Handler с chi, CORS, мидлварами и otel-инструментацией.
func NewRouter(p handlers.Pipeline, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		corsHandler(),
		middleware.RequestID(),          // до логирования, чтобы id попал в логгер
		middleware.Logging(opts.Logger), // request-scoped логгер в контексте
		middleware.Recover(),            // внутри Logging: паника видна в access-логе как 500
	)

	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // бюджет на весь прогон пайплайна
	}

	h := handlers.New(p)

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h)
		root.Mount(opts.BasePath, sub)
	} else {
		registerRoutes(root, h)
	}

	return otelhttp.NewHandler(root, "social-stats",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path)
		}),
	)
}

// registerRoutes - единая точка регистрации всех эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	// notes
	r.Get("/notes", h.GetNotes)
	r.Options("/notes", h.OptionsNotes)
	r.Get("/notes/replies", h.GetReplies)

	// analytics
	r.Post("/sync/analytics", h.SyncAnalytics)
}

// corsHandler разрешает любой origin: отчёт читается со статических страниц.
func corsHandler() func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:       []string{"*"},
		AllowedMethods:       []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:       []string{"Content-Type"},
		OptionsSuccessStatus: http.StatusOK,
	})

	return c.Handler
}
