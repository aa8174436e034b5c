package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/cathysarisky/api-with-activitypub/internal/models"
)

// Pipeline - то, что HTTP-слой вызывает у сервиса.
type Pipeline interface {
	BuildReport(ctx context.Context) (*models.Report, error)
	SyncAnalytics(ctx context.Context) (int, error)
	Replies(ctx context.Context, noteURL string) (json.RawMessage, error)
}

// Handlers агрегирует зависимости хендлеров.
type Handlers struct {
	Pipeline Pipeline
	now      func() time.Time
}

func New(p Pipeline) *Handlers {
	return &Handlers{Pipeline: p, now: time.Now}
}

// writeJSON - единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(value)
}
