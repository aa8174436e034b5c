package handlers

import (
	"net/http"

	apierrors "github.com/cathysarisky/api-with-activitypub/internal/errors"
	"github.com/cathysarisky/api-with-activitypub/internal/models"
	"github.com/cathysarisky/api-with-activitypub/internal/service"
)

func (h *Handlers) GetNotes(w http.ResponseWriter, r *http.Request) {
	report, err := h.Pipeline.BuildReport(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.NewNotesResponse(report))
}

// OptionsNotes отвечает на preflight без тела. CORS-заголовки ставит
// мидлвар уровня роутера.
func (h *Handlers) OptionsNotes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) GetReplies(w http.ResponseWriter, r *http.Request) {
	noteURL := r.URL.Query().Get("url")
	if noteURL == "" {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	raw, err := h.Pipeline.Replies(r.Context(), noteURL)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, raw)
}
