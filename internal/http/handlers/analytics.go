package handlers

import (
	"net/http"

	apierrors "github.com/cathysarisky/api-with-activitypub/internal/errors"
	"github.com/cathysarisky/api-with-activitypub/internal/models"
)

func (h *Handlers) SyncAnalytics(w http.ResponseWriter, r *http.Request) {
	sent, err := h.Pipeline.SyncAnalytics(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.NewSyncResponse(sent, h.now()))
}
