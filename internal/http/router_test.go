package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cathysarisky/api-with-activitypub/internal/clients/admin"
	"github.com/cathysarisky/api-with-activitypub/internal/clients/transport"
	"github.com/cathysarisky/api-with-activitypub/internal/models"
	"github.com/cathysarisky/api-with-activitypub/internal/service"
)

// stubPipeline - управляемый Pipeline для тестов роутера.
type stubPipeline struct {
	report  *models.Report
	sent    int
	replies json.RawMessage
	err     error
	panicOn any

	gotURL      string
	hasDeadline bool
}

func (s *stubPipeline) BuildReport(ctx context.Context) (*models.Report, error) {
	_, s.hasDeadline = ctx.Deadline()
	if s.panicOn != nil {
		panic(s.panicOn)
	}
	return s.report, s.err
}

func (s *stubPipeline) SyncAnalytics(context.Context) (int, error) {
	return s.sent, s.err
}

func (s *stubPipeline) Replies(_ context.Context, noteURL string) (json.RawMessage, error) {
	s.gotURL = noteURL
	return s.replies, s.err
}

func newTestRouter(p *stubPipeline, basePath string) http.Handler {
	return NewRouter(p, Options{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Timeout:  time.Second,
		BasePath: basePath,
	})
}

func do(t *testing.T, h http.Handler, method, target string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestGetNotes_OK(t *testing.T) {
	p := &stubPipeline{report: &models.Report{
		GeneratedAt: time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC),
		Summary:     models.Summary{TotalPosts: 3, TotalNotes: 1, TotalLikes: 4, AverageLikesPerNote: 4},
		Notes:       []models.Note{{ID: "n1", LikeCount: 4, Images: []models.Image{}}},
	}}

	rr := do(t, newTestRouter(p, ""), http.MethodGet, "/notes", map[string]string{"Origin": "https://example.com"})

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	require.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	require.NotEmpty(t, rr.Header().Get("X-Request-Id"))
	require.True(t, p.hasDeadline)

	var body models.NotesResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.Equal(t, "2025-09-01T10:00:00.000Z", body.Timestamp)
	require.Equal(t, 1, body.Summary.TotalNotes)
	require.Equal(t, "n1", body.Notes[0].ID)
}

func TestGetNotes_EmptyNotesSerializeAsArray(t *testing.T) {
	p := &stubPipeline{report: &models.Report{}}

	rr := do(t, newTestRouter(p, ""), http.MethodGet, "/notes", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `"notes": []`)
}

func TestGetNotes_ErrorMapping(t *testing.T) {
	tcs := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"no_identity", admin.ErrNoIdentity, http.StatusNotFound, "No identities found"},
		{"upstream", &transport.APIError{API: "activitypub", Status: 500, Body: "oops"}, http.StatusInternalServerError, "Internal Server Error"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(t, newTestRouter(&stubPipeline{err: tc.err}, ""), http.MethodGet, "/notes", nil)

			require.Equal(t, tc.wantStatus, rr.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			require.Equal(t, tc.wantError, body["error"])
			require.NotEmpty(t, body["message"])
		})
	}
}

func TestGetNotes_UnknownErrorMessageInBody(t *testing.T) {
	rr := do(t, newTestRouter(&stubPipeline{err: errors.New("boom")}, ""), http.MethodGet, "/notes", nil)

	require.Equal(t, http.StatusInternalServerError, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "boom", body["message"])
}

func TestGetNotes_UpstreamDetailsInBody(t *testing.T) {
	err := &transport.APIError{API: "activitypub", Status: 500, Body: map[string]any{"error": "boom"}}
	rr := do(t, newTestRouter(&stubPipeline{err: err}, ""), http.MethodGet, "/notes", nil)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, map[string]any{"error": "boom"}, body["details"])
}

func TestOptionsNotes_EmptyBody(t *testing.T) {
	rr := do(t, newTestRouter(&stubPipeline{}, ""), http.MethodOptions, "/notes", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Empty(t, rr.Body.String())
}

func TestPreflight_CORS(t *testing.T) {
	rr := do(t, newTestRouter(&stubPipeline{}, ""), http.MethodOptions, "/notes", map[string]string{
		"Origin":                         "https://example.com",
		"Access-Control-Request-Method":  http.MethodGet,
		"Access-Control-Request-Headers": "Content-Type",
	})

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), http.MethodGet)
	require.Empty(t, rr.Body.String())
}

func TestSyncAnalytics_OK(t *testing.T) {
	rr := do(t, newTestRouter(&stubPipeline{sent: 7}, ""), http.MethodPost, "/sync/analytics", nil)

	require.Equal(t, http.StatusOK, rr.Code)

	var body models.SyncResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, 7, body.Sent)
	require.NotEmpty(t, body.Timestamp)
}

func TestSyncAnalytics_NotConfigured(t *testing.T) {
	rr := do(t, newTestRouter(&stubPipeline{err: service.ErrAnalyticsNotConfigured}, ""), http.MethodPost, "/sync/analytics", nil)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestGetReplies(t *testing.T) {
	p := &stubPipeline{replies: json.RawMessage(`{"chain":[]}`)}
	h := newTestRouter(p, "")

	rr := do(t, h, http.MethodGet, "/notes/replies?url=https%3A%2F%2Fsite%2Fnote%2F1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"chain":[]}`, rr.Body.String())
	require.Equal(t, "https://site/note/1", p.gotURL)

	rr = do(t, h, http.MethodGet, "/notes/replies", nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestBasePath_Mount(t *testing.T) {
	p := &stubPipeline{report: &models.Report{}}
	h := newTestRouter(p, "/.netlify/functions")

	require.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/.netlify/functions/notes", nil).Code)
	require.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/notes", nil).Code)
}

func TestMethodNotAllowed(t *testing.T) {
	rr := do(t, newTestRouter(&stubPipeline{}, ""), http.MethodDelete, "/notes", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

// Паника хендлера логируется с request_id и попадает в access-лог как 500.
func TestRouter_PanicKeepsRequestIDAndAccessLog(t *testing.T) {
	var buf bytes.Buffer
	h := NewRouter(&stubPipeline{panicOn: "boom"}, Options{
		Logger:  slog.New(slog.NewJSONHandler(&buf, nil)),
		Timeout: time.Second,
	})

	rr := do(t, h, http.MethodGet, "/notes", map[string]string{"X-Request-Id": "rid-panic"})

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, "rid-panic", rr.Header().Get("X-Request-Id"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "Internal Server Error", body["error"])
	require.Equal(t, "rid-panic", body["request_id"])
	require.NotContains(t, rr.Body.String(), "boom")

	records := map[string]map[string]any{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec), line)
		records[rec["msg"].(string)] = rec
	}

	require.Contains(t, records, "handler_panic")
	require.Equal(t, "rid-panic", records["handler_panic"]["request_id"])

	require.Contains(t, records, "http")
	require.Equal(t, "rid-panic", records["http"]["request_id"])
	require.EqualValues(t, http.StatusInternalServerError, records["http"]["status"])
	require.Equal(t, "ERROR", records["http"]["level"])
}
