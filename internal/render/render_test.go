package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cathysarisky/api-with-activitypub/internal/models"
)

func sampleReport() *models.Report {
	return &models.Report{
		GeneratedAt: time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC),
		Summary: models.Summary{
			TotalPosts:          4,
			TotalNotes:          2,
			TotalLikes:          7,
			TotalReposts:        1,
			TotalReplies:        2,
			TotalImages:         1,
			AverageLikesPerNote: 3.5,
		},
		Notes: []models.Note{
			{
				ID:          "n1",
				Content:     "<p>Hello <strong>fediverse</strong></p>",
				LikeCount:   3,
				PublishedAt: "2025-08-30T09:00:00Z",
				URL:         "https://site/.ghost/activitypub/note/1",
				Images:      []models.Image{{URL: "u1", Name: "Untitled"}},
				Author:      models.Author{Handle: "@me@site", Name: "Me"},
			},
			{
				ID:          "n2",
				Content:     "<p>" + strings.Repeat("я", 300) + "</p>",
				LikeCount:   4,
				PublishedAt: "123",
				Images:      []models.Image{},
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tcs := []struct {
		in   string
		want Format
		err  bool
	}{
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"xml", "", true},
	}

	for _, tc := range tcs {
		got, err := ParseFormat(tc.in)
		if tc.err {
			require.ErrorIs(t, err, ErrUnknownFormat)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tc.want, got)
	}
}

func TestText_SummaryAndNotes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, sampleReport()))

	out := buf.String()
	require.Contains(t, out, "Social stats")
	require.Contains(t, out, "notes")
	require.Contains(t, out, "3.5")
	require.Contains(t, out, "Hello **fediverse**")
	require.Contains(t, out, "https://site/.ghost/activitypub/note/1")
	require.NotContains(t, out, "<strong>")
}

func TestText_TruncatesLongContent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, sampleReport()))

	require.Contains(t, buf.String(), strings.Repeat("я", maxContent)+"…")
	require.NotContains(t, buf.String(), strings.Repeat("я", maxContent+1))
}

func TestText_EmptyReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, &models.Report{}))
	require.Contains(t, buf.String(), "Social stats")
	require.NotContains(t, buf.String(), "generated")
	require.Contains(t, buf.String(), "No notes authored by you found")
}

func TestText_AuthorAndNumberedImages(t *testing.T) {
	r := sampleReport()
	r.Notes[0].Images = append(r.Notes[0].Images, models.Image{URL: "u2", Name: "Second"})

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, r))

	out := buf.String()
	require.Contains(t, out, "Me (@me@site)")
	require.Contains(t, out, "images (2):")
	require.Contains(t, out, "1. Untitled: u1")
	require.Contains(t, out, "2. Second: u2")
	require.Less(t, strings.Index(out, "1. Untitled"), strings.Index(out, "2. Second"))

	// у второй заметки нет ни автора, ни картинок
	second := out[strings.Index(out, "123  "):]
	require.Contains(t, second, "images: none")
	require.NotContains(t, second, "author")
	require.NotContains(t, out, "No notes authored by you found")
}

func TestJSON_MatchesHTTPShape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, sampleReport()))

	var got models.NotesResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.True(t, got.Success)
	require.Equal(t, "2025-09-01T10:00:00.000Z", got.Timestamp)
	require.Equal(t, 2, got.Summary.TotalNotes)
	require.Len(t, got.Notes, 2)
}

func TestYAML_BlockStyleAndKeyOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, YAML(&buf, sampleReport()))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "success: true\ntimestamp: "), out)
	require.Less(t, strings.Index(out, "summary:"), strings.Index(out, "notes:"))
	require.Contains(t, out, "  totalPosts: 4\n")
	require.Contains(t, out, "publishedAt: \"123\"")
	require.NotContains(t, out, "{")

	var back map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	require.Equal(t, true, back["success"])
	require.Equal(t, "2025-09-01T10:00:00.000Z", back["timestamp"])
}

func TestWrite_Dispatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleReport()))
	require.True(t, json.Valid(buf.Bytes()))

	require.ErrorIs(t, Write(&buf, Format("xml"), sampleReport()), ErrUnknownFormat)
}
