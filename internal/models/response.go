package models

import "time"

// TimestampLayout - ISO 8601 с миллисекундами в UTC.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// NotesResponse - тело GET /notes.
type NotesResponse struct {
	Success   bool    `json:"success"`
	Timestamp string  `json:"timestamp"`
	Summary   Summary `json:"summary"`
	Notes     []Note  `json:"notes"`
}

// NewNotesResponse собирает ответ из отчёта.
func NewNotesResponse(r *Report) NotesResponse {
	notes := r.Notes
	if notes == nil {
		notes = []Note{}
	}

	return NotesResponse{
		Success:   true,
		Timestamp: r.GeneratedAt.UTC().Format(TimestampLayout),
		Summary:   r.Summary,
		Notes:     notes,
	}
}

// SyncResponse - тело POST /sync/analytics.
type SyncResponse struct {
	Sent      int    `json:"sent"`
	Timestamp string `json:"timestamp"`
}

// NewSyncResponse собирает ответ выгрузки.
func NewSyncResponse(sent int, at time.Time) SyncResponse {
	return SyncResponse{Sent: sent, Timestamp: at.UTC().Format(TimestampLayout)}
}
