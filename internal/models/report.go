package models

import "time"

// Image - картинка, извлечённая из вложений заметки.
type Image struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// Note - проекция заметки для отчёта.
type Note struct {
	ID          string  `json:"id"`
	Content     string  `json:"content"`
	LikeCount   int     `json:"likeCount"`
	RepostCount int     `json:"repostCount"`
	ReplyCount  int     `json:"replyCount"`
	PublishedAt string  `json:"publishedAt"`
	URL         string  `json:"url"`
	Images      []Image `json:"images"`
	Author      Author  `json:"author"`
}

// PostSummary - проекция статьи для аналитики.
type PostSummary struct {
	URL         string `json:"url"`
	LikeCount   int    `json:"likeCount"`
	RepostCount int    `json:"repostCount"`
}

// Summary - сводная статистика по заметкам.
type Summary struct {
	TotalPosts          int     `json:"totalPosts"`
	TotalNotes          int     `json:"totalNotes"`
	TotalLikes          int     `json:"totalLikes"`
	TotalReposts        int     `json:"totalReposts"`
	TotalReplies        int     `json:"totalReplies"`
	TotalImages         int     `json:"totalImages"`
	AverageLikesPerNote float64 `json:"averageLikesPerNote"`
}

// Report - результат одного прогона пайплайна.
type Report struct {
	GeneratedAt time.Time `json:"-"`
	Summary     Summary   `json:"summary"`
	Notes       []Note    `json:"notes"`
}
