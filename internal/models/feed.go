// models содержит сущности пайплайна: элементы ActivityPub-ленты,
// проекции (заметки/статьи) и итоговый отчёт.
//
// Все сущности транзиентны: создаются на один прогон и нигде не хранятся.
package models

import (
	"bytes"
	"encoding/json"
	"math"
)

// ItemType - дискриминант типа элемента ленты.
type ItemType int

const (
	// ItemNote - короткая заметка (note).
	ItemNote ItemType = 0
	// ItemArticle - статья (article).
	ItemArticle ItemType = 1
)

// Count - неотрицательный счётчик из ленты (лайки/репосты/ответы).
//
// Декодирование терпимо к мусору: null, отсутствие поля, строка или
// отрицательное значение дают 0, дробное число усекается, слишком большое
// прижимается к MaxCount.
type Count int

// MaxCount - наибольшее целое, точно представимое в JSON-числе (2^53-1).
// Сумма таких счётчиков по ленте не переполняет int64.
const MaxCount Count = 1<<53 - 1

// UnmarshalJSON реализует json.Unmarshaler.
func (c *Count) UnmarshalJSON(data []byte) error {
	*c = 0

	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] < '-' || data[0] > '9' {
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		// число вне диапазона float64 (например, 1e400)
		if data[0] != '-' {
			*c = MaxCount
		}
		return nil
	}

	if f <= 0 || math.IsNaN(f) {
		return nil
	}
	if f >= float64(MaxCount) {
		*c = MaxCount
		return nil
	}

	*c = Count(f)
	return nil
}

// Author - автор элемента ленты.
type Author struct {
	Handle string `json:"handle"`
	Name   string `json:"name"`
}

// Attachment - вложение элемента ленты.
type Attachment struct {
	Type string `json:"type"`
	URL  string `json:"url"`
	Name string `json:"name,omitempty"`
}

// FeedItem - один пост из ActivityPub API (posts/me).
//
// Type - указатель: отсутствующий тип не должен трактоваться как заметка.
type FeedItem struct {
	ID           string       `json:"id"`
	Type         *ItemType    `json:"type"`
	AuthoredByMe bool         `json:"authoredByMe"`
	Author       *Author      `json:"author"`
	Content      string       `json:"content"`
	LikeCount    Count        `json:"likeCount"`
	RepostCount  Count        `json:"repostCount"`
	ReplyCount   Count        `json:"replyCount"`
	PublishedAt  string       `json:"publishedAt"`
	URL          string       `json:"url"`
	Attachments  []Attachment `json:"attachments"`
}

// Is сообщает, имеет ли элемент тип kind.
func (i FeedItem) Is(kind ItemType) bool {
	return i.Type != nil && *i.Type == kind
}

// Page - одна страница ленты.
// Next - непрозрачный курсор или абсолютный URL; пустой, если страниц больше нет.
type Page struct {
	Posts []FeedItem `json:"posts"`
	Next  string     `json:"next"`
}
