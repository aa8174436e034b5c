package service

import "github.com/cathysarisky/api-with-activitypub/internal/models"

// untitled - имя картинки без name.
const untitled = "Untitled"

// Classify отбирает элементы типа kind, опубликованные самим пользователем
// handle, и проецирует их через project. Порядок входа сохраняется.
//
// Результат никогда не nil: пустой отчёт сериализуется как [].
func Classify[T any](items []models.FeedItem, handle string, kind models.ItemType, project func(models.FeedItem) T) []T {
	out := make([]T, 0)
	for _, it := range items {
		if !ownedBy(it, handle, kind) {
			continue
		}

		out = append(out, project(it))
	}

	return out
}

// ClassifyNotes - заметки пользователя handle.
func ClassifyNotes(items []models.FeedItem, handle string) []models.Note {
	return Classify(items, handle, models.ItemNote, toNote)
}

// ClassifyPosts - статьи пользователя handle.
func ClassifyPosts(items []models.FeedItem, handle string) []models.PostSummary {
	return Classify(items, handle, models.ItemArticle, toPostSummary)
}

func ownedBy(it models.FeedItem, handle string, kind models.ItemType) bool {
	return it.Is(kind) &&
		it.AuthoredByMe &&
		it.Author != nil &&
		it.Author.Handle == handle
}

func toNote(it models.FeedItem) models.Note {
	n := models.Note{
		ID:          it.ID,
		Content:     it.Content,
		LikeCount:   int(it.LikeCount),
		RepostCount: int(it.RepostCount),
		ReplyCount:  int(it.ReplyCount),
		PublishedAt: it.PublishedAt,
		URL:         it.URL,
		Images:      images(it.Attachments),
	}

	if it.Author != nil {
		n.Author = models.Author{Handle: it.Author.Handle, Name: it.Author.Name}
	}

	return n
}

func toPostSummary(it models.FeedItem) models.PostSummary {
	return models.PostSummary{
		URL:         it.URL,
		LikeCount:   int(it.LikeCount),
		RepostCount: int(it.RepostCount),
	}
}

// images оставляет только вложения типа Image.
func images(atts []models.Attachment) []models.Image {
	out := make([]models.Image, 0, len(atts))
	for _, a := range atts {
		if a.Type != "Image" {
			continue
		}

		name := a.Name
		if name == "" {
			name = untitled
		}

		out = append(out, models.Image{URL: a.URL, Name: name})
	}

	return out
}
