package render

import (
	"fmt"
	"io"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/charmbracelet/lipgloss"

	"github.com/cathysarisky/api-with-activitypub/internal/models"
)

// maxContent - сколько рун заметки показывать в текстовом отчёте.
const maxContent = 200

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	noteStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	linkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))
)

// Text печатает сводку и заметки. HTML заметок переводится в markdown.
func Text(w io.Writer, r *models.Report) error {
	conv := md.NewConverter("", true, nil)

	var b strings.Builder

	b.WriteString(titleStyle.Render("Social stats"))
	b.WriteString("\n")
	if !r.GeneratedAt.IsZero() {
		b.WriteString(labelStyle.Render("generated " + r.GeneratedAt.UTC().Format(models.TimestampLayout)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	s := r.Summary
	fmt.Fprintf(&b, "%s %d   %s %d   %s %d   %s %d   %s %d   %s %d   %s %.1f\n",
		labelStyle.Render("posts"), s.TotalPosts,
		labelStyle.Render("notes"), s.TotalNotes,
		labelStyle.Render("likes"), s.TotalLikes,
		labelStyle.Render("reposts"), s.TotalReposts,
		labelStyle.Render("replies"), s.TotalReplies,
		labelStyle.Render("images"), s.TotalImages,
		labelStyle.Render("avg likes/note"), s.AverageLikesPerNote,
	)

	if len(r.Notes) == 0 {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("No notes authored by you found"))
		b.WriteString("\n")
	}

	for _, n := range r.Notes {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s  likes %d · reposts %d · replies %d · images %d\n",
			titleStyle.Render(n.PublishedAt),
			n.LikeCount, n.RepostCount, n.ReplyCount, len(n.Images),
		)

		if a := author(n.Author); a != "" {
			b.WriteString(noteStyle.Render(labelStyle.Render("author") + " " + a))
			b.WriteString("\n")
		}

		if text := plain(conv, n.Content); text != "" {
			b.WriteString(noteStyle.Render(truncate(text, maxContent)))
			b.WriteString("\n")
		}

		if len(n.Images) == 0 {
			b.WriteString(noteStyle.Render(labelStyle.Render("images: none")))
			b.WriteString("\n")
		} else {
			b.WriteString(noteStyle.Render(labelStyle.Render(fmt.Sprintf("images (%d):", len(n.Images)))))
			b.WriteString("\n")
			for i, img := range n.Images {
				fmt.Fprintf(&b, "    %d. %s: %s\n", i+1, img.Name, linkStyle.Render(img.URL))
			}
		}

		if n.URL != "" {
			b.WriteString(noteStyle.Render(linkStyle.Render(n.URL)))
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// author - "имя (хэндл)"; пустые части опускаются.
func author(a models.Author) string {
	switch {
	case a.Name != "" && a.Handle != "":
		return a.Name + " (" + a.Handle + ")"
	case a.Name != "":
		return a.Name
	default:
		return a.Handle
	}
}

// plain переводит HTML заметки в markdown; при ошибке отдаёт исходник.
func plain(conv *md.Converter, html string) string {
	out, err := conv.ConvertString(html)
	if err != nil {
		return strings.TrimSpace(html)
	}

	return strings.TrimSpace(out)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n]) + "…"
}
