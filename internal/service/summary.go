package service

import (
	"math/big"

	"github.com/cathysarisky/api-with-activitypub/internal/models"
)

// Summarize считает сводку по заметкам. totalPosts - размер всей ленты
// до фильтрации.
func Summarize(totalPosts int, notes []models.Note) models.Summary {
	sum := models.Summary{
		TotalPosts: totalPosts,
		TotalNotes: len(notes),
	}

	for _, n := range notes {
		sum.TotalLikes += n.LikeCount
		sum.TotalReposts += n.RepostCount
		sum.TotalReplies += n.ReplyCount
		sum.TotalImages += len(n.Images)
	}

	if sum.TotalNotes > 0 {
		sum.AverageLikesPerNote = round1(float64(sum.TotalLikes) / float64(sum.TotalNotes))
	}

	return sum
}

// round1 округляет до одного знака после запятой по точному двоичному
// значению x: 1.45 хранится как 1.4499... и даёт 1.4, ровная половина
// (0.25) округляется вверх. Так же округляет Number.prototype.toFixed(1).
func round1(x float64) float64 {
	v := new(big.Float).SetPrec(128).SetFloat64(x)
	v.Mul(v, big.NewFloat(10))

	n, _ := v.Int(nil)
	frac := new(big.Float).SetPrec(128).Sub(v, new(big.Float).SetInt(n))
	if frac.Cmp(big.NewFloat(0.5)) >= 0 {
		n.Add(n, big.NewInt(1))
	}

	f, _ := new(big.Float).SetInt(n).Float64()
	return f / 10
}
