package flashcard

import (
	"math"
	"strings"

	"github.com/vytor/quizflash/internal/models"
)

// Normalize is the comparison form of names and answers: trimmed and lowercased.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Matches reports whether submitted equals the canonical answer after normalization.
func Matches(canonical, submitted string) bool {
	return Normalize(canonical) == Normalize(submitted)
}

// IsComplete reports whether every flashcard has been answered correctly.
// It is vacuously true for no flashcards; callers tell "nothing to practice" apart themselves.
func IsComplete(stats []models.FlashcardStat) bool {
	for _, s := range stats {
		if s.Correctness != models.Correct {
			return false
		}
	}
	return true
}

// Summarize counts stats by correctness. ok is false when there is nothing to summarize,
// in which case PercentCorrect is meaningless and should not be shown.
func Summarize(stats []models.FlashcardStat) (summary models.StatsSummary, ok bool) {
	summary.Total = len(stats)
	if summary.Total == 0 {
		return summary, false
	}
	for _, s := range stats {
		switch s.Correctness {
		case models.Correct:
			summary.Correct++
		case models.Incorrect:
			summary.Incorrect++
		}
	}
	pct := float64(summary.Correct) * 100 / float64(summary.Total)
	summary.PercentCorrect = math.Round(pct*100) / 100
	return summary, true
}

// FindByID returns the stat row for id from already-fetched stats.
func FindByID(stats []models.FlashcardStat, id int64) (models.FlashcardStat, bool) {
	for _, s := range stats {
		if s.ID == id {
			return s, true
		}
	}
	return models.FlashcardStat{}, false
}
