package repository

import (
	"context"

	"github.com/vytor/quizflash/internal/models"
)

// StatsRepository handles statistics data access
type StatsRepository interface {
	// FlashcardStats returns every flashcard with the user's correctness on it, in insertion order.
	FlashcardStats(ctx context.Context, userID int64) ([]models.FlashcardStat, error)
}
