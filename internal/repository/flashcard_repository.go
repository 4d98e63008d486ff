package repository

import (
	"context"

	"github.com/vytor/quizflash/internal/models"
)

// FlashcardRepository handles flashcard and choice data access
type FlashcardRepository interface {
	// Insert stores the flashcard and its choices in one transaction and returns the flashcard id.
	Insert(ctx context.Context, flashcard models.Flashcard, choices []models.Choice) (int64, error)
	Get(ctx context.Context, id int64) (*models.Flashcard, error)
	List(ctx context.Context) ([]models.Flashcard, error)
	Choices(ctx context.Context, flashcardID int64) ([]models.Choice, error)
}
