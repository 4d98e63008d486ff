package repository

import (
	"context"

	"github.com/vytor/quizflash/internal/models"
)

// AnswerRepository handles answer data access. There is at most one answer per (user, flashcard).
type AnswerRepository interface {
	Upsert(ctx context.Context, answer models.Answer) error
	DeleteForUser(ctx context.Context, userID int64) (int64, error)
}
