package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/repository"
)

type answerRepository struct {
	db *sql.DB
}

// NewAnswerRepository creates a new AnswerRepository implementation
func NewAnswerRepository(db *sql.DB) repository.AnswerRepository {
	return &answerRepository{db: db}
}

// Upsert records the outcome, replacing any earlier one for the same user and flashcard.
// It is a single statement, so concurrent writers cannot produce a duplicate row.
func (r *answerRepository) Upsert(ctx context.Context, a models.Answer) error {
	log := logger.FromContext(ctx).WithPrefix("answer_repo")
	log.Debug("upserting answer: user_id=%d, flashcard_id=%d, is_correct=%t", a.UserID, a.FlashcardID, a.IsCorrect)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO answers (user_id, flashcard_id, is_correct)
VALUES (?, ?, ?)
ON CONFLICT(user_id, flashcard_id) DO UPDATE SET
    is_correct = excluded.is_correct,
    answered_at = CURRENT_TIMESTAMP
`, a.UserID, a.FlashcardID, a.IsCorrect)
	if err != nil {
		log.Error("failed to upsert answer: %v", err)
	}
	return err
}

func (r *answerRepository) DeleteForUser(ctx context.Context, userID int64) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("answer_repo")
	log.Debug("deleting answers: user_id=%d", userID)

	query, args, err := sqlBuilder.Delete("answers").Where(squirrel.Eq{"user_id": userID}).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to delete answers: %v", err)
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		log.Error("failed to count deleted answers: %v", err)
		return 0, err
	}
	log.Debug("deleted %d answers for user %d", n, userID)
	return n, nil
}
