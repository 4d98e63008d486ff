package sqlite

import (
	"context"
	"database/sql"

	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/repository"
)

type statsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new StatsRepository implementation
func NewStatsRepository(db *sql.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) FlashcardStats(ctx context.Context, userID int64) ([]models.FlashcardStat, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("fetching flashcard stats: user_id=%d", userID)

	// The user filter belongs in the join condition; in WHERE it would drop unanswered cards.
	query, args, err := sqlBuilder.
		Select("f.id", "f.question", "a.is_correct").
		From("flashcards f").
		LeftJoin("answers a ON a.flashcard_id = f.id AND a.user_id = ?", userID).
		OrderBy("f.id ASC").
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query flashcard stats: %v", err)
		return nil, err
	}
	defer rows.Close()

	var stats []models.FlashcardStat
	for rows.Next() {
		var s models.FlashcardStat
		var isCorrect sql.NullBool
		if err := rows.Scan(&s.ID, &s.Question, &isCorrect); err != nil {
			log.Error("failed to scan flashcard stat row: %v", err)
			return nil, err
		}
		if isCorrect.Valid {
			s.Correctness = models.CorrectnessOf(&isCorrect.Bool)
		} else {
			s.Correctness = models.CorrectnessOf(nil)
		}
		stats = append(stats, s)
	}
	log.Debug("found %d flashcard stats", len(stats))
	return stats, rows.Err()
}
