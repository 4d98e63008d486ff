package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/repository"
)

type flashcardRepository struct {
	db *sql.DB
}

// NewFlashcardRepository creates a new FlashcardRepository implementation
func NewFlashcardRepository(db *sql.DB) repository.FlashcardRepository {
	return &flashcardRepository{db: db}
}

func (r *flashcardRepository) Insert(ctx context.Context, c models.Flashcard, choices []models.Choice) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("inserting flashcard with %d choices", len(choices))

	var id int64
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `INSERT INTO flashcards (question, answer) VALUES (?, ?)`, c.Question, c.Answer)
		if err != nil {
			log.Error("failed to insert flashcard: %v", err)
			return err
		}
		id, err = res.LastInsertId()
		if err != nil {
			log.Error("failed to get flashcard id: %v", err)
			return err
		}
		if len(choices) == 0 {
			return nil
		}

		query := sqlBuilder.Insert("choices").Columns("flashcard_id", "title", "correct", "position")
		for i, ch := range choices {
			query = query.Values(id, ch.Title, ch.Correct, i)
		}
		stmt, args, err := query.ToSql()
		if err != nil {
			log.Error("failed to build choices insert: %v", err)
			return err
		}
		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			log.Error("failed to insert choices for flashcard %d: %v", id, err)
			return err
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	log.Debug("flashcard inserted: id=%d", id)
	return id, nil
}

func (r *flashcardRepository) Get(ctx context.Context, id int64) (*models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("getting flashcard: id=%d", id)

	var c models.Flashcard
	err := r.db.QueryRowContext(ctx, `
SELECT id, question, answer, created_at
FROM flashcards
WHERE id = ?
`, id).Scan(&c.ID, &c.Question, &c.Answer, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("flashcard not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get flashcard: %v", err)
		return nil, err
	}
	return &c, nil
}

func (r *flashcardRepository) List(ctx context.Context) ([]models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("listing flashcards")

	query, args, err := sqlBuilder.
		Select("id", "question", "answer", "created_at").
		From("flashcards").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list flashcards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var cards []models.Flashcard
	for rows.Next() {
		var c models.Flashcard
		if err := rows.Scan(&c.ID, &c.Question, &c.Answer, &c.CreatedAt); err != nil {
			log.Error("failed to scan flashcard row: %v", err)
			return nil, err
		}
		cards = append(cards, c)
	}
	log.Debug("found %d flashcards", len(cards))
	return cards, rows.Err()
}

func (r *flashcardRepository) Choices(ctx context.Context, flashcardID int64) ([]models.Choice, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("listing choices: flashcard_id=%d", flashcardID)

	query, args, err := sqlBuilder.
		Select("id", "flashcard_id", "title", "correct", "position").
		From("choices").
		Where(squirrel.Eq{"flashcard_id": flashcardID}).
		OrderBy("position ASC", "id ASC").
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list choices: %v", err)
		return nil, err
	}
	defer rows.Close()

	var choices []models.Choice
	for rows.Next() {
		var ch models.Choice
		if err := rows.Scan(&ch.ID, &ch.FlashcardID, &ch.Title, &ch.Correct, &ch.Position); err != nil {
			log.Error("failed to scan choice row: %v", err)
			return nil, err
		}
		choices = append(choices, ch)
	}
	log.Debug("found %d choices", len(choices))
	return choices, rows.Err()
}
