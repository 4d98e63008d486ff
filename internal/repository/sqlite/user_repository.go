package sqlite

import (
	"context"
	"database/sql"

	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository implementation
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindOrCreate returns the user called name, inserting it first if needed.
// An existing row is never rewritten.
func (r *userRepository) FindOrCreate(ctx context.Context, name string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("find or create user: name=%s", name)

	var u models.User
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `INSERT INTO users (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, name)
		if err != nil {
			log.Error("failed to insert user: %v", err)
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			log.Info("created user: name=%s", name)
		}
		return tx.QueryRowContext(ctx, `
SELECT id, name, created_at
FROM users
WHERE name = ?
`, name).Scan(&u.ID, &u.Name, &u.CreatedAt)
	})
	if err != nil {
		log.Error("failed to find or create user: %v", err)
		return nil, err
	}
	log.Debug("user resolved: id=%d", u.ID)
	return &u, nil
}
