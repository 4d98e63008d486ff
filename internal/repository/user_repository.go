package repository

import (
	"context"

	"github.com/vytor/quizflash/internal/models"
)

// UserRepository handles user data access
type UserRepository interface {
	FindOrCreate(ctx context.Context, name string) (*models.User, error)
}
