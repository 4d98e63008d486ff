package models

import "time"

// Answer is the latest outcome of one user's attempt at one flashcard.
type Answer struct {
	UserID      int64     `json:"user_id"`
	FlashcardID int64     `json:"flashcard_id"`
	IsCorrect   bool      `json:"is_correct"`
	AnsweredAt  time.Time `json:"answered_at"`
}
