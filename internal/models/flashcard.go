package models

import "time"

// Flashcard is a question with its canonical answer.
type Flashcard struct {
	ID        int64     `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

// Choice is one selectable option of a multiple-choice flashcard.
type Choice struct {
	ID          int64  `json:"id"`
	FlashcardID int64  `json:"flashcard_id"`
	Title       string `json:"title"`
	Correct     bool   `json:"correct"`
	Position    int    `json:"position"`
}
