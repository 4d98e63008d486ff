package models

// Correctness is how a user stands on a single flashcard.
type Correctness string

const (
	Correct     Correctness = "Correct"
	Incorrect   Correctness = "Incorrect"
	NotAnswered Correctness = "Not answered"
)

// CorrectnessOf maps a nullable answer outcome to its Correctness.
func CorrectnessOf(isCorrect *bool) Correctness {
	switch {
	case isCorrect == nil:
		return NotAnswered
	case *isCorrect:
		return Correct
	default:
		return Incorrect
	}
}

type FlashcardStat struct {
	ID          int64       `json:"id"`
	Question    string      `json:"question"`
	Correctness Correctness `json:"correctness"`
}

type StatsSummary struct {
	Total          int     `json:"total"`
	Correct        int     `json:"correct"`
	Incorrect      int     `json:"incorrect"`
	PercentCorrect float64 `json:"percent_correct"`
}
