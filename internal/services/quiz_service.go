package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/flashcard"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/repository"
)

// QuizService is the quiz session engine. An instance serves one session: it holds the
// active user and nothing else, and every rule about answers and stats lives here.
// It never prompts or renders.
type QuizService interface {
	// ResolveUser normalizes rawName, finds or creates that user and makes it the active one.
	ResolveUser(ctx context.Context, rawName string) (*models.User, error)
	// ActiveUser returns the user bound by the last successful ResolveUser, or nil.
	ActiveUser() *models.User
	// CreateFlashcard stores a flashcard. With distractors it also stores multiple-choice options,
	// the correct answer first.
	CreateFlashcard(ctx context.Context, question, correctAnswer string, distractors ...string) (int64, error)
	ListAll(ctx context.Context) ([]models.Flashcard, error)
	GetByID(ctx context.Context, id int64) (*models.Flashcard, error)
	// Choices returns a flashcard's options in authoring order; empty for free-text flashcards.
	Choices(ctx context.Context, flashcardID int64) ([]models.Choice, error)
	// ValidateAnswer checks a free-text response and records the outcome for the active user.
	ValidateAnswer(ctx context.Context, flashcardID int64, submitted string) (bool, error)
	// SelectChoice records the outcome of picking one option of a multiple-choice flashcard.
	SelectChoice(ctx context.Context, flashcardID, choiceID int64) (bool, error)
	// GetStats lists every flashcard with the active user's standing on it.
	GetStats(ctx context.Context) ([]models.FlashcardStat, error)
	// Reset deletes the active user's answers.
	Reset(ctx context.Context) error
}

type quizService struct {
	users      repository.UserRepository
	flashcards repository.FlashcardRepository
	answers    repository.AnswerRepository
	stats      repository.StatsRepository

	session string
	user    *models.User
}

// NewQuizService creates a QuizService for a new session with no active user.
func NewQuizService(
	users repository.UserRepository,
	flashcards repository.FlashcardRepository,
	answers repository.AnswerRepository,
	stats repository.StatsRepository,
) QuizService {
	return &quizService{
		users:      users,
		flashcards: flashcards,
		answers:    answers,
		stats:      stats,
		session:    uuid.NewString(),
	}
}

func (s *quizService) log(ctx context.Context) *logger.Logger {
	l := logger.FromContext(ctx).WithPrefix("quiz").WithField("session", s.session)
	if s.user != nil {
		l = l.WithField("user", s.user.Name)
	}
	return l
}

func (s *quizService) requireUser() (*models.User, error) {
	if s.user == nil {
		return nil, errors.NewNoActiveUserError()
	}
	return s.user, nil
}

func (s *quizService) ResolveUser(ctx context.Context, rawName string) (*models.User, error) {
	log := s.log(ctx)

	name := flashcard.Normalize(rawName)
	if name == "" {
		return nil, errors.NewInvalidInputError("username", "cannot be empty")
	}
	log.Debug("resolving user: name=%s", name)

	user, err := s.users.FindOrCreate(ctx, name)
	if err != nil {
		log.Error("failed to resolve user: %v", err)
		return nil, errors.NewStorageError(err)
	}

	s.user = user
	log.Info("active user set: id=%d, name=%s", user.ID, user.Name)
	return user, nil
}

func (s *quizService) ActiveUser() *models.User {
	return s.user
}

func (s *quizService) CreateFlashcard(ctx context.Context, question, correctAnswer string, distractors ...string) (int64, error) {
	log := s.log(ctx)

	question = strings.TrimSpace(question)
	correctAnswer = strings.TrimSpace(correctAnswer)
	if question == "" {
		return 0, errors.NewInvalidInputError("question", "cannot be empty")
	}
	if correctAnswer == "" {
		return 0, errors.NewInvalidInputError("answer", "cannot be empty")
	}

	var choices []models.Choice
	for _, d := range distractors {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if choices == nil {
			choices = append(choices, models.Choice{Title: correctAnswer, Correct: true})
		}
		choices = append(choices, models.Choice{Title: d})
	}
	for i := range choices {
		choices[i].Position = i
	}

	log.Debug("creating flashcard: choices=%d", len(choices))
	id, err := s.flashcards.Insert(ctx, models.Flashcard{Question: question, Answer: correctAnswer}, choices)
	if err != nil {
		log.Error("failed to create flashcard: %v", err)
		return 0, errors.NewStorageError(err)
	}

	log.Info("flashcard created: id=%d", id)
	return id, nil
}

func (s *quizService) ListAll(ctx context.Context) ([]models.Flashcard, error) {
	log := s.log(ctx)
	log.Debug("listing flashcards")

	cards, err := s.flashcards.List(ctx)
	if err != nil {
		log.Error("failed to list flashcards: %v", err)
		return nil, errors.NewStorageError(err)
	}
	if cards == nil {
		cards = []models.Flashcard{}
	}
	return cards, nil
}

func (s *quizService) GetByID(ctx context.Context, id int64) (*models.Flashcard, error) {
	log := s.log(ctx)
	log.Debug("getting flashcard: id=%d", id)

	card, err := s.flashcards.Get(ctx, id)
	if err != nil {
		log.Error("failed to get flashcard: %v", err)
		return nil, errors.NewStorageError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("flashcard", id)
	}
	return card, nil
}

func (s *quizService) Choices(ctx context.Context, flashcardID int64) ([]models.Choice, error) {
	if _, err := s.GetByID(ctx, flashcardID); err != nil {
		return nil, err
	}

	choices, err := s.flashcards.Choices(ctx, flashcardID)
	if err != nil {
		s.log(ctx).Error("failed to list choices: %v", err)
		return nil, errors.NewStorageError(err)
	}
	if choices == nil {
		choices = []models.Choice{}
	}
	return choices, nil
}

func (s *quizService) ValidateAnswer(ctx context.Context, flashcardID int64, submitted string) (bool, error) {
	user, err := s.requireUser()
	if err != nil {
		return false, err
	}

	card, err := s.GetByID(ctx, flashcardID)
	if err != nil {
		return false, err
	}

	isCorrect := flashcard.Matches(card.Answer, submitted)
	if err := s.record(ctx, user, flashcardID, isCorrect); err != nil {
		return false, err
	}
	return isCorrect, nil
}

func (s *quizService) SelectChoice(ctx context.Context, flashcardID, choiceID int64) (bool, error) {
	user, err := s.requireUser()
	if err != nil {
		return false, err
	}

	choices, err := s.Choices(ctx, flashcardID)
	if err != nil {
		return false, err
	}

	for _, ch := range choices {
		if ch.ID != choiceID {
			continue
		}
		if err := s.record(ctx, user, flashcardID, ch.Correct); err != nil {
			return false, err
		}
		return ch.Correct, nil
	}
	return false, errors.NewNotFoundError("choice", choiceID)
}

// record upserts the active user's outcome for a flashcard.
func (s *quizService) record(ctx context.Context, user *models.User, flashcardID int64, isCorrect bool) error {
	log := s.log(ctx)

	answer := models.Answer{UserID: user.ID, FlashcardID: flashcardID, IsCorrect: isCorrect}
	if err := s.answers.Upsert(ctx, answer); err != nil {
		log.Error("failed to record answer: %v", err)
		return errors.NewStorageError(err)
	}
	log.Info("answer recorded: flashcard_id=%d, correct=%t", flashcardID, isCorrect)
	return nil
}

func (s *quizService) GetStats(ctx context.Context) ([]models.FlashcardStat, error) {
	user, err := s.requireUser()
	if err != nil {
		return nil, err
	}
	log := s.log(ctx)
	log.Debug("getting stats")

	stats, err := s.stats.FlashcardStats(ctx, user.ID)
	if err != nil {
		log.Error("failed to get stats: %v", err)
		return nil, errors.NewStorageError(err)
	}
	if stats == nil {
		stats = []models.FlashcardStat{}
	}
	return stats, nil
}

func (s *quizService) Reset(ctx context.Context) error {
	user, err := s.requireUser()
	if err != nil {
		return err
	}
	log := s.log(ctx)

	n, err := s.answers.DeleteForUser(ctx, user.ID)
	if err != nil {
		log.Error("failed to reset answers: %v", err)
		return errors.NewStorageError(err)
	}
	log.Info("answers reset: removed=%d", n)
	return nil
}
