package services_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/services"
	"github.com/vytor/quizflash/internal/testutil/mocks"
)

var errDB = stderrors.New("database is locked")

type QuizServiceSuite struct {
	suite.Suite
	ctx        context.Context
	users      *mocks.MockUserRepository
	flashcards *mocks.MockFlashcardRepository
	answers    *mocks.MockAnswerRepository
	stats      *mocks.MockStatsRepository
	svc        services.QuizService
}

func (s *QuizServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.users = new(mocks.MockUserRepository)
	s.flashcards = new(mocks.MockFlashcardRepository)
	s.answers = new(mocks.MockAnswerRepository)
	s.stats = new(mocks.MockStatsRepository)
	s.svc = services.NewQuizService(s.users, s.flashcards, s.answers, s.stats)
}

func (s *QuizServiceSuite) TearDownTest() {
	s.users.AssertExpectations(s.T())
	s.flashcards.AssertExpectations(s.T())
	s.answers.AssertExpectations(s.T())
	s.stats.AssertExpectations(s.T())
}

func (s *QuizServiceSuite) login(name string, id int64) {
	s.users.On("FindOrCreate", mock.Anything, name).Return(&models.User{ID: id, Name: name}, nil).Once()
	_, err := s.svc.ResolveUser(s.ctx, name)
	s.Require().NoError(err)
}

func (s *QuizServiceSuite) TestResolveUser_NormalizesName() {
	s.users.On("FindOrCreate", mock.Anything, "alice").Return(&models.User{ID: 1, Name: "alice"}, nil).Once()

	user, err := s.svc.ResolveUser(s.ctx, "  ALice \t")
	s.Require().NoError(err)
	s.Assert().Equal(int64(1), user.ID)
	s.Assert().Same(user, s.svc.ActiveUser())
}

func (s *QuizServiceSuite) TestResolveUser_RejectsBlank() {
	_, err := s.svc.ResolveUser(s.ctx, "   ")
	s.Assert().ErrorIs(err, errors.ErrInvalidInput)
	s.Assert().Nil(s.svc.ActiveUser())
}

func (s *QuizServiceSuite) TestResolveUser_StorageFailureKeepsPreviousUser() {
	s.login("alice", 1)
	s.users.On("FindOrCreate", mock.Anything, "bob").Return(nil, errDB).Once()

	_, err := s.svc.ResolveUser(s.ctx, "bob")
	s.Assert().ErrorIs(err, errors.ErrStorageFailure)
	s.Assert().ErrorIs(err, errDB)
	s.Assert().Equal("alice", s.svc.ActiveUser().Name)
}

func (s *QuizServiceSuite) TestResolveUser_SwitchesIdentity() {
	s.login("alice", 1)
	s.login("bob", 2)
	s.Assert().Equal(int64(2), s.svc.ActiveUser().ID)
}

func (s *QuizServiceSuite) TestCreateFlashcard_FreeText() {
	s.flashcards.On("Insert", mock.Anything,
		models.Flashcard{Question: "2+2?", Answer: "4"},
		[]models.Choice(nil),
	).Return(int64(7), nil).Once()

	id, err := s.svc.CreateFlashcard(s.ctx, " 2+2? ", " 4 ")
	s.Require().NoError(err)
	s.Assert().Equal(int64(7), id)
}

func (s *QuizServiceSuite) TestCreateFlashcard_WithDistractors() {
	want := []models.Choice{
		{Title: "Paris", Correct: true, Position: 0},
		{Title: "Lyon", Position: 1},
		{Title: "Nice", Position: 2},
	}
	s.flashcards.On("Insert", mock.Anything,
		models.Flashcard{Question: "Capital of France?", Answer: "Paris"},
		want,
	).Return(int64(3), nil).Once()

	id, err := s.svc.CreateFlashcard(s.ctx, "Capital of France?", "Paris", " Lyon", "", "Nice ")
	s.Require().NoError(err)
	s.Assert().Equal(int64(3), id)
}

func (s *QuizServiceSuite) TestCreateFlashcard_BlankDistractorsMeanFreeText() {
	s.flashcards.On("Insert", mock.Anything,
		models.Flashcard{Question: "q", Answer: "a"},
		[]models.Choice(nil),
	).Return(int64(1), nil).Once()

	_, err := s.svc.CreateFlashcard(s.ctx, "q", "a", " ", "")
	s.Require().NoError(err)
}

func (s *QuizServiceSuite) TestCreateFlashcard_Validation() {
	_, err := s.svc.CreateFlashcard(s.ctx, "  ", "4")
	s.Assert().ErrorIs(err, errors.ErrInvalidInput)
	s.Assert().Contains(err.Error(), "question")

	_, err = s.svc.CreateFlashcard(s.ctx, "2+2?", "\n")
	s.Assert().ErrorIs(err, errors.ErrInvalidInput)
	s.Assert().Contains(err.Error(), "answer")
}

func (s *QuizServiceSuite) TestCreateFlashcard_StorageFailure() {
	s.flashcards.On("Insert", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), errDB).Once()

	_, err := s.svc.CreateFlashcard(s.ctx, "q", "a", "b")
	s.Assert().ErrorIs(err, errors.ErrStorageFailure)
}

func (s *QuizServiceSuite) TestCatalogOperations_DoNotRequireUser() {
	card := &models.Flashcard{ID: 4, Question: "2+2?", Answer: "4"}
	choices := []models.Choice{{ID: 1, FlashcardID: 4, Title: "4", Correct: true}, {ID: 2, FlashcardID: 4, Title: "5", Position: 1}}
	s.flashcards.On("Insert", mock.Anything, mock.Anything, mock.Anything).Return(int64(4), nil).Once()
	s.flashcards.On("List", mock.Anything).Return([]models.Flashcard{*card}, nil).Once()
	s.flashcards.On("Get", mock.Anything, int64(4)).Return(card, nil).Times(2)
	s.flashcards.On("Choices", mock.Anything, int64(4)).Return(choices, nil).Once()

	s.Require().Nil(s.svc.ActiveUser())

	id, err := s.svc.CreateFlashcard(s.ctx, "2+2?", "4", "5")
	s.Require().NoError(err)
	s.Assert().Equal(int64(4), id)

	cards, err := s.svc.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Assert().Len(cards, 1)

	got, err := s.svc.GetByID(s.ctx, 4)
	s.Require().NoError(err)
	s.Assert().Equal(card, got)

	gotChoices, err := s.svc.Choices(s.ctx, 4)
	s.Require().NoError(err)
	s.Assert().Equal(choices, gotChoices)
}

func (s *QuizServiceSuite) TestListAll_EmptyIsNotAnError() {
	s.flashcards.On("List", mock.Anything).Return(nil, nil).Once()

	cards, err := s.svc.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Assert().NotNil(cards)
	s.Assert().Empty(cards)
}

func (s *QuizServiceSuite) TestGetByID_NotFound() {
	s.flashcards.On("Get", mock.Anything, int64(99)).Return(nil, nil).Once()

	_, err := s.svc.GetByID(s.ctx, 99)
	s.Assert().ErrorIs(err, errors.ErrNotFound)
}

func (s *QuizServiceSuite) TestValidateAnswer_RequiresUser() {
	_, err := s.svc.ValidateAnswer(s.ctx, 1, "4")
	s.Assert().ErrorIs(err, errors.ErrNoActiveUser)
}

func (s *QuizServiceSuite) TestValidateAnswer_UnknownFlashcard() {
	s.login("alice", 1)
	s.flashcards.On("Get", mock.Anything, int64(5)).Return(nil, nil).Once()

	_, err := s.svc.ValidateAnswer(s.ctx, 5, "4")
	s.Assert().ErrorIs(err, errors.ErrNotFound)
	s.answers.AssertNotCalled(s.T(), "Upsert", mock.Anything, mock.Anything)
}

func (s *QuizServiceSuite) TestValidateAnswer_RecordsEveryAttempt() {
	s.login("alice", 1)
	card := &models.Flashcard{ID: 5, Question: "Capital of France?", Answer: "Paris"}
	s.flashcards.On("Get", mock.Anything, int64(5)).Return(card, nil).Times(2)
	s.answers.On("Upsert", mock.Anything, models.Answer{UserID: 1, FlashcardID: 5, IsCorrect: true}).Return(nil).Once()
	s.answers.On("Upsert", mock.Anything, models.Answer{UserID: 1, FlashcardID: 5, IsCorrect: false}).Return(nil).Once()

	ok, err := s.svc.ValidateAnswer(s.ctx, 5, "  pARIS ")
	s.Require().NoError(err)
	s.Assert().True(ok)

	ok, err = s.svc.ValidateAnswer(s.ctx, 5, "Lyon")
	s.Require().NoError(err)
	s.Assert().False(ok)
}

func (s *QuizServiceSuite) TestValidateAnswer_StorageFailure() {
	s.login("alice", 1)
	s.flashcards.On("Get", mock.Anything, int64(5)).Return(&models.Flashcard{ID: 5, Answer: "4"}, nil).Once()
	s.answers.On("Upsert", mock.Anything, mock.Anything).Return(errDB).Once()

	ok, err := s.svc.ValidateAnswer(s.ctx, 5, "4")
	s.Assert().False(ok)
	s.Assert().ErrorIs(err, errors.ErrStorageFailure)
}

func (s *QuizServiceSuite) TestSelectChoice() {
	s.login("alice", 1)
	card := &models.Flashcard{ID: 5, Question: "Capital of France?", Answer: "Paris"}
	choices := []models.Choice{
		{ID: 10, FlashcardID: 5, Title: "Paris", Correct: true},
		{ID: 11, FlashcardID: 5, Title: "Lyon"},
	}
	s.flashcards.On("Get", mock.Anything, int64(5)).Return(card, nil)
	s.flashcards.On("Choices", mock.Anything, int64(5)).Return(choices, nil)
	s.answers.On("Upsert", mock.Anything, models.Answer{UserID: 1, FlashcardID: 5, IsCorrect: false}).Return(nil).Once()
	s.answers.On("Upsert", mock.Anything, models.Answer{UserID: 1, FlashcardID: 5, IsCorrect: true}).Return(nil).Once()

	ok, err := s.svc.SelectChoice(s.ctx, 5, 11)
	s.Require().NoError(err)
	s.Assert().False(ok)

	ok, err = s.svc.SelectChoice(s.ctx, 5, 10)
	s.Require().NoError(err)
	s.Assert().True(ok)
}

func (s *QuizServiceSuite) TestSelectChoice_ChoiceFromAnotherFlashcard() {
	s.login("alice", 1)
	s.flashcards.On("Get", mock.Anything, int64(5)).Return(&models.Flashcard{ID: 5}, nil).Once()
	s.flashcards.On("Choices", mock.Anything, int64(5)).Return([]models.Choice{{ID: 10, FlashcardID: 5}}, nil).Once()

	_, err := s.svc.SelectChoice(s.ctx, 5, 42)
	s.Assert().ErrorIs(err, errors.ErrNotFound)
	s.Assert().Contains(err.Error(), "choice")
}

func (s *QuizServiceSuite) TestSelectChoice_RequiresUser() {
	_, err := s.svc.SelectChoice(s.ctx, 5, 10)
	s.Assert().ErrorIs(err, errors.ErrNoActiveUser)
}

func (s *QuizServiceSuite) TestGetStats() {
	s.login("alice", 1)
	rows := []models.FlashcardStat{
		{ID: 1, Question: "2+2?", Correctness: models.Incorrect},
		{ID: 2, Question: "3+3?", Correctness: models.NotAnswered},
	}
	s.stats.On("FlashcardStats", mock.Anything, int64(1)).Return(rows, nil).Once()

	stats, err := s.svc.GetStats(s.ctx)
	s.Require().NoError(err)
	s.Assert().Equal(rows, stats)
}

func (s *QuizServiceSuite) TestGetStats_RequiresUser() {
	_, err := s.svc.GetStats(s.ctx)
	s.Assert().ErrorIs(err, errors.ErrNoActiveUser)
}

func (s *QuizServiceSuite) TestReset() {
	s.login("alice", 1)
	s.answers.On("DeleteForUser", mock.Anything, int64(1)).Return(int64(0), nil).Once()

	s.Assert().NoError(s.svc.Reset(s.ctx))
}

func (s *QuizServiceSuite) TestReset_Errors() {
	s.Assert().ErrorIs(s.svc.Reset(s.ctx), errors.ErrNoActiveUser)

	s.login("alice", 1)
	s.answers.On("DeleteForUser", mock.Anything, int64(1)).Return(int64(0), errDB).Once()
	s.Assert().ErrorIs(s.svc.Reset(s.ctx), errors.ErrStorageFailure)
}

func TestQuizServiceSuite(t *testing.T) {
	suite.Run(t, new(QuizServiceSuite))
}

func TestNewQuizService_StartsWithoutUser(t *testing.T) {
	svc := services.NewQuizService(
		new(mocks.MockUserRepository),
		new(mocks.MockFlashcardRepository),
		new(mocks.MockAnswerRepository),
		new(mocks.MockStatsRepository),
	)
	require.NotNil(t, svc)
	assert.Nil(t, svc.ActiveUser())
}
