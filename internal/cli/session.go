package cli

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/flashcard"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/services"
)

// Menu actions, in display order.
const (
	actionCreate = "Create a flashcard"
	actionList   = "List all flashcards"
	actionPrac   = "Practice"
	actionStats  = "Stats"
	actionReset  = "Reset"
	actionExit   = "Exit"
)

var menu = []string{actionCreate, actionList, actionPrac, actionStats, actionReset, actionExit}

const (
	msgNoFlashcards   = "No flashcards found. Start creating them."
	msgAllAnswered    = "All flashcards already answered. Reset or add new flashcard."
	msgInvalidID      = "Flashcard not found, invalid id given."
	msgAlreadyCorrect = "Flashcard already answered correctly."
	msgCorrect        = "Correct Answer"
	msgIncorrect      = "Incorrect Answer"
	msgResetDone      = "Reset done. All your answers are deleted."
)

// Session drives one interactive quiz session over a line-oriented reader and writer.
type Session struct {
	engine services.QuizService
	in     *bufio.Scanner
	out    io.Writer
}

// NewSession creates a Session reading answers from in and writing prompts and tables to out.
func NewSession(engine services.QuizService, in io.Reader, out io.Writer) *Session {
	return &Session{
		engine: engine,
		in:     bufio.NewScanner(in),
		out:    out,
	}
}

// Run asks for a username, then serves the menu until Exit or end of input.
// Only storage failures and read errors end it with an error.
func (s *Session) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("cli")

	if err := s.login(ctx); err != nil {
		return s.finish(log, err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		action, err := s.chooseAction()
		if err != nil {
			return s.finish(log, err)
		}
		log.Debug("action selected: %s", action)
		if action == actionExit {
			fmt.Fprintln(s.out, "Bye!")
			return nil
		}

		if err := s.dispatch(ctx, action); err != nil {
			if !s.report(err) {
				return s.finish(log, err)
			}
		}
	}
}

// finish maps end of input to a clean exit.
func (s *Session) finish(log *logger.Logger, err error) error {
	if stderrors.Is(err, io.EOF) {
		log.Debug("input closed, ending session")
		return nil
	}
	log.Error("session aborted: %v", err)
	return err
}

// report prints a recoverable engine error and reports whether the loop may go on.
func (s *Session) report(err error) bool {
	switch errors.KindOf(err) {
	case errors.KindInvalidInput, errors.KindNotFound, errors.KindNoActiveUser:
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			fmt.Fprintf(s.out, "Error: %s\n", appErr.Message)
			return true
		}
	}
	if !stderrors.Is(err, io.EOF) {
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
	return false
}

func (s *Session) login(ctx context.Context) error {
	for {
		name, err := s.ask("Enter username")
		if err != nil {
			return err
		}
		user, err := s.engine.ResolveUser(ctx, name)
		if err == nil {
			fmt.Fprintf(s.out, "\nQuiz Flashcard Game (%s)\n", user.Name)
			return nil
		}
		if !s.report(err) {
			return err
		}
	}
}

func (s *Session) chooseAction() (string, error) {
	for {
		fmt.Fprintln(s.out)
		fmt.Fprintln(s.out, "Select an option from menu below")
		for i, item := range menu {
			fmt.Fprintf(s.out, "  [%d] %s\n", i+1, item)
		}
		raw, err := s.ask("Option")
		if err != nil {
			return "", err
		}
		if action, ok := parseAction(raw); ok {
			return action, nil
		}
		fmt.Fprintf(s.out, "Value %q is invalid\n", raw)
	}
}

// parseAction accepts a menu number or a label, case-insensitively.
func parseAction(raw string) (string, bool) {
	if n, err := strconv.Atoi(raw); err == nil {
		if n >= 1 && n <= len(menu) {
			return menu[n-1], true
		}
		return "", false
	}
	for _, item := range menu {
		if strings.EqualFold(item, raw) {
			return item, true
		}
	}
	return "", false
}

func (s *Session) dispatch(ctx context.Context, action string) error {
	switch action {
	case actionCreate:
		return s.create(ctx)
	case actionList:
		return s.list(ctx)
	case actionPrac:
		return s.practice(ctx)
	case actionStats:
		_, err := s.stats(ctx)
		return err
	case actionReset:
		if err := s.engine.Reset(ctx); err != nil {
			return err
		}
		fmt.Fprintln(s.out, msgResetDone)
	}
	return nil
}

func (s *Session) create(ctx context.Context) error {
	question, err := s.ask("Enter a new flashcard question")
	if err != nil {
		return err
	}
	raw, err := s.ask("Write all the choices separated by a comma. The first one is the correct one")
	if err != nil {
		return err
	}
	parts := strings.Split(raw, ",")

	id, err := s.engine.CreateFlashcard(ctx, question, parts[0], parts[1:]...)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Flashcard %d created.\n", id)
	return nil
}

func (s *Session) list(ctx context.Context) error {
	cards, err := s.engine.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		fmt.Fprintln(s.out, msgNoFlashcards)
		return nil
	}

	w := newTable(s.out)
	fmt.Fprintln(w, "id\tquestion\tanswer")
	for _, c := range cards {
		fmt.Fprintf(w, "%d\t%s\t%s\n", c.ID, c.Question, c.Answer)
	}
	return w.Flush()
}

// stats renders the active user's stats table and summary, returning the rows shown.
func (s *Session) stats(ctx context.Context) ([]models.FlashcardStat, error) {
	stats, err := s.engine.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	summary, ok := flashcard.Summarize(stats)
	if !ok {
		fmt.Fprintln(s.out, msgNoFlashcards)
		return stats, nil
	}

	w := newTable(s.out)
	fmt.Fprintln(w, "id\tquestion\tstatus")
	for _, st := range stats {
		fmt.Fprintf(w, "%d\t%s\t%s\n", st.ID, st.Question, st.Correctness)
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	fmt.Fprintf(s.out, "Total: %d, Correct: %d, Incorrect: %d\n", summary.Total, summary.Correct, summary.Incorrect)
	fmt.Fprintf(s.out, "%s%% completed.\n", strconv.FormatFloat(summary.PercentCorrect, 'f', -1, 64))
	return stats, nil
}

func (s *Session) practice(ctx context.Context) error {
	stats, err := s.stats(ctx)
	if err != nil || len(stats) == 0 {
		return err
	}
	if flashcard.IsComplete(stats) {
		fmt.Fprintln(s.out, msgAllAnswered)
		return nil
	}

	raw, err := s.ask("Which flashcard would you like to answer? Enter flashcard id")
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fmt.Fprintln(s.out, msgInvalidID)
		return nil
	}
	stat, ok := flashcard.FindByID(stats, id)
	if !ok {
		fmt.Fprintln(s.out, msgInvalidID)
		return nil
	}
	if stat.Correctness == models.Correct {
		fmt.Fprintln(s.out, msgAlreadyCorrect)
		return nil
	}

	choices, err := s.engine.Choices(ctx, id)
	if err != nil {
		return err
	}

	var correct bool
	if len(choices) > 0 {
		choice, err := s.pickChoice(stat.Question, choices)
		if err != nil {
			return err
		}
		correct, err = s.engine.SelectChoice(ctx, id, choice.ID)
		if err != nil {
			return err
		}
	} else {
		answer, err := s.ask(stat.Question)
		if err != nil {
			return err
		}
		correct, err = s.engine.ValidateAnswer(ctx, id, answer)
		if err != nil {
			return err
		}
	}

	if correct {
		fmt.Fprintln(s.out, msgCorrect)
	} else {
		fmt.Fprintln(s.out, msgIncorrect)
	}
	return nil
}

// pickChoice lists the options and re-prompts until one is picked by title or number.
func (s *Session) pickChoice(question string, choices []models.Choice) (models.Choice, error) {
	for {
		fmt.Fprintln(s.out, question)
		for i, ch := range choices {
			fmt.Fprintf(s.out, "  [%d] %s\n", i+1, ch.Title)
		}
		raw, err := s.ask("Choice")
		if err != nil {
			return models.Choice{}, err
		}
		// A title match wins over a position, so numeric options are picked by value.
		for _, ch := range choices {
			if flashcard.Matches(ch.Title, raw) {
				return ch, nil
			}
		}
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 && n <= len(choices) {
			return choices[n-1], nil
		}
		fmt.Fprintf(s.out, "Value %q is invalid\n", raw)
	}
}

// ask prompts until a non-blank line is read and returns it trimmed.
// It returns io.EOF once the input is exhausted.
func (s *Session) ask(prompt string) (string, error) {
	for {
		fmt.Fprintf(s.out, "%s:\n> ", prompt)
		if !s.in.Scan() {
			if err := s.in.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		if line := strings.TrimSpace(s.in.Text()); line != "" {
			return line, nil
		}
	}
}

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.Debug)
}
