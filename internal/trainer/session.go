// Package trainer runs the password training loop.
package trainer

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/pwtrain/internal/entry"
	"github.com/verte-zerg/pwtrain/internal/model"
	"github.com/verte-zerg/pwtrain/internal/profile"
	"github.com/verte-zerg/pwtrain/internal/stats"
	"github.com/verte-zerg/pwtrain/internal/terminal"
)

// minReferenceLength is the shortest reference that produces any deltas
// between password characters.
const minReferenceLength = 2

// ErrInputClosed is returned when the input stream ends mid-session.
var ErrInputClosed = errors.New("input closed")

// Prompter reads a line without echo.
type Prompter interface {
	ReadPassword(w io.Writer, prompt string) (string, error)
}

// State is a step of the session state machine.
type State int

// Session states.
const (
	StateAwaitingReference State = iota
	StateProfiling
	StateTraining
	StateConverged
	StateExhausted
	StateCancelled
	StateSummarizing
	StateDone
)

func (s State) String() string {
	switch s {
	case StateAwaitingReference:
		return "awaiting-reference"
	case StateProfiling:
		return "profiling"
	case StateTraining:
		return "training"
	case StateConverged:
		return "converged"
	case StateExhausted:
		return "exhausted"
	case StateCancelled:
		return "cancelled"
	case StateSummarizing:
		return "summarizing"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Result reports how a session ended.
type Result struct {
	Outcome  model.Outcome
	Counters model.Counters
	Stats    []model.PositionStat
}

// Session trains a user against one reference password.
type Session struct {
	cfg       model.Config
	collector *entry.Collector
	prompter  Prompter
	out       io.Writer
	logger    *slog.Logger
	paint     painter

	state    State
	counters model.Counters
	history  [][]float64
}

// NewSession builds a session reading keys from keys and masked input from
// prompter. A nil clock defaults to time.Now; a nil logger discards.
func NewSession(cfg model.Config, keys terminal.CharReader, prompter Prompter, out io.Writer, logger *slog.Logger, now func() time.Time) *Session {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{
		cfg:       cfg,
		collector: entry.NewCollector(keys, out, cfg.EchoGlyph, now),
		prompter:  prompter,
		out:       out,
		logger:    logger,
		paint:     newPainter(cfg.Color),
	}
}

// State returns the current state of the session.
func (s *Session) State() State {
	return s.state
}

// Run drives the session to completion. Only a closed input stream is
// returned as an error, wrapped in ErrInputClosed.
func (s *Session) Run() (Result, error) {
	s.setState(StateAwaitingReference)
	ref, cancelled, err := s.readReference()
	if err != nil {
		return s.result(model.OutcomeCancelled), s.inputErr(err)
	}
	if cancelled {
		s.println("Exit requested.")
		s.setState(StateDone)
		return s.result(model.OutcomeCancelled), nil
	}
	if n := utf8.RuneCountInString(ref); n < minReferenceLength {
		s.printf("Reference password is too short (%d characters), nothing to train.\n", n)
		s.setState(StateDone)
		return s.result(model.OutcomeTooShort), nil
	}

	s.setState(StateProfiling)
	s.printProfile(profile.Analyze(ref))

	s.setState(StateTraining)
	outcome, err := s.train(ref)
	if err != nil {
		return s.result(outcome), s.inputErr(err)
	}
	switch outcome {
	case model.OutcomeConverged, model.OutcomeCompleted:
		s.setState(StateConverged)
	case model.OutcomeCancelled:
		s.setState(StateCancelled)
	case model.OutcomeExhausted:
		s.setState(StateExhausted)
	}

	s.setState(StateSummarizing)
	res := s.result(outcome)
	if err := s.summarize(res); err != nil {
		s.logger.Warn("failed to write summary", "error", err)
	}
	s.setState(StateDone)
	s.logger.Info("session finished",
		"outcome", outcome.String(),
		"correct", res.Counters.Correct,
		"incorrect", res.Counters.Incorrect)
	return res, nil
}

func (s *Session) readReference() (string, bool, error) {
	if s.cfg.Reference != "" {
		return s.cfg.Reference, false, nil
	}
	if s.cfg.TimedReference || s.prompter == nil {
		s.printf("Reference password: ")
		attempt, err := s.collector.Collect()
		if err != nil {
			return "", false, err
		}
		return attempt.Text, attempt.Cancelled, nil
	}
	ref, err := s.prompter.ReadPassword(s.out, "Reference password: ")
	return ref, false, err
}

func (s *Session) train(ref string) (model.Outcome, error) {
	s.printf("\nNow, type the password again correctly for %d times\n", s.cfg.RequiredCorrect)
	for s.keepTraining() {
		attempt, err := s.collector.Collect()
		if err != nil {
			return model.OutcomeCancelled, err
		}
		if attempt.Cancelled {
			s.println("Exit requested.")
			s.logger.Info("attempt cancelled", "attempts", s.counters.Total())
			return model.OutcomeCancelled, nil
		}
		if attempt.Text == ref {
			s.counters.Correct++
			s.history = append(s.history, attempt.Deltas)
			s.println(s.paint.paint(correctStyle, "Correct."))
		} else {
			s.counters.Incorrect++
			s.println(s.paint.paint(incorrectStyle, "*** Incorrect!"))
		}
		s.logger.Debug("attempt",
			"correct", attempt.Text == ref,
			"keystrokes", attempt.Keystrokes(),
			"deltas", attempt.Deltas)
		s.printStatus()
	}
	switch {
	case s.converged():
		return model.OutcomeConverged, nil
	case s.counters.Correct >= s.cfg.RequiredCorrect:
		return model.OutcomeCompleted, nil
	default:
		return model.OutcomeExhausted, nil
	}
}

func (s *Session) keepTraining() bool {
	return s.counters.Correct < s.cfg.RequiredCorrect &&
		s.counters.Total() < s.cfg.AttemptLimit &&
		!s.converged()
}

func (s *Session) converged() bool {
	return stats.IsConverged(s.history, s.cfg.MeanLimit, s.cfg.StdLimit, s.cfg.Window)
}

func (s *Session) printProfile(p model.Profile) {
	s.println()
	s.println(s.paint.paint(headingStyle, "Reference password read, properties:"))
	s.printf("Length: %d characters\n", p.Length)
	s.printf("Contains characters from %d classes (%d different characters)\n", p.ClassCount, p.ClassDepth)
	s.printf("Search space size: %s combinations (~%.1f bits)\n", humanize.BigComma(p.SearchSpace), p.EntropyBits())
}

func (s *Session) printStatus() {
	remaining := s.cfg.RequiredCorrect - s.counters.Correct
	if remaining < 0 {
		remaining = 0
	}
	s.printf("Status: %d correct, %d incorrect. %d more corrects required\n",
		s.counters.Correct, s.counters.Incorrect, remaining)
	if bar := s.paint.progressBar(s.counters.Correct, s.cfg.RequiredCorrect); bar != "" {
		s.println(bar)
	}
}

func (s *Session) summarize(res Result) error {
	if res.Outcome == model.OutcomeConverged {
		s.println()
		s.println(s.paint.paint(noticeStyle, "Your input quality exceeded requirements, hence no more attempts required"))
	}
	s.printf("Completed. You got %d correct out of %d attempts\n\n", res.Counters.Correct, res.Counters.Total())
	return stats.RenderTimings(s.out, res.Stats, s.cfg.Format)
}

func (s *Session) result(outcome model.Outcome) Result {
	return Result{
		Outcome:  outcome,
		Counters: s.counters,
		Stats:    stats.Aggregate(s.history),
	}
}

func (s *Session) inputErr(err error) error {
	if errors.Is(err, io.EOF) {
		s.logger.Warn("input closed", "state", s.state.String())
		return fmt.Errorf("%w: %w", ErrInputClosed, err)
	}
	return err
}

func (s *Session) setState(next State) {
	s.logger.Debug("session state", "from", s.state.String(), "to", next.String())
	s.state = next
}

func (s *Session) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(s.out, format, args...); err != nil {
		// Best-effort terminal output.
		_ = err
	}
}

func (s *Session) println(args ...any) {
	if _, err := fmt.Fprintln(s.out, args...); err != nil {
		// Best-effort terminal output.
		_ = err
	}
}
