// Package practice implements the practice session state machine: a session
// progresses card by card through question pending, answer revealed and
// outcome recorded states until the cursor reaches the end of the queue.
//
// The Manager is pure with respect to persistence: marking a card known or
// recording session statistics is the responsibility of the service layer,
// which calls back into the manager to advance the in-memory state.
package practice

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lexikon/lexikon-api/internal/domain"
)

// Common manager errors
var (
	// ErrNilSession is returned when a nil session is passed to the manager.
	ErrNilSession = errors.New("session cannot be nil")

	// ErrSessionComplete is returned when an outcome is recorded on a
	// session whose cursor has already reached the end of the queue.
	ErrSessionComplete = errors.New("session is already complete")
)

// Manager defines the state machine operations over a Session.
//
// The per-card cycle is StartQuestion -> Reveal -> MarkKnow or MarkHard,
// after which the cursor advances and the next card's question begins.
// Timestamps are passed in by the caller so the state machine stays
// deterministic under test.
type Manager interface {
	// StartQuestion begins the current card's question: the reveal flag is
	// cleared and the question start time is recorded for answer-delay
	// measurement. No-op if the session is already complete.
	StartQuestion(s *Session, now time.Time) error

	// Reveal shows the current card's answer. The elapsed time since
	// StartQuestion is added to the session's running answer delay exactly
	// once per question; repeated calls before the cursor advances have no
	// further effect. No-op if the session is already complete.
	Reveal(s *Session, now time.Time) error

	// MarkKnow records the current card as answered correctly: viewed and
	// correct are incremented and the cursor advances. Returns the card
	// that was marked. Returns ErrSessionComplete if no card is pending.
	MarkKnow(s *Session) (uuid.UUID, error)

	// MarkHard records the current card as difficult: viewed and hard are
	// incremented and the cursor advances. The card's known status does
	// not change. Returns the card that was marked.
	// Returns ErrSessionComplete if no card is pending.
	MarkHard(s *Session) (uuid.UUID, error)

	// CurrentCard returns the card at the cursor, or false if the session
	// is complete.
	CurrentCard(s *Session) (uuid.UUID, bool)

	// IsComplete reports whether the cursor has reached the queue length.
	IsComplete(s *Session) bool

	// Progress returns the session's counters as of the current cursor.
	// It is a pure read and never mutates the session.
	Progress(s *Session) Progress

	// Summary produces the per-deck, per-day statistics delta for a
	// finished (or abandoned) run, measured up to now.
	Summary(s *Session, now time.Time) domain.DailyStatsDelta
}

// defaultManager is the standard implementation of the Manager interface.
type defaultManager struct{}

// NewManager creates the default session state machine.
func NewManager() Manager {
	return &defaultManager{}
}

// Verify interface compliance at compile time
var _ Manager = (*defaultManager)(nil)

// StartQuestion implements Manager.StartQuestion.
func (m *defaultManager) StartQuestion(s *Session, now time.Time) error {
	if s == nil {
		return ErrNilSession
	}

	if m.IsComplete(s) {
		return nil
	}

	s.Revealed = false
	s.questionStartedAt = now
	s.delayCounted = false
	return nil
}

// Reveal implements Manager.Reveal.
func (m *defaultManager) Reveal(s *Session, now time.Time) error {
	if s == nil {
		return ErrNilSession
	}

	if m.IsComplete(s) {
		return nil
	}

	s.Revealed = true

	// Accumulate the answer delay once per question. A second Reveal before
	// the cursor advances must not double-count.
	if !s.delayCounted && !s.questionStartedAt.IsZero() {
		if d := now.Sub(s.questionStartedAt); d > 0 {
			s.answerDelay += d
		}
		s.delayCounted = true
	}

	return nil
}

// MarkKnow implements Manager.MarkKnow.
func (m *defaultManager) MarkKnow(s *Session) (uuid.UUID, error) {
	return m.advance(s, func(s *Session) { s.Correct++ })
}

// MarkHard implements Manager.MarkHard.
func (m *defaultManager) MarkHard(s *Session) (uuid.UUID, error) {
	return m.advance(s, func(s *Session) { s.Hard++ })
}

// advance records an outcome for the current card and moves the cursor to
// the next card's question-pending state.
func (m *defaultManager) advance(s *Session, record func(*Session)) (uuid.UUID, error) {
	if s == nil {
		return uuid.Nil, ErrNilSession
	}

	card, ok := m.CurrentCard(s)
	if !ok {
		return uuid.Nil, ErrSessionComplete
	}

	record(s)
	s.Viewed++
	s.Cursor++
	s.Revealed = false
	s.questionStartedAt = time.Time{}
	s.delayCounted = false
	return card, nil
}

// CurrentCard implements Manager.CurrentCard.
func (m *defaultManager) CurrentCard(s *Session) (uuid.UUID, bool) {
	if s == nil || s.Cursor >= len(s.Queue) {
		return uuid.Nil, false
	}
	return s.Queue[s.Cursor], true
}

// IsComplete implements Manager.IsComplete.
func (m *defaultManager) IsComplete(s *Session) bool {
	return s == nil || s.Cursor >= len(s.Queue)
}

// Progress implements Manager.Progress.
func (m *defaultManager) Progress(s *Session) Progress {
	if s == nil {
		return Progress{}
	}
	return Progress{
		Viewed:  s.Viewed,
		Total:   len(s.Queue),
		Correct: s.Correct,
		Hard:    s.Hard,
	}
}

// Summary implements Manager.Summary.
func (m *defaultManager) Summary(s *Session, now time.Time) domain.DailyStatsDelta {
	if s == nil {
		return domain.DailyStatsDelta{}
	}

	var durationMs int64
	if !s.StartedAt.IsZero() {
		if d := now.Sub(s.StartedAt); d > 0 {
			durationMs = d.Milliseconds()
		}
	}

	return domain.DailyStatsDelta{
		Sessions:      1,
		Viewed:        s.Viewed,
		Correct:       s.Correct,
		Hard:          s.Hard,
		DurationMs:    durationMs,
		AnswerDelayMs: s.answerDelay.Milliseconds(),
	}
}
