package practice

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lexikon/lexikon-api/internal/domain"
)

// Session validation errors
var (
	// ErrSessionDeckIDEmpty is returned when the deck ID is empty or nil.
	ErrSessionDeckIDEmpty = errors.New("session deck ID cannot be empty")

	// ErrDuplicateQueueCard is returned when the review queue contains the
	// same card more than once.
	ErrDuplicateQueueCard = errors.New("session queue cannot contain duplicate cards")
)

// OrderMode controls how the review queue is ordered when a session starts.
type OrderMode string

// Possible queue ordering modes
const (
	OrderRandom     OrderMode = "random"
	OrderSequential OrderMode = "sequential"
)

// IsValid reports whether the order mode is one of the supported values.
func (m OrderMode) IsValid() bool {
	return m == OrderRandom || m == OrderSequential
}

// Session is the in-memory state of one bounded practice run over a deck.
// It holds the fixed review queue, the cursor into it, the reveal flag for
// the current card and the outcome counters. Sessions are never persisted;
// they live only for the duration of the run and are discarded after the
// run's statistics have been recorded.
//
// Invariants maintained by the Manager:
//   - 0 <= Cursor <= len(Queue); Cursor == len(Queue) means the session is complete
//   - Revealed is true only while Cursor < len(Queue)
//   - Revealed resets to false whenever the cursor advances
//
// A Session is confined to a single logical run; concurrent callers must
// not mutate the same instance.
type Session struct {
	ID        uuid.UUID        `json:"id"`
	DeckID    uuid.UUID        `json:"deck_id"`
	Queue     []uuid.UUID      `json:"queue"`
	Cursor    int              `json:"cursor"`
	Revealed  bool             `json:"revealed"`
	Direction domain.Direction `json:"direction"`
	Order     OrderMode        `json:"order"`
	Viewed    int              `json:"viewed"`
	Correct   int              `json:"correct"`
	Hard      int              `json:"hard"`
	StartedAt time.Time        `json:"started_at"`

	// Timing state for answer-delay measurement. Managed by the Manager.
	questionStartedAt time.Time
	delayCounted      bool
	answerDelay       time.Duration
}

// NewSession creates a session over the given review queue. The queue must
// contain distinct card IDs drawn from the deck's not-yet-known cards; an
// empty queue yields a session that is immediately complete.
func NewSession(
	deckID uuid.UUID,
	queue []uuid.UUID,
	direction domain.Direction,
	order OrderMode,
	now time.Time,
) (*Session, error) {
	if deckID == uuid.Nil {
		return nil, ErrSessionDeckIDEmpty
	}

	if !direction.IsValid() {
		return nil, domain.ErrInvalidDirection
	}

	if !order.IsValid() {
		return nil, errors.New("invalid queue order mode")
	}

	seen := make(map[uuid.UUID]struct{}, len(queue))
	for _, id := range queue {
		if _, dup := seen[id]; dup {
			return nil, ErrDuplicateQueueCard
		}
		seen[id] = struct{}{}
	}

	return &Session{
		ID:        uuid.New(),
		DeckID:    deckID,
		Queue:     append([]uuid.UUID(nil), queue...),
		Direction: direction,
		Order:     order,
		StartedAt: now,
	}, nil
}

// AnswerDelay returns the total time the learner spent between seeing a
// question and revealing its answer, accumulated over the whole run.
func (s *Session) AnswerDelay() time.Duration {
	return s.answerDelay
}

// Progress is a read-only snapshot of a session's counters as of the
// current cursor position.
type Progress struct {
	Viewed  int `json:"viewed"`
	Total   int `json:"total"`
	Correct int `json:"correct"`
	Hard    int `json:"hard"`
}
