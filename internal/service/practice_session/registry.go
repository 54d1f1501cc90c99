package practice_session

import (
	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/lexikon/lexikon-api/internal/domain/practice"
)

// ActiveSession pairs an in-flight session with the user who started it,
// so the presenter can refuse access by anyone else.
type ActiveSession struct {
	UserID  uuid.UUID
	Session *practice.Session
}

// SessionRegistry holds the practice sessions currently in flight, keyed by
// session ID. Sessions are never persisted; this map is their only home
// between the start and finish calls. The registry is shared across
// concurrent requests, hence the concurrent map, but each stored session
// itself is still confined to its single run.
type SessionRegistry struct {
	sessions *xsync.MapOf[uuid.UUID, *ActiveSession]
}

// NewSessionRegistry creates an empty session registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: xsync.NewMapOf[uuid.UUID, *ActiveSession](),
	}
}

// Add stores a freshly started session for the user.
func (r *SessionRegistry) Add(userID uuid.UUID, session *practice.Session) {
	r.sessions.Store(session.ID, &ActiveSession{UserID: userID, Session: session})
}

// Get returns the active session with the given ID, or false if it does
// not exist (never started, already finished, or abandoned).
func (r *SessionRegistry) Get(sessionID uuid.UUID) (*ActiveSession, bool) {
	return r.sessions.Load(sessionID)
}

// Remove discards the session, typically after its statistics have been
// recorded.
func (r *SessionRegistry) Remove(sessionID uuid.UUID) {
	r.sessions.Delete(sessionID)
}

// Len reports how many sessions are currently in flight.
func (r *SessionRegistry) Len() int {
	return r.sessions.Size()
}
