package game

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("game session not found")
	ErrSessionFull     = errors.New("game session is full")
	ErrNotParticipant  = errors.New("not part of this game session")
)

// Registry owns every live session. All mutations happen under one
// lock, so a join racing a disconnect (or a second join) resolves to
// exactly one winner and the loser sees the committed state.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	nextSeq  int
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
	}
}

// Create stores a new waiting session with p as attacker and returns
// a snapshot of it. It never fails. An empty name gets a placeholder
// derived from the session id.
func (r *Registry) Create(p Peer, name string) Session {
	id := uuid.NewString()
	if name == "" {
		name = "Game " + id[:8]
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s := &Session{
		ID:        id,
		Name:      name,
		CreatedAt: time.Now(),
		State:     Waiting,
		Attacker:  p,
		seq:       r.nextSeq,
	}
	r.nextSeq++
	r.sessions[id] = s
	return *s
}

// Join binds p as defender of the session with the given id and moves
// it to playing. A missing id yields ErrSessionNotFound, an already
// bound defender ErrSessionFull. Joining one's own session is allowed.
func (r *Registry) Join(p Peer, id string) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	if s.Defender != nil {
		return Session{}, ErrSessionFull
	}

	s.Defender = p
	s.State = Playing
	return *s, nil
}

// Relay resolves the peer a move from p should be forwarded to. The
// returned peer may be nil (moving in a session still waiting for a
// defender); the caller drops the move in that case.
func (r *Registry) Relay(p Peer, id string) (Peer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !s.participant(p) {
		return nil, ErrNotParticipant
	}
	return s.other(p), nil
}

// RemoveAllFor deletes every session p participates in and reports
// the removals so the caller can notify survivors and trigger a
// single lobby broadcast for the whole batch.
func (r *Registry) RemoveAllFor(p Peer) []Removal {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []Removal
	for id, s := range r.sessions {
		if !s.participant(p) {
			continue
		}
		removed = append(removed, Removal{
			SessionID: id,
			Survivor:  s.other(p),
		})
		s.State = Terminated
		delete(r.sessions, id)
	}
	return removed
}

// Waiting returns the lobby view: every waiting session in creation
// order. The view is always derived fresh from the registry.
func (r *Registry) Waiting() []LobbyEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ordered := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		if s.State == Waiting {
			ordered = append(ordered, s)
		}
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].seq < ordered[j].seq })

	entries := make([]LobbyEntry, 0, len(ordered))
	for _, s := range ordered {
		entries = append(entries, LobbyEntry{
			SessionID:   s.ID,
			SessionName: s.Name,
			CreatedAt:   s.CreatedAt,
		})
	}
	return entries
}

// Snapshot lists every session for operational inspection.
func (r *Registry) Snapshot() []SessionInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ordered := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		ordered = append(ordered, s)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].seq < ordered[j].seq })

	infos := make([]SessionInfo, 0, len(ordered))
	for _, s := range ordered {
		infos = append(infos, SessionInfo{
			SessionID:   s.ID,
			SessionName: s.Name,
			State:       s.State,
			HasAttacker: s.Attacker != nil,
			HasDefender: s.Defender != nil,
			CreatedAt:   s.CreatedAt,
		})
	}
	return infos
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
