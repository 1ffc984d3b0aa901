package game

import (
	"time"
)

// Peer is one live connection to a remote player. The registry holds
// peers as weak references: the transport owns the connection, and a
// peer may close at any moment. Send must never block and must be a
// no-op once the peer is closed. Peers are compared by ID, never by
// pointer identity.
type Peer interface {
	ID() string
	IsOpen() bool
	Send(v any)
}

// Session pairs two peers. The attacker slot is bound at creation and
// the defender slot exactly once on a successful join; a session in
// the registry is either waiting (no defender) or playing (both
// bound). Terminated sessions are deleted, never kept around.
type Session struct {
	ID        string
	Name      string
	CreatedAt time.Time
	State     State
	Attacker  Peer
	Defender  Peer

	seq int
}

func (s *Session) participant(p Peer) bool {
	if s.Attacker != nil && s.Attacker.ID() == p.ID() {
		return true
	}
	if s.Defender != nil && s.Defender.ID() == p.ID() {
		return true
	}
	return false
}

// other returns the participant that is not p, or nil when p holds
// both slots (self-join) or the other slot is empty.
func (s *Session) other(p Peer) Peer {
	var o Peer
	if s.Attacker != nil && s.Attacker.ID() != p.ID() {
		o = s.Attacker
	}
	if s.Defender != nil && s.Defender.ID() != p.ID() {
		o = s.Defender
	}
	return o
}

// LobbyEntry is one waiting session as shown in the lobby feed.
type LobbyEntry struct {
	SessionID   string    `json:"sessionId"`
	SessionName string    `json:"sessionName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SessionInfo is the full per-session view served by the debug
// endpoint, including participant presence.
type SessionInfo struct {
	SessionID   string    `json:"sessionId"`
	SessionName string    `json:"sessionName"`
	State       State     `json:"gameState"`
	HasAttacker bool      `json:"hasAttacker"`
	HasDefender bool      `json:"hasDefender"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Removal reports one session torn down by a disconnect. Survivor is
// the remaining participant to notify, nil when there is none.
type Removal struct {
	SessionID string
	Survivor  Peer
}
