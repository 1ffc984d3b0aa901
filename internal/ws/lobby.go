package ws

import (
	"sync"

	"github.com/viking-chess/backend/internal/game"
)

// Lobby tracks the peers subscribed to the waiting-session feed. The
// view itself is never stored: every push derives it fresh from the
// registry, so it cannot drift from session state.
type Lobby struct {
	registry *game.Registry

	mu   sync.RWMutex
	subs map[string]game.Peer
}

func NewLobby(registry *game.Registry) *Lobby {
	return &Lobby{
		registry: registry,
		subs:     make(map[string]game.Peer),
	}
}

// Subscribe adds p to the feed and immediately sends it the current
// view, without waiting for the next broadcast.
func (l *Lobby) Subscribe(p game.Peer) {
	l.mu.Lock()
	l.subs[p.ID()] = p
	l.mu.Unlock()

	p.Send(l.snapshot())
}

// Unsubscribe removes p from the feed. Unsubscribing a non-member is
// a no-op.
func (l *Lobby) Unsubscribe(p game.Peer) {
	l.mu.Lock()
	delete(l.subs, p.ID())
	l.mu.Unlock()
}

// Broadcast recomputes the waiting-session view and pushes it to every
// open subscriber. Callers must invoke it only after the registry
// mutation that triggered it has committed. Subscribers found closed
// are pruned here in case their disconnect cascade has not run yet.
func (l *Lobby) Broadcast() {
	msg := l.snapshot()

	l.mu.RLock()
	peers := make([]game.Peer, 0, len(l.subs))
	for _, p := range l.subs {
		peers = append(peers, p)
	}
	l.mu.RUnlock()

	for _, p := range peers {
		if !p.IsOpen() {
			l.Unsubscribe(p)
			continue
		}
		p.Send(msg)
	}
}

func (l *Lobby) Contains(p game.Peer) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.subs[p.ID()]
	return ok
}

func (l *Lobby) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.subs)
}

func (l *Lobby) snapshot() LobbyUpdateMessage {
	return LobbyUpdateMessage{
		Type:     MsgLobbyUpdate,
		Sessions: l.registry.Waiting(),
	}
}
