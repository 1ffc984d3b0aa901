package ws

import (
	"sync"
	"testing"
)

// fakePeer implements game.Peer for router and lobby tests, recording
// everything sent to it.
type fakePeer struct {
	id   string
	mu   sync.Mutex
	open bool
	sent []any
}

func newFakePeer(id string) *fakePeer {
	return &fakePeer{id: id, open: true}
}

func (p *fakePeer) ID() string { return p.id }

func (p *fakePeer) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

func (p *fakePeer) Send(v any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.open {
		return
	}
	p.sent = append(p.sent, v)
}

func (p *fakePeer) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = false
}

func (p *fakePeer) messages() []any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]any(nil), p.sent...)
}

func (p *fakePeer) clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = nil
}

// lastLobbyUpdate returns the most recent lobby update sent to p, or
// fails the test if there is none.
func lastLobbyUpdate(t *testing.T, p *fakePeer) LobbyUpdateMessage {
	t.Helper()
	msgs := p.messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if m, ok := msgs[i].(LobbyUpdateMessage); ok {
			return m
		}
	}
	t.Fatal("no lobby update received")
	return LobbyUpdateMessage{}
}

func countLobbyUpdates(p *fakePeer) int {
	n := 0
	for _, m := range p.messages() {
		if _, ok := m.(LobbyUpdateMessage); ok {
			n++
		}
	}
	return n
}
