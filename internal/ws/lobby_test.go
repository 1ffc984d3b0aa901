package ws

import (
	"testing"

	"github.com/viking-chess/backend/internal/game"
)

func TestSubscribeSendsImmediateSnapshot(t *testing.T) {
	registry := game.NewRegistry()
	lobby := NewLobby(registry)

	creator := newFakePeer("a")
	first := registry.Create(creator, "first")
	second := registry.Create(creator, "second")
	if _, err := registry.Join(newFakePeer("d"), second.ID); err != nil {
		t.Fatalf("join: %v", err)
	}

	sub := newFakePeer("watcher")
	lobby.Subscribe(sub)

	view := lastLobbyUpdate(t, sub)
	if len(view.Sessions) != 1 {
		t.Fatalf("snapshot has %d sessions, want 1", len(view.Sessions))
	}
	if view.Sessions[0].SessionID != first.ID {
		t.Errorf("snapshot session = %q, want %q", view.Sessions[0].SessionID, first.ID)
	}
}

func TestUnsubscribeStopsDeliveries(t *testing.T) {
	registry := game.NewRegistry()
	lobby := NewLobby(registry)
	sub := newFakePeer("watcher")

	lobby.Subscribe(sub)
	sub.clear()

	lobby.Unsubscribe(sub)
	lobby.Broadcast()
	if got := countLobbyUpdates(sub); got != 0 {
		t.Errorf("unsubscribed peer received %d updates", got)
	}

	// Unsubscribing twice is harmless.
	lobby.Unsubscribe(sub)
	if lobby.Contains(sub) {
		t.Error("peer still subscribed after unsubscribe")
	}
}

func TestBroadcastReachesAllSubscribers(t *testing.T) {
	registry := game.NewRegistry()
	lobby := NewLobby(registry)

	subs := []*fakePeer{newFakePeer("s1"), newFakePeer("s2"), newFakePeer("s3")}
	for _, s := range subs {
		lobby.Subscribe(s)
		s.clear()
	}

	registry.Create(newFakePeer("a"), "g")
	lobby.Broadcast()

	for _, s := range subs {
		if got := countLobbyUpdates(s); got != 1 {
			t.Errorf("subscriber %s received %d updates, want 1", s.ID(), got)
		}
	}
}

func TestBroadcastPrunesClosedSubscribers(t *testing.T) {
	registry := game.NewRegistry()
	lobby := NewLobby(registry)

	alive := newFakePeer("alive")
	dead := newFakePeer("dead")
	lobby.Subscribe(alive)
	lobby.Subscribe(dead)
	alive.clear()
	dead.clear()

	dead.close()
	lobby.Broadcast()

	if got := countLobbyUpdates(alive); got != 1 {
		t.Errorf("open subscriber received %d updates, want 1", got)
	}
	if got := countLobbyUpdates(dead); got != 0 {
		t.Errorf("closed subscriber received %d updates, want 0", got)
	}
	if lobby.Contains(dead) {
		t.Error("closed subscriber not pruned")
	}
	if got := lobby.Count(); got != 1 {
		t.Errorf("Count() = %d, want 1", got)
	}
}
