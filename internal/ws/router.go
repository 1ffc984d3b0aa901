package ws

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/viking-chess/backend/internal/game"
)

// Router dispatches inbound messages to the registry and lobby and
// translates the results into outbound messages. It holds no state of
// its own; atomicity lives in the registry.
type Router struct {
	registry *game.Registry
	lobby    *Lobby
}

func NewRouter(registry *game.Registry, lobby *Lobby) *Router {
	return &Router{registry: registry, lobby: lobby}
}

// HandleMessage processes one inbound frame from p. Undecodable
// frames and unknown types are logged and dropped; a bad message
// never costs the sender its connection.
func (rt *Router) HandleMessage(p game.Peer, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("dropping undecodable message from %s: %v", p.ID(), err)
		return
	}

	switch env.Type {
	case MsgCreateSession:
		rt.handleCreate(p, env.SessionName)
	case MsgJoinSession:
		rt.handleJoin(p, env.SessionID)
	case MsgMove:
		rt.handleMove(p, env)
	case MsgSubscribeLobby:
		rt.lobby.Subscribe(p)
	case MsgUnsubscribeLobby:
		rt.lobby.Unsubscribe(p)
	default:
		log.Printf("unknown message type %q from %s", env.Type, p.ID())
	}
}

func (rt *Router) handleCreate(p game.Peer, name string) {
	s := rt.registry.Create(p, name)
	log.Printf("created game session %s (%q)", s.ID, s.Name)

	p.Send(GameSessionMessage{
		Type:        MsgGameSession,
		SessionID:   s.ID,
		SessionName: s.Name,
	})
	rt.lobby.Broadcast()
}

func (rt *Router) handleJoin(p game.Peer, sessionID string) {
	s, err := rt.registry.Join(p, sessionID)
	if err != nil {
		p.Send(errorMessage(err))
		return
	}
	log.Printf("player joined game session %s", s.ID)

	started := GameStateMessage{
		Type:      MsgGameState,
		GameState: game.Playing.String(),
		SessionID: s.ID,
	}
	s.Attacker.Send(started)
	s.Defender.Send(started)

	rt.lobby.Broadcast()
}

func (rt *Router) handleMove(p game.Peer, env Envelope) {
	peer, err := rt.registry.Relay(p, env.SessionID)
	if err != nil {
		p.Send(errorMessage(err))
		return
	}

	// Best effort: a move to an absent or closed peer is dropped.
	if peer == nil || !peer.IsOpen() {
		return
	}
	peer.Send(MoveMessage{
		Type:      MsgMove,
		SessionID: env.SessionID,
		Move:      env.Move,
	})
}

// HandleDisconnect runs the cleanup cascade for a dropped connection:
// leave the lobby first (so the dead peer is not a broadcast target),
// tear down its sessions, notify survivors, then broadcast once for
// the whole batch.
func (rt *Router) HandleDisconnect(p game.Peer) {
	rt.lobby.Unsubscribe(p)

	removed := rt.registry.RemoveAllFor(p)
	for _, rm := range removed {
		log.Printf("game session %s removed due to player disconnection", rm.SessionID)
		if rm.Survivor != nil && rm.Survivor.IsOpen() {
			rm.Survivor.Send(OpponentDisconnectedMessage{
				Type:      MsgOpponentDisconnected,
				SessionID: rm.SessionID,
			})
		}
	}

	if len(removed) > 0 {
		rt.lobby.Broadcast()
	}
}

// errorMessage maps a registry error to the client-facing wording.
func errorMessage(err error) ErrorMessage {
	msg := err.Error()
	switch {
	case errors.Is(err, game.ErrSessionNotFound):
		msg = "Game session not found"
	case errors.Is(err, game.ErrSessionFull):
		msg = "Game session is full"
	case errors.Is(err, game.ErrNotParticipant):
		msg = "You are not part of this game session"
	}
	return ErrorMessage{Type: MsgError, Message: msg}
}
