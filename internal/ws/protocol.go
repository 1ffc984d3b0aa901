package ws

import (
	"encoding/json"

	"github.com/viking-chess/backend/internal/game"
)

type MessageType string

// Inbound message types.
const (
	MsgCreateSession    MessageType = "createSession"
	MsgJoinSession      MessageType = "joinSession"
	MsgMove             MessageType = "move"
	MsgSubscribeLobby   MessageType = "subscribeLobby"
	MsgUnsubscribeLobby MessageType = "unsubscribeLobby"
)

// Outbound message types. MsgMove is used in both directions.
const (
	MsgGameSession          MessageType = "gameSession"
	MsgGameState            MessageType = "gameState"
	MsgLobbyUpdate          MessageType = "lobbyUpdate"
	MsgOpponentDisconnected MessageType = "opponentDisconnected"
	MsgError                MessageType = "error"
)

// Envelope is the inbound wire message. Move stays raw because the
// relay forwards it verbatim without interpreting its contents.
type Envelope struct {
	Type        MessageType     `json:"type"`
	SessionID   string          `json:"sessionId,omitempty"`
	SessionName string          `json:"sessionName,omitempty"`
	Move        json.RawMessage `json:"move,omitempty"`
}

// GameSessionMessage acknowledges a createSession to the creator.
type GameSessionMessage struct {
	Type        MessageType `json:"type"`
	SessionID   string      `json:"sessionId"`
	SessionName string      `json:"sessionName"`
}

// GameStateMessage tells both participants the game has started.
type GameStateMessage struct {
	Type      MessageType `json:"type"`
	GameState string      `json:"gameState"`
	SessionID string      `json:"sessionId"`
}

// MoveMessage carries an opaque move payload to the other participant.
type MoveMessage struct {
	Type      MessageType     `json:"type"`
	SessionID string          `json:"sessionId"`
	Move      json.RawMessage `json:"move"`
}

// LobbyUpdateMessage is the full waiting-session snapshot pushed to
// lobby subscribers.
type LobbyUpdateMessage struct {
	Type     MessageType       `json:"type"`
	Sessions []game.LobbyEntry `json:"sessions"`
}

type OpponentDisconnectedMessage struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"sessionId"`
}

type ErrorMessage struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
}
