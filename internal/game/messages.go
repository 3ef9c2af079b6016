package game

import (
	"encoding/json"
	"fmt"
)

// Message type for WebSocket communication between client and server.
type MessageType string

const (
	MsgTypeJoin   MessageType = "join"   // Client attaches to a game, or asks for a new one
	MsgTypeNew    MessageType = "new"    // Client wants a freshly dealt game (reset)
	MsgTypeReset  MessageType = "reset"  // Same as MsgTypeNew
	MsgTypeDraw   MessageType = "draw"   // Client wants 3 more cards on the reserve stacks
	MsgTypeSelect MessageType = "select" // Client clicks a card
	MsgTypeState  MessageType = "state"  // Server sends the full game state
	MsgTypeError  MessageType = "error"  // Server sends an error message
)

// WsMessage represents a WebSocket message.
type WsMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewWsMessage creates a new WsMessage with a marshaled payload.
func NewWsMessage(msgType MessageType, payload interface{}) (WsMessage, error) {
	if payload == nil {
		return WsMessage{Type: msgType}, nil
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return WsMessage{}, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return WsMessage{
		Type:    msgType,
		Payload: payloadBytes,
	}, nil
}

// Parse unmarshals the message payload into one of the message types (JoinMessage, StateMessage, etc.)
func (m *WsMessage) Parse() (any, error) {
	var target any
	switch m.Type {
	case MsgTypeJoin:
		target = &JoinMessage{}
	case MsgTypeNew, MsgTypeReset:
		target = &NewMessage{}
	case MsgTypeDraw:
		target = &DrawMessage{}
	case MsgTypeSelect:
		target = &SelectMessage{}
	case MsgTypeState:
		target = &StateMessage{}
	case MsgTypeError:
		target = &ErrorMessage{}
	default:
		return nil, fmt.Errorf("unknown message type: %s", m.Type)
	}

	if len(m.Payload) == 0 {
		return target, nil
	}

	err := json.Unmarshal(m.Payload, target)
	return target, err
}

// JoinMessage is the payload for MsgTypeJoin.
// An empty or unknown GameID starts a new game.
type JoinMessage struct {
	GameID string `json:"game_id"`
}

// NewMessage: empty. Both MsgTypeNew and MsgTypeReset parse to it.
type NewMessage struct{}

// DrawMessage: empty.
type DrawMessage struct{}

// SelectMessage is the payload for MsgTypeSelect
type SelectMessage struct {
	CardID string `json:"card_id"`
}

// StateMessage is the payload for MsgTypeState
type StateMessage struct {
	GameID   string    `json:"game_id"`
	State    GameState `json:"state"`
	GameOver bool      `json:"game_over"`
	Removed  []string  `json:"removed,omitempty"` // Cards removed by the last select, if any
}

// ErrorMessage is the payload for MsgTypeError
type ErrorMessage struct {
	Message string `json:"message"`
}
