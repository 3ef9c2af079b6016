package game

import (
	"encoding/json"
	"testing"
)

func TestParseMessages(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want any
	}{
		{name: "new", raw: `{"type":"new"}`, want: &NewMessage{}},
		{name: "reset", raw: `{"type":"reset"}`, want: &NewMessage{}},
		{name: "draw", raw: `{"type":"draw"}`, want: &DrawMessage{}},
		{name: "select", raw: `{"type":"select","payload":{"card_id":"KD"}}`, want: &SelectMessage{CardID: "KD"}},
		{name: "join", raw: `{"type":"join","payload":{"game_id":"g1"}}`, want: &JoinMessage{GameID: "g1"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var msg WsMessage
			if err := json.Unmarshal([]byte(tc.raw), &msg); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			got, err := msg.Parse()
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			switch want := tc.want.(type) {
			case *NewMessage:
				if _, ok := got.(*NewMessage); !ok {
					t.Errorf("Expected *NewMessage, got %T", got)
				}
			case *DrawMessage:
				if _, ok := got.(*DrawMessage); !ok {
					t.Errorf("Expected *DrawMessage, got %T", got)
				}
			case *SelectMessage:
				if sel, ok := got.(*SelectMessage); !ok || *sel != *want {
					t.Errorf("Expected %+v, got %+v", want, got)
				}
			case *JoinMessage:
				if join, ok := got.(*JoinMessage); !ok || *join != *want {
					t.Errorf("Expected %+v, got %+v", want, got)
				}
			}
		})
	}

	msg := WsMessage{Type: "shuffle"}
	if _, err := msg.Parse(); err == nil {
		t.Errorf("Expected an error for an unknown message type")
	}
}
