package proto

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/kushgupta-hiver/quarto/internal/engine"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"create room", `{"type":"create-room","name":"Ada"}`, false},
		{"create room with options", `{"type":"create-room","advancedRules":true,"winCheck":"claim"}`, false},
		{"create room bad win check", `{"type":"create-room","winCheck":"sometimes"}`, true},
		{"join room", `{"type":"join-room","roomId":"r1","name":"Linus"}`, false},
		{"join room without id", `{"type":"join-room","name":"Linus"}`, true},
		{"select piece zero", `{"type":"select-piece","pieceId":0,"msgId":"m1"}`, false},
		{"select piece missing id", `{"type":"select-piece"}`, true},
		{"place piece", `{"type":"place-piece","position":15}`, false},
		{"place piece missing position", `{"type":"place-piece","pieceId":3}`, true},
		{"call quarto", `{"type":"call-quarto"}`, false},
		{"leave room", `{"type":"leave-room"}`, false},
		{"reconnect", `{"type":"reconnect","playerId":"p-1"}`, false},
		{"reconnect without id", `{"type":"reconnect"}`, true},
		{"quick match", `{"type":"quick-match","name":"Grace"}`, false},
		{"unknown type", `{"type":"move","position":1}`, true},
		{"not json", `select 3`, true},
		{"wrong field type", `{"type":"place-piece","position":"3"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.raw))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidMessage) {
					t.Fatalf("expected ErrInvalidMessage, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestDecode_KeepsFields(t *testing.T) {
	m, err := Decode([]byte(`{"type":"select-piece","pieceId":0,"msgId":"abc"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Type != SelectPiece || m.PieceID == nil || *m.PieceID != 0 || m.MsgID != "abc" {
		t.Fatalf("unexpected message %+v", m)
	}
}

func TestCodeFor(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorCode
	}{
		{engine.ErrInvalidPiece, CodeInvalidPiece},
		{engine.ErrPieceUnavailable, CodeInvalidPiece},
		{engine.ErrInvalidPosition, CodeInvalidPosition},
		{engine.ErrCellOccupied, CodeInvalidPosition},
		{engine.ErrWrongPhase, CodeWrongPhase},
		{engine.ErrNoQuarto, CodeNoQuarto},
		{engine.ErrGameOver, CodeGameEnded},
		{fmt.Errorf("wrapped: %w", engine.ErrCellOccupied), CodeInvalidPosition},
		{errors.New("anything else"), CodeInvalidMessage},
	}
	for _, tt := range tests {
		if got := CodeFor(tt.err); got != tt.want {
			t.Fatalf("CodeFor(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}

func TestServerMessagesCarryType(t *testing.T) {
	g := engine.NewGame(engine.ModeOnline, [2]engine.Player{}, engine.Waiting())
	for _, tt := range []struct {
		msg  any
		want string
	}{
		{NewRoomCreated("r", "p", g.Snapshot()), "room-created"},
		{NewRoomJoined("r", "p", g.Snapshot()), "room-joined"},
		{NewPlayerJoined(g.Snapshot()), "player-joined"},
		{NewStateUpdate(g.Snapshot(), ""), "state-update"},
		{NewPlayerLeft("p", ReasonTimeout), "player-left"},
		{NewGameOver(g.Snapshot()), "game-over"},
		{NewError(CodeRoomFull, "full"), "error"},
	} {
		data, err := json.Marshal(tt.msg)
		if err != nil {
			t.Fatalf("marshal %T: %v", tt.msg, err)
		}
		var head struct{ Type string }
		if err := json.Unmarshal(data, &head); err != nil {
			t.Fatalf("unmarshal %T: %v", tt.msg, err)
		}
		if head.Type != tt.want {
			t.Fatalf("%T has type %q, want %q", tt.msg, head.Type, tt.want)
		}
	}
}
