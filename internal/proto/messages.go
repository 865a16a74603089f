package proto

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kushgupta-hiver/quarto/internal/engine"
)

var ErrInvalidMessage = errors.New("invalid message")

type ClientType string

const (
	CreateRoom  ClientType = "create-room"
	JoinRoom    ClientType = "join-room"
	SelectPiece ClientType = "select-piece"
	PlacePiece  ClientType = "place-piece"
	CallQuarto  ClientType = "call-quarto"
	LeaveRoom   ClientType = "leave-room"
	Reconnect   ClientType = "reconnect"
	QuickMatch  ClientType = "quick-match"
)

// ---- Client -> Server ----
type ClientMsg struct {
	Type          ClientType      `json:"type"`
	Name          string          `json:"name,omitempty"`          // create-room, join-room, quick-match
	RoomID        string          `json:"roomId,omitempty"`        // join-room
	PlayerID      string          `json:"playerId,omitempty"`      // reconnect
	PieceID       *int            `json:"pieceId,omitempty"`       // select-piece
	Position      *int            `json:"position,omitempty"`      // place-piece
	AdvancedRules *bool           `json:"advancedRules,omitempty"` // create-room
	WinCheck      engine.WinCheck `json:"winCheck,omitempty"`      // create-room
	MsgID         string          `json:"msgId,omitempty"`         // idempotency
}

// Decode parses a client frame and checks that the fields its type needs
// are present. Range checks on pieces and positions are left to the game.
func Decode(data []byte) (ClientMsg, error) {
	var m ClientMsg
	if err := json.Unmarshal(data, &m); err != nil {
		return ClientMsg{}, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	return m, m.Validate()
}

func (m ClientMsg) Validate() error {
	switch m.Type {
	case CreateRoom, QuickMatch, CallQuarto, LeaveRoom:
	case JoinRoom:
		if m.RoomID == "" {
			return fmt.Errorf("%w: join-room needs roomId", ErrInvalidMessage)
		}
	case SelectPiece:
		if m.PieceID == nil {
			return fmt.Errorf("%w: select-piece needs pieceId", ErrInvalidMessage)
		}
	case PlacePiece:
		if m.Position == nil {
			return fmt.Errorf("%w: place-piece needs position", ErrInvalidMessage)
		}
	case Reconnect:
		if m.PlayerID == "" {
			return fmt.Errorf("%w: reconnect needs playerId", ErrInvalidMessage)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidMessage, m.Type)
	}
	if m.Type == CreateRoom && m.WinCheck != "" {
		if _, err := engine.ParseWinCheck(string(m.WinCheck)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidMessage, err)
		}
	}
	return nil
}

// ---- Server -> Client ----
const (
	TypeRoomCreated  = "room-created"
	TypeRoomJoined   = "room-joined"
	TypePlayerJoined = "player-joined"
	TypeStateUpdate  = "state-update"
	TypePlayerLeft   = "player-left"
	TypeGameOver     = "game-over"
	TypeError        = "error"
)

type RoomCreated struct {
	Type     string          `json:"type"` // "room-created"
	RoomID   string          `json:"roomId"`
	PlayerID string          `json:"playerId"`
	Game     engine.Snapshot `json:"game"`
}

type RoomJoined struct {
	Type     string          `json:"type"` // "room-joined"
	RoomID   string          `json:"roomId"`
	PlayerID string          `json:"playerId"`
	Game     engine.Snapshot `json:"game"`
}

type PlayerJoined struct {
	Type string          `json:"type"` // "player-joined"
	Game engine.Snapshot `json:"game"`
}

type StateUpdate struct {
	Type  string          `json:"type"` // "state-update"
	Game  engine.Snapshot `json:"game"`
	MsgID string          `json:"msgId,omitempty"`
}

type LeaveReason string

const (
	ReasonDisconnect LeaveReason = "disconnect"
	ReasonTimeout    LeaveReason = "timeout"
	ReasonForfeit    LeaveReason = "forfeit"
)

type PlayerLeft struct {
	Type     string      `json:"type"` // "player-left"
	PlayerID string      `json:"playerId"`
	Reason   LeaveReason `json:"reason"`
}

type GameOver struct {
	Type             string          `json:"type"` // "game-over"
	Winner           engine.Winner   `json:"winner"`
	WinningPositions []int           `json:"winningPositions"`
	Game             engine.Snapshot `json:"game"`
}

type Error struct {
	Type    string    `json:"type"` // "error"
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func NewRoomCreated(roomID, playerID string, g engine.Snapshot) RoomCreated {
	return RoomCreated{Type: TypeRoomCreated, RoomID: roomID, PlayerID: playerID, Game: g}
}

func NewRoomJoined(roomID, playerID string, g engine.Snapshot) RoomJoined {
	return RoomJoined{Type: TypeRoomJoined, RoomID: roomID, PlayerID: playerID, Game: g}
}

func NewPlayerJoined(g engine.Snapshot) PlayerJoined {
	return PlayerJoined{Type: TypePlayerJoined, Game: g}
}

func NewStateUpdate(g engine.Snapshot, msgID string) StateUpdate {
	return StateUpdate{Type: TypeStateUpdate, Game: g, MsgID: msgID}
}

func NewPlayerLeft(playerID string, reason LeaveReason) PlayerLeft {
	return PlayerLeft{Type: TypePlayerLeft, PlayerID: playerID, Reason: reason}
}

func NewGameOver(g engine.Snapshot) GameOver {
	return GameOver{Type: TypeGameOver, Winner: g.Winner, WinningPositions: g.WinningLine, Game: g}
}

func NewError(code ErrorCode, msg string) Error {
	return Error{Type: TypeError, Code: code, Message: msg}
}
