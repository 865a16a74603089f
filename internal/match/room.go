package match

import (
	"context"
	"fmt"
	"sync"

	"github.com/kushgupta-hiver/quarto/internal/engine"
	"github.com/kushgupta-hiver/quarto/internal/proto"
)

type Player struct {
	ID   string
	Name string
}

// Move is one validated-on-arrival player action.
type Move struct {
	PlayerID string
	MsgID    string
	Type     engine.MoveType
	PieceID  int
	Position int
}

// Notifier delivers server messages to a connected player. Unknown or
// disconnected players are dropped silently.
type Notifier interface {
	Send(playerID string, msg any)
}

type Options struct {
	AdvancedRules bool
	WinCheck      engine.WinCheck
}

// Room owns the authoritative game between two remote players. Every method
// applies under the room lock and broadcasts before releasing it, so both
// players see updates in the order they were applied.
type Room interface {
	ID() string
	Join(ctx context.Context, p Player) (engine.Snapshot, error)
	Submit(ctx context.Context, m Move) (engine.Snapshot, error)
	Leave(ctx context.Context, playerID string, reason proto.LeaveReason) (engine.Snapshot, error)
	State() engine.Snapshot
}

type room struct {
	id     string
	notify Notifier
	mu     sync.Mutex
	game   *engine.Game

	seats [2]string                  // seat -> playerID
	hist  map[string]engine.Snapshot // msgID -> state (idempotency)
}

func NewRoom(id string, opts Options, notify Notifier) Room {
	return newRoom(id, opts, notify)
}

func newRoom(id string, opts Options, notify Notifier) *room {
	g := engine.NewGame(engine.ModeOnline, [2]engine.Player{},
		engine.Waiting(),
		engine.WithAdvancedRules(opts.AdvancedRules),
		engine.WithWinCheck(opts.WinCheck),
	)
	return &room{
		id:     id,
		notify: notify,
		game:   g,
		hist:   make(map[string]engine.Snapshot, 16),
	}
}

func (r *room) ID() string { return r.id }

func (r *room) seatOf(playerID string) (int, bool) {
	for i, id := range r.seats {
		if id != "" && id == playerID {
			return i, true
		}
	}
	return 0, false
}

func (r *room) opponent(seat int) string { return r.seats[1-seat] }

func (r *room) send(playerID string, msg any) {
	if playerID != "" {
		r.notify.Send(playerID, msg)
	}
}

func (r *room) broadcast(msg any) {
	for _, id := range r.seats {
		r.send(id, msg)
	}
}

// Join seats p or, if p already holds a seat, resynchronises them. The first
// player in receives room-created; later joiners receive room-joined and the
// opponent is told with player-joined.
func (r *room) Join(_ context.Context, p Player) (engine.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if seat, ok := r.seatOf(p.ID); ok {
		snap := r.game.Snapshot()
		r.send(p.ID, proto.NewRoomJoined(r.id, p.ID, snap))
		r.send(r.opponent(seat), proto.NewPlayerJoined(snap))
		return snap, nil
	}

	seat, err := r.seat(p)
	if err != nil {
		return r.game.Snapshot(), err
	}
	snap := r.game.Snapshot()
	if r.opponent(seat) == "" {
		r.send(p.ID, proto.NewRoomCreated(r.id, p.ID, snap))
		return snap, nil
	}
	r.send(p.ID, proto.NewRoomJoined(r.id, p.ID, snap))
	r.send(r.opponent(seat), proto.NewPlayerJoined(snap))
	return snap, nil
}

// seatPair fills both seats at once for a quick match; both players get
// room-joined.
func (r *room) seatPair(a, b Player) (engine.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range []Player{a, b} {
		if _, err := r.seat(p); err != nil {
			return r.game.Snapshot(), err
		}
	}
	snap := r.game.Snapshot()
	for _, id := range r.seats {
		r.send(id, proto.NewRoomJoined(r.id, id, snap))
	}
	return snap, nil
}

func (r *room) seat(p Player) (int, error) {
	if r.game.Status() != engine.StatusWaiting {
		return 0, ErrRoomFull
	}
	idx := 0
	if r.seats[0] != "" {
		idx = 1
	}
	name := p.Name
	if name == "" {
		name = fmt.Sprintf("Player %d", idx+1)
	}
	if err := r.game.SetPlayer(idx, engine.Player{ID: p.ID, Name: name, Type: engine.PlayerHumanRemote}); err != nil {
		return 0, err
	}
	r.seats[idx] = p.ID
	if r.seats[0] != "" && r.seats[1] != "" {
		if err := r.game.Start(); err != nil {
			return 0, err
		}
	}
	return idx, nil
}

func (r *room) Submit(_ context.Context, m Move) (engine.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Idempotency: a resent msgID gets the recorded state back, to the sender only
	if m.MsgID != "" {
		if s, ok := r.hist[m.MsgID]; ok {
			r.send(m.PlayerID, proto.NewStateUpdate(s, m.MsgID))
			return s, nil
		}
	}

	seat, ok := r.seatOf(m.PlayerID)
	if !ok {
		return r.game.Snapshot(), ErrUnknownPlayer
	}
	if r.game.Status() == engine.StatusPlaying && r.game.CurrentTurn() != seat {
		return r.game.Snapshot(), ErrNotYourTurn
	}

	var err error
	switch m.Type {
	case engine.MoveSelect:
		err = r.game.Select(m.PieceID)
	case engine.MovePlace:
		err = r.game.Place(m.Position)
	case engine.MoveQuarto:
		_, err = r.game.CallQuarto()
	default:
		err = fmt.Errorf("%w: move type %q", proto.ErrInvalidMessage, m.Type)
	}
	if err != nil {
		return r.game.Snapshot(), err
	}

	snap := r.game.Snapshot()
	if m.MsgID != "" {
		r.hist[m.MsgID] = snap
	}
	r.broadcast(proto.NewStateUpdate(snap, m.MsgID))
	if snap.Status == engine.StatusFinished {
		r.broadcast(proto.NewGameOver(snap))
	}
	return snap, nil
}

// Leave reports a departure to the opponent. Timeout and forfeit end a
// running game in the opponent's favour; a disconnect leaves the outcome
// alone.
func (r *room) Leave(_ context.Context, playerID string, reason proto.LeaveReason) (engine.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seat, ok := r.seatOf(playerID)
	if !ok {
		return r.game.Snapshot(), ErrUnknownPlayer
	}
	opp := r.opponent(seat)
	r.send(opp, proto.NewPlayerLeft(playerID, reason))

	if reason == proto.ReasonDisconnect || r.game.Status() != engine.StatusPlaying {
		return r.game.Snapshot(), nil
	}
	if err := r.game.Forfeit(seat); err != nil {
		return r.game.Snapshot(), err
	}
	snap := r.game.Snapshot()
	r.send(opp, proto.NewGameOver(snap))
	return snap, nil
}

func (r *room) State() engine.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.Snapshot()
}
