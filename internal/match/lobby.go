package match

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kushgupta-hiver/quarto/internal/engine"
	"github.com/kushgupta-hiver/quarto/internal/proto"
)

type LobbyOptions struct {
	GracePeriod time.Duration // 0 = immediate forfeit on disconnect
	Room        Options       // defaults for rooms whose creator sets nothing
}

type graceTimer struct {
	t   *time.Timer
	seq uint64
}

// Lobby is the registry of open rooms. It remembers which room each issued
// player id belongs to so a dropped connection can reclaim its seat.
type Lobby struct {
	opts   LobbyOptions
	notify Notifier
	mm     Matchmaker

	mu      sync.Mutex
	rooms   map[string]Room
	members map[string]int    // roomID -> attached players
	players map[string]string // playerID -> roomID
	queued  map[string]bool   // playerID waiting for a quick match
	timers  map[string]graceTimer
	seq     uint64
}

func NewLobby(opts LobbyOptions, notify Notifier) *Lobby {
	l := &Lobby{
		opts:    opts,
		notify:  notify,
		rooms:   make(map[string]Room),
		members: make(map[string]int),
		players: make(map[string]string),
		queued:  make(map[string]bool),
		timers:  make(map[string]graceTimer),
	}
	l.mm = NewMatchmaker(l.onMatch)
	return l
}

func (l *Lobby) Close() error {
	l.mu.Lock()
	for id, gt := range l.timers {
		gt.t.Stop()
		delete(l.timers, id)
	}
	l.mu.Unlock()
	return l.mm.Close()
}

// Handle applies one decoded client message on behalf of playerID.
// Reconnect is handled by Reconnect since it changes who the caller is.
func (l *Lobby) Handle(ctx context.Context, playerID string, m proto.ClientMsg) error {
	p := Player{ID: playerID, Name: m.Name}
	switch m.Type {
	case proto.CreateRoom:
		o := l.opts.Room
		if m.AdvancedRules != nil {
			o.AdvancedRules = *m.AdvancedRules
		}
		if m.WinCheck != "" {
			o.WinCheck = m.WinCheck
		}
		_, err := l.CreateRoom(ctx, p, o)
		return err
	case proto.JoinRoom:
		_, err := l.JoinRoom(ctx, m.RoomID, p)
		return err
	case proto.QuickMatch:
		return l.QuickMatch(ctx, p)
	case proto.SelectPiece:
		return l.Submit(ctx, Move{PlayerID: playerID, MsgID: m.MsgID, Type: engine.MoveSelect, PieceID: *m.PieceID})
	case proto.PlacePiece:
		return l.Submit(ctx, Move{PlayerID: playerID, MsgID: m.MsgID, Type: engine.MovePlace, Position: *m.Position})
	case proto.CallQuarto:
		return l.Submit(ctx, Move{PlayerID: playerID, MsgID: m.MsgID, Type: engine.MoveQuarto})
	case proto.LeaveRoom:
		return l.Leave(ctx, playerID)
	case proto.Reconnect:
		_, err := l.Reconnect(ctx, m.PlayerID)
		return err
	}
	return proto.ErrInvalidMessage
}

func (l *Lobby) CreateRoom(ctx context.Context, p Player, o Options) (Room, error) {
	id := uuid.NewString()
	r := NewRoom(id, o, l.notify)

	l.mu.Lock()
	if err := l.releaseFinishedLocked(p.ID); err != nil {
		l.mu.Unlock()
		return nil, err
	}
	l.rooms[id] = r
	l.attachLocked(p.ID, id)
	l.mu.Unlock()

	if _, err := r.Join(ctx, p); err != nil {
		l.mu.Lock()
		l.detachLocked(p.ID)
		l.mu.Unlock()
		return nil, err
	}
	log.Printf("room %s created by %s", id, p.ID)
	return r, nil
}

func (l *Lobby) JoinRoom(ctx context.Context, roomID string, p Player) (Room, error) {
	l.mu.Lock()
	r, ok := l.rooms[roomID]
	if !ok {
		l.mu.Unlock()
		return nil, ErrRoomNotFound
	}
	if l.players[p.ID] == roomID {
		l.mu.Unlock()
		_, err := r.Join(ctx, p)
		return r, err
	}
	if err := l.releaseFinishedLocked(p.ID); err != nil {
		l.mu.Unlock()
		return nil, err
	}
	l.attachLocked(p.ID, roomID)
	l.mu.Unlock()

	if _, err := r.Join(ctx, p); err != nil {
		l.mu.Lock()
		l.detachLocked(p.ID)
		l.mu.Unlock()
		return nil, err
	}
	log.Printf("player %s joined room %s", p.ID, roomID)
	return r, nil
}

// QuickMatch queues p; the room-joined message arrives once an opponent is
// found.
func (l *Lobby) QuickMatch(ctx context.Context, p Player) error {
	l.mu.Lock()
	if err := l.releaseFinishedLocked(p.ID); err != nil {
		l.mu.Unlock()
		return err
	}
	l.queued[p.ID] = true
	l.mu.Unlock()
	return l.mm.Enqueue(ctx, p)
}

func (l *Lobby) onMatch(ev RoomCreatedEvent) {
	l.mu.Lock()
	if !l.queued[ev.First.ID] || !l.queued[ev.Second.ID] {
		// one of them went away; requeue whoever is still waiting
		for _, p := range []Player{ev.First, ev.Second} {
			if l.queued[p.ID] {
				go l.mm.Enqueue(context.Background(), p)
			}
		}
		l.mu.Unlock()
		return
	}
	delete(l.queued, ev.First.ID)
	delete(l.queued, ev.Second.ID)
	r := newRoom(ev.RoomID, l.opts.Room, l.notify)
	l.rooms[ev.RoomID] = r
	l.attachLocked(ev.First.ID, ev.RoomID)
	l.attachLocked(ev.Second.ID, ev.RoomID)
	l.mu.Unlock()

	if _, err := r.seatPair(ev.First, ev.Second); err != nil {
		log.Printf("quick match %s: %v", ev.RoomID, err)
		return
	}
	log.Printf("room %s matched %s vs %s", ev.RoomID, ev.First.ID, ev.Second.ID)
}

func (l *Lobby) Submit(ctx context.Context, m Move) error {
	r, err := l.roomOf(m.PlayerID)
	if err != nil {
		return err
	}
	_, err = r.Submit(ctx, m)
	return err
}

// Leave is a deliberate exit: a running game is forfeited.
func (l *Lobby) Leave(ctx context.Context, playerID string) error {
	return l.depart(ctx, playerID, proto.ReasonForfeit)
}

func (l *Lobby) depart(ctx context.Context, playerID string, reason proto.LeaveReason) error {
	r, err := l.roomOf(playerID)
	if err != nil {
		return err
	}
	snap, err := r.Leave(ctx, playerID, reason)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.stopTimerLocked(playerID)
	l.detachLocked(playerID)
	l.mu.Unlock()
	log.Printf("player %s left room %s (%s), status %s", playerID, r.ID(), reason, snap.Status)
	return nil
}

// Reconnect restores playerID to its seat and cancels any pending forfeit.
func (l *Lobby) Reconnect(ctx context.Context, playerID string) (Room, error) {
	l.mu.Lock()
	roomID, ok := l.players[playerID]
	if !ok {
		l.mu.Unlock()
		return nil, ErrUnknownPlayer
	}
	l.stopTimerLocked(playerID)
	r := l.rooms[roomID]
	l.mu.Unlock()

	if _, err := r.Join(ctx, Player{ID: playerID}); err != nil {
		return nil, err
	}
	log.Printf("player %s reconnected to room %s", playerID, roomID)
	return r, nil
}

// Known reports whether playerID holds a seat that Reconnect can restore.
func (l *Lobby) Known(playerID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.players[playerID]
	return ok
}

// Disconnect is called by the transport when a player's connection is gone.
// The opponent is told at once; the seat is forfeited when the grace period
// runs out without a reconnect.
func (l *Lobby) Disconnect(playerID string) {
	ctx := context.Background()

	l.mu.Lock()
	if l.queued[playerID] {
		delete(l.queued, playerID)
		l.mu.Unlock()
		if err := l.mm.Remove(ctx, playerID); err != nil {
			log.Printf("dequeue %s: %v", playerID, err)
		}
		return
	}
	roomID, ok := l.players[playerID]
	if !ok {
		l.mu.Unlock()
		return
	}
	r := l.rooms[roomID]
	if r.State().Status == engine.StatusFinished {
		l.detachLocked(playerID)
		l.mu.Unlock()
		return
	}
	l.mu.Unlock()

	if _, err := r.Leave(ctx, playerID, proto.ReasonDisconnect); err != nil {
		log.Printf("disconnect %s: %v", playerID, err)
		return
	}
	if l.opts.GracePeriod <= 0 {
		if err := l.depart(ctx, playerID, proto.ReasonTimeout); err != nil {
			log.Printf("forfeit %s: %v", playerID, err)
		}
		return
	}

	l.mu.Lock()
	l.stopTimerLocked(playerID)
	l.seq++
	seq := l.seq
	l.timers[playerID] = graceTimer{
		t:   time.AfterFunc(l.opts.GracePeriod, func() { l.expire(playerID, seq) }),
		seq: seq,
	}
	l.mu.Unlock()
	log.Printf("player %s disconnected from room %s, grace %s", playerID, roomID, l.opts.GracePeriod)
}

func (l *Lobby) expire(playerID string, seq uint64) {
	l.mu.Lock()
	gt, ok := l.timers[playerID]
	if !ok || gt.seq != seq {
		l.mu.Unlock()
		return
	}
	delete(l.timers, playerID)
	l.mu.Unlock()

	if err := l.depart(context.Background(), playerID, proto.ReasonTimeout); err != nil {
		log.Printf("grace expiry %s: %v", playerID, err)
	}
}

// Room looks up an open room by id.
func (l *Lobby) Room(id string) (Room, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, ok := l.rooms[id]
	return r, ok
}

func (l *Lobby) roomOf(playerID string) (Room, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	roomID, ok := l.players[playerID]
	if !ok {
		return nil, ErrNotInRoom
	}
	return l.rooms[roomID], nil
}

// releaseFinishedLocked frees playerID for a new room. A player still in a
// running or waiting game must leave it first.
func (l *Lobby) releaseFinishedLocked(playerID string) error {
	if l.queued[playerID] {
		return ErrInRoom
	}
	roomID, ok := l.players[playerID]
	if !ok {
		return nil
	}
	if l.rooms[roomID].State().Status != engine.StatusFinished {
		return ErrInRoom
	}
	l.detachLocked(playerID)
	return nil
}

func (l *Lobby) attachLocked(playerID, roomID string) {
	l.players[playerID] = roomID
	l.members[roomID]++
}

func (l *Lobby) detachLocked(playerID string) {
	roomID, ok := l.players[playerID]
	if !ok {
		return
	}
	delete(l.players, playerID)
	l.members[roomID]--
	if l.members[roomID] <= 0 {
		delete(l.members, roomID)
		delete(l.rooms, roomID)
		log.Printf("room %s closed", roomID)
	}
}

func (l *Lobby) stopTimerLocked(playerID string) {
	if gt, ok := l.timers[playerID]; ok {
		gt.t.Stop()
		delete(l.timers, playerID)
	}
}
