package match

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type RoomCreatedEvent struct {
	RoomID string
	First  Player
	Second Player
}

type Matchmaker interface {
	Enqueue(ctx context.Context, p Player) error
	// Remove drops a waiting player, e.g. after their connection closed.
	Remove(ctx context.Context, playerID string) error
	Close() error
}

// ticket is one queue operation; joins and removals share a channel so they
// are seen in the order they were made.
type ticket struct {
	p      Player
	remove bool
}

type matchmaker struct {
	q      chan ticket
	done   chan struct{}
	once   sync.Once
	onRoom func(RoomCreatedEvent)
}

func NewMatchmaker(onRoom func(RoomCreatedEvent)) Matchmaker {
	m := &matchmaker{
		q:      make(chan ticket, 1024),
		done:   make(chan struct{}),
		onRoom: onRoom,
	}
	go m.loop()
	return m
}

func (m *matchmaker) Enqueue(ctx context.Context, p Player) error {
	return m.push(ctx, ticket{p: p})
}

func (m *matchmaker) Remove(ctx context.Context, playerID string) error {
	return m.push(ctx, ticket{p: Player{ID: playerID}, remove: true})
}

func (m *matchmaker) push(ctx context.Context, t ticket) error {
	select {
	case <-m.done:
		return ErrMatchmakerClosed
	default:
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-m.done:
		return ErrMatchmakerClosed
	case m.q <- t:
		return nil
	}
}

func (m *matchmaker) Close() error {
	m.once.Do(func() { close(m.done) })
	return nil
}

func (m *matchmaker) loop() {
	var pending *Player

	for {
		select {
		case <-m.done:
			return
		case t := <-m.q:
			p := t.p
			if t.remove {
				if pending != nil && pending.ID == p.ID {
					pending = nil
				}
				continue
			}
			if pending == nil {
				pp := p
				pending = &pp
				continue
			}
			if pending.ID == p.ID {
				// same player queued twice
				continue
			}
			// first in line takes seat 0 and selects first
			m.onRoom(RoomCreatedEvent{
				RoomID: uuid.NewString(),
				First:  *pending,
				Second: p,
			})
			pending = nil
		}
	}
}
