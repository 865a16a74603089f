package ws

import (
	"log"
	"sync"
)

// hub routes outbound messages to the connection currently holding a
// player id. It implements match.Notifier.
type hub struct {
	mu    sync.Mutex
	conns map[string]*client
}

func newHub() *hub {
	return &hub{conns: make(map[string]*client)}
}

func (h *hub) Send(playerID string, msg any) {
	h.mu.Lock()
	c, ok := h.conns[playerID]
	h.mu.Unlock()
	if !ok {
		return
	}
	c.enqueue(msg)
}

// bind points playerID at c and returns the connection it replaced, if any.
func (h *hub) bind(playerID string, c *client) *client {
	h.mu.Lock()
	defer h.mu.Unlock()
	prev := h.conns[playerID]
	h.conns[playerID] = c
	if prev == c {
		return nil
	}
	return prev
}

// unbind removes playerID only while c still owns it.
func (h *hub) unbind(playerID string, c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[playerID] != c {
		return false
	}
	delete(h.conns, playerID)
	return true
}

type client struct {
	send chan any
	stop func()

	mu sync.Mutex
	id string
}

func (c *client) playerID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

func (c *client) setPlayerID(id string) {
	c.mu.Lock()
	c.id = id
	c.mu.Unlock()
}

// enqueue never blocks the room that is broadcasting; a client too slow to
// drain its buffer is cut off.
func (c *client) enqueue(msg any) {
	select {
	case c.send <- msg:
	default:
		log.Printf("send buffer full for %s, closing", c.playerID())
		c.stop()
	}
}
