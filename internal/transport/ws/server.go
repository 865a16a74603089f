package ws

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/kushgupta-hiver/quarto/internal/match"
	"github.com/kushgupta-hiver/quarto/internal/proto"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

type Config struct {
	Lobby        match.LobbyOptions
	SendBuffer   int           // outbound messages queued per connection
	WriteTimeout time.Duration // per message
	// OriginPatterns is passed to websocket.Accept; empty means same origin only.
	OriginPatterns []string
}

func (c Config) withDefaults() Config {
	if c.SendBuffer <= 0 {
		c.SendBuffer = 32
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 5 * time.Second
	}
	return c
}

// Server is an HTTP handler that upgrades to WebSocket and relays the
// online protocol to a Lobby.
type Server interface {
	http.Handler
	Close() error
}

type server struct {
	cfg   Config
	hub   *hub
	lobby *match.Lobby
}

func NewServer(cfg Config) Server {
	h := newHub()
	return &server{
		cfg:   cfg.withDefaults(),
		hub:   h,
		lobby: match.NewLobby(cfg.Lobby, h),
	}
}

func (s *server) Close() error { return s.lobby.Close() }

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: s.cfg.OriginPatterns})
	if err != nil {
		log.Printf("ws accept: %v", err)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	c := &client{
		send: make(chan any, s.cfg.SendBuffer),
		stop: cancel,
		id:   uuid.NewString(),
	}
	s.hub.bind(c.id, c)
	log.Printf("ws connected %s from %s", c.id, r.RemoteAddr)

	go s.writeLoop(ctx, conn, c)
	err = s.readLoop(ctx, conn, c)

	id := c.playerID()
	if s.hub.unbind(id, c) {
		s.lobby.Disconnect(id)
	}
	log.Printf("ws closed %s: %v", id, err)
}

func (s *server) readLoop(ctx context.Context, conn *websocket.Conn, c *client) error {
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}
		if typ != websocket.MessageText {
			c.enqueue(proto.NewError(proto.CodeInvalidMessage, "expected a text frame"))
			continue
		}
		msg, err := proto.Decode(data)
		if err != nil {
			c.enqueue(match.ErrorMessage(err))
			continue
		}
		if msg.Type == proto.Reconnect {
			err = s.reconnect(ctx, c, msg.PlayerID)
		} else {
			err = s.lobby.Handle(ctx, c.playerID(), msg)
		}
		if err != nil {
			c.enqueue(match.ErrorMessage(err))
		}
	}
}

func (s *server) writeLoop(ctx context.Context, conn *websocket.Conn, c *client) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-c.send:
			wctx, cancel := context.WithTimeout(ctx, s.cfg.WriteTimeout)
			err := wsjson.Write(wctx, conn, msg)
			cancel()
			if err != nil {
				log.Printf("ws write %s: %v", c.playerID(), err)
				c.stop()
				return
			}
		}
	}
}

// reconnect moves c onto a previously issued player id. A connection still
// holding that id is closed.
func (s *server) reconnect(ctx context.Context, c *client, prior string) error {
	current := c.playerID()
	if prior == current {
		_, err := s.lobby.Reconnect(ctx, prior)
		return err
	}
	if !s.lobby.Known(prior) {
		return match.ErrUnknownPlayer
	}
	if s.lobby.Known(current) {
		return match.ErrInRoom
	}

	if prev := s.hub.bind(prior, c); prev != nil {
		prev.stop()
	}
	c.setPlayerID(prior)
	s.hub.unbind(current, c)
	s.lobby.Disconnect(current)

	if _, err := s.lobby.Reconnect(ctx, prior); err != nil {
		return err
	}
	log.Printf("ws %s resumed as %s", current, prior)
	return nil
}
