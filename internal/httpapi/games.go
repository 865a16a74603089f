package httpapi

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kushgupta-hiver/quarto/internal/ai"
	"github.com/kushgupta-hiver/quarto/internal/engine"
	"github.com/kushgupta-hiver/quarto/internal/session"
)

// Expiry bounds how long sessions outlive their last request.
type Expiry struct {
	Idle     time.Duration // any game
	Finished time.Duration // a game that has ended
}

func (e Expiry) withDefaults() Expiry {
	if e.Idle <= 0 {
		e.Idle = 30 * time.Minute
	}
	if e.Finished <= 0 {
		e.Finished = 5 * time.Minute
	}
	return e
}

type tracked struct {
	s    *session.Session
	seen time.Time
}

// games keeps one session per local or AI game, keyed by game id.
type games struct {
	thinker  *ai.Thinker
	defaults Defaults
	expiry   Expiry
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*tracked
	thinking map[*session.Session]bool
}

func newGames(t *ai.Thinker, d Defaults, e Expiry, now func() time.Time) *games {
	if now == nil {
		now = time.Now
	}
	return &games{
		thinker:  t,
		defaults: d,
		expiry:   e.withDefaults(),
		now:      now,
		sessions: make(map[string]*tracked),
		thinking: make(map[*session.Session]bool),
	}
}

func (g *games) lookup(c *gin.Context) (*session.Session, bool) {
	id := c.Param("id")
	g.mu.Lock()
	t, ok := g.sessions[id]
	if ok && g.expiredLocked(t, g.now()) {
		g.dropLocked(id, t)
		ok = false
	}
	if ok {
		t.seen = g.now()
	}
	g.mu.Unlock()
	if !ok {
		handleError(c, errGameNotFound)
		return nil, false
	}
	return t.s, true
}

// expiredLocked reports whether t has gone unused for too long. A session
// whose computer turn is still running is kept.
func (g *games) expiredLocked(t *tracked, now time.Time) bool {
	if g.thinking[t.s] {
		return false
	}
	idle := now.Sub(t.seen)
	if idle > g.expiry.Idle {
		return true
	}
	snap, ok := t.s.Snapshot()
	return (!ok || snap.Status == engine.StatusFinished) && idle > g.expiry.Finished
}

func (g *games) dropLocked(id string, t *tracked) {
	delete(g.sessions, id)
	t.s.ResetGame()
	log.Printf("game %s expired", id)
}

func (g *games) sweepLocked() {
	now := g.now()
	for id, t := range g.sessions {
		if g.expiredLocked(t, now) {
			g.dropLocked(id, t)
		}
	}
}

type playerRequest struct {
	Name       string            `json:"name"`
	Type       engine.PlayerType `json:"type"`
	Difficulty engine.Difficulty `json:"difficulty"`
}

// createGameRequest is the body of POST /v1/games.
type createGameRequest struct {
	Mode          engine.Mode       `json:"mode" binding:"required"`
	Players       []playerRequest   `json:"players" binding:"max=2"`
	Difficulty    engine.Difficulty `json:"difficulty"`
	AdvancedRules *bool             `json:"advancedRules"`
	WinCheck      engine.WinCheck   `json:"winCheck"`
}

type gameResponse struct {
	Game       engine.Snapshot `json:"game"`
	AIThinking bool            `json:"aiThinking"`
}

func (g *games) create(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "malformed request body", err)
		return
	}
	difficulty, err := engine.ParseDifficulty(string(req.Difficulty))
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid request", err)
		return
	}
	winCheck := g.defaults.WinCheck
	if req.WinCheck != "" {
		if winCheck, err = engine.ParseWinCheck(string(req.WinCheck)); err != nil {
			writeError(c, http.StatusBadRequest, "invalid request", err)
			return
		}
	}
	opts := session.StartOptions{
		Mode:          req.Mode,
		Difficulty:    difficulty,
		AdvancedRules: g.defaults.AdvancedRules,
		WinCheck:      winCheck,
	}
	if req.AdvancedRules != nil {
		opts.AdvancedRules = *req.AdvancedRules
	}
	for i, p := range req.Players {
		opts.Players[i] = engine.Player{Name: p.Name, Type: p.Type, Difficulty: p.Difficulty}
	}

	s := session.New(g.thinker)
	snap, err := s.StartGame(opts)
	if err != nil {
		handleError(c, err)
		return
	}
	g.mu.Lock()
	g.sweepLocked()
	g.sessions[snap.ID] = &tracked{s: s, seen: g.now()}
	g.mu.Unlock()

	c.JSON(http.StatusCreated, g.respond(s, snap))
}

func (g *games) get(c *gin.Context) {
	s, ok := g.lookup(c)
	if !ok {
		return
	}
	snap, ok := s.Snapshot()
	if !ok {
		handleError(c, session.ErrNoGame)
		return
	}
	c.JSON(http.StatusOK, g.respond(s, snap))
}

func (g *games) reset(c *gin.Context) {
	id := c.Param("id")
	g.mu.Lock()
	if t, ok := g.sessions[id]; ok {
		delete(g.sessions, id)
		t.s.ResetGame()
	}
	g.mu.Unlock()
	c.Status(http.StatusNoContent)
}

type selectRequest struct {
	PieceID *int `json:"pieceId" binding:"required"`
}

type placeRequest struct {
	Position *int `json:"position" binding:"required"`
}

func (g *games) selectPiece(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "malformed request body", err)
		return
	}
	g.move(c, func(s *session.Session) (engine.Snapshot, error) { return s.SelectPiece(*req.PieceID) })
}

func (g *games) placePiece(c *gin.Context) {
	var req placeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "malformed request body", err)
		return
	}
	g.move(c, func(s *session.Session) (engine.Snapshot, error) { return s.PlacePiece(*req.Position) })
}

func (g *games) callQuarto(c *gin.Context) {
	g.move(c, (*session.Session).CallQuarto)
}

func (g *games) move(c *gin.Context, apply func(*session.Session) (engine.Snapshot, error)) {
	s, ok := g.lookup(c)
	if !ok {
		return
	}
	snap, err := apply(s)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, g.respond(s, snap))
}

// respond starts the computer's reply when the game waits on it. A reply
// that failed earlier, e.g. on timeout, is retried by the next request.
func (g *games) respond(s *session.Session, snap engine.Snapshot) gameResponse {
	thinking := s.AITurn()
	if thinking {
		g.mu.Lock()
		if !g.thinking[s] {
			g.thinking[s] = true
			go g.playAI(s)
		}
		g.mu.Unlock()
	}
	return gameResponse{Game: snap, AIThinking: thinking}
}

func (g *games) playAI(s *session.Session) {
	defer func() {
		g.mu.Lock()
		delete(g.thinking, s)
		g.mu.Unlock()
	}()
	_, err := s.PlayAITurn(context.Background())
	switch {
	case err == nil, errors.Is(err, session.ErrStale), errors.Is(err, session.ErrNoGame), errors.Is(err, session.ErrNotAITurn):
	default:
		log.Printf("computer turn: %v", err)
	}
}

func (g *games) animation(c *gin.Context) {
	s, ok := g.lookup(c)
	if !ok {
		return
	}
	snap, ok := s.Snapshot()
	if !ok {
		handleError(c, session.ErrNoGame)
		return
	}
	c.JSON(http.StatusOK, session.AnimationFor(snap))
}
