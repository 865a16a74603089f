package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/kushgupta-hiver/quarto/internal/ai"
	"github.com/kushgupta-hiver/quarto/internal/engine"
)

var (
	ErrNoGame     = errors.New("no active game")
	ErrNotAITurn  = errors.New("not the computer's turn")
	ErrAIThinking = errors.New("waiting for the computer")
	ErrStale      = errors.New("game moved on while the computer was thinking")
	ErrBadMode    = errors.New("unsupported mode")
)

// StartOptions describes a new local or AI match.
type StartOptions struct {
	Mode          engine.Mode
	Players       [2]engine.Player
	Difficulty    engine.Difficulty
	AdvancedRules bool
	WinCheck      engine.WinCheck
}

// Session owns at most one game for a trusted local client. Rejected moves
// leave the game untouched; callers may ignore the returned error.
type Session struct {
	mu      sync.Mutex
	game    *engine.Game
	thinker *ai.Thinker
	opts    []engine.Option
}

func New(thinker *ai.Thinker, opts ...engine.Option) *Session {
	if thinker == nil {
		thinker = ai.NewThinker(0, 0)
	}
	return &Session{thinker: thinker, opts: opts}
}

func (s *Session) StartGame(o StartOptions) (engine.Snapshot, error) {
	if o.Mode != engine.ModeLocal && o.Mode != engine.ModeAI {
		return engine.Snapshot{}, fmt.Errorf("%w: %q", ErrBadMode, o.Mode)
	}
	players := fillPlayers(o)
	opts := append([]engine.Option{
		engine.WithAdvancedRules(o.AdvancedRules),
		engine.WithWinCheck(o.WinCheck),
	}, s.opts...)

	g := engine.NewGame(o.Mode, players, opts...)
	s.mu.Lock()
	s.game = g
	s.mu.Unlock()
	return g.Snapshot(), nil
}

func fillPlayers(o StartOptions) [2]engine.Player {
	players := o.Players
	defaults := [2]string{"Player 1", "Player 2"}
	for i := range players {
		p := &players[i]
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if p.Name == "" {
			p.Name = defaults[i]
		}
		if p.Type == "" {
			p.Type = engine.PlayerHumanLocal
		}
	}
	if o.Mode == engine.ModeAI && players[0].Type != engine.PlayerAI && players[1].Type != engine.PlayerAI {
		players[1].Type = engine.PlayerAI
		if o.Players[1].Name == "" {
			players[1].Name = "Computer"
		}
	}
	for i := range players {
		if players[i].Type == engine.PlayerAI && players[i].Difficulty == "" {
			players[i].Difficulty = o.Difficulty
			if players[i].Difficulty == "" {
				players[i].Difficulty = engine.Medium
			}
		}
	}
	return players
}

// ResetGame discards the active game. Resetting twice is harmless.
func (s *Session) ResetGame() {
	s.mu.Lock()
	s.game = nil
	s.mu.Unlock()
}

func (s *Session) Snapshot() (engine.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game == nil {
		return engine.Snapshot{}, false
	}
	return s.game.Snapshot(), true
}

func (s *Session) SelectPiece(id int) (engine.Snapshot, error) {
	return s.humanMove(func(g *engine.Game) error { return g.Select(id) })
}

func (s *Session) PlacePiece(pos int) (engine.Snapshot, error) {
	return s.humanMove(func(g *engine.Game) error { return g.Place(pos) })
}

func (s *Session) CallQuarto() (engine.Snapshot, error) {
	return s.humanMove(func(g *engine.Game) error {
		_, err := g.CallQuarto()
		return err
	})
}

func (s *Session) humanMove(apply func(*engine.Game) error) (engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game == nil {
		return engine.Snapshot{}, ErrNoGame
	}
	if aiTurn(s.game) {
		return s.game.Snapshot(), ErrAIThinking
	}
	err := apply(s.game)
	return s.game.Snapshot(), err
}

// AITurn reports whether the active game waits on the computer.
func (s *Session) AITurn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game != nil && aiTurn(s.game)
}

func aiTurn(g *engine.Game) bool {
	return g.Status() == engine.StatusPlaying && g.Player(g.CurrentTurn()).Type == engine.PlayerAI
}

// PlayAITurn lets the computer act until control returns to a human or the
// game ends. Each decision runs on the Thinker without holding the session;
// a result computed for a game that has since changed is discarded with
// ErrStale.
func (s *Session) PlayAITurn(ctx context.Context) (engine.Snapshot, error) {
	for acted := false; ; acted = true {
		s.mu.Lock()
		g := s.game
		if g == nil {
			s.mu.Unlock()
			return engine.Snapshot{}, ErrNoGame
		}
		if !aiTurn(g) {
			snap := g.Snapshot()
			s.mu.Unlock()
			if acted || snap.Status == engine.StatusFinished {
				return snap, nil
			}
			return snap, ErrNotAITurn
		}
		snap := g.Snapshot()
		moves := g.MoveCount()
		s.mu.Unlock()

		req := ai.RequestFor(snap, snap.CurrentPlayer().Difficulty)
		m, err := s.thinker.Think(ctx, req)
		if err != nil {
			return snap, fmt.Errorf("computer move: %w", err)
		}

		s.mu.Lock()
		if s.game != g || g.MoveCount() != moves {
			s.mu.Unlock()
			return snap, ErrStale
		}
		err = applyAI(g, m)
		s.mu.Unlock()
		if err != nil {
			return snap, fmt.Errorf("apply computer move: %w", err)
		}
	}
}

func applyAI(g *engine.Game, m ai.Move) error {
	if m.Kind == ai.KindSelect {
		return g.Select(m.PieceID)
	}
	if err := g.Place(m.Position); err != nil {
		return err
	}
	if g.WinCheck() == engine.WinCheckClaim && engine.HasQuarto(g.Board(), g.AdvancedRules()) {
		_, err := g.CallQuarto()
		return err
	}
	return nil
}
