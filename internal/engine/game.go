package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/kushgupta-hiver/quarto/internal/piece"
)

// Clock supplies timestamps for history entries.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

type Option func(*Game)

func WithClock(c Clock) Option {
	return func(g *Game) {
		if c != nil {
			g.clock = c
		}
	}
}

func WithID(id string) Option {
	return func(g *Game) {
		if id != "" {
			g.id = id
		}
	}
}

func WithAdvancedRules(on bool) Option {
	return func(g *Game) { g.advanced = on }
}

func WithWinCheck(w WinCheck) Option {
	return func(g *Game) {
		if w != "" {
			g.winCheck = w
		}
	}
}

// Waiting creates the game in StatusWaiting; Start moves it to playing.
func Waiting() Option {
	return func(g *Game) { g.status = StatusWaiting }
}

// Game is the aggregate root of one match. It is not safe for concurrent
// use; callers keep a single writer.
type Game struct {
	id        string
	mode      Mode
	status    Status
	players   [2]Player
	board     Board
	available [piece.Count]bool
	turn      int
	phase     Phase
	selected  int
	winner    Winner
	line      *Win
	history   []Move
	advanced  bool
	winCheck  WinCheck
	clock     Clock
	created   time.Time
	updated   time.Time
}

func NewGame(mode Mode, players [2]Player, opts ...Option) *Game {
	g := &Game{
		id:       uuid.NewString(),
		mode:     mode,
		status:   StatusPlaying,
		players:  players,
		board:    NewBoard(),
		phase:    PhaseSelecting,
		selected: Empty,
		winner:   WinnerNone,
		winCheck: WinCheckAuto,
		clock:    systemClock{},
	}
	for i := range g.available {
		g.available[i] = true
	}
	for _, opt := range opts {
		opt(g)
	}
	g.created = g.clock.Now()
	g.updated = g.created
	return g
}

func (g *Game) ID() string { return g.id }
func (g *Game) Mode() Mode { return g.mode }
func (g *Game) Status() Status { return g.status }
func (g *Game) Phase() Phase { return g.phase }
func (g *Game) CurrentTurn() int { return g.turn }
func (g *Game) Board() Board { return g.board }
func (g *Game) Winner() Winner { return g.winner }
func (g *Game) AdvancedRules() bool { return g.advanced }
func (g *Game) WinCheck() WinCheck { return g.winCheck }
func (g *Game) MoveCount() int { return len(g.history) }
func (g *Game) Player(idx int) Player { return g.players[idx] }
func (g *Game) Players() [2]Player { return g.players }
func (g *Game) IsAvailable(id int) bool { return piece.Valid(id) && g.available[id] }
func (g *Game) SelectedPiece() (int, bool) { return g.selected, g.selected != Empty }

// Available lists unplaced piece ids in ascending order.
func (g *Game) Available() []int {
	out := make([]int, 0, piece.Count)
	for id, ok := range g.available {
		if ok {
			out = append(out, id)
		}
	}
	return out
}

// SetPlayer fills a seat before the game starts.
func (g *Game) SetPlayer(idx int, p Player) error {
	if idx != 0 && idx != 1 {
		return ErrInvalidPlayer
	}
	if g.status != StatusWaiting {
		return ErrGameOver
	}
	g.players[idx] = p
	g.touch()
	return nil
}

// Start moves a waiting game to playing.
func (g *Game) Start() error {
	switch g.status {
	case StatusPlaying:
		return nil
	case StatusFinished:
		return ErrGameOver
	}
	g.status = StatusPlaying
	g.touch()
	return nil
}

func (g *Game) checkPlaying() error {
	switch g.status {
	case StatusWaiting:
		return ErrNotPlaying
	case StatusFinished:
		return ErrGameOver
	}
	return nil
}

// Select hands pieceID to the opponent: the turn passes on select, not place.
func (g *Game) Select(pieceID int) error {
	if err := g.checkPlaying(); err != nil {
		return err
	}
	if g.phase != PhaseSelecting {
		return ErrWrongPhase
	}
	if !piece.Valid(pieceID) {
		return ErrInvalidPiece
	}
	if !g.available[pieceID] {
		return ErrPieceUnavailable
	}
	g.record(Move{Type: MoveSelect, Player: g.turn, PieceID: intPtr(pieceID)})
	g.selected = pieceID
	g.phase = PhasePlacing
	g.turn = 1 - g.turn
	g.touch()
	return nil
}

// Place puts the selected piece on pos. The placer keeps the turn and selects next.
func (g *Game) Place(pos int) error {
	if err := g.checkPlaying(); err != nil {
		return err
	}
	if g.phase != PhasePlacing || g.selected == Empty {
		return ErrWrongPhase
	}
	if !ValidPosition(pos) {
		return ErrInvalidPosition
	}
	if g.board[pos] != Empty {
		return ErrCellOccupied
	}
	id := g.selected
	g.record(Move{Type: MovePlace, Player: g.turn, PieceID: intPtr(id), Position: intPtr(pos)})
	g.board[pos] = id
	g.available[id] = false
	g.selected = Empty
	g.phase = PhaseSelecting
	g.touch()

	if g.winCheck == WinCheckAuto {
		if w, ok := FindWinningLine(g.board, g.advanced); ok {
			g.finish(Winner(g.turn), &w)
			return nil
		}
	}
	if g.board.IsFull() && !HasQuarto(g.board, g.advanced) {
		g.finish(WinnerDraw, nil)
	}
	return nil
}

// CallQuarto claims a win for the current player. A claim with no winning
// line leaves the game untouched.
func (g *Game) CallQuarto() (Win, error) {
	if err := g.checkPlaying(); err != nil {
		return Win{}, err
	}
	w, ok := FindWinningLine(g.board, g.advanced)
	if !ok {
		return Win{}, ErrNoQuarto
	}
	g.record(Move{Type: MoveQuarto, Player: g.turn})
	g.finish(Winner(g.turn), &w)
	return w, nil
}

// Forfeit ends the game in favour of the other player.
func (g *Game) Forfeit(loser int) error {
	if loser != 0 && loser != 1 {
		return ErrInvalidPlayer
	}
	if g.status == StatusFinished {
		return ErrGameOver
	}
	g.finish(Winner(1-loser), nil)
	return nil
}

func (g *Game) finish(w Winner, line *Win) {
	g.status = StatusFinished
	g.winner = w
	g.line = line
	g.touch()
}

func (g *Game) record(m Move) {
	m.Timestamp = g.clock.Now()
	g.history = append(g.history, m)
}

func (g *Game) touch() { g.updated = g.clock.Now() }

func intPtr(v int) *int { return &v }
