package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kushgupta-hiver/quarto/internal/ai"
	"github.com/kushgupta-hiver/quarto/internal/engine"
	"github.com/kushgupta-hiver/quarto/internal/session"
)

// Defaults apply to games whose creator leaves the rule options unset.
type Defaults struct {
	AdvancedRules bool
	WinCheck      engine.WinCheck
}

type Deps struct {
	Thinker  *ai.Thinker
	Defaults Defaults
	Expiry   Expiry

	// Now defaults to time.Now.
	Now func() time.Time

	// WS is mounted at /ws when set.
	WS http.Handler
}

// NewRouter wires the HTTP surface: health check, local/AI game sessions,
// the stateless decision endpoint and the WebSocket upgrade.
func NewRouter(d Deps) *gin.Engine {
	if d.Thinker == nil {
		d.Thinker = ai.NewThinker(0, 10*time.Second)
	}
	g := newGames(d.Thinker, d.Defaults, d.Expiry, d.Now)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
	if d.WS != nil {
		r.GET("/ws", gin.WrapH(d.WS))
	}

	v1 := r.Group("/v1")
	{
		v1.POST("/games", g.create)
		v1.GET("/games/:id", g.get)
		v1.DELETE("/games/:id", g.reset)
		v1.POST("/games/:id/select", g.selectPiece)
		v1.POST("/games/:id/place", g.placePiece)
		v1.POST("/games/:id/quarto", g.callQuarto)
		v1.GET("/games/:id/animation", g.animation)
		v1.POST("/ai/decide", decideHandler(d.Thinker))
	}

	return r
}

var errGameNotFound = errors.New("game not found")

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errGameNotFound), errors.Is(err, session.ErrNoGame):
		writeError(c, http.StatusNotFound, "game not found", err)
	case errors.Is(err, session.ErrAIThinking):
		writeError(c, http.StatusConflict, "the computer is still thinking", err)
	case errors.Is(err, engine.ErrInvalidPiece), errors.Is(err, engine.ErrInvalidPosition):
		writeError(c, http.StatusBadRequest, "out of range", err)
	case errors.Is(err, engine.ErrWrongPhase),
		errors.Is(err, engine.ErrPieceUnavailable),
		errors.Is(err, engine.ErrCellOccupied),
		errors.Is(err, engine.ErrGameOver),
		errors.Is(err, engine.ErrNotPlaying):
		writeError(c, http.StatusConflict, "illegal move", err)
	case errors.Is(err, engine.ErrNoQuarto):
		writeError(c, http.StatusUnprocessableEntity, "no winning line on the board", err)
	case errors.Is(err, session.ErrBadMode),
		errors.Is(err, ai.ErrNoPieces),
		errors.Is(err, ai.ErrNoPositions),
		errors.Is(err, ai.ErrNoSelectedPiece),
		errors.Is(err, ai.ErrUnknownPhase),
		errors.Is(err, ai.ErrInconsistent):
		writeError(c, http.StatusBadRequest, "invalid request", err)
	case errors.Is(err, ai.ErrTimeout):
		writeError(c, http.StatusGatewayTimeout, "the computer ran out of time", err)
	default:
		writeError(c, http.StatusInternalServerError, "internal error", err)
	}
}

func writeError(c *gin.Context, status int, message string, err error) {
	c.JSON(status, gin.H{
		"error":   message,
		"details": err.Error(),
	})
}
