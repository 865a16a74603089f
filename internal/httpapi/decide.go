package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kushgupta-hiver/quarto/internal/ai"
	"github.com/kushgupta-hiver/quarto/internal/engine"
)

// decideRequest is the body of POST /v1/ai/decide.
type decideRequest struct {
	Board           engine.Board      `json:"board"`
	AvailablePieces []int             `json:"availablePieces"`
	SelectedPiece   *int              `json:"selectedPiece"`
	Phase           engine.Phase      `json:"phase" binding:"required"`
	Difficulty      engine.Difficulty `json:"difficulty"`
	AdvancedRules   bool              `json:"advancedRules"`
}

func decideHandler(t *ai.Thinker) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := decideRequest{Board: engine.NewBoard()}
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "malformed request body", err)
			return
		}
		difficulty, err := engine.ParseDifficulty(string(req.Difficulty))
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid request", err)
			return
		}
		sel := engine.Empty
		if req.SelectedPiece != nil {
			sel = *req.SelectedPiece
		}
		m, err := t.Think(c.Request.Context(), ai.Request{
			Board:         req.Board,
			Available:     req.AvailablePieces,
			Selected:      sel,
			Phase:         req.Phase,
			Difficulty:    difficulty,
			AdvancedRules: req.AdvancedRules,
		})
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, m)
	}
}
