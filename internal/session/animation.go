package session

import (
	"time"

	"github.com/kushgupta-hiver/quarto/internal/engine"
)

const winAnimation = 3 * time.Second

type AnimationStatus string

const (
	AnimationIdle    AnimationStatus = "idle"
	AnimationPlaying AnimationStatus = "playing"
)

type AnimationType string

const (
	Firework AnimationType = "firework"
	Defeat   AnimationType = "defeat"
)

// Animation tells a renderer how to present the end of a game.
type Animation struct {
	Status     AnimationStatus `json:"status"`
	Type       AnimationType   `json:"type,omitempty"`
	DurationMs int64           `json:"durationMs"`
	Positions  []int           `json:"positions"`
}

// AnimationFor derives the presentation from a snapshot. The computer
// winning an AI game shows a defeat; any other win is a firework.
func AnimationFor(s engine.Snapshot) Animation {
	if s.Status != engine.StatusFinished || !s.Winner.IsPlayer() {
		return Animation{Status: AnimationIdle}
	}
	a := Animation{
		Status:     AnimationPlaying,
		Type:       Firework,
		DurationMs: winAnimation.Milliseconds(),
		Positions:  append([]int(nil), s.WinningLine...),
	}
	if s.Mode == engine.ModeAI && s.Players[s.Winner].Type == engine.PlayerAI {
		a.Type = Defeat
	}
	return a
}
