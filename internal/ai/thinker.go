package ai

import (
	"context"
	"time"
)

// Thinker runs Decide off the caller's goroutine, holding the answer for at
// least MinDelay and failing with ErrTimeout after Timeout.
type Thinker struct {
	MinDelay time.Duration
	Timeout  time.Duration
	decide   func(Request) (Move, error)
}

func NewThinker(minDelay, timeout time.Duration) *Thinker {
	return &Thinker{MinDelay: minDelay, Timeout: timeout, decide: Decide}
}

type result struct {
	move Move
	err  error
}

// Think blocks until a move is ready, the timeout fires or ctx ends. The
// search itself cannot be interrupted; an abandoned result is dropped.
func (t *Thinker) Think(ctx context.Context, req Request) (Move, error) {
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, t.Timeout, ErrTimeout)
		defer cancel()
	}
	decide := t.decide
	if decide == nil {
		decide = Decide
	}

	start := time.Now()
	done := make(chan result, 1)
	go func() {
		m, err := decide(req)
		done <- result{m, err}
	}()

	var r result
	select {
	case r = <-done:
	case <-ctx.Done():
		return Move{}, context.Cause(ctx)
	}
	if r.err != nil {
		return Move{}, r.err
	}

	if wait := t.MinDelay - time.Since(start); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return Move{}, context.Cause(ctx)
		}
	}
	return r.move, nil
}
