package match

import (
	"bytes"
	"encoding/json"
	"log"
	"sync"
	"testing"
	"time"
)

// recorder is a Notifier that keeps every message per player.
type recorder struct {
	mu   sync.Mutex
	msgs map[string][]any
}

func newRecorder() *recorder { return &recorder{msgs: make(map[string][]any)} }

func (r *recorder) Send(playerID string, msg any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs[playerID] = append(r.msgs[playerID], msg)
}

func (r *recorder) types(playerID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.msgs[playerID]))
	for _, m := range r.msgs[playerID] {
		data, _ := json.Marshal(m)
		var head struct {
			Type string `json:"type"`
		}
		_ = json.Unmarshal(data, &head)
		out = append(out, head.Type)
	}
	return out
}

func (r *recorder) all(playerID string) []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]any(nil), r.msgs[playerID]...)
}

func (r *recorder) count(playerID, typ string) int {
	n := 0
	for _, got := range r.types(playerID) {
		if got == typ {
			n++
		}
	}
	return n
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// logBuffer captures the standard logger for the rest of the test.
type logBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func captureLog(t *testing.T) *logBuffer {
	t.Helper()
	lb := &logBuffer{}
	prev := log.Writer()
	log.SetOutput(lb)
	t.Cleanup(func() { log.SetOutput(prev) })
	return lb
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *logBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
