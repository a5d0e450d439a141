package orchestration

import (
	"fmt"
	"sync/atomic"

	"github.com/agbru/ehandlers/internal/ehandlers"
	"github.com/agbru/ehandlers/internal/logging"
)

// countingSink forwards to next and counts the entries it sees.
type countingSink struct {
	next logging.Sink
	n    atomic.Int64
}

func (c *countingSink) Log(level logging.Level, msg string, fields ...logging.Field) {
	c.n.Add(1)
	c.next.Log(level, msg, fields...)
}

// Harness is what a scenario receives: handler options writing through a
// counting sink, plus the count itself. Each scenario run gets its own.
type Harness struct {
	sink *countingSink
	base []ehandlers.Option
}

func newHarness(sink logging.Sink, base []ehandlers.Option) *Harness {
	return &Harness{sink: &countingSink{next: sink}, base: base}
}

// Options returns the shared options, the counting sink and then extra.
func (h *Harness) Options(extra ...ehandlers.Option) []ehandlers.Option {
	opts := make([]ehandlers.Option, 0, len(h.base)+len(extra)+1)
	opts = append(opts, h.base...)
	opts = append(opts, ehandlers.WithSink(h.sink))
	return append(opts, extra...)
}

// Entries returns the number of entries logged so far.
func (h *Harness) Entries() int {
	return int(h.sink.n.Load())
}

// ExpectEntries fails unless exactly want entries were logged.
func (h *Harness) ExpectEntries(want int) error {
	if got := h.Entries(); got != want {
		return fmt.Errorf("logged %d entries, want %d", got, want)
	}
	return nil
}
