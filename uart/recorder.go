package uart

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// recorderID provides unique attachment names so multiple recorders can
// observe one line.
var recorderID atomic.Uint64

// Recorder is a Sink that captures the trace of a line.
//
// It stands in for the DUT port: it consumes edges from its RX line and
// produces nothing back. The recorder is seeded with the line level at
// attachment time, so Trace covers the window from attachment to the
// moment it is taken.
type Recorder struct {
	line *Line
	name string

	mu    sync.Mutex
	start time.Duration
	edges []Edge
}

// NewRecorder attaches a new recorder to the line.
func NewRecorder(line *Line) *Recorder {
	r := &Recorder{
		line: line,
		name: fmt.Sprintf("recorder-%d", recorderID.Add(1)),
	}
	r.start = line.clock.Now()
	// Seed with the level at attachment so trace derivation has a level
	// for the start of the window.
	r.edges = append(r.edges, Edge{At: r.start, Level: line.Level()})
	line.Attach(r.name, r)

	return r
}

// Name returns the attachment name of the recorder on its line.
func (r *Recorder) Name() string { return r.name }

// OnEdge implements Sink.
func (r *Recorder) OnEdge(e Edge) {
	r.mu.Lock()
	r.edges = append(r.edges, e)
	r.mu.Unlock()
}

// Trace returns the edge trace captured from attachment up to the current
// clock time.
func (r *Recorder) Trace() Trace {
	return r.TraceUntil(r.line.clock.Now())
}

// TraceUntil returns the edge trace captured from attachment up to the
// given session time.
func (r *Recorder) TraceUntil(end time.Duration) Trace {
	r.mu.Lock()
	edges := make([]Edge, len(r.edges))
	copy(edges, r.edges)
	start := r.start
	r.mu.Unlock()

	if end <= start {
		return nil
	}

	return deriveTrace(edges, start, end)
}

// Close detaches the recorder from its line. Captured edges remain
// available.
func (r *Recorder) Close() {
	r.line.Detach(r.name)
}
