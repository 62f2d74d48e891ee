package uart

import (
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/arloliu/go-uartsim/simclock"
)

// Sink observes level transitions on a Line.
//
// This is the DUT port boundary: a device under test receives the serial
// line as its RX input by attaching a Sink. OnEdge is invoked synchronously
// by the driving process for every level change; implementations must not
// block.
type Sink interface {
	OnEdge(e Edge)
}

// Line is a single binary-valued signal over session time.
//
// A Line records its full edge history against the injected clock and
// notifies attached sinks of every transition. A serial TX line is created
// idle-high; a reset line is created at whatever level the orchestrator
// considers deasserted.
//
// Ownership is by convention, matching the half-duplex nature of the
// harness: exactly one process drives a given line at a time. The
// transmitter enforces this for the serial line with its busy flag rather
// than with a lock.
type Line struct {
	name  string
	clock simclock.Clock

	mu    sync.Mutex
	level Level
	edges []Edge

	sinks *xsync.MapOf[string, Sink]
}

// NewLine creates a line at the given initial level.
//
// The initial level is recorded as the first entry of the edge history at
// the current clock time.
func NewLine(name string, initial Level, clock simclock.Clock) *Line {
	l := &Line{
		name:  name,
		clock: clock,
		level: initial,
		sinks: xsync.NewMapOf[string, Sink](),
	}
	l.edges = append(l.edges, Edge{At: clock.Now(), Level: initial})

	return l
}

// Name returns the line name, e.g. "tx" or "rst".
func (l *Line) Name() string { return l.name }

// Level returns the current level of the line.
func (l *Line) Level() Level {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.level
}

// Drive sets the line to the given level.
//
// Driving the line to its current level is a no-op: no edge is recorded and
// no sink is notified. This makes consecutive equal bits (e.g. a high data
// bit followed by the stop bit) a single continuous level on the line, as
// on a physical wire.
func (l *Line) Drive(level Level) {
	l.mu.Lock()
	if l.level == level {
		l.mu.Unlock()
		return
	}

	edge := Edge{At: l.clock.Now(), Level: level}
	l.level = level
	l.edges = append(l.edges, edge)
	l.mu.Unlock()

	l.sinks.Range(func(_ string, s Sink) bool {
		s.OnEdge(edge)
		return true
	})
}

// Attach registers a sink under the given name, replacing any sink already
// registered under that name. The sink only observes edges occurring after
// attachment.
func (l *Line) Attach(name string, s Sink) {
	l.sinks.Store(name, s)
}

// Detach removes the sink registered under the given name.
func (l *Line) Detach(name string) {
	l.sinks.Delete(name)
}

// Edges returns a copy of the full edge history, including the initial
// level entry.
func (l *Line) Edges() []Edge {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Edge, len(l.edges))
	copy(out, l.edges)

	return out
}

// TraceBetween derives the (level, duration) trace of the line over the
// half-open window [from, to).
//
// The trace is edge-derived: consecutive equal levels appear as one
// segment. An edge exactly at from is included (it defines the level at the
// start of the window); an edge exactly at to belongs to the next window.
func (l *Line) TraceBetween(from, to time.Duration) Trace {
	if to <= from {
		return nil
	}

	return deriveTrace(l.Edges(), from, to)
}

// deriveTrace builds a trace over [from, to) from an edge history.
// edges must be in ascending time order and non-empty.
func deriveTrace(edges []Edge, from, to time.Duration) Trace {
	var tr Trace

	cur := edges[0].Level
	prev := from

	for _, e := range edges {
		if e.At <= from {
			cur = e.Level
			continue
		}
		if e.At >= to {
			break
		}
		if e.At > prev {
			tr = append(tr, Segment{Level: cur, Duration: e.At - prev})
		}
		cur = e.Level
		prev = e.At
	}

	if to > prev {
		tr = append(tr, Segment{Level: cur, Duration: to - prev})
	}

	return tr
}
