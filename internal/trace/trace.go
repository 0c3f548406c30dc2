// Package trace records request traces and user feedback scores for later
// inspection. Every API response carries a trace id that feedback can refer
// back to.
package trace

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Trace is one recorded request: its input, its output, and free-form
// metadata such as frameworks queried or source counts.
type Trace struct {
	ID        string
	Name      string
	Input     map[string]interface{}
	Output    map[string]interface{}
	Metadata  map[string]interface{}
	CreatedAt time.Time
}

// Score is user feedback attached to a trace.
type Score struct {
	TraceID   string
	Name      string
	Value     float64
	Comment   string
	CreatedAt time.Time
}

// Recorder persists traces and scores.
type Recorder interface {
	Record(ctx context.Context, t *Trace) error
	Score(ctx context.Context, s *Score) error
	Close() error
}

// NewTraceID returns a fresh trace identifier.
func NewTraceID() string {
	return uuid.NewString()
}
