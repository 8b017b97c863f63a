package store

import (
	"time"

	"worktime-rollup-backend/internal/model"
)

// Span is a classified, half-open time interval produced by the rollup
// pipeline, not yet reconciled against persisted entries.
type Span struct {
	Start time.Time
	End   time.Time
	Kind  model.EntryKind
}

// Duration returns the span's length.
func (s Span) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Overlaps reports whether the span intersects the half-open [start, end).
func (s Span) Overlaps(start, end time.Time) bool {
	return s.Start.Before(end) && s.End.After(start)
}
