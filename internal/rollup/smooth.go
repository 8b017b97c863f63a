package rollup

import (
	"time"

	"worktime-rollup-backend/internal/model"
)

// MinuteEntry is one minute with its final ACTIVE/IDLE classification.
type MinuteEntry struct {
	Start time.Time
	Kind  model.EntryKind
}

// End returns the minute's exclusive end instant.
func (m MinuteEntry) End() time.Time {
	return m.Start.Add(time.Minute)
}

// Smoother converts per-minute activity verdicts into ACTIVE/IDLE minutes,
// absorbing idle runs shorter than the threshold into the surrounding active
// time. Idle minutes are buffered until the run either reaches the threshold
// (the whole buffer flips to IDLE, including the minutes before the one that
// tipped it) or ends (the buffer flushes as ACTIVE).
//
// Feed and Flush are pure with respect to storage, so the pass is testable in
// isolation.
type Smoother struct {
	thresholdMinutes int
	consecutiveIdle  int
	pendingIdle      []time.Time
}

// NewSmoother creates a smoother. A threshold of zero disables smoothing:
// every idle minute is immediately IDLE.
func NewSmoother(thresholdMinutes int) *Smoother {
	return &Smoother{thresholdMinutes: thresholdMinutes}
}

// Feed processes the next minute in ascending time order and returns the
// minutes whose classification became final.
func (s *Smoother) Feed(minute ClassifiedMinute) []MinuteEntry {
	if minute.HasActivity {
		out := s.flushPending(model.KindActive)
		s.consecutiveIdle = 0
		return append(out, MinuteEntry{Start: minute.Start, Kind: model.KindActive})
	}

	s.consecutiveIdle++
	if s.consecutiveIdle > s.thresholdMinutes {
		// The run already crossed the threshold on an earlier minute.
		return []MinuteEntry{{Start: minute.Start, Kind: model.KindIdle}}
	}

	s.pendingIdle = append(s.pendingIdle, minute.Start)
	if s.consecutiveIdle == s.thresholdMinutes {
		// Threshold reached: the whole pending run turns out to be real
		// idle time, not a brief pause.
		return s.flushPending(model.KindIdle)
	}
	return nil
}

// Flush ends the pass, releasing any idle run that never reached the
// threshold as ACTIVE.
func (s *Smoother) Flush() []MinuteEntry {
	out := s.flushPending(model.KindActive)
	s.consecutiveIdle = 0
	return out
}

func (s *Smoother) flushPending(kind model.EntryKind) []MinuteEntry {
	if len(s.pendingIdle) == 0 {
		return nil
	}
	out := make([]MinuteEntry, 0, len(s.pendingIdle))
	for _, start := range s.pendingIdle {
		out = append(out, MinuteEntry{Start: start, Kind: kind})
	}
	s.pendingIdle = s.pendingIdle[:0]
	return out
}

// Smooth runs a complete smoothing pass over the classified minutes.
func Smooth(minutes []ClassifiedMinute, thresholdMinutes int) []MinuteEntry {
	s := NewSmoother(thresholdMinutes)
	var out []MinuteEntry
	for _, m := range minutes {
		out = append(out, s.Feed(m)...)
	}
	return append(out, s.Flush()...)
}
