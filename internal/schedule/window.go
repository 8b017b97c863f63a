package schedule

import (
	"fmt"
	"regexp"
	"strconv"
)

var hhmmRe = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// ParseMinute converts an "HH:mm" local-time string into minutes since
// midnight.
func ParseMinute(s string) (int, error) {
	m := hhmmRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid HH:mm time: %q", s)
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	return h*60 + min, nil
}

// Window is a local-time span with half-open [Start, End) semantics, in
// minutes since midnight. End < Start means the window crosses midnight.
// Start == End is treated as an empty window.
type Window struct {
	Start int
	End   int
}

// NewWindow parses a window from its "HH:mm" string pair.
func NewWindow(start, end string) (Window, error) {
	s, err := ParseMinute(start)
	if err != nil {
		return Window{}, fmt.Errorf("window start: %w", err)
	}
	e, err := ParseMinute(end)
	if err != nil {
		return Window{}, fmt.Errorf("window end: %w", err)
	}
	return Window{Start: s, End: e}, nil
}

// CrossesMidnight reports whether the window wraps past 00:00.
func (w Window) CrossesMidnight() bool {
	return w.End < w.Start
}

// Contains reports whether the given minute-of-day falls inside the window.
// The start boundary is inside, the end boundary is outside.
func (w Window) Contains(minute int) bool {
	if w.Start == w.End {
		return false
	}
	if w.CrossesMidnight() {
		return minute >= w.Start || minute < w.End
	}
	return minute >= w.Start && minute < w.End
}
