package rollup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worktime-rollup-backend/internal/model"
)

// run builds consecutive classified minutes starting at start.
func run(start time.Time, verdicts ...bool) []ClassifiedMinute {
	minutes := make([]ClassifiedMinute, len(verdicts))
	for i, active := range verdicts {
		minutes[i] = ClassifiedMinute{Start: start.Add(time.Duration(i) * time.Minute), HasActivity: active}
	}
	return minutes
}

func kinds(entries []MinuteEntry) []model.EntryKind {
	out := make([]model.EntryKind, len(entries))
	for i, e := range entries {
		out[i] = e.Kind
	}
	return out
}

func TestSmoothIdleRunReachingThresholdFlipsEntireRun(t *testing.T) {
	// 1 active, 10 idle, 1 active with a 5 minute threshold: all 10 idle
	// minutes come out IDLE, not just the ones past the fifth.
	start := minuteAt(10, 0)
	verdicts := []bool{true, false, false, false, false, false, false, false, false, false, false, true}
	entries := Smooth(run(start, verdicts...), 5)

	require.Len(t, entries, 12)
	expected := []model.EntryKind{model.KindActive}
	for i := 0; i < 10; i++ {
		expected = append(expected, model.KindIdle)
	}
	expected = append(expected, model.KindActive)
	assert.Equal(t, expected, kinds(entries))

	// Output stays in ascending minute order despite the buffered flush.
	for i, e := range entries {
		assert.Equal(t, start.Add(time.Duration(i)*time.Minute), e.Start)
	}
}

func TestSmoothShortIdleRunIsAbsorbedAsActive(t *testing.T) {
	// 4 idle minutes between active minutes never reach the 5 minute
	// threshold, so everything is ACTIVE.
	entries := Smooth(run(minuteAt(10, 0), true, false, false, false, false, true), 5)

	require.Len(t, entries, 6)
	for _, e := range entries {
		assert.Equal(t, model.KindActive, e.Kind)
	}
}

func TestSmoothZeroThresholdDisablesSmoothing(t *testing.T) {
	entries := Smooth(run(minuteAt(10, 0), true, false, true, false), 0)

	assert.Equal(t, []model.EntryKind{
		model.KindActive, model.KindIdle, model.KindActive, model.KindIdle,
	}, kinds(entries))
}

func TestSmoothTrailingIdleBelowThresholdFlushesActive(t *testing.T) {
	// The pass ends while 3 idle minutes are still pending: they flush as
	// ACTIVE because the run never reached the threshold.
	entries := Smooth(run(minuteAt(10, 0), true, false, false, false), 5)

	require.Len(t, entries, 4)
	for _, e := range entries {
		assert.Equal(t, model.KindActive, e.Kind)
	}
}

func TestSmoothTrailingIdleAtThresholdStaysIdle(t *testing.T) {
	entries := Smooth(run(minuteAt(10, 0), true, false, false), 2)

	assert.Equal(t, []model.EntryKind{
		model.KindActive, model.KindIdle, model.KindIdle,
	}, kinds(entries))
}

func TestSmoothActivityResetsTheCounter(t *testing.T) {
	// Two idle runs of 3 split by one active minute never accumulate toward
	// a 5 minute threshold together.
	entries := Smooth(run(minuteAt(10, 0),
		false, false, false, true, false, false, false), 5)

	require.Len(t, entries, 7)
	for _, e := range entries {
		assert.Equal(t, model.KindActive, e.Kind)
	}
}

func TestSmoothIdleRunPastThresholdEmitsDirectly(t *testing.T) {
	s := NewSmoother(2)

	assert.Empty(t, s.Feed(ClassifiedMinute{Start: minuteAt(10, 0), HasActivity: false}))

	// The second idle minute reaches the threshold and releases both.
	flipped := s.Feed(ClassifiedMinute{Start: minuteAt(10, 1), HasActivity: false})
	require.Len(t, flipped, 2)
	assert.Equal(t, model.KindIdle, flipped[0].Kind)
	assert.Equal(t, model.KindIdle, flipped[1].Kind)

	// Further idle minutes are final immediately.
	direct := s.Feed(ClassifiedMinute{Start: minuteAt(10, 2), HasActivity: false})
	require.Len(t, direct, 1)
	assert.Equal(t, model.KindIdle, direct[0].Kind)

	assert.Empty(t, s.Flush())
}

func TestSmoothEmptyInput(t *testing.T) {
	assert.Empty(t, Smooth(nil, 5))
}
