package schedule

import "time"

// DefaultIdleThresholdSeconds applies when an organization has no stored
// schedule.
const DefaultIdleThresholdSeconds = 300

// Rules are the fully-resolved time-window rules one rollup invocation runs
// under. They are resolved once at the start of an invocation and never
// change during it.
//
// A nil Checkin means the check-in window is always open; a nil Break means
// there is no break window.
type Rules struct {
	Timezone             string
	Location             *time.Location
	Checkin              *Window
	Break                *Window
	IdleThresholdSeconds int
}

// IdleThresholdMinutes truncates the threshold to whole minutes, matching the
// minute granularity of bucket classification.
func (r Rules) IdleThresholdMinutes() int {
	return r.IdleThresholdSeconds / 60
}

// LocalMinute converts an instant to the organization-local minute of day.
func (r Rules) LocalMinute(t time.Time) int {
	local := t.In(r.Location)
	return local.Hour()*60 + local.Minute()
}

// InCheckin reports whether the instant falls inside the check-in window.
func (r Rules) InCheckin(t time.Time) bool {
	if r.Checkin == nil {
		return true
	}
	return r.Checkin.Contains(r.LocalMinute(t))
}

// InBreak reports whether the instant falls inside the break window.
func (r Rules) InBreak(t time.Time) bool {
	if r.Break == nil {
		return false
	}
	return r.Break.Contains(r.LocalMinute(t))
}

// WorkingDate attributes an instant to a logical working day. When the
// check-in window crosses midnight, the early-morning tail of a shift belongs
// to the previous calendar day, so the whole shift lands on one date.
func (r Rules) WorkingDate(t time.Time) string {
	local := t.In(r.Location)
	if r.Checkin != nil && r.Checkin.CrossesMidnight() {
		minute := local.Hour()*60 + local.Minute()
		if minute < r.Checkin.End {
			local = local.AddDate(0, 0, -1)
		}
	}
	return local.Format("2006-01-02")
}

// DefaultRules is the documented fallback for organizations without a stored
// schedule: UTC, always-open check-in, no break, 300 second idle threshold.
func DefaultRules() Rules {
	return Rules{
		Timezone:             "UTC",
		Location:             time.UTC,
		Checkin:              nil,
		Break:                nil,
		IdleThresholdSeconds: DefaultIdleThresholdSeconds,
	}
}
