package rollup

import (
	"time"

	"worktime-rollup-backend/internal/schedule"
)

// ClassifiedMinute is a bucket that survived the window tests, reduced to its
// activity verdict.
type ClassifiedMinute struct {
	Start       time.Time
	HasActivity bool
}

// End returns the minute's exclusive end instant.
func (m ClassifiedMinute) End() time.Time {
	return m.Start.Add(time.Minute)
}

// Classify applies the schedule windows to each bucket. Buckets outside the
// check-in window or inside the break window are dropped entirely; the rest
// become classified minutes. Both tests use the bucket's start instant
// converted to organization-local time, with half-open boundaries.
func Classify(buckets []MinuteBucket, rules schedule.Rules) []ClassifiedMinute {
	var minutes []ClassifiedMinute
	for _, bucket := range buckets {
		if !rules.InCheckin(bucket.Start) {
			continue
		}
		if rules.InBreak(bucket.Start) {
			continue
		}
		minutes = append(minutes, ClassifiedMinute{
			Start:       bucket.Start,
			HasActivity: bucket.HasActivity(),
		})
	}
	return minutes
}
