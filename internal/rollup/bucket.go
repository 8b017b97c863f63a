package rollup

import (
	"time"

	"worktime-rollup-backend/internal/model"
)

// MinuteBucket groups the samples whose captured-at falls inside one UTC
// minute. Minutes without samples produce no bucket at all: absence of data is
// a gap the engine never classifies.
type MinuteBucket struct {
	Start   time.Time
	Samples []model.ActivitySample
}

// End returns the bucket's exclusive end instant.
func (b MinuteBucket) End() time.Time {
	return b.Start.Add(time.Minute)
}

// HasActivity reports whether any sample in the bucket shows input.
func (b MinuteBucket) HasActivity() bool {
	for _, s := range b.Samples {
		if s.HasActivity() {
			return true
		}
	}
	return false
}

// Bucketize groups an ascending-time sample list into per-minute buckets, in
// ascending bucket order. The grouping key is the sample timestamp truncated
// to the minute in UTC; window membership is evaluated later in local time.
func Bucketize(samples []model.ActivitySample) []MinuteBucket {
	var buckets []MinuteBucket
	for _, sample := range samples {
		minute := sample.CapturedAt.UTC().Truncate(time.Minute)
		n := len(buckets)
		if n > 0 && buckets[n-1].Start.Equal(minute) {
			buckets[n-1].Samples = append(buckets[n-1].Samples, sample)
			continue
		}
		buckets = append(buckets, MinuteBucket{
			Start:   minute,
			Samples: []model.ActivitySample{sample},
		})
	}
	return buckets
}
