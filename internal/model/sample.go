package model

import "time"

// ActivitySample is one raw input-activity observation from the capture agent.
// Samples are append-only: the rollup engine reads ranges and never mutates or
// deletes them.
type ActivitySample struct {
	ID              int64     `gorm:"primaryKey;autoIncrement"`
	UserID          int64     `gorm:"index:idx_samples_user_time,priority:1;not null"`
	CapturedAt      time.Time `gorm:"index:idx_samples_user_time,priority:2;not null"`
	MouseDelta      int       `gorm:"not null"`
	KeyCount        int       `gorm:"not null"`
	DeviceSessionID string    `gorm:"size:36"` // UUID of the capture session, optional
	CreatedAt       time.Time
}

// HasActivity reports whether the sample shows any input at all.
func (s ActivitySample) HasActivity() bool {
	return s.MouseDelta > 0 || s.KeyCount > 0
}
