package model

import "time"

// EntryKind classifies what a time entry's interval was spent on.
type EntryKind string

const (
	KindActive EntryKind = "ACTIVE"
	KindIdle   EntryKind = "IDLE"
	KindBreak  EntryKind = "BREAK"
)

// EntrySource records who produced a time entry. AUTO entries belong to the
// rollup engine; MANUAL entries come from the approval workflow and are
// read-only obstacles for the engine.
type EntrySource string

const (
	SourceAuto   EntrySource = "AUTO"
	SourceManual EntrySource = "MANUAL"
)

// TimeEntry is one classified, non-overlapping interval of a user's day.
type TimeEntry struct {
	ID        int64       `gorm:"primaryKey;autoIncrement"`
	UserID    int64       `gorm:"index:idx_entries_user_time,priority:1;not null"`
	StartedAt time.Time   `gorm:"index:idx_entries_user_time,priority:2;not null"`
	EndedAt   time.Time   `gorm:"not null"`
	Kind      EntryKind   `gorm:"size:16;not null"`
	Source    EntrySource `gorm:"size:16;not null"`
	CreatedAt time.Time
}

// Duration returns the entry's length.
func (e TimeEntry) Duration() time.Duration {
	return e.EndedAt.Sub(e.StartedAt)
}

// Overlaps reports whether the entry's half-open interval intersects [start, end).
func (e TimeEntry) Overlaps(start, end time.Time) bool {
	return e.StartedAt.Before(end) && e.EndedAt.After(start)
}
