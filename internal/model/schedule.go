package model

import "time"

// OrgSchedule holds an organization's time-window rules. Windows are local-time
// "HH:mm" strings; an end earlier than its start means the window crosses
// midnight. Empty start and end strings mean the window is absent.
type OrgSchedule struct {
	OrgID                int64  `gorm:"primaryKey"`
	Timezone             string `gorm:"size:64;not null"`
	CheckinStart         string `gorm:"size:5"`
	CheckinEnd           string `gorm:"size:5"`
	BreakStart           string `gorm:"size:5"`
	BreakEnd             string `gorm:"size:5"`
	IdleThresholdSeconds int    `gorm:"not null"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// UserScheduleOverride replaces the organization's check-in window for one
// user. Break window and idle threshold are always organization-level.
type UserScheduleOverride struct {
	UserID       int64  `gorm:"primaryKey"`
	CheckinStart string `gorm:"size:5"`
	CheckinEnd   string `gorm:"size:5"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
