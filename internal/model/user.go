package model

import "time"

// User represents a tracked employee.
type User struct {
	ID        int64  `gorm:"primaryKey"`
	OrgID     int64  `gorm:"index;not null"`
	Name      string `gorm:"size:128;not null"`
	Email     string `gorm:"uniqueIndex;size:256"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Associations
	Org Organization `gorm:"constraint:OnDelete:CASCADE"`
}
