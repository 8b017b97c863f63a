package model

import "time"

// Organization represents a tenant whose schedule rules govern its users.
type Organization struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"uniqueIndex;size:128;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	// Associations
	Users []User `gorm:"foreignKey:OrgID"`
}
