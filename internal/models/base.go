package models

import (
	"time"

	"gorm.io/gorm"
)

// Base contains common columns for tables with integer primary keys.
type Base struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// Day truncates a timestamp to its calendar date (midnight UTC).
// Snapshots and movement bucketing operate on calendar days only.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
