package models

import "time"

// UsernameIndex maps a normalized username to its owner. A row is
// created exactly once, in the same transaction as the profile, and is
// never mutated afterwards. It exists so username lookup is a point
// read rather than a scan over users.
type UsernameIndex struct {
	Username  string `gorm:"primaryKey;size:30"`
	UserID    uint   `gorm:"not null"`
	CreatedAt time.Time
}
