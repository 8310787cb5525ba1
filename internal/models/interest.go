package models

import "gorm.io/gorm"

// Interest represents an interest tag (e.g., "music", "travel", "art").
// Names are stored lowercase so matching is case-insensitive.
type Interest struct {
	gorm.Model
	Name string `gorm:"size:100;unique;not null"`
}
