package models

import "gorm.io/gorm"

// User represents a member profile in the system.
type User struct {
	gorm.Model
	Email        string `gorm:"size:255;unique;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         string `gorm:"size:50;not null;default:'user';index"`

	// Username is normalized at registration (lowercase, [a-z0-9._])
	// and immutable once claimed. See UsernameIndex.
	Username string `gorm:"size:30;unique;not null"`
	FullName string `gorm:"size:255"`

	Gender         string `gorm:"size:20;index"`
	CollegeName    string `gorm:"size:255;index"`
	Branch         string `gorm:"size:255"`
	BranchCode     string `gorm:"size:10;index"`
	GraduationYear int    `gorm:"index"`
	Bio            string
	AvatarURL      string `gorm:"size:512"`

	Interests []*Interest `gorm:"many2many:user_interests;"`
}
