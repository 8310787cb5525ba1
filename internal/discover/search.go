package discover

import (
	"errors"
	"strings"

	"campusmatch/backend/internal/models"

	"gorm.io/gorm"
)

// NormalizeUsername lowercases the input, removes whitespace and strips
// every character outside [a-z0-9._]. The result is the canonical form
// stored in the username index; an empty result means the input was
// not a usable username.
func NormalizeUsername(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SearchByUsername looks up a single profile through the username
// index. The result is unscored and unranked; it is a distinct code
// path from Discover, never merged into its output.
func SearchByUsername(db *gorm.DB, raw string) (Candidate, error) {
	username := NormalizeUsername(raw)
	if username == "" {
		return Candidate{}, ErrInvalidUsername
	}

	var idx models.UsernameIndex
	err := db.Where("username = ?", username).First(&idx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Candidate{}, ErrUsernameNotFound
	}
	if err != nil {
		return Candidate{}, err
	}

	var profile models.User
	err = db.Preload("Interests").First(&profile, idx.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Candidate{}, ErrProfileMissing
	}
	if err != nil {
		return Candidate{}, err
	}

	return Candidate{UserID: profile.ID, Profile: profile}, nil
}
