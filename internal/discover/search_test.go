package discover

import (
	"testing"

	"campusmatch/backend/internal/models"

	"github.com/stretchr/testify/require"
)

func TestNormalizeUsername(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{" John.Doe! ", "john.doe"},
		{"jane_doe", "jane_doe"},
		{"With Spaces", "withspaces"},
		{"UPPER.case_123", "upper.case_123"},
		{"!@#$", ""},
		{"", ""},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, NormalizeUsername(tt.in), "input %q", tt.in)
	}
}

func TestSearchByUsernameEmptyQuery(t *testing.T) {
	db := newTestDB(t)

	_, err := SearchByUsername(db, "  !! ")
	require.ErrorIs(t, err, ErrInvalidUsername)
}

func TestSearchByUsernameMiss(t *testing.T) {
	db := newTestDB(t)

	_, err := SearchByUsername(db, "nobody")
	require.ErrorIs(t, err, ErrUsernameNotFound)
}

func TestSearchByUsernameFindsProfileUnscored(t *testing.T) {
	db := newTestDB(t)
	id := seedProfile(t, db, profile{
		username: "john.doe", gender: "Male", college: "X",
		interests: []string{"music"},
	})

	// The raw query is normalized before the index lookup.
	candidate, err := SearchByUsername(db, " John.Doe! ")
	require.NoError(t, err)
	require.Equal(t, id, candidate.UserID)
	require.Equal(t, "john.doe", candidate.Profile.Username)
	require.Zero(t, candidate.Score)
	require.Empty(t, candidate.SharedInterests)
	require.Len(t, candidate.Profile.Interests, 1)
}

func TestSearchByUsernameIndexWithoutProfile(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.UsernameIndex{Username: "ghost", UserID: 12345}).Error)

	_, err := SearchByUsername(db, "ghost")
	require.ErrorIs(t, err, ErrProfileMissing)
}
