package discover

import (
	"fmt"
	"testing"

	"campusmatch/backend/internal/models"
	"campusmatch/backend/internal/social"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Interest{}, &models.UsernameIndex{}, &models.FriendRequest{}))
	return db
}

type profile struct {
	username  string
	gender    string
	college   string
	branch    string
	gradYear  int
	interests []string
}

func seedProfile(t *testing.T, db *gorm.DB, p profile) uint {
	t.Helper()

	var ins []*models.Interest
	for _, name := range p.interests {
		var interest models.Interest
		require.NoError(t, db.Where("name = ?", name).FirstOrCreate(&interest, models.Interest{Name: name}).Error)
		ins = append(ins, &interest)
	}

	user := models.User{
		Email:          p.username + "@college.edu",
		PasswordHash:   "x",
		Username:       p.username,
		FullName:       p.username,
		Gender:         p.gender,
		CollegeName:    p.college,
		BranchCode:     p.branch,
		GraduationYear: p.gradYear,
		Interests:      ins,
	}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&models.UsernameIndex{Username: p.username, UserID: user.ID}).Error)
	return user.ID
}

func TestDiscoverMissingProfile(t *testing.T) {
	db := newTestDB(t)

	_, _, err := Discover(db, 999, Filters{})
	require.ErrorIs(t, err, ErrProfileMissing)
}

func TestDiscoverPoolIsOppositeGenderSameCollege(t *testing.T) {
	db := newTestDB(t)
	me := seedProfile(t, db, profile{username: "me", gender: "Male", college: "X"})
	match := seedProfile(t, db, profile{username: "match", gender: "Female", college: "X"})
	seedProfile(t, db, profile{username: "same.gender", gender: "Male", college: "X"})
	seedProfile(t, db, profile{username: "other.college", gender: "Female", college: "Y"})

	candidates, _, err := Discover(db, me, Filters{})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.Equal(t, match, candidates[0].UserID)
}

func TestDiscoverExcludesFriends(t *testing.T) {
	db := newTestDB(t)
	me := seedProfile(t, db, profile{username: "me", gender: "Female", college: "X"})
	friend := seedProfile(t, db, profile{username: "friend", gender: "Male", college: "X"})
	stranger := seedProfile(t, db, profile{username: "stranger", gender: "Male", college: "X"})

	_, err := social.Send(db, me, friend)
	require.NoError(t, err)
	require.NoError(t, social.Accept(db, me, friend))

	candidates, _, err := Discover(db, me, Filters{})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.Equal(t, stranger, candidates[0].UserID)
}

func TestDiscoverRanksByScoreDescending(t *testing.T) {
	db := newTestDB(t)
	me := seedProfile(t, db, profile{
		username: "me", gender: "Male", college: "X",
		branch: "CS", gradYear: 2027, interests: []string{"music", "travel"},
	})
	best := seedProfile(t, db, profile{
		username: "best", gender: "Female", college: "X",
		branch: "CS", gradYear: 2027, interests: []string{"music", "travel"},
	})
	middle := seedProfile(t, db, profile{
		username: "middle", gender: "Female", college: "X",
		gradYear: 2027, interests: []string{"travel"},
	})
	worst := seedProfile(t, db, profile{
		username: "worst", gender: "Female", college: "X",
		branch: "EE", gradYear: 2031,
	})

	candidates, _, err := Discover(db, me, Filters{})
	require.NoError(t, err)
	require.Len(t, candidates, 3)
	require.Equal(t, []uint{best, middle, worst},
		[]uint{candidates[0].UserID, candidates[1].UserID, candidates[2].UserID})
	require.Greater(t, candidates[0].Score, candidates[1].Score)
	require.ElementsMatch(t, []string{"music", "travel"}, candidates[0].SharedInterests)
}

func TestDiscoverCapsResults(t *testing.T) {
	db := newTestDB(t)
	me := seedProfile(t, db, profile{username: "me", gender: "Male", college: "X"})
	for i := 0; i < maxResults+5; i++ {
		seedProfile(t, db, profile{
			username: fmt.Sprintf("candidate%d", i),
			gender:   "Female",
			college:  "X",
		})
	}

	candidates, _, err := Discover(db, me, Filters{})
	require.NoError(t, err)
	require.Len(t, candidates, maxResults)
}

func TestDiscoverPostFilters(t *testing.T) {
	db := newTestDB(t)
	me := seedProfile(t, db, profile{username: "me", gender: "Female", college: "X"})
	cs27 := seedProfile(t, db, profile{
		username: "cs27", gender: "Male", college: "X",
		branch: "CS", gradYear: 2027, interests: []string{"music"},
	})
	seedProfile(t, db, profile{
		username: "ee27", gender: "Male", college: "X",
		branch: "EE", gradYear: 2027, interests: []string{"music"},
	})
	seedProfile(t, db, profile{
		username: "cs28", gender: "Male", college: "X",
		branch: "CS", gradYear: 2028,
	})

	// Filters compose by AND.
	candidates, _, err := Discover(db, me, Filters{BranchCode: "CS", GraduationYear: 2027})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.Equal(t, cs27, candidates[0].UserID)

	candidates, _, err = Discover(db, me, Filters{Interest: "Music"})
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	candidates, _, err = Discover(db, me, Filters{Interest: "chess"})
	require.NoError(t, err)
	require.Empty(t, candidates)
}

func TestDiscoverOptionsCoverScoredPool(t *testing.T) {
	db := newTestDB(t)
	me := seedProfile(t, db, profile{username: "me", gender: "Female", college: "X"})
	seedProfile(t, db, profile{
		username: "cs27", gender: "Male", college: "X",
		branch: "CS", gradYear: 2027, interests: []string{"music"},
	})
	seedProfile(t, db, profile{
		username: "ee28", gender: "Male", college: "X",
		branch: "EE", gradYear: 2028, interests: []string{"travel"},
	})

	// Options describe the whole scored pool, not the filtered list,
	// so narrowing to one branch must not collapse the choices.
	candidates, opts, err := Discover(db, me, Filters{BranchCode: "CS"})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.Equal(t, []string{"CS", "EE"}, opts.Branches)
	require.Equal(t, []string{"2027", "2028"}, opts.Years)
	require.Equal(t, []string{"music", "travel"}, opts.Interests)
}

func TestDiscoverOptionsSurviveResultCap(t *testing.T) {
	db := newTestDB(t)
	me := seedProfile(t, db, profile{username: "me", gender: "Male", college: "X"})
	for i := 0; i < maxResults; i++ {
		seedProfile(t, db, profile{
			username: fmt.Sprintf("cs%d", i), gender: "Female", college: "X",
			branch: "CS", gradYear: 2027, interests: []string{"music"},
		})
	}
	// Ties keep scan order, so the last-created profile falls past
	// the result cap.
	seedProfile(t, db, profile{
		username: "ee.last", gender: "Female", college: "X",
		branch: "EE", gradYear: 2029, interests: []string{"chess"},
	})

	candidates, opts, err := Discover(db, me, Filters{})
	require.NoError(t, err)
	require.Len(t, candidates, maxResults)
	require.Contains(t, opts.Branches, "EE")
	require.Contains(t, opts.Years, "2029")
	require.Contains(t, opts.Interests, "chess")
}

func TestFilterOptions(t *testing.T) {
	candidates := []Candidate{
		{Profile: models.User{BranchCode: "EE", GraduationYear: 2028, Interests: interests("Travel")}},
		{Profile: models.User{BranchCode: "CS", GraduationYear: 2027, Interests: interests("music", "travel")}},
		{Profile: models.User{BranchCode: "CS"}},
	}

	opts := FilterOptions(candidates)
	require.Equal(t, []string{"CS", "EE"}, opts.Branches)
	require.Equal(t, []string{"2027", "2028"}, opts.Years)
	require.Equal(t, []string{"music", "travel"}, opts.Interests)
}
