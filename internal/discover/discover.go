// Package discover computes ranked candidate suggestions for a user:
// an eligibility pool from the profile store, minus existing
// connections, scored and sorted. Username search lives here too as a
// separate unranked code path.
package discover

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"campusmatch/backend/internal/models"
	"campusmatch/backend/internal/social"

	"gorm.io/gorm"
)

const (
	// poolSize bounds how many eligible profiles are scored. A
	// recall/cost tradeoff, not a correctness requirement.
	poolSize = 120

	// maxResults caps the ranked list returned to the caller.
	maxResults = 18
)

// Candidate is one scored suggestion.
type Candidate struct {
	UserID          uint
	Profile         models.User
	Score           int
	SharedInterests []string
}

// Filters are optional post-filters applied over the scored pool. Zero
// values mean "no filter"; set fields compose by AND.
type Filters struct {
	BranchCode     string
	GraduationYear int
	Interest       string
}

// Options holds the distinct attribute values present in a scored
// pool, for building filter choices.
type Options struct {
	Branches  []string
	Years     []string
	Interests []string
}

// Discover returns the ranked candidate list for user meID, along
// with the filter choices present in the scored pool.
//
// The pool is the opposite gender category at the same college, capped
// at poolSize. The user themself and everyone in their friend set are
// excluded before scoring. Options are collected over the full scored
// pool so filter choices stay stable while filters are applied.
// Filters are applied over the scored pool, then the list is sorted by
// score descending (ties keep the scan order) and truncated to
// maxResults.
func Discover(db *gorm.DB, meID uint, f Filters) ([]Candidate, Options, error) {
	var me models.User
	err := db.Preload("Interests").First(&me, meID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, Options{}, ErrProfileMissing
	}
	if err != nil {
		return nil, Options{}, err
	}

	pool, err := eligiblePool(db, &me)
	if err != nil {
		return nil, Options{}, err
	}

	friends, err := social.FriendIDSet(db, meID)
	if err != nil {
		return nil, Options{}, err
	}

	var candidates []Candidate
	for i := range pool {
		other := &pool[i]
		if other.ID == me.ID {
			continue
		}
		if _, isFriend := friends[other.ID]; isFriend {
			continue
		}
		score, shared := Score(&me, other)
		candidates = append(candidates, Candidate{
			UserID:          other.ID,
			Profile:         *other,
			Score:           score,
			SharedInterests: shared,
		})
	}

	opts := FilterOptions(candidates)

	candidates = applyFilters(candidates, f)

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > maxResults {
		candidates = candidates[:maxResults]
	}
	return candidates, opts, nil
}

func eligiblePool(db *gorm.DB, me *models.User) ([]models.User, error) {
	targetGender := "Male"
	if me.Gender == "Male" {
		targetGender = "Female"
	}

	var pool []models.User
	err := db.Where("gender = ? AND college_name = ?", targetGender, me.CollegeName).
		Limit(poolSize).
		Preload("Interests").
		Find(&pool).Error
	if err != nil {
		return nil, err
	}
	return pool, nil
}

func applyFilters(candidates []Candidate, f Filters) []Candidate {
	out := candidates
	if f.BranchCode != "" {
		out = filter(out, func(c Candidate) bool {
			return c.Profile.BranchCode == f.BranchCode
		})
	}
	if f.GraduationYear != 0 {
		out = filter(out, func(c Candidate) bool {
			return c.Profile.GraduationYear == f.GraduationYear
		})
	}
	if f.Interest != "" {
		want := strings.ToLower(f.Interest)
		out = filter(out, func(c Candidate) bool {
			for _, in := range c.Profile.Interests {
				if strings.ToLower(in.Name) == want {
					return true
				}
			}
			return false
		})
	}
	return out
}

func filter(candidates []Candidate, keep func(Candidate) bool) []Candidate {
	var out []Candidate
	for _, c := range candidates {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// FilterOptions collects the distinct branches, graduation years and
// interests present in a scored pool, sorted, for populating filter
// choices.
func FilterOptions(candidates []Candidate) Options {
	branches := make(map[string]struct{})
	years := make(map[int]struct{})
	interests := make(map[string]struct{})

	for _, c := range candidates {
		if c.Profile.BranchCode != "" {
			branches[c.Profile.BranchCode] = struct{}{}
		}
		if c.Profile.GraduationYear != 0 {
			years[c.Profile.GraduationYear] = struct{}{}
		}
		for _, in := range c.Profile.Interests {
			if in.Name != "" {
				interests[strings.ToLower(in.Name)] = struct{}{}
			}
		}
	}

	opts := Options{
		Branches:  sortedKeys(branches),
		Interests: sortedKeys(interests),
	}

	yearList := make([]int, 0, len(years))
	for y := range years {
		yearList = append(yearList, y)
	}
	sort.Ints(yearList)
	for _, y := range yearList {
		opts.Years = append(opts.Years, strconv.Itoa(y))
	}
	return opts
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
