package discover

import (
	"strings"

	"campusmatch/backend/internal/models"
)

// Scoring weights. Tuned for the product, not derived from anything.
const (
	pointsPerSharedInterest = 5
	pointsSameCollege       = 10
	pointsSameBranch        = 5
	pointsCloseGradYear     = 2
)

// Score rates how well other matches me and returns the shared
// interests that contributed. Interest comparison is case-insensitive
// and deduplicated. Absent fields contribute zero: an empty college,
// branch or graduation year on either side simply scores no points.
func Score(me, other *models.User) (int, []string) {
	otherSet := make(map[string]struct{}, len(other.Interests))
	for _, in := range other.Interests {
		otherSet[strings.ToLower(in.Name)] = struct{}{}
	}

	var shared []string
	seen := make(map[string]struct{})
	for _, in := range me.Interests {
		name := strings.ToLower(in.Name)
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if _, ok := otherSet[name]; ok {
			shared = append(shared, name)
		}
	}

	score := len(shared) * pointsPerSharedInterest
	if me.CollegeName != "" && other.CollegeName != "" && me.CollegeName == other.CollegeName {
		score += pointsSameCollege
	}
	if me.BranchCode != "" && other.BranchCode != "" && me.BranchCode == other.BranchCode {
		score += pointsSameBranch
	}
	if me.GraduationYear != 0 && other.GraduationYear != 0 && absDiff(me.GraduationYear, other.GraduationYear) <= 1 {
		score += pointsCloseGradYear
	}

	return score, shared
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
