package handler

import (
	"errors"
	"net/http"
	"strconv"

	"campusmatch/backend/internal/database"
	"campusmatch/backend/internal/discover"
	"campusmatch/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// CandidateResponse is one ranked (or searched) suggestion.
type CandidateResponse struct {
	Profile         PublicUserResponse `json:"profile"`
	Score           int                `json:"score"`
	SharedInterests []string           `json:"shared_interests"`
}

// DiscoverResponse is the ranked suggestion list plus the filter
// choices present in the scored pool.
type DiscoverResponse struct {
	Candidates []CandidateResponse `json:"candidates"`
	Options    discover.Options    `json:"options"`
}

// endregion

func newCandidateResponse(c discover.Candidate, viewerID uint) (CandidateResponse, error) {
	profile, err := buildPublicUserResponse(c.Profile, viewerID)
	if err != nil {
		return CandidateResponse{}, err
	}

	shared := c.SharedInterests
	if shared == nil {
		shared = []string{}
	}
	return CandidateResponse{
		Profile:         profile,
		Score:           c.Score,
		SharedInterests: shared,
	}, nil
}

// Discover godoc
// @Summary      Get ranked match suggestions
// @Description  Returns scored candidate profiles for the viewer: opposite gender at the same college, existing connections excluded, best matches first. Optional filters compose by AND.
// @Tags         discover
// @Produce      json
// @Security     BearerAuth
// @Param        branch   query  string  false  "Filter by branch code"
// @Param        year     query  int     false  "Filter by graduation year"
// @Param        interest query  string  false  "Filter by a single interest"
// @Success      200  {object}  DiscoverResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Viewer profile missing"
// @Failure      500  {object}  ErrorResponse
// @Router       /discover [get]
func Discover(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var filters discover.Filters
	filters.BranchCode = c.Query("branch")
	filters.Interest = c.Query("interest")
	if yearStr := c.Query("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid graduation year"})
			return
		}
		filters.GraduationYear = year
	}

	candidates, options, err := discover.Discover(database.DB, viewerID.(uint), filters)
	if errors.Is(err, discover.ErrProfileMissing) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Your profile is missing. Please complete registration."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load suggestions"})
		return
	}

	responses := make([]CandidateResponse, 0, len(candidates))
	for _, candidate := range candidates {
		resp, err := newCandidateResponse(candidate, viewerID.(uint))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load suggestions"})
			return
		}
		responses = append(responses, resp)
	}

	c.JSON(http.StatusOK, DiscoverResponse{
		Candidates: responses,
		Options:    options,
	})
}

// DiscoverPreview godoc
// @Summary      Preview suggestions
// @Description  For authenticated callers this behaves like /discover. Logged-out callers get a small teaser of recent profiles instead of personalized matches.
// @Tags         discover
// @Produce      json
// @Success      200  {object}  DiscoverResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /discover/preview [get]
func DiscoverPreview(c *gin.Context) {
	if _, authenticated := c.Get("userID"); authenticated {
		Discover(c)
		return
	}

	var recent []models.User
	err := database.DB.Preload("Interests").Order("created_at DESC").Limit(6).Find(&recent).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load preview"})
		return
	}

	responses := make([]CandidateResponse, 0, len(recent))
	for _, user := range recent {
		responses = append(responses, CandidateResponse{
			Profile: PublicUserResponse{
				ID:          user.ID,
				Username:    user.Username,
				FullName:    user.FullName,
				CollegeName: user.CollegeName,
				Branch:      user.Branch,
				BranchCode:  user.BranchCode,
				AvatarURL:   user.AvatarURL,
				Interests:   interestNames(user.Interests),
			},
			SharedInterests: []string{},
		})
	}

	c.JSON(http.StatusOK, DiscoverResponse{Candidates: responses})
}

// SearchByUsername godoc
// @Summary      Search a profile by username
// @Description  Looks a single profile up through the username index. The result is unscored and separate from ranked discovery.
// @Tags         discover
// @Produce      json
// @Security     BearerAuth
// @Param        q  query  string  true  "Username to search"
// @Success      200  {object}  CandidateResponse
// @Failure      400  {object}  ErrorResponse "Query normalizes to nothing"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "No user with that username"
// @Failure      500  {object}  ErrorResponse
// @Router       /discover/search [get]
func SearchByUsername(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	candidate, err := discover.SearchByUsername(database.DB, c.Query("q"))
	switch {
	case errors.Is(err, discover.ErrInvalidUsername):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Enter a username to search"})
		return
	case errors.Is(err, discover.ErrUsernameNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "No user found with that username"})
		return
	case errors.Is(err, discover.ErrProfileMissing):
		c.JSON(http.StatusNotFound, gin.H{"error": "User exists but profile is missing"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}

	resp, err := newCandidateResponse(candidate, viewerID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
