package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"campusmatch/backend/internal/database"
	"campusmatch/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type InterestInput struct {
	Name string `json:"name" binding:"required"`
}

type InterestResponse struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `json:"name"`
}

func newInterestResponse(interest models.Interest) InterestResponse {
	return InterestResponse{
		ID:        interest.ID,
		CreatedAt: interest.CreatedAt,
		UpdatedAt: interest.UpdatedAt,
		Name:      interest.Name,
	}
}

// findOrCreateInterests resolves a list of raw interest names to
// Interest rows, creating missing ones. Names are stored lowercase so
// matching stays case-insensitive.
func findOrCreateInterests(db *gorm.DB, names []string) ([]*models.Interest, error) {
	var interests []*models.Interest
	seen := make(map[string]struct{})
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		var interest models.Interest
		if err := db.Where("name = ?", name).FirstOrCreate(&interest, models.Interest{Name: name}).Error; err != nil {
			return nil, err
		}
		interests = append(interests, &interest)
	}
	return interests, nil
}

// GetInterests godoc
// @Summary      Get all interests
// @Description  Retrieves the interest catalog.
// @Tags         interests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   InterestResponse
// @Router       /interests [get]
func GetInterests(c *gin.Context) {
	var interests []models.Interest
	database.DB.Order("name").Find(&interests)

	var response []InterestResponse
	for _, interest := range interests {
		response = append(response, newInterestResponse(interest))
	}
	c.JSON(http.StatusOK, response)
}

// ToggleInterest godoc
// @Summary      Toggle an interest on the viewer's profile
// @Description  Adds the interest to the authenticated user's profile, or removes it if already present.
// @Tags         interests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Interest ID"
// @Success      200  {object}  map[string]bool "{"selected": true}"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Interest not found"
// @Failure      500  {object}  ErrorResponse
// @Router       /interests/{id}/toggle [post]
func ToggleInterest(c *gin.Context) {
	userID, _ := c.Get("userID")
	interestID, _ := strconv.Atoi(c.Param("id"))

	var user models.User
	// Eagerly load just the one interest we care about
	if err := database.DB.Preload("Interests", "id = ?", interestID).First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var interest models.Interest
	if err := database.DB.First(&interest, interestID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Interest not found"})
		return
	}

	association := database.DB.Model(&user).Association("Interests")

	// If the preload found the interest, it's already selected
	if len(user.Interests) > 0 {
		if err := association.Delete(&interest); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove interest"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"selected": false})
	} else {
		if err := association.Append(&interest); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add interest"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"selected": true})
	}
}

// CreateInterest godoc
// @Summary      Create a new interest
// @Description  Adds an interest to the catalog.
// @Tags         admin-interests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body InterestInput true "Interest Info"
// @Success      201  {object}  InterestResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      409  {object}  ErrorResponse "Interest already exists"
// @Router       /admin/interests [post]
func CreateInterest(c *gin.Context) {
	var input InterestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	interest := models.Interest{Name: strings.ToLower(strings.TrimSpace(input.Name))}
	if err := database.DB.Create(&interest).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Interest already exists or another error occurred"})
		return
	}

	c.JSON(http.StatusCreated, newInterestResponse(interest))
}

// UpdateInterest godoc
// @Summary      Update an interest
// @Description  Renames an existing interest.
// @Tags         admin-interests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int            true  "Interest ID"
// @Param        input body InterestInput true "New Interest Info"
// @Success      200  {object}  InterestResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      404  {object}  ErrorResponse "Interest not found"
// @Router       /admin/interests/{id} [put]
func UpdateInterest(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	var input InterestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var interest models.Interest
	if err := database.DB.First(&interest, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Interest not found"})
		return
	}

	database.DB.Model(&interest).Update("name", strings.ToLower(strings.TrimSpace(input.Name)))
	c.JSON(http.StatusOK, newInterestResponse(interest))
}

// DeleteInterest godoc
// @Summary      Delete an interest
// @Description  Removes an interest from the catalog.
// @Tags         admin-interests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Interest ID"
// @Success      200  {object}  map[string]string "{"message": "Interest deleted"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      404  {object}  ErrorResponse "Interest not found"
// @Router       /admin/interests/{id} [delete]
func DeleteInterest(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	result := database.DB.Delete(&models.Interest{}, id)
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Interest not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Interest deleted"})
}
