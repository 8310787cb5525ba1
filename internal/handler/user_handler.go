package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"campusmatch/backend/internal/database"
	"campusmatch/backend/internal/discover"
	"campusmatch/backend/internal/models"
	"campusmatch/backend/internal/social"
	"campusmatch/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// region --- DTOs ---

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	Email          string   `json:"email" binding:"required,email" example:"jane@college.edu"`
	Password       string   `json:"password" binding:"required,min=8" example:"password123"`
	Username       string   `json:"username" binding:"required" example:"jane.doe"`
	FullName       string   `json:"full_name" binding:"required" example:"Jane Doe"`
	Gender         string   `json:"gender" binding:"required,oneof=Male Female" example:"Female"`
	CollegeName    string   `json:"college_name" binding:"required" example:"IIT Delhi"`
	Branch         string   `json:"branch" example:"Computer Science"`
	BranchCode     string   `json:"branch_code" example:"CS"`
	GraduationYear int      `json:"graduation_year" example:"2027"`
	Bio            string   `json:"bio"`
	AvatarURL      string   `json:"avatar_url"`
	Interests      []string `json:"interests"`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Login    string `json:"login" binding:"required" example:"jane.doe"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// PublicUserResponse defines the structure for a user's public profile.
type PublicUserResponse struct {
	ID             uint     `json:"id" example:"1"`
	Username       string   `json:"username" example:"jane.doe"`
	FullName       string   `json:"full_name" example:"Jane Doe"`
	Gender         string   `json:"gender" example:"Female"`
	CollegeName    string   `json:"college_name" example:"IIT Delhi"`
	Branch         string   `json:"branch" example:"Computer Science"`
	BranchCode     string   `json:"branch_code" example:"CS"`
	GraduationYear int      `json:"graduation_year" example:"2027"`
	Bio            string   `json:"bio"`
	AvatarURL      string   `json:"avatar_url"`
	Interests      []string `json:"interests"`
	FriendsCount   int64    `json:"friends_count"`

	// Relationship is the symmetric state between the viewer and this
	// user: friends, pending_outgoing, pending_incoming or none.
	Relationship string `json:"relationship,omitempty"`
}

// PrivateUserResponse defines the structure for the authenticated user's own profile.
type PrivateUserResponse struct {
	ID              uint     `json:"id" example:"1"`
	Email           string   `json:"email" example:"jane@college.edu"`
	Username        string   `json:"username" example:"jane.doe"`
	FullName        string   `json:"full_name" example:"Jane Doe"`
	Gender          string   `json:"gender" example:"Female"`
	CollegeName     string   `json:"college_name" example:"IIT Delhi"`
	Branch          string   `json:"branch" example:"Computer Science"`
	BranchCode      string   `json:"branch_code" example:"CS"`
	GraduationYear  int      `json:"graduation_year" example:"2027"`
	Bio             string   `json:"bio"`
	AvatarURL       string   `json:"avatar_url"`
	Interests       []string `json:"interests"`
	FriendsCount    int64    `json:"friends_count"`
	IncomingPending int64    `json:"incoming_pending"`
}

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// endregion

// region --- Auth Handlers ---

var errUsernameTaken = errors.New("username already taken")

// RegisterUser godoc
// @Summary      Register a new user
// @Description  Creates a user profile together with its username index entry (atomically) and returns an authentication token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201  {object}  map[string]string "{"token": "..."}"
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Username or email already taken"
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/register [post]
func RegisterUser(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	username := discover.NormalizeUsername(input.Username)
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username must contain letters, digits, '.' or '_'"})
		return
	}

	var existingUser models.User
	if err := database.DB.Where("email = ?", input.Email).First(&existingUser).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	interests, err := findOrCreateInterests(database.DB, input.Interests)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve interests"})
		return
	}

	user := models.User{
		Email:          input.Email,
		PasswordHash:   string(hashedPassword),
		Username:       username,
		FullName:       input.FullName,
		Gender:         input.Gender,
		CollegeName:    input.CollegeName,
		Branch:         input.Branch,
		BranchCode:     strings.ToUpper(input.BranchCode),
		GraduationYear: input.GraduationYear,
		Bio:            input.Bio,
		AvatarURL:      input.AvatarURL,
		Interests:      interests,
	}

	// The username index row and the profile are created in one
	// transaction so a username can never be claimed twice.
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var taken models.UsernameIndex
		if err := tx.Where("username = ?", username).First(&taken).Error; err == nil {
			return errUsernameTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&models.UsernameIndex{Username: username, UserID: user.ID}).Error
	})
	if errors.Is(err, errUsernameTaken) {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken. Please choose another."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := jwt.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token})
}

// LoginUser godoc
// @Summary      Log in a user
// @Description  Authenticates a user with username/email and password, and returns a new token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  map[string]string "{"token": "..."}"
// @Failure      400  {object}  ErrorResponse "Invalid input"
// @Failure      401  {object}  ErrorResponse "Invalid credentials"
// @Failure      404  {object}  ErrorResponse "User not found"
// @Failure      500  {object}  ErrorResponse "Internal server error"
// @Router       /auth/login [post]
func LoginUser(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	login := strings.ToLower(strings.TrimSpace(input.Login))
	if err := database.DB.Where("username = ? OR email = ?", login, login).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := jwt.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// endregion

// region --- User Handlers ---

// SearchUsers godoc
// @Summary      Search for users
// @Description  Searches for users by username or full name with pagination.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        q     query     string  false  "Search query"
// @Param        page  query     int     false  "Page number" default(1)
// @Param        limit query     int     false  "Items per page" default(10)
// @Success      200   {object}  PaginatedResponse[PublicUserResponse]
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /users [get]
func SearchUsers(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	searchQuery := c.Query("q")

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100 // Max limit
	}

	query := database.DB.Model(&models.User{}).Where("id <> ?", viewerID)
	if searchQuery != "" {
		pattern := "%" + strings.ToLower(searchQuery) + "%"
		query = query.Where("LOWER(username) LIKE ? OR LOWER(full_name) LIKE ?", pattern, pattern)
	}
	query = query.Preload("Interests")

	paginated, err := Paginate[models.User](query, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}

	responses := make([]PublicUserResponse, 0, len(paginated.Data))
	for _, user := range paginated.Data {
		resp, err := buildPublicUserResponse(user, viewerID.(uint))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
			return
		}
		responses = append(responses, resp)
	}

	c.JSON(http.StatusOK, PaginatedResponse[PublicUserResponse]{
		Data: responses,
		Meta: paginated.Meta,
	})
}

// GetUserByID godoc
// @Summary      Get user by ID
// @Description  Retrieves the public profile for a specific user, including the relationship state to the viewer.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  PublicUserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func GetUserByID(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	targetUserID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	// If target is the same as viewer, redirect to /me
	if viewerID.(uint) == uint(targetUserID) {
		GetMe(c)
		return
	}

	var targetUser models.User
	if err := database.DB.Preload("Interests").First(&targetUser, uint(targetUserID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	resp, err := buildPublicUserResponse(targetUser, viewerID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetMe godoc
// @Summary      Get current user's info
// @Description  Retrieves the private profile for the currently authenticated user.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  PrivateUserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/me [get]
func GetMe(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var user models.User
	if err := database.DB.Preload("Interests").First(&user, viewerID.(uint)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	resp, err := buildPrivateUserResponse(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// endregion

// region --- Helpers ---

func interestNames(interests []*models.Interest) []string {
	names := make([]string, 0, len(interests))
	for _, in := range interests {
		if in != nil {
			names = append(names, in.Name)
		}
	}
	return names
}

func buildPublicUserResponse(targetUser models.User, viewerID uint) (PublicUserResponse, error) {
	friendsCount, err := social.FriendCount(database.DB, targetUser.ID)
	if err != nil {
		return PublicUserResponse{}, err
	}

	rel, err := social.Resolve(database.DB, viewerID, targetUser.ID)
	if err != nil {
		return PublicUserResponse{}, err
	}

	return PublicUserResponse{
		ID:             targetUser.ID,
		Username:       targetUser.Username,
		FullName:       targetUser.FullName,
		Gender:         targetUser.Gender,
		CollegeName:    targetUser.CollegeName,
		Branch:         targetUser.Branch,
		BranchCode:     targetUser.BranchCode,
		GraduationYear: targetUser.GraduationYear,
		Bio:            targetUser.Bio,
		AvatarURL:      targetUser.AvatarURL,
		Interests:      interestNames(targetUser.Interests),
		FriendsCount:   friendsCount,
		Relationship:   string(rel.State),
	}, nil
}

func buildPrivateUserResponse(user models.User) (PrivateUserResponse, error) {
	friendsCount, err := social.FriendCount(database.DB, user.ID)
	if err != nil {
		return PrivateUserResponse{}, err
	}

	var incomingPending int64
	err = database.DB.Model(&models.FriendRequest{}).
		Where("to_user_id = ? AND status = ?", user.ID, models.StatusPending).
		Count(&incomingPending).Error
	if err != nil {
		return PrivateUserResponse{}, err
	}

	return PrivateUserResponse{
		ID:              user.ID,
		Email:           user.Email,
		Username:        user.Username,
		FullName:        user.FullName,
		Gender:          user.Gender,
		CollegeName:     user.CollegeName,
		Branch:          user.Branch,
		BranchCode:      user.BranchCode,
		GraduationYear:  user.GraduationYear,
		Bio:             user.Bio,
		AvatarURL:       user.AvatarURL,
		Interests:       interestNames(user.Interests),
		FriendsCount:    friendsCount,
		IncomingPending: incomingPending,
	}, nil
}

// endregion
