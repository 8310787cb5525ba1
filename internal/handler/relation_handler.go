package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"campusmatch/backend/internal/database"
	"campusmatch/backend/internal/hub"
	"campusmatch/backend/internal/models"
	"campusmatch/backend/internal/social"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// RelationshipResponse reports the symmetric state between the viewer
// and another user.
type RelationshipResponse struct {
	State string `json:"state" example:"friends"`
}

// IncomingRequestResponse is one pending request addressed to the viewer.
type IncomingRequestResponse struct {
	FromUserID uint      `json:"from_user_id"`
	Username   string    `json:"username"`
	FullName   string    `json:"full_name"`
	AvatarURL  string    `json:"avatar_url"`
	CreatedAt  time.Time `json:"created_at"`
}

// endregion

func targetUserIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target user ID"})
		return 0, false
	}
	return uint(id), true
}

// SendRequest godoc
// @Summary      Send friend request
// @Description  Sends a friend request to another user. A no-op when the pair is already connected.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      201  {object}  social.SendResult
// @Failure      400  {object}  ErrorResponse "Invalid target, or self-request"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Target user not found"
// @Failure      500  {object}  ErrorResponse
// @Router       /users/{id}/request [post]
func SendRequest(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	targetUserID, ok := targetUserIDParam(c)
	if !ok {
		return
	}

	var target models.User
	if err := database.DB.First(&target, targetUserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Target user not found"})
		return
	}

	result, err := social.Send(database.DB, viewerID.(uint), targetUserID)
	if errors.Is(err, social.ErrSelfRelation) || errors.Is(err, social.ErrMissingUser) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send request"})
		return
	}

	if result.Requested {
		hub.GlobalHub.Notify(targetUserID, hub.Event{
			Type:    hub.EventRequestReceived,
			Payload: gin.H{"from_user_id": viewerID},
		})
	}

	c.JSON(http.StatusCreated, result)
}

// AcceptRequest godoc
// @Summary      Accept friend request
// @Description  Accepts a pending friend request from another user. The accepted record becomes the friendship.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Requesting User ID"
// @Success      200  {object}  map[string]string "{"message": "Request accepted"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Request no longer exists"
// @Failure      409  {object}  ErrorResponse "Request is not pending, or retries exhausted"
// @Failure      500  {object}  ErrorResponse
// @Router       /users/{id}/accept [post]
func AcceptRequest(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	requestingUserID, ok := targetUserIDParam(c)
	if !ok {
		return
	}

	err := social.Accept(database.DB, requestingUserID, viewerID.(uint))
	switch {
	case errors.Is(err, social.ErrRequestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, social.ErrRequestNotPending), errors.Is(err, social.ErrWriteConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept request"})
		return
	}

	hub.GlobalHub.Notify(requestingUserID, hub.Event{
		Type:    hub.EventRequestAccepted,
		Payload: gin.H{"by_user_id": viewerID},
	})

	c.JSON(http.StatusOK, gin.H{"message": "Request accepted"})
}

// DeclineRequest godoc
// @Summary      Decline friend request
// @Description  Declines a friend request from another user. The declined record is kept as history.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Requesting User ID"
// @Success      200  {object}  map[string]string "{"message": "Request declined"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /users/{id}/decline [post]
func DeclineRequest(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	requestingUserID, ok := targetUserIDParam(c)
	if !ok {
		return
	}

	if err := social.Decline(database.DB, requestingUserID, viewerID.(uint)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decline request"})
		return
	}

	hub.GlobalHub.Notify(requestingUserID, hub.Event{
		Type:    hub.EventRequestDeclined,
		Payload: gin.H{"by_user_id": viewerID},
	})

	c.JSON(http.StatusOK, gin.H{"message": "Request declined"})
}

// CancelRequest godoc
// @Summary      Cancel a sent request
// @Description  Deletes the viewer's own outgoing request. Safe to call when no request exists.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      200  {object}  map[string]string "{"message": "Request cancelled"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /users/{id}/cancel [post]
func CancelRequest(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	targetUserID, ok := targetUserIDParam(c)
	if !ok {
		return
	}

	if err := social.Cancel(database.DB, viewerID.(uint), targetUserID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request cancelled"})
}

// GetRelationship godoc
// @Summary      Get relationship state
// @Description  Resolves the symmetric relationship state between the viewer and another user.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Other User ID"
// @Success      200  {object}  RelationshipResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /users/{id}/relationship [get]
func GetRelationship(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	otherUserID, ok := targetUserIDParam(c)
	if !ok {
		return
	}

	rel, err := social.Resolve(database.DB, viewerID.(uint), otherUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve relationship"})
		return
	}

	c.JSON(http.StatusOK, RelationshipResponse{State: string(rel.State)})
}

// GetFriends godoc
// @Summary      List friends
// @Description  Returns the full profiles of everyone the viewer is connected with.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   PublicUserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /users/me/friends [get]
func GetFriends(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	friends, err := social.ListFriends(database.DB, viewerID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friends"})
		return
	}

	responses := make([]PublicUserResponse, 0, len(friends))
	for _, friend := range friends {
		resp, err := buildPublicUserResponse(friend, viewerID.(uint))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friends"})
			return
		}
		responses = append(responses, resp)
	}

	c.JSON(http.StatusOK, responses)
}

// GetIncomingRequests godoc
// @Summary      List incoming requests
// @Description  Returns pending friend requests addressed to the viewer, oldest first, capped at 50.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   IncomingRequestResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /users/me/requests [get]
func GetIncomingRequests(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	requests, err := social.ListIncomingRequests(database.DB, viewerID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch requests"})
		return
	}

	responses := make([]IncomingRequestResponse, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, IncomingRequestResponse{
			FromUserID: req.FromUserID,
			Username:   req.FromUser.Username,
			FullName:   req.FromUser.FullName,
			AvatarURL:  req.FromUser.AvatarURL,
			CreatedAt:  req.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, responses)
}

// StreamEvents godoc
// @Summary      Subscribe to relationship events
// @Description  Opens a server-sent-events stream delivering request.received / request.accepted / request.declined events for the viewer.
// @Tags         friendship
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me/events [get]
func StreamEvents(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	client := make(hub.Client, 8)
	hub.GlobalHub.Subscribe(viewerID.(uint), client)
	defer hub.GlobalHub.Unsubscribe(viewerID.(uint), client)

	c.Stream(func(w io.Writer) bool {
		select {
		case message, ok := <-client:
			if !ok {
				return false
			}
			c.SSEvent("message", string(message))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
