package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"messaging-service/internal/models"
	"messaging-service/internal/repositories"
)

// ProfileHandler keeps the local profile cache in sync with the user
// service and serves profile lookups for clients rendering conversation
// headers.
type ProfileHandler struct {
	profiles repositories.ProfileRepository
}

// NewProfileHandler constructs a ProfileHandler.
func NewProfileHandler(profiles repositories.ProfileRepository) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

type upsertProfileRequest struct {
	Username  string `json:"username" binding:"required"`
	AvatarURL string `json:"avatar_url"`
}

// UpsertProfile stores or refreshes the caller's public profile.
func (h *ProfileHandler) UpsertProfile(c *gin.Context) {
	callerID := c.GetString("userID")

	var req upsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile := models.Profile{UserID: callerID, Username: req.Username, AvatarURL: req.AvatarURL}
	if err := h.profiles.Upsert(c.Request.Context(), profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetProfile returns a user's public profile.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID := c.Param("user_id")

	profile, err := h.profiles.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, profile)
}
