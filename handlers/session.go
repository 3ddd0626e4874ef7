package handlers

import (
	"errors"
	"net/http"

	userRepo "phms/database/repository/user"
	"phms/models"
	"phms/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionHandler is the touchpoint with the external authentication flow.
// Its one load-bearing job is recording the last active user, which the
// restart recovery pass reads.
type SessionHandler struct {
	LastUser *utils.LastUserStore
	Users    userRepo.UserRepository
}

func NewSessionHandler(lastUser *utils.LastUserStore, users userRepo.UserRepository) *SessionHandler {
	return &SessionHandler{LastUser: lastUser, Users: users}
}

// SetActiveUserHandler records a sign-in: upserts the user document and
// persists the last-active-user key.
func (h *SessionHandler) SetActiveUserHandler(c *gin.Context) {
	logger := getLogger(c)

	var user models.User
	if err := c.ShouldBindJSON(&user); err != nil || user.ID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid session request", "user id is required")
		return
	}

	if err := h.Users.Upsert(&user); err != nil {
		logger.Error("Failed to upsert user", zap.String("userId", user.ID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to record session", err.Error())
		return
	}

	if err := h.LastUser.Set(c.Request.Context(), user.ID); err != nil {
		logger.Error("Failed to persist last active user", zap.String("userId", user.ID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to record session", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"activeUser": user.ID})
}

// ClearActiveUserHandler records a sign-out.
func (h *SessionHandler) ClearActiveUserHandler(c *gin.Context) {
	logger := getLogger(c)

	if err := h.LastUser.Clear(c.Request.Context()); err != nil {
		logger.Error("Failed to clear last active user", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to clear session", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"activeUser": nil})
}

// UpdateFCMTokenHandler stores the device's current push token.
func (h *SessionHandler) UpdateFCMTokenHandler(c *gin.Context) {
	logger := getLogger(c)

	userID := c.Param("userId")
	var req struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid token request", "token is required")
		return
	}

	if err := h.Users.UpdateFCMToken(userID, req.Token); err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "User not found", "")
			return
		}
		logger.Error("Failed to update FCM token", zap.String("userId", userID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to update token", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": userID})
}
