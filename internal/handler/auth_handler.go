package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/promodesk/promodesk_api/internal/models"
	"github.com/promodesk/promodesk_api/internal/utils"
)

// AuthHandler issues session tokens. There is no credential store behind
// this: logging in records the chosen name and role, nothing more.
type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		User string `json:"user" binding:"required"`
		Role string `json:"role" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	role := models.Role(strings.TrimSpace(req.Role))
	if !models.ValidRole(role) {
		respondError(c, utils.ErrInvalidRole)
		return
	}

	token, err := utils.GenerateJWT(strings.TrimSpace(req.User), string(role))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, 200, "Login successful", gin.H{
		"token": token,
		"session": models.Session{
			User: strings.TrimSpace(req.User),
			Role: role,
		},
	})
}
