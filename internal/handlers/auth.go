// internal/handlers/auth.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/Stvolll/scooter-wraps-backend/internal/config"
	"github.com/Stvolll/scooter-wraps-backend/internal/utils"
)

type AuthHandler struct {
	config *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{config: cfg}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /auth/login authenticates the single console account from
// config.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if req.Email != h.config.Admin.Email || h.config.Admin.PasswordHash == "" {
		utils.UnauthorizedResponse(c, "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword(
		[]byte(h.config.Admin.PasswordHash), []byte(req.Password)); err != nil {
		utils.UnauthorizedResponse(c, "Invalid credentials")
		return
	}

	token, err := utils.GenerateJWT(req.Email, "admin", h.config.JWT.AccessTokenTTL)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to issue token")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"token": token,
		"email": req.Email,
	})
}
