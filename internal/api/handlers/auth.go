package handlers

import (
	"errors"
	"net/http"

	"github.com/emenu-app/emenu-backend/internal/services"
	"github.com/emenu-app/emenu-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func clientInfo(c *gin.Context) services.ClientInfo {
	return services.ClientInfo{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req services.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	resp, err := h.authService.Signup(req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			utils.SendError(c, http.StatusConflict, "Signup failed", err)
			return
		}
		respondServiceError(c, "Signup failed", err)
		return
	}

	utils.SendCreated(c, "Account created successfully", resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	resp, err := h.authService.Login(req, clientInfo(c))
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) || errors.Is(err, services.ErrAccountSuspended) {
			utils.SendUnauthorized(c, err.Error())
			return
		}
		respondServiceError(c, "Login failed", err)
		return
	}

	utils.SendSuccess(c, "Login successful", resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req services.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	if err := h.authService.Logout(userID, req.RefreshToken, clientInfo(c)); err != nil {
		respondServiceError(c, "Logout failed", err)
		return
	}

	utils.SendSuccess(c, "Logged out successfully", nil)
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req services.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	resp, err := h.authService.RefreshTokens(req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.SendUnauthorized(c, "Invalid refresh token")
			return
		}
		respondServiceError(c, "Token refresh failed", err)
		return
	}

	utils.SendSuccess(c, "Tokens refreshed", resp)
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	user, err := h.authService.GetProfile(userID)
	if err != nil {
		respondServiceError(c, "Failed to fetch profile", err)
		return
	}

	utils.SendSuccess(c, "Profile retrieved successfully", user)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	user, err := h.authService.UpdateProfile(userID, req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			utils.SendError(c, http.StatusConflict, "Profile update failed", err)
			return
		}
		respondServiceError(c, "Profile update failed", err)
		return
	}

	utils.SendSuccess(c, "Profile updated successfully", user)
}
