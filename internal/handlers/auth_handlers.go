package handlers

import (
	"errors"
	"net/http"

	"travel_crm_backend/internal/middleware"
	"travel_crm_backend/internal/services"
	"travel_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the auth service.
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

// Register handles account sign-up. The new account waits for approval.
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, "Register", err)
		return
	}

	account, err := h.authService.SignUp(req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailExists):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Email already registered.", ""))
		case errors.Is(err, services.ErrAuthValidation):
			utils.RespondValidationFailed(c, err.Error())
		default:
			utils.LogError(err, "Register: Error from authService.SignUp")
			respondInternal(c, "Failed to register account.")
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"account": account,
		"message": "Account created. An administrator must approve it before you can use the system.",
	})
}

// Login handles sign-in.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, "Login", err)
		return
	}

	resp, err := h.authService.SignIn(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid email or password.", ""))
			return
		}
		utils.LogError(err, "Login: Error from authService.SignIn")
		respondInternal(c, "Failed to sign in.")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Logout ends the current session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.SignOut(c.Request.Context(), c.GetString(middleware.ContextSessionID)); err != nil {
		utils.LogError(err, "Logout: Error from authService.SignOut")
		respondInternal(c, "Failed to sign out.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

// Me returns the signed-in account and its approval status.
func (h *AuthHandler) Me(c *gin.Context) {
	sess, err := h.authService.CurrentSession(accountID(c))
	if err != nil {
		if errors.Is(err, services.ErrAccountNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Account not found.", ""))
			return
		}
		utils.LogError(err, "Me: Error from authService.CurrentSession")
		respondInternal(c, "Failed to load session.")
		return
	}
	c.JSON(http.StatusOK, sess)
}
