package middleware

import (
	"errors"
	"net/http"
	"strings"

	"travel_crm_backend/internal/models"
	"travel_crm_backend/internal/repositories"
	"travel_crm_backend/internal/session"
	"travel_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	ContextAccountID = "accountID"
	ContextEmail     = "email"
	ContextIsAdmin   = "isAdmin"
	ContextSessionID = "sessionID"
)

// AccountLookup is the slice of the account repository the gate needs.
type AccountLookup interface {
	FindByID(id string) (*models.Account, error)
}

// AuthMiddleware creates a Gin middleware for JWT authentication. A valid
// signature is not enough: the session named by the token must still exist.
func AuthMiddleware(tokens *utils.TokenManager, sessions session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authorization header required", ""))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized,
				"Invalid authorization header format. Use Bearer <token>", ""))
			return
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid or expired token", err.Error()))
			return
		}

		alive, err := sessions.Exists(c.Request.Context(), claims.ID)
		if err != nil {
			utils.LogError(err, "AuthMiddleware: session lookup failed")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to verify session", ""))
			return
		}
		if !alive {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Session has ended, please sign in again", ""))
			return
		}

		c.Set(ContextAccountID, claims.AccountID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextIsAdmin, claims.IsAdmin)
		c.Set(ContextSessionID, claims.ID)

		c.Next()
	}
}

// ApprovedAccountMiddleware blocks accounts that an administrator has not approved yet.
// The flag is read from the store on every request so a decision takes effect immediately.
func ApprovedAccountMiddleware(accounts AccountLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID := c.GetString(ContextAccountID)
		if accountID == "" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required", ""))
			return
		}

		acc, err := accounts.FindByID(accountID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Account no longer exists", ""))
				return
			}
			utils.LogError(err, "ApprovedAccountMiddleware: account lookup failed", map[string]interface{}{"account_id": accountID})
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to load account", ""))
			return
		}
		if !acc.IsApproved {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeAccountNotApproved,
				"Your account is waiting for administrator approval", ""))
			return
		}

		// Admin rights follow the stored account, not a possibly stale token.
		c.Set(ContextIsAdmin, acc.IsAdmin)
		c.Next()
	}
}

// AdminOnlyMiddleware rejects callers without administrator rights.
func AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ContextIsAdmin) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden,
				"You do not have permission to access this resource", "administrator access required"))
			return
		}
		c.Next()
	}
}
