package middleware

import (
	"errors"
	"net/http"
	"strings"

	"campusflow/sched-api/model"
	"campusflow/sched-api/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// resolveUser does the whole bearer-token dance: extract the token from
// the Authorization header, validate it and load a live user row.
// Both the strict and the optional guard go through here so there's a
// single place where validation rules live
func resolveUser(c *gin.Context, db *gorm.DB) (*model.User, int, string) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, http.StatusUnauthorized, "Missing authorization header"
	}

	tokenStr, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokenStr == "" {
		return nil, http.StatusUnauthorized, "Malformed authorization header"
	}

	userID, err := security.ParseSessionToken(tokenStr)
	if err != nil {
		if errors.Is(err, security.ErrTokenExpired) {
			return nil, http.StatusUnauthorized, "Session expired. Please log in again"
		}

		return nil, http.StatusUnauthorized, "Session token invalid"
	}

	var user model.User

	err = db.Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, http.StatusUnauthorized, "Session token invalid"
		}

		zap.L().Error("Failed to resolve session user", zap.Error(err))
		return nil, http.StatusInternalServerError, "Internal server error"
	}

	if !user.Active {
		return nil, http.StatusUnauthorized, "Account is deactivated"
	}

	return &user, 0, ""
}

// NewAuthMiddleware rejects any request that doesn't carry a valid
// bearer token for a live, active account
func NewAuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		user, status, msg := resolveUser(c, db)
		if user == nil {
			c.AbortWithStatusJSON(status, gin.H{
				"error":     msg,
				"requestID": requestID,
			})
			return
		}

		c.Set("userID", user.ID)
		c.Set("user", user)
		c.Next()
	}
}

// NewOptionalAuthMiddleware performs the same resolution but lets the
// request through anonymously when it fails. Used by endpoints that
// behave differently for logged-in callers
func NewOptionalAuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, _, _ := resolveUser(c, db); user != nil {
			c.Set("userID", user.ID)
			c.Set("user", user)
		}

		c.Next()
	}
}

// RequireAdmin must be chained after NewAuthMiddleware
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		user := c.MustGet("user").(*model.User)
		if user.Role != model.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":     "Admin access required",
				"requestID": requestID,
			})
			return
		}

		c.Next()
	}
}
