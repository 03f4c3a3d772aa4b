package api

import (
	"errors"
	"net/http"
	"time"

	"campusflow/sched-api/model"
	"campusflow/sched-api/security"
	"campusflow/sched-api/service"
	"campusflow/sched-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks credentials against the stored argon2 hash and returns
// a session JWT. Unknown email and wrong password get the same answer
// so callers can't enumerate accounts. Failed attempts are counted at
// the storage layer and lock the account after the configured
// threshold, see service.RegisterLoginFailure
func (a *API) Login(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data loginBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.Email == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Email field can't be empty",
			"requestID": requestID,
		})
		return
	}

	if data.Password == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Password field can't be empty",
			"requestID": requestID,
		})
		return
	}

	var user model.User

	err := a.DB.Where("email = ?", validators.NormalizeEmail(data.Email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Invalid credentials",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// Locked accounts are rejected before the password is even checked
	// and without touching the attempt counter
	if user.Locked() {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     "Account temporarily locked due to too many failed login attempts. Try again later",
			"requestID": requestID,
		})
		return
	}

	ok, err := a.Argon.VerifyPasswd(data.Password, user.PasswordHash)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to verify password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !ok {
		if err := service.RegisterLoginFailure(a.DB, user.ID); err != nil {
			zap.L().Error("Failed to record login failure", zap.Error(err), zap.String("requestID", requestID))
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":     "Invalid credentials",
			"requestID": requestID,
		})
		return
	}

	// Verification gating happens after credential confirmation but
	// before a token is issued
	if !user.Verified {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     "Please verify your account before logging in",
			"requestID": requestID,
		})
		return
	}

	if !user.Active {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     "Account is deactivated",
			"requestID": requestID,
		})
		return
	}

	if err := service.RegisterLoginSuccess(a.DB, user.ID); err != nil {
		zap.L().Error("Failed to reset login attempts", zap.Error(err), zap.String("requestID", requestID))
	}

	token, expiresIn, err := security.MakeSessionToken(user.ID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate session token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	now := time.Now()
	user.LastLogin = &now

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresIn": expiresIn,
		"user":      user.Public(),
	})
}
