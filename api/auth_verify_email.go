package api

import (
	"net/http"
	"time"

	"campusflow/sched-api/model"
	"campusflow/sched-api/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type verifyEmailBody struct {
	Token string `json:"token"`
}

// VerifyEmail consumes a mailed verification token. The update matches
// on the token hash and the expiry in one statement and clears both
// token columns, so a token can only ever be consumed once. "Not
// found" and "expired" are deliberately the same answer
func (a *API) VerifyEmail(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data verifyEmailBody
	if err := c.ShouldBind(&data); err != nil || data.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No verification token provided",
			"requestID": requestID,
		})
		return
	}

	r := a.DB.Model(model.User{}).
		Where("verification_token_hash = ? AND verification_token_expires_at > ?",
			security.HashToken(data.Token), time.Now()).
		Updates(map[string]any{
			"verified":                      true,
			"verification_token_hash":       nil,
			"verification_token_expires_at": nil,
		})
	if r.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to consume verification token", zap.Error(r.Error), zap.String("requestID", requestID))
		return
	}

	if r.RowsAffected == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Token expired or invalid",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Email verified successfully. You can now log in",
		"requestID": requestID,
	})
}
