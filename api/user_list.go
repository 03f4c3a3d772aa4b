package api

import (
	"net/http"

	"campusflow/sched-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserList returns every account with secret fields stripped. Admin only
func (a *API) UserList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var users []model.User

	err := a.DB.Order("created_at desc").Find(&users).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list users", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	out := make([]map[string]any, len(users))
	for i := range users {
		out[i] = users[i].Public()
	}

	c.JSON(http.StatusOK, gin.H{
		"users": out,
	})
}
