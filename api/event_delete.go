package api

import (
	"net/http"

	"campusflow/sched-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) EventDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	r := a.DB.Where("id = ? AND user_id = ?", c.Param("id"), userID).Delete(&model.Event{})
	if r.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete event", zap.Error(r.Error), zap.String("requestID", requestID))
		return
	}

	if r.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Event not found",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Event deleted",
		"requestID": requestID,
	})
}
