package api

import (
	"errors"
	"net/http"

	"campusflow/sched-api/model"
	"campusflow/sched-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EventUpdate replaces the mutable fields of an event owned by the
// caller. Events of other users answer 404, not 403
func (a *API) EventUpdate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var data eventBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if err := validators.EventValidator(data.Title, data.StartsAt, data.EndsAt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	var event model.Event

	err := a.DB.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Event not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch event", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	event.Title = data.Title
	event.Description = data.Description
	event.Category = data.Category
	event.StartsAt = data.StartsAt
	event.EndsAt = data.EndsAt

	if err := a.DB.Save(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update event", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"event": event,
	})
}
