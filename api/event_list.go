package api

import (
	"net/http"
	"time"

	"campusflow/sched-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EventList returns the caller's events. Optional from/to query params
// (RFC 3339) narrow the result to events overlapping that window,
// which is what the calendar views ask for
func (a *API) EventList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	q := a.DB.Where("user_id = ?", userID)

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Invalid from parameter",
				"requestID": requestID,
			})
			return
		}

		q = q.Where("ends_at > ?", from)
	}

	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Invalid to parameter",
				"requestID": requestID,
			})
			return
		}

		q = q.Where("starts_at < ?", to)
	}

	var events []model.Event

	if err := q.Order("starts_at asc").Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list events", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
	})
}
