package api

import (
	"net/http"

	"campusflow/sched-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GradeList returns the caller's grades, optionally filtered by term
// or course
func (a *API) GradeList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	q := a.DB.Where("user_id = ?", userID)

	if term := c.Query("term"); term != "" {
		q = q.Where("term = ?", term)
	}

	if course := c.Query("course"); course != "" {
		q = q.Where("course = ?", course)
	}

	var grades []model.Grade

	if err := q.Order("created_at desc").Find(&grades).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list grades", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"grades": grades,
	})
}
