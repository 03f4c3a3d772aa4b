package api

import (
	"net/http"

	"campusflow/sched-api/model"
	"campusflow/sched-api/validators"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

type gradeBody struct {
	Course     string  `json:"course"`
	Assessment string  `json:"assessment"`
	Score      float64 `json:"score"`
	MaxScore   float64 `json:"maxScore"`
	Weight     float64 `json:"weight"`
	Term       string  `json:"term"`
}

func (a *API) GradeCreate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var data gradeBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if err := validators.GradeValidator(data.Course, data.Score, data.MaxScore, data.Weight); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	gradeID, err := gonanoid.Generate(idCharset, 16)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate grade ID", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	grade := model.Grade{
		ID:         gradeID,
		UserID:     userID,
		Course:     data.Course,
		Assessment: data.Assessment,
		Score:      data.Score,
		MaxScore:   data.MaxScore,
		Weight:     data.Weight,
		Term:       data.Term,
	}

	if err := a.DB.Create(&grade).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create grade", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"grade": grade,
	})
}
