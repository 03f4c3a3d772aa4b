package api

import (
	"errors"
	"net/http"
	"strings"

	"campusflow/sched-api/model"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AcademicFetch returns the caller's academic profile
func (a *API) AcademicFetch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var profile model.AcademicProfile

	err := a.DB.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "No academic profile yet",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch academic profile", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile": profile,
	})
}

type academicBody struct {
	Institution string `json:"institution"`
	Programme   string `json:"programme"`
	YearOfStudy int    `json:"yearOfStudy"`
	URN         string `json:"urn"`
}

// AcademicUpsert creates or replaces the caller's academic profile.
// The URN is unique across all students, a duplicate is a conflict
func (a *API) AcademicUpsert(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var data academicBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if data.YearOfStudy < 1 || data.YearOfStudy > 10 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Year of study must be between 1 and 10",
			"requestID": requestID,
		})
		return
	}

	if data.URN != "" {
		var urnTaken bool

		err := a.DB.Model(model.AcademicProfile{}).
			Select("count(*) > 0").
			Where("urn = ? AND user_id <> ?", data.URN, userID).
			Find(&urnTaken).
			Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to check URN uniqueness", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if urnTaken {
			c.JSON(http.StatusConflict, gin.H{
				"error":     "This URN is already registered",
				"requestID": requestID,
			})
			return
		}
	}

	var profile model.AcademicProfile

	err := a.DB.Where("user_id = ?", userID).First(&profile).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch academic profile", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		profileID, err := gonanoid.Generate(idCharset, 16)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to generate profile ID", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		profile = model.AcademicProfile{
			ID:     profileID,
			UserID: userID,
		}
	}

	profile.Institution = strings.TrimSpace(data.Institution)
	profile.Programme = strings.TrimSpace(data.Programme)
	profile.YearOfStudy = data.YearOfStudy
	profile.URN = strings.TrimSpace(data.URN)

	if err := a.DB.Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to save academic profile", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile": profile,
	})
}
