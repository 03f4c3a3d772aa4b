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

// ProfileFetch returns the public profile of any user
func (a *API) ProfileFetch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var user model.User

	err := a.DB.Where("id = ?", c.Param("id")).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "User not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user.Public(),
	})
}

type profileUpdateBody struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Phone       *string `json:"phone"`
	CountryCode *string `json:"countryCode"`
}

// ProfileUpdate updates the mutable profile fields. Users can only
// edit themselves, admins can edit anyone
func (a *API) ProfileUpdate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	caller := c.MustGet("user").(*model.User)
	targetID := c.Param("id")

	if caller.ID != targetID && caller.Role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{
			"error":     "You can only edit your own profile",
			"requestID": requestID,
		})
		return
	}

	var data profileUpdateBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	var target model.User

	err := a.DB.Where("id = ?", targetID).First(&target).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "User not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	updates := map[string]any{}

	if data.FirstName != nil || data.LastName != nil {
		first, last := target.FirstName, target.LastName
		if data.FirstName != nil {
			first = *data.FirstName
		}
		if data.LastName != nil {
			last = *data.LastName
		}

		if err := validators.NameValidator(first, last); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
			return
		}

		updates["first_name"] = first
		updates["last_name"] = last
	}

	if data.Phone != nil || data.CountryCode != nil {
		phone, cc := target.Phone, target.CountryCode
		if data.Phone != nil {
			phone = *data.Phone
		}
		if data.CountryCode != nil {
			cc = *data.CountryCode
		}

		if err := validators.CountryCodeValidator(cc); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
			return
		}

		if err := validators.PhoneValidator(phone); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
			return
		}

		var phoneTaken bool

		err := a.DB.Model(model.User{}).
			Select("count(*) > 0").
			Where("country_code = ? AND phone = ? AND id <> ?", cc, phone, targetID).
			Find(&phoneTaken).
			Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to check phone uniqueness", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if phoneTaken {
			c.JSON(http.StatusConflict, gin.H{
				"error":     "This phone number is already registered",
				"requestID": requestID,
			})
			return
		}

		updates["phone"] = phone
		updates["country_code"] = cc
	}

	if len(updates) > 0 {
		err = a.DB.Model(model.User{}).Where("id = ?", targetID).Updates(updates).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to update profile", zap.Error(err), zap.String("requestID", requestID))
			return
		}
	}

	err = a.DB.Where("id = ?", targetID).First(&target).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to reload profile", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": target.Public(),
	})
}
