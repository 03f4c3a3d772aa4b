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
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

type signupBody struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	DOB         string `json:"dob"`
	CountryCode string `json:"countryCode"`
	Phone       string `json:"phone"`
	Password    string `json:"password"`
}

// Signup registers a new account and mails a verification link. A
// pending (unverified) account for the same email gets overwritten with
// the fresh credentials, a verified one is a conflict. The row write
// and the mail send share one transaction so a failed send leaves no
// unreachable half-registered account behind
func (a *API) Signup(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data signupBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	data.Email = validators.NormalizeEmail(data.Email)

	dob, err := a.validateSignup(&data)
	if err != nil {
		zap.L().Debug("Invalid signup payload", zap.Error(err), zap.String("requestID", requestID))

		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	var existing model.User

	r := a.DB.Where("email = ?", data.Email).First(&existing)
	if r.Error != nil && !errors.Is(r.Error, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check if user is registered", zap.Error(r.Error), zap.String("requestID", requestID))
		return
	}

	if r.Error == nil && existing.Verified {
		c.JSON(http.StatusConflict, gin.H{
			"error":     "This email is already registered. Please login or use a different email",
			"requestID": requestID,
		})
		return
	}

	// Phone pairs are unique too. Exclude the pending row we may be
	// about to overwrite
	var phoneTaken bool

	err = a.DB.Model(model.User{}).
		Select("count(*) > 0").
		Where("country_code = ? AND phone = ? AND email <> ?", data.CountryCode, data.Phone, data.Email).
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

	hash, err := a.Argon.GenerateFromPassword(data.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	verifToken, err := security.MakeVerificationToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate verification token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err = a.DB.Transaction(func(tx *gorm.DB) error {
		if r.Error == nil {
			// Re-signup before verifying: overwrite credentials and
			// profile, reissue the token. The old token hash is gone
			// after this, so the previous mail link stops working
			err := tx.Model(model.User{}).
				Where("id = ? AND verified = ?", existing.ID, false).
				Updates(map[string]any{
					"first_name":                    data.FirstName,
					"last_name":                     data.LastName,
					"dob":                           dob,
					"country_code":                  data.CountryCode,
					"phone":                         data.Phone,
					"password_hash":                 hash,
					"verification_token_hash":       verifToken.Hash,
					"verification_token_expires_at": verifToken.ExpiresAt,
				}).Error
			if err != nil {
				return err
			}
		} else {
			userID, err := gonanoid.Generate(idCharset, 16)
			if err != nil {
				return err
			}

			err = tx.Create(&model.User{
				ID:                         userID,
				FirstName:                  data.FirstName,
				LastName:                   data.LastName,
				Email:                      data.Email,
				DOB:                        dob,
				CountryCode:                data.CountryCode,
				Phone:                      data.Phone,
				PasswordHash:               hash,
				VerificationTokenHash:      &verifToken.Hash,
				VerificationTokenExpiresAt: &verifToken.ExpiresAt,
				Active:                     true,
				Role:                       model.RoleUser,
			}).Error
			if err != nil {
				return err
			}
		}

		// Returning the mail error rolls the write back
		return service.SendVerificationMail(a.Mailer, data.Email, verifToken.Plaintext)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to register user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Account created. Please check your email to verify your account",
		"requestID": requestID,
	})
}

func (a *API) validateSignup(data *signupBody) (time.Time, error) {
	if err := validators.NameValidator(data.FirstName, data.LastName); err != nil {
		return time.Time{}, err
	}

	if err := validators.EmailValidator(data.Email); err != nil {
		return time.Time{}, err
	}

	if err := validators.CountryCodeValidator(data.CountryCode); err != nil {
		return time.Time{}, err
	}

	if err := validators.PhoneValidator(data.Phone); err != nil {
		return time.Time{}, err
	}

	if err := validators.PasswordValidator(data.Password); err != nil {
		return time.Time{}, err
	}

	return validators.DOBValidator(data.DOB)
}
