package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string `gorm:"primaryKey"`
	FirstName    string `gorm:"not null"`
	LastName     string `gorm:"not null"`
	Email        string `gorm:"unique;not null"`
	DOB          time.Time
	CountryCode  string `gorm:"uniqueIndex:idx_users_phone"`
	Phone        string `gorm:"uniqueIndex:idx_users_phone"`
	PasswordHash string `gorm:"not null"`

	Verified                   bool `gorm:"default:false"`
	VerificationTokenHash      *string
	VerificationTokenExpiresAt *time.Time

	LoginAttempts int `gorm:"default:0"`
	LockUntil     *time.Time

	Active    bool   `gorm:"default:true"`
	Role      string `gorm:"default:user"`
	LastLogin *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Events          []Event          `gorm:"foreignKey:UserID"`
	Grades          []Grade          `gorm:"foreignKey:UserID"`
	AcademicProfile *AcademicProfile `gorm:"foreignKey:UserID"`
}

// Locked reports whether the account is currently locked out.
// Expired locks count as unlocked, cleanup is lazy
func (u *User) Locked() bool {
	return u.LockUntil != nil && u.LockUntil.After(time.Now())
}

// Public returns the fields that are safe to send back to clients.
// Password hashes and token hashes must never leave the server
func (u *User) Public() map[string]any {
	return map[string]any{
		"id":          u.ID,
		"firstName":   u.FirstName,
		"lastName":    u.LastName,
		"email":       u.Email,
		"dob":         u.DOB,
		"countryCode": u.CountryCode,
		"phone":       u.Phone,
		"verified":    u.Verified,
		"active":      u.Active,
		"role":        u.Role,
		"lastLogin":   u.LastLogin,
		"createdAt":   u.CreatedAt,
	}
}
