package model

import "time"

type AcademicProfile struct {
	ID          string `gorm:"primaryKey" json:"id"`
	UserID      string `gorm:"uniqueIndex;not null" json:"userId"`
	Institution string `json:"institution"`
	Programme   string `json:"programme"`
	YearOfStudy int    `json:"yearOfStudy"`
	// URN is the student reference number, unique across all profiles
	URN       string    `gorm:"uniqueIndex" json:"urn"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
