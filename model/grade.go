package model

import "time"

type Grade struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	UserID     string    `gorm:"index;not null" json:"userId"`
	Course     string    `gorm:"not null" json:"course"`
	Assessment string    `json:"assessment"`
	Score      float64   `json:"score"`
	MaxScore   float64   `json:"maxScore"`
	Weight     float64   `json:"weight"`
	Term       string    `json:"term"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
