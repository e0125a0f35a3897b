package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email     string `gorm:"uniqueIndex;not null"`
	Password  string `gorm:"not null"`
	FirstName string
	LastName  string
	Disabled  bool

	ResetToken    string
	ResetTokenExp time.Time

	// WHOOP account link; tokens are provisioned out of band
	WhoopUserID         string
	WhoopAccessToken    string
	WhoopRefreshToken   string
	WhoopTokenExpiresAt *time.Time
}
