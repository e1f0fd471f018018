package model

import (
	"time"

	"gorm.io/gorm"
)

// LoginSession is the persisted record of one login. Rows are never deleted;
// a logout or detected timeout flips IsActive and stamps LogoutAt. At most one
// row per (UserID, Token) pair is active at any time.
type LoginSession struct {
	ID             uint      `gorm:"primarykey"`
	UserID         uint      `gorm:"uniqueIndex:idx_user_token;not null"`
	Token          string    `gorm:"uniqueIndex:idx_user_token;size:64;not null"`
	DeviceInfo     string    `gorm:"size:128"`
	IP             string    `gorm:"size:45"`
	IsActive       bool      `gorm:"index;default:true;not null"`
	CreatedAt      time.Time
	LastActivityAt time.Time `gorm:"index"`
	LogoutAt       *time.Time
}

func (LoginSession) TableName() string {
	return "login_session"
}

func (s *LoginSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == 0 {
		s.ID = GenerateID()
	}
	return nil
}
