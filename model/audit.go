package model

import "time"

type AuditEvent struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	UserID      uint      `gorm:"index"`                  // acting user id, zero for anonymous/system events
	EventType   string    `gorm:"size:64;not null;index"` // login, logout, session_timeout...
	Description string    `gorm:"size:512"`               // human readable context
	URL         string    `gorm:"size:512"`               // request url (optional)
	IP          string    `gorm:"size:45"`                // IPv4/IPv6
	UserAgent   string    `gorm:"size:512"`               // user agent string
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
}

func (AuditEvent) TableName() string {
	return "audit"
}
