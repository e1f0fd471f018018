package model

import (
	"time"

	"gorm.io/gorm"
)

// User roles, ordered by privilege. Rank comparisons rely on this order.
const (
	RoleMember     = "member"
	RoleUnitLeader = "unit_leader"
	RoleZoneLeader = "zone_leader"
	RoleAdmin      = "admin"
)

var roleRanks = map[string]int{
	RoleMember:     0,
	RoleUnitLeader: 1,
	RoleZoneLeader: 2,
	RoleAdmin:      3,
}

// RoleRank returns the privilege rank of a role, -1 for unknown roles.
func RoleRank(role string) int {
	if rank, ok := roleRanks[role]; ok {
		return rank
	}
	return -1
}

// User stores a cooperative account. LastActivityAt is a denormalized copy of
// the most recent activity across all of the user's sessions; it is refreshed
// opportunistically and is not authoritative for timeout decisions.
type User struct {
	ID             uint      `gorm:"primarykey"`
	Username       string    `gorm:"uniqueIndex;size:32;not null"`
	FullName       string    `gorm:"size:64;not null"`
	Password       string    `gorm:"size:64;not null"`
	Role           string    `gorm:"size:16;not null;default:member"`
	Phone          string    `gorm:"size:16"`
	Disabled       bool      `gorm:"default:false;not null"`
	LastActivityAt time.Time `gorm:"index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == 0 {
		u.ID = GenerateID()
	}
	return nil
}
