package model

import (
	"time"

	"gorm.io/gorm"
)

// Zone is a geographic subdivision of the cooperative.
type Zone struct {
	ID           uint   `gorm:"primarykey"`
	Code         string `gorm:"uniqueIndex;size:16;not null"`
	Name         string `gorm:"size:128;not null"`
	LeaderUserID uint   `gorm:"index"`
	Units        []Unit `gorm:"foreignKey:ZoneID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// Unit is a production unit inside a zone.
type Unit struct {
	ID           uint   `gorm:"primarykey"`
	ZoneID       uint   `gorm:"uniqueIndex:idx_zone_code;not null"`
	Code         string `gorm:"uniqueIndex:idx_zone_code;size:16;not null"`
	Name         string `gorm:"size:128;not null"`
	LeaderUserID uint   `gorm:"index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// Member is a cooperative member registered under a unit. Members may exist
// without a login account; UserID links the ones that have one.
type Member struct {
	ID        uint   `gorm:"primarykey"`
	UnitID    uint   `gorm:"index;not null"`
	UserID    uint   `gorm:"index"`
	FullName  string `gorm:"size:64;not null"`
	Phone     string `gorm:"size:16"`
	JoinedAt  time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// Report is a periodic production report filed by a unit.
type Report struct {
	ID           uint    `gorm:"primarykey"`
	UnitID       uint    `gorm:"uniqueIndex:idx_unit_period;not null"`
	AuthorUserID uint    `gorm:"index;not null"`
	Period       string  `gorm:"uniqueIndex:idx_unit_period;size:7;not null"` // YYYY-MM
	ProduceKg    float64 `gorm:"not null"`
	Revenue      float64 `gorm:"not null"`
	Note         string  `gorm:"size:512"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (z *Zone) BeforeCreate(tx *gorm.DB) error {
	if z.ID == 0 {
		z.ID = GenerateID()
	}
	return nil
}

func (u *Unit) BeforeCreate(tx *gorm.DB) error {
	if u.ID == 0 {
		u.ID = GenerateID()
	}
	return nil
}

func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.ID == 0 {
		m.ID = GenerateID()
	}
	return nil
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == 0 {
		r.ID = GenerateID()
	}
	return nil
}
