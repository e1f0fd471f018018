package coop

import (
	"context"

	"github.com/ngocbd/coopfarm/model"
	"gorm.io/gorm"
)

type ZoneRepository interface {
	Find(ctx context.Context) ([]*model.Zone, error)
	GetByID(ctx context.Context, zoneID uint) (*model.Zone, error)
	Create(ctx context.Context, zone *model.Zone) error
	Updates(ctx context.Context, zoneID uint, columns map[string]interface{}) error
	Delete(ctx context.Context, zoneID uint) error
	Count(ctx context.Context) (int64, error)
}

type zoneRepository struct {
	db *gorm.DB
}

func (r *zoneRepository) Find(ctx context.Context) ([]*model.Zone, error) {
	var zones []*model.Zone
	err := r.db.WithContext(ctx).Order("code").Find(&zones).Error
	return zones, err
}

func (r *zoneRepository) GetByID(ctx context.Context, zoneID uint) (*model.Zone, error) {
	var zone model.Zone
	if err := r.db.WithContext(ctx).First(&zone, "id = ?", zoneID).Error; err != nil {
		return nil, err
	}
	return &zone, nil
}

func (r *zoneRepository) Create(ctx context.Context, zone *model.Zone) error {
	return r.db.WithContext(ctx).Create(zone).Error
}

func (r *zoneRepository) Updates(ctx context.Context, zoneID uint, columns map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Zone{}).
		Where("id = ?", zoneID).Updates(columns).Error
}

func (r *zoneRepository) Delete(ctx context.Context, zoneID uint) error {
	return r.db.WithContext(ctx).Delete(&model.Zone{}, "id = ?", zoneID).Error
}

func (r *zoneRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Zone{}).Count(&count).Error
	return count, err
}

func NewZoneRepository(db *gorm.DB) ZoneRepository {
	return &zoneRepository{db: db}
}
