package coop

import (
	"context"

	"github.com/ngocbd/coopfarm/model"
	"gorm.io/gorm"
)

type UnitRepository interface {
	Find(ctx context.Context, zoneID uint) ([]*model.Unit, error)
	GetByID(ctx context.Context, unitID uint) (*model.Unit, error)
	Create(ctx context.Context, unit *model.Unit) error
	Updates(ctx context.Context, unitID uint, columns map[string]interface{}) error
	Delete(ctx context.Context, unitID uint) error
	Count(ctx context.Context) (int64, error)
}

type unitRepository struct {
	db *gorm.DB
}

// Find lists units, optionally scoped to one zone (zoneID 0 means all).
func (r *unitRepository) Find(ctx context.Context, zoneID uint) ([]*model.Unit, error) {
	var units []*model.Unit
	query := r.db.WithContext(ctx).Order("code")
	if zoneID != 0 {
		query = query.Where("zone_id = ?", zoneID)
	}
	err := query.Find(&units).Error
	return units, err
}

func (r *unitRepository) GetByID(ctx context.Context, unitID uint) (*model.Unit, error) {
	var unit model.Unit
	if err := r.db.WithContext(ctx).First(&unit, "id = ?", unitID).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *unitRepository) Create(ctx context.Context, unit *model.Unit) error {
	return r.db.WithContext(ctx).Create(unit).Error
}

func (r *unitRepository) Updates(ctx context.Context, unitID uint, columns map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Unit{}).
		Where("id = ?", unitID).Updates(columns).Error
}

func (r *unitRepository) Delete(ctx context.Context, unitID uint) error {
	return r.db.WithContext(ctx).Delete(&model.Unit{}, "id = ?", unitID).Error
}

func (r *unitRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Unit{}).Count(&count).Error
	return count, err
}

func NewUnitRepository(db *gorm.DB) UnitRepository {
	return &unitRepository{db: db}
}
