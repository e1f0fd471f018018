package coop

import (
	"context"

	"github.com/ngocbd/coopfarm/model"
	"gorm.io/gorm"
)

type MemberRepository interface {
	Find(ctx context.Context, unitID uint) ([]*model.Member, error)
	GetByID(ctx context.Context, memberID uint) (*model.Member, error)
	Create(ctx context.Context, member *model.Member) error
	Updates(ctx context.Context, memberID uint, columns map[string]interface{}) error
	Delete(ctx context.Context, memberID uint) error
	Count(ctx context.Context) (int64, error)
}

type memberRepository struct {
	db *gorm.DB
}

// Find lists members, optionally scoped to one unit (unitID 0 means all).
func (r *memberRepository) Find(ctx context.Context, unitID uint) ([]*model.Member, error) {
	var members []*model.Member
	query := r.db.WithContext(ctx).Order("full_name")
	if unitID != 0 {
		query = query.Where("unit_id = ?", unitID)
	}
	err := query.Find(&members).Error
	return members, err
}

func (r *memberRepository) GetByID(ctx context.Context, memberID uint) (*model.Member, error) {
	var member model.Member
	if err := r.db.WithContext(ctx).First(&member, "id = ?", memberID).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) Create(ctx context.Context, member *model.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *memberRepository) Updates(ctx context.Context, memberID uint, columns map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Member{}).
		Where("id = ?", memberID).Updates(columns).Error
}

func (r *memberRepository) Delete(ctx context.Context, memberID uint) error {
	return r.db.WithContext(ctx).Delete(&model.Member{}, "id = ?", memberID).Error
}

func (r *memberRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Member{}).Count(&count).Error
	return count, err
}

func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}
