package accounts

import (
	"context"
	"time"

	"github.com/ngocbd/coopfarm/model"
	"gorm.io/gorm"
)

// LoginSessionRepository persists login session records. All lookups and
// updates are scoped by both user id and token so a session can never touch
// records belonging to another principal.
type LoginSessionRepository interface {
	Create(ctx context.Context, session *model.LoginSession) error
	Get(ctx context.Context, userID uint, token string) (*model.LoginSession, error)
	// Touch updates last_activity_at. Missing records are a no-op, not an error.
	Touch(ctx context.Context, userID uint, token string, at time.Time) error
	// Deactivate flips is_active and stamps logout_at. Deactivating an already
	// inactive record is a no-op.
	Deactivate(ctx context.Context, userID uint, token string, at time.Time) error
	// FindExpired returns active sessions whose last activity is before cutoff.
	FindExpired(ctx context.Context, cutoff time.Time, limit int) ([]*model.LoginSession, error)
	CountActive(ctx context.Context, userID uint) (int64, error)
}

type loginSessionRepository struct {
	db *gorm.DB
}

func (r *loginSessionRepository) Create(ctx context.Context, session *model.LoginSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *loginSessionRepository) Get(ctx context.Context, userID uint, token string) (*model.LoginSession, error) {
	var session model.LoginSession
	err := r.db.WithContext(ctx).
		First(&session, "user_id = ? AND token = ?", userID, token).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *loginSessionRepository) Touch(ctx context.Context, userID uint, token string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.LoginSession{}).
		Where("user_id = ? AND token = ?", userID, token).
		Update("last_activity_at", at).Error
}

func (r *loginSessionRepository) Deactivate(ctx context.Context, userID uint, token string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.LoginSession{}).
		Where("user_id = ? AND token = ? AND is_active = ?", userID, token, true).
		Updates(map[string]interface{}{
			"is_active": false,
			"logout_at": at,
		}).Error
}

func (r *loginSessionRepository) FindExpired(ctx context.Context, cutoff time.Time, limit int) ([]*model.LoginSession, error) {
	var sessions []*model.LoginSession
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND last_activity_at < ?", true, cutoff).
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}

func (r *loginSessionRepository) CountActive(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.LoginSession{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Count(&count).Error
	return count, err
}

func NewLoginSessionRepository(db *gorm.DB) LoginSessionRepository {
	return &loginSessionRepository{db: db}
}
