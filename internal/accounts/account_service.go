package accounts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ngocbd/coopfarm/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AccountService struct {
	userRepo    UserRepository
	sessionRepo LoginSessionRepository
}

func (s *AccountService) GetUserByID(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// Authenticate verifies credentials and returns the matching user.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWrongCredentials
	} else if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrWrongCredentials
	}
	if user.Disabled {
		return nil, ErrUserDisabled
	}
	return user, nil
}

// StartSession creates the persisted login session record and returns its
// token. The token identifies the record for subsequent touch/deactivate.
func (s *AccountService) StartSession(ctx context.Context, user *model.User, deviceInfo, ip string) (*model.LoginSession, error) {
	now := time.Now()
	session := &model.LoginSession{
		UserID:         user.ID,
		Token:          uuid.New().String(),
		DeviceInfo:     deviceInfo,
		IP:             ip,
		IsActive:       true,
		CreatedAt:      now,
		LastActivityAt: now,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// EndSession deactivates the session record. Idempotent: ending an already
// inactive or unknown session is not an error.
func (s *AccountService) EndSession(ctx context.Context, userID uint, token string, at time.Time) error {
	return s.sessionRepo.Deactivate(ctx, userID, token, at)
}

// TouchSession persists session activity; missing records are a no-op.
func (s *AccountService) TouchSession(ctx context.Context, userID uint, token string, at time.Time) error {
	return s.sessionRepo.Touch(ctx, userID, token, at)
}

// TouchUser persists the user's denormalized last-activity column.
func (s *AccountService) TouchUser(ctx context.Context, userID uint, at time.Time) error {
	return s.userRepo.UpdateLastActivity(ctx, userID, at)
}

func (s *AccountService) CountActiveSessions(ctx context.Context, userID uint) (int64, error) {
	return s.sessionRepo.CountActive(ctx, userID)
}

func NewAccountService(userRepo UserRepository, sessionRepo LoginSessionRepository) *AccountService {
	return &AccountService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
	}
}
