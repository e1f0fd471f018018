package accounts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ngocbd/coopfarm/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users        map[string]*model.User
	lastActivity map[uint]time.Time
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	repo := &fakeUserRepo{
		users:        make(map[string]*model.User),
		lastActivity: make(map[uint]time.Time),
	}
	for _, u := range users {
		repo.users[u.Username] = u
	}
	return repo
}

func (f *fakeUserRepo) GetByID(ctx context.Context, userID uint) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if u, ok := f.users[username]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if _, ok := f.users[user.Username]; ok {
		return ErrUsernameTaken
	}
	f.users[user.Username] = user
	return nil
}

func (f *fakeUserRepo) UpdateLastActivity(ctx context.Context, userID uint, at time.Time) error {
	f.lastActivity[userID] = at
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]*model.LoginSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*model.LoginSession)}
}

func (f *fakeSessionRepo) Create(ctx context.Context, session *model.LoginSession) error {
	f.sessions[session.Token] = session
	return nil
}

func (f *fakeSessionRepo) Get(ctx context.Context, userID uint, token string) (*model.LoginSession, error) {
	if s, ok := f.sessions[token]; ok && s.UserID == userID {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSessionRepo) Touch(ctx context.Context, userID uint, token string, at time.Time) error {
	if s, ok := f.sessions[token]; ok && s.UserID == userID && s.IsActive {
		s.LastActivityAt = at
	}
	return nil
}

func (f *fakeSessionRepo) Deactivate(ctx context.Context, userID uint, token string, at time.Time) error {
	if s, ok := f.sessions[token]; ok && s.UserID == userID && s.IsActive {
		s.IsActive = false
		s.LogoutAt = &at
	}
	return nil
}

func (f *fakeSessionRepo) FindExpired(ctx context.Context, cutoff time.Time, limit int) ([]*model.LoginSession, error) {
	var out []*model.LoginSession
	for _, s := range f.sessions {
		if s.IsActive && s.LastActivityAt.Before(cutoff) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) CountActive(ctx context.Context, userID uint) (int64, error) {
	var n int64
	for _, s := range f.sessions {
		if s.UserID == userID && s.IsActive {
			n++
		}
	}
	return n, nil
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(hash)
}

func TestAuthenticate(t *testing.T) {
	alice := &model.User{ID: 1, Username: "alice", Role: model.RoleZoneLeader}
	alice.Password = mustHash(t, "s3cret")
	locked := &model.User{ID: 2, Username: "bob", Disabled: true}
	locked.Password = mustHash(t, "s3cret")

	svc := NewAccountService(newFakeUserRepo(alice, locked), newFakeSessionRepo())
	ctx := context.Background()

	user, err := svc.Authenticate(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("valid credentials rejected: %v", err)
	}
	if user.ID != 1 {
		t.Fatalf("got user %d, want 1", user.ID)
	}

	if _, err := svc.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, ErrWrongCredentials) {
		t.Fatalf("wrong password: got %v, want ErrWrongCredentials", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody", "s3cret"); !errors.Is(err, ErrWrongCredentials) {
		t.Fatalf("unknown user: got %v, want ErrWrongCredentials", err)
	}
	if _, err := svc.Authenticate(ctx, "bob", "s3cret"); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("disabled user: got %v, want ErrUserDisabled", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	sessionRepo := newFakeSessionRepo()
	userRepo := newFakeUserRepo(&model.User{ID: 1, Username: "alice"})
	svc := NewAccountService(userRepo, sessionRepo)
	ctx := context.Background()

	sess, err := svc.StartSession(ctx, &model.User{ID: 1}, "Chrome on Linux", "10.0.0.5")
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if sess.Token == "" || !sess.IsActive {
		t.Fatalf("started session not usable: %+v", sess)
	}

	if n, _ := svc.CountActiveSessions(ctx, 1); n != 1 {
		t.Fatalf("active sessions = %d, want 1", n)
	}

	later := time.Now().Add(time.Minute)
	if err := svc.TouchSession(ctx, 1, sess.Token, later); err != nil {
		t.Fatalf("TouchSession failed: %v", err)
	}
	if got := sessionRepo.sessions[sess.Token].LastActivityAt; !got.Equal(later) {
		t.Fatalf("session last activity = %v, want %v", got, later)
	}

	if err := svc.TouchUser(ctx, 1, later); err != nil {
		t.Fatalf("TouchUser failed: %v", err)
	}
	if got := userRepo.lastActivity[1]; !got.Equal(later) {
		t.Fatalf("user last activity = %v, want %v", got, later)
	}

	end := later.Add(time.Minute)
	if err := svc.EndSession(ctx, 1, sess.Token, end); err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}
	stored := sessionRepo.sessions[sess.Token]
	if stored.IsActive || stored.LogoutAt == nil {
		t.Fatalf("session not deactivated: %+v", stored)
	}

	// Ending again must stay a no-op and keep the first logout stamp.
	if err := svc.EndSession(ctx, 1, sess.Token, end.Add(time.Hour)); err != nil {
		t.Fatalf("repeated EndSession failed: %v", err)
	}
	if !stored.LogoutAt.Equal(end) {
		t.Fatalf("logout stamp changed on repeat: %v", stored.LogoutAt)
	}
	if n, _ := svc.CountActiveSessions(ctx, 1); n != 0 {
		t.Fatalf("active sessions after logout = %d, want 0", n)
	}
}

func TestGetUserByID(t *testing.T) {
	svc := NewAccountService(newFakeUserRepo(&model.User{ID: 9, Username: "carol"}), newFakeSessionRepo())
	ctx := context.Background()

	user, err := svc.GetUserByID(ctx, 9)
	if err != nil || user.Username != "carol" {
		t.Fatalf("GetUserByID(9) = %v, %v", user, err)
	}
	if _, err := svc.GetUserByID(ctx, 404); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("missing user: got %v, want ErrUserNotFound", err)
	}
}
