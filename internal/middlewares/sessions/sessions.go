package sessions

import (
	"crypto/rand"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	sessionContextKey = "session"
	sessionDataKey    = "data"
)

func init() {
	gob.Register(SessionData{})
}

// SessionData is the server-side session bag. Besides the authenticated
// principal it carries the activity-tracking state the timeout evaluator
// operates on: LastActivity is the sliding-window marker refreshed on every
// alive request; LastUserUpdate and LastSessionUpdate are independent
// write-throttle markers gating the persisted last-activity columns.
type SessionData struct {
	IP                string    // client ip address
	UserID            uint      // user id
	Role              string    // user role snapshot at login
	Token             string    // login session token
	LoginTime         time.Time // login time
	LastActivity      time.Time // last request time (sliding expiry window)
	LastUserUpdate    time.Time // last persisted user activity write
	LastSessionUpdate time.Time // last persisted session activity write
}

func (s *SessionData) IsAuthenticated() bool {
	return s.UserID != 0
}

type Session struct {
	*session.Session
	SessionData
}

// Save stages the session data to be persisted at the end of the request.
func (s *Session) Save(data ...SessionData) {
	if len(data) > 0 {
		s.SessionData = data[0]
	}
	s.Set(sessionDataKey, s.SessionData)
}

// Reset discards the stored session, rotates the session id and optionally
// installs new data. Used at login to prevent session fixation.
func (s *Session) Reset(data ...SessionData) error {
	if err := s.Session.Reset(); err != nil {
		return err
	}
	s.SessionData = SessionData{}
	if len(data) > 0 {
		s.SessionData = data[0]
	}
	s.Set(sessionDataKey, s.SessionData)
	return nil
}

func (s *Session) Destroy() error {
	s.SessionData = SessionData{}
	return s.Session.Destroy()
}

func newSession(sess *session.Session) *Session {
	data, _ := sess.Get(sessionDataKey).(SessionData)
	return &Session{
		Session:     sess,
		SessionData: data,
	}
}

func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		slog.Error("Could not generate session id", "error", err)
		return ""
	}
	return hex.EncodeToString(b)
}

func Get(ctx *fiber.Ctx) *Session {
	return ctx.Locals(sessionContextKey).(*Session)
}

// Peek returns the current session or nil when the session middleware has not
// run for this request.
func Peek(ctx *fiber.Ctx) *Session {
	sess, _ := ctx.Locals(sessionContextKey).(*Session)
	return sess
}

func Destroy(ctx *fiber.Ctx) error {
	sess := ctx.Locals(sessionContextKey).(*Session)
	return sess.Destroy()
}

type Config struct {
	Storage        fiber.Storage
	CookieMaxAge   time.Duration
	CookieSecure   bool
	CookieHttpOnly bool
	CookieName     string
}

func New(config Config) fiber.Handler {
	store := session.New(session.Config{
		Storage:        config.Storage,
		Expiration:     config.CookieMaxAge,
		CookieSecure:   config.CookieSecure,
		CookieHTTPOnly: config.CookieHttpOnly,
		KeyLookup:      fmt.Sprintf("cookie:%s", config.CookieName),
		KeyGenerator:   generateSessionID,
	})

	return func(ctx *fiber.Ctx) error {
		sess, err := store.Get(ctx)
		if err != nil {
			return err
		}

		session := newSession(sess)
		ctx.Locals(sessionContextKey, session)
		if err := ctx.Next(); err != nil {
			return err
		}

		if len(session.Keys()) > 0 {
			if data := session.SessionData; data != (SessionData{}) {
				session.Set(sessionDataKey, data)
			}
			return session.Session.Save()
		}
		return nil
	}
}
