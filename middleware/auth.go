package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"survey-server/models"
	"survey-server/services"
	"survey-server/sessions"
)

const (
	// SessionCookieName is the cookie carrying the signed session id
	SessionCookieName = "sessionid"

	sessionContextKey = "session"
)

// SessionManager loads sessions for requests and persists them back
type SessionManager struct {
	Store  sessions.Store
	Tokens *services.SessionTokenService
	TTL    time.Duration
	Secure bool
}

// NewSessionManager creates a new session manager
func NewSessionManager(store sessions.Store, tokens *services.SessionTokenService, ttl time.Duration, secure bool) *SessionManager {
	return &SessionManager{Store: store, Tokens: tokens, TTL: ttl, Secure: secure}
}

// SessionMiddleware attaches the request's session to the context. Requests
// without a valid cookie get a fresh anonymous session that is only stored
// once something is written to it.
func (m *SessionManager) SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(sessionContextKey, m.load(c))
		c.Next()
	}
}

func (m *SessionManager) load(c *gin.Context) *sessions.Session {
	cookie, err := c.Cookie(SessionCookieName)
	if err != nil || cookie == "" {
		return sessions.New(m.TTL)
	}

	id, err := m.Tokens.Parse(cookie)
	if err != nil {
		log.Printf("⚠️ Rejected session cookie from %s: %v", c.ClientIP(), err)
		return sessions.New(m.TTL)
	}

	s, err := m.Store.Get(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, sessions.ErrNotFound) {
			log.Printf("❌ Failed to load session: %v", err)
		}
		return sessions.New(m.TTL)
	}
	return s
}

// CurrentSession returns the session attached by SessionMiddleware
func CurrentSession(c *gin.Context) *sessions.Session {
	if value, ok := c.Get(sessionContextKey); ok {
		if s, ok := value.(*sessions.Session); ok {
			return s
		}
	}
	return nil
}

// Login records the principal in the session, rotates its id, stores it
// and sends the new cookie.
func (m *SessionManager) Login(c *gin.Context, s *sessions.Session, principal *services.Principal) error {
	previousID := s.Login(principal.ID, principal.Username, principal.Role, m.TTL)

	ctx := c.Request.Context()
	if err := m.Store.Save(ctx, s); err != nil {
		return err
	}
	if err := m.Store.Delete(ctx, previousID); err != nil {
		log.Printf("⚠️ Failed to drop previous session: %v", err)
	}
	return m.setCookie(c, s)
}

// Destroy removes the session from the store and expires the cookie
func (m *SessionManager) Destroy(c *gin.Context, s *sessions.Session) error {
	s.Clear()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", m.Secure, true)
	return m.Store.Delete(c.Request.Context(), s.ID)
}

func (m *SessionManager) setCookie(c *gin.Context, s *sessions.Session) error {
	value, err := m.Tokens.Sign(s)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, value, int(time.Until(s.ExpiresAt).Seconds()), "/", "", m.Secure, true)
	return nil
}

// Cleanup drops expired sessions from the store
func (m *SessionManager) Cleanup(ctx context.Context) error {
	return m.Store.Cleanup(ctx)
}

// RequireRole aborts with 401 for anonymous sessions and 403 for
// sessions holding a different role.
func RequireRole(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := CurrentSession(c)
		if s == nil || !s.IsAuthenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Authentication required",
				"message": "Please sign in",
			})
			return
		}

		if s.Role != role {
			log.Printf("❌ User %d with role %s denied access to %s", s.UserID, s.Role, c.FullPath())
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "Forbidden",
				"message": "Your role cannot access this resource",
			})
			return
		}

		c.Set("user_id", s.UserID)
		c.Set("role", string(s.Role))
		c.Next()
	}
}

// RequireAuthenticated aborts with 401 unless the session holds a principal
func RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := CurrentSession(c)
		if s == nil || !s.IsAuthenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Authentication required",
				"message": "Please sign in",
			})
			return
		}

		c.Set("user_id", s.UserID)
		c.Set("role", string(s.Role))
		c.Next()
	}
}
