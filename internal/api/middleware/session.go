package middleware

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ishanKurnal/WanderLust/internal/auth"
	"github.com/ishanKurnal/WanderLust/internal/config"
	"github.com/ishanKurnal/WanderLust/internal/sessions"
)

const (
	// ContextKeySession holds the visitor's *sessions.Session.
	ContextKeySession        = "session"
	contextKeySessionManager = "sessionManager"
)

// SessionManager loads the visitor's session before the handlers run and
// persists it afterwards. The cookie only carries the signed session id.
type SessionManager struct {
	store      sessions.Store
	secret     string
	ttl        time.Duration
	cookieName string
	secure     bool
}

// NewSessionManager creates a SessionManager from the session settings in cfg.
func NewSessionManager(store sessions.Store, cfg *config.Config) *SessionManager {
	return &SessionManager{
		store:      store,
		secret:     cfg.SessionSecret,
		ttl:        cfg.SessionTTL,
		cookieName: cfg.SessionCookieName,
		secure:     cfg.SecureCookies,
	}
}

// Middleware attaches the session to the request and saves it once the
// handlers are done. The cookie is refreshed up front because redirects
// write headers before the chain unwinds.
func (m *SessionManager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := m.load(c)
		c.Set(ContextKeySession, sess)
		c.Set(contextKeySessionManager, m)
		m.writeCookie(c, sess)

		c.Next()

		m.persist(c.Request.Context(), sess)
	}
}

func (m *SessionManager) load(c *gin.Context) *sessions.Session {
	raw, err := c.Cookie(m.cookieName)
	if err != nil || raw == "" {
		return sessions.New()
	}
	id, err := auth.ParseSessionID(raw, m.secret)
	if err != nil {
		return sessions.New()
	}
	data, err := m.store.Load(c.Request.Context(), id)
	if err != nil {
		log.Printf("Session load failed, starting a fresh session: %v", err)
		return sessions.New()
	}
	if data == nil {
		return sessions.Restore(id, sessions.Data{})
	}
	return sessions.Restore(id, *data)
}

func (m *SessionManager) persist(ctx context.Context, sess *sessions.Session) {
	if prev := sess.PreviousID(); prev != "" {
		if err := m.store.Delete(ctx, prev); err != nil {
			log.Printf("Failed to drop rotated session: %v", err)
		}
	}
	if !sess.IsDirty() {
		return
	}
	if err := m.store.Save(ctx, sess.ID(), sess.Data(), m.ttl); err != nil {
		log.Printf("Failed to save session: %v", err)
		return
	}
	sess.MarkClean()
}

func (m *SessionManager) writeCookie(c *gin.Context, sess *sessions.Session) {
	token, err := auth.SignSessionID(sess.ID(), m.secret, m.ttl)
	if err != nil {
		log.Printf("Failed to sign session cookie: %v", err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, token, int(m.ttl.Seconds()), "/", "", m.secure, true)
}

// Session returns the visitor's session, or nil outside the session middleware.
func Session(c *gin.Context) *sessions.Session {
	if v, ok := c.Get(ContextKeySession); ok {
		if sess, ok := v.(*sessions.Session); ok {
			return sess
		}
	}
	return nil
}

// RenewSession moves the session to a fresh id and sends the new cookie.
// Called whenever the signed-in identity changes.
func RenewSession(c *gin.Context) {
	sess := Session(c)
	if sess == nil {
		return
	}
	sess.Rotate()
	if v, ok := c.Get(contextKeySessionManager); ok {
		v.(*SessionManager).writeCookie(c, sess)
	}
}
