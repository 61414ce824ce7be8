package session

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CookieName is the browser cookie carrying the opaque session id.
const CookieName = "och_session"

const (
	CtxSessionID = "session_id"
	CtxToken     = "session_token"
	CtxUsername  = "session_username"
)

const cookieMaxAge = 30 * 24 * 60 * 60

// Load resolves the session cookie on every request. A cookie is
// issued lazily when missing so flash messages work before login.
// Credentials end up in the gin context when the session exists.
func Load(store *Store, log *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(CookieName)
		if err != nil || strings.TrimSpace(sid) == "" {
			sid = uuid.New().String()
			c.SetCookie(CookieName, sid, cookieMaxAge, "/", "", false, true)
		}
		c.Set(CtxSessionID, sid)

		sess, ok, err := store.Get(c.Request.Context(), sid)
		if err != nil {
			log.WithError(err).Warn("failed to load session")
		}
		if ok {
			c.Set(CtxToken, sess.Token)
			c.Set(CtxUsername, sess.Username)
		}

		c.Next()
	}
}

// Require gates protected pages: without a session the request is
// redirected to the entry page before any backend call is made.
func Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxToken) == "" {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RedirectIfAuthed sends an already logged-in user straight to the
// dashboard instead of re-showing the login screen.
func RedirectIfAuthed() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxToken) != "" {
			c.Redirect(http.StatusFound, "/dashboard")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Rotate issues a fresh session id, replacing the cookie and the
// request context. Login flows call it so a new session never inherits
// state keyed under the previous id.
func Rotate(c *gin.Context) string {
	sid := uuid.New().String()
	c.SetCookie(CookieName, sid, cookieMaxAge, "/", "", false, true)
	c.Set(CtxSessionID, sid)
	return sid
}

// Expire force-logs-out a user whose token the backend rejected: the
// session is cleared and the browser is sent back to the entry page.
func Expire(c *gin.Context, store *Store, log *logrus.Entry) {
	sid := ID(c)
	ctx := c.Request.Context()
	if err := store.Clear(ctx, sid); err != nil {
		log.WithError(err).Warn("failed to clear expired session")
	}
	if err := store.Flash(ctx, sid, "Your session has expired. Please log in again."); err != nil {
		log.WithError(err).Warn("failed to store flash")
	}
	c.Redirect(http.StatusFound, "/")
	c.Abort()
}

// ID returns the session id for the request.
func ID(c *gin.Context) string {
	return c.GetString(CtxSessionID)
}

// Current returns the credentials stored for the request, if any.
func Current(c *gin.Context) (Session, bool) {
	token := c.GetString(CtxToken)
	if token == "" {
		return Session{}, false
	}
	return Session{Token: token, Username: c.GetString(CtxUsername)}, true
}
