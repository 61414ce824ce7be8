package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"

	"github.com/ranirkini2004/Open-Hub-API/internal/backend"
	"github.com/ranirkini2004/Open-Hub-API/internal/monitor"
	"github.com/ranirkini2004/Open-Hub-API/internal/session"
)

// SnapshotDropper discards view state cached under a session id.
type SnapshotDropper interface {
	Drop(ctx context.Context, sid string) error
}

// Handler serves the entry page and the login/logout flows.
type Handler struct {
	store     *session.Store
	client    *backend.Client
	oauth     *oauth2.Config
	snapshots SnapshotDropper
	monitor   *monitor.Monitor
	log       *logrus.Entry
}

// NewHandler creates the auth handler. The oauth config only builds
// the GitHub authorize URL; the code exchange is delegated to the backend.
func NewHandler(store *session.Store, client *backend.Client, clientID, redirectURL string, snapshots SnapshotDropper, mon *monitor.Monitor, log *logrus.Entry) *Handler {
	return &Handler{
		store:     store,
		client:    client,
		snapshots: snapshots,
		oauth: &oauth2.Config{
			ClientID:    clientID,
			RedirectURL: redirectURL,
			Scopes:      []string{"read:user"},
			Endpoint:    githuboauth.Endpoint,
		},
		monitor: mon,
		log:     log,
	}
}

// entry renders the login screen. Logged-in users never reach it: the
// RedirectIfAuthed middleware sends them to the dashboard first.
func (h *Handler) entry(c *gin.Context) {
	backendDown := false
	if h.monitor != nil {
		status, _ := h.monitor.Status()
		backendDown = status == monitor.StatusDown
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"LoggedIn":    false,
		"Flash":       h.store.PopFlash(c.Request.Context(), session.ID(c)),
		"BackendDown": backendDown,
	})
}

// githubLogin redirects the browser to the GitHub authorize URL with a
// fresh state nonce.
func (h *Handler) githubLogin(c *gin.Context) {
	state := uuid.New().String()
	if err := h.store.PutOAuthState(c.Request.Context(), state); err != nil {
		h.log.WithError(err).Error("failed to store oauth state")
		h.flashAndRedirect(c, "Login is temporarily unavailable. Please try again.", "/")
		return
	}

	c.Redirect(http.StatusFound, h.oauth.AuthCodeURL(state))
}

// githubCallback completes the OAuth flow: verify state, exchange the
// code via the backend, store the session, land on the dashboard.
func (h *Handler) githubCallback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")

	if code == "" || !h.store.TakeOAuthState(c.Request.Context(), state) {
		h.flashAndRedirect(c, "Login failed. Please try again.", "/")
		return
	}

	creds, err := h.client.ExchangeGitHubCode(c.Request.Context(), code)
	if err != nil {
		h.log.WithError(err).Error("github code exchange failed")
		h.flashAndRedirect(c, "Login failed. Please try again.", "/")
		return
	}

	h.startSession(c, creds)
}

// login performs a credential login against the backend token endpoint.
func (h *Handler) login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	if username == "" || password == "" {
		h.flashAndRedirect(c, "Username and password are required.", "/")
		return
	}

	creds, err := h.client.PasswordLogin(c.Request.Context(), username, password)
	if err != nil {
		h.log.WithError(err).Warn("password login failed")
		h.flashAndRedirect(c, "Login failed. Check your credentials.", "/")
		return
	}

	h.startSession(c, creds)
}

// logout clears the session, discards the cached dashboard snapshot,
// and returns to the entry page.
func (h *Handler) logout(c *gin.Context) {
	sid := session.ID(c)
	ctx := c.Request.Context()
	if err := h.store.Clear(ctx, sid); err != nil {
		h.log.WithError(err).Warn("failed to clear session")
	}
	h.dropSnapshot(ctx, sid)
	c.Redirect(http.StatusFound, "/")
}

// startSession rotates the session id before storing credentials so a
// fresh login never sees state cached under the previous cookie.
func (h *Handler) startSession(c *gin.Context, creds backend.Credentials) {
	ctx := c.Request.Context()

	prev := session.ID(c)
	sid := session.Rotate(c)
	if prev != "" {
		if err := h.store.Clear(ctx, prev); err != nil {
			h.log.WithError(err).Warn("failed to clear previous session")
		}
		h.dropSnapshot(ctx, prev)
	}

	sess := session.Session{Token: creds.AccessToken, Username: creds.Username}
	if err := h.store.Set(ctx, sid, sess); err != nil {
		h.log.WithError(err).Error("failed to persist session")
		h.flashAndRedirect(c, "Login failed. Please try again.", "/")
		return
	}

	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *Handler) dropSnapshot(ctx context.Context, sid string) {
	if h.snapshots == nil {
		return
	}
	if err := h.snapshots.Drop(ctx, sid); err != nil {
		h.log.WithError(err).Warn("failed to drop dashboard snapshot")
	}
}

func (h *Handler) flashAndRedirect(c *gin.Context, message, location string) {
	if err := h.store.Flash(c.Request.Context(), session.ID(c), message); err != nil {
		h.log.WithError(err).Warn("failed to store flash")
	}
	c.Redirect(http.StatusFound, location)
}
