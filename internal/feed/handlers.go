package feed

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ranirkini2004/Open-Hub-API/internal/backend"
	"github.com/ranirkini2004/Open-Hub-API/internal/monitor"
	"github.com/ranirkini2004/Open-Hub-API/internal/session"
)

// Handler serves the public community feed and join requests.
type Handler struct {
	store   *session.Store
	reader  backend.PublicReader
	client  *backend.Client
	monitor *monitor.Monitor
	log     *logrus.Entry
}

func NewHandler(store *session.Store, reader backend.PublicReader, client *backend.Client, mon *monitor.Monitor, log *logrus.Entry) *Handler {
	return &Handler{
		store:   store,
		reader:  reader,
		client:  client,
		monitor: mon,
		log:     log,
	}
}

// view renders the searchable project grid. The feed is public: no
// session is needed to browse. A failed read degrades to the empty state.
func (h *Handler) view(c *gin.Context) {
	ctx := c.Request.Context()
	search := c.Query("search")

	projects, err := h.reader.ListProjects(ctx, search)
	if err != nil {
		h.log.WithError(err).Error("failed to load feed")
	}

	_, loggedIn := session.Current(c)

	backendDown := false
	if h.monitor != nil {
		status, _ := h.monitor.Status()
		backendDown = status == monitor.StatusDown
	}

	c.HTML(http.StatusOK, "feed.html", gin.H{
		"LoggedIn":    loggedIn,
		"Flash":       h.store.PopFlash(ctx, session.ID(c)),
		"BackendDown": backendDown,
		"Projects":    projects,
		"Search":      search,
	})
}

// join sends a join request for a project. Unauthenticated visitors
// are prompted to log in instead of hitting the backend.
func (h *Handler) join(c *gin.Context) {
	ctx := c.Request.Context()
	sid := session.ID(c)

	sess, ok := session.Current(c)
	if !ok {
		if err := h.store.Flash(ctx, sid, "Please login first!"); err != nil {
			h.log.WithError(err).Warn("failed to store flash")
		}
		c.Redirect(http.StatusFound, "/")
		return
	}

	projectID, err := strconv.Atoi(c.PostForm("project_id"))
	if err != nil {
		h.flashAndBack(c, "Invalid project.")
		return
	}

	err = h.client.RequestJoin(ctx, sess.Token, sess.Username, projectID)
	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		session.Expire(c, h.store, h.log)
		return
	case errors.Is(err, backend.ErrConflict):
		h.flashAndBack(c, "You might have already requested to join this project.")
		return
	case err != nil:
		h.log.WithError(err).Error("join request failed")
		h.flashAndBack(c, "Error sending request. Please try again.")
		return
	}

	h.flashAndBack(c, "Request sent! The owner will be notified.")
}

func (h *Handler) flashAndBack(c *gin.Context, message string) {
	if err := h.store.Flash(c.Request.Context(), session.ID(c), message); err != nil {
		h.log.WithError(err).Warn("failed to store flash")
	}
	c.Redirect(http.StatusFound, "/feed")
}
