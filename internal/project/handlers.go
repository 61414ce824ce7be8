package project

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ranirkini2004/Open-Hub-API/internal/backend"
	"github.com/ranirkini2004/Open-Hub-API/internal/session"
)

// Handler serves the public project detail page.
type Handler struct {
	store  *session.Store
	reader backend.PublicReader
	log    *logrus.Entry
}

func NewHandler(store *session.Store, reader backend.PublicReader, log *logrus.Entry) *Handler {
	return &Handler{store: store, reader: reader, log: log}
}

func (h *Handler) view(c *gin.Context) {
	ctx := c.Request.Context()
	_, loggedIn := session.Current(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusNotFound, "error.html", gin.H{
			"LoggedIn": loggedIn,
			"Message":  "That project does not exist.",
		})
		return
	}

	project, err := h.reader.GetProject(ctx, id)
	if err != nil {
		status := http.StatusBadGateway
		message := "Could not load project details. Please try again."
		if errors.Is(err, backend.ErrNotFound) {
			status = http.StatusNotFound
			message = "That project does not exist."
		} else {
			h.log.WithError(err).Error("failed to load project")
		}
		c.HTML(status, "error.html", gin.H{
			"LoggedIn": loggedIn,
			"Message":  message,
		})
		return
	}

	c.HTML(http.StatusOK, "project.html", gin.H{
		"LoggedIn": loggedIn,
		"Flash":    h.store.PopFlash(ctx, session.ID(c)),
		"Project":  project,
	})
}

// Register attaches the project detail route.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/projects/:id", h.view)
}
