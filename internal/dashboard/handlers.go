package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ranirkini2004/Open-Hub-API/internal/backend"
	"github.com/ranirkini2004/Open-Hub-API/internal/fetch"
	"github.com/ranirkini2004/Open-Hub-API/internal/monitor"
	"github.com/ranirkini2004/Open-Hub-API/internal/session"
	"github.com/ranirkini2004/Open-Hub-API/internal/viewstate"
)

// Handler serves the workspace: pending join requests, joined and
// owned projects, and importable GitHub repositories.
type Handler struct {
	store   *session.Store
	client  *backend.Client
	cache   *Cache
	monitor *monitor.Monitor
	log     *logrus.Entry
}

func NewHandler(store *session.Store, client *backend.Client, cache *Cache, mon *monitor.Monitor, log *logrus.Entry) *Handler {
	return &Handler{
		store:   store,
		client:  client,
		cache:   cache,
		monitor: mon,
		log:     log,
	}
}

func (h *Handler) view(c *gin.Context) {
	sess, _ := session.Current(c)
	sid := session.ID(c)
	ctx := c.Request.Context()

	snap, ok, err := h.cache.Get(ctx, sid)
	if err != nil {
		h.log.WithError(err).Warn("failed to read dashboard snapshot")
	}
	if !ok {
		snap, err = h.fetchSnapshot(ctx, sess)
		if errors.Is(err, backend.ErrUnauthorized) {
			session.Expire(c, h.store, h.log)
			return
		}
		if err := h.cache.Put(ctx, sid, snap); err != nil {
			h.log.WithError(err).Warn("failed to store dashboard snapshot")
		}
	}

	backendDown := false
	if h.monitor != nil {
		status, _ := h.monitor.Status()
		backendDown = status == monitor.StatusDown
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"LoggedIn":    true,
		"Flash":       h.store.PopFlash(ctx, sid),
		"BackendDown": backendDown,
		"Requests":    snap.Requests,
		"Joined":      snap.Joined,
		"Owned":       snap.Owned,
		"Repos":       snap.Repos,
	})
}

// fetchSnapshot issues the dashboard's four reads concurrently and
// waits for all of them to settle. A failed read leaves its section
// empty; it never blocks the others. The only error returned is
// ErrUnauthorized, which forces a logout.
func (h *Handler) fetchSnapshot(ctx context.Context, sess session.Session) (*Snapshot, error) {
	snap := &Snapshot{FetchedAt: time.Now()}

	results := fetch.All(ctx, h.log,
		fetch.Go("github_repos", func(ctx context.Context) error {
			repos, err := h.client.ListGitHubRepos(ctx, sess.Token, sess.Username)
			snap.Repos = repos
			return err
		}),
		fetch.Go("pending_requests", func(ctx context.Context) error {
			reqs, err := h.client.ListPendingRequests(ctx, sess.Token, sess.Username)
			snap.Requests = reqs
			return err
		}),
		fetch.Go("joined_projects", func(ctx context.Context) error {
			joined, err := h.client.ListJoinedProjects(ctx, sess.Token, sess.Username)
			snap.Joined = joined
			return err
		}),
		fetch.Go("owned_projects", func(ctx context.Context) error {
			owned, err := h.client.ListOwnedProjects(ctx, sess.Token, sess.Username)
			snap.Owned = owned
			return err
		}),
	)

	if err := fetch.AnyError(results); errors.Is(err, backend.ErrUnauthorized) {
		return nil, backend.ErrUnauthorized
	}

	snap.Repos = viewstate.FilterImported(snap.Repos, snap.Owned)
	return snap, nil
}

// importProject saves a GitHub repository as a project. On success the
// snapshot is patched: the project joins the owned grid and the repo
// leaves the importable list.
func (h *Handler) importProject(c *gin.Context) {
	sess, _ := session.Current(c)
	sid := session.ID(c)
	ctx := c.Request.Context()

	stars, _ := strconv.Atoi(c.PostForm("stars"))
	repo := backend.Repo{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		RepoURL:     c.PostForm("repo_url"),
		Language:    c.PostForm("language"),
		Stars:       stars,
	}
	if repo.Title == "" || repo.RepoURL == "" {
		h.flashAndBack(c, "Invalid repository data.")
		return
	}

	project, err := h.client.ImportProject(ctx, sess.Token, sess.Username, repo)
	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		session.Expire(c, h.store, h.log)
		return
	case errors.Is(err, backend.ErrConflict):
		h.flashAndBack(c, fmt.Sprintf("%q might already be imported.", repo.Title))
		return
	case err != nil:
		h.log.WithError(err).Error("import failed")
		h.flashAndBack(c, fmt.Sprintf("Error importing %q. Please try again.", repo.Title))
		return
	}

	if err := h.cache.Patch(ctx, sid, func(s *Snapshot) {
		s.Owned = viewstate.AddProject(s.Owned, *project)
		s.Repos = viewstate.RemoveRepo(s.Repos, repo.RepoURL)
	}); err != nil {
		h.log.WithError(err).Warn("failed to patch snapshot after import")
	}

	h.flashAndBack(c, fmt.Sprintf("Imported %q successfully!", repo.Title))
}

// resolveRequest accepts or rejects a pending join request. The row is
// removed from the pending list regardless of the backend outcome; a
// failure still surfaces as a flash message.
func (h *Handler) resolveRequest(c *gin.Context) {
	sess, _ := session.Current(c)
	sid := session.ID(c)
	ctx := c.Request.Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.flashAndBack(c, "Invalid request.")
		return
	}

	status := c.PostForm("status")
	if status != backend.RequestAccepted && status != backend.RequestRejected {
		h.flashAndBack(c, "Invalid request status.")
		return
	}

	resolveErr := h.client.ResolveRequest(ctx, sess.Token, id, status)

	if err := h.cache.Patch(ctx, sid, func(s *Snapshot) {
		s.Requests = viewstate.RemoveRequest(s.Requests, id)
	}); err != nil {
		h.log.WithError(err).Warn("failed to patch snapshot after resolve")
	}

	switch {
	case errors.Is(resolveErr, backend.ErrUnauthorized):
		session.Expire(c, h.store, h.log)
		return
	case resolveErr != nil:
		h.log.WithError(resolveErr).Error("resolving join request failed")
		h.flashAndBack(c, "Error updating request status.")
		return
	}

	h.flashAndBack(c, fmt.Sprintf("User %s!", status))
}

// deleteProject removes an owned project after an explicit confirmation.
func (h *Handler) deleteProject(c *gin.Context) {
	sess, _ := session.Current(c)
	sid := session.ID(c)
	ctx := c.Request.Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.flashAndBack(c, "Invalid project.")
		return
	}

	if c.PostForm("confirm") != "true" {
		h.flashAndBack(c, "Deletion requires confirmation.")
		return
	}

	err = h.client.DeleteProject(ctx, sess.Token, sess.Username, id)
	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		session.Expire(c, h.store, h.log)
		return
	case err != nil:
		h.log.WithError(err).Error("delete failed")
		h.flashAndBack(c, "Error deleting project. Please try again.")
		return
	}

	if err := h.cache.Patch(ctx, sid, func(s *Snapshot) {
		s.Owned = viewstate.RemoveProject(s.Owned, id)
	}); err != nil {
		h.log.WithError(err).Warn("failed to patch snapshot after delete")
	}

	h.flashAndBack(c, "Project deleted.")
}

func (h *Handler) flashAndBack(c *gin.Context, message string) {
	if err := h.store.Flash(c.Request.Context(), session.ID(c), message); err != nil {
		h.log.WithError(err).Warn("failed to store flash")
	}
	c.Redirect(http.StatusFound, "/dashboard")
}
