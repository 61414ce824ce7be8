package profile

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ranirkini2004/Open-Hub-API/internal/backend"
	"github.com/ranirkini2004/Open-Hub-API/internal/session"
	"github.com/ranirkini2004/Open-Hub-API/internal/viewstate"
)

// Years offered by the year-of-study dropdown.
var Years = []string{"1st Year", "2nd Year", "3rd Year", "4th Year", "Graduated"}

// Handler serves profile pages: the user's own editable profile and
// the public view of any other user.
type Handler struct {
	store  *session.Store
	reader backend.PublicReader
	client *backend.Client
	cache  *backend.CachedReader
	log    *logrus.Entry
}

func NewHandler(store *session.Store, reader backend.PublicReader, client *backend.Client, cache *backend.CachedReader, log *logrus.Entry) *Handler {
	return &Handler{
		store:  store,
		reader: reader,
		client: client,
		cache:  cache,
		log:    log,
	}
}

// own renders the logged-in user's profile with the edit form.
func (h *Handler) own(c *gin.Context) {
	sess, _ := session.Current(c)
	h.render(c, sess.Username, true)
}

// public renders any user's profile read-only.
func (h *Handler) public(c *gin.Context) {
	username := c.Param("username")

	if sess, ok := session.Current(c); ok && sess.Username == username {
		c.Redirect(http.StatusFound, "/profile")
		return
	}

	h.render(c, username, false)
}

func (h *Handler) render(c *gin.Context, username string, editable bool) {
	ctx := c.Request.Context()
	_, loggedIn := session.Current(c)

	prof, err := h.reader.GetProfile(ctx, username)
	if err != nil {
		status := http.StatusBadGateway
		message := "Could not load this profile. Please try again."
		if errors.Is(err, backend.ErrNotFound) {
			status = http.StatusNotFound
			message = "No such user."
		} else {
			h.log.WithError(err).Error("failed to load profile")
		}
		c.HTML(status, "error.html", gin.H{
			"LoggedIn": loggedIn,
			"Message":  message,
		})
		return
	}

	h.renderProfile(c, *prof, editable, h.store.PopFlash(ctx, session.ID(c)))
}

// update saves the submitted profile fields. On success the page is
// rendered directly from the submitted values, so what the user sees
// is exactly what they saved.
func (h *Handler) update(c *gin.Context) {
	sess, _ := session.Current(c)
	ctx := c.Request.Context()

	upd := backend.ProfileUpdate{
		Bio:           c.PostForm("bio"),
		Skills:        c.PostForm("skills"),
		Linkedin:      c.PostForm("linkedin"),
		FullName:      c.PostForm("full_name"),
		Department:    c.PostForm("department"),
		Year:          c.PostForm("year"),
		DiscordHandle: c.PostForm("discord_handle"),
	}

	err := h.client.UpdateProfile(ctx, sess.Token, sess.Username, upd)
	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		session.Expire(c, h.store, h.log)
		return
	case err != nil:
		h.log.WithError(err).Error("profile update failed")
		if ferr := h.store.Flash(ctx, session.ID(c), "Error updating profile. Please try again."); ferr != nil {
			h.log.WithError(ferr).Warn("failed to store flash")
		}
		c.Redirect(http.StatusFound, "/profile")
		return
	}

	if h.cache != nil {
		h.cache.Invalidate(sess.Username)
	}

	current := backend.Profile{Username: sess.Username}
	if prof, err := h.reader.GetProfile(ctx, sess.Username); err == nil {
		current = *prof
	}

	h.renderProfile(c, viewstate.ApplyProfileUpdate(current, upd), true, "Profile updated!")
}

func (h *Handler) renderProfile(c *gin.Context, prof backend.Profile, editable bool, flash string) {
	_, loggedIn := session.Current(c)

	c.HTML(http.StatusOK, "profile.html", gin.H{
		"LoggedIn": loggedIn,
		"Flash":    flash,
		"Profile":  prof,
		"Chips":    viewstate.SkillChips(prof.Skills),
		"Editable": editable,
		"Years":    Years,
	})
}
