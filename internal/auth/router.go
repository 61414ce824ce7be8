package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/ranirkini2004/Open-Hub-API/internal/session"
)

// Register attaches the entry page and login flows to the router.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/", session.RedirectIfAuthed(), h.entry)
	r.POST("/login", h.login)
	r.GET("/auth/github", h.githubLogin)
	r.GET("/auth/callback", h.githubCallback)
	r.GET("/logout", h.logout)
}
