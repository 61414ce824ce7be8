package profile

import (
	"github.com/gin-gonic/gin"

	"github.com/ranirkini2004/Open-Hub-API/internal/session"
)

// Register attaches the profile routes. Viewing another user's profile
// is public; one's own profile and edits require a session.
func (h *Handler) Register(r gin.IRouter, write ...gin.HandlerFunc) {
	r.GET("/profile", session.Require(), h.own)
	r.GET("/profile/:username", h.public)

	handlers := make([]gin.HandlerFunc, 0, len(write)+2)
	handlers = append(handlers, session.Require())
	handlers = append(handlers, write...)
	handlers = append(handlers, h.update)
	r.POST("/profile", handlers...)
}
