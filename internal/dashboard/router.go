package dashboard

import (
	"github.com/gin-gonic/gin"

	"github.com/ranirkini2004/Open-Hub-API/internal/session"
)

// Register attaches the dashboard routes. Everything here requires a session.
func (h *Handler) Register(r gin.IRouter, write ...gin.HandlerFunc) {
	g := r.Group("/dashboard", session.Require())
	g.GET("", h.view)

	mut := g.Group("", write...)
	mut.POST("/import", h.importProject)
	mut.POST("/requests/:id", h.resolveRequest)
	mut.POST("/projects/:id/delete", h.deleteProject)
}
