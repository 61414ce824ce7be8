package feed

import "github.com/gin-gonic/gin"

// Register attaches the community feed routes.
func (h *Handler) Register(r gin.IRouter, write ...gin.HandlerFunc) {
	r.GET("/feed", h.view)

	handlers := make([]gin.HandlerFunc, 0, len(write)+1)
	handlers = append(handlers, write...)
	handlers = append(handlers, h.join)
	r.POST("/feed/join", handlers...)
}
