// Package api exposes the HTTP surface: spreadsheet upload, the ask
// endpoint, previews, and result downloads.
package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/isaacbevere-gif/supplykai-chatbot/internal/classifier"
	"github.com/isaacbevere-gif/supplykai-chatbot/internal/session"
)

// Handler carries the API dependencies.
type Handler struct {
	sessions   *session.Store
	classifier classifier.Classifier
	downloads  *downloadStore
	now        func() time.Time
}

// NewHandler creates the API handler.
func NewHandler(sessions *session.Store, cls classifier.Classifier) *Handler {
	return &Handler{
		sessions:   sessions,
		classifier: cls,
		downloads:  newDownloadStore(),
		now:        time.Now,
	}
}

// RegisterRoutes registers the API routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// Dataset lifecycle
	router.POST("/upload", h.Upload)
	router.GET("/status", h.GetStatus)
	router.GET("/preview", h.Preview)

	// Question answering
	router.POST("/ask", h.Ask)

	// Result export
	router.GET("/export/download/:token", h.DownloadExport)
}
