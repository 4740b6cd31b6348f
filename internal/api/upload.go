package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/isaacbevere-gif/supplykai-chatbot/internal/dataset"
)

// Dataset kinds accepted by the upload endpoint.
const (
	kindForecast = "forecast"
	kindMaster   = "master"
)

// UploadResponse reports a completed ingestion.
type UploadResponse struct {
	SessionID string   `json:"sessionId"`
	Kind      string   `json:"kind"`
	Rows      int      `json:"rows"`
	Columns   []string `json:"columns"`
}

// Upload ingests one spreadsheet into the session. A failed ingestion
// leaves the previously loaded dataset untouched.
// POST /api/upload  (multipart: file, kind, session_id)
func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file in upload form"})
		return
	}

	kind := c.DefaultPostForm("kind", kindForecast)
	if kind != kindForecast && kind != kindMaster {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown dataset kind %q", kind)})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot open uploaded file"})
		return
	}
	defer file.Close()

	d, err := dataset.Load(file, fileHeader.Filename)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fmt.Sprintf("failed to read %s: %v", fileHeader.Filename, err)})
		return
	}

	sess := h.sessions.GetOrCreate(c.PostForm("session_id"))
	if kind == kindMaster {
		h.sessions.SetMaster(sess.ID, d)
	} else {
		h.sessions.SetForecast(sess.ID, d)
	}

	c.JSON(http.StatusOK, UploadResponse{
		SessionID: sess.ID,
		Kind:      kind,
		Rows:      d.RowCount(),
		Columns:   d.Columns(),
	})
}
