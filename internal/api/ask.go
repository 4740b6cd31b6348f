package api

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/isaacbevere-gif/supplykai-chatbot/internal/dispatch"
	"github.com/isaacbevere-gif/supplykai-chatbot/internal/present"
)

const downloadTTL = 10 * time.Minute

// AskRequest is one natural language question against a session's datasets.
type AskRequest struct {
	SessionID string `json:"sessionId"`
	Question  string `json:"question"`
}

// AskResponse is the render-ready answer.
type AskResponse struct {
	SessionID   string                `json:"sessionId"`
	Kind        string                `json:"kind"`
	Reply       string                `json:"reply"`
	Table       *present.TablePayload `json:"table,omitempty"`
	Chart       *present.ChartConfig  `json:"chart,omitempty"`
	DownloadURL string                `json:"downloadUrl,omitempty"`
}

// Ask classifies the question, validates the chosen function against the
// catalogue, executes it, and renders the result. A classifier failure ends
// this request only; a dispatch failure answers "could not understand" and
// the session continues.
// POST /api/ask
func (h *Handler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is empty"})
		return
	}

	sess := h.sessions.GetOrCreate(req.SessionID)

	reply, err := h.classifier.Classify(c.Request.Context(), req.Question)
	if err != nil {
		log.Printf("classifier failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "the assistant is unavailable right now, please try again"})
		return
	}

	// The model answered directly without choosing a function.
	if reply.Call == nil {
		c.JSON(http.StatusOK, AskResponse{
			SessionID: sess.ID,
			Kind:      "message",
			Reply:     reply.Text,
		})
		return
	}

	fc, master := h.sessions.Datasets(sess.ID)
	catalog := dispatch.NewCatalog(fc, master, h.now)

	result, err := catalog.Dispatch(reply.Call.Name, reply.Call.Arguments)
	if err != nil {
		var derr *dispatch.Error
		if errors.As(err, &derr) {
			log.Printf("dispatch rejected classifier output: %v", derr)
			c.JSON(http.StatusOK, AskResponse{
				SessionID: sess.ID,
				Kind:      "unrecognized",
				Reply:     "Sorry, I could not understand that question. Try rephrasing it.",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query execution failed"})
		return
	}

	rendered := present.Render(result)
	resp := AskResponse{
		SessionID: sess.ID,
		Kind:      rendered.Kind,
		Reply:     rendered.Reply,
		Table:     rendered.Table,
		Chart:     rendered.Chart,
	}
	if rendered.Table != nil {
		token := h.downloads.put(rendered.Table, downloadTTL)
		resp.DownloadURL = "/api/export/download/" + token
	}

	c.JSON(http.StatusOK, resp)
}

// DownloadExport streams a previously rendered table as an XLSX workbook.
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	table, ok := h.downloads.get(c.Param("token"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "download expired or unknown"})
		return
	}

	buf, err := present.WriteXLSX(table)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build workbook"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="supplykai-results.xlsx"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
