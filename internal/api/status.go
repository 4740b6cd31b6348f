package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// StatusResponse describes what a session has loaded.
type StatusResponse struct {
	Initialized  bool   `json:"initialized"`
	ForecastRows int    `json:"forecastRows"`
	MasterRows   int    `json:"masterRows"`
	UploadedAt   string `json:"uploadedAt,omitempty"`
}

// GetStatus reports the session's loaded datasets.
// GET /api/status?session_id=...
func (h *Handler) GetStatus(c *gin.Context) {
	sess, ok := h.sessions.Get(c.Query("session_id"))
	if !ok {
		c.JSON(http.StatusOK, StatusResponse{})
		return
	}

	resp := StatusResponse{}
	if sess.Forecast != nil {
		resp.ForecastRows = sess.Forecast.RowCount()
		resp.Initialized = true
	}
	if sess.Master != nil {
		resp.MasterRows = sess.Master.RowCount()
		resp.Initialized = true
	}
	if !sess.UploadedAt.IsZero() {
		resp.UploadedAt = sess.UploadedAt.Format("2006-01-02 15:04:05")
	}

	c.JSON(http.StatusOK, resp)
}

// PreviewResponse is the first rows of a loaded dataset.
type PreviewResponse struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Preview returns the first rows of a session's dataset.
// GET /api/preview?session_id=...&kind=forecast&limit=10
func (h *Handler) Preview(c *gin.Context) {
	fc, master := h.sessions.Datasets(c.Query("session_id"))

	d := fc
	if c.DefaultQuery("kind", kindForecast) == kindMaster {
		d = master
	}
	if d == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such dataset loaded"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	if limit > d.RowCount() {
		limit = d.RowCount()
	}

	columns := d.Columns()
	rows := make([][]string, 0, limit)
	for i := 0; i < limit; i++ {
		row := make([]string, len(columns))
		for j, key := range columns {
			row[j] = d.Value(i, key)
		}
		rows = append(rows, row)
	}

	c.JSON(http.StatusOK, PreviewResponse{Columns: columns, Rows: rows})
}
