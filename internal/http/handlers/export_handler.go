// Interaction export HTTP handlers.
//
// Two dataset export formats are offered for offline analysis and model
// bootstrapping:
//   - GET /api/interactions/export       (CSV attachment)
//   - GET /api/interactions/export-json  (JSON array)
//
// Both share the same flat row shape; CSV carries a header row and is served
// as a download with a dated filename.
package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dperalta/go-recsys-backend/internal/http/middleware"
)

var exportHeader = []string{"user_id", "item_id", "rating", "interaction_type", "created_at"}

// ExportCSV godoc
// @ID          exportInteractionsCSV
// @Summary     Export interactions as CSV
// @Description Streams the full interaction dataset as a CSV attachment. The first row is a header.
// @Tags        Export
// @Produce     text/csv
//
// @Success     200  {string}  string "CSV body"
// @Failure     500  {object}  handlers.ErrorResponse "Export failed"
// @Router      /api/interactions/export [get]
func (h *Handlers) ExportCSV(c *gin.Context) {
	rows, err := h.interactions.Export(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeExportFailed, "could not export interactions")
		return
	}

	filename := fmt.Sprintf("interactions_%s.csv", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write(exportHeader)
	for _, r := range rows {
		_ = w.Write([]string{
			r.UserID,
			strconv.FormatUint(uint64(r.ItemID), 10),
			strconv.Itoa(r.Rating),
			r.InteractionType,
			r.CreatedAt,
		})
	}
	w.Flush()
	// The status line is already on the wire, so a mid-stream failure can only
	// be logged; the client sees a truncated download.
	if err := w.Error(); err != nil {
		middleware.LoggerFrom(c).Error().Err(err).Int("rows", len(rows)).Msg("csv export write failed")
	}
}

// ExportJSON godoc
// @ID          exportInteractionsJSON
// @Summary     Export interactions as JSON
// @Description Returns the full interaction dataset as a JSON array of flat rows.
// @Tags        Export
// @Produce     json
//
// @Success     200  {object}  map[string]any
// @Failure     500  {object}  handlers.ErrorResponse "Export failed"
// @Router      /api/interactions/export-json [get]
func (h *Handlers) ExportJSON(c *gin.Context) {
	rows, err := h.interactions.Export(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeExportFailed, "could not export interactions")
		return
	}
	ok(c, http.StatusOK, gin.H{"count": len(rows), "interactions": rows})
}
