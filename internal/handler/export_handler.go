package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"glrfill/internal/domain"
	"glrfill/internal/export"
)

// ExportRequest is the body of POST /api/v1/fields/export.
type ExportRequest struct {
	Fields domain.FieldMapping `json:"fields" binding:"required"`
}

// ExportHandler exports a field mapping as a spreadsheet.
type ExportHandler struct {
	now func() time.Time
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler() *ExportHandler {
	return &ExportHandler{now: time.Now}
}

// Export handles POST /api/v1/fields/export?format=csv|xlsx
func (h *ExportHandler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		HandleError(c, err)
		return
	}

	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, req.Fields); err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.BuildFilename(format, h.now())))
	c.Data(http.StatusOK, export.ContentType(format), buf.Bytes())
}
