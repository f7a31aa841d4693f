package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"glrfill/internal/domain"
	"glrfill/internal/service"
)

const (
	templateField = "template"
	reportsField  = "reports"
)

// multipartOverhead is parse memory allowed beyond the body limit for part
// headers and form values.
const multipartOverhead = 1 << 20

// FillHandler handles the fill pipeline endpoints.
type FillHandler struct {
	fillService     service.FillService
	maxBytes        int64
	maxRequestBytes int64
}

// NewFillHandler creates a new FillHandler. maxBytes limits each uploaded
// file and maxRequestBytes the whole request body.
func NewFillHandler(fillService service.FillService, maxBytes, maxRequestBytes int64) *FillHandler {
	return &FillHandler{fillService: fillService, maxBytes: maxBytes, maxRequestBytes: maxRequestBytes}
}

// Fill handles POST /api/v1/fill
// It returns the field mapping and the filled document (base64) as JSON.
func (h *FillHandler) Fill(c *gin.Context) {
	result, ok := h.run(c)
	if !ok {
		return
	}
	RespondOK(c, result)
}

// Download handles POST /api/v1/fill/download
// It streams the filled document as an attachment.
func (h *FillHandler) Download(c *gin.Context) {
	result, ok := h.run(c)
	if !ok {
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.FileName))
	c.Header("X-Field-Count", strconv.Itoa(len(result.Fields)))
	c.Data(http.StatusOK, domain.DocxContentType, result.Document)
}

func (h *FillHandler) run(c *gin.Context) (*domain.FillResult, bool) {
	input, err := h.readInput(c)
	if err != nil {
		HandleError(c, err)
		return nil, false
	}

	result, err := h.fillService.Run(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return nil, false
	}
	return result, true
}

// readInput collects the multipart uploads. A request without a multipart
// body yields an empty input so the service reports the missing template.
// The body is capped at maxRequestBytes and parsed entirely in memory.
func (h *FillHandler) readInput(c *gin.Context) (service.FillInput, error) {
	var input service.FillInput

	if h.maxRequestBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxRequestBytes)
	}
	if err := c.Request.ParseMultipartForm(h.maxRequestBytes + multipartOverhead); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return input, nil
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || errors.Is(err, multipart.ErrMessageTooLarge) {
			return input, fmt.Errorf("%w: request body exceeds %d bytes", domain.ErrFileTooLarge, h.maxRequestBytes)
		}
		return input, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	form := c.Request.MultipartForm
	defer func() { _ = form.RemoveAll() }()

	if headers := form.File[templateField]; len(headers) > 0 {
		up, err := h.readFile(headers[0])
		if err != nil {
			return input, err
		}
		input.Template = &up
	}
	for _, fh := range form.File[reportsField] {
		up, err := h.readFile(fh)
		if err != nil {
			return input, err
		}
		input.Reports = append(input.Reports, up)
	}
	return input, nil
}

func (h *FillHandler) readFile(fh *multipart.FileHeader) (domain.Upload, error) {
	if h.maxBytes > 0 && fh.Size > h.maxBytes {
		return domain.Upload{}, fmt.Errorf("%w: %q is %d bytes", domain.ErrFileTooLarge, fh.Filename, fh.Size)
	}
	f, err := fh.Open()
	if err != nil {
		return domain.Upload{}, fmt.Errorf("opening %q: %w", fh.Filename, err)
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, f); err != nil {
		return domain.Upload{}, fmt.Errorf("reading %q: %w", fh.Filename, err)
	}
	return domain.Upload{Name: fh.Filename, Data: buf.Bytes()}, nil
}
