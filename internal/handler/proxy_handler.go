package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hack-neuron/frontend/internal/utils"
	"github.com/hack-neuron/frontend/pkg/backend"
)

// uploadFields are the three markup/scan files a single upload consists of.
var uploadFields = []string{"doc_markup", "ai_markup", "scan"}

// ProxyHandler forwards authenticated requests to the document processing
// backend and relays its responses unchanged.
type ProxyHandler struct {
	backend     *backend.Client
	maxFileSize int64
}

// NewProxyHandler creates a new ProxyHandler. maxFileSize caps each uploaded
// file read into memory before forwarding.
func NewProxyHandler(backendClient *backend.Client, maxFileSize int64) *ProxyHandler {
	return &ProxyHandler{backend: backendClient, maxFileSize: maxFileSize}
}

// Ping handles GET /ping, a token-gated liveness check. Reaching this handler
// already proves the token was accepted.
func (h *ProxyHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ping": "pong"})
}

// Upload handles POST /upload. Each of the three files must declare
// image/png; the request fails before any backend call otherwise, so the
// backend never sees a partial set.
func (h *ProxyHandler) Upload(c *gin.Context) {
	headers := make([]*multipart.FileHeader, 0, len(uploadFields))
	for _, field := range uploadFields {
		fh, err := c.FormFile(field)
		if err != nil {
			utils.Detail(c, http.StatusBadRequest, fmt.Sprintf("Missing file %q!", field))
			return
		}
		if fh.Header.Get("Content-Type") != "image/png" {
			utils.Detail(c, http.StatusUnsupportedMediaType, "File must be .png!")
			return
		}
		headers = append(headers, fh)
	}

	files := make([]backend.File, 0, len(headers))
	for i, fh := range headers {
		content, err := h.readFile(fh)
		if err != nil {
			utils.Detail(c, http.StatusBadRequest, "Failed to read uploaded file!")
			return
		}
		files = append(files, backend.File{
			Field:       uploadFields[i],
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Content:     content,
		})
	}

	resp, err := h.backend.Upload(c.Request.Context(), files)
	if err != nil {
		log.Error().Err(err).Msg("backend upload failed")
		utils.Detail(c, http.StatusBadGateway, "Upstream unavailable!")
		return
	}
	utils.Relay(c, resp.Status, resp.ContentType, resp.Body)
}

// UploadMany handles POST /upload_many: a single zip archive forwarded to the
// backend's batch endpoint.
func (h *ProxyHandler) UploadMany(c *gin.Context) {
	fh, err := c.FormFile("archive_file")
	if err != nil {
		utils.Detail(c, http.StatusBadRequest, `Missing file "archive_file"!`)
		return
	}
	if fh.Header.Get("Content-Type") != "application/zip" {
		utils.Detail(c, http.StatusUnsupportedMediaType, "File must be .zip!")
		return
	}

	content, err := h.readFile(fh)
	if err != nil {
		utils.Detail(c, http.StatusBadRequest, "Failed to read uploaded file!")
		return
	}

	resp, err := h.backend.UploadMany(c.Request.Context(), backend.File{
		Field:       "archive_file",
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		log.Error().Err(err).Msg("backend batch upload failed")
		utils.Detail(c, http.StatusBadGateway, "Upstream unavailable!")
		return
	}
	utils.Relay(c, resp.Status, resp.ContentType, resp.Body)
}

// GetStatus handles GET /get_status, forwarding the job id query.
func (h *ProxyHandler) GetStatus(c *gin.Context) {
	id := c.Query("id_")
	if id == "" {
		utils.Detail(c, http.StatusBadRequest, `Query parameter "id_" is required!`)
		return
	}

	resp, err := h.backend.GetStatus(c.Request.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("backend status query failed")
		utils.Detail(c, http.StatusBadGateway, "Upstream unavailable!")
		return
	}
	utils.Relay(c, resp.Status, resp.ContentType, resp.Body)
}

// readFile loads an uploaded file fully into memory, bounded by maxFileSize.
// A mid-transfer failure fails the whole request; nothing partial is
// forwarded.
func (h *ProxyHandler) readFile(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > h.maxFileSize {
		return nil, fmt.Errorf("file %s exceeds %d bytes", fh.Filename, h.maxFileSize)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, h.maxFileSize))
}
