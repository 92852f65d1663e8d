// Package upload exposes the generic admin file endpoint used by the blog
// editor for inline images and attachments. PDF documents have their own
// module; this one covers everything else.
package upload

import (
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/habarupress/core/internal/modules/content/pdf"
	"github.com/habarupress/core/internal/pkg/response"
)

type Handler struct {
	blobs        pdf.Blobs
	maxSize      int64
	imageFormats []string
}

func NewHandler(blobs pdf.Blobs, maxSizeMB int, imageFormats []string) *Handler {
	return &Handler{
		blobs:        blobs,
		maxSize:      int64(maxSizeMB) * 1024 * 1024,
		imageFormats: imageFormats,
	}
}

// RegisterRoutes mounts file routes onto the given router group. All of
// them are admin-only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminMW ...gin.HandlerFunc) {
	g := rg.Group("/files", adminMW...)
	g.POST("/upload", h.upload)
	g.DELETE("", h.delete)
}

// upload POST /files/upload  [admin, multipart]
// type=image (default) validates the extension against the allowed image
// formats; type=file accepts anything under the size limit.
func (h *Handler) upload(c *gin.Context) {
	if h.blobs == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"message": "object storage is not configured"})
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	if h.maxSize > 0 && fh.Size > h.maxSize {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"message": "file exceeds the upload size limit"})
		return
	}

	kind := strings.ToLower(c.DefaultPostForm("type", "image"))
	ext := strings.ToLower(path.Ext(fh.Filename))
	switch kind {
	case "image":
		if !h.allowedImage(ext) {
			response.BadRequest(c, "unsupported image format")
			return
		}
	case "file":
	default:
		response.BadRequest(c, "type must be image or file")
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	defer f.Close()

	now := time.Now()
	key := fmt.Sprintf("%ss/%04d/%02d/%s%s", kind, now.Year(), int(now.Month()), uuid.New().String(), ext)
	url, err := h.blobs.Upload(c.Request.Context(), key, fh.Header.Get("Content-Type"), f, fh.Size)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, gin.H{"url": url, "name": fh.Filename})
}

// delete DELETE /files?url=...  [admin]
// Best effort: URLs outside our store are rejected, a missing blob is fine.
func (h *Handler) delete(c *gin.Context) {
	if h.blobs == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"message": "object storage is not configured"})
		return
	}

	rawURL := strings.TrimSpace(c.Query("url"))
	if rawURL == "" {
		response.BadRequest(c, "url is required")
		return
	}
	key, ok := h.blobs.KeyFromURL(rawURL)
	if !ok {
		response.BadRequest(c, "url does not belong to this storage")
		return
	}
	if err := h.blobs.Delete(c.Request.Context(), key); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) allowedImage(ext string) bool {
	ext = strings.TrimPrefix(ext, ".")
	for _, allowed := range h.imageFormats {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}
