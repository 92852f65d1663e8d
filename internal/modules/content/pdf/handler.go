package pdf

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/habarupress/core/internal/middleware"
	"github.com/habarupress/core/internal/models"
	"github.com/habarupress/core/internal/pkg/access"
	"github.com/habarupress/core/internal/pkg/response"
)

// Handler handles PDF HTTP requests for one channel. Create and update are
// multipart forms because they carry the document blob.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts PDF routes onto the given router group. adminMW
// guards the mutating routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminMW ...gin.HandlerFunc) {
	pdfs := rg.Group("/pdfs")

	pdfs.GET("", h.list)
	pdfs.GET("/:id", h.get)

	authed := pdfs.Group("", adminMW...)
	authed.POST("", h.create)
	authed.PATCH("/:id", h.update)
	authed.PUT("/:id", h.setStatus)
	authed.DELETE("/:id", h.delete)
}

// list GET /pdfs
func (h *Handler) list(c *gin.Context) {
	role := middleware.CurrentRole(c)
	f := access.FiltersFromContext(c, role)

	items, total, err := h.svc.List(c.Request.Context(), role, f)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.List(c, items, total)
}

// get GET /pdfs/:id
func (h *Handler) get(c *gin.Context) {
	row, err := h.svc.Get(c.Request.Context(), c.Param("id"), middleware.CurrentRole(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if row == nil {
		response.NotFoundMsg(c, "pdf not found")
		return
	}
	response.OK(c, row)
}

// create POST /pdfs  [admin, multipart]
func (h *Handler) create(c *gin.Context) {
	title := c.PostForm("title")
	if title == "" {
		response.BadRequest(c, "title is required")
		return
	}
	file, err := c.FormFile("pdf_file")
	if err != nil {
		response.BadRequest(c, "pdf_file is required")
		return
	}

	p := CreateParams{
		Title:       title,
		Description: c.PostForm("description"),
		CategoryID:  c.PostForm("category_id"),
		File:        file,
	}
	if image, err := c.FormFile("image"); err == nil {
		p.Image = image
	}

	row, err := h.svc.Create(c.Request.Context(), middleware.CurrentUserID(c), p)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Created(c, row)
}

// update PATCH /pdfs/:id  [admin, multipart]
func (h *Handler) update(c *gin.Context) {
	var p UpdateParams
	if v, ok := c.GetPostForm("title"); ok {
		p.Title = &v
	}
	if v, ok := c.GetPostForm("description"); ok {
		p.Description = &v
	}
	if v, ok := c.GetPostForm("category_id"); ok {
		p.CategoryID = &v
	}
	if file, err := c.FormFile("pdf_file"); err == nil {
		p.File = file
	}
	if image, err := c.FormFile("image"); err == nil {
		p.Image = image
	}

	row, err := h.svc.Update(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if row == nil {
		response.NotFoundMsg(c, "pdf not found")
		return
	}
	response.OK(c, row)
}

// setStatus PUT /pdfs/:id  [admin]
func (h *Handler) setStatus(c *gin.Context) {
	var dto SetStatusDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	status := models.PublishStatus(dto.Status)
	if !status.Valid() {
		response.BadRequest(c, "status must be draft or published")
		return
	}

	row, err := h.svc.SetStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if row == nil {
		response.NotFoundMsg(c, "pdf not found")
		return
	}
	response.OK(c, row)
}

// delete DELETE /pdfs/:id  [admin]
func (h *Handler) delete(c *gin.Context) {
	ok, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !ok {
		response.NotFoundMsg(c, "pdf not found")
		return
	}
	response.NoContent(c)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrCategoryNotFound),
		errors.Is(err, ErrNotPDF),
		errors.Is(err, ErrBadImageFormat):
		response.BadRequest(c, err.Error())
	case errors.Is(err, ErrTooLarge):
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"message": err.Error()})
	case errors.Is(err, ErrStorageUnavailable):
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"message": err.Error()})
	default:
		response.InternalError(c, err)
	}
}
