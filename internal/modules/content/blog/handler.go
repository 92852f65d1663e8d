package blog

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/habarupress/core/internal/middleware"
	"github.com/habarupress/core/internal/models"
	"github.com/habarupress/core/internal/pkg/access"
	"github.com/habarupress/core/internal/pkg/response"
)

// Handler handles blog HTTP requests for one channel.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts blog routes onto the given router group. adminMW
// guards the mutating routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminMW ...gin.HandlerFunc) {
	blogs := rg.Group("/blogs")

	blogs.GET("", h.list)
	blogs.GET("/:id", h.get)

	authed := blogs.Group("", adminMW...)
	authed.POST("", h.create)
	authed.PATCH("/:id", h.update)
	authed.PUT("/:id", h.setStatus)
	authed.DELETE("/:id", h.delete)
}

// list GET /blogs
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

// get GET /blogs/:id
func (h *Handler) get(c *gin.Context) {
	b, err := h.svc.Get(c.Request.Context(), c.Param("id"), middleware.CurrentRole(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if b == nil {
		response.NotFoundMsg(c, "blog not found")
		return
	}
	response.OK(c, b)
}

// create POST /blogs  [admin]
func (h *Handler) create(c *gin.Context) {
	var dto CreateBlogDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	b, err := h.svc.Create(c.Request.Context(), middleware.CurrentUserID(c), &dto)
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) || errors.Is(err, ErrInvalidFontSize) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, b)
}

// update PATCH /blogs/:id  [admin]
func (h *Handler) update(c *gin.Context) {
	var dto UpdateBlogDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	b, err := h.svc.Update(c.Request.Context(), c.Param("id"), &dto)
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) || errors.Is(err, ErrInvalidFontSize) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	if b == nil {
		response.NotFoundMsg(c, "blog not found")
		return
	}
	response.OK(c, b)
}

// setStatus PUT /blogs/:id  [admin]
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

	b, err := h.svc.SetStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if b == nil {
		response.NotFoundMsg(c, "blog not found")
		return
	}
	response.OK(c, b)
}

// delete DELETE /blogs/:id  [admin]
func (h *Handler) delete(c *gin.Context) {
	ok, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !ok {
		response.NotFoundMsg(c, "blog not found")
		return
	}
	response.NoContent(c)
}
