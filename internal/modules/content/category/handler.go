package category

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/habarupress/core/internal/middleware"
	"github.com/habarupress/core/internal/pkg/response"
)

// Handler handles category HTTP requests for one channel.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts category routes onto the given router group.
// adminMW guards the mutating routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminMW ...gin.HandlerFunc) {
	cats := rg.Group("/categories")

	cats.GET("", h.list)
	cats.GET("/:query", h.getByQuery)

	authed := cats.Group("", adminMW...)
	authed.POST("", h.create)
	authed.PATCH("/:query", h.update)
	authed.DELETE("/:query", h.delete)
}

// list GET /categories
func (h *Handler) list(c *gin.Context) {
	infos, err := h.svc.List(c.Request.Context(), middleware.CurrentRole(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.List(c, infos, int64(len(infos)))
}

// getByQuery GET /categories/:query (id or slug)
func (h *Handler) getByQuery(c *gin.Context) {
	cat, err := h.svc.GetByQuery(c.Request.Context(), c.Param("query"), middleware.CurrentRole(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if cat == nil {
		response.NotFoundMsg(c, "category not found")
		return
	}
	response.OK(c, cat)
}

// create POST /categories  [admin]
func (h *Handler) create(c *gin.Context) {
	var dto CreateCategoryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	cat, err := h.svc.Create(c.Request.Context(), &dto)
	if err != nil {
		if errors.Is(err, ErrDuplicateName) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, cat)
}

// update PATCH /categories/:query  [admin]
func (h *Handler) update(c *gin.Context) {
	var dto UpdateCategoryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	cat, err := h.svc.Update(c.Request.Context(), c.Param("query"), &dto)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidID):
			response.BadRequest(c, err.Error())
		case errors.Is(err, ErrDuplicateName):
			response.Conflict(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	if cat == nil {
		response.NotFoundMsg(c, "category not found")
		return
	}
	response.OK(c, cat)
}

// delete DELETE /categories/:query  [admin]
func (h *Handler) delete(c *gin.Context) {
	ok, err := h.svc.Delete(c.Request.Context(), c.Param("query"))
	if err != nil {
		if errors.Is(err, ErrInvalidID) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	if !ok {
		response.NotFoundMsg(c, "category not found")
		return
	}
	response.NoContent(c)
}
