// Package health exposes the liveness endpoint used by deploy checks.
package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
	redispkg "github.com/habarupress/core/internal/pkg/redis"
	"gorm.io/gorm"
)

type Handler struct {
	db  *gorm.DB
	rdb *redispkg.Client
}

func NewHandler(db *gorm.DB, rdb *redispkg.Client) *Handler {
	return &Handler{db: db, rdb: rdb}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.check)
}

// check GET /health
func (h *Handler) check(c *gin.Context) {
	ctx := c.Request.Context()
	status := http.StatusOK
	res := gin.H{"db": "ok", "redis": "ok"}

	if sqlDB, err := h.db.DB(); err != nil {
		res["db"] = err.Error()
		status = http.StatusServiceUnavailable
	} else if err := sqlDB.PingContext(ctx); err != nil {
		res["db"] = err.Error()
		status = http.StatusServiceUnavailable
	}

	if h.rdb == nil {
		res["redis"] = "not configured"
	} else if err := h.rdb.Ping(ctx); err != nil {
		res["redis"] = err.Error()
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, res)
}
