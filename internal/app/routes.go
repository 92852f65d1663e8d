package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/habarupress/core/internal/middleware"
	"github.com/habarupress/core/internal/models"
	"github.com/habarupress/core/internal/modules/auth"
	"github.com/habarupress/core/internal/modules/content/blog"
	"github.com/habarupress/core/internal/modules/content/category"
	"github.com/habarupress/core/internal/modules/content/pdf"
	"github.com/habarupress/core/internal/modules/storage/upload"
	"github.com/habarupress/core/internal/modules/system/health"
	"github.com/habarupress/core/internal/pkg/response"
)

// registerRoutes mounts the whole API. The two channels are served by the
// same handlers: each channel gets its own service instances, mounted under
// /api/v2 and /api/v2/other.
func (a *App) registerRoutes() {
	r := a.router
	db := a.db

	authMW := middleware.Auth(db)
	adminMW := []gin.HandlerFunc{authMW, middleware.RequireAdmin()}

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":     "habaru-core",
		"version":  "1.0.0",
		"homepage": "https://github.com/habarupress/core",
	}

	api := r.Group("/api/v2",
		middleware.OptionalAuth(db),
		middleware.RateLimit(a.rdb.Raw()),
		middleware.Idempotence(a.rdb.Raw()),
	)

	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })

	health.NewHandler(db, a.rdb).RegisterRoutes(api)
	auth.NewHandler(auth.NewService(db)).RegisterRoutes(api, authMW)
	upload.NewHandler(a.blobs, a.cfg.Uploads.MaxSizeMB, a.cfg.Uploads.AllowedImageFormats).
		RegisterRoutes(api, adminMW...)

	for _, ch := range models.Channels {
		g := api
		if ch != models.ChannelMain {
			g = api.Group("/" + string(ch))
		}
		blog.NewHandler(blog.NewService(db, ch)).RegisterRoutes(g, adminMW...)
		pdf.NewHandler(pdf.NewService(db, ch, a.blobs, a.cfg.Uploads.MaxSizeMB, a.cfg.Uploads.AllowedImageFormats)).
			RegisterRoutes(g, adminMW...)
		category.NewHandler(category.NewService(db, ch)).RegisterRoutes(g, adminMW...)
	}
}
