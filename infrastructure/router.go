package infrastructure

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the HTTP surface. health may be nil in tests.
func NewRouter(h *VideoHandlers, health *HealthHandler, jwtSecret []byte, gatherer prometheus.Gatherer) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	if health != nil {
		router.GET("/api/health", health.Check)
	}
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api")
	{
		api.POST("/auth/login", h.Login)
		api.GET("/videos", h.ListVideos)
		api.GET("/videos/stream/:filename", h.Stream)
		api.GET("/uploads/:filename", h.ServeUpload)
	}

	authed := api.Group("")
	authed.Use(AuthMiddleware(jwtSecret))
	{
		authed.GET("/auth/history", h.LoginHistory)
		authed.GET("/my-videos", h.MyVideos)
		authed.POST("/upload", h.Upload)
		authed.DELETE("/videos/:video_id", h.Delete)
	}

	admin := authed.Group("/admin")
	admin.Use(AdminOnly())
	{
		admin.GET("/videos", h.AdminListVideos)
		admin.PUT("/videos/:video_id/status", h.AdminSetStatus)
	}

	return router
}
