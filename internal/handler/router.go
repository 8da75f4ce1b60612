package handler

import (
	"github.com/community-watch/backend/internal/config"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(cfg config.Config, analysis *AnalysisHandler, reports *ReportHandler) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), AccessLog(), Recovery())
	r.Use(CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowCredentials))

	r.GET("/", Root)
	r.GET("/ping", Ping)
	r.GET("/openapi.json", OpenAPIDoc)

	api := r.Group("/api")
	{
		api.GET("/analyze-incident", analysis.HealthCheck)
		api.POST("/analyze-incident", analysis.AnalyzeIncident)

		api.POST("/reports/metrics", reports.Metrics)
		api.POST("/reports/export", reports.Export)
	}
	return r
}
