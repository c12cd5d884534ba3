package httpapi

import (
	"github.com/gin-gonic/gin"
)

// NewRouter wires middleware and routes.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogging())
	router.Use(ErrorHandler())

	api := router.Group("/api")
	api.GET("/health", h.Health)
	api.GET("/tickers", h.ListTickers)
	api.GET("/periods", h.ListPeriods)
	api.GET("/dashboard/:symbol", h.GetDashboard)
	api.GET("/dashboard/:symbol/text", h.GetDashboardText)
	api.GET("/series/:symbol/export.parquet", h.ExportSeries)
	return router
}
