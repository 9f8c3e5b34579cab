package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"landing-waitlist/pkg/metrics"
	"landing-waitlist/pkg/middleware"
)

// NewRouter wires middleware and routes
func NewRouter(h *Handlers, origins []string, m *metrics.Metrics, gatherer prometheus.Gatherer) *gin.Engine {
	router := gin.New()

	router.Use(middleware.SetLogger("/health", "/metrics"))
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(origins))
	if m != nil {
		router.Use(middleware.Metrics(m))
	}

	router.POST("/api/join", h.HandleJoin)
	router.GET("/health", h.HealthCheck)
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	return router
}
