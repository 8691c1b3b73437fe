package httpapi

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/alexanderramin/careerplan/internal/metrics"
)

type RouterConfig struct {
	PlanHandler *PlanHandler
	Log         *zap.Logger
	// Metrics is optional; when nil no latency is recorded and MetricsPath
	// is not served.
	Metrics     *metrics.Metrics
	MetricsPath string
	// NoMetricsEndpoint keeps recording latency but leaves scraping to
	// another listener.
	NoMetricsEndpoint bool
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(cfg.Log))
	r.Use(CORS())
	r.Use(Metrics(cfg.Metrics))

	r.GET("/", Root)
	r.GET("/healthcheck", HealthCheck)
	if cfg.Metrics != nil && !cfg.NoMetricsEndpoint {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api/v3")
	if h := cfg.PlanHandler; h != nil {
		api.POST("/generate-plan/:username", h.GeneratePlan)
		api.GET("/plan/:username", h.GetPlan)
		api.GET("/plan/:username/history", h.History)
		api.POST("/plan/:username/regenerate-subsequent", h.RegenerateSubsequent)
		api.PUT("/profile/:username", h.UpsertProfile)

		milestone := api.Group("/milestone/:timeframe", RequireTimeframe())
		{
			milestone.GET("/:username", h.GetMilestone)
			milestone.PUT("/:username/update-cascade", h.UpdateCascade)
			milestone.PUT("/:username/direct-update", h.DirectUpdate)
			milestone.POST("/:username/process-thoughts", h.ProcessThoughts)
		}
	}
	return r
}
