package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"comanda-dashboard-backend/config"
	"comanda-dashboard-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg config.ServerConfig, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestid.New(), mw.Logger(logger))

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowHeaders("X-Request-ID", "Cache-Control")
	corsConfig.AddExposeHeaders("X-Request-ID", mw.CacheHeader)
	r.Use(cors.New(corsConfig))

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	caching := mw.Cache(h.areas, ttl)
	invalidate := mw.Invalidate(h.areas)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/areas", caching, h.GetAreas)

		api.GET("/tables", h.ListTables)
		api.GET("/tables/options", h.GetTableOptions)
		api.POST("/tables/refresh", invalidate, h.RefreshTables)
		api.PATCH("/tables/:id", h.PatchTable)
		api.PUT("/tables/filters", h.PutTableFilters)

		api.GET("/tabs", h.ListTabs)
		api.POST("/tabs/refresh", h.RefreshTabs)
		api.PATCH("/tabs/:key", h.PatchTab)
		api.PUT("/tabs/filters", h.PutTabFilters)

		api.POST("/search", h.Search)

		api.POST("/workflows", h.CreateWorkflow)
		api.GET("/workflows/:id", h.GetWorkflow)
		api.PUT("/workflows/:id/customer", h.PutWorkflowCustomer)
		api.PUT("/workflows/:id/location", h.PutWorkflowLocation)
		api.POST("/workflows/:id/submit", h.SubmitWorkflow)
		api.DELETE("/workflows/:id", h.CancelWorkflow)

		api.GET("/menu", h.GetMenu)
		api.GET("/tabs/:key/cart", h.GetCart)
		api.POST("/tabs/:key/cart", h.PostCart)
		api.POST("/tabs/:key/checkout", h.Checkout)

		api.GET("/subscriptions", h.GetSubscription)
		api.PUT("/subscriptions", h.PutSubscription)
		api.DELETE("/subscriptions", h.DeleteSubscription)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)
	}

	r.GET("/healthz", h.Health)

	return r
}
