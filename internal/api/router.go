package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"worktime-rollup-backend/config"
	"worktime-rollup-backend/internal/mw"
	"worktime-rollup-backend/internal/queue"
	"worktime-rollup-backend/internal/schedule"
	"worktime-rollup-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.ServerConfig, s store.Store, runner queue.Runner, pool *queue.WorkerPool, resolver *schedule.Resolver) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, runner, pool, resolver)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/rollup", handler.PostRollup)
		api.POST("/samples", handler.PostSamples)

		api.GET("/users/:user_id/entries", caching, handler.GetEntries)
		api.GET("/users/:user_id/summary", caching, handler.GetSummary)

		api.GET("/orgs/:org_id/schedule", handler.GetSchedule)
		api.PUT("/orgs/:org_id/schedule", handler.PutSchedule)
	}

	return r
}
