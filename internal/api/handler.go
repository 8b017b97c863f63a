package api

import (
	"worktime-rollup-backend/internal/queue"
	"worktime-rollup-backend/internal/schedule"
	"worktime-rollup-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	runner   queue.Runner
	pool     *queue.WorkerPool
	resolver *schedule.Resolver
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, runner queue.Runner, pool *queue.WorkerPool, resolver *schedule.Resolver) *Handler {
	return &Handler{
		store:    s,
		runner:   runner,
		pool:     pool,
		resolver: resolver,
	}
}
