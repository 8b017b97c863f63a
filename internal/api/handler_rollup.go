package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"worktime-rollup-backend/internal/queue"
	"worktime-rollup-backend/internal/store"
)

type rollupRequest struct {
	UserID int64     `json:"user_id" binding:"required"`
	From   time.Time `json:"from" binding:"required"`
	To     time.Time `json:"to" binding:"required"`
}

// PostRollup triggers a rollup for a (user, range) pair. The job is handed to
// the worker pool when there is room; otherwise it runs synchronously on the
// request, so the outcome is the same either way.
func (h *Handler) PostRollup(c *gin.Context) {
	var req rollupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.From.Before(req.To) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be before to"})
		return
	}

	job := queue.Job{UserID: req.UserID, From: req.From, To: req.To, Reason: queue.ReasonRange}
	if h.pool != nil && h.pool.TryDispatch(job) {
		c.JSON(http.StatusAccepted, gin.H{"queued": true})
		return
	}

	processed, err := h.runner.RollupUserActivity(c.Request.Context(), req.UserID, req.From, req.To)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"queued": false, "processed_spans": processed})
}
