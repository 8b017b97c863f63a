package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"worktime-rollup-backend/internal/model"
)

type sampleRequest struct {
	UserID          int64     `json:"user_id" binding:"required"`
	CapturedAt      time.Time `json:"captured_at" binding:"required"`
	MouseDelta      int       `json:"mouse_delta"`
	KeyCount        int       `json:"key_count"`
	DeviceSessionID string    `json:"device_session_id"`
}

type postSamplesRequest struct {
	Samples []sampleRequest `json:"samples" binding:"required,min=1,dive"`
}

// PostSamples ingests a batch of raw activity samples from a capture agent.
func (h *Handler) PostSamples(c *gin.Context) {
	var req postSamplesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	samples := make([]model.ActivitySample, 0, len(req.Samples))
	for _, raw := range req.Samples {
		if raw.MouseDelta < 0 || raw.KeyCount < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "mouse_delta and key_count must be non-negative"})
			return
		}
		if raw.DeviceSessionID != "" {
			if _, err := uuid.Parse(raw.DeviceSessionID); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "device_session_id must be a UUID"})
				return
			}
		}
		samples = append(samples, model.ActivitySample{
			UserID:          raw.UserID,
			CapturedAt:      raw.CapturedAt.UTC(),
			MouseDelta:      raw.MouseDelta,
			KeyCount:        raw.KeyCount,
			DeviceSessionID: raw.DeviceSessionID,
		})
	}

	if err := h.store.InsertSamples(c.Request.Context(), samples); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"inserted": len(samples)})
}
