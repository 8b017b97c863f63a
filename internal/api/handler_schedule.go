package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"worktime-rollup-backend/internal/model"
	"worktime-rollup-backend/internal/schedule"
)

// GetSchedule handles GET /api/orgs/{org_id}/schedule.
func (h *Handler) GetSchedule(c *gin.Context) {
	orgID, err := strconv.ParseInt(c.Param("org_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid org ID"})
		return
	}

	sched, err := h.store.FetchOrgSchedule(c.Request.Context(), orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if sched == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no schedule configured"})
		return
	}
	c.JSON(http.StatusOK, sched)
}

type putScheduleRequest struct {
	Timezone             string `json:"timezone" binding:"required"`
	CheckinStart         string `json:"checkin_start"`
	CheckinEnd           string `json:"checkin_end"`
	BreakStart           string `json:"break_start"`
	BreakEnd             string `json:"break_end"`
	IdleThresholdSeconds int    `json:"idle_threshold_seconds"`
}

// PutSchedule handles the creation or replacement of an organization's
// schedule rules.
func (h *Handler) PutSchedule(c *gin.Context) {
	orgID, err := strconv.ParseInt(c.Param("org_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid org ID"})
		return
	}

	var req putScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := time.LoadLocation(req.Timezone); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown timezone"})
		return
	}
	if req.IdleThresholdSeconds < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "idle_threshold_seconds must be non-negative"})
		return
	}
	for _, pair := range [][2]string{
		{req.CheckinStart, req.CheckinEnd},
		{req.BreakStart, req.BreakEnd},
	} {
		if (pair[0] == "") != (pair[1] == "") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "window start and end must be set together"})
			return
		}
		if pair[0] != "" {
			if _, err := schedule.NewWindow(pair[0], pair[1]); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}
	}

	sched := &model.OrgSchedule{
		OrgID:                orgID,
		Timezone:             req.Timezone,
		CheckinStart:         req.CheckinStart,
		CheckinEnd:           req.CheckinEnd,
		BreakStart:           req.BreakStart,
		BreakEnd:             req.BreakEnd,
		IdleThresholdSeconds: req.IdleThresholdSeconds,
	}
	if err := h.store.UpsertOrgSchedule(c.Request.Context(), sched); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
