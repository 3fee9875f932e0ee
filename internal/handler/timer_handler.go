package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "monotaskr/coordinator/internal/errors"
	"monotaskr/coordinator/internal/export"
	"monotaskr/coordinator/internal/model"
	"monotaskr/coordinator/internal/service"
)

type TimerHandler struct {
	controller *service.TimerController
}

func NewTimerHandler(controller *service.TimerController) *TimerHandler {
	return &TimerHandler{controller: controller}
}

type startRequest struct {
	Duration       int                   `json:"duration"`
	IntervalConfig *model.IntervalConfig `json:"intervalConfig,omitempty"`
}

type debugRequest struct {
	Action  string `json:"action"`
	Seconds int    `json:"seconds"`
}

func (h *TimerHandler) GetState(c *gin.Context) {
	state, apiErr := h.controller.State(c.Request.Context())
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state})
}

func (h *TimerHandler) Start(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	state, apiErr := h.controller.Start(c.Request.Context(), req.Duration, req.IntervalConfig)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state})
}

func (h *TimerHandler) Pause(c *gin.Context) {
	state, apiErr := h.controller.Pause(c.Request.Context())
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state})
}

func (h *TimerHandler) Reset(c *gin.Context) {
	state, apiErr := h.controller.Stop(c.Request.Context())
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state})
}

func (h *TimerHandler) Debug(c *gin.Context) {
	var req debugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}
	if req.Action != "skipTime" {
		writeError(c, apperrors.BadRequest("unknown_action", "unknown debug action"))
		return
	}

	state, apiErr := h.controller.SkipTime(c.Request.Context(), req.Seconds)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state})
}

func (h *TimerHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	sessions, apiErr := h.controller.History(c.Request.Context(), limit)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (h *TimerHandler) Export(c *gin.Context) {
	sessions, apiErr := h.controller.History(c.Request.Context(), 0)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}

	switch c.DefaultQuery("format", "json") {
	case "csv":
		c.Header("Content-Disposition", `attachment; filename="sessions.csv"`)
		c.Data(http.StatusOK, "text/csv", []byte(export.CSV(sessions)))
	case "json":
		payload, err := export.JSON(sessions)
		if err != nil {
			writeError(c, apperrors.Internal("failed to encode sessions"))
			return
		}
		c.Header("Content-Disposition", `attachment; filename="sessions.json"`)
		c.Data(http.StatusOK, "application/json", payload)
	default:
		writeError(c, apperrors.BadRequest("invalid_format", "format must be csv or json"))
	}
}

func (h *TimerHandler) Stats(c *gin.Context) {
	stats, apiErr := h.controller.Stats(c.Request.Context())
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
