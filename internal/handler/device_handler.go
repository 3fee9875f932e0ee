package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"monotaskr/coordinator/internal/service"
)

type DeviceHandler struct {
	authService *service.AuthService
}

func NewDeviceHandler(authService *service.AuthService) *DeviceHandler {
	return &DeviceHandler{authService: authService}
}

type pairRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

func (h *DeviceHandler) Pair(c *gin.Context) {
	var req pairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	result, apiErr := h.authService.Pair(c.Request.Context(), req.Name, req.Code)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, result)
}
