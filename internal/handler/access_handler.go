package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"monotaskr/coordinator/internal/service"
)

type AccessHandler struct {
	accessService *service.AccessService
}

func NewAccessHandler(accessService *service.AccessService) *AccessHandler {
	return &AccessHandler{accessService: accessService}
}

type tempAccessRequest struct {
	Domain string `json:"domain"`
}

func (h *AccessHandler) RequestTempAccess(c *gin.Context) {
	var req tempAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	result, apiErr := h.accessService.RequestTempAccess(c.Request.Context(), req.Domain)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AccessHandler) Check(c *gin.Context) {
	blocked, apiErr := h.accessService.ShouldBlock(c.Request.Context(), c.Query("domain"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blocked": blocked})
}
