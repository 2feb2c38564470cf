package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RootMessage is the greeting returned by GET /.
const RootMessage = "Hello from the invoice extraction API!"

// HealthHandler handles greeting and health check endpoints.
type HealthHandler struct{}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Root handles GET /
// @Summary Greeting
// @Description Returns a fixed greeting; does not touch any upstream dependency
// @Tags health
// @Produce json
// @Success 200 {object} MessageResponse
// @Router / [get]
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, MessageResponse{Message: RootMessage})
}

// Liveness handles GET /healthz
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
