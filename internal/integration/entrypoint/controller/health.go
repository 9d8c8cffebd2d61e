package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthController handles health check endpoints.
type HealthController struct {
	dbHealthChecker    func() bool
	cacheHealthChecker func() bool
	extractorAvailable func() bool
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Cache     string `json:"cache"`
	Extractor string `json:"extractor"`
	Timestamp string `json:"timestamp"`
}

// NewHealthController creates a new health controller instance.
// Any checker may be nil.
func NewHealthController(dbHealthChecker, cacheHealthChecker, extractorAvailable func() bool) *HealthController {
	return &HealthController{
		dbHealthChecker:    dbHealthChecker,
		cacheHealthChecker: cacheHealthChecker,
		extractorAvailable: extractorAvailable,
	}
}

// Check handles GET /health requests.
func (h *HealthController) Check(c *gin.Context) {
	response := HealthResponse{
		Status:    "ok",
		Database:  status(h.dbHealthChecker, "connected", "disconnected"),
		Cache:     status(h.cacheHealthChecker, "connected", "disabled"),
		Extractor: status(h.extractorAvailable, "available", "unavailable"),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	code := http.StatusOK
	if response.Database != "connected" {
		response.Status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, response)
}

func status(check func() bool, up, down string) string {
	if check != nil && check() {
		return up
	}
	return down
}
