package monitoring

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker serves the liveness and status endpoints.
type HealthChecker struct {
	monitor          *Monitor
	geminiAvailable  bool
	youtubeAvailable bool
}

func NewHealthChecker(monitor *Monitor, geminiAvailable, youtubeAvailable bool) *HealthChecker {
	return &HealthChecker{
		monitor:          monitor,
		geminiAvailable:  geminiAvailable,
		youtubeAvailable: youtubeAvailable,
	}
}

func (h *HealthChecker) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":                "healthy",
		"timestamp":             time.Now().UTC().Format(time.RFC3339),
		"gemini_available":      h.geminiAvailable,
		"youtube_api_available": h.youtubeAvailable,
	})
}

func (h *HealthChecker) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"summary":  h.monitor.GetStatusSummary(),
		"counters": h.monitor.Snapshot(),
	})
}
