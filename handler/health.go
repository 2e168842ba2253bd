package handler

import (
	"net/http"
	"time"

	"luckyvista-backend/config"

	"github.com/gin-gonic/gin"
)

type ServiceStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

var startTime = time.Now()

// HealthCheckHandler reports service health including database reachability.
func HealthCheckHandler(c *gin.Context) {
	status := "healthy"
	services := map[string]ServiceStatus{
		"database": checkDatabase(),
	}
	for _, s := range services {
		if s.Status != "healthy" {
			status = "unhealthy"
		}
	}

	statusCode := http.StatusOK
	if status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(startTime).String(),
		"services":  services,
	})
}

func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong", "timestamp": time.Now().UTC()})
}

func checkDatabase() ServiceStatus {
	start := time.Now()

	var result int
	err := config.Db.Raw("SELECT 1").Scan(&result).Error
	latency := time.Since(start)

	if err != nil {
		return ServiceStatus{Status: "unhealthy", Message: err.Error()}
	}
	return ServiceStatus{Status: "healthy", Latency: latency.String()}
}
