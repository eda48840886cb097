package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// EphemerisStatus reports the last known state of the ephemeris
// gateway, as observed by the periodic probe.
type EphemerisStatus interface {
	Status() string
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Ephemeris string    `json:"ephemeris,omitempty"`
}

type HealthHandler struct {
	serviceName string
	version     string
	ephemeris   EphemerisStatus
}

func NewHealthHandler(serviceName, version string, ephemeris EphemerisStatus) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		ephemeris:   ephemeris,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	epheStatus := "disabled"
	if h.ephemeris != nil {
		epheStatus = h.ephemeris.Status()
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		Ephemeris: epheStatus,
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
