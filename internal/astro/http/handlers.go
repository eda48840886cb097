package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/astromapa/astromapa-backend/internal/astro/domain"
	"github.com/astromapa/astromapa-backend/internal/astro/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response messages kept byte-compatible with the original API.
const (
	msgMissingBirthData = "Dados de nascimento, incluindo lat/lon, são necessários."
	msgServerError      = "Ocorreu um erro no servidor."
	msgChartError       = "Ocorreu um erro no servidor ao gerar o mapa completo."
)

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// Handler serves the two chart endpoints.
type Handler struct {
	svc    *service.ChartService
	logger *zap.Logger
}

// NewHandler creates a new Handler.
func NewHandler(svc *service.ChartService, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register attaches chart routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/planetas/agora", h.currentPositions)
	rg.POST("/mapa-completo", h.birthChart)
}

func (h *Handler) currentPositions(c *gin.Context) {
	now := time.Now().UTC()

	chart, err := h.svc.CurrentPositions(c.Request.Context(), now)
	if err != nil {
		h.logger.Error("current positions failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgServerError})
		return
	}

	posicoes := make(map[string]positionEntry, len(chart.Positions))
	for body, pos := range chart.Positions {
		speed := pos.Speed
		posicoes[string(body)] = positionEntry{Posicao: pos.Longitude, Velocidade: &speed}
	}

	c.JSON(http.StatusOK, currentPositionsResponse{
		Data:     now.Format(isoMillis),
		Posicoes: posicoes,
	})
}

func (h *Handler) birthChart(c *gin.Context) {
	var req birthChartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgMissingBirthData})
		return
	}

	segundo := 0.0
	if req.Segundo != nil {
		segundo = *req.Segundo
	}

	birth := domain.BirthData{
		Instant: domain.Instant{
			Year:   *req.Ano,
			Month:  *req.Mes,
			Day:    *req.Dia,
			Hour:   *req.Hora,
			Minute: *req.Minuto,
			Second: segundo,
		},
		Location: domain.GeoPoint{Lat: *req.Lat, Lon: *req.Lon},
	}

	chart, err := h.svc.BirthChart(c.Request.Context(), birth)
	if err != nil {
		h.logger.Error("birth chart failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgChartError})
		return
	}

	planetas := make(map[string]positionEntry, len(chart.Positions))
	for body, pos := range chart.Positions {
		planetas[string(body)] = positionEntry{Posicao: pos.Longitude}
	}

	casas := make(map[string]float64, 12)
	for i := 1; i <= 12; i++ {
		casas[fmt.Sprintf("Casa %d", i)] = chart.Houses.Cusps[i]
	}

	c.JSON(http.StatusOK, birthChartResponse{
		DadosNascimento: birthDataEcho{
			Ano:    birth.Instant.Year,
			Mes:    birth.Instant.Month,
			Dia:    birth.Instant.Day,
			Hora:   birth.Instant.Hour,
			Minuto: birth.Instant.Minute,
			Lat:    birth.Location.Lat,
			Lon:    birth.Location.Lon,
		},
		Ascendente: chart.Houses.Ascendant,
		MeioDoCeu:  chart.Houses.Midheaven,
		Planetas:   planetas,
		Casas:      casas,
	})
}
