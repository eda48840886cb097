package bootstrap

import (
	httpapi "github.com/astromapa/astromapa-backend/internal/api/http"
	"github.com/astromapa/astromapa-backend/internal/api/http/middleware"
	"github.com/astromapa/astromapa-backend/internal/astro/gateway"
	astrohttp "github.com/astromapa/astromapa-backend/internal/astro/http"
	"github.com/astromapa/astromapa-backend/internal/astro/repository"
	"github.com/astromapa/astromapa-backend/internal/astro/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Gateway     gateway.Gateway
	Cache       *repository.ChartCache  // nil disables caching
	Ephemeris   httpapi.EphemerisStatus // nil reports "disabled"
	Logger      *zap.Logger
	RateRPS     float64 // <= 0 disables rate limiting
	RateBurst   int
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// The API is consumed directly by a browser front end.
	r.Use(cors.Default())
	r.Use(middleware.RequestIDMiddleware(dep.Logger))
	if dep.RateRPS > 0 {
		r.Use(middleware.RateLimitMiddleware(rate.Limit(dep.RateRPS), dep.RateBurst))
	}

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Ephemeris)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api")

	chartService := service.NewChartService(dep.Gateway, dep.Cache, dep.Logger)
	chartHandler := astrohttp.NewHandler(chartService, dep.Logger)
	chartHandler.Register(api)

	return r
}
