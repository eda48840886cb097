package service

import (
	"context"
	"sync"
	"time"

	"github.com/astromapa/astromapa-backend/internal/astro/domain"
	"github.com/astromapa/astromapa-backend/internal/astro/gateway"
	"github.com/astromapa/astromapa-backend/internal/astro/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ChartService orchestrates ephemeris queries into full charts.
//
// Every computation runs in two phases: first a single Julian-day
// conversion, then a concurrent fan-out of one query per body (plus one
// house query for birth charts). The join is all-or-nothing; a single
// failed query aborts the whole chart.
type ChartService struct {
	gw     gateway.Gateway
	cache  *repository.ChartCache // optional, may be nil
	logger *zap.Logger
}

// NewChartService creates a new ChartService. cache may be nil to
// disable birth-chart caching.
func NewChartService(gw gateway.Gateway, cache *repository.ChartCache, logger *zap.Logger) *ChartService {
	return &ChartService{
		gw:     gw,
		cache:  cache,
		logger: logger,
	}
}

// CurrentPositions computes body positions for a wall-clock instant.
// No houses are computed: there is no observer location.
func (s *ChartService) CurrentPositions(ctx context.Context, now time.Time) (*domain.Chart, error) {
	return s.compute(domain.InstantFromTime(now), nil)
}

// BirthChart computes the full chart (positions + Placidus houses) for
// a birth datum. Results are served from cache when one is configured;
// the ephemeris functions are deterministic, so a hit is exact.
func (s *ChartService) BirthChart(ctx context.Context, birth domain.BirthData) (*domain.Chart, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, birth)
		if err != nil {
			s.logger.Warn("chart cache read failed", zap.Error(err))
		}
		if cached != nil {
			return cached, nil
		}
	}

	chart, err := s.compute(birth.Instant, &birth.Location)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, birth, chart); err != nil {
			s.logger.Warn("chart cache write failed", zap.Error(err))
		}
	}
	return chart, nil
}

// compute runs the two-phase aggregation. loc selects the variant:
// nil computes positions only, non-nil adds the house layout.
func (s *ChartService) compute(inst domain.Instant, loc *domain.GeoPoint) (*domain.Chart, error) {
	// Phase 1: one Julian-day conversion. Nothing else may start until
	// this has resolved.
	jd, err := s.gw.JulianDayUT(inst.Year, inst.Month, inst.Day, inst.FractionalHour())
	if err != nil {
		convErr := &domain.ConversionError{Err: err}
		s.logger.Error("julian day conversion failed",
			zap.Int("year", inst.Year),
			zap.Int("month", inst.Month),
			zap.Int("day", inst.Day),
			zap.Error(err),
		)
		return nil, convErr
	}

	// Phase 2: per-body queries and (optionally) the house query, all
	// concurrent, joined all-or-nothing. Completion order is arbitrary;
	// the positions map is keyed by body, never by arrival. There is no
	// mid-flight cancellation: launched queries run to completion and
	// Wait reports the first failure.
	var g errgroup.Group

	var mu sync.Mutex
	positions := make(map[domain.Body]domain.BodyPosition, len(domain.Bodies())+1)

	for _, body := range domain.Bodies() {
		body := body
		g.Go(func() error {
			code, ok := gateway.BodyCode(body)
			if !ok {
				return &domain.BodyCalculationError{Body: body, Err: domain.ErrUnknownBody}
			}

			res, err := s.gw.CalcBody(jd, code, gateway.SeflgSpeed)
			if err != nil {
				s.logger.Error("body calculation failed",
					zap.String("body", string(body)),
					zap.Float64("julian_day", jd),
					zap.Error(err),
				)
				return &domain.BodyCalculationError{Body: body, Err: err}
			}

			mu.Lock()
			positions[body] = domain.BodyPosition{
				Body:      body,
				Longitude: domain.NormalizeDegrees(res.Longitude),
				Speed:     res.Speed,
			}
			mu.Unlock()
			return nil
		})
	}

	var houses *domain.HouseLayout
	if loc != nil {
		g.Go(func() error {
			res, err := s.gw.Houses(jd, loc.Lat, loc.Lon, gateway.HouseSystemPlacidus)
			if err != nil {
				s.logger.Error("house calculation failed",
					zap.Float64("julian_day", jd),
					zap.Float64("lat", loc.Lat),
					zap.Float64("lon", loc.Lon),
					zap.Error(err),
				)
				return &domain.HouseCalculationError{Err: err}
			}

			layout := domain.HouseLayout{
				Cusps:     make(map[int]float64, 12),
				Ascendant: domain.NormalizeDegrees(res.Ascendant),
				Midheaven: domain.NormalizeDegrees(res.Midheaven),
			}
			for i := 1; i <= 12; i++ {
				layout.Cusps[i] = domain.NormalizeDegrees(res.Cusps[i])
			}
			houses = &layout
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Derived point: the South Node mirrors the North Node. Computed
	// after the join so it can never diverge from its source.
	if north, ok := positions[domain.BodyNorthNode]; ok {
		positions[domain.BodySouthNode] = domain.SouthNodeFrom(north)
	}

	return &domain.Chart{
		Instant:   inst,
		JulianDay: jd,
		Positions: positions,
		Houses:    houses,
	}, nil
}
