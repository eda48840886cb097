package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/astromapa/astromapa-backend/internal/astro/domain"
	"github.com/astromapa/astromapa-backend/internal/astro/gateway"
	"github.com/astromapa/astromapa-backend/internal/astro/repository"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeGateway is a deterministic in-memory stand-in for the Swiss
// Ephemeris binding.
type fakeGateway struct {
	mu    sync.Mutex
	calls int

	julianErr error
	bodyErrs  map[int]error
	houseErr  error

	// lons overrides the computed longitude for a body code, raw
	// (possibly unnormalized) as the native library could report it.
	lons map[int]float64

	// delays staggers body completion to exercise arbitrary ordering.
	delays map[int]time.Duration
}

func (f *fakeGateway) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.calls
}

func (f *fakeGateway) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// julianDay implements the standard Gregorian conversion, valid for
// the 1900-2099 range used in these tests.
func julianDay(year, month, day int, hour float64) float64 {
	y, m := float64(year), float64(month)
	return 367*y -
		math.Floor(7*(y+math.Floor((m+9)/12))/4) +
		math.Floor(275*m/9) +
		float64(day) + 1721013.5 + hour/24
}

func (f *fakeGateway) JulianDayUT(year, month, day int, hour float64) (float64, error) {
	f.count()
	if f.julianErr != nil {
		return 0, f.julianErr
	}
	return julianDay(year, month, day, hour), nil
}

func (f *fakeGateway) CalcBody(jd float64, bodyCode int, flags int32) (gateway.BodyResult, error) {
	f.count()
	if d, ok := f.delays[bodyCode]; ok {
		time.Sleep(d)
	}
	if err, ok := f.bodyErrs[bodyCode]; ok {
		return gateway.BodyResult{}, err
	}

	lon := float64(bodyCode)*30 + (jd-2451545.0)*0.1
	if v, ok := f.lons[bodyCode]; ok {
		lon = v
	}
	return gateway.BodyResult{
		Longitude: lon,
		Speed:     1 - float64(bodyCode)*0.05,
	}, nil
}

func (f *fakeGateway) Houses(jd, lat, lon float64, system byte) (gateway.HouseResult, error) {
	f.count()
	if f.houseErr != nil {
		return gateway.HouseResult{}, f.houseErr
	}

	var out gateway.HouseResult
	for i := 1; i <= 12; i++ {
		out.Cusps[i] = float64((i-1)*30) + 5
	}
	out.Ascendant = -45 // raw value the service must normalize
	out.Midheaven = 275.5
	return out, nil
}

func newService(gw gateway.Gateway) *ChartService {
	return NewChartService(gw, nil, zap.NewNop())
}

func TestCurrentPositions_Success(t *testing.T) {
	gw := &fakeGateway{}
	svc := newService(gw)

	now := time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)
	chart, err := svc.CurrentPositions(context.Background(), now)
	require.NoError(t, err)

	// 11 queried bodies plus the derived South Node.
	assert.Len(t, chart.Positions, 12)
	assert.Nil(t, chart.Houses)

	for body, pos := range chart.Positions {
		assert.GreaterOrEqual(t, pos.Longitude, 0.0, "longitude of %s", body)
		assert.Less(t, pos.Longitude, 360.0, "longitude of %s", body)
	}

	// One Julian-day conversion plus one query per native body.
	assert.Equal(t, 1+len(domain.Bodies()), gw.callCount())
}

func TestCurrentPositions_ConversionFailure(t *testing.T) {
	gw := &fakeGateway{julianErr: errors.New("no value")}
	svc := newService(gw)

	_, err := svc.CurrentPositions(context.Background(), time.Now())
	require.Error(t, err)

	var convErr *domain.ConversionError
	assert.ErrorAs(t, err, &convErr)

	// Phase 2 must never start when Phase 1 fails.
	assert.Equal(t, 1, gw.callCount())
}

func TestBirthChart_Success(t *testing.T) {
	gw := &fakeGateway{}
	svc := newService(gw)

	chart, err := svc.BirthChart(context.Background(), domain.BirthData{
		Instant:  domain.Instant{Year: 2000, Month: 6, Day: 21},
		Location: domain.GeoPoint{Lat: 0, Lon: 0},
	})
	require.NoError(t, err)
	require.NotNil(t, chart.Houses)

	// Cusps keyed contiguously 1..12, no gaps.
	assert.Len(t, chart.Houses.Cusps, 12)
	for i := 1; i <= 12; i++ {
		cusp, ok := chart.Houses.Cusps[i]
		require.True(t, ok, "missing cusp %d", i)
		assert.GreaterOrEqual(t, cusp, 0.0)
		assert.Less(t, cusp, 360.0)
	}

	assert.InDelta(t, 315.0, chart.Houses.Ascendant, 1e-9) // -45 normalized
	assert.InDelta(t, 275.5, chart.Houses.Midheaven, 1e-9)

	// Houses plus all bodies plus the conversion.
	assert.Equal(t, 2+len(domain.Bodies()), gw.callCount())
}

func TestBirthChart_BodyFailureAbortsChart(t *testing.T) {
	gw := &fakeGateway{bodyErrs: map[int]error{gateway.SeMars: errors.New("boom")}}
	svc := newService(gw)

	chart, err := svc.BirthChart(context.Background(), domain.BirthData{
		Instant: domain.Instant{Year: 1990, Month: 1, Day: 1, Hour: 12},
	})
	require.Error(t, err)
	assert.Nil(t, chart)

	var bodyErr *domain.BodyCalculationError
	require.ErrorAs(t, err, &bodyErr)
	assert.Equal(t, domain.BodyMars, bodyErr.Body)
}

func TestBirthChart_HouseFailureAbortsChart(t *testing.T) {
	gw := &fakeGateway{houseErr: errors.New("houses unavailable")}
	svc := newService(gw)

	chart, err := svc.BirthChart(context.Background(), domain.BirthData{
		Instant: domain.Instant{Year: 1990, Month: 1, Day: 1, Hour: 12},
	})
	require.Error(t, err)
	assert.Nil(t, chart)

	var houseErr *domain.HouseCalculationError
	assert.ErrorAs(t, err, &houseErr)
}

func TestSouthNodeDerivation(t *testing.T) {
	gw := &fakeGateway{lons: map[int]float64{gateway.SeTrueNode: 125.5}}
	svc := newService(gw)

	chart, err := svc.CurrentPositions(context.Background(), time.Now())
	require.NoError(t, err)

	north := chart.Positions[domain.BodyNorthNode]
	south := chart.Positions[domain.BodySouthNode]
	assert.InDelta(t, 305.5, south.Longitude, 1e-9)
	assert.Equal(t, north.Speed, south.Speed)
	assert.Equal(t, domain.NormalizeDegrees(north.Longitude+180), south.Longitude)
}

func TestLongitudeNormalization(t *testing.T) {
	gw := &fakeGateway{lons: map[int]float64{
		gateway.SeSun:  -15,
		gateway.SeMoon: 370.25,
	}}
	svc := newService(gw)

	chart, err := svc.CurrentPositions(context.Background(), time.Now())
	require.NoError(t, err)

	assert.InDelta(t, 345.0, chart.Positions[domain.BodySun].Longitude, 1e-9)
	assert.InDelta(t, 10.25, chart.Positions[domain.BodyMoon].Longitude, 1e-9)
}

func TestFanOutToleratesArbitraryCompletionOrder(t *testing.T) {
	birth := domain.BirthData{
		Instant:  domain.Instant{Year: 1984, Month: 11, Day: 5, Hour: 7, Minute: 45},
		Location: domain.GeoPoint{Lat: -23.55, Lon: -46.63},
	}

	baseline, err := newService(&fakeGateway{}).BirthChart(context.Background(), birth)
	require.NoError(t, err)

	// Invert completion order: the first bodies finish last.
	delays := make(map[int]time.Duration)
	for i, body := range domain.Bodies() {
		code, _ := gateway.BodyCode(body)
		delays[code] = time.Duration(len(domain.Bodies())-i) * time.Millisecond
	}

	staggered, err := newService(&fakeGateway{delays: delays}).BirthChart(context.Background(), birth)
	require.NoError(t, err)

	assert.Equal(t, baseline.Positions, staggered.Positions)
	assert.Equal(t, baseline.Houses, staggered.Houses)
}

func TestBirthChartIdempotence(t *testing.T) {
	gw := &fakeGateway{}
	svc := newService(gw)

	birth := domain.BirthData{
		Instant:  domain.Instant{Year: 2000, Month: 1, Day: 1, Hour: 12},
		Location: domain.GeoPoint{Lat: 51.5, Lon: -0.12},
	}

	first, err := svc.BirthChart(context.Background(), birth)
	require.NoError(t, err)
	second, err := svc.BirthChart(context.Background(), birth)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestJulianDayEpochAndMonotonicity(t *testing.T) {
	svc := newService(&fakeGateway{})

	epoch := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	chart, err := svc.CurrentPositions(context.Background(), epoch)
	require.NoError(t, err)
	assert.InDelta(t, 2451545.0, chart.JulianDay, 1e-9)

	later, err := svc.CurrentPositions(context.Background(), epoch.Add(36*time.Hour))
	require.NoError(t, err)
	assert.Greater(t, later.JulianDay, chart.JulianDay)
	assert.InDelta(t, 1.5, later.JulianDay-chart.JulianDay, 1e-9)
}

func TestBirthChart_CacheHitSkipsGateway(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := repository.NewChartCache(client, time.Hour)

	gw := &fakeGateway{}
	svc := NewChartService(gw, cache, zap.NewNop())

	birth := domain.BirthData{
		Instant:  domain.Instant{Year: 1969, Month: 7, Day: 20, Hour: 20, Minute: 17},
		Location: domain.GeoPoint{Lat: 28.6, Lon: -80.6},
	}

	first, err := svc.BirthChart(context.Background(), birth)
	require.NoError(t, err)
	callsAfterFirst := gw.callCount()

	second, err := svc.BirthChart(context.Background(), birth)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, callsAfterFirst, gw.callCount(), "cache hit must not touch the gateway")
}
