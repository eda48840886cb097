package cronjob

import (
	"sync"
	"time"

	"github.com/astromapa/astromapa-backend/internal/astro/domain"
	"github.com/astromapa/astromapa-backend/internal/astro/gateway"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Probe periodically exercises the ephemeris gateway with a minimal
// computation (current Julian day + one Sun position) and records the
// outcome for the health endpoint. It is an operational check only and
// never touches request handling.
type Probe struct {
	gw     gateway.Gateway
	logger *zap.Logger

	mu      sync.RWMutex
	ran     bool
	healthy bool
	lastRun time.Time

	c *cron.Cron
}

// NewProbe creates a Probe over the given gateway.
func NewProbe(gw gateway.Gateway, logger *zap.Logger) *Probe {
	return &Probe{gw: gw, logger: logger}
}

// Start runs the probe once immediately, then on the given cron
// schedule (standard 5-field spec or a @descriptor).
func (p *Probe) Start(schedule string) error {
	p.c = cron.New()
	if _, err := p.c.AddFunc(schedule, p.run); err != nil {
		return err
	}

	p.run()
	p.c.Start()
	p.logger.Info("ephemeris probe scheduler started", zap.String("schedule", schedule))
	return nil
}

// Stop halts the schedule. A run already in flight completes.
func (p *Probe) Stop() {
	if p.c != nil {
		p.c.Stop()
	}
}

// Status reports the last probe outcome: "up", "down", or "unknown"
// before the first run has finished.
func (p *Probe) Status() string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.ran {
		return "unknown"
	}
	if p.healthy {
		return "up"
	}
	return "down"
}

// LastRun returns when the probe last completed.
func (p *Probe) LastRun() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastRun
}

func (p *Probe) run() {
	now := domain.InstantFromTime(time.Now())

	healthy := true
	jd, err := p.gw.JulianDayUT(now.Year, now.Month, now.Day, now.FractionalHour())
	if err != nil {
		p.logger.Warn("ephemeris probe: julian day conversion failed", zap.Error(err))
		healthy = false
	} else if _, err := p.gw.CalcBody(jd, gateway.SeSun, gateway.SeflgSpeed); err != nil {
		p.logger.Warn("ephemeris probe: sun position failed", zap.Error(err))
		healthy = false
	}

	p.mu.Lock()
	p.ran = true
	p.healthy = healthy
	p.lastRun = time.Now().UTC()
	p.mu.Unlock()
}
