//go:build !cgo

package gateway

import "github.com/astromapa/astromapa-backend/internal/astro/domain"

// Ensure Sweph implements the interface.
var _ Gateway = (*Sweph)(nil)

// Sweph is a stub for builds without CGO. Every primitive reports the
// gateway as unavailable.
type Sweph struct{}

// Open is a stub for builds without CGO.
func Open(ephePath string) (*Sweph, error) {
	return &Sweph{}, nil
}

func (s *Sweph) Close() {}

func (s *Sweph) Version() string { return "unavailable" }

func (s *Sweph) JulianDayUT(year, month, day int, hour float64) (float64, error) {
	return 0, domain.ErrGatewayUnavailable
}

func (s *Sweph) CalcBody(jd float64, bodyCode int, flags int32) (BodyResult, error) {
	return BodyResult{}, domain.ErrGatewayUnavailable
}

func (s *Sweph) Houses(jd, lat, lon float64, system byte) (HouseResult, error) {
	return HouseResult{}, domain.ErrGatewayUnavailable
}
