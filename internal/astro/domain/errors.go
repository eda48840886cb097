package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrGatewayUnavailable is returned by builds without the native
	// ephemeris binding.
	ErrGatewayUnavailable = errors.New("ephemeris gateway unavailable")

	// ErrUnknownBody indicates a body with no ephemeris code mapping.
	ErrUnknownBody = errors.New("unknown celestial body")
)

// ConversionError signals a failed civil-time to Julian-day conversion.
// It aborts the whole chart computation.
type ConversionError struct {
	Err error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("julian day conversion failed: %v", e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// BodyCalculationError signals that one specific body query failed.
type BodyCalculationError struct {
	Body Body
	Err  error
}

func (e *BodyCalculationError) Error() string {
	return fmt.Sprintf("calculation failed for %s: %v", e.Body, e.Err)
}

func (e *BodyCalculationError) Unwrap() error { return e.Err }

// HouseCalculationError signals that the house-cusp query failed.
type HouseCalculationError struct {
	Err error
}

func (e *HouseCalculationError) Error() string {
	return fmt.Sprintf("house calculation failed: %v", e.Err)
}

func (e *HouseCalculationError) Unwrap() error { return e.Err }
