//go:build cgo

package gateway

/*
#cgo CFLAGS: -I/usr/include/swisseph -I/usr/local/include/swisseph
#cgo LDFLAGS: -lswe -lm -ldl

#include <stdlib.h>
#include "swephexp.h"
*/
import "C"

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"
)

// Ensure Sweph implements the interface.
var _ Gateway = (*Sweph)(nil)

// Sweph is the cgo binding to the Swiss Ephemeris library. The library
// keeps internal static state, so calls are serialized with a mutex.
// The configured data-file path is process-wide and set once in Open.
type Sweph struct {
	mu sync.Mutex
}

// Open configures the ephemeris data-file search path and returns the
// binding. Must be called once, before any request is served. With an
// empty path the library falls back to its built-in Moshier ephemeris.
func Open(ephePath string) (*Sweph, error) {
	if ephePath != "" {
		cpath := C.CString(ephePath)
		defer C.free(unsafe.Pointer(cpath))
		C.swe_set_ephe_path(cpath)
	}
	return &Sweph{}, nil
}

// Close releases the library's file handles and internal buffers.
func (s *Sweph) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	C.swe_close()
}

// Version reports the linked Swiss Ephemeris version string.
func (s *Sweph) Version() string {
	var buf [256]C.char
	C.swe_version(&buf[0])
	return C.GoString(&buf[0])
}

func (s *Sweph) JulianDayUT(year, month, day int, hour float64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	jd := float64(C.swe_julday(C.int(year), C.int(month), C.int(day), C.double(hour), C.int(SeGregCal)))
	if jd == 0 {
		return 0, errors.New("swe_julday returned no value")
	}
	return jd, nil
}

func (s *Sweph) CalcBody(jd float64, bodyCode int, flags int32) (BodyResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var xx [6]C.double
	var serr [C.AS_MAXCH]C.char

	rc := C.swe_calc_ut(C.double(jd), C.int(bodyCode), C.int(flags), &xx[0], &serr[0])
	if rc < 0 {
		return BodyResult{}, fmt.Errorf("swe_calc_ut: %s", C.GoString(&serr[0]))
	}
	return BodyResult{
		Longitude: float64(xx[0]),
		Speed:     float64(xx[3]),
	}, nil
}

func (s *Sweph) Houses(jd, lat, lon float64, system byte) (HouseResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cusps [13]C.double
	var ascmc [10]C.double

	rc := C.swe_houses(C.double(jd), C.double(lat), C.double(lon), C.int(system), &cusps[0], &ascmc[0])
	if rc < 0 {
		return HouseResult{}, errors.New("swe_houses failed")
	}

	var out HouseResult
	for i := 1; i <= 12; i++ {
		out.Cusps[i] = float64(cusps[i])
	}
	out.Ascendant = float64(ascmc[0])
	out.Midheaven = float64(ascmc[1])
	return out, nil
}
