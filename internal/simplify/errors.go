package simplify

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidPolygon is returned when a polygon ring has fewer than 4 coordinates.
	ErrInvalidPolygon = errors.New("invalid polygon: ring must have at least 4 coordinates")
	// ErrUnsupportedGeometryKind is returned for anything but LineString and Polygon.
	ErrUnsupportedGeometryKind = errors.New("unsupported geometry kind")
	// ErrRepairLoopNonConvergence is returned when relaxing the tolerance did
	// not yield a valid ring within the iteration bound.
	ErrRepairLoopNonConvergence = errors.New("ring repair did not converge")
	ErrInvalidTolerance         = errors.New("tolerance must be positive and finite")
)

// RingError ties a polygon failure to the ring that caused it.
type RingError struct {
	Ring int // 0 is the outer boundary
	Len  int
	Err  error
}

func (e *RingError) Error() string {
	return fmt.Sprintf("ring %d (%d coordinates): %v", e.Ring, e.Len, e.Err)
}

func (e *RingError) Unwrap() error { return e.Err }
