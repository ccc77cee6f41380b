// Package simplify reduces the vertex count of LineString and Polygon
// features within a tolerance. Polygon rings are repaired by relaxing the
// tolerance until they enclose an area again.
package simplify

import (
	"math"

	"github.com/pkg/errors"

	"geosimplify/internal/geom"
)

// DefaultMaxRepairIterations bounds the per-ring tolerance relaxation.
// 0.99^5000 shrinks any tolerance by roughly 22 orders of magnitude.
const DefaultMaxRepairIterations = 5000

// relaxFactor is the share of the current tolerance dropped per repair step.
const relaxFactor = 0.01

// Stats describes the work done by one or more Simplify calls.
type Stats struct {
	Features         int
	InputCoords      int
	OutputCoords     int
	RepairIterations int
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Features += o.Features
	s.InputCoords += o.InputCoords
	s.OutputCoords += o.OutputCoords
	s.RepairIterations += o.RepairIterations
}

type Simplifier struct {
	reducer             Reducer
	maxRepairIterations int
}

type Option func(*Simplifier)

// WithReducer replaces the default orb-backed reducer.
func WithReducer(r Reducer) Option {
	return func(s *Simplifier) { s.reducer = r }
}

// WithMaxRepairIterations sets the repair bound. Values below 1 keep the default.
func WithMaxRepairIterations(n int) Option {
	return func(s *Simplifier) {
		if n > 0 {
			s.maxRepairIterations = n
		}
	}
}

func New(opts ...Option) *Simplifier {
	s := &Simplifier{
		reducer:             OrbReducer{},
		maxRepairIterations: DefaultMaxRepairIterations,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

var defaultSimplifier = New()

// Simplify simplifies f with the default reducer.
func Simplify(f geom.Feature, tolerance float64, highQuality bool) (geom.Feature, error) {
	return defaultSimplifier.Simplify(f, tolerance, highQuality)
}

// Simplify returns a new feature of the same kind with fewer vertices. The
// properties of f are carried over as is; f itself is not modified.
func (s *Simplifier) Simplify(f geom.Feature, tolerance float64, highQuality bool) (geom.Feature, error) {
	out, _, err := s.SimplifyWithStats(f, tolerance, highQuality)
	return out, err
}

// SimplifyWithStats is Simplify reporting vertex counts and repair steps.
func (s *Simplifier) SimplifyWithStats(f geom.Feature, tolerance float64, highQuality bool) (geom.Feature, Stats, error) {
	if !(tolerance > 0) || math.IsInf(tolerance, 1) {
		return geom.Feature{}, Stats{}, errors.Wrapf(ErrInvalidTolerance, "got %v", tolerance)
	}
	var (
		g       geom.Geometry
		repairs int
	)
	switch f.Geometry.Kind {
	case geom.KindLineString:
		g = geom.NewLineString(s.reduce(toPoints(f.Geometry.Line), tolerance, highQuality))
	case geom.KindPolygon:
		rings, n, err := s.simplifyPolygon(f.Geometry.Polygon, tolerance, highQuality)
		if err != nil {
			return geom.Feature{}, Stats{}, err
		}
		g, repairs = geom.NewPolygon(rings), n
	default:
		return geom.Feature{}, Stats{}, errors.Wrapf(ErrUnsupportedGeometryKind, "%q", string(f.Geometry.Kind))
	}
	st := Stats{
		Features:         1,
		InputCoords:      f.Geometry.NumCoords(),
		OutputCoords:     g.NumCoords(),
		RepairIterations: repairs,
	}
	return geom.Feature{ID: f.ID, Geometry: g, Properties: f.Properties}, st, nil
}

func (s *Simplifier) reduce(pts []Point, tolerance float64, highQuality bool) [][2]float64 {
	return toCoords(s.reducer.Reduce(pts, tolerance, highQuality))
}

func (s *Simplifier) simplifyPolygon(rings [][][2]float64, tolerance float64, highQuality bool) ([][][2]float64, int, error) {
	// every ring is checked before any reduction runs
	for i, ring := range rings {
		if len(ring) < 4 {
			return nil, 0, &RingError{Ring: i, Len: len(ring), Err: ErrInvalidPolygon}
		}
	}
	out := make([][][2]float64, 0, len(rings))
	total := 0
	for i, ring := range rings {
		// each ring starts again from the caller's tolerance
		r, n, err := s.simplifyRing(ring, tolerance, highQuality)
		total += n
		if err != nil {
			return nil, total, &RingError{Ring: i, Len: len(ring), Err: err}
		}
		out = append(out, r)
	}
	return out, total, nil
}

func (s *Simplifier) simplifyRing(ring [][2]float64, tolerance float64, highQuality bool) ([][2]float64, int, error) {
	pts := toPoints(ring)
	candidate := s.reduce(pts, tolerance, highQuality)
	n := 0
	for !encloses(candidate) {
		if n >= s.maxRepairIterations {
			return nil, n, errors.Wrapf(ErrRepairLoopNonConvergence, "after %d iterations", n)
		}
		tolerance -= tolerance * relaxFactor
		if !(tolerance > 0) {
			return nil, n, errors.Wrap(ErrRepairLoopNonConvergence, "tolerance underflow")
		}
		n++
		candidate = s.reduce(pts, tolerance, highQuality)
	}
	if len(candidate) == 3 {
		candidate = append(candidate, candidate[0])
	}
	return candidate, n, nil
}

// encloses reports whether ring can still bound an area: at least three
// coordinates, and not a single point repeated as its own closure.
func encloses(ring [][2]float64) bool {
	if len(ring) < 3 {
		return false
	}
	return !(len(ring) == 3 && ring[0] == ring[2])
}
