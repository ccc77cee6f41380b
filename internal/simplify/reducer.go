package simplify

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	orbsimplify "github.com/paulmach/orb/simplify"
)

// Reducer drops points from an ordered sequence while keeping the curve
// within tolerance of the original. Implementations must keep the first and
// last point, be deterministic and leave pts untouched.
type Reducer interface {
	Reduce(pts []Point, tolerance float64, highQuality bool) []Point
}

// OrbReducer reduces with orb's simplifiers. High quality runs Douglas-Peucker
// alone; otherwise a radial-distance pass thins the points first.
type OrbReducer struct{}

var _ Reducer = OrbReducer{}

func (OrbReducer) Reduce(pts []Point, tolerance float64, highQuality bool) []Point {
	if len(pts) <= 2 {
		return append([]Point(nil), pts...)
	}
	// orb simplifies in place, so work on a copy
	ls := make(orb.LineString, len(pts))
	for i, p := range pts {
		ls[i] = orb.Point{p.X, p.Y}
	}
	if !highQuality {
		ls = orbsimplify.Radial(planar.Distance, tolerance).LineString(ls)
	}
	ls = orbsimplify.DouglasPeucker(tolerance).LineString(ls)

	out := make([]Point, len(ls))
	for i, p := range ls {
		out[i] = Point{X: p[0], Y: p[1]}
	}
	return out
}

// ReducerFunc adapts a function to Reducer.
type ReducerFunc func(pts []Point, tolerance float64, highQuality bool) []Point

func (f ReducerFunc) Reduce(pts []Point, tolerance float64, highQuality bool) []Point {
	return f(pts, tolerance, highQuality)
}
