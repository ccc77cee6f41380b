package simplify

import (
	"math"
	"reflect"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"geosimplify/internal/geom"
)

// santiago is a roughly circular ring of 20 coordinates.
var santiago = [][2]float64{
	{-70.603637, -33.399918},
	{-70.614624, -33.395332},
	{-70.639343, -33.392466},
	{-70.659942, -33.394759},
	{-70.683975, -33.404504},
	{-70.697021, -33.419406},
	{-70.701141, -33.434306},
	{-70.700454, -33.446339},
	{-70.694274, -33.458369},
	{-70.682601, -33.465816},
	{-70.668869, -33.472117},
	{-70.646209, -33.473835},
	{-70.624923, -33.472117},
	{-70.609817, -33.468107},
	{-70.595397, -33.458369},
	{-70.587158, -33.442901},
	{-70.587158, -33.426283},
	{-70.590591, -33.414248},
	{-70.594711, -33.406224},
	{-70.603637, -33.399918},
}

func mustWKT(t *testing.T, s string) geom.Feature {
	t.Helper()
	g, err := geom.ParseWKT(s)
	require.NoError(t, err)
	return geom.Feature{Geometry: g, Properties: map[string]any{"name": "test"}}
}

func sine(n int) [][2]float64 {
	out := make([][2]float64, n)
	for i := range out {
		x := float64(i) / 10
		out[i] = [2]float64{x, math.Sin(x) + 0.3*math.Sin(3*x)}
	}
	return out
}

func TestSimplify(t *testing.T) {
	testCases := []struct {
		desc        string
		wkt         string
		tolerance   float64
		highQuality bool
		expectedWKT string
	}{
		{
			desc:        "collinear line",
			wkt:         "LINESTRING(0 0, 1 1, 2 2)",
			tolerance:   1,
			expectedWKT: "LINESTRING(0 0, 2 2)",
		},
		{
			desc:        "line, remove some elements",
			wkt:         "LINESTRING(10 10, 20 10, 20 15, 20 20, 15 20, 15.5 21.1, 10 20)",
			tolerance:   9,
			highQuality: true,
			expectedWKT: "LINESTRING(10 10, 20 10, 10 20)",
		},
		{
			desc:        "line, remove some elements with radial pass",
			wkt:         "LINESTRING(10 10, 20 10, 20 15, 20 20, 15 20, 15.5 21.1, 10 20)",
			tolerance:   9,
			expectedWKT: "LINESTRING(10 10, 20 10, 10 20)",
		},
		{
			desc:        "two point line",
			wkt:         "LINESTRING(0 0, 5 5)",
			tolerance:   100,
			expectedWKT: "LINESTRING(0 0, 5 5)",
		},
		{
			desc:        "polygon with nothing to remove",
			wkt:         "POLYGON((0 0, 100 0, 100 100, 0 100, 0 0), (20 20, 20 40, 40 40, 40 20, 20 20))",
			tolerance:   10,
			highQuality: true,
			expectedWKT: "POLYGON((0 0, 100 0, 100 100, 0 100, 0 0), (20 20, 20 40, 40 40, 40 20, 20 20))",
		},
		{
			desc:        "polygon collapses and is repaired",
			wkt:         "POLYGON((0 0, 10 0, 10 10, 0 10, 0 0))",
			tolerance:   20,
			highQuality: true,
			expectedWKT: "POLYGON((0 0, 10 0, 10 10, 0 10, 0 0))",
		},
		{
			desc:        "open ring reduces to a triangle and is closed",
			wkt:         "POLYGON((0 0, 10 0, 10 10, 0 10))",
			tolerance:   8,
			highQuality: true,
			expectedWKT: "POLYGON((0 0, 10 0, 0 10, 0 0))",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			in := mustWKT(t, tc.wkt)
			out, err := Simplify(in, tc.tolerance, tc.highQuality)
			require.NoError(t, err)
			expected, err := geom.ParseWKT(tc.expectedWKT)
			require.NoError(t, err)
			require.Equal(t, expected, out.Geometry)
			require.Equal(t, in.Properties, out.Properties)
		})
	}
}

func TestSimplifyErrors(t *testing.T) {
	testCases := []struct {
		desc      string
		feature   geom.Feature
		tolerance float64
		expected  error
	}{
		{
			desc:      "three coordinate ring",
			feature:   geom.Feature{Geometry: geom.NewPolygon([][][2]float64{{{0, 0}, {1, 0}, {0, 0}}})},
			tolerance: 1,
			expected:  ErrInvalidPolygon,
		},
		{
			desc: "short hole",
			feature: geom.Feature{Geometry: geom.NewPolygon([][][2]float64{
				{{0, 0}, {10, 0}, {10, 10}, {0, 0}},
				{{1, 1}, {2, 2}},
			})},
			tolerance: 1,
			expected:  ErrInvalidPolygon,
		},
		{
			desc:      "point",
			feature:   geom.Feature{Geometry: geom.Geometry{Kind: geom.KindPoint}},
			tolerance: 1,
			expected:  ErrUnsupportedGeometryKind,
		},
		{
			desc:      "multi polygon",
			feature:   geom.Feature{Geometry: geom.Geometry{Kind: geom.KindMultiPolygon}},
			tolerance: 1,
			expected:  ErrUnsupportedGeometryKind,
		},
		{
			desc:      "missing geometry",
			feature:   geom.Feature{},
			tolerance: 1,
			expected:  ErrUnsupportedGeometryKind,
		},
		{
			desc:      "zero tolerance",
			feature:   geom.Feature{Geometry: geom.NewLineString([][2]float64{{0, 0}, {1, 1}})},
			tolerance: 0,
			expected:  ErrInvalidTolerance,
		},
		{
			desc:      "negative tolerance",
			feature:   geom.Feature{Geometry: geom.NewLineString([][2]float64{{0, 0}, {1, 1}})},
			tolerance: -1,
			expected:  ErrInvalidTolerance,
		},
		{
			desc:      "NaN tolerance",
			feature:   geom.Feature{Geometry: geom.NewLineString([][2]float64{{0, 0}, {1, 1}})},
			tolerance: math.NaN(),
			expected:  ErrInvalidTolerance,
		},
		{
			desc:      "Inf tolerance",
			feature:   geom.Feature{Geometry: geom.NewLineString([][2]float64{{0, 0}, {1, 1}})},
			tolerance: math.Inf(1),
			expected:  ErrInvalidTolerance,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			calls := 0
			s := New(WithReducer(ReducerFunc(func(pts []Point, tol float64, hq bool) []Point {
				calls++
				return OrbReducer{}.Reduce(pts, tol, hq)
			})))
			_, err := s.Simplify(tc.feature, tc.tolerance, false)
			require.Error(t, err)
			require.True(t, errors.Is(err, tc.expected), "got %v", err)
			require.Zero(t, calls)
		})
	}
}

func TestInvalidPolygonNamesRing(t *testing.T) {
	f := geom.Feature{Geometry: geom.NewPolygon([][][2]float64{
		{{0, 0}, {10, 0}, {10, 10}, {0, 0}},
		{{1, 1}, {2, 1}, {1, 1}},
	})}
	_, err := Simplify(f, 1, false)
	var re *RingError
	require.True(t, errors.As(err, &re))
	require.Equal(t, 1, re.Ring)
	require.Equal(t, 3, re.Len)
}

func TestSimplifyLineProperties(t *testing.T) {
	line := sine(200)
	for _, hq := range []bool{false, true} {
		for _, tol := range []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5} {
			in := geom.Feature{Geometry: geom.NewLineString(line)}
			out, err := Simplify(in, tol, hq)
			require.NoError(t, err)
			got := out.Geometry.Line
			require.Equal(t, geom.KindLineString, out.Geometry.Kind)
			require.LessOrEqual(t, len(got), len(line))
			require.Equal(t, line[0], got[0])
			require.Equal(t, line[len(line)-1], got[len(got)-1])

			again, err := Simplify(out, tol, hq)
			require.NoError(t, err)
			require.LessOrEqual(t, len(again.Geometry.Line), len(got))
		}
	}
}

func TestSimplifyToleranceMonotonic(t *testing.T) {
	in := geom.Feature{Geometry: geom.NewLineString(sine(300))}
	prev := math.MaxInt
	for _, tol := range []float64{0.0001, 0.001, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1, 2} {
		out, err := Simplify(in, tol, true)
		require.NoError(t, err)
		n := len(out.Geometry.Line)
		require.LessOrEqual(t, n, prev, "tolerance %v", tol)
		prev = n
	}
}

func TestSimplifyPolygonRings(t *testing.T) {
	for _, hq := range []bool{false, true} {
		for _, tol := range []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 1, 10} {
			in := geom.Feature{Geometry: geom.NewPolygon([][][2]float64{santiago})}
			out, err := Simplify(in, tol, hq)
			require.NoError(t, err)
			require.Equal(t, geom.KindPolygon, out.Geometry.Kind)
			require.Len(t, out.Geometry.Polygon, 1)
			ring := out.Geometry.Polygon[0]
			require.GreaterOrEqual(t, len(ring), 4, "tolerance %v", tol)
			require.Equal(t, ring[0], ring[len(ring)-1])
			distinct := map[[2]float64]struct{}{}
			for _, c := range ring {
				distinct[c] = struct{}{}
			}
			require.GreaterOrEqual(t, len(distinct), 3)
		}
	}
}

func TestSimplifyExampleRing(t *testing.T) {
	in := geom.Feature{
		Geometry:   geom.NewPolygon([][][2]float64{santiago}),
		Properties: map[string]any{},
	}
	out, err := Simplify(in, 0.01, false)
	require.NoError(t, err)
	ring := out.Geometry.Polygon[0]
	require.Less(t, len(ring), 20)
	require.GreaterOrEqual(t, len(ring), 4)
	require.Equal(t, ring[0], ring[len(ring)-1])
}

func TestSimplifyKeepsProperties(t *testing.T) {
	props := map[string]any{"name": "santiago", "nested": map[string]any{"a": 1.0}}
	in := geom.Feature{ID: "cl-13", Geometry: geom.NewPolygon([][][2]float64{santiago}), Properties: props}
	out, err := Simplify(in, 0.01, true)
	require.NoError(t, err)
	require.Equal(t, "cl-13", out.ID)
	require.Equal(t, reflect.ValueOf(in.Properties).Pointer(), reflect.ValueOf(out.Properties).Pointer())
	require.Equal(t, props, map[string]any(out.Properties))
}

func TestSimplifyDoesNotMutateInput(t *testing.T) {
	ring := append([][2]float64(nil), santiago...)
	line := sine(50)
	lineCopy := append([][2]float64(nil), line...)

	_, err := Simplify(geom.Feature{Geometry: geom.NewPolygon([][][2]float64{ring})}, 0.05, false)
	require.NoError(t, err)
	require.Equal(t, santiago, ring)

	_, err = Simplify(geom.Feature{Geometry: geom.NewLineString(line)}, 0.5, true)
	require.NoError(t, err)
	require.Equal(t, lineCopy, line)
}

func TestRepairLoop(t *testing.T) {
	in := mustWKT(t, "POLYGON((0 0, 10 0, 10 10, 0 10, 0 0))")
	_, st, err := New().SimplifyWithStats(in, 20, true)
	require.NoError(t, err)
	// 20 * 0.99^104 is the first tolerance below 10/sqrt(2)
	require.Equal(t, 104, st.RepairIterations)
	require.Equal(t, 5, st.InputCoords)
	require.Equal(t, 5, st.OutputCoords)
}

func TestRepairLoopBounded(t *testing.T) {
	calls := 0
	collapse := ReducerFunc(func(pts []Point, _ float64, _ bool) []Point {
		calls++
		return []Point{pts[0], pts[len(pts)-1]}
	})
	s := New(WithReducer(collapse), WithMaxRepairIterations(10))
	in := mustWKT(t, "POLYGON((0 0, 10 0, 10 10, 0 10, 0 0))")
	_, err := s.Simplify(in, 1, false)
	require.True(t, errors.Is(err, ErrRepairLoopNonConvergence), "got %v", err)
	var re *RingError
	require.True(t, errors.As(err, &re))
	require.Equal(t, 0, re.Ring)
	require.Equal(t, 11, calls)
}

func TestRepairToleranceIsPerRing(t *testing.T) {
	var firstTol []float64
	seen := map[Point]bool{}
	r := ReducerFunc(func(pts []Point, tol float64, _ bool) []Point {
		if !seen[pts[0]] {
			seen[pts[0]] = true
			firstTol = append(firstTol, tol)
		}
		if tol > 0.5 {
			return []Point{pts[0], pts[len(pts)-1]}
		}
		return append([]Point(nil), pts...)
	})
	in := mustWKT(t, "POLYGON((0 0, 10 0, 10 10, 0 10, 0 0), (2 2, 2 4, 4 4, 4 2, 2 2))")
	out, st, err := New(WithReducer(r)).SimplifyWithStats(in, 1, false)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 1}, firstTol)
	require.Len(t, out.Geometry.Polygon, 2)
	// 0.99^69 is the first step at or below 0.5
	require.Equal(t, 2*69, st.RepairIterations)
}

func TestTriangleClosure(t *testing.T) {
	tri := ReducerFunc(func(pts []Point, _ float64, _ bool) []Point {
		return []Point{pts[0], pts[1], pts[2]}
	})
	in := geom.Feature{Geometry: geom.NewPolygon([][][2]float64{{{0, 0}, {4, 0}, {0, 3}, {0, 0}}})}
	out, err := New(WithReducer(tri)).Simplify(in, 1, false)
	require.NoError(t, err)
	require.Equal(t, [][][2]float64{{{0, 0}, {4, 0}, {0, 3}, {0, 0}}}, out.Geometry.Polygon)
}

func TestEncloses(t *testing.T) {
	testCases := []struct {
		desc     string
		ring     [][2]float64
		expected bool
	}{
		{desc: "empty", ring: nil, expected: false},
		{desc: "two points", ring: [][2]float64{{0, 0}, {1, 1}}, expected: false},
		{desc: "point and back", ring: [][2]float64{{0, 0}, {1, 1}, {0, 0}}, expected: false},
		{desc: "open triangle", ring: [][2]float64{{0, 0}, {1, 0}, {0, 1}}, expected: true},
		{desc: "closed triangle", ring: [][2]float64{{0, 0}, {1, 0}, {0, 1}, {0, 0}}, expected: true},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			require.Equal(t, tc.expected, encloses(tc.ring))
		})
	}
}
