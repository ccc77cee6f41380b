package geom

import "github.com/paulmach/orb/geojson"

// Kind is the GeoJSON geometry type name.
type Kind string

const (
	KindPoint              Kind = "Point"
	KindMultiPoint         Kind = "MultiPoint"
	KindLineString         Kind = "LineString"
	KindMultiLineString    Kind = "MultiLineString"
	KindPolygon            Kind = "Polygon"
	KindMultiPolygon       Kind = "MultiPolygon"
	KindGeometryCollection Kind = "GeometryCollection"
)

// FeatureType is the discriminator written for every encoded feature.
const FeatureType = "Feature"

type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Extend grows b to cover pt. The zero BBox is treated as empty when first is true.
func (b BBox) Extend(pt [2]float64, first bool) BBox {
	if first {
		return BBox{MinX: pt[0], MinY: pt[1], MaxX: pt[0], MaxY: pt[1]}
	}
	if pt[0] < b.MinX {
		b.MinX = pt[0]
	}
	if pt[1] < b.MinY {
		b.MinY = pt[1]
	}
	if pt[0] > b.MaxX {
		b.MaxX = pt[0]
	}
	if pt[1] > b.MaxY {
		b.MaxY = pt[1]
	}
	return b
}

// HasArea reports whether b spans a non-zero extent on both axes.
func (b BBox) HasArea() bool {
	return b.MaxX > b.MinX && b.MaxY > b.MinY
}

// Geometry is a LineString or a Polygon. Other kinds are carried by Kind only
// so callers can reject them.
type Geometry struct {
	Kind    Kind
	Line    [][2]float64
	Polygon [][][2]float64 // first ring outer, following rings holes
}

// NewLineString returns a LineString geometry over coords.
func NewLineString(coords [][2]float64) Geometry {
	return Geometry{Kind: KindLineString, Line: coords}
}

// NewPolygon returns a Polygon geometry over rings.
func NewPolygon(rings [][][2]float64) Geometry {
	return Geometry{Kind: KindPolygon, Polygon: rings}
}

// NumCoords counts all coordinates in g.
func (g Geometry) NumCoords() int {
	switch g.Kind {
	case KindLineString:
		return len(g.Line)
	case KindPolygon:
		n := 0
		for _, r := range g.Polygon {
			n += len(r)
		}
		return n
	}
	return 0
}

// Bound returns the extent of g and false when g has no coordinates.
func (g Geometry) Bound() (BBox, bool) {
	var bb BBox
	n := 0
	add := func(pt [2]float64) {
		bb = bb.Extend(pt, n == 0)
		n++
	}
	for _, p := range g.Line {
		add(p)
	}
	for _, ring := range g.Polygon {
		for _, p := range ring {
			add(p)
		}
	}
	return bb, n > 0
}

// Feature is a geometry with opaque properties.
type Feature struct {
	ID         any
	Geometry   Geometry
	Properties geojson.Properties
}

// Data is a minimal geometry container for rendering
type Data struct {
	Lines    [][][2]float64
	Polygons [][][][2]float64 // polygons with rings (first outer, following holes)
	BBox     BBox
}

// NewData flattens features into render buffers. Unsupported kinds are skipped.
func NewData(features []Feature) Data {
	var d Data
	n := 0
	add := func(pt [2]float64) {
		d.BBox = d.BBox.Extend(pt, n == 0)
		n++
	}
	for _, f := range features {
		switch f.Geometry.Kind {
		case KindLineString:
			d.Lines = append(d.Lines, f.Geometry.Line)
			for _, p := range f.Geometry.Line {
				add(p)
			}
		case KindPolygon:
			d.Polygons = append(d.Polygons, f.Geometry.Polygon)
			for _, ring := range f.Geometry.Polygon {
				for _, p := range ring {
					add(p)
				}
			}
		}
	}
	return d
}

// Union returns the extent covering both a and b.
func (a Data) Union(b Data) BBox {
	bb := a.BBox
	if len(a.Lines)+len(a.Polygons) == 0 {
		return b.BBox
	}
	if len(b.Lines)+len(b.Polygons) == 0 {
		return bb
	}
	bb = bb.Extend([2]float64{b.BBox.MinX, b.BBox.MinY}, false)
	return bb.Extend([2]float64{b.BBox.MaxX, b.BBox.MaxY}, false)
}
