package geom

import (
	"encoding/json"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
)

// DecodeGeoJSON reads a Feature, a FeatureCollection or a bare geometry.
// A bare geometry is wrapped in a feature with empty properties.
func DecodeGeoJSON(data []byte) ([]Feature, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, errors.Wrap(err, "geojson")
	}
	switch head.Type {
	case "":
		return nil, errors.New("invalid geojson: missing type")
	case FeatureType:
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, errors.Wrap(err, "geojson feature")
		}
		return []Feature{fromOrbFeature(f)}, nil
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, errors.Wrap(err, "geojson feature collection")
		}
		out := make([]Feature, 0, len(fc.Features))
		for _, f := range fc.Features {
			out = append(out, fromOrbFeature(f))
		}
		return out, nil
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, errors.Wrapf(err, "geojson %s", head.Type)
		}
		return []Feature{{Geometry: FromOrb(g.Geometry()), Properties: geojson.Properties{}}}, nil
	}
}

// LoadGeo reads a GeoJSON file.
func LoadGeo(path string) ([]Feature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fs, err := DecodeGeoJSON(data)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	if len(fs) == 0 {
		return nil, errors.New("no geometries found")
	}
	return fs, nil
}

type featureDoc struct {
	ID         any                `json:"id,omitempty"`
	Type       string             `json:"type"`
	Geometry   *geojson.Geometry  `json:"geometry"`
	Properties geojson.Properties `json:"properties"`
}

type collectionDoc struct {
	Type     string       `json:"type"`
	Features []featureDoc `json:"features"`
}

// EncodeGeoJSON writes a single feature as a Feature and anything else as a
// FeatureCollection. Properties are written as given, an empty map stays {}.
func EncodeGeoJSON(features []Feature) ([]byte, error) {
	docs := make([]featureDoc, 0, len(features))
	for i, f := range features {
		g, err := ToOrb(f.Geometry)
		if err != nil {
			return nil, errors.Wrapf(err, "feature %d", i)
		}
		docs = append(docs, featureDoc{
			ID:         f.ID,
			Type:       FeatureType,
			Geometry:   geojson.NewGeometry(g),
			Properties: f.Properties,
		})
	}
	if len(docs) == 1 {
		return json.Marshal(docs[0])
	}
	return json.Marshal(collectionDoc{Type: "FeatureCollection", Features: docs})
}

func fromOrbFeature(f *geojson.Feature) Feature {
	return Feature{ID: f.ID, Geometry: FromOrb(f.Geometry), Properties: f.Properties}
}

// FromOrb converts an orb geometry. Coordinates are copied. Kinds other than
// LineString and Polygon keep only their Kind.
func FromOrb(g orb.Geometry) Geometry {
	switch v := g.(type) {
	case nil:
		return Geometry{}
	case orb.LineString:
		return NewLineString(fromOrbPoints(v))
	case orb.Polygon:
		rings := make([][][2]float64, 0, len(v))
		for _, r := range v {
			rings = append(rings, fromOrbPoints(r))
		}
		return NewPolygon(rings)
	case orb.Ring:
		return NewPolygon([][][2]float64{fromOrbPoints(v)})
	default:
		return Geometry{Kind: Kind(g.GeoJSONType())}
	}
}

func fromOrbPoints[P ~[]orb.Point](pts P) [][2]float64 {
	out := make([][2]float64, len(pts))
	for i, p := range pts {
		out[i] = p
	}
	return out
}

// ToOrb converts g for encoding.
func ToOrb(g Geometry) (orb.Geometry, error) {
	switch g.Kind {
	case KindLineString:
		return orb.LineString(toOrbPoints(g.Line)), nil
	case KindPolygon:
		p := make(orb.Polygon, 0, len(g.Polygon))
		for _, r := range g.Polygon {
			p = append(p, orb.Ring(toOrbPoints(r)))
		}
		return p, nil
	}
	return nil, errors.Errorf("unsupported geometry kind %q", string(g.Kind))
}

func toOrbPoints(coords [][2]float64) []orb.Point {
	out := make([]orb.Point, len(coords))
	for i, c := range coords {
		out[i] = c
	}
	return out
}
