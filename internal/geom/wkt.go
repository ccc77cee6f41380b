package geom

import (
	"os"
	"strings"

	"github.com/paulmach/orb/encoding/wkt"
	"github.com/pkg/errors"
)

// ParseWKT parses a WKT geometry. LINESTRING and POLYGON come back with
// coordinates; any other WKT type only sets Kind.
func ParseWKT(s string) (Geometry, error) {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return Geometry{}, errors.New("empty wkt")
	}
	g, err := wkt.Unmarshal(s)
	if err != nil {
		return Geometry{}, errors.Wrap(err, "wkt")
	}
	return FromOrb(g), nil
}

// FormatWKT renders g as WKT.
func FormatWKT(g Geometry) (string, error) {
	og, err := ToOrb(g)
	if err != nil {
		return "", errors.Wrap(err, "wkt")
	}
	return wkt.MarshalString(og), nil
}

// LoadWKT reads one WKT geometry per non-empty line.
func LoadWKT(path string) ([]Feature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fs, err := DecodeWKT(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return fs, nil
}

// DecodeWKT is LoadWKT over bytes. Errors name the offending line.
func DecodeWKT(data []byte) ([]Feature, error) {
	var out []Feature
	for i, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		g, err := ParseWKT(line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", i+1)
		}
		out = append(out, Feature{Geometry: g, Properties: map[string]any{}})
	}
	if len(out) == 0 {
		return nil, errors.New("wkt: no geometries parsed")
	}
	return out, nil
}
