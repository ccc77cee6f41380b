package geom

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Extensions lists the file extensions Load understands.
var Extensions = []string{".geojson", ".json", ".wkt", ".kml", ".csv"}

// Load reads features from path, choosing the decoder by extension.
func Load(path string) ([]Feature, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".geojson", ".json":
		return LoadGeo(path)
	case ".wkt":
		return LoadWKT(path)
	case ".kml":
		return LoadKML(path)
	case ".csv":
		return LoadCSV(path)
	default:
		return nil, errors.Errorf("unsupported file: %q", ext)
	}
}

// Supported reports whether Load can read path.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Decode reads GeoJSON when data starts with '{' and WKT lines otherwise.
func Decode(data []byte) ([]Feature, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty input")
	}
	if trimmed[0] == '{' {
		return DecodeGeoJSON(trimmed)
	}
	return DecodeWKT(trimmed)
}
