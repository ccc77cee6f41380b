package geom

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// LoadCSV reads a CSV with latitude/longitude columns as one ordered track.
// Column detection: lat|latitude|y and lon|lng|long|longitude|x (case-insensitive).
func LoadCSV(path string) ([]Feature, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	feat, err := DecodeCSV(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	feat.Properties["source"] = filepath.Base(path)
	return []Feature{feat}, nil
}

// DecodeCSV turns the rows of r, in order, into a LineString feature.
func DecodeCSV(r io.Reader) (Feature, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	recs, err := cr.ReadAll()
	if err != nil {
		return Feature{}, err
	}
	if len(recs) == 0 {
		return Feature{}, errors.New("empty csv")
	}
	idxLat, idxLon := -1, -1
	for i, h := range recs[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "lat", "latitude", "y":
			if idxLat == -1 {
				idxLat = i
			}
		case "lon", "lng", "long", "longitude", "x":
			if idxLon == -1 {
				idxLon = i
			}
		}
	}
	if idxLat == -1 || idxLon == -1 {
		return Feature{}, errors.New("csv: latitude/longitude columns not found")
	}
	var line [][2]float64
	for _, row := range recs[1:] {
		if idxLon >= len(row) || idxLat >= len(row) {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(row[idxLon]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(row[idxLat]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		line = append(line, [2]float64{lon, lat})
	}
	if len(line) < 2 {
		return Feature{}, errors.New("csv: fewer than two valid rows")
	}
	return Feature{
		Geometry:   NewLineString(line),
		Properties: map[string]any{"rows": len(line)},
	}, nil
}
