package geom

import (
	"encoding/xml"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type kmlRing struct {
	Coordinates string `xml:"LinearRing>coordinates"`
}

type kmlPlacemark struct {
	Name       string `xml:"name"`
	LineString *struct {
		Coordinates string `xml:"coordinates"`
	} `xml:"LineString"`
	Polygon *struct {
		Outer kmlRing   `xml:"outerBoundaryIs"`
		Inner []kmlRing `xml:"innerBoundaryIs"`
	} `xml:"Polygon"`
}

type kmlDoc struct {
	Placemarks       []kmlPlacemark `xml:"Placemark"`
	DocPlacemarks    []kmlPlacemark `xml:"Document>Placemark"`
	FolderPlacemarks []kmlPlacemark `xml:"Document>Folder>Placemark"`
}

// LoadKML extracts LineString and Polygon placemarks from a KML file.
// KML coordinates are "lon,lat[,alt]"; we ignore altitude.
func LoadKML(path string) ([]Feature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeKML(data)
}

// DecodeKML is LoadKML over bytes. The placemark name becomes the "name" property.
func DecodeKML(data []byte) ([]Feature, error) {
	var doc kmlDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "kml")
	}
	var out []Feature
	all := append(append(doc.Placemarks, doc.DocPlacemarks...), doc.FolderPlacemarks...)
	for _, pm := range all {
		props := map[string]any{}
		if pm.Name != "" {
			props["name"] = pm.Name
		}
		switch {
		case pm.LineString != nil:
			out = append(out, Feature{Geometry: NewLineString(parseKMLCoords(pm.LineString.Coordinates)), Properties: props})
		case pm.Polygon != nil:
			rings := [][][2]float64{parseKMLCoords(pm.Polygon.Outer.Coordinates)}
			for _, in := range pm.Polygon.Inner {
				rings = append(rings, parseKMLCoords(in.Coordinates))
			}
			out = append(out, Feature{Geometry: NewPolygon(rings), Properties: props})
		}
	}
	if len(out) == 0 {
		return nil, errors.New("kml: no lines or polygons found")
	}
	return out, nil
}

func parseKMLCoords(s string) [][2]float64 {
	var out [][2]float64
	// tuples are separated by whitespace
	for _, tuple := range strings.Fields(s) {
		vals := strings.Split(tuple, ",")
		if len(vals) < 2 {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, [2]float64{lon, lat})
	}
	return out
}
