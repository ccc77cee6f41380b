package simplify

// Point is the labeled coordinate form handed to a Reducer.
type Point struct {
	X float64
	Y float64
}

func toPoints(coords [][2]float64) []Point {
	pts := make([]Point, len(coords))
	for i, c := range coords {
		pts[i] = Point{X: c[0], Y: c[1]}
	}
	return pts
}

func toCoords(pts []Point) [][2]float64 {
	coords := make([][2]float64, len(pts))
	for i, p := range pts {
		coords[i] = [2]float64{p.X, p.Y}
	}
	return coords
}
