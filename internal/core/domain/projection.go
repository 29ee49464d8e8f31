package domain

import "math"

// TileSize is the pixel size of one web-mercator tile at zoom 0.
const TileSize = 256.0

// Point is a position in web-mercator pixel space at some zoom.
type Point struct {
	X float64
	Y float64
}

// Project converts coordinates to pixel space at zoom.
func Project(c Coordinates, zoom int) Point {
	scale := TileSize * math.Exp2(float64(zoom))
	sinLat := math.Sin(c.Lat * math.Pi / 180)
	// Clamp to the mercator limit so the poles stay finite.
	sinLat = math.Max(math.Min(sinLat, 0.9999), -0.9999)
	x := (c.Lng + 180) / 360 * scale
	y := (0.5 - math.Log((1+sinLat)/(1-sinLat))/(4*math.Pi)) * scale
	return Point{X: x, Y: y}
}

// Unproject converts a pixel position at zoom back to coordinates.
func Unproject(p Point, zoom int) Coordinates {
	scale := TileSize * math.Exp2(float64(zoom))
	lng := p.X/scale*360 - 180
	lat := math.Atan(math.Sinh(math.Pi*(1-2*p.Y/scale))) * 180 / math.Pi
	return Coordinates{Lat: lat, Lng: lng}
}

// Distance returns the planar distance between two pixel positions.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// FitZoom returns the deepest zoom, capped at maxZoom, at which b fits
// inside a viewport of width by height pixels.
func FitZoom(b Bounds, width, height, maxZoom int) int {
	if b.IsEmpty() || b.IsPoint() {
		return maxZoom
	}
	for z := maxZoom; z > 0; z-- {
		sw := Project(Coordinates{Lat: b.South, Lng: b.West}, z)
		ne := Project(Coordinates{Lat: b.North, Lng: b.East}, z)
		if math.Abs(ne.X-sw.X) <= float64(width) && math.Abs(sw.Y-ne.Y) <= float64(height) {
			return z
		}
	}
	return 0
}
