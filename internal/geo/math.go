package geo

import "math"

// MaxLat is the latitude limit of the Web Mercator projection.
const MaxLat = 85.05112878

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Bounds is an axis aligned lat/lon box.
type Bounds struct {
	SouthWest Point `json:"south_west"`
	NorthEast Point `json:"north_east"`
}

// LatLonToMercator projects WGS84 coordinates onto the unit Web Mercator square.
// x grows east and y grows south, both in [0..1], which matches the tile
// addressing used by Leaflet at zoom 0.
func LatLonToMercator(lat, lon float64) (x, y float64) {
	if lat > MaxLat {
		lat = MaxLat
	} else if lat < -MaxLat {
		lat = -MaxLat
	}

	x = (lon + 180.0) / 360.0

	latRad := lat * (math.Pi / 180.0)
	mercatorY := math.Log(math.Tan(math.Pi*0.25 + latRad*0.5))
	y = 0.5 - mercatorY/(2.0*math.Pi)

	return x, y
}

// Centroid returns the arithmetic mean of the given points.
// ok is false when pts is empty.
func Centroid(pts []Point) (c Point, ok bool) {
	if len(pts) == 0 {
		return Point{}, false
	}

	var sumLat, sumLon float64
	for _, p := range pts {
		sumLat += p.Lat
		sumLon += p.Lon
	}

	n := float64(len(pts))
	return Point{Lat: sumLat / n, Lon: sumLon / n}, true
}

// BoundsOf returns the smallest box containing every point.
// ok is false when pts is empty.
func BoundsOf(pts []Point) (b Bounds, ok bool) {
	if len(pts) == 0 {
		return Bounds{}, false
	}

	b = Bounds{SouthWest: pts[0], NorthEast: pts[0]}
	for _, p := range pts[1:] {
		b.SouthWest.Lat = math.Min(b.SouthWest.Lat, p.Lat)
		b.SouthWest.Lon = math.Min(b.SouthWest.Lon, p.Lon)
		b.NorthEast.Lat = math.Max(b.NorthEast.Lat, p.Lat)
		b.NorthEast.Lon = math.Max(b.NorthEast.Lon, p.Lon)
	}

	return b, true
}
