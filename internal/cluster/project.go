package cluster

import "math"

// tileSize is the pixel side of one map tile at zoom 0. The whole world
// spans tileSize * 2^zoom pixels, so a pixel radius converts to world units
// as radiusPx / (tileSize * 2^zoom).
const tileSize = 256

// project converts lng/lat (degrees) to web-mercator world coordinates in
// [0,1]. y grows southward.
func project(lng, lat float64) (x, y float64) {
	sin := math.Sin(lat * math.Pi / 180)
	x = lng/360 + 0.5
	y = 0.5 - 0.25*math.Log((1+sin)/(1-sin))/math.Pi

	// Clamp poles: the mercator singularity maps ±90° to ±inf.
	if y < 0 {
		y = 0
	}
	if y > 1 {
		y = 1
	}
	return x, y
}

// unproject converts world coordinates back to lng/lat degrees.
func unproject(x, y float64) (lng, lat float64) {
	lng = (x - 0.5) * 360
	y2 := (180 - y*360) * math.Pi / 180
	lat = 360*math.Atan(math.Exp(y2))/math.Pi - 90
	return lng, lat
}

// worldRadius converts a pixel radius at the given zoom to world units.
func worldRadius(radiusPx float64, zoom int) float64 {
	return radiusPx / (tileSize * math.Pow(2, float64(zoom)))
}
