// Package aoi builds the area-of-interest locator sent to the imagery
// service. Everything here is pure: the same coordinates always produce the
// same locator.
package aoi

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultDelta is the half-width, in degrees, of the bounding box around the
// report coordinates.
const DefaultDelta = 0.02

const taskingURL = "https://app.skyfi.com/tasking"

// Polygon returns the closed bounding polygon around (lat, lon): five
// vertices ordered (max,max) -> (max,min) -> (min,min) -> (min,max) ->
// (max,max), each vertex as [lon, lat].
func Polygon(lat, lon, delta float64) [][2]float64 {
	minLon, maxLon := lon-delta, lon+delta
	minLat, maxLat := lat-delta, lat+delta

	return [][2]float64{
		{maxLon, maxLat},
		{maxLon, minLat},
		{minLon, minLat},
		{minLon, maxLat},
		{maxLon, maxLat},
	}
}

func wkt(polygon [][2]float64) string {
	parts := make([]string, len(polygon))
	for i, vertex := range polygon {
		parts[i] = strconv.FormatFloat(vertex[0], 'f', -1, 64) + " " + strconv.FormatFloat(vertex[1], 'f', -1, 64)
	}
	return "POLYGON ((" + strings.Join(parts, ", ") + "))"
}

// Locator encodes the bounding polygon for (lat, lon) into the imagery
// service's tasking URL. Out-of-range coordinates are the orchestrator's
// problem, not ours.
func Locator(lat, lon, delta float64) string {
	return taskingURL + "?s=DAY&r=VERY+HIGH&aoi=" + url.QueryEscape(wkt(Polygon(lat, lon, delta)))
}
