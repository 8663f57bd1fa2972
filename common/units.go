package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

// PixelsPerMeter is the single scale between screen pixels and simulation meters.
const (
	PixelsPerMeter = 50.0
	MetersPerPixel = 1 / PixelsPerMeter

	// floorEpsilon absorbs the representation error of a pixel that went
	// through ToSim, so whole pixels come back unchanged.
	floorEpsilon = 1e-9
)

// ToSim converts a pixel length to simulation meters.
func ToSim(pixels int) float64 {
	return float64(pixels) * MetersPerPixel
}

// ToPixels converts simulation meters to whole pixels, rounding toward negative infinity.
func ToPixels(sim float64) int {
	return int(math.Floor(sim*PixelsPerMeter + floorEpsilon))
}

// ToSimVec converts a pixel point to a simulation vector.
func ToSimVec(x, y int) cp.Vector {
	return cp.Vector{X: ToSim(x), Y: ToSim(y)}
}

// ToPixelsVec converts a simulation vector to a pixel point.
func ToPixelsVec(v cp.Vector) (int, int) {
	return ToPixels(v.X), ToPixels(v.Y)
}
