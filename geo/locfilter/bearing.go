package locfilter

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// InitialBearing returns the bearing, in whole degrees [0, 360), to set out on from from to reach to.
// Coordinates are in degrees; the trigonometry is done in radians.
// A nil from means the origin is unknown, and the bearing is 0.
func InitialBearing(from *orb.Point, to orb.Point) float64 {
	if from == nil {
		return 0
	}
	return math.Trunc(normalizeBearing(geo.Bearing(*from, to)))
}
