package locfilter

import (
	"math"

	"github.com/paulmach/orb/geo"
	"github.com/rotblauer/trackfilter/types/fix"
)

// MinDistanceToPath returns the distance in meters from p to the nearest fix of path,
// or -1 if path is empty.
func MinDistanceToPath(path []fix.Fix, p fix.Fix) float64 {
	if len(path) == 0 {
		return -1
	}
	nearest := math.Inf(1)
	for _, f := range path {
		if d := geo.DistanceHaversine(p.Point(), f.Point()); d < nearest {
			nearest = d
		}
	}
	return nearest
}
