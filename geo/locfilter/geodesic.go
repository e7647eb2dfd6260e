package locfilter

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/rotblauer/trackfilter/params"
	"github.com/rotblauer/trackfilter/types/fix"
)

func deg2rad(d float64) float64 {
	return d * math.Pi / 180.0
}

func rad2deg(r float64) float64 {
	return r * 180.0 / math.Pi
}

// DestinationPoint returns the point distance meters from lat,lon along bearing (degrees),
// on a spherical Earth of the default radius.
func DestinationPoint(lat, lon, bearing, distance float64) orb.Point {
	return destinationPoint(params.DefaultLocationFilterConfig.EarthRadius, lat, lon, bearing, distance)
}

func destinationPoint(radius, lat, lon, bearing, distance float64) orb.Point {
	brng := deg2rad(bearing)
	φ1 := deg2rad(lat)
	λ1 := deg2rad(lon)
	δ := distance / radius

	φ2 := math.Asin(math.Sin(φ1)*math.Cos(δ) + math.Cos(φ1)*math.Sin(δ)*math.Cos(brng))
	λ2 := λ1 + math.Atan2(
		math.Sin(brng)*math.Sin(δ)*math.Cos(φ1),
		math.Cos(δ)-math.Sin(φ1)*math.Sin(φ2),
	)

	lon2 := rad2deg(λ2)
	if lon2 < -180 || lon2 > 180 {
		λ2 = math.Mod(λ2+3*math.Pi, 2*math.Pi) - math.Pi
		lon2 = rad2deg(λ2)
	}
	return orb.Point{lon2, rad2deg(φ2)}
}

// InterpolateByDistance moves from old toward next, covering targetDistance
// of the realDistance between them. Each coordinate is interpolated independently.
// If the distances are equal, next is returned exactly.
func InterpolateByDistance(old, next orb.Point, realDistance, targetDistance float64) (orb.Point, error) {
	if realDistance == targetDistance {
		return next, nil
	}
	if realDistance <= 0 {
		return orb.Point{}, fmt.Errorf("interpolate: real distance %v, target %v", realDistance, targetDistance)
	}
	ratio := targetDistance / realDistance
	return orb.Point{
		old.Lon() + (next.Lon()-old.Lon())*ratio,
		old.Lat() + (next.Lat()-old.Lat())*ratio,
	}, nil
}

// LocationByOffset pulls next back toward old by offset (0 keeps next, 1 yields old).
// An offset of AccuracyAcceptable keeps next as well.
// The returned fix has only the coordinate and next's provider set.
func LocationByOffset(old, next fix.Fix, offset float64) fix.Fix {
	return fix.Fix{
		Lat:      coordinateByOffset(old.Lat, next.Lat, offset),
		Lon:      coordinateByOffset(old.Lon, next.Lon, offset),
		Provider: next.Provider,
	}
}

func coordinateByOffset(old, next, offset float64) float64 {
	if offset == AccuracyAcceptable {
		return next
	}
	return next - (next-old)*offset
}

// BlendBearing moves from old toward next by offset.
func BlendBearing(old, next, offset float64) float64 {
	return old + (next-old)*offset
}

// AverageBearing returns the circular mean of two bearings in [0, 360).
// Bearings exactly opposite each other average to the clockwise side of a.
func AverageBearing(a, b float64) float64 {
	diff := math.Mod(b-a+540, 360) - 180
	return normalizeBearing(a + diff/2)
}

func normalizeBearing(b float64) float64 {
	b = math.Mod(b, 360)
	if b < 0 {
		b += 360
	}
	if b >= 360 {
		b = 0
	}
	return b
}
