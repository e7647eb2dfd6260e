// Package clean drops spurious tracks before they are smoothed.
//
// The location filter copes with noisy fixes, but some fixes are not noise:
// they are wrong. A fix from the other side of town for one second, or a
// burst of fixes bounced off a glass tower, would otherwise be followed
// (slowly) by the filter.
package clean

import (
	"github.com/rotblauer/trackfilter/common"
	"github.com/rotblauer/trackfilter/types/cattrack"
)

func FilterNoEmpty(ct cattrack.CatTrack) bool {
	return !ct.IsEmpty()
}

// FilterUltraHighSpeed filters out tracks with unreasonable reported speeds.
func FilterUltraHighSpeed(ct cattrack.CatTrack) bool {
	return ct.Properties.MustFloat64("Speed", 0) < common.SpeedOfSound
}

// FilterWildElevation filters out tracks with unreasonable elevations.
// Tracks without elevation pass.
func FilterWildElevation(ct cattrack.CatTrack) bool {
	elevation := ct.Properties.MustFloat64("Elevation", 0)
	deepestDive := -100.0
	return elevation > common.ElevationOfDeadSea+deepestDive &&
		elevation < common.ElevationCommercialFlightCruising*1.2
}
