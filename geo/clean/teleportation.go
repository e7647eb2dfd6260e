package clean

import (
	"context"

	"github.com/paulmach/orb/geo"
	"github.com/rotblauer/trackfilter/params"
	"github.com/rotblauer/trackfilter/types/cattrack"
)

type TeleportationFilter struct {
	Config   *params.CleanConfig
	Filtered int
}

// Filter drops tracks which are much farther from the last one than their
// reported speed allows. Tracks without a reported speed are not judged,
// and the next track is measured against the last judged one.
func (f *TeleportationFilter) Filter(ctx context.Context, in <-chan cattrack.CatTrack) <-chan cattrack.CatTrack {
	out := make(chan cattrack.CatTrack)
	config := f.Config
	if config == nil {
		config = params.DefaultCleanConfig
	}

	go func() {
		defer close(out)

		var last *cattrack.CatTrack

		for track := range in {
			track := track
			judged := track.Properties.MustFloat64("Speed", -1) >= 0
			if judged && last != nil && f.teleported(config, last, &track) {
				f.Filtered++
				continue
			}
			select {
			case <-ctx.Done():
				return
			case out <- track:
				if judged {
					last = &track
				}
			}
		}
	}()
	return out
}

func (f *TeleportationFilter) teleported(config *params.CleanConfig, last, track *cattrack.CatTrack) bool {
	// Signal loss is not teleportation.
	interval := track.MustTime().Sub(last.MustTime())
	if interval <= 0 || interval > config.TeleportWindow {
		return false
	}
	reportedSpeed := track.Properties.MustFloat64("Speed", -1)
	dist := geo.Distance(last.Point(), track.Point())
	if dist < config.TeleportMinDistance {
		return false
	}
	calculatedSpeed := dist / interval.Seconds()
	return calculatedSpeed > reportedSpeed*config.TeleportSpeedFactor
}
