package clean

import (
	"context"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"
	"github.com/rotblauer/trackfilter/params"
	"github.com/rotblauer/trackfilter/types/cattrack"
)

type WangUrbanCanyonFilter struct {
	Config   *params.CleanConfig
	Filtered int
}

const wangBufferFront, wangBufferBack = 5, 5

// Filter filters out spurious points which can occur in urban canyons.
// > Wang: Third, GPS points away from
// > the adjacent points due to the signal shift caused by
// > blocking or ‘‘urban canyon’’ effect are also deleted. As
// > is shown in Figure 2, GPS points away from both the
// > before and after 5 points center for more than 200 m
// > should be considered as shift points.
func (f *WangUrbanCanyonFilter) Filter(ctx context.Context, in <-chan cattrack.CatTrack) <-chan cattrack.CatTrack {
	out := make(chan cattrack.CatTrack)
	config := f.Config
	if config == nil {
		config = params.DefaultCleanConfig
	}

	bufferSize := wangBufferFront + 1 + wangBufferBack
	buffer := make([]cattrack.CatTrack, 0, bufferSize+1)

	send := func(ct cattrack.CatTrack) bool {
		select {
		case <-ctx.Done():
			return false
		case out <- ct:
			return true
		}
	}

	go func() {
		defer close(out)
		for track := range in {
			buffer = append(buffer, track)
			if len(buffer) < bufferSize {
				// The first points get flushed without filtering
				// because there are no head points to compare them against.
				if len(buffer) <= wangBufferFront {
					if !send(track) {
						return
					}
				}
				continue
			}
			if len(buffer) > bufferSize {
				buffer = buffer[1:]
			}

			head := buffer[:wangBufferFront]
			target := buffer[wangBufferFront]
			tail := buffer[wangBufferFront+1:]

			if f.shifted(config, head, target, tail) {
				f.Filtered++
				// Keep the shift point out of later centroids.
				buffer = append(buffer[:wangBufferFront], buffer[wangBufferFront+1:]...)
				continue
			}
			if !send(target) {
				return
			}
		}

		// Any and all tailing points get sent.
		// A full buffer's target was already sent.
		unsent := wangBufferFront
		if len(buffer) == bufferSize {
			unsent++
		}
		if len(buffer) > unsent {
			for _, track := range buffer[unsent:] {
				if !send(track) {
					return
				}
			}
		}
	}()

	return out
}

func (f *WangUrbanCanyonFilter) shifted(config *params.CleanConfig, head []cattrack.CatTrack, target cattrack.CatTrack, tail []cattrack.CatTrack) bool {
	// Signal loss is not eligible for filtering.
	if tail[len(tail)-1].MustTime().Sub(head[0].MustTime()) > config.WangUrbanCanyonWindow {
		return false
	}
	threshold := math.Max(config.WangUrbanCanyonMinDistance,
		target.Properties.MustFloat64("Speed", 0)*config.WangUrbanCanyonDistanceFromSpeedMul)

	headCenter := centroid(head)
	tailCenter := centroid(tail)
	return geo.Distance(headCenter, target.Point()) > threshold &&
		geo.Distance(tailCenter, target.Point()) > threshold
}

func centroid(tracks []cattrack.CatTrack) orb.Point {
	mp := make(orb.MultiPoint, 0, len(tracks))
	for _, ct := range tracks {
		mp = append(mp, ct.Point())
	}
	c, _ := planar.CentroidArea(mp)
	return c
}
