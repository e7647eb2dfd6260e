package clean

import (
	"context"
	"log/slog"

	"github.com/rotblauer/trackfilter/params"
	"github.com/rotblauer/trackfilter/stream"
	"github.com/rotblauer/trackfilter/types/cattrack"
)

// Cleaner chains the per-track filters with the teleportation and urban canyon filters.
// Like a Smoother, a Cleaner holds one subject's trajectory.
type Cleaner struct {
	Teleportation *TeleportationFilter
	UrbanCanyon   *WangUrbanCanyonFilter
}

func NewCleaner(config *params.CleanConfig) *Cleaner {
	if config == nil {
		config = params.DefaultCleanConfig
	}
	return &Cleaner{
		Teleportation: &TeleportationFilter{Config: config},
		UrbanCanyon:   &WangUrbanCanyonFilter{Config: config},
	}
}

func (c *Cleaner) Stream(ctx context.Context, in <-chan cattrack.CatTrack) <-chan cattrack.CatTrack {
	sane := stream.Filter(ctx, func(ct cattrack.CatTrack) bool {
		return FilterNoEmpty(ct) && FilterUltraHighSpeed(ct) && FilterWildElevation(ct)
	}, in)
	return c.UrbanCanyon.Filter(ctx, c.Teleportation.Filter(ctx, sane))
}

// Log logs the filtered counts. Call it once the stream is drained.
func (c *Cleaner) Log(logger *slog.Logger) {
	logger.Info("Cleaned trajectory",
		"teleportations", c.Teleportation.Filtered,
		"urban_canyon", c.UrbanCanyon.Filtered)
}
