package smoother

import (
	"log/slog"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/montanaflynn/stats"
	"github.com/rotblauer/trackfilter/common"
)

// Summary collects raw and smoothed speeds, and the distance smoothed tracks cover.
type Summary struct {
	mu       sync.Mutex
	raw      stats.Float64Data
	smoothed stats.Float64Data
	distance float64
}

func newSummary() *Summary {
	return &Summary{
		raw:      stats.Float64Data{},
		smoothed: stats.Float64Data{},
	}
}

func (s *Summary) add(raw, smoothed, distance float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw = append(s.raw, raw)
	s.smoothed = append(s.smoothed, smoothed)
	s.distance += distance
}

// SpeedStats describes a set of speeds in m/s.
type SpeedStats struct {
	Mean   float64
	Median float64
	P95    float64
	StdDev float64
}

func describe(data stats.Float64Data) SpeedStats {
	if data.Len() == 0 {
		return SpeedStats{}
	}
	out := SpeedStats{}
	out.Mean, _ = data.Mean()
	out.Median, _ = data.Median()
	out.P95, _ = stats.Percentile(data, 95)
	out.StdDev, _ = stats.StandardDeviation(data)
	return out
}

func (s *Summary) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.smoothed.Len()
}

// Distance is the length of the smoothed trajectory, in meters.
func (s *Summary) Distance() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.distance
}

func (s *Summary) Raw() SpeedStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return describe(s.raw)
}

func (s *Summary) Smoothed() SpeedStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return describe(s.smoothed)
}

// Log logs the summary at info level.
func (s *Summary) Log(logger *slog.Logger) {
	raw, smoothed := s.Raw(), s.Smoothed()
	logger.Info("Smoothed trajectory",
		"tracks", humanize.Comma(int64(s.Len())),
		"distance", humanize.SIWithDigits(s.Distance(), 1, "m"),
		"speed.raw.mean", common.DecimalToFixed(raw.Mean, 2),
		"speed.raw.p95", common.DecimalToFixed(raw.P95, 2),
		"speed.raw.stddev", common.DecimalToFixed(raw.StdDev, 2),
		"speed.mean", common.DecimalToFixed(smoothed.Mean, 2),
		"speed.p95", common.DecimalToFixed(smoothed.P95, 2),
		"speed.stddev", common.DecimalToFixed(smoothed.StdDev, 2),
	)
}
