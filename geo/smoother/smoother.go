// Package smoother runs the location filter over a stream of tracks.
//
// A Smoother holds one trajectory: the last filtered fix of one subject.
// Streams of different subjects each get their own Smoother and may run concurrently.
package smoother

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/metrics"
	"github.com/paulmach/orb/geo"
	"github.com/rotblauer/trackfilter/common"
	"github.com/rotblauer/trackfilter/conceptual"
	"github.com/rotblauer/trackfilter/geo/calories"
	"github.com/rotblauer/trackfilter/geo/locfilter"
	"github.com/rotblauer/trackfilter/params"
	"github.com/rotblauer/trackfilter/types/activity"
	"github.com/rotblauer/trackfilter/types/cattrack"
	"github.com/rotblauer/trackfilter/types/fix"
)

// LastFixStore persists the last filtered fix of each subject between runs.
type LastFixStore interface {
	LastFix(id conceptual.SubjectID) (*fix.Fix, error)
	SetLastFix(id conceptual.SubjectID, f fix.Fix) error
}

type Smoother struct {
	SubjectID conceptual.SubjectID
	Config    *params.SmootherConfig

	filterer *locfilter.Filterer
	store    LastFixStore
	logger   *slog.Logger

	mu       sync.Mutex
	last     *fix.Fix
	calories float64
	summary  *Summary
	counters map[string]metrics.Counter
}

// New returns a Smoother for the subject. Its branch counters count only
// when metrics.Enabled is set, which the smooth command does at startup.
func New(id conceptual.SubjectID, config *params.SmootherConfig, store LastFixStore) *Smoother {
	if config == nil {
		config = params.DefaultSmootherConfig
	}
	s := &Smoother{
		SubjectID: id,
		Config:    config,
		filterer:  locfilter.New(config.Filter),
		store:     store,
		logger:    slog.With("subject", id),
		summary:   newSummary(),
		counters:  map[string]metrics.Counter{},
	}
	for _, name := range []string{"skipped", "reset",
		locfilter.BranchFirst.String(), locfilter.BranchAccurate.String(),
		locfilter.BranchProjected.String(), locfilter.BranchInterpolated.String()} {
		s.counters[name] = metrics.NewCounter()
	}
	return s
}

// Resume loads the subject's last fix from the store, if there is one.
func (s *Smoother) Resume() error {
	if s.store == nil {
		return nil
	}
	last, err := s.store.LastFix(s.SubjectID)
	if err != nil {
		return fmt.Errorf("resume %s: %w", s.SubjectID, err)
	}
	s.mu.Lock()
	s.last = last
	s.mu.Unlock()
	if last != nil {
		s.logger.Info("Resumed trajectory", "last", last.String(), "time", last.Time)
	}
	return nil
}

// Last returns the last filtered fix, or nil.
func (s *Smoother) Last() *fix.Fix {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil
	}
	cp := *s.last
	return &cp
}

// Count returns how many tracks went down the named branch,
// or were "skipped", or "reset" the trajectory.
func (s *Smoother) Count(name string) int64 {
	c, ok := s.counters[name]
	if !ok {
		return 0
	}
	return c.Snapshot().Count()
}

func (s *Smoother) Summary() *Summary {
	return s.summary
}

var errSkip = errors.New("skip")

// Smooth filters one track against the trajectory so far and returns the smoothed track.
// Tracks that can't be filtered, or are not later than the last one, return an error
// and leave the trajectory as it was.
func (s *Smoother) Smooth(ct cattrack.CatTrack) (cattrack.CatTrack, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := ct.ToFix()
	if err != nil {
		return ct, err
	}
	if raw.Speed > common.SpeedOfSound {
		return ct, fmt.Errorf("%w: implausible speed %v", errSkip, raw.Speed)
	}

	prev := s.last
	var elapsed time.Duration
	if prev != nil {
		elapsed = raw.Time.Sub(prev.Time)
		if elapsed > s.Config.ResetInterval {
			s.logger.Debug("Trajectory reset", "gap", elapsed, "interval", s.Config.ResetInterval)
			s.counters["reset"].Inc(1)
			prev = nil
		} else if elapsed <= 0 {
			return ct, fmt.Errorf("%w: not after last fix (%v)", errSkip, elapsed)
		}
	}
	if prev == nil {
		// The first fix has no previous one to have taken time since.
		elapsed = time.Second
	}

	res, err := s.filterer.Apply(prev, raw, elapsed)
	if err != nil {
		return ct, err
	}
	s.counters[res.Branch.String()].Inc(1)

	out := ct.WithFix(res.Fix)
	props := map[string]interface{}{
		"Filter_Branch":         res.Branch.String(),
		"Filter_AccuracyFactor": res.AccuracyFactor,
	}
	act := activity.FromAny(ct.Properties["Activity"])
	if !act.IsKnown() {
		act = activity.InferFromSpeed(res.Fix.Speed, 1, false)
	}
	props["Filter_Activity"] = act.String()

	var distance float64
	if prev != nil {
		distance = geo.DistanceHaversine(prev.Point(), res.Fix.Point())
		// Only human-powered movement burns (the subject's) calories.
		if s.Config.Calories != nil {
			if act.IsActiveHuman() {
				s.calories += calories.EstimateWith(s.Config.Calories, res.Fix.Speed, elapsed)
			}
			props["Calories"] = common.RoundDown(s.calories, 1)
		}
	}
	out.SetPropertiesSafe(props)
	s.summary.add(raw.Speed, res.Fix.Speed, distance)

	if s.store != nil {
		if err := s.store.SetLastFix(s.SubjectID, res.Fix); err != nil {
			return out, fmt.Errorf("store last fix: %w", err)
		}
	}
	s.last = &res.Fix
	return out, nil
}

// Stream smooths tracks from in, in order, and sends them on.
// Tracks that can't be smoothed are logged and dropped.
func (s *Smoother) Stream(ctx context.Context, in <-chan cattrack.CatTrack) <-chan cattrack.CatTrack {
	out := make(chan cattrack.CatTrack)
	go func() {
		defer close(out)
		for track := range in {
			smoothed, err := s.Smooth(track)
			if err != nil {
				s.counters["skipped"].Inc(1)
				if errors.Is(err, errSkip) {
					s.logger.Debug("Skipping track", "track", track.StringPretty(), "reason", err)
				} else {
					s.logger.Warn("Dropping track", "track", track.StringPretty(), "error", err)
				}
				continue
			}
			select {
			case <-ctx.Done():
				return
			case out <- smoothed:
			}
		}
	}()
	return out
}
