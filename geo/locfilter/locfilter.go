// Package locfilter smooths raw positional fixes into a believable trajectory.
//
// Each call takes the previous filtered fix, a new raw fix and the time between them,
// and returns the next filtered fix. Speed is bounded and damped (see EstimateSpeed),
// and fixes with poor accuracy are pulled back toward the previous fix, either
// by projecting along the bearing or by interpolating along the straight line.
//
// Nothing is remembered between calls. Callers hold the trajectory and must
// serialize calls for any one trajectory; different trajectories may be
// filtered concurrently.
package locfilter

import (
	"errors"
	"fmt"
	"time"

	"github.com/paulmach/orb/geo"
	"github.com/rotblauer/trackfilter/common"
	"github.com/rotblauer/trackfilter/params"
	"github.com/rotblauer/trackfilter/types/fix"
)

var (
	ErrNonPositiveElapsed = errors.New("elapsed time must be positive")
	ErrNonFinite          = errors.New("non-finite result")
)

// Branch names the way a filtered fix was produced.
type Branch int

const (
	// BranchFirst is the first fix of a trajectory, speed-adjusted only.
	BranchFirst Branch = iota
	// BranchAccurate is a fix with acceptable accuracy, speed-adjusted only.
	BranchAccurate
	// BranchProjected is projected from the previous fix along the average bearing.
	BranchProjected
	// BranchInterpolated is interpolated between the previous and new fix.
	BranchInterpolated
)

func (b Branch) String() string {
	switch b {
	case BranchFirst:
		return "first"
	case BranchAccurate:
		return "accurate"
	case BranchProjected:
		return "projected"
	case BranchInterpolated:
		return "interpolated"
	}
	return fmt.Sprintf("Branch(%d)", int(b))
}

// Result is a filtered fix along with how it came to be.
type Result struct {
	Fix            fix.Fix
	Branch         Branch
	AccuracyFactor float64
	Estimate       SpeedEstimate
}

// Filterer applies the location filter with a given config.
// The zero value is not usable; use New.
type Filterer struct {
	Config *params.LocationFilterConfig
}

// New returns a Filterer for config, or for the defaults if config is nil.
func New(config *params.LocationFilterConfig) *Filterer {
	if config == nil {
		config = params.DefaultLocationFilterConfig
	}
	return &Filterer{Config: config}
}

var defaultFilterer = New(nil)

// Filter filters next against prev with the default config.
// A nil prev means next is the first fix of its trajectory.
func Filter(prev *fix.Fix, next fix.Fix, elapsed time.Duration) (fix.Fix, error) {
	return defaultFilterer.Filter(prev, next, elapsed)
}

// Filter returns the filtered version of next, given the previously filtered fix.
func (fl *Filterer) Filter(prev *fix.Fix, next fix.Fix, elapsed time.Duration) (fix.Fix, error) {
	res, err := fl.Apply(prev, next, elapsed)
	if err != nil {
		return fix.Fix{}, err
	}
	return res.Fix, nil
}

// Apply is Filter, but returns the intermediate values as well.
func (fl *Filterer) Apply(prev *fix.Fix, next fix.Fix, elapsed time.Duration) (Result, error) {
	if elapsed <= 0 {
		return Result{}, fmt.Errorf("%w: %v", ErrNonPositiveElapsed, elapsed)
	}
	if err := next.Validate(); err != nil {
		return Result{}, fmt.Errorf("new fix: %w", err)
	}
	prevSpeed, rawDistance := fl.Config.StopSpeed, 0.0
	if prev != nil {
		if err := prev.Validate(); err != nil {
			return Result{}, fmt.Errorf("previous fix: %w", err)
		}
		prevSpeed = prev.Speed
		rawDistance = geo.DistanceHaversine(prev.Point(), next.Point())
	}

	res := Result{
		Estimate:       fl.EstimateSpeed(prevSpeed, rawDistance, elapsed.Seconds(), next.Speed),
		AccuracyFactor: fl.AccuracyFactor(next.Accuracy),
	}

	out := next
	out.Speed = res.Estimate.FinalSpeed

	switch {
	case prev == nil:
		res.Branch = BranchFirst
	case res.AccuracyFactor == AccuracyAcceptable:
		res.Branch = BranchAccurate
	case res.AccuracyFactor < fl.Config.MinAccuracy:
		res.Branch = BranchProjected
		bearing := AverageBearing(prev.Bearing, next.Bearing)
		out = out.WithPoint(destinationPoint(fl.Config.EarthRadius,
			prev.Lat, prev.Lon, bearing, res.Estimate.FinalDistance))
		out.Provider = params.ProviderFuse
	default:
		res.Branch = BranchInterpolated
		p, err := InterpolateByDistance(prev.Point(), next.Point(), rawDistance, res.Estimate.FinalDistance)
		if err != nil {
			return Result{}, err
		}
		out = out.WithPoint(p)
	}
	// The sensor's bearing is kept, in [0, 360), even where the coordinate was moved.
	out.Bearing = normalizeBearing(next.Bearing)

	if !common.IsFinite(out.Lat, out.Lon, out.Speed) {
		return Result{}, fmt.Errorf("%w: %s", ErrNonFinite, out)
	}
	res.Fix = out
	return res, nil
}
