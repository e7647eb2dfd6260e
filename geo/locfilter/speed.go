package locfilter

import (
	"math"

	"github.com/rotblauer/trackfilter/params"
)

// SpeedEstimate holds the inputs, intermediates, and results of EstimateSpeed.
type SpeedEstimate struct {
	PreviousSpeed float64
	RawSpeed      float64
	RawDistance   float64
	Elapsed       float64 // seconds

	// MaxSpeed is the capped speed implied by distance over time.
	MaxSpeed float64
	// SpeedVariance is the damped discrepancy of PreviousSpeed and MaxSpeed.
	SpeedVariance float64
	// MayBeAuto is set when the reported speed is outside walking speeds.
	MayBeAuto bool
	// RunOrDrive is set when the fix looks like running or driving.
	RunOrDrive bool
	// SpeedFactor is the ratio of the larger to the smaller of
	// the candidate and previous speeds.
	SpeedFactor float64

	FinalDistance float64
	FinalSpeed    float64
}

type speedStep struct {
	name string
	fn   func(c *params.LocationFilterConfig, e *SpeedEstimate)
}

// speedPipeline is ordered; later steps read what earlier steps wrote.
var speedPipeline = []speedStep{
	{"max_speed", stepMaxSpeed},
	{"speed_variance", stepSpeedVariance},
	{"candidate_speed", stepCandidateSpeed},
	{"run_or_drive", stepRunOrDrive},
	{"final_distance", stepFinalDistance},
	{"compensate", stepCompensate},
	{"speed_floor", stepSpeedFloor},
	{"acceleration", stepAcceleration},
}

// EstimateSpeed bounds and smooths the speed of a new fix.
// elapsed is in seconds and must be positive.
func (fl *Filterer) EstimateSpeed(previousSpeed, rawDistance, elapsed, rawSpeed float64) SpeedEstimate {
	e := SpeedEstimate{
		PreviousSpeed: previousSpeed,
		RawSpeed:      rawSpeed,
		RawDistance:   rawDistance,
		Elapsed:       elapsed,
	}
	for _, step := range speedPipeline {
		step.fn(fl.Config, &e)
	}
	return e
}

func stepMaxSpeed(c *params.LocationFilterConfig, e *SpeedEstimate) {
	e.MaxSpeed = math.Min(e.RawDistance/e.Elapsed, c.MaxRawSpeed)
}

func stepSpeedVariance(c *params.LocationFilterConfig, e *SpeedEstimate) {
	v := math.Abs(e.PreviousSpeed-e.MaxSpeed) / c.NormalSpeed
	if v > 1 {
		v = 1 - v/c.SpeedVariance
	}
	e.SpeedVariance = math.Max(v, c.SpeedVarianceFloor)
}

func stepCandidateSpeed(c *params.LocationFilterConfig, e *SpeedEstimate) {
	if e.RawSpeed >= c.LowSpeed && e.RawSpeed <= c.WalkingSpeedMax {
		e.FinalSpeed = e.RawSpeed
		return
	}
	e.MayBeAuto = true
	e.FinalSpeed = e.MaxSpeed * e.SpeedVariance
}

func stepRunOrDrive(c *params.LocationFilterConfig, e *SpeedEstimate) {
	e.RunOrDrive = e.MaxSpeed > c.HighSpeed &&
		e.MayBeAuto &&
		math.Min(e.PreviousSpeed, e.MaxSpeed) > c.MediumSpeed
}

func stepFinalDistance(_ *params.LocationFilterConfig, e *SpeedEstimate) {
	e.FinalDistance = math.Min(e.Elapsed*e.FinalSpeed, e.RawDistance)
}

func stepCompensate(c *params.LocationFilterConfig, e *SpeedEstimate) {
	if e.RunOrDrive {
		// Undo the variance damping; running and driving are allowed to be fast.
		e.FinalDistance /= e.SpeedVariance
		e.FinalSpeed = e.FinalDistance / e.Elapsed
		return
	}
	if e.FinalSpeed > c.NormalSpeed {
		e.FinalDistance *= e.SpeedVariance
	}
}

func stepSpeedFloor(c *params.LocationFilterConfig, e *SpeedEstimate) {
	if e.FinalSpeed < c.SpeedFloorTrigger {
		e.FinalSpeed = c.LowSpeed
	}
}

func stepAcceleration(c *params.LocationFilterConfig, e *SpeedEstimate) {
	lo := math.Min(e.FinalSpeed, e.PreviousSpeed)
	hi := math.Max(e.FinalSpeed, e.PreviousSpeed)
	e.SpeedFactor = 1
	if lo != 0 {
		e.SpeedFactor = hi / lo
	}
	if e.SpeedFactor > c.AccelerationSpeed && !e.RunOrDrive {
		e.FinalSpeed = lo * c.AccelerationSpeed
		// Don't jump into jogging speeds in one step.
		if e.FinalSpeed >= c.MediumSpeed {
			e.FinalSpeed /= c.NormalSpeed
		}
	}
	if e.SpeedFactor > c.HighSpeed {
		e.FinalSpeed = lo * c.HighSpeed
	}
}
