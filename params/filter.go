package params

// LocationFilterConfig holds the tunables of the location filter.
// All speeds are in m/s, distances in meters, accuracies in meters.
type LocationFilterConfig struct {
	// NormalSpeed is a brisk walking pace.
	// It scales speed variance and marks where extra smoothing kicks in.
	NormalSpeed float64

	// AccelerationSpeed is the largest speed ratio permitted between two
	// consecutive fixes while walking.
	AccelerationSpeed float64

	// MediumSpeed is the lower bound of jogging speeds.
	MediumSpeed float64

	// HighSpeed is both the speed above which a fix may be running or driving,
	// and the hard ceiling on the speed ratio between consecutive fixes.
	HighSpeed float64

	// StopSpeed is assumed for the previous fix when there is none.
	StopSpeed float64

	// LowSpeed is the slowest reported speed trusted as-is.
	// It is also the floor for near-zero computed speeds.
	LowSpeed float64

	// SpeedVariance damps large speed variances.
	SpeedVariance float64

	// SpeedVarianceFloor is the smallest speed variance used as a multiplier.
	SpeedVarianceFloor float64

	// MaxRawSpeed caps the speed derived from distance over time.
	// Anything faster is taken to be a receiver glitch.
	MaxRawSpeed float64

	// WalkingSpeedMax is the upper bound of reported speeds trusted as-is.
	WalkingSpeedMax float64

	// SpeedFloorTrigger is the speed under which the final speed is raised to LowSpeed.
	SpeedFloorTrigger float64

	// AcceptableAccuracyMin and ValidAccuracy bound (exclusive, inclusive) the
	// accuracies for which the raw fix is used as-is.
	AcceptableAccuracyMin float64
	ValidAccuracy         float64

	// MinAccuracy is the accuracy factor below which the fix is projected
	// from the previous one by bearing, instead of interpolated.
	MinAccuracy float64

	// EarthRadius is the radius of the spherical Earth used for projection, in meters.
	EarthRadius float64
}

var DefaultLocationFilterConfig = &LocationFilterConfig{
	NormalSpeed:           1.4,
	AccelerationSpeed:     1.2,
	MediumSpeed:           2.0,
	HighSpeed:             4.0,
	StopSpeed:             0.15,
	LowSpeed:              0.4,
	SpeedVariance:         14.0,
	SpeedVarianceFloor:    0.005,
	MaxRawSpeed:           20.0,
	WalkingSpeedMax:       3.0,
	SpeedFloorTrigger:     0.05,
	AcceptableAccuracyMin: 0.1,
	ValidAccuracy:         19.0,
	MinAccuracy:           0.2,
	EarthRadius:           6371000,
}

// CalorieConfig describes the body the calorie estimate is made for.
type CalorieConfig struct {
	// Height in meters.
	Height float64
	// Weight in kilograms.
	Weight float64
}

var DefaultCalorieConfig = &CalorieConfig{
	Height: 1.7,
	Weight: 70.0,
}
