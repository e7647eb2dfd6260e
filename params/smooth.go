package params

import "time"

type SmootherConfig struct {
	// ResetInterval is the longest gap between two fixes of one trajectory.
	// A longer gap is signal loss: the next fix starts the trajectory over.
	ResetInterval time.Duration

	// Calories, when set, accumulates a calorie estimate on smoothed tracks.
	Calories *CalorieConfig

	Filter *LocationFilterConfig
}

var DefaultSmootherConfig = &SmootherConfig{
	ResetInterval: 10 * time.Minute,
	Calories:      DefaultCalorieConfig,
	Filter:        DefaultLocationFilterConfig,
}
