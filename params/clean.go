package params

import "time"

// CleanConfig configures the optional cleaning pass that drops
// spurious tracks before they reach the smoother.
type CleanConfig struct {
	// WangUrbanCanyonMinDistance is the minimum distance threshold to determine if a point is in an urban canyon.
	// It is derived as the distance between the target point and the centroids of the 5 points before and after it.
	WangUrbanCanyonMinDistance float64

	// WangUrbanCanyonDistanceFromSpeedMul is the multiplier to determine the distance threshold
	// using the speed of the target point.
	// Low speeds require a lower distance threshold.
	// Minimum distance is bounded by WangUrbanCanyonMinDistance.
	WangUrbanCanyonDistanceFromSpeedMul float64

	// WangUrbanCanyonWindow is the span of the 11 points considered for the urban canyon test.
	// Longer spans are signal loss, and not eligible.
	WangUrbanCanyonWindow time.Duration

	// TeleportSpeedFactor is the factor to determine teleportation.
	// If calculated speed is X times faster than reported speed, it's a teleportation.
	TeleportSpeedFactor float64

	// TeleportMinDistance is the minimum distance between two points to consider teleportation.
	// This helps remove spurious teleportations for small distances (e.g. speed=0.04, distance=10).
	TeleportMinDistance float64

	// Teleportations must happen within this window of time.
	// Otherwise, it'll be considered signal loss instead.
	TeleportWindow time.Duration
}

var DefaultCleanConfig = &CleanConfig{
	WangUrbanCanyonMinDistance:          200.0,
	WangUrbanCanyonDistanceFromSpeedMul: 10.0,
	WangUrbanCanyonWindow:               60 * time.Second,
	TeleportSpeedFactor:                 10.0,
	TeleportWindow:                      60 * time.Second,
	TeleportMinDistance:                 25.0,
}
