// Package activity names what a subject was doing while a track was recorded.
package activity

import (
	"regexp"

	"github.com/rotblauer/trackfilter/common"
)

type Activity int

const (
	TrackerStateStationary Activity = iota
	TrackerStateWalking
	TrackerStateRunning
	TrackerStateBike
	TrackerStateAutomotive
	TrackerStateFlying
	TrackerStateUnknown Activity = -1
)

var (
	activityStationary = regexp.MustCompile(`(?i)stationary|still`)
	activityWalking    = regexp.MustCompile(`(?i)walk`)
	activityRunning    = regexp.MustCompile(`(?i)run`)
	activityCycling    = regexp.MustCompile(`(?i)cycle|bike|biking`)
	activityDriving    = regexp.MustCompile(`(?i)drive|driving|automotive`)
	activityFly        = regexp.MustCompile(`(?i)^fly|^air`)
)

// IsActive returns whether the activity is moving. (Yoga is NOT "Active".)
func (a Activity) IsActive() bool {
	return a > TrackerStateStationary && a <= TrackerStateFlying
}

// IsKnown returns true if the activity is not Unknown.
func (a Activity) IsKnown() bool {
	return a != TrackerStateUnknown
}

// IsActiveHuman returns whether the activity is human-powered.
func (a Activity) IsActiveHuman() bool {
	return a >= TrackerStateWalking && a < TrackerStateAutomotive
}

// String implements the Stringer interface.
func (a Activity) String() string {
	switch a {
	case TrackerStateStationary:
		return "Stationary"
	case TrackerStateWalking:
		return "Walking"
	case TrackerStateRunning:
		return "Running"
	case TrackerStateBike:
		return "Bike"
	case TrackerStateAutomotive:
		return "Automotive"
	case TrackerStateFlying:
		return "Fly"
	}
	return "Unknown"
}

// InferFromSpeed infers activity from speed using high -> low max_speed breakpoints.
// maxMul is a multiplier to the max_speed of the activity.
func InferFromSpeed(speed, maxMul float64, mustActive bool) Activity {
	if speed > common.SpeedOfDrivingAutobahn*maxMul {
		return TrackerStateFlying
	}
	if speed > common.SpeedOfCyclingMax*maxMul {
		return TrackerStateAutomotive
	}
	if speed > ((common.SpeedOfRunningMean+common.SpeedOfRunningMax)/2)*maxMul {
		return TrackerStateBike
	}
	if speed > common.SpeedOfWalkingMax*maxMul {
		return TrackerStateRunning
	}
	if !mustActive && speed < common.SpeedOfWalkingMin {
		return TrackerStateStationary
	}
	return TrackerStateWalking
}

// FromAny reads a reported activity, eg. a track's Activity property.
func FromAny(a any) Activity {
	reportStr, ok := a.(string)
	if !ok {
		return TrackerStateUnknown
	}
	return FromString(reportStr)
}

func FromString(str string) Activity {
	switch {
	case activityStationary.MatchString(str):
		return TrackerStateStationary
	case activityWalking.MatchString(str):
		return TrackerStateWalking
	case activityRunning.MatchString(str):
		return TrackerStateRunning
	case activityCycling.MatchString(str):
		return TrackerStateBike
	case activityDriving.MatchString(str):
		return TrackerStateAutomotive
	case activityFly.MatchString(str):
		return TrackerStateFlying
	}
	return TrackerStateUnknown
}
