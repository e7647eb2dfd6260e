// Package calories estimates energy spent walking.
//
//	kcal/min = 0.035*M + (V²/H)*0.029*M
//
// where M is body weight (kg), H is height (m), and V is speed (m/s).
package calories

import (
	"time"

	"github.com/rotblauer/trackfilter/common"
	"github.com/rotblauer/trackfilter/params"
)

type Option func(c *params.CalorieConfig)

func WithHeight(meters float64) Option {
	return func(c *params.CalorieConfig) { c.Height = meters }
}

func WithWeight(kilograms float64) Option {
	return func(c *params.CalorieConfig) { c.Weight = kilograms }
}

// Estimate returns kilocalories burned moving at speed (m/s) for d,
// rounded down to one decimal place.
func Estimate(speed float64, d time.Duration, opts ...Option) float64 {
	c := *params.DefaultCalorieConfig
	for _, opt := range opts {
		opt(&c)
	}
	return EstimateWith(&c, speed, d)
}

// EstimateWith is Estimate for a given body.
func EstimateWith(c *params.CalorieConfig, speed float64, d time.Duration) float64 {
	perMinute := 0.035*c.Weight + (speed*speed/c.Height)*0.029*c.Weight
	return common.RoundDown(perMinute*d.Seconds()/60, 1)
}
