// Package fix defines the position record the location filter works on.
package fix

import (
	"errors"
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"github.com/rotblauer/trackfilter/common"
)

var ErrInvalidFix = errors.New("invalid fix")

// Fix is one positional sample: where, how sure, how fast, which way.
// Fixes are values; nothing that receives one modifies the caller's copy.
type Fix struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`

	// Accuracy is the horizontal uncertainty radius in meters.
	// Zero means unknown.
	Accuracy float64 `json:"accuracy"`

	// Speed in m/s.
	Speed float64 `json:"speed"`

	// Bearing in degrees, [0, 360).
	Bearing float64 `json:"bearing"`

	// Provider labels where the fix came from, eg. "raw" or "fused".
	// It is carried along for diagnostics only.
	Provider string `json:"provider,omitempty"`

	Time time.Time `json:"time,omitempty"`
}

// Point returns the fix coordinate as an orb.Point (lon, lat).
func (f Fix) Point() orb.Point {
	return orb.Point{f.Lon, f.Lat}
}

// WithPoint returns a copy of f moved to p.
func (f Fix) WithPoint(p orb.Point) Fix {
	f.Lon, f.Lat = p.Lon(), p.Lat()
	return f
}

// Validate checks the fix for non-finite values and out-of-range coordinates.
func (f Fix) Validate() error {
	if !common.IsFinite(f.Lat, f.Lon, f.Accuracy, f.Speed, f.Bearing) {
		return fmt.Errorf("%w: non-finite value in %s", ErrInvalidFix, f)
	}
	if f.Lat < -90 || f.Lat > 90 {
		return fmt.Errorf("%w: lat=%.14f", ErrInvalidFix, f.Lat)
	}
	if f.Lon < -180 || f.Lon > 180 {
		return fmt.Errorf("%w: lon=%.14f", ErrInvalidFix, f.Lon)
	}
	if f.Speed < 0 {
		return fmt.Errorf("%w: speed=%v", ErrInvalidFix, f.Speed)
	}
	if f.Accuracy < 0 {
		return fmt.Errorf("%w: accuracy=%v", ErrInvalidFix, f.Accuracy)
	}
	return nil
}

func (f Fix) String() string {
	return fmt.Sprintf("[%v,%v]+/-%.0fm %.2fm/s %.0f° %s",
		common.DecimalToFixed(f.Lat, common.GPSPrecision6),
		common.DecimalToFixed(f.Lon, common.GPSPrecision6),
		f.Accuracy, f.Speed, f.Bearing, f.Provider)
}
