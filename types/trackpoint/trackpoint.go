// Package trackpoint decodes the flat, pre-GeoJSON track format
// some clients still push.
package trackpoint

import (
	"encoding/json"
	"time"

	"github.com/paulmach/orb"
	"github.com/rotblauer/trackfilter/common"
	"github.com/rotblauer/trackfilter/params"
	"github.com/rotblauer/trackfilter/types/cattrack"
)

// TrackPoint Stores a snippet of life, love, and location
type TrackPoint struct {
	Uuid      string    `json:"uuid"`
	Version   string    `json:"version"`
	Name      string    `json:"name"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"long"`
	Accuracy  float64   `json:"accuracy"`  // horizontal, in meters
	Elevation float64   `json:"elevation"` // in meters
	Speed     float64   `json:"speed"`     // in m/s
	Heading   float64   `json:"heading"`   // in degrees
	Provider  string    `json:"provider"`
	Time      time.Time `json:"time"`
}

// UnmarshalJSON is a custom unmarshaler for TrackPoint.
// It asserts that the Time field is a valid RFC3339 time.
// If this method attempts to unmarshal data which is actually a GeoJSON Feature
// it will fail, as the GeoJSON Feature will not have a flat Time field.
func (tp *TrackPoint) UnmarshalJSON(data []byte) error {
	type Alias TrackPoint
	aux := &struct {
		Time string `json:"time"`
		*Alias
	}{
		Alias: (*Alias)(tp),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var err error
	tp.Time, err = time.Parse(time.RFC3339, aux.Time)
	if err != nil {
		return err
	}
	return nil
}

// CatTrack converts the TrackPoint to a GeoJSON track.
func (tp *TrackPoint) CatTrack() cattrack.CatTrack {
	ct := cattrack.NewCatTrack(orb.Point{tp.Lng, tp.Lat})
	provider := tp.Provider
	if provider == "" {
		provider = params.ProviderRaw
	}
	ct.SetPropertiesSafe(map[string]interface{}{
		"UUID":      tp.Uuid,
		"Name":      tp.Name,
		"Version":   tp.Version,
		"Time":      tp.Time.Format(time.RFC3339Nano),
		"UnixTime":  tp.Time.Unix(),
		"Speed":     common.DecimalToFixed(tp.Speed, 3),
		"Elevation": common.DecimalToFixed(tp.Elevation, 2),
		"Heading":   common.DecimalToFixed(tp.Heading, 1),
		"Accuracy":  common.DecimalToFixed(tp.Accuracy, 2),
		"Provider":  provider,
	})
	return *ct
}
