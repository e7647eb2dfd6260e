package cattrack

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rotblauer/trackfilter/common"
	"github.com/rotblauer/trackfilter/conceptual"
	"github.com/rotblauer/trackfilter/params"
	"github.com/rotblauer/trackfilter/types/fix"
)

const UnknownName = "unknown"

// CatTrack is a track a subject makes: a GeoJSON Feature with point geometry
// and, at least, Name, Time (or UnixTime), and Accuracy properties.
// Speed and Heading are optional; clients report -1 when they don't know.
type CatTrack geojson.Feature

// NewCatTrack creates and initializes a GeoJSON feature given the required attributes.
func NewCatTrack(geometry orb.Geometry) *CatTrack {
	return &CatTrack{
		Type:       "Feature",
		Geometry:   geometry,
		Properties: make(map[string]interface{}),
	}
}

// SetPropertySafe sets a property on a copy of the properties, so that
// tracks sharing a properties map (eg. copies) are not changed under their holders.
func (ct *CatTrack) SetPropertySafe(key string, val any) {
	p := ct.Properties.Clone()
	p[key] = val
	ct.Properties = p
}

// SetPropertiesSafe sets properties in thread safety. See SetPropertySafe.
func (ct *CatTrack) SetPropertiesSafe(props map[string]interface{}) {
	p := ct.Properties.Clone()
	for k, v := range props {
		p[k] = v
	}
	ct.Properties = p
}

// MarshalJSON implements the json.Marshaler interface.
func (ct CatTrack) MarshalJSON() ([]byte, error) {
	f := geojson.Feature(ct)
	return f.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (ct *CatTrack) UnmarshalJSON(data []byte) error {
	f, err := geojson.UnmarshalFeature(data)
	if err != nil {
		return err
	}
	*ct = *(*CatTrack)(f)
	return nil
}

// IsEmpty is useful for dealing with zero-value tracks.
func (ct *CatTrack) IsEmpty() bool {
	return ct == nil || ct.Geometry == nil ||
		ct.Properties == nil ||
		len(ct.Properties) == 0
}

// SubjectID returns the Alias, or else the Name, of the track's subject.
func (ct *CatTrack) SubjectID() conceptual.SubjectID {
	if alias := ct.Properties.MustString("Alias", ""); alias != "" {
		return conceptual.SubjectID(alias)
	}
	return conceptual.SubjectID(ct.Properties.MustString("Name", UnknownName))
}

// Time prefers the UnixTime property, falling back to Time, an RFC3339 string.
func (ct *CatTrack) Time() (time.Time, error) {
	unix, ok := ct.Properties["UnixTime"]
	if ok {
		if v, ok := unix.(int64); ok {
			return time.Unix(v, 0), nil
		} else if v, ok := unix.(float64); ok {
			return time.Unix(int64(v), 0), nil
		}
	}
	rfc3339, ok := ct.Properties["Time"]
	if !ok {
		return time.Time{}, fmt.Errorf("missing Time property")
	}
	if v, ok := rfc3339.(time.Time); ok {
		return v, nil
	}
	ts, ok := rfc3339.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("property Time is not a string")
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.Time{}, err
	}
	if t.IsZero() {
		return time.Time{}, fmt.Errorf("zero time")
	}
	return t, nil
}

// MustTime gets the time or panics.
func (ct *CatTrack) MustTime() time.Time {
	t, err := ct.Time()
	if err != nil {
		panic(err)
	}
	return t
}

// Point returns the Point the subject is or was at.
func (ct *CatTrack) Point() orb.Point {
	return ct.Geometry.Bound().Center()
}

// Validate checks the track for basic validity.
// It returns the first error it encounters.
func (ct *CatTrack) Validate() error {
	if ct.Type != "Feature" {
		return fmt.Errorf("not a feature")
	}
	if ct.Geometry == nil {
		return fmt.Errorf("nil geometry")
	}
	pt, ok := ct.Geometry.(orb.Point)
	if !ok {
		return fmt.Errorf("not a point")
	}
	ptLng, ptLat := pt[0], pt[1]
	if ptLat < -90 || ptLat > 90 {
		return fmt.Errorf("invalid coordinate: lat=%.14f", ptLat)
	}
	if ptLng < -180 || ptLng > 180 {
		return fmt.Errorf("invalid coordinate: lng=%.14f", ptLng)
	}
	if len(ct.Properties) == 0 {
		return fmt.Errorf("empty properties")
	}
	if n, ok := ct.Properties["Name"].(string); !ok || n == "" {
		return fmt.Errorf("missing name")
	}
	if _, err := ct.Time(); err != nil {
		return fmt.Errorf("invalid time: %v", err)
	}
	if v, ok := ct.Properties["Accuracy"]; !ok {
		return fmt.Errorf("missing field: Accuracy")
	} else if _, ok := v.(float64); !ok {
		return fmt.Errorf("accuracy not a float64")
	}
	return nil
}

// ToFix reads the track as a raw fix.
// Negative (unknown) Accuracy, Speed, and Heading become 0.
func (ct *CatTrack) ToFix() (fix.Fix, error) {
	if err := ct.Validate(); err != nil {
		return fix.Fix{}, errors.Join(fix.ErrInvalidFix, err)
	}
	nonNegative := func(key string) float64 {
		return math.Max(0, ct.Properties.MustFloat64(key, 0))
	}
	f := fix.Fix{
		Accuracy: nonNegative("Accuracy"),
		Speed:    nonNegative("Speed"),
		Bearing:  math.Mod(nonNegative("Heading"), 360),
		Provider: ct.Properties.MustString("Provider", params.ProviderRaw),
		Time:     ct.MustTime(),
	}
	return f.WithPoint(ct.Point()), nil
}

// WithFix returns a copy of the track moved to, and moving as, f.
// The track's reported speed is kept as Speed_Raw.
func (ct CatTrack) WithFix(f fix.Fix) CatTrack {
	ct.Geometry = f.Point()
	ct.BBox = nil
	ct.SetPropertiesSafe(map[string]interface{}{
		"Speed_Raw": ct.Properties.MustFloat64("Speed", -1),
		"Speed":     f.Speed,
		"Heading":   f.Bearing,
		"Provider":  f.Provider,
	})
	return ct
}

// SlicesSortFunc sorts tracks chronologically (at 1 second granularity),
// then by accuracy.
func SlicesSortFunc(a, b CatTrack) int {
	ti, err := a.Time()
	if err != nil {
		return 0
	}
	tj, err := b.Time()
	if err != nil {
		return 0
	}
	if ti.Unix() < tj.Unix() {
		return -1
	}
	if ti.Unix() > tj.Unix() {
		return 1
	}
	ai := a.Properties.MustFloat64("Accuracy", 0)
	aj := b.Properties.MustFloat64("Accuracy", 0)
	if ai > aj {
		return 1
	}
	if ai < aj {
		return -1
	}
	return 0
}

func (ct *CatTrack) StringPretty() string {
	pt := ct.Point()
	t, _ := ct.Time()
	return fmt.Sprintf("%s %v %s+/-%.0fm %.2fm/s",
		ct.SubjectID(),
		t.In(time.Local).Format("2006-01-02 15:04:05"),
		fmt.Sprintf("[%v,%v]",
			common.DecimalToFixed(pt.Lat(), common.GPSPrecision5),
			common.DecimalToFixed(pt.Lon(), common.GPSPrecision5)),
		ct.Properties.MustFloat64("Accuracy", -1),
		ct.Properties.MustFloat64("Speed", -1),
	)
}
