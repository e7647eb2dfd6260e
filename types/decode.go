// Package types decodes tracks from the formats clients push.
package types

import (
	"errors"
	"fmt"

	"github.com/rotblauer/trackfilter/types/cattrack"
	"github.com/rotblauer/trackfilter/types/trackpoint"
	"github.com/tidwall/gjson"
)

var ErrDecodeTrack = errors.New("could not decode as geojson feature or trackpoint")

// DecodeCatTrack decodes one track, either a GeoJSON Feature
// or a legacy flat TrackPoint.
func DecodeCatTrack(data []byte) (cattrack.CatTrack, error) {
	if !gjson.ValidBytes(data) {
		return cattrack.CatTrack{}, fmt.Errorf("%w: invalid json", ErrDecodeTrack)
	}
	if gjson.GetBytes(data, "type").String() == "Feature" {
		ct := cattrack.CatTrack{}
		if err := ct.UnmarshalJSON(data); err != nil {
			return cattrack.CatTrack{}, errors.Join(ErrDecodeTrack, err)
		}
		return ct, nil
	}
	if gjson.GetBytes(data, "lat").Exists() && gjson.GetBytes(data, "long").Exists() {
		tp := trackpoint.TrackPoint{}
		if err := tp.UnmarshalJSON(data); err != nil {
			return cattrack.CatTrack{}, errors.Join(ErrDecodeTrack, err)
		}
		return tp.CatTrack(), nil
	}
	return cattrack.CatTrack{}, ErrDecodeTrack
}
