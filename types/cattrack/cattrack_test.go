package cattrack

import (
	"encoding/json"
	"errors"
	"slices"
	"testing"

	"github.com/paulmach/orb"
	"github.com/rotblauer/trackfilter/testing/testdata"
	"github.com/rotblauer/trackfilter/types/fix"
)

func mustDecode(t *testing.T, s string) CatTrack {
	t.Helper()
	ct := CatTrack{}
	if err := json.Unmarshal([]byte(s), &ct); err != nil {
		t.Fatal(err)
	}
	return ct
}

func TestCatTrackToFix(t *testing.T) {
	ct := mustDecode(t, testdata.Track_iOS_stationary_1)
	if err := ct.Validate(); err != nil {
		t.Fatal(err)
	}
	f, err := ct.ToFix()
	if err != nil {
		t.Fatal(err)
	}
	if f.Lat != 44.98896789550781 || f.Lon != -93.2554931640625 {
		t.Errorf("coordinate: got %v", f)
	}
	// iOS reports unknown speed and heading as -1.
	if f.Speed != 0 || f.Bearing != 0 {
		t.Errorf("unknowns: got speed=%v bearing=%v, want 0", f.Speed, f.Bearing)
	}
	if f.Accuracy != 23.13 {
		t.Errorf("accuracy: got %v", f.Accuracy)
	}
	if f.Provider != "raw" {
		t.Errorf("provider: got %q, want raw", f.Provider)
	}
	if f.Time.Unix() != 1734967916 {
		t.Errorf("time: got %v", f.Time)
	}
	if ct.SubjectID() != "rye" {
		t.Errorf("subject: got %q, want alias rye", ct.SubjectID())
	}

	android := mustDecode(t, testdata.Track_Android_stationary_1)
	if android.SubjectID() != "ranga-moto-act3" {
		t.Errorf("subject: got %q, want name", android.SubjectID())
	}
}

func TestCatTrackToFixInvalid(t *testing.T) {
	ct := mustDecode(t, testdata.Track_Android_stationary_1)
	delete(ct.Properties, "Accuracy")
	if _, err := ct.ToFix(); !errors.Is(err, fix.ErrInvalidFix) {
		t.Errorf("got %v, want ErrInvalidFix", err)
	}

	ct = mustDecode(t, testdata.Track_Android_stationary_1)
	ct.Geometry = orb.LineString{{0, 0}, {1, 1}}
	if err := ct.Validate(); err == nil {
		t.Error("expected error for non-point geometry")
	}
}

func TestCatTrackWithFix(t *testing.T) {
	ct := mustDecode(t, testdata.Track_Android_stationary_1)
	f, err := ct.ToFix()
	if err != nil {
		t.Fatal(err)
	}
	f.Lat += 0.001
	f.Speed = 0.4
	f.Bearing = 12
	f.Provider = "fused"

	moved := ct.WithFix(f)
	if moved.Point() != f.Point() {
		t.Errorf("point: got %v, want %v", moved.Point(), f.Point())
	}
	if moved.BBox != nil {
		t.Errorf("stale bbox kept: %v", moved.BBox)
	}
	if got := moved.Properties.MustFloat64("Speed_Raw"); got != 0.06 {
		t.Errorf("raw speed: got %v", got)
	}
	if got := moved.Properties.MustFloat64("Speed"); got != 0.4 {
		t.Errorf("speed: got %v", got)
	}
	if got := moved.Properties.MustString("Provider"); got != "fused" {
		t.Errorf("provider: got %v", got)
	}
	// The original is untouched.
	if _, ok := ct.Properties["Speed_Raw"]; ok {
		t.Error("original track was modified")
	}
	if ct.Point() == moved.Point() {
		t.Error("original track was moved")
	}
}

func TestCatTrackJSONRoundTrip(t *testing.T) {
	ct := mustDecode(t, testdata.Track_Android_stationary_1)
	b, err := json.Marshal(ct)
	if err != nil {
		t.Fatal(err)
	}
	again := mustDecode(t, string(b))
	if again.Point() != ct.Point() || again.MustTime() != ct.MustTime() {
		t.Errorf("got %s, want %s", again.StringPretty(), ct.StringPretty())
	}
}

func TestSlicesSortFunc(t *testing.T) {
	lines := testdata.Walk("sorty", -93.25, 44.98, 6, 1)
	tracks := make([]CatTrack, 0, len(lines))
	for i := len(lines) - 1; i >= 0; i-- {
		tracks = append(tracks, mustDecode(t, lines[i]))
	}
	slices.SortFunc(tracks, SlicesSortFunc)
	for i := 1; i < len(tracks); i++ {
		if tracks[i].MustTime().Before(tracks[i-1].MustTime()) {
			t.Fatalf("not sorted at %d", i)
		}
	}
}

func TestDedupeLRUFunc(t *testing.T) {
	lines := testdata.Walk("dupe", -93.25, 44.98, 3, 1)
	dedupe := NewDedupeLRUFunc(10)
	seen := 0
	for _, line := range append(lines, lines...) {
		if dedupe(mustDecode(t, line)) {
			seen++
		}
	}
	if seen != len(lines) {
		t.Errorf("got %d distinct, want %d", seen, len(lines))
	}
}
