package smoother

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/metrics"
	"github.com/rotblauer/trackfilter/common"
	"github.com/rotblauer/trackfilter/conceptual"
	"github.com/rotblauer/trackfilter/stream"
	"github.com/rotblauer/trackfilter/testing/testdata"
	"github.com/rotblauer/trackfilter/types/cattrack"
	"github.com/rotblauer/trackfilter/types/fix"
)

func TestMain(m *testing.M) {
	metrics.Enabled = true
	os.Exit(m.Run())
}

func walkTracks(t *testing.T, n int) []cattrack.CatTrack {
	t.Helper()
	lines := testdata.Walk("rye", -93.25, 44.98, n, 7)
	tracks := make([]cattrack.CatTrack, 0, n)
	for _, line := range lines {
		ct := cattrack.CatTrack{}
		if err := json.Unmarshal([]byte(line), &ct); err != nil {
			t.Fatal(err)
		}
		tracks = append(tracks, ct)
	}
	return tracks
}

func TestSmootherStream(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelError)()
	ctx := context.Background()
	tracks := walkTracks(t, 200)

	s := New("rye", nil, nil)
	out := stream.Collect(ctx, s.Stream(ctx, stream.Slice(ctx, tracks)))
	if len(out) != len(tracks) {
		t.Fatalf("got %d tracks, want %d", len(out), len(tracks))
	}
	if branch := out[0].Properties.MustString("Filter_Branch"); branch != "first" {
		t.Errorf("first track branch: got %s", branch)
	}

	var total int64
	for _, name := range []string{"first", "accurate", "projected", "interpolated"} {
		total += s.Count(name)
	}
	if total != int64(len(tracks)) {
		t.Errorf("branch counts: got %d, want %d", total, len(tracks))
	}
	if s.Count("accurate") == 0 || s.Count("interpolated")+s.Count("projected") == 0 {
		t.Errorf("expected a mix of branches: accurate=%d interpolated=%d projected=%d",
			s.Count("accurate"), s.Count("interpolated"), s.Count("projected"))
	}

	for i, ct := range out {
		speed := ct.Properties.MustFloat64("Speed")
		if speed < 0 || speed > 4 {
			t.Errorf("track %d: implausible walking speed %v", i, speed)
		}
		if _, ok := ct.Properties["Speed_Raw"]; !ok {
			t.Errorf("track %d: missing raw speed", i)
		}
	}
	if kcal := out[len(out)-1].Properties.MustFloat64("Calories"); kcal <= 0 {
		t.Errorf("calories: got %v", kcal)
	}

	sum := s.Summary()
	if sum.Len() != len(tracks) {
		t.Errorf("summary len: got %d", sum.Len())
	}
	// 199 steps of ~6.5m.
	if d := sum.Distance(); d < 500 || d > 3000 {
		t.Errorf("distance: got %v", d)
	}
	if mean := sum.Smoothed().Mean; mean <= 0 {
		t.Errorf("mean speed: got %v", mean)
	}
	sum.Log(slog.Default())

	last := s.Last()
	if last == nil || !last.Time.Equal(out[len(out)-1].MustTime()) {
		t.Errorf("last fix: got %v", last)
	}
}

func TestSmootherSkipsOutOfOrder(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelError)()
	tracks := walkTracks(t, 3)
	s := New("rye", nil, nil)
	if _, err := s.Smooth(tracks[1]); err != nil {
		t.Fatal(err)
	}
	for _, ct := range []cattrack.CatTrack{tracks[0], tracks[1]} {
		if _, err := s.Smooth(ct); err == nil {
			t.Errorf("expected error for track not after last")
		}
	}
	if _, err := s.Smooth(tracks[2]); err != nil {
		t.Errorf("in order track: %v", err)
	}

	ctx := context.Background()
	s = New("rye", nil, nil)
	out := stream.Collect(ctx, s.Stream(ctx, stream.Slice(ctx, []cattrack.CatTrack{tracks[1], tracks[0], tracks[2]})))
	if len(out) != 2 || s.Count("skipped") != 1 {
		t.Errorf("got %d tracks, %d skipped; want 2, 1", len(out), s.Count("skipped"))
	}
}

func TestSmootherResetsAfterGap(t *testing.T) {
	tracks := walkTracks(t, 2)
	s := New("rye", nil, nil)
	if _, err := s.Smooth(tracks[0]); err != nil {
		t.Fatal(err)
	}
	later := tracks[1]
	tm := later.MustTime().Add(s.Config.ResetInterval + time.Minute)
	later.SetPropertiesSafe(map[string]interface{}{"UnixTime": float64(tm.Unix())})

	got, err := s.Smooth(later)
	if err != nil {
		t.Fatal(err)
	}
	if branch := got.Properties.MustString("Filter_Branch"); branch != "first" {
		t.Errorf("branch after gap: got %s, want first", branch)
	}
	if s.Count("reset") != 1 {
		t.Errorf("resets: got %d", s.Count("reset"))
	}
}

type memStore map[conceptual.SubjectID]fix.Fix

func (m memStore) LastFix(id conceptual.SubjectID) (*fix.Fix, error) {
	f, ok := m[id]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (m memStore) SetLastFix(id conceptual.SubjectID, f fix.Fix) error {
	m[id] = f
	return nil
}

func TestSmootherResume(t *testing.T) {
	tracks := walkTracks(t, 3)
	store := memStore{}

	s := New("rye", nil, store)
	if err := s.Resume(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Smooth(tracks[0]); err != nil {
		t.Fatal(err)
	}
	if _, ok := store["rye"]; !ok {
		t.Fatal("last fix not stored")
	}

	s = New("rye", nil, store)
	if err := s.Resume(); err != nil {
		t.Fatal(err)
	}
	got, err := s.Smooth(tracks[1])
	if err != nil {
		t.Fatal(err)
	}
	if branch := got.Properties.MustString("Filter_Branch"); branch == "first" {
		t.Error("resumed trajectory started over")
	}
}

func TestSmootherCaloriesOnlyWhenHumanPowered(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelError)()
	tracks := walkTracks(t, 10)
	for i := range tracks {
		tracks[i].SetPropertySafe("Activity", "Automotive")
	}
	s := New("rye", nil, nil)
	var last cattrack.CatTrack
	for _, ct := range tracks {
		out, err := s.Smooth(ct)
		if err != nil {
			t.Fatal(err)
		}
		if act := out.Properties.MustString("Filter_Activity"); act != "Automotive" {
			t.Fatalf("activity: got %s", act)
		}
		last = out
	}
	if kcal := last.Properties.MustFloat64("Calories"); kcal != 0 {
		t.Errorf("driving burned %v kcal", kcal)
	}
}
