package cmd

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/metrics"
	"github.com/rotblauer/trackfilter/catz"
	"github.com/rotblauer/trackfilter/common"
	"github.com/rotblauer/trackfilter/conceptual"
	"github.com/rotblauer/trackfilter/params"
	"github.com/rotblauer/trackfilter/state"
	"github.com/rotblauer/trackfilter/testing/testdata"
	"github.com/rotblauer/trackfilter/types/cattrack"
)

func TestMain(m *testing.M) {
	metrics.Enabled = true
	os.Exit(m.Run())
}

// interleave mixes the subjects' lines, keeping each subject's order.
func interleave(walks ...[]string) string {
	var sb strings.Builder
	for i := 0; ; i++ {
		wrote := false
		for _, w := range walks {
			if i < len(w) {
				sb.WriteString(w[i])
				sb.WriteString("\n")
				wrote = true
			}
		}
		if !wrote {
			return sb.String()
		}
	}
}

func readTracks(t *testing.T, b []byte) []cattrack.CatTrack {
	t.Helper()
	var out []cattrack.CatTrack
	scanner := bufio.NewScanner(bytes.NewReader(b))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		ct := cattrack.CatTrack{}
		if err := json.Unmarshal(scanner.Bytes(), &ct); err != nil {
			t.Fatal(err)
		}
		out = append(out, ct)
	}
	if err := scanner.Err(); err != nil {
		t.Fatal(err)
	}
	return out
}

func testSmoothOptions() smoothOptions {
	return smoothOptions{
		Config:        params.DefaultSmootherConfig,
		Dedupe:        true,
		MeterInterval: time.Hour,
	}
}

func TestSubjectOf(t *testing.T) {
	cases := []struct {
		line string
		want conceptual.SubjectID
	}{
		{testdata.Track_iOS_stationary_1, "rye"},
		{testdata.Track_Android_stationary_1, "ranga-moto-act3"},
		{`{"name":"Rye16","lat":44.9,"long":-93.2,"time":"2024-12-20T22:09:01.458Z"}`, "Rye16"},
		{`{"type":"Feature","properties":{}}`, conceptual.SubjectID(cattrack.UnknownName)},
	}
	for _, c := range cases {
		if got := subjectOf([]byte(c.line)); got != c.want {
			t.Errorf("got %q, want %q", got, c.want)
		}
	}
}

func TestSmoothTracks(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelError)()

	rye := testdata.Walk("rye", -93.25, 44.98, 120, 1)
	ia := testdata.Walk("ia", -111.7, 45.6, 80, 2)
	// A retried push, a broken-type value, and an unknown subject's junk.
	ryeWithDupe := append([]string{}, rye[:10]...)
	ryeWithDupe = append(ryeWithDupe, rye[9])
	ryeWithDupe = append(ryeWithDupe, rye[10:]...)
	input := interleave(ryeWithDupe, ia, []string{`{"type":"Feature","geometry":null,"properties":{}}`})

	out := new(bytes.Buffer)
	res, err := smoothTracks(context.Background(), strings.NewReader(input), out, testSmoothOptions())
	if err != nil {
		t.Fatal(err)
	}
	if res.Read != int64(len(ryeWithDupe)+len(ia)+1) {
		t.Errorf("read: got %d", res.Read)
	}
	if len(res.Smoothers) != 3 {
		t.Errorf("subjects: got %d", len(res.Smoothers))
	}

	tracks := readTracks(t, out.Bytes())
	if int64(len(tracks)) != res.Written {
		t.Errorf("written: got %d, counted %d", len(tracks), res.Written)
	}
	bySubject := map[conceptual.SubjectID][]cattrack.CatTrack{}
	for _, ct := range tracks {
		bySubject[ct.SubjectID()] = append(bySubject[ct.SubjectID()], ct)
	}
	if got := len(bySubject["rye"]); got != len(rye) {
		t.Errorf("rye: got %d tracks, want %d", got, len(rye))
	}
	if got := len(bySubject["ia"]); got != len(ia) {
		t.Errorf("ia: got %d tracks, want %d", got, len(ia))
	}

	for id, cts := range bySubject {
		for i, ct := range cts {
			if _, ok := ct.Properties["Filter_Branch"]; !ok {
				t.Fatalf("%s track %d: missing branch", id, i)
			}
			if i > 0 && !cts[i-1].MustTime().Before(ct.MustTime()) {
				t.Fatalf("%s track %d: out of order", id, i)
			}
		}
		if branch := cts[0].Properties.MustString("Filter_Branch"); branch != "first" {
			t.Errorf("%s: first branch %s", id, branch)
		}
	}
}

func TestSmoothTracksResumeSplit(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelError)()

	dir := t.TempDir()
	walk := testdata.Walk("rye", -93.25, 44.98, 60, 3)
	first := strings.Join(walk[:30], "\n") + "\n"
	second := strings.Join(walk[30:], "\n") + "\n"

	run := func(input string) *smoothResult {
		st, err := state.Open(filepath.Join(dir, "state"), false)
		if err != nil {
			t.Fatal(err)
		}
		defer st.Close()
		opts := testSmoothOptions()
		opts.Store = st
		opts.Resume = true
		opts.Split = catz.NewFlatWithRoot(filepath.Join(dir, "out"))
		res, err := smoothTracks(context.Background(), strings.NewReader(input), nil, opts)
		if err != nil {
			t.Fatal(err)
		}
		return res
	}

	run(first)
	res := run(second)
	if got := res.Smoothers["rye"].Count("first"); got != 0 {
		t.Errorf("resumed run should continue the trajectory, got %d first fixes", got)
	}

	r, err := catz.NewFlatWithRoot(filepath.Join(dir, "out")).Subject("rye").NamedGZReader(params.SubjectSmoothedName)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	n, err := r.LineCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != len(walk) {
		t.Errorf("split output: got %d lines, want %d", n, len(walk))
	}
}

func TestSmoothTracksCanceled(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelError)()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	input := strings.Join(testdata.Walk("rye", -93.25, 44.98, 50, 4), "\n")
	res, err := smoothTracks(ctx, strings.NewReader(input), new(bytes.Buffer), testSmoothOptions())
	if err != nil {
		t.Fatal(err)
	}
	if res.Written > res.Read {
		t.Errorf("wrote %d of %d", res.Written, res.Read)
	}
}

func TestCaloriesLine(t *testing.T) {
	got := caloriesLine(params.DefaultCalorieConfig, 1.4, 30*time.Minute)
	if !strings.HasSuffix(got, "kcal (speed=1.4m/s duration=30m0s height=1.7m weight=70kg)") {
		t.Errorf("got %q", got)
	}
}

func TestProjectLine(t *testing.T) {
	got := projectLine(0, 0, 90, 1000)
	// Truncation lands on 89 if the bearing comes out a hair under 90.
	if got != "lat=0 lon=0.0089932 bearing=90" && got != "lat=0 lon=0.0089932 bearing=89" {
		t.Errorf("got %q", got)
	}
}

func TestSmoothTracksClean(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelError)()

	walk := testdata.Walk("rye", -93.25, 44.98, 40, 5)
	// Reported as 400m/s.
	walk[20] = strings.Replace(walk[20], `"Speed":`, `"Speed":400,"Speed_Was":`, 1)
	opts := testSmoothOptions()
	opts.Clean = params.DefaultCleanConfig

	out := new(bytes.Buffer)
	res, err := smoothTracks(context.Background(), strings.NewReader(strings.Join(walk, "\n")), out, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Written != int64(len(walk)-1) {
		t.Errorf("written: got %d, want %d", res.Written, len(walk)-1)
	}
	if _, ok := res.Cleaners["rye"]; !ok {
		t.Error("missing cleaner")
	}
}
