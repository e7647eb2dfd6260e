/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rotblauer/trackfilter/catz"
	"github.com/rotblauer/trackfilter/common"
	"github.com/rotblauer/trackfilter/conceptual"
	"github.com/rotblauer/trackfilter/geo/clean"
	"github.com/rotblauer/trackfilter/geo/locfilter"
	"github.com/rotblauer/trackfilter/geo/smoother"
	"github.com/rotblauer/trackfilter/params"
	"github.com/rotblauer/trackfilter/state"
	"github.com/rotblauer/trackfilter/stream"
	"github.com/rotblauer/trackfilter/types"
	"github.com/rotblauer/trackfilter/types/cattrack"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tidwall/gjson"
)

var optSmoothInput string
var optSmoothOutput string
var optSmoothSplit string
var optSmoothResume bool
var optSmoothDedupe bool
var optSmoothClean bool
var optSmoothResetInterval time.Duration

// smoothCmd represents the smooth command
var smoothCmd = &cobra.Command{
	Use:   "smooth",
	Short: "Smooth cat tracks from stdin or a file",
	Long: `

Tracks from mixed subjects ARE supported, e.g. master.json.gz.

Tracks are read as JSON lines, either GeoJSON Features or legacy flat trackpoints, and grouped by subject (Alias, or else Name) before decoding.
Each subject gets its own pipeline, so a subject's tracks are smoothed in the order
they were read, while different subjects run in parallel.

Smoothed tracks keep their properties, with these replaced or added:

  Speed, Heading, Provider   the filtered values
  Speed_Raw                  the speed the device reported
  Filter_Branch              first, accurate, projected, or interpolated
  Filter_AccuracyFactor      -1 for acceptable accuracy
  Calories                   cumulative along the trajectory

Flags:

  --input           Read from this file instead of stdin. Paths ending in .gz are decompressed.
  --output          Write to this file instead of stdout. Paths ending in .gz are compressed.
  --split           Write each subject to <split>/<subject>/smoothed.geojson.gz instead of --output.
  --resume          Continue each subject's trajectory from the last run (see --datadir).
  --dedupe          Drop duplicate tracks. (Default is true.)
  --clean           Drop teleportations, urban canyon shifts, and wild speeds or elevations before smoothing.
  --reset-interval  A gap longer than this between fixes starts a new trajectory. (Default is 10m.)

Filter parameters can be overridden under the 'filter' key of the config file, e.g.

  filter:
    normalspeed: 1.5
    validaccuracy: 25

Examples:

  zcat master.json.gz | trackfilter smooth > smoothed.json
  trackfilter smooth --input master.json.gz --split ./smoothed --resume
`,
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)

		ctx, ctxCanceler := context.WithCancel(context.Background())
		defer ctxCanceler()
		interrupt := common.Interrupted()
		go func() {
			for i := 0; i < 2; i++ {
				sig := <-interrupt
				slog.Warn("Received signal", "signal", sig, "i", i)
				if i == 0 {
					ctxCanceler()
				} else {
					log.Fatalln("Force exit")
				}
			}
		}()

		config, err := smootherConfig()
		if err != nil {
			log.Fatalln(err)
		}

		in, err := catz.Open(optSmoothInput)
		if err != nil {
			log.Fatalln(err)
		}
		defer in.Close()

		opts := smoothOptions{
			Config:        config,
			Resume:        optSmoothResume,
			Dedupe:        optSmoothDedupe,
			MeterInterval: params.DefaultReadMeterInterval,
		}

		if optSmoothClean {
			opts.Clean = params.DefaultCleanConfig
		}

		if optSmoothResume {
			st, err := state.Open(optDatadir, false)
			if err != nil {
				log.Fatalln(err)
			}
			defer func() {
				if err := st.Close(); err != nil {
					slog.Error("Failed to close state", "error", err)
				}
			}()
			opts.Store = st
		}

		var out io.WriteCloser = nopWriteCloser{io.Discard}
		if optSmoothSplit != "" {
			opts.Split = catz.NewFlatWithRoot(optSmoothSplit)
		} else {
			out, err = catz.Create(optSmoothOutput)
			if err != nil {
				log.Fatalln(err)
			}
		}

		res, err := smoothTracks(ctx, in, out, opts)
		if cerr := out.Close(); cerr != nil {
			slog.Error("Failed to close output", "error", cerr)
		}
		if err != nil {
			log.Fatalln(err)
		}
		res.Log()
	},
}

func init() {
	rootCmd.AddCommand(smoothCmd)

	flags := smoothCmd.Flags()
	flags.StringVarP(&optSmoothInput, "input", "i", catz.Stdio, "Input file (- for stdin)")
	flags.StringVarP(&optSmoothOutput, "output", "o", catz.Stdio, "Output file (- for stdout)")
	flags.StringVar(&optSmoothSplit, "split", "", "Write per-subject gzipped files under this directory")
	flags.BoolVar(&optSmoothResume, "resume", false, "Resume trajectories from the state in --datadir")
	flags.BoolVar(&optSmoothDedupe, "dedupe", true, "Drop duplicate tracks")
	flags.BoolVar(&optSmoothClean, "clean", false, "Drop spurious tracks before smoothing")
	flags.DurationVar(&optSmoothResetInterval, "reset-interval", params.DefaultSmootherConfig.ResetInterval,
		"Gap between fixes that starts a new trajectory")

	bindFlags("smooth", flags, "reset-interval")
}

func smootherConfig() (*params.SmootherConfig, error) {
	filter, err := filterConfig()
	if err != nil {
		return nil, err
	}
	cals, err := calorieConfig()
	if err != nil {
		return nil, err
	}
	return &params.SmootherConfig{
		ResetInterval: viper.GetDuration("smooth.reset-interval"),
		Calories:      cals,
		Filter:        filter,
	}, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

type smoothOptions struct {
	Config *params.SmootherConfig

	// Store persists trajectories between runs. It may be nil.
	Store  smoother.LastFixStore
	Resume bool

	// Split, if set, gets one output file per subject and out is unused.
	Split *catz.Flat

	// Clean, if set, runs the cleaning pass before smoothing.
	Clean *params.CleanConfig

	Dedupe        bool
	MeterInterval time.Duration
}

type smoothResult struct {
	Read      int64
	Written   int64
	Smoothers map[conceptual.SubjectID]*smoother.Smoother
	Cleaners  map[conceptual.SubjectID]*clean.Cleaner
}

func (r *smoothResult) Log() {
	ids := make([]string, 0, len(r.Smoothers))
	for id := range r.Smoothers {
		ids = append(ids, id.String())
	}
	sort.Strings(ids)
	for _, id := range ids {
		s := r.Smoothers[conceptual.SubjectID(id)]
		logger := slog.With("subject", id)
		if c, ok := r.Cleaners[conceptual.SubjectID(id)]; ok {
			c.Log(logger)
		}
		s.Summary().Log(logger)
		logger.Info("Filter branches",
			"first", s.Count(locfilter.BranchFirst.String()),
			"accurate", s.Count(locfilter.BranchAccurate.String()),
			"projected", s.Count(locfilter.BranchProjected.String()),
			"interpolated", s.Count(locfilter.BranchInterpolated.String()),
			"reset", s.Count("reset"),
			"skipped", s.Count("skipped"))
	}
	slog.Info("Smooth done", "read", humanize.Comma(r.Read), "written", humanize.Comma(r.Written),
		"subjects", len(r.Smoothers))
}

// subjectOf reads the subject from a raw track without decoding all of it.
func subjectOf(line []byte) conceptual.SubjectID {
	if alias := gjson.GetBytes(line, "properties.Alias").String(); alias != "" {
		return conceptual.SubjectID(alias)
	}
	if name := gjson.GetBytes(line, "properties.Name").String(); name != "" {
		return conceptual.SubjectID(name)
	}
	// Legacy trackpoints are flat.
	if name := gjson.GetBytes(line, "name").String(); name != "" {
		return conceptual.SubjectID(name)
	}
	return conceptual.SubjectID(cattrack.UnknownName)
}

func decodeTrack(line json.RawMessage) cattrack.CatTrack {
	ct, err := types.DecodeCatTrack(line)
	if err != nil {
		slog.Warn("Failed to decode track", "error", err)
		return cattrack.CatTrack{}
	}
	return ct
}

// smoothTracks smooths newline-delimited tracks from in, writing them to out
// or to opts.Split. It returns once in is exhausted, or ctx is done,
// and all subject pipelines have drained.
func smoothTracks(ctx context.Context, in io.Reader, out io.Writer, opts smoothOptions) (*smoothResult, error) {
	meter := stream.NewTickMeter(opts.MeterInterval)
	meter.Start()
	defer meter.Stop()

	res := &smoothResult{
		Smoothers: map[conceptual.SubjectID]*smoother.Smoother{},
		Cleaners:  map[conceptual.SubjectID]*clean.Cleaner{},
	}
	var written atomic.Int64
	var outMu sync.Mutex

	writeTo := func(w io.Writer, locked bool, ct cattrack.CatTrack) error {
		b, err := ct.MarshalJSON()
		if err != nil {
			return err
		}
		b = append(b, '\n')
		if locked {
			outMu.Lock()
			defer outMu.Unlock()
		}
		_, err = w.Write(b)
		return err
	}

	workersWG := new(sync.WaitGroup)
	pipes := map[conceptual.SubjectID]chan json.RawMessage{}

	startSubject := func(id conceptual.SubjectID) (chan json.RawMessage, error) {
		s := smoother.New(id, opts.Config, opts.Store)
		if opts.Resume {
			if err := s.Resume(); err != nil {
				return nil, err
			}
		}

		w, locked := out, true
		var closer io.Closer
		if opts.Split != nil {
			gzw, err := opts.Split.Subject(id).SmoothedWriter()
			if err != nil {
				return nil, err
			}
			w, locked, closer = gzw, false, gzw
		}

		res.Smoothers[id] = s
		var cleaner *clean.Cleaner
		if opts.Clean != nil {
			cleaner = clean.NewCleaner(opts.Clean)
			res.Cleaners[id] = cleaner
		}
		pipe := make(chan json.RawMessage, params.DefaultSubjectBufferSize)

		workersWG.Add(1)
		go func() {
			defer workersWG.Done()
			if closer != nil {
				defer func() {
					if err := closer.Close(); err != nil {
						slog.Error("Failed to close subject output", "subject", id, "error", err)
					}
				}()
			}

			tracks := stream.Transform(ctx, decodeTrack, pipe)
			valid := stream.Filter(ctx, clean.FilterNoEmpty, tracks)
			if opts.Dedupe {
				valid = stream.Filter(ctx, cattrack.NewDedupeLRUFunc(params.DefaultDedupeCacheSize), valid)
			}
			if cleaner != nil {
				valid = cleaner.Stream(ctx, valid)
			}
			for ct := range s.Stream(ctx, valid) {
				if err := writeTo(w, locked, ct); err != nil {
					slog.Error("Failed to write track", "subject", id, "error", err)
					continue
				}
				written.Add(1)
			}
		}()
		return pipe, nil
	}

	// The reader outlives an early break, so it gets its own cancel.
	readCtx, cancelRead := context.WithCancel(ctx)
	defer cancelRead()

	var runErr error
readLoop:
	for line := range stream.NDJSON[json.RawMessage](readCtx, in) {
		id := subjectOf(line)
		meter.Mark(id.String(), gjson.GetBytes(line, "properties.Time").Time(), line)
		res.Read++

		pipe, ok := pipes[id]
		if !ok {
			var err error
			pipe, err = startSubject(id)
			if err != nil {
				runErr = err
				break readLoop
			}
			pipes[id] = pipe
		}
		select {
		case <-ctx.Done():
			break readLoop
		case pipe <- line:
		}
	}

	for _, pipe := range pipes {
		close(pipe)
	}
	workersWG.Wait()
	res.Written = written.Load()
	return res, runErr
}
