package stream

import (
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/rotblauer/trackfilter/common"
)

// TickMeter logs line and byte throughput every interval until stopped.
type TickMeter struct {
	interval   time.Duration
	started    time.Time
	ticker     *time.Ticker
	done       chan struct{}
	mu         sync.Mutex
	label      time.Time // any value, eg track.time
	subjects   map[string]struct{}
	countMeter metrics.Meter
	sizeMeter  metrics.Meter
}

// NewTickMeter returns a meter which needs metrics.Enabled set to count.
func NewTickMeter(interval time.Duration) *TickMeter {
	return &TickMeter{
		interval:   interval,
		started:    time.Now(),
		done:       make(chan struct{}),
		subjects:   map[string]struct{}{},
		countMeter: metrics.NewMeter(),
		sizeMeter:  metrics.NewMeter(),
	}
}

func (m *TickMeter) Start() {
	m.ticker = time.NewTicker(m.interval)
	go func() {
		for {
			select {
			case <-m.done:
				return
			case <-m.ticker.C:
				m.Log()
			}
		}
	}()
}

// Mark counts one line of data for subject, labeled with the line's time.
func (m *TickMeter) Mark(subject string, label time.Time, data []byte) {
	m.mu.Lock()
	m.label = label
	m.subjects[subject] = struct{}{}
	m.mu.Unlock()
	m.countMeter.Mark(1)
	m.sizeMeter.Mark(int64(len(data)))
}

func (m *TickMeter) Count() int64 {
	return m.countMeter.Snapshot().Count()
}

func (m *TickMeter) Log() {
	countSnap := m.countMeter.Snapshot()
	sizeSnap := m.sizeMeter.Snapshot()

	m.mu.Lock()
	subjects := make([]string, 0, len(m.subjects))
	for s := range m.subjects {
		subjects = append(subjects, s)
	}
	label := m.label
	m.mu.Unlock()
	sort.Strings(subjects)

	slog.Info("Read tracks", "n", humanize.Comma(countSnap.Count()),
		"subjects", strings.Join(subjects, ","),
		"read.last", label.Format(time.DateTime),
		"tps", common.DecimalToFixed(countSnap.Rate1(), 0),
		"bps", humanize.Bytes(uint64(sizeSnap.Rate1())),
		"total.bytes", humanize.Bytes(uint64(sizeSnap.Count())),
		"running", time.Since(m.started).Round(time.Second))
}

func (m *TickMeter) Stop() {
	if m == nil {
		return
	}
	if m.ticker != nil {
		m.ticker.Stop()
		close(m.done)
	}
	m.countMeter.Stop()
	m.sizeMeter.Stop()
}
