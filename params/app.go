package params

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"time"
)

var DatadirRoot = func() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".trackfilter")
}()

const (
	StateDBName  = "state.db"
	ConfigName   = "config"
	EnvPrefix    = "TRACKFILTER"
	ProviderRaw  = "raw"
	ProviderFuse = "fused"
)

var StateLastFixBucket = []byte("lastfix")

// DefaultLastFixCacheSize bounds the in-memory last-fix cache, in subjects.
var DefaultLastFixCacheSize = 1_000

// DefaultDedupeCacheSize bounds the dedupe LRU, in tracks.
var DefaultDedupeCacheSize = 100_000

// DefaultSubjectBufferSize is the channel buffer for each subject's pipeline.
var DefaultSubjectBufferSize = 1_000

var DefaultReadMeterInterval = 10 * time.Second

var DefaultGZipCompressionLevel = gzip.BestCompression

// SubjectSmoothedName is the per-subject output file under a split output root.
const SubjectSmoothedName = "smoothed.geojson.gz"
