package catz

import (
	"os"
	"path/filepath"

	"github.com/rotblauer/trackfilter/conceptual"
	"github.com/rotblauer/trackfilter/params"
)

// Flat is a directory of per-subject output files.
type Flat struct {
	// path includes the root directory.
	path string
}

func NewFlatWithRoot(root string) *Flat {
	root = filepath.Clean(root)
	if !filepath.IsAbs(root) {
		root, _ = filepath.Abs(root)
	}
	return &Flat{path: root}
}

// Subject returns a Flat rooted at the subject's subdirectory.
func (f *Flat) Subject(id conceptual.SubjectID) *Flat {
	return &Flat{path: filepath.Join(f.path, id.String())}
}

// Exists returns true if the directory exists.
func (f *Flat) Exists() bool {
	_, err := os.Stat(f.path)
	return err == nil
}

func (f *Flat) MkdirAll() error {
	return os.MkdirAll(f.path, 0770)
}

func (f *Flat) Path() string {
	return f.path
}

func (f *Flat) NewGZFileWriter(name string, config *GZFileWriterConfig) (*GZFileWriter, error) {
	return NewGZFileWriter(filepath.Join(f.path, name), config)
}

func (f *Flat) NamedGZReader(name string) (*GZFileReader, error) {
	return NewGZFileReader(filepath.Join(f.path, name))
}

// SmoothedWriter opens the subject's smoothed track file for appending.
func (f *Flat) SmoothedWriter() (*GZFileWriter, error) {
	return f.NewGZFileWriter(params.SubjectSmoothedName, nil)
}
