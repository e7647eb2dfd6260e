// Package catz opens and creates the newline-delimited track files the
// filter reads and writes. Paths ending in .gz are (de)compressed transparently,
// and "-" names stdin or stdout.
package catz

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rotblauer/trackfilter/params"
)

// Stdio is the path naming stdin for readers and stdout for writers.
const Stdio = "-"

func isGZ(path string) bool {
	return strings.HasSuffix(path, ".gz")
}

// Open returns a reader for path. Gzipped files are decompressed.
func Open(path string) (io.ReadCloser, error) {
	if path == "" || path == Stdio {
		return io.NopCloser(os.Stdin), nil
	}
	if isGZ(path) {
		r, err := NewGZFileReader(path)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	return os.Open(path)
}

// Create returns a writer for path, appending when the file exists.
// Gzipped files get a new gzip member per writer.
func Create(path string) (io.WriteCloser, error) {
	if path == "" || path == Stdio {
		return nopWriteCloser{os.Stdout}, nil
	}
	config := DefaultGZFileWriterConfig()
	if isGZ(path) {
		w, err := NewGZFileWriter(path, config)
		if err != nil {
			return nil, err
		}
		return w, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), config.DirPerm); err != nil {
		return nil, err
	}
	return os.OpenFile(path, config.Flag, config.FilePerm)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

type GZFileWriter struct {
	f      *os.File
	gzw    *gzip.Writer
	locked bool
	closed bool

	GZFileWriterConfig
}

type GZFileWriterConfig struct {
	CompressionLevel int
	Flag             int
	FilePerm         os.FileMode
	DirPerm          os.FileMode
}

func DefaultGZFileWriterConfig() *GZFileWriterConfig {
	return &GZFileWriterConfig{
		CompressionLevel: params.DefaultGZipCompressionLevel,
		Flag:             os.O_WRONLY | os.O_APPEND | os.O_CREATE,
		FilePerm:         0660,
		DirPerm:          0770,
	}
}

func NewGZFileWriter(path string, config *GZFileWriterConfig) (*GZFileWriter, error) {
	if config == nil {
		config = DefaultGZFileWriterConfig()
	}
	if err := os.MkdirAll(filepath.Dir(path), config.DirPerm); err != nil {
		return nil, err
	}
	fi, err := os.OpenFile(path, config.Flag, config.FilePerm)
	if err != nil {
		return nil, err
	}
	gzw, err := gzip.NewWriterLevel(fi, config.CompressionLevel)
	if err != nil {
		_ = fi.Close()
		return nil, err
	}
	return &GZFileWriter{f: fi, gzw: gzw, GZFileWriterConfig: *config}, nil
}

// Write takes an exclusive lock on the file at first use,
// held until Close.
func (g *GZFileWriter) Write(p []byte) (int, error) {
	g.lock()
	return g.gzw.Write(p)
}

func (g *GZFileWriter) Path() string {
	return g.f.Name()
}

// lock locks the file for exclusive access.
// The lock is released when the file is closed.
func (g *GZFileWriter) lock() {
	if g.locked || g.closed || g.f == nil {
		return
	}
	_ = syscall.Flock(int(g.f.Fd()), syscall.LOCK_EX)
	g.locked = true
}

func (g *GZFileWriter) unlock() {
	if !g.locked || g.closed || g.f == nil {
		return
	}
	_ = syscall.Flock(int(g.f.Fd()), syscall.LOCK_UN)
	g.locked = false
}

func (g *GZFileWriter) Close() error {
	if g.closed {
		return nil
	}
	defer func() {
		g.closed = true
	}()
	defer g.unlock()
	if err := g.gzw.Close(); err != nil {
		_ = g.f.Close()
		return err
	}
	if err := g.f.Sync(); err != nil {
		_ = g.f.Close()
		return err
	}
	return g.f.Close()
}

type GZFileReader struct {
	f      *os.File
	gzr    *gzip.Reader
	closed bool
}

func NewGZFileReader(path string) (*GZFileReader, error) {
	fi, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	gzr, err := gzip.NewReader(fi)
	if err != nil {
		_ = fi.Close()
		return nil, err
	}
	return &GZFileReader{f: fi, gzr: gzr}, nil
}

func (g *GZFileReader) Path() string {
	return g.f.Name()
}

// Read satisfies the io.Reader interface.
func (g *GZFileReader) Read(p []byte) (int, error) {
	return g.gzr.Read(p)
}

// Close closes the gzip reader and the file.
func (g *GZFileReader) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true
	if err := g.gzr.Close(); err != nil {
		_ = g.f.Close()
		return err
	}
	return g.f.Close()
}

// LineCount consumes the reader.
func (g *GZFileReader) LineCount() (int, error) {
	count := 0
	scanner := bufio.NewScanner(g)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		count++
	}
	return count, scanner.Err()
}
