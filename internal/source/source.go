// Package source opens order exports and settlement outputs. Paths ending in
// ".gz" are transparently (de)compressed; "-" selects stdin or stdout.
package source

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	"github.com/klauspost/pgzip"
)

// Stdio is the path that selects stdin for reading and stdout for writing.
const Stdio = "-"

// Open returns a reader for the order export at path.
func Open(path string) (io.ReadCloser, error) {
	if path == Stdio {
		return io.NopCloser(os.Stdin), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}
	if !isGzip(path) {
		return f, nil
	}

	zr, err := pgzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, "gzip reader")
	}
	return &gzipReadCloser{Reader: zr, f: f}, nil
}

// Sink is a settlement output. Writes to a file go to a temporary file in
// the same directory, which replaces the target only on Commit, so a failed
// run never truncates an earlier output.
type Sink struct {
	w    io.Writer
	zw   *pgzip.Writer
	f    *os.File
	path string
	done bool
}

// Create returns a sink for the settlement output at path.
func Create(path string) (*Sink, error) {
	if path == Stdio {
		return &Sink{w: os.Stdout}, nil
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, errors.Wrap(err, "create")
	}
	s := &Sink{w: f, f: f, path: path}
	if isGzip(path) {
		s.zw = pgzip.NewWriter(f)
		s.w = s.zw
	}
	return s, nil
}

func (s *Sink) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

// Commit flushes the output and moves it into place.
func (s *Sink) Commit() error {
	if s.f == nil || s.done {
		return nil
	}
	s.done = true

	if s.zw != nil {
		if err := s.zw.Close(); err != nil {
			s.discard()
			return errors.Wrap(err, "gzip close")
		}
	}
	// CreateTemp opens files 0600; outputs get the usual os.Create mode.
	if err := s.f.Chmod(0o644); err != nil {
		s.discard()
		return errors.Wrap(err, "chmod")
	}
	if err := s.f.Close(); err != nil {
		_ = os.Remove(s.f.Name())
		return errors.Wrap(err, "close")
	}
	if err := os.Rename(s.f.Name(), s.path); err != nil {
		_ = os.Remove(s.f.Name())
		return errors.Wrap(err, "rename")
	}
	return nil
}

// Close discards the output unless it was committed.
func (s *Sink) Close() error {
	if s.f == nil || s.done {
		return nil
	}
	s.done = true
	s.discard()
	return nil
}

func (s *Sink) discard() {
	if s.zw != nil {
		_ = s.zw.Close()
	}
	_ = s.f.Close()
	_ = os.Remove(s.f.Name())
}

func isGzip(path string) bool {
	return strings.HasSuffix(path, ".gz")
}

type gzipReadCloser struct {
	*pgzip.Reader
	f *os.File
}

func (r *gzipReadCloser) Close() error {
	zerr := r.Reader.Close()
	if err := r.f.Close(); err != nil {
		return err
	}
	return zerr
}
