// Package scratch keeps track of the temporary files of a command and
// removes them when the command is done, fails or is interrupted.
package scratch

import (
	"context"
	"crypto/rand"
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Set is a set of scratch file paths. It is safe for concurrent use: the
// interrupt handler started by Guard may clean it up while the command
// still runs.
type Set struct {
	dir    string
	prefix string

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	paths   []string
}

// New returns an empty Set whose files live in dir (the current directory
// if empty) and start with prefix.
func New(dir, prefix string) *Set {
	if dir == "" {
		dir = "."
	}
	return &Set{dir: dir, prefix: prefix, entropy: ulid.Monotonic(rand.Reader, 0)}
}

// Path reserves a new, unique, scratch path ending in suffix and tracks
// it. The file itself is not created.
func (s *Set) Path(suffix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy)
	p := filepath.Join(s.dir, s.prefix+id.String()+suffix)
	s.paths = append(s.paths, p)
	return p
}

// Track adds an existing path to the set.
func (s *Set) Track(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = append(s.paths, path)
}

// Release stops tracking path, so Cleanup won't remove it. It is used for
// scratch files that were renamed into their final place.
func (s *Set) Release(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.paths {
		if p == path {
			s.paths = append(s.paths[:i], s.paths[i+1:]...)
			return
		}
	}
}

// Paths returns the tracked paths, in the order they were added.
func (s *Set) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.paths...)
}

// Cleanup removes all the tracked files. Files that don't exist are not
// an error. The paths stay tracked, so a file created after a call to
// Cleanup is removed by the next one.
func (s *Set) Cleanup() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for _, p := range s.paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Guard cleans s up as soon as ctx is done, which is how an interrupt
// reaches the set when ctx comes from signal.NotifyContext. The returned
// function stops the guard; it must be called when the command is done.
func Guard(ctx context.Context, s *Set) (stop func()) {
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		select {
		case <-ctx.Done():
			if err := s.Cleanup(); err != nil {
				log.Printf("scratch: %v", err)
			}
		case <-done:
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			<-finished
		})
	}
}
