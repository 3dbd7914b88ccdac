// Package state provides the durable key/value store that carries values such as access
// tokens and order ids from one test case to the next.
//
// Every test case may run as a separately dispatched unit, so nothing is kept in process
// memory between calls: each Get loads the whole snapshot from the Backend, and each Set is a
// full load, modify, save cycle. A Store serializes its own callers, but two processes sharing
// one backend must not write at the same time or updates can be lost.
package state

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/simplebooks/books-contract-tests/framework"
)

// ErrNotFound is returned by Lookup when the key has never been set.
var ErrNotFound = errors.New("no such environment entry")

// Backend loads and saves a complete snapshot of all entries. A Backend whose storage does not
// exist yet returns an empty snapshot from Load rather than an error.
type Backend interface {
	Load(ctx context.Context) (map[string]string, error)
	Save(ctx context.Context, entries map[string]string) error
}

// Store is the process-facing API over a Backend.
type Store struct {
	backend Backend
	logger  framework.Logger
	lock    sync.Mutex
}

// NewStore creates a Store. Failures are reported to logger as well as returned; a nil logger
// discards them.
func NewStore(backend Backend, logger framework.Logger) *Store {
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &Store{backend: backend, logger: logger}
}

// Set records value under key, replacing any previous value. The value is stored in its
// textual form (see Text).
func (s *Store) Set(ctx context.Context, key string, value interface{}) error {
	text := Text(value)

	s.lock.Lock()
	defer s.lock.Unlock()

	entries, err := s.backend.Load(ctx)
	if err != nil {
		return s.fail("set", key, err)
	}
	if entries == nil {
		entries = make(map[string]string)
	}
	delete(entries, key)
	entries[key] = text
	if err := s.backend.Save(ctx, entries); err != nil {
		return s.fail("set", key, err)
	}
	return nil
}

// Lookup returns the value stored under key. It returns an error wrapping ErrNotFound if the
// key is absent, or some other error if the backend could not be read.
func (s *Store) Lookup(ctx context.Context, key string) (string, error) {
	s.lock.Lock()
	entries, err := s.backend.Load(ctx)
	s.lock.Unlock()
	if err != nil {
		return "", s.fail("get", key, err)
	}
	value, ok := entries[key]
	if !ok {
		return "", fmt.Errorf("%q: %w", key, ErrNotFound)
	}
	return value, nil
}

// Get is the best-effort form of Lookup: an absent key and an unreadable backend both yield
// "". Backend failures are still reported to the logger.
func (s *Store) Get(ctx context.Context, key string) string {
	value, _ := s.Lookup(ctx, key)
	return value
}

// Snapshot returns a copy of every entry.
func (s *Store) Snapshot(ctx context.Context) (map[string]string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	entries, err := s.backend.Load(ctx)
	if err != nil {
		return nil, s.fail("snapshot", "", err)
	}
	ret := make(map[string]string, len(entries))
	for k, v := range entries {
		ret[k] = v
	}
	return ret, nil
}

// Reset replaces the stored snapshot with an empty one. It is meant for the start of a run,
// so that values from a previous run are not picked up by accident.
func (s *Store) Reset(ctx context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if err := s.backend.Save(ctx, map[string]string{}); err != nil {
		return s.fail("reset", "", err)
	}
	return nil
}

// Close releases the backend's resources if it holds any.
func (s *Store) Close() error {
	if c, ok := s.backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *Store) fail(op, key string, err error) error {
	if key != "" {
		err = fmt.Errorf("state %s %q: %w", op, key, err)
	} else {
		err = fmt.Errorf("state %s: %w", op, err)
	}
	s.logger.Printf("%s", err)
	return err
}

// Text converts a value to the form it is stored in.
func Text(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
