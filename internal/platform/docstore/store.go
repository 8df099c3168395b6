// Package docstore implements the JSON-file document store backing the
// portal's default persistence driver. The whole dataset lives in a single
// JSON document of named arrays; every mutation is serialized through one
// mutex and flushed to disk before the call returns, so concurrent handlers
// cannot lose each other's writes.
package docstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Collection names of the portal document.
const (
	Users         = "users"
	Appointments  = "appointments"
	Records       = "records"
	Prescriptions = "prescriptions"
	Payments      = "payments"
)

var defaultCollections = []string{Users, Appointments, Records, Prescriptions, Payments}

// ErrUnknownCollection is returned when a caller names a collection that is
// not part of the document shape.
var ErrUnknownCollection = errors.New("unknown collection")

// Store is an explicitly constructed document store instance. Open it once,
// inject it into repositories, and Close it on shutdown.
type Store struct {
	mu   sync.RWMutex
	path string
	data map[string][]json.RawMessage
}

// Open loads the document at path, or creates it with the default empty
// shape when it does not exist. Collections missing from an existing file
// are initialized empty.
func Open(path string) (*Store, error) {
	s := &Store{
		path: path,
		data: make(map[string][]json.RawMessage, len(defaultCollections)),
	}
	for _, name := range defaultCollections {
		s.data[name] = []json.RawMessage{}
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := s.flushLocked(); err != nil {
			return nil, err
		}
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read store file %s: %w", path, err)
	}

	loaded := make(map[string][]json.RawMessage)
	if err := json.Unmarshal(raw, &loaded); err != nil {
		return nil, fmt.Errorf("parse store file %s: %w", path, err)
	}
	for name, docs := range loaded {
		if docs == nil {
			docs = []json.RawMessage{}
		}
		s.data[name] = docs
	}
	return s, nil
}

// Close flushes the document a final time.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// flushLocked serializes the whole document and swaps it into place with a
// temp-file rename so a crash mid-write cannot corrupt the store. Callers
// must hold s.mu.
func (s *Store) flushLocked() error {
	out, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o600); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}

func (s *Store) collection(name string) ([]json.RawMessage, error) {
	docs, ok := s.data[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, name)
	}
	return docs, nil
}

// All returns every document in the collection, decoded, in insertion order.
func All[T any](s *Store, collection string) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs, err := s.collection(collection)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(docs))
	for _, raw := range docs {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode %s document: %w", collection, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Find returns the first document matching pred, reporting whether one was
// found.
func Find[T any](s *Store, collection string, pred func(T) bool) (T, bool, error) {
	var zero T

	s.mu.RLock()
	defer s.mu.RUnlock()

	docs, err := s.collection(collection)
	if err != nil {
		return zero, false, err
	}
	for _, raw := range docs {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return zero, false, fmt.Errorf("decode %s document: %w", collection, err)
		}
		if pred(v) {
			return v, true, nil
		}
	}
	return zero, false, nil
}

// Insert appends a document to the collection and flushes.
func Insert[T any](s *Store, collection string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s document: %w", collection, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.collection(collection)
	if err != nil {
		return err
	}
	s.data[collection] = append(docs, raw)
	return s.flushLocked()
}

// Replace overwrites the first document matching pred with v and flushes.
// It reports whether a document was replaced; when none matches, the
// collection is left untouched and no flush happens.
func Replace[T any](s *Store, collection string, pred func(T) bool, v T) (bool, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return false, fmt.Errorf("marshal %s document: %w", collection, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.collection(collection)
	if err != nil {
		return false, err
	}
	for i, existing := range docs {
		var cur T
		if err := json.Unmarshal(existing, &cur); err != nil {
			return false, fmt.Errorf("decode %s document: %w", collection, err)
		}
		if pred(cur) {
			docs[i] = raw
			return true, s.flushLocked()
		}
	}
	return false, nil
}

// Remove deletes the first document matching pred and flushes. It reports
// whether a document was removed.
func Remove[T any](s *Store, collection string, pred func(T) bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.collection(collection)
	if err != nil {
		return false, err
	}
	for i, existing := range docs {
		var cur T
		if err := json.Unmarshal(existing, &cur); err != nil {
			return false, fmt.Errorf("decode %s document: %w", collection, err)
		}
		if pred(cur) {
			s.data[collection] = append(docs[:i:i], docs[i+1:]...)
			return true, s.flushLocked()
		}
	}
	return false, nil
}

// DefaultPath returns the store file location inside dataDir.
func DefaultPath(dataDir string) string {
	return filepath.Join(dataDir, "portal.json")
}
