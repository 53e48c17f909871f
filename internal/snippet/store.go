package snippet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gofrs/flock"

	"github.com/fakeyudi/snipt/internal/config"
)

// ErrNotFound is returned when a shortcut is absent from the store.
var ErrNotFound = errors.New("shortcut not found")

// ErrCollision is returned by Add when a shortcut name is already taken.
var ErrCollision = errors.New("shortcut already exists")

// Store persists snippet entries as a JSON document keyed by shortcut.
// All mutating operations hold an exclusive advisory lock on a sidecar
// lock file so writers from different processes are serialized; readers
// take a shared lock.
type Store struct {
	path string
	lock *flock.Flock
}

// NewStore returns a Store backed by the default database path, creating
// the application directory if needed.
func NewStore() (*Store, error) {
	if _, err := config.EnsureAppDir(); err != nil {
		return nil, fmt.Errorf("creating app directory: %w", err)
	}
	path, err := config.DBPath()
	if err != nil {
		return nil, err
	}
	return NewStoreAt(path), nil
}

// NewStoreAt returns a Store backed by an explicit database path.
func NewStoreAt(path string) *Store {
	return &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Snapshot is an immutable view of the store contents with lookup indexes.
// The observer holds one and replaces it wholesale on reload.
type Snapshot struct {
	entries []Indexed
	byKey   map[string]Indexed // exact shortcut key
	byName  map[string]Indexed // parameterized entries by name-before-paren
}

// Entries returns all indexed entries, sorted by shortcut for stable output.
func (sn *Snapshot) Entries() []Indexed {
	return sn.entries
}

// LookupBare returns the bare entry with the given shortcut key.
func (sn *Snapshot) LookupBare(name string) (Indexed, bool) {
	ix, ok := sn.byKey[name]
	if !ok || ix.Parameterized() {
		return Indexed{}, false
	}
	return ix, true
}

// LookupParameterized returns the parameterized entry whose
// name-before-parenthesis is name.
func (sn *Snapshot) LookupParameterized(name string) (Indexed, bool) {
	ix, ok := sn.byName[name]
	return ix, ok
}

// Len returns the number of entries in the snapshot.
func (sn *Snapshot) Len() int {
	return len(sn.entries)
}

func buildSnapshot(doc map[string]Entry) (*Snapshot, error) {
	sn := &Snapshot{
		byKey:  make(map[string]Indexed, len(doc)),
		byName: make(map[string]Indexed),
	}
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		e := doc[k]
		ix, err := index(e)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", k, err)
		}
		sn.entries = append(sn.entries, ix)
		sn.byKey[e.Shortcut] = ix
		if ix.Parameterized() {
			sn.byName[ix.Name] = ix
		}
	}
	return sn, nil
}

// Load reads the database under a shared lock and returns a Snapshot.
// A missing file yields an empty snapshot.
func (s *Store) Load() (*Snapshot, error) {
	if err := s.lock.RLock(); err != nil {
		return nil, fmt.Errorf("locking store: %w", err)
	}
	defer s.lock.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	return buildSnapshot(doc)
}

// read parses the on-disk document. Callers hold the lock.
func (s *Store) read() (map[string]Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]Entry{}, nil
		}
		return nil, fmt.Errorf("failed to read snippet store: %w", err)
	}
	if len(data) == 0 {
		return map[string]Entry{}, nil
	}

	var doc map[string]Entry
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse snippet store: %w", err)
	}
	return doc, nil
}

// write replaces the database atomically: temp file in the same directory,
// fsync, rename over the target. Callers hold the exclusive lock.
func (s *Store) write(doc map[string]Entry) (err error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to persist snippet store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "snipt-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to persist snippet store: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist snippet store: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist snippet store: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist snippet store: %w", err)
	}
	if err = os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to persist snippet store: %w", err)
	}
	return nil
}

// mutate runs fn against the current document under the exclusive lock and
// writes the result back.
func (s *Store) mutate(fn func(doc map[string]Entry) error) error {
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("locking store: %w", err)
	}
	defer s.lock.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.write(doc)
}

// Add inserts a new entry. It fails with ErrCollision when the shortcut
// key, or the name-before-parenthesis of a parameterized shortcut, is
// already taken in either form.
func (s *Store) Add(shortcut, body string) error {
	name, _, err := ParseShortcut(shortcut)
	if err != nil {
		return err
	}
	return s.mutate(func(doc map[string]Entry) error {
		for key, existing := range doc {
			existingName, _, perr := ParseShortcut(existing.Shortcut)
			if perr != nil {
				existingName = key
			}
			if key == shortcut || existingName == name {
				return fmt.Errorf("%w: %s", ErrCollision, shortcut)
			}
		}
		doc[shortcut] = NewEntry(shortcut, body)
		return nil
	})
}

// Update replaces the body of an existing entry and refreshes its
// timestamp, which always strictly advances.
func (s *Store) Update(shortcut, body string) error {
	return s.mutate(func(doc map[string]Entry) error {
		e, ok := doc[shortcut]
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotFound, shortcut)
		}
		ts := time.Now()
		if !ts.After(e.Timestamp) {
			ts = e.Timestamp.Add(time.Nanosecond)
		}
		e.Snippet = body
		e.Timestamp = ts
		doc[shortcut] = e
		return nil
	})
}

// Delete removes an entry by its exact shortcut key.
func (s *Store) Delete(shortcut string) error {
	return s.mutate(func(doc map[string]Entry) error {
		if _, ok := doc[shortcut]; !ok {
			return fmt.Errorf("%w: %s", ErrNotFound, shortcut)
		}
		delete(doc, shortcut)
		return nil
	})
}

// Get returns the entry with the exact shortcut key, or ErrNotFound.
func (s *Store) Get(shortcut string) (Entry, error) {
	sn, err := s.Load()
	if err != nil {
		return Entry{}, err
	}
	ix, ok := sn.byKey[shortcut]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, shortcut)
	}
	return ix.Entry, nil
}

// List returns all entries sorted by shortcut.
func (s *Store) List() ([]Entry, error) {
	sn, err := s.Load()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, sn.Len())
	for _, ix := range sn.Entries() {
		entries = append(entries, ix.Entry)
	}
	return entries, nil
}
