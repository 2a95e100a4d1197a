// Package fileseq provides a durable, monotonically increasing sequence of
// uint64 values backed by a pair of files on disk.
//
// A Store keeps its current value in two slot files inside a store
// directory. Every write first rotates the previous latest slot into a
// backup slot via rename, then writes the new value, so at least one
// readable value survives a crash at any point. Reads reconcile the two
// slots and repair a store left behind by an interrupted write, trusting
// the backup over a stale or unreadable latest slot.
//
// A Store performs no locking of its own. Concurrent use from multiple
// goroutines or processes sharing a store directory requires external
// coordination.
package fileseq

import (
	"encoding/binary"
	"errors"
	"fmt"
	"path/filepath"
	"time"
)

// ErrCorrupted is returned when neither slot file holds a readable value.
var ErrCorrupted = errors.New("both sequence slots are unreadable")

const (
	// backupSlot holds the previous value, produced by rotating the latest
	// slot ahead of each write.
	backupSlot = "_1.seq"

	// latestSlot is the write target and holds the newest value.
	latestSlot = "_2.seq"

	// slotSize is the encoded size of a sequence value (big-endian uint64).
	slotSize = 8
)

// Options controls store behavior.
type Options struct {
	// EventHandler receives store events.
	// If nil, events are discarded.
	EventHandler EventHandler

	// FS provides filesystem access. If nil, the host filesystem is used.
	FS FS

	// Now provides the current time (for testing). If nil, uses time.Now.
	Now func() time.Time
}

// DefaultOptions returns the default options: the host filesystem,
// wall-clock time, and no event handler.
func DefaultOptions() Options {
	return Options{}
}

// Store is a durable sequence of uint64 values rooted at a directory.
type Store struct {
	dir        string
	backupPath string
	latestPath string

	fs      FS
	now     func() time.Time
	handler EventHandler
}

// Open creates or attaches to the sequence store in dir, creating the
// directory if needed. When neither slot file exists the store is seeded
// with initialValue; otherwise initialValue is ignored and the persisted
// value wins.
func Open(dir string, initialValue uint64, opts Options) (*Store, error) {
	if opts.FS == nil {
		opts.FS = osFS{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	start := opts.Now()

	if err := opts.FS.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	s := &Store{
		dir:        dir,
		backupPath: filepath.Join(dir, backupSlot),
		latestPath: filepath.Join(dir, latestSlot),
		fs:         opts.FS,
		now:        opts.Now,
		handler:    opts.EventHandler,
	}

	initialized := false
	if !s.exists(s.backupPath) && !s.exists(s.latestPath) {
		if err := s.persist(initialValue); err != nil {
			return nil, err
		}
		initialized = true
	}

	opened := NewEvent(EventOpened, dir).
		WithElapsed(s.now().Sub(start)).
		WithPayload("initialized", initialized)
	if initialized {
		opened = opened.WithValue(initialValue)
	}
	s.emit(opened)

	return s, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.dir
}

// Value returns the current sequence value. Reading reconciles the two
// slots and may repair the store: a latest slot that is unreadable or not
// strictly ahead of the backup is removed and the backup value is used.
func (s *Store) Value() (uint64, error) {
	return s.read()
}

// GetAndIncrement persists the value advanced by delta and returns the
// value as it was before the increment.
func (s *Store) GetAndIncrement(delta uint64) (uint64, error) {
	value, err := s.read()
	if err != nil {
		return 0, err
	}
	if err := s.persist(value + delta); err != nil {
		return 0, err
	}
	return value, nil
}

// IncrementAndGet persists the value advanced by delta and returns the
// new value.
func (s *Store) IncrementAndGet(delta uint64) (uint64, error) {
	value, err := s.GetAndIncrement(delta)
	if err != nil {
		return 0, err
	}
	return value + delta, nil
}

// Delete removes both slot files, backup first. The store directory itself
// is left in place. Delete is not idempotent: deleting a store whose slot
// files are already gone returns an error, and a failed backup removal
// leaves the latest slot untouched.
func (s *Store) Delete() error {
	if err := s.fs.Remove(s.backupPath); err != nil {
		return fmt.Errorf("failed to remove backup slot: %w", err)
	}
	if err := s.fs.Remove(s.latestPath); err != nil {
		return fmt.Errorf("failed to remove latest slot: %w", err)
	}
	s.emit(NewEvent(EventDeleted, s.dir))
	return nil
}

// read reconciles the two slots into a single authoritative value.
func (s *Store) read() (uint64, error) {
	backup, backupOK := s.readSlot(s.backupPath)
	latest, latestOK := s.readSlot(s.latestPath)

	if latestOK {
		if !backupOK || latest > backup {
			return latest, nil
		}
		// Rotation guarantees the latest slot is strictly ahead of the
		// backup. Anything else means the last write never completed,
		// so the backup is the trusted value.
		_ = s.fs.Remove(s.latestPath)
		s.emit(NewEvent(EventHealed, s.dir).
			WithSlot(latestSlot).
			WithValue(backup).
			WithPayload("latest", latest).
			WithPayload("backup", backup))
		return backup, nil
	}

	// The latest slot is absent or unreadable. Drop whatever is there so
	// the next write starts a clean rotation.
	if err := s.fs.Remove(s.latestPath); err == nil {
		s.emit(NewEvent(EventDiscarded, s.dir).WithSlot(latestSlot))
	}

	if backupOK {
		return backup, nil
	}
	s.emit(NewEvent(EventCorrupted, s.dir))
	return 0, ErrCorrupted
}

// readSlot decodes the value held by one slot file. ok is false when the
// file is absent, unreadable, or holds fewer than slotSize bytes.
func (s *Store) readSlot(path string) (value uint64, ok bool) {
	b, err := s.fs.ReadFile(path)
	if err != nil || len(b) < slotSize {
		return 0, false
	}
	return binary.BigEndian.Uint64(b[:slotSize]), true
}

// persist rotates the latest slot into the backup slot and writes value to
// the latest slot. The rename is the crash-safety boundary: once it lands,
// the previous value survives no matter how the write ends.
func (s *Store) persist(value uint64) error {
	start := s.now()

	if s.exists(s.latestPath) {
		if err := s.fs.Rename(s.latestPath, s.backupPath); err != nil {
			return fmt.Errorf("failed to rotate latest slot into backup: %w", err)
		}
	}

	buf := make([]byte, slotSize)
	binary.BigEndian.PutUint64(buf, value)
	if err := s.fs.WriteFile(s.latestPath, buf, 0644); err != nil {
		return fmt.Errorf("failed to write latest slot: %w", err)
	}

	s.emit(NewEvent(EventPersisted, s.dir).
		WithSlot(latestSlot).
		WithValue(value).
		WithElapsed(s.now().Sub(start)))
	return nil
}

func (s *Store) exists(path string) bool {
	_, err := s.fs.Stat(path)
	return err == nil
}

func (s *Store) emit(e Event) {
	if s.handler != nil {
		s.handler(e)
	}
}
