// Package statefile keeps the rotation snapshot in a single JSON file that is
// replaced atomically on every write. The previous snapshot is kept next to it
// as <file>.bak and used when the main file turns out to be unreadable.
package statefile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/diegoclair/slack-duty-bot/internal/domain"
	"github.com/diegoclair/slack-duty-bot/internal/domain/contract"
	"github.com/diegoclair/slack-duty-bot/internal/domain/entity"
	"github.com/gofrs/flock"
	"github.com/sirupsen/logrus"
)

// FileName is the snapshot file created inside the state directory.
const FileName = "rotation_state.json"

// LockName is the advisory lock held by the process that owns the snapshot.
const LockName = "rotation_state.lock"

var _ contract.StateStore = (*Store)(nil)

type Store struct {
	path string
	seed []string
	log  *logrus.Entry

	// swapped in tests to simulate a failing filesystem
	rename func(oldpath, newpath string) error
	now    func() time.Time
}

// New prepares dir and returns a store for dir/rotation_state.json. seed is
// the roster used when no snapshot exists yet.
func New(dir string, seed []string, log *logrus.Entry) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state dir: %w", err)
	}

	return &Store{
		path:   filepath.Join(dir, FileName),
		seed:   seed,
		log:    log,
		rename: os.Rename,
		now:    time.Now,
	}, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) backupPath() string {
	return s.path + ".bak"
}

// Load reads the snapshot. A missing file yields the seeded default. A broken
// file is set aside, the backup is tried, and failing that the default is
// used; in both cases the returned error wraps domain.ErrCorruptState and the
// returned state is safe to run with.
func (s *Store) Load() (entity.State, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		state := s.defaultState()
		s.log.Infof("No state file at %s, starting with %d seeded members", s.path, len(state.Roster))
		if len(state.Roster) > 0 {
			if err := s.Save(state); err != nil {
				s.log.Warnf("Failed to persist seeded state: %v", err)
			}
		}
		return state, nil
	}

	var loadErr error
	if err != nil {
		loadErr = fmt.Errorf("%w: %v", domain.ErrCorruptState, err)
	} else {
		state, repaired, decodeErr := Decode(data)
		if decodeErr == nil {
			if repaired {
				s.log.Warnf("Repaired invalid fields in %s", s.path)
				if err := s.Save(state); err != nil {
					s.log.Warnf("Failed to persist repaired state: %v", err)
				}
			}
			return state, nil
		}
		loadErr = decodeErr
		s.quarantine()
	}

	s.log.Errorf("State file %s is unusable: %v", s.path, loadErr)

	if state, ok := s.loadBackup(); ok {
		s.log.Warnf("Recovered rotation state from %s", s.backupPath())
		if err := s.Save(state); err != nil {
			s.log.Warnf("Failed to persist recovered state: %v", err)
		}
		return state, fmt.Errorf("recovered from backup: %w", loadErr)
	}

	s.log.Warn("Starting with default rotation state")
	state := s.defaultState()
	if err := s.Save(state); err != nil {
		s.log.Warnf("Failed to persist default state: %v", err)
	}
	return state, fmt.Errorf("using defaults: %w", loadErr)
}

// Lock claims the state directory for this process. Only the owner may Load
// and Save; a second owner fails with domain.ErrStateLocked. The lock is
// released by the returned func or when the process exits.
func (s *Store) Lock() (unlock func() error, err error) {
	lock := flock.New(filepath.Join(filepath.Dir(s.path), LockName))

	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock state dir: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s is held", domain.ErrStateLocked, lock.Path())
	}
	return lock.Unlock, nil
}

// Peek reads the snapshot without writing anything: no seeding, no repair
// write-back and no quarantine. A missing file yields the seeded default.
func (s *Store) Peek() (state entity.State, repaired bool, err error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return s.defaultState(), false, nil
	}
	if err != nil {
		return entity.State{}, false, fmt.Errorf("%w: %v", domain.ErrCorruptState, err)
	}
	return Decode(data)
}

// Save writes state to a temp file and renames it over the snapshot. The
// snapshot being replaced is copied to the backup first.
func (s *Store) Save(state entity.State) error {
	data, err := Encode(state)
	if err != nil {
		return err
	}

	if prev, err := os.ReadFile(s.path); err == nil {
		if _, _, err := Decode(prev); err == nil {
			if err := s.writeAtomic(s.backupPath(), prev); err != nil {
				s.log.Warnf("Failed to refresh state backup: %v", err)
			}
		}
	}

	if err := s.writeAtomic(s.path, data); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	return nil
}

func (s *Store) writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return err
	}
	if err := s.rename(tmpName, path); err != nil {
		cleanup()
		return err
	}

	// make the rename itself durable
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		d.Close()
	}
	return nil
}

func (s *Store) loadBackup() (entity.State, bool) {
	data, err := os.ReadFile(s.backupPath())
	if err != nil {
		return entity.State{}, false
	}
	state, _, err := Decode(data)
	if err != nil {
		s.log.Warnf("State backup is unusable too: %v", err)
		return entity.State{}, false
	}
	return state, true
}

// quarantine moves a broken snapshot aside so it can be inspected later.
func (s *Store) quarantine() {
	target := s.path + ".corrupt-" + strconv.FormatInt(s.now().Unix(), 10)
	if err := os.Rename(s.path, target); err != nil {
		s.log.Warnf("Failed to move corrupt state aside: %v", err)
		return
	}
	s.log.Warnf("Moved corrupt state file to %s", target)
}

func (s *Store) defaultState() entity.State {
	state := entity.State{Roster: []string{}}
	seen := make(map[string]bool)
	for _, id := range s.seed {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		state.Roster = append(state.Roster, id)
	}
	return state
}
