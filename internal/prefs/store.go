// ABOUTME: Badger-backed key/value store for user preferences.
// ABOUTME: Rest timer, vibration, and sound settings with defaults for missing or bad values.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v3"
)

const (
	keyPrefix = "pref:"

	KeyRestTimer = "rest_timer"
	KeyVibration = "vibration"
	KeySound     = "sound"
)

// Defaults and bounds.
const (
	DefaultRestTimer = 90 * time.Second
	MinRestTimer     = 5 * time.Second
	MaxRestTimer     = 30 * time.Minute
)

// ErrOutOfRange is returned when a setting is outside its allowed bounds.
var ErrOutOfRange = errors.New("value out of range")

// Store holds preferences in a badger database directory.
type Store struct {
	db *badger.DB
	mu sync.RWMutex
}

// Open opens or creates the preferences database in dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create prefs directory: %w", err)
	}
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open prefs: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory returns a store that is never written to disk.
func OpenInMemory() (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open prefs: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RestTimer returns the rest period between sets.
func (s *Store) RestTimer() time.Duration {
	var seconds int64
	if ok := s.get(KeyRestTimer, &seconds); !ok {
		return DefaultRestTimer
	}
	d := time.Duration(seconds) * time.Second
	if d < MinRestTimer || d > MaxRestTimer {
		return DefaultRestTimer
	}
	return d
}

// SetRestTimer stores the rest period, rounded down to whole seconds.
func (s *Store) SetRestTimer(d time.Duration) error {
	if d < MinRestTimer || d > MaxRestTimer {
		return fmt.Errorf("%w: rest timer must be between %s and %s", ErrOutOfRange, MinRestTimer, MaxRestTimer)
	}
	return s.set(KeyRestTimer, int64(d/time.Second))
}

// Vibration reports whether the rest timer vibrates when it ends.
func (s *Store) Vibration() bool {
	return s.boolOr(KeyVibration, true)
}

// SetVibration stores the vibration toggle.
func (s *Store) SetVibration(on bool) error {
	return s.set(KeyVibration, on)
}

// Sound reports whether the rest timer plays a sound when it ends.
func (s *Store) Sound() bool {
	return s.boolOr(KeySound, true)
}

// SetSound stores the sound toggle.
func (s *Store) SetSound(on bool) error {
	return s.set(KeySound, on)
}

// Set parses value for the named preference and stores it. Rest timer
// values are Go durations ("2m", "45s") or whole seconds.
func (s *Store) Set(key, value string) error {
	switch key {
	case KeyRestTimer:
		d, err := time.ParseDuration(value)
		if err != nil {
			secs, serr := strconv.Atoi(value)
			if serr != nil {
				return fmt.Errorf("invalid duration %q: %w", value, err)
			}
			d = time.Duration(secs) * time.Second
		}
		return s.SetRestTimer(d)
	case KeyVibration, KeySound:
		on, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q: %w", value, err)
		}
		return s.set(key, on)
	default:
		return fmt.Errorf("unknown preference %q", key)
	}
}

// Snapshot is every preference with defaults applied.
type Snapshot struct {
	RestTimer time.Duration `json:"rest_timer"`
	Vibration bool          `json:"vibration"`
	Sound     bool          `json:"sound"`
}

// Snapshot reads all preferences at once.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		RestTimer: s.RestTimer(),
		Vibration: s.Vibration(),
		Sound:     s.Sound(),
	}
}

// Keys returns the stored preference names, sorted.
func (s *Store) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, string(it.Item().Key()[len(keyPrefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list prefs: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) boolOr(key string, def bool) bool {
	var v bool
	if ok := s.get(key, &v); !ok {
		return def
	}
	return v
}

// get decodes the stored value for key into dst. Missing keys, read errors
// and malformed values all report false.
func (s *Store) get(key string, dst any) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + key))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func (s *Store) set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+key), data)
	})
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
