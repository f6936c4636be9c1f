// Package store provides a thin bbolt wrapper for indradhanu's local data:
// preference slots, the last fetched weather snapshot, and a history of past
// recommendation runs. Writes are explicit and synchronous — a set operation
// has persisted before it returns.
//
// Buckets:
//
//	prefs   — default_city, user_profile, language
//	weather — last fetched weather snapshot
//	history — recommendation runs, keyed by timestamp + id
//	_meta   — internal: schema version, created_at
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/indradhanu/indradhanu/internal/model"
)

// Current schema version. Bump when bucket layout or key format changes.
const schemaVersion = 1

// Bucket name constants.
var (
	bucketPrefs    = []byte("prefs")
	bucketWeather  = []byte("weather")
	bucketHistory  = []byte("history")
	bucketInternal = []byte("_meta")
)

// Preference and weather keys.
var (
	keyDefaultCity = []byte("default_city")
	keyUserProfile = []byte("user_profile")
	keyLanguage    = []byte("language")
	keyLastWeather = []byte("last_weather")
)

// AllBuckets lists every user-facing bucket for stats and clear operations.
var AllBuckets = []string{"prefs", "weather", "history"}

// Store wraps a bbolt database.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the bbolt database at path.
// Parent directories are created automatically.
// Runs schema migrations on every open.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening db %s: %w", path, err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the filesystem path of the open database.
func (s *Store) Path() string {
	return s.db.Path()
}

// migrate ensures all buckets exist and schema is current.
func (s *Store) migrate() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketPrefs, bucketWeather, bucketHistory, bucketInternal} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("creating bucket %s: %w", name, err)
			}
		}

		meta := tx.Bucket(bucketInternal)
		if meta.Get([]byte("schema_version")) == nil {
			if err := meta.Put([]byte("schema_version"), []byte(fmt.Sprintf("%d", schemaVersion))); err != nil {
				return err
			}
			if err := meta.Put([]byte("created_at"), []byte(time.Now().UTC().Format(time.RFC3339))); err != nil {
				return err
			}
		}
		return nil
	})
}

// ─── Preferences ──────────────────────────────────────────────────────────────

// PutDefaultCity stores the default city string.
func (s *Store) PutDefaultCity(city string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPrefs).Put(keyDefaultCity, []byte(city))
	})
}

// GetDefaultCity retrieves the default city.
// Returns ("", false, nil) when never set.
func (s *Store) GetDefaultCity() (string, bool, error) {
	var city string
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketPrefs).Get(keyDefaultCity)
		if v == nil {
			return nil
		}
		city = string(v)
		found = true
		return nil
	})
	return city, found, err
}

// PutUserProfile stores the user profile.
func (s *Store) PutUserProfile(p model.UserProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPrefs).Put(keyUserProfile, data)
	})
}

// GetUserProfile retrieves the user profile.
// Returns (zero, false, nil) when never set.
func (s *Store) GetUserProfile() (model.UserProfile, bool, error) {
	var p model.UserProfile
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketPrefs).Get(keyUserProfile)
		if v == nil {
			return nil
		}
		if err := json.Unmarshal(v, &p); err != nil {
			return fmt.Errorf("decoding profile: %w", err)
		}
		found = true
		return nil
	})
	return p, found, err
}

// PutLanguage stores the selected UI language code (e.g. "en", "hi", "mr").
// The code is stored verbatim; consuming it is presentation-layer business.
func (s *Store) PutLanguage(code string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPrefs).Put(keyLanguage, []byte(code))
	})
}

// GetLanguage retrieves the language code. Returns ("", false, nil) when
// never set.
func (s *Store) GetLanguage() (string, bool, error) {
	var code string
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketPrefs).Get(keyLanguage)
		if v == nil {
			return nil
		}
		code = string(v)
		found = true
		return nil
	})
	return code, found, err
}

// ─── Weather Snapshot ─────────────────────────────────────────────────────────

// PutLastWeather stores the most recently fetched weather snapshot.
func (s *Store) PutLastWeather(snap model.WeatherSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding weather snapshot: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketWeather).Put(keyLastWeather, data)
	})
}

// GetLastWeather retrieves the most recently stored weather snapshot.
// Returns (zero, false, nil) when never stored.
func (s *Store) GetLastWeather() (model.WeatherSnapshot, bool, error) {
	var snap model.WeatherSnapshot
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketWeather).Get(keyLastWeather)
		if v == nil {
			return nil
		}
		if err := json.Unmarshal(v, &snap); err != nil {
			return fmt.Errorf("decoding weather snapshot: %w", err)
		}
		found = true
		return nil
	})
	return snap, found, err
}

// PutCityAndWeather stores the default city and the weather snapshot in one
// transaction, so the two values cannot diverge if the process dies between
// writes.
func (s *Store) PutCityAndWeather(city string, snap model.WeatherSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding weather snapshot: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketPrefs).Put(keyDefaultCity, []byte(city)); err != nil {
			return err
		}
		return tx.Bucket(bucketWeather).Put(keyLastWeather, data)
	})
}

// ─── History ──────────────────────────────────────────────────────────────────

// historyKey builds a sortable key: RFC3339 timestamp + id. bbolt cursors
// iterate keys in byte order, so entries come back oldest-first.
func historyKey(e model.HistoryEntry) []byte {
	return []byte(e.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + e.ID)
}

// AppendHistory stores a recommendation run, stamping ID and CreatedAt if
// unset. Returns the stored entry.
func (s *Store) AppendHistory(e model.HistoryEntry) (model.HistoryEntry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return e, fmt.Errorf("encoding history entry: %w", err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketHistory).Put(historyKey(e), data)
	})
	return e, err
}

// ListHistory returns stored entries newest-first. limit <= 0 means all.
func (s *Store) ListHistory(limit int) ([]model.HistoryEntry, error) {
	var entries []model.HistoryEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketHistory).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var e model.HistoryEntry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("decoding history entry %s: %w", k, err)
			}
			entries = append(entries, e)
			if limit > 0 && len(entries) >= limit {
				break
			}
		}
		return nil
	})
	return entries, err
}

// LatestHistory returns the most recent entry.
// Returns (zero, false, nil) when the history is empty.
func (s *Store) LatestHistory() (model.HistoryEntry, bool, error) {
	entries, err := s.ListHistory(1)
	if err != nil {
		return model.HistoryEntry{}, false, err
	}
	if len(entries) == 0 {
		return model.HistoryEntry{}, false, nil
	}
	return entries[0], true, nil
}

// ─── Stats & Maintenance ──────────────────────────────────────────────────────

// BucketStats holds row count and byte size for a single bucket.
type BucketStats struct {
	Name  string
	Count int
	Bytes int64
}

// Stats returns row counts and approximate sizes for all buckets.
func (s *Store) Stats() ([]BucketStats, error) {
	buckets := map[string][]byte{
		"prefs":   bucketPrefs,
		"weather": bucketWeather,
		"history": bucketHistory,
	}

	var stats []BucketStats
	err := s.db.View(func(tx *bolt.Tx) error {
		for _, name := range AllBuckets {
			b := tx.Bucket(buckets[name])
			if b == nil {
				continue
			}
			var count int
			var bytes int64
			b.ForEach(func(k, v []byte) error {
				count++
				bytes += int64(len(k) + len(v))
				return nil
			})
			stats = append(stats, BucketStats{Name: name, Count: count, Bytes: bytes})
		}
		return nil
	})
	return stats, err
}

// ClearBucket deletes all entries in the named bucket.
func (s *Store) ClearBucket(name string) error {
	bname := []byte(name)
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bname); err != nil {
			return fmt.Errorf("clearing bucket %s: %w", name, err)
		}
		_, err := tx.CreateBucket(bname)
		return err
	})
}

// ClearAll deletes all entries from every user-facing bucket.
func (s *Store) ClearAll() error {
	for _, name := range AllBuckets {
		if err := s.ClearBucket(name); err != nil {
			return err
		}
	}
	return nil
}
