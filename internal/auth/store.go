package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
	"github.com/fsnotify/fsnotify"
)

// defaultStoreSubdir is the credential directory relative to the XDG config
// home when no explicit directory is configured.
const defaultStoreSubdir = "forcectl/credentials"

// lastKeyFile records the most recently saved key so that anonymous lookups
// survive process restarts.
const lastKeyFile = "last_key.json"

// Key identifies a stored credential set: one per connected app, per user,
// per organization.
type Key struct {
	UserID      string `json:"user_id"`
	OrgID       string `json:"org_id"`
	ConsumerKey string `json:"consumer_key"`
}

// filename derives a filesystem-safe name for the key.
func (k Key) filename() string {
	hash := sha256.Sum256([]byte(k.UserID + "\x00" + k.OrgID + "\x00" + k.ConsumerKey))
	return hex.EncodeToString(hash[:16]) + ".json"
}

// entry is the on-disk shape of a stored credential. The key is persisted
// alongside the record so files remain self-describing.
type entry struct {
	Key           Key           `json:"key"`
	Authorization Authorization `json:"authorization"`
}

// Store is process-wide keyed persistence for Authorization records.
//
// SECURITY: the store handles credential material. Files are written with
// 0600 permissions into a 0700 directory, and token values are never logged.
// Writes replace the whole entry; there are no partial updates.
type Store struct {
	mu      sync.RWMutex
	dir     string
	cache   map[Key]*Authorization
	lastKey *Key
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// StoreConfig configures a credential store.
type StoreConfig struct {
	// Dir is the directory for credential files.
	// Defaults to $XDG_CONFIG_HOME/forcectl/credentials.
	Dir string

	// DisableWatcher turns off filesystem notification. Without the
	// watcher the in-memory cache may serve stale records after another
	// process rewrites a credential file.
	DisableWatcher bool
}

// NewStore opens (creating if necessary) the credential store directory and
// starts a watcher that invalidates cached entries when another process
// writes or deletes credential files.
func NewStore(cfg StoreConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = filepath.Join(xdg.ConfigHome, defaultStoreSubdir)
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create credential directory: %w", err)
	}

	s := &Store{
		dir:   dir,
		cache: make(map[Key]*Authorization),
		done:  make(chan struct{}),
	}
	s.lastKey = s.readLastKey()

	if !cfg.DisableWatcher {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			slog.Debug("credential store watcher unavailable, cache invalidation disabled",
				"dir", dir,
				"error", err.Error(),
			)
		} else if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			slog.Debug("credential store watcher could not watch directory",
				"dir", dir,
				"error", err.Error(),
			)
		} else {
			s.watcher = watcher
			go s.watch()
		}
	}

	return s, nil
}

// Retrieve returns the stored record for the key, or nil if no record exists
// or the store is unavailable. Repeated calls without an intervening Save or
// Delete return identical results.
func (s *Store) Retrieve(key Key) *Authorization {
	s.mu.RLock()
	if rec, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return rec
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another goroutine may have populated the cache in the meantime.
	if rec, ok := s.cache[key]; ok {
		return rec
	}

	rec, err := s.readEntry(key)
	if err != nil {
		return nil
	}
	s.cache[key] = rec
	return rec
}

// Save persists the record, overwriting any prior entry for the key, and
// updates the last-stored key.
func (s *Store) Save(key Key, rec *Authorization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(entry{Key: key, Authorization: *rec}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credential entry: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, key.filename()), data, 0600); err != nil {
		slog.Warn("credential persistence failed",
			"user_id", key.UserID,
			"org_id", key.OrgID,
			"error", err.Error(),
		)
		return fmt.Errorf("failed to persist credential: %w", err)
	}

	s.cache[key] = rec
	s.lastKey = &key
	if err := s.writeLastKey(key); err != nil {
		return err
	}

	slog.Debug("credential stored",
		"user_id", key.UserID,
		"org_id", key.OrgID,
		"has_refresh_token", rec.RefreshToken != "",
	)
	return nil
}

// Delete removes the entry for the key. If it was the last-stored key, the
// pointer is cleared as well.
func (s *Store) Delete(key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.cache, key)
	if err := os.Remove(filepath.Join(s.dir, key.filename())); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete credential: %w", err)
	}

	if s.lastKey != nil && *s.lastKey == key {
		s.lastKey = nil
		if err := os.Remove(filepath.Join(s.dir, lastKeyFile)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to clear last-stored key: %w", err)
		}
	}

	slog.Debug("credential deleted",
		"user_id", key.UserID,
		"org_id", key.OrgID,
	)
	return nil
}

// LastKey returns the most recently saved key, or false if the store has
// never been written.
func (s *Store) LastKey() (Key, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.lastKey == nil {
		return Key{}, false
	}
	return *s.lastKey, true
}

// Close stops the filesystem watcher. The underlying files are left intact;
// the store has no other teardown.
func (s *Store) Close() error {
	close(s.done)
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

// watch drops cached state whenever a credential file changes on disk, so a
// long-running client observes logins and logouts performed by other
// processes. The next read reloads from disk.
func (s *Store) watch() {
	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			s.mu.Lock()
			s.cache = make(map[Key]*Authorization)
			s.lastKey = s.readLastKey()
			s.mu.Unlock()
		case _, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (s *Store) readEntry(key Key) (*Authorization, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, key.filename()))
	if err != nil {
		return nil, err
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credential entry: %w", err)
	}
	return &e.Authorization, nil
}

func (s *Store) readLastKey() *Key {
	data, err := os.ReadFile(filepath.Join(s.dir, lastKeyFile))
	if err != nil {
		return nil
	}

	var key Key
	if err := json.Unmarshal(data, &key); err != nil {
		return nil
	}
	return &key
}

func (s *Store) writeLastKey(key Key) error {
	data, err := json.MarshalIndent(key, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal last-stored key: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, lastKeyFile), data, 0600); err != nil {
		return fmt.Errorf("failed to persist last-stored key: %w", err)
	}
	return nil
}
