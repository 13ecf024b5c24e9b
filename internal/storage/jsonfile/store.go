package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/julianstephens/routinize/internal/constants"
	"github.com/julianstephens/routinize/internal/storage"
)

// Store keeps every key in one JSON document on disk. Access from other
// processes is serialized with an advisory lock file next to it.
type Store struct {
	path     string
	fileLock *flock.Flock
	// mu also serializes use of fileLock. A Flock is a single hold shared by
	// every goroutine, so one reader's Unlock would release another's.
	mu sync.Mutex
}

type fileData struct {
	Metadata metadata          `json:"metadata"`
	Values   map[string]string `json:"values"`
}

type metadata struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func New(path string) *Store {
	return &Store{
		path:     path,
		fileLock: flock.New(path + ".lock"),
	}
}

func (s *Store) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withLock(context.Background(), func() error {
		if _, err := os.Stat(s.path); err == nil {
			// Existing data must at least parse
			_, err := s.read()
			return err
		}
		now := time.Now().UTC()
		return s.write(&fileData{
			Metadata: metadata{Version: constants.Version, CreatedAt: now, UpdatedAt: now},
			Values:   map[string]string{},
		})
	})
}

func (s *Store) Load() error {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'routinize init' first")
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var value string
	var found bool
	err := s.withLock(ctx, func() error {
		data, err := s.read()
		if err != nil {
			return err
		}
		value, found = data.Values[key]
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, storage.ErrKeyNotFound
	}
	return []byte(value), nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.modify(ctx, func(data *fileData) {
		data.Values[key] = string(value)
	})
}

func (s *Store) Remove(ctx context.Context, key string) error {
	return s.modify(ctx, func(data *fileData) {
		delete(data.Values, key)
	})
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var keys []string
	err := s.withLock(ctx, func() error {
		data, err := s.read()
		if err != nil {
			return err
		}
		for k := range data.Values {
			keys = append(keys, k)
		}
		return nil
	})
	sort.Strings(keys)
	return keys, err
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// modify runs a read-modify-write while holding the file lock throughout.
func (s *Store) modify(ctx context.Context, fn func(*fileData)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withLock(ctx, func() error {
		data, err := s.read()
		if err != nil {
			return err
		}
		fn(data)
		data.Metadata.UpdatedAt = time.Now().UTC()
		return s.write(data)
	})
}

func (s *Store) withLock(ctx context.Context, fn func() error) error {
	ctx, cancel := context.WithTimeout(ctx, constants.LockTimeout)
	defer cancel()

	locked, err := s.fileLock.TryLockContext(ctx, constants.LockRetryInterval)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("could not acquire file lock")
	}
	defer func() { _ = s.fileLock.Unlock() }()

	return fn()
}

// read loads the document. A missing or empty file reads as empty.
func (s *Store) read() (*fileData, error) {
	data := &fileData{Values: map[string]string{}}

	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return data, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if data.Values == nil {
		data.Values = map[string]string{}
	}
	return data, nil
}

func (s *Store) write(data *fileData) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	tmpFile := s.path + ".tmp"
	if err := os.WriteFile(tmpFile, raw, 0600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmpFile, s.path); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
