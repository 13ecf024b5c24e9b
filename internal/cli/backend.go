package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/routinize/internal/constants"
	"github.com/julianstephens/routinize/internal/keyring"
	"github.com/julianstephens/routinize/internal/storage"
	"github.com/julianstephens/routinize/internal/storage/jsonfile"
	"github.com/julianstephens/routinize/internal/storage/postgres"
	redisstore "github.com/julianstephens/routinize/internal/storage/redis"
	"github.com/julianstephens/routinize/internal/storage/sqlite"
)

// Config keywords that select a backend whose connection string is kept
// outside the command line.
const (
	ConfigMemory   = "memory"
	ConfigPostgres = "postgres"
	ConfigRedis    = "redis"
)

// NewBackend selects the storage backend for a --config value:
//
//	memory               in-process map
//	postgres, redis      connection string from the environment or OS keyring
//	postgres://...       PostgreSQL (no embedded password)
//	redis://...          Redis
//	*.json               JSON document with file locking
//	anything else        SQLite database file
func NewBackend(config string) (storage.Backend, error) {
	config = strings.TrimSpace(config)
	switch {
	case config == ConfigMemory:
		return storage.NewMemoryBackend(), nil
	case config == ConfigPostgres || config == ConfigRedis:
		connStr, err := ResolveSecret(config)
		if err != nil {
			return nil, err
		}
		return backendFromSecret(config, connStr)
	case postgres.IsConnString(config):
		if _, err := postgres.ValidateConnString(config); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w; store it with 'routinize secret set postgres' or set %s and pass --config postgres", err, constants.EnvDBConnection)
			}
			return nil, err
		}
		return postgres.New(config), nil
	case redisstore.IsConnString(config):
		return redisstore.New(config)
	}

	path, err := ExpandPath(config)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return jsonfile.New(path), nil
	}
	return sqlite.New(path), nil
}

func backendFromSecret(kind, connStr string) (storage.Backend, error) {
	if kind == ConfigRedis {
		return redisstore.New(connStr)
	}
	return postgres.New(connStr), nil
}

// ResolveSecret finds the connection string for a keyword backend. The
// environment wins over the keyring.
func ResolveSecret(kind string) (string, error) {
	if connStr := os.Getenv(constants.EnvDBConnection); connStr != "" {
		return connStr, nil
	}
	connStr, err := keyring.GetConnectionString(kind)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("no %s connection string found: set %s or run 'routinize secret set %s <connection-string>'", kind, constants.EnvDBConnection, kind)
		}
		return "", err
	}
	return connStr, nil
}

// ExpandPath resolves a leading ~ to the home directory.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}

// FileBackedPath returns the data file of a SQLite or JSON backend.
func FileBackedPath(b storage.Backend) (string, bool) {
	switch s := b.(type) {
	case *sqlite.Store:
		return s.GetConfigPath(), true
	case *jsonfile.Store:
		return s.GetConfigPath(), true
	default:
		return "", false
	}
}
