package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/routinize/internal/constants"
)

var (
	// ErrNotFound is returned when no secret is stored for a backend
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Backends whose connection strings may be kept in the keyring.
const (
	Postgres = "postgres"
	Redis    = "redis"
)

func user(backend string) string {
	return constants.DefaultKeyringUser + "-" + backend
}

func validBackend(backend string) error {
	switch backend {
	case Postgres, Redis:
		return nil
	default:
		return fmt.Errorf("unsupported keyring backend %q (expected %s or %s)", backend, Postgres, Redis)
	}
}

// GetConnectionString retrieves the connection string for a backend.
// Returns ErrNotFound if nothing is stored.
func GetConnectionString(backend string) (string, error) {
	if err := validBackend(backend); err != nil {
		return "", err
	}
	connStr, err := keyring.Get(constants.AppName, user(backend))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return connStr, nil
}

// SetConnectionString stores the connection string for a backend.
func SetConnectionString(backend, connStr string) error {
	if err := validBackend(backend); err != nil {
		return err
	}
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(constants.AppName, user(backend), connStr); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

// DeleteConnectionString removes the connection string for a backend.
func DeleteConnectionString(backend string) error {
	if err := validBackend(backend); err != nil {
		return err
	}
	if err := keyring.Delete(constants.AppName, user(backend)); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// IsAvailable is a best-effort check that the OS keyring can be read.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
