package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/routinize/internal/cli"
	"github.com/julianstephens/routinize/internal/keyring"
	"github.com/julianstephens/routinize/internal/storage/postgres"
	redisstore "github.com/julianstephens/routinize/internal/storage/redis"
)

// SecretSetCmd stores a connection string in the OS keyring
type SecretSetCmd struct {
	Backend          string `arg:"" enum:"postgres,redis" help:"Backend the connection string belongs to (postgres|redis)."`
	ConnectionString string `arg:"" help:"Connection string to store."`
}

func (cmd *SecretSetCmd) Run(ctx *cli.Context) error {
	switch cmd.Backend {
	case keyring.Postgres:
		if !postgres.IsConnString(cmd.ConnectionString) {
			return errors.New("connection string must be a valid PostgreSQL connection string")
		}
		if _, err := postgres.ValidateConnString(cmd.ConnectionString); err != nil {
			if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("invalid connection string: %w", err)
			}
			ctx.Println("⚠️  Warning: Connection string contains embedded credentials.")
			ctx.Println("   It will be stored as-is in the encrypted OS keyring.")
		}
	case keyring.Redis:
		if !redisstore.IsConnString(cmd.ConnectionString) {
			return errors.New("connection string must start with redis:// or rediss://")
		}
	}

	if err := keyring.SetConnectionString(cmd.Backend, cmd.ConnectionString); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}

	ctx.Println("✓ Connection string stored successfully in OS keyring")
	ctx.Printf("  Use it with: routinize --config %s\n", cmd.Backend)
	ctx.Printf("  Stored: %s\n", maskPassword(cmd.ConnectionString))
	return nil
}

// SecretDeleteCmd removes a connection string from the OS keyring
type SecretDeleteCmd struct {
	Backend string `arg:"" enum:"postgres,redis" help:"Backend whose connection string to remove (postgres|redis)."`
}

func (cmd *SecretDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(cmd.Backend); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s connection string found in keyring", cmd.Backend)
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}

	ctx.Println("✓ Connection string deleted from OS keyring")
	return nil
}

// maskPassword hides the password of a URL-style connection string.
func maskPassword(connStr string) string {
	idx := strings.Index(connStr, "://")
	if idx == -1 {
		return connStr
	}
	rest := connStr[idx+3:]
	at := strings.LastIndex(rest, "@")
	if at == -1 {
		return connStr
	}
	userInfo := rest[:at]
	colon := strings.Index(userInfo, ":")
	if colon == -1 {
		return connStr
	}
	return connStr[:idx+3] + userInfo[:colon] + ":****" + rest[at:]
}
