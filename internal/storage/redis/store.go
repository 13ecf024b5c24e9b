package redis

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/julianstephens/routinize/internal/constants"
	"github.com/julianstephens/routinize/internal/storage"
)

// Store keeps each collection as a plain string value under its key.
type Store struct {
	url    string
	opts   *redis.Options
	client *redis.Client
}

// IsConnString reports whether config names a Redis server.
func IsConnString(config string) bool {
	return strings.HasPrefix(config, "redis://") || strings.HasPrefix(config, "rediss://")
}

func New(connStr string) (*Store, error) {
	opts, err := redis.ParseURL(connStr)
	if err != nil {
		return nil, fmt.Errorf("invalid redis connection string: %w", err)
	}
	opts.DialTimeout = 2 * time.Second
	return &Store{url: connStr, opts: opts}, nil
}

func (s *Store) connect(ctx context.Context) error {
	if s.client == nil {
		s.client = redis.NewClient(s.opts)
	}
	if err := s.client.Ping(ctx).Err(); err != nil {
		s.client.Close()
		s.client = nil
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return nil
}

func (s *Store) Init() error {
	return s.connect(context.Background())
}

func (s *Store) Load() error {
	return s.connect(context.Background())
}

func (s *Store) Close() error {
	if s.client != nil {
		err := s.client.Close()
		s.client = nil
		return err
	}
	return nil
}

func (s *Store) getClient() *redis.Client {
	if s.client == nil {
		s.client = redis.NewClient(s.opts)
	}
	return s.client
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.getClient().Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.getClient().Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.getClient().Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to remove key %s: %w", key, err)
	}
	return nil
}

// Keys lists the application's keys only; the server may be shared.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := s.getClient().Scan(ctx, 0, constants.AppName+"-*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

// GetConfigPath returns the server address with credentials stripped.
func (s *Store) GetConfigPath() string {
	u, err := url.Parse(s.url)
	if err != nil {
		return "redis"
	}
	u.User = nil
	return u.String()
}
