package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/routinize/internal/constants"
	"github.com/julianstephens/routinize/internal/logger"
)

// Record is anything stored in a collection.
type Record interface {
	GetID() string
}

// Patch is a partial update applied in place to one record.
type Patch[T any] interface {
	Apply(*T)
}

// Result is the outcome of reading a collection. Items is never nil. Err is
// set when the read failed (wrapping ErrUnavailable or ErrMalformed); in that
// case Items is empty. Dropped lists records that were skipped during
// coercion while the rest of the collection loaded fine.
type Result[T any] struct {
	Items   []T
	Found   bool
	Version int
	Err     error
	Dropped []error
}

// OK reports whether the collection was read without a failure. An absent
// collection is OK.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

type envelope struct {
	Version int               `json:"version"`
	Items   []json.RawMessage `json:"items"`
}

// Collection is the accessor for one stored sequence of records. Every
// mutation is a read-modify-write of the whole sequence.
type Collection[T Record] struct {
	key     string
	backend Backend
	mu      *sync.Mutex
	now     func() time.Time

	// coerce repairs or rejects a record on read
	coerce func(T) (T, error)
	// prepend puts new records at the front instead of the back
	prepend bool
	// touch stamps a modification time on update, when the record has one
	touch func(*T, time.Time)
}

func (c *Collection[T]) Key() string {
	return c.key
}

// Load reads the collection and reports what happened.
func (c *Collection[T]) Load(ctx context.Context) Result[T] {
	res := Result[T]{Items: []T{}}
	if c.backend == nil {
		res.Err = fmt.Errorf("%w: no backend configured", ErrUnavailable)
		return res
	}

	raw, err := c.backend.Get(ctx, c.key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return res
		}
		res.Err = fmt.Errorf("%w: %v", ErrUnavailable, err)
		return res
	}
	res.Found = true

	items, version, dropped, err := decode(raw, c.coerce)
	if err != nil {
		res.Err = err
		return res
	}
	res.Items = items
	res.Version = version
	res.Dropped = dropped
	return res
}

// GetAll returns the stored records, or an empty slice when the collection is
// absent, corrupted or the backend is unavailable. Failures are logged.
func (c *Collection[T]) GetAll(ctx context.Context) []T {
	res := c.Load(ctx)
	c.report(res)
	return res.Items
}

// Save overwrites the stored collection wholesale.
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	if c.backend == nil {
		return fmt.Errorf("%w: no backend configured", ErrUnavailable)
	}
	data, err := encode(items)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", c.key, err)
	}
	if err := c.backend.Set(ctx, c.key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.key, err)
	}
	return nil
}

// SaveAll is Save with the error logged instead of returned.
func (c *Collection[T]) SaveAll(ctx context.Context, items []T) {
	if err := c.Save(ctx, items); err != nil {
		logger.Error("Error writing collection", "key", c.key, "error", err)
	}
}

// Add appends the record, or puts it first for most-recent-first collections.
func (c *Collection[T]) Add(ctx context.Context, item T) {
	c.Mutate(ctx, func(items []T) []T {
		if c.prepend {
			return append([]T{item}, items...)
		}
		return append(items, item)
	})
}

// Update applies patch to the record with the given id. It is a no-op when no
// record matches. Reports whether a record was updated.
func (c *Collection[T]) Update(ctx context.Context, id string, patch Patch[T]) bool {
	updated := false
	c.Mutate(ctx, func(items []T) []T {
		for i := range items {
			if items[i].GetID() != id {
				continue
			}
			patch.Apply(&items[i])
			if c.touch != nil {
				c.touch(&items[i], c.now())
			}
			updated = true
			break
		}
		return items
	})
	return updated
}

// Delete removes the record with the given id. No-op when absent.
func (c *Collection[T]) Delete(ctx context.Context, id string) bool {
	deleted := false
	c.Mutate(ctx, func(items []T) []T {
		kept := items[:0]
		for _, item := range items {
			if item.GetID() == id {
				deleted = true
				continue
			}
			kept = append(kept, item)
		}
		return kept
	})
	return deleted
}

// Find returns the record with the given id.
func (c *Collection[T]) Find(ctx context.Context, id string) (T, bool) {
	for _, item := range c.GetAll(ctx) {
		if item.GetID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Mutate runs a read-modify-write cycle with fn as the transformation. A
// malformed collection counts as absent: its value is set aside under
// CorruptKey and fn starts from an empty slice. Nothing is written when the
// backend is unreachable.
func (c *Collection[T]) Mutate(ctx context.Context, fn func([]T) []T) []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := c.Load(ctx)
	c.report(res)
	switch {
	case errors.Is(res.Err, ErrMalformed):
		c.setAside(ctx)
	case !res.OK():
		return res.Items
	}

	items := fn(res.Items)
	c.SaveAll(ctx, items)
	return items
}

// CorruptKey is where a malformed value is kept before it is replaced.
func (c *Collection[T]) CorruptKey() string {
	return c.key + constants.CorruptKeySuffix
}

func (c *Collection[T]) setAside(ctx context.Context) {
	raw, err := c.backend.Get(ctx, c.key)
	if err != nil {
		logger.Warn("Failed to read malformed collection", "key", c.key, "error", err)
		return
	}
	if err := c.backend.Set(ctx, c.CorruptKey(), raw); err != nil {
		logger.Warn("Failed to set aside malformed collection", "key", c.key, "error", err)
		return
	}
	logger.Warn("Replacing malformed collection", "key", c.key, "saved_as", c.CorruptKey())
}

func (c *Collection[T]) report(res Result[T]) {
	if res.Err != nil {
		logger.Error("Error reading collection", "key", c.key, "error", res.Err)
	}
	for _, d := range res.Dropped {
		logger.Warn("Dropped stored record", "key", c.key, "error", d)
	}
}

func encode[T any](items []T) ([]byte, error) {
	raw := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		b, err := json.Marshal(item)
		if err != nil {
			return nil, err
		}
		raw = append(raw, b)
	}
	return json.Marshal(envelope{Version: constants.CollectionVersion, Items: raw})
}

// decode accepts the current envelope as well as the bare array written by
// earlier releases (version 0). Each record is decoded and coerced on its own
// so one bad record does not take the collection down with it.
func decode[T any](raw []byte, coerce func(T) (T, error)) ([]T, int, []error, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return []T{}, 0, nil, nil
	}

	var env envelope
	switch raw[0] {
	case '[':
		if err := json.Unmarshal(raw, &env.Items); err != nil {
			return []T{}, 0, nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	case '{':
		if err := json.Unmarshal(raw, &env); err != nil {
			return []T{}, 0, nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if env.Version < 1 || env.Version > constants.CollectionVersion {
			return []T{}, env.Version, nil, fmt.Errorf("%w: unsupported collection version %d", ErrMalformed, env.Version)
		}
	default:
		return []T{}, 0, nil, fmt.Errorf("%w: expected a JSON array or object", ErrMalformed)
	}

	items := make([]T, 0, len(env.Items))
	var dropped []error
	for i, rawItem := range env.Items {
		var item T
		if err := json.Unmarshal(rawItem, &item); err != nil {
			dropped = append(dropped, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		if coerce != nil {
			fixed, err := coerce(item)
			if err != nil {
				dropped = append(dropped, fmt.Errorf("record %d: %w", i, err))
				continue
			}
			item = fixed
		}
		items = append(items, item)
	}
	return items, env.Version, dropped, nil
}
