package storage

import (
	"context"
	"sync"
	"time"

	"github.com/julianstephens/routinize/internal/constants"
	"github.com/julianstephens/routinize/internal/models"
)

// Accessor exposes the three stored collections over one backend.
//
// Mutations are serialized by a single mutex. Across processes the last
// writer wins.
type Accessor struct {
	backend Backend

	Routines      *Collection[models.Routine]
	HealthRecords *Collection[models.HealthRecord]
	TimeBlocks    *Collection[models.TimeBlock]
}

type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source used for modification stamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// NewAccessor wires the collections to backend. A nil backend is allowed and
// behaves as unavailable storage: reads return empty collections and writes
// are dropped.
func NewAccessor(backend Backend, opts ...Option) *Accessor {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	mu := &sync.Mutex{}

	return &Accessor{
		backend: backend,
		Routines: &Collection[models.Routine]{
			key:     constants.RoutinesKey,
			backend: backend,
			mu:      mu,
			now:     o.now,
			coerce:  models.CoerceRoutine,
			touch:   func(r *models.Routine, t time.Time) { r.Touch(t) },
		},
		HealthRecords: &Collection[models.HealthRecord]{
			key:     constants.HealthRecordsKey,
			backend: backend,
			mu:      mu,
			now:     o.now,
			coerce:  models.CoerceHealthRecord,
			prepend: true,
		},
		TimeBlocks: &Collection[models.TimeBlock]{
			key:     constants.TimeBlocksKey,
			backend: backend,
			mu:      mu,
			now:     o.now,
			coerce:  models.CoerceTimeBlock,
		},
	}
}

func (a *Accessor) Backend() Backend {
	return a.backend
}

// Diagnostic is the load outcome of one collection.
type Diagnostic struct {
	Key     string
	Found   bool
	Version int
	Count   int
	Err     error
	Dropped []error
}

func diagnose[T Record](ctx context.Context, c *Collection[T]) Diagnostic {
	res := c.Load(ctx)
	return Diagnostic{
		Key:     c.key,
		Found:   res.Found,
		Version: res.Version,
		Count:   len(res.Items),
		Err:     res.Err,
		Dropped: res.Dropped,
	}
}

// Diagnose loads every collection and reports the outcome without logging.
func (a *Accessor) Diagnose(ctx context.Context) []Diagnostic {
	return []Diagnostic{
		diagnose(ctx, a.Routines),
		diagnose(ctx, a.HealthRecords),
		diagnose(ctx, a.TimeBlocks),
	}
}

// Migrate rewrites every readable collection in the current envelope format.
// Returns the keys that were rewritten.
func (a *Accessor) Migrate(ctx context.Context) ([]string, error) {
	var rewritten []string
	if key, err := migrateCollection(ctx, a.Routines); err != nil {
		return rewritten, err
	} else if key != "" {
		rewritten = append(rewritten, key)
	}
	if key, err := migrateCollection(ctx, a.HealthRecords); err != nil {
		return rewritten, err
	} else if key != "" {
		rewritten = append(rewritten, key)
	}
	if key, err := migrateCollection(ctx, a.TimeBlocks); err != nil {
		return rewritten, err
	} else if key != "" {
		rewritten = append(rewritten, key)
	}
	return rewritten, nil
}

func migrateCollection[T Record](ctx context.Context, c *Collection[T]) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := c.Load(ctx)
	if res.Err != nil {
		return "", res.Err
	}
	if !res.Found || (res.Version == constants.CollectionVersion && len(res.Dropped) == 0) {
		return "", nil
	}
	if err := c.Save(ctx, res.Items); err != nil {
		return "", err
	}
	return c.key, nil
}
