package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/routinize/internal/constants"
	"github.com/julianstephens/routinize/internal/models"
)

// failingBackend fails every operation.
type failingBackend struct {
	MemoryBackend
}

func (f *failingBackend) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}

func (f *failingBackend) Set(context.Context, string, []byte) error {
	return errors.New("disk on fire")
}

var fixedNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestAccessor(t *testing.T) (*Accessor, *MemoryBackend) {
	t.Helper()
	backend := NewMemoryBackend()
	return NewAccessor(backend, WithClock(func() time.Time { return fixedNow })), backend
}

func sampleRoutine(id string) models.Routine {
	created := time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC)
	return models.Routine{
		ID:          id,
		Name:        "Morning Energizer",
		Category:    models.CategoryMorning,
		DurationMin: 30,
		StartTime:   "07:00",
		EndTime:     "07:30",
		Tasks: []models.RoutineTask{
			{ID: id + "-t1", Name: "Stretch", DurationMin: 10, Order: 1},
			{ID: id + "-t2", Name: "Journal", DurationMin: 20, Order: 2},
		},
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestGetAllAbsentCollection(t *testing.T) {
	a, _ := newTestAccessor(t)
	ctx := context.Background()

	if got := a.Routines.GetAll(ctx); len(got) != 0 || got == nil {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
	res := a.HealthRecords.Load(ctx)
	if !res.OK() || res.Found {
		t.Errorf("absent collection should load OK and not found, got %+v", res)
	}
}

func TestSaveAllRoundTrip(t *testing.T) {
	a, backend := newTestAccessor(t)
	ctx := context.Background()

	routines := []models.Routine{sampleRoutine("r1"), sampleRoutine("r2")}
	a.Routines.SaveAll(ctx, routines)

	got := a.Routines.GetAll(ctx)
	if diff := cmp.Diff(routines, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	raw, err := backend.Get(ctx, constants.RoutinesKey)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !strings.HasPrefix(string(raw), `{"version":1,"items":[`) {
		t.Errorf("expected versioned envelope, got %s", raw)
	}
}

func TestAddOrdering(t *testing.T) {
	a, _ := newTestAccessor(t)
	ctx := context.Background()

	a.Routines.Add(ctx, sampleRoutine("r1"))
	a.Routines.Add(ctx, sampleRoutine("r2"))
	routines := a.Routines.GetAll(ctx)
	if len(routines) != 2 || routines[0].ID != "r1" || routines[1].ID != "r2" {
		t.Errorf("routines should append, got %v", ids(routines))
	}

	a.TimeBlocks.Add(ctx, models.TimeBlock{ID: "b1", Title: "Deep Work", DurationMin: 90})
	a.TimeBlocks.Add(ctx, models.TimeBlock{ID: "b2", Title: "Email", DurationMin: 30})
	blocks := a.TimeBlocks.GetAll(ctx)
	if len(blocks) != 2 || blocks[1].ID != "b2" {
		t.Errorf("time blocks should append, got %v", ids(blocks))
	}

	a.HealthRecords.Add(ctx, models.HealthRecord{ID: "h1", Date: fixedNow, Data: models.DefaultHealthCheck()})
	a.HealthRecords.Add(ctx, models.HealthRecord{ID: "h2", Date: fixedNow.Add(time.Hour), Data: models.DefaultHealthCheck()})
	records := a.HealthRecords.GetAll(ctx)
	if len(records) != 2 || records[0].ID != "h2" || records[1].ID != "h1" {
		t.Errorf("health records should prepend, got %v", ids(records))
	}
}

func TestUpdate(t *testing.T) {
	a, _ := newTestAccessor(t)
	ctx := context.Background()
	a.Routines.SaveAll(ctx, []models.Routine{sampleRoutine("r1"), sampleRoutine("r2")})

	active := true
	if !a.Routines.Update(ctx, "r2", models.RoutinePatch{Active: &active}) {
		t.Fatal("expected update to report a change")
	}

	got := a.Routines.GetAll(ctx)
	if !got[1].Active {
		t.Error("r2 should be active")
	}
	if !got[1].UpdatedAt.Equal(fixedNow) {
		t.Errorf("UpdatedAt = %v, want %v", got[1].UpdatedAt, fixedNow)
	}
	if got[0].Active || got[0].UpdatedAt.Equal(fixedNow) {
		t.Error("r1 should be untouched")
	}
}

func TestUpdateUnknownIDIsNoop(t *testing.T) {
	a, backend := newTestAccessor(t)
	ctx := context.Background()
	a.TimeBlocks.SaveAll(ctx, []models.TimeBlock{{ID: "b1", Title: "Deep Work", DurationMin: 90}})
	before, _ := backend.Get(ctx, constants.TimeBlocksKey)

	done := true
	if a.TimeBlocks.Update(ctx, "missing", models.TimeBlockPatch{Completed: &done}) {
		t.Error("update of unknown id should report no change")
	}
	after, _ := backend.Get(ctx, constants.TimeBlocksKey)
	if diff := cmp.Diff(string(before), string(after)); diff != "" {
		t.Errorf("stored value changed (-before +after):\n%s", diff)
	}
}

func TestUpdateHealthRecordDoesNotNeedTouch(t *testing.T) {
	a, _ := newTestAccessor(t)
	ctx := context.Background()
	a.HealthRecords.Add(ctx, models.HealthRecord{ID: "h1", Date: fixedNow, Data: models.DefaultHealthCheck()})

	check := models.HealthCheck{Hydration: 9, Energy: 8, Focus: 7, Mood: 6, Notes: "good"}
	if !a.HealthRecords.Update(ctx, "h1", models.HealthRecordPatch{Data: &check}) {
		t.Fatal("expected update")
	}
	rec, ok := a.HealthRecords.Find(ctx, "h1")
	if !ok {
		t.Fatal("record not found")
	}
	if diff := cmp.Diff(check, rec.Data); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestDelete(t *testing.T) {
	a, _ := newTestAccessor(t)
	ctx := context.Background()
	a.Routines.SaveAll(ctx, []models.Routine{sampleRoutine("r1"), sampleRoutine("r2"), sampleRoutine("r3")})

	if !a.Routines.Delete(ctx, "r2") {
		t.Error("expected delete to report removal")
	}
	if a.Routines.Delete(ctx, "r2") {
		t.Error("second delete should be a no-op")
	}
	if diff := cmp.Diff([]string{"r1", "r3"}, ids(a.Routines.GetAll(ctx))); diff != "" {
		t.Errorf("remaining ids (-want +got):\n%s", diff)
	}
}

func TestMalformedValue(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"not json", "{{{"},
		{"scalar", "42"},
		{"future version", `{"version":99,"items":[]}`},
		{"missing version", `{"items":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, backend := newTestAccessor(t)
			ctx := context.Background()
			_ = backend.Set(ctx, constants.RoutinesKey, []byte(tt.value))

			res := a.Routines.Load(ctx)
			if !errors.Is(res.Err, ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", res.Err)
			}
			if got := a.Routines.GetAll(ctx); len(got) != 0 {
				t.Errorf("expected empty result, got %d items", len(got))
			}
		})
	}
}

func TestWriteToMalformedValueStartsFresh(t *testing.T) {
	tests := []struct {
		name  string
		write func(context.Context, *Accessor)
		want  []string
	}{
		{"add", func(ctx context.Context, a *Accessor) { a.Routines.Add(ctx, sampleRoutine("r1")) }, []string{"r1"}},
		{"update", func(ctx context.Context, a *Accessor) { a.Routines.Update(ctx, "r1", models.RoutinePatch{}) }, []string{}},
		{"delete", func(ctx context.Context, a *Accessor) { a.Routines.Delete(ctx, "r1") }, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, backend := newTestAccessor(t)
			ctx := context.Background()
			_ = backend.Set(ctx, constants.RoutinesKey, []byte("{{{"))

			tt.write(ctx, a)

			res := a.Routines.Load(ctx)
			if res.Err != nil {
				t.Fatalf("collection still unreadable after write: %v", res.Err)
			}
			if diff := cmp.Diff(tt.want, ids(res.Items)); diff != "" {
				t.Errorf("ids after write (-want +got):\n%s", diff)
			}
			saved, err := backend.Get(ctx, a.Routines.CorruptKey())
			if err != nil || string(saved) != "{{{" {
				t.Errorf("malformed value not kept under %s: %q, %v", a.Routines.CorruptKey(), saved, err)
			}
		})
	}
}

func TestUnavailableBackend(t *testing.T) {
	ctx := context.Background()

	t.Run("nil backend", func(t *testing.T) {
		a := NewAccessor(nil)
		if res := a.TimeBlocks.Load(ctx); !errors.Is(res.Err, ErrUnavailable) {
			t.Errorf("expected ErrUnavailable, got %v", res.Err)
		}
		a.TimeBlocks.Add(ctx, models.TimeBlock{ID: "b1", Title: "x", DurationMin: 1})
		if got := a.TimeBlocks.GetAll(ctx); len(got) != 0 {
			t.Errorf("expected empty slice, got %v", got)
		}
	})

	t.Run("failing backend", func(t *testing.T) {
		a := NewAccessor(&failingBackend{})
		if res := a.Routines.Load(ctx); !errors.Is(res.Err, ErrUnavailable) {
			t.Errorf("expected ErrUnavailable, got %v", res.Err)
		}
		if err := a.Routines.Save(ctx, nil); err == nil {
			t.Error("expected Save to report the write failure")
		}
		// must not panic
		a.Routines.SaveAll(ctx, []models.Routine{sampleRoutine("r1")})
		if a.Routines.Update(ctx, "r1", models.RoutinePatch{}) {
			t.Error("update against failing backend should report no change")
		}
	})
}

func TestLegacyArrayIsAccepted(t *testing.T) {
	a, backend := newTestAccessor(t)
	ctx := context.Background()
	legacy := `[
		{"id":"1","title":"Deep Work Session","duration":120,"isActive":false,"isCompleted":false},
		{"id":"2","title":"Email & Communication","duration":60,"isActive":false,"isCompleted":true,
		 "startTime":"2024-01-01T09:00:00.000Z","endTime":"2024-01-01T10:00:00.000Z"}
	]`
	_ = backend.Set(ctx, constants.TimeBlocksKey, []byte(legacy))

	res := a.TimeBlocks.Load(ctx)
	if !res.OK() || res.Version != 0 {
		t.Fatalf("expected legacy load OK at version 0, got %+v", res)
	}
	if len(res.Items) != 2 || !res.Items[1].Completed {
		t.Fatalf("unexpected items: %+v", res.Items)
	}
	want := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	if res.Items[1].StartTime == nil || !res.Items[1].StartTime.Equal(want) {
		t.Errorf("start time not re-hydrated: %v", res.Items[1].StartTime)
	}

	rewritten, err := a.Migrate(ctx)
	if err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	if diff := cmp.Diff([]string{constants.TimeBlocksKey}, rewritten); diff != "" {
		t.Errorf("rewritten keys (-want +got):\n%s", diff)
	}
	if res := a.TimeBlocks.Load(ctx); res.Version != constants.CollectionVersion {
		t.Errorf("expected version %d after migrate, got %d", constants.CollectionVersion, res.Version)
	}
}

func TestCoercionDropsBadRecords(t *testing.T) {
	a, backend := newTestAccessor(t)
	ctx := context.Background()
	stored := `{"version":1,"items":[
		{"id":"r1","name":"Ok","type":"Morning","duration":10,"tasks":null},
		{"id":"r2","name":"Bad","type":"weekend","duration":10},
		{"name":"No id","type":"work"},
		"not an object"
	]}`
	_ = backend.Set(ctx, constants.RoutinesKey, []byte(stored))

	res := a.Routines.Load(ctx)
	if !res.OK() {
		t.Fatalf("expected partial load to succeed, got %v", res.Err)
	}
	if len(res.Items) != 1 || res.Items[0].ID != "r1" {
		t.Fatalf("expected only r1, got %v", ids(res.Items))
	}
	if res.Items[0].Category != models.CategoryMorning {
		t.Errorf("category not normalized: %q", res.Items[0].Category)
	}
	if res.Items[0].Tasks == nil {
		t.Error("nil tasks should be coerced to empty")
	}
	if len(res.Dropped) != 3 {
		t.Errorf("expected 3 dropped records, got %d: %v", len(res.Dropped), res.Dropped)
	}
}

func TestHealthMetricsClampedOnRead(t *testing.T) {
	a, backend := newTestAccessor(t)
	ctx := context.Background()
	stored := `[{"id":"h1","date":"2024-01-01T08:00:00Z","data":{"hydration":14,"energy":0,"focus":5,"mood":-3,"notes":""}}]`
	_ = backend.Set(ctx, constants.HealthRecordsKey, []byte(stored))

	got := a.HealthRecords.GetAll(ctx)
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	want := models.HealthCheck{Hydration: 10, Energy: 1, Focus: 5, Mood: 1}
	if diff := cmp.Diff(want, got[0].Data); diff != "" {
		t.Errorf("clamped data (-want +got):\n%s", diff)
	}
}

func TestDiagnose(t *testing.T) {
	a, backend := newTestAccessor(t)
	ctx := context.Background()
	a.Routines.SaveAll(ctx, []models.Routine{sampleRoutine("r1")})
	_ = backend.Set(ctx, constants.TimeBlocksKey, []byte("nope"))

	diags := a.Diagnose(ctx)
	if len(diags) != 3 {
		t.Fatalf("expected 3 diagnostics, got %d", len(diags))
	}
	byKey := map[string]Diagnostic{}
	for _, d := range diags {
		byKey[d.Key] = d
	}
	if d := byKey[constants.RoutinesKey]; !d.Found || d.Count != 1 || d.Err != nil {
		t.Errorf("routines diagnostic = %+v", d)
	}
	if d := byKey[constants.HealthRecordsKey]; d.Found || d.Err != nil {
		t.Errorf("health diagnostic = %+v", d)
	}
	if d := byKey[constants.TimeBlocksKey]; !errors.Is(d.Err, ErrMalformed) {
		t.Errorf("time blocks diagnostic = %+v", d)
	}
}

func ids[T Record](items []T) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.GetID())
	}
	return out
}
