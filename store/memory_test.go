package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

type record struct {
	ID        string    `bson:"_id,omitempty"`
	Name      string    `bson:"name"`
	Rank      int       `bson:"rank"`
	Active    bool      `bson:"active"`
	CreatedAt time.Time `bson:"createdAt"`
}

func TestMemoryInsertGet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	created := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)
	id, err := m.Insert(ctx, "records", record{Name: "alpha", Rank: 1, Active: true, CreatedAt: created})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated id")
	}

	var got record
	if err := m.Get(ctx, "records", id, &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != id || got.Name != "alpha" || got.Rank != 1 || !got.Active {
		t.Errorf("got = %+v", got)
	}
	// Timestamps survive the codec round-trip at millisecond precision.
	if !got.CreatedAt.Equal(created) {
		t.Errorf("createdAt = %v, want %v", got.CreatedAt, created)
	}
}

func TestMemoryInsertKeepsSuppliedID(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	id, err := m.Insert(ctx, "records", record{ID: "fixed", Name: "alpha"})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if id != "fixed" {
		t.Errorf("id = %q, want the supplied one", id)
	}
}

func TestMemoryUpdate(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	id, _ := m.Insert(ctx, "records", record{Name: "alpha", Rank: 1})
	if err := m.Update(ctx, "records", id, map[string]interface{}{"rank": 7}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	var got record
	if err := m.Get(ctx, "records", id, &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Rank != 7 {
		t.Errorf("rank = %d, want 7", got.Rank)
	}
	if got.Name != "alpha" {
		t.Errorf("partial update touched name: %q", got.Name)
	}

	if err := m.Update(ctx, "records", "missing", map[string]interface{}{"rank": 1}); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestMemoryDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	id, _ := m.Insert(ctx, "records", record{Name: "alpha"})
	if err := m.Delete(ctx, "records", id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	var got record
	if err := m.Get(ctx, "records", id, &got); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
	if err := m.Delete(ctx, "records", id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
}

func TestMemoryFind(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"alpha", "beta", "gamma", "delta"} {
		_, err := m.Insert(ctx, "records", record{
			Name:      name,
			Rank:      i,
			Active:    i%2 == 0,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("Insert %s: %v", name, err)
		}
	}

	var active []record
	q := Query{
		Filters: []Filter{Eq("active", true)},
		OrderBy: "createdAt",
		Desc:    true,
	}
	if err := m.Find(ctx, "records", q, &active); err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("got %d records, want 2", len(active))
	}
	if active[0].Name != "gamma" || active[1].Name != "alpha" {
		t.Errorf("order = [%s %s], want newest first", active[0].Name, active[1].Name)
	}

	// Range filter on a timestamp plus a limit.
	var recent []record
	q = Query{
		Filters: []Filter{{Field: "createdAt", Op: OpGt, Value: base}},
		OrderBy: "createdAt",
		Limit:   2,
	}
	if err := m.Find(ctx, "records", q, &recent); err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d records, want limit of 2", len(recent))
	}
	if recent[0].Name != "beta" || recent[1].Name != "gamma" {
		t.Errorf("order = [%s %s], want ascending after base", recent[0].Name, recent[1].Name)
	}

	// No matches yields an empty result, not an error.
	var none []record
	q = Query{Filters: []Filter{Eq("name", "nope")}}
	if err := m.Find(ctx, "records", q, &none); err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("got %d records, want 0", len(none))
	}
}

func TestMemoryBatchCommit(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	a, _ := m.Insert(ctx, "records", record{Name: "alpha", Rank: 1})
	b, _ := m.Insert(ctx, "records", record{Name: "beta", Rank: 2})

	batch := m.Batch()
	batch.Update("records", a, map[string]interface{}{"rank": 10})
	batch.Delete("records", b)
	if err := batch.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	var got record
	if err := m.Get(ctx, "records", a, &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Rank != 10 {
		t.Errorf("rank = %d, want 10", got.Rank)
	}
	if err := m.Get(ctx, "records", b, &got); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted record still present: %v", err)
	}
}

func TestMemoryBatchAtomicity(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	a, _ := m.Insert(ctx, "records", record{Name: "alpha", Rank: 1})

	batch := m.Batch()
	batch.Update("records", a, map[string]interface{}{"rank": 10})
	batch.Update("records", "missing", map[string]interface{}{"rank": 10})
	if err := batch.Commit(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Commit = %v, want ErrNotFound", err)
	}

	// The good half of the batch must not have been applied.
	var got record
	if err := m.Get(ctx, "records", a, &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Rank != 1 {
		t.Errorf("rank = %d, failed batch leaked a write", got.Rank)
	}
}

func TestMemorySubscribe(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	ch, release, err := m.Subscribe(ctx, "records")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer release()

	if _, err := m.Insert(ctx, "records", record{Name: "alpha"}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no notification after insert")
	}

	// Writes to other collections stay silent.
	if _, err := m.Insert(ctx, "other", record{Name: "beta"}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	select {
	case <-ch:
		t.Fatal("notified for an unrelated collection")
	case <-time.After(50 * time.Millisecond):
	}

	// After release the channel closes and writes no longer reach it.
	release()
	if _, ok := <-ch; ok {
		t.Fatal("channel still open after release")
	}
	if _, err := m.Insert(ctx, "records", record{Name: "gamma"}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
}

func TestMemorySubscribeContextCancel(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())

	ch, release, err := m.Subscribe(ctx, "records")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer release()

	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected closed channel after cancel")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after context cancel")
	}
}
