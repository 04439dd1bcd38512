package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestMemoryStore(t *testing.T) *MemoryStore {
	t.Helper()
	store := NewMemoryStore(WithSweepInterval(time.Hour))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := newTestMemoryStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "s1", []byte("hello"), time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := store.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("got %q, want %q", data, "hello")
	}

	missing, err := store.Load(ctx, "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing != nil {
		t.Errorf("missing session got %v, want nil", missing)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := newTestMemoryStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "s1", []byte("x"), time.Now().Add(-time.Second)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := store.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data != nil {
		t.Error("expired session should load as nil")
	}

	// Touch resurrects it until the sweeper runs.
	if err := store.Touch(ctx, "s1", time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err = store.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "x" {
		t.Errorf("after Touch got %q, want %q", data, "x")
	}
}

func TestMemoryStoreSweep(t *testing.T) {
	store := newTestMemoryStore(t)
	ctx := context.Background()

	store.Save(ctx, "stale", []byte("a"), time.Now().Add(-time.Second))
	store.Save(ctx, "alive", []byte("b"), time.Now().Add(time.Minute))

	store.sweep()

	if store.Count() != 1 {
		t.Fatalf("count after sweep got %d, want 1", store.Count())
	}
	data, _ := store.Load(ctx, "alive")
	if string(data) != "b" {
		t.Error("sweep removed a live session")
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	store := newTestMemoryStore(t)
	ctx := context.Background()

	store.Save(ctx, "s1", []byte("x"), time.Now().Add(time.Minute))
	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data, _ := store.Load(ctx, "s1"); data != nil {
		t.Error("deleted session should load as nil")
	}
	if err := store.Delete(ctx, "missing"); err != nil {
		t.Errorf("deleting a missing session: %v", err)
	}
}

func TestMemoryStoreCopiesData(t *testing.T) {
	store := newTestMemoryStore(t)
	ctx := context.Background()

	buf := []byte("abc")
	store.Save(ctx, "s1", buf, time.Now().Add(time.Minute))
	buf[0] = 'z'

	data, _ := store.Load(ctx, "s1")
	if string(data) != "abc" {
		t.Errorf("stored data mutated: %q", data)
	}

	data[0] = 'z'
	again, _ := store.Load(ctx, "s1")
	if string(again) != "abc" {
		t.Errorf("loaded data aliased the store: %q", again)
	}
}

func TestMemoryStoreClose(t *testing.T) {
	store := NewMemoryStore(WithSweepInterval(time.Hour))
	if err := store.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	ctx := context.Background()
	if err := store.Save(ctx, "s", []byte("x"), time.Now().Add(time.Minute)); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("Save after Close got %v, want ErrStoreClosed", err)
	}
	if _, err := store.Load(ctx, "s"); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("Load after Close got %v, want ErrStoreClosed", err)
	}
	if err := store.Delete(ctx, "s"); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("Delete after Close got %v, want ErrStoreClosed", err)
	}
	if err := store.Touch(ctx, "s", time.Now()); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("Touch after Close got %v, want ErrStoreClosed", err)
	}
}
