package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testItem struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestTypedCache_SetGet(t *testing.T) {
	backend := NewSimpleMemoryCache(time.Minute)
	defer backend.Close()

	c := NewTypedCache[testItem](backend, time.Minute)
	ctx := context.Background()

	item := &testItem{Name: "alpha", Count: 3}
	if err := c.Set(ctx, "item1", item); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok := c.Get(ctx, "item1")
	if !ok {
		t.Fatal("Get returned not found")
	}
	if got.Name != "alpha" || got.Count != 3 {
		t.Errorf("Get = %+v, want %+v", got, item)
	}
}

func TestTypedCache_Miss(t *testing.T) {
	backend := NewSimpleMemoryCache(time.Minute)
	defer backend.Close()

	c := NewTypedCache[testItem](backend, time.Minute)

	if _, ok := c.Get(context.Background(), "missing"); ok {
		t.Error("Get(missing) = found, want miss")
	}
}

func TestTypedCache_GetOrSet(t *testing.T) {
	backend := NewSimpleMemoryCache(time.Minute)
	defer backend.Close()

	c := NewTypedCache[testItem](backend, time.Minute)
	ctx := context.Background()

	calls := 0
	compute := func() (*testItem, error) {
		calls++
		return &testItem{Name: "computed", Count: calls}, nil
	}

	got, err := c.GetOrSet(ctx, "item1", compute)
	if err != nil {
		t.Fatalf("GetOrSet failed: %v", err)
	}
	if got.Name != "computed" || calls != 1 {
		t.Errorf("first call: got %+v, calls = %d", got, calls)
	}

	// Second call must hit the cache
	got, err = c.GetOrSet(ctx, "item1", compute)
	if err != nil {
		t.Fatalf("GetOrSet failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("compute called %d times, want 1", calls)
	}
	if got.Count != 1 {
		t.Errorf("Count = %d, want 1", got.Count)
	}
}

func TestTypedCache_GetOrSet_Error(t *testing.T) {
	backend := NewSimpleMemoryCache(time.Minute)
	defer backend.Close()

	c := NewTypedCache[testItem](backend, time.Minute)

	wantErr := errors.New("compute failed")
	_, err := c.GetOrSet(context.Background(), "item1", func() (*testItem, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("GetOrSet error = %v, want %v", err, wantErr)
	}
}

func TestTypedCache_Slice(t *testing.T) {
	backend := NewSimpleMemoryCache(time.Minute)
	defer backend.Close()

	c := NewTypedCache[[]testItem](backend, time.Minute)
	ctx := context.Background()

	items := []testItem{{Name: "a"}, {Name: "b"}}
	if err := c.Set(ctx, "list", &items); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok := c.Get(ctx, "list")
	if !ok {
		t.Fatal("Get returned not found")
	}
	if len(*got) != 2 || (*got)[0].Name != "a" {
		t.Errorf("Get = %+v", got)
	}
}
