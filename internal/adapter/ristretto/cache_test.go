package ristretto

import (
	"context"
	"testing"
	"time"
)

func TestCacheRoundTrip(t *testing.T) {
	c, err := New(1 << 20)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.Set(ctx, "health", []byte(`{"status":"healthy"}`), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	c.Wait()

	got, ok, err := c.Get(ctx, "health")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(got) != `{"status":"healthy"}` {
		t.Errorf("got %q", got)
	}

	if err := c.Delete(ctx, "health"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	c.Wait()
	if _, ok, _ := c.Get(ctx, "health"); ok {
		t.Error("expected miss after delete")
	}
}

func TestCacheMiss(t *testing.T) {
	c, err := New(1 << 20)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	_, ok, err := c.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("expected miss")
	}
}
