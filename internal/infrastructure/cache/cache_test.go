package cache

import (
	"context"
	"testing"
	"time"
)

func TestNoopReportCacheNeverHits(t *testing.T) {
	var c ReportCache = NoopReportCache{}
	ctx := context.Background()

	if err := c.Set(ctx, "dashboard", map[string]int{"sales": 3}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	var out map[string]int
	found, err := c.Get(ctx, "dashboard", &out)
	if err != nil || found {
		t.Fatalf("expected miss, got found=%v err=%v", found, err)
	}
	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
}

func TestRedisReportCacheUnreachable(t *testing.T) {
	c := NewRedisReportCache("127.0.0.1:1", "", 0)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if err := c.Ping(ctx); err == nil {
		t.Fatalf("expected ping to fail against a closed port")
	}
}
