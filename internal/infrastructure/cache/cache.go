// Package cache stores computed dashboard and report payloads.
package cache

import (
	"context"
	"time"
)

// KeyPrefix namespaces every report entry so they can be dropped together.
const KeyPrefix = "pharmacare:report:"

// ReportCache keeps JSON-serialisable report results for a short time.
type ReportCache interface {
	// Get decodes the entry into dest and reports whether it was found.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Invalidate drops every report entry.
	Invalidate(ctx context.Context) error
}

type NoopReportCache struct{}

func (NoopReportCache) Get(_ context.Context, _ string, _ interface{}) (bool, error) {
	return false, nil
}

func (NoopReportCache) Set(_ context.Context, _ string, _ interface{}, _ time.Duration) error {
	return nil
}

func (NoopReportCache) Invalidate(context.Context) error {
	return nil
}
