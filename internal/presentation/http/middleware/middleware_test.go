package middleware

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/config"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/entity"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/repository"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/infrastructure/memory"
	"go.uber.org/zap"
)

func TestCORSPolicyAddsTerminalHeaders(t *testing.T) {
	policy := corsPolicy(&config.CORSConfig{AllowedHeaders: []string{"Content-Type"}})

	for _, h := range append([]string{"Content-Type"}, terminalHeaders...) {
		if !slices.Contains(policy.AllowHeaders, h) {
			t.Fatalf("header %s not allowed: %v", h, policy.AllowHeaders)
		}
	}
	if !slices.Equal(policy.AllowOrigins, defaultOrigins) {
		t.Fatalf("expected default origins, got %v", policy.AllowOrigins)
	}
	if !policy.AllowCredentials {
		t.Fatal("credentials should be allowed for explicit origins")
	}
}

func TestCORSPolicyWildcardDropsCredentials(t *testing.T) {
	policy := corsPolicy(&config.CORSConfig{AllowedOrigins: []string{"*"}})
	if policy.AllowCredentials {
		t.Fatal("wildcard origin must not allow credentials")
	}
}

type countingReplays struct {
	repository.ReplayRepository
	purged chan int64
}

func (c countingReplays) Purge(ctx context.Context, now time.Time) (int64, error) {
	n, err := c.ReplayRepository.Purge(ctx, now)
	select {
	case c.purged <- n:
	default:
	}
	return n, err
}

func TestPurgeReplaysRemovesExpired(t *testing.T) {
	repos := memory.New().Repositories()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stale := &entity.ReplayRecord{ClientID: "till-1", Key: "k", ExpiresAt: time.Now().Add(-time.Minute)}
	if err := repos.Replays.Save(ctx, stale); err != nil {
		t.Fatalf("save: %v", err)
	}

	repo := countingReplays{ReplayRepository: repos.Replays, purged: make(chan int64, 4)}
	go PurgeReplays(ctx, repo, 5*time.Millisecond, zap.NewNop())

	select {
	case n := <-repo.purged:
		if n != 1 {
			t.Fatalf("expected one purged record, got %d", n)
		}
	case <-time.After(time.Second):
		t.Fatal("purge never ran")
	}
}
