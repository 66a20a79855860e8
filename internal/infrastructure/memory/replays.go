package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/entity"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/repository"
	"github.com/google/uuid"
)

type replayRepository struct {
	s *Store
}

type replayKey struct {
	clientID string
	key      string
}

func (r *replayRepository) Find(_ context.Context, clientID, key string) (*entity.ReplayRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.replays[replayKey{clientID, key}]
	if !ok || !rec.Live(time.Now()) {
		return nil, nil
	}
	rec.Body = append([]byte(nil), rec.Body...)
	return &rec, nil
}

func (r *replayRepository) Save(_ context.Context, record *entity.ReplayRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now()
	k := replayKey{record.ClientID, record.Key}
	if existing, ok := r.s.replays[k]; ok && existing.Live(now) {
		return fmt.Errorf("replay key %q: %w", record.Key, repository.ErrDuplicate)
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.StoredAt = now
	stored := *record
	stored.Body = append([]byte(nil), record.Body...)
	r.s.replays[k] = stored
	return nil
}

func (r *replayRepository) Purge(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for k, rec := range r.s.replays {
		if !rec.Live(now) {
			delete(r.s.replays, k)
			n++
		}
	}
	return n, nil
}
