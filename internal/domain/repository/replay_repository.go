package repository

import (
	"context"
	"time"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/entity"
)

// ReplayRepository stores responses of keyed write requests.
type ReplayRepository interface {
	// Find returns (nil, nil) when the client never used key or the record
	// has expired.
	Find(ctx context.Context, clientID, key string) (*entity.ReplayRecord, error)
	// Save fails with ErrDuplicate when a live record already holds the key.
	Save(ctx context.Context, record *entity.ReplayRecord) error
	// Purge drops records expired before now and returns how many went.
	Purge(ctx context.Context, now time.Time) (int64, error)
}
