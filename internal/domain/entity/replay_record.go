package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReplayRecord is the stored outcome of a keyed write request. A repeat of
// the same request by the same terminal gets Body back instead of running
// the write again.
type ReplayRecord struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ClientID    string    `gorm:"uniqueIndex:idx_replay_client_key;size:255;not null"`
	Key         string    `gorm:"uniqueIndex:idx_replay_client_key;size:255;not null"`
	Route       string    `gorm:"size:255;not null"`
	Fingerprint string    `gorm:"size:64;not null"`
	Status      int       `gorm:"not null"`
	Body        []byte    `gorm:"type:bytea"`
	StoredAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt   time.Time `gorm:"not null;index"`
}

func (r *ReplayRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (ReplayRecord) TableName() string {
	return "request_replays"
}

// Live reports whether the record can still be replayed at now.
func (r *ReplayRecord) Live(now time.Time) bool {
	return now.Before(r.ExpiresAt)
}

// Matches reports whether a repeat request is the one that was stored.
func (r *ReplayRecord) Matches(route, fingerprint string) bool {
	return r.Route == route && r.Fingerprint == fingerprint
}
