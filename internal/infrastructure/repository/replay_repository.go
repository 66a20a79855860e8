package repository

import (
	"context"
	"errors"
	"time"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/entity"
	domainRepo "github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/repository"
	"gorm.io/gorm"
)

type replayRepository struct {
	db *gorm.DB
}

func NewReplayRepository(db *gorm.DB) domainRepo.ReplayRepository {
	return &replayRepository{db: db}
}

func (r *replayRepository) Find(ctx context.Context, clientID, key string) (*entity.ReplayRecord, error) {
	var record entity.ReplayRecord
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND key = ?", clientID, key).
		Where("expires_at > ?", time.Now()).
		Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Save replaces an expired record still holding the key, since Purge runs
// on an interval and may not have reached it yet.
func (r *replayRepository) Save(ctx context.Context, record *entity.ReplayRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("client_id = ? AND key = ? AND expires_at <= ?", record.ClientID, record.Key, time.Now()).
			Delete(&entity.ReplayRecord{}).Error
		if err != nil {
			return err
		}
		return translate(tx.Create(record).Error)
	})
}

func (r *replayRepository) Purge(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&entity.ReplayRecord{})
	return res.RowsAffected, res.Error
}
