package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ModelPersistence saves and restores classifier snapshots across restarts.
// Optional: cold start without any persisted model is fully supported.
type ModelPersistence interface {
	Save(ctx context.Context, snap *Snapshot) error
	// Load returns the most recent snapshot, or nil when none exists.
	Load(ctx context.Context) (*Snapshot, error)
}

type modelBlob struct {
	ID        uint  `gorm:"primarykey"`
	Version   int64 `gorm:"index"`
	Blob      []byte
	CreatedAt time.Time
}

type GormModelStore struct {
	db *gorm.DB
}

func NewGormModelStore(db *gorm.DB) (*GormModelStore, error) {
	if err := db.AutoMigrate(&modelBlob{}); err != nil {
		return nil, err
	}
	return &GormModelStore{db: db}, nil
}

func (s *GormModelStore) Save(ctx context.Context, snap *Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(&modelBlob{Version: snap.Version, Blob: raw}).Error; err != nil {
		return err
	}
	// only the latest snapshot matters; drop the rest
	return s.db.WithContext(ctx).Where("version < ?", snap.Version).Delete(&modelBlob{}).Error
}

func (s *GormModelStore) Load(ctx context.Context) (*Snapshot, error) {
	var row modelBlob
	err := s.db.WithContext(ctx).Order("version desc").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(row.Blob, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

var _ ModelPersistence = (*GormModelStore)(nil)
