package corpusstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type trainingSample struct {
	ID        uint   `gorm:"primarykey"`
	Text      string `gorm:"uniqueIndex;not null"`
	Label     string `gorm:"index;not null"`
	CreatedAt time.Time
}

type fitMark struct {
	ID          uint `gorm:"primarykey"`
	SampleCount int
	CreatedAt   time.Time
}

// GormCorpusStore persists the training corpus (and fit marks) in a SQL
// database, typically SQLite for single-node deployments.
type GormCorpusStore struct {
	db *gorm.DB
}

func NewGormCorpusStore(db *gorm.DB) (*GormCorpusStore, error) {
	if err := db.AutoMigrate(&trainingSample{}, &fitMark{}); err != nil {
		return nil, err
	}
	return &GormCorpusStore{db: db}, nil
}

func (s *GormCorpusStore) AddSample(ctx context.Context, text, label string) (bool, error) {
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&trainingSample{
		Text:  text,
		Label: label,
	})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *GormCorpusStore) SampleCount(ctx context.Context) (int, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&trainingSample{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *GormCorpusStore) CountSinceFit(ctx context.Context) (int, error) {
	total, err := s.SampleCount(ctx)
	if err != nil {
		return 0, err
	}
	var mark fitMark
	err = s.db.WithContext(ctx).Order("id desc").First(&mark).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return total, nil
	} else if err != nil {
		return 0, err
	}
	return total - mark.SampleCount, nil
}

func (s *GormCorpusStore) MarkFit(ctx context.Context) error {
	total, err := s.SampleCount(ctx)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(&fitMark{SampleCount: total}).Error
}

func (s *GormCorpusStore) LoadAll(ctx context.Context) ([]Sample, error) {
	var rows []trainingSample
	if err := s.db.WithContext(ctx).Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Sample, len(rows))
	for i, r := range rows {
		out[i] = Sample{Text: r.Text, Label: r.Label, CreatedAt: r.CreatedAt}
	}
	return out, nil
}

var _ CorpusStore = (*GormCorpusStore)(nil)
