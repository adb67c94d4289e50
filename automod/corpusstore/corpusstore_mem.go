package corpusstore

import (
	"context"
	"sync"
	"time"
)

type MemCorpusStore struct {
	lk       sync.Mutex
	samples  []Sample
	seen     map[string]bool
	fitCount int
}

func NewMemCorpusStore() *MemCorpusStore {
	return &MemCorpusStore{
		seen: make(map[string]bool),
	}
}

func (s *MemCorpusStore) AddSample(ctx context.Context, text, label string) (bool, error) {
	s.lk.Lock()
	defer s.lk.Unlock()
	if s.seen[text] {
		return false, nil
	}
	s.seen[text] = true
	s.samples = append(s.samples, Sample{
		Text:      text,
		Label:     label,
		CreatedAt: time.Now().UTC(),
	})
	return true, nil
}

func (s *MemCorpusStore) SampleCount(ctx context.Context) (int, error) {
	s.lk.Lock()
	defer s.lk.Unlock()
	return len(s.samples), nil
}

func (s *MemCorpusStore) CountSinceFit(ctx context.Context) (int, error) {
	s.lk.Lock()
	defer s.lk.Unlock()
	return len(s.samples) - s.fitCount, nil
}

func (s *MemCorpusStore) MarkFit(ctx context.Context) error {
	s.lk.Lock()
	defer s.lk.Unlock()
	s.fitCount = len(s.samples)
	return nil
}

func (s *MemCorpusStore) LoadAll(ctx context.Context) ([]Sample, error) {
	s.lk.Lock()
	defer s.lk.Unlock()
	out := make([]Sample, len(s.samples))
	copy(out, s.samples)
	return out, nil
}

var _ CorpusStore = (*MemCorpusStore)(nil)
