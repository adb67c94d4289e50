package flagstore

import (
	"context"
	"sync"
)

type MemFlagStore struct {
	lk   sync.Mutex
	data map[string][]string
}

func NewMemFlagStore() *MemFlagStore {
	return &MemFlagStore{
		data: make(map[string][]string),
	}
}

func (s *MemFlagStore) Get(ctx context.Context, key string) ([]string, error) {
	s.lk.Lock()
	defer s.lk.Unlock()
	v, ok := s.data[key]
	if !ok {
		return []string{}, nil
	}
	out := make([]string, len(v))
	copy(out, v)
	return out, nil
}

func (s *MemFlagStore) Add(ctx context.Context, key string, flags []string) error {
	s.lk.Lock()
	defer s.lk.Unlock()
	v := append(s.data[key], flags...)
	s.data[key] = dedupeStrings(v)
	return nil
}

// does not error if flags not in set
func (s *MemFlagStore) Remove(ctx context.Context, key string, flags []string) error {
	if len(flags) == 0 {
		return nil
	}
	s.lk.Lock()
	defer s.lk.Unlock()
	v := s.data[key]
	m := make(map[string]bool, len(v))
	for _, f := range v {
		m[f] = true
	}
	for _, f := range flags {
		delete(m, f)
	}
	out := make([]string, 0, len(m))
	for f := range m {
		out = append(out, f)
	}
	s.data[key] = out
	return nil
}

func dedupeStrings(in []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, v := range in {
		if !seen[v] {
			out = append(out, v)
			seen[v] = true
		}
	}
	return out
}
