package setstore

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
)

// Well-known set names consumed by the rules packages. Deployments load the
// actual contents from a JSON file at startup.
const (
	SetSpamKeywords       = "spam-keywords"
	SetBadWords           = "bad-words"
	SetDomainAllowlist    = "domain-allowlist"
	SetDomainDenylist     = "domain-denylist"
	SetInstantBanPhrases  = "instant-ban-phrases"
	SetCasinoPhrases      = "casino-phrases"
	SetDMSolicitation     = "dm-solicitation-phrases"
	SetWhitelistedPhrases = "whitelisted-phrases"
	SetSafeBots           = "safe-bots"
	SetPromoKeywords      = "promo-keywords"
)

type SetStore interface {
	InSet(ctx context.Context, name, val string) (bool, error)
	// AnyInText reports whether any element of the named set occurs as a
	// substring of the (already normalized) text, returning the first match.
	AnyInText(ctx context.Context, name, text string) (string, bool, error)
	// MatchesInText returns every element of the named set occurring as a
	// substring of the (already normalized) text.
	MatchesInText(ctx context.Context, name, text string) ([]string, error)
}

type MemSetStore struct {
	lk   sync.RWMutex
	sets map[string]map[string]bool
}

func NewMemSetStore() *MemSetStore {
	return &MemSetStore{
		sets: make(map[string]map[string]bool),
	}
}

func (s *MemSetStore) InSet(ctx context.Context, name, val string) (bool, error) {
	s.lk.RLock()
	defer s.lk.RUnlock()
	set, ok := s.sets[name]
	if !ok {
		// NOTE: currently returns false when entire set isn't found
		return false, nil
	}
	return set[val], nil
}

func (s *MemSetStore) AnyInText(ctx context.Context, name, text string) (string, bool, error) {
	s.lk.RLock()
	defer s.lk.RUnlock()
	set, ok := s.sets[name]
	if !ok {
		return "", false, nil
	}
	for phrase := range set {
		if strings.Contains(text, phrase) {
			return phrase, true, nil
		}
	}
	return "", false, nil
}

func (s *MemSetStore) MatchesInText(ctx context.Context, name, text string) ([]string, error) {
	s.lk.RLock()
	defer s.lk.RUnlock()
	set, ok := s.sets[name]
	if !ok {
		return nil, nil
	}
	var out []string
	for phrase := range set {
		if strings.Contains(text, phrase) {
			out = append(out, phrase)
		}
	}
	return out, nil
}

// AddSet replaces the named set's contents. Intended for startup wiring and
// tests.
func (s *MemSetStore) AddSet(name string, vals []string) {
	m := make(map[string]bool, len(vals))
	for _, v := range vals {
		m[v] = true
	}
	s.lk.Lock()
	s.sets[name] = m
	s.lk.Unlock()
}

func (s *MemSetStore) LoadFromFileJSON(p string) error {

	f, err := os.Open(p)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	raw, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	var sets map[string][]string
	if err := json.Unmarshal(raw, &sets); err != nil {
		return err
	}

	for name, l := range sets {
		s.AddSet(name, l)
	}
	return nil
}
