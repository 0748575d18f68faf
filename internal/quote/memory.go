package quote

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps quotes and presets in process memory. It has the same
// behaviour as the database-backed stores and is the default backend.
type MemoryStore struct {
	mu      sync.RWMutex
	quotes  []Quote
	presets []Preset
	now     func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: func() time.Time { return time.Now().UTC() }}
}

func (s *MemoryStore) ListQuotes(_ context.Context, f Filter) ([]Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Quote, 0, len(s.quotes))
	for i := len(s.quotes) - 1; i >= 0; i-- {
		if f.matches(s.quotes[i]) {
			out = append(out, s.quotes[i].clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) GetQuote(_ context.Context, id string) (Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Quote{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.quotes[i].clone(), nil
}

func (s *MemoryStore) SaveQuote(_ context.Context, d Draft) (Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := d.build(uuid.NewString(), s.now())
	if err != nil {
		return Quote{}, err
	}
	s.quotes = append(s.quotes, q)
	return q.clone(), nil
}

func (s *MemoryStore) UpdateQuote(_ context.Context, id string, p Patch) (Quote, error) {
	if err := p.validate(); err != nil {
		return Quote{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Quote{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	p.apply(&s.quotes[i], s.now())
	return s.quotes[i].clone(), nil
}

func (s *MemoryStore) DeleteQuote(_ context.Context, id string) (Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Quote{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	deleted := s.quotes[i].clone()
	s.quotes = append(s.quotes[:i], s.quotes[i+1:]...)
	return deleted, nil
}

func (s *MemoryStore) indexOf(id string) int {
	for i := range s.quotes {
		if s.quotes[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *MemoryStore) ListPresets(_ context.Context) ([]Preset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Preset, 0, len(s.presets))
	for _, p := range s.presets {
		out = append(out, p.clone())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) SavePreset(_ context.Context, p Preset) (Preset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = uuid.NewString()
	p.CreatedAt = s.now()
	p = p.clone()
	s.presets = append(s.presets, p)
	return p.clone(), nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
