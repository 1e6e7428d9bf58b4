package store

import (
	"context"
	"sync"

	"storefront/internal/catalog/models"
	"storefront/pkg/platform/sentinel"
)

// InMemory keeps catalog items in insertion order.
type InMemory struct {
	mu    sync.RWMutex
	order []string
	items map[string]*models.Item
}

func NewInMemory() *InMemory {
	return &InMemory{items: make(map[string]*models.Item)}
}

func (s *InMemory) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.order)), nil
}

// InsertIfAbsent stores each item whose ID is not already present and
// returns how many were inserted.
func (s *InMemory) InsertIfAbsent(_ context.Context, items []*models.Item) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inserted := 0
	for _, item := range items {
		if _, ok := s.items[item.ID]; ok {
			continue
		}
		s.items[item.ID] = item.Clone()
		s.order = append(s.order, item.ID)
		inserted++
	}
	return inserted, nil
}

func (s *InMemory) List(_ context.Context) ([]*models.Item, error) {
	return s.filter(func(*models.Item) bool { return true }), nil
}

func (s *InMemory) ListFeatured(_ context.Context) ([]*models.Item, error) {
	return s.filter(func(i *models.Item) bool { return i.IsFeatured }), nil
}

func (s *InMemory) FindByID(_ context.Context, id string) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return item.Clone(), nil
}

func (s *InMemory) filter(keep func(*models.Item) bool) []*models.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Item, 0, len(s.order))
	for _, id := range s.order {
		if item := s.items[id]; keep(item) {
			out = append(out, item.Clone())
		}
	}
	return out
}
