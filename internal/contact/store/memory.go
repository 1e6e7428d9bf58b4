package store

import (
	"context"
	"sync"

	"storefront/internal/contact/models"
)

// InMemory keeps submissions in arrival order.
type InMemory struct {
	mu          sync.RWMutex
	submissions []*models.Submission
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) Save(_ context.Context, sub *models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *sub
	s.submissions = append(s.submissions, &c)
	return nil
}

// All returns copies of every stored submission.
func (s *InMemory) All() []*models.Submission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Submission, 0, len(s.submissions))
	for _, sub := range s.submissions {
		c := *sub
		out = append(out, &c)
	}
	return out
}

func (s *InMemory) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.submissions)), nil
}
