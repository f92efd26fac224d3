package store

import (
	"context"
	"sort"
	"sync"

	"ethos/internal/social"
	id "ethos/pkg/domain"
)

// memoryFeedCap bounds the in-memory feed so broker-less development runs
// do not grow without limit.
const memoryFeedCap = 500

// InMemoryFeed implements Feed for unit tests and broker-less development
// runs.
type InMemoryFeed struct {
	mu     sync.RWMutex
	events []social.FeedEvent
	seen   map[id.EventID]struct{}
}

// NewMemory creates an empty in-memory feed.
func NewMemory() *InMemoryFeed {
	return &InMemoryFeed{seen: make(map[id.EventID]struct{})}
}

func (s *InMemoryFeed) Append(ctx context.Context, event social.FeedEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[event.ID]; ok {
		return nil
	}
	s.seen[event.ID] = struct{}{}
	s.events = append(s.events, event)
	if len(s.events) > memoryFeedCap {
		drop := s.events[0]
		delete(s.seen, drop.ID)
		s.events = s.events[1:]
	}
	return nil
}

func (s *InMemoryFeed) Recent(ctx context.Context, n int) ([]social.FeedEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append([]social.FeedEvent(nil), s.events...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt.After(out[j].OccurredAt)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}
