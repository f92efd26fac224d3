package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"ethos/internal/userstate"
	id "ethos/pkg/domain"
	"ethos/pkg/platform/sentinel"
)

// InMemoryStore implements Remote for unit tests and storage-free
// development runs. Merge semantics match the JSONB concatenation of the
// postgres store: top-level keys of the new document replace, absent keys
// survive.
type InMemoryStore struct {
	mu   sync.RWMutex
	docs map[id.UserID]*memoryDoc

	// now is swappable so tests can pin the server-assigned timestamp.
	now func() time.Time
}

type memoryDoc struct {
	fields      map[string]json.RawMessage
	displayName string
	avatar      string
	score       int
	updatedAt   time.Time
}

// NewMemory creates an empty in-memory remote store.
func NewMemory() *InMemoryStore {
	return &InMemoryStore{
		docs: make(map[id.UserID]*memoryDoc),
		now:  time.Now,
	}
}

// WithNow pins the store's clock. Test hook.
func (s *InMemoryStore) WithNow(now func() time.Time) *InMemoryStore {
	s.now = now
	return s
}

func (s *InMemoryStore) Load(ctx context.Context, uid id.UserID) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[uid]
	if !ok {
		return nil, sentinel.ErrNotFound
	}

	raw, err := json.Marshal(doc.fields)
	if err != nil {
		return nil, err
	}
	state, err := userstate.DecodeSnapshot(raw)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		State:       state,
		DisplayName: doc.displayName,
		Avatar:      doc.avatar,
		UpdatedAt:   doc.updatedAt,
	}, nil
}

func (s *InMemoryStore) MergeWrite(ctx context.Context, uid id.UserID, doc userstate.RemoteDocument) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.docs[uid]
	if !ok {
		existing = &memoryDoc{fields: make(map[string]json.RawMessage)}
		s.docs[uid] = existing
	}
	for k, v := range fields {
		existing.fields[k] = v
	}
	existing.displayName = doc.DisplayName
	existing.avatar = doc.Avatar
	existing.score = doc.Score
	existing.updatedAt = s.now()
	return nil
}

func (s *InMemoryStore) Delete(ctx context.Context, uid id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[uid]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.docs, uid)
	return nil
}

func (s *InMemoryStore) LeaderboardTop(ctx context.Context, n int) ([]LeaderboardRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]LeaderboardRow, 0, len(s.docs))
	for uid, doc := range s.docs {
		row := LeaderboardRow{
			UID:         uid,
			DisplayName: doc.displayName,
			Avatar:      doc.avatar,
			Score:       doc.score,
			Level:       1,
			Tier:        id.TierBronze,
			UpdatedAt:   doc.updatedAt,
		}
		if raw, ok := doc.fields["level"]; ok {
			_ = json.Unmarshal(raw, &row.Level)
		}
		if raw, ok := doc.fields["tier"]; ok {
			_ = json.Unmarshal(raw, &row.Tier)
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		return rows[i].UpdatedAt.After(rows[j].UpdatedAt)
	})
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows, nil
}

// SeedCount reports how many documents exist. Test helper.
func (s *InMemoryStore) SeedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
