package graph

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dramlab/tastegraph/internal/domain"
	apperrors "github.com/dramlab/tastegraph/internal/pkg/errors"
)

type attrKey struct {
	category domain.Category
	id       int64
}

// MemoryStore is a mutex-guarded adjacency-map implementation of Store.
// It backs the engine's unit tests and lets the server run without a
// Neo4j instance.
type MemoryStore struct {
	mu          sync.RWMutex
	users       map[int64]domain.User
	items       map[string]domain.Item
	attrs       map[attrKey]domain.Attribute
	memberships map[string]map[attrKey]struct{}
	itemsByAttr map[attrKey]map[string]struct{}
	ratings     map[int64]map[string]domain.Rating
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[int64]domain.User),
		items:       make(map[string]domain.Item),
		attrs:       make(map[attrKey]domain.Attribute),
		memberships: make(map[string]map[attrKey]struct{}),
		itemsByAttr: make(map[attrKey]map[string]struct{}),
		ratings:     make(map[int64]map[string]domain.Rating),
	}
}

func (s *MemoryStore) FindItem(_ context.Context, itemID string) (*domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[itemID]
	if !ok {
		return nil, fmt.Errorf("%w: item %q", apperrors.ErrNotFound, itemID)
	}
	return &item, nil
}

func (s *MemoryStore) UpsertUser(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	return nil
}

func (s *MemoryStore) UpsertItem(_ context.Context, item domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = item
	if s.memberships[item.ID] == nil {
		s.memberships[item.ID] = make(map[attrKey]struct{})
	}
	return nil
}

func (s *MemoryStore) AttachAttribute(_ context.Context, itemID string, attr domain.Attribute) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[itemID]; !ok {
		return fmt.Errorf("%w: item %q", apperrors.ErrNotFound, itemID)
	}
	key := attrKey{category: attr.Category, id: attr.ID}
	if _, ok := s.attrs[key]; !ok {
		s.attrs[key] = attr
	}
	if s.memberships[itemID] == nil {
		s.memberships[itemID] = make(map[attrKey]struct{})
	}
	s.memberships[itemID][key] = struct{}{}
	if s.itemsByAttr[key] == nil {
		s.itemsByAttr[key] = make(map[string]struct{})
	}
	s.itemsByAttr[key][itemID] = struct{}{}
	return nil
}

func (s *MemoryStore) UpsertRating(_ context.Context, user domain.User, itemID string, rating domain.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[itemID]; !ok {
		return fmt.Errorf("%w: item %q", apperrors.ErrNotFound, itemID)
	}
	s.users[user.ID] = user
	if s.ratings[user.ID] == nil {
		s.ratings[user.ID] = make(map[string]domain.Rating)
	}
	s.ratings[user.ID][itemID] = rating
	return nil
}

func (s *MemoryStore) Rating(_ context.Context, userID int64, itemID string) (*domain.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rating, ok := s.ratings[userID][itemID]
	if !ok {
		return nil, nil
	}
	return &rating, nil
}

func (s *MemoryStore) RatedItems(_ context.Context, userID int64) ([]SeedRating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byItem := s.ratings[userID]
	out := make([]SeedRating, 0, len(byItem))
	for itemID, rating := range byItem {
		out = append(out, SeedRating{ItemID: itemID, Rank: rating.Rank})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

func (s *MemoryStore) UserRatings(_ context.Context, userID int64) ([]domain.UserRating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byItem := s.ratings[userID]
	out := make([]domain.UserRating, 0, len(byItem))
	for itemID, rating := range byItem {
		out = append(out, domain.UserRating{Item: s.items[itemID], Rank: rating.Rank})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Item.ID < out[j].Item.ID })
	return out, nil
}

func (s *MemoryStore) Memberships(_ context.Context, itemIDs []string, category domain.Category) ([]Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Membership
	for _, itemID := range itemIDs {
		for key := range s.memberships[itemID] {
			if key.category != category {
				continue
			}
			out = append(out, Membership{ItemID: itemID, Attribute: s.attrs[key]})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ItemID != out[j].ItemID {
			return out[i].ItemID < out[j].ItemID
		}
		return out[i].Attribute.ID < out[j].Attribute.ID
	})
	return out, nil
}

func (s *MemoryStore) CoAttributed(_ context.Context, seedItemIDs []string) ([]domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Item
	for _, seedID := range seedItemIDs {
		for key := range s.memberships[seedID] {
			for otherID := range s.itemsByAttr[key] {
				if otherID == seedID {
					continue
				}
				out = append(out, s.items[otherID])
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) TopByStrength(_ context.Context, limit int) ([]domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]domain.Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Strength != items[j].Strength {
			return items[i].Strength > items[j].Strength
		}
		return items[i].ID < items[j].ID
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *MemoryStore) ItemsByStrength(_ context.Context, min, max float64) ([]domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []domain.Item
	for _, item := range s.items {
		if item.Strength < min || item.Strength > max {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Strength != items[j].Strength {
			return items[i].Strength > items[j].Strength
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (s *MemoryStore) TopByPopularity(_ context.Context, limit int) ([]domain.ItemRatingCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int64)
	for _, byItem := range s.ratings {
		for itemID := range byItem {
			counts[itemID]++
		}
	}
	out := make([]domain.ItemRatingCount, 0, len(counts))
	for itemID, count := range counts {
		out = append(out, domain.ItemRatingCount{Item: s.items[itemID], Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Item.ID < out[j].Item.ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// AttributeCount reports how many distinct attribute nodes exist. Used by
// tests to verify deduplication.
func (s *MemoryStore) AttributeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.attrs)
}
