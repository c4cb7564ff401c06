package engine

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/dramlab/tastegraph/internal/data/graph"
	"github.com/dramlab/tastegraph/internal/domain"
	apperrors "github.com/dramlab/tastegraph/internal/pkg/errors"
	"github.com/dramlab/tastegraph/internal/platform/logger"
)

// DefaultRecommendLimit is applied by callers when no limit is supplied.
const DefaultRecommendLimit = 10

// Sampler produces exploratory recommendations: every rated item seeds the
// traversal regardless of rank, so disliked items still map out the user's
// taste neighborhood.
type Sampler struct {
	store graph.Store
	log   *logger.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSampler(store graph.Store, log *logger.Logger) *Sampler {
	return NewSeededSampler(store, log, time.Now().UnixNano())
}

// NewSeededSampler fixes the sampling source, making recommendation order
// reproducible in tests.
func NewSeededSampler(store graph.Store, log *logger.Logger, seed int64) *Sampler {
	return &Sampler{
		store: store,
		log:   log.With("component", "RecommendationSampler"),
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Recommend walks one hop from the user's rated items to shared attributes
// and one hop onward to other items, drops anything already rated, then
// draws up to limit distinct items. Each item's selection probability is
// proportional to how many traversal paths reach it: the candidate
// multiset is shuffled and deduplicated in draw order, first draw wins.
// Users without ratings or candidates get an empty result.
func (s *Sampler) Recommend(ctx context.Context, userID int64, limit int) ([]domain.Item, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit %d must be positive", apperrors.ErrInvalidArgument, limit)
	}

	seeds, err := s.store.RatedItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(seeds) == 0 {
		return nil, nil
	}

	rated := make(map[string]struct{}, len(seeds))
	seedIDs := make([]string, 0, len(seeds))
	for _, seed := range seeds {
		rated[seed.ItemID] = struct{}{}
		seedIDs = append(seedIDs, seed.ItemID)
	}

	reachable, err := s.store.CoAttributed(ctx, seedIDs)
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.Item, 0, len(reachable))
	for _, item := range reachable {
		if _, ok := rated[item.ID]; ok {
			continue
		}
		candidates = append(candidates, item)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	s.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	s.mu.Unlock()

	seen := make(map[string]struct{}, limit)
	out := make([]domain.Item, 0, limit)
	for _, item := range candidates {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
