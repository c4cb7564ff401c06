package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dramlab/tastegraph/internal/data/graph"
	"github.com/dramlab/tastegraph/internal/domain"
	apperrors "github.com/dramlab/tastegraph/internal/pkg/errors"
	"github.com/dramlab/tastegraph/internal/platform/logger"
)

// ProfileCache is a read-side cache for computed profiles. Implementations
// must fail open: a miss and a cache error look the same to the profiler.
type ProfileCache interface {
	Get(ctx context.Context, userID int64) (*domain.Profile, bool)
	Set(ctx context.Context, userID int64, profile *domain.Profile)
	Invalidate(ctx context.Context, userID int64)
}

// Profiler derives a user's dominant taste per attribute category from
// rank-weighted votes over the attributes of the items they rated.
type Profiler struct {
	store graph.Store
	cache ProfileCache
	log   *logger.Logger
}

// NewProfiler builds a profiler. cache may be nil.
func NewProfiler(store graph.Store, cache ProfileCache, log *logger.Logger) *Profiler {
	return &Profiler{
		store: store,
		cache: cache,
		log:   log.With("component", "TasteProfiler"),
	}
}

// DominantAttributes accumulates one vote of weight rank per membership of
// a rated item in the category, then returns every attribute tied at the
// maximum total. An item with several attributes in the category
// contributes its full rank to each. Users without ratings, or whose
// rated items never touch the category, get an empty result.
func (p *Profiler) DominantAttributes(ctx context.Context, userID int64, category domain.Category) ([]domain.Attribute, error) {
	if !domain.ValidCategory(category) {
		return nil, fmt.Errorf("%w: unknown category %q", apperrors.ErrInvalidArgument, category)
	}
	seeds, err := p.store.RatedItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(seeds) == 0 {
		return nil, nil
	}

	rankByItem := make(map[string]int, len(seeds))
	itemIDs := make([]string, 0, len(seeds))
	for _, seed := range seeds {
		rankByItem[seed.ItemID] = seed.Rank
		itemIDs = append(itemIDs, seed.ItemID)
	}

	memberships, err := p.store.Memberships(ctx, itemIDs, category)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return nil, nil
	}

	totals := make(map[int64]int)
	byID := make(map[int64]domain.Attribute)
	for _, m := range memberships {
		totals[m.Attribute.ID] += rankByItem[m.ItemID]
		byID[m.Attribute.ID] = m.Attribute
	}

	maxTotal := 0
	for _, total := range totals {
		if total > maxTotal {
			maxTotal = total
		}
	}

	var dominant []domain.Attribute
	for id, total := range totals {
		if total == maxTotal {
			dominant = append(dominant, byID[id])
		}
	}
	sort.Slice(dominant, func(i, j int) bool {
		if dominant[i].Name != dominant[j].Name {
			return dominant[i].Name < dominant[j].Name
		}
		return dominant[i].ID < dominant[j].ID
	})
	return dominant, nil
}

// Profile runs the five category queries concurrently and merges the
// results. Any single failure fails the whole aggregate; there is no
// partial profile. A populated cache entry short-circuits the fan-out, so
// the result may trail a rating written moments ago.
func (p *Profiler) Profile(ctx context.Context, userID int64) (*domain.Profile, error) {
	if p.cache != nil {
		if profile, ok := p.cache.Get(ctx, userID); ok {
			return profile, nil
		}
	}

	var mu sync.Mutex
	dominant := make(map[domain.Category][]domain.Attribute, len(domain.Categories()))

	g, gctx := errgroup.WithContext(ctx)
	for _, category := range domain.Categories() {
		g.Go(func() error {
			attrs, err := p.DominantAttributes(gctx, userID, category)
			if err != nil {
				return err
			}
			mu.Lock()
			dominant[category] = attrs
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	profile := &domain.Profile{Dominant: dominant}
	if p.cache != nil {
		p.cache.Set(ctx, userID, profile)
	}
	return profile, nil
}
