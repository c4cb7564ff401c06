package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/dramlab/tastegraph/internal/data/graph"
	"github.com/dramlab/tastegraph/internal/domain"
)

func TestDominantAttributesPluralityWithTies(t *testing.T) {
	store := graph.NewMemoryStore()
	seedItem(t, store, "a", "Ardbeg 10", 46, attr(domain.CategoryNose, 1, "smoky"))
	seedItem(t, store, "b", "Balvenie 12", 40, attr(domain.CategoryNose, 2, "fruity"))
	ledger := NewLedger(store, testLog())
	mustRate(t, ledger, 1, "a", 5)
	mustRate(t, ledger, 1, "b", 5)

	profiler := NewProfiler(store, nil, testLog())
	got, err := profiler.DominantAttributes(context.Background(), 1, domain.CategoryNose)
	if err != nil {
		t.Fatalf("dominant attributes: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected both tied attributes, got %v", got)
	}
	if got[0].Name != "fruity" || got[1].Name != "smoky" {
		t.Fatalf("unexpected attributes %v", got)
	}
}

func TestDominantAttributesDominance(t *testing.T) {
	store := graph.NewMemoryStore()
	seedItem(t, store, "a", "Ardbeg 10", 46, attr(domain.CategoryNose, 1, "smoky"))
	seedItem(t, store, "b", "Balvenie 12", 40, attr(domain.CategoryNose, 2, "fruity"))
	ledger := NewLedger(store, testLog())
	mustRate(t, ledger, 1, "a", 5)
	mustRate(t, ledger, 1, "b", 1)

	profiler := NewProfiler(store, nil, testLog())
	got, err := profiler.DominantAttributes(context.Background(), 1, domain.CategoryNose)
	if err != nil {
		t.Fatalf("dominant attributes: %v", err)
	}
	if len(got) != 1 || got[0].Name != "smoky" {
		t.Fatalf("expected only smoky, got %v", got)
	}
}

func TestDominantAttributesMultiMembershipCountsFullRank(t *testing.T) {
	store := graph.NewMemoryStore()
	// One item with two noses: its rank votes for both.
	seedItem(t, store, "a", "Springbank 10", 46,
		attr(domain.CategoryNose, 1, "smoky"),
		attr(domain.CategoryNose, 2, "briny"))
	seedItem(t, store, "b", "Balvenie 12", 40, attr(domain.CategoryNose, 3, "fruity"))
	ledger := NewLedger(store, testLog())
	mustRate(t, ledger, 1, "a", 3)
	mustRate(t, ledger, 1, "b", 2)

	profiler := NewProfiler(store, nil, testLog())
	got, err := profiler.DominantAttributes(context.Background(), 1, domain.CategoryNose)
	if err != nil {
		t.Fatalf("dominant attributes: %v", err)
	}
	// smoky and briny both total 3, fruity totals 2.
	if len(got) != 2 {
		t.Fatalf("expected two attributes at total 3, got %v", got)
	}
	for _, a := range got {
		if a.Name == "fruity" {
			t.Fatalf("fruity should have lost, got %v", got)
		}
	}
}

func TestDominantAttributesEmptyCases(t *testing.T) {
	store := graph.NewMemoryStore()
	seedItem(t, store, "a", "Ardbeg 10", 46, attr(domain.CategoryNose, 1, "smoky"))
	ledger := NewLedger(store, testLog())
	mustRate(t, ledger, 1, "a", 5)

	profiler := NewProfiler(store, nil, testLog())

	// Unrated user.
	got, err := profiler.DominantAttributes(context.Background(), 99, domain.CategoryNose)
	if err != nil {
		t.Fatalf("unrated user must not error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty set for unrated user, got %v", got)
	}

	// Rated items never touch the category.
	got, err = profiler.DominantAttributes(context.Background(), 1, domain.CategoryFinish)
	if err != nil {
		t.Fatalf("untouched category must not error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty set for untouched category, got %v", got)
	}
}

func TestProfileUndetermined(t *testing.T) {
	store := graph.NewMemoryStore()
	profiler := NewProfiler(store, nil, testLog())

	profile, err := profiler.Profile(context.Background(), 7)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if !profile.Undetermined() {
		t.Fatalf("expected undetermined profile for unrated user")
	}
	if len(profile.Dominant) != len(domain.Categories()) {
		t.Fatalf("expected an entry per category, got %d", len(profile.Dominant))
	}
}

func TestProfileCoversAllCategories(t *testing.T) {
	store := graph.NewMemoryStore()
	seedItem(t, store, "a", "Ardbeg 10", 46,
		attr(domain.CategoryColor, 1, "gold"),
		attr(domain.CategoryNose, 1, "smoky"),
		attr(domain.CategoryBody, 1, "full"),
		attr(domain.CategoryPalate, 1, "peppery"),
		attr(domain.CategoryFinish, 1, "long"))
	ledger := NewLedger(store, testLog())
	mustRate(t, ledger, 1, "a", 5)

	profiler := NewProfiler(store, nil, testLog())
	profile, err := profiler.Profile(context.Background(), 1)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.Undetermined() {
		t.Fatalf("expected populated profile")
	}
	for _, category := range domain.Categories() {
		if len(profile.Dominant[category]) != 1 {
			t.Fatalf("category %s: expected one dominant attribute, got %v", category, profile.Dominant[category])
		}
	}
}

// failingStore errors on membership traversals of one category to prove
// the profile fan-out is all-or-nothing.
type failingStore struct {
	*graph.MemoryStore
	failCategory domain.Category
	err          error
}

func (f *failingStore) Memberships(ctx context.Context, itemIDs []string, category domain.Category) ([]graph.Membership, error) {
	if category == f.failCategory {
		return nil, f.err
	}
	return f.MemoryStore.Memberships(ctx, itemIDs, category)
}

func TestProfileFailsWholeAggregateOnCategoryError(t *testing.T) {
	mem := graph.NewMemoryStore()
	seedItem(t, mem, "a", "Ardbeg 10", 46, attr(domain.CategoryNose, 1, "smoky"))
	ledger := NewLedger(mem, testLog())
	mustRate(t, ledger, 1, "a", 5)

	storeErr := errors.New("traversal exploded")
	store := &failingStore{MemoryStore: mem, failCategory: domain.CategoryPalate, err: storeErr}

	profiler := NewProfiler(store, nil, testLog())
	_, err := profiler.Profile(context.Background(), 1)
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected aggregate failure, got %v", err)
	}
}

// stubCache records interactions; Get serves whatever was Set.
type stubCache struct {
	entries map[int64]*domain.Profile
	gets    int
	sets    int
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[int64]*domain.Profile)}
}

func (s *stubCache) Get(_ context.Context, userID int64) (*domain.Profile, bool) {
	s.gets++
	profile, ok := s.entries[userID]
	return profile, ok
}

func (s *stubCache) Set(_ context.Context, userID int64, profile *domain.Profile) {
	s.sets++
	s.entries[userID] = profile
}

func (s *stubCache) Invalidate(_ context.Context, userID int64) {
	delete(s.entries, userID)
}

func TestProfileReadsThroughCache(t *testing.T) {
	store := graph.NewMemoryStore()
	seedItem(t, store, "a", "Ardbeg 10", 46, attr(domain.CategoryNose, 1, "smoky"))
	ledger := NewLedger(store, testLog())
	mustRate(t, ledger, 1, "a", 5)

	cache := newStubCache()
	profiler := NewProfiler(store, cache, testLog())
	ctx := context.Background()

	first, err := profiler.Profile(ctx, 1)
	if err != nil {
		t.Fatalf("first profile: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("expected one cache write, got %d", cache.sets)
	}

	// A rating written behind the cache's back is not reflected until the
	// entry expires or is invalidated.
	seedItem(t, store, "b", "Balvenie 12", 40, attr(domain.CategoryNose, 2, "fruity"))
	mustRate(t, ledger, 1, "b", 5)

	second, err := profiler.Profile(ctx, 1)
	if err != nil {
		t.Fatalf("second profile: %v", err)
	}
	if len(second.Dominant[domain.CategoryNose]) != len(first.Dominant[domain.CategoryNose]) {
		t.Fatalf("expected cached profile, got %v", second.Dominant)
	}

	cache.Invalidate(ctx, 1)
	third, err := profiler.Profile(ctx, 1)
	if err != nil {
		t.Fatalf("third profile: %v", err)
	}
	if len(third.Dominant[domain.CategoryNose]) != 2 {
		t.Fatalf("expected recomputed profile with tie, got %v", third.Dominant[domain.CategoryNose])
	}
}
