package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dramlab/tastegraph/internal/data/graph"
	"github.com/dramlab/tastegraph/internal/domain"
	apperrors "github.com/dramlab/tastegraph/internal/pkg/errors"
)

func TestUpsertRatingIdempotent(t *testing.T) {
	store := graph.NewMemoryStore()
	seedItem(t, store, "w1", "Lagavulin 16", 43)
	ledger := NewLedger(store, testLog())
	ctx := context.Background()

	rating := domain.Rating{Rank: 4, At: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	for i := 0; i < 2; i++ {
		if err := ledger.UpsertRating(ctx, testUser(1), "w1", rating); err != nil {
			t.Fatalf("upsert %d: %v", i, err)
		}
	}

	rated, err := store.RatedItems(ctx, 1)
	if err != nil {
		t.Fatalf("rated items: %v", err)
	}
	if len(rated) != 1 {
		t.Fatalf("expected exactly one rating edge, got %d", len(rated))
	}
	got, err := ledger.GetRating(ctx, 1, "w1")
	if err != nil {
		t.Fatalf("get rating: %v", err)
	}
	if got == nil || got.Rank != 4 || !got.At.Equal(rating.At) {
		t.Fatalf("unexpected rating %+v", got)
	}
}

func TestUpsertRatingOverwrites(t *testing.T) {
	store := graph.NewMemoryStore()
	seedItem(t, store, "w1", "Talisker 10", 45.8)
	ledger := NewLedger(store, testLog())
	ctx := context.Background()

	mustRate(t, ledger, 1, "w1", 2)
	mustRate(t, ledger, 1, "w1", 5)

	rated, err := store.RatedItems(ctx, 1)
	if err != nil {
		t.Fatalf("rated items: %v", err)
	}
	if len(rated) != 1 {
		t.Fatalf("expected exactly one rating edge, got %d", len(rated))
	}
	got, err := ledger.GetRating(ctx, 1, "w1")
	if err != nil {
		t.Fatalf("get rating: %v", err)
	}
	if got == nil || got.Rank != 5 {
		t.Fatalf("expected rank 5 after overwrite, got %+v", got)
	}
}

func TestUpsertRatingUnknownItem(t *testing.T) {
	store := graph.NewMemoryStore()
	ledger := NewLedger(store, testLog())

	err := ledger.UpsertRating(context.Background(), testUser(1), "missing", domain.Rating{Rank: 3, At: time.Now()})
	if !errors.Is(err, apperrors.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestUpsertRatingInvalidRank(t *testing.T) {
	store := graph.NewMemoryStore()
	seedItem(t, store, "w1", "Oban 14", 43)
	ledger := NewLedger(store, testLog())

	for _, rank := range []int{0, -1, 6} {
		err := ledger.UpsertRating(context.Background(), testUser(1), "w1", domain.Rating{Rank: rank, At: time.Now()})
		if !errors.Is(err, apperrors.ErrInvalidArgument) {
			t.Fatalf("rank %d: expected ErrInvalidArgument, got %v", rank, err)
		}
	}

	// The store must not have been touched.
	rated, err := store.RatedItems(context.Background(), 1)
	if err != nil {
		t.Fatalf("rated items: %v", err)
	}
	if len(rated) != 0 {
		t.Fatalf("expected no ratings after rejected upserts, got %d", len(rated))
	}
}

func TestGetRatingAbsent(t *testing.T) {
	store := graph.NewMemoryStore()
	seedItem(t, store, "w1", "Glenkinchie 12", 43)
	ledger := NewLedger(store, testLog())

	got, err := ledger.GetRating(context.Background(), 42, "w1")
	if err != nil {
		t.Fatalf("absence must not be an error, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil rating, got %+v", got)
	}
}

func TestListRatings(t *testing.T) {
	store := graph.NewMemoryStore()
	seedItem(t, store, "w2", "Oban 14", 43)
	seedItem(t, store, "w1", "Laphroaig 10", 40)
	seedItem(t, store, "w3", "Talisker 57 North", 57)
	ledger := NewLedger(store, testLog())

	mustRate(t, ledger, 7, "w3", 5)
	mustRate(t, ledger, 7, "w1", 2)
	mustRate(t, ledger, 99, "w2", 4)

	ratings, err := ledger.ListRatings(context.Background(), 7)
	if err != nil {
		t.Fatalf("list ratings: %v", err)
	}
	if len(ratings) != 2 {
		t.Fatalf("expected 2 ratings, got %v", ratings)
	}
	if ratings[0].Item.ID != "w1" || ratings[0].Item.Name != "Laphroaig 10" || ratings[0].Rank != 2 {
		t.Fatalf("unexpected first entry %+v", ratings[0])
	}
	if ratings[1].Item.ID != "w3" || ratings[1].Item.Name != "Talisker 57 North" || ratings[1].Rank != 5 {
		t.Fatalf("unexpected second entry %+v", ratings[1])
	}
}

func TestListRatingsEmpty(t *testing.T) {
	store := graph.NewMemoryStore()
	ledger := NewLedger(store, testLog())

	ratings, err := ledger.ListRatings(context.Background(), 42)
	if err != nil {
		t.Fatalf("list ratings: %v", err)
	}
	if len(ratings) != 0 {
		t.Fatalf("expected no ratings, got %v", ratings)
	}
}
