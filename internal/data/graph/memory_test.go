package graph

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dramlab/tastegraph/internal/domain"
	apperrors "github.com/dramlab/tastegraph/internal/pkg/errors"
)

func seed(t *testing.T, store *MemoryStore, id string, attrs ...domain.Attribute) {
	t.Helper()
	ctx := context.Background()
	if err := store.UpsertItem(ctx, domain.Item{ID: id, Name: id, Strength: 40}); err != nil {
		t.Fatalf("upsert item %s: %v", id, err)
	}
	for _, a := range attrs {
		if err := store.AttachAttribute(ctx, id, a); err != nil {
			t.Fatalf("attach %s: %v", a.Name, err)
		}
	}
}

func TestAttributeDeduplicatedAcrossItems(t *testing.T) {
	store := NewMemoryStore()
	peaty := domain.Attribute{Category: domain.CategoryNose, ID: 1, Name: "peaty"}
	seed(t, store, "a", peaty)
	seed(t, store, "b", peaty)

	if got := store.AttributeCount(); got != 1 {
		t.Fatalf("expected one attribute node for (nose, peaty), got %d", got)
	}

	// Both items hold a membership edge to the same node.
	ms, err := store.Memberships(context.Background(), []string{"a", "b"}, domain.CategoryNose)
	if err != nil {
		t.Fatalf("memberships: %v", err)
	}
	if len(ms) != 2 {
		t.Fatalf("expected two membership edges, got %d", len(ms))
	}
	if ms[0].Attribute.ID != ms[1].Attribute.ID {
		t.Fatalf("memberships reference different attribute nodes: %+v", ms)
	}
}

func TestAttachAttributeIdempotentEdge(t *testing.T) {
	store := NewMemoryStore()
	peaty := domain.Attribute{Category: domain.CategoryNose, ID: 1, Name: "peaty"}
	seed(t, store, "a", peaty, peaty)

	ms, err := store.Memberships(context.Background(), []string{"a"}, domain.CategoryNose)
	if err != nil {
		t.Fatalf("memberships: %v", err)
	}
	if len(ms) != 1 {
		t.Fatalf("expected at most one membership edge per pair, got %d", len(ms))
	}
}

func TestCoAttributedMultiplicity(t *testing.T) {
	store := NewMemoryStore()
	smoky := domain.Attribute{Category: domain.CategoryNose, ID: 1, Name: "smoky"}
	briny := domain.Attribute{Category: domain.CategoryNose, ID: 2, Name: "briny"}
	seed(t, store, "x", smoky, briny)
	seed(t, store, "y", smoky, briny)
	seed(t, store, "z", smoky)

	items, err := store.CoAttributed(context.Background(), []string{"x"})
	if err != nil {
		t.Fatalf("co-attributed: %v", err)
	}
	counts := make(map[string]int)
	for _, item := range items {
		if item.ID == "x" {
			t.Fatalf("seed item must not appear on its own paths")
		}
		counts[item.ID]++
	}
	// y shares two attributes with x, z shares one.
	if counts["y"] != 2 || counts["z"] != 1 {
		t.Fatalf("expected multiplicity y=2 z=1, got %v", counts)
	}
}

func TestFindItemNotFound(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.FindItem(context.Background(), "nope")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpsertRatingOverwritesUserAttributes(t *testing.T) {
	store := NewMemoryStore()
	seed(t, store, "a")
	ctx := context.Background()

	first := domain.User{ID: 1, Username: "old"}
	if err := store.UpsertRating(ctx, first, "a", domain.Rating{Rank: 3, At: time.Now()}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second := domain.User{ID: 1, Username: "new"}
	if err := store.UpsertRating(ctx, second, "a", domain.Rating{Rank: 4, At: time.Now()}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	rating, err := store.Rating(ctx, 1, "a")
	if err != nil {
		t.Fatalf("rating: %v", err)
	}
	if rating == nil || rating.Rank != 4 {
		t.Fatalf("expected overwritten rank 4, got %+v", rating)
	}
}
