package engine

import (
	"context"
	"testing"
	"time"

	"github.com/dramlab/tastegraph/internal/data/graph"
	"github.com/dramlab/tastegraph/internal/domain"
	"github.com/dramlab/tastegraph/internal/platform/logger"
)

func attr(category domain.Category, id int64, name string) domain.Attribute {
	return domain.Attribute{Category: category, ID: id, Name: name}
}

func seedItem(t *testing.T, store *graph.MemoryStore, id, name string, strength float64, attrs ...domain.Attribute) {
	t.Helper()
	ctx := context.Background()
	if err := store.UpsertItem(ctx, domain.Item{ID: id, Name: name, Strength: strength}); err != nil {
		t.Fatalf("seed item %s: %v", id, err)
	}
	for _, a := range attrs {
		if err := store.AttachAttribute(ctx, id, a); err != nil {
			t.Fatalf("attach attribute %s to %s: %v", a.Name, id, err)
		}
	}
}

func testUser(id int64) domain.User {
	return domain.User{ID: id, Username: "tester", FirstName: "Test", IsBot: false}
}

func mustRate(t *testing.T, ledger *Ledger, userID int64, itemID string, rank int) {
	t.Helper()
	err := ledger.UpsertRating(context.Background(), testUser(userID), itemID, domain.Rating{
		Rank: rank,
		At:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("rate item %s rank %d: %v", itemID, rank, err)
	}
}

func testLog() *logger.Logger {
	return logger.NewNop()
}
