package graph

import (
	"context"

	"github.com/dramlab/tastegraph/internal/domain"
)

// SeedRating is one (item, rank) row of a user's rating history.
type SeedRating struct {
	ItemID string
	Rank   int
}

// Membership is one item-to-attribute edge row.
type Membership struct {
	ItemID    string
	Attribute domain.Attribute
}

// Store is the attribute-graph contract the engine runs against. It covers
// node/edge upserts with merge-or-create semantics and the traversals the
// profiler, sampler and rankings need. Implementations: Neo4jStore for
// production, MemoryStore for tests and driverless runs.
type Store interface {
	// FindItem resolves an item node or returns an error wrapping
	// apperrors.ErrNotFound.
	FindItem(ctx context.Context, itemID string) (*domain.Item, error)

	// UpsertUser creates the user node or overwrites its display
	// attributes. Identity never changes.
	UpsertUser(ctx context.Context, user domain.User) error

	// UpsertItem creates or updates an item node by id.
	UpsertItem(ctx context.Context, item domain.Item) error

	// AttachAttribute merges the deduplicated attribute node identified
	// by (category, id) and the membership edge from the item to it.
	// At most one such edge exists per (item, attribute) pair.
	AttachAttribute(ctx context.Context, itemID string, attr domain.Attribute) error

	// UpsertRating merges the user node and the single RATED edge to the
	// item in one atomic write. Last write wins for concurrent callers.
	UpsertRating(ctx context.Context, user domain.User, itemID string, rating domain.Rating) error

	// Rating returns the user's rating of the item, or (nil, nil) when
	// none exists.
	Rating(ctx context.Context, userID int64, itemID string) (*domain.Rating, error)

	// RatedItems returns one row per item the user has rated.
	RatedItems(ctx context.Context, userID int64) ([]SeedRating, error)

	// UserRatings returns the user's ratings joined with the full item
	// nodes, ordered by item id ascending.
	UserRatings(ctx context.Context, userID int64) ([]domain.UserRating, error)

	// Memberships returns one row per membership edge from any of the
	// given items into the given category.
	Memberships(ctx context.Context, itemIDs []string, category domain.Category) ([]Membership, error)

	// CoAttributed returns one item per seed->attribute->other-item path,
	// as a multiset: an item reachable through several shared attributes
	// or several seeds appears once per path. The seed itself is excluded
	// on each path; filtering out already-rated items is the caller's job.
	CoAttributed(ctx context.Context, seedItemIDs []string) ([]domain.Item, error)

	// TopByStrength returns up to limit items ordered by strength
	// descending, ties broken by item id ascending.
	TopByStrength(ctx context.Context, limit int) ([]domain.Item, error)

	// ItemsByStrength returns every item whose strength lies in
	// [min, max], both bounds inclusive, ordered by strength descending,
	// ties broken by item id ascending.
	ItemsByStrength(ctx context.Context, min, max float64) ([]domain.Item, error)

	// TopByPopularity returns up to limit items ordered by rating count
	// descending, ties broken by item id ascending.
	TopByPopularity(ctx context.Context, limit int) ([]domain.ItemRatingCount, error)
}
