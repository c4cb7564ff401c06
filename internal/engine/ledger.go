package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/dramlab/tastegraph/internal/data/graph"
	"github.com/dramlab/tastegraph/internal/domain"
	apperrors "github.com/dramlab/tastegraph/internal/pkg/errors"
	"github.com/dramlab/tastegraph/internal/platform/logger"
)

// Ledger records at most one rating per (user, item) pair. Re-rating
// overwrites rank and timestamp through the store's atomic upsert, so the
// operation is idempotent and concurrent writers resolve to last write
// wins.
type Ledger struct {
	store graph.Store
	log   *logger.Logger
}

func NewLedger(store graph.Store, log *logger.Logger) *Ledger {
	return &Ledger{
		store: store,
		log:   log.With("component", "RatingLedger"),
	}
}

// UpsertRating validates the rank, resolves the item, then merges the user
// node and the single RATED edge in one store call.
func (l *Ledger) UpsertRating(ctx context.Context, user domain.User, itemID string, rating domain.Rating) error {
	if !domain.ValidRank(rating.Rank) {
		return fmt.Errorf("%w: rank %d outside %d..%d", apperrors.ErrInvalidArgument, rating.Rank, domain.MinRank, domain.MaxRank)
	}
	if _, err := l.store.FindItem(ctx, itemID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: %q", apperrors.ErrItemNotFound, itemID)
		}
		return err
	}
	if err := l.store.UpsertRating(ctx, user, itemID, rating); err != nil {
		return err
	}
	l.log.Debug("rating upserted", "user_id", user.ID, "item_id", itemID, "rank", rating.Rank)
	return nil
}

// GetRating returns the user's rating of the item, or (nil, nil) when none
// exists. Absence of a prior rating is a normal outcome, not an error.
func (l *Ledger) GetRating(ctx context.Context, userID int64, itemID string) (*domain.Rating, error) {
	return l.store.Rating(ctx, userID, itemID)
}

// ListRatings returns every item the user has rated together with the
// rank they gave it, ordered by item id. Empty for users with no ratings.
func (l *Ledger) ListRatings(ctx context.Context, userID int64) ([]domain.UserRating, error) {
	return l.store.UserRatings(ctx, userID)
}
