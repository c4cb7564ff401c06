package engine

import (
	"context"
	"fmt"

	"github.com/dramlab/tastegraph/internal/data/graph"
	"github.com/dramlab/tastegraph/internal/domain"
	apperrors "github.com/dramlab/tastegraph/internal/pkg/errors"
	"github.com/dramlab/tastegraph/internal/platform/logger"
)

// Rankings serves the catalog-wide top-K queries. Sorting and limiting
// happen store-side.
type Rankings struct {
	store graph.Store
	log   *logger.Logger
}

func NewRankings(store graph.Store, log *logger.Logger) *Rankings {
	return &Rankings{
		store: store,
		log:   log.With("component", "Rankings"),
	}
}

// TopByStrength returns the limit strongest items (highest strength
// first), ties broken by item id.
func (r *Rankings) TopByStrength(ctx context.Context, limit int) ([]domain.Item, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit %d must be positive", apperrors.ErrInvalidArgument, limit)
	}
	return r.store.TopByStrength(ctx, limit)
}

// ByStrengthRange returns every item whose strength lies in [min, max],
// both bounds inclusive, strongest first.
func (r *Rankings) ByStrengthRange(ctx context.Context, min, max float64) ([]domain.Item, error) {
	if min > max {
		return nil, fmt.Errorf("%w: strength range %v..%v is inverted", apperrors.ErrInvalidArgument, min, max)
	}
	return r.store.ItemsByStrength(ctx, min, max)
}

// TopByPopularity returns the limit most-rated items with their rating
// counts, descending, ties broken by item id.
func (r *Rankings) TopByPopularity(ctx context.Context, limit int) ([]domain.ItemRatingCount, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit %d must be positive", apperrors.ErrInvalidArgument, limit)
	}
	return r.store.TopByPopularity(ctx, limit)
}
