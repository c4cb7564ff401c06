package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/dramlab/tastegraph/internal/domain"
	apperrors "github.com/dramlab/tastegraph/internal/pkg/errors"
	"github.com/dramlab/tastegraph/internal/platform/logger"
	"github.com/dramlab/tastegraph/internal/platform/neo4jdb"
)

// Neo4jStore runs the Store contract against a Neo4j database through
// managed read/write sessions. All timestamps are stored as RFC3339Nano
// strings.
type Neo4jStore struct {
	client *neo4jdb.Client
	log    *logger.Logger
}

func NewNeo4jStore(client *neo4jdb.Client, log *logger.Logger) *Neo4jStore {
	return &Neo4jStore{
		client: client,
		log:    log.With("store", "Neo4jGraph"),
	}
}

// InitSchema creates the uniqueness constraints the data model relies on.
// Safe to call on every startup.
func (s *Neo4jStore) InitSchema(ctx context.Context) error {
	session := s.writeSession(ctx)
	defer session.Close(ctx)

	stmts := []string{
		`CREATE CONSTRAINT item_id_unique IF NOT EXISTS FOR (i:Item) REQUIRE i.id IS UNIQUE`,
		`CREATE CONSTRAINT user_id_unique IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE`,
		`CREATE CONSTRAINT attribute_identity_unique IF NOT EXISTS FOR (a:Attribute) REQUIRE (a.category, a.id) IS UNIQUE`,
	}
	for _, stmt := range stmts {
		res, err := session.Run(ctx, stmt, nil)
		if err != nil {
			return fmt.Errorf("%w: init schema: %v", apperrors.ErrStoreUnavailable, err)
		}
		if _, err := res.Consume(ctx); err != nil {
			return fmt.Errorf("%w: init schema: %v", apperrors.ErrStoreUnavailable, err)
		}
	}
	return nil
}

func (s *Neo4jStore) FindItem(ctx context.Context, itemID string) (*domain.Item, error) {
	records, err := s.read(ctx, `
MATCH (i:Item {id: $item_id})
RETURN i.id AS id, i.name AS name, i.strength AS strength
`, map[string]any{"item_id": itemID})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: item %q", apperrors.ErrNotFound, itemID)
	}
	item := recordItem(records[0])
	return &item, nil
}

func (s *Neo4jStore) UpsertUser(ctx context.Context, user domain.User) error {
	return s.write(ctx, `
MERGE (u:User {id: $user_id})
SET u.username = $username,
    u.first_name = $first_name,
    u.last_name = $last_name,
    u.language_code = $language_code,
    u.is_bot = $is_bot
`, userParams(user))
}

func (s *Neo4jStore) UpsertItem(ctx context.Context, item domain.Item) error {
	return s.write(ctx, `
MERGE (i:Item {id: $item_id})
SET i.name = $name,
    i.strength = $strength
`, map[string]any{
		"item_id":  item.ID,
		"name":     item.Name,
		"strength": item.Strength,
	})
}

func (s *Neo4jStore) AttachAttribute(ctx context.Context, itemID string, attr domain.Attribute) error {
	return s.write(ctx, `
MATCH (i:Item {id: $item_id})
MERGE (a:Attribute {category: $category, id: $attr_id})
  ON CREATE SET a.name = $name
MERGE (i)-[:HAS_ATTRIBUTE]->(a)
`, map[string]any{
		"item_id":  itemID,
		"category": string(attr.Category),
		"attr_id":  attr.ID,
		"name":     attr.Name,
	})
}

func (s *Neo4jStore) UpsertRating(ctx context.Context, user domain.User, itemID string, rating domain.Rating) error {
	params := userParams(user)
	params["item_id"] = itemID
	params["rank"] = int64(rating.Rank)
	params["at"] = rating.At.UTC().Format(time.RFC3339Nano)
	return s.write(ctx, `
MATCH (i:Item {id: $item_id})
MERGE (u:User {id: $user_id})
SET u.username = $username,
    u.first_name = $first_name,
    u.last_name = $last_name,
    u.language_code = $language_code,
    u.is_bot = $is_bot
MERGE (u)-[r:RATED]->(i)
SET r.rank = $rank,
    r.at = $at
`, params)
}

func (s *Neo4jStore) Rating(ctx context.Context, userID int64, itemID string) (*domain.Rating, error) {
	records, err := s.read(ctx, `
MATCH (u:User {id: $user_id})-[r:RATED]->(i:Item {id: $item_id})
RETURN r.rank AS rank, r.at AS at
`, map[string]any{"user_id": userID, "item_id": itemID})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	rating := &domain.Rating{Rank: int(asInt64(records[0], "rank"))}
	if at, err := time.Parse(time.RFC3339Nano, asString(records[0], "at")); err == nil {
		rating.At = at
	}
	return rating, nil
}

func (s *Neo4jStore) RatedItems(ctx context.Context, userID int64) ([]SeedRating, error) {
	records, err := s.read(ctx, `
MATCH (u:User {id: $user_id})-[r:RATED]->(i:Item)
RETURN i.id AS item_id, r.rank AS rank
`, map[string]any{"user_id": userID})
	if err != nil {
		return nil, err
	}
	out := make([]SeedRating, 0, len(records))
	for _, rec := range records {
		out = append(out, SeedRating{
			ItemID: asString(rec, "item_id"),
			Rank:   int(asInt64(rec, "rank")),
		})
	}
	return out, nil
}

func (s *Neo4jStore) UserRatings(ctx context.Context, userID int64) ([]domain.UserRating, error) {
	records, err := s.read(ctx, `
MATCH (u:User {id: $user_id})-[r:RATED]->(i:Item)
RETURN i.id AS id, i.name AS name, i.strength AS strength, r.rank AS rank
ORDER BY i.id ASC
`, map[string]any{"user_id": userID})
	if err != nil {
		return nil, err
	}
	out := make([]domain.UserRating, 0, len(records))
	for _, rec := range records {
		out = append(out, domain.UserRating{
			Item: recordItem(rec),
			Rank: int(asInt64(rec, "rank")),
		})
	}
	return out, nil
}

func (s *Neo4jStore) Memberships(ctx context.Context, itemIDs []string, category domain.Category) ([]Membership, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	records, err := s.read(ctx, `
MATCH (i:Item)-[:HAS_ATTRIBUTE]->(a:Attribute {category: $category})
WHERE i.id IN $item_ids
RETURN i.id AS item_id, a.id AS attr_id, a.name AS attr_name
`, map[string]any{"item_ids": itemIDs, "category": string(category)})
	if err != nil {
		return nil, err
	}
	out := make([]Membership, 0, len(records))
	for _, rec := range records {
		out = append(out, Membership{
			ItemID: asString(rec, "item_id"),
			Attribute: domain.Attribute{
				Category: category,
				ID:       asInt64(rec, "attr_id"),
				Name:     asString(rec, "attr_name"),
			},
		})
	}
	return out, nil
}

func (s *Neo4jStore) CoAttributed(ctx context.Context, seedItemIDs []string) ([]domain.Item, error) {
	if len(seedItemIDs) == 0 {
		return nil, nil
	}
	records, err := s.read(ctx, `
MATCH (seed:Item)-[:HAS_ATTRIBUTE]->(:Attribute)<-[:HAS_ATTRIBUTE]-(other:Item)
WHERE seed.id IN $seed_ids AND other.id <> seed.id
RETURN other.id AS id, other.name AS name, other.strength AS strength
`, map[string]any{"seed_ids": seedItemIDs})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Item, 0, len(records))
	for _, rec := range records {
		out = append(out, recordItem(rec))
	}
	return out, nil
}

func (s *Neo4jStore) TopByStrength(ctx context.Context, limit int) ([]domain.Item, error) {
	records, err := s.read(ctx, `
MATCH (i:Item)
RETURN i.id AS id, i.name AS name, i.strength AS strength
ORDER BY i.strength DESC, i.id ASC
LIMIT $limit
`, map[string]any{"limit": int64(limit)})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Item, 0, len(records))
	for _, rec := range records {
		out = append(out, recordItem(rec))
	}
	return out, nil
}

func (s *Neo4jStore) ItemsByStrength(ctx context.Context, min, max float64) ([]domain.Item, error) {
	records, err := s.read(ctx, `
MATCH (i:Item)
WHERE i.strength >= $min AND i.strength <= $max
RETURN i.id AS id, i.name AS name, i.strength AS strength
ORDER BY i.strength DESC, i.id ASC
`, map[string]any{"min": min, "max": max})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Item, 0, len(records))
	for _, rec := range records {
		out = append(out, recordItem(rec))
	}
	return out, nil
}

func (s *Neo4jStore) TopByPopularity(ctx context.Context, limit int) ([]domain.ItemRatingCount, error) {
	records, err := s.read(ctx, `
MATCH (:User)-[r:RATED]->(i:Item)
RETURN i.id AS id, i.name AS name, i.strength AS strength, count(r) AS times
ORDER BY times DESC, i.id ASC
LIMIT $limit
`, map[string]any{"limit": int64(limit)})
	if err != nil {
		return nil, err
	}
	out := make([]domain.ItemRatingCount, 0, len(records))
	for _, rec := range records {
		out = append(out, domain.ItemRatingCount{
			Item:  recordItem(rec),
			Count: asInt64(rec, "times"),
		})
	}
	return out, nil
}

func (s *Neo4jStore) writeSession(ctx context.Context) neo4j.SessionWithContext {
	return s.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.client.Database,
	})
}

func (s *Neo4jStore) write(ctx context.Context, cypher string, params map[string]any) error {
	session := s.writeSession(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Neo4jStore) read(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	session := s.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: s.client.Database,
	})
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}
	records, _ := out.([]*neo4j.Record)
	return records, nil
}

func userParams(user domain.User) map[string]any {
	return map[string]any{
		"user_id":       user.ID,
		"username":      user.Username,
		"first_name":    user.FirstName,
		"last_name":     user.LastName,
		"language_code": user.LanguageCode,
		"is_bot":        user.IsBot,
	}
}

func recordItem(rec *neo4j.Record) domain.Item {
	return domain.Item{
		ID:       asString(rec, "id"),
		Name:     asString(rec, "name"),
		Strength: asFloat64(rec, "strength"),
	}
}

func asString(rec *neo4j.Record, key string) string {
	if v, ok := rec.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func asInt64(rec *neo4j.Record, key string) int64 {
	if v, ok := rec.Get(key); ok {
		switch n := v.(type) {
		case int64:
			return n
		case int:
			return int64(n)
		}
	}
	return 0
}

func asFloat64(rec *neo4j.Record, key string) float64 {
	if v, ok := rec.Get(key); ok {
		switch n := v.(type) {
		case float64:
			return n
		case int64:
			return float64(n)
		}
	}
	return 0
}
