package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	apperrors "github.com/dramlab/tastegraph/internal/pkg/errors"
	"github.com/dramlab/tastegraph/internal/platform/logger"
)

const maxNameMatches = 10

// ItemRecord is the catalog row for one item: display metadata plus the
// raw per-category attribute value lists. The engine never reads any of
// this for scoring; it works off the graph store.
type ItemRecord struct {
	ID       string         `gorm:"primaryKey" json:"id"`
	Name     string         `gorm:"index" json:"name"`
	Color    string         `json:"color"`
	Noses    datatypes.JSON `json:"noses"`
	Bodies   datatypes.JSON `json:"bodies"`
	Palates  datatypes.JSON `json:"palates"`
	Finishes datatypes.JSON `json:"finishes"`
	Percent  float64        `json:"percent"`
	Region   string         `json:"region"`
	District string         `json:"district"`
}

func (ItemRecord) TableName() string { return "catalog_items" }

// Catalog resolves item identity to display metadata.
type Catalog interface {
	Insert(ctx context.Context, rec *ItemRecord) error
	GetByID(ctx context.Context, id string) (*ItemRecord, error)
	// FindByNameMatch is a bounded substring search on item names.
	FindByNameMatch(ctx context.Context, text string) ([]*ItemRecord, error)
	GetAll(ctx context.Context) ([]*ItemRecord, error)
}

type gormCatalog struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCatalog(db *gorm.DB, log *logger.Logger) Catalog {
	return &gormCatalog{
		db:  db,
		log: log.With("repo", "ItemCatalog"),
	}
}

func (c *gormCatalog) Insert(ctx context.Context, rec *ItemRecord) error {
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("%w: item record requires an id", apperrors.ErrInvalidArgument)
	}
	if err := c.db.WithContext(ctx).Save(rec).Error; err != nil {
		return fmt.Errorf("%w: insert item: %v", apperrors.ErrStoreUnavailable, err)
	}
	return nil
}

func (c *gormCatalog) GetByID(ctx context.Context, id string) (*ItemRecord, error) {
	var rec ItemRecord
	if err := c.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: item %q", apperrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: get item: %v", apperrors.ErrStoreUnavailable, err)
	}
	return &rec, nil
}

func (c *gormCatalog) FindByNameMatch(ctx context.Context, text string) ([]*ItemRecord, error) {
	var recs []*ItemRecord
	if err := c.db.WithContext(ctx).
		Where(`name LIKE ? ESCAPE '\'`, "%"+escapeLike(text)+"%").
		Order("name ASC").
		Limit(maxNameMatches).
		Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("%w: search items: %v", apperrors.ErrStoreUnavailable, err)
	}
	return recs, nil
}

// escapeLike neutralizes LIKE metacharacters so user text only ever
// matches literally.
func escapeLike(text string) string {
	return likeEscaper.Replace(text)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (c *gormCatalog) GetAll(ctx context.Context) ([]*ItemRecord, error) {
	var recs []*ItemRecord
	if err := c.db.WithContext(ctx).Order("id ASC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("%w: list items: %v", apperrors.ErrStoreUnavailable, err)
	}
	return recs, nil
}
