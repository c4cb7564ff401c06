package neo4jdb

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/dramlab/tastegraph/internal/platform/envutil"
	"github.com/dramlab/tastegraph/internal/platform/logger"
)

// Client owns the Neo4j driver handle. Constructed once at process start
// and passed into the graph store adapter.
type Client struct {
	Driver   neo4j.DriverWithContext
	Database string
	log      *logger.Logger
}

// NewFromEnv builds a client from NEO4J_* environment variables. Returns
// (nil, nil) when NEO4J_URI is unset so callers can fall back to the
// in-memory store.
func NewFromEnv(log *logger.Logger) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("neo4jdb: logger required")
	}

	uri := envutil.GetEnv("NEO4J_URI", "", log)
	if uri == "" {
		return nil, nil
	}

	user := envutil.GetEnv("NEO4J_USER", "neo4j", log)
	password := envutil.GetEnv("NEO4J_PASSWORD", "", log)
	database := envutil.GetEnv("NEO4J_DATABASE", "", log)
	timeoutSec := envutil.GetEnvAsInt("NEO4J_TIMEOUT_SECONDS", 10, log)
	maxPool := envutil.GetEnvAsInt("NEO4J_MAX_POOL_SIZE", 50, log)

	auth := neo4j.BasicAuth(user, password, "")
	driver, err := neo4j.NewDriverWithContext(uri, auth, func(cfg *neo4j.Config) {
		cfg.MaxConnectionPoolSize = maxPool
		cfg.SocketConnectTimeout = time.Duration(timeoutSec) * time.Second
	})
	if err != nil {
		return nil, fmt.Errorf("neo4jdb: init driver: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSec)*time.Second)
	defer cancel()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("neo4jdb: verify connectivity: %w", err)
	}

	return &Client{
		Driver:   driver,
		Database: database,
		log:      log.With("client", "Neo4jDB"),
	}, nil
}

func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.Driver == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := c.Driver.Close(ctx)
	c.Driver = nil
	return err
}
