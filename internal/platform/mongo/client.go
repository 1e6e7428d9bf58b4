package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.mongodb.org/mongo-driver/v2/x/mongo/driver/connstring"

	"storefront/internal/platform/config"
	"storefront/pkg/platform/sentinel"
)

// Client wraps the mongo driver client with the database this service uses.
type Client struct {
	*mongo.Client
	db *mongo.Database
}

// New builds a client from the store configuration. The driver connects
// lazily, so an unreachable server surfaces from Health and from individual
// operations, not from New.
func New(cfg config.StoreConfig) (*Client, error) {
	cs, err := connstring.ParseAndValidate(cfg.MongoURI)
	if err != nil {
		return nil, fmt.Errorf("parse mongo URI: %w", err)
	}

	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	dbName := cs.Database
	if dbName == "" {
		dbName = cfg.MongoDatabase
	}

	return &Client{Client: client, db: client.Database(dbName)}, nil
}

// Database returns the service database handle.
func (c *Client) Database() *mongo.Database {
	return c.db
}

// Health checks that the primary is reachable.
func (c *Client) Health(ctx context.Context) error {
	if err := c.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping mongo: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

// Close disconnects from the cluster.
func (c *Client) Close(ctx context.Context) error {
	return c.Disconnect(ctx)
}
