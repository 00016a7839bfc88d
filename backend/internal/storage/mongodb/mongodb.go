package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/teamdash/teamdash/shared/config"
	"github.com/teamdash/teamdash/shared/domain"
	internal_errors "github.com/teamdash/teamdash/shared/errors"
	"github.com/teamdash/teamdash/shared/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names are shared with the documents written by older tooling.
const (
	companiesCollection   = "companies"
	devCollection         = "company_dev"
	incidentsCollection   = "incident_logs"
	membersCollection     = "member"
	adminsCollection      = "admins"
	accountKeysCollection = "account_keys"
	postsCollection       = "board"
	commentsCollection    = "comment"
	globalIndexCollection = "global_security_index"
)

// liveFilter matches documents that were never soft deleted.
var liveFilter = bson.E{Key: "deleted", Value: bson.M{"$ne": true}}

type Storage struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
}

// New connects to MongoDB, verifies the connection and prepares indexes.
func New(ctx context.Context, cfg *config.Config) (*Storage, error) {
	logger.Log.Info("connecting to mongodb", "database", cfg.Public.Mongo.Database)
	client, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s := NewWithClient(client, cfg.Public.Mongo.Database, cfg.Public.Mongo.QueryTimeoutOrDefault())
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	if err := s.SyncAccountKeys(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	logger.Log.Info("successfully connected to mongodb")
	return s, nil
}

func Connect(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.Private.MongoURI).
		SetConnectTimeout(cfg.Public.Mongo.ConnectTimeoutOrDefault()).
		SetServerSelectionTimeout(cfg.Public.Mongo.ConnectTimeoutOrDefault())
	if cfg.Public.Mongo.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.Public.Mongo.MaxPoolSize)
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Public.Mongo.ConnectTimeoutOrDefault())
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongodb client: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return client, nil
}

// NewWithClient wraps an already connected client.
func NewWithClient(client *mongo.Client, database string, timeout time.Duration) *Storage {
	return &Storage{client: client, db: client.Database(database), timeout: timeout}
}

func (s *Storage) Cleanup() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Ping reports whether the primary is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Storage) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

func (s *Storage) coll(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func recordCollection(kind domain.RecordKind) string {
	switch kind {
	case domain.KindBiz:
		return companiesCollection
	case domain.KindDev:
		return devCollection
	case domain.KindSecurity:
		return incidentsCollection
	}
	panic(fmt.Sprintf("no collection for %v", kind))
}

func accountCollection(t domain.AccountType) string {
	if t == domain.AccountAdmin {
		return adminsCollection
	}
	return membersCollection
}

// findOne decodes one document or returns a NotFound error carrying what.
func findOne(ctx context.Context, c *mongo.Collection, filter any, out any, what string) error {
	err := c.FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return internal_errors.NotFound(what + " not found")
	}
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", c.Name(), err)
	}
	return nil
}

func findAll[T any](ctx context.Context, c *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cur, err := c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", c.Name(), err)
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", c.Name(), err)
	}
	return out, nil
}
