package mongodb

import (
	"context"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	setupOnce sync.Once
	setupErr  error
	container *mongodb.MongoDBContainer
	client    *mongo.Client
)

func TestMain(m *testing.M) {
	exitCode := m.Run()
	teardown(context.Background())
	os.Exit(exitCode)
}

func setup(ctx context.Context) {
	container, setupErr = mongodb.Run(ctx, "mongo:7")
	if setupErr != nil {
		return
	}
	uri, err := container.ConnectionString(ctx)
	if err != nil {
		setupErr = err
		return
	}
	client, setupErr = mongo.Connect(ctx, options.Client().ApplyURI(uri))
}

func teardown(ctx context.Context) {
	if client != nil {
		if err := client.Disconnect(ctx); err != nil {
			log.Printf("failed to disconnect mongodb client: %s", err)
		}
	}
	if container != nil {
		if err := container.Terminate(ctx); err != nil {
			log.Printf("failed to terminate container: %s", err)
		}
	}
}

// newTestStorage returns storage bound to a fresh database on the shared container.
func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)
	setupOnce.Do(func() { setup(context.Background()) })
	require.NoError(t, setupErr, "failed to start mongodb container")

	s := NewWithClient(client, "teamdash_"+uuid.NewString()[:8], 5*time.Second)
	require.NoError(t, s.EnsureIndexes(context.Background()))
	t.Cleanup(func() {
		_ = s.db.Drop(context.Background())
	})
	return s
}
