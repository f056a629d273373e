//go:build integration
// +build integration

package mongo

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/VitaminP8/blogql/internal/storage"
	"github.com/VitaminP8/blogql/internal/storage/storagetest"
)

// startMongoContainer starts a MongoDB container and returns its connection URI
func startMongoContainer(t *testing.T, ctx context.Context) (testcontainers.Container, string) {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForLog("Waiting for connections"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "27017")
	require.NoError(t, err)

	return container, fmt.Sprintf("mongodb://%s:%s", host, port.Port())
}

func TestIntegration_MongoStore(t *testing.T) {
	ctx := context.Background()
	container, uri := startMongoContainer(t, ctx)
	defer container.Terminate(ctx)

	n := 0
	suite.Run(t, &storagetest.StoreSuite{
		NewStore: func(t *testing.T) *storage.Store {
			client, err := Connect(ctx, uri)
			require.NoError(t, err)
			n++
			return New(client, fmt.Sprintf("blog_test_%d", n))
		},
		MissingID: bson.NewObjectID().Hex(),
	})
}
