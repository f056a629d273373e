// Package mongo stores users, posts and comments as MongoDB documents, one
// collection per record type.
package mongo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/VitaminP8/blogql/internal/storage"
)

const (
	usersCollection    = "users"
	postsCollection    = "posts"
	commentsCollection = "comments"
)

// Connect opens a client for uri and checks the server is reachable.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "failed to ping mongodb")
	}
	return client, nil
}

// New returns a Store over database. Closing the store disconnects client.
func New(client *mongo.Client, database string) *storage.Store {
	db := client.Database(database)
	return storage.NewStore(
		NewUserMongoStorage(db.Collection(usersCollection)),
		NewPostMongoStorage(db.Collection(postsCollection)),
		NewCommentMongoStorage(db.Collection(commentsCollection)),
		func() error {
			return client.Disconnect(context.Background())
		},
	)
}

func parseID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.NilObjectID, storage.ErrInvalidID
	}
	return oid, nil
}

// parseRef converts a reference field. An empty reference is left out of the
// document.
func parseRef(id string) (bson.ObjectID, error) {
	if id == "" {
		return bson.NilObjectID, nil
	}
	return parseID(id)
}

func formatRef(id bson.ObjectID) string {
	if id.IsZero() {
		return ""
	}
	return id.Hex()
}

// now is truncated to the precision MongoDB keeps so returned records match
// what a later read decodes.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func byID() *options.FindOptionsBuilder {
	return options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
}

func lookupErr(err error, msg string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return storage.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func afterUpdate() *options.FindOneAndUpdateOptionsBuilder {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}
