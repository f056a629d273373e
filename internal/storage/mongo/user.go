package mongo

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/VitaminP8/blogql/internal/storage"
	"github.com/VitaminP8/blogql/internal/user"
	"github.com/VitaminP8/blogql/models"
)

type UserMongoStorage struct {
	coll *mongo.Collection
}

func NewUserMongoStorage(coll *mongo.Collection) *UserMongoStorage {
	return &UserMongoStorage{coll: coll}
}

func (s *UserMongoStorage) CreateUser(ctx context.Context, fields models.UserFields) (*models.User, error) {
	ts := now()
	doc := &userDoc{
		ID:        bson.NewObjectID(),
		Name:      fields.Name,
		Email:     fields.Email,
		Password:  fields.Password,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	u := doc.toModel()
	if err := storage.Validate("user", u); err != nil {
		return nil, err
	}

	_, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create user")
	}
	return u, nil
}

func (s *UserMongoStorage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc userDoc
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		return nil, lookupErr(err, "could not get user by id")
	}
	return doc.toModel(), nil
}

func (s *UserMongoStorage) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	cur, err := s.coll.Find(ctx, bson.M{}, byID())
	if err != nil {
		return nil, errors.Wrap(err, "could not get users")
	}

	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "could not decode users")
	}

	users := make([]*models.User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].toModel())
	}
	return users, nil
}

func (s *UserMongoStorage) FindUser(ctx context.Context, filter user.Filter) (*models.User, error) {
	query := bson.M{}
	if filter.Email != "" {
		query["email"] = filter.Email
	}

	var doc userDoc
	err := s.coll.FindOne(ctx, query, options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})).Decode(&doc)
	if err != nil {
		return nil, lookupErr(err, "could not find user")
	}
	return doc.toModel(), nil
}

func (s *UserMongoStorage) UpdateUser(ctx context.Context, id string, fields models.UserFields) (*models.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	err = storage.Validate("user", &models.User{Name: fields.Name, Email: fields.Email, Password: fields.Password})
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{
		"name":      fields.Name,
		"email":     fields.Email,
		"password":  fields.Password,
		"updatedAt": now(),
	}}

	var doc userDoc
	err = s.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, afterUpdate()).Decode(&doc)
	if err != nil {
		return nil, lookupErr(err, "could not update user")
	}
	return doc.toModel(), nil
}

func (s *UserMongoStorage) DeleteUserByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc userDoc
	err = s.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		return nil, lookupErr(err, "could not delete user")
	}
	return doc.toModel(), nil
}
