package mongo

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/VitaminP8/blogql/internal/storage"
	"github.com/VitaminP8/blogql/models"
)

type PostMongoStorage struct {
	coll *mongo.Collection
}

func NewPostMongoStorage(coll *mongo.Collection) *PostMongoStorage {
	return &PostMongoStorage{coll: coll}
}

func (s *PostMongoStorage) CreatePost(ctx context.Context, fields models.PostFields) (*models.Post, error) {
	err := storage.Validate("post", &models.Post{Title: fields.Title, Content: fields.Content, UserID: fields.UserID})
	if err != nil {
		return nil, err
	}
	userID, err := parseRef(fields.UserID)
	if err != nil {
		return nil, err
	}

	ts := now()
	doc := &postDoc{
		ID:        bson.NewObjectID(),
		Title:     fields.Title,
		Content:   fields.Content,
		UserID:    userID,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	_, err = s.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, errors.Wrap(err, "could not create post")
	}
	return doc.toModel(), nil
}

func (s *PostMongoStorage) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.findByID(ctx, oid)
}

func (s *PostMongoStorage) findByID(ctx context.Context, oid bson.ObjectID) (*models.Post, error) {
	var doc postDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		return nil, lookupErr(err, "could not get post by id")
	}
	return doc.toModel(), nil
}

func (s *PostMongoStorage) GetAllPosts(ctx context.Context) ([]*models.Post, error) {
	return s.find(ctx, bson.M{})
}

func (s *PostMongoStorage) GetPostsByUser(ctx context.Context, userID string) ([]*models.Post, error) {
	oid, err := parseID(userID)
	if err != nil {
		return []*models.Post{}, nil
	}
	return s.find(ctx, bson.M{"userid": oid})
}

func (s *PostMongoStorage) find(ctx context.Context, filter bson.M) ([]*models.Post, error) {
	cur, err := s.coll.Find(ctx, filter, byID())
	if err != nil {
		return nil, errors.Wrap(err, "could not get posts")
	}

	var docs []postDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "could not decode posts")
	}

	posts := make([]*models.Post, 0, len(docs))
	for i := range docs {
		posts = append(posts, docs[i].toModel())
	}
	return posts, nil
}

func (s *PostMongoStorage) UpdatePost(ctx context.Context, id string, fields models.PostFields) (*models.Post, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	current, err := s.findByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	next := *current
	next.Title = fields.Title
	next.Content = fields.Content
	set := bson.M{
		"title":     fields.Title,
		"content":   fields.Content,
		"updatedAt": now(),
	}
	if fields.ApplyUserID {
		next.UserID = fields.UserID
	}
	if err := storage.Validate("post", &next); err != nil {
		return nil, err
	}
	if fields.ApplyUserID {
		userID, err := parseRef(fields.UserID)
		if err != nil {
			return nil, err
		}
		set["userid"] = userID
	}

	var doc postDoc
	err = s.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, afterUpdate()).Decode(&doc)
	if err != nil {
		return nil, lookupErr(err, "could not update post")
	}
	return doc.toModel(), nil
}

func (s *PostMongoStorage) DeletePostByID(ctx context.Context, id string) (*models.Post, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc postDoc
	err = s.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		return nil, lookupErr(err, "could not delete post")
	}
	return doc.toModel(), nil
}
