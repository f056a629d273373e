package mongo

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/VitaminP8/blogql/internal/storage"
	"github.com/VitaminP8/blogql/models"
)

type CommentMongoStorage struct {
	coll *mongo.Collection
}

func NewCommentMongoStorage(coll *mongo.Collection) *CommentMongoStorage {
	return &CommentMongoStorage{coll: coll}
}

func (s *CommentMongoStorage) CreateComment(ctx context.Context, content, userID, postID string) (*models.Comment, error) {
	err := storage.Validate("comment", &models.Comment{Content: content, UserID: userID, PostID: postID})
	if err != nil {
		return nil, err
	}

	ts := now()
	doc := &commentDoc{
		ID:        bson.NewObjectID(),
		Content:   content,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if doc.UserID, err = parseRef(userID); err != nil {
		return nil, err
	}
	if doc.PostID, err = parseRef(postID); err != nil {
		return nil, err
	}

	_, err = s.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, errors.Wrap(err, "could not create comment")
	}
	return doc.toModel(), nil
}

func (s *CommentMongoStorage) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc commentDoc
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		return nil, lookupErr(err, "could not get comment by id")
	}
	return doc.toModel(), nil
}

func (s *CommentMongoStorage) GetAllComments(ctx context.Context) ([]*models.Comment, error) {
	return s.find(ctx, bson.M{})
}

func (s *CommentMongoStorage) GetCommentsByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	oid, err := parseID(postID)
	if err != nil {
		return []*models.Comment{}, nil
	}
	return s.find(ctx, bson.M{"postid": oid})
}

func (s *CommentMongoStorage) find(ctx context.Context, filter bson.M) ([]*models.Comment, error) {
	cur, err := s.coll.Find(ctx, filter, byID())
	if err != nil {
		return nil, errors.Wrap(err, "could not get comments")
	}

	var docs []commentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "could not decode comments")
	}

	comments := make([]*models.Comment, 0, len(docs))
	for i := range docs {
		comments = append(comments, docs[i].toModel())
	}
	return comments, nil
}

func (s *CommentMongoStorage) DeleteCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc commentDoc
	err = s.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		return nil, lookupErr(err, "could not delete comment")
	}
	return doc.toModel(), nil
}
