package badgerdb

import (
	"context"
	"encoding/json"
	"slices"

	"github.com/dgraph-io/badger/v4"

	"github.com/VitaminP8/blogql/internal/storage"
	"github.com/VitaminP8/blogql/models"
)

type CommentBadgerStorage struct {
	comments collection
}

func NewCommentBadgerStorage(db *badger.DB) *CommentBadgerStorage {
	return &CommentBadgerStorage{comments: newCollection(db, "comments")}
}

func (s *CommentBadgerStorage) CreateComment(ctx context.Context, content, userID, postID string) (*models.Comment, error) {
	ts := now()
	c := &models.Comment{
		ID:        newID(),
		Content:   content,
		UserID:    userID,
		PostID:    postID,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if err := storage.Validate("comment", c); err != nil {
		return nil, err
	}
	if err := checkRef(userID); err != nil {
		return nil, err
	}
	if err := checkRef(postID); err != nil {
		return nil, err
	}

	err := s.comments.update(ctx, func(txn *badger.Txn) error {
		return s.comments.put(txn, c.ID, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CommentBadgerStorage) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	var c models.Comment
	err := s.comments.db.View(func(txn *badger.Txn) error {
		return s.comments.get(txn, id, &c)
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CommentBadgerStorage) GetAllComments(ctx context.Context) ([]*models.Comment, error) {
	return s.collect(func(*models.Comment) bool { return true })
}

func (s *CommentBadgerStorage) GetCommentsByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	return s.collect(func(c *models.Comment) bool { return c.PostID == postID })
}

func (s *CommentBadgerStorage) collect(match func(*models.Comment) bool) ([]*models.Comment, error) {
	comments := make([]*models.Comment, 0)
	err := s.comments.db.View(func(txn *badger.Txn) error {
		return s.comments.scan(txn, func(val []byte) error {
			var c models.Comment
			if err := json.Unmarshal(val, &c); err != nil {
				return err
			}
			if match(&c) {
				comments = append(comments, &c)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	// ksuid keys only order by second; creation time breaks the ties.
	slices.SortStableFunc(comments, func(a, b *models.Comment) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return comments, nil
}

func (s *CommentBadgerStorage) DeleteCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	var c models.Comment
	err := s.comments.update(ctx, func(txn *badger.Txn) error {
		if err := s.comments.get(txn, id, &c); err != nil {
			return err
		}
		return s.comments.delete(txn, id)
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}
