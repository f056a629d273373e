package badgerdb

import (
	"context"
	"encoding/json"
	"slices"

	"github.com/dgraph-io/badger/v4"

	"github.com/VitaminP8/blogql/internal/storage"
	"github.com/VitaminP8/blogql/models"
)

type PostBadgerStorage struct {
	posts collection
}

func NewPostBadgerStorage(db *badger.DB) *PostBadgerStorage {
	return &PostBadgerStorage{posts: newCollection(db, "posts")}
}

func (s *PostBadgerStorage) CreatePost(ctx context.Context, fields models.PostFields) (*models.Post, error) {
	ts := now()
	p := &models.Post{
		ID:        newID(),
		Title:     fields.Title,
		Content:   fields.Content,
		UserID:    fields.UserID,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if err := storage.Validate("post", p); err != nil {
		return nil, err
	}
	if err := checkRef(p.UserID); err != nil {
		return nil, err
	}

	err := s.posts.update(ctx, func(txn *badger.Txn) error {
		return s.posts.put(txn, p.ID, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostBadgerStorage) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	err := s.posts.db.View(func(txn *badger.Txn) error {
		return s.posts.get(txn, id, &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostBadgerStorage) GetAllPosts(ctx context.Context) ([]*models.Post, error) {
	return s.collect(func(*models.Post) bool { return true })
}

func (s *PostBadgerStorage) GetPostsByUser(ctx context.Context, userID string) ([]*models.Post, error) {
	return s.collect(func(p *models.Post) bool { return p.UserID == userID })
}

func (s *PostBadgerStorage) collect(match func(*models.Post) bool) ([]*models.Post, error) {
	posts := make([]*models.Post, 0)
	err := s.posts.db.View(func(txn *badger.Txn) error {
		return s.posts.scan(txn, func(val []byte) error {
			var p models.Post
			if err := json.Unmarshal(val, &p); err != nil {
				return err
			}
			if match(&p) {
				posts = append(posts, &p)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	// ksuid keys only order by second; creation time breaks the ties.
	slices.SortStableFunc(posts, func(a, b *models.Post) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return posts, nil
}

func (s *PostBadgerStorage) UpdatePost(ctx context.Context, id string, fields models.PostFields) (*models.Post, error) {
	var p models.Post
	err := s.posts.update(ctx, func(txn *badger.Txn) error {
		if err := s.posts.get(txn, id, &p); err != nil {
			return err
		}
		p.Title = fields.Title
		p.Content = fields.Content
		if fields.ApplyUserID {
			p.UserID = fields.UserID
		}
		p.UpdatedAt = now()
		if err := storage.Validate("post", &p); err != nil {
			return err
		}
		if err := checkRef(p.UserID); err != nil {
			return err
		}
		return s.posts.put(txn, id, &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostBadgerStorage) DeletePostByID(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	err := s.posts.update(ctx, func(txn *badger.Txn) error {
		if err := s.posts.get(txn, id, &p); err != nil {
			return err
		}
		return s.posts.delete(txn, id)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}
