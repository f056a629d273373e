package memory

import (
	"context"
	"sync"

	"github.com/VitaminP8/blogql/internal/storage"
	"github.com/VitaminP8/blogql/models"
)

type PostMemoryStorage struct {
	mu    sync.Mutex
	posts map[string]*models.Post
	order []string
}

func NewPostMemoryStorage() *PostMemoryStorage {
	return &PostMemoryStorage{
		posts: make(map[string]*models.Post),
	}
}

func (s *PostMemoryStorage) CreatePost(ctx context.Context, fields models.PostFields) (*models.Post, error) {
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

	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts[p.ID] = p
	s.order = append(s.order, p.ID)

	res := *p
	return &res, nil
}

func (s *PostMemoryStorage) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	res := *p
	return &res, nil
}

func (s *PostMemoryStorage) GetAllPosts(ctx context.Context) ([]*models.Post, error) {
	return s.collect(func(*models.Post) bool { return true }), nil
}

func (s *PostMemoryStorage) GetPostsByUser(ctx context.Context, userID string) ([]*models.Post, error) {
	return s.collect(func(p *models.Post) bool { return p.UserID == userID }), nil
}

func (s *PostMemoryStorage) collect(match func(*models.Post) bool) []*models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts := make([]*models.Post, 0)
	for _, id := range s.order {
		p := s.posts[id]
		if !match(p) {
			continue
		}
		res := *p
		posts = append(posts, &res)
	}
	return posts
}

func (s *PostMemoryStorage) UpdatePost(ctx context.Context, id string, fields models.PostFields) (*models.Post, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	next := *p
	next.Title = fields.Title
	next.Content = fields.Content
	if fields.ApplyUserID {
		next.UserID = fields.UserID
	}
	next.UpdatedAt = now()
	if err := storage.Validate("post", &next); err != nil {
		return nil, err
	}
	if err := checkRef(next.UserID); err != nil {
		return nil, err
	}

	s.posts[id] = &next
	res := next
	return &res, nil
}

func (s *PostMemoryStorage) DeletePostByID(ctx context.Context, id string) (*models.Post, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	delete(s.posts, id)
	s.order = removeID(s.order, id)
	return p, nil
}
