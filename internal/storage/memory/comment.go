package memory

import (
	"context"
	"sync"

	"github.com/VitaminP8/blogql/internal/storage"
	"github.com/VitaminP8/blogql/models"
)

type CommentMemoryStorage struct {
	mu       sync.Mutex
	comments map[string]*models.Comment
	order    []string
}

func NewCommentMemoryStorage() *CommentMemoryStorage {
	return &CommentMemoryStorage{
		comments: make(map[string]*models.Comment),
	}
}

// CreateComment stores the comment as given. Neither the post nor the author
// is looked up; references only have to be well formed.
func (s *CommentMemoryStorage) CreateComment(ctx context.Context, content, userID, postID string) (*models.Comment, error) {
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

	s.mu.Lock()
	defer s.mu.Unlock()

	s.comments[c.ID] = c
	s.order = append(s.order, c.ID)

	res := *c
	return &res, nil
}

func (s *CommentMemoryStorage) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	res := *c
	return &res, nil
}

func (s *CommentMemoryStorage) GetAllComments(ctx context.Context) ([]*models.Comment, error) {
	return s.collect(func(*models.Comment) bool { return true }), nil
}

func (s *CommentMemoryStorage) GetCommentsByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	return s.collect(func(c *models.Comment) bool { return c.PostID == postID }), nil
}

func (s *CommentMemoryStorage) collect(match func(*models.Comment) bool) []*models.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()

	comments := make([]*models.Comment, 0)
	for _, id := range s.order {
		c := s.comments[id]
		if !match(c) {
			continue
		}
		res := *c
		comments = append(comments, &res)
	}
	return comments
}

func (s *CommentMemoryStorage) DeleteCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	delete(s.comments, id)
	s.order = removeID(s.order, id)
	return c, nil
}
