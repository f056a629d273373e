package memory

import (
	"context"
	"sync"

	"github.com/VitaminP8/blogql/internal/storage"
	"github.com/VitaminP8/blogql/internal/user"
	"github.com/VitaminP8/blogql/models"
)

type UserMemoryStorage struct {
	mu    sync.Mutex
	users map[string]*models.User
	order []string
}

func NewUserMemoryStorage() *UserMemoryStorage {
	return &UserMemoryStorage{
		users: make(map[string]*models.User),
	}
}

func (s *UserMemoryStorage) CreateUser(ctx context.Context, fields models.UserFields) (*models.User, error) {
	ts := now()
	u := &models.User{
		ID:        newID(),
		Name:      fields.Name,
		Email:     fields.Email,
		Password:  fields.Password,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if err := storage.Validate("user", u); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[u.ID] = u
	s.order = append(s.order, u.ID)

	res := *u
	return &res, nil
}

func (s *UserMemoryStorage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	res := *u
	return &res, nil
}

func (s *UserMemoryStorage) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]*models.User, 0, len(s.order))
	for _, id := range s.order {
		u := *s.users[id]
		users = append(users, &u)
	}
	return users, nil
}

func (s *UserMemoryStorage) FindUser(ctx context.Context, filter user.Filter) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.order {
		u := s.users[id]
		if filter.Email != "" && u.Email != filter.Email {
			continue
		}
		res := *u
		return &res, nil
	}
	return nil, storage.ErrNotFound
}

func (s *UserMemoryStorage) UpdateUser(ctx context.Context, id string, fields models.UserFields) (*models.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	next := *u
	next.Name = fields.Name
	next.Email = fields.Email
	next.Password = fields.Password
	next.UpdatedAt = now()
	if err := storage.Validate("user", &next); err != nil {
		return nil, err
	}

	s.users[id] = &next
	res := next
	return &res, nil
}

func (s *UserMemoryStorage) DeleteUserByID(ctx context.Context, id string) (*models.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	delete(s.users, id)
	s.order = removeID(s.order, id)
	return u, nil
}
