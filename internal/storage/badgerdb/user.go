package badgerdb

import (
	"context"
	"encoding/json"
	"slices"

	"github.com/dgraph-io/badger/v4"

	"github.com/VitaminP8/blogql/internal/storage"
	"github.com/VitaminP8/blogql/internal/user"
	"github.com/VitaminP8/blogql/models"
)

type UserBadgerStorage struct {
	users collection
}

func NewUserBadgerStorage(db *badger.DB) *UserBadgerStorage {
	return &UserBadgerStorage{users: newCollection(db, "users")}
}

func (s *UserBadgerStorage) CreateUser(ctx context.Context, fields models.UserFields) (*models.User, error) {
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

	err := s.users.update(ctx, func(txn *badger.Txn) error {
		return s.users.put(txn, u.ID, u)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserBadgerStorage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := s.users.db.View(func(txn *badger.Txn) error {
		return s.users.get(txn, id, &u)
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserBadgerStorage) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	return s.collect(func(*models.User) bool { return true })
}

func (s *UserBadgerStorage) FindUser(ctx context.Context, filter user.Filter) (*models.User, error) {
	users, err := s.collect(func(u *models.User) bool {
		return filter.Email == "" || u.Email == filter.Email
	})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, storage.ErrNotFound
	}
	return users[0], nil
}

func (s *UserBadgerStorage) collect(match func(*models.User) bool) ([]*models.User, error) {
	users := make([]*models.User, 0)
	err := s.users.db.View(func(txn *badger.Txn) error {
		return s.users.scan(txn, func(val []byte) error {
			var u models.User
			if err := json.Unmarshal(val, &u); err != nil {
				return err
			}
			if match(&u) {
				users = append(users, &u)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	// ksuid keys only order by second; creation time breaks the ties.
	slices.SortStableFunc(users, func(a, b *models.User) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return users, nil
}

func (s *UserBadgerStorage) UpdateUser(ctx context.Context, id string, fields models.UserFields) (*models.User, error) {
	var u models.User
	err := s.users.update(ctx, func(txn *badger.Txn) error {
		if err := s.users.get(txn, id, &u); err != nil {
			return err
		}
		u.Name = fields.Name
		u.Email = fields.Email
		u.Password = fields.Password
		u.UpdatedAt = now()
		if err := storage.Validate("user", &u); err != nil {
			return err
		}
		return s.users.put(txn, id, &u)
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserBadgerStorage) DeleteUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := s.users.update(ctx, func(txn *badger.Txn) error {
		if err := s.users.get(txn, id, &u); err != nil {
			return err
		}
		return s.users.delete(txn, id)
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}
