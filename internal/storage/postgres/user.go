package postgres

import (
	"context"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"

	"github.com/VitaminP8/blogql/internal/storage"
	"github.com/VitaminP8/blogql/internal/user"
	"github.com/VitaminP8/blogql/models"
)

type UserPostgresStorage struct {
	db *gorm.DB
}

func NewUserPostgresStorage(db *gorm.DB) *UserPostgresStorage {
	return &UserPostgresStorage{db: db}
}

func (s *UserPostgresStorage) CreateUser(ctx context.Context, fields models.UserFields) (*models.User, error) {
	err := storage.Validate("user", &models.User{Name: fields.Name, Email: fields.Email, Password: fields.Password})
	if err != nil {
		return nil, err
	}

	row := &userRow{
		Name:     fields.Name,
		Email:    fields.Email,
		Password: fields.Password,
	}
	err = s.db.Create(row).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to create user")
	}
	return row.toModel(), nil
}

func (s *UserPostgresStorage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	row, err := s.first(id)
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (s *UserPostgresStorage) first(id string) (*userRow, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var row userRow
	err = s.db.First(&row, n).Error
	if err != nil {
		return nil, lookupErr(err, "could not get user by id")
	}
	return &row, nil
}

func (s *UserPostgresStorage) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	var rows []userRow
	err := s.db.Order("id").Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not get users")
	}

	users := make([]*models.User, 0, len(rows))
	for i := range rows {
		users = append(users, rows[i].toModel())
	}
	return users, nil
}

func (s *UserPostgresStorage) FindUser(ctx context.Context, filter user.Filter) (*models.User, error) {
	q := s.db.Order("id")
	if filter.Email != "" {
		q = q.Where("email = ?", filter.Email)
	}

	var row userRow
	err := q.First(&row).Error
	if err != nil {
		return nil, lookupErr(err, "could not find user")
	}
	return row.toModel(), nil
}

func (s *UserPostgresStorage) UpdateUser(ctx context.Context, id string, fields models.UserFields) (*models.User, error) {
	row, err := s.first(id)
	if err != nil {
		return nil, err
	}

	err = storage.Validate("user", &models.User{Name: fields.Name, Email: fields.Email, Password: fields.Password})
	if err != nil {
		return nil, err
	}

	err = s.db.Model(row).Updates(map[string]interface{}{
		"name":     fields.Name,
		"email":    fields.Email,
		"password": fields.Password,
	}).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not update user")
	}
	return s.GetUserByID(ctx, id)
}

func (s *UserPostgresStorage) DeleteUserByID(ctx context.Context, id string) (*models.User, error) {
	row, err := s.first(id)
	if err != nil {
		return nil, err
	}

	err = s.db.Delete(row).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not delete user")
	}
	return row.toModel(), nil
}
