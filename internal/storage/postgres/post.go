package postgres

import (
	"context"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"

	"github.com/VitaminP8/blogql/internal/storage"
	"github.com/VitaminP8/blogql/models"
)

type PostPostgresStorage struct {
	db *gorm.DB
}

func NewPostPostgresStorage(db *gorm.DB) *PostPostgresStorage {
	return &PostPostgresStorage{db: db}
}

func (s *PostPostgresStorage) CreatePost(ctx context.Context, fields models.PostFields) (*models.Post, error) {
	err := storage.Validate("post", &models.Post{Title: fields.Title, Content: fields.Content, UserID: fields.UserID})
	if err != nil {
		return nil, err
	}
	userID, err := parseRef(fields.UserID)
	if err != nil {
		return nil, err
	}

	row := &postRow{
		Title:   fields.Title,
		Content: fields.Content,
		UserID:  userID,
	}
	err = s.db.Create(row).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not create post")
	}
	return row.toModel(), nil
}

func (s *PostPostgresStorage) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	row, err := s.first(id)
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (s *PostPostgresStorage) first(id string) (*postRow, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var row postRow
	err = s.db.First(&row, n).Error
	if err != nil {
		return nil, lookupErr(err, "could not get post by id")
	}
	return &row, nil
}

func (s *PostPostgresStorage) GetAllPosts(ctx context.Context) ([]*models.Post, error) {
	return s.find(s.db)
}

func (s *PostPostgresStorage) GetPostsByUser(ctx context.Context, userID string) ([]*models.Post, error) {
	ref, err := parseRef(userID)
	if err != nil || ref == nil {
		// an unparsable reference cannot match any stored row
		return []*models.Post{}, nil
	}
	return s.find(s.db.Where("user_id = ?", *ref))
}

func (s *PostPostgresStorage) find(q *gorm.DB) ([]*models.Post, error) {
	var rows []postRow
	err := q.Order("id").Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not get posts")
	}

	posts := make([]*models.Post, 0, len(rows))
	for i := range rows {
		posts = append(posts, rows[i].toModel())
	}
	return posts, nil
}

func (s *PostPostgresStorage) UpdatePost(ctx context.Context, id string, fields models.PostFields) (*models.Post, error) {
	row, err := s.first(id)
	if err != nil {
		return nil, err
	}

	next := row.toModel()
	next.Title = fields.Title
	next.Content = fields.Content
	if fields.ApplyUserID {
		next.UserID = fields.UserID
	}
	if err := storage.Validate("post", next); err != nil {
		return nil, err
	}

	attrs := map[string]interface{}{
		"title":   fields.Title,
		"content": fields.Content,
	}
	if fields.ApplyUserID {
		userID, err := parseRef(fields.UserID)
		if err != nil {
			return nil, err
		}
		attrs["user_id"] = userID
	}

	err = s.db.Model(row).Updates(attrs).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not update post")
	}
	return s.GetPostByID(ctx, id)
}

func (s *PostPostgresStorage) DeletePostByID(ctx context.Context, id string) (*models.Post, error) {
	row, err := s.first(id)
	if err != nil {
		return nil, err
	}

	err = s.db.Delete(row).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not delete post")
	}
	return row.toModel(), nil
}
