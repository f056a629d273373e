package postgres

import (
	"context"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"

	"github.com/VitaminP8/blogql/internal/storage"
	"github.com/VitaminP8/blogql/models"
)

type CommentPostgresStorage struct {
	db *gorm.DB
}

func NewCommentPostgresStorage(db *gorm.DB) *CommentPostgresStorage {
	return &CommentPostgresStorage{db: db}
}

func (s *CommentPostgresStorage) CreateComment(ctx context.Context, content, userID, postID string) (*models.Comment, error) {
	err := storage.Validate("comment", &models.Comment{Content: content, UserID: userID, PostID: postID})
	if err != nil {
		return nil, err
	}

	row := &commentRow{Content: content}
	if row.UserID, err = parseRef(userID); err != nil {
		return nil, err
	}
	if row.PostID, err = parseRef(postID); err != nil {
		return nil, err
	}

	err = s.db.Create(row).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not create comment")
	}
	return row.toModel(), nil
}

func (s *CommentPostgresStorage) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	row, err := s.first(id)
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (s *CommentPostgresStorage) first(id string) (*commentRow, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var row commentRow
	err = s.db.First(&row, n).Error
	if err != nil {
		return nil, lookupErr(err, "could not get comment by id")
	}
	return &row, nil
}

func (s *CommentPostgresStorage) GetAllComments(ctx context.Context) ([]*models.Comment, error) {
	return s.find(s.db)
}

func (s *CommentPostgresStorage) GetCommentsByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	ref, err := parseRef(postID)
	if err != nil || ref == nil {
		return []*models.Comment{}, nil
	}
	return s.find(s.db.Where("post_id = ?", *ref))
}

func (s *CommentPostgresStorage) find(q *gorm.DB) ([]*models.Comment, error) {
	var rows []commentRow
	err := q.Order("id").Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not get comments")
	}

	comments := make([]*models.Comment, 0, len(rows))
	for i := range rows {
		comments = append(comments, rows[i].toModel())
	}
	return comments, nil
}

func (s *CommentPostgresStorage) DeleteCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	row, err := s.first(id)
	if err != nil {
		return nil, err
	}

	err = s.db.Delete(row).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not delete comment")
	}
	return row.toModel(), nil
}
