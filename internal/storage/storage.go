// Package storage holds what every backend shares: the error values resolvers
// rely on, record validation and the Store bundle injected into the resolvers.
package storage

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/VitaminP8/blogql/internal/comment"
	"github.com/VitaminP8/blogql/internal/post"
	"github.com/VitaminP8/blogql/internal/user"
)

var (
	// ErrNotFound is returned by lookups that match no record.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidID is returned when an id cannot be parsed by the backend.
	ErrInvalidID = errors.New("invalid id")
)

// ValidationError reports the first field that failed the record schema.
type ValidationError struct {
	Record string
	Field  string
	Rule   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s validation failed: %s is %s", e.Record, e.Field, e.Rule)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks record against its struct tags. record names the collection
// in the error message.
func Validate(record string, v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return &ValidationError{
			Record: record,
			Field:  fieldErrs[0].Field(),
			Rule:   fieldErrs[0].Tag(),
		}
	}
	return errors.Wrapf(err, "validate %s", record)
}

// IsNotFound reports whether err is, or wraps, ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Store bundles one backend's three collections.
type Store struct {
	Users    user.UserStorage
	Posts    post.PostStorage
	Comments comment.CommentStorage

	close func() error
}

// NewStore bundles the collections. close may be nil when the backend holds no
// resources.
func NewStore(users user.UserStorage, posts post.PostStorage, comments comment.CommentStorage, close func() error) *Store {
	return &Store{
		Users:    users,
		Posts:    posts,
		Comments: comments,
		close:    close,
	}
}

// Close releases the backend connection.
func (s *Store) Close() error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close()
}
