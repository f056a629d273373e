package memory

import (
	"time"

	"github.com/google/uuid"

	"github.com/VitaminP8/blogql/internal/storage"
)

// New returns a Store backed by process memory. Data is lost on exit.
func New() *storage.Store {
	users := NewUserMemoryStorage()
	posts := NewPostMemoryStorage()
	comments := NewCommentMemoryStorage()
	return storage.NewStore(users, posts, comments, nil)
}

func newID() string {
	return uuid.NewString()
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return storage.ErrInvalidID
	}
	return nil
}

// checkRef accepts an empty reference or a well formed id.
func checkRef(id string) error {
	if id == "" {
		return nil
	}
	return checkID(id)
}

func now() time.Time {
	return time.Now().UTC()
}

// removeID drops id from the insertion order slice.
func removeID(order []string, id string) []string {
	for i, v := range order {
		if v == id {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}
