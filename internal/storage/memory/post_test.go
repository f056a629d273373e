package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VitaminP8/blogql/models"
)

func TestPostMemoryStorage_ConcurrentCreate(t *testing.T) {
	storage := NewPostMemoryStorage()
	ctx := context.Background()
	userID := uuid.NewString()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := storage.CreatePost(ctx, models.PostFields{
				Title:  fmt.Sprintf("post %d", i),
				UserID: userID,
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	posts, err := storage.GetAllPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 50)

	byUser, err := storage.GetPostsByUser(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, byUser, 50)
}

func TestPostMemoryStorage_ReturnsCopies(t *testing.T) {
	storage := NewPostMemoryStorage()
	ctx := context.Background()

	post, err := storage.CreatePost(ctx, models.PostFields{Title: "Original", UserID: uuid.NewString()})
	require.NoError(t, err)

	post.Title = "Mutated"

	stored, err := storage.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", stored.Title)
}

func TestPostMemoryStorage_InsertionOrder(t *testing.T) {
	storage := NewPostMemoryStorage()
	ctx := context.Background()
	userID := uuid.NewString()

	var ids []string
	for i := 0; i < 5; i++ {
		p, err := storage.CreatePost(ctx, models.PostFields{Title: fmt.Sprintf("post %d", i), UserID: userID})
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	_, err := storage.DeletePostByID(ctx, ids[2])
	require.NoError(t, err)

	posts, err := storage.GetAllPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 4)
	for i, want := range []string{ids[0], ids[1], ids[3], ids[4]} {
		assert.Equal(t, want, posts[i].ID)
	}
}
