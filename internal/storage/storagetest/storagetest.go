// Package storagetest holds the behaviour every storage backend must share.
// Backend packages run StoreSuite from their own tests.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/VitaminP8/blogql/internal/storage"
	"github.com/VitaminP8/blogql/internal/user"
	"github.com/VitaminP8/blogql/models"
)

type StoreSuite struct {
	suite.Suite

	// NewStore returns an empty store. It is called before every test.
	NewStore func(t *testing.T) *storage.Store
	// MissingID is well formed for the backend but never assigned.
	MissingID string

	store *storage.Store
	ctx   context.Context
}

const malformedID = "not-a-valid-id"

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.NewStore(s.T())
}

func (s *StoreSuite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

func (s *StoreSuite) createUser(name, email string) *models.User {
	u, err := s.store.Users.CreateUser(s.ctx, models.UserFields{Name: name, Email: email, Password: "hash-" + name})
	s.Require().NoError(err)
	return u
}

func (s *StoreSuite) createPost(title, userID string) *models.Post {
	p, err := s.store.Posts.CreatePost(s.ctx, models.PostFields{Title: title, Content: title + " body", UserID: userID})
	s.Require().NoError(err)
	return p
}

func (s *StoreSuite) TestCreateAndGetUser() {
	created := s.createUser("alice", "alice@example.com")
	s.NotEmpty(created.ID)
	s.False(created.CreatedAt.IsZero())
	s.Equal(created.CreatedAt.Unix(), created.UpdatedAt.Unix())

	got, err := s.store.Users.GetUserByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created.ID, got.ID)
	s.Equal("alice", got.Name)
	s.Equal("alice@example.com", got.Email)
	s.Equal("hash-alice", got.Password)
}

func (s *StoreSuite) TestGetMissingAndMalformed() {
	_, err := s.store.Users.GetUserByID(s.ctx, s.MissingID)
	s.ErrorIs(err, storage.ErrNotFound)

	_, err = s.store.Posts.GetPostByID(s.ctx, s.MissingID)
	s.ErrorIs(err, storage.ErrNotFound)

	_, err = s.store.Comments.GetCommentByID(s.ctx, s.MissingID)
	s.ErrorIs(err, storage.ErrNotFound)

	_, err = s.store.Users.GetUserByID(s.ctx, malformedID)
	s.ErrorIs(err, storage.ErrInvalidID)

	_, err = s.store.Posts.DeletePostByID(s.ctx, malformedID)
	s.ErrorIs(err, storage.ErrInvalidID)
}

func (s *StoreSuite) TestGetAllUsers() {
	users, err := s.store.Users.GetAllUsers(s.ctx)
	s.Require().NoError(err)
	s.Empty(users)

	a := s.createUser("a", "a@example.com")
	b := s.createUser("b", "b@example.com")

	users, err = s.store.Users.GetAllUsers(s.ctx)
	s.Require().NoError(err)
	s.Len(users, 2)
	s.ElementsMatch([]string{a.ID, b.ID}, []string{users[0].ID, users[1].ID})
}

func (s *StoreSuite) TestFindUser() {
	only := s.createUser("only", "only@example.com")

	found, err := s.store.Users.FindUser(s.ctx, user.Filter{})
	s.Require().NoError(err)
	s.Equal(only.ID, found.ID)

	other := s.createUser("other", "other@example.com")
	found, err = s.store.Users.FindUser(s.ctx, user.Filter{Email: "other@example.com"})
	s.Require().NoError(err)
	s.Equal(other.ID, found.ID)

	_, err = s.store.Users.FindUser(s.ctx, user.Filter{Email: "nobody@example.com"})
	s.ErrorIs(err, storage.ErrNotFound)
}

func (s *StoreSuite) TestUpdateUserOverwritesEveryField() {
	u := s.createUser("bob", "bob@example.com")
	time.Sleep(10 * time.Millisecond)

	updated, err := s.store.Users.UpdateUser(s.ctx, u.ID, models.UserFields{Name: "robert"})
	s.Require().NoError(err)
	s.Equal(u.ID, updated.ID)
	s.Equal("robert", updated.Name)
	s.Empty(updated.Email)
	s.Empty(updated.Password)
	s.True(updated.UpdatedAt.After(u.UpdatedAt))

	got, err := s.store.Users.GetUserByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal("robert", got.Name)
	s.Empty(got.Email)

	_, err = s.store.Users.UpdateUser(s.ctx, s.MissingID, models.UserFields{Name: "x"})
	s.ErrorIs(err, storage.ErrNotFound)
}

func (s *StoreSuite) TestDeleteUserReturnsPriorState() {
	u := s.createUser("carol", "carol@example.com")
	p := s.createPost("kept", u.ID)

	deleted, err := s.store.Users.DeleteUserByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(u.ID, deleted.ID)
	s.Equal("carol", deleted.Name)

	_, err = s.store.Users.GetUserByID(s.ctx, u.ID)
	s.ErrorIs(err, storage.ErrNotFound)

	// no cascade: the post keeps the dangling reference
	got, err := s.store.Posts.GetPostByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(u.ID, got.UserID)

	_, err = s.store.Users.DeleteUserByID(s.ctx, u.ID)
	s.ErrorIs(err, storage.ErrNotFound)
}

func (s *StoreSuite) TestCreatePostRequiresUserID() {
	_, err := s.store.Posts.CreatePost(s.ctx, models.PostFields{Title: "orphan"})
	var verr *storage.ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Equal("post", verr.Record)
	s.Equal("userid", verr.Field)

	posts, err := s.store.Posts.GetAllPosts(s.ctx)
	s.Require().NoError(err)
	s.Empty(posts)
}

func (s *StoreSuite) TestPostsByUser() {
	u1 := s.createUser("u1", "u1@example.com")
	u2 := s.createUser("u2", "u2@example.com")
	p1 := s.createPost("one", u1.ID)
	p2 := s.createPost("two", u1.ID)
	s.createPost("three", u2.ID)

	posts, err := s.store.Posts.GetPostsByUser(s.ctx, u1.ID)
	s.Require().NoError(err)
	s.Len(posts, 2)
	s.ElementsMatch([]string{p1.ID, p2.ID}, []string{posts[0].ID, posts[1].ID})

	all, err := s.store.Posts.GetAllPosts(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 3)

	none, err := s.store.Posts.GetPostsByUser(s.ctx, s.MissingID)
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *StoreSuite) TestUpdatePost() {
	u := s.createUser("author", "author@example.com")
	other := s.createUser("other", "other@example.com")
	p := s.createPost("before", u.ID)

	updated, err := s.store.Posts.UpdatePost(s.ctx, p.ID, models.PostFields{Title: "after", UserID: other.ID})
	s.Require().NoError(err)
	s.Equal("after", updated.Title)
	s.Empty(updated.Content)
	s.Equal(u.ID, updated.UserID)

	updated, err = s.store.Posts.UpdatePost(s.ctx, p.ID, models.PostFields{Title: "moved", UserID: other.ID, ApplyUserID: true})
	s.Require().NoError(err)
	s.Equal(other.ID, updated.UserID)

	_, err = s.store.Posts.UpdatePost(s.ctx, p.ID, models.PostFields{Title: "nobody", ApplyUserID: true})
	var verr *storage.ValidationError
	s.ErrorAs(err, &verr)

	got, err := s.store.Posts.GetPostByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("moved", got.Title)
	s.Equal(other.ID, got.UserID)
}

func (s *StoreSuite) TestDeletePostKeepsComments() {
	u := s.createUser("dave", "dave@example.com")
	p := s.createPost("doomed", u.ID)
	c, err := s.store.Comments.CreateComment(s.ctx, "first", u.ID, p.ID)
	s.Require().NoError(err)

	deleted, err := s.store.Posts.DeletePostByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("doomed", deleted.Title)

	_, err = s.store.Posts.GetPostByID(s.ctx, p.ID)
	s.ErrorIs(err, storage.ErrNotFound)

	got, err := s.store.Comments.GetCommentByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(p.ID, got.PostID)
}

func (s *StoreSuite) TestComments() {
	u := s.createUser("erin", "erin@example.com")
	p1 := s.createPost("p1", u.ID)
	p2 := s.createPost("p2", u.ID)

	c1, err := s.store.Comments.CreateComment(s.ctx, "hello", u.ID, p1.ID)
	s.Require().NoError(err)
	s.Equal("hello", c1.Content)
	s.Equal(u.ID, c1.UserID)
	s.Equal(p1.ID, c1.PostID)

	_, err = s.store.Comments.CreateComment(s.ctx, "other post", u.ID, p2.ID)
	s.Require().NoError(err)

	byPost, err := s.store.Comments.GetCommentsByPost(s.ctx, p1.ID)
	s.Require().NoError(err)
	s.Require().Len(byPost, 1)
	s.Equal(c1.ID, byPost[0].ID)

	all, err := s.store.Comments.GetAllComments(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 2)

	deleted, err := s.store.Comments.DeleteCommentByID(s.ctx, c1.ID)
	s.Require().NoError(err)
	s.Equal("hello", deleted.Content)

	_, err = s.store.Comments.GetCommentByID(s.ctx, c1.ID)
	s.ErrorIs(err, storage.ErrNotFound)
}

func (s *StoreSuite) TestCommentRequiresContent() {
	_, err := s.store.Comments.CreateComment(s.ctx, "", s.MissingID, s.MissingID)
	var verr *storage.ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Equal("comment", verr.Record)
	s.Equal("content", verr.Field)
	s.Equal("required", verr.Rule)
}

func (s *StoreSuite) TestCommentWithDanglingReferences() {
	c, err := s.store.Comments.CreateComment(s.ctx, "nobody home", s.MissingID, s.MissingID)
	s.Require().NoError(err)
	s.Equal(s.MissingID, c.PostID)
}
