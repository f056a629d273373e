package graph

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/gqltesting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/VitaminP8/blogql/internal/auth"
	"github.com/VitaminP8/blogql/internal/storage/memory"
)

func newTestSchema(t *testing.T, compat bool) *graphql.Schema {
	t.Helper()
	r := NewResolver(memory.New(), compat, auth.NewTokens("test_secret_key_for_jwt", time.Hour))
	schema, err := NewSchema(r)
	require.NoError(t, err)
	return schema
}

// run executes query and decodes the data into out.
func run(t *testing.T, schema *graphql.Schema, query string, vars map[string]interface{}, out interface{}) *graphql.Response {
	t.Helper()
	resp := schema.Exec(context.Background(), query, "", vars)
	if out != nil && len(resp.Data) > 0 {
		require.NoError(t, json.Unmarshal(resp.Data, out))
	}
	return resp
}

func TestSchemaSDL_IsValid(t *testing.T) {
	schema := gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphqls", Input: SchemaSDL})

	for _, name := range []string{"User", "Post", "Comment"} {
		require.NotNil(t, schema.Types[name], name)
	}
	assert.NotNil(t, schema.Query.Fields.ForName("me"))
	assert.NotNil(t, schema.Mutation.Fields.ForName("loginToken"))

	post := schema.Types["Post"]
	assert.Equal(t, "User", post.Fields.ForName("user").Type.Name())
	assert.True(t, post.Fields.ForName("comments").Type.NonNull)

	_, errs := gqlparser.LoadQuery(schema, `{ posts { id title user { name } comments { content post { id } } } }`)
	assert.Empty(t, errs)

	_, errs = gqlparser.LoadQuery(schema, `{ posts { author } }`)
	assert.NotEmpty(t, errs)
}

func TestSchema_EmptyCollections(t *testing.T) {
	schema := newTestSchema(t, true)

	gqltesting.RunTests(t, []*gqltesting.Test{
		{
			Schema:         schema,
			Query:          `{ posts { id } users { id } comments { id } }`,
			ExpectedResult: `{"posts": [], "users": [], "comments": []}`,
		},
		{
			Schema:         schema,
			Query:          `{ me { id } }`,
			ExpectedResult: `{"me": null}`,
		},
		{
			Schema:         schema,
			Query:          `{ post(id: "00000000-0000-0000-0000-000000000000") { id } }`,
			ExpectedResult: `{"post": null}`,
		},
	})
}

func TestSchema_MalformedIDIsAnError(t *testing.T) {
	schema := newTestSchema(t, true)

	var data struct {
		Post *struct{ ID string }
	}
	resp := run(t, schema, `{ post(id: "garbage") { id } }`, nil, &data)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, []interface{}{"post"}, resp.Errors[0].Path)
	assert.Nil(t, data.Post)
}

func TestSchema_BlogFlow(t *testing.T) {
	schema := newTestSchema(t, true)

	var created struct {
		AddUser struct {
			ID       string
			Name     string
			Password string
		}
	}
	resp := run(t, schema, `mutation { addUser(name: "ann", email: "ann@example.com", password: "pw") { id name password } }`, nil, &created)
	require.Empty(t, resp.Errors)
	userID := created.AddUser.ID
	assert.Equal(t, "ann", created.AddUser.Name)
	assert.NotEqual(t, "pw", created.AddUser.Password)

	var post struct {
		AddPost struct {
			ID     string
			UserID string `json:"userid"`
			User   struct{ Name string }
		}
	}
	resp = run(t, schema, `mutation($uid: ID) { addPost(title: "Hello", content: "World", userid: $uid) { id userid user { name } } }`,
		map[string]interface{}{"uid": userID}, &post)
	require.Empty(t, resp.Errors)
	postID := post.AddPost.ID
	assert.Equal(t, userID, post.AddPost.UserID)
	assert.Equal(t, "ann", post.AddPost.User.Name)

	var comment struct {
		AddComment struct{ ID string }
	}
	resp = run(t, schema, `mutation($uid: ID, $pid: ID) { addComment(content: "Nice", userid: $uid, postid: $pid) { id } }`,
		map[string]interface{}{"uid": userID, "pid": postID}, &comment)
	require.Empty(t, resp.Errors)

	var byUser struct {
		User struct {
			Posts []struct {
				Title    string
				Comments []struct{ Content string }
			}
		}
	}
	resp = run(t, schema, `query($id: ID!) { user(id: $id) { posts { title comments { content } } } }`,
		map[string]interface{}{"id": userID}, &byUser)
	require.Empty(t, resp.Errors)
	require.Len(t, byUser.User.Posts, 1)
	assert.Equal(t, "Hello", byUser.User.Posts[0].Title)
	require.Len(t, byUser.User.Posts[0].Comments, 1)
	assert.Equal(t, "Nice", byUser.User.Posts[0].Comments[0].Content)

	var edited struct {
		EditPost struct {
			Title   *string
			Content *string
		}
	}
	resp = run(t, schema, `mutation($id: ID!) { editPost(id: $id, title: "X") { title content } }`,
		map[string]interface{}{"id": postID}, &edited)
	require.Empty(t, resp.Errors)
	require.NotNil(t, edited.EditPost.Title)
	assert.Equal(t, "X", *edited.EditPost.Title)
	assert.Nil(t, edited.EditPost.Content)

	resp = run(t, schema, `mutation($id: ID!) { deletePost(id: $id) { id } }`,
		map[string]interface{}{"id": postID}, nil)
	require.Empty(t, resp.Errors)

	var orphan struct {
		Comment struct {
			PostID string `json:"postid"`
			Post   *struct{ ID string }
		}
	}
	resp = run(t, schema, `query($id: ID!) { comment(id: $id) { postid post { id } } }`,
		map[string]interface{}{"id": comment.AddComment.ID}, &orphan)
	require.Empty(t, resp.Errors)
	assert.Equal(t, postID, orphan.Comment.PostID)
	assert.Nil(t, orphan.Comment.Post)
}

func TestSchema_AddPostWithoutUserFails(t *testing.T) {
	schema := newTestSchema(t, true)

	var data struct {
		AddPost *struct{ ID string }
	}
	resp := run(t, schema, `mutation { addPost(title: "no author") { id } }`, nil, &data)
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0].Message, "userid")
	assert.Nil(t, data.AddPost)
}

func TestSchema_LoginModes(t *testing.T) {
	const setup = `mutation {
		first: addUser(name: "first", email: "first@example.com", password: "one") { id }
		second: addUser(name: "second", email: "a@b.com", password: "correct") { id }
	}`
	const login = `mutation { loginUser(email: "a@b.com", password: "correct") { name } }`

	t.Run("Compat", func(t *testing.T) {
		schema := newTestSchema(t, true)
		require.Empty(t, run(t, schema, setup, nil, nil).Errors)

		gqltesting.RunTest(t, &gqltesting.Test{
			Schema:         schema,
			Query:          login,
			ExpectedResult: `{"loginUser": null}`,
		})
	})

	t.Run("Corrected", func(t *testing.T) {
		schema := newTestSchema(t, false)
		require.Empty(t, run(t, schema, setup, nil, nil).Errors)

		gqltesting.RunTest(t, &gqltesting.Test{
			Schema:         schema,
			Query:          login,
			ExpectedResult: `{"loginUser": {"name": "second"}}`,
		})
	})
}

func TestSchema_Me(t *testing.T) {
	r := NewResolver(memory.New(), false, auth.NewTokens("test_secret_key_for_jwt", time.Hour))
	schema, err := NewSchema(r)
	require.NoError(t, err)

	resp := run(t, schema, `mutation { addUser(name: "ann", email: "ann@example.com", password: "pw") { id } }`, nil, nil)
	require.Empty(t, resp.Errors)

	var login struct{ LoginToken string }
	resp = run(t, schema, `mutation { loginToken(email: "ann@example.com", password: "pw") }`, nil, &login)
	require.Empty(t, resp.Errors)

	id, err := r.Tokens.Verify(login.LoginToken)
	require.NoError(t, err)

	gqltesting.RunTest(t, &gqltesting.Test{
		Context:        auth.WithUserID(context.Background(), id),
		Schema:         schema,
		Query:          `{ me { name email } }`,
		ExpectedResult: `{"me": {"name": "ann", "email": "ann@example.com"}}`,
	})
}
