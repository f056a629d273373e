package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/VitaminP8/blogql/graph"
	"github.com/VitaminP8/blogql/internal/auth"
	"github.com/VitaminP8/blogql/internal/metrics"
	"github.com/VitaminP8/blogql/internal/storage/memory"
)

type gqlResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func newTestServer(t *testing.T) (*httptest.Server, *auth.Tokens) {
	t.Helper()
	logger := zap.NewNop()
	m := metrics.New()
	tokens := auth.NewTokens("test_secret_key_for_jwt", time.Hour)

	resolver := graph.NewResolver(memory.New(), true, tokens)
	schema, err := graph.NewSchema(resolver, SchemaOptions(m, logger)...)
	require.NoError(t, err)

	ts := httptest.NewServer(New(":0", schema, tokens, m, logger).Handler())
	t.Cleanup(ts.Close)
	return ts, tokens
}

func postQuery(t *testing.T, ts *httptest.Server, query, token string) gqlResponse {
	t.Helper()
	body, err := json.Marshal(map[string]string{"query": query})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, ts.URL+GraphQLPath, strings.NewReader(string(body)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var out gqlResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	return out
}

func TestServer_PostQuery(t *testing.T) {
	ts, _ := newTestServer(t)

	out := postQuery(t, ts, `mutation { addUser(name: "ann", email: "ann@example.com", password: "pw") { name } }`, "")
	require.Empty(t, out.Errors)
	assert.JSONEq(t, `{"name": "ann"}`, string(out.Data["addUser"]))

	out = postQuery(t, ts, `{ users { name } }`, "")
	require.Empty(t, out.Errors)
	assert.JSONEq(t, `[{"name": "ann"}]`, string(out.Data["users"]))
}

func TestServer_GetQuery(t *testing.T) {
	ts, _ := newTestServer(t)

	res, err := http.Get(ts.URL + GraphQLPath + "?query=" + url.QueryEscape(`{ posts { id } }`))
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))

	var out gqlResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	assert.JSONEq(t, `[]`, string(out.Data["posts"]))
}

func TestServer_GetRejectsMutations(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name          string
		query         string
		operationName string
	}{
		{name: "Anonymous mutation", query: `mutation { addUser(name: "eve", email: "eve@example.com", password: "pw") { id } }`},
		{name: "Named mutation", query: `mutation Add { addUser(name: "eve", password: "pw") { id } }`, operationName: "Add"},
		{name: "Ambiguous document", query: `query Q { users { id } } mutation M { addUser(name: "eve", password: "pw") { id } }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := url.Values{"query": {tt.query}}
			if tt.operationName != "" {
				params.Set("operationName", tt.operationName)
			}

			res, err := http.Get(ts.URL + GraphQLPath + "?" + params.Encode())
			require.NoError(t, err)
			res.Body.Close()

			assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
			assert.Equal(t, http.MethodPost, res.Header.Get("Allow"))
		})
	}

	out := postQuery(t, ts, `{ users { id } }`, "")
	require.Empty(t, out.Errors)
	assert.JSONEq(t, `[]`, string(out.Data["users"]))
}

func TestServer_GetSelectsQueryOperation(t *testing.T) {
	ts, _ := newTestServer(t)

	params := url.Values{
		"query":         {`query Q { users { id } } mutation M { addUser(name: "eve", password: "pw") { id } }`},
		"operationName": {"Q"},
	}
	res, err := http.Get(ts.URL + GraphQLPath + "?" + params.Encode())
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var out gqlResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	require.Empty(t, out.Errors)
	assert.JSONEq(t, `[]`, string(out.Data["users"]))
}

func TestServer_GetBadVariables(t *testing.T) {
	ts, _ := newTestServer(t)

	res, err := http.Get(ts.URL + GraphQLPath + "?query=" + url.QueryEscape(`{ posts { id } }`) + "&variables=nope")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestServer_Explorer(t *testing.T) {
	ts, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+GraphQLPath, nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "<html")
}

func TestServer_MethodNotAllowed(t *testing.T) {
	ts, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+GraphQLPath, nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}

func TestServer_Me(t *testing.T) {
	ts, _ := newTestServer(t)

	out := postQuery(t, ts, `mutation { addUser(name: "ann", email: "ann@example.com", password: "pw") { id } }`, "")
	require.Empty(t, out.Errors)

	out = postQuery(t, ts, `mutation { loginToken(email: "ann@example.com", password: "pw") }`, "")
	require.Empty(t, out.Errors)
	var token string
	require.NoError(t, json.Unmarshal(out.Data["loginToken"], &token))

	out = postQuery(t, ts, `{ me { name } }`, token)
	require.Empty(t, out.Errors)
	assert.JSONEq(t, `{"name": "ann"}`, string(out.Data["me"]))

	out = postQuery(t, ts, `{ me { name } }`, "not-a-token")
	require.Empty(t, out.Errors)
	assert.JSONEq(t, `null`, string(out.Data["me"]))
}

func TestServer_MetricsAndHealth(t *testing.T) {
	ts, _ := newTestServer(t)
	postQuery(t, ts, `{ users { id } }`, "")

	res, err := http.Get(ts.URL + MetricsPath)
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	res.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "blogql_graphql_operations_total")

	res, err = http.Get(ts.URL + HealthPath)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	m := metrics.New()
	tokens := auth.NewTokens("", 0)
	schema, err := graph.NewSchema(graph.NewResolver(memory.New(), true, tokens), SchemaOptions(m, zap.NewNop())...)
	require.NoError(t, err)

	srv := New("127.0.0.1:0", schema, tokens, m, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
