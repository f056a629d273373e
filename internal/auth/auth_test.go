package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct")
	require.NoError(t, err)
	assert.NotEqual(t, "correct", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$10$"))

	again, err := HashPassword("correct")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "every hash gets its own salt")

	assert.True(t, CheckPassword(hash, "correct"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("", "correct"))
	assert.False(t, CheckPassword("plaintext", "plaintext"))

	_, err = HashPassword("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestWithUserIDAndUserIDFromContext(t *testing.T) {
	t.Run("Store and retrieve user ID from context", func(t *testing.T) {
		ctx := WithUserID(context.Background(), "abc")

		id, ok := UserIDFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, "abc", id)
	})

	t.Run("No user ID in context", func(t *testing.T) {
		_, ok := UserIDFromContext(context.Background())
		assert.False(t, ok)
	})

	t.Run("Context value of another type", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), userIDKey, 123)

		_, ok := UserIDFromContext(ctx)
		assert.False(t, ok)
	})
}

func TestTokens(t *testing.T) {
	tokens := NewTokens("test_secret_key_for_jwt", time.Hour)

	t.Run("Issue and verify", func(t *testing.T) {
		token, err := tokens.Issue("42")
		require.NoError(t, err)
		assert.Equal(t, 2, strings.Count(token, "."))

		id, err := tokens.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "42", id)
	})

	t.Run("Expired token", func(t *testing.T) {
		expired := NewTokens("test_secret_key_for_jwt", time.Hour)
		expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

		token, err := expired.Issue("42")
		require.NoError(t, err)

		_, err = tokens.Verify(token)
		assert.Error(t, err)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		token, err := NewTokens("other", time.Hour).Issue("42")
		require.NoError(t, err)

		_, err = tokens.Verify(token)
		assert.Error(t, err)
	})

	t.Run("Unexpected signing method", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": "42"})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = tokens.Verify(signed)
		assert.Error(t, err)
	})

	t.Run("No secret configured", func(t *testing.T) {
		none := NewTokens("", 0)

		_, err := none.Issue("42")
		assert.ErrorIs(t, err, ErrNoSecret)

		_, err = none.Verify("a.b.c")
		assert.ErrorIs(t, err, ErrNoSecret)
	})
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "token123", extractTokenFromHeader("Bearer token123"))
	assert.Equal(t, "", extractTokenFromHeader("NotBearer token123"))
	assert.Equal(t, "", extractTokenFromHeader("Bearertoken123"))
	assert.Equal(t, "", extractTokenFromHeader(""))
}

func TestMiddleware(t *testing.T) {
	tokens := NewTokens("test_secret_key_for_jwt", time.Hour)

	var gotID string
	var gotOK bool
	handler := Middleware(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	serve := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("Valid token", func(t *testing.T) {
		token, err := tokens.Issue("7")
		require.NoError(t, err)

		rec := serve("Bearer " + token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, gotOK)
		assert.Equal(t, "7", gotID)
	})

	t.Run("No token", func(t *testing.T) {
		rec := serve("")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, gotOK)
	})

	t.Run("Invalid token passes through", func(t *testing.T) {
		rec := serve("Bearer garbage")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, gotOK)
	})
}
