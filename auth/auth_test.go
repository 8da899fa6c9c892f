package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"guildhall/models"

	restful "github.com/emicklei/go-restful/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testUser() *models.User {
	return &models.User{Model: gorm.Model{ID: 7}, Username: "leenik"}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("tony")
	require.NoError(t, err)

	assert.False(t, CheckPassword(hash, "not tony"))
	assert.True(t, CheckPassword(hash, "tony"))
	assert.False(t, CheckPassword(hash, ""))
}

func TestGenerateAndParseToken(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour, nil)

	token, err := tm.GenerateToken(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.ParseAndValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "leenik", claims.Username)
	assert.NotEmpty(t, claims.ID)
}

func TestParseRejectsBadTokens(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour, nil)
	ctx := context.Background()

	t.Run("Malformed", func(t *testing.T) {
		_, err := tm.ParseAndValidateToken(ctx, "not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Wrong key", func(t *testing.T) {
		other := NewTokenManager("other-secret", time.Hour, nil)
		token, err := other.GenerateToken(testUser())
		require.NoError(t, err)

		_, err = tm.ParseAndValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Contains(t, err.Error(), "signature")
	})

	t.Run("Expired", func(t *testing.T) {
		claims := &CustomClaims{
			UserID:   7,
			Username: "leenik",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = tm.ParseAndValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Contains(t, err.Error(), "expired")
	})
}

func TestRevoke(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour, NewMemoryRevoker())
	ctx := context.Background()

	token, err := tm.GenerateToken(testUser())
	require.NoError(t, err)
	claims, err := tm.ParseAndValidateToken(ctx, token)
	require.NoError(t, err)

	require.NoError(t, tm.Revoke(ctx, claims))

	_, err = tm.ParseAndValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrRevokedToken)

	// A fresh login is unaffected.
	other, err := tm.GenerateToken(testUser())
	require.NoError(t, err)
	_, err = tm.ParseAndValidateToken(ctx, other)
	assert.NoError(t, err)
}

func TestMemoryRevokerForgetsExpiredEntries(t *testing.T) {
	r := NewMemoryRevoker()
	ctx := context.Background()

	require.NoError(t, r.Revoke(ctx, "old", time.Now().Add(-time.Minute)))
	revoked, err := r.IsRevoked(ctx, "old")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, "new", time.Now().Add(time.Minute)))
	assert.NotContains(t, r.revoked, "old")
}

type fakeRedis struct {
	keys map[string]time.Duration
	err  error
}

func (f *fakeRedis) Set(_ context.Context, key string, _ interface{}, expiration time.Duration) *redis.StatusCmd {
	f.keys[key] = expiration
	return redis.NewStatusResult("OK", f.err)
}

func (f *fakeRedis) Exists(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.keys[k]; ok {
			n++
		}
	}
	return redis.NewIntResult(n, f.err)
}

func TestRedisRevoker(t *testing.T) {
	fake := &fakeRedis{keys: map[string]time.Duration{}}
	r := &RedisRevoker{client: fake, prefix: "test:"}
	ctx := context.Background()

	require.NoError(t, r.Revoke(ctx, "abc", time.Now().Add(time.Hour)))
	ttl, ok := fake.keys["test:abc"]
	require.True(t, ok)
	assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 5)

	revoked, err := r.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = r.IsRevoked(ctx, "zzz")
	require.NoError(t, err)
	assert.False(t, revoked)

	// Already expired tokens are not written.
	require.NoError(t, r.Revoke(ctx, "gone", time.Now().Add(-time.Second)))
	assert.NotContains(t, fake.keys, "test:gone")

	fake.err = errors.New("connection refused")
	_, err = r.IsRevoked(ctx, "abc")
	assert.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	tok, ok := BearerToken("Bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	_, ok = BearerToken("abc")
	assert.False(t, ok)
	_, ok = BearerToken("Basic abc")
	assert.False(t, ok)
}

func TestAuthFilter(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour, nil)

	ws := new(restful.WebService)
	ws.Path("/protected").Produces(restful.MIME_JSON)
	ws.Route(ws.GET("").Filter(AuthFilter(tm)).To(func(req *restful.Request, resp *restful.Response) {
		userID, ok := RequestUserID(req)
		if !ok {
			resp.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = resp.WriteAsJson(map[string]uint{"user_id": userID})
	}))
	container := restful.NewContainer()
	container.Add(ws)

	serve := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		container.ServeHTTP(w, req)
		return w
	}

	t.Run("No token", func(t *testing.T) {
		w := serve("")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Authorization header required")
	})

	t.Run("Invalid token format", func(t *testing.T) {
		w := serve("InvalidTokenFormat")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid authorization header format")
	})

	t.Run("Valid token", func(t *testing.T) {
		token, err := tm.GenerateToken(testUser())
		require.NoError(t, err)

		w := serve("Bearer " + token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id":7}`, w.Body.String())
	})
}
