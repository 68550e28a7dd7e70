package userstore

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goTokenAuth "github.com/MrEthical07/goTokenAuth"
)

// store is the surface both implementations share in these tests.
type store interface {
	goTokenAuth.UserProvider
	put(goTokenAuth.User) error
	del(id string) error
}

type memoryAdapter struct{ *MemoryStore }

func (m memoryAdapter) put(u goTokenAuth.User) error { return m.Put(u) }
func (m memoryAdapter) del(id string) error          { m.Delete(id); return nil }

type redisAdapter struct{ *RedisStore }

func (r redisAdapter) put(u goTokenAuth.User) error { return r.Put(context.Background(), u) }
func (r redisAdapter) del(id string) error          { return r.Delete(context.Background(), id) }

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client, "test"), mr
}

func stores(t *testing.T) map[string]store {
	rs, _ := newRedisStore(t)
	return map[string]store{
		"memory": memoryAdapter{NewMemory()},
		"redis":  redisAdapter{rs},
	}
}

func TestStoreLookups(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			ada := goTokenAuth.User{ID: "42", Email: "Ada@Example.com", Name: "Ada", PasswordHash: "$argon2id$x"}
			require.NoError(t, s.put(ada))

			byID, err := s.GetUserByID(ctx, "42")
			require.NoError(t, err)
			assert.Equal(t, "Ada", byID.Name)
			assert.Equal(t, "$argon2id$x", byID.PasswordHash)

			byEmail, err := s.GetUserByEmail(ctx, "  ada@EXAMPLE.com ")
			require.NoError(t, err)
			assert.Equal(t, "42", byEmail.ID)

			_, err = s.GetUserByID(ctx, "7")
			assert.ErrorIs(t, err, goTokenAuth.ErrUserNotFound)
			_, err = s.GetUserByEmail(ctx, "nobody@example.com")
			assert.ErrorIs(t, err, goTokenAuth.ErrUserNotFound)
		})
	}
}

func TestStoreEmailChangeMovesIndex(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.put(goTokenAuth.User{ID: "1", Email: "old@example.com"}))
			require.NoError(t, s.put(goTokenAuth.User{ID: "1", Email: "new@example.com"}))

			_, err := s.GetUserByEmail(ctx, "old@example.com")
			assert.ErrorIs(t, err, goTokenAuth.ErrUserNotFound)

			u, err := s.GetUserByEmail(ctx, "new@example.com")
			require.NoError(t, err)
			assert.Equal(t, "1", u.ID)

			require.NoError(t, s.put(goTokenAuth.User{ID: "2", Email: "old@example.com"}))
		})
	}
}

func TestStoreRejectsDuplicateEmail(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.put(goTokenAuth.User{ID: "1", Email: "a@example.com"}))
			err := s.put(goTokenAuth.User{ID: "2", Email: "A@example.com"})
			assert.ErrorIs(t, err, ErrEmailTaken)

			assert.ErrorIs(t, s.put(goTokenAuth.User{Email: "x@example.com"}), ErrInvalidUser)
			assert.ErrorIs(t, s.put(goTokenAuth.User{ID: "3"}), ErrInvalidUser)
		})
	}
}

func TestStoreDelete(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.put(goTokenAuth.User{ID: "1", Email: "a@example.com"}))
			require.NoError(t, s.del("1"))
			require.NoError(t, s.del("1"))

			_, err := s.GetUserByID(ctx, "1")
			assert.ErrorIs(t, err, goTokenAuth.ErrUserNotFound)
			_, err = s.GetUserByEmail(ctx, "a@example.com")
			assert.ErrorIs(t, err, goTokenAuth.ErrUserNotFound)
		})
	}
}

func TestRedisStoreUnavailable(t *testing.T) {
	s, mr := newRedisStore(t)
	mr.Close()

	_, err := s.GetUserByID(context.Background(), "1")
	assert.ErrorIs(t, err, ErrRedisUnavailable)
	assert.NotErrorIs(t, err, goTokenAuth.ErrUserNotFound)

	err = s.Put(context.Background(), goTokenAuth.User{ID: "1", Email: "a@example.com"})
	assert.ErrorIs(t, err, ErrRedisUnavailable)
}

func TestRedisStoreKeyLayout(t *testing.T) {
	s, mr := newRedisStore(t)
	require.NoError(t, s.Put(context.Background(), goTokenAuth.User{ID: "9", Email: "K@example.com", Name: "K"}))

	assert.True(t, mr.Exists("{test}:u:9"))
	got, err := mr.Get("{test}:e:k@example.com")
	require.NoError(t, err)
	assert.Equal(t, "9", got)
	assert.Equal(t, "K", mr.HGet("{test}:u:9", "name"))
}

func TestRedisStoreKeysShareHashTag(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, goTokenAuth.User{ID: "1", Email: "a@example.com"}))
	require.NoError(t, s.Put(ctx, goTokenAuth.User{ID: "1", Email: "b@example.com"}))
	require.NoError(t, s.Put(ctx, goTokenAuth.User{ID: "2", Email: "c@example.com"}))
	require.NoError(t, s.Delete(ctx, "2"))

	keys := mr.Keys()
	assert.ElementsMatch(t, []string{"{test}:u:1", "{test}:e:b@example.com"}, keys)
	for _, k := range keys {
		assert.True(t, strings.HasPrefix(k, "{test}:"), "key %q outside the store's slot", k)
	}
}

func TestRedisStoreScriptsRejectStaleEmail(t *testing.T) {
	s, _ := newRedisStore(t)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, goTokenAuth.User{ID: "1", Email: "a@example.com"}))

	res, err := putUserLua.Run(ctx, s.redis,
		[]string{s.userKey("1"), s.emailKey("b@example.com"), s.emailKey("x@example.com")},
		"1", "b@example.com", "", "", "x@example.com",
	).Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(-1), res)

	res, err = deleteUserLua.Run(ctx, s.redis, []string{s.userKey("1"), s.emailKey("")}, "").Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(-1), res)

	u, err := s.GetUserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "1", u.ID)
}

func TestNewMemoryPanicsOnConflict(t *testing.T) {
	assert.Panics(t, func() {
		NewMemory(
			goTokenAuth.User{ID: "1", Email: "a@example.com"},
			goTokenAuth.User{ID: "2", Email: "a@example.com"},
		)
	})
}
