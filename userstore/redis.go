package userstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	goTokenAuth "github.com/MrEthical07/goTokenAuth"
)

// ErrRedisUnavailable wraps transport failures from the Redis store.
var ErrRedisUnavailable = errors.New("user store unavailable")

const (
	fieldID           = "id"
	fieldEmail        = "email"
	fieldName         = "name"
	fieldPasswordHash = "password_hash"
)

// ErrConcurrentUpdate is returned when a user's email kept changing under a
// Put or Delete and the store gave up retrying.
var ErrConcurrentUpdate = errors.New("user changed concurrently")

const maxScriptAttempts = 3

// KEYS: user hash, new email index, old email index.
// ARGV: id, email, name, hash, email the caller read before the call.
// Returns 0 when the email belongs to another user, -1 when the stored email
// no longer matches ARGV[5].
const putUserScript = `
local owner = redis.call("GET", KEYS[2])
if owner and owner ~= ARGV[1] then
  return 0
end
local old = redis.call("HGET", KEYS[1], "email")
if (old or "") ~= ARGV[5] then
  return -1
end
if old and old ~= ARGV[2] then
  redis.call("DEL", KEYS[3])
end
redis.call("HSET", KEYS[1], "id", ARGV[1], "email", ARGV[2], "name", ARGV[3], "password_hash", ARGV[4])
redis.call("SET", KEYS[2], ARGV[1])
return 1
`

// KEYS: user hash, email index. ARGV: email the caller read before the call.
const deleteUserScript = `
local email = redis.call("HGET", KEYS[1], "email")
if (email or "") ~= ARGV[1] then
  return -1
end
if email then
  redis.call("DEL", KEYS[2])
end
redis.call("DEL", KEYS[1])
return 1
`

var (
	putUserLua    = redis.NewScript(putUserScript)
	deleteUserLua = redis.NewScript(deleteUserScript)
)

// RedisStore keeps users in Redis hashes under "{<prefix>}:u:<id>" with a
// "{<prefix>}:e:<email>" index pointing back at the id. The braces are a
// cluster hash tag: every key of one store lives in the same slot, so the
// scripts stay valid on Redis Cluster. Scripts only touch keys passed in
// KEYS.
type RedisStore struct {
	redis  redis.UniversalClient
	prefix string
}

var _ goTokenAuth.UserProvider = (*RedisStore)(nil)

// NewRedis creates a store on client. An empty prefix becomes "gta".
func NewRedis(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "gta"
	}
	return &RedisStore{redis: client, prefix: "{" + prefix + "}"}
}

func (s *RedisStore) userKey(id string) string {
	return s.prefix + ":u:" + id
}

func (s *RedisStore) emailKey(email string) string {
	return s.prefix + ":e:" + email
}

func (s *RedisStore) storedEmail(ctx context.Context, id string) (string, error) {
	email, err := s.redis.HGet(ctx, s.userKey(id), fieldEmail).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return email, nil
}

// Put inserts or replaces u atomically, moving the email index if the
// address changed.
func (s *RedisStore) Put(ctx context.Context, u goTokenAuth.User) error {
	if u.ID == "" || normalizeEmail(u.Email) == "" {
		return ErrInvalidUser
	}
	email := normalizeEmail(u.Email)

	for range maxScriptAttempts {
		old, err := s.storedEmail(ctx, u.ID)
		if err != nil {
			return err
		}
		res, err := putUserLua.Run(ctx, s.redis,
			[]string{s.userKey(u.ID), s.emailKey(email), s.emailKey(old)},
			u.ID, email, u.Name, u.PasswordHash, old,
		).Int64()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
		switch res {
		case 0:
			return ErrEmailTaken
		case 1:
			return nil
		}
	}
	return ErrConcurrentUpdate
}

// Delete removes the user and its email index entry.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	for range maxScriptAttempts {
		old, err := s.storedEmail(ctx, id)
		if err != nil {
			return err
		}
		res, err := deleteUserLua.Run(ctx, s.redis,
			[]string{s.userKey(id), s.emailKey(old)}, old,
		).Int64()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
		if res == 1 {
			return nil
		}
	}
	return ErrConcurrentUpdate
}

func (s *RedisStore) GetUserByID(ctx context.Context, id string) (goTokenAuth.User, error) {
	fields, err := s.redis.HGetAll(ctx, s.userKey(id)).Result()
	if err != nil {
		return goTokenAuth.User{}, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if len(fields) == 0 {
		return goTokenAuth.User{}, goTokenAuth.ErrUserNotFound
	}

	return goTokenAuth.User{
		ID:           fields[fieldID],
		Email:        fields[fieldEmail],
		Name:         fields[fieldName],
		PasswordHash: fields[fieldPasswordHash],
	}, nil
}

func (s *RedisStore) GetUserByEmail(ctx context.Context, email string) (goTokenAuth.User, error) {
	id, err := s.redis.Get(ctx, s.emailKey(normalizeEmail(email))).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return goTokenAuth.User{}, goTokenAuth.ErrUserNotFound
		}
		return goTokenAuth.User{}, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return s.GetUserByID(ctx, id)
}
