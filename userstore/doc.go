// Package userstore provides goTokenAuth.UserProvider implementations: an
// in-process [MemoryStore] for tests and small deployments, and a
// [RedisStore] that keeps one hash per user plus an email index. The Redis
// keys of one store share a cluster hash tag, so it runs on Redis Cluster too.
//
// Emails are matched case-insensitively. Both stores report a missing user
// with an error wrapping goTokenAuth.ErrUserNotFound.
package userstore
