package rate

import (
	"strings"
)

type keyspace struct {
	prefix string
}

func (k keyspace) join(kind, id string) string {
	var b strings.Builder
	b.Grow(len(k.prefix) + len(kind) + len(id) + 2)
	if k.prefix != "" {
		b.WriteString(k.prefix)
		b.WriteByte(':')
	}
	b.WriteString(kind)
	b.WriteByte(':')
	b.WriteString(id)
	return b.String()
}

// Emails are case-insensitive for throttling purposes.
func (k keyspace) loginUser(email string) string {
	return k.join("al", strings.ToLower(strings.TrimSpace(email)))
}

func (k keyspace) loginIP(ip string) string { return k.join("ali", ip) }

func (k keyspace) refresh(userID string) string { return k.join("ar", userID) }
