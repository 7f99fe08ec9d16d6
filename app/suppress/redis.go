package suppress

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Key is the Redis set holding opted-out recipient addresses.
const Key = "campaigns:optout"

// RedisList is a suppression list backed by a Redis set. Addresses are
// normalized to lower case so lookups are case-insensitive.
type RedisList struct {
	client *redis.Client
}

// NewRedisList constructs a Redis-backed suppression list.
func NewRedisList(client *redis.Client) *RedisList {
	return &RedisList{client: client}
}

// Contains reports whether the address has opted out.
func (l *RedisList) Contains(ctx context.Context, email string) (bool, error) {
	return l.client.SIsMember(ctx, Key, normalize(email)).Result()
}

// Add records an opt-out. Adding an existing address is a no-op.
func (l *RedisList) Add(ctx context.Context, email string) error {
	return l.client.SAdd(ctx, Key, normalize(email)).Err()
}

// Members returns every opted-out address.
func (l *RedisList) Members(ctx context.Context) ([]string, error) {
	return l.client.SMembers(ctx, Key).Result()
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
