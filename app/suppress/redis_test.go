package suppress

import (
	"context"
	"sort"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestList(t *testing.T) *RedisList {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisList(client)
}

func TestRedisListAddAndContains(t *testing.T) {
	t.Parallel()

	list := newTestList(t)
	ctx := context.Background()

	out, err := list.Contains(ctx, "ada@acme.com")
	if err != nil {
		t.Fatalf("Contains: %v", err)
	}
	if out {
		t.Fatal("empty list should not contain anyone")
	}

	if err := list.Add(ctx, "ada@acme.com"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	out, err = list.Contains(ctx, "ada@acme.com")
	if err != nil {
		t.Fatalf("Contains: %v", err)
	}
	if !out {
		t.Fatal("added address should be suppressed")
	}
}

func TestRedisListNormalizesCase(t *testing.T) {
	t.Parallel()

	list := newTestList(t)
	ctx := context.Background()

	if err := list.Add(ctx, "  Ada@ACME.com "); err != nil {
		t.Fatalf("Add: %v", err)
	}
	out, err := list.Contains(ctx, "ada@acme.com")
	if err != nil {
		t.Fatalf("Contains: %v", err)
	}
	if !out {
		t.Fatal("lookup should be case-insensitive")
	}
}

func TestRedisListMembers(t *testing.T) {
	t.Parallel()

	list := newTestList(t)
	ctx := context.Background()

	for _, addr := range []string{"a@x.com", "b@x.com", "a@x.com"} {
		if err := list.Add(ctx, addr); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	members, err := list.Members(ctx)
	if err != nil {
		t.Fatalf("Members: %v", err)
	}
	sort.Strings(members)
	if len(members) != 2 || members[0] != "a@x.com" || members[1] != "b@x.com" {
		t.Fatalf("members = %v", members)
	}
}

func TestNoopList(t *testing.T) {
	t.Parallel()

	var list NoopList
	out, err := list.Contains(context.Background(), "anyone@x.com")
	if err != nil || out {
		t.Fatalf("Contains = %v, %v", out, err)
	}
	if err := list.Add(context.Background(), "anyone@x.com"); err != nil {
		t.Fatalf("Add: %v", err)
	}
}
