package api

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisDeduperKeyNamespacing(t *testing.T) {
	m, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(m.Close)

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() {
		if cerr := client.Close(); cerr != nil {
			t.Logf("redis close: %v", cerr)
		}
	})

	deduper := NewRedisDeduper(client, time.Minute)
	ctx := context.Background()
	const (
		scope = "person-1"
		key   = "g1"
	)

	added, err := deduper.Add(ctx, scope, key)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !added {
		t.Fatalf("expected key to be added")
	}
	if again, _ := deduper.Add(ctx, scope, key); again {
		t.Fatalf("expected duplicate on second add")
	}

	expectedKey := scope + ":" + dedupeKeyPrefix + ":" + key
	if !m.Exists(expectedKey) {
		t.Fatalf("expected redis key %q to exist", expectedKey)
	}
	if ttl := m.TTL(expectedKey); ttl != time.Minute {
		t.Fatalf("ttl = %v, want 1m", ttl)
	}

	if err := deduper.Remove(ctx, scope, key); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if added, _ := deduper.Add(ctx, scope, key); !added {
		t.Fatalf("expected key to be accepted after removal")
	}

	m.FastForward(2 * time.Minute)
	if added, _ := deduper.Add(ctx, scope, key); !added {
		t.Fatalf("expected key to be accepted after expiry")
	}
}

func TestMemoryDeduper(t *testing.T) {
	now := time.Unix(0, 0)
	d := NewMemoryDeduper(time.Minute)
	d.now = func() time.Time { return now }
	ctx := context.Background()

	if added, _ := d.Add(ctx, "p", "g"); !added {
		t.Fatalf("expected first add to succeed")
	}
	if added, _ := d.Add(ctx, "p", "g"); added {
		t.Fatalf("expected duplicate")
	}
	if added, _ := d.Add(ctx, "q", "g"); !added {
		t.Fatalf("scopes must not collide")
	}

	now = now.Add(time.Minute)
	if added, _ := d.Add(ctx, "p", "g"); !added {
		t.Fatalf("expected key to expire")
	}

	_ = d.Remove(ctx, "p", "g")
	if added, _ := d.Add(ctx, "p", "g"); !added {
		t.Fatalf("expected key to be accepted after removal")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := d.Add(cancelled, "p", "h"); err == nil {
		t.Fatalf("expected context error")
	}
}
