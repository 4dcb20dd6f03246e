package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := OpenRedis(context.Background(), "redis://"+mr.Addr()+"/0")
	if err != nil {
		t.Fatalf("OpenRedis() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return mr, c
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	mr, c := newTestRedis(t)

	if _, hit, err := c.Get(ctx, "k"); err != nil || hit {
		t.Fatalf("Get on empty cache = hit %v err %v", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("svg"), time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "svg" {
		t.Errorf("Get = %q hit %v err %v, want svg", data, hit, err)
	}
	if ttl := mr.TTL("k"); ttl != time.Minute {
		t.Errorf("TTL = %v, want 1m", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}

	if err := c.Set(ctx, "keep", []byte("x"), 0); err != nil {
		t.Fatal(err)
	}
	if ttl := mr.TTL("keep"); ttl != 0 {
		t.Errorf("zero ttl should not expire, got %v", ttl)
	}
	if err := c.Delete(ctx, "keep"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if mr.Exists("keep") {
		t.Error("Delete should remove the key")
	}
}

func TestOpenRedisBadURL(t *testing.T) {
	if _, err := OpenRedis(context.Background(), "mysql://nope"); err == nil {
		t.Error("OpenRedis() should reject a non-redis url")
	}
}

func TestTransient(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"nil", nil, false},
		{"miss", redis.Nil, false},
		{"canceled", context.Canceled, false},
		{"connection", errors.New("dial tcp: connection refused"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := transient(tt.err)
			if IsRetryable(err) != tt.retryable {
				t.Errorf("IsRetryable(transient(%v)) = %v, want %v", tt.err, !tt.retryable, tt.retryable)
			}
			if tt.retryable && !errors.Is(err, ErrNetwork) {
				t.Errorf("transient(%v) should wrap ErrNetwork", tt.err)
			}
		})
	}
}
