package ratelimit

import (
	"context"
	"testing"
	"time"
)

func (m *MemoryLimiter) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.visitors)
}

func TestMemoryLimiter(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)

	t.Run("BurstThenRefill", func(t *testing.T) {
		l := NewMemoryLimiter(10, 3)
		l.now = func() time.Time { return now }

		for i := range 3 {
			if ok, _, _ := l.Allow(ctx, "1.2.3.4"); !ok {
				t.Fatalf("request %d should fit in the burst", i+1)
			}
		}
		ok, retry, err := l.Allow(ctx, "1.2.3.4")
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if ok {
			t.Fatal("expected the fourth request to be refused")
		}
		if retry <= 0 || retry > 6*time.Second {
			t.Errorf("unexpected retry-after %v", retry)
		}

		l.now = func() time.Time { return now.Add(6 * time.Second) }
		if ok, _, _ := l.Allow(ctx, "1.2.3.4"); !ok {
			t.Error("expected a token after the refill interval")
		}
	})

	t.Run("KeysAreIndependent", func(t *testing.T) {
		l := NewMemoryLimiter(1, 1)
		l.now = func() time.Time { return now }

		if ok, _, _ := l.Allow(ctx, "a"); !ok {
			t.Fatal("expected a to pass")
		}
		if ok, _, _ := l.Allow(ctx, "a"); ok {
			t.Fatal("expected a to be refused")
		}
		if ok, _, _ := l.Allow(ctx, "b"); !ok {
			t.Error("expected b to pass")
		}
	})

	t.Run("RefusalDoesNotConsume", func(t *testing.T) {
		l := NewMemoryLimiter(60, 1)
		l.now = func() time.Time { return now }
		l.Allow(ctx, "a")
		for range 5 {
			l.Allow(ctx, "a")
		}
		l.now = func() time.Time { return now.Add(time.Second) }
		if ok, _, _ := l.Allow(ctx, "a"); !ok {
			t.Error("refused requests should not push the next token further out")
		}
	})

	t.Run("IdleEviction", func(t *testing.T) {
		l := NewMemoryLimiter(10, 3)
		l.now = func() time.Time { return now }
		l.Allow(ctx, "a")
		l.Allow(ctx, "b")

		l.now = func() time.Time { return now.Add(11 * time.Minute) }
		l.Allow(ctx, "c")
		if got := l.size(); got != 1 {
			t.Errorf("expected idle visitors to be evicted, %d left", got)
		}
	})
}

func TestRedisLimiter_Unreachable(t *testing.T) {
	if _, err := NewRedisClient(context.Background(), "127.0.0.1:1", "", 0); err == nil {
		t.Fatal("expected an error for an unreachable redis")
	}
}

func TestRedisLimiter_WindowKey(t *testing.T) {
	l := NewRedisLimiter(nil, 10)
	now := time.Date(2025, 3, 10, 20, 0, 42, 0, time.UTC)

	key, end := l.windowKey("1.2.3.4", now)
	if want := "ratelimit:reservations:1.2.3.4:1741636800"; key != want {
		t.Errorf("key = %q, want %q", key, want)
	}
	if got := end.Sub(now); got != 18*time.Second {
		t.Errorf("expected the window to end in 18s, got %v", got)
	}
}
