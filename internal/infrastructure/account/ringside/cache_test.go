package ringside

import (
	"fmt"
	"testing"
	"time"

	"github.com/fightlinkhq/fightlink/internal/domain/user"
)

func TestPrincipalCacheSetGetDelete(t *testing.T) {
	t.Parallel()

	c := newPrincipalCache(time.Minute, 10)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss for unknown key")
	}

	c.Set("key-1", user.Principal{UserID: "user-1"})
	principal, ok := c.Get("key-1")
	if !ok || principal.UserID != "user-1" {
		t.Fatalf("expected hit, got ok=%t principal=%+v", ok, principal)
	}

	c.Delete("key-1")
	if _, ok := c.Get("key-1"); ok {
		t.Fatal("expected miss after delete")
	}
}

func TestPrincipalCacheZeroTTLDisablesWrites(t *testing.T) {
	t.Parallel()

	c := newPrincipalCache(0, 10)
	c.Set("key-1", user.Principal{UserID: "user-1"})

	if _, ok := c.Get("key-1"); ok {
		t.Fatal("expected zero ttl cache to stay empty")
	}
}

func TestPrincipalCacheEvictsAtCapacity(t *testing.T) {
	t.Parallel()

	c := newPrincipalCache(time.Minute, 2)
	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("key-%d", i), user.Principal{UserID: fmt.Sprintf("user-%d", i)})
	}

	c.mu.RLock()
	size := len(c.entries)
	c.mu.RUnlock()
	if size > 2 {
		t.Fatalf("expected at most 2 entries, got %d", size)
	}
}
