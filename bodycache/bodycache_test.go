package bodycache

import (
	"testing"
	"time"
)

func TestSetThenGetHit(t *testing.T) {
	c := New(10, time.Hour)
	c.Set("https://example.com/a", "hello")

	body, ok := c.Get("https://example.com/a")
	if !ok || body != "hello" {
		t.Fatalf("Get() = %q, %v; want %q, true", body, ok, "hello")
	}
}

func TestGetMissingURL(t *testing.T) {
	c := New(10, time.Hour)
	if _, ok := c.Get("https://example.com/missing"); ok {
		t.Fatal("Get() on unset URL returned a hit")
	}
}

func TestExpiredEntryIsMiss(t *testing.T) {
	c := New(10, -time.Second) // already expired by the time Get runs
	c.Set("https://example.com/a", "hello")

	if _, ok := c.Get("https://example.com/a"); ok {
		t.Fatal("Get() returned a hit for an expired entry")
	}
}

func TestEvictsAtCapacity(t *testing.T) {
	c := New(2, time.Hour)
	c.Set("https://example.com/a", "a")
	c.Set("https://example.com/b", "b")
	c.Set("https://example.com/c", "c")

	hits := 0
	for _, u := range []string{"https://example.com/a", "https://example.com/b", "https://example.com/c"} {
		if _, ok := c.Get(u); ok {
			hits++
		}
	}
	if hits != 2 {
		t.Fatalf("got %d entries present after inserting 3 into a 2-capacity cache, want 2", hits)
	}
}
