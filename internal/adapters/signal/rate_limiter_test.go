package signal

import (
	"testing"
	"time"
)

func TestRateLimiterBlocksOverLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("a") {
			t.Fatalf("attempt %d blocked below the limit", i+1)
		}
	}
	if rl.Allow("a") {
		t.Error("attempt over the limit was allowed")
	}
	// Other connections are unaffected.
	if !rl.Allow("b") {
		t.Error("unrelated connection was blocked")
	}
}

func TestRateLimiterWindowSlides(t *testing.T) {
	rl := NewRateLimiter(2, 50*time.Millisecond)

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("initial attempts blocked")
	}
	if rl.Allow("a") {
		t.Fatal("third attempt inside the window was allowed")
	}

	time.Sleep(60 * time.Millisecond)
	if !rl.Allow("a") {
		t.Error("attempt after the window slid was blocked")
	}
}

func TestRateLimiterZeroLimitDisables(t *testing.T) {
	rl := NewRateLimiter(0, time.Second)
	for i := 0; i < 100; i++ {
		if !rl.Allow("a") {
			t.Fatal("disabled limiter blocked a message")
		}
	}
}

func TestRateLimiterForget(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	rl.Allow("a")
	if rl.Allow("a") {
		t.Fatal("limit not enforced")
	}
	rl.Forget("a")
	if !rl.Allow("a") {
		t.Error("forgotten connection still limited")
	}
}
