package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_AllowWithinBurst(t *testing.T) {
	limiter := NewLimiter(1.0, 2)

	if !limiter.Allow("openai") {
		t.Error("First call within burst should be allowed")
	}
	if !limiter.Allow("openai") {
		t.Error("Second call within burst should be allowed")
	}
	if limiter.Allow("openai") {
		t.Error("Third immediate call should be limited")
	}
}

func TestLimiter_ServicesAreIndependent(t *testing.T) {
	limiter := NewLimiter(1.0, 1)

	if !limiter.Allow("openai") {
		t.Fatal("openai should start with a full bucket")
	}
	if limiter.Allow("openai") {
		t.Error("openai bucket should be drained")
	}
	if !limiter.Allow("ollama") {
		t.Error("ollama has its own bucket and should be allowed")
	}
}

func TestLimiter_SetServiceRate(t *testing.T) {
	limiter := NewLimiter(1.0, 1)
	limiter.SetServiceRate("ollama", 100.0, 50)

	allowed := 0
	for i := 0; i < 10; i++ {
		if limiter.Allow("ollama") {
			allowed++
		}
	}
	if allowed != 10 {
		t.Errorf("Expected the raised burst to admit all 10 calls, got %d", allowed)
	}
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	limiter := NewLimiter(0.001, 1) // effectively frozen after the burst
	_ = limiter.Allow("openai")     // drain the bucket

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, "openai"); err == nil {
		t.Error("Expected Wait to fail when the context expires first")
	}
}

func TestLimiter_ZeroBurstClamped(t *testing.T) {
	limiter := NewLimiter(1.0, 0)
	if !limiter.Allow("svc") {
		t.Error("Clamped burst of 1 should admit the first call")
	}
}
