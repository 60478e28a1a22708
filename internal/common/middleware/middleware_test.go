package middleware

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTokenBucketExhaustion(t *testing.T) {
	tb := NewTokenBucket(3, 1)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if !tb.Allow(ctx) {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if tb.Allow(ctx) {
		t.Fatal("bucket should be empty")
	}
}

func TestTokenBucketRefill(t *testing.T) {
	tb := NewTokenBucket(1, 100)
	ctx := context.Background()

	if !tb.Allow(ctx) {
		t.Fatal("first request should be allowed")
	}
	if tb.Allow(ctx) {
		t.Fatal("bucket should be empty")
	}

	time.Sleep(20 * time.Millisecond)
	if !tb.Allow(ctx) {
		t.Fatal("bucket should have refilled")
	}
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	b := NewBreaker(2, time.Minute)
	ctx := context.Background()
	boom := errors.New("boom")
	fail := func(ctx context.Context) error { return boom }

	for i := 0; i < 2; i++ {
		if err := b.Do(ctx, fail); !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
	}
	if got := b.State(); got != BreakerOpen {
		t.Fatalf("expected open, got %v", got)
	}
	if err := b.Do(ctx, fail); !errors.Is(err, ErrBreakerOpen) {
		t.Fatalf("expected ErrBreakerOpen, got %v", err)
	}
}

func TestBreakerRecovery(t *testing.T) {
	b := NewBreaker(1, 10*time.Millisecond)
	ctx := context.Background()

	if err := b.Do(ctx, func(ctx context.Context) error { return errors.New("boom") }); err == nil {
		t.Fatal("expected error")
	}
	if got := b.State(); got != BreakerOpen {
		t.Fatalf("expected open, got %v", got)
	}

	time.Sleep(15 * time.Millisecond)
	if err := b.Do(ctx, func(ctx context.Context) error { return nil }); err != nil {
		t.Fatalf("probe should succeed: %v", err)
	}
	if got := b.State(); got != BreakerClosed {
		t.Fatalf("expected closed, got %v", got)
	}
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	b := NewBreaker(1, 10*time.Millisecond)
	ctx := context.Background()
	boom := errors.New("boom")

	_ = b.Do(ctx, func(ctx context.Context) error { return boom })
	time.Sleep(15 * time.Millisecond)

	if err := b.Do(ctx, func(ctx context.Context) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if got := b.State(); got != BreakerOpen {
		t.Fatalf("expected open after failed probe, got %v", got)
	}
}
