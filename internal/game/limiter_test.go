package game

import (
	"testing"
	"time"
)

func TestLimiterPaces(t *testing.T) {
	l := NewLimiter(100)
	start := time.Now()
	for i := 0; i < 5; i++ {
		l.Wait()
	}
	if elapsed := time.Since(start); elapsed < 45*time.Millisecond {
		t.Fatalf("5 waits at 100/s took %v", elapsed)
	}
}

func TestLimiterDisabled(t *testing.T) {
	l := NewLimiter(0)
	start := time.Now()
	for i := 0; i < 1000; i++ {
		l.Wait()
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("unlimited waits took %v", elapsed)
	}
}
