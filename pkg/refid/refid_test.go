package refid

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"
)

var refPattern = regexp.MustCompile(`^ACB[A-Z0-9]{5}$`)

func TestGenerateFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		ref := Generate()
		if !refPattern.MatchString(ref) {
			t.Fatalf("Generate() = %q, want match for %s", ref, refPattern)
		}
	}
}

func TestGenerateUniqueFirstAttempt(t *testing.T) {
	ref, err := GenerateUnique(context.Background(), func(context.Context, string) (bool, error) {
		return false, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if !refPattern.MatchString(ref) {
		t.Errorf("GenerateUnique() = %q, want match for %s", ref, refPattern)
	}
}

func TestGenerateUniqueRetriesOnCollision(t *testing.T) {
	calls := 0
	ref, err := GenerateUnique(context.Background(), func(context.Context, string) (bool, error) {
		calls++
		return calls < 3, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 3 {
		t.Errorf("exists called %d times, want 3", calls)
	}
	if !refPattern.MatchString(ref) {
		t.Errorf("GenerateUnique() = %q, want match for %s", ref, refPattern)
	}
}

// When every random candidate collides, the generator must still hand
// back a usable reference instead of failing the booking.
func TestGenerateUniqueFallsBackAfterExhaustion(t *testing.T) {
	calls := 0
	ref, err := GenerateUnique(context.Background(), func(context.Context, string) (bool, error) {
		calls++
		return true, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != maxAttempts {
		t.Errorf("exists called %d times, want %d", calls, maxAttempts)
	}
	if !refPattern.MatchString(ref) {
		t.Errorf("fallback reference %q does not match %s", ref, refPattern)
	}
}

func TestGenerateUniquePropagatesLookupError(t *testing.T) {
	boom := errors.New("db down")
	_, err := GenerateUnique(context.Background(), func(context.Context, string) (bool, error) {
		return false, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
}

func TestFallbackDerivedFromClock(t *testing.T) {
	now := time.Date(2026, 8, 31, 14, 25, 36, 0, time.UTC)
	if got := fallback(now); got != "ACB14253" {
		t.Errorf("fallback = %q, want ACB14253", got)
	}
}
