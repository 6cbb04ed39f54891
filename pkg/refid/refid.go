// Package refid generates the human-friendly booking reference:
// "ACB" followed by 5 uppercase alphanumeric characters.
package refid

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

const (
	Prefix   = "ACB"
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	suffix   = 5

	maxAttempts = 10
)

// ExistsFunc reports whether a candidate reference is already taken.
type ExistsFunc func(ctx context.Context, ref string) (bool, error)

// Generate returns a random candidate reference. Uniqueness is the
// caller's concern; use GenerateUnique for a collision-checked one.
func Generate() string {
	b := make([]byte, suffix)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return Prefix + string(b)
}

// GenerateUnique draws random candidates and checks each against exists,
// up to a bounded number of attempts. When the budget is exhausted it
// falls back to a timestamp-derived reference rather than failing the
// booking outright.
func GenerateUnique(ctx context.Context, exists ExistsFunc) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		ref := Generate()
		taken, err := exists(ctx, ref)
		if err != nil {
			return "", fmt.Errorf("checking reference %s: %w", ref, err)
		}
		if !taken {
			return ref, nil
		}
	}
	return fallback(time.Now().UTC()), nil
}

func fallback(now time.Time) string {
	stamp := now.Format("150405")
	return Prefix + stamp[:suffix]
}
