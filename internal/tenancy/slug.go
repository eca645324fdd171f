package tenancy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// SlugExistsFunc reports whether a candidate slug is taken within the
// caller's scope (one organization, or global for organization slugs).
type SlugExistsFunc func(ctx context.Context, slug string) (bool, error)

// Slugify normalizes a display name: lowercase, runs of non-alphanumerics
// collapsed to single hyphens, hyphens trimmed from both ends.
func Slugify(name string) string {
	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			if hyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			hyphen = false
			b.WriteRune(r)
		default:
			hyphen = true
		}
	}
	return b.String()
}

// SlugAllocator probes for a free slug within a uniqueness scope. Probing is
// sequential: base, base-1, base-2, ... with no gaps and no randomness, so
// allocation is deterministic for a given occupancy.
type SlugAllocator struct {
	maxProbes int
}

func NewSlugAllocator() *SlugAllocator {
	return &SlugAllocator{maxProbes: 1000}
}

// Allocate returns the first free candidate for name within the scope that
// exists implements.
func (a *SlugAllocator) Allocate(ctx context.Context, name string, exists SlugExistsFunc) (string, error) {
	base := Slugify(name)
	if base == "" {
		base = "item"
	}
	taken, err := exists(ctx, base)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}
	for n := 1; n <= a.maxProbes; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrSlugConflict
}

// AllocateWithRetry wraps Allocate plus the insert: the probe-then-insert
// window is racy outside serializable isolation, so a unique violation on
// insert triggers one more probe-and-insert round before surfacing
// ErrSlugConflict.
func (a *SlugAllocator) AllocateWithRetry(ctx context.Context, name string, exists SlugExistsFunc, insert func(ctx context.Context, slug string) error) (string, error) {
	for attempt := 0; attempt < 2; attempt++ {
		slug, err := a.Allocate(ctx, name, exists)
		if err != nil {
			return "", err
		}
		err = insert(ctx, slug)
		if err == nil {
			return slug, nil
		}
		if !IsUniqueViolation(err) {
			return "", err
		}
	}
	return "", ErrSlugConflict
}

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
