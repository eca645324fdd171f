package tenancy

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase passthrough", "branch", "branch"},
		{"uppercase folded", "Branch", "branch"},
		{"spaces become hyphens", "North Branch", "north-branch"},
		{"punctuation runs collapse", "A&B -- Warehouse!!", "a-b-warehouse"},
		{"leading and trailing trimmed", "  Matriz  ", "matriz"},
		{"digits kept", "Depot 42", "depot-42"},
		{"non-ascii treated as separator", "São Paulo", "s-o-paulo"},
		{"empty input", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}

func takenSet(taken ...string) SlugExistsFunc {
	set := make(map[string]bool, len(taken))
	for _, s := range taken {
		set[s] = true
	}
	return func(_ context.Context, slug string) (bool, error) {
		return set[slug], nil
	}
}

func TestAllocateBaseFree(t *testing.T) {
	allocator := NewSlugAllocator()
	slug, err := allocator.Allocate(context.Background(), "Branch", takenSet())
	require.NoError(t, err)
	assert.Equal(t, "branch", slug)
}

func TestAllocateProbesSequentially(t *testing.T) {
	// "branch" and "branch-1" are taken in this organization, so the next
	// free candidate is "branch-2". A different organization with neither
	// taken gets plain "branch".
	allocator := NewSlugAllocator()

	slug, err := allocator.Allocate(context.Background(), "Branch", takenSet("branch", "branch-1"))
	require.NoError(t, err)
	assert.Equal(t, "branch-2", slug)

	otherOrg, err := allocator.Allocate(context.Background(), "Branch", takenSet())
	require.NoError(t, err)
	assert.Equal(t, "branch", otherOrg)
}

func TestAllocateEmptyNameFallsBack(t *testing.T) {
	allocator := NewSlugAllocator()
	slug, err := allocator.Allocate(context.Background(), "!!!", takenSet())
	require.NoError(t, err)
	assert.Equal(t, "item", slug)
}

func TestAllocateWithRetryRecoversFromUniqueViolation(t *testing.T) {
	// First insert loses the probe-insert race; the second probe sees the
	// winner's row and the retry lands on the next candidate.
	allocator := NewSlugAllocator()
	raceTaken := false
	exists := func(_ context.Context, slug string) (bool, error) {
		if slug == "branch" {
			return raceTaken, nil
		}
		return false, nil
	}
	var inserted []string
	insert := func(_ context.Context, slug string) error {
		inserted = append(inserted, slug)
		if slug == "branch" && !raceTaken {
			raceTaken = true
			return &pgconn.PgError{Code: pgerrcode.UniqueViolation}
		}
		return nil
	}

	slug, err := allocator.AllocateWithRetry(context.Background(), "Branch", exists, insert)
	require.NoError(t, err)
	assert.Equal(t, "branch-1", slug)
	assert.Equal(t, []string{"branch", "branch-1"}, inserted)
}

func TestAllocateWithRetrySurfacesConflictAfterSecondLoss(t *testing.T) {
	allocator := NewSlugAllocator()
	exists := func(_ context.Context, _ string) (bool, error) { return false, nil }
	insert := func(_ context.Context, _ string) error {
		return &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	}

	_, err := allocator.AllocateWithRetry(context.Background(), "Branch", exists, insert)
	assert.ErrorIs(t, err, ErrSlugConflict)
}

func TestAllocateWithRetryPassesThroughOtherErrors(t *testing.T) {
	allocator := NewSlugAllocator()
	boom := errors.New("connection reset")
	exists := func(_ context.Context, _ string) (bool, error) { return false, nil }
	insert := func(_ context.Context, _ string) error { return boom }

	_, err := allocator.AllocateWithRetry(context.Background(), "Branch", exists, insert)
	assert.ErrorIs(t, err, boom)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: pgerrcode.UniqueViolation}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}))
	assert.False(t, IsUniqueViolation(errors.New("plain error")))
}
