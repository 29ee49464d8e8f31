package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
)

type stubLookup struct {
	places []domain.Place
	err    error
	calls  int
}

func (s *stubLookup) Lookup(_ context.Context, _ string, _ int) ([]domain.Place, error) {
	s.calls++
	return s.places, s.err
}

func TestLookup_CachesSuccess(t *testing.T) {
	ctx := context.Background()
	next := &stubLookup{places: []domain.Place{place("Belur")}}
	l := NewLookup(next, NewLRU(8, time.Minute), "memory")

	first, err := l.Lookup(ctx, "Belur", 5)
	require.NoError(t, err)
	second, err := l.Lookup(ctx, "  belur ", 5)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.calls)
}

func TestLookup_LimitIsPartOfKey(t *testing.T) {
	ctx := context.Background()
	next := &stubLookup{places: []domain.Place{place("Belur")}}
	l := NewLookup(next, NewLRU(8, time.Minute), "memory")

	_, _ = l.Lookup(ctx, "belur", 5)
	_, _ = l.Lookup(ctx, "belur", 1)
	assert.Equal(t, 2, next.calls)
}

func TestLookup_DoesNotCacheFailure(t *testing.T) {
	ctx := context.Background()
	next := &stubLookup{err: errors.New("503")}
	l := NewLookup(next, NewLRU(8, time.Minute), "memory")

	_, err := l.Lookup(ctx, "belur", 5)
	require.Error(t, err)

	next.err = nil
	next.places = []domain.Place{place("Belur")}
	got, err := l.Lookup(ctx, "belur", 5)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 2, next.calls)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "5:halebidu temple", Key("  Halebidu   TEMPLE ", 5))
	assert.NotEqual(t, Key("belur", 1), Key("belur", 5))
}

func TestPlacesCodec(t *testing.T) {
	raw, err := encodePlaces(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))

	in := []domain.Place{{Name: "Hampi", Coordinates: domain.Coordinates{Lat: 15.335, Lng: 76.46}}}
	raw, err = encodePlaces(in)
	require.NoError(t, err)
	out, err := decodePlaces(raw)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	_, err = decodePlaces([]byte("{"))
	assert.Error(t, err)
}
