package snapshotstore

import (
	"context"
	"errors"
	"stockalert/internal/product"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	a := product.Key{ProductID: "a", Store: product.NEWEGG}
	b := product.Key{ProductID: "b", Store: product.AMAZON}

	store := NewMemoryStore(product.New(a, "A", "https://a", decimal.NullDecimal{}, false))

	got, ok, err := store.Get(ctx, a)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "A", got.Title())

	_, ok, err = store.Get(ctx, b)
	require.NoError(t, err)
	require.False(t, ok)

	store.FailPut(b, errors.New("throttled"))
	err = store.Put(ctx, product.New(b, "B", "https://b", decimal.NullDecimal{}, true))
	require.ErrorIs(t, err, ErrStoreUnavailable)
	require.Equal(t, 0, store.Puts())

	store.FailGet(a, errors.New("timeout"))
	_, _, err = store.Get(ctx, a)
	require.ErrorIs(t, err, ErrStoreUnavailable)

	require.NoError(t, store.Put(ctx, product.New(a, "A", "https://a", decimal.NullDecimal{}, true)))
	require.Equal(t, 1, store.Puts())

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}
