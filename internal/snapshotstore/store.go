package snapshotstore

import (
	"context"
	"errors"
	"stockalert/internal/product"
)

// ErrStoreUnavailable wraps every failure to read or write the backing store.
var ErrStoreUnavailable = errors.New("snapshot store unavailable")

// Store keeps the latest snapshot per (product, store) key, it is not a history.
type Store interface {
	// Get returns the persisted snapshot for key, ok is false when there is none.
	// It never returns a partially decoded snapshot.
	Get(ctx context.Context, key product.Key) (snapshot product.Snapshot, ok bool, err error)
	// Put overwrites the snapshot stored under snapshot.Key().
	Put(ctx context.Context, snapshot product.Snapshot) error
	// List returns every persisted snapshot.
	List(ctx context.Context) ([]product.Snapshot, error)
}
