// Package kvstore provides sorted key-value backends implementing
// metakv.RangeStore: an embedded badger store, a goleveldb store (with an
// in-memory variant for tests), and a btree-backed memory store.
package kvstore

import (
	"context"

	"github.com/metakv/metakv"
)

// Store is the write-capable surface shared by every backend in this
// package. The metadata core consumes only the embedded read capability;
// Put exists for writers, seeding tools and tests.
type Store interface {
	metakv.RangeStore
	Put(ctx context.Context, key, value []byte) error
}
