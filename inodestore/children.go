package inodestore

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/metakv/metakv"
	"github.com/rs/zerolog"
)

// Lookahead states of the reconciling iterator. Each Next call transitions
// empty -> buffered when a live inode is found, or empty -> exhausted when
// the underlying scan runs out.
type iterState uint8

const (
	stateEmpty iterState = iota
	stateBuffered
	stateExhausted
)

// childIterator reconciles the raw FileEntry scan against the InodeEdge
// index: every scanned id is dereferenced with its own point lookup, and
// entries that no longer resolve are dropped. The iterator holds at most
// one buffered inode of lookahead.
//
// Skip policy: an absent inode is the normal weak-consistency outcome (the
// child was removed after the scan observed its edge) and is skipped
// silently apart from a debug log. An inode record that exists but fails
// to decode is also skipped, logged at warn, and counted; point lookups
// outside enumeration propagate the same failure instead. Backend faults
// always stop the iteration and surface through Err.
type childIterator struct {
	ctx      context.Context
	store    *Store
	ids      metakv.ChildIDIterator
	parentID uint64
	opt      metakv.ReadOption

	state    iterState
	buffered metakv.Inode
	current  metakv.Inode
	err      error
	closed   atomic.Bool
	logger   zerolog.Logger
}

func newChildIterator(ctx context.Context, store *Store, ids metakv.ChildIDIterator, parentID uint64, opt metakv.ReadOption) *childIterator {
	return &childIterator{
		ctx:      ctx,
		store:    store,
		ids:      ids,
		parentID: parentID,
		opt:      opt,
		logger:   store.logger,
	}
}

// Next advances to the next live child, skipping entries per the policy
// above. It returns false when the scan is exhausted, a backend fault
// occurred, or the iterator is closed.
func (it *childIterator) Next() bool {
	if it.closed.Load() || it.err != nil || it.state == stateExhausted {
		return false
	}
	it.advance()
	if it.state != stateBuffered {
		return false
	}
	it.current = it.buffered
	it.buffered = nil
	it.state = stateEmpty
	return true
}

// advance drives the scanner until an inode is buffered or the scan ends.
func (it *childIterator) advance() {
	for it.state == stateEmpty {
		if !it.ids.Next() {
			if err := it.ids.Err(); err != nil {
				it.err = err
			}
			it.state = stateExhausted
			// release the scan eagerly; Close stays idempotent for callers
			_ = it.ids.Close()
			return
		}
		entry := it.ids.Entry()

		ino, ok, err := it.store.Get(it.ctx, entry.ID, entry.Name, it.opt)
		if err != nil {
			var de *metakv.DecodeError
			if errors.As(err, &de) {
				// Deliberately swallowed so one bad record cannot fail a
				// whole listing; surfaced through the counter and log.
				it.store.skippedDecode.Inc()
				it.logger.Warn().Err(err).
					Uint64("parentID", it.parentID).
					Uint64("id", entry.ID).
					Str("name", entry.Name).
					Msg("Skipping undecodable child record")
				continue
			}
			it.err = err
			it.state = stateExhausted
			return
		}
		if !ok {
			// Removed between scan and lookup; the weak-consistency case
			it.store.skippedMissing.Inc()
			it.logger.Debug().
				Uint64("parentID", it.parentID).
				Uint64("id", entry.ID).
				Str("name", entry.Name).
				Msg("Skipping child removed during listing")
			continue
		}
		it.buffered = ino
		it.state = stateBuffered
	}
}

// Inode returns the child produced by the last successful Next.
func (it *childIterator) Inode() metakv.Inode {
	return it.current
}

func (it *childIterator) Err() error {
	return it.err
}

// Close closes the underlying scan exactly once, regardless of how many
// entries were consumed. Idempotent.
func (it *childIterator) Close() error {
	if it.closed.CompareAndSwap(false, true) {
		return it.ids.Close()
	}
	return nil
}
