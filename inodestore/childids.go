package inodestore

import (
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/metakv/metakv"
	"github.com/metakv/metakv/keycodec"
	"github.com/rs/zerolog"
)

// childIDIterator yields the raw (id, name) rows of one parent in ascending
// name order. It owns exactly one open backend cursor for its lifetime. The
// scan itself never fails on missing children; only backend faults or
// malformed rows stop it.
type childIDIterator struct {
	cur      metakv.Cursor
	parentID uint64
	prefix   string
	entry    metakv.ChildEntry
	err      error
	closed   atomic.Bool
	logger   zerolog.Logger
}

func newChildIDIterator(cur metakv.Cursor, parentID uint64, opt metakv.ReadOption, logger zerolog.Logger) *childIDIterator {
	// Scan id for correlating this iterator's log lines
	scanID := uuid.NewString()
	it := &childIDIterator{
		cur:      cur,
		parentID: parentID,
		prefix:   opt.Prefix,
		logger:   logger.With().Str("scan", scanID).Logger(),
	}
	it.logger.Trace().Uint64("parentID", parentID).Str("prefix", opt.Prefix).Str("from", opt.ReadFrom).Msg("Child scan opened")
	return it
}

func (it *childIDIterator) Next() bool {
	if it.err != nil || it.closed.Load() {
		return false
	}
	for it.cur.Next() {
		_, name, err := keycodec.DecodeFileEntryKey(it.cur.Key())
		if err != nil {
			it.err = err
			return false
		}
		// The range bounds already confine the scan to the prefix; the
		// check stands on its own so the acceptance rule does not depend
		// on how the bounds were computed.
		if it.prefix != "" && !strings.HasPrefix(name, it.prefix) {
			continue
		}
		id, err := keycodec.DecodeChildID(it.cur.Value())
		if err != nil {
			it.err = err
			return false
		}
		it.entry = metakv.ChildEntry{ID: id, Name: name}
		return true
	}
	it.err = it.cur.Err()
	// the scan owns its cursor for its lifetime only; release on exhaustion
	_ = it.Close()
	return false
}

func (it *childIDIterator) Entry() metakv.ChildEntry {
	return it.entry
}

func (it *childIDIterator) Err() error {
	return it.err
}

// Close releases the backend cursor. Idempotent.
func (it *childIDIterator) Close() error {
	if it.closed.CompareAndSwap(false, true) {
		it.logger.Trace().Uint64("parentID", it.parentID).Msg("Child scan closed")
		return it.cur.Close()
	}
	return nil
}
