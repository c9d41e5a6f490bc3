// Package inodestore implements the read-only inode metadata store over
// two sorted-range capabilities: the FileEntry index (parent, name -> child
// id) and the InodeEdge index (id -> inode record). The two indexes are
// maintained together by writers but read independently here, so listings
// are weakly consistent; see the package-level iterator types for the
// exact contract.
package inodestore

import (
	"context"

	"github.com/metakv/metakv"
	"github.com/metakv/metakv/internal/util"
	"github.com/metakv/metakv/keycodec"
	"github.com/puzpuzpuz/xsync/v4"
	"github.com/rs/zerolog"
)

// Store implements metakv.InodeReader.
type Store struct {
	fileEntries metakv.RangeStore
	inodeEdges  metakv.RangeStore

	// Enumeration silently drops entries that no longer resolve or whose
	// payload fails to decode. The drops are counted so operators can tell
	// a legitimately short listing from one hiding corruption.
	skippedMissing *xsync.Counter
	skippedDecode  *xsync.Counter

	logger zerolog.Logger
}

// Stats reports how many entries enumeration has silently dropped since the
// store was created.
type Stats struct {
	// SkippedMissing counts entries whose id no longer resolved to a live
	// inode at lookup time (concurrent removal; the expected case).
	SkippedMissing int64

	// SkippedDecode counts entries whose inode record existed but failed to
	// decode. A non-zero value here may indicate corruption or version skew
	// and deserves investigation.
	SkippedDecode int64
}

// NewStore creates a Store reading the FileEntry index from fileEntries and
// the InodeEdge index from inodeEdges. Both indexes usually live in the
// same backend; they are accepted separately because nothing in the read
// path may assume cross-index consistency.
func NewStore(fileEntries, inodeEdges metakv.RangeStore) *Store {
	return &Store{
		fileEntries:    fileEntries,
		inodeEdges:     inodeEdges,
		skippedMissing: xsync.NewCounter(),
		skippedDecode:  xsync.NewCounter(),
		logger:         util.GetLogger("inodestore"),
	}
}

// Get looks up the inode with the given id. The name is the directory-entry
// name the caller resolved the id through; it is carried for log context
// only and does not participate in the key.
func (s *Store) Get(ctx context.Context, id uint64, name string, _ metakv.ReadOption) (metakv.Inode, bool, error) {
	value, ok, err := s.inodeEdges.Get(ctx, keycodec.EncodeInodeEdgeKey(id))
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	ino, err := metakv.DecodeInode(value)
	if err != nil {
		s.logger.Error().Err(err).Uint64("id", id).Str("name", name).Msg("Undecodable inode record")
		return nil, false, err
	}
	return ino, true, nil
}

// GetChildID resolves (parentID, name) to a child id from the FileEntry
// index alone. The target inode is not verified to exist.
func (s *Store) GetChildID(ctx context.Context, parentID uint64, name string, _ metakv.ReadOption) (uint64, bool, error) {
	value, ok, err := s.fileEntries.Get(ctx, keycodec.EncodeFileEntryKey(parentID, name))
	if err != nil {
		return 0, false, err
	}
	if !ok {
		return 0, false, nil
	}
	id, err := keycodec.DecodeChildID(value)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// GetChild resolves a named child to its inode. Absence of either the edge
// or the inode yields absence overall; with concurrent writers the edge can
// outlive the inode it points at.
func (s *Store) GetChild(ctx context.Context, parentID uint64, name string, opt metakv.ReadOption) (metakv.Inode, bool, error) {
	id, ok, err := s.GetChildID(ctx, parentID, name, opt)
	if err != nil || !ok {
		return nil, false, err
	}
	return s.Get(ctx, id, name, opt)
}

// GetChildIDs opens a raw scan of the FileEntry index for parentID. The
// caller owns the returned iterator and must close it.
func (s *Store) GetChildIDs(ctx context.Context, parentID uint64, opt metakv.ReadOption) (metakv.ChildIDIterator, error) {
	start, end := scanRange(parentID, opt)
	cur, err := s.fileEntries.Scan(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return newChildIDIterator(cur, parentID, opt, s.logger), nil
}

// GetChildren opens a reconciled listing of parentID's children: each
// scanned id is dereferenced against the InodeEdge index and entries that
// no longer resolve are skipped. The caller owns the returned iterator and
// must close it.
func (s *Store) GetChildren(ctx context.Context, parentID uint64, opt metakv.ReadOption) (metakv.InodeIterator, error) {
	ids, err := s.GetChildIDs(ctx, parentID, opt)
	if err != nil {
		return nil, err
	}
	return newChildIterator(ctx, s, ids, parentID, opt), nil
}

// HasChildren reports whether parentID has at least one live child under
// opt. The scan it opens is released before returning on every path.
func (s *Store) HasChildren(ctx context.Context, parentID uint64, opt metakv.ReadOption) (bool, error) {
	it, err := s.GetChildren(ctx, parentID, opt)
	if err != nil {
		return false, err
	}
	defer it.Close()
	if it.Next() {
		return true, nil
	}
	return false, it.Err()
}

// Stats returns the current skip counters.
func (s *Store) Stats() Stats {
	return Stats{
		SkippedMissing: s.skippedMissing.Value(),
		SkippedDecode:  s.skippedDecode.Value(),
	}
}

// scanRange computes the byte range for one child listing: the parent's
// FileEntry range narrowed by the option's prefix and cursor. The lower
// bound is max(prefix, cursor); the upper bound is the prefix successor
// when a prefix is set, the next parent otherwise.
func scanRange(parentID uint64, opt metakv.ReadOption) (start, end []byte) {
	if opt.Prefix != "" {
		start, end = keycodec.FileEntryPrefixRange(parentID, opt.Prefix)
	} else {
		start, end = keycodec.FileEntryRange(parentID)
	}
	if from := opt.StartName(); from != "" {
		start = keycodec.EncodeFileEntryKey(parentID, from)
	}
	return start, end
}

var _ metakv.InodeReader = (*Store)(nil)
