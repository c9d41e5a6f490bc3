package metakv

import "context"

// RangeStore is the capability this module requires from the key-value
// backend: ordered range scan, point lookup and range delete over one
// totally ordered byte keyspace. Implementations live in the kvstore
// package; the core consumes the interface only and never writes outside
// of DeleteRange.
type RangeStore interface {
	// Get returns the value stored at key. A missing key is reported as
	// ok == false with a nil error; errors are reserved for backend faults.
	Get(ctx context.Context, key []byte) (value []byte, ok bool, err error)

	// Scan returns a cursor over the half-open key range [start, end) in
	// ascending byte order. The cursor owns a single backend scan resource
	// and must be closed.
	Scan(ctx context.Context, start, end []byte) (Cursor, error)

	// DeleteRange removes every key in [start, end).
	DeleteRange(ctx context.Context, start, end []byte) error

	Close() error
}

// Cursor is a lazy, forward-only view of one range scan. Next advances to
// the following entry and reports whether one is available; Key and Value
// are valid until the following Next call. Close releases the scan resource
// and is idempotent.
type Cursor interface {
	Next() bool
	Key() []byte
	Value() []byte
	Err() error
	Close() error
}

// ChildEntry is one raw FileEntry index row: the id a directory entry named
// Name pointed at when the row was scanned.
type ChildEntry struct {
	ID   uint64
	Name string
}

// ChildIDIterator enumerates the (id, name) rows of one parent directory in
// ascending name order. It performs no dereferencing: an entry it yields is
// not guaranteed to still resolve to a live inode.
type ChildIDIterator interface {
	Next() bool
	Entry() ChildEntry
	Err() error
	Close() error
}

// InodeIterator enumerates fully materialized inodes. Iterators returned by
// this module are weakly consistent: they observe the backend through a
// sequence of independent reads, so it is unspecified whether concurrently
// added children are included or concurrently removed children are
// excluded. Every returned inode was resolvable at the moment of its own
// lookup.
//
// Iterators are not safe for concurrent advancement. Close releases the
// underlying scan exactly once and is idempotent.
type InodeIterator interface {
	Next() bool
	Inode() Inode
	Err() error
	Close() error
}

// InodeReader is the minimal read contract over the inode metadata store.
// Convenience listing variants are free functions composing GetChildren
// with a ReadOption (see GetChildrenFrom and friends) rather than part of
// the interface, so a backend implements only the primitives.
//
// Absence is never an error: a well-formed key that is not present yields
// ok == false. Malformed stored bytes yield a *DecodeError from point
// lookups; during enumeration such entries are skipped (see InodeIterator).
type InodeReader interface {
	// Get looks up the inode with the given id. name is the directory-entry
	// name under which the caller discovered the id; it does not participate
	// in the lookup key.
	Get(ctx context.Context, id uint64, name string, opt ReadOption) (Inode, bool, error)

	// GetChildID resolves a (parent, name) edge to a child id without
	// verifying that the target inode still exists.
	GetChildID(ctx context.Context, parentID uint64, name string, opt ReadOption) (uint64, bool, error)

	// GetChild composes GetChildID and Get; absence at either stage is
	// absence overall.
	GetChild(ctx context.Context, parentID uint64, name string, opt ReadOption) (Inode, bool, error)

	// GetChildIDs exposes the raw FileEntry scan for a parent.
	GetChildIDs(ctx context.Context, parentID uint64, opt ReadOption) (ChildIDIterator, error)

	// GetChildren returns the reconciled child listing for a parent.
	GetChildren(ctx context.Context, parentID uint64, opt ReadOption) (InodeIterator, error)

	// HasChildren reports whether the parent has at least one live child.
	HasChildren(ctx context.Context, parentID uint64, opt ReadOption) (bool, error)
}

// GetChildrenFrom lists the children of parentID whose names are >= fromName.
func GetChildrenFrom(ctx context.Context, r InodeReader, parentID uint64, fromName string) (InodeIterator, error) {
	return r.GetChildren(ctx, parentID, DefaultReadOption().WithReadFrom(fromName))
}

// GetChildrenPrefix lists the children of parentID whose names start with prefix.
func GetChildrenPrefix(ctx context.Context, r InodeReader, parentID uint64, prefix string) (InodeIterator, error) {
	return r.GetChildren(ctx, parentID, DefaultReadOption().WithPrefix(prefix))
}

// GetChildrenPrefixFrom lists the children of parentID whose names start
// with prefix, resuming at fromName.
func GetChildrenPrefixFrom(ctx context.Context, r InodeReader, parentID uint64, prefix, fromName string) (InodeIterator, error) {
	return r.GetChildren(ctx, parentID, DefaultReadOption().WithPrefix(prefix).WithReadFrom(fromName))
}
