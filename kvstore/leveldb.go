package kvstore

import (
	"context"
	"errors"

	"github.com/metakv/metakv"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDBStore implements Store on top of goleveldb.
type LevelDBStore struct {
	db *leveldb.DB
}

// OpenLevelDB opens (creating if needed) a leveldb database at dir.
func OpenLevelDB(dir string) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, &metakv.StoreError{Op: "leveldb open", Err: err}
	}
	return &LevelDBStore{db: db}, nil
}

// NewMemLevelDB opens a leveldb database on in-memory storage. Useful in
// tests that want the real leveldb scan machinery without touching disk.
func NewMemLevelDB() (*LevelDBStore, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, &metakv.StoreError{Op: "leveldb open", Err: err}
	}
	return &LevelDBStore{db: db}, nil
}

func (s *LevelDBStore) Get(_ context.Context, key []byte) ([]byte, bool, error) {
	value, err := s.db.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &metakv.StoreError{Op: "leveldb get", Err: err}
	}
	return value, true, nil
}

func (s *LevelDBStore) Put(_ context.Context, key, value []byte) error {
	if err := s.db.Put(key, value, nil); err != nil {
		return &metakv.StoreError{Op: "leveldb put", Err: err}
	}
	return nil
}

func (s *LevelDBStore) Scan(_ context.Context, start, end []byte) (metakv.Cursor, error) {
	iter := s.db.NewIterator(&util.Range{Start: start, Limit: end}, nil)
	return &levelDBCursor{iter: iter}, nil
}

func (s *LevelDBStore) DeleteRange(ctx context.Context, start, end []byte) error {
	iter := s.db.NewIterator(&util.Range{Start: start, Limit: end}, nil)
	defer iter.Release()
	batch := new(leveldb.Batch)
	for iter.Next() {
		batch.Delete(append([]byte(nil), iter.Key()...))
	}
	if err := iter.Error(); err != nil {
		return &metakv.StoreError{Op: "leveldb delete range", Err: err}
	}
	if err := s.db.Write(batch, nil); err != nil {
		return &metakv.StoreError{Op: "leveldb delete range", Err: err}
	}
	return nil
}

func (s *LevelDBStore) Close() error {
	return s.db.Close()
}

type levelDBCursor struct {
	iter   iterator.Iterator
	key    []byte
	value  []byte
	closed bool
}

func (c *levelDBCursor) Next() bool {
	if c.closed || !c.iter.Next() {
		return false
	}
	// goleveldb reuses its buffers between Next calls
	c.key = append(c.key[:0], c.iter.Key()...)
	c.value = append(c.value[:0], c.iter.Value()...)
	return true
}

func (c *levelDBCursor) Key() []byte   { return c.key }
func (c *levelDBCursor) Value() []byte { return c.value }

func (c *levelDBCursor) Err() error {
	if err := c.iter.Error(); err != nil {
		return &metakv.StoreError{Op: "leveldb scan", Err: err}
	}
	return nil
}

func (c *levelDBCursor) Close() error {
	if !c.closed {
		c.closed = true
		c.iter.Release()
	}
	return nil
}
