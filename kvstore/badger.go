package kvstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v3"
	"github.com/metakv/metakv"
	"github.com/metakv/metakv/internal/util"
	"github.com/rs/zerolog"
)

// BadgerStore implements Store on top of an embedded badger database.
type BadgerStore struct {
	db *badger.DB
}

// badgerLogger routes badger's internal log lines through the module logger.
type badgerLogger struct {
	l zerolog.Logger
}

func (b badgerLogger) Errorf(format string, args ...interface{}) {
	b.l.Error().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (b badgerLogger) Warningf(format string, args ...interface{}) {
	b.l.Warn().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (b badgerLogger) Infof(format string, args ...interface{}) {
	b.l.Debug().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (b badgerLogger) Debugf(format string, args ...interface{}) {
	b.l.Trace().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// OpenBadger opens (creating if needed) a badger database at dir.
func OpenBadger(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(badgerLogger{l: util.GetLogger("badger")})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, &metakv.StoreError{Op: "badger open", Err: err}
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Get(_ context.Context, key []byte) ([]byte, bool, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &metakv.StoreError{Op: "badger get", Err: err}
	}
	return value, true, nil
}

func (s *BadgerStore) Put(_ context.Context, key, value []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
	if err != nil {
		return &metakv.StoreError{Op: "badger put", Err: err}
	}
	return nil
}

// Scan opens a read transaction held for the cursor's lifetime; badger
// iterators are only valid while their transaction is.
func (s *BadgerStore) Scan(_ context.Context, start, end []byte) (metakv.Cursor, error) {
	txn := s.db.NewTransaction(false)
	iter := txn.NewIterator(badger.DefaultIteratorOptions)
	iter.Seek(start)
	return &badgerCursor{txn: txn, iter: iter, end: end, first: true}, nil
}

func (s *BadgerStore) DeleteRange(ctx context.Context, start, end []byte) error {
	var keys [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		iter := txn.NewIterator(opts)
		defer iter.Close()
		for iter.Seek(start); iter.Valid(); iter.Next() {
			key := iter.Item().KeyCopy(nil)
			if bytes.Compare(key, end) >= 0 {
				break
			}
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return &metakv.StoreError{Op: "badger delete range", Err: err}
	}
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range keys {
		if err := wb.Delete(key); err != nil {
			return &metakv.StoreError{Op: "badger delete range", Err: err}
		}
	}
	if err := wb.Flush(); err != nil {
		return &metakv.StoreError{Op: "badger delete range", Err: err}
	}
	return nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

type badgerCursor struct {
	txn    *badger.Txn
	iter   *badger.Iterator
	end    []byte
	first  bool
	key    []byte
	value  []byte
	err    error
	closed bool
}

func (c *badgerCursor) Next() bool {
	if c.closed || c.err != nil {
		return false
	}
	if c.first {
		c.first = false
	} else {
		c.iter.Next()
	}
	if !c.iter.Valid() {
		return false
	}
	item := c.iter.Item()
	key := item.KeyCopy(nil)
	if bytes.Compare(key, c.end) >= 0 {
		return false
	}
	value, err := item.ValueCopy(nil)
	if err != nil {
		c.err = &metakv.StoreError{Op: "badger scan", Err: err}
		return false
	}
	c.key = key
	c.value = value
	return true
}

func (c *badgerCursor) Key() []byte   { return c.key }
func (c *badgerCursor) Value() []byte { return c.value }
func (c *badgerCursor) Err() error    { return c.err }

func (c *badgerCursor) Close() error {
	if !c.closed {
		c.closed = true
		c.iter.Close()
		c.txn.Discard()
	}
	return nil
}
