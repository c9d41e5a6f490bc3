package kvstore

import (
	"bytes"
	"context"
	"sync"

	"github.com/google/btree"
	"github.com/metakv/metakv"
)

type memItem struct {
	key   []byte
	value []byte
}

func memLess(a, b memItem) bool {
	return bytes.Compare(a.key, b.key) < 0
}

// MemoryStore is an in-process sorted store backed by a btree. It is meant
// for tests and small tools; scans snapshot the requested range, so a
// cursor stays valid while the store mutates underneath it, mirroring how
// the durable backends isolate an open scan from later writes.
type MemoryStore struct {
	mu   sync.RWMutex
	tree *btree.BTreeG[memItem]
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tree: btree.NewG(16, memLess)}
}

func (s *MemoryStore) Get(_ context.Context, key []byte) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.tree.Get(memItem{key: key})
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), item.value...), true, nil
}

func (s *MemoryStore) Put(_ context.Context, key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tree.ReplaceOrInsert(memItem{
		key:   append([]byte(nil), key...),
		value: append([]byte(nil), value...),
	})
	return nil
}

func (s *MemoryStore) Scan(_ context.Context, start, end []byte) (metakv.Cursor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []memItem
	s.tree.AscendRange(memItem{key: start}, memItem{key: end}, func(it memItem) bool {
		items = append(items, it)
		return true
	})
	return &memCursor{items: items, pos: -1}, nil
}

func (s *MemoryStore) DeleteRange(_ context.Context, start, end []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var doomed []memItem
	s.tree.AscendRange(memItem{key: start}, memItem{key: end}, func(it memItem) bool {
		doomed = append(doomed, it)
		return true
	})
	for _, it := range doomed {
		s.tree.Delete(it)
	}
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

type memCursor struct {
	items  []memItem
	pos    int
	closed bool
}

func (c *memCursor) Next() bool {
	if c.closed || c.pos+1 >= len(c.items) {
		c.pos = len(c.items)
		return false
	}
	c.pos++
	return true
}

func (c *memCursor) Key() []byte {
	return c.items[c.pos].key
}

func (c *memCursor) Value() []byte {
	return c.items[c.pos].value
}

func (c *memCursor) Err() error { return nil }

func (c *memCursor) Close() error {
	c.closed = true
	return nil
}
