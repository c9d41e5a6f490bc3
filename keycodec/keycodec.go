// Package keycodec defines the binary key schema shared by every index in
// the metadata keyspace.
//
// All keys are comparable under one total byte order. The leading table tag
// partitions the keyspace into independent sorted sub-ranges; ids are 8-byte
// big-endian so numeric order equals byte order; FileEntry keys carry the
// child name as the key suffix after the fixed-width (tag, parent) prefix,
// so within one parent keys sort strictly by name and no name can cross
// into the next parent's range. A length prefix would invert that ordering
// ("b" would sort before "ab"), which is why the name is suffix-encoded.
package keycodec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/metakv/metakv"
)

// Table tags. One fixed byte per table; a full-table range is [tag, tag+1).
const (
	TagFileEntry byte = 0x01
	TagInodeEdge byte = 0x02
)

const (
	idLen = 8
	// tag byte + big-endian id
	fileEntryPrefixLen = 1 + idLen
	inodeEdgeKeyLen    = 1 + idLen
)

// EncodeFileEntryKey builds the FileEntry index key for the directory entry
// (parentID, name).
func EncodeFileEntryKey(parentID uint64, name string) []byte {
	key := make([]byte, fileEntryPrefixLen, fileEntryPrefixLen+len(name))
	key[0] = TagFileEntry
	binary.BigEndian.PutUint64(key[1:], parentID)
	return append(key, name...)
}

// DecodeFileEntryKey is the inverse of EncodeFileEntryKey.
func DecodeFileEntryKey(key []byte) (parentID uint64, name string, err error) {
	if len(key) < fileEntryPrefixLen || key[0] != TagFileEntry {
		return 0, "", &metakv.DecodeError{What: "file entry key", Err: fmt.Errorf("bad key of length %d", len(key))}
	}
	return binary.BigEndian.Uint64(key[1:fileEntryPrefixLen]), string(key[fileEntryPrefixLen:]), nil
}

// EncodeInodeEdgeKey builds the InodeEdge index key for an inode id.
func EncodeInodeEdgeKey(id uint64) []byte {
	key := make([]byte, inodeEdgeKeyLen)
	key[0] = TagInodeEdge
	binary.BigEndian.PutUint64(key[1:], id)
	return key
}

// DecodeInodeEdgeKey is the inverse of EncodeInodeEdgeKey.
func DecodeInodeEdgeKey(key []byte) (uint64, error) {
	if len(key) != inodeEdgeKeyLen || key[0] != TagInodeEdge {
		return 0, &metakv.DecodeError{What: "inode edge key", Err: fmt.Errorf("bad key of length %d", len(key))}
	}
	return binary.BigEndian.Uint64(key[1:]), nil
}

// EncodeChildID serializes a FileEntry row value: the child inode id.
func EncodeChildID(id uint64) []byte {
	v := make([]byte, idLen)
	binary.BigEndian.PutUint64(v, id)
	return v
}

// DecodeChildID is the inverse of EncodeChildID.
func DecodeChildID(value []byte) (uint64, error) {
	if len(value) != idLen {
		return 0, &metakv.DecodeError{What: "child id value", Err: fmt.Errorf("bad value of length %d", len(value))}
	}
	return binary.BigEndian.Uint64(value), nil
}

// FileEntryRange returns the half-open key range covering every directory
// entry under parentID.
func FileEntryRange(parentID uint64) (start, end []byte) {
	start = EncodeFileEntryKey(parentID, "")
	if parentID == math.MaxUint64 {
		end = []byte{TagFileEntry + 1}
	} else {
		end = EncodeFileEntryKey(parentID+1, "")
	}
	return start, end
}

// FileEntryPrefixRange returns the half-open key range covering the entries
// under parentID whose names start with prefix.
func FileEntryPrefixRange(parentID uint64, prefix string) (start, end []byte) {
	// The tag byte is < 0xff, so the successor always exists even for a
	// prefix of 0xff bytes: it falls back onto the parent id field, which
	// is exactly the next parent's range start.
	start = EncodeFileEntryKey(parentID, prefix)
	return start, PrefixEnd(start)
}

// TableRange returns the half-open key range covering a whole table.
func TableRange(tag byte) (start, end []byte) {
	return []byte{tag}, []byte{tag + 1}
}

// PrefixEnd returns the smallest key greater than every key starting with
// prefix, or nil if no such key exists.
func PrefixEnd(prefix []byte) []byte {
	if len(prefix) == 0 {
		return nil
	}
	var end []byte
	for i := len(prefix) - 1; i >= 0; i-- {
		c := prefix[i]
		if c < 0xff {
			end = make([]byte, i+1)
			copy(end, prefix)
			end[i] = c + 1
			break
		}
	}
	return end
}
