package metakv

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Inode record payloads are stored as CBOR. The envelope carries a variant
// discriminator so file and directory records share one value layout; the
// key schema never looks inside it.
const (
	recordTypeFile      uint8 = 1
	recordTypeDirectory uint8 = 2
)

type inodeRecord struct {
	Type  uint8      `cbor:"1,keyasint"`
	ID    uint64     `cbor:"2,keyasint"`
	Name  string     `cbor:"3,keyasint"`
	Attrs InodeAttrs `cbor:"4,keyasint"`
}

// EncodeInode serializes an inode record for storage in the InodeEdge index.
func EncodeInode(ino Inode) ([]byte, error) {
	rec := inodeRecord{
		ID:    ino.ID(),
		Name:  ino.Name(),
		Attrs: ino.Attrs(),
	}
	if ino.IsDirectory() {
		rec.Type = recordTypeDirectory
	} else {
		rec.Type = recordTypeFile
	}
	data, err := cbor.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode inode record: %w", err)
	}
	return data, nil
}

// DecodeInode deserializes an inode record. Malformed bytes or an unknown
// variant yield a *DecodeError; callers must treat that as "entry
// unreadable", not "entry absent".
func DecodeInode(data []byte) (Inode, error) {
	var rec inodeRecord
	if err := cbor.Unmarshal(data, &rec); err != nil {
		return nil, &DecodeError{What: "inode record", Err: err}
	}
	switch rec.Type {
	case recordTypeFile:
		return NewFile(rec.ID, rec.Name, rec.Attrs), nil
	case recordTypeDirectory:
		return NewDirectory(rec.ID, rec.Name, rec.Attrs), nil
	default:
		return nil, &DecodeError{What: "inode record", Err: fmt.Errorf("unknown inode type %d", rec.Type)}
	}
}
