// Package metakv is a read-only metadata access layer that projects a
// hierarchical filesystem namespace onto a sorted key-value store.
//
// The namespace is kept in two independently maintained indexes inside one
// shared keyspace: the FileEntry index maps (parentID, name) to a child id
// for ordered enumeration under a parent, and the InodeEdge index maps an id
// directly to the full inode record. Writers are expected to keep the two
// indexes consistent; readers must not assume consistency between a scan
// over one index and a lookup into the other. See [InodeReader] for the
// resulting weak-consistency contract.
package metakv

// Inode is the full metadata record for one filesystem entry, addressed by
// a 64-bit id. The concrete variants are [File] and [Directory].
type Inode interface {
	ID() uint64
	Name() string
	IsDirectory() bool
	Attrs() InodeAttrs
}

// InodeAttrs carries the attribute payload common to files and directories.
// It is opaque to the listing machinery; only id and name participate in
// key construction.
type InodeAttrs struct {
	Mode  uint32
	Nlink uint32
	Uid   uint32
	Gid   uint32
	Size  uint64
	Atime uint64
	Mtime uint64
	Ctime uint64
}

type inodeBase struct {
	id    uint64
	name  string
	attrs InodeAttrs
}

func (b inodeBase) ID() uint64        { return b.id }
func (b inodeBase) Name() string      { return b.name }
func (b inodeBase) Attrs() InodeAttrs { return b.attrs }

// File is the inode variant for regular files.
type File struct {
	inodeBase
}

// NewFile creates a file inode.
func NewFile(id uint64, name string, attrs InodeAttrs) File {
	return File{inodeBase{id: id, name: name, attrs: attrs}}
}

func (File) IsDirectory() bool { return false }

// Directory is the inode variant for directories.
type Directory struct {
	inodeBase
}

// NewDirectory creates a directory inode.
func NewDirectory(id uint64, name string, attrs InodeAttrs) Directory {
	return Directory{inodeBase{id: id, name: name, attrs: attrs}}
}

func (Directory) IsDirectory() bool { return true }
