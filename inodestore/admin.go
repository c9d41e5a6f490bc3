package inodestore

import (
	"context"

	"github.com/metakv/metakv"
	"github.com/metakv/metakv/keycodec"
)

// ClearParentMax is the exclusive upper parent id for the bulk clear
// operations. It deliberately covers only 32-bit ids: rows under parents at
// or above 0xFFFFFFFF are left untouched. Known limitation of the
// maintenance path, kept as-is because its operational scope predates
// 64-bit ids; it is not a correctness bound for the read path.
const ClearParentMax uint64 = 0xFFFFFFFF

// ClearFileEntries bulk-deletes FileEntry rows for every parent id in
// [0, ClearParentMax).
func ClearFileEntries(ctx context.Context, store metakv.RangeStore) error {
	start := keycodec.EncodeFileEntryKey(0, "")
	end := keycodec.EncodeFileEntryKey(ClearParentMax, "")
	return store.DeleteRange(ctx, start, end)
}

// ClearInodeEdges bulk-deletes InodeEdge rows for every id in
// [0, ClearParentMax).
func ClearInodeEdges(ctx context.Context, store metakv.RangeStore) error {
	start := keycodec.EncodeInodeEdgeKey(0)
	end := keycodec.EncodeInodeEdgeKey(ClearParentMax)
	return store.DeleteRange(ctx, start, end)
}
