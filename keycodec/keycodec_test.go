package keycodec

import (
	"bytes"
	"math"
	"sort"
	"testing"

	"github.com/metakv/metakv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileEntryKey_RoundTrip(t *testing.T) {
	cases := []struct {
		parentID uint64
		name     string
	}{
		{0, ""},
		{0, "a"},
		{1, "file.txt"},
		{5, "süßigkeiten"}, // multi-byte utf-8 survives
		{math.MaxUint64, "z"},
	}
	for _, tc := range cases {
		key := EncodeFileEntryKey(tc.parentID, tc.name)
		parentID, name, err := DecodeFileEntryKey(key)
		require.NoError(t, err)
		assert.Equal(t, tc.parentID, parentID)
		assert.Equal(t, tc.name, name)
	}
}

func TestInodeEdgeKey_RoundTrip(t *testing.T) {
	for _, id := range []uint64{0, 1, 0xFFFFFFFF, math.MaxUint64} {
		key := EncodeInodeEdgeKey(id)
		got, err := DecodeInodeEdgeKey(key)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestChildID_RoundTrip(t *testing.T) {
	for _, id := range []uint64{0, 42, math.MaxUint64} {
		got, err := DecodeChildID(EncodeChildID(id))
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

// Keys must sort by (parent, name): same-parent keys by byte-lexicographic
// name, and every key of a smaller parent before every key of a larger one.
func TestFileEntryKey_OrderPreservation(t *testing.T) {
	names := []string{"", "a", "a1", "a2", "ab", "b", "b1"}
	for i := 1; i < len(names); i++ {
		k1 := EncodeFileEntryKey(7, names[i-1])
		k2 := EncodeFileEntryKey(7, names[i])
		assert.Negative(t, bytes.Compare(k1, k2), "%q must sort before %q", names[i-1], names[i])
	}

	parents := []uint64{0, 1, 255, 256, 1 << 32, math.MaxUint64}
	for i := 1; i < len(parents); i++ {
		// largest name under the smaller parent still sorts before the
		// empty name under the larger parent
		k1 := EncodeFileEntryKey(parents[i-1], "\xff\xff\xff")
		k2 := EncodeFileEntryKey(parents[i], "")
		assert.Negative(t, bytes.Compare(k1, k2))
	}
}

func TestFileEntryKey_SortStability(t *testing.T) {
	type entry struct {
		parentID uint64
		name     string
	}
	entries := []entry{
		{3, "b"}, {1, "z"}, {3, "a"}, {2, ""}, {1, "a"}, {3, "ab"},
	}
	keys := make([][]byte, len(entries))
	for i, e := range entries {
		keys[i] = EncodeFileEntryKey(e.parentID, e.name)
	}
	sort.Slice(keys, func(i, j int) bool { return bytes.Compare(keys[i], keys[j]) < 0 })

	var got []entry
	for _, k := range keys {
		parentID, name, err := DecodeFileEntryKey(k)
		require.NoError(t, err)
		got = append(got, entry{parentID, name})
	}
	want := []entry{
		{1, "a"}, {1, "z"}, {2, ""}, {3, "a"}, {3, "ab"}, {3, "b"},
	}
	assert.Equal(t, want, got)
}

func TestFileEntryRange(t *testing.T) {
	start, end := FileEntryRange(7)

	// own keys inside, neighbors outside
	inside := EncodeFileEntryKey(7, "anything")
	assert.True(t, bytes.Compare(start, inside) <= 0)
	assert.Negative(t, bytes.Compare(inside, end))

	before := EncodeFileEntryKey(6, "\xff")
	after := EncodeFileEntryKey(8, "")
	assert.Negative(t, bytes.Compare(before, start))
	assert.True(t, bytes.Compare(after, end) >= 0)
}

func TestFileEntryRange_MaxParent(t *testing.T) {
	start, end := FileEntryRange(math.MaxUint64)
	inside := EncodeFileEntryKey(math.MaxUint64, "x")
	assert.True(t, bytes.Compare(start, inside) <= 0)
	assert.Negative(t, bytes.Compare(inside, end))
	// end must not leak into the next table
	edge := EncodeInodeEdgeKey(0)
	assert.True(t, bytes.Compare(end, edge) <= 0)
}

func TestFileEntryPrefixRange(t *testing.T) {
	start, end := FileEntryPrefixRange(7, "a")

	for _, name := range []string{"a", "a1", "az", "a\xff"} {
		k := EncodeFileEntryKey(7, name)
		assert.True(t, bytes.Compare(start, k) <= 0, "name %q", name)
		assert.Negative(t, bytes.Compare(k, end), "name %q", name)
	}
	for _, name := range []string{"", "0", "b", "b1"} {
		k := EncodeFileEntryKey(7, name)
		outside := bytes.Compare(k, start) < 0 || bytes.Compare(k, end) >= 0
		assert.True(t, outside, "name %q must be outside the prefix range", name)
	}
}

func TestTableRange_Separation(t *testing.T) {
	feStart, feEnd := TableRange(TagFileEntry)
	ieStart, ieEnd := TableRange(TagInodeEdge)

	fe := EncodeFileEntryKey(123, "name")
	ie := EncodeInodeEdgeKey(123)

	assert.True(t, bytes.Compare(feStart, fe) <= 0 && bytes.Compare(fe, feEnd) < 0)
	assert.True(t, bytes.Compare(ieStart, ie) <= 0 && bytes.Compare(ie, ieEnd) < 0)
	// tables do not overlap
	assert.True(t, bytes.Compare(feEnd, ieStart) <= 0)
}

func TestPrefixEnd(t *testing.T) {
	assert.Nil(t, PrefixEnd(nil))
	assert.Nil(t, PrefixEnd([]byte{0xff, 0xff}))
	assert.Equal(t, []byte{0x02}, PrefixEnd([]byte{0x01, 0xff}))
	assert.Equal(t, []byte("ab"), PrefixEnd([]byte("aa")))
}

func TestDecode_Malformed(t *testing.T) {
	var de *metakv.DecodeError

	_, _, err := DecodeFileEntryKey([]byte{TagFileEntry, 1, 2})
	require.ErrorAs(t, err, &de)

	_, _, err = DecodeFileEntryKey(EncodeInodeEdgeKey(1))
	require.ErrorAs(t, err, &de, "wrong table tag must not decode")

	_, err = DecodeInodeEdgeKey([]byte{TagInodeEdge, 0})
	require.ErrorAs(t, err, &de)

	_, err = DecodeInodeEdgeKey(append(EncodeInodeEdgeKey(1), 0x00))
	require.ErrorAs(t, err, &de, "trailing bytes must not decode")

	_, err = DecodeChildID([]byte{1, 2, 3})
	require.ErrorAs(t, err, &de)
}
