package seq_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safetypes2/safetypes2/pkg/blob"
	"github.com/safetypes2/safetypes2/pkg/object"
	"github.com/safetypes2/safetypes2/pkg/seq"
)

func Test_Push_BuildsFrontToBackOrder(t *testing.T) {
	t.Parallel()

	s := seq.Create()
	a, b, c := blob.FromString("a"), blob.FromString("b"), blob.FromString("c")
	s.Push(&a.Header, object.Kept)
	s.Push(&b.Header, object.Kept)
	s.Push(&c.Header, object.Kept)

	require.EqualValues(t, 3, s.Len())

	var got []*object.Header
	s.Each(func(_ int, h *object.Header) bool {
		got = append(got, h)
		return true
	})

	require.Len(t, got, 3)
	assert.Same(t, &a.Header, got[0])
	assert.Same(t, &b.Header, got[1])
	assert.Same(t, &c.Header, got[2])
}

func Test_Insert_KeepsCursorOnSameElement(t *testing.T) {
	t.Parallel()

	s := seq.Create()
	a, b := blob.FromString("a"), blob.FromString("b")
	s.Push(&a.Header, object.Kept)
	s.Push(&b.Header, object.Kept)

	_, err := s.Seek(0, seq.SeekSet)
	require.NoError(t, err)

	before, status := s.Get()
	require.Equal(t, object.Success, status)

	x := blob.FromString("x")
	s.Insert(&x.Header, object.Kept)

	assert.Equal(t, 1, s.Position(), "insert should bump the cursor's index by one")

	after, status := s.Get()
	require.Equal(t, object.Success, status)
	assert.Same(t, before, after, "insert must not disturb what the cursor refers to")
}

func Test_Seek_OutOfRange(t *testing.T) {
	t.Parallel()

	s := seq.Create()
	a := blob.FromString("a")
	s.Push(&a.Header, object.Kept)

	_, err := s.Seek(5, seq.SeekSet)
	assert.ErrorIs(t, err, seq.ErrOutOfRange)

	_, err = s.Seek(-1, seq.SeekSet)
	assert.ErrorIs(t, err, seq.ErrOutOfRange)
}

func Test_Shift_RemovesAtCursor_AdvancesCursor(t *testing.T) {
	t.Parallel()

	s := seq.Create()
	a, b := blob.FromString("a"), blob.FromString("b")
	s.Push(&a.Header, object.Kept)
	s.Push(&b.Header, object.Kept)

	_, err := s.Seek(0, seq.SeekSet)
	require.NoError(t, err)

	got, status := s.Shift()
	require.Equal(t, object.Success, status)
	assert.Same(t, &a.Header, got)
	assert.EqualValues(t, 1, s.Len())

	got, status = s.Get()
	require.Equal(t, object.Success, status)
	assert.Same(t, &b.Header, got)
}

func Test_PushThenPop_RestoresPositionAndValue(t *testing.T) {
	t.Parallel()

	s := seq.Create()
	a := blob.FromString("a")
	s.Push(&a.Header, object.Kept)

	posBefore := s.Position()

	x := blob.FromString("x")
	s.Push(&x.Header, object.Kept)

	got, status := s.Pop()
	require.Equal(t, object.Success, status)
	assert.Same(t, &x.Header, got)
	assert.Equal(t, posBefore, s.Position())
}

func Test_Put_ReplacesAtCursor(t *testing.T) {
	t.Parallel()

	s := seq.Create()
	a := blob.FromString("a")
	s.Push(&a.Header, object.Kept)

	_, err := s.Seek(0, seq.SeekSet)
	require.NoError(t, err)

	replacement := blob.FromString("z")
	status := s.Put(&replacement.Header, object.Kept)
	require.Equal(t, object.Success, status)

	got, _ := s.Get()
	assert.Same(t, &replacement.Header, got)
}

func Test_Sort_StableByValue(t *testing.T) {
	t.Parallel()

	s := seq.Create()

	c, a, b := blob.FromString("c"), blob.FromString("a"), blob.FromString("b")
	headerToBlob := map[*object.Header]*blob.Blob{&c.Header: c, &a.Header: a, &b.Header: b}

	for _, v := range []*blob.Blob{c, a, b} {
		s.Push(&v.Header, object.Kept)
	}

	s.Sort(func(x, y *object.Header) bool {
		return blob.Compare(headerToBlob[x], headerToBlob[y]) < 0
	})

	var order []string
	s.Each(func(_ int, h *object.Header) bool {
		order = append(order, string(headerToBlob[h].WeakMap()))
		return true
	})

	assert.Equal(t, []string{"a", "b", "c"}, order)
}
