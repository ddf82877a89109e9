package history

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIntHistory(opts ...Option[[]int]) *History[[]int] {
	return New(func(s []int) []int { return slices.Clone(s) }, opts...)
}

func TestUndoRedoSequence(t *testing.T) {
	h := newIntHistory()
	cur := []int{}

	// Three mutations: append 1, 2, 3.
	for i := 1; i <= 3; i++ {
		h.Record(cur)
		cur = append(slices.Clone(cur), i)
	}
	require.True(t, h.CanUndo())
	require.False(t, h.CanRedo())

	prev, ok := h.Undo(cur)
	require.True(t, ok)
	assert.Equal(t, []int{1, 2}, prev)
	assert.Equal(t, [][]int{{1, 2, 3}}, h.Future())
	cur = prev

	prev, ok = h.Undo(cur)
	require.True(t, ok)
	assert.Equal(t, []int{1}, prev)
	assert.Equal(t, [][]int{{1, 2}, {1, 2, 3}}, h.Future())
	cur = prev

	next, ok := h.Redo(cur)
	require.True(t, ok)
	assert.Equal(t, []int{1, 2}, next)
	assert.Equal(t, [][]int{{}, {1}}, h.Past())
	assert.Equal(t, [][]int{{1, 2, 3}}, h.Future())
}

func TestUndoRedoEmpty(t *testing.T) {
	h := newIntHistory()
	_, ok := h.Undo([]int{1})
	assert.False(t, ok)
	_, ok = h.Redo([]int{1})
	assert.False(t, ok)
	p, f := h.Depth()
	assert.Zero(t, p)
	assert.Zero(t, f)
}

func TestRecordDiscardsFuture(t *testing.T) {
	h := newIntHistory()
	h.Record([]int{})
	cur := []int{1}
	prev, _ := h.Undo(cur)
	require.True(t, h.CanRedo())

	h.Record(prev)
	assert.False(t, h.CanRedo(), "direct mutation must clear redo history")
	assert.Empty(t, h.Future())
}

func TestSnapshotsAreIsolated(t *testing.T) {
	h := newIntHistory()
	cur := []int{1, 2}
	h.Record(cur)
	cur[0] = 99

	prev, ok := h.Undo([]int{3})
	require.True(t, ok)
	assert.Equal(t, []int{1, 2}, prev, "recorded snapshot must not alias caller slice")

	prev[1] = 42
	next, _ := h.Redo(prev)
	assert.Equal(t, []int{3}, next)
	assert.Equal(t, [][]int{{1, 42}}, h.Past())
}

func TestWithLimit(t *testing.T) {
	h := newIntHistory(WithLimit[[]int](2))
	for i := 0; i < 5; i++ {
		h.Record([]int{i})
	}
	assert.Equal(t, [][]int{{3}, {4}}, h.Past())
}

func TestRestoreAndReset(t *testing.T) {
	h := newIntHistory()
	h.Restore([][]int{{}, {1}}, [][]int{{1, 2, 3}})
	p, f := h.Depth()
	assert.Equal(t, 2, p)
	assert.Equal(t, 1, f)

	h.Reset()
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
}

func TestNilCloneIsIdentity(t *testing.T) {
	h := New[int](nil)
	h.Record(1)
	v, ok := h.Undo(2)
	require.True(t, ok)
	assert.Equal(t, 1, v)
}
