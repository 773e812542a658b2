package party

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssignIndicesIsLexicographic(t *testing.T) {
	set, err := AssignIndices([]ID{"p2", "p0", "p1"})
	require.NoError(t, err)
	require.Equal(t, 3, set.N())

	i0, ok := set.IndexOf("p0")
	require.True(t, ok)
	i1, ok := set.IndexOf("p1")
	require.True(t, ok)
	i2, ok := set.IndexOf("p2")
	require.True(t, ok)
	require.Less(t, i0, i1)
	require.Less(t, i1, i2)
}

func TestAssignIndicesRejectsDuplicates(t *testing.T) {
	_, err := AssignIndices([]ID{"p0", "p0"})
	require.Error(t, err)
}

func TestAssignIndicesRejectsEmpty(t *testing.T) {
	_, err := AssignIndices(nil)
	require.Error(t, err)
}

func TestSetAtInverseOfIndexOf(t *testing.T) {
	set, err := AssignIndices([]ID{"charlie", "alice", "bob"})
	require.NoError(t, err)
	for _, id := range set.IDs() {
		idx, ok := set.IndexOf(id)
		require.True(t, ok)
		got, ok := set.At(idx)
		require.True(t, ok)
		require.Equal(t, id, got)
	}
}

func TestSetAtOutOfRange(t *testing.T) {
	set, err := AssignIndices([]ID{"a"})
	require.NoError(t, err)
	_, ok := set.At(5)
	require.False(t, ok)
	_, ok = set.At(-1)
	require.False(t, ok)
}
