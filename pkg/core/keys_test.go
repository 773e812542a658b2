package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateLongLivedKeyFromSeedDeterministic(t *testing.T) {
	var seed [32]byte
	seed[3] = 42

	k1, err := CreateLongLivedKeyFromSeed(0, seed)
	require.NoError(t, err)
	k2, err := CreateLongLivedKeyFromSeed(0, seed)
	require.NoError(t, err)

	require.True(t, k1.A.Equal(k2.A))
	require.Equal(t, k1.Prefix, k2.Prefix)
	require.True(t, k1.Y.Equal(k2.Y))
}

func TestLongLivedKeyZeroize(t *testing.T) {
	k, err := CreateLongLivedKey(0)
	require.NoError(t, err)
	require.False(t, k.A.IsZero())
	k.Zeroize()
	require.True(t, k.A.IsZero())
	require.Equal(t, [32]byte{}, k.SkSeed)
	require.Equal(t, [32]byte{}, k.Prefix)
}

func TestCreateEphemeralKeyDeterministicInPrefixAndMessage(t *testing.T) {
	var prefix [32]byte
	prefix[0] = 7
	e1 := CreateEphemeralKey(0, prefix, []byte("msg"))
	e2 := CreateEphemeralKey(0, prefix, []byte("msg"))
	require.True(t, e1.R.Equal(e2.R))
	require.True(t, e1.Point.Equal(e2.Point))

	e3 := CreateEphemeralKey(0, prefix, []byte("other"))
	require.False(t, e1.R.Equal(e3.R))
}

func TestEphemeralKeyZeroize(t *testing.T) {
	var prefix [32]byte
	e := CreateEphemeralKey(0, prefix, []byte("m"))
	require.False(t, e.R.IsZero())
	e.Zeroize()
	require.True(t, e.R.IsZero())
}
