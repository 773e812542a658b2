package curve

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScalarFromIndexMatchesRepeatedAddition(t *testing.T) {
	one := ScalarFromIndex(1)
	sum := NewScalar()
	for i := 0; i < 5; i++ {
		sum = sum.Add(one)
	}
	require.True(t, sum.Equal(ScalarFromIndex(5)))
}

func TestScalarAddSubRoundTrip(t *testing.T) {
	a := ScalarFromIndex(7)
	b := ScalarFromIndex(11)
	require.True(t, a.Add(b).Sub(b).Equal(a))
}

func TestScalarInvert(t *testing.T) {
	a := ScalarFromIndex(9)
	inv := a.Invert()
	require.True(t, a.Mul(inv).Equal(ScalarFromIndex(1)))
}

func TestScalarZeroize(t *testing.T) {
	a := ScalarFromIndex(42)
	require.False(t, a.IsZero())
	a.Zeroize()
	require.True(t, a.IsZero())
}

func TestScalarCanonicalRoundTrip(t *testing.T) {
	a := ScalarFromIndex(123)
	b, err := ScalarFromCanonicalBytes(a.Bytes())
	require.NoError(t, err)
	require.True(t, a.Equal(b))
}

func TestScalarFromCanonicalBytesRejectsGarbage(t *testing.T) {
	var junk [32]byte
	for i := range junk {
		junk[i] = 0xff
	}
	_, err := ScalarFromCanonicalBytes(junk[:])
	require.Error(t, err)
}

func TestPointAddAndIdentity(t *testing.T) {
	g := ScalarFromIndex(1).ActOnBase()
	id := NewIdentityPoint()
	require.True(t, g.Add(id).Equal(g))
	require.True(t, id.IsIdentity())
	require.False(t, g.IsIdentity())
}

func TestPointCanonicalRoundTrip(t *testing.T) {
	p := ScalarFromIndex(5).ActOnBase()
	q, err := PointFromCanonicalBytes(p.Bytes())
	require.NoError(t, err)
	require.True(t, p.Equal(q))
}

func TestActDistributesOverAdd(t *testing.T) {
	a := ScalarFromIndex(3)
	b := ScalarFromIndex(4)
	base := ScalarFromIndex(2).ActOnBase()
	lhs := a.Add(b).Act(base)
	rhs := a.Act(base).Add(b.Act(base))
	require.True(t, lhs.Equal(rhs))
}

func TestHashWideToScalarDeterministic(t *testing.T) {
	s1 := HashWideToScalar([]byte("a"), []byte("b"))
	s2 := HashWideToScalar([]byte("a"), []byte("b"))
	require.True(t, s1.Equal(s2))

	s3 := HashWideToScalar([]byte("a"), []byte("c"))
	require.False(t, s1.Equal(s3))
}

func TestScalarFromClampedSeedIsDeterministic(t *testing.T) {
	var seed [32]byte
	for i := range seed {
		seed[i] = 0xff
	}
	sc1 := ScalarFromClampedSeed(seed)
	sc2 := ScalarFromClampedSeed(seed)
	require.True(t, sc1.Equal(sc2))
	require.False(t, sc1.IsZero())
}
