package polynomial

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/thresh-eddsa/pkg/curve"
	"github.com/luxfi/thresh-eddsa/pkg/party"
)

func TestEvaluateAtZeroReturnsConstant(t *testing.T) {
	secret := curve.ScalarFromIndex(17)
	p, err := NewPolynomial(3, secret)
	require.NoError(t, err)

	zero := curve.NewScalar()
	require.True(t, p.Evaluate(zero).Equal(secret))
	require.True(t, p.Constant().Equal(secret))
}

func TestCommitmentsMatchPublicEvaluation(t *testing.T) {
	secret := curve.ScalarFromIndex(9)
	p, err := NewPolynomial(2, secret)
	require.NoError(t, err)
	commitments := p.Commitments()

	for i := 1; i <= 4; i++ {
		x := curve.ScalarFromIndex(uint32(i))
		want := p.Evaluate(x).ActOnBase()
		got := EvaluateCommitments(commitments, x)
		require.True(t, want.Equal(got), "mismatch at x=%d", i)
	}
}

func TestZeroizeClearsCoefficients(t *testing.T) {
	p, err := NewPolynomial(2, curve.ScalarFromIndex(3))
	require.NoError(t, err)
	require.False(t, p.Constant().IsZero())
	p.Zeroize()
	require.True(t, p.Constant().IsZero())
}

func TestLagrangeCoefficientsReconstructSecret(t *testing.T) {
	secret := curve.ScalarFromIndex(123)
	degree := 2
	p, err := NewPolynomial(degree, secret)
	require.NoError(t, err)

	ids := []party.ID{"p0", "p1", "p2", "p3"}
	set, err := party.AssignIndices(ids)
	require.NoError(t, err)

	subset := []party.ID{"p0", "p2", "p3"}
	coeffs, err := Lagrange(subset, set.IndexOf)
	require.NoError(t, err)

	reconstructed := curve.NewScalar()
	for _, id := range subset {
		idx, _ := set.IndexOf(id)
		x := curve.ScalarFromIndex(uint32(idx + 1))
		share := p.Evaluate(x)
		reconstructed = reconstructed.Add(coeffs[id].Mul(share))
	}
	require.True(t, reconstructed.Equal(secret))
}

func TestLagrangeUnknownPartyErrors(t *testing.T) {
	set, err := party.AssignIndices([]party.ID{"p0", "p1"})
	require.NoError(t, err)
	_, err = Lagrange([]party.ID{"p0", "ghost"}, set.IndexOf)
	require.Error(t, err)
}
