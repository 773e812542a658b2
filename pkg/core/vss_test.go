package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/thresh-eddsa/pkg/curve"
	"github.com/luxfi/thresh-eddsa/pkg/party"
)

func testParties(t *testing.T, ids []party.ID) *party.Set {
	t.Helper()
	set, err := party.AssignIndices(ids)
	require.NoError(t, err)
	return set
}

func TestVSSShareAllAndVerify(t *testing.T) {
	set := testParties(t, []party.ID{"p0", "p1", "p2"})
	secret := curve.ScalarFromIndex(55)

	commitments, shares, err := VSSShareAll(secret, 2, set.IDs(), set.IndexOf)
	require.NoError(t, err)
	require.Len(t, commitments, 2) // degree threshold-1 = 1 -> 2 coefficients

	for _, id := range set.IDs() {
		idx, _ := set.IndexOf(id)
		require.True(t, VSSVerifyShare(commitments, idx, shares[id]))
	}
}

func TestVSSVerifyShareRejectsTamperedShare(t *testing.T) {
	set := testParties(t, []party.ID{"p0", "p1", "p2"})
	secret := curve.ScalarFromIndex(7)
	commitments, shares, err := VSSShareAll(secret, 2, set.IDs(), set.IndexOf)
	require.NoError(t, err)

	idx, _ := set.IndexOf("p0")
	tampered := shares["p0"].Add(curve.ScalarFromIndex(1))
	require.False(t, VSSVerifyShare(commitments, idx, tampered))
}

func TestVSSReconstructSecret(t *testing.T) {
	set := testParties(t, []party.ID{"p0", "p1", "p2", "p3"})
	secret := curve.ScalarFromIndex(999)
	_, shares, err := VSSShareAll(secret, 3, set.IDs(), set.IndexOf)
	require.NoError(t, err)

	subset := map[party.ID]curve.Scalar{
		"p0": shares["p0"],
		"p1": shares["p1"],
		"p3": shares["p3"],
	}
	reconstructed, err := VSSReconstructSecret(subset, set.IndexOf)
	require.NoError(t, err)
	require.True(t, reconstructed.Equal(secret))
}

func TestVSSShareAllRejectsInvalidThreshold(t *testing.T) {
	set := testParties(t, []party.ID{"p0"})
	_, _, err := VSSShareAll(curve.ScalarFromIndex(1), 0, set.IDs(), set.IndexOf)
	require.Error(t, err)
}
