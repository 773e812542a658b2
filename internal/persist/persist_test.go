package persist

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/thresh-eddsa/internal/agent"
	"github.com/luxfi/thresh-eddsa/pkg/curve"
	"github.com/luxfi/thresh-eddsa/pkg/party"
)

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	var prefix [32]byte
	prefix[0] = 0xAB

	shared := &agent.SharedKey{
		X:      curve.ScalarFromIndex(17),
		Y:      curve.ScalarFromIndex(3).ActOnBase(),
		Prefix: prefix,
	}
	vectors := map[party.ID][]curve.Point{
		"p0": {curve.ScalarFromIndex(1).ActOnBase(), curve.ScalarFromIndex(2).ActOnBase()},
		"p1": {curve.ScalarFromIndex(4).ActOnBase(), curve.ScalarFromIndex(5).ActOnBase()},
	}

	data, err := Marshal(2, shared, vectors)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	idx, gotShared, gotVectors, err := Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, 2, idx)
	require.True(t, gotShared.X.Equal(shared.X))
	require.True(t, gotShared.Y.Equal(shared.Y))
	require.Equal(t, shared.Prefix, gotShared.Prefix)

	require.Len(t, gotVectors, 2)
	for id, vec := range vectors {
		gotVec, ok := gotVectors[id]
		require.True(t, ok)
		require.Len(t, gotVec, len(vec))
		for i := range vec {
			require.True(t, vec[i].Equal(gotVec[i]))
		}
	}
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	_, _, _, err := Unmarshal([]byte("not cbor"))
	require.Error(t, err)
}
