package tezosprotocol_test

import (
	"testing"

	tezosprotocol "github.com/tzforge/tezosprotocol"
	"github.com/stretchr/testify/require"
)

func TestPrimTagAndPrimNameRoundTrip(t *testing.T) {
	require := require.New(t)
	names := []string{"Unit", "Pair", "Left", "Right", "Some", "None", "True", "False", "PUSH", "int", "address"}
	for _, name := range names {
		tag, err := tezosprotocol.PrimTag(name)
		require.NoError(err)
		gotName, err := tezosprotocol.PrimName(tag)
		require.NoError(err)
		require.Equal(name, gotName)
	}
}

func TestPrimTagUnknownName(t *testing.T) {
	require := require.New(t)
	_, err := tezosprotocol.PrimTag("NOT_A_REAL_PRIM")
	require.Error(err)
	require.Contains(err.Error(), "NOT_A_REAL_PRIM")
}

func TestPrimNameUnknownTag(t *testing.T) {
	require := require.New(t)
	_, err := tezosprotocol.PrimName(0xff)
	require.Error(err)
}

func TestNewMichelinePrimByName(t *testing.T) {
	require := require.New(t)
	prim, err := tezosprotocol.NewMichelinePrimByName("Unit", nil, nil)
	require.NoError(err)
	require.Equal(tezosprotocol.PrimT_unit, prim.Prim)

	_, err = tezosprotocol.NewMichelinePrimByName("NOT_A_REAL_PRIM", nil, nil)
	require.Error(err)
}
