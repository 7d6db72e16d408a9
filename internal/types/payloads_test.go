package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/walletkit/internal/types"
)

func TestParseClauses(t *testing.T) {
	clauses, err := types.ParseClauses([]types.ClausePayload{
		{To: "0x0f872421dc479f3c11edd89512731814d0598db5", Value: "0x64", Data: "0xdeadbeef"},
		{Value: "1000"},
	})
	require.NoError(t, err)
	require.Len(t, clauses, 2)

	assert.Equal(t, "0x0F872421Dc479F3c11eDd89512731814D0598dB5", clauses[0].To.Hex())
	assert.Equal(t, int64(100), clauses[0].Value.Int64())
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, clauses[0].Data)

	assert.Nil(t, clauses[1].To, "empty recipient marks a deployment clause")
	assert.Equal(t, int64(1000), clauses[1].Value.Int64())
}

func TestParseClausesRejectsBadInput(t *testing.T) {
	_, err := types.ParseClauses(nil)
	require.Error(t, err)

	_, err = types.ParseClauses([]types.ClausePayload{{To: "not-an-address"}})
	require.Error(t, err)

	_, err = types.ParseClauses([]types.ClausePayload{{Value: "0xzz"}})
	require.Error(t, err)

	_, err = types.ParseClauses([]types.ClausePayload{{Data: "beef"}})
	require.Error(t, err)
}
