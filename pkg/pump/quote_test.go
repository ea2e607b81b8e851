package pump

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSolFromLamports(t *testing.T) {
	assert.True(t, SolFromLamports(1_500_000_000).Equal(decimal.RequireFromString("1.5")))
	assert.True(t, SolFromLamports(0).IsZero())
}

func TestLamportsFromSol(t *testing.T) {
	assert.Equal(t, uint64(1_500_000_000), LamportsFromSol(decimal.RequireFromString("1.5")))
	assert.Equal(t, uint64(1), LamportsFromSol(decimal.RequireFromString("0.0000000019")))
}

func TestPriceInSol(t *testing.T) {
	curve := testCurve()

	// 30 SOL over 1e9 whole tokens.
	want := decimal.RequireFromString("0.00000003")
	assert.True(t, curve.PriceInSol().Equal(want), "got %s", curve.PriceInSol())

	empty := &BondingCurveState{}
	assert.True(t, empty.PriceInSol().IsZero())
}
