package pump

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCurve() *BondingCurveState {
	return &BondingCurveState{
		VirtualTokenReserves: 1_000_000_000_000_000,
		VirtualSolReserves:   30_000_000_000,
		RealTokenReserves:    793_100_000_000_000,
		RealSolReserves:      0,
		TokenTotalSupply:     1_000_000_000_000_000,
	}
}

func TestTokensForSol(t *testing.T) {
	curve := testCurve()

	out, err := curve.TokensForSol(1_000_000_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(32_258_064_516_129), out)
}

func TestTokensForSolZeroInput(t *testing.T) {
	out, err := testCurve().TokensForSol(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), out)
}

func TestTokensForSolMonotonic(t *testing.T) {
	curve := testCurve()

	var prev uint64
	for _, solIn := range []uint64{0, 1, 1_000, 1_000_000, 1_000_000_000, 100_000_000_000} {
		out, err := curve.TokensForSol(solIn)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, out, prev, "output must not decrease at solIn=%d", solIn)
		prev = out
	}
}

func TestTokensForSolCompletedCurve(t *testing.T) {
	curve := testCurve()
	curve.Complete = true

	_, err := curve.TokensForSol(1_000_000_000)
	assert.ErrorIs(t, err, ErrCurveCompleted)
}

func TestSolForTokensExactScenario(t *testing.T) {
	// feeBasisPoints=100, vSol=30e9, vTok=1e15, tokenIn=1e9:
	// gross = floor(1e9 * 30e9 / 1_000_001_000_000_000) = 29999
	// net   = 29999 - floor(29999 * 100 / 10000) = 29700
	curve := testCurve()

	gross, net, err := curve.SolForTokens(1_000_000_000, 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(29_999), gross)
	assert.Equal(t, uint64(29_700), net)
}

func TestSolForTokensFeeNeverIncreasesOutput(t *testing.T) {
	curve := testCurve()

	for _, tokenIn := range []uint64{1, 1_000_000, 1_000_000_000, 10_000_000_000_000} {
		gross, net, err := curve.SolForTokens(tokenIn, 100)
		require.NoError(t, err)
		assert.LessOrEqual(t, net, gross)

		ceiling := mulDiv(tokenIn, curve.VirtualSolReserves, curve.VirtualTokenReserves)
		assert.LessOrEqual(t, net, ceiling, "fee-adjusted output exceeds the zero-impact ceiling at tokenIn=%d", tokenIn)
	}
}

func TestSolForTokensZeroFee(t *testing.T) {
	curve := testCurve()

	gross, net, err := curve.SolForTokens(1_000_000_000, 0)
	require.NoError(t, err)
	assert.Equal(t, gross, net)
}

func TestSolForTokensCompletedCurve(t *testing.T) {
	curve := testCurve()
	curve.Complete = true

	_, _, err := curve.SolForTokens(1_000_000_000, 100)
	assert.ErrorIs(t, err, ErrCurveCompleted)
}

func TestInitialTokensForSol(t *testing.T) {
	global := &GlobalConfig{
		InitialVirtualTokenReserves: 1_073_000_000_000_000,
		InitialVirtualSolReserves:   30_000_000_000,
		InitialRealTokenReserves:    793_100_000_000_000,
		FeeBasisPoints:              100,
	}

	assert.Equal(t, uint64(67_062_500_000_000), global.InitialTokensForSol(2_000_000_000))
	assert.Equal(t, uint64(0), global.InitialTokensForSol(0))

	// A buy larger than the curve's holdings is capped, not extrapolated.
	capped := global.InitialTokensForSol(10_000_000_000_000)
	assert.Equal(t, global.InitialRealTokenReserves, capped)
}

func TestSolCostForTokens(t *testing.T) {
	curve := testCurve()

	out, err := curve.TokensForSol(1_000_000_000)
	require.NoError(t, err)

	cost, err := curve.SolCostForTokens(out)
	require.NoError(t, err)

	// The ceil-rounded inverse always covers the buy.
	back, err := curve.TokensForSol(cost)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, back, out)

	// Within one lamport of the forward price.
	assert.InDelta(t, 1_000_000_000, float64(cost), 2)
}

func TestSolCostForTokensExceedsReserves(t *testing.T) {
	curve := testCurve()

	_, err := curve.SolCostForTokens(curve.VirtualTokenReserves)
	assert.ErrorIs(t, err, ErrSlippageUnsatisfiable)
}

func TestMulDivWideIntermediate(t *testing.T) {
	// a*b overflows uint64 by a wide margin; the quotient must still be
	// exact.
	a := uint64(1_000_000_000_000_000)
	b := uint64(30_000_000_000)
	got := mulDiv(a, b, 100_000_000)
	assert.Equal(t, uint64(300_000_000_000_000_000), got)
}
