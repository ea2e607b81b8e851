package pump

import (
	"math/big"
)

// Constant-product pricing. All arithmetic is integer-only and must match
// the on-chain program bit for bit: intermediates that can exceed 64 bits
// are computed in big.Int and narrowed only after the division, and every
// division floors toward zero.

const feeDenominator = 10_000

// mulDiv returns floor(a * b / denom) with a 128-bit intermediate
func mulDiv(a, b, denom uint64) uint64 {
	if denom == 0 {
		return 0
	}
	n := new(big.Int).Mul(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b))
	n.Quo(n, new(big.Int).SetUint64(denom))
	return n.Uint64()
}

// swapOut returns floor(amountIn * reserveOut / (reserveIn + amountIn)),
// the constant-product output for a swap against virtual reserves. The
// denominator is widened before the add so reserveIn + amountIn cannot
// wrap.
func swapOut(amountIn, reserveOut, reserveIn uint64) uint64 {
	if amountIn == 0 {
		return 0
	}
	n := new(big.Int).Mul(new(big.Int).SetUint64(amountIn), new(big.Int).SetUint64(reserveOut))
	d := new(big.Int).Add(new(big.Int).SetUint64(reserveIn), new(big.Int).SetUint64(amountIn))
	n.Quo(n, d)
	return n.Uint64()
}

// TokensForSol returns how many tokens a buy of solIn lamports yields
// against the curve's current virtual reserves. A completed curve is
// rejected before any arithmetic runs.
func (c *BondingCurveState) TokensForSol(solIn uint64) (uint64, error) {
	if c.Complete {
		return 0, ErrCurveCompleted
	}
	return swapOut(solIn, c.VirtualTokenReserves, c.VirtualSolReserves), nil
}

// SolForTokens returns the gross and net lamports a sell of tokenIn yields.
// Net is gross minus the protocol fee taken at feeBasisPoints.
func (c *BondingCurveState) SolForTokens(tokenIn, feeBasisPoints uint64) (gross, net uint64, err error) {
	if c.Complete {
		return 0, 0, ErrCurveCompleted
	}
	gross = swapOut(tokenIn, c.VirtualSolReserves, c.VirtualTokenReserves)
	net = gross - mulDiv(gross, feeBasisPoints, feeDenominator)
	return gross, net, nil
}

// InitialTokensForSol prices the immediate buy bundled with a create,
// against the global starting reserves. The output is capped at the
// initial real token reserves since the curve cannot sell more than it
// holds.
func (g *GlobalConfig) InitialTokensForSol(solIn uint64) uint64 {
	out := swapOut(solIn, g.InitialVirtualTokenReserves, g.InitialVirtualSolReserves)
	if out > g.InitialRealTokenReserves {
		out = g.InitialRealTokenReserves
	}
	return out
}

// SolCostForTokens returns the lamports needed to buy exactly tokensOut
// from the curve, the inverse of TokensForSol rounded up so the computed
// cost always covers the purchase.
func (c *BondingCurveState) SolCostForTokens(tokensOut uint64) (uint64, error) {
	if c.Complete {
		return 0, ErrCurveCompleted
	}
	if tokensOut == 0 {
		return 0, nil
	}
	if tokensOut >= c.VirtualTokenReserves {
		return 0, ErrSlippageUnsatisfiable
	}

	// solIn = ceil(tokensOut * virtualSolReserves / (virtualTokenReserves - tokensOut))
	n := new(big.Int).Mul(new(big.Int).SetUint64(tokensOut), new(big.Int).SetUint64(c.VirtualSolReserves))
	d := new(big.Int).SetUint64(c.VirtualTokenReserves - tokensOut)
	q, r := new(big.Int).QuoRem(n, d, new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	if !q.IsUint64() {
		return 0, ErrSlippageUnsatisfiable
	}
	return q.Uint64(), nil
}
