package pump

import (
	"github.com/shopspring/decimal"
)

// Display helpers. Everything on the wire stays in integer lamports and
// raw token units; decimals exist only at the presentation edge.

var (
	lamportsPerSolDec = decimal.NewFromInt(LamportsPerSol)
	tokenUnitDec      = decimal.New(1, TokenDecimals)
)

// SolFromLamports converts lamports to a SOL amount
func SolFromLamports(lamports uint64) decimal.Decimal {
	return decimal.NewFromUint64(lamports).Div(lamportsPerSolDec)
}

// LamportsFromSol converts a SOL amount to lamports, truncating any
// fraction below one lamport
func LamportsFromSol(sol decimal.Decimal) uint64 {
	return uint64(sol.Mul(lamportsPerSolDec).IntPart())
}

// TokensFromRaw converts raw token units to a whole-token amount
func TokensFromRaw(raw uint64) decimal.Decimal {
	return decimal.NewFromUint64(raw).Div(tokenUnitDec)
}

// PriceInSol returns the curve's spot price in SOL per whole token
func (c *BondingCurveState) PriceInSol() decimal.Decimal {
	if c.VirtualTokenReserves == 0 {
		return decimal.Zero
	}
	return SolFromLamports(c.VirtualSolReserves).Div(TokensFromRaw(c.VirtualTokenReserves))
}

// MarketCapInSol returns total supply valued at the spot price
func (c *BondingCurveState) MarketCapInSol() decimal.Decimal {
	return c.PriceInSol().Mul(TokensFromRaw(c.TokenTotalSupply))
}
