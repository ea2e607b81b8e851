package pump

import (
	"fmt"
	"math"
)

// Slippage bounds in basis points. Both directions move the bound against
// the trader: a buy bound never under-provisions the cost ceiling, a sell
// bound never over-promises the output floor. That asymmetry is the whole
// point of the guard and must not be "fixed".

// MaxSlippageBasisPoints caps tolerance at 100%
const MaxSlippageBasisPoints = 10_000

// ValidateSlippage rejects tolerances outside [0, 10000] basis points
func ValidateSlippage(toleranceBps uint64) error {
	if toleranceBps > MaxSlippageBasisPoints {
		return fmt.Errorf("%w: slippage %d exceeds %d basis points", ErrSlippageUnsatisfiable, toleranceBps, MaxSlippageBasisPoints)
	}
	return nil
}

// BuySlippageBound returns the worst acceptable cost for a buy:
// solCost + floor(solCost * toleranceBps / 10000).
func BuySlippageBound(solCost, toleranceBps uint64) (uint64, error) {
	if err := ValidateSlippage(toleranceBps); err != nil {
		return 0, err
	}

	markup := mulDiv(solCost, toleranceBps, feeDenominator)
	if solCost > math.MaxUint64-markup {
		return 0, fmt.Errorf("%w: buy bound overflows", ErrSlippageUnsatisfiable)
	}
	return solCost + markup, nil
}

// SellSlippageBound returns the worst acceptable output for a sell:
// solOut - floor(solOut * toleranceBps / 10000), clamped to at least 1
// lamport. A zero bound would be rejected by program-side validation.
func SellSlippageBound(solOut, toleranceBps uint64) (uint64, error) {
	if err := ValidateSlippage(toleranceBps); err != nil {
		return 0, err
	}

	bound := solOut - mulDiv(solOut, toleranceBps, feeDenominator)
	if bound == 0 {
		bound = 1
	}
	return bound, nil
}
