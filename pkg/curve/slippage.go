package curve

import (
	"math"

	"lukechampine.com/uint128"

	"github.com/ninja0404/pump-curve-sdk/pkg/constants"
	"github.com/ninja0404/pump-curve-sdk/pkg/types"
)

var bpsDenominator = uint128.From64(constants.BasisPointsDenominator)

// MaxCost widens a quoted buy cost by slippageBps, rounding up.
func MaxCost(quoted uint64, slippageBps int64) (uint64, error) {
	if err := types.ValidateSlippage(slippageBps); err != nil {
		return 0, err
	}
	num := uint128.From64(quoted).Mul64(constants.BasisPointsDenominator + uint64(slippageBps))
	q, r := num.QuoRem(bpsDenominator)
	if !r.IsZero() {
		q = q.Add64(1)
	}
	if q.Hi != 0 {
		return 0, types.NewValidationError("maxSolCost", "quoted cost with slippage exceeds u64")
	}
	return q.Lo, nil
}

// MinOutput narrows a quoted sell output by slippageBps, rounding down.
func MinOutput(quoted uint64, slippageBps int64) (uint64, error) {
	if err := types.ValidateSlippage(slippageBps); err != nil {
		return 0, err
	}
	num := uint128.From64(quoted).Mul64(constants.BasisPointsDenominator - uint64(slippageBps))
	// never larger than quoted
	return num.Div(bpsDenominator).Lo, nil
}

// Fee returns ceil(amount*bps/10000), saturating at the u64 range.
func Fee(amount, bps uint64) uint64 {
	if amount == 0 || bps == 0 {
		return 0
	}
	q, r := uint128.From64(amount).Mul64(bps).QuoRem(bpsDenominator)
	if !r.IsZero() {
		q = q.Add64(1)
	}
	if q.Hi != 0 {
		return math.MaxUint64
	}
	return q.Lo
}
