// Package curve implements the bonding-curve trade math of the pump program.
//
// Every formula works on virtual reserves with unsigned 128-bit intermediates
// and truncating division, so results match the program bit for bit:
//
//	tokensOut = vTok - vTok*vSol/(vSol+solIn)
//	solCost   = tokens*vSol/(vTok-tokens) + 1
//	solOut    = tokens*vSol/(vTok+tokens)
package curve

import (
	"fmt"

	"lukechampine.com/uint128"

	"github.com/ninja0404/pump-curve-sdk/pkg/types"
)

func toU64(v uint128.Uint128, what string) (uint64, error) {
	if v.Hi != 0 {
		return 0, fmt.Errorf("%w: %s overflows u64", types.ErrInsufficientLiquidity, what)
	}
	return v.Lo, nil
}

func checkReserves(vTok, vSol uint64) error {
	if vTok == 0 || vSol == 0 {
		return fmt.Errorf("%w: empty virtual reserves (token %d, sol %d)", types.ErrInsufficientLiquidity, vTok, vSol)
	}
	return nil
}

// BuyTokensOut returns the tokens a buy of solIn lamports receives, before any
// cap by real reserves. solIn must already have the fee taken out.
func BuyTokensOut(vTok, vSol, solIn uint64) (uint64, error) {
	if err := checkReserves(vTok, vSol); err != nil {
		return 0, err
	}
	k := uint128.From64(vTok).Mul64(vSol)
	denom := uint128.From64(vSol).Add64(solIn)
	remaining := k.Div(denom)
	// the curve keeps at least one virtual token
	if remaining.IsZero() {
		return 0, fmt.Errorf("%w: %d lamports would drain %d virtual tokens", types.ErrInsufficientLiquidity, solIn, vTok)
	}
	out := uint128.From64(vTok).Sub(remaining)
	if out.IsZero() {
		return 0, fmt.Errorf("%w: %d lamports buys no tokens", types.ErrInsufficientLiquidity, solIn)
	}
	return out.Lo, nil
}

// BuySolCost returns the lamports the curve charges for exactly tokens,
// fee excluded. The trailing +1 rounds the payer's side up as the program does.
func BuySolCost(vTok, vSol, tokens uint64) (uint64, error) {
	if err := checkReserves(vTok, vSol); err != nil {
		return 0, err
	}
	if err := types.ValidateAmount("tokens", tokens); err != nil {
		return 0, err
	}
	if tokens >= vTok {
		return 0, fmt.Errorf("%w: buying %d of %d virtual tokens", types.ErrInsufficientLiquidity, tokens, vTok)
	}
	cost := uint128.From64(tokens).Mul64(vSol).Div64(vTok - tokens).Add64(1)
	return toU64(cost, "sol cost")
}

// SellSolOut returns the lamports selling tokens yields, fee included.
func SellSolOut(vTok, vSol, tokens uint64) (uint64, error) {
	if err := checkReserves(vTok, vSol); err != nil {
		return 0, err
	}
	if err := types.ValidateAmount("tokens", tokens); err != nil {
		return 0, err
	}
	out := uint128.From64(tokens).Mul64(vSol).Div(uint128.From64(vTok).Add64(tokens))
	if out.IsZero() {
		return 0, fmt.Errorf("%w: selling %d tokens yields nothing", types.ErrInsufficientLiquidity, tokens)
	}
	// out < vSol, so it always fits
	return out.Lo, nil
}
