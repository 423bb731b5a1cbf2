package curve

import (
	"github.com/shopspring/decimal"

	"github.com/ninja0404/pump-curve-sdk/pkg/constants"
	"github.com/ninja0404/pump-curve-sdk/pkg/program/pump"
)

const solDecimals = 9

// LamportsToSol converts lamports to SOL.
func LamportsToSol(lamports uint64) decimal.Decimal {
	return decimal.NewFromUint64(lamports).Shift(-solDecimals)
}

// SolToLamports converts SOL to lamports, truncating sub-lamport digits.
func SolToLamports(sol decimal.Decimal) uint64 {
	if sol.IsNegative() {
		return 0
	}
	return sol.Shift(solDecimals).Truncate(0).BigInt().Uint64()
}

// TokensToUI converts token base units to whole tokens.
func TokensToUI(amount uint64) decimal.Decimal {
	return decimal.NewFromUint64(amount).Shift(-constants.TokenDecimals)
}

// TokensFromUI converts whole tokens to base units, truncating.
func TokensFromUI(amount decimal.Decimal) uint64 {
	if amount.IsNegative() {
		return 0
	}
	return amount.Shift(constants.TokenDecimals).Truncate(0).BigInt().Uint64()
}

// SpotPrice is the marginal price in SOL per whole token:
// (vSol / 1e9) / (vTok / 1e6).
func SpotPrice(state pump.BondingCurveState) decimal.Decimal {
	if state.VirtualTokenReserves == 0 {
		return decimal.Zero
	}
	return LamportsToSol(state.VirtualSolReserves).Div(TokensToUI(state.VirtualTokenReserves))
}

// MarketCap values the total supply at the spot price, in SOL.
func MarketCap(state pump.BondingCurveState) decimal.Decimal {
	return SpotPrice(state).Mul(TokensToUI(state.TokenTotalSupply))
}

// priceImpactBps compares the execution price of a trade to the spot price.
// A trade that executes at or better than spot has zero impact.
func priceImpactBps(state pump.BondingCurveState, lamports, tokens uint64, isBuy bool) uint64 {
	if state.VirtualTokenReserves == 0 || tokens == 0 {
		return 0
	}
	spot := decimal.NewFromUint64(state.VirtualSolReserves).Div(decimal.NewFromUint64(state.VirtualTokenReserves))
	if spot.IsZero() {
		return 0
	}
	exec := decimal.NewFromUint64(lamports).Div(decimal.NewFromUint64(tokens))

	diff := exec.Sub(spot)
	if !isBuy {
		diff = spot.Sub(exec)
	}
	if !diff.IsPositive() {
		return 0
	}
	return uint64(diff.Div(spot).Mul(decimal.NewFromInt(constants.BasisPointsDenominator)).IntPart())
}
