package curve

import (
	"fmt"
	"math"

	"lukechampine.com/uint128"

	"github.com/ninja0404/pump-curve-sdk/pkg/constants"
	"github.com/ninja0404/pump-curve-sdk/pkg/program/pump"
	"github.com/ninja0404/pump-curve-sdk/pkg/types"
)

// Fees are the basis points a trade pays on its SOL leg.
type Fees struct {
	ProtocolBps uint64
	CreatorBps  uint64
}

// FeesFor reads the fee schedule from global. The creator fee only applies
// once the curve records a creator.
func FeesFor(global pump.GlobalConfig, state pump.BondingCurveState) Fees {
	f := Fees{ProtocolBps: global.FeeBasisPoints}
	if !state.Creator.IsZero() {
		f.CreatorBps = global.CreatorFeeBasisPoints
	}
	return f
}

// TotalBps is the combined rate.
func (f Fees) TotalBps() uint64 {
	return f.ProtocolBps + f.CreatorBps
}

// On returns the fee charged on amount. Each component rounds up on its own.
func (f Fees) On(amount uint64) uint64 {
	p, c := Fee(amount, f.ProtocolBps), Fee(amount, f.CreatorBps)
	if p > math.MaxUint64-c {
		return math.MaxUint64
	}
	return p + c
}

// BuyQuote prices a buy. SolCost includes fees; MaxSolCost is the bound the
// instruction carries.
type BuyQuote struct {
	Tokens         uint64 `json:"tokens"`
	SolCost        uint64 `json:"solCost"`
	Fee            uint64 `json:"fee"`
	MaxSolCost     uint64 `json:"maxSolCost"`
	PriceImpactBps uint64 `json:"priceImpactBps"`
}

// SellQuote prices a sell. SolOut is net of fees; MinSolOutput is the bound
// the instruction carries.
type SellQuote struct {
	Tokens         uint64 `json:"tokens"`
	SolOut         uint64 `json:"solOut"`
	Fee            uint64 `json:"fee"`
	MinSolOutput   uint64 `json:"minSolOutput"`
	PriceImpactBps uint64 `json:"priceImpactBps"`
}

// CheckTradable rejects curves that no longer trade through the program.
func CheckTradable(state pump.BondingCurveState) error {
	if state.Complete {
		return types.ErrCurveCompleted
	}
	return nil
}

// QuoteBuyExactTokens prices buying exactly tokens.
func QuoteBuyExactTokens(global pump.GlobalConfig, state pump.BondingCurveState, tokens uint64, slippageBps int64) (BuyQuote, error) {
	if err := types.ValidateSlippage(slippageBps); err != nil {
		return BuyQuote{}, err
	}
	if err := CheckTradable(state); err != nil {
		return BuyQuote{}, err
	}
	if err := types.ValidateAmount("tokens", tokens); err != nil {
		return BuyQuote{}, err
	}
	if tokens > state.RealTokenReserves {
		return BuyQuote{}, fmt.Errorf("%w: %d tokens requested, %d left on the curve", types.ErrInsufficientLiquidity, tokens, state.RealTokenReserves)
	}

	cost, err := BuySolCost(state.VirtualTokenReserves, state.VirtualSolReserves, tokens)
	if err != nil {
		return BuyQuote{}, err
	}
	fee := FeesFor(global, state).On(cost)
	if cost > math.MaxUint64-fee {
		return BuyQuote{}, fmt.Errorf("%w: sol cost overflows u64", types.ErrInsufficientLiquidity)
	}
	total := cost + fee
	maxCost, err := MaxCost(total, slippageBps)
	if err != nil {
		return BuyQuote{}, err
	}
	return BuyQuote{
		Tokens:         tokens,
		SolCost:        total,
		Fee:            fee,
		MaxSolCost:     maxCost,
		PriceImpactBps: priceImpactBps(state, total, tokens, true),
	}, nil
}

// QuoteBuyWithSol prices spending solIn lamports, fee included. The fee is
// taken out first; the token result is capped by the curve's real reserves.
func QuoteBuyWithSol(global pump.GlobalConfig, state pump.BondingCurveState, solIn uint64, slippageBps int64) (BuyQuote, error) {
	if err := types.ValidateSlippage(slippageBps); err != nil {
		return BuyQuote{}, err
	}
	if err := CheckTradable(state); err != nil {
		return BuyQuote{}, err
	}
	if err := types.ValidateAmount("solIn", solIn); err != nil {
		return BuyQuote{}, err
	}

	fees := FeesFor(global, state)
	net := uint128.From64(solIn).Mul64(constants.BasisPointsDenominator).
		Div(bpsDenominator.Add64(fees.TotalBps())).Lo
	tokens, err := BuyTokensOut(state.VirtualTokenReserves, state.VirtualSolReserves, net)
	if err != nil {
		return BuyQuote{}, err
	}
	if tokens > state.RealTokenReserves {
		tokens = state.RealTokenReserves
	}
	if tokens == 0 {
		return BuyQuote{}, fmt.Errorf("%w: no tokens left on the curve", types.ErrInsufficientLiquidity)
	}
	maxCost, err := MaxCost(solIn, slippageBps)
	if err != nil {
		return BuyQuote{}, err
	}
	return BuyQuote{
		Tokens:         tokens,
		SolCost:        solIn,
		Fee:            solIn - net,
		MaxSolCost:     maxCost,
		PriceImpactBps: priceImpactBps(state, solIn, tokens, true),
	}, nil
}

// QuoteSell prices selling tokens. The fee is taken from the curve output.
func QuoteSell(global pump.GlobalConfig, state pump.BondingCurveState, tokens uint64, slippageBps int64) (SellQuote, error) {
	if err := types.ValidateSlippage(slippageBps); err != nil {
		return SellQuote{}, err
	}
	if err := CheckTradable(state); err != nil {
		return SellQuote{}, err
	}
	if err := types.ValidateAmount("tokens", tokens); err != nil {
		return SellQuote{}, err
	}

	gross, err := SellSolOut(state.VirtualTokenReserves, state.VirtualSolReserves, tokens)
	if err != nil {
		return SellQuote{}, err
	}
	if gross > state.RealSolReserves {
		return SellQuote{}, fmt.Errorf("%w: sell yields %d lamports, curve holds %d", types.ErrInsufficientLiquidity, gross, state.RealSolReserves)
	}
	fee := FeesFor(global, state).On(gross)
	if fee >= gross {
		return SellQuote{}, fmt.Errorf("%w: fee %d consumes the %d lamport output", types.ErrInsufficientLiquidity, fee, gross)
	}
	net := gross - fee
	minOut, err := MinOutput(net, slippageBps)
	if err != nil {
		return SellQuote{}, err
	}
	return SellQuote{
		Tokens:         tokens,
		SolOut:         net,
		Fee:            fee,
		MinSolOutput:   minOut,
		PriceImpactBps: priceImpactBps(state, net, tokens, false),
	}, nil
}
