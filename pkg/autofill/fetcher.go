package autofill

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/ninja0404/pump-curve-sdk/pkg/program/pump"
	"github.com/ninja0404/pump-curve-sdk/pkg/types"
)

// LedgerQuery reads raw account bytes. Absent accounts are reported as
// types.ErrAccountNotFound. *rpc.Client implements it.
type LedgerQuery interface {
	FetchAccountBytes(ctx context.Context, address solana.PublicKey) ([]byte, error)
}

// Fetcher fetches and decodes the state a trade needs, then defers to
// Builder. Both fields are fixed at construction.
type Fetcher struct {
	builder *Builder
	ledger  LedgerQuery
}

// NewFetcher pairs a Builder with a ledger query.
func NewFetcher(builder *Builder, ledger LedgerQuery) (*Fetcher, error) {
	if builder == nil {
		return nil, types.NewValidationError("builder", "cannot be nil")
	}
	if ledger == nil {
		return nil, types.ErrNilLedger
	}
	return &Fetcher{builder: builder, ledger: ledger}, nil
}

// Builder returns the wrapped builder.
func (f *Fetcher) Builder() *Builder {
	return f.builder
}

// Global fetches and decodes the program's global config.
func (f *Fetcher) Global(ctx context.Context) (pump.GlobalConfig, error) {
	addr, err := f.builder.pdas.Global()
	if err != nil {
		return pump.GlobalConfig{}, fmt.Errorf("derive global: %w", err)
	}
	data, err := f.ledger.FetchAccountBytes(ctx, addr.Address())
	if errors.Is(err, types.ErrAccountNotFound) {
		return pump.GlobalConfig{}, fmt.Errorf("%w: %s", types.ErrGlobalNotFound, addr)
	}
	if err != nil {
		return pump.GlobalConfig{}, fmt.Errorf("fetch global %s: %w", addr, err)
	}
	return pump.DecodeGlobalConfig(data)
}

// BondingCurve fetches and decodes the curve of mint.
func (f *Fetcher) BondingCurve(ctx context.Context, mint solana.PublicKey) (pump.BondingCurveState, error) {
	if err := types.ValidatePublicKey("mint", mint); err != nil {
		return pump.BondingCurveState{}, err
	}
	addr, err := f.builder.pdas.BondingCurve(mint)
	if err != nil {
		return pump.BondingCurveState{}, fmt.Errorf("derive bonding curve for mint %s: %w", mint, err)
	}
	data, err := f.ledger.FetchAccountBytes(ctx, addr.Address())
	if errors.Is(err, types.ErrAccountNotFound) {
		return pump.BondingCurveState{}, fmt.Errorf("%w: mint %s", types.ErrCurveNotFound, mint)
	}
	if err != nil {
		return pump.BondingCurveState{}, fmt.Errorf("fetch bonding curve %s: %w", addr, err)
	}
	return pump.DecodeBondingCurve(data)
}

// State fetches global config and the curve of mint.
func (f *Fetcher) State(ctx context.Context, mint solana.PublicKey) (pump.GlobalConfig, pump.BondingCurveState, error) {
	global, err := f.Global(ctx)
	if err != nil {
		return pump.GlobalConfig{}, pump.BondingCurveState{}, err
	}
	state, err := f.BondingCurve(ctx, mint)
	if err != nil {
		return pump.GlobalConfig{}, pump.BondingCurveState{}, err
	}
	return global, state, nil
}

// Buy fetches current state and builds a buy.
func (f *Fetcher) Buy(ctx context.Context, p BuyParams, opts ...Option) ([]types.BuiltInstruction, error) {
	global, state, err := f.State(ctx, p.Mint)
	if err != nil {
		return nil, err
	}
	return f.builder.Buy(p, &global, &state, opts...)
}

// Sell fetches current state and builds a sell.
func (f *Fetcher) Sell(ctx context.Context, p SellParams, opts ...Option) ([]types.BuiltInstruction, error) {
	global, state, err := f.State(ctx, p.Mint)
	if err != nil {
		return nil, err
	}
	return f.builder.Sell(p, &global, &state, opts...)
}

// CreateAndBuy fetches the global config and builds create plus first buy.
func (f *Fetcher) CreateAndBuy(ctx context.Context, cp CreateParams, bp BuyParams, opts ...Option) ([]types.BuiltInstruction, error) {
	global, err := f.Global(ctx)
	if err != nil {
		return nil, err
	}
	return f.builder.CreateAndBuy(cp, global, bp, opts...)
}
