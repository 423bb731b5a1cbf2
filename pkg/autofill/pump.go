// Package autofill turns high-level create/buy/sell intent into finished pump
// instruction lists. It fills every derived account, prices trades against
// caller-supplied state and bundles the helper instructions a transaction
// usually needs (compute budget, token account, tip).
//
// Builder never touches the network; Fetcher wraps it with a LedgerQuery for
// callers that want state fetched for them.
package autofill

import (
	"encoding/json"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"github.com/ninja0404/pump-curve-sdk/pkg/config"
	"github.com/ninja0404/pump-curve-sdk/pkg/constants"
	"github.com/ninja0404/pump-curve-sdk/pkg/curve"
	"github.com/ninja0404/pump-curve-sdk/pkg/jito"
	"github.com/ninja0404/pump-curve-sdk/pkg/pda"
	"github.com/ninja0404/pump-curve-sdk/pkg/program/pump"
	"github.com/ninja0404/pump-curve-sdk/pkg/types"
)

// BuyMode selects what BuyParams.Amount measures.
type BuyMode int

const (
	// BuyExactTokens buys Amount token base units; the bound is the max SOL cost.
	BuyExactTokens BuyMode = iota
	// BuyExactSol spends Amount lamports, fee included; tokens are computed
	// from the curve after the fee.
	BuyExactSol
)

func (m BuyMode) String() string {
	switch m {
	case BuyExactTokens:
		return "exact_tokens"
	case BuyExactSol:
		return "exact_sol"
	}
	return fmt.Sprintf("BuyMode(%d)", int(m))
}

// CreateParams describes a new token. Mint is the public key of a fresh
// keypair the caller signs with.
type CreateParams struct {
	Mint    solana.PublicKey
	User    solana.PublicKey // fee payer and signer
	Creator solana.PublicKey // zero = User
	Name    string
	Symbol  string
	URI     string
}

// BuyParams describes a buy. Limit is an explicit max SOL cost; 0 derives it
// from SlippageBps.
type BuyParams struct {
	Mint        solana.PublicKey
	User        solana.PublicKey
	Amount      uint64
	Limit       uint64
	SlippageBps int64
	Mode        BuyMode
}

// SellParams describes a sell of Amount token base units. Limit is an
// explicit min SOL output; 0 derives it from SlippageBps.
type SellParams struct {
	Mint        solana.PublicKey
	User        solana.PublicKey
	Amount      uint64
	Limit       uint64
	SlippageBps int64
}

// Builder is the instruction facade. It holds only its config and is safe
// for concurrent use.
type Builder struct {
	cfg          config.BuilderConfig
	pdas         pda.Deriver
	tokenProgram solana.PublicKey
	log          zerolog.Logger
}

// New validates cfg and returns a Builder.
func New(cfg config.BuilderConfig) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	tokenProgram := cfg.TokenProgram
	if tokenProgram.IsZero() {
		tokenProgram = constants.TokenProgramID
	}
	return &Builder{
		cfg:          cfg,
		pdas:         pda.NewDeriver(cfg.ProgramID),
		tokenProgram: tokenProgram,
		log:          cfg.Logger.With().Str("component", "autofill").Logger(),
	}, nil
}

// Config returns the config the builder was created with.
func (b *Builder) Config() config.BuilderConfig {
	return b.cfg
}

// Deriver returns the address deriver bound to the builder's program id.
func (b *Builder) Deriver() pda.Deriver {
	return b.pdas
}

// Create builds the instructions creating a token and its bonding curve:
// optional compute budget, create, optional tip.
//
// The create instruction mints SPL Token (not Token-2022) regardless of the
// builder's token program.
func (b *Builder) Create(p CreateParams, opts ...Option) ([]types.BuiltInstruction, error) {
	options := collectOptions(opts)
	createIx, err := b.buildCreate(p, options)
	if err != nil {
		return nil, err
	}
	return b.assemble(p.User, options, createIx)
}

// CreateAndBuy creates a token and buys from its fresh curve in the same
// list. The buy is priced against global's initial reserves.
func (b *Builder) CreateAndBuy(cp CreateParams, global pump.GlobalConfig, bp BuyParams, opts ...Option) ([]types.BuiltInstruction, error) {
	options := collectOptions(opts)
	createIx, err := b.buildCreate(cp, options)
	if err != nil {
		return nil, err
	}
	if bp.Mint.IsZero() {
		bp.Mint = cp.Mint
	}
	if !bp.Mint.Equals(cp.Mint) {
		return nil, types.NewValidationError("mint", "buy mint differs from the created mint")
	}
	if bp.User.IsZero() {
		bp.User = cp.User
	}
	creator := cp.Creator
	if creator.IsZero() {
		creator = cp.User
	}
	state := global.NewCurve(creator)

	// a brand-new mint is always legacy SPL Token
	tradeIxs, err := b.buildBuy(bp, global, state, constants.TokenProgramID, options)
	if err != nil {
		return nil, err
	}
	return b.assemble(cp.User, options, append([]types.BuiltInstruction{createIx}, tradeIxs...)...)
}

// Buy builds a buy against the supplied state: optional compute budget,
// idempotent user token account creation, buy, optional tip.
func (b *Builder) Buy(p BuyParams, global *pump.GlobalConfig, state *pump.BondingCurveState, opts ...Option) ([]types.BuiltInstruction, error) {
	if global == nil {
		return nil, types.ErrGlobalNotFound
	}
	if state == nil {
		return nil, types.ErrCurveNotFound
	}
	options := collectOptions(opts)
	tradeIxs, err := b.buildBuy(p, *global, *state, b.tokenProgram, options)
	if err != nil {
		return nil, err
	}
	return b.assemble(p.User, options, tradeIxs...)
}

// Sell builds a sell against the supplied state: optional compute budget,
// sell, optional close of the user token account, optional tip.
func (b *Builder) Sell(p SellParams, global *pump.GlobalConfig, state *pump.BondingCurveState, opts ...Option) ([]types.BuiltInstruction, error) {
	if global == nil {
		return nil, types.ErrGlobalNotFound
	}
	if state == nil {
		return nil, types.ErrCurveNotFound
	}
	options := collectOptions(opts)
	if err := b.validateTrade(p.Mint, p.User, p.Amount); err != nil {
		return nil, err
	}
	q, err := curve.QuoteSell(*global, *state, p.Amount, p.SlippageBps)
	if err != nil {
		return nil, err
	}
	args := pump.SellArgs{Amount: p.Amount, MinSolOutput: q.MinSolOutput}
	if p.Limit > 0 {
		args.MinSolOutput = p.Limit
	}
	b.log.Debug().
		Str("mint", p.Mint.String()).
		Uint64("amount", args.Amount).
		Uint64("quotedSolOut", q.SolOut).
		Uint64("minSolOutput", args.MinSolOutput).
		Int64("slippageBps", p.SlippageBps).
		Msg("sell bounds")

	accts, err := b.tradeAccounts(p.Mint, p.User, *global, *state, b.tokenProgram)
	if err != nil {
		return nil, err
	}
	if err := applyPubkeyOverrides(&accts, options.Overrides); err != nil {
		return nil, err
	}
	ix, err := pump.EncodeSell(accts, args)
	if err != nil {
		return nil, err
	}
	if err := writePreview(options, accts, args); err != nil {
		return nil, err
	}

	ixs := []types.BuiltInstruction{ix}
	if options.CloseATA {
		ixs = append(ixs, buildCloseAccount(accts.AssociatedUser, accts.User, accts.User, accts.TokenProgram))
	}
	return b.assemble(p.User, options, ixs...)
}

// QuoteBuy prices p against state without building anything.
func (b *Builder) QuoteBuy(p BuyParams, global pump.GlobalConfig, state pump.BondingCurveState) (curve.BuyQuote, error) {
	switch p.Mode {
	case BuyExactTokens:
		return curve.QuoteBuyExactTokens(global, state, p.Amount, p.SlippageBps)
	case BuyExactSol:
		return curve.QuoteBuyWithSol(global, state, p.Amount, p.SlippageBps)
	}
	return curve.BuyQuote{}, types.NewValidationError("mode", "unknown buy mode "+p.Mode.String())
}

// QuoteSell prices p against state without building anything.
func (b *Builder) QuoteSell(p SellParams, global pump.GlobalConfig, state pump.BondingCurveState) (curve.SellQuote, error) {
	return curve.QuoteSell(global, state, p.Amount, p.SlippageBps)
}

func (b *Builder) validateTrade(mint, user solana.PublicKey, amount uint64) error {
	if err := types.ValidatePublicKeys([]string{"mint", "user"}, mint, user); err != nil {
		return err
	}
	return types.ValidateAmount("amount", amount)
}

func (b *Builder) buildCreate(p CreateParams, options *Options) (types.BuiltInstruction, error) {
	if err := types.ValidatePublicKeys([]string{"mint", "user"}, p.Mint, p.User); err != nil {
		return types.BuiltInstruction{}, err
	}
	creator := p.Creator
	if creator.IsZero() {
		creator = p.User
	}
	args := pump.CreateArgs{
		Name:    p.Name,
		Symbol:  p.Symbol,
		URI:     p.URI,
		Creator: creator,
	}
	accts, err := b.createAccounts(p.Mint, p.User)
	if err != nil {
		return types.BuiltInstruction{}, err
	}
	if err := applyPubkeyOverrides(&accts, options.Overrides); err != nil {
		return types.BuiltInstruction{}, err
	}
	ix, err := pump.EncodeCreate(accts, args)
	if err != nil {
		return types.BuiltInstruction{}, err
	}
	if err := writePreview(options, accts, args); err != nil {
		return types.BuiltInstruction{}, err
	}
	return ix, nil
}

// buildBuy returns the user ATA creation (unless skipped) followed by buy.
func (b *Builder) buildBuy(p BuyParams, global pump.GlobalConfig, state pump.BondingCurveState, tokenProgram solana.PublicKey, options *Options) ([]types.BuiltInstruction, error) {
	if err := b.validateTrade(p.Mint, p.User, p.Amount); err != nil {
		return nil, err
	}
	q, err := b.QuoteBuy(p, global, state)
	if err != nil {
		return nil, err
	}
	args := pump.BuyArgs{Amount: q.Tokens, MaxSolCost: q.MaxSolCost}
	if p.Limit > 0 {
		args.MaxSolCost = p.Limit
	}
	b.log.Debug().
		Str("mint", p.Mint.String()).
		Str("mode", p.Mode.String()).
		Uint64("tokens", args.Amount).
		Uint64("quotedSolCost", q.SolCost).
		Uint64("maxSolCost", args.MaxSolCost).
		Int64("slippageBps", p.SlippageBps).
		Msg("buy bounds")

	accts, err := b.tradeAccounts(p.Mint, p.User, global, state, tokenProgram)
	if err != nil {
		return nil, err
	}
	if err := applyPubkeyOverrides(&accts, options.Overrides); err != nil {
		return nil, err
	}
	ix, err := pump.EncodeBuy(accts, args)
	if err != nil {
		return nil, err
	}
	if err := writePreview(options, accts, args); err != nil {
		return nil, err
	}

	var ixs []types.BuiltInstruction
	if !options.SkipATA {
		ataIx, err := buildCreateATAIdempotent(accts.User, accts.User, accts.Mint, accts.TokenProgram)
		if err != nil {
			return nil, err
		}
		ixs = append(ixs, ataIx)
	}
	return append(ixs, ix), nil
}

func (b *Builder) createAccounts(mint, user solana.PublicKey) (pump.CreateAccounts, error) {
	accts := pump.CreateAccounts{
		Mint:                   mint,
		User:                   user,
		MplTokenMetadata:       constants.MetadataProgramID,
		SystemProgram:          constants.SystemProgramID,
		TokenProgram:           constants.TokenProgramID,
		AssociatedTokenProgram: constants.AssociatedTokenProgramID,
		Rent:                   constants.SysvarRentProgramID,
		Program:                b.pdas.ProgramID(),
	}
	mintAuthority, err := b.pdas.MintAuthority()
	if err != nil {
		return accts, fmt.Errorf("derive mint authority: %w", err)
	}
	accts.MintAuthority = mintAuthority.Address()

	bondingCurve, err := b.pdas.BondingCurve(mint)
	if err != nil {
		return accts, fmt.Errorf("derive bonding curve for mint %s: %w", mint, err)
	}
	accts.BondingCurve = bondingCurve.Address()

	assocBC, err := pda.AssociatedTokenAccount(accts.BondingCurve, mint, constants.TokenProgramID)
	if err != nil {
		return accts, fmt.Errorf("derive bonding curve ATA for mint %s: %w", mint, err)
	}
	accts.AssociatedBondingCurve = assocBC.Address()

	global, err := b.pdas.Global()
	if err != nil {
		return accts, fmt.Errorf("derive global: %w", err)
	}
	accts.Global = global.Address()

	metadata, err := pda.Metadata(mint)
	if err != nil {
		return accts, fmt.Errorf("derive metadata for mint %s: %w", mint, err)
	}
	accts.Metadata = metadata.Address()

	eventAuthority, err := b.pdas.EventAuthority()
	if err != nil {
		return accts, fmt.Errorf("derive event authority: %w", err)
	}
	accts.EventAuthority = eventAuthority.Address()
	return accts, nil
}

func (b *Builder) tradeAccounts(mint, user solana.PublicKey, global pump.GlobalConfig, state pump.BondingCurveState, tokenProgram solana.PublicKey) (pump.TradeAccounts, error) {
	accts := pump.TradeAccounts{
		Mint:          mint,
		User:          user,
		SystemProgram: constants.SystemProgramID,
		TokenProgram:  tokenProgram,
		Program:       b.pdas.ProgramID(),
	}

	accts.FeeRecipient = global.FeeRecipientFor()
	if accts.FeeRecipient.IsZero() {
		return accts, types.NewValidationError("feeRecipient", "global config has no fee recipient")
	}

	globalPDA, err := b.pdas.Global()
	if err != nil {
		return accts, fmt.Errorf("derive global: %w", err)
	}
	accts.Global = globalPDA.Address()

	bondingCurve, err := b.pdas.BondingCurve(mint)
	if err != nil {
		return accts, fmt.Errorf("derive bonding curve for mint %s: %w", mint, err)
	}
	accts.BondingCurve = bondingCurve.Address()

	assocBC, err := pda.AssociatedTokenAccount(accts.BondingCurve, mint, tokenProgram)
	if err != nil {
		return accts, fmt.Errorf("derive bonding curve ATA for mint %s: %w", mint, err)
	}
	accts.AssociatedBondingCurve = assocBC.Address()

	assocUser, err := pda.AssociatedTokenAccount(user, mint, tokenProgram)
	if err != nil {
		return accts, fmt.Errorf("derive user ATA for mint %s: %w", mint, err)
	}
	accts.AssociatedUser = assocUser.Address()

	vault, err := b.pdas.CreatorVault(state.Creator)
	if err != nil {
		return accts, fmt.Errorf("derive creator vault for %s: %w", state.Creator, err)
	}
	accts.CreatorVault = vault.Address()

	eventAuthority, err := b.pdas.EventAuthority()
	if err != nil {
		return accts, fmt.Errorf("derive event authority: %w", err)
	}
	accts.EventAuthority = eventAuthority.Address()

	// volume accumulators are only read by buy
	gva, err := b.pdas.GlobalVolumeAccumulator()
	if err != nil {
		return accts, fmt.Errorf("derive global volume accumulator: %w", err)
	}
	accts.GlobalVolumeAccumulator = gva.Address()

	uva, err := b.pdas.UserVolumeAccumulator(user)
	if err != nil {
		return accts, fmt.Errorf("derive user volume accumulator for %s: %w", user, err)
	}
	accts.UserVolumeAccumulator = uva.Address()

	feeConfig, err := b.pdas.FeeConfig()
	if err != nil {
		return accts, fmt.Errorf("derive fee config: %w", err)
	}
	accts.FeeConfig = feeConfig.Address()
	accts.FeeProgram = constants.PumpFeeProgramID
	return accts, nil
}

// assemble wraps core instructions with the compute budget prefix and the
// tip suffix.
func (b *Builder) assemble(payer solana.PublicKey, options *Options, core ...types.BuiltInstruction) ([]types.BuiltInstruction, error) {
	limit, price := options.ComputeUnitLimit, options.ComputeUnitPrice
	if limit == 0 {
		limit = b.cfg.ComputeUnitLimit
	}
	if price == 0 {
		price = b.cfg.ComputeUnitPrice
	}
	out, err := buildComputeBudget(limit, price)
	if err != nil {
		return nil, err
	}
	out = append(out, core...)

	if options.JitoTipLamports > 0 {
		tipIx, err := jito.TipInstruction(payer, options.JitoTipAccount, options.JitoTipLamports)
		if err != nil {
			return nil, err
		}
		out = append(out, tipIx)
	}
	return out, nil
}

func writePreview(options *Options, accounts, args any) error {
	if options.Preview == nil {
		return nil
	}
	err := json.NewEncoder(options.Preview).Encode(struct {
		Accounts any `json:"accounts"`
		Args     any `json:"args"`
	}{accounts, args})
	if err != nil {
		return fmt.Errorf("write preview: %w", err)
	}
	return nil
}
