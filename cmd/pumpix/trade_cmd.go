package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ninja0404/pump-curve-sdk/pkg/autofill"
	sdkconfig "github.com/ninja0404/pump-curve-sdk/pkg/config"
	"github.com/ninja0404/pump-curve-sdk/pkg/constants"
	"github.com/ninja0404/pump-curve-sdk/pkg/curve"
	"github.com/ninja0404/pump-curve-sdk/pkg/program/pump"
)

// tradeFlags are shared by quote and build.
type tradeFlags struct {
	mintStr      string
	userStr      string
	amount       uint64
	limit        uint64
	slippageBps  int64
	mode         string
	token2022    bool
	programStr   string
	cuLimit      uint32
	cuPrice      uint64
	tipLamports  uint64
	tipAccount   string
	skipATA      bool
	closeATA     bool
	overridePath string
	preview      bool
}

func (f *tradeFlags) register(cmd *cobra.Command, isBuy, withBuildOpts bool) {
	cmd.Flags().StringVar(&f.mintStr, "mint", "", "mint pubkey")
	cmd.Flags().StringVar(&f.userStr, "user", "", "user pubkey (signer)")
	cmd.Flags().Int64Var(&f.slippageBps, "slippage-bps", sdkconfig.DefaultBuilderConfig().DefaultSlippageBps, "slippage in basis points (0-10000)")
	cmd.Flags().BoolVar(&f.token2022, "token-2022", false, "mint is owned by Token-2022")
	cmd.Flags().StringVar(&f.programStr, "program", "", "pump program id (default mainnet)")
	if isBuy {
		cmd.Flags().Uint64Var(&f.amount, "amount", 0, "tokens (base units) or lamports, see --mode")
		cmd.Flags().StringVar(&f.mode, "mode", "tokens", "what --amount measures (tokens|sol)")
	} else {
		cmd.Flags().Uint64Var(&f.amount, "amount", 0, "tokens to sell (base units)")
	}
	_ = cmd.MarkFlagRequired("mint")
	_ = cmd.MarkFlagRequired("amount")
	if !withBuildOpts {
		return
	}
	_ = cmd.MarkFlagRequired("user")
	if isBuy {
		cmd.Flags().Uint64Var(&f.limit, "max-sol-cost", 0, "explicit max SOL cost in lamports (0 = from slippage)")
		cmd.Flags().BoolVar(&f.skipATA, "skip-ata", false, "do not bundle user token account creation")
	} else {
		cmd.Flags().Uint64Var(&f.limit, "min-sol-output", 0, "explicit min SOL output in lamports (0 = from slippage)")
		cmd.Flags().BoolVar(&f.closeATA, "close-ata", false, "close the user token account after selling")
	}
	cmd.Flags().Uint32Var(&f.cuLimit, "cu-limit", 0, "compute unit limit (0 = none)")
	cmd.Flags().Uint64Var(&f.cuPrice, "cu-price", 0, "compute unit price in micro-lamports (0 = none)")
	cmd.Flags().Uint64Var(&f.tipLamports, "tip-lamports", 0, "Jito tip in lamports (0 = none)")
	cmd.Flags().StringVar(&f.tipAccount, "tip-account", "", "Jito tip account (default random)")
	cmd.Flags().StringVar(&f.overridePath, "override-json", "", "optional partial accounts override json")
	cmd.Flags().BoolVar(&f.preview, "preview", false, "also print resolved accounts and args to stderr")
}

func (f *tradeFlags) builderConfig() (sdkconfig.BuilderConfig, error) {
	cfg := sdkconfig.DefaultBuilderConfig()
	program, err := parseOptionalPubkey("program", f.programStr)
	if err != nil {
		return cfg, err
	}
	if !program.IsZero() {
		cfg.ProgramID = program
	}
	if f.token2022 {
		cfg.TokenProgram = constants.Token2022ProgramID
	}
	return cfg, nil
}

func (f *tradeFlags) buyMode() (autofill.BuyMode, error) {
	switch f.mode {
	case "tokens", "":
		return autofill.BuyExactTokens, nil
	case "sol":
		return autofill.BuyExactSol, nil
	}
	return 0, fmt.Errorf("unknown --mode %q (tokens|sol)", f.mode)
}

func (f *tradeFlags) options(cmd *cobra.Command) ([]autofill.Option, error) {
	var opts []autofill.Option
	if f.cuLimit > 0 {
		opts = append(opts, autofill.WithComputeUnitLimit(f.cuLimit))
	}
	if f.cuPrice > 0 {
		opts = append(opts, autofill.WithComputeUnitPrice(f.cuPrice))
	}
	if f.tipLamports > 0 {
		opts = append(opts, autofill.WithJitoTip(f.tipLamports))
		tip, err := parseOptionalPubkey("tip-account", f.tipAccount)
		if err != nil {
			return nil, err
		}
		if !tip.IsZero() {
			opts = append(opts, autofill.WithJitoTipAccount(tip))
		}
	}
	if f.skipATA {
		opts = append(opts, autofill.WithSkipATA())
	}
	if f.closeATA {
		opts = append(opts, autofill.WithCloseATA())
	}
	overrides, err := loadOverrides(f.overridePath)
	if err != nil {
		return nil, err
	}
	if len(overrides) > 0 {
		opts = append(opts, autofill.WithOverrides(overrides))
	}
	if f.preview {
		opts = append(opts, autofill.WithPreview(cmd.ErrOrStderr()))
	}
	return opts, nil
}

func (f *tradeFlags) buyParams() (autofill.BuyParams, error) {
	mint, err := parsePubkey("mint", f.mintStr)
	if err != nil {
		return autofill.BuyParams{}, err
	}
	user, err := parseOptionalPubkey("user", f.userStr)
	if err != nil {
		return autofill.BuyParams{}, err
	}
	mode, err := f.buyMode()
	if err != nil {
		return autofill.BuyParams{}, err
	}
	return autofill.BuyParams{
		Mint:        mint,
		User:        user,
		Amount:      f.amount,
		Limit:       f.limit,
		SlippageBps: f.slippageBps,
		Mode:        mode,
	}, nil
}

func (f *tradeFlags) sellParams() (autofill.SellParams, error) {
	mint, err := parsePubkey("mint", f.mintStr)
	if err != nil {
		return autofill.SellParams{}, err
	}
	user, err := parseOptionalPubkey("user", f.userStr)
	if err != nil {
		return autofill.SellParams{}, err
	}
	return autofill.SellParams{
		Mint:        mint,
		User:        user,
		Amount:      f.amount,
		Limit:       f.limit,
		SlippageBps: f.slippageBps,
	}, nil
}

func commandContext(cmd *cobra.Command, opts *globalOpts) (context.Context, context.CancelFunc) {
	timeout := time.Duration(opts.timeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return context.WithTimeout(cmd.Context(), timeout)
}

type stateView struct {
	Complete             bool   `json:"complete"`
	VirtualTokenReserves uint64 `json:"virtualTokenReserves"`
	VirtualSolReserves   uint64 `json:"virtualSolReserves"`
	RealTokenReserves    uint64 `json:"realTokenReserves"`
	RealSolReserves      uint64 `json:"realSolReserves"`
	Creator              string `json:"creator"`
	SpotPriceSol         string `json:"spotPriceSol"`
	MarketCapSol         string `json:"marketCapSol"`
}

func viewState(s pump.BondingCurveState) stateView {
	return stateView{
		Complete:             s.Complete,
		VirtualTokenReserves: s.VirtualTokenReserves,
		VirtualSolReserves:   s.VirtualSolReserves,
		RealTokenReserves:    s.RealTokenReserves,
		RealSolReserves:      s.RealSolReserves,
		Creator:              s.Creator.String(),
		SpotPriceSol:         curve.SpotPrice(s).String(),
		MarketCapSol:         curve.MarketCap(s).StringFixed(3),
	}
}

func newQuoteCmd(opts *globalOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a trade against live curve state",
	}
	cmd.AddCommand(newQuoteBuyCmd(opts), newQuoteSellCmd(opts))
	return cmd
}

func newQuoteBuyCmd(opts *globalOpts) *cobra.Command {
	f := &tradeFlags{}
	cmd := &cobra.Command{
		Use:   "buy",
		Short: "Quote a buy",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd, opts)
			defer cancel()

			params, err := f.buyParams()
			if err != nil {
				return err
			}
			bCfg, err := f.builderConfig()
			if err != nil {
				return err
			}
			fetcher, err := newFetcher(cmd, opts, bCfg)
			if err != nil {
				return err
			}
			global, state, err := fetcher.State(ctx, params.Mint)
			if err != nil {
				return err
			}
			q, err := fetcher.Builder().QuoteBuy(params, global, state)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{
				"quote":      q,
				"tokensUi":   curve.TokensToUI(q.Tokens).String(),
				"solCostSol": curve.LamportsToSol(q.SolCost).String(),
				"curve":      viewState(state),
			})
		},
	}
	f.register(cmd, true, false)
	return cmd
}

func newQuoteSellCmd(opts *globalOpts) *cobra.Command {
	f := &tradeFlags{}
	cmd := &cobra.Command{
		Use:   "sell",
		Short: "Quote a sell",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd, opts)
			defer cancel()

			params, err := f.sellParams()
			if err != nil {
				return err
			}
			bCfg, err := f.builderConfig()
			if err != nil {
				return err
			}
			fetcher, err := newFetcher(cmd, opts, bCfg)
			if err != nil {
				return err
			}
			global, state, err := fetcher.State(ctx, params.Mint)
			if err != nil {
				return err
			}
			q, err := fetcher.Builder().QuoteSell(params, global, state)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{
				"quote":     q,
				"solOutSol": curve.LamportsToSol(q.SolOut).String(),
				"curve":     viewState(state),
			})
		},
	}
	f.register(cmd, false, false)
	return cmd
}

func newBuildCmd(opts *globalOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build instructions and print them as JSON",
	}
	cmd.AddCommand(newBuildCreateCmd(opts), newBuildBuyCmd(opts), newBuildSellCmd(opts))
	return cmd
}

func newBuildBuyCmd(opts *globalOpts) *cobra.Command {
	f := &tradeFlags{}
	cmd := &cobra.Command{
		Use:   "buy",
		Short: "Build a buy against live curve state",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd, opts)
			defer cancel()

			params, err := f.buyParams()
			if err != nil {
				return err
			}
			bCfg, err := f.builderConfig()
			if err != nil {
				return err
			}
			ixOpts, err := f.options(cmd)
			if err != nil {
				return err
			}
			fetcher, err := newFetcher(cmd, opts, bCfg)
			if err != nil {
				return err
			}
			ixs, err := fetcher.Buy(ctx, params, ixOpts...)
			if err != nil {
				return err
			}
			return printJSON(cmd, ixs)
		},
	}
	f.register(cmd, true, true)
	return cmd
}

func newBuildSellCmd(opts *globalOpts) *cobra.Command {
	f := &tradeFlags{}
	cmd := &cobra.Command{
		Use:   "sell",
		Short: "Build a sell against live curve state",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd, opts)
			defer cancel()

			params, err := f.sellParams()
			if err != nil {
				return err
			}
			bCfg, err := f.builderConfig()
			if err != nil {
				return err
			}
			ixOpts, err := f.options(cmd)
			if err != nil {
				return err
			}
			fetcher, err := newFetcher(cmd, opts, bCfg)
			if err != nil {
				return err
			}
			ixs, err := fetcher.Sell(ctx, params, ixOpts...)
			if err != nil {
				return err
			}
			return printJSON(cmd, ixs)
		},
	}
	f.register(cmd, false, true)
	return cmd
}

func newBuildCreateCmd(opts *globalOpts) *cobra.Command {
	var (
		mintStr    string
		userStr    string
		creatorStr string
		name       string
		symbol     string
		uri        string
		buySol     uint64
	)
	f := &tradeFlags{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Build a token creation, optionally with a first buy",
		RunE: func(cmd *cobra.Command, args []string) error {
			mint, err := parsePubkey("mint", mintStr)
			if err != nil {
				return err
			}
			user, err := parsePubkey("user", userStr)
			if err != nil {
				return err
			}
			creator, err := parseOptionalPubkey("creator", creatorStr)
			if err != nil {
				return err
			}
			cp := autofill.CreateParams{
				Mint:    mint,
				User:    user,
				Creator: creator,
				Name:    name,
				Symbol:  symbol,
				URI:     uri,
			}
			bCfg, err := f.builderConfig()
			if err != nil {
				return err
			}
			ixOpts, err := f.options(cmd)
			if err != nil {
				return err
			}

			if buySol == 0 {
				bCfg.Logger = newLogger(cmd, opts)
				builder, err := autofill.New(bCfg)
				if err != nil {
					return err
				}
				ixs, err := builder.Create(cp, ixOpts...)
				if err != nil {
					return err
				}
				return printJSON(cmd, ixs)
			}

			ctx, cancel := commandContext(cmd, opts)
			defer cancel()
			fetcher, err := newFetcher(cmd, opts, bCfg)
			if err != nil {
				return err
			}
			ixs, err := fetcher.CreateAndBuy(ctx, cp, autofill.BuyParams{
				Amount:      buySol,
				Limit:       f.limit,
				SlippageBps: f.slippageBps,
				Mode:        autofill.BuyExactSol,
			}, ixOpts...)
			if err != nil {
				return err
			}
			return printJSON(cmd, ixs)
		},
	}

	cmd.Flags().StringVar(&mintStr, "mint", "", "new mint pubkey (signer)")
	cmd.Flags().StringVar(&userStr, "user", "", "payer pubkey (signer)")
	cmd.Flags().StringVar(&creatorStr, "creator", "", "creator receiving creator fees (default user)")
	cmd.Flags().StringVar(&name, "name", "", "token name (<= 32 bytes)")
	cmd.Flags().StringVar(&symbol, "symbol", "", "token symbol (<= 10 bytes)")
	cmd.Flags().StringVar(&uri, "uri", "", "metadata uri (<= 200 bytes)")
	cmd.Flags().Uint64Var(&buySol, "buy-sol", 0, "lamports to spend on a first buy (0 = create only)")
	cmd.Flags().Int64Var(&f.slippageBps, "slippage-bps", sdkconfig.DefaultBuilderConfig().DefaultSlippageBps, "slippage for the first buy")
	cmd.Flags().Uint64Var(&f.limit, "max-sol-cost", 0, "explicit max SOL cost of the first buy")
	cmd.Flags().StringVar(&f.programStr, "program", "", "pump program id (default mainnet)")
	cmd.Flags().Uint32Var(&f.cuLimit, "cu-limit", 0, "compute unit limit (0 = none)")
	cmd.Flags().Uint64Var(&f.cuPrice, "cu-price", 0, "compute unit price in micro-lamports (0 = none)")
	cmd.Flags().Uint64Var(&f.tipLamports, "tip-lamports", 0, "Jito tip in lamports (0 = none)")
	cmd.Flags().StringVar(&f.tipAccount, "tip-account", "", "Jito tip account (default random)")
	cmd.Flags().StringVar(&f.overridePath, "override-json", "", "optional partial accounts override json")
	cmd.Flags().BoolVar(&f.preview, "preview", false, "also print resolved accounts and args to stderr")
	_ = cmd.MarkFlagRequired("mint")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("symbol")
	_ = cmd.MarkFlagRequired("uri")

	return cmd
}
