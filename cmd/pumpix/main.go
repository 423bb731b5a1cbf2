package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ninja0404/pump-curve-sdk/pkg/autofill"
	sdkconfig "github.com/ninja0404/pump-curve-sdk/pkg/config"
	sdkrpc "github.com/ninja0404/pump-curve-sdk/pkg/rpc"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalOpts struct {
	rpcURL         string
	commitment     string
	retryAttempts  int
	retryBackoffMs int
	rateLimitRPS   float64
	logLevel       string
	timeoutSec     int
}

func newRootCmd() *cobra.Command {
	opts := &globalOpts{}

	root := &cobra.Command{
		Use:          "pumpix",
		Short:        "pump bonding-curve instruction builder (never signs or sends)",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.rpcURL, "rpc-url", "", "RPC endpoint (default mainnet if empty)")
	root.PersistentFlags().StringVar(&opts.commitment, "commitment", sdkconfig.CommitmentConfirmed, "RPC commitment level")
	root.PersistentFlags().IntVar(&opts.retryAttempts, "retry-attempts", 3, "RPC retry attempts")
	root.PersistentFlags().IntVar(&opts.retryBackoffMs, "retry-backoff-ms", 150, "initial backoff in ms")
	root.PersistentFlags().Float64Var(&opts.rateLimitRPS, "rate-limit-rps", 8, "rate limit RPS (0 to disable)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug|info|warn|error)")
	root.PersistentFlags().IntVar(&opts.timeoutSec, "timeout-sec", 20, "RPC timeout seconds")

	root.AddCommand(
		newConfigCmd(opts),
		newDeriveCmd(),
		newQuoteCmd(opts),
		newBuildCmd(opts),
		newInspectCmd(),
		newAccountCmd(opts),
		newTipsCmd(),
	)

	return root
}

func newConfigCmd(opts *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show effective config",
		RunE: func(cmd *cobra.Command, args []string) error {
			rpcCfg := rpcConfigFromOpts(opts, cmd)
			bCfg := sdkconfig.DefaultBuilderConfig()
			return printJSON(cmd, map[string]any{
				"network":            rpcCfg.Network,
				"rpc":                rpcCfg.ResolveRPCURL(),
				"commitment":         rpcCfg.Commitment,
				"timeout":            rpcCfg.Timeout.String(),
				"retryAttempts":      rpcCfg.Retry.MaxAttempts,
				"rateLimitRps":       rpcCfg.RateLimit.RPS,
				"program":            bCfg.ProgramID.String(),
				"tokenProgram":       bCfg.TokenProgram.String(),
				"defaultSlippageBps": bCfg.DefaultSlippageBps,
			})
		},
	}
}

func newLogger(cmd *cobra.Command, opts *globalOpts) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen}).
		Level(parseLogLevel(opts.logLevel)).
		With().Timestamp().Logger()
}

func rpcConfigFromOpts(opts *globalOpts, cmd *cobra.Command) sdkconfig.RPCConfig {
	cfg := sdkconfig.DefaultRPCConfig()
	if opts.rpcURL != "" {
		cfg.RPCURL = opts.rpcURL
		cfg.Network = sdkconfig.NetworkCustom
	}
	if opts.commitment != "" {
		cfg.Commitment = opts.commitment
	}
	cfg.RateLimit.RPS = opts.rateLimitRPS
	if opts.retryAttempts > 0 {
		cfg.Retry.MaxAttempts = opts.retryAttempts
	}
	if opts.retryBackoffMs > 0 {
		cfg.Retry.InitialBackoff = time.Duration(opts.retryBackoffMs) * time.Millisecond
	}
	if opts.timeoutSec > 0 {
		cfg.Timeout = time.Duration(opts.timeoutSec) * time.Second
	}
	cfg.Logger = newLogger(cmd, opts)
	return cfg
}

// newFetcher wires the RPC client into a builder-backed fetcher.
func newFetcher(cmd *cobra.Command, opts *globalOpts, bCfg sdkconfig.BuilderConfig) (*autofill.Fetcher, error) {
	client, err := sdkrpc.NewClient(rpcConfigFromOpts(opts, cmd))
	if err != nil {
		return nil, err
	}
	bCfg.Logger = newLogger(cmd, opts)
	builder, err := autofill.New(bCfg)
	if err != nil {
		return nil, err
	}
	return autofill.NewFetcher(builder, client)
}

func parseLogLevel(lvl string) zerolog.Level {
	switch strings.ToLower(lvl) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return nil
}
