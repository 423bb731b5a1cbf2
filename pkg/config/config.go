// Package config holds the settings of the instruction builder and of the
// optional ledger query client.
package config

import (
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"github.com/ninja0404/pump-curve-sdk/pkg/constants"
	"github.com/ninja0404/pump-curve-sdk/pkg/types"
)

// Network names a Solana cluster.
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkDevnet  Network = "devnet"
	NetworkCustom  Network = "custom"
)

// DefaultRPCURL returns the public endpoint of a known cluster.
func DefaultRPCURL(network Network) string {
	switch network {
	case NetworkMainnet:
		return "https://api.mainnet-beta.solana.com"
	case NetworkDevnet:
		return "https://api.devnet.solana.com"
	default:
		return ""
	}
}

// Commitment levels accepted by ParseCommitment.
const (
	CommitmentProcessed = "processed"
	CommitmentConfirmed = "confirmed"
	CommitmentFinalized = "finalized"
)

// ParseCommitment validates a commitment string.
func ParseCommitment(s string) (string, error) {
	switch s {
	case CommitmentProcessed, CommitmentConfirmed, CommitmentFinalized:
		return s, nil
	case "":
		return CommitmentConfirmed, nil
	}
	return "", types.NewValidationError("commitment", fmt.Sprintf("unknown commitment %q", s))
}

// RetryConfig controls retries of ledger reads.
type RetryConfig struct {
	Enabled        bool
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Jitter         bool
}

// RateLimitConfig throttles outbound RPC calls.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// RPCConfig configures the ledger query client.
type RPCConfig struct {
	Network    Network
	RPCURL     string
	Commitment string
	Timeout    time.Duration
	Retry      RetryConfig
	RateLimit  RateLimitConfig
	Logger     zerolog.Logger
}

// DefaultRPCConfig reads account state at confirmed commitment on mainnet.
func DefaultRPCConfig() RPCConfig {
	return RPCConfig{
		Network:    NetworkMainnet,
		RPCURL:     DefaultRPCURL(NetworkMainnet),
		Commitment: CommitmentConfirmed,
		Timeout:    20 * time.Second,
		Retry: RetryConfig{
			Enabled:        true,
			MaxAttempts:    3,
			InitialBackoff: 150 * time.Millisecond,
			MaxBackoff:     2 * time.Second,
			Jitter:         true,
		},
		RateLimit: RateLimitConfig{
			RPS:   8,
			Burst: 16,
		},
		Logger: zerolog.Nop(),
	}
}

// ResolveRPCURL returns RPCURL if set, otherwise the network default.
func (c RPCConfig) ResolveRPCURL() string {
	if c.RPCURL != "" {
		return c.RPCURL
	}
	return DefaultRPCURL(c.Network)
}

// Validate reports the first unusable setting.
func (c RPCConfig) Validate() error {
	if c.ResolveRPCURL() == "" {
		return types.NewValidationError("rpcURL", "required for network "+string(c.Network))
	}
	if _, err := ParseCommitment(c.Commitment); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return types.NewValidationError("timeout", "cannot be negative")
	}
	if c.RateLimit.RPS < 0 {
		return types.NewValidationError("rateLimit.rps", "cannot be negative")
	}
	if c.Retry.Enabled && c.Retry.MaxAttempts < 1 {
		return types.NewValidationError("retry.maxAttempts", "must be at least 1 when retries are enabled")
	}
	return nil
}

// BuilderConfig configures the instruction builder. It is read once at
// construction and never mutated afterwards.
type BuilderConfig struct {
	// ProgramID selects the pump deployment; zero means mainnet.
	ProgramID solana.PublicKey
	// TokenProgram owns new mints and is used for ATA derivation; zero means SPL Token.
	TokenProgram solana.PublicKey
	// DefaultSlippageBps is what front ends offer when the user names none.
	// Trade params always carry their own value.
	DefaultSlippageBps int64
	// ComputeUnitLimit and ComputeUnitPrice prepend compute budget
	// instructions when non-zero. Price is in micro-lamports per unit.
	ComputeUnitLimit uint32
	ComputeUnitPrice uint64
	Logger           zerolog.Logger
}

// DefaultBuilderConfig targets mainnet with 1% default slippage and no
// compute budget instructions.
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		ProgramID:          constants.PumpProgramID,
		TokenProgram:       constants.TokenProgramID,
		DefaultSlippageBps: 100,
		Logger:             zerolog.Nop(),
	}
}

// Validate reports the first unusable setting.
func (c BuilderConfig) Validate() error {
	if err := types.ValidateSlippage(c.DefaultSlippageBps); err != nil {
		return fmt.Errorf("default slippage: %w", err)
	}
	return nil
}
