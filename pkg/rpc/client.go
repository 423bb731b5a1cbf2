// Package rpc reads raw account bytes from a Solana JSON-RPC endpoint. It is
// the ledger query the instruction builder's Fetcher consumes; it never sends
// transactions.
package rpc

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/ninja0404/pump-curve-sdk/pkg/config"
	"github.com/ninja0404/pump-curve-sdk/pkg/types"
)

// maxMultipleAccounts is the getMultipleAccounts page size the RPC accepts.
const maxMultipleAccounts = 100

// Client wraps solana-go rpc.Client with retry, timeout, and rate limiting.
// It is safe for concurrent use.
type Client struct {
	raw        *solanarpc.Client
	cfg        config.RPCConfig
	commitment solanarpc.CommitmentType
	limiter    *rate.Limiter
	log        zerolog.Logger
}

// NewClient builds a configured Client.
func NewClient(cfg config.RPCConfig) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	commitment, _ := config.ParseCommitment(cfg.Commitment)

	var limiter *rate.Limiter
	if cfg.RateLimit.RPS > 0 {
		burst := cfg.RateLimit.Burst
		if burst == 0 {
			burst = int(cfg.RateLimit.RPS * 2)
		}
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RPS), burst)
	}

	return &Client{
		raw:        solanarpc.New(cfg.ResolveRPCURL()),
		cfg:        cfg,
		commitment: solanarpc.CommitmentType(commitment),
		limiter:    limiter,
		log:        cfg.Logger.With().Str("component", "rpc").Logger(),
	}, nil
}

// Raw exposes the underlying solana-go client.
func (c *Client) Raw() *solanarpc.Client {
	return c.raw
}

// FetchAccountBytes returns the data of one account, or
// types.ErrAccountNotFound when it does not exist.
func (c *Client) FetchAccountBytes(ctx context.Context, address solana.PublicKey) ([]byte, error) {
	var data []byte
	err := c.call(ctx, "getAccountInfo", func(ctx context.Context) error {
		res, err := c.raw.GetAccountInfoWithOpts(ctx, address, &solanarpc.GetAccountInfoOpts{
			Commitment: c.commitment,
			Encoding:   solana.EncodingBase64,
		})
		if errors.Is(err, solanarpc.ErrNotFound) {
			return fmt.Errorf("%w: %s", types.ErrAccountNotFound, address)
		}
		if err != nil {
			return err
		}
		if res == nil || res.Value == nil || res.Value.Data == nil {
			return fmt.Errorf("%w: %s", types.ErrAccountNotFound, address)
		}
		data = res.Value.Data.GetBinary()
		return nil
	})
	return data, err
}

// FetchMultipleAccountBytes returns account data in the order of addresses.
// Missing accounts are nil entries; the call only fails on transport errors.
func (c *Client) FetchMultipleAccountBytes(ctx context.Context, addresses ...solana.PublicKey) ([][]byte, error) {
	out := make([][]byte, 0, len(addresses))
	for start := 0; start < len(addresses); start += maxMultipleAccounts {
		end := min(start+maxMultipleAccounts, len(addresses))
		page := addresses[start:end]

		var res *solanarpc.GetMultipleAccountsResult
		err := c.call(ctx, "getMultipleAccounts", func(ctx context.Context) error {
			var err error
			res, err = c.raw.GetMultipleAccountsWithOpts(ctx, page, &solanarpc.GetMultipleAccountsOpts{
				Commitment: c.commitment,
				Encoding:   solana.EncodingBase64,
			})
			return err
		})
		if err != nil {
			return nil, err
		}
		if res == nil || len(res.Value) != len(page) {
			return nil, types.RPCError{Op: "getMultipleAccounts", Err: fmt.Errorf("expected %d accounts in response", len(page))}
		}
		for _, acc := range res.Value {
			if acc == nil || acc.Data == nil {
				out = append(out, nil)
				continue
			}
			out = append(out, acc.Data.GetBinary())
		}
	}
	return out, nil
}

func (c *Client) call(ctx context.Context, op string, fn func(context.Context) error) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	attempts := 1
	if c.cfg.Retry.Enabled && c.cfg.Retry.MaxAttempts > 1 {
		attempts = c.cfg.Retry.MaxAttempts
	}

	var err error
	for i := 0; i < attempts; i++ {
		if c.limiter != nil {
			if werr := c.limiter.Wait(ctx); werr != nil {
				return types.RPCError{Op: op, Err: werr}
			}
		}

		err = fn(ctx)
		if err == nil {
			return nil
		}
		if !types.IsRetryableError(err) {
			if errors.Is(err, types.ErrAccountNotFound) {
				return err
			}
			return types.RPCError{Op: op, Err: err}
		}
		if i == attempts-1 {
			break
		}

		backoff := c.backoff(i)
		c.log.Debug().
			Str("op", op).
			Int("attempt", i+1).
			Dur("backoff", backoff).
			Err(err).
			Msg("rpc retry")

		select {
		case <-ctx.Done():
			return types.RPCError{Op: op, Err: ctx.Err()}
		case <-time.After(backoff):
		}
	}
	if attempts > 1 {
		return types.RPCError{Op: op, Err: fmt.Errorf("failed after %d attempts: %w", attempts, err)}
	}
	return types.RPCError{Op: op, Err: err}
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.cfg.Timeout)
}

func (c *Client) backoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	delay := c.cfg.Retry.InitialBackoff
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay > c.cfg.Retry.MaxBackoff && c.cfg.Retry.MaxBackoff > 0 {
			delay = c.cfg.Retry.MaxBackoff
			break
		}
	}
	if c.cfg.Retry.Jitter && delay > 1 {
		jitter := rand.Int63n(int64(delay / 2))
		delay = delay/2 + time.Duration(jitter)
	}
	return delay
}
