package autofill

import (
	"encoding/json"
	"io"

	"github.com/gagliardetto/solana-go"
)

// Options configures a single facade call. Zero values mean "not requested";
// compute budget fields fall back to the Builder's config.
type Options struct {
	Overrides        map[string]solana.PublicKey
	Preview          io.Writer
	ComputeUnitLimit uint32           // 0 = config default
	ComputeUnitPrice uint64           // micro-lamports per unit, 0 = config default
	SkipATA          bool             // Do not bundle idempotent creation of the user's token account
	CloseATA         bool             // Close the user's token account after sell
	JitoTipLamports  uint64           // Jito tip amount in lamports (0 = no tip)
	JitoTipAccount   solana.PublicKey // Jito tip account (if zero, uses random from predefined list)
}

// Option functional option.
type Option func(*Options)

// WithOverrides replaces derived accounts by field name, lowerCamel or
// snake_case (e.g. "FeeRecipient", "feeRecipient", "fee_recipient").
func WithOverrides(m map[string]solana.PublicKey) Option {
	return func(o *Options) { o.Overrides = m }
}

// WithPreview writes the resolved accounts and args as JSON to w.
func WithPreview(w io.Writer) Option {
	return func(o *Options) { o.Preview = w }
}

// WithComputeUnitLimit prepends a SetComputeUnitLimit instruction.
func WithComputeUnitLimit(units uint32) Option {
	return func(o *Options) { o.ComputeUnitLimit = units }
}

// WithComputeUnitPrice prepends a SetComputeUnitPrice instruction.
func WithComputeUnitPrice(microLamports uint64) Option {
	return func(o *Options) { o.ComputeUnitPrice = microLamports }
}

// WithSkipATA leaves out the idempotent user token account creation on buy.
// Use it when the account is known to exist.
func WithSkipATA() Option {
	return func(o *Options) { o.SkipATA = true }
}

// WithCloseATA closes the user's token account after sell and returns its rent.
// Only use when you are selling ALL tokens in the account.
// The account must have zero balance after the sell for close to succeed.
func WithCloseATA() Option {
	return func(o *Options) { o.CloseATA = true }
}

// WithJitoTip adds a Jito tip transfer instruction at the end of the list.
// tipLamports: amount to tip in lamports (e.g., 1_000_000 = 0.001 SOL)
//
// Example:
//
//	ixs, err := b.Buy(params, &global, &curve,
//	    autofill.WithJitoTip(1_000_000), // 0.001 SOL tip
//	)
func WithJitoTip(tipLamports uint64) Option {
	return func(o *Options) { o.JitoTipLamports = tipLamports }
}

// WithJitoTipAccount specifies a custom Jito tip account.
// Use this with WithJitoTip to use a specific tip account instead of a random one.
func WithJitoTipAccount(account solana.PublicKey) Option {
	return func(o *Options) { o.JitoTipAccount = account }
}

func collectOptions(opts []Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}
	return options
}

// MergeOverridesFromJSON merges base58 pubkeys from JSON blob into map.
func MergeOverridesFromJSON(dst map[string]solana.PublicKey, jsonBytes []byte) (map[string]solana.PublicKey, error) {
	if dst == nil {
		dst = make(map[string]solana.PublicKey)
	}
	var m map[string]string
	if err := json.Unmarshal(jsonBytes, &m); err != nil {
		return nil, err
	}
	for k, v := range m {
		pk, err := solana.PublicKeyFromBase58(v)
		if err != nil {
			return nil, err
		}
		dst[k] = pk
	}
	return dst, nil
}
