package types

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/ninja0404/pump-curve-sdk/pkg/constants"
)

// ValidateAmount rejects zero trade sizes.
func ValidateAmount(field string, amount uint64) error {
	if amount == 0 {
		return ValidationError{Field: field, Message: "must be greater than 0", Err: ErrZeroAmount}
	}
	return nil
}

// ValidateSlippage validates slippage basis points.
func ValidateSlippage(slippageBps int64) error {
	if slippageBps < 0 || slippageBps > constants.BasisPointsDenominator {
		return fmt.Errorf("%w: got %d", ErrInvalidSlippage, slippageBps)
	}
	return nil
}

// ValidatePublicKey validates a public key is not zero.
func ValidatePublicKey(name string, key solana.PublicKey) error {
	if key.IsZero() {
		return ValidationError{Field: name, Message: "cannot be zero", Err: ErrInvalidPublicKey}
	}
	return nil
}

// ValidatePublicKeys validates multiple public keys in the given order.
func ValidatePublicKeys(names []string, keys ...solana.PublicKey) error {
	for i, key := range keys {
		name := fmt.Sprintf("key[%d]", i)
		if i < len(names) {
			name = names[i]
		}
		if err := ValidatePublicKey(name, key); err != nil {
			return err
		}
	}
	return nil
}

// ValidateString checks a caller-supplied string against the byte capacity the
// program reserves for it.
func ValidateString(field, value string, maxLen int) error {
	if value == "" {
		return NewValidationError(field, "cannot be empty")
	}
	if len(value) > maxLen {
		return NewValidationError(field, fmt.Sprintf("must be at most %d bytes, got %d", maxLen, len(value)))
	}
	return nil
}

// ValidateTokenMetadata validates name, symbol and uri for token creation.
func ValidateTokenMetadata(name, symbol, uri string) error {
	if err := ValidateString("name", name, constants.MaxNameLen); err != nil {
		return err
	}
	if err := ValidateString("symbol", symbol, constants.MaxSymbolLen); err != nil {
		return err
	}
	return ValidateString("uri", uri, constants.MaxURILen)
}
