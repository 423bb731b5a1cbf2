package main

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"

	"github.com/ninja0404/pump-curve-sdk/pkg/autofill"
)

// parsePubkey converts base58 string to PublicKey.
func parsePubkey(label, v string) (solana.PublicKey, error) {
	if v == "" {
		return solana.PublicKey{}, fmt.Errorf("%s is required", label)
	}
	pk, err := solana.PublicKeyFromBase58(v)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%s invalid pubkey: %w", label, err)
	}
	return pk, nil
}

// parseOptionalPubkey is parsePubkey that maps "" to the zero key.
func parseOptionalPubkey(label, v string) (solana.PublicKey, error) {
	if v == "" {
		return solana.PublicKey{}, nil
	}
	return parsePubkey(label, v)
}

// loadOverrides reads a JSON map of base58 pubkeys keyed by account name.
func loadOverrides(path string) (map[string]solana.PublicKey, error) {
	if path == "" {
		return nil, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read accounts json: %w", err)
	}
	m, err := autofill.MergeOverridesFromJSON(nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse accounts json: %w", err)
	}
	return m, nil
}

// decodeBytes accepts base58 (explorer style) or base64 (RPC style) input.
func decodeBytes(s, encoding string) ([]byte, error) {
	switch encoding {
	case "base58":
		return base58.Decode(s)
	case "base64":
		return base64.StdEncoding.DecodeString(s)
	case "", "auto":
		if bz, err := base58.Decode(s); err == nil {
			return bz, nil
		}
		bz, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("input is neither base58 nor base64")
		}
		return bz, nil
	}
	return nil, fmt.Errorf("unknown encoding %q (base58|base64|auto)", encoding)
}
