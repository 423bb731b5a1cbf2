package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"

	"github.com/ninja0404/pump-curve-sdk/pkg/constants"
	"github.com/ninja0404/pump-curve-sdk/pkg/program/pump"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func buyPayload(t *testing.T) []byte {
	t.Helper()
	accts := pump.BuyAccounts{
		Global:                 constants.PumpGlobal,
		FeeRecipient:           constants.PumpFeeRecipient,
		Mint:                   solana.NewWallet().PublicKey(),
		BondingCurve:           solana.NewWallet().PublicKey(),
		AssociatedBondingCurve: solana.NewWallet().PublicKey(),
		AssociatedUser:         solana.NewWallet().PublicKey(),
		User:                   solana.NewWallet().PublicKey(),
		CreatorVault:           solana.NewWallet().PublicKey(),
		EventAuthority:         constants.PumpEventAuthority,

		GlobalVolumeAccumulator: solana.NewWallet().PublicKey(),
		UserVolumeAccumulator:   solana.NewWallet().PublicKey(),
		FeeConfig:               solana.NewWallet().PublicKey(),
	}
	ix, err := pump.EncodeBuy(accts, pump.BuyArgs{Amount: 42, MaxSolCost: 1_000})
	require.NoError(t, err)
	return ix.Payload()
}

func TestDecodeBytes(t *testing.T) {
	raw := buyPayload(t)

	got, err := decodeBytes(base58.Encode(raw), "base58")
	require.NoError(t, err)
	require.Equal(t, raw, got)

	got, err = decodeBytes(base64.StdEncoding.EncodeToString(raw), "base64")
	require.NoError(t, err)
	require.Equal(t, raw, got)

	got, err = decodeBytes(base58.Encode(raw), "auto")
	require.NoError(t, err)
	require.Equal(t, raw, got)

	_, err = decodeBytes("abc", "hex")
	require.Error(t, err)
}

func TestInspectCmd(t *testing.T) {
	out, err := run(t, "inspect", base58.Encode(buyPayload(t)))
	require.NoError(t, err)

	var decoded struct {
		Variant string       `json:"variant"`
		Buy     pump.BuyArgs `json:"buy"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Equal(t, "buy", decoded.Variant)
	require.Equal(t, pump.BuyArgs{Amount: 42, MaxSolCost: 1_000}, decoded.Buy)

	_, err = run(t, "inspect", "--encoding", "base64", base64.StdEncoding.EncodeToString([]byte{1, 2, 3}))
	require.Error(t, err)
}

func TestInspectErrorCmd(t *testing.T) {
	out, err := run(t, "inspect", "--error", "6005")
	require.NoError(t, err)
	require.Contains(t, out, "BondingCurveComplete")

	out, err = run(t, "inspect", "--error", "Program failed: custom program error: 0x1772")
	require.NoError(t, err)
	require.Contains(t, out, "[6002]")
}

func TestDeriveCmd(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	out, err := run(t, "derive", mint.String(), "--creator", constants.PumpFeeRecipient.String())
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Contains(t, got["global"], constants.PumpGlobal.String())
	require.Contains(t, got["eventAuthority"], constants.PumpEventAuthority.String())
	require.Contains(t, got, "creatorVault")
	require.Contains(t, got, "feeConfig")
	require.Contains(t, got, "globalVolumeAccumulator")
	require.NotContains(t, got, "associatedUser")
	require.NotContains(t, got, "userVolumeAccumulator")
}

func TestBuildCreateCmd(t *testing.T) {
	mint, user := solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey()
	out, err := run(t, "build", "create",
		"--mint", mint.String(),
		"--user", user.String(),
		"--name", "Pumpix",
		"--symbol", "PIX",
		"--uri", "https://example.com/pix.json",
		"--cu-limit", "200000",
	)
	require.NoError(t, err)

	var ixs []struct {
		ProgramID string `json:"programId"`
		Data      string `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &ixs))
	require.Len(t, ixs, 2)
	require.Equal(t, pump.ProgramKey.String(), ixs[1].ProgramID)
}

func TestTipsCmd(t *testing.T) {
	out, err := run(t, "tips")
	require.NoError(t, err)
	var got []solana.PublicKey
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.NotEmpty(t, got)
}
