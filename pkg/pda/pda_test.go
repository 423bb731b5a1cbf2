package pda

import (
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/ninja0404/pump-curve-sdk/pkg/constants"
	"github.com/ninja0404/pump-curve-sdk/pkg/types"
)

func TestDeriveMatchesFindProgramAddress(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	cases := [][][]byte{
		{[]byte(constants.SeedGlobal)},
		{[]byte(constants.SeedBondingCurve), mint[:]},
		{[]byte(constants.SeedEventAuthority)},
		{},
	}
	for _, seeds := range cases {
		got, err := Derive(constants.PumpProgramID, seeds...)
		require.NoError(t, err)
		wantAddr, wantBump, err := solana.FindProgramAddress(seeds, constants.PumpProgramID)
		require.NoError(t, err)
		require.Equal(t, wantAddr, got.Address())
		require.Equal(t, wantBump, got.Bump())
	}
}

func TestDeriveIsDeterministic(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	a, err := Mainnet.BondingCurve(mint)
	require.NoError(t, err)
	b, err := Mainnet.BondingCurve(mint)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestMainnetAccounts(t *testing.T) {
	global, err := Mainnet.Global()
	require.NoError(t, err)
	require.Equal(t, constants.PumpGlobal, global.Address())

	ev, err := Mainnet.EventAuthority()
	require.NoError(t, err)
	require.Equal(t, constants.PumpEventAuthority, ev.Address())
}

func TestDeriveRejectsBadSeeds(t *testing.T) {
	var valErr types.ValidationError

	_, err := Derive(constants.PumpProgramID, make([]byte, 33))
	require.True(t, errors.As(err, &valErr))

	seeds := make([][]byte, 16)
	_, err = Derive(constants.PumpProgramID, seeds...)
	require.True(t, errors.As(err, &valErr))

	// 15 seeds plus the bump is the maximum
	_, err = Derive(constants.PumpProgramID, seeds[:15]...)
	require.NoError(t, err)
}

func TestAssociatedTokenAccount(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()

	got, err := AssociatedTokenAccount(owner, mint, constants.TokenProgramID)
	require.NoError(t, err)
	want, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	require.NoError(t, err)
	require.Equal(t, want, got.Address())

	// zero token program falls back to SPL Token
	dflt, err := AssociatedTokenAccount(owner, mint, solana.PublicKey{})
	require.NoError(t, err)
	require.Equal(t, got, dflt)

	t22, err := AssociatedTokenAccount(owner, mint, constants.Token2022ProgramID)
	require.NoError(t, err)
	require.NotEqual(t, got.Address(), t22.Address())
}

func TestAssociatedBondingCurve(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	curve, err := Mainnet.BondingCurve(mint)
	require.NoError(t, err)

	got, err := Mainnet.AssociatedBondingCurve(mint, constants.TokenProgramID)
	require.NoError(t, err)
	want, _, err := solana.FindAssociatedTokenAddress(curve.Address(), mint)
	require.NoError(t, err)
	require.Equal(t, want, got.Address())
}

func TestMetadata(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	got, err := Metadata(mint)
	require.NoError(t, err)
	want, _, err := solana.FindTokenMetadataAddress(mint)
	require.NoError(t, err)
	require.Equal(t, want, got.Address())
}

func TestCreatorVault(t *testing.T) {
	creator := solana.NewWallet().PublicKey()
	got, err := Mainnet.CreatorVault(creator)
	require.NoError(t, err)
	want, _, err := solana.FindProgramAddress([][]byte{[]byte("creator-vault"), creator[:]}, constants.PumpProgramID)
	require.NoError(t, err)
	require.Equal(t, want, got.Address())
}

func TestDeriverBinding(t *testing.T) {
	require.Equal(t, constants.PumpProgramID, NewDeriver(solana.PublicKey{}).ProgramID())

	other := solana.NewWallet().PublicKey()
	d := NewDeriver(other)
	a, err := d.Global()
	require.NoError(t, err)
	b, err := Mainnet.Global()
	require.NoError(t, err)
	require.NotEqual(t, a.Address(), b.Address())

	ma, err := d.MintAuthority()
	require.NoError(t, err)
	want, _, err := solana.FindProgramAddress([][]byte{[]byte("mint-authority")}, other)
	require.NoError(t, err)
	require.Equal(t, want, ma.Address())
}

func TestFeeAndVolumeAccounts(t *testing.T) {
	user := solana.NewWallet().PublicKey()

	gva, err := Mainnet.GlobalVolumeAccumulator()
	require.NoError(t, err)
	want, _, err := solana.FindProgramAddress([][]byte{[]byte("global_volume_accumulator")}, constants.PumpProgramID)
	require.NoError(t, err)
	require.Equal(t, want, gva.Address())

	uva, err := Mainnet.UserVolumeAccumulator(user)
	require.NoError(t, err)
	want, _, err = solana.FindProgramAddress([][]byte{[]byte("user_volume_accumulator"), user[:]}, constants.PumpProgramID)
	require.NoError(t, err)
	require.Equal(t, want, uva.Address())

	fc, err := Mainnet.FeeConfig()
	require.NoError(t, err)
	want, _, err = solana.FindProgramAddress([][]byte{[]byte("fee_config"), constants.PumpProgramID[:]}, constants.PumpFeeProgramID)
	require.NoError(t, err)
	require.Equal(t, want, fc.Address())

	// another deployment gets its own fee config under the same fee program
	other, err := NewDeriver(solana.NewWallet().PublicKey()).FeeConfig()
	require.NoError(t, err)
	require.NotEqual(t, fc.Address(), other.Address())
}
