// Package pda derives program-owned account addresses.
//
// Every address the pump program touches is either a well-known program id or
// a program-derived address: sha256(seeds || bump || programID || "ProgramDerivedAddress")
// for the highest bump whose hash is not a valid ed25519 point. Derivation is
// deterministic and side-effect free.
package pda

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/ninja0404/pump-curve-sdk/pkg/constants"
	"github.com/ninja0404/pump-curve-sdk/pkg/types"
)

const (
	maxSeeds      = 16
	maxSeedLength = 32
)

// ProgramAddress is a derived address together with its canonical bump.
// Values only come out of Derive.
type ProgramAddress struct {
	address solana.PublicKey
	bump    uint8
}

// Address returns the derived public key.
func (p ProgramAddress) Address() solana.PublicKey {
	return p.address
}

// Bump returns the canonical bump seed.
func (p ProgramAddress) Bump() uint8 {
	return p.bump
}

func (p ProgramAddress) String() string {
	return fmt.Sprintf("%s (bump %d)", p.address, p.bump)
}

// Derive searches bumps from 255 down to 1 and returns the first off-curve
// address. It fails with types.ErrAddressDerivationExhausted when no bump works.
func Derive(programID solana.PublicKey, seeds ...[]byte) (ProgramAddress, error) {
	if len(seeds) >= maxSeeds {
		return ProgramAddress{}, types.NewValidationError("seeds", fmt.Sprintf("at most %d seeds allowed, got %d", maxSeeds-1, len(seeds)))
	}
	for i, s := range seeds {
		if len(s) > maxSeedLength {
			return ProgramAddress{}, types.NewValidationError(fmt.Sprintf("seeds[%d]", i), fmt.Sprintf("exceeds %d bytes", maxSeedLength))
		}
	}

	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	bump := []byte{0}
	for b := 255; b > 0; b-- {
		bump[0] = uint8(b)
		withBump[len(seeds)] = bump
		addr, err := solana.CreateProgramAddress(withBump, programID)
		if err != nil {
			// on-curve candidate, try the next bump
			continue
		}
		return ProgramAddress{address: addr, bump: uint8(b)}, nil
	}
	return ProgramAddress{}, fmt.Errorf("%w: program %s", types.ErrAddressDerivationExhausted, programID)
}

// Deriver derives the pump program's accounts for one deployment.
type Deriver struct {
	programID solana.PublicKey
}

// NewDeriver binds derivations to programID. A zero key selects mainnet.
func NewDeriver(programID solana.PublicKey) Deriver {
	if programID.IsZero() {
		programID = constants.PumpProgramID
	}
	return Deriver{programID: programID}
}

// Mainnet derives against the mainnet pump program.
var Mainnet = NewDeriver(constants.PumpProgramID)

// ProgramID returns the program the deriver is bound to.
func (d Deriver) ProgramID() solana.PublicKey {
	return d.programID
}

// Global derives the singleton config account.
func (d Deriver) Global() (ProgramAddress, error) {
	return Derive(d.programID, []byte(constants.SeedGlobal))
}

// BondingCurve derives the per-mint curve account.
func (d Deriver) BondingCurve(mint solana.PublicKey) (ProgramAddress, error) {
	return Derive(d.programID, []byte(constants.SeedBondingCurve), mint[:])
}

// MintAuthority derives the authority the program mints new tokens with.
func (d Deriver) MintAuthority() (ProgramAddress, error) {
	return Derive(d.programID, []byte(constants.SeedMintAuthority))
}

// EventAuthority derives the Anchor event CPI authority.
func (d Deriver) EventAuthority() (ProgramAddress, error) {
	return Derive(d.programID, []byte(constants.SeedEventAuthority))
}

// CreatorVault derives the SOL vault collecting creator fees.
func (d Deriver) CreatorVault(creator solana.PublicKey) (ProgramAddress, error) {
	return Derive(d.programID, []byte(constants.SeedCreatorVault), creator[:])
}

// GlobalVolumeAccumulator derives the singleton trade volume tracker.
func (d Deriver) GlobalVolumeAccumulator() (ProgramAddress, error) {
	return Derive(d.programID, []byte(constants.SeedGlobalVolumeAccumulator))
}

// UserVolumeAccumulator derives user's trade volume tracker.
func (d Deriver) UserVolumeAccumulator(user solana.PublicKey) (ProgramAddress, error) {
	return Derive(d.programID, []byte(constants.SeedUserVolumeAccumulator), user[:])
}

// FeeConfig derives the fee tier account. It lives under the fee program,
// keyed by the pump program id.
func (d Deriver) FeeConfig() (ProgramAddress, error) {
	return Derive(constants.PumpFeeProgramID, []byte(constants.SeedFeeConfig), d.programID[:])
}

// AssociatedBondingCurve derives the curve's token vault.
func (d Deriver) AssociatedBondingCurve(mint, tokenProgram solana.PublicKey) (ProgramAddress, error) {
	curve, err := d.BondingCurve(mint)
	if err != nil {
		return ProgramAddress{}, err
	}
	return AssociatedTokenAccount(curve.Address(), mint, tokenProgram)
}

// Metadata derives the Metaplex metadata account of a mint.
func Metadata(mint solana.PublicKey) (ProgramAddress, error) {
	return Derive(constants.MetadataProgramID,
		[]byte(constants.SeedMetadata),
		constants.MetadataProgramID[:],
		mint[:],
	)
}

// AssociatedTokenAccount derives owner's associated token account for mint.
func AssociatedTokenAccount(owner, mint, tokenProgram solana.PublicKey) (ProgramAddress, error) {
	if tokenProgram.IsZero() {
		tokenProgram = constants.TokenProgramID
	}
	return Derive(constants.AssociatedTokenProgramID, owner[:], tokenProgram[:], mint[:])
}
