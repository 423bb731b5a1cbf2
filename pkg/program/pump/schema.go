package pump

import (
	"github.com/gagliardetto/solana-go"

	"github.com/ninja0404/pump-curve-sdk/pkg/constants"
)

// This file is the single source of truth for the program ABI. A program
// upgrade that changes a discriminator or an account position is a change to
// the tables below and nowhere else.

// Variant identifies an instruction of the program.
type Variant uint8

const (
	VariantCreate Variant = iota + 1
	VariantBuy
	VariantSell
)

func (v Variant) String() string {
	switch v {
	case VariantCreate:
		return "create"
	case VariantBuy:
		return "buy"
	case VariantSell:
		return "sell"
	default:
		return "unknown"
	}
}

func (v Variant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Instruction discriminators: sha256("global:<name>")[:8].
var (
	CreateDiscriminator = [8]byte{24, 30, 200, 40, 5, 28, 7, 119}
	BuyDiscriminator    = [8]byte{102, 6, 61, 18, 1, 218, 235, 234}
	SellDiscriminator   = [8]byte{51, 230, 133, 164, 1, 127, 131, 173}
)

// Account discriminators: sha256("account:<Name>")[:8].
var (
	GlobalDiscriminator       = [8]byte{167, 232, 232, 177, 200, 108, 114, 127}
	BondingCurveDiscriminator = [8]byte{23, 183, 248, 55, 96, 216, 172, 96}
)

// Role names an account slot of an instruction.
type Role uint8

const (
	RoleGlobal Role = iota + 1
	RoleFeeRecipient
	RoleMint
	RoleMintAuthority
	RoleBondingCurve
	RoleAssociatedBondingCurve
	RoleAssociatedUser
	RoleUser
	RoleCreatorVault
	RoleMplTokenMetadata
	RoleMetadata
	RoleSystemProgram
	RoleTokenProgram
	RoleAssociatedTokenProgram
	RoleRent
	RoleEventAuthority
	RoleProgram
	RoleGlobalVolumeAccumulator
	RoleUserVolumeAccumulator
	RoleFeeConfig
	RoleFeeProgram
)

var roleNames = [...]string{
	RoleGlobal:                 "global",
	RoleFeeRecipient:           "fee_recipient",
	RoleMint:                   "mint",
	RoleMintAuthority:          "mint_authority",
	RoleBondingCurve:           "bonding_curve",
	RoleAssociatedBondingCurve: "associated_bonding_curve",
	RoleAssociatedUser:         "associated_user",
	RoleUser:                   "user",
	RoleCreatorVault:           "creator_vault",
	RoleMplTokenMetadata:       "mpl_token_metadata",
	RoleMetadata:               "metadata",
	RoleSystemProgram:          "system_program",
	RoleTokenProgram:           "token_program",
	RoleAssociatedTokenProgram: "associated_token_program",
	RoleRent:                   "rent",
	RoleEventAuthority:         "event_authority",
	RoleProgram:                "program",

	RoleGlobalVolumeAccumulator: "global_volume_accumulator",
	RoleUserVolumeAccumulator:   "user_volume_accumulator",
	RoleFeeConfig:               "fee_config",
	RoleFeeProgram:              "fee_program",
}

func (r Role) String() string {
	if int(r) < len(roleNames) && roleNames[r] != "" {
		return roleNames[r]
	}
	return "unknown"
}

// AccountSlot is one entry of an instruction's account list.
type AccountSlot struct {
	Role     Role
	Writable bool
	Signer   bool
}

type variantSchema struct {
	discriminator [8]byte
	accounts      []AccountSlot
}

var schemas = [...]variantSchema{
	VariantCreate: {
		discriminator: CreateDiscriminator,
		accounts: []AccountSlot{
			{Role: RoleMint, Writable: true, Signer: true},
			{Role: RoleMintAuthority},
			{Role: RoleBondingCurve, Writable: true},
			{Role: RoleAssociatedBondingCurve, Writable: true},
			{Role: RoleGlobal},
			{Role: RoleMplTokenMetadata},
			{Role: RoleMetadata, Writable: true},
			{Role: RoleUser, Writable: true, Signer: true},
			{Role: RoleSystemProgram},
			{Role: RoleTokenProgram},
			{Role: RoleAssociatedTokenProgram},
			{Role: RoleRent},
			{Role: RoleEventAuthority},
			{Role: RoleProgram},
		},
	},
	VariantBuy: {
		discriminator: BuyDiscriminator,
		accounts: []AccountSlot{
			{Role: RoleGlobal},
			{Role: RoleFeeRecipient, Writable: true},
			{Role: RoleMint},
			{Role: RoleBondingCurve, Writable: true},
			{Role: RoleAssociatedBondingCurve, Writable: true},
			{Role: RoleAssociatedUser, Writable: true},
			{Role: RoleUser, Writable: true, Signer: true},
			{Role: RoleSystemProgram},
			{Role: RoleTokenProgram},
			{Role: RoleCreatorVault, Writable: true},
			{Role: RoleEventAuthority},
			{Role: RoleProgram},
			{Role: RoleGlobalVolumeAccumulator, Writable: true},
			{Role: RoleUserVolumeAccumulator, Writable: true},
			{Role: RoleFeeConfig},
			{Role: RoleFeeProgram},
		},
	},
	// sell swaps the positions of creator_vault and token_program relative to
	// buy and takes no volume accumulators
	VariantSell: {
		discriminator: SellDiscriminator,
		accounts: []AccountSlot{
			{Role: RoleGlobal},
			{Role: RoleFeeRecipient, Writable: true},
			{Role: RoleMint},
			{Role: RoleBondingCurve, Writable: true},
			{Role: RoleAssociatedBondingCurve, Writable: true},
			{Role: RoleAssociatedUser, Writable: true},
			{Role: RoleUser, Writable: true, Signer: true},
			{Role: RoleSystemProgram},
			{Role: RoleCreatorVault, Writable: true},
			{Role: RoleTokenProgram},
			{Role: RoleEventAuthority},
			{Role: RoleProgram},
			{Role: RoleFeeConfig},
			{Role: RoleFeeProgram},
		},
	},
}

// fixedAccounts are filled in when the caller leaves the slot empty.
var fixedAccounts = map[Role]solana.PublicKey{
	RoleMplTokenMetadata:       constants.MetadataProgramID,
	RoleSystemProgram:          constants.SystemProgramID,
	RoleTokenProgram:           constants.TokenProgramID,
	RoleAssociatedTokenProgram: constants.AssociatedTokenProgramID,
	RoleRent:                   constants.SysvarRentProgramID,
	RoleFeeProgram:             constants.PumpFeeProgramID,
}

func (v Variant) valid() bool {
	return v >= VariantCreate && v <= VariantSell
}

// Discriminator returns the 8-byte tag of the variant.
func (v Variant) Discriminator() [8]byte {
	if !v.valid() {
		return [8]byte{}
	}
	return schemas[v].discriminator
}

// Accounts returns a copy of the variant's account layout in program order.
func (v Variant) Accounts() []AccountSlot {
	if !v.valid() {
		return nil
	}
	return append([]AccountSlot(nil), schemas[v].accounts...)
}

// VariantOf identifies an instruction payload by its discriminator.
func VariantOf(data []byte) (Variant, bool) {
	if len(data) < 8 {
		return 0, false
	}
	var disc [8]byte
	copy(disc[:], data[:8])
	for v := VariantCreate; v <= VariantSell; v++ {
		if schemas[v].discriminator == disc {
			return v, true
		}
	}
	return 0, false
}
