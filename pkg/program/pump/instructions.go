package pump

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/ninja0404/pump-curve-sdk/pkg/types"
)

const tradeArgsSize = 16

// CreateArgs is the payload of the create instruction.
type CreateArgs struct {
	Name    string           `json:"name"`
	Symbol  string           `json:"symbol"`
	URI     string           `json:"uri"`
	Creator solana.PublicKey `json:"creator"`
}

// BuyArgs is the payload of the buy instruction. Amount is in token base units.
type BuyArgs struct {
	Amount     uint64 `json:"amount"`
	MaxSolCost uint64 `json:"maxSolCost"`
}

// SellArgs is the payload of the sell instruction. Amount is in token base units.
type SellArgs struct {
	Amount       uint64 `json:"amount"`
	MinSolOutput uint64 `json:"minSolOutput"`
}

// CreateAccounts lists the accounts of create. Program-id slots left zero
// are filled with the well-known ids.
type CreateAccounts struct {
	Mint                   solana.PublicKey `json:"mint"`
	MintAuthority          solana.PublicKey `json:"mintAuthority"`
	BondingCurve           solana.PublicKey `json:"bondingCurve"`
	AssociatedBondingCurve solana.PublicKey `json:"associatedBondingCurve"`
	Global                 solana.PublicKey `json:"global"`
	MplTokenMetadata       solana.PublicKey `json:"mplTokenMetadata"`
	Metadata               solana.PublicKey `json:"metadata"`
	User                   solana.PublicKey `json:"user"`
	SystemProgram          solana.PublicKey `json:"systemProgram"`
	TokenProgram           solana.PublicKey `json:"tokenProgram"`
	AssociatedTokenProgram solana.PublicKey `json:"associatedTokenProgram"`
	Rent                   solana.PublicKey `json:"rent"`
	EventAuthority         solana.PublicKey `json:"eventAuthority"`
	Program                solana.PublicKey `json:"program"`
}

// Lookup returns the key bound to role, zero if the role is not part of create.
func (a CreateAccounts) Lookup(role Role) solana.PublicKey {
	switch role {
	case RoleMint:
		return a.Mint
	case RoleMintAuthority:
		return a.MintAuthority
	case RoleBondingCurve:
		return a.BondingCurve
	case RoleAssociatedBondingCurve:
		return a.AssociatedBondingCurve
	case RoleGlobal:
		return a.Global
	case RoleMplTokenMetadata:
		return a.MplTokenMetadata
	case RoleMetadata:
		return a.Metadata
	case RoleUser:
		return a.User
	case RoleSystemProgram:
		return a.SystemProgram
	case RoleTokenProgram:
		return a.TokenProgram
	case RoleAssociatedTokenProgram:
		return a.AssociatedTokenProgram
	case RoleRent:
		return a.Rent
	case RoleEventAuthority:
		return a.EventAuthority
	case RoleProgram:
		return a.Program
	}
	return solana.PublicKey{}
}

// TradeAccounts lists the accounts of buy and sell. The two instructions
// take them in a different order; sell ignores the volume accumulators.
type TradeAccounts struct {
	Global                 solana.PublicKey `json:"global"`
	FeeRecipient           solana.PublicKey `json:"feeRecipient"`
	Mint                   solana.PublicKey `json:"mint"`
	BondingCurve           solana.PublicKey `json:"bondingCurve"`
	AssociatedBondingCurve solana.PublicKey `json:"associatedBondingCurve"`
	AssociatedUser         solana.PublicKey `json:"associatedUser"`
	User                   solana.PublicKey `json:"user"`
	SystemProgram          solana.PublicKey `json:"systemProgram"`
	TokenProgram           solana.PublicKey `json:"tokenProgram"`
	CreatorVault           solana.PublicKey `json:"creatorVault"`
	EventAuthority         solana.PublicKey `json:"eventAuthority"`
	Program                solana.PublicKey `json:"program"`

	GlobalVolumeAccumulator solana.PublicKey `json:"globalVolumeAccumulator"`
	UserVolumeAccumulator   solana.PublicKey `json:"userVolumeAccumulator"`
	FeeConfig               solana.PublicKey `json:"feeConfig"`
	FeeProgram              solana.PublicKey `json:"feeProgram"`
}

// BuyAccounts lists the accounts of buy.
type BuyAccounts = TradeAccounts

// SellAccounts lists the accounts of sell.
type SellAccounts = TradeAccounts

// Lookup returns the key bound to role, zero if the role is not part of a trade.
func (a TradeAccounts) Lookup(role Role) solana.PublicKey {
	switch role {
	case RoleGlobal:
		return a.Global
	case RoleFeeRecipient:
		return a.FeeRecipient
	case RoleMint:
		return a.Mint
	case RoleBondingCurve:
		return a.BondingCurve
	case RoleAssociatedBondingCurve:
		return a.AssociatedBondingCurve
	case RoleAssociatedUser:
		return a.AssociatedUser
	case RoleUser:
		return a.User
	case RoleSystemProgram:
		return a.SystemProgram
	case RoleTokenProgram:
		return a.TokenProgram
	case RoleCreatorVault:
		return a.CreatorVault
	case RoleEventAuthority:
		return a.EventAuthority
	case RoleProgram:
		return a.Program
	case RoleGlobalVolumeAccumulator:
		return a.GlobalVolumeAccumulator
	case RoleUserVolumeAccumulator:
		return a.UserVolumeAccumulator
	case RoleFeeConfig:
		return a.FeeConfig
	case RoleFeeProgram:
		return a.FeeProgram
	}
	return solana.PublicKey{}
}

// AccountMetas resolves the variant's layout against lookup. Zero slots take
// their well-known default or fail with a ValidationError naming the role.
func AccountMetas(v Variant, lookup func(Role) solana.PublicKey) ([]*solana.AccountMeta, error) {
	if !v.valid() {
		return nil, types.NewValidationError("variant", fmt.Sprintf("unknown instruction variant %d", v))
	}
	slots := schemas[v].accounts
	metas := make([]*solana.AccountMeta, 0, len(slots))
	for _, slot := range slots {
		pk := lookup(slot.Role)
		if pk.IsZero() {
			fixed, ok := fixedAccounts[slot.Role]
			switch {
			case ok:
				pk = fixed
			case slot.Role == RoleProgram:
				pk = ProgramKey
			default:
				return nil, types.ValidatePublicKey(slot.Role.String(), pk)
			}
		}
		// solana.NewAccountMeta(pubkey, isWritable, isSigner)
		metas = append(metas, solana.NewAccountMeta(pk, slot.Writable, slot.Signer))
	}
	return metas, nil
}

func encodePayload(v Variant, args any) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, 128))
	disc := v.Discriminator()
	buf.Write(disc[:])
	if err := bin.NewBorshEncoder(buf).Encode(args); err != nil {
		return nil, fmt.Errorf("encode %s args: %w", v, err)
	}
	return buf.Bytes(), nil
}

func build(v Variant, lookup func(Role) solana.PublicKey, args any) (types.BuiltInstruction, error) {
	metas, err := AccountMetas(v, lookup)
	if err != nil {
		return types.BuiltInstruction{}, err
	}
	data, err := encodePayload(v, args)
	if err != nil {
		return types.BuiltInstruction{}, err
	}
	programID := lookup(RoleProgram)
	if programID.IsZero() {
		programID = ProgramKey
	}
	return types.NewBuiltInstruction(programID, metas, data), nil
}

// EncodeCreate builds the create instruction.
func EncodeCreate(accounts CreateAccounts, args CreateArgs) (types.BuiltInstruction, error) {
	if err := types.ValidateTokenMetadata(args.Name, args.Symbol, args.URI); err != nil {
		return types.BuiltInstruction{}, err
	}
	if err := types.ValidatePublicKey("creator", args.Creator); err != nil {
		return types.BuiltInstruction{}, err
	}
	return build(VariantCreate, accounts.Lookup, args)
}

// EncodeBuy builds the buy instruction. MaxSolCost is passed through as given.
func EncodeBuy(accounts BuyAccounts, args BuyArgs) (types.BuiltInstruction, error) {
	if err := types.ValidateAmount("amount", args.Amount); err != nil {
		return types.BuiltInstruction{}, err
	}
	return build(VariantBuy, accounts.Lookup, args)
}

// EncodeSell builds the sell instruction. MinSolOutput is passed through as given.
func EncodeSell(accounts SellAccounts, args SellArgs) (types.BuiltInstruction, error) {
	if err := types.ValidateAmount("amount", args.Amount); err != nil {
		return types.BuiltInstruction{}, err
	}
	return build(VariantSell, accounts.Lookup, args)
}

// DecodedInstruction is a parsed instruction payload. Exactly one of the
// argument pointers is set, matching Variant.
type DecodedInstruction struct {
	Variant Variant     `json:"variant"`
	Create  *CreateArgs `json:"create,omitempty"`
	Buy     *BuyArgs    `json:"buy,omitempty"`
	Sell    *SellArgs   `json:"sell,omitempty"`
}

// DecodeInstruction identifies a payload by discriminator and decodes its
// arguments. Trailing bytes after the known arguments are ignored, as the
// program does.
func DecodeInstruction(data []byte) (DecodedInstruction, error) {
	v, ok := VariantOf(data)
	if !ok {
		if len(data) < 8 {
			return DecodedInstruction{}, fmt.Errorf("%w: %d bytes, need a discriminator", types.ErrInvalidInstructionData, len(data))
		}
		return DecodedInstruction{}, fmt.Errorf("%w: unknown discriminator %v", types.ErrInvalidInstructionData, data[:8])
	}

	out := DecodedInstruction{Variant: v}
	dec := bin.NewBorshDecoder(data[8:])
	var err error
	switch v {
	case VariantCreate:
		out.Create = new(CreateArgs)
		err = dec.Decode(out.Create)
	case VariantBuy:
		if len(data)-8 < tradeArgsSize {
			return DecodedInstruction{}, fmt.Errorf("%w: buy payload is %d bytes", types.ErrInvalidInstructionData, len(data)-8)
		}
		out.Buy = new(BuyArgs)
		err = dec.Decode(out.Buy)
	case VariantSell:
		if len(data)-8 < tradeArgsSize {
			return DecodedInstruction{}, fmt.Errorf("%w: sell payload is %d bytes", types.ErrInvalidInstructionData, len(data)-8)
		}
		out.Sell = new(SellArgs)
		err = dec.Decode(out.Sell)
	}
	if err != nil {
		return DecodedInstruction{}, fmt.Errorf("%w: decode %s args: %v", types.ErrInvalidInstructionData, v, err)
	}
	return out, nil
}
