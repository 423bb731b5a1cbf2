package pump

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/ninja0404/pump-curve-sdk/pkg/types"
)

const (
	// GlobalFixedSize is the Global layout every program version carries.
	GlobalFixedSize = 8 + 1 + 32 + 32 + 5*8
	// BondingCurveFixedSize excludes the creator key added by later versions.
	BondingCurveFixedSize = 8 + 5*8 + 1

	pubkeyLen        = 32
	feeRecipientsLen = 7
)

// GlobalConfig is the decoded Global singleton. Fields after FeeBasisPoints
// were appended by program upgrades and stay zero when the buffer predates them.
type GlobalConfig struct {
	Initialized                 bool
	Authority                   solana.PublicKey
	FeeRecipient                solana.PublicKey
	InitialVirtualTokenReserves uint64
	InitialVirtualSolReserves   uint64
	InitialRealTokenReserves    uint64
	TokenTotalSupply            uint64
	FeeBasisPoints              uint64

	WithdrawAuthority     solana.PublicKey
	EnableMigrate         bool
	PoolMigrationFee      uint64
	CreatorFeeBasisPoints uint64
	FeeRecipients         [feeRecipientsLen]solana.PublicKey
	SetCreatorAuthority   solana.PublicKey
}

// FeeRecipientFor picks the fee recipient a trade should pay. The program
// accepts the primary recipient or any of the extra ones.
func (g GlobalConfig) FeeRecipientFor() solana.PublicKey {
	if !g.FeeRecipient.IsZero() {
		return g.FeeRecipient
	}
	for _, pk := range g.FeeRecipients {
		if !pk.IsZero() {
			return pk
		}
	}
	return solana.PublicKey{}
}

// NewCurve returns the state of a freshly created curve under this config.
func (g GlobalConfig) NewCurve(creator solana.PublicKey) BondingCurveState {
	return BondingCurveState{
		VirtualTokenReserves: g.InitialVirtualTokenReserves,
		VirtualSolReserves:   g.InitialVirtualSolReserves,
		RealTokenReserves:    g.InitialRealTokenReserves,
		TokenTotalSupply:     g.TokenTotalSupply,
		Creator:              creator,
	}
}

// BondingCurveState is the decoded per-mint curve record.
type BondingCurveState struct {
	VirtualTokenReserves uint64
	VirtualSolReserves   uint64
	RealTokenReserves    uint64
	RealSolReserves      uint64
	TokenTotalSupply     uint64
	Complete             bool
	Creator              solana.PublicKey
}

func invalidAccount(name, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", types.ErrInvalidAccountData, name, fmt.Sprintf(format, args...))
}

func checkAccountHeader(name string, data []byte, disc [8]byte, minSize int) error {
	if len(data) < minSize {
		return invalidAccount(name, "data too short: %d < %d bytes", len(data), minSize)
	}
	if !bytes.Equal(data[:8], disc[:]) {
		return invalidAccount(name, "discriminator mismatch")
	}
	return nil
}

// fieldReader decodes a run of Borsh fields and keeps the first error.
type fieldReader struct {
	dec *bin.Decoder
	err error
}

func (r *fieldReader) read(v any) {
	if r.err != nil {
		return
	}
	r.err = r.dec.Decode(v)
}

// has reports whether n more bytes are available.
func (r *fieldReader) has(n int) bool {
	return r.err == nil && r.dec.Remaining() >= n
}

// DecodeGlobalConfig parses a Global account buffer.
func DecodeGlobalConfig(data []byte) (GlobalConfig, error) {
	const name = "Global"
	if err := checkAccountHeader(name, data, GlobalDiscriminator, GlobalFixedSize); err != nil {
		return GlobalConfig{}, err
	}

	var g GlobalConfig
	r := &fieldReader{dec: bin.NewBorshDecoder(data[8:])}
	r.read(&g.Initialized)
	r.read(&g.Authority)
	r.read(&g.FeeRecipient)
	r.read(&g.InitialVirtualTokenReserves)
	r.read(&g.InitialVirtualSolReserves)
	r.read(&g.InitialRealTokenReserves)
	r.read(&g.TokenTotalSupply)
	r.read(&g.FeeBasisPoints)

	// appended fields, oldest first; stop at the first one the buffer lacks
	if r.has(pubkeyLen) {
		r.read(&g.WithdrawAuthority)
		if r.has(1) {
			r.read(&g.EnableMigrate)
			if r.has(16) {
				r.read(&g.PoolMigrationFee)
				r.read(&g.CreatorFeeBasisPoints)
				if r.has(feeRecipientsLen * pubkeyLen) {
					r.read(&g.FeeRecipients)
					if r.has(pubkeyLen) {
						r.read(&g.SetCreatorAuthority)
					}
				}
			}
		}
	}
	if r.err != nil {
		return GlobalConfig{}, invalidAccount(name, "%v", r.err)
	}
	return g, nil
}

// DecodeBondingCurve parses a BondingCurve account buffer.
func DecodeBondingCurve(data []byte) (BondingCurveState, error) {
	const name = "BondingCurve"
	if err := checkAccountHeader(name, data, BondingCurveDiscriminator, BondingCurveFixedSize); err != nil {
		return BondingCurveState{}, err
	}

	var s BondingCurveState
	r := &fieldReader{dec: bin.NewBorshDecoder(data[8:])}
	r.read(&s.VirtualTokenReserves)
	r.read(&s.VirtualSolReserves)
	r.read(&s.RealTokenReserves)
	r.read(&s.RealSolReserves)
	r.read(&s.TokenTotalSupply)
	r.read(&s.Complete)
	if r.has(pubkeyLen) {
		r.read(&s.Creator)
	}
	if r.err != nil {
		return BondingCurveState{}, invalidAccount(name, "%v", r.err)
	}
	return s, nil
}

// EncodeGlobalConfig writes g in the current on-chain layout.
func EncodeGlobalConfig(g GlobalConfig) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, 512))
	buf.Write(GlobalDiscriminator[:])
	enc := bin.NewBorshEncoder(buf)
	for _, v := range []any{
		g.Initialized,
		g.Authority,
		g.FeeRecipient,
		g.InitialVirtualTokenReserves,
		g.InitialVirtualSolReserves,
		g.InitialRealTokenReserves,
		g.TokenTotalSupply,
		g.FeeBasisPoints,
		g.WithdrawAuthority,
		g.EnableMigrate,
		g.PoolMigrationFee,
		g.CreatorFeeBasisPoints,
		g.FeeRecipients,
		g.SetCreatorAuthority,
	} {
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("encode Global: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// EncodeBondingCurve writes s in the current on-chain layout.
func EncodeBondingCurve(s BondingCurveState) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, BondingCurveFixedSize+pubkeyLen))
	buf.Write(BondingCurveDiscriminator[:])
	enc := bin.NewBorshEncoder(buf)
	for _, v := range []any{
		s.VirtualTokenReserves,
		s.VirtualSolReserves,
		s.RealTokenReserves,
		s.RealSolReserves,
		s.TokenTotalSupply,
		s.Complete,
		s.Creator,
	} {
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("encode BondingCurve: %w", err)
		}
	}
	return buf.Bytes(), nil
}
