package types

import (
	"encoding/base64"
	"encoding/json"

	"github.com/gagliardetto/solana-go"
)

// BuiltInstruction is a finished, ready-to-sign instruction. It copies its
// inputs on construction and hands out copies, so a value can be shared freely.
//
// It satisfies solana.Instruction and can be passed to
// solana.NewTransactionBuilder().AddInstruction as is.
type BuiltInstruction struct {
	programID solana.PublicKey
	accounts  []solana.AccountMeta
	data      []byte
}

var _ solana.Instruction = BuiltInstruction{}

// NewBuiltInstruction copies programID, metas and data into an immutable value.
func NewBuiltInstruction(programID solana.PublicKey, metas []*solana.AccountMeta, data []byte) BuiltInstruction {
	accounts := make([]solana.AccountMeta, 0, len(metas))
	for _, m := range metas {
		if m == nil {
			continue
		}
		accounts = append(accounts, *m)
	}
	return BuiltInstruction{
		programID: programID,
		accounts:  accounts,
		data:      append([]byte(nil), data...),
	}
}

// FromInstruction freezes any solana.Instruction (compute budget, transfers,
// ATA creation) into a BuiltInstruction.
func FromInstruction(ix solana.Instruction) (BuiltInstruction, error) {
	data, err := ix.Data()
	if err != nil {
		return BuiltInstruction{}, err
	}
	return NewBuiltInstruction(ix.ProgramID(), ix.Accounts(), data), nil
}

// ProgramID returns the invoked program.
func (b BuiltInstruction) ProgramID() solana.PublicKey {
	return b.programID
}

// Accounts returns a fresh copy of the ordered account metas.
func (b BuiltInstruction) Accounts() []*solana.AccountMeta {
	out := make([]*solana.AccountMeta, len(b.accounts))
	for i := range b.accounts {
		m := b.accounts[i]
		out[i] = &m
	}
	return out
}

// Data returns a copy of the serialized payload.
func (b BuiltInstruction) Data() ([]byte, error) {
	return b.Payload(), nil
}

// Payload returns a copy of the serialized payload.
func (b BuiltInstruction) Payload() []byte {
	return append([]byte(nil), b.data...)
}

// NumAccounts returns the length of the account list.
func (b BuiltInstruction) NumAccounts() int {
	return len(b.accounts)
}

// AccountAt returns the i-th account meta by value.
func (b BuiltInstruction) AccountAt(i int) solana.AccountMeta {
	return b.accounts[i]
}

type instructionJSON struct {
	ProgramID string            `json:"programId"`
	Accounts  []accountMetaJSON `json:"accounts"`
	Data      string            `json:"data"`
}

type accountMetaJSON struct {
	Pubkey     string `json:"pubkey"`
	IsSigner   bool   `json:"isSigner"`
	IsWritable bool   `json:"isWritable"`
}

// MarshalJSON renders the instruction with base58 keys and base64 data.
func (b BuiltInstruction) MarshalJSON() ([]byte, error) {
	out := instructionJSON{
		ProgramID: b.programID.String(),
		Accounts:  make([]accountMetaJSON, 0, len(b.accounts)),
		Data:      base64.StdEncoding.EncodeToString(b.data),
	}
	for _, m := range b.accounts {
		out.Accounts = append(out.Accounts, accountMetaJSON{
			Pubkey:     m.PublicKey.String(),
			IsSigner:   m.IsSigner,
			IsWritable: m.IsWritable,
		})
	}
	return json.Marshal(out)
}

// ToSolana converts a list for use with solana.NewTransactionBuilder.
func ToSolana(ixs []BuiltInstruction) []solana.Instruction {
	out := make([]solana.Instruction, len(ixs))
	for i, ix := range ixs {
		out[i] = ix
	}
	return out
}
