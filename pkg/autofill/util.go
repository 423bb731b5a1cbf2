package autofill

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"

	"github.com/ninja0404/pump-curve-sdk/pkg/constants"
	"github.com/ninja0404/pump-curve-sdk/pkg/pda"
	"github.com/ninja0404/pump-curve-sdk/pkg/types"
)

var publicKeyType = reflect.TypeOf(solana.PublicKey{})

// applyPubkeyOverrides sets exported PublicKey fields from a map (key: field
// name, lowerCamel or snake_case). Unknown keys are an error.
func applyPubkeyOverrides(target any, m map[string]solana.PublicKey) error {
	if len(m) == 0 {
		return nil
	}
	val := reflect.ValueOf(target)
	if val.Kind() != reflect.Ptr || val.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("overrides target must be pointer to struct, got %T", target)
	}
	val = val.Elem()
	t := val.Type()
	used := make(map[string]bool, len(m))
	for i := 0; i < val.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || field.Type != publicKeyType {
			continue
		}
		key := pickKey(field.Name, m)
		if key == "" {
			continue
		}
		val.Field(i).Set(reflect.ValueOf(m[key]))
		used[key] = true
	}
	for k := range m {
		if !used[k] {
			return types.NewValidationError("overrides", fmt.Sprintf("no account named %q", k))
		}
	}
	return nil
}

func pickKey(name string, m map[string]solana.PublicKey) string {
	candidates := []string{name, lowerCamel(name), snake(name)}
	for _, k := range candidates {
		if _, ok := m[k]; ok {
			return k
		}
	}
	return ""
}

func lowerCamel(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func snake(name string) string {
	var parts []string
	cur := ""
	for i, r := range name {
		if i > 0 && r >= 'A' && r <= 'Z' {
			parts = append(parts, strings.ToLower(cur))
			cur = string(r)
		} else {
			cur += string(r)
		}
	}
	if cur != "" {
		parts = append(parts, strings.ToLower(cur))
	}
	return strings.Join(parts, "_")
}

// buildCreateATAIdempotent creates owner's associated token account unless it
// already exists. Instruction index 1 of the ATA program.
func buildCreateATAIdempotent(payer, owner, mint, tokenProgram solana.PublicKey) (types.BuiltInstruction, error) {
	ata, err := pda.AssociatedTokenAccount(owner, mint, tokenProgram)
	if err != nil {
		return types.BuiltInstruction{}, fmt.Errorf("derive user ATA for mint %s: %w", mint, err)
	}
	metas := []*solana.AccountMeta{
		solana.NewAccountMeta(payer, true, true),
		solana.NewAccountMeta(ata.Address(), true, false),
		solana.NewAccountMeta(owner, false, false),
		solana.NewAccountMeta(mint, false, false),
		solana.NewAccountMeta(constants.SystemProgramID, false, false),
		solana.NewAccountMeta(tokenProgram, false, false),
	}
	return types.NewBuiltInstruction(constants.AssociatedTokenProgramID, metas, []byte{1}), nil
}

// buildCloseAccount constructs a CloseAccount instruction for any Token Program (SPL or Token-2022).
func buildCloseAccount(account, destination, owner, tokenProgram solana.PublicKey) types.BuiltInstruction {
	// CloseAccount instruction discriminator = 9
	data := []byte{9}
	metas := []*solana.AccountMeta{
		solana.NewAccountMeta(account, true, false),     // account to close (writable)
		solana.NewAccountMeta(destination, true, false), // destination for rent (writable)
		solana.NewAccountMeta(owner, false, true),       // owner (signer)
	}
	return types.NewBuiltInstruction(tokenProgram, metas, data)
}

// buildComputeBudget returns the SetComputeUnitLimit / SetComputeUnitPrice
// prefix for non-zero values.
func buildComputeBudget(limit uint32, price uint64) ([]types.BuiltInstruction, error) {
	var out []types.BuiltInstruction
	if limit > 0 {
		ix, err := types.FromInstruction(computebudget.NewSetComputeUnitLimitInstruction(limit).Build())
		if err != nil {
			return nil, fmt.Errorf("compute unit limit: %w", err)
		}
		out = append(out, ix)
	}
	if price > 0 {
		ix, err := types.FromInstruction(computebudget.NewSetComputeUnitPriceInstruction(price).Build())
		if err != nil {
			return nil, fmt.Errorf("compute unit price: %w", err)
		}
		out = append(out, ix)
	}
	return out, nil
}
