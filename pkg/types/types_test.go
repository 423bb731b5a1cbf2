package types

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

func TestBuiltInstructionIsImmutable(t *testing.T) {
	program := solana.NewWallet().PublicKey()
	acc := solana.NewWallet().PublicKey()
	metas := []*solana.AccountMeta{solana.NewAccountMeta(acc, true, true), nil}
	data := []byte{1, 2, 3}

	ix := NewBuiltInstruction(program, metas, data)
	data[0] = 9
	metas[0].IsSigner = false

	require.Equal(t, []byte{1, 2, 3}, ix.Payload())
	require.Equal(t, 1, ix.NumAccounts())
	require.True(t, ix.AccountAt(0).IsSigner)

	got := ix.Accounts()
	got[0].IsWritable = false
	payload := ix.Payload()
	payload[1] = 9
	require.True(t, ix.AccountAt(0).IsWritable)
	require.Equal(t, []byte{1, 2, 3}, ix.Payload())
}

func TestBuiltInstructionJSON(t *testing.T) {
	program := solana.NewWallet().PublicKey()
	acc := solana.NewWallet().PublicKey()
	ix := NewBuiltInstruction(program, []*solana.AccountMeta{solana.NewAccountMeta(acc, false, true)}, []byte{0xff})

	bz, err := json.Marshal(ix)
	require.NoError(t, err)
	require.JSONEq(t, fmt.Sprintf(`{
		"programId": %q,
		"accounts": [{"pubkey": %q, "isSigner": true, "isWritable": false}],
		"data": "/w=="
	}`, program, acc), string(bz))
}

func TestFromInstructionAndToSolana(t *testing.T) {
	src := solana.NewInstruction(solana.SystemProgramID, solana.AccountMetaSlice{
		solana.NewAccountMeta(solana.NewWallet().PublicKey(), true, true),
	}, []byte{2, 0, 0, 0})
	ix, err := FromInstruction(src)
	require.NoError(t, err)
	require.Equal(t, solana.SystemProgramID, ix.ProgramID())

	out := ToSolana([]BuiltInstruction{ix})
	require.Len(t, out, 1)
	data, err := out[0].Data()
	require.NoError(t, err)
	require.Equal(t, []byte{2, 0, 0, 0}, data)
}

func TestValidation(t *testing.T) {
	require.NoError(t, ValidateSlippage(0))
	require.NoError(t, ValidateSlippage(10_000))
	require.ErrorIs(t, ValidateSlippage(-1), ErrInvalidSlippage)
	require.ErrorIs(t, ValidateSlippage(10_001), ErrInvalidSlippage)

	var valErr ValidationError
	require.True(t, errors.As(ValidateAmount("amount", 0), &valErr))
	require.Equal(t, "amount", valErr.Field)
	require.ErrorIs(t, ValidateAmount("amount", 0), ErrZeroAmount)
	require.ErrorIs(t, fmt.Errorf("build buy: %w", ValidatePublicKey("mint", solana.PublicKey{})), ErrInvalidPublicKey)
	require.NotErrorIs(t, NewValidationError("x", "y"), ErrZeroAmount)

	require.NoError(t, ValidateTokenMetadata(strings.Repeat("n", 32), strings.Repeat("s", 10), strings.Repeat("u", 200)))
	require.True(t, errors.As(ValidateTokenMetadata(strings.Repeat("n", 33), "s", "u"), &valErr))
	require.Equal(t, "name", valErr.Field)
	require.True(t, errors.As(ValidateTokenMetadata("n", "s", ""), &valErr))
	require.Equal(t, "uri", valErr.Field)

	require.True(t, errors.As(ValidatePublicKeys([]string{"mint"}, solana.NewWallet().PublicKey(), solana.PublicKey{}), &valErr))
	require.Equal(t, "key[1]", valErr.Field)
}

func TestIsRetryableError(t *testing.T) {
	require.False(t, IsRetryableError(nil))
	require.False(t, IsRetryableError(context.DeadlineExceeded))
	require.False(t, IsRetryableError(fmt.Errorf("wrap: %w", ErrCurveCompleted)))
	require.False(t, IsRetryableError(ErrAccountNotFound))
	require.False(t, IsRetryableError(NewValidationError("x", "y")))
	require.False(t, IsRetryableError(ProgramError{Code: 6002}))
	require.True(t, IsRetryableError(errors.New("503 service unavailable")))
}

func TestRPCErrorUnwrap(t *testing.T) {
	err := RPCError{Op: "getAccountInfo", Err: context.Canceled}
	require.ErrorIs(t, err, context.Canceled)
	require.Contains(t, err.Error(), "getAccountInfo")
}
