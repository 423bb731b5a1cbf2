package pump

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ninja0404/pump-curve-sdk/pkg/types"
)

func TestErrorFromCode(t *testing.T) {
	pe, ok := ErrorFromCode(6002)
	require.True(t, ok)
	require.Equal(t, "TooMuchSolRequired", pe.Name)
	require.Equal(t, ProgramName, pe.Program)

	_, ok = ErrorFromCode(7000)
	require.False(t, ok)

	// codes are contiguous from 6000 and keyed consistently
	for code := 6000; code < 6000+len(Errors); code++ {
		pe, ok := ErrorFromCode(code)
		require.True(t, ok, "code %d", code)
		require.Equal(t, code, pe.Code)
		require.NotEmpty(t, pe.Name)
	}
}

func TestParseErrorNamesFeeCodes(t *testing.T) {
	err := ParseError(errors.New("Program failed: custom program error: 0x1799"))
	var pe types.ProgramError
	require.True(t, errors.As(err, &pe))
	require.Equal(t, "BuyNotEnoughSolToCoverFees", pe.Name)

	err = ParseError(errors.New("custom program error: 0x178b"))
	require.True(t, errors.As(err, &pe))
	require.Equal(t, "NotEnoughRemainingAccounts", pe.Name)
}

func TestParseError(t *testing.T) {
	require.NoError(t, ParseError(nil))

	raw := fmt.Errorf("simulate: Program failed: custom program error: 0x1775")
	err := ParseError(raw)
	var pe types.ProgramError
	require.True(t, errors.As(err, &pe))
	require.Equal(t, 6005, pe.Code)
	require.False(t, types.IsRetryableError(err))

	other := errors.New("connection reset")
	require.Equal(t, other, ParseError(other))

	unknown := errors.New("custom program error: 0x1")
	require.Equal(t, unknown, ParseError(unknown))
}
