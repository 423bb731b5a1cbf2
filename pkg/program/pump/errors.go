package pump

import (
	"errors"
	"regexp"
	"strconv"

	"github.com/ninja0404/pump-curve-sdk/pkg/types"
)

// Errors is the program's custom error table.
var Errors = map[int]types.ProgramError{
	6000: {Program: ProgramName, Code: 6000, Name: "NotAuthorized", Message: "The given account is not authorized to execute this instruction."},
	6001: {Program: ProgramName, Code: 6001, Name: "AlreadyInitialized", Message: "The program is already initialized."},
	6002: {Program: ProgramName, Code: 6002, Name: "TooMuchSolRequired", Message: "slippage: Too much SOL required to buy the given amount of tokens."},
	6003: {Program: ProgramName, Code: 6003, Name: "TooLittleSolReceived", Message: "slippage: Too little SOL received to sell the given amount of tokens."},
	6004: {Program: ProgramName, Code: 6004, Name: "MintDoesNotMatchBondingCurve", Message: "The mint does not match the bonding curve."},
	6005: {Program: ProgramName, Code: 6005, Name: "BondingCurveComplete", Message: "The bonding curve has completed and liquidity migrated to raydium."},
	6006: {Program: ProgramName, Code: 6006, Name: "BondingCurveNotComplete", Message: "The bonding curve has not completed."},
	6007: {Program: ProgramName, Code: 6007, Name: "NotInitialized", Message: "The program is not initialized."},
	6008: {Program: ProgramName, Code: 6008, Name: "WithdrawTooFrequent", Message: "Withdraw too frequent"},
	6009: {Program: ProgramName, Code: 6009, Name: "NewSizeShouldBeGreaterThanCurrentSize", Message: "New size should be greater than current size"},
	6010: {Program: ProgramName, Code: 6010, Name: "AccountTypeNotSupported", Message: "Account type not supported"},
	6011: {Program: ProgramName, Code: 6011, Name: "InitialRealTokenReservesShouldBeLessThanTokenTotalSupply", Message: "initial_real_token_reserves should be less than token_total_supply"},
	6012: {Program: ProgramName, Code: 6012, Name: "InitialVirtualTokenReservesShouldBeGreaterThanInitialRealTokenReserves", Message: "initial_virtual_token_reserves should be greater than initial_real_token_reserves"},
	6013: {Program: ProgramName, Code: 6013, Name: "FeeBasisPointsGreaterThanMaximum", Message: "fee_basis_points greater than maximum"},
	6014: {Program: ProgramName, Code: 6014, Name: "AllZerosWithdrawAuthority", Message: "Withdraw authority cannot be set to System Program ID"},
	6015: {Program: ProgramName, Code: 6015, Name: "PoolMigrationFeeShouldBeLessThanFinalRealSolReserves", Message: "pool_migration_fee should be less than final_real_sol_reserves"},
	6016: {Program: ProgramName, Code: 6016, Name: "PoolMigrationFeeShouldBeGreaterThanCreatorFeePlusMaxMigrateFees", Message: "pool_migration_fee should be greater than creator_fee + MAX_MIGRATE_FEES"},
	6017: {Program: ProgramName, Code: 6017, Name: "DisabledWithdraw", Message: "Withdraw instruction is disabled"},
	6018: {Program: ProgramName, Code: 6018, Name: "DisabledMigrate", Message: "Migrate instruction is disabled"},
	6019: {Program: ProgramName, Code: 6019, Name: "InvalidCreator", Message: "Invalid creator pubkey"},
	6020: {Program: ProgramName, Code: 6020, Name: "BuyZeroAmount", Message: "Buy zero amount"},
	6021: {Program: ProgramName, Code: 6021, Name: "NotEnoughTokensToBuy", Message: "Not enough tokens to buy"},
	6022: {Program: ProgramName, Code: 6022, Name: "SellZeroAmount", Message: "Sell zero amount"},
	6023: {Program: ProgramName, Code: 6023, Name: "NotEnoughTokensToSell", Message: "Not enough tokens to sell"},
	6024: {Program: ProgramName, Code: 6024, Name: "Overflow", Message: "Overflow"},
	6025: {Program: ProgramName, Code: 6025, Name: "Truncation", Message: "Truncation"},
	6026: {Program: ProgramName, Code: 6026, Name: "DivisionByZero", Message: "Division by zero"},
	6027: {Program: ProgramName, Code: 6027, Name: "NotEnoughRemainingAccounts", Message: "Not enough remaining accounts"},
	6028: {Program: ProgramName, Code: 6028, Name: "AllFeeRecipientsShouldBeNonZero", Message: "All fee recipients should be non-zero"},
	6029: {Program: ProgramName, Code: 6029, Name: "UnsortedNotUniqueFeeRecipients", Message: "Fee recipients should be sorted and unique"},
	6030: {Program: ProgramName, Code: 6030, Name: "CreatorShouldNotBeZero", Message: "Creator should not be zero"},
	6031: {Program: ProgramName, Code: 6031, Name: "StartTimeInThePast", Message: "Volume incentive start time is in the past"},
	6032: {Program: ProgramName, Code: 6032, Name: "EndTimeInThePast", Message: "Volume incentive end time is in the past"},
	6033: {Program: ProgramName, Code: 6033, Name: "EndTimeBeforeStartTime", Message: "Volume incentive end time is before start time"},
	6034: {Program: ProgramName, Code: 6034, Name: "TimeRangeTooLarge", Message: "Volume incentive time range is too large"},
	6035: {Program: ProgramName, Code: 6035, Name: "EndTimeBeforeCurrentDay", Message: "Volume incentive end time is before the current day"},
	6036: {Program: ProgramName, Code: 6036, Name: "SupplyUpdateForFinishedRange", Message: "Cannot update supply of a finished range"},
	6037: {Program: ProgramName, Code: 6037, Name: "DayIndexAfterEndIndex", Message: "Day index is after end index"},
	6038: {Program: ProgramName, Code: 6038, Name: "DayInActiveRange", Message: "Day is in an active range"},
	6039: {Program: ProgramName, Code: 6039, Name: "InvalidIncentiveMint", Message: "Invalid incentive mint"},
	6040: {Program: ProgramName, Code: 6040, Name: "BuyNotEnoughSolToCoverRent", Message: "Buy: Not enough SOL to cover for rent exemption."},
	6041: {Program: ProgramName, Code: 6041, Name: "BuyNotEnoughSolToCoverFees", Message: "Buy: Not enough SOL to cover for fees."},
	6042: {Program: ProgramName, Code: 6042, Name: "BuySlippageBelowMinTokensOut", Message: "Slippage: Would buy less tokens than expected min_tokens_out"},
}

// ErrorFromCode looks up a custom program error.
func ErrorFromCode(code int) (types.ProgramError, bool) {
	err, ok := Errors[code]
	return err, ok
}

var customErrorPattern = regexp.MustCompile(`custom program error: 0x([0-9a-fA-F]+)`)

// ParseError maps a simulation or submission error carrying
// "custom program error: 0x..." to a ProgramError. Other errors are
// returned unchanged.
func ParseError(err error) error {
	if err == nil {
		return nil
	}
	var progErr types.ProgramError
	if errors.As(err, &progErr) {
		return err
	}
	m := customErrorPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return err
	}
	code, convErr := strconv.ParseInt(m[1], 16, 32)
	if convErr != nil {
		return err
	}
	if pe, ok := ErrorFromCode(int(code)); ok {
		return pe
	}
	return err
}
