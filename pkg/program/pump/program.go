// Package pump is the ABI of the pump.fun bonding-curve program: the static
// instruction schema, the account decoders and the instruction encoders.
package pump

import (
	"github.com/ninja0404/pump-curve-sdk/pkg/constants"
)

// ProgramName is used in error messages and program error values.
const ProgramName = "pump"

// ProgramKey is the mainnet program id.
var ProgramKey = constants.PumpProgramID
