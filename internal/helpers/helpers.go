package helpers

import (
	"github.com/cyphera/passkey-wallet/internal/constants"
)

// IsValidStage checks if the provided stage string is one of the known runtime stages.
func IsValidStage(stage string) bool {
	switch stage {
	case constants.ProdEnvironment, constants.DevEnvironment, constants.LocalEnvironment, constants.TestEnvironment:
		return true
	default:
		return false
	}
}
