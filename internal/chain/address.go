package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// IsValidAddress reports whether s is a 20-byte hex address with an optional 0x prefix.
// The prefix must be lowercase. Mixed-case input must carry a valid EIP-55 checksum.
func IsValidAddress(s string) bool {
	if strings.HasPrefix(s, "0X") || !common.IsHexAddress(s) {
		return false
	}

	hex := strings.TrimPrefix(s, "0x")
	if hex == strings.ToLower(hex) || hex == strings.ToUpper(hex) {
		return true
	}

	return common.HexToAddress(hex).Hex()[2:] == hex
}
