package license

import (
	"encoding/hex"
	"math/big"
	"strings"

	"golang.org/x/crypto/blake2b"
)

const systemIDLength = 16

// SystemID derives the device key shown to users and sent to the activation
// server: BLAKE2b-256 over "PROCESSORID:SERIAL", written in base 36, cut to
// 16 characters and grouped as XXXX-XXXX-XXXX-XXXX.
func SystemID(processorID, motherboardSerial string) string {
	input := strings.ToUpper(processorID + ":" + motherboardSerial)
	sum := blake2b.Sum256([]byte(input))

	n := new(big.Int)
	n.SetString(hex.EncodeToString(sum[:]), 16)
	base36 := strings.ToUpper(n.Text(36))

	if len(base36) < systemIDLength {
		base36 = strings.Repeat("0", systemIDLength-len(base36)) + base36
	}
	raw := base36[:systemIDLength]

	groups := make([]string, 0, systemIDLength/4)
	for i := 0; i < systemIDLength; i += 4 {
		groups = append(groups, raw[i:i+4])
	}
	return strings.Join(groups, "-")
}
